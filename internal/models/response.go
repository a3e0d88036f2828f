package models

// StationResponse is the API representation of a station
type StationResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Coordinates *Coordinates `json:"coordinates"`
	Type        string       `json:"type,omitempty"`
	Voivodeship string       `json:"voivodeship,omitempty"`
	Lines       []string     `json:"lines,omitempty"`
}

// ConvertToResponse converts a Station to API response format
func (s *Station) ConvertToResponse(lines []string) StationResponse {
	return StationResponse{
		ID:          s.ID,
		Name:        s.DisplayName(),
		Coordinates: s.Coordinates,
		Type:        s.Type,
		Voivodeship: s.Voivodeship,
		Lines:       lines,
	}
}

// LineResponse is the API representation of a line
type LineResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category,omitempty"`
	Type         TypeKey  `json:"typeKey"`
	TypeLabel    string   `json:"typeLabel"`
	Stations     []string `json:"stations"`
	Skipped      []string `json:"skipped,omitempty"`
	Color        string   `json:"color,omitempty"`
	HexLightMode string   `json:"hexLightMode,omitempty"`
	HexDarkMode  string   `json:"hexDarkMode,omitempty"`
	Relation     string   `json:"relation,omitempty"`
}

// ConvertToResponse converts a Line to API response format
func (l *Line) ConvertToResponse() LineResponse {
	typ := LineType(l.ID, l)
	stations := l.Stations
	if stations == nil {
		stations = []string{}
	}
	return LineResponse{
		ID:           l.ID,
		Name:         l.ID + ": " + l.RelationTitle(),
		Category:     l.Category,
		Type:         typ,
		TypeLabel:    typ.Label(),
		Stations:     stations,
		Skipped:      l.Skipped,
		Color:        l.Color,
		HexLightMode: l.HexLightMode,
		HexDarkMode:  l.HexDarkMode,
		Relation:     l.Relation,
	}
}

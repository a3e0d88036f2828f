package models

import (
	"slices"
	"strings"
)

// Coordinates is a position on the map canvas expressed as (top%, left%)
type Coordinates [2]float64

// Top returns the vertical percentage
func (c Coordinates) Top() float64 { return c[0] }

// Left returns the horizontal percentage
func (c Coordinates) Left() float64 { return c[1] }

// Station represents a stop on the network map
type Station struct {
	ID          string       `json:"-"`
	Name        string       `json:"name,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Type        string       `json:"type,omitempty"`
	Voivodeship string       `json:"voivodeship,omitempty"`
}

// DisplayName returns the station name, falling back to its id
func (s *Station) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

// Placed reports whether the station has a position on the map
func (s *Station) Placed() bool {
	return s.Coordinates != nil
}

// Line represents a service pattern: an ordered stopping sequence plus display attributes
type Line struct {
	ID           string   `json:"-"`
	Category     string   `json:"category,omitempty"`
	Stations     []string `json:"stations,omitempty"`
	Skipped      []string `json:"skipped,omitempty"`
	Color        string   `json:"color,omitempty"`
	HexLightMode string   `json:"hexLightMode,omitempty"`
	HexDarkMode  string   `json:"hexDarkMode,omitempty"`
	Relation     string   `json:"relation,omitempty"`

	// Type is derived from ID and Category when the line is loaded
	Type TypeKey `json:"-"`
}

// IsSkipped reports whether the line passes through the station without stopping
func (l *Line) IsSkipped(stationID string) bool {
	if l == nil {
		return false
	}
	return slices.Contains(l.Skipped, stationID)
}

// RelationTitle returns the first line of the relation text
func (l *Line) RelationTitle() string {
	rel := l.Relation
	if i := strings.IndexAny(rel, "\r\n"); i >= 0 {
		rel = rel[:i]
	}
	return rel
}

// Clone returns a deep copy of the line
func (l *Line) Clone() *Line {
	c := *l
	c.Stations = slices.Clone(l.Stations)
	c.Skipped = slices.Clone(l.Skipped)
	return &c
}

// Leg is a contiguous run of a route on a single line
type Leg struct {
	LineID   string   `json:"lineId"`
	Stations []string `json:"stations"`
}

// Board returns the station where the leg starts
func (l Leg) Board() string {
	if len(l.Stations) == 0 {
		return ""
	}
	return l.Stations[0]
}

// Alight returns the station where the leg ends
func (l Leg) Alight() string {
	if len(l.Stations) == 0 {
		return ""
	}
	return l.Stations[len(l.Stations)-1]
}

// Route is an itinerary between two stations
type Route struct {
	Transfers int   `json:"transfers"`
	Steps     int   `json:"steps"`
	Legs      []Leg `json:"legs"`
}

// Signature identifies a route by its ordered legs and stations
func (r *Route) Signature() string {
	parts := make([]string, len(r.Legs))
	for i, leg := range r.Legs {
		parts[i] = leg.LineID + ":" + strings.Join(leg.Stations, "-")
	}
	return strings.Join(parts, "|")
}

// Source returns the first station of the route
func (r *Route) Source() string {
	if len(r.Legs) == 0 {
		return ""
	}
	return r.Legs[0].Board()
}

// Destination returns the last station of the route
func (r *Route) Destination() string {
	if len(r.Legs) == 0 {
		return ""
	}
	return r.Legs[len(r.Legs)-1].Alight()
}

// Lines returns the distinct line ids of the route in the order they are ridden
func (r *Route) Lines() []string {
	var ids []string
	for _, leg := range r.Legs {
		if !slices.Contains(ids, leg.LineID) {
			ids = append(ids, leg.LineID)
		}
	}
	return ids
}

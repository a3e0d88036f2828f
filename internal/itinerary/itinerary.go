package itinerary

import (
	"fmt"
	"math"
	"strings"

	"github.com/jusunglee/railmap-go/internal/models"
)

// Theme selects the color palette
type Theme int

const (
	ThemeLight Theme = iota
	ThemeDark
)

// ParseTheme accepts "light" or "dark"; anything else is light
func ParseTheme(v string) Theme {
	if strings.EqualFold(strings.TrimSpace(v), "dark") {
		return ThemeDark
	}
	return ThemeLight
}

// String returns "light" or "dark"
func (t Theme) String() string {
	if t == ThemeDark {
		return "dark"
	}
	return "light"
}

// Named line colors
var (
	lightColors = map[string]string{
		"Red": "#d32f2f", "Pink": "#e91e63", "Blue": "#1976d2", "Green": "#388e3c", "White": "#ffffff", "Black": "#000000",
		"Grey": "#757575", "Gray": "#757575", "Brown": "#6d4c41", "Lime": "#cddc39", "Yellow": "#fbc02d", "Cyan": "#00bcd4",
		"Purple": "#7b1fa2", "Light Blue": "#03a9f4", "Light blue": "#03a9f4", "Magenta": "#d81b60", "Light gray": "#bdbdbd", "Light grey": "#bdbdbd",
		"Orange": "#ff9800", "Birch": "#c0a16b", "Warped": "#673ab7", "Accacia": "#9ccc65", "Cherry": "#c2185b", "Oak": "#795548",
		"Mangrove": "#2e7d32", "Jungle": "#43a047",
	}
	darkColors = map[string]string{
		"Red": "#ef5350", "Pink": "#f06292", "Blue": "#64b5f6", "Green": "#66bb6a", "White": "#eceff1", "Black": "#cfd8dc",
		"Grey": "#bdbdbd", "Gray": "#bdbdbd", "Brown": "#bcaaa4", "Lime": "#dce775", "Yellow": "#ffd54f", "Cyan": "#4dd0e1",
		"Purple": "#ba68c8", "Light Blue": "#4fc3f7", "Light blue": "#4fc3f7", "Magenta": "#f48fb1", "Light gray": "#e0e0e0", "Light grey": "#e0e0e0",
		"Orange": "#ffa726", "Birch": "#d7b98c", "Warped": "#9575cd", "Accacia": "#aed581", "Cherry": "#e57373", "Oak": "#a1887f",
		"Mangrove": "#81c784", "Jungle": "#81c784",
	}
)

const (
	fallbackLight = "#555"
	fallbackDark  = "#bdbdbd"

	// NoRouteColor is used for cards without legs
	NoRouteColor = "#999"
)

// LineColor resolves the display color of a line. Explicit hex values win
// over the named color; unknown lines get the theme fallback.
func LineColor(line *models.Line, theme Theme) string {
	fallback, named := fallbackLight, lightColors
	if theme == ThemeDark {
		fallback, named = fallbackDark, darkColors
	}
	if line == nil {
		return fallback
	}
	if theme == ThemeDark && line.HexDarkMode != "" {
		return line.HexDarkMode
	}
	if theme == ThemeLight && line.HexLightMode != "" {
		return line.HexLightMode
	}
	if c, ok := named[line.Color]; ok {
		return c
	}
	return fallback
}

// Stop is a station as shown inside a leg
type Stop struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Skipped bool   `json:"skipped,omitempty"`
}

// Leg is the rendered form of a route leg
type Leg struct {
	LineID    string         `json:"lineId"`
	Name      string         `json:"name"`
	Type      models.TypeKey `json:"typeKey"`
	TypeLabel string         `json:"typeLabel"`
	Color     string         `json:"color"`
	Board     string         `json:"board"`
	Alight    string         `json:"alight"`
	Stops     []Stop         `json:"stops"`
}

// Bounds is the rectangle on the map canvas covering a route
type Bounds struct {
	MinTop  float64 `json:"minTop"`
	MinLeft float64 `json:"minLeft"`
	MaxTop  float64 `json:"maxTop"`
	MaxLeft float64 `json:"maxLeft"`
}

// Card is an itinerary ready for display
type Card struct {
	Index     int          `json:"index"`
	Selected  bool         `json:"selected"`
	Transfers int          `json:"transfers"`
	Steps     int          `json:"steps"`
	Color     string       `json:"color"`
	Legs      []Leg        `json:"legs"`
	Alights   []string     `json:"alights"`
	Important []string     `json:"important"`
	Bounds    *Bounds      `json:"bounds,omitempty"`
	Route     models.Route `json:"route"`
}

// Builder turns routes into cards using the station and line dictionaries
type Builder struct {
	stations map[string]*models.Station
	lines    map[string]*models.Line
	theme    Theme
}

// NewBuilder creates a card builder
func NewBuilder(stations map[string]*models.Station, lines map[string]*models.Line, theme Theme) *Builder {
	return &Builder{stations: stations, lines: lines, theme: theme}
}

// Cards renders every route. A selection outside the range selects nothing.
func (b *Builder) Cards(routes []models.Route, selected int) []Card {
	cards := make([]Card, len(routes))
	for i, r := range routes {
		cards[i] = b.Card(i, r)
		cards[i].Selected = i == selected
	}
	return cards
}

// Card renders a single route
func (b *Builder) Card(index int, r models.Route) Card {
	card := Card{
		Index:     index,
		Transfers: r.Transfers,
		Steps:     r.Steps,
		Color:     NoRouteColor,
		Legs:      make([]Leg, len(r.Legs)),
		Alights:   AlightStations(r),
		Important: ImportantStations(r),
		Route:     r,
	}
	if len(r.Legs) > 0 {
		card.Color = LineColor(b.lines[r.Legs[0].LineID], b.theme)
	}
	for i, leg := range r.Legs {
		card.Legs[i] = b.leg(leg)
	}
	if bounds, ok := RouteBounds(b.stations, r); ok {
		card.Bounds = &bounds
	}
	return card
}

func (b *Builder) leg(leg models.Leg) Leg {
	line := b.lines[leg.LineID]
	typ := models.LineType(leg.LineID, line)

	relation := ""
	if line != nil {
		relation = line.RelationTitle()
	}

	out := Leg{
		LineID:    leg.LineID,
		Name:      leg.LineID + ": " + relation,
		Type:      typ,
		TypeLabel: typ.Label(),
		Color:     LineColor(line, b.theme),
		Board:     b.stationName(leg.Board()),
		Alight:    b.stationName(leg.Alight()),
	}

	last := len(leg.Stations) - 1
	for i, sid := range leg.Stations {
		skipped := i != 0 && i != last && line.IsSkipped(sid)
		// Intercity legs leave out the stations they pass through
		if skipped && typ == models.TypeIC {
			continue
		}
		out.Stops = append(out.Stops, Stop{ID: sid, Name: b.stationName(sid), Skipped: skipped})
	}
	return out
}

func (b *Builder) stationName(id string) string {
	if st, ok := b.stations[id]; ok && st != nil {
		if st.Name != "" {
			return st.Name
		}
	}
	return id
}

// AlightStations returns where each leg ends
func AlightStations(r models.Route) []string {
	out := make([]string, 0, len(r.Legs))
	for _, leg := range r.Legs {
		out = appendUnique(out, leg.Alight())
	}
	return out
}

// ImportantStations returns the start, the destination and every boarding
// and alighting point of a route, without repeats
func ImportantStations(r models.Route) []string {
	if len(r.Legs) == 0 {
		return []string{}
	}
	out := []string{r.Source(), r.Destination()}
	if out[0] == out[1] {
		out = out[:1]
	}
	for _, leg := range r.Legs {
		out = appendUnique(out, leg.Board())
		out = appendUnique(out, leg.Alight())
	}
	return out
}

// RouteBounds returns the rectangle covering every placed station of a route
func RouteBounds(stations map[string]*models.Station, r models.Route) (Bounds, bool) {
	bounds := Bounds{
		MinTop:  math.Inf(1),
		MinLeft: math.Inf(1),
		MaxTop:  math.Inf(-1),
		MaxLeft: math.Inf(-1),
	}
	found := false
	for _, leg := range r.Legs {
		for _, sid := range leg.Stations {
			st, ok := stations[sid]
			if !ok || st == nil || !st.Placed() {
				continue
			}
			found = true
			top, left := st.Coordinates.Top(), st.Coordinates.Left()
			bounds.MinTop = math.Min(bounds.MinTop, top)
			bounds.MaxTop = math.Max(bounds.MaxTop, top)
			bounds.MinLeft = math.Min(bounds.MinLeft, left)
			bounds.MaxLeft = math.Max(bounds.MaxLeft, left)
		}
	}
	if !found {
		return Bounds{}, false
	}
	return bounds, true
}

// Summary is the one line header of a card
func (c Card) Summary() string {
	return fmt.Sprintf("Przesiadki: %d • Przystanki: %d", c.Transfers, c.Steps)
}

func appendUnique(list []string, id string) []string {
	for _, v := range list {
		if v == id {
			return list
		}
	}
	return append(list, id)
}

package itinerary

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/jusunglee/railmap-go/internal/feed"
	"github.com/jusunglee/railmap-go/internal/models"
)

func sampleRoute() models.Route {
	return models.Route{
		Transfers: 1,
		Steps:     4,
		Legs: []models.Leg{
			{LineID: "IC1", Stations: []string{"GD", "MB", "WAW"}},
			{LineID: "R1", Stations: []string{"WAW", "WZ", "SK"}},
		},
	}
}

func TestLineColor(t *testing.T) {
	_, lines := feed.SampleNetwork()

	tests := []struct {
		name     string
		line     *models.Line
		theme    Theme
		expected string
	}{
		{"named light", lines["IC1"], ThemeLight, "#d32f2f"},
		{"named dark", lines["NŻ1"], ThemeDark, "#ba68c8"},
		{"hex light", lines["M1"], ThemeLight, "#1565c0"},
		{"hex dark", lines["M1"], ThemeDark, "#90caf9"},
		{"unknown name", &models.Line{Color: "Mauve"}, ThemeLight, "#555"},
		{"missing line light", nil, ThemeLight, "#555"},
		{"missing line dark", nil, ThemeDark, "#bdbdbd"},
		{"dark hex only used in dark", &models.Line{HexDarkMode: "#010101", Color: "Blue"}, ThemeLight, "#1976d2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LineColor(tt.line, tt.theme); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestCard(t *testing.T) {
	stations, lines := feed.SampleNetwork()
	b := NewBuilder(stations, lines, ThemeLight)

	card := b.Card(0, sampleRoute())

	if card.Transfers != 1 || card.Steps != 4 {
		t.Errorf("Unexpected counts: %d transfers, %d steps", card.Transfers, card.Steps)
	}
	if card.Color != "#d32f2f" {
		t.Errorf("Expected card color of the first line, got %s", card.Color)
	}
	if len(card.Legs) != 2 {
		t.Fatalf("Expected 2 legs, got %d", len(card.Legs))
	}

	ic := card.Legs[0]
	if ic.Name != "IC1: Gdańsk - Kraków" {
		t.Errorf("Unexpected leg name %q", ic.Name)
	}
	if ic.Type != models.TypeIC || ic.TypeLabel != "InterCity" {
		t.Errorf("Unexpected type %v %q", ic.Type, ic.TypeLabel)
	}
	if ic.Board != "Gdańsk Główny" || ic.Alight != "Warszawa Centralna" {
		t.Errorf("Unexpected board/alight %q %q", ic.Board, ic.Alight)
	}
	// Malbork is passed through and left out
	if got := stopIDs(ic.Stops); !reflect.DeepEqual(got, []string{"GD", "WAW"}) {
		t.Errorf("Unexpected IC stops %v", got)
	}

	regio := card.Legs[1]
	if regio.TypeLabel != "Regionalne" || regio.Name != "R1: Warszawa - Łódź" {
		t.Errorf("Unexpected regional leg %+v", regio)
	}
	if got := stopIDs(regio.Stops); !reflect.DeepEqual(got, []string{"WAW", "WZ", "SK"}) {
		t.Errorf("Unexpected regional stops %v", got)
	}

	if !reflect.DeepEqual(card.Alights, []string{"WAW", "SK"}) {
		t.Errorf("Unexpected alights %v", card.Alights)
	}
	if !reflect.DeepEqual(card.Important, []string{"GD", "SK", "WAW"}) {
		t.Errorf("Unexpected important stations %v", card.Important)
	}

	want := Bounds{MinTop: 10, MinLeft: 50, MaxTop: 48, MaxLeft: 60}
	if card.Bounds == nil || *card.Bounds != want {
		t.Errorf("Expected bounds %+v, got %+v", want, card.Bounds)
	}
}

func TestSkippedMarkers(t *testing.T) {
	stations := map[string]*models.Station{
		"A": {Name: "Alfa"},
		"B": {Name: "Bravo"},
		"C": {},
	}
	lines := map[string]*models.Line{
		"R9": {Category: "REGIO", Stations: []string{"A", "B", "C"}, Skipped: []string{"B", "C"}},
	}
	b := NewBuilder(stations, lines, ThemeDark)

	card := b.Card(0, models.Route{Steps: 2, Legs: []models.Leg{{LineID: "R9", Stations: []string{"A", "B", "C"}}}})

	stops := card.Legs[0].Stops
	expected := []Stop{
		{ID: "A", Name: "Alfa"},
		{ID: "B", Name: "Bravo", Skipped: true},
		{ID: "C", Name: "C"},
	}
	if !reflect.DeepEqual(stops, expected) {
		t.Errorf("Expected %+v, got %+v", expected, stops)
	}
	if card.Bounds != nil {
		t.Errorf("Expected no bounds for unplaced stations, got %+v", card.Bounds)
	}
	if card.Legs[0].Name != "R9: " {
		t.Errorf("Expected empty relation, got %q", card.Legs[0].Name)
	}
}

func TestCards(t *testing.T) {
	stations, lines := feed.SampleNetwork()
	b := NewBuilder(stations, lines, ThemeLight)

	routes := []models.Route{sampleRoute(), {Legs: []models.Leg{{LineID: "R1", Stations: []string{"WAW", "WZ"}}}, Steps: 1}}
	cards := b.Cards(routes, 1)

	if len(cards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(cards))
	}
	if cards[0].Selected || !cards[1].Selected {
		t.Error("Expected only the second card to be selected")
	}
	if cards[1].Index != 1 {
		t.Errorf("Expected index 1, got %d", cards[1].Index)
	}

	empty := b.Card(0, models.Route{})
	if empty.Color != NoRouteColor || len(empty.Important) != 0 {
		t.Errorf("Unexpected empty card %+v", empty)
	}
}

func TestWriteText(t *testing.T) {
	stations, lines := feed.SampleNetwork()
	b := NewBuilder(stations, lines, ThemeLight)

	var buf bytes.Buffer
	if err := WriteText(&buf, b.Cards([]models.Route{sampleRoute()}, 0)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"* Trasa 1  Przesiadki: 1 • Przystanki: 4",
		"1. IC1: Gdańsk - Kraków [InterCity]",
		"Gdańsk Główny → Warszawa Centralna",
		"Wysiąść: Skierniewice",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := WriteText(&buf, nil); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != NoRouteText {
		t.Errorf("Expected %q, got %q", NoRouteText, buf.String())
	}
}

func TestParseTheme(t *testing.T) {
	if ParseTheme("DARK") != ThemeDark || ParseTheme("") != ThemeLight || ParseTheme("sepia") != ThemeLight {
		t.Error("Unexpected theme parsing")
	}
}

func stopIDs(stops []Stop) []string {
	ids := make([]string, len(stops))
	for i, s := range stops {
		ids[i] = s.ID
	}
	return ids
}

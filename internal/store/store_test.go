package store

import (
	"errors"
	"testing"
	"time"

	"github.com/jusunglee/railmap-go/internal/models"
)

func at(top, left float64) *models.Coordinates {
	return &models.Coordinates{top, left}
}

func TestStore(t *testing.T) {
	s := NewStore()

	// Test data
	stations := map[string]*models.Station{
		"MB":  {Name: "Malbork", Coordinates: at(10, 50)},
		"LU":  {Name: "Lublin", Coordinates: at(60, 80)},
		"LF":  {Name: "Łódź Fabryczna", Coordinates: at(50, 45)},
		"WAW": {Name: "Warszawa Centralna", Coordinates: at(45, 60)},
		"XX":  {Name: "Nowhere"},
	}
	lines := map[string]*models.Line{
		"IC1": {Category: "IC", Stations: []string{"MB", "WAW", "LU"}},
		"R2":  {Category: "REGIONALNE", Stations: []string{"LF", "WAW"}, Skipped: []string{"WAW"}},
		"M1":  {Category: "METRO", Stations: []string{"WAW", "WAW"}},
	}

	s.Update(stations, lines)

	t.Run("GetStations", func(t *testing.T) {
		results := s.GetStations()
		expected := []string{"LU", "LF", "MB", "XX", "WAW"}
		if len(results) != len(expected) {
			t.Fatalf("Expected %d stations, got %d", len(expected), len(results))
		}
		for i, id := range expected {
			if results[i].ID != id {
				t.Errorf("Position %d: expected %s, got %s", i, id, results[i].ID)
			}
		}
	})

	t.Run("GetStation", func(t *testing.T) {
		st, err := s.GetStation("WAW")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if st.ID != "WAW" || st.Name != "Warszawa Centralna" {
			t.Errorf("Unexpected station %+v", st)
		}

		_, err = s.GetStation("NOPE")
		if !errors.Is(err, ErrStationNotFound) {
			t.Errorf("Expected ErrStationNotFound, got %v", err)
		}
	})

	t.Run("GetLines", func(t *testing.T) {
		results := s.GetLines()
		expected := []string{"IC1", "M1", "R2"}
		if len(results) != len(expected) {
			t.Fatalf("Expected %d lines, got %d", len(expected), len(results))
		}
		for i, id := range expected {
			if results[i].ID != id {
				t.Errorf("Position %d: expected %s, got %s", i, id, results[i].ID)
			}
		}
	})

	t.Run("GetLine", func(t *testing.T) {
		ln, err := s.GetLine("R2")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if ln.Type != models.TypeRegio {
			t.Errorf("Expected REGIO type, got %v", ln.Type)
		}

		// Returned lines are copies
		ln.Stations[0] = "CHANGED"
		again, _ := s.GetLine("R2")
		if again.Stations[0] != "LF" {
			t.Error("GetLine returned a shared slice")
		}

		_, err = s.GetLine("X9")
		if !errors.Is(err, ErrLineNotFound) {
			t.Errorf("Expected ErrLineNotFound, got %v", err)
		}
	})

	t.Run("Classification", func(t *testing.T) {
		want := map[string]models.TypeKey{
			"IC1": models.TypeIC,
			"R2":  models.TypeRegio,
			"M1":  models.TypeMetro,
		}
		for id, typ := range want {
			ln, _ := s.GetLine(id)
			if ln.Type != typ {
				t.Errorf("Line %s: expected %v, got %v", id, typ, ln.Type)
			}
		}
	})

	t.Run("GetLinesByStation", func(t *testing.T) {
		results := s.GetLinesByStation("WAW")
		expected := []string{"IC1", "M1", "R2"}
		if len(results) != len(expected) {
			t.Fatalf("Expected %v, got %v", expected, results)
		}
		for i := range expected {
			if results[i] != expected[i] {
				t.Errorf("Expected %v, got %v", expected, results)
			}
		}
		if len(s.GetLinesByStation("XX")) != 0 {
			t.Error("Expected no lines for an unconnected station")
		}
	})

	t.Run("GetStationsNear", func(t *testing.T) {
		results := s.GetStationsNear(46, 59, 2)
		if len(results) != 2 {
			t.Fatalf("Expected 2 stations, got %d", len(results))
		}
		if results[0].ID != "WAW" {
			t.Errorf("Expected nearest station to be WAW, got %s", results[0].ID)
		}
		if results[1].ID != "LF" {
			t.Errorf("Expected second station to be LF, got %s", results[1].ID)
		}

		// Unplaced stations are never returned
		all := s.GetStationsNear(0, 0, 10)
		if len(all) != 4 {
			t.Errorf("Expected 4 placed stations, got %d", len(all))
		}
	})

	t.Run("GetLastUpdate", func(t *testing.T) {
		lastUpdate := s.GetLastUpdate()
		if time.Since(lastUpdate) > time.Minute {
			t.Error("Last update time is too old")
		}
	})
}

func TestResolveStation(t *testing.T) {
	s := NewStore()
	s.Update(map[string]*models.Station{
		"WAW": {Name: "Warszawa Centralna"},
		"KR":  {Name: "Kraków Główny"},
		"GD":  {},
	}, map[string]*models.Line{})

	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"Warszawa Centralna (WAW)", "WAW", false},
		{"Something else (KR)", "KR", false},
		{"waw", "WAW", false},
		{"  KR  ", "KR", false},
		{"kraków główny", "KR", false},
		{"GD", "GD", false},
		{"Gdańsk", "", true},
		{"Unknown (ZZ)", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := s.ResolveStation(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrStationNotFound) {
					t.Errorf("Expected ErrStationNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestSnapshotVersion(t *testing.T) {
	s := NewStore()
	if v := s.Snapshot().Version; v != 0 {
		t.Errorf("Expected version 0 for an empty store, got %d", v)
	}

	s.Update(map[string]*models.Station{"A": {}}, map[string]*models.Line{})
	first := s.Snapshot()
	s.Update(map[string]*models.Station{"B": {}}, map[string]*models.Line{})
	second := s.Snapshot()

	if second.Version != first.Version+1 {
		t.Errorf("Expected version to increase by one, got %d then %d", first.Version, second.Version)
	}
	if _, ok := first.Stations["A"]; !ok {
		t.Error("Earlier snapshot changed after update")
	}
	if _, ok := second.Stations["A"]; ok {
		t.Error("Update did not replace stations")
	}
}

func TestDistance(t *testing.T) {
	dist := distance(0, 0, 3, 4)
	if dist != 5 {
		t.Errorf("Expected distance 5, got %.2f", dist)
	}

	// Same location
	dist = distance(40.5, 20.25, 40.5, 20.25)
	if dist != 0 {
		t.Errorf("Expected distance 0, got %.2f", dist)
	}
}

package transit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jusunglee/railmap-go/internal/feed"
	"github.com/jusunglee/railmap-go/internal/itinerary"
	"github.com/jusunglee/railmap-go/internal/models"
	"github.com/jusunglee/railmap-go/internal/routing"
	"github.com/jusunglee/railmap-go/internal/store"
)

func testConfig() Config {
	config := DefaultConfig()
	config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return config
}

func sampleClient() *LocalClient {
	stations, lines := feed.SampleNetwork()
	return NewStatic(stations, lines, testConfig())
}

func gdanskToLodz() routing.Query {
	return routing.DefaultPreferences().Query("GD", "LF", 0)
}

func TestFindRoutes(t *testing.T) {
	c := sampleClient()

	routes, err := c.FindRoutes(context.Background(), gdanskToLodz())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := []string{
		"IC1:GD-MB-WAW|R1:WAW-WZ-SK-LF",
		"IC1:GD-MB-WAW-RD-KR|IC2:KR-KT-LF",
	}
	if len(routes) != len(expected) {
		t.Fatalf("Expected %d routes, got %d", len(expected), len(routes))
	}
	for i, sig := range expected {
		if got := routes[i].Signature(); got != sig {
			t.Errorf("Route %d: expected %s, got %s", i, sig, got)
		}
	}
	if routes[0].Transfers != 1 || routes[0].Steps != 5 {
		t.Errorf("Unexpected primary route counts %d/%d", routes[0].Transfers, routes[0].Steps)
	}

	t.Run("cached", func(t *testing.T) {
		if n := c.cache.Len(false); n != 1 {
			t.Errorf("Expected 1 cached search, got %d", n)
		}
		again, err := c.FindRoutes(context.Background(), gdanskToLodz())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(again) != len(routes) || again[0].Signature() != routes[0].Signature() {
			t.Error("Cached result differs")
		}
		if hits := c.cache.HitCount(); hits != 1 {
			t.Errorf("Expected 1 cache hit, got %d", hits)
		}
	})

	t.Run("type filter", func(t *testing.T) {
		q := gdanskToLodz()
		q.Types = models.NewTypeSet(models.TypeRegio)
		routes, err := c.FindRoutes(context.Background(), q)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(routes) != 0 {
			t.Errorf("Expected no route without intercity lines, got %d", len(routes))
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := c.FindRoutes(ctx, gdanskToLodz()); !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	})
}

func TestFindRoutesConcurrent(t *testing.T) {
	config := testConfig()
	config.CacheSize = 0
	stations, lines := feed.SampleNetwork()
	c := NewStatic(stations, lines, config)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			routes, err := c.FindRoutes(context.Background(), gdanskToLodz())
			if err != nil || len(routes) == 0 {
				return
			}
			results[i] = routes[0].Signature()
		}(i)
	}
	wg.Wait()

	for i, sig := range results {
		if sig != "IC1:GD-MB-WAW|R1:WAW-WZ-SK-LF" {
			t.Errorf("Search %d returned %q", i, sig)
		}
	}
}

func TestItineraries(t *testing.T) {
	c := sampleClient()

	cards, err := c.Itineraries(context.Background(), gdanskToLodz(), itinerary.ThemeDark, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(cards))
	}
	if !cards[1].Selected || cards[0].Selected {
		t.Error("Expected the second card to be selected")
	}
	if cards[0].Legs[0].Name != "IC1: Gdańsk - Kraków" {
		t.Errorf("Unexpected leg name %q", cards[0].Legs[0].Name)
	}
	if cards[0].Color != "#ef5350" {
		t.Errorf("Expected dark red, got %s", cards[0].Color)
	}
}

func TestLookups(t *testing.T) {
	c := sampleClient()

	id, err := c.ResolveStation("Łódź Fabryczna")
	if err != nil || id != "LF" {
		t.Errorf("Expected LF, got %q (%v)", id, err)
	}

	lines, err := c.GetLinesByStation("WAW")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(lines) != 4 {
		t.Errorf("Expected 4 lines through WAW, got %v", lines)
	}

	if _, err := c.GetLinesByStation("NOPE"); !errors.Is(err, store.ErrStationNotFound) {
		t.Errorf("Expected ErrStationNotFound, got %v", err)
	}

	near, err := c.GetStationsNear(45, 60, 1)
	if err != nil || len(near) != 1 || near[0].ID != "WAW" {
		t.Errorf("Expected WAW nearest, got %v (%v)", near, err)
	}

	stats := c.Stats()
	if stats.Stations != 13 || stats.Lines != 6 || stats.Version != 1 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

func TestNewLocal(t *testing.T) {
	dir := t.TempDir()
	stPath := filepath.Join(dir, "stations.json")
	lnPath := filepath.Join(dir, "lines.json")
	if err := os.WriteFile(stPath, []byte(feed.SampleStationsJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(lnPath, []byte(feed.SampleLinesJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	config := testConfig()
	config.StationsSource = stPath
	config.LinesSource = lnPath

	c, err := NewLocal(context.Background(), config)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer c.Close()

	if got := c.Stats().Stations; got != 13 {
		t.Errorf("Expected 13 stations, got %d", got)
	}
	if c.GetLastUpdate().IsZero() {
		t.Error("Expected a load time")
	}

	config.LinesSource = filepath.Join(dir, "missing.json")
	if _, err := NewLocal(context.Background(), config); err == nil {
		t.Error("Expected error for a missing source")
	}
}

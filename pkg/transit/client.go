package transit

import (
	"context"
	"log/slog"
	"time"

	"github.com/jusunglee/railmap-go/internal/feed"
	"github.com/jusunglee/railmap-go/internal/itinerary"
	"github.com/jusunglee/railmap-go/internal/models"
	"github.com/jusunglee/railmap-go/internal/routing"
)

// Client defines the interface for querying the network
// Abstracts the data source (loaded files or an in-memory network) behind a common interface
type Client interface {
	GetStations() ([]models.Station, error)
	GetStation(id string) (models.Station, error)
	ResolveStation(text string) (string, error)
	GetStationsNear(top, left float64, limit int) ([]models.Station, error)

	GetLines() ([]models.Line, error)
	GetLine(id string) (models.Line, error)
	GetLinesByStation(id string) ([]string, error)

	// FindRoutes returns the best route and its alternates. Returned routes
	// are shared with the cache and must not be modified.
	FindRoutes(ctx context.Context, q routing.Query) ([]models.Route, error)
	// Itineraries runs FindRoutes and renders the result against the same network snapshot
	Itineraries(ctx context.Context, q routing.Query, theme itinerary.Theme, selected int) ([]itinerary.Card, error)

	Stats() Stats
	GetLastUpdate() time.Time
}

// Stats describes the loaded network
type Stats struct {
	Stations int       `json:"stations"`
	Lines    int       `json:"lines"`
	Version  uint64    `json:"version"`
	LoadedAt time.Time `json:"loadedAt"`
}

// Config holds configuration for the local client
type Config struct {
	StationsSource string
	LinesSource    string
	// ReloadInterval of zero loads the sources once
	ReloadInterval time.Duration
	HTTPTimeout    time.Duration
	// CacheSize of zero disables the route cache
	CacheSize int
	CacheTTL  time.Duration
	Logger    *slog.Logger
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		StationsSource: feed.DefaultStationsSource,
		LinesSource:    feed.DefaultLinesSource,
		HTTPTimeout:    30 * time.Second,
		CacheSize:      256,
		CacheTTL:       10 * time.Minute,
	}
}

package transit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"

	"github.com/jusunglee/railmap-go/internal/feed"
	"github.com/jusunglee/railmap-go/internal/itinerary"
	"github.com/jusunglee/railmap-go/internal/models"
	"github.com/jusunglee/railmap-go/internal/routing"
	"github.com/jusunglee/railmap-go/internal/store"
)

var _ Client = (*LocalClient)(nil)

// LocalClient implements the Client interface over an in-memory store
// Route searches are cached per network version and identical concurrent
// searches share one computation
type LocalClient struct {
	store       *store.Store
	feedManager *feed.Manager
	cache       gcache.Cache
	group       singleflight.Group
	logger      *slog.Logger
}

// NewLocal creates a client, loads both sources and starts the reload loop
// when configured. Loading errors are returned rather than retried.
func NewLocal(ctx context.Context, config Config) (*LocalClient, error) {
	c := newClient(config)

	fm := feed.NewManager(config.StationsSource, config.LinesSource, c.store, config.ReloadInterval)
	if config.HTTPTimeout > 0 {
		fm.SetHTTPTimeout(config.HTTPTimeout)
	}
	fm.SetLogger(c.logger)

	if _, err := fm.Load(ctx); err != nil {
		return nil, fmt.Errorf("loading network: %w", err)
	}
	fm.Start()
	c.feedManager = fm

	return c, nil
}

// NewStatic creates a client over dictionaries that are already in memory
func NewStatic(stations map[string]*models.Station, lines map[string]*models.Line, config Config) *LocalClient {
	c := newClient(config)
	c.store.Update(stations, lines)
	return c
}

func newClient(config Config) *LocalClient {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &LocalClient{
		store:  store.NewStore(),
		logger: logger,
	}
	if config.CacheSize > 0 {
		b := gcache.New(config.CacheSize).LRU()
		if config.CacheTTL > 0 {
			b = b.Expiration(config.CacheTTL)
		}
		c.cache = b.Build()
	}
	return c
}

// Close stops background reloads
// Must be called to stop background goroutines and prevent leaks
func (c *LocalClient) Close() {
	if c.feedManager != nil {
		c.feedManager.Stop()
	}
}

func (c *LocalClient) GetStations() ([]models.Station, error) {
	return c.store.GetStations(), nil
}

func (c *LocalClient) GetStation(id string) (models.Station, error) {
	return c.store.GetStation(id)
}

func (c *LocalClient) ResolveStation(text string) (string, error) {
	return c.store.ResolveStation(text)
}

func (c *LocalClient) GetStationsNear(top, left float64, limit int) ([]models.Station, error) {
	return c.store.GetStationsNear(top, left, limit), nil
}

func (c *LocalClient) GetLines() ([]models.Line, error) {
	return c.store.GetLines(), nil
}

func (c *LocalClient) GetLine(id string) (models.Line, error) {
	return c.store.GetLine(id)
}

func (c *LocalClient) GetLinesByStation(id string) ([]string, error) {
	if _, err := c.store.GetStation(id); err != nil {
		return nil, err
	}
	return c.store.GetLinesByStation(id), nil
}

func (c *LocalClient) FindRoutes(ctx context.Context, q routing.Query) ([]models.Route, error) {
	return c.findRoutes(ctx, c.store.Snapshot(), q)
}

func (c *LocalClient) Itineraries(ctx context.Context, q routing.Query, theme itinerary.Theme, selected int) ([]itinerary.Card, error) {
	snap := c.store.Snapshot()
	routes, err := c.findRoutes(ctx, snap, q)
	if err != nil {
		return nil, err
	}
	return itinerary.NewBuilder(snap.Stations, snap.Lines, theme).Cards(routes, selected), nil
}

func (c *LocalClient) Stats() Stats {
	snap := c.store.Snapshot()
	return Stats{
		Stations: len(snap.Stations),
		Lines:    len(snap.Lines),
		Version:  snap.Version,
		LoadedAt: snap.LoadedAt,
	}
}

func (c *LocalClient) GetLastUpdate() time.Time {
	return c.store.GetLastUpdate()
}

func (c *LocalClient) findRoutes(ctx context.Context, snap *store.Snapshot, q routing.Query) ([]models.Route, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q.MaxResults <= 0 {
		q.MaxResults = routing.DefaultMaxResults
	}
	key := cacheKey(snap.Version, q)

	if c.cache != nil {
		if cached, err := c.cache.Get(key); err == nil {
			c.logger.Debug("Route cache hit", "key", key)
			return cached.([]models.Route), nil
		}
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		start := time.Now()
		routes := routing.NewEngine(snap.Stations, snap.Lines).FindRoutes(q)
		c.logger.Debug("Route search",
			"from", q.From,
			"to", q.To,
			"types", q.Types.String(),
			"priority", q.Priority.String(),
			"routes", len(routes),
			"duration", time.Since(start))
		if c.cache != nil {
			if err := c.cache.Set(key, routes); err != nil {
				c.logger.Warn("Failed to cache routes", "error", err)
			}
		}
		return routes, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.Route), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// cacheKey identifies a search on one version of the network
func cacheKey(version uint64, q routing.Query) string {
	return fmt.Sprintf("%d|%s|%s|%s|%s|%d", version, q.From, q.To, q.Types.Hex(), q.Priority.Code(), q.MaxResults)
}

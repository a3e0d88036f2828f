package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jusunglee/railmap-go/internal/models"
	"github.com/jusunglee/railmap-go/internal/store"
)

// ErrNoData is returned when a source yields no stations
var ErrNoData = errors.New("no station data")

// Default sources, relative to the working directory
const (
	DefaultStationsSource = "assets/stations.json"
	DefaultLinesSource    = "assets/lines.json"
)

// Manager loads the station and line dictionaries into the store and
// optionally reloads them on an interval
type Manager struct {
	stationsSource string
	linesSource    string
	store          *store.Store
	updateInterval time.Duration
	httpClient     *http.Client
	logger         *slog.Logger
	stopCh         chan struct{}
	stopOnce       sync.Once
	wg             sync.WaitGroup
}

// NewManager creates a new feed manager. Sources are file paths or http(s) URLs.
// An updateInterval of zero disables periodic reloads.
func NewManager(stationsSource, linesSource string, store *store.Store, updateInterval time.Duration) *Manager {
	return &Manager{
		stationsSource: stationsSource,
		linesSource:    linesSource,
		store:          store,
		updateInterval: updateInterval,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
		stopCh: make(chan struct{}),
	}
}

// SetHTTPTimeout changes the timeout used for http(s) sources
func (m *Manager) SetHTTPTimeout(d time.Duration) {
	m.httpClient.Timeout = d
}

// SetUpdateInterval changes the reload interval. Must be called before Start.
func (m *Manager) SetUpdateInterval(d time.Duration) {
	m.updateInterval = d
}

// SetLogger replaces the logger used for load reports
func (m *Manager) SetLogger(l *slog.Logger) {
	m.logger = l
}

// Start begins the reload loop. The initial load is done by Load.
func (m *Manager) Start() {
	if m.updateInterval <= 0 {
		return
	}
	m.wg.Add(1)
	go m.updateLoop()
}

// Stop stops the reload loop
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
	m.wg.Wait()
}

func (m *Manager) updateLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), m.httpClient.Timeout)
			if _, err := m.Load(ctx); err != nil {
				m.logger.Error("Reload failed, keeping previous data", "error", err)
			}
			cancel()
		case <-m.stopCh:
			return
		}
	}
}

// Load fetches both dictionaries concurrently and replaces the store contents.
// The store is left untouched when either source fails.
func (m *Manager) Load(ctx context.Context) (*Report, error) {
	var (
		stations map[string]*models.Station
		lines    map[string]*models.Line
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := m.fetch(ctx, m.stationsSource)
		if err != nil {
			return fmt.Errorf("fetching stations: %w", err)
		}
		stations, err = ParseStations(data)
		if err != nil {
			return fmt.Errorf("parsing stations from %s: %w", m.stationsSource, err)
		}
		return nil
	})
	g.Go(func() error {
		data, err := m.fetch(ctx, m.linesSource)
		if err != nil {
			return fmt.Errorf("fetching lines: %w", err)
		}
		lines, err = ParseLines(data)
		if err != nil {
			return fmt.Errorf("parsing lines from %s: %w", m.linesSource, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(stations) == 0 {
		return nil, fmt.Errorf("%s: %w", m.stationsSource, ErrNoData)
	}

	report := Check(stations, lines)
	m.store.Update(stations, lines)

	m.logger.Info("Loaded network",
		"stations", len(stations),
		"lines", len(lines),
		"version", m.store.Snapshot().Version)
	for _, w := range report.Warnings() {
		m.logger.Warn("Data integrity", "issue", w)
	}

	return report, nil
}

func (m *Manager) fetch(ctx context.Context, source string) ([]byte, error) {
	if !isURL(source) {
		return os.ReadFile(source)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, source)
	}

	return io.ReadAll(resp.Body)
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// ParseStations decodes a station dictionary keyed by station id
func ParseStations(data []byte) (map[string]*models.Station, error) {
	stations := make(map[string]*models.Station)
	if err := json.Unmarshal(data, &stations); err != nil {
		return nil, err
	}
	for id, st := range stations {
		if st == nil {
			st = &models.Station{}
			stations[id] = st
		}
		st.ID = id
	}
	return stations, nil
}

// ParseLines decodes a line dictionary keyed by line id and classifies each line
func ParseLines(data []byte) (map[string]*models.Line, error) {
	lines := make(map[string]*models.Line)
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, err
	}
	for id, ln := range lines {
		if ln == nil {
			ln = &models.Line{}
			lines[id] = ln
		}
		ln.ID = id
		ln.Type = models.ClassifyLine(id, ln.Category)
	}
	return lines, nil
}

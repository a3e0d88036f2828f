package store

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jusunglee/railmap-go/internal/models"
)

var (
	// ErrStationNotFound is returned when a station id or name cannot be resolved
	ErrStationNotFound = errors.New("station not found")
	// ErrLineNotFound is returned for unknown line ids
	ErrLineNotFound = errors.New("line not found")
)

// Names are sorted the way the map's audience reads them
var collationTag = language.Polish

var idSuffix = regexp.MustCompile(`\(([A-Z]{2,})\)\s*$`)

// Snapshot is an immutable view of the network. Callers must not modify it.
type Snapshot struct {
	Stations map[string]*models.Station
	Lines    map[string]*models.Line
	Version  uint64
	LoadedAt time.Time
}

// Store manages the in-memory station and line dictionaries
type Store struct {
	mu             sync.RWMutex
	snapshot       *Snapshot
	stationsByName []*models.Station
	linesByStation map[string][]string
	lineIDs        []string
}

// NewStore creates a new store instance
func NewStore() *Store {
	return &Store{
		snapshot: &Snapshot{
			Stations: make(map[string]*models.Station),
			Lines:    make(map[string]*models.Line),
		},
		linesByStation: make(map[string][]string),
	}
}

// Update replaces the network with new dictionaries. The maps are taken
// over by the store; ids and line types are normalized here.
func (s *Store) Update(stations map[string]*models.Station, lines map[string]*models.Line) {
	for id, st := range stations {
		st.ID = id
	}
	for id, ln := range lines {
		ln.ID = id
		ln.Type = models.ClassifyLine(id, ln.Category)
	}

	// Rebuild indices
	byName := make([]*models.Station, 0, len(stations))
	for _, st := range stations {
		byName = append(byName, st)
	}
	sortStationsByName(byName)

	lineIDs := make([]string, 0, len(lines))
	linesByStation := make(map[string][]string)
	for id, ln := range lines {
		lineIDs = append(lineIDs, id)
		seen := make(map[string]bool)
		for _, sid := range ln.Stations {
			if !seen[sid] {
				seen[sid] = true
				linesByStation[sid] = append(linesByStation[sid], id)
			}
		}
	}
	sort.Strings(lineIDs)
	for sid := range linesByStation {
		sort.Strings(linesByStation[sid])
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = &Snapshot{
		Stations: stations,
		Lines:    lines,
		Version:  s.snapshot.Version + 1,
		LoadedAt: time.Now(),
	}
	s.stationsByName = byName
	s.linesByStation = linesByStation
	s.lineIDs = lineIDs
}

// Snapshot returns the current network. It stays valid after later updates.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// GetStations returns all stations sorted by name
func (s *Store) GetStations() []models.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Station, len(s.stationsByName))
	for i, st := range s.stationsByName {
		result[i] = *st
	}
	return result
}

// GetStation returns a station by id
func (s *Store) GetStation(id string) (models.Station, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.snapshot.Stations[id]
	if !ok {
		return models.Station{}, fmt.Errorf("%w: %s", ErrStationNotFound, id)
	}
	return *st, nil
}

// GetLines returns all lines sorted by id
func (s *Store) GetLines() []models.Line {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Line, len(s.lineIDs))
	for i, id := range s.lineIDs {
		result[i] = *s.snapshot.Lines[id].Clone()
	}
	return result
}

// GetLine returns a line by id
func (s *Store) GetLine(id string) (models.Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ln, ok := s.snapshot.Lines[id]
	if !ok {
		return models.Line{}, fmt.Errorf("%w: %s", ErrLineNotFound, id)
	}
	return *ln.Clone(), nil
}

// GetLinesByStation returns the ids of lines stopping at or passing through a station
func (s *Store) GetLinesByStation(id string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]string, len(s.linesByStation[id]))
	copy(result, s.linesByStation[id])
	return result
}

// ResolveStation maps user input to a station id. It accepts a trailing
// "(ID)" suffix, a bare id in any case, or an exact name ignoring case.
func (s *Store) ResolveStation(text string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty input", ErrStationNotFound)
	}

	if m := idSuffix.FindStringSubmatch(text); m != nil {
		if _, ok := s.snapshot.Stations[m[1]]; ok {
			return m[1], nil
		}
	}

	if up := strings.ToUpper(text); s.snapshot.Stations[up] != nil {
		return up, nil
	}

	for _, st := range s.stationsByName {
		if strings.EqualFold(st.DisplayName(), text) {
			return st.ID, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrStationNotFound, text)
}

// GetStationsNear returns placed stations closest to a point on the map canvas
func (s *Store) GetStationsNear(top, left float64, limit int) []models.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type stationDist struct {
		station  *models.Station
		distance float64
	}

	var stations []stationDist
	for _, st := range s.stationsByName {
		if !st.Placed() {
			continue
		}
		stations = append(stations, stationDist{st, distance(top, left, st.Coordinates.Top(), st.Coordinates.Left())})
	}

	sort.SliceStable(stations, func(i, j int) bool {
		return stations[i].distance < stations[j].distance
	})

	result := make([]models.Station, 0, limit)
	for i := 0; i < limit && i < len(stations); i++ {
		result = append(result, *stations[i].station)
	}

	return result
}

// GetLastUpdate returns the last update time
func (s *Store) GetLastUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.LoadedAt
}

// distance measures the separation of two map positions in percentage points
func distance(top1, left1, top2, left2 float64) float64 {
	return math.Hypot(top2-top1, left2-left1)
}

func sortStationsByName(stations []*models.Station) {
	c := collate.New(collationTag, collate.IgnoreCase)
	sort.SliceStable(stations, func(i, j int) bool {
		a, b := stations[i].DisplayName(), stations[j].DisplayName()
		if cmp := c.CompareString(a, b); cmp != 0 {
			return cmp < 0
		}
		return stations[i].ID < stations[j].ID
	})
}

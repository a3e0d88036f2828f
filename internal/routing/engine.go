package routing

import (
	"github.com/jusunglee/railmap-go/internal/models"
)

// DefaultMaxResults is the number of routes returned when the caller does not ask for a count
const DefaultMaxResults = 3

// Engine finds itineraries over an immutable snapshot of stations and lines.
// It never modifies the dictionaries it is given, so a single Engine may be
// shared by concurrent callers.
type Engine struct {
	stations map[string]*models.Station
	lines    map[string]*models.Line
}

// NewEngine creates an engine over the given dictionaries
func NewEngine(stations map[string]*models.Station, lines map[string]*models.Line) *Engine {
	return &Engine{stations: stations, lines: lines}
}

// Query describes a single itinerary search
type Query struct {
	From       string
	To         string
	Types      models.TypeSet
	Priority   models.Priority
	MaxResults int
}

// FindRoutes returns the best route followed by distinct alternates found by
// excluding, one at a time, each line ridden on the best route. The result is
// empty when no route exists or the query is invalid.
func (e *Engine) FindRoutes(q Query) []models.Route {
	limit := q.MaxResults
	if limit <= 0 {
		limit = DefaultMaxResults
	}
	if q.From == "" || q.To == "" || q.From == q.To {
		return []models.Route{}
	}
	if _, ok := e.stations[q.From]; !ok {
		return []models.Route{}
	}
	if _, ok := e.stations[q.To]; !ok {
		return []models.Route{}
	}

	first, ok := e.solve(q, nil)
	if !ok {
		return []models.Route{}
	}

	var alternates []models.Route
	for _, lineID := range first.Lines() {
		if len(alternates) >= limit-1 {
			break
		}
		if alt, ok := e.solve(q, map[string]bool{lineID: true}); ok {
			alternates = append(alternates, *alt)
		}
	}

	return Deduplicate(append([]models.Route{*first}, alternates...), limit)
}

// solve builds a filtered graph without the excluded lines and finds the best route on it
func (e *Engine) solve(q Query, exclude map[string]bool) (*models.Route, bool) {
	g := BuildGraph(e.stations, e.lines, q.Types, exclude)
	steps, _, ok := g.ShortestPath(e.lines, q.From, q.To, q.Priority)
	if !ok {
		return nil, false
	}
	return AssembleRoute(steps), true
}

// Deduplicate keeps the first route of each signature, preserving order, up to limit routes
func Deduplicate(routes []models.Route, limit int) []models.Route {
	seen := make(map[string]bool, len(routes))
	unique := make([]models.Route, 0, len(routes))
	for _, r := range routes {
		sig := r.Signature()
		if seen[sig] {
			continue
		}
		seen[sig] = true
		unique = append(unique, r)
		if limit > 0 && len(unique) >= limit {
			break
		}
	}
	return unique
}

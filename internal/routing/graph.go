package routing

import (
	"sort"

	"github.com/jusunglee/railmap-go/internal/models"
)

// Edge is one direction of a ride between adjacent stations on a line
type Edge struct {
	To     string
	LineID string
}

// Graph is an undirected multigraph of stations; parallel edges carry different line ids
type Graph struct {
	adj map[string][]Edge
}

// BuildGraph walks every allowed line's stopping sequence and links adjacent
// stations in both directions. Lines whose type is not in allowed, or whose
// id is in exclude, contribute nothing. Pairs referencing stations missing
// from the dictionary are skipped.
func BuildGraph(stations map[string]*models.Station, lines map[string]*models.Line, allowed models.TypeSet, exclude map[string]bool) *Graph {
	g := &Graph{adj: make(map[string][]Edge)}

	// Sorted walk keeps adjacency order, and therefore tie-breaking, stable
	ids := make([]string, 0, len(lines))
	for id := range lines {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if exclude[id] {
			continue
		}
		line := lines[id]
		if line == nil || !allowed.Has(models.LineType(id, line)) {
			continue
		}
		seq := line.Stations
		for i := 0; i+1 < len(seq); i++ {
			a, b := seq[i], seq[i+1]
			if a == b {
				continue
			}
			if _, ok := stations[a]; !ok {
				continue
			}
			if _, ok := stations[b]; !ok {
				continue
			}
			g.adj[a] = append(g.adj[a], Edge{To: b, LineID: id})
			g.adj[b] = append(g.adj[b], Edge{To: a, LineID: id})
		}
	}

	return g
}

// Neighbors returns the edges leaving a station
func (g *Graph) Neighbors(station string) []Edge {
	return g.adj[station]
}

// Has reports whether any edge touches the station
func (g *Graph) Has(station string) bool {
	return len(g.adj[station]) > 0
}

// StationCount returns the number of stations with at least one edge
func (g *Graph) StationCount() int {
	return len(g.adj)
}

// EdgeCount returns the number of directed edges
func (g *Graph) EdgeCount() int {
	n := 0
	for _, edges := range g.adj {
		n += len(edges)
	}
	return n
}

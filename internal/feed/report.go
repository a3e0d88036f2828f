package feed

import (
	"fmt"
	"slices"
	"sort"

	"github.com/jusunglee/railmap-go/internal/models"
)

// Report lists problems found in loaded data. None of them stop routing:
// the graph builder skips edges it cannot resolve.
type Report struct {
	UnknownStations map[string][]string `json:"unknownStations,omitempty"` // line id -> referenced ids missing from the station dictionary
	StraySkipped    map[string][]string `json:"straySkipped,omitempty"`    // line id -> skipped ids not in the line's sequence
	ShortLines      []string            `json:"shortLines,omitempty"`
	Unplaced        []string            `json:"unplaced,omitempty"`
}

// Check inspects the dictionaries for dangling references and unusable entries
func Check(stations map[string]*models.Station, lines map[string]*models.Line) *Report {
	r := &Report{
		UnknownStations: make(map[string][]string),
		StraySkipped:    make(map[string][]string),
	}

	for id, ln := range lines {
		if len(ln.Stations) < 2 {
			r.ShortLines = append(r.ShortLines, id)
		}
		for _, sid := range ln.Stations {
			if _, ok := stations[sid]; !ok && !slices.Contains(r.UnknownStations[id], sid) {
				r.UnknownStations[id] = append(r.UnknownStations[id], sid)
			}
		}
		for _, sid := range ln.Skipped {
			if !slices.Contains(ln.Stations, sid) {
				r.StraySkipped[id] = append(r.StraySkipped[id], sid)
			}
		}
	}

	for id, st := range stations {
		if !st.Placed() {
			r.Unplaced = append(r.Unplaced, id)
		}
	}

	sort.Strings(r.ShortLines)
	sort.Strings(r.Unplaced)
	return r
}

// Empty reports whether no problem was found
func (r *Report) Empty() bool {
	return len(r.UnknownStations) == 0 && len(r.StraySkipped) == 0 &&
		len(r.ShortLines) == 0 && len(r.Unplaced) == 0
}

// Warnings renders the report as sorted human readable lines
func (r *Report) Warnings() []string {
	var out []string
	for _, id := range sortedKeys(r.UnknownStations) {
		out = append(out, fmt.Sprintf("line %s references unknown stations %v", id, r.UnknownStations[id]))
	}
	for _, id := range sortedKeys(r.StraySkipped) {
		out = append(out, fmt.Sprintf("line %s skips stations outside its sequence %v", id, r.StraySkipped[id]))
	}
	for _, id := range r.ShortLines {
		out = append(out, fmt.Sprintf("line %s has fewer than two stations", id))
	}
	if len(r.Unplaced) > 0 {
		out = append(out, fmt.Sprintf("%d stations have no coordinates", len(r.Unplaced)))
	}
	return out
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package routing

import (
	"container/heap"

	"github.com/jusunglee/railmap-go/internal/models"
)

// Step is a single hop between adjacent stations on a line
type Step struct {
	From   string
	To     string
	LineID string
}

// Cost counts transfers and stops along a partial path
type Cost struct {
	Transfers int
	Stops     int
}

// Less compares lexicographically in the order chosen by the priority
func (c Cost) Less(o Cost, p models.Priority) bool {
	if p == models.PriorityStops {
		if c.Stops != o.Stops {
			return c.Stops < o.Stops
		}
		return c.Transfers < o.Transfers
	}
	if c.Transfers != o.Transfers {
		return c.Transfers < o.Transfers
	}
	return c.Stops < o.Stops
}

// state is a station together with the line used to arrive there.
// The source state has an empty line.
type state struct {
	station string
	line    string
}

type label struct {
	state  state
	cost   Cost
	parent state
	root   bool
	seq    int
}

type labelQueue struct {
	items    []*label
	priority models.Priority
}

func (q labelQueue) Len() int { return len(q.items) }

func (q labelQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if a.cost.Less(b.cost, q.priority) {
		return true
	}
	if b.cost.Less(a.cost, q.priority) {
		return false
	}
	if a.state.line != b.state.line {
		return a.state.line < b.state.line
	}
	return a.seq < b.seq
}

func (q labelQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *labelQueue) Push(x interface{}) {
	q.items = append(q.items, x.(*label))
}

func (q *labelQueue) Pop() interface{} {
	old := q.items
	n := len(old)
	item := old[n-1]
	q.items = old[0 : n-1]
	return item
}

// ShortestPath runs a label-setting search over (station, arriving line)
// states and returns the hops of the best path from src to dst. The line
// dictionary supplies skip flags. ok is false when dst is unreachable.
func (g *Graph) ShortestPath(lines map[string]*models.Line, src, dst string, priority models.Priority) (steps []Step, cost Cost, ok bool) {
	if src == dst || !g.Has(src) || !g.Has(dst) {
		return nil, Cost{}, false
	}

	skipped := func(lineID, station string) bool {
		return lines[lineID].IsSkipped(station)
	}

	start := state{station: src}
	best := map[state]Cost{start: {}}
	settled := make(map[state]bool)
	parents := make(map[state]state)

	q := &labelQueue{priority: priority}
	heap.Push(q, &label{state: start, root: true})
	seq := 1

	var goal state
	found := false

	for q.Len() > 0 {
		item := heap.Pop(q).(*label)
		cur := item.state
		if settled[cur] {
			continue
		}
		settled[cur] = true
		if !item.root {
			parents[cur] = item.parent
		}

		if cur.station == dst {
			goal, cost, found = cur, item.cost, true
			break
		}

		for _, e := range g.adj[cur.station] {
			switch {
			case cur.line == "":
				// boarding at the source
				if skipped(e.LineID, cur.station) {
					continue
				}
			case cur.line != e.LineID:
				// transferring
				if skipped(cur.line, cur.station) || skipped(e.LineID, cur.station) {
					continue
				}
			}
			if e.To == dst && skipped(e.LineID, e.To) {
				continue
			}

			next := state{station: e.To, line: e.LineID}
			if settled[next] {
				continue
			}
			nc := Cost{Transfers: item.cost.Transfers, Stops: item.cost.Stops + 1}
			if cur.line != "" && cur.line != e.LineID {
				nc.Transfers++
			}
			if old, seen := best[next]; seen && !nc.Less(old, priority) {
				continue
			}
			best[next] = nc
			heap.Push(q, &label{state: next, cost: nc, parent: cur, seq: seq})
			seq++
		}
	}

	if !found {
		return nil, Cost{}, false
	}

	for s := goal; s != start; {
		prev := parents[s]
		steps = append(steps, Step{From: prev.station, To: s.station, LineID: s.line})
		s = prev
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}

	return steps, cost, true
}

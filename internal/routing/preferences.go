package routing

import "github.com/jusunglee/railmap-go/internal/models"

// Preferences holds the user's type filter and priority between searches
type Preferences struct {
	Types    models.TypeSet  `json:"types"`
	Priority models.Priority `json:"priority"`
}

// DefaultPreferences allows every line type and minimizes transfers
func DefaultPreferences() Preferences {
	return Preferences{Types: models.AllTypes, Priority: models.PriorityTransfers}
}

// WithTypes replaces the type filter. An empty set is refused and the
// current selection is kept, so at least one type always stays selected.
func (p Preferences) WithTypes(types models.TypeSet) Preferences {
	if types.Empty() {
		return p
	}
	p.Types = types & models.AllTypes
	return p
}

// Toggle flips one type in the filter, refusing to deselect the last one
func (p Preferences) Toggle(k models.TypeKey) Preferences {
	if p.Types.Has(k) {
		return p.WithTypes(p.Types.Without(k))
	}
	return p.WithTypes(p.Types.With(k))
}

// WithPriority replaces the priority
func (p Preferences) WithPriority(priority models.Priority) Preferences {
	p.Priority = priority
	return p
}

// Query builds a search for the preferences between two stations
func (p Preferences) Query(from, to string, maxResults int) Query {
	return Query{
		From:       from,
		To:         to,
		Types:      p.Types,
		Priority:   p.Priority,
		MaxResults: maxResults,
	}
}

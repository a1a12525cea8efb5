// Package group builds the sidebar list: the organisations that are both
// visible on the map and pass the active filters, grouped by category or
// neighborhood.
package group

import (
	"sort"

	"github.com/socialekaart/sokaart/filter"
	"github.com/socialekaart/sokaart/org"
)

type Dimension string

const (
	ByCategory Dimension = "category"
	ByWijk     Dimension = "wijk"
)

// Fallback group labels for organisations without a value in the grouping
// dimension.
const (
	UnknownCategory = "Onbekende categorie"
	UnknownWijk     = "Onbekende wijk"
)

type Group struct {
	Key           string
	Organisations []*org.Organisation
}

// Visible reports whether an organisation is inside the current map
// viewport. The geometry is owned by the presentation layer.
type Visible func(o *org.Organisation) bool

// ByDimension groups the organisations that are visible and pass the
// filter state. Groups come back sorted by key; inside a group the
// insertion order of the dataset is kept. A nil visible predicate means
// everything is in view. An empty result is valid.
func ByDimension(orgs []*org.Organisation, state *filter.State, visible Visible, dim Dimension) []Group {
	grouped := make(map[string][]*org.Organisation)
	for _, o := range orgs {
		if visible != nil && !visible(o) {
			continue
		}
		if state != nil && !state.Passes(o) {
			continue
		}
		key := groupKey(o, dim)
		grouped[key] = append(grouped[key], o)
	}

	keys := make([]string, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	groups := make([]Group, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, Group{Key: key, Organisations: grouped[key]})
	}
	return groups
}

func groupKey(o *org.Organisation, dim Dimension) string {
	if dim == ByWijk {
		if o.Wijk == "" {
			return UnknownWijk
		}
		return o.Wijk
	}
	if o.Category == "" {
		return UnknownCategory
	}
	return o.Category
}

// Package filter keeps the active filter selections of the map and
// decides which organisations pass them.
package filter

import (
	"github.com/socialekaart/sokaart/org"
)

// State is the session's filter selection: a set of active canonical
// categories and at most one active stadsdeel and wijk. An empty
// category set means no restriction (all checkboxes checked), not
// "match nothing".
type State struct {
	categories map[string]struct{}
	stadsdeel  string
	wijk       string
}

func NewState() *State {
	return &State{categories: make(map[string]struct{})}
}

func (s *State) SetActiveCategories(categories []string) {
	s.categories = make(map[string]struct{}, len(categories))
	for _, cat := range categories {
		s.categories[cat] = struct{}{}
	}
}

// SetActiveStadsdeel restricts matches to one district. "" clears the
// restriction.
func (s *State) SetActiveStadsdeel(name string) {
	s.stadsdeel = name
}

// SetActiveWijk restricts matches to one neighborhood. "" clears the
// restriction.
func (s *State) SetActiveWijk(name string) {
	s.wijk = name
}

// Passes reports whether the organisation matches every active filter
// dimension. Pure function of its argument for a fixed State.
func (s *State) Passes(o *org.Organisation) bool {
	if len(s.categories) > 0 {
		if _, ok := s.categories[o.Category]; !ok {
			return false
		}
	}
	if s.stadsdeel != "" && o.Stadsdeel != s.stadsdeel {
		return false
	}
	if s.wijk != "" && o.Wijk != s.wijk {
		return false
	}
	return true
}

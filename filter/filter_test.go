package filter

import (
	"testing"

	"github.com/socialekaart/sokaart/org"
)

var testOrg = &org.Organisation{
	Name:      "Buurthuis A",
	Category:  "Buurtcentrum",
	Stadsdeel: "Centrum",
	Wijk:      "Nieuwmarkt",
}

func TestPassesNoRestrictions(t *testing.T) {
	state := NewState()
	if !state.Passes(testOrg) {
		t.Error("fresh state rejected organisation")
	}
	if !state.Passes(&org.Organisation{}) {
		t.Error("fresh state rejected empty organisation")
	}
}

// An empty category set means all categories, not none.
func TestPassesEmptyCategorySet(t *testing.T) {
	state := NewState()
	state.SetActiveCategories([]string{"Buurtcentrum"})
	state.SetActiveCategories(nil)
	if !state.Passes(testOrg) {
		t.Error("empty category set rejected organisation")
	}
	if !state.Passes(&org.Organisation{Category: "Sportverenigingen"}) {
		t.Error("empty category set rejected other category")
	}
}

func TestPassesCategories(t *testing.T) {
	state := NewState()
	state.SetActiveCategories([]string{"Buurtcentrum", "Stadsdorpen"})
	if !state.Passes(testOrg) {
		t.Error("active category rejected")
	}
	if state.Passes(&org.Organisation{Category: "Sportverenigingen"}) {
		t.Error("inactive category passed")
	}
	if state.Passes(&org.Organisation{}) {
		t.Error("organisation without category passed a restricted set")
	}
}

func TestPassesStadsdeel(t *testing.T) {
	state := NewState()
	state.SetActiveStadsdeel("Centrum")
	if !state.Passes(testOrg) {
		t.Error("matching stadsdeel rejected")
	}
	if state.Passes(&org.Organisation{Stadsdeel: "West"}) {
		t.Error("other stadsdeel passed")
	}

	state.SetActiveStadsdeel("")
	if !state.Passes(&org.Organisation{Stadsdeel: "West"}) {
		t.Error("cleared stadsdeel still filters")
	}
}

func TestPassesWijk(t *testing.T) {
	state := NewState()
	state.SetActiveWijk("Nieuwmarkt")
	if !state.Passes(testOrg) {
		t.Error("matching wijk rejected")
	}
	if state.Passes(&org.Organisation{Wijk: "Houthavens"}) {
		t.Error("other wijk passed")
	}
}

func TestPassesAllDimensions(t *testing.T) {
	state := NewState()
	state.SetActiveCategories([]string{"Buurtcentrum"})
	state.SetActiveStadsdeel("Centrum")
	state.SetActiveWijk("Nieuwmarkt")
	if !state.Passes(testOrg) {
		t.Error("organisation matching all dimensions rejected")
	}
	other := *testOrg
	other.Wijk = "Houthavens"
	if state.Passes(&other) {
		t.Error("one failing dimension passed")
	}
}

// Passes is a pure function of the organisation for a fixed state.
func TestPassesPure(t *testing.T) {
	state := NewState()
	state.SetActiveCategories([]string{"Buurtcentrum"})
	for i := 0; i < 3; i++ {
		if !state.Passes(testOrg) {
			t.Fatal("result changed between calls")
		}
		if state.Passes(&org.Organisation{Category: "Sportverenigingen"}) {
			t.Fatal("result changed between calls")
		}
	}
}

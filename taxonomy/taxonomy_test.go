package taxonomy

import (
	"strings"
	"testing"

	"github.com/socialekaart/sokaart/taxonomy/config"
)

func loadTestTaxonomy(t *testing.T) *Taxonomy {
	tax, err := Load("test_taxonomy.yml")
	if err != nil {
		t.Fatal(err)
	}
	return tax
}

func TestNormalize(t *testing.T) {
	tax := loadTestTaxonomy(t)

	for _, tt := range []struct {
		raw  string
		want string
	}{
		{"Sport vereniging", "Sportverenigingen"},
		{"Sportvereniging", "Sportverenigingen"},
		{"Sportverengingen", "Sportverenigingen"},
		{"Sportverenigingen", "Sportverenigingen"},
		{"Buurt centrum", "Buurtcentrum"},
		{"Opvang", "Buurtcentrum"},
		{"Buurtcentrum/(Informele) Zorgdragers", "Buurtcentrum"},
		{"App", "Jongeren organisaties"},
		{"Religieuze organisatie", "Religieuze organisaties"},
		{"  Sport vereniging  ", "Sportverenigingen"},
		{"Stadsdorp Zuid", "Stadsdorpen"},
		{"stadsdorp nieuwmarkt", "Stadsdorpen"},
		{"STADSDORPEN", "Stadsdorpen"},
		{"Kinderopvang", "Kinderopvang"}, // unknown, passes through
		{"  Nieuwe categorie ", "Nieuwe categorie"},
		{"", ""},
		{"   ", ""},
	} {
		if got := tax.Normalize(tt.raw); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	tax := loadTestTaxonomy(t)
	inputs := []string{
		"Sport vereniging", "Sportverenigingen", "Opvang", "Buurtcentrum",
		"Stadsdorp Zuid", "Stadsdorpen", "App", "Jongeren organisaties",
		"Kinderopvang", "Onbekend", "", "  spaces  ",
	}
	for _, raw := range inputs {
		once := tax.Normalize(raw)
		twice := tax.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", raw, once, twice)
		}
	}
}

func TestNewRejectsConflictingVariant(t *testing.T) {
	conf, err := config.Parse([]byte(`
categories:
  Buurtcentrum:
    - Opvang
  Sportverenigingen:
    - Opvang
`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(conf); err == nil {
		t.Fatal("expected error for variant with two canonical categories")
	}
}

func TestNewRejectsNonCanonicalCategory(t *testing.T) {
	// "Buurt centrum" is a variant of Buurtcentrum and cannot head its
	// own table at the same time
	conf, err := config.Parse([]byte(`
categories:
  Buurtcentrum:
    - Buurt centrum
  Buurt centrum:
    - Bibliotheek
`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(conf); err == nil {
		t.Fatal("expected error for non-canonical category name")
	}
}

func TestColorKnownCategory(t *testing.T) {
	tax := loadTestTaxonomy(t)
	if c := tax.Color("Sportverenigingen"); c != "#03045e" {
		t.Error("unexpected color:", c)
	}
	if c := tax.Color(" Sportverenigingen "); c != "#03045e" {
		t.Error("unexpected color for padded name:", c)
	}
}

func TestColorUnknownCategoryDeterministic(t *testing.T) {
	tax := loadTestTaxonomy(t)
	c1 := tax.Color("Nieuwe categorie")
	c2 := tax.Color("Nieuwe categorie")
	if c1 != c2 {
		t.Errorf("fallback color not stable: %q != %q", c1, c2)
	}
	if !strings.HasPrefix(c1, "rgb(") {
		t.Error("unexpected fallback color format:", c1)
	}

	// a fresh taxonomy derives the same color, nothing is persisted
	other := loadTestTaxonomy(t)
	if c := other.Color("Nieuwe categorie"); c != c1 {
		t.Errorf("fallback color differs across instances: %q != %q", c, c1)
	}

	if tax.Color("Andere categorie") == c1 {
		t.Error("different categories got the same fallback color")
	}
}

func TestColors(t *testing.T) {
	tax := loadTestTaxonomy(t)
	colors := tax.Colors([]string{"Sportverenigingen", "Nieuwe categorie"})
	if len(colors) != 2 {
		t.Fatal("unexpected colors:", colors)
	}
	if colors["Sportverenigingen"] != "#03045e" {
		t.Error("unexpected color:", colors["Sportverenigingen"])
	}
}

func TestPastelColor(t *testing.T) {
	c1 := PastelColor("Oud-West")
	c2 := PastelColor("Oud-West")
	if c1 != c2 {
		t.Errorf("pastel color not stable: %q != %q", c1, c2)
	}
	if !strings.HasPrefix(c1, "hsl(") {
		t.Error("unexpected pastel color format:", c1)
	}
}

// The shipped vocabulary must stay loadable and keep the merges the map
// relies on.
func TestShippedTaxonomy(t *testing.T) {
	tax, err := Load("../taxonomy.yml")
	if err != nil {
		t.Fatal(err)
	}
	for _, tt := range []struct {
		raw  string
		want string
	}{
		{"Buurt meda", "Buurt media"},
		{"Woonzorg centrum", "Buurtcentrum"},
		{"Meiden Organisaties", "Vrouwen organisaties"},
		{"Voortgezet Onderwijs", "Voortgezet onderwijs"},
		{"Stadsdorp De Pijp", "Stadsdorpen"},
	} {
		if got := tax.Normalize(tt.raw); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
	if !tax.ExcludedMunicipality("Diemen") {
		t.Error("Diemen not excluded in shipped taxonomy")
	}
	if c := tax.Color("Stadsdorpen"); c != "#6a4c93" {
		t.Error("unexpected color:", c)
	}
}

func TestExcludedMunicipality(t *testing.T) {
	tax := loadTestTaxonomy(t)
	if !tax.ExcludedMunicipality("Diemen") {
		t.Error("Diemen not excluded")
	}
	// exact, case-sensitive match
	if tax.ExcludedMunicipality("diemen") {
		t.Error("lowercase diemen should not match")
	}
	if tax.ExcludedMunicipality("Amsterdam") {
		t.Error("Amsterdam excluded")
	}
}

func TestFieldCandidates(t *testing.T) {
	tax := loadTestTaxonomy(t)
	// configured override
	if got := tax.FieldCandidates("name"); len(got) != 1 || got[0] != "Naam" {
		t.Error("unexpected name candidates:", got)
	}
	// built-in fallback
	got := tax.FieldCandidates("lon")
	if len(got) == 0 || got[0] != "Longitude" {
		t.Error("unexpected lon candidates:", got)
	}
}

// Package taxonomy merges the free-text category labels of the
// organisation register into one canonical vocabulary and assigns each
// category a stable display color.
package taxonomy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/socialekaart/sokaart/taxonomy/config"
)

type pattern struct {
	contains  string // lowercase
	canonical string
}

type Taxonomy struct {
	replacements map[string]string // raw variant -> canonical
	patterns     []pattern
	colors       map[string]string
	fields       config.Fields
	excluded     map[string]struct{}
}

// New compiles a taxonomy configuration into lookup form. It rejects
// variants claimed by two canonical names and any table that is not
// idempotent (a canonical name that normalizes to something else).
func New(conf *config.Taxonomy) (*Taxonomy, error) {
	t := &Taxonomy{
		replacements: make(map[string]string),
		colors:       make(map[string]string),
		fields:       conf.Fields,
		excluded:     make(map[string]struct{}),
	}

	type variant struct {
		config.OrderedVariant
		canonical string
	}
	var variants []variant
	for canonical, vs := range conf.Categories {
		for _, v := range vs {
			variants = append(variants, variant{v, canonical})
		}
	}
	sort.Slice(variants, func(i, j int) bool {
		return variants[i].Order < variants[j].Order
	})
	for _, v := range variants {
		raw := strings.TrimSpace(v.Variant)
		if raw == "" {
			return nil, errors.Errorf("empty variant for category %q", v.canonical)
		}
		if prev, ok := t.replacements[raw]; ok {
			if prev != v.canonical {
				return nil, errors.Errorf("variant %q mapped to both %q and %q",
					raw, prev, v.canonical)
			}
			continue
		}
		t.replacements[raw] = v.canonical
	}

	for _, p := range conf.Patterns {
		if strings.TrimSpace(p.Contains) == "" {
			return nil, errors.Errorf("pattern for category %q without substring", p.Category)
		}
		t.patterns = append(t.patterns, pattern{
			contains:  strings.ToLower(p.Contains),
			canonical: p.Category,
		})
	}

	for cat, color := range conf.Colors {
		t.colors[cat] = color
	}
	for _, municipality := range conf.ExcludeMunicipalities {
		t.excluded[municipality] = struct{}{}
	}

	for canonical := range conf.Categories {
		if n := t.Normalize(canonical); n != canonical {
			return nil, errors.Errorf("category %q is not canonical, normalizes to %q",
				canonical, n)
		}
	}
	for _, p := range t.patterns {
		if n := t.Normalize(p.canonical); n != p.canonical {
			return nil, errors.Errorf("pattern category %q is not canonical, normalizes to %q",
				p.canonical, n)
		}
	}
	return t, nil
}

func Load(filename string) (*Taxonomy, error) {
	conf, err := config.Load(filename)
	if err != nil {
		return nil, err
	}
	return New(conf)
}

// Normalize returns the canonical category for a raw label. Unknown
// labels pass through trimmed but otherwise unchanged, they become their
// own canonical category. Normalize is idempotent.
func (t *Taxonomy) Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if canonical, ok := t.replacements[raw]; ok {
		return canonical
	}
	lower := strings.ToLower(raw)
	for _, p := range t.patterns {
		if strings.Contains(lower, p.contains) {
			return p.canonical
		}
	}
	return raw
}

// ExcludedMunicipality reports whether rows of this municipality are kept
// off the map entirely. Exact, case-sensitive match.
func (t *Taxonomy) ExcludedMunicipality(name string) bool {
	_, ok := t.excluded[name]
	return ok
}

// FieldCandidates returns the column header candidates for a logical
// field, most preferred first. Falls back to the built-in candidates of
// the Amsterdam register exports if the config has no entry.
func (t *Taxonomy) FieldCandidates(field string) []string {
	if candidates, ok := t.fields[field]; ok && len(candidates) > 0 {
		return candidates
	}
	return defaultFields[field]
}

var defaultFields = config.Fields{
	"name":      {"Vestigingnaam", "Naam", "Organisatie"},
	"pc6":       {"PC6", "Pc6", "Postcode", "Postcode6"},
	"gemeente":  {"Gemeente"},
	"stadsdeel": {"Stadsdeel", "Stadsdelen"},
	"wijk":      {"Wijk"},
	"buurt":     {"Buurten", "Buurt"},
	"category":  {"Instelling/Categorie", "Instelling/ Categorie", "Categorie", "Category"},
	"lat":       {"Latitude", "Lat"},
	"lon":       {"Longitude", "Lon", "Lng", "Long"},
}

// Color returns the display color for a canonical category. Categories
// without a configured color get a deterministic color derived from the
// category text, so novel categories render identically across reloads.
func (t *Taxonomy) Color(category string) string {
	category = strings.TrimSpace(category)
	if color, ok := t.colors[category]; ok {
		return color
	}
	hash := textHash(category)
	r := hash & 0xff
	g := (hash >> 8) & 0xff
	b := (hash >> 16) & 0xff
	return fmt.Sprintf("rgb(%d,%d,%d)", r%200, g%200, b%200)
}

// Colors returns the full category to color assignment for a set of
// categories, for legend rendering.
func (t *Taxonomy) Colors(categories []string) map[string]string {
	colors := make(map[string]string, len(categories))
	for _, cat := range categories {
		colors[cat] = t.Color(cat)
	}
	return colors
}

// PastelColor returns a muted fill color derived from an area name, used
// for neighborhood polygons.
func PastelColor(name string) string {
	hash := textHash(name)
	if hash < 0 {
		hash = -hash
	}
	return fmt.Sprintf("hsl(%d, 60%%, 80%%)", hash%360)
}

// Same hash as the original web map so exported colors stay identical:
// 32-bit h(i) = c(i) + h(i-1)*31.
func textHash(s string) int32 {
	var hash int32
	for _, c := range s {
		hash = int32(c) + (hash << 5) - hash
	}
	return hash
}

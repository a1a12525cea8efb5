package org

import (
	"fmt"
	"strings"
	"unicode"
)

// Row is a single raw record from an organisation export: column header
// to cell value. Headers are untrusted, they change spelling, casing and
// whitespace between export batches. Use Resolve instead of indexing.
type Row map[string]string

func (r Row) String() string {
	return fmt.Sprintf("%v", (map[string]string)(r))
}

// Resolve returns the trimmed value of the first candidate header with a
// non-empty value. Exact header matches are tried first for all
// candidates, then a second pass compares headers with casing and
// whitespace removed. Returns "" if no candidate matches.
func (r Row) Resolve(candidates ...string) string {
	for _, c := range candidates {
		if v, ok := r[c]; ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	for _, c := range candidates {
		wanted := foldHeader(c)
		for k, v := range r {
			if foldHeader(k) != wanted {
				continue
			}
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

func foldHeader(s string) string {
	var b strings.Builder
	for _, c := range s {
		if unicode.IsSpace(c) {
			continue
		}
		b.WriteRune(unicode.ToLower(c))
	}
	return b.String()
}

// Organisation is a deduplicated, normalized entry of the social map.
// Values are fixed at ingest; Id is the 0-based insertion index and stays
// stable for the lifetime of the loaded dataset.
type Organisation struct {
	Id          int     `json:"id"`
	Name        string  `json:"name"`
	PC6         string  `json:"pc6,omitempty"`
	Category    string  `json:"category,omitempty"`
	RawCategory string  `json:"raw_category,omitempty"`
	Stadsdeel   string  `json:"stadsdeel,omitempty"`
	Wijk        string  `json:"wijk,omitempty"`
	Buurt       string  `json:"buurt,omitempty"`
	Lat         float64 `json:"lat"`
	Long        float64 `json:"lon"`
}

func (o *Organisation) String() string {
	return fmt.Sprintf("organisation %d %q (%s)", o.Id, o.Name, o.PC6)
}

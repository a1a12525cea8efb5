// Package ingest turns the raw organisation export into the deduplicated,
// normalized dataset behind the map. All row-level validation policy
// lives here; malformed rows are dropped silently and show up only in the
// drop counters.
package ingest

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/socialekaart/sokaart/org"
	"github.com/socialekaart/sokaart/stats"
	"github.com/socialekaart/sokaart/taxonomy"
)

// Dataset is the result of a single load: the organisations in insertion
// order plus the category and area vocabularies discovered on the way.
type Dataset struct {
	Organisations []*org.Organisation
	Stats         stats.Ingest

	categories map[string]struct{}
	stadsdelen map[string]struct{}
	wijken     map[string]struct{}
}

// Categories returns the discovered canonical categories, sorted.
func (d *Dataset) Categories() []string { return sortedNames(d.categories) }

// Stadsdelen returns the discovered district names, sorted.
func (d *Dataset) Stadsdelen() []string { return sortedNames(d.stadsdelen) }

// Wijken returns the discovered neighborhood names, sorted.
func (d *Dataset) Wijken() []string { return sortedNames(d.wijken) }

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReadFile reads an organisation export from a delimited text file.
func ReadFile(filename string, delimiter rune, tax *taxonomy.Taxonomy) (*Dataset, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening organisations file %s", filename)
	}
	defer f.Close()
	dataset, err := Read(f, delimiter, tax)
	if err != nil {
		return nil, errors.Wrapf(err, "organisations file %s", filename)
	}
	return dataset, nil
}

// Read parses delimited text with a header row into a Dataset. Rows are
// processed in input order:
//
//	resolve name/pc6           drop the row if both are empty
//	dedup on lower(name|pc6)   first occurrence wins
//	municipality exclusion     exact match against the taxonomy list
//	register areas/category    also for rows that fail the coordinate
//	                           check below, so the filter dropdowns stay
//	                           complete when a batch has ungeocoded rows
//	coordinate check           missing, non-finite or exactly 0 drops the
//	                           row (a real 0.0 is indistinguishable from
//	                           missing and always rejected)
//
// A read or parse failure is terminal for the whole load.
func Read(r io.Reader, delimiter rune, tax *taxonomy.Taxonomy) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := readHeader(reader)
	if err != nil {
		return nil, err
	}

	dataset := &Dataset{
		categories: make(map[string]struct{}),
		stadsdelen: make(map[string]struct{}),
		wijken:     make(map[string]struct{}),
	}
	seen := make(map[string]struct{})

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading organisation row")
		}
		dataset.Stats.AddRow()

		row := makeRow(header, record)

		name := row.Resolve(tax.FieldCandidates("name")...)
		pc6 := row.Resolve(tax.FieldCandidates("pc6")...)
		if name == "" && pc6 == "" {
			dataset.Stats.AddNoIdentity()
			continue
		}

		key := strings.ToLower(name) + "|" + strings.ToLower(pc6)
		if _, ok := seen[key]; ok {
			dataset.Stats.AddDuplicate()
			continue
		}
		seen[key] = struct{}{}

		if tax.ExcludedMunicipality(row.Resolve(tax.FieldCandidates("gemeente")...)) {
			dataset.Stats.AddExcluded()
			continue
		}

		stadsdeel := row.Resolve(tax.FieldCandidates("stadsdeel")...)
		wijk := row.Resolve(tax.FieldCandidates("wijk")...)
		buurt := row.Resolve(tax.FieldCandidates("buurt")...)
		if stadsdeel != "" {
			dataset.stadsdelen[stadsdeel] = struct{}{}
		}
		if wijk != "" {
			dataset.wijken[wijk] = struct{}{}
		}

		rawCategory := row.Resolve(tax.FieldCandidates("category")...)
		category := tax.Normalize(rawCategory)
		if category != "" {
			dataset.categories[category] = struct{}{}
		}

		lat, latOK := parseCoord(row.Resolve(tax.FieldCandidates("lat")...))
		long, longOK := parseCoord(row.Resolve(tax.FieldCandidates("lon")...))
		if !latOK || !longOK {
			dataset.Stats.AddBadCoords()
			continue
		}

		dataset.Organisations = append(dataset.Organisations, &org.Organisation{
			Id:          len(dataset.Organisations),
			Name:        name,
			PC6:         pc6,
			Category:    category,
			RawCategory: rawCategory,
			Stadsdeel:   stadsdeel,
			Wijk:        wijk,
			Buurt:       buurt,
			Lat:         lat,
			Long:        long,
		})
		dataset.Stats.AddAccepted()
	}

	return dataset, nil
}

// readHeader returns the first row with any non-empty field. Exports
// sometimes start with delimiter-only filler lines.
func readHeader(reader *csv.Reader) ([]string, error) {
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil, errors.New("organisations file has no header row")
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading organisations header")
		}
		empty := true
		for i, field := range record {
			if i == 0 {
				field = strings.TrimPrefix(field, "\uFEFF")
			}
			record[i] = strings.TrimSpace(field)
			if record[i] != "" {
				empty = false
			}
		}
		if !empty {
			return record, nil
		}
	}
}

func makeRow(header, record []string) org.Row {
	row := make(org.Row, len(header))
	for i, name := range header {
		if name == "" || i >= len(record) {
			continue
		}
		row[name] = record[i]
	}
	return row
}

// parseCoord parses a decimal coordinate, tolerating a comma as decimal
// separator. Zero and non-finite values count as missing.
func parseCoord(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v == 0 {
		return 0, false
	}
	return v, true
}

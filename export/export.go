// Package export writes the normalized dataset in the formats the web map
// consumes: a GeoJSON point collection, a legend and the filter
// vocabularies.
package export

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/socialekaart/sokaart/boundary"
	"github.com/socialekaart/sokaart/ingest"
	"github.com/socialekaart/sokaart/taxonomy"
)

const (
	organisationsFile = "organisaties.geojson"
	legendFile        = "legenda.json"
	filtersFile       = "filters.json"

	// boundary overlay files
	WijkenFile     = "wijken.geojson"
	StadsdelenFile = "stadsdelen.geojson"
)

type legendEntry struct {
	Category string `json:"category"`
	Color    string `json:"color"`
}

type filters struct {
	Categories []string `json:"categories"`
	Stadsdelen []string `json:"stadsdelen"`
	Wijken     []string `json:"wijken"`
}

// WriteDataset writes organisaties.geojson, legenda.json and filters.json
// into dir.
func WriteDataset(dir string, dataset *ingest.Dataset, tax *taxonomy.Taxonomy) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "creating output dir %s", dir)
	}

	fc := &geojson.FeatureCollection{}
	for _, o := range dataset.Organisations {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: geom.NewPointFlat(geom.XY, []float64{o.Long, o.Lat}),
			Properties: map[string]interface{}{
				"id":           o.Id,
				"name":         o.Name,
				"pc6":          o.PC6,
				"category":     o.Category,
				"raw_category": o.RawCategory,
				"stadsdeel":    o.Stadsdeel,
				"wijk":         o.Wijk,
				"buurt":        o.Buurt,
				"color":        tax.Color(o.Category),
			},
		})
	}
	if err := writeJSON(filepath.Join(dir, organisationsFile), fc); err != nil {
		return err
	}

	categories := dataset.Categories()
	legend := make([]legendEntry, 0, len(categories))
	for _, cat := range categories {
		legend = append(legend, legendEntry{Category: cat, Color: tax.Color(cat)})
	}
	if err := writeJSON(filepath.Join(dir, legendFile), legend); err != nil {
		return err
	}

	return writeJSON(filepath.Join(dir, filtersFile), filters{
		Categories: categories,
		Stadsdelen: dataset.Stadsdelen(),
		Wijken:     dataset.Wijken(),
	})
}

// WriteBoundaries writes the region polygons as a GeoJSON overlay into
// dir. Each feature carries its name and a pastel fill color derived
// from the name, so areas keep a stable color across exports.
func WriteBoundaries(dir, filename string, regions []*boundary.Region) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "creating output dir %s", dir)
	}

	fc := &geojson.FeatureCollection{}
	for _, region := range regions {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: region.Geometry(),
			Properties: map[string]interface{}{
				"name":      region.Name,
				"stadsdeel": region.Stadsdeel,
				"fill":      taxonomy.PastelColor(region.Name),
			},
		})
	}
	return writeJSON(filepath.Join(dir, filename), fc)
}

func writeJSON(filename string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encoding %s", filename)
	}
	if err := ioutil.WriteFile(filename, data, 0644); err != nil {
		return errors.Wrapf(err, "writing %s", filename)
	}
	return nil
}

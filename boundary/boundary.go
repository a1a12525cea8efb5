// Package boundary loads the wijk and stadsdeel polygon files. The
// polygons only carry free-text name properties; the names should line up
// with the area vocabulary discovered during ingest, but nothing here
// enforces that.
package boundary

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/xy"

	"github.com/socialekaart/sokaart/org"
)

// Property name candidates differ between exports, same as the CSV
// headers do.
var (
	wijkProperties      = []string{"Wijk", "WIJK", "Wijknaam", "WijkNaam"}
	stadsdeelProperties = []string{"Stadsdeel", "stadsdeel"}
)

// Region is one named administrative area polygon.
type Region struct {
	Name      string // wijk name, or stadsdeel name for district files
	Stadsdeel string // parent district, when the file carries it
	geometry  geom.T
	bounds    *geom.Bounds
}

// Geometry returns the region polygon for re-encoding.
func (r *Region) Geometry() geom.T { return r.geometry }

// Contains reports whether the coordinate lies inside the region.
func (r *Region) Contains(lat, long float64) bool {
	if r.geometry == nil {
		return false
	}
	if r.bounds != nil && !boundsContain(r.bounds, lat, long) {
		return false
	}
	p := geom.Coord{long, lat}
	switch g := r.geometry.(type) {
	case *geom.Polygon:
		return polygonContains(g.Layout(), g.FlatCoords(), g.Ends(), 0, p)
	case *geom.MultiPolygon:
		first := 0
		for _, ends := range g.Endss() {
			if polygonContains(g.Layout(), g.FlatCoords(), ends, first, p) {
				return true
			}
			if len(ends) > 0 {
				first = ends[len(ends)-1]
			}
		}
	}
	return false
}

func boundsContain(b *geom.Bounds, lat, long float64) bool {
	return long >= b.Min(0) && long <= b.Max(0) &&
		lat >= b.Min(1) && lat <= b.Max(1)
}

// polygonContains checks the outer ring and subtracts the holes. first is
// the flat coord offset of the outer ring.
func polygonContains(layout geom.Layout, flatCoords []float64, ends []int, first int, p geom.Coord) bool {
	if len(ends) == 0 {
		return false
	}
	if !xy.IsPointInRing(layout, p, flatCoords[first:ends[0]]) {
		return false
	}
	start := ends[0]
	for _, end := range ends[1:] {
		if xy.IsPointInRing(layout, p, flatCoords[start:end]) {
			return false
		}
		start = end
	}
	return true
}

// LoadFile reads a GeoJSON FeatureCollection of region polygons.
func LoadFile(filename string) ([]*Region, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening boundary file %s", filename)
	}
	defer f.Close()
	regions, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "boundary file %s", filename)
	}
	return regions, nil
}

// Decode parses a FeatureCollection. Features without polygon geometry
// are skipped; a feature without any recognized name property is kept
// with an empty name so its polygon still renders.
func Decode(r io.Reader) ([]*Region, error) {
	var fc geojson.FeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, errors.Wrap(err, "decoding boundary geojson")
	}

	var regions []*Region
	for _, feature := range fc.Features {
		switch feature.Geometry.(type) {
		case *geom.Polygon, *geom.MultiPolygon:
		default:
			continue
		}
		props := propertyRow(feature.Properties)
		wijk := props.Resolve(wijkProperties...)
		stadsdeel := props.Resolve(stadsdeelProperties...)
		name := wijk
		if name == "" {
			name = stadsdeel
		}
		regions = append(regions, &Region{
			Name:      name,
			Stadsdeel: stadsdeel,
			geometry:  feature.Geometry,
			bounds:    feature.Geometry.Bounds(),
		})
	}
	return regions, nil
}

// propertyRow flattens GeoJSON properties to strings so the same header
// resolution as for CSV columns applies.
func propertyRow(properties map[string]interface{}) org.Row {
	row := make(org.Row, len(properties))
	for k, v := range properties {
		switch value := v.(type) {
		case string:
			row[k] = value
		case float64:
			row[k] = fmt.Sprintf("%v", value)
		}
	}
	return row
}

// Misplaced returns the organisations whose point lies outside the
// polygon of the area they claim. name selects the area field to check
// against. Organisations without an area name, or naming an area the
// boundary file does not carry, are skipped; name gaps are a separate
// check.
func Misplaced(orgs []*org.Organisation, regions []*Region, name func(*org.Organisation) string) []*org.Organisation {
	byName := make(map[string]*Region, len(regions))
	for _, region := range regions {
		if region.Name == "" {
			continue
		}
		if _, ok := byName[region.Name]; !ok {
			byName[region.Name] = region
		}
	}
	var misplaced []*org.Organisation
	for _, o := range orgs {
		region, ok := byName[name(o)]
		if !ok {
			continue
		}
		if !region.Contains(o.Lat, o.Long) {
			misplaced = append(misplaced, o)
		}
	}
	return misplaced
}

// Names returns the distinct region names, in file order.
func Names(regions []*Region) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, region := range regions {
		if region.Name == "" {
			continue
		}
		if _, ok := seen[region.Name]; ok {
			continue
		}
		seen[region.Name] = struct{}{}
		names = append(names, region.Name)
	}
	return names
}

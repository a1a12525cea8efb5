package boundary

import (
	"strings"
	"testing"

	"github.com/socialekaart/sokaart/org"
)

const testCollection = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"Wijk": "Nieuwmarkt", "Stadsdeel": "Centrum"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [
          [[4.0, 52.0], [5.0, 52.0], [5.0, 53.0], [4.0, 53.0], [4.0, 52.0]],
          [[4.4, 52.4], [4.6, 52.4], [4.6, 52.6], [4.4, 52.6], [4.4, 52.4]]
        ]
      }
    },
    {
      "type": "Feature",
      "properties": {"WIJK": "Houthavens"},
      "geometry": {
        "type": "MultiPolygon",
        "coordinates": [
          [[[0, 0], [1, 0], [1, 1], [0, 1], [0, 0]]],
          [[[2, 2], [3, 2], [3, 3], [2, 3], [2, 2]]]
        ]
      }
    },
    {
      "type": "Feature",
      "properties": {"stadsdeel": "Zuidoost"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[6, 50], [7, 50], [7, 51], [6, 51], [6, 50]]]
      }
    },
    {
      "type": "Feature",
      "properties": {"name": "no polygon"},
      "geometry": {"type": "Point", "coordinates": [1, 1]}
    }
  ]
}`

func decodeTestRegions(t *testing.T) []*Region {
	regions, err := Decode(strings.NewReader(testCollection))
	if err != nil {
		t.Fatal(err)
	}
	return regions
}

func TestDecode(t *testing.T) {
	regions := decodeTestRegions(t)
	// the point feature is skipped
	if len(regions) != 3 {
		t.Fatal("unexpected regions:", regions)
	}
	if r := regions[0]; r.Name != "Nieuwmarkt" || r.Stadsdeel != "Centrum" {
		t.Error("unexpected region:", r)
	}
	// alternate property spelling
	if r := regions[1]; r.Name != "Houthavens" {
		t.Error("unexpected region:", r)
	}
	// district files fall back to the stadsdeel name
	if r := regions[2]; r.Name != "Zuidoost" || r.Stadsdeel != "Zuidoost" {
		t.Error("unexpected region:", r)
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := Decode(strings.NewReader("not geojson")); err == nil {
		t.Fatal("expected error for invalid input")
	}
}

func TestRegionContains(t *testing.T) {
	regions := decodeTestRegions(t)

	nieuwmarkt := regions[0]
	if !nieuwmarkt.Contains(52.2, 4.2) {
		t.Error("point inside polygon not contained")
	}
	if nieuwmarkt.Contains(52.5, 4.5) {
		t.Error("point inside hole contained")
	}
	if nieuwmarkt.Contains(51.0, 4.5) {
		t.Error("point outside polygon contained")
	}

	houthavens := regions[1]
	if !houthavens.Contains(0.5, 0.5) || !houthavens.Contains(2.5, 2.5) {
		t.Error("points inside multipolygon parts not contained")
	}
	if houthavens.Contains(1.5, 1.5) {
		t.Error("point between multipolygon parts contained")
	}
}

func TestMisplaced(t *testing.T) {
	regions := decodeTestRegions(t)
	orgs := []*org.Organisation{
		{Name: "inside", Wijk: "Nieuwmarkt", Lat: 52.2, Long: 4.2},
		{Name: "outside", Wijk: "Nieuwmarkt", Lat: 51.0, Long: 4.5},
		{Name: "in hole", Wijk: "Nieuwmarkt", Lat: 52.5, Long: 4.5},
		{Name: "unknown wijk", Wijk: "Jordaan", Lat: 52.2, Long: 4.2},
		{Name: "no wijk", Lat: 52.2, Long: 4.2},
	}
	misplaced := Misplaced(orgs, regions, func(o *org.Organisation) string { return o.Wijk })
	if len(misplaced) != 2 {
		t.Fatal("unexpected misplaced organisations:", misplaced)
	}
	if misplaced[0].Name != "outside" || misplaced[1].Name != "in hole" {
		t.Error("unexpected misplaced organisations:", misplaced)
	}
}

func TestNames(t *testing.T) {
	regions := decodeTestRegions(t)
	regions = append(regions, regions[0]) // duplicate name
	names := Names(regions)
	if len(names) != 3 || names[0] != "Nieuwmarkt" || names[1] != "Houthavens" || names[2] != "Zuidoost" {
		t.Fatal("unexpected names:", names)
	}
}

func TestParseBounds(t *testing.T) {
	bounds, err := ParseBounds("4.7, 52.2, 5.1, 52.5")
	if err != nil {
		t.Fatal(err)
	}
	if bounds.MinLong != 4.7 || bounds.MinLat != 52.2 || bounds.MaxLong != 5.1 || bounds.MaxLat != 52.5 {
		t.Fatal("unexpected bounds:", bounds)
	}

	for _, invalid := range []string{"", "1,2,3", "1,2,3,4,5", "a,2,3,4"} {
		if _, err := ParseBounds(invalid); err == nil {
			t.Errorf("expected error for %q", invalid)
		}
	}
}

func TestBoundsVisible(t *testing.T) {
	bounds := Bounds{MinLong: 4.7, MinLat: 52.2, MaxLong: 5.1, MaxLat: 52.5}
	if !bounds.Visible(&org.Organisation{Lat: 52.37, Long: 4.90}) {
		t.Error("point inside viewport not visible")
	}
	if bounds.Visible(&org.Organisation{Lat: 52.0, Long: 4.90}) {
		t.Error("point below viewport visible")
	}
	if bounds.Visible(&org.Organisation{Lat: 52.37, Long: 5.2}) {
		t.Error("point east of viewport visible")
	}
}

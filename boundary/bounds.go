package boundary

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/socialekaart/sokaart/org"
)

// Bounds is a viewport rectangle in WGS84.
type Bounds struct {
	MinLong, MinLat, MaxLong, MaxLat float64
}

// ParseBounds parses "minlon,minlat,maxlon,maxlat".
func ParseBounds(s string) (Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bounds{}, errors.Errorf("invalid bbox '%s', expected minlon,minlat,maxlon,maxlat", s)
	}
	values := make([]float64, 4)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Bounds{}, errors.Wrapf(err, "invalid bbox '%s'", s)
		}
		values[i] = v
	}
	return Bounds{
		MinLong: values[0], MinLat: values[1],
		MaxLong: values[2], MaxLat: values[3],
	}, nil
}

func (b Bounds) Contains(lat, long float64) bool {
	return long >= b.MinLong && long <= b.MaxLong &&
		lat >= b.MinLat && lat <= b.MaxLat
}

// Visible is a viewport predicate for grouping.
func (b Bounds) Visible(o *org.Organisation) bool {
	return b.Contains(o.Lat, o.Long)
}

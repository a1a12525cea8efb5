package config

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Taxonomy is the on-disk configuration of the category vocabulary: which
// raw labels merge into which canonical category, how categories are
// colored, which column headers feed each logical field, and which
// municipalities are excluded from the map.
type Taxonomy struct {
	Categories            Categories        `yaml:"categories"`
	Patterns              []Pattern         `yaml:"patterns"`
	Colors                map[string]string `yaml:"colors"`
	Fields                Fields            `yaml:"fields"`
	ExcludeMunicipalities []string          `yaml:"exclude_municipalities"`
}

// Categories maps a canonical category name to the raw variants (typos,
// pluralizations, deprecated labels) that merge into it.
type Categories map[string][]OrderedVariant

type OrderedVariant struct {
	Variant string
	Order   int
}

// Pattern merges any raw label containing a substring (case-insensitive)
// into a canonical category.
type Pattern struct {
	Contains string `yaml:"contains"`
	Category string `yaml:"category"`
}

// Fields maps a logical field name (name, pc6, gemeente, stadsdeel, wijk,
// buurt, category, lat, lon) to its column header candidates, most
// preferred first.
type Fields map[string][]string

// UnmarshalYAML keeps the document order of the variants so that the
// first-wins rule of the normalizer is deterministic when a variant
// appears under more than one canonical name.
func (c *Categories) UnmarshalYAML(unmarshal func(interface{}) error) error {
	if *c == nil {
		*c = make(map[string][]OrderedVariant)
	}
	slice := yaml.MapSlice{}
	if err := unmarshal(&slice); err != nil {
		return err
	}
	order := 0
	for _, item := range slice {
		canonical, ok := item.Key.(string)
		if !ok {
			return fmt.Errorf("category name '%v' not a string", item.Key)
		}
		if item.Value == nil {
			(*c)[canonical] = nil
			continue
		}
		variants, ok := item.Value.([]interface{})
		if !ok {
			return fmt.Errorf("variants of category '%s' not a list", canonical)
		}
		for _, v := range variants {
			variant, ok := v.(string)
			if !ok {
				return fmt.Errorf("variant '%v' of category '%s' not a string", v, canonical)
			}
			(*c)[canonical] = append((*c)[canonical], OrderedVariant{Variant: variant, Order: order})
			order++
		}
	}
	return nil
}

func Parse(data []byte) (*Taxonomy, error) {
	taxonomy := &Taxonomy{}
	if err := yaml.Unmarshal(data, taxonomy); err != nil {
		return nil, errors.Wrap(err, "parsing taxonomy")
	}
	return taxonomy, nil
}

func Load(filename string) (*Taxonomy, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "reading taxonomy file %s", filename)
	}
	taxonomy, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "taxonomy file %s", filename)
	}
	return taxonomy, nil
}

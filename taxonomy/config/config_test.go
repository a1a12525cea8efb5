package config

import (
	"testing"
)

func TestParseKeepsVariantOrder(t *testing.T) {
	conf, err := Parse([]byte(`
categories:
  Sportverenigingen:
    - Sport vereniging
    - Sportvereniging
  Buurtcentrum:
    - Buurt centrum
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(conf.Categories) != 2 {
		t.Fatal("unexpected categories:", conf.Categories)
	}
	sport := conf.Categories["Sportverenigingen"]
	if len(sport) != 2 || sport[0].Variant != "Sport vereniging" || sport[1].Variant != "Sportvereniging" {
		t.Fatal("unexpected variants:", sport)
	}
	if sport[0].Order >= sport[1].Order {
		t.Error("variant order not increasing:", sport)
	}
	buurt := conf.Categories["Buurtcentrum"]
	if len(buurt) != 1 || buurt[0].Order <= sport[1].Order {
		t.Error("document order not kept across categories:", buurt)
	}
}

func TestParseCategoryWithoutVariants(t *testing.T) {
	conf, err := Parse([]byte(`
categories:
  Stadsdorpen:
`))
	if err != nil {
		t.Fatal(err)
	}
	if vs, ok := conf.Categories["Stadsdorpen"]; !ok || len(vs) != 0 {
		t.Fatal("unexpected categories:", conf.Categories)
	}
}

func TestParseRejectsNonListVariants(t *testing.T) {
	_, err := Parse([]byte(`
categories:
  Sportverenigingen: Sport vereniging
`))
	if err == nil {
		t.Fatal("expected error for scalar variants")
	}
}

func TestParseFullDocument(t *testing.T) {
	conf, err := Parse([]byte(`
categories:
  Stadsdorpen:
patterns:
  - contains: stadsdorp
    category: Stadsdorpen
colors:
  Stadsdorpen: "#6a4c93"
fields:
  name: [Vestigingnaam, Naam]
exclude_municipalities: [Diemen]
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(conf.Patterns) != 1 || conf.Patterns[0].Contains != "stadsdorp" {
		t.Fatal("unexpected patterns:", conf.Patterns)
	}
	if conf.Colors["Stadsdorpen"] != "#6a4c93" {
		t.Error("unexpected colors:", conf.Colors)
	}
	if len(conf.Fields["name"]) != 2 {
		t.Error("unexpected fields:", conf.Fields)
	}
	if len(conf.ExcludeMunicipalities) != 1 || conf.ExcludeMunicipalities[0] != "Diemen" {
		t.Error("unexpected exclusions:", conf.ExcludeMunicipalities)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("does-not-exist.yml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/socialekaart/sokaart/boundary"
	"github.com/socialekaart/sokaart/cache"
	"github.com/socialekaart/sokaart/cache/binary"
	"github.com/socialekaart/sokaart/config"
	"github.com/socialekaart/sokaart/database/postgres"
	"github.com/socialekaart/sokaart/export"
	"github.com/socialekaart/sokaart/filter"
	"github.com/socialekaart/sokaart/group"
	"github.com/socialekaart/sokaart/ingest"
	"github.com/socialekaart/sokaart/log"
	"github.com/socialekaart/sokaart/org"
	"github.com/socialekaart/sokaart/taxonomy"
)

func printCmds() {
	fmt.Fprintf(os.Stderr, "Usage: %s COMMAND [args]\n\n", os.Args[0])
	fmt.Println("Available commands:")
	fmt.Println("\timport")
	fmt.Println("\texport")
	fmt.Println("\tquery")
	fmt.Println("\tversion")
}

func main() {
	if len(os.Args) <= 1 {
		printCmds()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "import":
		config.ParseImport(os.Args[2:])
		mainImport()
	case "export":
		config.ParseExport(os.Args[2:])
		mainExport()
	case "query":
		config.ParseQuery(os.Args[2:])
		mainQuery()
	case "version":
		fmt.Println(Version)
	default:
		printCmds()
		log.Fatalf("invalid command: '%s'", os.Args[1])
	}
	os.Exit(0)
}

func loadDataset() (*ingest.Dataset, *taxonomy.Taxonomy) {
	if config.BaseOptions.Quiet {
		log.SetMinLevel(log.LWarn)
	}
	tax, err := taxonomy.Load(config.BaseOptions.Taxonomy)
	if err != nil {
		log.Fatal(err)
	}
	if config.BaseOptions.Csv == "" {
		log.Fatal("missing -csv")
	}

	step := log.Step("Reading organisations")
	dataset, err := ingest.ReadFile(
		config.BaseOptions.Csv,
		config.BaseOptions.DelimiterRune(),
		tax,
	)
	if err != nil {
		log.Fatal(err)
	}
	step()
	log.Printf("[info] %s", dataset.Stats.String())
	return dataset, tax
}

// loadBoundaries loads the optional wijk and stadsdeel polygon files.
// Each file fails independently, a missing boundary file never blocks the
// point dataset.
func loadBoundaries(dataset *ingest.Dataset) (wijken, stadsdelen []*boundary.Region) {
	if config.BaseOptions.Wijken != "" {
		regions, err := boundary.LoadFile(config.BaseOptions.Wijken)
		if err != nil {
			log.Printf("[error] wijk boundaries: %s", err)
		} else {
			log.Printf("[info] loaded %d wijk boundaries", len(regions))
			checkAlignment("wijk", dataset, regions,
				dataset.Wijken(), func(o *org.Organisation) string { return o.Wijk })
			wijken = regions
		}
	}
	if config.BaseOptions.Stadsdelen != "" {
		regions, err := boundary.LoadFile(config.BaseOptions.Stadsdelen)
		if err != nil {
			log.Printf("[error] stadsdeel boundaries: %s", err)
		} else {
			log.Printf("[info] loaded %d stadsdeel boundaries", len(regions))
			checkAlignment("stadsdeel", dataset, regions,
				dataset.Stadsdelen(), func(o *org.Organisation) string { return o.Stadsdeel })
			stadsdelen = regions
		}
	}
	return wijken, stadsdelen
}

// checkAlignment warns when the ingested dataset and the boundary file
// disagree: area names without a polygon, and points outside the polygon
// of the area they claim. Nothing is enforced, the map renders either
// way.
func checkAlignment(kind string, dataset *ingest.Dataset, regions []*boundary.Region, names []string, areaName func(*org.Organisation) string) {
	known := make(map[string]struct{})
	for _, name := range boundary.Names(regions) {
		known[name] = struct{}{}
	}
	var missing []string
	for _, name := range names {
		if _, ok := known[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) != 0 {
		log.Printf("[warn] %d %s name(s) without boundary polygon: %s",
			len(missing), kind, strings.Join(missing, ", "))
	}
	if misplaced := boundary.Misplaced(dataset.Organisations, regions, areaName); len(misplaced) != 0 {
		log.Printf("[warn] %d organisation(s) outside their %s polygon",
			len(misplaced), kind)
	}
}

func mainImport() {
	dataset, _ := loadDataset()
	loadBoundaries(dataset)

	if config.ImportOptions.WriteCache {
		step := log.Step("Writing cache")
		c, err := cache.Open(config.BaseOptions.CacheDir)
		if err != nil {
			log.Fatal(err)
		}
		names := &binary.Names{
			Categories: dataset.Categories(),
			Stadsdelen: dataset.Stadsdelen(),
			Wijken:     dataset.Wijken(),
		}
		if err := c.PutDataset(dataset.Organisations, names); err != nil {
			c.Close()
			log.Fatal(err)
		}
		if err := c.Close(); err != nil {
			log.Fatal(err)
		}
		step()
	}

	if config.ImportOptions.Write {
		if config.BaseOptions.Connection == "" {
			log.Fatal("-write requires -connection")
		}
		step := log.Step("Importing into database")
		db, err := postgres.Open(config.BaseOptions.Connection, config.BaseOptions.Schema)
		if err != nil {
			log.Fatal(err)
		}
		if err := db.Import(dataset.Organisations); err != nil {
			db.Close()
			log.Fatal(err)
		}
		if err := db.Close(); err != nil {
			log.Fatal(err)
		}
		step()
		log.Printf("[info] imported %d organisations", len(dataset.Organisations))
	}
}

func mainExport() {
	dataset, tax := loadDataset()
	wijken, stadsdelen := loadBoundaries(dataset)

	outDir := config.BaseOptions.OutDir
	if outDir == "" {
		outDir = "."
	}
	step := log.Step("Writing export")
	if err := export.WriteDataset(outDir, dataset, tax); err != nil {
		log.Fatal(err)
	}
	if len(wijken) != 0 {
		if err := export.WriteBoundaries(outDir, export.WijkenFile, wijken); err != nil {
			log.Fatal(err)
		}
	}
	if len(stadsdelen) != 0 {
		if err := export.WriteBoundaries(outDir, export.StadsdelenFile, stadsdelen); err != nil {
			log.Fatal(err)
		}
	}
	step()
}

func mainQuery() {
	var orgs []*org.Organisation
	if config.QueryOptions.FromCache {
		if config.BaseOptions.Quiet {
			log.SetMinLevel(log.LWarn)
		}
		c, err := cache.Open(config.BaseOptions.CacheDir)
		if err != nil {
			log.Fatal(err)
		}
		orgs, err = c.Organisations()
		if err != nil {
			c.Close()
			log.Fatal(err)
		}
		c.Close()
	} else {
		dataset, _ := loadDataset()
		orgs = dataset.Organisations
	}

	state := filter.NewState()
	if config.QueryOptions.Categories != "" {
		var categories []string
		for _, cat := range strings.Split(config.QueryOptions.Categories, ",") {
			if cat = strings.TrimSpace(cat); cat != "" {
				categories = append(categories, cat)
			}
		}
		state.SetActiveCategories(categories)
	}
	state.SetActiveStadsdeel(config.QueryOptions.Stadsdeel)
	state.SetActiveWijk(config.QueryOptions.Wijk)

	var visible group.Visible
	if config.QueryOptions.Bbox != "" {
		bounds, err := boundary.ParseBounds(config.QueryOptions.Bbox)
		if err != nil {
			log.Fatal(err)
		}
		visible = bounds.Visible
	}

	dim := group.ByCategory
	if config.QueryOptions.GroupBy == "wijk" {
		dim = group.ByWijk
	} else if config.QueryOptions.GroupBy != "category" {
		log.Fatalf("invalid -by '%s', expected category or wijk", config.QueryOptions.GroupBy)
	}

	groups := group.ByDimension(orgs, state, visible, dim)
	if len(groups) == 0 {
		fmt.Println("Geen organisaties in beeld.")
		return
	}
	for _, g := range groups {
		fmt.Printf("%s (%d)\n", g.Key, len(g.Organisations))
		for _, o := range g.Organisations {
			line := o.Name
			if line == "" {
				line = "(naam onbekend)"
			}
			if dim == group.ByCategory && o.Wijk != "" {
				line += " - " + o.Wijk
			}
			if dim == group.ByWijk && o.Category != "" {
				line += " - " + o.Category
			}
			fmt.Printf("\t%s\n", line)
		}
	}
}

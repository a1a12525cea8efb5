package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
)

// Config is the optional JSON config file. Command line flags win over
// config file values.
type Config struct {
	Csv        string `json:"csv"`
	Delimiter  string `json:"delimiter"`
	Taxonomy   string `json:"taxonomy"`
	Wijken     string `json:"wijken"`
	Stadsdelen string `json:"stadsdelen"`
	CacheDir   string `json:"cachedir"`
	Connection string `json:"connection"`
	Schema     string `json:"dbschema"`
	OutDir     string `json:"outdir"`
}

const defaultDelimiter = ";"
const defaultTaxonomy = "taxonomy.yml"
const defaultCacheDir = "/tmp/sokaart"
const defaultSchema = "public"

var ImportFlags = flag.NewFlagSet("import", flag.ExitOnError)
var ExportFlags = flag.NewFlagSet("export", flag.ExitOnError)
var QueryFlags = flag.NewFlagSet("query", flag.ExitOnError)

type _BaseOptions struct {
	Csv        string
	Delimiter  string
	Taxonomy   string
	Wijken     string
	Stadsdelen string
	CacheDir   string
	Connection string
	Schema     string
	OutDir     string
	ConfigFile string
	Quiet      bool
}

func (o *_BaseOptions) updateFromConfig() error {
	conf := &Config{
		Delimiter: defaultDelimiter,
		Taxonomy:  defaultTaxonomy,
		CacheDir:  defaultCacheDir,
		Schema:    defaultSchema,
	}

	if o.ConfigFile != "" {
		f, err := os.Open(o.ConfigFile)
		if err != nil {
			return err
		}
		decoder := json.NewDecoder(f)
		err = decoder.Decode(&conf)
		f.Close()
		if err != nil {
			return err
		}
	}

	if o.Csv == "" {
		o.Csv = conf.Csv
	}
	if o.Delimiter == defaultDelimiter && conf.Delimiter != "" {
		o.Delimiter = conf.Delimiter
	}
	if o.Taxonomy == defaultTaxonomy && conf.Taxonomy != "" {
		o.Taxonomy = conf.Taxonomy
	}
	if o.Wijken == "" {
		o.Wijken = conf.Wijken
	}
	if o.Stadsdelen == "" {
		o.Stadsdelen = conf.Stadsdelen
	}
	if o.CacheDir == defaultCacheDir && conf.CacheDir != "" {
		o.CacheDir = conf.CacheDir
	}
	if o.Connection == "" {
		o.Connection = conf.Connection
	}
	if o.Schema == defaultSchema && conf.Schema != "" {
		o.Schema = conf.Schema
	}
	if o.OutDir == "" {
		o.OutDir = conf.OutDir
	}
	return nil
}

func (o *_BaseOptions) check() []error {
	errs := []error{}
	if len([]rune(o.Delimiter)) != 1 {
		errs = append(errs, errors.New("-delimiter must be a single character"))
	}
	if o.Taxonomy == "" {
		errs = append(errs, errors.New("missing taxonomy"))
	}
	return errs
}

// DelimiterRune returns the configured delimiter. Only valid after check.
func (o *_BaseOptions) DelimiterRune() rune {
	return []rune(o.Delimiter)[0]
}

type _ImportOptions struct {
	Write      bool
	WriteCache bool
}

type _QueryOptions struct {
	FromCache  bool
	Categories string
	Stadsdeel  string
	Wijk       string
	Bbox       string
	GroupBy    string
}

var BaseOptions = _BaseOptions{}
var ImportOptions = _ImportOptions{}
var QueryOptions = _QueryOptions{}

func addBaseFlags(flags *flag.FlagSet) {
	flags.StringVar(&BaseOptions.Csv, "csv", "", "organisations csv file")
	flags.StringVar(&BaseOptions.Delimiter, "delimiter", defaultDelimiter, "csv delimiter")
	flags.StringVar(&BaseOptions.Taxonomy, "taxonomy", defaultTaxonomy, "taxonomy file (yaml)")
	flags.StringVar(&BaseOptions.Wijken, "wijken", "", "wijk boundaries (geojson)")
	flags.StringVar(&BaseOptions.Stadsdelen, "stadsdelen", "", "stadsdeel boundaries (geojson)")
	flags.StringVar(&BaseOptions.CacheDir, "cachedir", defaultCacheDir, "cache directory")
	flags.StringVar(&BaseOptions.Connection, "connection", "", "database connection parameters")
	flags.StringVar(&BaseOptions.Schema, "dbschema", defaultSchema, "db schema")
	flags.StringVar(&BaseOptions.OutDir, "outdir", "", "output directory for exports")
	flags.StringVar(&BaseOptions.ConfigFile, "config", "", "config (json)")
	flags.BoolVar(&BaseOptions.Quiet, "quiet", false, "quiet log output")
}

func usage(flags *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(os.Stderr, "Usage: %s %s [args]\n\n", os.Args[0], flags.Name())
		flags.PrintDefaults()
		os.Exit(2)
	}
}

func init() {
	ImportFlags.Usage = usage(ImportFlags)
	ExportFlags.Usage = usage(ExportFlags)
	QueryFlags.Usage = usage(QueryFlags)

	addBaseFlags(ImportFlags)
	ImportFlags.BoolVar(&ImportOptions.Write, "write", false, "write dataset to the database")
	ImportFlags.BoolVar(&ImportOptions.WriteCache, "writecache", false, "write dataset to the local cache")

	addBaseFlags(ExportFlags)

	addBaseFlags(QueryFlags)
	QueryFlags.BoolVar(&QueryOptions.FromCache, "fromcache", false, "read dataset from the local cache instead of the csv")
	QueryFlags.StringVar(&QueryOptions.Categories, "categories", "", "active categories, comma separated (empty: all)")
	QueryFlags.StringVar(&QueryOptions.Stadsdeel, "stadsdeel", "", "active stadsdeel")
	QueryFlags.StringVar(&QueryOptions.Wijk, "wijk", "", "active wijk")
	QueryFlags.StringVar(&QueryOptions.Bbox, "bbox", "", "viewport as minlon,minlat,maxlon,maxlat (empty: everything)")
	QueryFlags.StringVar(&QueryOptions.GroupBy, "by", "category", "group by 'category' or 'wijk'")
}

func parse(flags *flag.FlagSet, args []string) {
	err := flags.Parse(args)
	if err != nil {
		log.Fatal(err)
	}
	err = BaseOptions.updateFromConfig()
	if err != nil {
		log.Fatal(err)
	}
	errs := BaseOptions.check()
	if len(errs) != 0 {
		reportErrors(errs)
		flags.Usage()
	}
}

func ParseImport(args []string) {
	parse(ImportFlags, args)
}

func ParseExport(args []string) {
	parse(ExportFlags, args)
}

func ParseQuery(args []string) {
	parse(QueryFlags, args)
}

func reportErrors(errs []error) {
	fmt.Println("errors in config/options:")
	for _, err := range errs {
		fmt.Printf("\t%s\n", err)
	}
	os.Exit(1)
}

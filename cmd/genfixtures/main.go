// Command genfixtures converts CSV tables into the other source formats the
// etl command accepts, so every reader can be exercised against the same
// data. For each input it writes <name>.xlsx and <name>.shp (with its .shx
// and .dbf) into the -out directory.
//
// Usage:
//
//	go run ./cmd/genfixtures \
//	  -out data/fixtures \
//	  internal/pipeline/testdata/listings.csv internal/pipeline/testdata/climate.csv
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/listing-enrichment-etl/internal/source"
)

func main() {
	outDir := flag.String("out", "data/fixtures", "directory for generated files")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}

	for _, in := range flag.Args() {
		written, err := convert(in, *outDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %s: %v\n", in, err)
			os.Exit(1)
		}
		for _, w := range written {
			fmt.Printf("Wrote %s\n", w)
		}
	}
}

func convert(in, outDir string) ([]string, error) {
	t, err := source.ReadTable(in)
	if err != nil {
		return nil, err
	}
	base := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)))

	xlsx := base + ".xlsx"
	if err := source.WriteXLSX(xlsx, t); err != nil {
		return nil, err
	}
	shape := base + ".shp"
	if err := source.WriteShapefile(shape, t); err != nil {
		return nil, err
	}
	return []string{xlsx, shape}, nil
}

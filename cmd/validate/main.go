// Command validate performs integrity checks on an enriched listings
// artifact. It always checks the output contract. When the source tables are
// given it also re-runs the transform and reconciles the artifact against it.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -json data/listings_enriched.json \
//	  -listings data/listings.csv \
//	  -climate data/climate.csv
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/listing-enrichment-etl/internal/adapter/jsonfile"
	"github.com/couchcryptid/listing-enrichment-etl/internal/domain"
	"github.com/couchcryptid/listing-enrichment-etl/internal/source"
	"github.com/google/go-cmp/cmp"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	jsonPath := flag.String("json", "data/listings_enriched.json", "enriched listings JSON artifact")
	listingsPath := flag.String("listings", "", "listings table to reconcile against (optional)")
	climatePath := flag.String("climate", "", "climate table to reconcile against (optional)")
	flag.Parse()

	if (*listingsPath == "") != (*climatePath == "") {
		fmt.Fprintln(os.Stderr, "-listings and -climate must be given together")
		flag.Usage()
		os.Exit(2)
	}

	if code := run(os.Stdout, *jsonPath, *listingsPath, *climatePath); code != 0 {
		os.Exit(code)
	}
}

func run(w io.Writer, jsonPath, listingsPath, climatePath string) int {
	fmt.Fprintln(w, "=== Listing Enrichment Validation ===")
	fmt.Fprintln(w)

	records, err := jsonfile.ReadFile(jsonPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load artifact: %v\n", err)
		return 1
	}

	phases := []*phase{validateContract(records)}

	var ds domain.Dataset
	if listingsPath != "" {
		ds, err = loadSources(listingsPath, climatePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load sources: %v\n", err)
			return 1
		}
		phases = append(phases,
			validateReconciliation(records, ds),
			validateClimateJoin(records, ds.Climate),
		)
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d artifact, %d listings, %d climate\n",
		len(records), len(ds.Listings), len(ds.Climate))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

func loadSources(listingsPath, climatePath string) (domain.Dataset, error) {
	lt, err := source.ReadTable(listingsPath)
	if err != nil {
		return domain.Dataset{}, err
	}
	listings, err := source.Listings(lt)
	if err != nil {
		return domain.Dataset{}, err
	}
	ct, err := source.ReadTable(climatePath)
	if err != nil {
		return domain.Dataset{}, err
	}
	climate, err := source.ClimateRows(ct)
	if err != nil {
		return domain.Dataset{}, err
	}
	return domain.Dataset{Listings: listings, Climate: climate}, nil
}

// validateContract checks the properties every artifact must hold on its own.
func validateContract(records []domain.OutputRecord) *phase {
	p := &phase{name: "Output contract"}
	for _, err := range domain.Verify(records) {
		p.errorf("%v", err)
	}
	return p
}

// validateReconciliation re-runs the transform on the sources and requires
// the artifact to match it record for record.
func validateReconciliation(records []domain.OutputRecord, ds domain.Dataset) *phase {
	p := &phase{name: "Source reconciliation"}
	want := domain.Transform(ds.Listings, ds.Climate).Records

	if len(want) != len(records) {
		p.errorf("artifact has %d records, sources produce %d", len(records), len(want))
	}
	for i := range min(len(want), len(records)) {
		if diff := cmp.Diff(want[i], records[i]); diff != "" {
			p.errorf("record %d (%s) differs (-want +got):\n%s", i, want[i].APN, diff)
		}
	}
	return p
}

// validateClimateJoin checks that climate fields only appear on records whose
// APN exists in the climate table.
func validateClimateJoin(records []domain.OutputRecord, climate []domain.Climate) *phase {
	p := &phase{name: "Climate join coverage"}
	known := make(map[string]bool, len(climate))
	for _, obs := range domain.NormalizeClimate(climate) {
		known[obs.NormAPN] = true
	}
	for i, r := range records {
		hasClimate := r.FloodZone != nil || r.AvgRainInches != nil
		if hasClimate && !known[r.APN] {
			p.errorf("record %d (%s): climate fields set but APN not in climate table", i, r.APN)
		}
	}
	return p
}

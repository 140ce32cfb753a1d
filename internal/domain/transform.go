package domain

// Stats counts what each stage of a Transform did.
type Stats struct {
	ListingsIn int
	ClimateIn  int
	Dropped    map[DropReason]int
	Admitted   int
	Duplicates int // admitted rows collapsed into another row with the same APN
	Matched    int // output rows that found a climate observation
	Output     int
}

// DroppedTotal sums Dropped across reasons.
func (s Stats) DroppedTotal() int {
	n := 0
	for _, c := range s.Dropped {
		n += c
	}
	return n
}

// Result is the output of Transform.
type Result struct {
	Records []OutputRecord
	Stats   Stats
}

// Transform runs the full cleaning pipeline: normalize, filter, deduplicate,
// enrich and finalize. It is pure and never fails; rows it cannot use are
// dropped and counted.
func Transform(listings []Listing, climate []Climate) Result {
	normalized := NormalizeListings(listings)
	admitted, dropped := FilterListings(normalized)
	unique := Deduplicate(admitted)
	enriched := Enrich(unique, NormalizeClimate(climate))
	records := Finalize(enriched)

	matched := 0
	for _, e := range enriched {
		if e.Matched {
			matched++
		}
	}

	return Result{
		Records: records,
		Stats: Stats{
			ListingsIn: len(listings),
			ClimateIn:  len(climate),
			Dropped:    dropped,
			Admitted:   len(admitted),
			Duplicates: len(admitted) - len(unique),
			Matched:    matched,
			Output:     len(records),
		},
	}
}

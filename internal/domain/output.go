package domain

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// Finalize stable-sorts enriched listings by their parsed price ascending,
// so equal prices keep their incoming order, and projects them to
// OutputRecords. Records whose price could not be represented sort last.
func Finalize(enriched []EnrichedListing) []OutputRecord {
	sorted := slices.Clone(enriched)
	slices.SortStableFunc(sorted, func(a, b EnrichedListing) int {
		_, aok := toInt64(a.Price)
		_, bok := toInt64(b.Price)
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return 1
		case !bok:
			return -1
		}
		return cmp.Compare(a.Price, b.Price)
	})

	out := make([]OutputRecord, len(sorted))
	for i, e := range sorted {
		out[i] = project(e)
	}
	return out
}

func project(e EnrichedListing) OutputRecord {
	rec := OutputRecord{
		APN:          e.NormAPN,
		FullAddress:  e.FullAddress,
		Price:        intPtr(e.Price),
		Beds:         parseInt64(e.Beds),
		Baths:        parseInt64(e.Baths),
		Sqft:         intPtr(e.Sqft),
		PricePerSqft: e.PricePerSqft,
		Status:       e.Status,
		FloodZone:    e.FloodZone,
	}
	if e.AvgRainInches != nil {
		rain := Inches(*e.AvgRainInches)
		rec.AvgRainInches = &rain
	}
	return rec
}

// WriteJSON writes records as an indented JSON array. An empty input is
// written as [] rather than null.
func WriteJSON(w io.Writer, records []OutputRecord) error {
	if records == nil {
		records = []OutputRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode output records: %w", err)
	}
	return nil
}

// ReadJSON decodes a sequence previously written by WriteJSON.
func ReadJSON(r io.Reader) ([]OutputRecord, error) {
	var records []OutputRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode output records: %w", err)
	}
	return records, nil
}

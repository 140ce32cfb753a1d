package domain

import (
	"math"
	"strings"
)

// EnrichedListing is a deduplicated candidate joined with its climate row and
// carrying the derived fields.
type EnrichedListing struct {
	Candidate
	FullAddress   string
	PricePerSqft  *int64
	FloodZone     *string
	AvgRainInches *float64
	Matched       bool // a climate row with the same APN was found
}

// NormalizeClimate keys climate rows by canonical APN and parses rainfall.
// Rows are never dropped; a row without digits in its APN simply cannot match.
func NormalizeClimate(rows []Climate) []ClimateObservation {
	out := make([]ClimateObservation, len(rows))
	for i, r := range rows {
		norm, _ := NormalizeAPN(r.APN)
		obs := ClimateObservation{NormAPN: norm}
		if r.FloodZone != "" {
			zone := r.FloodZone
			obs.FloodZone = &zone
		}
		if v, ok := ParseNumber(r.AvgRainInches); ok {
			obs.AvgRainInches = &v
		}
		out[i] = obs
	}
	return out
}

// Enrich left-joins candidates to climate observations on APN and computes
// price per sqft and the composed address. Unmatched listings keep null
// climate fields. When several observations share an APN the first wins.
func Enrich(candidates []Candidate, climate []ClimateObservation) []EnrichedListing {
	byAPN := make(map[string]ClimateObservation, len(climate))
	for _, obs := range climate {
		if obs.NormAPN == "" {
			continue
		}
		if _, seen := byAPN[obs.NormAPN]; !seen {
			byAPN[obs.NormAPN] = obs
		}
	}

	out := make([]EnrichedListing, len(candidates))
	for i, c := range candidates {
		e := EnrichedListing{
			Candidate:    c,
			FullAddress:  fullAddress(c.Address, c.City, c.State, c.Zip),
			PricePerSqft: pricePerSqft(math.Trunc(c.Price), math.Trunc(c.Sqft)),
		}
		if obs, ok := byAPN[c.NormAPN]; ok {
			e.FloodZone = obs.FloodZone
			e.AvgRainInches = obs.AvgRainInches
			e.Matched = true
		}
		out[i] = e
	}
	return out
}

// pricePerSqft rounds half to even. Returns nil when sqft is not positive or
// the quotient does not fit in an int64.
func pricePerSqft(price, sqft float64) *int64 {
	if sqft <= 0 {
		return nil
	}
	return intPtr(math.RoundToEven(price / sqft))
}

// fullAddress composes "street, city, state zip", folding out empty parts.
func fullAddress(street, city, state, zip string) string {
	stateZip := strings.TrimSpace(strings.TrimSpace(state) + " " + strings.TrimSpace(zip))

	parts := make([]string, 0, 3)
	for _, p := range []string{street, city, stateZip} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

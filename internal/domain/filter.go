package domain

import "strings"

// DropReason names the first admission rule a listing failed.
type DropReason string

const (
	DropStatus  DropReason = "status"
	DropAPN     DropReason = "apn"
	DropAddress DropReason = "address"
	DropZip     DropReason = "zip"
	DropPrice   DropReason = "price"
	DropSqft    DropReason = "sqft"
)

// DropReasons lists every reason in the order rules are checked.
var DropReasons = []DropReason{DropStatus, DropAPN, DropAddress, DropZip, DropPrice, DropSqft}

// FilterListings admits listings with an allowed status, a usable APN, a
// non-empty address and zip, and a price and sqft that are still positive
// once truncated to whole numbers. Order is preserved. Rejected rows are counted under the first
// rule they fail.
func FilterListings(listings []NormalizedListing) ([]Candidate, map[DropReason]int) {
	admitted := make([]Candidate, 0, len(listings))
	dropped := make(map[DropReason]int)

	for _, l := range listings {
		c, reason, ok := admit(l)
		if !ok {
			dropped[reason]++
			continue
		}
		admitted = append(admitted, c)
	}
	return admitted, dropped
}

func admit(l NormalizedListing) (Candidate, DropReason, bool) {
	status := normalizeStatus(l.Status)
	if _, ok := allowedStatuses[status]; !ok {
		return Candidate{}, DropStatus, false
	}
	if l.NormAPN == "" {
		return Candidate{}, DropAPN, false
	}
	if l.Address == "" {
		return Candidate{}, DropAddress, false
	}
	if l.Zip == "" {
		return Candidate{}, DropZip, false
	}
	price, ok := ParseNumber(l.Price)
	if !ok || !wholePositive(price) {
		return Candidate{}, DropPrice, false
	}
	sqft, ok := ParseNumber(l.Sqft)
	if !ok || !wholePositive(sqft) {
		return Candidate{}, DropSqft, false
	}

	return Candidate{
		Listing: l.Listing,
		NormAPN: l.NormAPN,
		Price:   price,
		Sqft:    sqft,
		Status:  status,
	}, "", true
}

// wholePositive reports whether v truncates to an int64 of at least 1, the
// form it takes in the output record.
func wholePositive(v float64) bool {
	n, ok := toInt64(v)
	return ok && n >= 1
}

func normalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

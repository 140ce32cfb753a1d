package domain

import "regexp"

// nonDigitRe matches every run of characters that is not a Unicode decimal
// digit.
var nonDigitRe = regexp.MustCompile(`\P{Nd}+`)

// NormalizeAPN reduces a parcel identifier to its digits, e.g.
// "123-456-789" -> "123456789". It returns ("", false) when nothing usable
// remains.
func NormalizeAPN(raw string) (string, bool) {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if digits == "" {
		return "", false
	}
	return digits, true
}

// NormalizeListings pairs every listing with its canonical APN. Input order
// is preserved and nothing is dropped.
func NormalizeListings(listings []Listing) []NormalizedListing {
	out := make([]NormalizedListing, len(listings))
	for i, l := range listings {
		norm, _ := NormalizeAPN(l.APN)
		out[i] = NormalizedListing{Listing: l, NormAPN: norm}
	}
	return out
}

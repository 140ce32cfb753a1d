package domain

import (
	"cmp"
	"slices"
)

// Deduplicate keeps one candidate per APN: the one with the lowest price.
// Candidates are stable-sorted by (APN, price) and the first of each APN is
// kept, so for equal prices the earliest input row wins. The result is in
// APN order. The input slice is not modified.
func Deduplicate(candidates []Candidate) []Candidate {
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(a, b Candidate) int {
		if c := cmp.Compare(a.NormAPN, b.NormAPN); c != 0 {
			return c
		}
		return cmp.Compare(a.Price, b.Price)
	})

	out := make([]Candidate, 0, len(sorted))
	for i, c := range sorted {
		if i > 0 && c.NormAPN == sorted[i-1].NormAPN {
			continue
		}
		out = append(out, c)
	}
	return out
}

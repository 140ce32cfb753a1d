package domain

import (
	"fmt"
	"math"
)

// Verify checks a record sequence against the output contract: usable and
// unique APNs, allowed statuses, positive price and sqft, price per sqft equal
// to round(price/sqft), and non-decreasing price. It returns one error per
// violation found, or nil.
func Verify(records []OutputRecord) []error {
	var errs []error
	fail := func(i int, format string, args ...any) {
		errs = append(errs, fmt.Errorf("record %d: %s", i, fmt.Sprintf(format, args...)))
	}

	seen := make(map[string]int, len(records))
	var prevPrice *int64
	for i, r := range records {
		if norm, ok := NormalizeAPN(r.APN); !ok || norm != r.APN {
			fail(i, "apn %q is not a digits-only identifier", r.APN)
		}
		if first, dup := seen[r.APN]; dup {
			fail(i, "apn %s duplicates record %d", r.APN, first)
		} else {
			seen[r.APN] = i
		}
		if _, ok := allowedStatuses[r.Status]; !ok {
			fail(i, "status %q is not allowed", r.Status)
		}

		switch {
		case r.Price == nil || *r.Price <= 0:
			fail(i, "price must be positive")
		case r.Sqft == nil || *r.Sqft <= 0:
			fail(i, "sqft must be positive")
		case r.PricePerSqft == nil:
			fail(i, "price_per_sqft is null")
		default:
			// Derived from the emitted whole-number price and sqft.
			want := int64(math.RoundToEven(float64(*r.Price) / float64(*r.Sqft)))
			if *r.PricePerSqft != want {
				fail(i, "price_per_sqft %d != round(%d/%d) = %d", *r.PricePerSqft, *r.Price, *r.Sqft, want)
			}
		}

		if r.Price != nil {
			if prevPrice != nil && *r.Price < *prevPrice {
				fail(i, "price %d is lower than the previous record's %d", *r.Price, *prevPrice)
			}
			prevPrice = r.Price
		}
	}
	return errs
}

// Package domain turns raw property listings and per-parcel climate
// observations into the enriched listing dataset.
//
// # Data Sources
//
// Both inputs arrive as text-typed tables. Every cell is a string; the tokens
// "", "na", "NA", "null" and "None" mean "missing" and are mapped to the empty
// string before records reach this package, so an empty field and a null field
// are the same thing here.
//
// Listings carry: apn, address, city, state, zip, price, beds, baths, sqft,
// status. Climate rows carry: apn, flood_zone, avg_rain_inches.
//
// # APN Normalization
//
// Assessor's Parcel Numbers are written with arbitrary punctuation:
//
//	"123-456-789", "123 456 789", "123456789"
//
// [NormalizeAPN] keeps only the decimal digits, so all three become
// "123456789". An identifier with no digits at all is unusable and the row
// can never be deduplicated or joined.
//
// # Tolerant Ingestion
//
// Numeric cells go through [ParseNumber], which returns (0, false) for
// anything it cannot read instead of an error. A listing whose price or sqft
// does not parse is dropped by [FilterListings]; a climate row whose rainfall
// does not parse is kept with a null rainfall.
//
// # Stages
//
//	NormalizeListings -> FilterListings -> Deduplicate -> Enrich -> Finalize
//	NormalizeClimate  --------------------------------------^
//
// Each stage is a pure function over a slice and returns a new slice.
// [Transform] runs them in order and reports per-stage counts in [Stats].
//
// Duplicate APNs collapse to the lowest price. Among rows that share both APN
// and price, the one that appeared first in the input wins.
//
// # Output Contract
//
// [OutputRecord] is what loaders depend on field-for-field: ten keys, in a
// fixed order, always present (null rather than omitted), integers for money
// and counts, a float for rainfall. Records are ordered by price ascending;
// equal prices keep APN order.
package domain

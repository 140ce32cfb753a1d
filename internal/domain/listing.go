package domain

import (
	"math"
	"strconv"
	"strings"
)

// Status values a listing may carry into the output.
const (
	StatusForSale = "for_sale"
	StatusPending = "pending"
	StatusSold    = "sold"
)

// allowedStatuses is the closed set of listing states that survive filtering.
var allowedStatuses = map[string]struct{}{
	StatusForSale: {},
	StatusPending: {},
	StatusSold:    {},
}

// Listing is one raw row of the listings table. Missing cells are "".
type Listing struct {
	APN     string
	Address string
	City    string
	State   string
	Zip     string
	Price   string
	Beds    string
	Baths   string
	Sqft    string
	Status  string
}

// Climate is one raw row of the climate table. Missing cells are "".
type Climate struct {
	APN           string
	FloodZone     string
	AvgRainInches string
}

// Dataset is the pair of raw tables one run consumes.
type Dataset struct {
	Listings []Listing
	Climate  []Climate
}

// NormalizedListing is a Listing paired with its canonical APN.
// NormAPN is "" when the raw identifier had no digits.
type NormalizedListing struct {
	Listing
	NormAPN string
}

// Candidate is a listing admitted by FilterListings, with the fields the later
// stages compare on already parsed.
type Candidate struct {
	Listing
	NormAPN string
	Price   float64
	Sqft    float64
	Status  string // trimmed, lower-cased
}

// ClimateObservation is a climate row keyed by its canonical APN.
type ClimateObservation struct {
	NormAPN       string
	FloodZone     *string
	AvgRainInches *float64
}

// Inches is a rainfall depth. It always marshals as a JSON float literal,
// so 50 is written as 50.0.
type Inches float64

// MarshalJSON implements json.Marshaler.
func (in Inches) MarshalJSON() ([]byte, error) {
	f := float64(in)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return []byte(s), nil
}

// OutputRecord is one enriched listing in its external form. Field order and
// JSON names are the contract loaders depend on.
type OutputRecord struct {
	APN           string  `json:"apn"`
	FullAddress   string  `json:"full_address"`
	Price         *int64  `json:"price"`
	Beds          *int64  `json:"beds"`
	Baths         *int64  `json:"baths"`
	Sqft          *int64  `json:"sqft"`
	PricePerSqft  *int64  `json:"price_per_sqft"`
	Status        string  `json:"status"`
	FloodZone     *string `json:"flood_zone"`
	AvgRainInches *Inches `json:"avg_rain_inches"`
}

// OutputColumns lists the output field names in contract order. Store columns
// are named the same.
var OutputColumns = []string{
	"apn",
	"full_address",
	"price",
	"beds",
	"baths",
	"sqft",
	"price_per_sqft",
	"status",
	"flood_zone",
	"avg_rain_inches",
}

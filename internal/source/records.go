package source

import "github.com/couchcryptid/listing-enrichment-etl/internal/domain"

var listingColumns = []column{
	{name: "apn", required: true, aliases: []string{"APN"}},
	{name: "address", required: true},
	{name: "city"},
	{name: "state"},
	{name: "zip", required: true},
	{name: "price", required: true},
	{name: "beds", required: true},
	{name: "baths", required: true},
	{name: "sqft", required: true},
	{name: "status", required: true},
}

// Shapefile attribute names are limited to 10 characters, so climate layers
// exported from GIS tools use the FEMA-style short names.
var climateColumns = []column{
	{name: "apn", required: true, aliases: []string{"APN"}},
	{name: "flood_zone", required: true, aliases: []string{"FLD_ZONE"}},
	{name: "avg_rain_inches", required: true, aliases: []string{"AVG_RAIN"}},
}

// Listings maps a table to listing records.
func Listings(t *Table) ([]domain.Listing, error) {
	idx, err := t.index(listingColumns)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Listing, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = domain.Listing{
			APN:     cell(row, idx[0]),
			Address: cell(row, idx[1]),
			City:    cell(row, idx[2]),
			State:   cell(row, idx[3]),
			Zip:     cell(row, idx[4]),
			Price:   cell(row, idx[5]),
			Beds:    cell(row, idx[6]),
			Baths:   cell(row, idx[7]),
			Sqft:    cell(row, idx[8]),
			Status:  cell(row, idx[9]),
		}
	}
	return out, nil
}

// ClimateRows maps a table to climate records.
func ClimateRows(t *Table) ([]domain.Climate, error) {
	idx, err := t.index(climateColumns)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Climate, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = domain.Climate{
			APN:           cell(row, idx[0]),
			FloodZone:     cell(row, idx[1]),
			AvgRainInches: cell(row, idx[2]),
		}
	}
	return out, nil
}

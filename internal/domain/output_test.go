package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enriched(apn string, price float64, beds string) EnrichedListing {
	return EnrichedListing{
		Candidate: Candidate{
			Listing: Listing{Beds: beds, Baths: "2"},
			NormAPN: apn,
			Price:   price,
			Sqft:    1000,
			Status:  StatusSold,
		},
		FullAddress:  "addr " + apn,
		PricePerSqft: pricePerSqft(price, 1000),
	}
}

func TestFinalize_StableSortByPrice(t *testing.T) {
	in := []EnrichedListing{
		enriched("1", 300, "3"),
		enriched("2", 100, "3"),
		enriched("3", 300, "3"),
		enriched("4", 100, "3"),
		enriched("5", 200, "3"),
	}

	out := Finalize(in)

	got := make([]string, len(out))
	for i, r := range out {
		got[i] = r.APN
	}
	assert.Equal(t, []string{"2", "4", "5", "1", "3"}, got)
}

func TestFinalize_SortsOnParsedPrice(t *testing.T) {
	out := Finalize([]EnrichedListing{
		enriched("1", 100.7, "3"),
		enriched("2", 100.2, "3"),
	})

	require.Len(t, out, 2)
	assert.Equal(t, "2", out[0].APN)
	assert.Equal(t, "1", out[1].APN)
	assert.Equal(t, *out[0].Price, *out[1].Price)
}

func TestFinalize_Projection(t *testing.T) {
	e := enriched("12", 250000.9, "3.7")
	e.Baths = "many"
	rain := 54.25
	zone := "AE"
	e.FloodZone = &zone
	e.AvgRainInches = &rain

	out := Finalize([]EnrichedListing{e})

	require.Len(t, out, 1)
	r := out[0]
	assert.Equal(t, "12", r.APN)
	assert.Equal(t, "addr 12", r.FullAddress)
	assert.Equal(t, int64(250000), *r.Price, "price is truncated like an integer cast")
	assert.Equal(t, int64(3), *r.Beds)
	assert.Nil(t, r.Baths, "unparsable baths become null")
	assert.Equal(t, int64(1000), *r.Sqft)
	assert.Equal(t, int64(250), *r.PricePerSqft)
	assert.Equal(t, StatusSold, r.Status)
	assert.Equal(t, "AE", *r.FloodZone)
	assert.Equal(t, Inches(54.25), *r.AvgRainInches)
}

func TestFinalize_UnrepresentablePriceSortsLast(t *testing.T) {
	out := Finalize([]EnrichedListing{
		enriched("1", 1e30, "1"),
		enriched("2", 5, "1"),
	})

	require.Len(t, out, 2)
	assert.Equal(t, "2", out[0].APN)
	assert.Equal(t, "1", out[1].APN)
	assert.Nil(t, out[1].Price)
	assert.Nil(t, out[1].PricePerSqft)
}

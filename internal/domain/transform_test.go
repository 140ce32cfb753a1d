package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPN        = "123456789"
	testAPNDashed  = "123-456-789"
	testOrlandoAPN = "222333444"
)

// fixtureListings mirrors the reference dataset: two spellings of one APN, a
// pending listing with a climate match, a withdrawn listing and a listing with
// no sqft.
func fixtureListings() []Listing {
	return []Listing{
		{APN: testAPNDashed, Address: "123 Main St", City: "Miami", State: "FL", Zip: "33101", Price: "250000", Beds: "3", Baths: "2", Sqft: "1600", Status: "for_sale"},
		{APN: testAPN, Address: "123 Main Street", City: "Miami", State: "FL", Zip: "33101", Price: "260000", Beds: "3", Baths: "2", Sqft: "1600", Status: "for_sale"},
		{APN: "222-333-444", Address: "88 Palm Ave", City: "Orlando", State: "FL", Zip: "32801", Price: "310000", Beds: "4", Baths: "3", Sqft: "2000", Status: "pending"},
		{APN: "666-777-888", Address: "12 Bay Blvd", City: "Miami", State: "FL", Zip: "33101", Price: "1200000", Beds: "5", Baths: "4", Sqft: "3000", Status: "withdrawn"},
		{APN: "555-666-777", Address: "99 Lake Rd", City: "Orlando", State: "FL", Zip: "32801", Price: "400000", Beds: "4", Baths: "3", Sqft: "", Status: "for_sale"},
	}
}

func fixtureClimate() []Climate {
	return []Climate{
		{APN: testAPN, FloodZone: "AE", AvgRainInches: "54.2"},
		{APN: testOrlandoAPN, FloodZone: "X", AvgRainInches: "50.0"},
	}
}

func findRecord(t *testing.T, records []OutputRecord, apn string) OutputRecord {
	t.Helper()
	i := slices.IndexFunc(records, func(r OutputRecord) bool { return r.APN == apn })
	require.GreaterOrEqual(t, i, 0, "apn %s not in output", apn)
	return records[i]
}

func TestTransform_EndToEnd(t *testing.T) {
	res := Transform(fixtureListings(), fixtureClimate())

	require.Len(t, res.Records, 2)

	statuses := map[string]bool{}
	for _, r := range res.Records {
		statuses[r.Status] = true
	}
	assert.Equal(t, map[string]bool{StatusForSale: true, StatusPending: true}, statuses)

	row := findRecord(t, res.Records, testAPN)
	require.NotNil(t, row.Price)
	assert.Equal(t, int64(250000), *row.Price)
	require.NotNil(t, row.FloodZone)
	assert.Equal(t, "AE", *row.FloodZone)
	require.NotNil(t, row.AvgRainInches)
	assert.InDelta(t, 54.2, float64(*row.AvgRainInches), 1e-9)
	require.NotNil(t, row.PricePerSqft)
	assert.Equal(t, int64(math.RoundToEven(250000.0/1600)), *row.PricePerSqft)
	assert.Equal(t, "123 Main St, Miami, FL 33101", row.FullAddress)

	assert.Empty(t, Verify(res.Records))
}

func TestTransform_Stats(t *testing.T) {
	res := Transform(fixtureListings(), fixtureClimate())

	want := Stats{
		ListingsIn: 5,
		ClimateIn:  2,
		Dropped:    map[DropReason]int{DropStatus: 1, DropSqft: 1},
		Admitted:   3,
		Duplicates: 1,
		Matched:    2,
		Output:     2,
	}
	if diff := cmp.Diff(want, res.Stats); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, res.Stats.DroppedTotal())
}

func TestTransform_SortedByPrice(t *testing.T) {
	res := Transform(fixtureListings(), fixtureClimate())

	prices := make([]int64, 0, len(res.Records))
	for _, r := range res.Records {
		require.NotNil(t, r.Price)
		prices = append(prices, *r.Price)
	}
	assert.True(t, slices.IsSorted(prices), "prices not sorted: %v", prices)
}

func TestTransform_OutputAlwaysVerifies(t *testing.T) {
	tests := []struct {
		name        string
		price, sqft string
		wantPPSF    *int64 // nil means the row is dropped
	}{
		{"fractional sqft", "150", "100.9", i64(2)},
		{"fractional price", "250.7", "100", i64(2)},
		{"sqft below one", "100", "0.5", nil},
		{"zero price", "0", "1000", nil},
		{"price below one", "0.4", "1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := fixtureListings()[0]
			l.Price, l.Sqft = tt.price, tt.sqft

			res := Transform([]Listing{l}, fixtureClimate())

			assert.Empty(t, Verify(res.Records))
			if tt.wantPPSF == nil {
				assert.Empty(t, res.Records)
				return
			}
			require.Len(t, res.Records, 1)
			assert.Equal(t, tt.wantPPSF, res.Records[0].PricePerSqft)
		})
	}
}

func TestTransform_EmptyInput(t *testing.T) {
	res := Transform(nil, nil)
	assert.Empty(t, res.Records)
	assert.Equal(t, 0, res.Stats.Output)
}

func TestTransform_UnmatchedListingKept(t *testing.T) {
	listings := []Listing{
		{APN: "999", Address: "1 Elm St", Zip: "10001", Price: "100", Sqft: "10", Status: "sold"},
	}
	res := Transform(listings, fixtureClimate())

	require.Len(t, res.Records, 1)
	r := res.Records[0]
	assert.Nil(t, r.FloodZone)
	assert.Nil(t, r.AvgRainInches)
	assert.Equal(t, 0, res.Stats.Matched)
}

func TestTransform_StatusNormalized(t *testing.T) {
	listings := []Listing{
		{APN: "1", Address: "a", Zip: "z", Price: "10", Sqft: "1", Status: "  For_Sale "},
		{APN: "2", Address: "a", Zip: "z", Price: "20", Sqft: "1", Status: "PENDING"},
	}
	res := Transform(listings, nil)

	require.Len(t, res.Records, 2)
	assert.Equal(t, StatusForSale, res.Records[0].Status)
	assert.Equal(t, StatusPending, res.Records[1].Status)
}

func TestWriteJSON_Contract(t *testing.T) {
	res := Transform(fixtureListings(), fixtureClimate())

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, res.Records))

	var rows []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Len(t, row, len(OutputColumns))
		for _, col := range OutputColumns {
			assert.Contains(t, row, col)
		}
	}

	first := string(buf.Bytes())
	assert.Contains(t, first, `"price": 250000,`)
	assert.Contains(t, first, `"avg_rain_inches": 54.2`)
	assert.Contains(t, first, `"avg_rain_inches": 50.0`)
}

func TestWriteJSON_KeyOrderAndNulls(t *testing.T) {
	price := int64(100)
	records := []OutputRecord{{APN: "1", FullAddress: "a & b", Price: &price, Status: StatusSold}}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, records))

	want := `[
  {
    "apn": "1",
    "full_address": "a & b",
    "price": 100,
    "beds": null,
    "baths": null,
    "sqft": null,
    "price_per_sqft": null,
    "status": "sold",
    "flood_zone": null,
    "avg_rain_inches": null
  }
]
`
	assert.Equal(t, want, buf.String())
}

func TestWriteJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestReadJSON_RoundTripsWrite(t *testing.T) {
	res := Transform(fixtureListings(), fixtureClimate())

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, res.Records))

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(res.Records, got); diff != "" {
		t.Fatalf("read mismatch (-want +got):\n%s", diff)
	}
}

func TestReadJSON_Invalid(t *testing.T) {
	_, err := ReadJSON(bytes.NewBufferString("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode output records")
}

func TestInches_MarshalJSON(t *testing.T) {
	tests := []struct {
		in   Inches
		want string
	}{
		{50, "50.0"},
		{54.2, "54.2"},
		{0, "0.0"},
		{-3.5, "-3.5"},
		{Inches(math.NaN()), "null"},
	}
	for _, tt := range tests {
		got, err := json.Marshal(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(got))
	}
}

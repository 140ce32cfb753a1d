package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAPN(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{"dashed", "123-456-789", testAPN, true},
		{"plain", "123456789", testAPN, true},
		{"spaces and dots", " 123.456 789 ", testAPN, true},
		{"leading zeros kept", "001-02", "00102", true},
		{"letters stripped", "APN 12A3", "123", true},
		{"empty", "", "", false},
		{"punctuation only", "--/--", "", false},
		{"letters only", "N/A", "", false},
		{"arabic-indic digits kept", "١٢٣-٤", "١٢٣٤", true},
		{"fullwidth digits kept", "１２-３", "１２３", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeAPN(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeAPN_EquivalentSpellingsMatch(t *testing.T) {
	a, okA := NormalizeAPN(testAPNDashed)
	b, okB := NormalizeAPN(testAPN)
	assert.True(t, okA)
	assert.True(t, okB)
	assert.Equal(t, a, b)
}

func TestNormalizeListings(t *testing.T) {
	in := []Listing{{APN: testAPNDashed}, {APN: "none"}, {APN: "42"}}
	out := NormalizeListings(in)

	assert.Len(t, out, 3)
	assert.Equal(t, testAPN, out[0].NormAPN)
	assert.Equal(t, "", out[1].NormAPN)
	assert.Equal(t, "42", out[2].NormAPN)
	assert.Equal(t, testAPNDashed, out[0].APN, "raw identifier is preserved")
}

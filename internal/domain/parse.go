package domain

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber is the parse-or-null primitive used for every numeric cell.
// It accepts decimal and scientific notation with surrounding whitespace and
// returns (0, false) for empty, malformed, NaN or infinite input. It never
// fails.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// toInt64 truncates toward zero like an integer cast. Values that do not fit
// in an int64 yield (0, false).
func toInt64(v float64) (int64, bool) {
	t := math.Trunc(v)
	if t < math.MinInt64 || t >= math.MaxInt64 {
		return 0, false
	}
	return int64(t), true
}

// parseInt64 chains ParseNumber and toInt64 and returns nil on any failure.
func parseInt64(s string) *int64 {
	v, ok := ParseNumber(s)
	if !ok {
		return nil
	}
	return intPtr(v)
}

func intPtr(v float64) *int64 {
	n, ok := toInt64(v)
	if !ok {
		return nil
	}
	return &n
}

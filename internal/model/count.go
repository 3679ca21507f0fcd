package model

import "math"

// ToCount truncates a measure to a non-negative count. NaN and negative
// values are zero and values beyond the int64 range saturate at
// math.MaxInt64.
func ToCount(f float64) int64 {
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	default:
		return int64(f)
	}
}

// AddCount adds two non-negative counts, saturating at math.MaxInt64.
func AddCount(a, b int64) int64 {
	if b > math.MaxInt64-a {
		return math.MaxInt64
	}
	return a + b
}

package model

import (
	"math"
	"testing"
)

func TestToCount(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{-5, 0},
		{math.NaN(), 0},
		{42.9, 42},
		{1e20, math.MaxInt64},
		{math.Inf(1), math.MaxInt64},
	}
	for _, tt := range tests {
		if got := ToCount(tt.in); got != tt.want {
			t.Errorf("ToCount(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestAddCountSaturates(t *testing.T) {
	if got := AddCount(2, 3); got != 5 {
		t.Errorf("AddCount(2, 3) = %d", got)
	}
	if got := AddCount(math.MaxInt64-1, 10); got != math.MaxInt64 {
		t.Errorf("AddCount near max = %d, want MaxInt64", got)
	}
}

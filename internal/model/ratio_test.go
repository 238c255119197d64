package model

import (
	"math"
	"testing"
)

func TestRatioOfUndefinedCases(t *testing.T) {
	tests := []struct {
		name     string
		num, den float64
	}{
		{"zero denominator", 1, 0},
		{"negative denominator", 1, -2},
		{"NaN denominator", 1, math.NaN()},
		{"overflowing quotient", 1e308, 1e-300},
		{"infinite numerator", math.Inf(1), 1},
		{"NaN numerator", math.NaN(), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if r := RatioOf(tt.num, tt.den); r.Defined {
				t.Fatalf("expected undefined ratio, got %v", r.Value)
			}
		})
	}

	if r := RatioOf(3, 2); !r.Defined || r.Value != 1.5 {
		t.Fatalf("expected 1.5, got %+v", r)
	}
}

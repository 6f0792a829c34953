package units

import (
	"math"
	"testing"
)

func TestIsValid(t *testing.T) {
	for _, u := range ValidUnits {
		if !IsValid(u) {
			t.Errorf("IsValid(%q) = false, want true", u)
		}
	}
	for _, u := range []string{"", "knots", "MPH"} {
		if IsValid(u) {
			t.Errorf("IsValid(%q) = true, want false", u)
		}
	}
}

func TestConvertSwingSpeed(t *testing.T) {
	const norm = 2.0 // normalized units per second
	mps := norm * CourtWidthMeters

	cases := []struct {
		unit string
		want float64
	}{
		{NORM, norm},
		{MPS, mps},
		{MPH, mps * 2.2369362920544},
		{KMPH, mps * 3.6},
		{KPH, mps * 3.6},
		{"unknown", norm}, // unknown units pass through unscaled
	}

	for _, tc := range cases {
		if got := ConvertSwingSpeed(norm, tc.unit); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("ConvertSwingSpeed(%f, %q) = %f, want %f", norm, tc.unit, got, tc.want)
		}
	}
}

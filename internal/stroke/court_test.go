package stroke

import (
	"math"
	"testing"

	"github.com/courtside-data/stroke.report/internal/pose"
)

func TestZoneFor(t *testing.T) {
	g := DefaultCourtGeometry()

	cases := []struct {
		x, y float64
		want CourtZone
	}{
		{0.5, 0.90, ZoneBaseline},
		{0.5, 0.65, ZoneMidCourt},
		{0.5, 0.50, ZoneServiceBox},
		{0.5, 0.20, ZoneNet},
		{-0.1, 0.5, ZoneUnknown},
		{0.5, 1.2, ZoneUnknown},
	}
	for _, tc := range cases {
		if got := g.ZoneFor(tc.x, tc.y); got != tc.want {
			t.Errorf("ZoneFor(%f, %f) = %s, want %s", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestPlayerPosition(t *testing.T) {
	frames := []ConditionedFrame{
		{Landmarks: map[string]pose.Landmark{
			"left_hip":  {X: 0.4, Y: 0.8},
			"right_hip": {X: 0.6, Y: 0.8},
		}},
		{}, // no landmarks: skipped, not zeroed into the average
		{Landmarks: map[string]pose.Landmark{
			"left_hip":  {X: 0.5, Y: 0.6},
			"right_hip": {X: 0.7, Y: 0.6},
		}},
	}

	x, y, ok := PlayerPosition(frames)
	if !ok {
		t.Fatal("PlayerPosition returned ok=false")
	}
	if math.Abs(x-0.55) > 1e-9 || math.Abs(y-0.7) > 1e-9 {
		t.Errorf("position = (%f, %f), want (0.55, 0.70)", x, y)
	}
}

func TestPlayerPositionNoLandmarks(t *testing.T) {
	if _, _, ok := PlayerPosition([]ConditionedFrame{{}, {}}); ok {
		t.Error("ok = true for frames with no landmarks")
	}
}

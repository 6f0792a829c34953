package stroke

import (
	"math"
	"strings"
	"testing"

	"github.com/courtside-data/stroke.report/internal/pose"
)

const sessionFPS = 30.0

// sessionBuilder synthesizes a full-body landmark session at 30fps: a
// stationary player whose right wrist sweeps on command.
type sessionBuilder struct {
	frames []pose.Frame
}

// sweep moves the right wrist from x0 to x1 over [startSec, endSec] on a
// half-cosine velocity profile, so motion energy ramps smoothly in and out.
type sweep struct {
	startSec, endSec float64
	x0, x1           float64
}

func buildSession(durationSec float64, sweeps []sweep) []pose.Frame {
	n := int(durationSec * sessionFPS)
	frames := make([]pose.Frame, 0, n)

	for i := 0; i < n; i++ {
		ts := float64(i) / sessionFPS
		wristX := 0.50
		for _, s := range sweeps {
			switch {
			case ts < s.startSec:
				// before this sweep, earlier sweeps decide the position
			case ts >= s.endSec:
				wristX = s.x1
			default:
				progress := (ts - s.startSec) / (s.endSec - s.startSec)
				wristX = s.x0 + (s.x1-s.x0)*(1-math.Cos(math.Pi*progress))/2
			}
		}

		frames = append(frames, pose.Frame{
			Index:        i,
			TimestampSec: ts,
			Landmarks: map[string]pose.Landmark{
				"nose":           {X: 0.45, Y: 0.30, Confidence: 0.95},
				"left_shoulder":  {X: 0.35, Y: 0.45, Confidence: 0.95},
				"right_shoulder": {X: 0.55, Y: 0.45, Confidence: 0.95},
				"left_elbow":     {X: 0.33, Y: 0.55, Confidence: 0.9},
				"right_elbow":    {X: 0.58, Y: 0.55, Confidence: 0.9},
				"left_wrist":     {X: 0.32, Y: 0.60, Confidence: 0.9},
				"right_wrist":    {X: wristX, Y: 0.60, Confidence: 0.9},
				"left_hip":       {X: 0.40, Y: 0.72, Confidence: 0.9},
				"right_hip":      {X: 0.52, Y: 0.72, Confidence: 0.9},
			},
		})
	}
	return frames
}

func TestEngineRunTwoStrokeSession(t *testing.T) {
	// Two fast right-side sweeps at ~2s and ~7s, with a slow drift back
	// between them that stays far below onset energy.
	frames := buildSession(12.0, []sweep{
		{startSec: 2.0, endSec: 2.5, x0: 0.50, x1: 0.95},
		{startSec: 3.5, endSec: 6.0, x0: 0.95, x1: 0.50},
		{startSec: 7.0, endSec: 7.5, x0: 0.50, x1: 0.95},
	})

	res, err := NewEngine(DefaultParams(), nil).Run(frames)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Timeline) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(res.Timeline), res.Timeline)
	}
	for i, ev := range res.Timeline {
		if ev.Type != Forehand {
			t.Errorf("event %d type = %s, want %s (confidence %f)", i, ev.Type, Forehand, ev.Confidence)
		}
		if ev.Confidence < CertainConfidence {
			t.Errorf("event %d confidence = %f, want >= %f", i, ev.Confidence, CertainConfidence)
		}
		if ev.SwingSpeed <= 0 {
			t.Errorf("event %d swing speed = %f, want > 0", i, ev.SwingSpeed)
		}
	}

	if s := res.Timeline[0].StartSec; s < 2.0 || s > 2.4 {
		t.Errorf("first stroke starts at %f, want within [2.0, 2.4]", s)
	}
	if s := res.Timeline[1].StartSec; s < 7.0 || s > 7.4 {
		t.Errorf("second stroke starts at %f, want within [7.0, 7.4]", s)
	}
	if res.Timeline[1].StartSec < res.Timeline[0].EndSec {
		t.Error("timeline events overlap")
	}

	a := res.Analytics
	if a.TotalStrokes != 2 {
		t.Errorf("total strokes = %d, want 2", a.TotalStrokes)
	}
	if a.CountsByType[Forehand] != 2 {
		t.Errorf("forehand count = %d, want 2", a.CountsByType[Forehand])
	}
	// 4.5s between strokes exceeds the idle gap, so each is its own rally.
	if a.Rallies.Count != 2 {
		t.Errorf("rally count = %d, want 2", a.Rallies.Count)
	}
	if got := a.Rallies.LengthHistogram[1]; got != 2 {
		t.Errorf("single-stroke rallies in histogram = %d, want 2", got)
	}

	if len(res.EnergyTrace) != len(frames) {
		t.Fatalf("energy trace has %d points, want one per frame (%d)", len(res.EnergyTrace), len(frames))
	}
	var peak float64
	for _, pt := range res.EnergyTrace {
		if pt.Energy > peak {
			peak = pt.Energy
		}
	}
	if peak < DefaultParams().OnsetEnergy {
		t.Errorf("trace peak energy = %f, want above onset for a session with strokes", peak)
	}
}

func TestEngineRunStationarySession(t *testing.T) {
	frames := buildSession(5.0, nil)

	res, err := NewEngine(DefaultParams(), nil).Run(frames)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Timeline) != 0 {
		t.Errorf("stationary session produced %d events, want 0", len(res.Timeline))
	}
	if res.Analytics.TotalStrokes != 0 {
		t.Errorf("total strokes = %d, want 0", res.Analytics.TotalStrokes)
	}
	for _, st := range AllStrokeTypes {
		if res.Analytics.CountsByType[st] != 0 {
			t.Errorf("count for %s = %d, want 0", st, res.Analytics.CountsByType[st])
		}
	}
}

func TestEngineRunEmptySession(t *testing.T) {
	_, err := NewEngine(DefaultParams(), nil).Run(nil)
	if err == nil {
		t.Fatal("expected error for empty session")
	}
	if !strings.Contains(err.Error(), "empty session") {
		t.Errorf("error = %q, want mention of empty session", err)
	}
}

func TestEngineRunNonMonotonicTimestamps(t *testing.T) {
	frames := buildSession(1.0, nil)
	frames[10].TimestampSec = frames[9].TimestampSec - 0.5

	_, err := NewEngine(DefaultParams(), nil).Run(frames)
	if err == nil {
		t.Fatal("expected error for non-monotonic timestamps")
	}
	if !strings.Contains(err.Error(), "non-monotonic") {
		t.Errorf("error = %q, want mention of non-monotonic timestamps", err)
	}
}

func TestEngineRunRejectsBadParams(t *testing.T) {
	p := DefaultParams()
	p.OnsetEnergy = 0.01 // below offset: hysteresis inverted

	_, err := NewEngine(p, nil).Run(buildSession(1.0, nil))
	if err == nil {
		t.Fatal("expected error for inverted hysteresis thresholds")
	}
}

func TestEngineRunDegradesOnMissingPose(t *testing.T) {
	// Drop all landmarks from a mid-session stretch: the run must still
	// succeed and must not hallucinate strokes from the gap.
	frames := buildSession(5.0, nil)
	for i := 60; i < 90; i++ {
		frames[i].Landmarks = nil
	}

	res, err := NewEngine(DefaultParams(), nil).Run(frames)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Timeline) != 0 {
		t.Errorf("gap session produced %d events, want 0", len(res.Timeline))
	}
}

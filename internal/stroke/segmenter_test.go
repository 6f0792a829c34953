package stroke

import (
	"math"
	"testing"
)

func samplesFromEnergies(dt float64, energies []float64) ([]MotionSample, []ConditionedFrame) {
	samples := make([]MotionSample, len(energies))
	frames := make([]ConditionedFrame, len(energies))
	for i, e := range energies {
		ts := float64(i) * dt
		samples[i] = MotionSample{TimestampSec: ts, Energy: e}
		frames[i] = ConditionedFrame{Index: i, TimestampSec: ts}
	}
	return samples, frames
}

// triangleTrace builds a quiet baseline with triangular energy peaks of the
// given half-width centered at each peak time.
func triangleTrace(totalSec, dt, baseline, peakEnergy, halfWidth float64, centers []float64) []float64 {
	n := int(totalSec/dt) + 1
	out := make([]float64, n)
	for i := range out {
		t := float64(i) * dt
		e := baseline
		for _, c := range centers {
			d := math.Abs(t - c)
			if d < halfWidth {
				if v := peakEnergy * (1 - d/halfWidth); v > e {
					e = v
				}
			}
		}
		out[i] = e
	}
	return out
}

func TestSegmentTwoPeaks(t *testing.T) {
	energies := triangleTrace(10.0, 0.02, 0.01, 0.5, 0.2, []float64{2.0, 7.0})
	samples, frames := samplesFromEnergies(0.02, energies)

	sg := NewSegmenter(DefaultParams())
	windows := sg.Segment(samples, frames)

	if len(windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(windows))
	}
	if w := windows[0]; w.StartSec < 1.8 || w.StartSec > 2.0 {
		t.Errorf("first window start = %f, want within [1.8, 2.0]", w.StartSec)
	}
	if w := windows[1]; w.StartSec < 6.8 || w.StartSec > 7.0 {
		t.Errorf("second window start = %f, want within [6.8, 7.0]", w.StartSec)
	}
	for i, w := range windows {
		if math.Abs(w.PeakEnergy-0.5) > 1e-9 {
			t.Errorf("window %d peak energy = %f, want 0.5", i, w.PeakEnergy)
		}
	}
	if st := sg.Stats(); st.Emitted != 2 || st.RejectedShort != 0 || st.RejectedLong != 0 {
		t.Errorf("stats = %+v, want 2 emitted and no rejections", st)
	}
}

func TestSegmentQuietSession(t *testing.T) {
	samples, frames := samplesFromEnergies(0.05, []float64{0.01, 0.02, 0.12, 0.14, 0.05, 0.01})

	windows := NewSegmenter(DefaultParams()).Segment(samples, frames)
	if len(windows) != 0 {
		t.Fatalf("sub-onset session produced %d windows, want 0", len(windows))
	}
}

func TestSegmentSecondarySpikeExtendsWindow(t *testing.T) {
	// Backswing dip between two spikes never settles below offset, so the
	// whole motion must stay one window with the larger spike as peak.
	energies := []float64{
		0.01, 0.01,
		0.20, 0.30, 0.25, 0.22, 0.20, // first spike, plateau confirms peak
		0.12, 0.12, // dip above offset
		0.20, 0.35, 0.30, 0.28, 0.26, // second, larger spike
		0.02,
	}
	samples, frames := samplesFromEnergies(0.05, energies)

	sg := NewSegmenter(DefaultParams())
	windows := sg.Segment(samples, frames)

	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1 extended window", len(windows))
	}
	w := windows[0]
	if math.Abs(w.PeakEnergy-0.35) > 1e-9 {
		t.Errorf("peak energy = %f, want 0.35 from secondary spike", w.PeakEnergy)
	}
	if math.Abs(w.PeakSec-0.50) > 1e-9 {
		t.Errorf("peak time = %f, want 0.50", w.PeakSec)
	}
	if w.StartSec > w.PeakSec || w.PeakSec > w.EndSec {
		t.Errorf("window order violated: start %f peak %f end %f", w.StartSec, w.PeakSec, w.EndSec)
	}
}

func TestSegmentRejectsShortWindow(t *testing.T) {
	samples, frames := samplesFromEnergies(0.05, []float64{0.01, 0.30, 0.01})

	sg := NewSegmenter(DefaultParams())
	windows := sg.Segment(samples, frames)

	if len(windows) != 0 {
		t.Fatalf("got %d windows, want 0 for a sub-minimum blip", len(windows))
	}
	if st := sg.Stats(); st.RejectedShort != 1 {
		t.Errorf("stats = %+v, want RejectedShort = 1", st)
	}
}

func TestSegmentRejectsLongWindow(t *testing.T) {
	energies := []float64{0.01}
	for i := 0; i < 23; i++ {
		energies = append(energies, 0.30)
	}
	energies = append(energies, 0.01)
	samples, frames := samplesFromEnergies(0.1, energies)

	sg := NewSegmenter(DefaultParams())
	windows := sg.Segment(samples, frames)

	if len(windows) != 0 {
		t.Fatalf("got %d windows, want 0 for an over-maximum window", len(windows))
	}
	if st := sg.Stats(); st.RejectedLong != 1 {
		t.Errorf("stats = %+v, want RejectedLong = 1", st)
	}
}

func TestSegmentDiscardsIncompleteWindow(t *testing.T) {
	samples, frames := samplesFromEnergies(0.05, []float64{0.01, 0.20, 0.30, 0.40})

	sg := NewSegmenter(DefaultParams())
	windows := sg.Segment(samples, frames)

	if len(windows) != 0 {
		t.Fatalf("got %d windows, want 0 for a window open at end of input", len(windows))
	}
	if st := sg.Stats(); st.DiscardedIncomplete != 1 {
		t.Errorf("stats = %+v, want DiscardedIncomplete = 1", st)
	}
}

func TestSegmentWindowCarriesFrames(t *testing.T) {
	energies := []float64{0.01, 0.20, 0.30, 0.35, 0.30, 0.28, 0.26, 0.20, 0.10, 0.02}
	samples, frames := samplesFromEnergies(0.1, energies)

	windows := NewSegmenter(DefaultParams()).Segment(samples, frames)
	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}
	w := windows[0]
	if len(w.Frames) == 0 {
		t.Fatal("window carries no frames")
	}
	first, last := w.Frames[0], w.Frames[len(w.Frames)-1]
	if first.TimestampSec != w.StartSec {
		t.Errorf("first frame at %f, want window start %f", first.TimestampSec, w.StartSec)
	}
	if last.TimestampSec != w.EndSec {
		t.Errorf("last frame at %f, want window end %f", last.TimestampSec, w.EndSec)
	}
}

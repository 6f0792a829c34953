package stroke

// SegmentState is a named state of the event segmenter's state machine.
type SegmentState string

const (
	// SegIdle means energy is below onset; no window is open.
	SegIdle SegmentState = "idle"
	// SegRising means energy crossed above onset and is still climbing.
	SegRising SegmentState = "rising"
	// SegPeakHeld means a local maximum was confirmed and is being held.
	SegPeakHeld SegmentState = "peak_held"
	// SegFalling means energy is decaying toward offset.
	SegFalling SegmentState = "falling"
)

// SegmenterStats counts segmentation outcomes for one run.
type SegmenterStats struct {
	Emitted             int
	RejectedShort       int
	RejectedLong        int
	DiscardedIncomplete int
}

// Segmenter turns a motion-energy signal into candidate stroke windows via
// an explicit four-state machine with onset/offset hysteresis. A secondary
// energy spike before the signal settles below offset extends the open
// window rather than starting a new one, so a loopy backswing stays one
// stroke instead of fragmenting into two.
//
// State is scoped to one Segment call; a Segmenter is reusable but not
// concurrency-safe.
type Segmenter struct {
	params Params
	stats  SegmenterStats

	state      SegmentState
	startIdx   int
	peakIdx    int
	peakEnergy float64
	lastEnergy float64
	plateauRun int
}

// NewSegmenter creates a segmenter with the given tuning.
func NewSegmenter(p Params) *Segmenter {
	return &Segmenter{params: p, state: SegIdle}
}

// Stats returns outcome counters for the most recent Segment call.
func (sg *Segmenter) Stats() SegmenterStats {
	return sg.stats
}

// Segment consumes the motion samples for a session (with the conditioned
// frames they came from, same length) and returns candidate windows.
// A window still open at end of input is an incomplete stroke and is
// discarded, never speculatively closed.
func (sg *Segmenter) Segment(samples []MotionSample, frames []ConditionedFrame) []CandidateWindow {
	sg.state = SegIdle
	sg.stats = SegmenterStats{}

	var windows []CandidateWindow

	for i := range samples {
		e := samples[i].Energy

		switch sg.state {
		case SegIdle:
			if e > sg.params.OnsetEnergy {
				sg.openWindow(i, e)
			}

		case SegRising:
			if e > sg.peakEnergy {
				sg.peakIdx = i
				sg.peakEnergy = e
			}
			if e < sg.params.OffsetEnergy {
				// Sharp collapse before a plateau ever formed: close on the
				// maximum seen so far.
				windows = sg.closeWindow(windows, samples, frames, i)
				break
			}
			if e > sg.lastEnergy {
				sg.plateauRun = 0
			} else {
				sg.plateauRun++
				if sg.plateauRun >= sg.params.PeakHoldSamples {
					sg.state = SegPeakHeld
				}
			}

		case SegPeakHeld:
			if e > sg.peakEnergy {
				// Secondary spike: re-enter rising, same window.
				sg.peakIdx = i
				sg.peakEnergy = e
				sg.plateauRun = 0
				sg.state = SegRising
				break
			}
			if e < sg.params.OffsetEnergy {
				windows = sg.closeWindow(windows, samples, frames, i)
			} else if e < sg.lastEnergy {
				sg.state = SegFalling
			}

		case SegFalling:
			if e < sg.params.OffsetEnergy {
				windows = sg.closeWindow(windows, samples, frames, i)
			} else if e > sg.params.OnsetEnergy && e > sg.lastEnergy {
				// Double-bounce motion: extend the current window.
				sg.plateauRun = 0
				sg.state = SegRising
				if e > sg.peakEnergy {
					sg.peakIdx = i
					sg.peakEnergy = e
				}
			}
		}

		sg.lastEnergy = e
	}

	if sg.state != SegIdle {
		sg.stats.DiscardedIncomplete++
		sg.state = SegIdle
	}

	return windows
}

func (sg *Segmenter) openWindow(i int, e float64) {
	sg.state = SegRising
	sg.startIdx = i
	sg.peakIdx = i
	sg.peakEnergy = e
	sg.plateauRun = 0
}

// closeWindow finalizes the open window at sample i, applies the duration
// rejection policy and resets to idle.
func (sg *Segmenter) closeWindow(windows []CandidateWindow, samples []MotionSample, frames []ConditionedFrame, i int) []CandidateWindow {
	w := CandidateWindow{
		StartSec:   samples[sg.startIdx].TimestampSec,
		PeakSec:    samples[sg.peakIdx].TimestampSec,
		EndSec:     samples[i].TimestampSec,
		PeakEnergy: sg.peakEnergy,
	}
	sg.state = SegIdle

	dur := w.DurationSec()
	switch {
	case dur < sg.params.MinStrokeDurationSec:
		sg.stats.RejectedShort++
		return windows
	case dur > sg.params.MaxStrokeDurationSec:
		sg.stats.RejectedLong++
		return windows
	}

	if sg.startIdx < len(frames) && i < len(frames) {
		w.Frames = append(w.Frames, frames[sg.startIdx:i+1]...)
	}

	sg.stats.Emitted++
	return append(windows, w)
}

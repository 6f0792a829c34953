package stroke

import (
	"github.com/courtside-data/stroke.report/internal/pose"
)

// landmarkFilter is the per-landmark smoothing accumulator: the last
// exponentially-smoothed value plus whether one exists yet.
type landmarkFilter struct {
	value pose.Landmark
	valid bool
}

// Conditioner cleans the raw keypoint stream for one session: per-landmark
// exponential smoothing to suppress jitter, forward-fill for missing or
// low-confidence landmarks. State is scoped to one session; never share a
// Conditioner across sessions.
//
// Processing is strictly causal (no lookahead), so the conditioner can be
// dropped into a streaming frame source unchanged.
type Conditioner struct {
	alpha           float64
	confidenceFloor float64
	filters         map[string]*landmarkFilter
}

// NewConditioner creates a conditioner with the given smoothing weight and
// landmark confidence floor.
func NewConditioner(p Params) *Conditioner {
	alpha := p.SmoothingAlpha
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultParams().SmoothingAlpha
	}
	return &Conditioner{
		alpha:           alpha,
		confidenceFloor: p.LandmarkConfidenceFloor,
		filters:         make(map[string]*landmarkFilter),
	}
}

// Condition consumes the ordered frame sequence and returns conditioned
// frames of equal length. It never fails: pathological input degrades to
// flagged no-pose frames, not errors.
func (c *Conditioner) Condition(frames []pose.Frame) []ConditionedFrame {
	out := make([]ConditionedFrame, 0, len(frames))
	for i := range frames {
		out = append(out, c.conditionFrame(&frames[i]))
	}
	return out
}

func (c *Conditioner) conditionFrame(f *pose.Frame) ConditionedFrame {
	cf := ConditionedFrame{
		Index:        f.Index,
		TimestampSec: f.TimestampSec,
	}

	if !f.Detected() && len(c.filters) == 0 {
		// Nothing observed and no history to fill from.
		cf.NoPose = true
		return cf
	}

	cf.Landmarks = make(map[string]pose.Landmark, len(c.filters)+len(f.Landmarks))

	// Update filters from this frame's usable landmarks.
	usable := 0
	for name, lm := range f.Landmarks {
		if lm.Confidence < c.confidenceFloor {
			continue
		}
		usable++
		flt := c.filters[name]
		if flt == nil {
			// First valid observation seeds the filter directly.
			c.filters[name] = &landmarkFilter{value: lm, valid: true}
			continue
		}
		prev := flt.value
		flt.value = pose.Landmark{
			X:          c.alpha*lm.X + (1-c.alpha)*prev.X,
			Y:          c.alpha*lm.Y + (1-c.alpha)*prev.Y,
			Z:          c.alpha*lm.Z + (1-c.alpha)*prev.Z,
			Confidence: lm.Confidence,
		}
	}

	if usable == 0 {
		cf.NoPose = true
	}

	// Emit the current filter state: smoothed values for landmarks seen this
	// frame, held values for landmarks that went missing. Landmarks never
	// observed yet are absent; fill is forward-only.
	for name, flt := range c.filters {
		if flt.valid {
			cf.Landmarks[name] = flt.value
		}
	}

	return cf
}

package stroke

import (
	"fmt"
	"log"

	"github.com/courtside-data/stroke.report/internal/pose"
)

// Engine runs the full per-session pipeline: condition, extract motion,
// segment, classify, assemble, aggregate. One Engine per session run;
// independent sessions use independent instances and may run concurrently.
type Engine struct {
	params   Params
	geometry CourtGeometry
	scorer   Scorer
}

// NewEngine creates an engine with the given tuning. A nil scorer selects
// the default rule-based one.
func NewEngine(p Params, scorer Scorer) *Engine {
	return &Engine{
		params:   p,
		geometry: DefaultCourtGeometry(),
		scorer:   scorer,
	}
}

// Run processes one session's ordered frame sequence and returns the
// timeline plus analytics. Structural problems with the input (empty
// session, timestamps running backwards) fail fast here, before any stage
// runs; everything past this gate degrades gracefully and cannot error.
func (e *Engine) Run(frames []pose.Frame) (*Result, error) {
	if err := e.validateInput(frames); err != nil {
		return nil, err
	}

	conditioned := NewConditioner(e.params).Condition(frames)
	samples := ExtractMotion(conditioned)

	segmenter := NewSegmenter(e.params)
	windows := segmenter.Segment(samples, conditioned)
	st := segmenter.Stats()
	log.Printf("[pipeline] segmented %d frames: %d windows emitted, %d short, %d long, %d incomplete",
		len(frames), st.Emitted, st.RejectedShort, st.RejectedLong, st.DiscardedIncomplete)

	classifier := NewClassifier(e.scorer, e.params)
	results := make([]ClassificationResult, 0, len(windows))
	for i := range windows {
		results = append(results, classifier.Classify(&windows[i]))
	}

	timeline := NewAssembler(e.params, e.geometry).Assemble(windows, results)
	analytics := Aggregate(timeline, e.params)
	log.Printf("[pipeline] assembled %d stroke events across %d rallies",
		len(timeline), analytics.Rallies.Count)

	trace := make([]EnergyPoint, len(samples))
	for i, s := range samples {
		trace[i] = EnergyPoint{TimestampSec: s.TimestampSec, Energy: s.Energy}
	}

	return &Result{Timeline: timeline, Analytics: analytics, EnergyTrace: trace}, nil
}

// validateInput enforces the structural contract at the pipeline boundary.
func (e *Engine) validateInput(frames []pose.Frame) error {
	if err := e.params.Validate(); err != nil {
		return fmt.Errorf("invalid engine params: %w", err)
	}
	if len(frames) == 0 {
		return fmt.Errorf("empty session: no frames")
	}
	for i := 1; i < len(frames); i++ {
		if frames[i].TimestampSec < frames[i-1].TimestampSec {
			return fmt.Errorf("non-monotonic timestamps: frame %d at %.4fs follows frame %d at %.4fs",
				frames[i].Index, frames[i].TimestampSec, frames[i-1].Index, frames[i-1].TimestampSec)
		}
	}
	return nil
}

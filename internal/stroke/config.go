package stroke

import "fmt"

// Params holds every tuning knob for one engine instance. Defaults are
// starting points calibrated by eye against practice sessions, not physical
// law; tune per deployment via the config surface.
type Params struct {
	// Conditioner
	SmoothingAlpha          float64 `json:"smoothing_alpha"`           // EMA weight for new samples (0,1]
	LandmarkConfidenceFloor float64 `json:"landmark_confidence_floor"` // below this a landmark is treated as missing

	// Motion extractor / segmenter
	OnsetEnergy     float64 `json:"onset_energy"`      // energy must cross above this to open a window
	OffsetEnergy    float64 `json:"offset_energy"`     // energy must drop below this to close one (hysteresis: < OnsetEnergy)
	PeakHoldSamples int     `json:"peak_hold_samples"` // consecutive non-increasing samples confirming a local maximum

	// Window rejection
	MinStrokeDurationSec float64 `json:"min_stroke_duration_sec"` // shorter windows are noise
	MaxStrokeDurationSec float64 `json:"max_stroke_duration_sec"` // longer windows are sustained shuffle, not one stroke

	// Classifier
	AmbiguityMargin float64 `json:"ambiguity_margin"` // top-two score gap below which confidence is capped
	ScoreFloor      float64 `json:"score_floor"`      // top score below this emits unknown
	DominantSide    string  `json:"dominant_side"`    // "right" or "left"; biases racket-side inference

	// Assembler
	// UnknownConfidenceFloor drops unknown events whose confidence falls
	// below it. Unknown confidence is the sub-floor top score, so this must
	// stay below ScoreFloor or no unknown could ever be retained.
	UnknownConfidenceFloor float64 `json:"unknown_confidence_floor"`

	// Analytics
	IdleGapSec      float64 `json:"idle_gap_sec"`      // gap between strokes that opens a new rally
	HeatmapGridSize int     `json:"heatmap_grid_size"` // heatmap is GridSize x GridSize cells
}

// Validate checks internal consistency of the tuning. Called at the
// pipeline boundary so a bad config fails a run before any stage touches
// data.
func (p Params) Validate() error {
	if p.SmoothingAlpha <= 0 || p.SmoothingAlpha > 1 {
		return fmt.Errorf("smoothing_alpha must be in (0,1], got %f", p.SmoothingAlpha)
	}
	if p.OnsetEnergy <= p.OffsetEnergy {
		return fmt.Errorf("onset_energy (%f) must exceed offset_energy (%f)", p.OnsetEnergy, p.OffsetEnergy)
	}
	if p.OffsetEnergy < 0 {
		return fmt.Errorf("offset_energy must be non-negative, got %f", p.OffsetEnergy)
	}
	if p.PeakHoldSamples < 1 {
		return fmt.Errorf("peak_hold_samples must be at least 1, got %d", p.PeakHoldSamples)
	}
	if p.MinStrokeDurationSec < 0 || p.MaxStrokeDurationSec <= p.MinStrokeDurationSec {
		return fmt.Errorf("stroke duration bounds invalid: min=%f max=%f", p.MinStrokeDurationSec, p.MaxStrokeDurationSec)
	}
	if p.AmbiguityMargin < 0 || p.AmbiguityMargin > 1 {
		return fmt.Errorf("ambiguity_margin must be in [0,1], got %f", p.AmbiguityMargin)
	}
	if p.ScoreFloor < 0 || p.ScoreFloor > 1 {
		return fmt.Errorf("score_floor must be in [0,1], got %f", p.ScoreFloor)
	}
	if p.UnknownConfidenceFloor < 0 || p.UnknownConfidenceFloor >= p.ScoreFloor {
		return fmt.Errorf("unknown_confidence_floor (%f) must be in [0, score_floor %f)", p.UnknownConfidenceFloor, p.ScoreFloor)
	}
	if p.DominantSide != "right" && p.DominantSide != "left" {
		return fmt.Errorf("dominant_side must be \"right\" or \"left\", got %q", p.DominantSide)
	}
	if p.IdleGapSec <= 0 {
		return fmt.Errorf("idle_gap_sec must be positive, got %f", p.IdleGapSec)
	}
	if p.HeatmapGridSize < 2 {
		return fmt.Errorf("heatmap_grid_size must be at least 2, got %d", p.HeatmapGridSize)
	}
	return nil
}

// DefaultParams returns the default engine tuning.
func DefaultParams() Params {
	return Params{
		SmoothingAlpha:          0.3,
		LandmarkConfidenceFloor: 0.5,
		OnsetEnergy:             0.15,
		OffsetEnergy:            0.05,
		PeakHoldSamples:         3,
		MinStrokeDurationSec:    0.3,
		MaxStrokeDurationSec:    2.0,
		AmbiguityMargin:         0.15,
		ScoreFloor:              0.2,
		DominantSide:            "right",
		UnknownConfidenceFloor:  0.1,
		IdleGapSec:              3.0,
		HeatmapGridSize:         20,
	}
}

// Package config loads and validates the engine tuning surface. Every knob
// is optional in JSON; omitted fields fall back to baked defaults, so
// partial configs are safe for both startup configuration and runtime
// updates.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/courtside-data/stroke.report/internal/stroke"
)

// TuningConfig represents the root configuration for engine tuning
// parameters. The schema matches the /api/params endpoint so the same JSON
// serves startup files and runtime updates.
type TuningConfig struct {
	// Conditioner params
	SmoothingAlpha          *float64 `json:"smoothing_alpha,omitempty"`
	LandmarkConfidenceFloor *float64 `json:"landmark_confidence_floor,omitempty"`

	// Segmenter params
	OnsetEnergy          *float64 `json:"onset_energy,omitempty"`
	OffsetEnergy         *float64 `json:"offset_energy,omitempty"`
	PeakHoldSamples      *int     `json:"peak_hold_samples,omitempty"`
	MinStrokeDurationSec *float64 `json:"min_stroke_duration_sec,omitempty"`
	MaxStrokeDurationSec *float64 `json:"max_stroke_duration_sec,omitempty"`

	// Classifier params
	AmbiguityMargin *float64 `json:"ambiguity_margin,omitempty"`
	ScoreFloor      *float64 `json:"score_floor,omitempty"`
	DominantSide    *string  `json:"dominant_side,omitempty"`

	// Assembler params
	UnknownConfidenceFloor *float64 `json:"unknown_confidence_floor,omitempty"`

	// Analytics params
	IdleGapSec      *float64 `json:"idle_gap_sec,omitempty"`
	HeatmapGridSize *int     `json:"heatmap_grid_size,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields nil. Use
// LoadTuningConfig to load actual values from a file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The path must
// carry a .json extension and the file must be under the max size. Fields
// omitted from the JSON retain their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that any set values are sane. Cross-field constraints
// (onset vs offset given defaults) are enforced again by the engine at run
// time; this catches obviously bad files at load time.
func (c *TuningConfig) Validate() error {
	if c.SmoothingAlpha != nil {
		if *c.SmoothingAlpha <= 0 || *c.SmoothingAlpha > 1 {
			return fmt.Errorf("smoothing_alpha must be in (0,1], got %f", *c.SmoothingAlpha)
		}
	}
	if c.LandmarkConfidenceFloor != nil {
		if *c.LandmarkConfidenceFloor < 0 || *c.LandmarkConfidenceFloor > 1 {
			return fmt.Errorf("landmark_confidence_floor must be in [0,1], got %f", *c.LandmarkConfidenceFloor)
		}
	}
	if c.OnsetEnergy != nil && *c.OnsetEnergy <= 0 {
		return fmt.Errorf("onset_energy must be positive, got %f", *c.OnsetEnergy)
	}
	if c.OffsetEnergy != nil && *c.OffsetEnergy < 0 {
		return fmt.Errorf("offset_energy must be non-negative, got %f", *c.OffsetEnergy)
	}
	if c.OnsetEnergy != nil && c.OffsetEnergy != nil && *c.OnsetEnergy <= *c.OffsetEnergy {
		return fmt.Errorf("onset_energy (%f) must exceed offset_energy (%f)", *c.OnsetEnergy, *c.OffsetEnergy)
	}
	if c.PeakHoldSamples != nil && *c.PeakHoldSamples < 1 {
		return fmt.Errorf("peak_hold_samples must be at least 1, got %d", *c.PeakHoldSamples)
	}
	if c.MinStrokeDurationSec != nil && *c.MinStrokeDurationSec < 0 {
		return fmt.Errorf("min_stroke_duration_sec must be non-negative, got %f", *c.MinStrokeDurationSec)
	}
	if c.MaxStrokeDurationSec != nil && *c.MaxStrokeDurationSec <= 0 {
		return fmt.Errorf("max_stroke_duration_sec must be positive, got %f", *c.MaxStrokeDurationSec)
	}
	if c.DominantSide != nil && *c.DominantSide != "right" && *c.DominantSide != "left" {
		return fmt.Errorf("dominant_side must be \"right\" or \"left\", got %q", *c.DominantSide)
	}
	if c.UnknownConfidenceFloor != nil && *c.UnknownConfidenceFloor < 0 {
		return fmt.Errorf("unknown_confidence_floor must be non-negative, got %f", *c.UnknownConfidenceFloor)
	}
	if c.UnknownConfidenceFloor != nil && c.ScoreFloor != nil && *c.UnknownConfidenceFloor >= *c.ScoreFloor {
		return fmt.Errorf("unknown_confidence_floor (%f) must be below score_floor (%f)", *c.UnknownConfidenceFloor, *c.ScoreFloor)
	}
	if c.IdleGapSec != nil && *c.IdleGapSec <= 0 {
		return fmt.Errorf("idle_gap_sec must be positive, got %f", *c.IdleGapSec)
	}
	if c.HeatmapGridSize != nil && *c.HeatmapGridSize < 2 {
		return fmt.Errorf("heatmap_grid_size must be at least 2, got %d", *c.HeatmapGridSize)
	}
	return nil
}

// ToParams resolves the config against engine defaults, producing the
// concrete parameter set a pipeline run uses.
func (c *TuningConfig) ToParams() stroke.Params {
	p := stroke.DefaultParams()
	if c == nil {
		return p
	}
	if c.SmoothingAlpha != nil {
		p.SmoothingAlpha = *c.SmoothingAlpha
	}
	if c.LandmarkConfidenceFloor != nil {
		p.LandmarkConfidenceFloor = *c.LandmarkConfidenceFloor
	}
	if c.OnsetEnergy != nil {
		p.OnsetEnergy = *c.OnsetEnergy
	}
	if c.OffsetEnergy != nil {
		p.OffsetEnergy = *c.OffsetEnergy
	}
	if c.PeakHoldSamples != nil {
		p.PeakHoldSamples = *c.PeakHoldSamples
	}
	if c.MinStrokeDurationSec != nil {
		p.MinStrokeDurationSec = *c.MinStrokeDurationSec
	}
	if c.MaxStrokeDurationSec != nil {
		p.MaxStrokeDurationSec = *c.MaxStrokeDurationSec
	}
	if c.AmbiguityMargin != nil {
		p.AmbiguityMargin = *c.AmbiguityMargin
	}
	if c.ScoreFloor != nil {
		p.ScoreFloor = *c.ScoreFloor
	}
	if c.DominantSide != nil {
		p.DominantSide = *c.DominantSide
	}
	if c.UnknownConfidenceFloor != nil {
		p.UnknownConfidenceFloor = *c.UnknownConfidenceFloor
	}
	if c.IdleGapSec != nil {
		p.IdleGapSec = *c.IdleGapSec
	}
	if c.HeatmapGridSize != nil {
		p.HeatmapGridSize = *c.HeatmapGridSize
	}
	return p
}

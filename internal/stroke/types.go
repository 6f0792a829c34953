// Package stroke implements the stroke detection and classification engine:
// a single-pass pipeline that conditions a raw per-frame body-keypoint
// stream, extracts motion-energy signals, segments them into candidate
// stroke windows, classifies each window, assembles a canonical timeline and
// aggregates session-level analytics.
package stroke

import (
	"github.com/courtside-data/stroke.report/internal/pose"
)

// StrokeType is a classified swing label.
type StrokeType string

const (
	Forehand StrokeType = "forehand"
	Backhand StrokeType = "backhand"
	Serve    StrokeType = "serve"
	Volley   StrokeType = "volley"
	Unknown  StrokeType = "unknown"
)

// AllStrokeTypes lists every label, including unknown, in stable order.
// Analytics count maps are seeded from this list so zero counts are explicit.
var AllStrokeTypes = []StrokeType{Forehand, Backhand, Serve, Volley, Unknown}

// CourtZone is a coarse region of the court derived from normalized player
// position, used for per-event context and analytics.
type CourtZone string

const (
	ZoneBaseline   CourtZone = "baseline"
	ZoneMidCourt   CourtZone = "mid_court"
	ZoneServiceBox CourtZone = "service_box"
	ZoneNet        CourtZone = "net"
	ZoneUnknown    CourtZone = "unknown"
)

// ConditionedFrame is a pose frame after smoothing and forward-fill. NoPose
// marks frames where the collaborator reported nothing usable; downstream
// stages treat those as zero motion.
type ConditionedFrame struct {
	Index        int
	TimestampSec float64
	Landmarks    map[string]pose.Landmark
	NoPose       bool
}

// MotionSample is the scalar motion summary for one frame.
type MotionSample struct {
	TimestampSec float64
	// Energy is a non-negative weighted sum of per-landmark displacement
	// rates, weighted toward racket-arm landmarks. The first frame of a
	// session has energy 0.
	Energy float64
	// LimbVelocity records displacement-per-second for a fixed set of named
	// limbs, kept for feature extraction.
	LimbVelocity map[string]float64
}

// CandidateWindow is a provisional time span believed to contain one stroke,
// produced by the segmenter. Invariant: StartSec <= PeakSec <= EndSec.
type CandidateWindow struct {
	StartSec   float64
	PeakSec    float64
	EndSec     float64
	PeakEnergy float64
	// Frames holds the conditioned frames covering [StartSec, EndSec],
	// in order, for feature extraction.
	Frames []ConditionedFrame
}

// DurationSec returns the window length in seconds.
func (w *CandidateWindow) DurationSec() float64 {
	return w.EndSec - w.StartSec
}

// StrokeEvent is a finalized, classified, timestamped swing. Events are
// immutable once emitted into a timeline.
type StrokeEvent struct {
	ID             string     `json:"id"`
	Type           StrokeType `json:"stroke_type"`
	StartSec       float64    `json:"start_sec"`
	EndSec         float64    `json:"end_sec"`
	ContactTimeSec float64    `json:"contact_time_sec"`
	Confidence     float64    `json:"confidence"`
	SwingSpeed     float64    `json:"swing_speed"`
	PlayerX        float64    `json:"player_x"`
	PlayerY        float64    `json:"player_y"`
	CourtZone      CourtZone  `json:"court_zone"`
}

// Timeline is the canonical ordered stroke sequence for one session:
// non-decreasing by StartSec, pairwise non-overlapping in [StartSec, EndSec).
type Timeline []StrokeEvent

// SwingSpeedStats summarizes swing speed across a timeline. Speeds are in
// normalized court units per second.
type SwingSpeedStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P85    float64 `json:"p85"`
	P95    float64 `json:"p95"`
	StdDev float64 `json:"std_dev"`
}

// Rally is a burst of consecutive strokes separated from its neighbors by an
// idle gap, or opened by a serve.
type Rally struct {
	StartSec    float64 `json:"start_sec"`
	EndSec      float64 `json:"end_sec"`
	StrokeCount int     `json:"stroke_count"`
}

// RallyStats aggregates rally structure for a session.
type RallyStats struct {
	Count               int     `json:"count"`
	AverageLength       float64 `json:"average_length"`
	LongestLength       int     `json:"longest_length"`
	TotalPlayingTimeSec float64 `json:"total_playing_time_sec"`
	// LengthHistogram counts rallies by stroke count: key 3 -> number of
	// three-stroke rallies.
	LengthHistogram map[int]int `json:"length_histogram"`
	Rallies         []Rally     `json:"rallies"`
}

// ServeStats summarizes serve production for a session, derived from the
// serve-labeled events alone. Interval fields stay zero with fewer than two
// serves.
type ServeStats struct {
	Count             int     `json:"count"`
	SharePct          float64 `json:"share_pct"`
	MeanSwingSpeed    float64 `json:"mean_swing_speed"`
	FastestSwingSpeed float64 `json:"fastest_swing_speed"`
	// AvgIntervalSec is the mean time from one serve's end to the next
	// serve's start.
	AvgIntervalSec float64 `json:"avg_interval_sec"`
	// RhythmConsistency is 1/(1+stddev) of the serve intervals: 1.0 for a
	// metronomic service routine.
	RhythmConsistency float64 `json:"rhythm_consistency"`
}

// HeatmapGrid is a 2D position-intensity histogram over normalized court
// coordinates. Bins[y][x] counts events whose player position falls in the
// cell; rows run from the net end (y=0) to the baseline (y=Size-1).
type HeatmapGrid struct {
	Size     int     `json:"size"`
	Bins     [][]int `json:"bins"`
	MaxCount int     `json:"max_count"`
	// Coverage is the fraction of cells visited at least once.
	Coverage float64 `json:"coverage"`
}

// SessionAnalytics is derived entirely from a Timeline; recomputing from the
// same timeline always yields the same value.
type SessionAnalytics struct {
	TotalStrokes    int                    `json:"total_strokes"`
	CountsByType    map[StrokeType]int     `json:"counts_by_type"`
	DistributionPct map[StrokeType]float64 `json:"distribution_pct"`
	SwingSpeed      SwingSpeedStats        `json:"swing_speed"`
	// ConsistencyScore is 1/(1+stddev) of swing speed: 1.0 for perfectly
	// repeatable pace, approaching 0 as pace scatters.
	ConsistencyScore float64     `json:"consistency_score"`
	Heatmap          HeatmapGrid `json:"heatmap"`
	Rallies          RallyStats  `json:"rallies"`
	Serves           ServeStats  `json:"serves"`
	// InsightTags are categorical observations (e.g. "forehand_dominant")
	// consumed by the narrative layer. Structured data, never prose.
	InsightTags []string `json:"insight_tags"`
}

// EnergyPoint is one sample of the session's motion-energy trace, kept for
// review charts and threshold tuning.
type EnergyPoint struct {
	TimestampSec float64 `json:"timestamp_sec"`
	Energy       float64 `json:"energy"`
}

// Result is the complete output of one pipeline run: the only artifacts the
// engine exposes to external consumers.
type Result struct {
	Timeline    Timeline         `json:"timeline"`
	Analytics   SessionAnalytics `json:"analytics"`
	EnergyTrace []EnergyPoint    `json:"energy_trace,omitempty"`
}

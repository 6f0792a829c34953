package stroke

// Confidence levels for classified strokes.
const (
	// CertainConfidence marks a classification consumers may treat as
	// unambiguous.
	CertainConfidence = 0.85
	// AmbiguousConfidenceCap is the ceiling applied when the top two label
	// scores are within the ambiguity margin. Kept below CertainConfidence
	// so ambiguity is always visible to consumers.
	AmbiguousConfidenceCap = 0.60
)

// Reference scales for normalizing raw features into [0,1] score
// contributions. These describe typical stroke motion in normalized image
// coordinates, not hard physical limits.
const (
	referencePeakEnergy   = 0.5 // an emphatic groundstroke's peak energy
	referenceVolleyDurSec = 0.8 // volleys are punches, well under this
)

// ClassificationResult holds the outcome of classifying one candidate window.
type ClassificationResult struct {
	Type       StrokeType
	Confidence float64
	Scores     map[StrokeType]float64
	Features   WindowFeatures
	Model      string
}

// Scorer maps a window feature vector to per-label scores in [0,1].
// Implementations must be pure: same features, same scores.
type Scorer interface {
	Score(f WindowFeatures) map[StrokeType]float64
	Model() string
}

// Classifier assigns a stroke label and confidence to candidate windows
// using a pluggable scorer. Ambiguity and score-floor policy live here, not
// in the scorer, so swapping the rule set never changes the uncertainty
// contract.
type Classifier struct {
	scorer          Scorer
	ambiguityMargin float64
	scoreFloor      float64
	dominantSide    string
}

// NewClassifier creates a classifier around the given scorer. A nil scorer
// gets the default rule-based one.
func NewClassifier(scorer Scorer, p Params) *Classifier {
	if scorer == nil {
		scorer = &RuleScorer{}
	}
	return &Classifier{
		scorer:          scorer,
		ambiguityMargin: p.AmbiguityMargin,
		scoreFloor:      p.ScoreFloor,
		dominantSide:    p.DominantSide,
	}
}

// Classify extracts features from one window and scores it. Uncertainty is
// surfaced as data: a sub-floor top score yields Unknown, a near-tie caps
// confidence below CertainConfidence. Never an error.
func (c *Classifier) Classify(w *CandidateWindow) ClassificationResult {
	features := ExtractWindowFeatures(w, c.dominantSide)
	scores := c.scorer.Score(features)

	result := ClassificationResult{
		Scores:   scores,
		Features: features,
		Model:    c.scorer.Model(),
	}

	var top, second float64
	topType := Unknown
	for _, st := range AllStrokeTypes {
		s, ok := scores[st]
		if !ok {
			continue
		}
		if s > top {
			second = top
			top = s
			topType = st
		} else if s > second {
			second = s
		}
	}

	if top < c.scoreFloor {
		// No label is a reasonable fit; unknown is the explicit failure
		// value, not an error.
		result.Type = Unknown
		result.Confidence = clampScore(top, 0, 1)
		return result
	}

	result.Type = topType
	result.Confidence = clampScore(top, 0, 1)
	if top-second < c.ambiguityMargin && result.Confidence > AmbiguousConfidenceCap {
		result.Confidence = AmbiguousConfidenceCap
	}

	return result
}

// clampScore clamps a score to [min, max].
func clampScore(value, min, max float64) float64 {
	if value > max {
		return max
	}
	if value < min {
		return min
	}
	return value
}

// RuleScorer is the default deterministic rule-based scorer. It can be
// replaced with a learned model without touching the segmenter or assembler.
type RuleScorer struct{}

// Model returns the scorer identifier.
func (rs *RuleScorer) Model() string { return "rule-based-v1" }

// Score computes per-label scores from the feature vector.
func (rs *RuleScorer) Score(f WindowFeatures) map[StrokeType]float64 {
	return map[StrokeType]float64{
		Forehand: rs.forehandScore(f),
		Backhand: rs.backhandScore(f),
		Serve:    rs.serveScore(f),
		Volley:   rs.volleyScore(f),
	}
}

// energyFactor maps peak energy onto [0,1] against the reference stroke.
func (rs *RuleScorer) energyFactor(f WindowFeatures) float64 {
	return clampScore(f.PeakEnergy/referencePeakEnergy, 0, 1)
}

// serveScore rewards overhead, vertical-dominant motion.
func (rs *RuleScorer) serveScore(f WindowFeatures) float64 {
	score := 0.55*f.WristAboveShoulderFrac + 0.35*f.VerticalRatio + 0.10*rs.energyFactor(f)
	return clampScore(score, 0, 1)
}

// forehandScore rewards horizontal-dominant motion with the wrist staying on
// the player's racket side.
func (rs *RuleScorer) forehandScore(f WindowFeatures) float64 {
	horizontal := 1 - f.VerticalRatio
	score := 0.50*horizontal + 0.35*f.DominantSideFrac + 0.15*rs.energyFactor(f)
	// Overhead motion is not a groundstroke regardless of sweep.
	if f.WristAboveShoulderFrac > 0.7 {
		score *= 0.5
	}
	return clampScore(score, 0, 1)
}

// backhandScore mirrors forehandScore: the wrist crosses the body midline.
func (rs *RuleScorer) backhandScore(f WindowFeatures) float64 {
	horizontal := 1 - f.VerticalRatio
	score := 0.50*horizontal + 0.35*(1-f.DominantSideFrac) + 0.15*rs.energyFactor(f)
	if f.WristAboveShoulderFrac > 0.7 {
		score *= 0.5
	}
	return clampScore(score, 0, 1)
}

// volleyScore rewards short, compact, low-energy punches.
func (rs *RuleScorer) volleyScore(f WindowFeatures) float64 {
	durFactor := clampScore(f.DurationSec/referenceVolleyDurSec, 0, 1)
	score := 0.45*(1-durFactor) + 0.35*(1-rs.energyFactor(f)) + 0.20*(1-f.VerticalRatio)
	// A full wrist swing around a still shoulder reads as a groundstroke.
	if f.WristShoulderRatio > 6 {
		score *= 0.6
	}
	return clampScore(score, 0, 1)
}

package stroke

import (
	"math"

	"github.com/courtside-data/stroke.report/internal/pose"
)

// WindowFeatures is the named feature vector extracted from one candidate
// window. Scorers operate on this struct and nothing else, so the rule set
// can be swapped without touching the segmenter or assembler.
type WindowFeatures struct {
	PeakEnergy  float64
	DurationSec float64

	// ActiveWrist is the wrist with the longer path through the window;
	// "" when neither wrist was observed.
	ActiveWrist string

	// WristShoulderRatio is active-wrist path length over same-side
	// shoulder path length. Groundstrokes swing the wrist far around a
	// comparatively still shoulder; shuffling moves both together.
	WristShoulderRatio float64

	// VerticalRatio is vertical over total wrist travel in [0,1]. Serves
	// and overheads are vertical-dominant; groundstrokes horizontal.
	VerticalRatio float64

	// NetHorizontalTravel is the signed end-minus-start horizontal wrist
	// displacement (image coordinates, positive = rightward).
	NetHorizontalTravel float64

	// WristAboveShoulderFrac is the fraction of window frames where the
	// active wrist sits above shoulder height.
	WristAboveShoulderFrac float64

	// DominantSideFrac is the fraction of window frames where the active
	// wrist is on the player's dominant side of the body midline. High for
	// forehands, low for backhands (the wrist crosses the body).
	DominantSideFrac float64

	// PeakWristSpeed is the fastest per-frame active-wrist displacement
	// rate in the window, in normalized units per second.
	PeakWristSpeed float64

	// MeanWristSpeed is the average active-wrist displacement rate.
	MeanWristSpeed float64
}

// ExtractWindowFeatures computes the feature vector for one candidate
// window. dominantSide is "right" or "left" (the player's racket hand).
func ExtractWindowFeatures(w *CandidateWindow, dominantSide string) WindowFeatures {
	f := WindowFeatures{
		PeakEnergy:  w.PeakEnergy,
		DurationSec: w.DurationSec(),
	}
	if len(w.Frames) < 2 {
		return f
	}

	leftPath := wristPathLength(w.Frames, "left_wrist")
	rightPath := wristPathLength(w.Frames, "right_wrist")

	wrist := "right_wrist"
	shoulder := "right_shoulder"
	if leftPath > rightPath {
		wrist = "left_wrist"
		shoulder = "left_shoulder"
	}
	if leftPath == 0 && rightPath == 0 {
		return f
	}
	f.ActiveWrist = wrist

	var (
		horizTravel, vertTravel float64
		shoulderPath            float64
		aboveCount, sideCount   int
		observed                int
		firstX, lastX           float64
		haveFirst               bool
	)

	for i := 1; i < len(w.Frames); i++ {
		prev, curr := w.Frames[i-1].Landmarks, w.Frames[i].Landmarks
		plm, pok := prev[wrist]
		lm, ok := curr[wrist]
		if !pok || !ok {
			continue
		}
		horizTravel += math.Abs(lm.X - plm.X)
		vertTravel += math.Abs(lm.Y - plm.Y)

		if slm, spok := prev[shoulder]; spok {
			if slm2, sok := curr[shoulder]; sok {
				dx := slm2.X - slm.X
				dy := slm2.Y - slm.Y
				shoulderPath += math.Sqrt(dx*dx + dy*dy)
			}
		}

		dt := w.Frames[i].TimestampSec - w.Frames[i-1].TimestampSec
		if dt > 0 {
			dx := lm.X - plm.X
			dy := lm.Y - plm.Y
			speed := math.Sqrt(dx*dx+dy*dy) / dt
			f.MeanWristSpeed += speed
			if speed > f.PeakWristSpeed {
				f.PeakWristSpeed = speed
			}
		}
	}

	for i := range w.Frames {
		lms := w.Frames[i].Landmarks
		lm, ok := lms[wrist]
		if !ok {
			continue
		}
		observed++
		if !haveFirst {
			firstX = lm.X
			haveFirst = true
		}
		lastX = lm.X

		if sh, sok := lms[shoulder]; sok && lm.Y < sh.Y {
			// Image coordinates: smaller y is higher.
			aboveCount++
		}
		if mid, mok := bodyMidlineX(lms); mok {
			onRight := lm.X > mid
			if (dominantSide == "left" && !onRight) || (dominantSide != "left" && onRight) {
				sideCount++
			}
		}
	}

	wristPath := rightPath
	if wrist == "left_wrist" {
		wristPath = leftPath
	}
	if shoulderPath > 0 {
		f.WristShoulderRatio = wristPath / shoulderPath
	} else {
		f.WristShoulderRatio = wristPath / 1e-3
	}

	if total := horizTravel + vertTravel; total > 0 {
		f.VerticalRatio = vertTravel / total
	}
	f.NetHorizontalTravel = lastX - firstX

	if observed > 0 {
		f.WristAboveShoulderFrac = float64(aboveCount) / float64(observed)
		f.DominantSideFrac = float64(sideCount) / float64(observed)
	}
	if n := len(w.Frames) - 1; n > 0 {
		f.MeanWristSpeed /= float64(n)
	}

	return f
}

// wristPathLength sums per-frame displacement for one wrist across the
// window. Missing observations contribute nothing.
func wristPathLength(frames []ConditionedFrame, wrist string) float64 {
	var total float64
	for i := 1; i < len(frames); i++ {
		plm, pok := frames[i-1].Landmarks[wrist]
		lm, ok := frames[i].Landmarks[wrist]
		if !pok || !ok {
			continue
		}
		dx := lm.X - plm.X
		dy := lm.Y - plm.Y
		total += math.Sqrt(dx*dx + dy*dy)
	}
	return total
}

// bodyMidlineX returns the horizontal body midline (shoulder midpoint,
// falling back to hip midpoint) for one frame's landmarks.
func bodyMidlineX(lms map[string]pose.Landmark) (float64, bool) {
	ls, lok := lms["left_shoulder"]
	rs, rok := lms["right_shoulder"]
	if lok && rok {
		return (ls.X + rs.X) / 2, true
	}
	lh, lhok := lms["left_hip"]
	rh, rhok := lms["right_hip"]
	if lhok && rhok {
		return (lh.X + rh.X) / 2, true
	}
	return 0, false
}

package stroke

import "math"

// TrackedLimbs is the fixed set of limbs whose per-frame velocity is carried
// into feature extraction.
var TrackedLimbs = []string{
	"left_wrist", "right_wrist",
	"left_elbow", "right_elbow",
	"left_shoulder", "right_shoulder",
}

// energyWeights favor racket-arm landmarks over torso and legs when summing
// per-landmark displacement into the scalar motion energy.
var energyWeights = map[string]float64{
	"left_wrist":     3.0,
	"right_wrist":    3.0,
	"left_elbow":     2.0,
	"right_elbow":    2.0,
	"left_shoulder":  1.5,
	"right_shoulder": 1.5,
	"left_hip":       0.75,
	"right_hip":      0.75,
}

// defaultEnergyWeight applies to landmarks not listed in energyWeights
// (head, legs, feet); they contribute little to swing energy.
const defaultEnergyWeight = 0.25

// energyWeightTotal caches the normalization denominator so energy stays
// comparable regardless of how many landmarks a detection carries.
func energyWeight(name string) float64 {
	if w, ok := energyWeights[name]; ok {
		return w
	}
	return defaultEnergyWeight
}

// ExtractMotion derives per-frame motion samples from a conditioned frame
// sequence: one sample per frame, equal length. Energy at frame i is the
// weight-normalized sum of per-landmark displacement rates between frames
// i-1 and i; the first frame has energy 0 by definition.
func ExtractMotion(frames []ConditionedFrame) []MotionSample {
	samples := make([]MotionSample, 0, len(frames))

	for i := range frames {
		s := MotionSample{
			TimestampSec: frames[i].TimestampSec,
			LimbVelocity: make(map[string]float64, len(TrackedLimbs)),
		}
		for _, limb := range TrackedLimbs {
			s.LimbVelocity[limb] = 0
		}

		if i == 0 || frames[i].NoPose || frames[i-1].NoPose {
			samples = append(samples, s)
			continue
		}

		dt := frames[i].TimestampSec - frames[i-1].TimestampSec
		if dt <= 0 {
			samples = append(samples, s)
			continue
		}

		prev := frames[i-1].Landmarks
		curr := frames[i].Landmarks

		var weighted, weightSum float64
		for name, lm := range curr {
			plm, ok := prev[name]
			if !ok {
				continue
			}
			dx := lm.X - plm.X
			dy := lm.Y - plm.Y
			rate := math.Sqrt(dx*dx+dy*dy) / dt

			w := energyWeight(name)
			weighted += w * rate
			weightSum += w
		}
		if weightSum > 0 {
			s.Energy = weighted / weightSum
		}

		for _, limb := range TrackedLimbs {
			lm, ok := curr[limb]
			plm, pok := prev[limb]
			if !ok || !pok {
				continue
			}
			dx := lm.X - plm.X
			dy := lm.Y - plm.Y
			s.LimbVelocity[limb] = math.Sqrt(dx*dx+dy*dy) / dt
		}

		samples = append(samples, s)
	}

	return samples
}

package stroke

import "github.com/courtside-data/stroke.report/internal/pose"

// CourtGeometry holds the y-axis zone boundaries in normalized image
// coordinates (0 = far/net end of the image, 1 = near/baseline end). Values
// come from the fixed side-view camera framing; a calibration layer may
// replace them per session.
type CourtGeometry struct {
	BaselineY float64
	ServiceY  float64
	NetY      float64
}

// DefaultCourtGeometry returns the uncalibrated zone boundaries.
func DefaultCourtGeometry() CourtGeometry {
	return CourtGeometry{
		BaselineY: 0.75,
		ServiceY:  0.55,
		NetY:      0.45,
	}
}

// ZoneFor maps a normalized player position to a court zone.
func (g CourtGeometry) ZoneFor(x, y float64) CourtZone {
	switch {
	case x < 0 || x > 1 || y < 0 || y > 1:
		return ZoneUnknown
	case y > g.BaselineY:
		return ZoneBaseline
	case y > g.ServiceY:
		return ZoneMidCourt
	case y > g.NetY:
		return ZoneServiceBox
	default:
		return ZoneNet
	}
}

// PlayerPosition estimates where the player stood during a window: per-frame
// body center of mass, averaged across the window. Returns ok=false when no
// landmarks were observed at all.
func PlayerPosition(frames []ConditionedFrame) (x, y float64, ok bool) {
	var sumX, sumY float64
	count := 0
	for i := range frames {
		cx, cy, frameOK := centerOfMass(frames[i].Landmarks)
		if !frameOK {
			continue
		}
		sumX += cx
		sumY += cy
		count++
	}
	if count == 0 {
		return 0, 0, false
	}
	return sumX / float64(count), sumY / float64(count), true
}

// centerOfMass returns the mean position of one frame's landmarks.
func centerOfMass(lms map[string]pose.Landmark) (x, y float64, ok bool) {
	if len(lms) == 0 {
		return 0, 0, false
	}
	for _, lm := range lms {
		x += lm.X
		y += lm.Y
	}
	n := float64(len(lms))
	return x / n, y / n, true
}

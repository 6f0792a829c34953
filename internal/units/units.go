// Package units provides shared constants and conversion for swing speed
// units. The engine measures speed in normalized image units per second;
// physical units are derived from the camera's court framing.
package units

// Unit constants
const (
	NORM = "norm" // normalized image units per second, the native scale
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// CourtWidthMeters is the doubles court width. The side-view camera is
// framed so the image width spans roughly one court width, which anchors
// the normalized-to-physical conversion.
const CourtWidthMeters = 10.97

// ValidUnits contains all valid unit values
var ValidUnits = []string{NORM, MPS, MPH, KMPH, KPH}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "norm, mps, mph, kmph, kph"
}

// ConvertSwingSpeed converts a swing speed from normalized image units per
// second to the target units.
func ConvertSwingSpeed(normPerSec float64, targetUnits string) float64 {
	mps := normPerSec * CourtWidthMeters
	switch targetUnits {
	case NORM:
		return normPerSec
	case MPS:
		return mps
	case MPH:
		return mps * 2.2369362920544
	case KMPH, KPH:
		return mps * 3.6
	default:
		return normPerSec
	}
}

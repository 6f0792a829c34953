// Package pose defines the body-keypoint vocabulary and frame types consumed
// by the stroke detection pipeline. Landmark indices follow the MediaPipe
// pose convention so exports from the upstream pose collaborator map directly.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
package pose

// Pose landmark indices following the MediaPipe convention.
const (
	Nose           = 0
	LeftEyeInner   = 1
	LeftEye        = 2
	LeftEyeOuter   = 3
	RightEyeInner  = 4
	RightEye       = 5
	RightEyeOuter  = 6
	LeftEar        = 7
	RightEar       = 8
	MouthLeft      = 9
	MouthRight     = 10
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftPinky      = 17
	RightPinky     = 18
	LeftIndex      = 19
	RightIndex     = 20
	LeftThumb      = 21
	RightThumb     = 22
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
	NumLandmarks   = 33
)

// landmarkNames maps MediaPipe indices to stable names used throughout the
// pipeline and in serialized output.
var landmarkNames = [NumLandmarks]string{
	"nose",
	"left_eye_inner", "left_eye", "left_eye_outer",
	"right_eye_inner", "right_eye", "right_eye_outer",
	"left_ear", "right_ear",
	"mouth_left", "mouth_right",
	"left_shoulder", "right_shoulder",
	"left_elbow", "right_elbow",
	"left_wrist", "right_wrist",
	"left_pinky", "right_pinky",
	"left_index", "right_index",
	"left_thumb", "right_thumb",
	"left_hip", "right_hip",
	"left_knee", "right_knee",
	"left_ankle", "right_ankle",
	"left_heel", "right_heel",
	"left_foot_index", "right_foot_index",
}

// LandmarkName returns the stable name for a MediaPipe landmark index, or ""
// if the index is out of range.
func LandmarkName(idx int) string {
	if idx < 0 || idx >= NumLandmarks {
		return ""
	}
	return landmarkNames[idx]
}

// LandmarkIndex returns the MediaPipe index for a landmark name, or -1 if the
// name is unknown.
func LandmarkIndex(name string) int {
	for i, n := range landmarkNames {
		if n == name {
			return i
		}
	}
	return -1
}

// Landmark is a single named anatomical point in normalized image
// coordinates with a detection confidence.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Frame is one decoded video frame's worth of pose output. Landmarks is nil
// when the pose collaborator reported no detection for the frame.
type Frame struct {
	Index        int                 `json:"frame_id"`
	TimestampSec float64             `json:"timestamp"`
	Landmarks    map[string]Landmark `json:"landmarks,omitempty"`
}

// Detected reports whether the frame carries any usable landmarks.
func (f *Frame) Detected() bool {
	return len(f.Landmarks) > 0
}

package pose

import (
	"encoding/json"
	"fmt"
	"io"
)

// rawFrame matches the JSON export produced by the pose collaborator: one
// record per decoded frame, landmarks as a MediaPipe-ordered array or null
// when no pose was detected.
type rawFrame struct {
	FrameID   int           `json:"frame_id"`
	Timestamp float64       `json:"timestamp"`
	Landmarks []rawLandmark `json:"landmarks"`
}

type rawLandmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// DecodeFrames reads a JSON array of per-frame pose records and converts the
// index-ordered landmark arrays into named landmark maps. Frames with null
// landmarks decode to Frames with nil Landmarks; they are valid input and
// signal detection failure downstream.
func DecodeFrames(r io.Reader) ([]Frame, error) {
	var raw []rawFrame
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode pose frames: %w", err)
	}

	frames := make([]Frame, 0, len(raw))
	for _, rf := range raw {
		f := Frame{
			Index:        rf.FrameID,
			TimestampSec: rf.Timestamp,
		}
		if len(rf.Landmarks) > 0 {
			f.Landmarks = make(map[string]Landmark, len(rf.Landmarks))
			for i, lm := range rf.Landmarks {
				name := LandmarkName(i)
				if name == "" {
					// Extra landmarks beyond the MediaPipe set are dropped.
					continue
				}
				f.Landmarks[name] = Landmark{
					X:          lm.X,
					Y:          lm.Y,
					Z:          lm.Z,
					Confidence: lm.Visibility,
				}
			}
		}
		frames = append(frames, f)
	}

	return frames, nil
}

package stroke

import (
	"sort"

	"github.com/google/uuid"
)

// Assembler turns classified candidate windows into the canonical timeline:
// ordered by start time, pairwise non-overlapping, noise filtered out.
// Overlap is resolved by selection (keep the higher confidence), never by
// merging two classified events into one.
type Assembler struct {
	unknownFloor float64
	geometry     CourtGeometry
}

// NewAssembler creates an assembler with the given tuning and court
// geometry.
func NewAssembler(p Params, geometry CourtGeometry) *Assembler {
	return &Assembler{
		unknownFloor: p.UnknownConfidenceFloor,
		geometry:     geometry,
	}
}

// Assemble builds the timeline from windows and their classifications (same
// order, same length). Contact time and swing speed are derived here from
// each window's peak profile rather than carried from earlier stages.
func (a *Assembler) Assemble(windows []CandidateWindow, results []ClassificationResult) Timeline {
	events := make(Timeline, 0, len(windows))

	for i := range windows {
		if i >= len(results) {
			break
		}
		w := &windows[i]
		r := &results[i]

		// Low-confidence unknowns are noise; drop them outright. Unknowns
		// above the floor are genuine "stroke occurred, type unclear"
		// entries and stay.
		if r.Type == Unknown && r.Confidence < a.unknownFloor {
			continue
		}

		ev := StrokeEvent{
			ID:             uuid.NewString(),
			Type:           r.Type,
			StartSec:       w.StartSec,
			EndSec:         w.EndSec,
			ContactTimeSec: w.PeakSec,
			Confidence:     r.Confidence,
			SwingSpeed:     swingSpeed(r.Features, w),
		}

		if x, y, ok := PlayerPosition(w.Frames); ok {
			ev.PlayerX = x
			ev.PlayerY = y
			ev.CourtZone = a.geometry.ZoneFor(x, y)
		} else {
			// No position observed; keep out of heatmap range.
			ev.PlayerX = -1
			ev.PlayerY = -1
			ev.CourtZone = ZoneUnknown
		}

		events = append(events, ev)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartSec < events[j].StartSec
	})

	return dedupeOverlaps(events)
}

// swingSpeed derives the event swing speed from the window's peak profile:
// the fastest wrist displacement rate when one was observed, otherwise the
// peak motion energy as a lower-fidelity proxy.
func swingSpeed(f WindowFeatures, w *CandidateWindow) float64 {
	if f.PeakWristSpeed > 0 {
		return f.PeakWristSpeed
	}
	return w.PeakEnergy
}

// dedupeOverlaps enforces the non-overlap invariant on a sorted timeline:
// of two events overlapping in [start, end), the higher-confidence one
// survives.
func dedupeOverlaps(events Timeline) Timeline {
	if len(events) < 2 {
		return events
	}

	kept := make(Timeline, 0, len(events))
	for _, ev := range events {
		if len(kept) == 0 {
			kept = append(kept, ev)
			continue
		}
		last := &kept[len(kept)-1]
		if ev.StartSec < last.EndSec {
			if ev.Confidence > last.Confidence {
				kept[len(kept)-1] = ev
			}
			continue
		}
		kept = append(kept, ev)
	}
	return kept
}

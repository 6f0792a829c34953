package stroke

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Insight tag thresholds. Tags are categorical observations over the
// distributions; the narrative layer downstream turns them into prose.
const (
	dominantSharePct   = 50.0
	serveHeavySharePct = 30.0
	netPlayerSharePct  = 15.0
	steadyPaceScore    = 0.8
	scatteredPaceScore = 0.5
	longRallyAvgLength = 6.0
)

// Aggregate computes session analytics from a finished timeline. It is a
// pure function of its inputs: aggregating the same timeline twice yields
// identical results, with no hidden state.
func Aggregate(timeline Timeline, p Params) SessionAnalytics {
	a := SessionAnalytics{
		TotalStrokes:    len(timeline),
		CountsByType:    make(map[StrokeType]int, len(AllStrokeTypes)),
		DistributionPct: make(map[StrokeType]float64, len(AllStrokeTypes)),
	}
	for _, st := range AllStrokeTypes {
		a.CountsByType[st] = 0
		a.DistributionPct[st] = 0
	}

	for _, ev := range timeline {
		a.CountsByType[ev.Type]++
	}
	if len(timeline) > 0 {
		for st, n := range a.CountsByType {
			a.DistributionPct[st] = 100 * float64(n) / float64(len(timeline))
		}
	}

	a.SwingSpeed = swingSpeedStats(timeline)
	if len(timeline) > 0 {
		a.ConsistencyScore = 1.0 / (1.0 + a.SwingSpeed.StdDev)
	}

	a.Heatmap = positionHeatmap(timeline, p.HeatmapGridSize)
	a.Rallies = segmentRallies(timeline, p.IdleGapSec)
	a.Serves = serveStats(timeline)
	a.InsightTags = insightTags(&a)

	return a
}

// swingSpeedStats computes mean/percentile/spread of swing speed.
func swingSpeedStats(timeline Timeline) SwingSpeedStats {
	if len(timeline) == 0 {
		return SwingSpeedStats{}
	}

	speeds := make([]float64, 0, len(timeline))
	for _, ev := range timeline {
		speeds = append(speeds, ev.SwingSpeed)
	}
	sort.Float64s(speeds)

	s := SwingSpeedStats{
		Mean:   stat.Mean(speeds, nil),
		Median: stat.Quantile(0.5, stat.Empirical, speeds, nil),
		P85:    stat.Quantile(0.85, stat.Empirical, speeds, nil),
		P95:    stat.Quantile(0.95, stat.Empirical, speeds, nil),
	}
	if len(speeds) > 1 {
		s.StdDev = stat.StdDev(speeds, nil)
	}
	return s
}

// positionHeatmap bins event player positions into a gridSize x gridSize
// intensity grid. Events without an observed position (negative
// coordinates) are skipped.
func positionHeatmap(timeline Timeline, gridSize int) HeatmapGrid {
	if gridSize <= 0 {
		gridSize = DefaultParams().HeatmapGridSize
	}

	grid := HeatmapGrid{Size: gridSize}
	grid.Bins = make([][]int, gridSize)
	for y := range grid.Bins {
		grid.Bins[y] = make([]int, gridSize)
	}

	visited := 0
	for _, ev := range timeline {
		if ev.PlayerX < 0 || ev.PlayerY < 0 || ev.PlayerX > 1 || ev.PlayerY > 1 {
			continue
		}
		gx := clampBin(int(ev.PlayerX*float64(gridSize-1)), gridSize)
		gy := clampBin(int(ev.PlayerY*float64(gridSize-1)), gridSize)
		if grid.Bins[gy][gx] == 0 {
			visited++
		}
		grid.Bins[gy][gx]++
		if grid.Bins[gy][gx] > grid.MaxCount {
			grid.MaxCount = grid.Bins[gy][gx]
		}
	}

	grid.Coverage = float64(visited) / float64(gridSize*gridSize)
	return grid
}

func clampBin(v, size int) int {
	if v < 0 {
		return 0
	}
	if v >= size {
		return size - 1
	}
	return v
}

// segmentRallies groups consecutive strokes into rallies. A new rally opens
// on the first stroke, on any serve, and after an idle gap longer than
// idleGapSec. Raising the gap threshold can only merge rallies, never split
// one.
func segmentRallies(timeline Timeline, idleGapSec float64) RallyStats {
	stats := RallyStats{
		Rallies:         []Rally{},
		LengthHistogram: map[int]int{},
	}
	if len(timeline) == 0 {
		return stats
	}

	var current *Rally
	for i := range timeline {
		ev := &timeline[i]
		newRally := current == nil ||
			ev.Type == Serve ||
			ev.StartSec-current.EndSec > idleGapSec

		if newRally {
			stats.Rallies = append(stats.Rallies, Rally{
				StartSec:    ev.StartSec,
				EndSec:      ev.EndSec,
				StrokeCount: 1,
			})
			current = &stats.Rallies[len(stats.Rallies)-1]
			continue
		}

		current.EndSec = ev.EndSec
		current.StrokeCount++
	}

	stats.Count = len(stats.Rallies)
	totalStrokes := 0
	for _, r := range stats.Rallies {
		totalStrokes += r.StrokeCount
		stats.LengthHistogram[r.StrokeCount]++
		if r.StrokeCount > stats.LongestLength {
			stats.LongestLength = r.StrokeCount
		}
		stats.TotalPlayingTimeSec += r.EndSec - r.StartSec
	}
	if stats.Count > 0 {
		stats.AverageLength = float64(totalStrokes) / float64(stats.Count)
	}

	return stats
}

// serveStats summarizes the serve-labeled events: production volume, speed,
// and how regular the service routine's rhythm is.
func serveStats(timeline Timeline) ServeStats {
	s := ServeStats{}

	var serves []StrokeEvent
	for _, ev := range timeline {
		if ev.Type == Serve {
			serves = append(serves, ev)
		}
	}
	s.Count = len(serves)
	if s.Count == 0 {
		return s
	}
	s.SharePct = 100 * float64(s.Count) / float64(len(timeline))

	speeds := make([]float64, 0, len(serves))
	for _, ev := range serves {
		speeds = append(speeds, ev.SwingSpeed)
		if ev.SwingSpeed > s.FastestSwingSpeed {
			s.FastestSwingSpeed = ev.SwingSpeed
		}
	}
	s.MeanSwingSpeed = stat.Mean(speeds, nil)

	if len(serves) >= 2 {
		intervals := make([]float64, 0, len(serves)-1)
		for i := 1; i < len(serves); i++ {
			intervals = append(intervals, serves[i].StartSec-serves[i-1].EndSec)
		}
		s.AvgIntervalSec = stat.Mean(intervals, nil)
		sd := 0.0
		if len(intervals) > 1 {
			sd = stat.StdDev(intervals, nil)
		}
		s.RhythmConsistency = 1.0 / (1.0 + sd)
	}

	return s
}

// insightTags derives categorical observations from the aggregates, in a
// fixed order so output is deterministic.
func insightTags(a *SessionAnalytics) []string {
	tags := []string{}

	if a.TotalStrokes == 0 {
		return tags
	}

	if a.DistributionPct[Forehand] > dominantSharePct {
		tags = append(tags, "forehand_dominant")
	}
	if a.DistributionPct[Backhand] > dominantSharePct {
		tags = append(tags, "backhand_dominant")
	}
	if a.DistributionPct[Serve] > serveHeavySharePct {
		tags = append(tags, "serve_heavy")
	}
	if a.DistributionPct[Volley] > netPlayerSharePct {
		tags = append(tags, "net_player")
	}
	if a.ConsistencyScore >= steadyPaceScore {
		tags = append(tags, "steady_pace")
	} else if a.ConsistencyScore < scatteredPaceScore {
		tags = append(tags, "scattered_pace")
	}
	if a.Rallies.AverageLength >= longRallyAvgLength {
		tags = append(tags, "long_rallies")
	}

	return tags
}

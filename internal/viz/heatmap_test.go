package viz

import (
	"bytes"
	"strings"
	"testing"

	"github.com/courtside-data/stroke.report/internal/stroke"
)

func testGrid() stroke.HeatmapGrid {
	grid := stroke.HeatmapGrid{Size: 4, MaxCount: 3, Coverage: 2.0 / 16.0}
	grid.Bins = make([][]int, 4)
	for y := range grid.Bins {
		grid.Bins[y] = make([]int, 4)
	}
	grid.Bins[3][1] = 3
	grid.Bins[2][2] = 1
	return grid
}

func TestRenderPositionHeatmap(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPositionHeatmap(&buf, "sess-1", testGrid()); err != nil {
		t.Fatalf("RenderPositionHeatmap: %v", err)
	}

	html := buf.String()
	if !strings.Contains(html, "echarts") {
		t.Error("output does not embed echarts")
	}
	if !strings.Contains(html, "sess-1") {
		t.Error("output does not mention the session ID")
	}
}

func TestRenderPositionHeatmapEmptyGrid(t *testing.T) {
	grid := stroke.HeatmapGrid{Size: 4}
	grid.Bins = make([][]int, 4)
	for y := range grid.Bins {
		grid.Bins[y] = make([]int, 4)
	}

	var buf bytes.Buffer
	if err := RenderPositionHeatmap(&buf, "empty", grid); err != nil {
		t.Fatalf("RenderPositionHeatmap on empty grid: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("empty grid produced no output")
	}
}

func TestRenderPositionHeatmapMalformed(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPositionHeatmap(&buf, "bad", stroke.HeatmapGrid{Size: 3}); err == nil {
		t.Fatal("expected error for grid with missing rows")
	}
}

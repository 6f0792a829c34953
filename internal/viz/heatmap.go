// Package viz renders session analytics as standalone HTML charts. These are
// debugging and review views; the production UI consumes the JSON API.
package viz

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/courtside-data/stroke.report/internal/stroke"
)

// viridis ramp, low to high occupancy.
var heatmapColors = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// RenderPositionHeatmap writes an HTML heatmap of player court positions for
// one session. Grid row 0 is the top of the image; the chart flips it so the
// baseline reads at the bottom.
func RenderPositionHeatmap(w io.Writer, sessionID string, grid stroke.HeatmapGrid) error {
	if grid.Size == 0 || len(grid.Bins) != grid.Size {
		return fmt.Errorf("malformed heatmap grid: size=%d rows=%d", grid.Size, len(grid.Bins))
	}

	data := make([]opts.HeatMapData, 0, grid.Size*grid.Size)
	for gy, row := range grid.Bins {
		for gx, count := range row {
			if count == 0 {
				continue
			}
			data = append(data, opts.HeatMapData{
				Value: [3]interface{}{gx, grid.Size - 1 - gy, count},
			})
		}
	}

	maxCount := grid.MaxCount
	if maxCount == 0 {
		maxCount = 1
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Court Position Heatmap",
			Theme:     "dark",
			Width:     "700px",
			Height:    "700px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Court Position Heatmap",
			Subtitle: fmt.Sprintf("session=%s grid=%dx%d coverage=%.1f%%", sessionID, grid.Size, grid.Size, 100*grid.Coverage),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "court x", Show: opts.Bool(false)}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Name: "court y", Show: opts.Bool(false)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxCount),
			InRange:    &opts.VisualMapInRange{Color: heatmapColors},
		}),
	)

	hm.AddSeries("positions", data)

	if err := hm.Render(w); err != nil {
		return fmt.Errorf("failed to render heatmap: %w", err)
	}
	return nil
}

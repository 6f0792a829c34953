package viz

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/courtside-data/stroke.report/internal/stroke"
)

// RenderEnergyTrace writes an HTML line chart of the session's motion-energy
// signal with the segmenter's onset and offset thresholds overlaid, for
// reviewing how a session segmented and tuning the thresholds.
func RenderEnergyTrace(w io.Writer, sessionID string, trace []stroke.EnergyPoint, p stroke.Params) error {
	if len(trace) == 0 {
		return fmt.Errorf("empty energy trace for session %s", sessionID)
	}

	times := make([]string, len(trace))
	energy := make([]opts.LineData, len(trace))
	onset := make([]opts.LineData, len(trace))
	offset := make([]opts.LineData, len(trace))
	for i, pt := range trace {
		times[i] = fmt.Sprintf("%.2f", pt.TimestampSec)
		energy[i] = opts.LineData{Value: pt.Energy}
		onset[i] = opts.LineData{Value: p.OnsetEnergy}
		offset[i] = opts.LineData{Value: p.OffsetEnergy}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Motion Energy Trace",
			Theme:     "dark",
			Width:     "1100px",
			Height:    "450px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Motion Energy Trace",
			Subtitle: fmt.Sprintf("session=%s samples=%d onset=%.2f offset=%.2f", sessionID, len(trace), p.OnsetEnergy, p.OffsetEnergy),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "time (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "energy"}),
	)

	line.SetXAxis(times).
		AddSeries("energy", energy).
		AddSeries("onset", onset).
		AddSeries("offset", offset)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render energy trace: %w", err)
	}
	return nil
}

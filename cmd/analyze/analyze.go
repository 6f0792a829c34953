// Command analyze runs the stroke detection pipeline over one keypoint
// export and prints the resulting timeline and analytics. With -db it also
// records the session for the API server to serve.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/courtside-data/stroke.report/internal/config"
	"github.com/courtside-data/stroke.report/internal/pose"
	"github.com/courtside-data/stroke.report/internal/sessiondb"
	"github.com/courtside-data/stroke.report/internal/stroke"
	"github.com/courtside-data/stroke.report/internal/units"
	"github.com/courtside-data/stroke.report/internal/viz"
)

var (
	input      = flag.String("input", "", "Keypoint export to analyze (JSON, required)")
	configPath = flag.String("config", "", "Optional tuning config (JSON)")
	dbFile     = flag.String("db", "", "Optional session database to record the result in")
	sessionID  = flag.String("session-id", "", "Session ID (generated when empty)")
	jsonOut    = flag.Bool("json", false, "Emit the full result as JSON instead of a summary")
	traceHTML  = flag.String("trace-html", "", "Optional path to write the motion-energy trace chart (HTML)")
	speedUnits = flag.String("units", units.NORM, "Swing speed units for the summary (norm, mps, mph, kmph, kph)")
)

func main() {
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}
	if !units.IsValid(*speedUnits) {
		log.Fatalf("invalid units %q, valid values: %s", *speedUnits, units.GetValidUnitsString())
	}

	params := stroke.DefaultParams()
	if *configPath != "" {
		cfg, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
		params = cfg.ToParams()
	}

	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("failed to open input: %v", err)
	}
	frames, err := pose.DecodeFrames(f)
	f.Close()
	if err != nil {
		log.Fatalf("failed to decode keypoint export: %v", err)
	}

	res, err := stroke.NewEngine(params, nil).Run(frames)
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}

	id := *sessionID
	if id == "" {
		id = uuid.NewString()
	}

	if *dbFile != "" {
		if err := recordSession(id, frames, params, res); err != nil {
			log.Fatalf("failed to record session: %v", err)
		}
		log.Printf("[analyze] recorded session %s in %s", id, *dbFile)
	}

	if *traceHTML != "" {
		if err := writeEnergyTrace(*traceHTML, id, res, params); err != nil {
			log.Fatalf("failed to write energy trace: %v", err)
		}
		log.Printf("[analyze] wrote energy trace to %s", *traceHTML)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			log.Fatalf("failed to encode result: %v", err)
		}
		return
	}

	printSummary(id, frames, res)
}

func writeEnergyTrace(path, id string, res *stroke.Result, params stroke.Params) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return viz.RenderEnergyTrace(f, id, res.EnergyTrace, params)
}

func recordSession(id string, frames []pose.Frame, params stroke.Params, res *stroke.Result) error {
	db, err := sessiondb.NewDB(*dbFile)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.MigrateUp(); err != nil {
		return err
	}

	sess := &sessiondb.Session{
		ID:            id,
		Source:        filepath.Base(*input),
		FrameCount:    len(frames),
		CreatedAtUnix: time.Now().Unix(),
	}
	if len(frames) > 0 {
		sess.DurationSec = frames[len(frames)-1].TimestampSec - frames[0].TimestampSec
	}
	return db.SaveSession(sess, params, res)
}

func printSummary(id string, frames []pose.Frame, res *stroke.Result) {
	a := res.Analytics

	fmt.Printf("session %s: %d frames, %d strokes\n", id, len(frames), a.TotalStrokes)
	for _, st := range stroke.AllStrokeTypes {
		if n := a.CountsByType[st]; n > 0 {
			fmt.Printf("  %-9s %3d (%.1f%%)\n", st, n, a.DistributionPct[st])
		}
	}

	fmt.Printf("swing speed (%s): mean %.2f median %.2f p95 %.2f\n",
		*speedUnits,
		units.ConvertSwingSpeed(a.SwingSpeed.Mean, *speedUnits),
		units.ConvertSwingSpeed(a.SwingSpeed.Median, *speedUnits),
		units.ConvertSwingSpeed(a.SwingSpeed.P95, *speedUnits))
	fmt.Printf("consistency %.2f, %d rallies (longest %d strokes)\n",
		a.ConsistencyScore, a.Rallies.Count, a.Rallies.LongestLength)
	if len(a.InsightTags) > 0 {
		fmt.Printf("insights: %v\n", a.InsightTags)
	}

	for _, ev := range res.Timeline {
		fmt.Printf("  %7.2fs  %-9s conf=%.2f zone=%s\n", ev.ContactTimeSec, ev.Type, ev.Confidence, ev.CourtZone)
	}
}

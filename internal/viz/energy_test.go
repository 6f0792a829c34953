package viz

import (
	"bytes"
	"strings"
	"testing"

	"github.com/courtside-data/stroke.report/internal/stroke"
)

func TestRenderEnergyTrace(t *testing.T) {
	trace := []stroke.EnergyPoint{
		{TimestampSec: 0.0, Energy: 0.00},
		{TimestampSec: 0.1, Energy: 0.12},
		{TimestampSec: 0.2, Energy: 0.31},
		{TimestampSec: 0.3, Energy: 0.08},
	}

	var buf bytes.Buffer
	if err := RenderEnergyTrace(&buf, "sess-2", trace, stroke.DefaultParams()); err != nil {
		t.Fatalf("RenderEnergyTrace: %v", err)
	}

	html := buf.String()
	if !strings.Contains(html, "echarts") {
		t.Error("output does not embed echarts")
	}
	if !strings.Contains(html, "sess-2") {
		t.Error("output does not mention the session ID")
	}
	if !strings.Contains(html, "onset") {
		t.Error("output does not include the onset threshold series")
	}
}

func TestRenderEnergyTraceEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderEnergyTrace(&buf, "none", nil, stroke.DefaultParams()); err == nil {
		t.Fatal("expected error for empty trace")
	}
}

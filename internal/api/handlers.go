package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/courtside-data/stroke.report/internal/httputil"
	"github.com/courtside-data/stroke.report/internal/pose"
	"github.com/courtside-data/stroke.report/internal/sessiondb"
	"github.com/courtside-data/stroke.report/internal/stroke"
	"github.com/courtside-data/stroke.report/internal/units"
	"github.com/courtside-data/stroke.report/internal/version"
	"github.com/courtside-data/stroke.report/internal/viz"
)

// maxAnalyzeBodyBytes caps uploaded keypoint payloads. A half-hour session at
// 30fps with full landmarks stays well under this.
const maxAnalyzeBodyBytes = 64 * 1024 * 1024

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, map[string]interface{}{
		"status":         "ok",
		"version":        version.Version,
		"uptime_seconds": s.clock.Since(s.startedAt).Seconds(),
	})
}

func (s *Server) showParams(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, s.params)
}

// analyzeSession accepts a keypoint frame payload, runs the pipeline and
// stores the result. Query params: session_id (optional, generated when
// absent), source (optional label for the upload).
func (s *Server) analyzeSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	body := http.MaxBytesReader(w, r.Body, maxAnalyzeBodyBytes)
	frames, err := pose.DecodeFrames(body)
	if err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid keypoint payload: %v", err))
		return
	}

	res, err := stroke.NewEngine(s.params, s.scorer).Run(frames)
	if err != nil {
		// Structural input problems are the caller's to fix.
		httputil.BadRequest(w, err.Error())
		return
	}

	sess := &sessiondb.Session{
		ID:            sessionID,
		Source:        r.URL.Query().Get("source"),
		FrameCount:    len(frames),
		CreatedAtUnix: s.clock.Now().Unix(),
	}
	if len(frames) > 0 {
		sess.DurationSec = frames[len(frames)-1].TimestampSec - frames[0].TimestampSec
	}

	if err := s.db.SaveSession(sess, s.params, res); err != nil {
		log.Printf("[api] failed to save session %s: %v", sessionID, err)
		httputil.InternalServerError(w, "failed to save session")
		return
	}

	httputil.WriteJSONOK(w, map[string]interface{}{
		"session_id": sessionID,
		"frames":     len(frames),
		"strokes":    len(res.Timeline),
		"analytics":  res.Analytics,
	})
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	sessions, err := s.db.ListSessions()
	if err != nil {
		log.Printf("[api] failed to list sessions: %v", err)
		httputil.InternalServerError(w, "failed to list sessions")
		return
	}
	httputil.WriteJSONOK(w, map[string]interface{}{"sessions": sessions})
}

// sessionRoutes dispatches /api/sessions/{id}[/timeline|/analytics|/heatmap].
func (s *Server) sessionRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	parts := strings.SplitN(path, "/", 2)
	id := parts[0]
	if id == "" {
		httputil.BadRequest(w, "missing session id")
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.getSession(w, id)
		case http.MethodDelete:
			s.deleteSession(w, id)
		default:
			httputil.MethodNotAllowed(w)
		}
		return
	}

	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	switch parts[1] {
	case "timeline":
		s.getTimeline(w, r, id)
	case "analytics":
		s.getAnalytics(w, r, id)
	case "heatmap":
		s.getHeatmap(w, id)
	default:
		httputil.NotFound(w, "unknown session resource")
	}
}

func (s *Server) getSession(w http.ResponseWriter, id string) {
	sess, err := s.db.GetSession(id)
	if errors.Is(err, sessiondb.ErrNotFound) {
		httputil.NotFound(w, "session not found")
		return
	}
	if err != nil {
		log.Printf("[api] failed to get session %s: %v", id, err)
		httputil.InternalServerError(w, "failed to get session")
		return
	}
	httputil.WriteJSONOK(w, sess)
}

func (s *Server) deleteSession(w http.ResponseWriter, id string) {
	err := s.db.DeleteSession(id)
	if errors.Is(err, sessiondb.ErrNotFound) {
		httputil.NotFound(w, "session not found")
		return
	}
	if err != nil {
		log.Printf("[api] failed to delete session %s: %v", id, err)
		httputil.InternalServerError(w, "failed to delete session")
		return
	}
	httputil.WriteJSONOK(w, map[string]string{"deleted": id})
}

// requestUnits resolves the units query param against the server default.
func (s *Server) requestUnits(r *http.Request) (string, error) {
	u := r.URL.Query().Get("units")
	if u == "" {
		return s.units, nil
	}
	if !units.IsValid(u) {
		return "", fmt.Errorf("invalid units %q, valid values: %s", u, units.GetValidUnitsString())
	}
	return u, nil
}

func (s *Server) getTimeline(w http.ResponseWriter, r *http.Request, id string) {
	targetUnits, err := s.requestUnits(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	timeline, err := s.db.GetTimeline(id)
	if errors.Is(err, sessiondb.ErrNotFound) {
		httputil.NotFound(w, "session not found")
		return
	}
	if err != nil {
		log.Printf("[api] failed to get timeline for %s: %v", id, err)
		httputil.InternalServerError(w, "failed to get timeline")
		return
	}

	for i := range timeline {
		timeline[i].SwingSpeed = units.ConvertSwingSpeed(timeline[i].SwingSpeed, targetUnits)
	}

	httputil.WriteJSONOK(w, map[string]interface{}{
		"session_id": id,
		"units":      targetUnits,
		"events":     timeline,
	})
}

func (s *Server) getAnalytics(w http.ResponseWriter, r *http.Request, id string) {
	targetUnits, err := s.requestUnits(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	a, err := s.db.GetAnalytics(id)
	if errors.Is(err, sessiondb.ErrNotFound) {
		httputil.NotFound(w, "session not found")
		return
	}
	if err != nil {
		log.Printf("[api] failed to get analytics for %s: %v", id, err)
		httputil.InternalServerError(w, "failed to get analytics")
		return
	}

	a.SwingSpeed = convertSwingSpeedStats(a.SwingSpeed, targetUnits)
	a.Serves.MeanSwingSpeed = units.ConvertSwingSpeed(a.Serves.MeanSwingSpeed, targetUnits)
	a.Serves.FastestSwingSpeed = units.ConvertSwingSpeed(a.Serves.FastestSwingSpeed, targetUnits)

	httputil.WriteJSONOK(w, map[string]interface{}{
		"session_id": id,
		"units":      targetUnits,
		"analytics":  a,
	})
}

// convertSwingSpeedStats applies unit conversion to every speed statistic.
// ConsistencyScore is derived from the normalized spread and is not rescaled.
func convertSwingSpeedStats(s stroke.SwingSpeedStats, targetUnits string) stroke.SwingSpeedStats {
	return stroke.SwingSpeedStats{
		Mean:   units.ConvertSwingSpeed(s.Mean, targetUnits),
		Median: units.ConvertSwingSpeed(s.Median, targetUnits),
		P85:    units.ConvertSwingSpeed(s.P85, targetUnits),
		P95:    units.ConvertSwingSpeed(s.P95, targetUnits),
		StdDev: units.ConvertSwingSpeed(s.StdDev, targetUnits),
	}
}

func (s *Server) getHeatmap(w http.ResponseWriter, id string) {
	a, err := s.db.GetAnalytics(id)
	if errors.Is(err, sessiondb.ErrNotFound) {
		httputil.NotFound(w, "session not found")
		return
	}
	if err != nil {
		log.Printf("[api] failed to get analytics for %s: %v", id, err)
		httputil.InternalServerError(w, "failed to get analytics")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := viz.RenderPositionHeatmap(w, id, a.Heatmap); err != nil {
		log.Printf("[api] failed to render heatmap for %s: %v", id, err)
	}
}

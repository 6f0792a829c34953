// Package api exposes analyzed sessions over HTTP: analysis submission, the
// session registry, per-session timelines and analytics, and tuning
// inspection.
package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/courtside-data/stroke.report/internal/sessiondb"
	"github.com/courtside-data/stroke.report/internal/stroke"
	"github.com/courtside-data/stroke.report/internal/timeutil"
	"github.com/courtside-data/stroke.report/internal/units"
)

// ANSI escape codes for request log coloring
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	db     *sessiondb.DB
	params stroke.Params
	scorer stroke.Scorer
	units  string
	clock  timeutil.Clock

	startedAt time.Time
}

// NewServer creates an API server. params is the tuning applied to newly
// analyzed sessions; defaultUnits is the swing-speed unit used when a request
// does not ask for one.
func NewServer(db *sessiondb.DB, params stroke.Params, defaultUnits string, clock timeutil.Clock) *Server {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if !units.IsValid(defaultUnits) {
		defaultUnits = units.NORM
	}
	return &Server{
		db:        db,
		params:    params,
		units:     defaultUnits,
		clock:     clock,
		startedAt: clock.Now(),
	}
}

// ServeMux returns the route table for this server.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.health)
	mux.HandleFunc("/api/params", s.showParams)
	mux.HandleFunc("/api/analyze", s.analyzeSession)
	mux.HandleFunc("/api/sessions", s.listSessions)
	mux.HandleFunc("/api/sessions/", s.sessionRoutes)
	return mux
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	default:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	}
}

// LoggingMiddleware logs method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

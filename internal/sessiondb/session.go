package sessiondb

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/courtside-data/stroke.report/internal/stroke"
)

// ErrNotFound is returned when a requested session does not exist.
var ErrNotFound = errors.New("session not found")

// Session is one analyzed session's registry row.
type Session struct {
	ID            string  `json:"id"`
	Source        string  `json:"source"`
	FrameCount    int     `json:"frame_count"`
	DurationSec   float64 `json:"duration_sec"`
	StrokeCount   int     `json:"stroke_count"`
	CreatedAtUnix int64   `json:"created_at_unix"`
}

// SaveSession stores a finished analysis run in one transaction: the session
// row, its stroke events and the analytics document. A session ID that
// already exists is replaced wholesale; re-analyzing a session is an
// overwrite, never a merge.
func (db *DB) SaveSession(s *Session, params stroke.Params, res *stroke.Result) error {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}
	analyticsJSON, err := json.Marshal(res.Analytics)
	if err != nil {
		return fmt.Errorf("failed to marshal analytics: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Cascades clear any previous events and analytics for this ID.
	if _, err := tx.Exec(`DELETE FROM sessions WHERE id = ?`, s.ID); err != nil {
		return fmt.Errorf("failed to clear previous session: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO sessions (id, source, frame_count, duration_sec, params_json, created_at_unix)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.ID, s.Source, s.FrameCount, s.DurationSec, string(paramsJSON), s.CreatedAtUnix)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO stroke_events (
			id, session_id, stroke_type, start_sec, end_sec, contact_sec,
			confidence, swing_speed, player_x, player_y, court_zone
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare event insert: %w", err)
	}
	defer stmt.Close()

	for i := range res.Timeline {
		ev := &res.Timeline[i]
		_, err := stmt.Exec(
			ev.ID, s.ID, string(ev.Type),
			ev.StartSec, ev.EndSec, ev.ContactTimeSec,
			ev.Confidence, ev.SwingSpeed,
			ev.PlayerX, ev.PlayerY, string(ev.CourtZone),
		)
		if err != nil {
			return fmt.Errorf("failed to insert stroke event %s: %w", ev.ID, err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO session_analytics (session_id, analytics_json, created_at_unix)
		VALUES (?, ?, ?)
	`, s.ID, string(analyticsJSON), s.CreatedAtUnix)
	if err != nil {
		return fmt.Errorf("failed to insert analytics: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// GetSession retrieves one session's registry row.
func (db *DB) GetSession(id string) (*Session, error) {
	var s Session
	err := db.QueryRow(`
		SELECT s.id, s.source, s.frame_count, s.duration_sec, s.created_at_unix,
		       (SELECT COUNT(*) FROM stroke_events e WHERE e.session_id = s.id)
		FROM sessions s
		WHERE s.id = ?
	`, id).Scan(&s.ID, &s.Source, &s.FrameCount, &s.DurationSec, &s.CreatedAtUnix, &s.StrokeCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	return &s, nil
}

// ListSessions returns all sessions, newest first.
func (db *DB) ListSessions() ([]Session, error) {
	rows, err := db.Query(`
		SELECT s.id, s.source, s.frame_count, s.duration_sec, s.created_at_unix,
		       (SELECT COUNT(*) FROM stroke_events e WHERE e.session_id = s.id)
		FROM sessions s
		ORDER BY s.created_at_unix DESC, s.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.Source, &s.FrameCount, &s.DurationSec, &s.CreatedAtUnix, &s.StrokeCount); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// GetTimeline returns a session's stroke events ordered by start time.
func (db *DB) GetTimeline(sessionID string) (stroke.Timeline, error) {
	if _, err := db.GetSession(sessionID); err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT id, stroke_type, start_sec, end_sec, contact_sec,
		       confidence, swing_speed, player_x, player_y, court_zone
		FROM stroke_events
		WHERE session_id = ?
		ORDER BY start_sec
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query timeline for %s: %w", sessionID, err)
	}
	defer rows.Close()

	timeline := stroke.Timeline{}
	for rows.Next() {
		var ev stroke.StrokeEvent
		var st, zone string
		err := rows.Scan(&ev.ID, &st, &ev.StartSec, &ev.EndSec, &ev.ContactTimeSec,
			&ev.Confidence, &ev.SwingSpeed, &ev.PlayerX, &ev.PlayerY, &zone)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stroke event: %w", err)
		}
		ev.Type = stroke.StrokeType(st)
		ev.CourtZone = stroke.CourtZone(zone)
		timeline = append(timeline, ev)
	}
	return timeline, rows.Err()
}

// GetAnalytics returns a session's stored analytics document.
func (db *DB) GetAnalytics(sessionID string) (*stroke.SessionAnalytics, error) {
	var raw string
	err := db.QueryRow(`
		SELECT analytics_json FROM session_analytics WHERE session_id = ?
	`, sessionID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analytics for %s: %w", sessionID, err)
	}

	var a stroke.SessionAnalytics
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, fmt.Errorf("failed to parse stored analytics for %s: %w", sessionID, err)
	}
	return &a, nil
}

// GetParams returns the resolved tuning a session was analyzed with.
func (db *DB) GetParams(sessionID string) (*stroke.Params, error) {
	var raw string
	err := db.QueryRow(`SELECT params_json FROM sessions WHERE id = ?`, sessionID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get params for %s: %w", sessionID, err)
	}

	var p stroke.Params
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("failed to parse stored params for %s: %w", sessionID, err)
	}
	return &p, nil
}

// DeleteSession removes a session and, via cascade, its events and
// analytics. Deleting an absent session returns ErrNotFound.
func (db *DB) DeleteSession(id string) error {
	res, err := db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

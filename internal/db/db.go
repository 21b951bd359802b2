// Package db persists gait analysis sessions and their detected step events
// in sqlite. The schema is managed by golang-migrate; see the migrations/
// directory at the repository root.
package db

import (
	"compress/gzip"
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/tailscale/tailsql/server/tailsql"
	_ "modernc.org/sqlite"
	"tailscale.com/tsweb"
)

type DB struct {
	*sql.DB
}

// NewDB opens (or creates) the sqlite database at path. The schema itself is
// managed by migrations; NewDB only sets the connection pragmas.
func NewDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// WAL keeps reads open during analysis writes; foreign keys guard the
	// session/step relationship.
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	return &DB{sqlDB}, nil
}

// Session is one persisted analysis: the winning engine's metrics plus the
// recording parameters needed to interpret them.
type Session struct {
	SessionID       string    `json:"session_id"`
	CreatedAt       time.Time `json:"created_at"`
	Engine          string    `json:"engine"`
	SubjectHeightCm float64   `json:"subject_height_cm"`
	DurationSecs    float64   `json:"duration_secs"`
	FrameCount      int       `json:"frame_count"`

	StepCount             int     `json:"step_count"`
	CadencePerMin         int     `json:"cadence_per_min"`
	MeanStepIntervalSecs  float64 `json:"mean_step_interval_secs"`
	StepTimeVariabilityMs float64 `json:"step_time_variability_ms"`
	AvgBaseOfSupportCm    float64 `json:"avg_base_of_support_cm"`
	AvgHeelLiftCm         float64 `json:"avg_heel_lift_cm"`
}

// StepEvent is one accepted time-domain peak belonging to a session.
type StepEvent struct {
	SessionID string  `json:"session_id"`
	StepIndex int     `json:"step_index"`
	TimeSecs  float64 `json:"t_secs"`
	Value     float64 `json:"value"`
}

// RecordSession inserts a session and its step events in one transaction and
// returns the generated session ID.
func (db *DB) RecordSession(s Session, steps []StepEvent) (string, error) {
	if s.SessionID == "" {
		s.SessionID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin session insert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO gait_sessions (
			session_id, created_unix_nanos, engine, subject_height_cm,
			duration_secs, frame_count, step_count, cadence_per_min,
			mean_step_interval_secs, step_time_variability_ms,
			avg_base_of_support_cm, avg_heel_lift_cm
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.SessionID, s.CreatedAt.UnixNano(), s.Engine, s.SubjectHeightCm,
		s.DurationSecs, s.FrameCount, s.StepCount, s.CadencePerMin,
		s.MeanStepIntervalSecs, s.StepTimeVariabilityMs,
		s.AvgBaseOfSupportCm, s.AvgHeelLiftCm,
	)
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}

	for i, step := range steps {
		_, err = tx.Exec(`
			INSERT INTO gait_steps (session_id, step_index, time_secs, value)
			VALUES (?, ?, ?, ?)`,
			s.SessionID, i, step.TimeSecs, step.Value,
		)
		if err != nil {
			return "", fmt.Errorf("insert step %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit session insert: %w", err)
	}
	return s.SessionID, nil
}

// GetSession fetches one session by ID. Returns sql.ErrNoRows when absent.
func (db *DB) GetSession(sessionID string) (*Session, error) {
	row := db.QueryRow(`
		SELECT session_id, created_unix_nanos, engine, subject_height_cm,
		       duration_secs, frame_count, step_count, cadence_per_min,
		       mean_step_interval_secs, step_time_variability_ms,
		       avg_base_of_support_cm, avg_heel_lift_cm
		FROM gait_sessions WHERE session_id = ?`, sessionID)

	var s Session
	var createdNanos int64
	if err := row.Scan(
		&s.SessionID, &createdNanos, &s.Engine, &s.SubjectHeightCm, &s.DurationSecs,
		&s.FrameCount, &s.StepCount, &s.CadencePerMin, &s.MeanStepIntervalSecs,
		&s.StepTimeVariabilityMs, &s.AvgBaseOfSupportCm, &s.AvgHeelLiftCm,
	); err != nil {
		return nil, err
	}
	s.CreatedAt = time.Unix(0, createdNanos).UTC()
	return &s, nil
}

// ListSessions returns the most recent sessions, newest first.
func (db *DB) ListSessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(`
		SELECT session_id, created_unix_nanos, engine, subject_height_cm,
		       duration_secs, frame_count, step_count, cadence_per_min,
		       mean_step_interval_secs, step_time_variability_ms,
		       avg_base_of_support_cm, avg_heel_lift_cm
		FROM gait_sessions ORDER BY created_unix_nanos DESC, session_id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var createdNanos int64
		if err := rows.Scan(
			&s.SessionID, &createdNanos, &s.Engine, &s.SubjectHeightCm, &s.DurationSecs,
			&s.FrameCount, &s.StepCount, &s.CadencePerMin, &s.MeanStepIntervalSecs,
			&s.StepTimeVariabilityMs, &s.AvgBaseOfSupportCm, &s.AvgHeelLiftCm,
		); err != nil {
			return nil, err
		}
		s.CreatedAt = time.Unix(0, createdNanos).UTC()
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// GetSteps returns a session's step events in temporal order.
func (db *DB) GetSteps(sessionID string) ([]StepEvent, error) {
	rows, err := db.Query(`
		SELECT session_id, step_index, time_secs, value
		FROM gait_steps WHERE session_id = ? ORDER BY step_index`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []StepEvent
	for rows.Next() {
		var st StepEvent
		if err := rows.Scan(&st.SessionID, &st.StepIndex, &st.TimeSecs, &st.Value); err != nil {
			return nil, err
		}
		steps = append(steps, st)
	}
	return steps, rows.Err()
}

// AttachAdminRoutes mounts the tailsql live-query console and a backup
// download endpoint on the debug mux. These routes are for operators, not
// the API surface.
func (db *DB) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)
	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		log.Fatalf("failed to create tailsql server: %v", err)
	}
	tsql.SetDB("sqlite://gait.db", db.DB, &tailsql.DBOptions{
		Label: "Gait DB",
	})
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	debug.Handle("backup", "Create and download a backup of the database now", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backupPath := fmt.Sprintf("backup-%d.db", time.Now().Unix())
		if _, err := db.Exec("VACUUM INTO ?", backupPath); err != nil {
			http.Error(w, fmt.Sprintf("Failed to create backup: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", backupPath))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Encoding", "gzip")

		backupFile, err := os.Open(backupPath)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to open backup file: %v", err), http.StatusInternalServerError)
			return
		}
		defer func() {
			backupFile.Close()
			if err := os.Remove(backupPath); err != nil {
				log.Printf("Failed to remove backup file: %v", err)
			}
		}()

		gz := gzip.NewWriter(w)
		defer gz.Close()
		if _, err := io.Copy(gz, backupFile); err != nil {
			log.Printf("Failed to stream backup: %v", err)
		}
	}))
}

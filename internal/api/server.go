// Package api exposes the gait analysis engine over HTTP: analysis
// submission, stored session retrieval, and effective configuration.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/stride-data/gait.report/internal/config"
	"github.com/stride-data/gait.report/internal/db"
	"github.com/stride-data/gait.report/internal/gait"
	"github.com/stride-data/gait.report/internal/version"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	db     *db.DB
	tuning *config.TuningConfig

	mu   sync.Mutex
	last *gait.Result // most recent reconciled result, for the debug chart
}

func NewServer(database *db.DB, tuning *config.TuningConfig) *Server {
	return &Server{
		db:     database,
		tuning: tuning,
	}
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
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
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

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyses", s.handleAnalyses)
	mux.HandleFunc("/api/analyses/", s.getAnalysis)
	mux.HandleFunc("/api/config", s.showConfig)
	return mux
}

// LastResult returns the most recent reconciled analysis, or nil if none has
// been run since startup. Used by the debug chart route.
func (s *Server) LastResult() *gait.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleAnalyses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createAnalysis(w, r)
	case http.MethodGet:
		s.listAnalyses(w, r)
	default:
		w.Header().Set("Content-Type", "application/json")
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// AnalysisResponse is the wire shape returned for a completed analysis.
type AnalysisResponse struct {
	SessionID  string      `json:"session_id"`
	Result     gait.Result `json:"result"`
	Assessment Assessment  `json:"assessment"`
}

// analysisRequest is a recording plus an optional caller-supplied partial
// assessment; any bands the caller sets take precedence over the computed
// ones in the response.
type analysisRequest struct {
	gait.Recording
	Assessment Assessment `json:"assessment"`
}

func (s *Server) createAnalysis(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req analysisRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 32<<20))
	if err := dec.Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid recording body: %v", err))
		return
	}
	rec := req.Recording

	primary, secondary := s.tuning.EngineConfigs()
	start := time.Now()
	result, err := gait.AnalyzeAll(rec, primary, secondary)
	if err != nil {
		analysesFailed.Inc()
		if errors.Is(err, gait.ErrInvalidHeight) ||
			errors.Is(err, gait.ErrRecordingTooLong) ||
			errors.Is(err, gait.ErrOutOfOrderFrames) {
			s.writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Analysis failed: %v", err))
		return
	}
	analysesProcessed.Inc()
	analysisDuration.Observe(time.Since(start).Seconds())

	s.mu.Lock()
	s.last = &result
	s.mu.Unlock()

	session := db.Session{
		Engine:                result.Engine,
		SubjectHeightCm:       rec.SubjectHeightCm,
		DurationSecs:          rec.DurationSecs,
		FrameCount:            len(rec.Frames),
		StepCount:             result.Metrics.StepCount,
		CadencePerMin:         result.Metrics.CadencePerMin,
		MeanStepIntervalSecs:  result.Metrics.MeanStepIntervalSecs,
		StepTimeVariabilityMs: result.Metrics.StepTimeVariabilityMs,
		AvgBaseOfSupportCm:    result.Metrics.AvgBaseOfSupportCm,
		AvgHeelLiftCm:         result.Metrics.AvgHeelLiftCm,
	}
	steps := make([]db.StepEvent, len(result.Peaks))
	for i, p := range result.Peaks {
		steps[i] = db.StepEvent{StepIndex: i, TimeSecs: p.TimeSecs, Value: p.Value}
	}

	id, err := s.db.RecordSession(session, steps)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to store session: %v", err))
		return
	}

	resp := AnalysisResponse{
		SessionID:  id,
		Result:     result,
		Assessment: MergeAssessments(req.Assessment, Assess(result.Metrics, rec.DurationSecs)),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write analysis")
		return
	}
}

func (s *Server) listAnalyses(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	sessions, err := s.db.ListSessions(limit)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve sessions: %v", err))
		return
	}
	if sessions == nil {
		sessions = []db.Session{}
	}

	if err := json.NewEncoder(w).Encode(sessions); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write sessions")
		return
	}
}

func (s *Server) getAnalysis(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/analyses/")
	if id == "" || strings.Contains(id, "/") {
		s.writeJSONError(w, http.StatusBadRequest, "Invalid session id")
		return
	}

	session, err := s.db.GetSession(id)
	if err != nil {
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("Session not found: %v", err))
		return
	}
	steps, err := s.db.GetSteps(id)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve steps: %v", err))
		return
	}

	resp := struct {
		Session db.Session     `json:"session"`
		Steps   []db.StepEvent `json:"steps"`
	}{Session: *session, Steps: steps}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write session")
		return
	}
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	primary, secondary := s.tuning.EngineConfigs()
	cfg := map[string]interface{}{
		"engines":            []gait.Config{primary, secondary},
		"max_recording_secs": s.tuning.GetMaxRecordingSecs(),
		"version":            version.Version,
	}

	if err := json.NewEncoder(w).Encode(cfg); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write config")
		return
	}
}

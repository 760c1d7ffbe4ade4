// Package api exposes the accumulated session state and the analysis
// queries over a read-only HTTP JSON surface.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/pitwall-data/pitwall/internal/analysis"
	"github.com/pitwall-data/pitwall/internal/capture"
	"github.com/pitwall-data/pitwall/internal/livetiming"
)

// ANSI escape codes for request logging
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Server serves one ingested session. The analysis index is rebuilt per
// request: it is a read-only snapshot, so a fresh build is the only way a
// request observes events ingested since the last one.
type Server struct {
	session *livetiming.Session
	store   *capture.Store
}

// NewServer creates a server over an ingested session. store may be nil
// when no capture database is configured; the session-listing endpoint
// then reports an empty list.
func NewServer(session *livetiming.Session, store *capture.Store) *Server {
	return &Server{session: session, store: store}
}

// ServeMux returns the route table for the server.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/topics", s.listTopics)
	mux.HandleFunc("/api/state", s.showState)
	mux.HandleFunc("/api/laps", s.listLaps)
	mux.HandleFunc("/api/pit-events", s.listPitEvents)
	mux.HandleFunc("/api/position-changes", s.listPositionChanges)
	mux.HandleFunc("/api/stint-pace", s.showStintPace)
	mux.HandleFunc("/api/compare", s.compareDrivers)
	mux.HandleFunc("/api/undercut", s.showUndercutWindow)
	mux.HandleFunc("/api/rejoin", s.simulateRejoin)
	mux.HandleFunc("/api/resolve", s.resolveCursor)
	mux.HandleFunc("/api/sessions", s.listSessions)
	mux.HandleFunc("/report/pace", s.paceReport)
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

// LoggingMiddleware logs method, path, status, and duration
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

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// index rebuilds the analysis snapshot for this request.
func (s *Server) index() *analysis.Index {
	return analysis.BuildIndex(s.session)
}

// requireGet guards the read-only endpoints.
func (s *Server) requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

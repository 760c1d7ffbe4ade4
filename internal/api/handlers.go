package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/pitwall-data/pitwall/internal/analysis"
	"github.com/pitwall-data/pitwall/internal/report"
)

func (s *Server) listTopics(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	s.writeJSON(w, map[string]any{
		"kind":   s.session.Kind,
		"topics": s.session.Topics(),
		"events": s.session.EventCount(),
	})
}

func (s *Server) showState(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		s.writeJSONError(w, http.StatusBadRequest, "Missing 'topic' parameter")
		return
	}
	state := s.session.Latest(topic)
	if state == nil {
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("No state for topic %q", topic))
		return
	}
	s.writeJSON(w, state)
}

func (s *Server) listLaps(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	idx := s.index()
	if driver := r.URL.Query().Get("driver"); driver != "" {
		s.writeJSON(w, idx.Records(driver))
		return
	}
	all := make(map[string][]analysis.LapRecord)
	for _, driver := range idx.Drivers() {
		all[driver] = idx.Records(driver)
	}
	s.writeJSON(w, all)
}

func (s *Server) listPitEvents(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	s.writeJSON(w, s.index().PitEvents())
}

func (s *Server) listPositionChanges(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	s.writeJSON(w, s.index().PositionChanges())
}

func (s *Server) showStintPace(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	driver := r.URL.Query().Get("driver")
	if driver == "" {
		s.writeJSONError(w, http.StatusBadRequest, "Missing 'driver' parameter")
		return
	}
	s.writeJSON(w, s.index().GetStintPace(driver))
}

func (s *Server) compareDrivers(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	driverA := r.URL.Query().Get("driver_a")
	driverB := r.URL.Query().Get("driver_b")
	if driverA == "" || driverB == "" {
		s.writeJSONError(w, http.StatusBadRequest, "Missing 'driver_a' or 'driver_b' parameter")
		return
	}
	s.writeJSON(w, s.index().CompareDrivers(driverA, driverB))
}

func (s *Server) showUndercutWindow(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	driverA := r.URL.Query().Get("driver_a")
	driverB := r.URL.Query().Get("driver_b")
	if driverA == "" || driverB == "" {
		s.writeJSONError(w, http.StatusBadRequest, "Missing 'driver_a' or 'driver_b' parameter")
		return
	}
	pitLoss, ok := s.pitLossParam(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, s.index().GetUndercutWindow(driverA, driverB, pitLoss))
}

func (s *Server) simulateRejoin(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	driver := r.URL.Query().Get("driver")
	if driver == "" {
		s.writeJSONError(w, http.StatusBadRequest, "Missing 'driver' parameter")
		return
	}
	pitLoss, ok := s.pitLossParam(w, r)
	if !ok {
		return
	}
	cursor := analysis.ParseCursor(r.URL.Query().Get("as_of"))
	s.writeJSON(w, s.index().SimulateRejoin(driver, pitLoss, cursor))
}

func (s *Server) resolveCursor(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	cursor := analysis.ParseCursor(r.URL.Query().Get("cursor"))
	s.writeJSON(w, s.index().ResolveAsOf(cursor))
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	if s.store == nil {
		s.writeJSON(w, []any{})
		return
	}
	sessions, err := s.store.Sessions()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to list sessions: %v", err))
		return
	}
	s.writeJSON(w, sessions)
}

func (s *Server) paceReport(w http.ResponseWriter, r *http.Request) {
	if !s.requireGet(w, r) {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.Render(w, s.session); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to render report: %v", err))
	}
}

// pitLossParam parses the pit_loss_ms query parameter, defaulting to zero.
func (s *Server) pitLossParam(w http.ResponseWriter, r *http.Request) (float64, bool) {
	raw := r.URL.Query().Get("pit_loss_ms")
	if raw == "" {
		return 0, true
	}
	pitLoss, err := strconv.ParseFloat(raw, 64)
	if err != nil || pitLoss < 0 {
		s.writeJSONError(w, http.StatusBadRequest, "Invalid 'pit_loss_ms' parameter")
		return 0, false
	}
	return pitLoss, true
}

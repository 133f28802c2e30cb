package handler

import (
	"net/http"
	"strings"
	"time"

	"c4analytics/internal/gateway/repository/snapshot"
	"c4analytics/internal/util/jsonutil"
)

// HandleReport recomputes and returns the full analytics report for the
// caller's session.
func (s *Service) HandleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	state := s.sessions.Get(sessionID(r))
	writeJSON(w, http.StatusOK, state.Report())
}

// HandleElements returns the scored element grid without the critical
// join, for the elements table view.
func (s *Service) HandleElements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	state := s.sessions.Get(sessionID(r))
	rep := state.Report()
	writeJSON(w, http.StatusOK, map[string]any{
		"elements":             rep.Elements,
		"overall_completeness": rep.OverallCompleteness,
		"loaded_at":            state.SourceLoadedAt,
	})
}

// HandleReportSnapshot stores the current report in the snapshot archive
// and returns its key.
func (s *Service) HandleReportSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.snapshots == nil {
		writeError(w, http.StatusNotImplemented, "snapshot store is not configured")
		return
	}
	id := sessionID(r)
	state := s.sessions.Get(id)

	payload, err := jsonutil.MarshalNoEscape(state.Report())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	key := snapshot.Key("report", id, time.Now().UTC())
	if err := s.snapshots.Put(r.Context(), key, "application/json", payload); err != nil {
		writeError(w, http.StatusBadGateway, "store snapshot: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key})
}

// HandleSnapshots lists stored snapshot keys, optionally filtered by
// prefix ("csv/", "report/", or a session-scoped prefix).
func (s *Service) HandleSnapshots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.snapshots == nil {
		writeError(w, http.StatusNotImplemented, "snapshot store is not configured")
		return
	}
	prefix := strings.TrimSpace(r.URL.Query().Get("prefix"))
	keys, err := s.snapshots.List(r.Context(), prefix)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"keys": keys})
}

package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"c4analytics/internal/gateway/repository/settingsstore"
	"c4analytics/internal/gateway/repository/snapshot"
	"c4analytics/internal/gateway/session"
	"c4analytics/internal/gitlab"
	"c4analytics/internal/safeio"
)

// Service holds every dependency the dashboard endpoints need. All
// endpoints are plain JSON over HTTP and recompute the report from
// session state on each call.
type Service struct {
	sessions  *session.Store
	gitlab    *gitlab.Client
	localRoot *safeio.Root // nil unless the local-source mode is enabled
	settings  *settingsstore.Store
	snapshots snapshot.Store
	hub       *Hub
}

func NewService(
	sessions *session.Store,
	gl *gitlab.Client,
	localRoot *safeio.Root,
	settings *settingsstore.Store,
	snapshots snapshot.Store,
) *Service {
	return &Service{
		sessions:  sessions,
		gitlab:    gl,
		localRoot: localRoot,
		settings:  settings,
		snapshots: snapshots,
		hub:       NewHub(),
	}
}

// sessionID resolves the caller's session: the X-Session-Id header, the
// "session" query parameter, or the shared default session.
func sessionID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get("X-Session-Id")); id != "" {
		return id
	}
	if id := strings.TrimSpace(r.URL.Query().Get("session")); id != "" {
		return id
	}
	return session.DefaultID
}

// decodeBody decodes a JSON request body; an empty body leaves v at its
// zero value so endpoints can fall back to session defaults.
func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

// broadcast pushes the session's freshly recomputed report to any watch
// connections after a mutating action.
func (s *Service) broadcast(id string) {
	state := s.sessions.Get(id)
	s.hub.Publish(id, state.Report())
}

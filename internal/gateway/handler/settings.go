package handler

import (
	"log"
	"net/http"
	"strings"

	"c4analytics/internal/gateway/repository/settingsstore"
	"c4analytics/internal/gateway/session"
)

type settingsPayload struct {
	ProjectID string `json:"project_id"`
	FilePath  string `json:"file_path"`
	Branch    string `json:"branch"`
	// Pointer so a PUT that omits the field leaves the threshold alone;
	// an explicit 0 is a valid configuration.
	MinLinksRequired *int `json:"min_links_required"`
	// Persist writes the (non-secret) settings through to the durable
	// store so they survive a restart.
	Persist bool `json:"persist,omitempty"`
}

func settingsView(state session.State) settingsPayload {
	min := state.Scoring.MinLinksRequired
	return settingsPayload{
		ProjectID:        state.Source.ProjectID,
		FilePath:         state.Source.FilePath,
		Branch:           state.Source.Branch,
		MinLinksRequired: &min,
	}
}

// HandleSettings serves the session configuration surface:
// GET returns it, PUT updates it, DELETE resets it to defaults and
// clears the durable copy.
func (s *Service) HandleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getSettings(w, r)
	case http.MethodPut:
		s.putSettings(w, r)
	case http.MethodDelete:
		s.clearSettings(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Service) getSettings(w http.ResponseWriter, r *http.Request) {
	state := s.sessions.Get(sessionID(r))
	writeJSON(w, http.StatusOK, settingsView(state))
}

func (s *Service) putSettings(w http.ResponseWriter, r *http.Request) {
	var in settingsPayload
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if in.MinLinksRequired != nil && *in.MinLinksRequired < 0 {
		writeError(w, http.StatusBadRequest, "min_links_required must be >= 0")
		return
	}

	id := sessionID(r)
	state := s.sessions.Update(id, func(state *session.State) {
		if v := strings.TrimSpace(in.ProjectID); v != "" {
			state.Source.ProjectID = v
		}
		if v := strings.TrimSpace(in.FilePath); v != "" {
			state.Source.FilePath = v
		}
		if v := strings.TrimSpace(in.Branch); v != "" {
			state.Source.Branch = v
		}
		if in.MinLinksRequired != nil {
			state.Scoring.MinLinksRequired = *in.MinLinksRequired
		}
	})
	s.broadcast(id)

	if in.Persist {
		err := s.settings.Save(settingsstore.Saved{
			ProjectID: state.Source.ProjectID,
			FilePath:  state.Source.FilePath,
			Branch:    state.Source.Branch,
			MinLinks:  state.Scoring.MinLinksRequired,
		})
		if err != nil {
			log.Printf("persist settings: %v", err)
			writeError(w, http.StatusInternalServerError, "settings applied but not persisted")
			return
		}
	}

	writeJSON(w, http.StatusOK, settingsView(state))
}

func (s *Service) clearSettings(w http.ResponseWriter, r *http.Request) {
	if err := s.settings.Clear(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	id := sessionID(r)
	defaults := s.sessions.Defaults()
	s.sessions.Update(id, func(state *session.State) {
		state.Source = defaults.Source
		state.Scoring = defaults.Scoring
	})
	s.broadcast(id)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

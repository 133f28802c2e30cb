package handler

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"c4analytics/internal/csvsource"
	"c4analytics/internal/gateway/repository/snapshot"
	"c4analytics/internal/gateway/session"
)

const maxCSVBytes = 8 << 20

type criticalResponse struct {
	Rows        int       `json:"rows"`
	MissingURL  int       `json:"missing_url"`
	SkippedRows int       `json:"skipped_rows"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// HandleCriticalUpload replaces the session's critical-repository rows
// with the uploaded CSV. The raw upload is archived as a snapshot so a
// re-upload never silently loses the previous list.
func (s *Service) HandleCriticalUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxCSVBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}

	res, err := csvsource.Parse(bytes.NewReader(raw))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := sessionID(r)
	now := time.Now().UTC()
	s.sessions.Update(id, func(state *session.State) {
		state.Critical = res.Entries
		state.CriticalMissingURL = res.MissingURL
		state.CriticalUploadedAt = now
	})
	s.broadcast(id)

	if s.snapshots != nil {
		key := snapshot.Key("csv", id, now)
		if err := s.snapshots.Put(context.WithoutCancel(r.Context()), key, "text/csv", raw); err != nil {
			log.Printf("snapshot csv upload: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, criticalResponse{
		Rows:        len(res.Entries),
		MissingURL:  res.MissingURL,
		SkippedRows: res.SkippedRows,
		UploadedAt:  now,
	})
}

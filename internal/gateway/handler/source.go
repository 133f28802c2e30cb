package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"c4analytics/internal/c4"
	"c4analytics/internal/gateway/session"
	"c4analytics/internal/gitlab"
)

// maxDocumentBytes bounds uploaded documents; real likec4 exports are a
// few hundred KB.
const maxDocumentBytes = 16 << 20

type fetchRequest struct {
	// Either a direct URL, a local path (when the local root is
	// configured), or project coordinates. Blank coordinates fall back
	// to the session's source settings.
	URL       string `json:"url,omitempty"`
	LocalPath string `json:"local_path,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
	FilePath  string `json:"file_path,omitempty"`
	Branch    string `json:"branch,omitempty"`
	// Reload bypasses the fetch cache.
	Reload bool `json:"reload,omitempty"`
}

type sourceResponse struct {
	Elements     int       `json:"elements"`
	DroppedKinds int       `json:"dropped_kinds"`
	LoadedAt     time.Time `json:"loaded_at"`
}

// HandleSourceFetch loads the likec4 document from GitLab (or a direct
// URL, or the local root) and replaces the session's element set.
func (s *Service) HandleSourceFetch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req fetchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	id := sessionID(r)
	state := s.sessions.Get(id)

	if req.Reload {
		s.gitlab.Invalidate()
	}

	doc, err := s.loadDocument(r, req, state)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, gitlab.ErrAuth):
			status = http.StatusUnauthorized
		case errors.Is(err, errBadSourceRequest):
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	s.applyDocument(w, id, req, doc)
}

// HandleSourceUpload accepts a likec4 JSON document as the request body,
// mirroring the "upload local file" path of the dashboard.
func (s *Service) HandleSourceUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	doc, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	s.applyDocument(w, sessionID(r), fetchRequest{}, doc)
}

var errBadSourceRequest = errors.New("either url, local_path or project coordinates are required")

func (s *Service) loadDocument(r *http.Request, req fetchRequest, state session.State) ([]byte, error) {
	switch {
	case strings.TrimSpace(req.URL) != "":
		return s.gitlab.FetchURL(r.Context(), req.URL)
	case strings.TrimSpace(req.LocalPath) != "":
		if s.localRoot == nil {
			return nil, errors.New("local source mode is not enabled (set C4_LOCAL_ROOT)")
		}
		return s.localRoot.ReadFile(req.LocalPath)
	default:
		project := firstNonBlank(req.ProjectID, state.Source.ProjectID)
		path := firstNonBlank(req.FilePath, state.Source.FilePath)
		branch := firstNonBlank(req.Branch, state.Source.Branch)
		if project == "" || path == "" {
			return nil, errBadSourceRequest
		}
		return s.gitlab.FetchProjectFile(r.Context(), project, path, branch)
	}
}

func (s *Service) applyDocument(w http.ResponseWriter, id string, req fetchRequest, doc []byte) {
	res, err := c4.Extract(doc, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	s.sessions.Update(id, func(state *session.State) {
		state.Elements = res.Elements
		state.SourceLoadedAt = now
		if p := strings.TrimSpace(req.ProjectID); p != "" {
			state.Source.ProjectID = p
		}
		if p := strings.TrimSpace(req.FilePath); p != "" {
			state.Source.FilePath = p
		}
		if b := strings.TrimSpace(req.Branch); b != "" {
			state.Source.Branch = b
		}
	})
	s.broadcast(id)

	writeJSON(w, http.StatusOK, sourceResponse{
		Elements:     len(res.Elements),
		DroppedKinds: res.DroppedKinds,
		LoadedAt:     now,
	})
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

package session

import (
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"c4analytics/internal/c4"
	"c4analytics/internal/csvsource"
	"c4analytics/internal/report"
)

// DefaultID is used when a client does not send a session id; the
// dashboard is effectively single-session in that mode.
const DefaultID = "default"

const (
	maxSessions = 256
	sessionTTL  = 30 * time.Minute
)

// SourceSettings points a session at its likec4 document.
type SourceSettings struct {
	ProjectID string `json:"project_id"`
	FilePath  string `json:"file_path"`
	Branch    string `json:"branch"`
}

// State is everything one session holds: the current element set, the
// current critical-repository rows, and the computation settings. The
// element and entry slices are replaced wholesale on reload/re-upload,
// never mutated in place.
type State struct {
	Elements       []c4.Element
	SourceLoadedAt time.Time

	Critical           []csvsource.Entry
	CriticalMissingURL int
	CriticalUploadedAt time.Time

	Scoring report.Settings
	Source  SourceSettings
}

// Report recomputes the full analytics payload from the session inputs.
func (s State) Report() report.Report {
	return report.Build(s.Elements, s.Critical, s.Scoring)
}

// Store keeps session state in an expirable LRU: idle sessions age out,
// and a runaway client cannot grow memory without bound. Each session is
// owned by one client; the store itself is safe for concurrent handlers.
type Store struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *State]
	defaults State
}

// NewStore builds a session store whose new sessions start from the
// given defaults (source coordinates and scoring settings from config).
func NewStore(defaults State) *Store {
	return &Store{
		sessions: expirable.NewLRU[string, *State](maxSessions, nil, sessionTTL),
		defaults: defaults,
	}
}

// Defaults returns the state new sessions start from.
func (st *Store) Defaults() State {
	return st.defaults
}

// Get returns a copy of the session's state, creating the session from
// defaults when it does not exist yet.
func (st *Store) Get(id string) State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return *st.lookupLocked(id)
}

// Update applies fn to the session's state under the store lock and
// returns the resulting copy.
func (st *Store) Update(id string, fn func(*State)) State {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := st.lookupLocked(id)
	fn(s)
	return *s
}

func (st *Store) lookupLocked(id string) *State {
	id = normalizeID(id)
	if s, ok := st.sessions.Get(id); ok {
		return s
	}
	s := st.defaults
	st.sessions.Add(id, &s)
	return &s
}

func normalizeID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return DefaultID
	}
	return id
}

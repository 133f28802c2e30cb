// Package settingsstore persists the non-secret dashboard settings
// (source coordinates and the in-order threshold) across restarts.
// The GitLab token is deliberately never written anywhere.
//
// The default backend is a JSON file; when SETTINGS_PG_DSN is set the
// store runs against Postgres instead, so several dashboard instances
// can share one configuration.
package settingsstore

import (
	"database/sql"
	"log"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Saved is the durable settings record.
type Saved struct {
	ProjectID string    `json:"project_id"`
	FilePath  string    `json:"file_path"`
	Branch    string    `json:"branch"`
	MinLinks  int       `json:"min_links_required"`
	SavedAt   time.Time `json:"last_saved"`
}

type Store struct {
	path string
	db   *sql.DB

	mu sync.Mutex

	schemaOnce sync.Once
	schemaErr  error
}

// New builds a file-backed store.
func New(path string) *Store {
	return &Store{path: path}
}

// NewPostgres builds a Postgres-backed store.
func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Open prefers Postgres when a DSN is configured and reachable, falling
// back to the file backend.
func Open(dsn, path string) *Store {
	if strings.TrimSpace(dsn) == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		log.Printf("settings store: falling back to file (%v)", err)
		return New(path)
	}
	return s
}

// Load returns the saved settings, reporting ok=false when nothing has
// been saved yet.
func (s *Store) Load() (Saved, bool, error) {
	if s == nil {
		return Saved{}, false, nil
	}
	if s.db != nil {
		return s.loadDB()
	}
	return s.loadFile()
}

// Save replaces the saved settings.
func (s *Store) Save(v Saved) error {
	if s == nil {
		return nil
	}
	v.SavedAt = time.Now().UTC()
	if s.db != nil {
		return s.saveDB(v)
	}
	return s.saveFile(v)
}

// Clear removes the saved settings; clearing an empty store is not an
// error.
func (s *Store) Clear() error {
	if s == nil {
		return nil
	}
	if s.db != nil {
		return s.clearDB()
	}
	return s.clearFile()
}

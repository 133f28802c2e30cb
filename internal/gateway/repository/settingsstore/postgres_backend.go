package settingsstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// One row holds the whole settings payload; the table exists so several
// gateway instances behind a balancer agree on configuration.
const schema = `
CREATE TABLE IF NOT EXISTS c4_dashboard_settings (
	id         INT PRIMARY KEY,
	payload    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func (s *Store) ensureSchema() error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(schema)
	})
	return s.schemaErr
}

func (s *Store) loadDB() (Saved, bool, error) {
	if err := s.ensureSchema(); err != nil {
		return Saved{}, false, fmt.Errorf("settings schema: %w", err)
	}
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM c4_dashboard_settings WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Saved{}, false, nil
	}
	if err != nil {
		return Saved{}, false, fmt.Errorf("load settings: %w", err)
	}
	var v Saved
	if err := json.Unmarshal(payload, &v); err != nil {
		return Saved{}, false, fmt.Errorf("parse settings payload: %w", err)
	}
	return v, true, nil
}

func (s *Store) saveDB(v Saved) error {
	if err := s.ensureSchema(); err != nil {
		return fmt.Errorf("settings schema: %w", err)
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO c4_dashboard_settings (id, payload, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		payload)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (s *Store) clearDB() error {
	if err := s.ensureSchema(); err != nil {
		return fmt.Errorf("settings schema: %w", err)
	}
	_, err := s.db.Exec(`DELETE FROM c4_dashboard_settings WHERE id = 1`)
	return err
}

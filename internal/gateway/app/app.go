package app

import (
	"context"
	"fmt"
	"log"

	"c4analytics/internal/gateway/config"
	"c4analytics/internal/gateway/handler"
	"c4analytics/internal/gateway/repository/settingsstore"
	"c4analytics/internal/gateway/server"
	"c4analytics/internal/gateway/session"
	"c4analytics/internal/gitlab"
	"c4analytics/internal/report"
	"c4analytics/internal/safeio"
)

type App struct {
	server *server.Server
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Dependencies
	settingsStore := settingsstore.Open(cfg.SettingsDSN, cfg.SettingsPath)
	sessions := session.NewStore(sessionDefaults(cfg, settingsStore))
	gitlabClient := gitlab.New(cfg.GitLab.BaseURL, cfg.GitLab.Token)
	snapshotStore := initSnapshotStore(cfg)

	var localRoot *safeio.Root
	if cfg.Source.LocalRoot != "" {
		localRoot, err = safeio.NewRoot(cfg.Source.LocalRoot)
		if err != nil {
			return nil, fmt.Errorf("local source root: %w", err)
		}
		log.Printf("local source mode: reading under %s", localRoot.Dir())
	}

	svc := handler.NewService(sessions, gitlabClient, localRoot, settingsStore, snapshotStore)

	// Routing & Server
	mux := server.NewMux(svc)
	srv := server.New(cfg.Port, mux)

	return &App{
		server: srv,
	}, nil
}

// sessionDefaults seeds new sessions from config, preferring the durable
// settings saved by a previous run.
func sessionDefaults(cfg *config.Config, store *settingsstore.Store) session.State {
	defaults := session.State{
		Scoring: report.Settings{MinLinksRequired: cfg.MinLinks},
		Source: session.SourceSettings{
			ProjectID: cfg.Source.ProjectID,
			FilePath:  cfg.Source.FilePath,
			Branch:    cfg.Source.Branch,
		},
	}
	saved, ok, err := store.Load()
	if err != nil {
		log.Printf("load saved settings: %v", err)
		return defaults
	}
	if !ok {
		return defaults
	}
	if saved.ProjectID != "" {
		defaults.Source.ProjectID = saved.ProjectID
	}
	if saved.FilePath != "" {
		defaults.Source.FilePath = saved.FilePath
	}
	if saved.Branch != "" {
		defaults.Source.Branch = saved.Branch
	}
	// 0 is a valid saved threshold; only a hand-edited negative is ignored.
	if saved.MinLinks >= 0 {
		defaults.Scoring.MinLinksRequired = saved.MinLinks
	}
	return defaults
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// Package app initializes and orchestrates the main components of the MR-Warden application.
// It wires together the configuration, server, and other services.
package app

import (
	"context"
	"log/slog"

	"github.com/sevigo/mr-warden/internal/config"
	"github.com/sevigo/mr-warden/internal/core"
	"github.com/sevigo/mr-warden/internal/gitlab"
	"github.com/sevigo/mr-warden/internal/repomanager"
	"github.com/sevigo/mr-warden/internal/review"
	"github.com/sevigo/mr-warden/internal/server"
)

// App holds the main application components.
type App struct {
	ctx        context.Context
	cfg        *config.Config
	server     *server.Server
	logger     *slog.Logger
	dispatcher core.JobDispatcher
	engine     *review.Engine
	snapshots  *repomanager.Manager
	client     gitlab.Client
}

// NewApp sets up the application with all its dependencies.
func NewApp(
	ctx context.Context,
	cfg *config.Config,
	srv *server.Server,
	dispatcher core.JobDispatcher,
	engine *review.Engine,
	snapshots *repomanager.Manager,
	client gitlab.Client,
	logger *slog.Logger,
) *App {
	logger.Info("MR-Warden application initialized",
		"gitlab_url", cfg.GitLab.URL,
		"generator", cfg.Generator.Provider,
		"snapshot_source", cfg.Review.SnapshotSource,
		"max_workers", cfg.MaxWorkers,
		"max_fetch_workers", cfg.Review.MaxFetchWorkers)

	return &App{
		ctx:        ctx,
		cfg:        cfg,
		server:     srv,
		logger:     logger,
		dispatcher: dispatcher,
		engine:     engine,
		snapshots:  snapshots,
		client:     client,
	}
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config { return a.cfg }

// Engine is the review engine used by the workers.
func (a *App) Engine() *review.Engine { return a.engine }

// Snapshots is the snapshot cache.
func (a *App) Snapshots() *repomanager.Manager { return a.snapshots }

// GitLab is the host client.
func (a *App) GitLab() gitlab.Client { return a.client }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Start runs the HTTP server.
func (a *App) Start() error {
	a.logger.Info("starting MR-Warden", "server_port", a.cfg.Server.Port)

	if err := a.server.Start(); err != nil {
		a.logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// Stop shuts down the application cleanly.
func (a *App) Stop() error {
	a.logger.Info("shutting down MR-Warden services")

	// Stop the HTTP server first to prevent new incoming requests.
	serverErr := a.server.Stop()
	if serverErr != nil {
		a.logger.Error("error during HTTP server shutdown", "error", serverErr)
	}

	// Let queued and in-flight reviews finish.
	a.dispatcher.Stop()

	if serverErr != nil {
		a.logger.Error("MR-Warden stopped with errors", "error", serverErr)
		return serverErr
	}

	a.logger.Info("MR-Warden stopped successfully")
	return nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vredchenko/cscs-card-audio-revision/internal/content"
	"github.com/vredchenko/cscs-card-audio-revision/internal/domain/question"
	"github.com/vredchenko/cscs-card-audio-revision/internal/infrastructure/config"
	"github.com/vredchenko/cscs-card-audio-revision/internal/revision"
	"github.com/vredchenko/cscs-card-audio-revision/internal/store"
)

// env bundles the dependencies shared by the serve and simulate commands.
type env struct {
	bank      *question.Bank
	store     *store.Store
	scheduler *revision.Scheduler
	logger    *slog.Logger
}

// loadConfig reads the environment config and applies flag overrides.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if p, _ := cmd.Flags().GetString("content"); p != "" {
		cfg.ContentPath = p
	}
	return cfg
}

// buildEnv loads the question bank and opens the statistics store. A bank
// that fails to load is fatal; a store that fails to initialize is not —
// the scheduler degrades to default ordering and every attempt to persist
// is logged instead.
func buildEnv(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*env, error) {
	bank, err := content.Load(cfg.ContentPath)
	if err != nil {
		return nil, fmt.Errorf("load question bank %s: %w", cfg.ContentPath, err)
	}

	st := store.New(cfg.DBPath)
	if err := st.Init(ctx); err != nil {
		logger.Warn("statistics store unavailable, running without persistence",
			"path", cfg.DBPath, "error", err)
	}

	return &env{
		bank:      bank,
		store:     st,
		scheduler: revision.NewScheduler(st, logger),
		logger:    logger,
	}, nil
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		e.logger.Error("closing store", "error", err)
	}
}

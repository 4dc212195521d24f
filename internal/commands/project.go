package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bankflow/internal/accounts"
	"github.com/cleared-dev/bankflow/internal/config"
	"github.com/cleared-dev/bankflow/internal/logger"
	"github.com/cleared-dev/bankflow/internal/rules"
	"github.com/cleared-dev/bankflow/internal/store"
	"github.com/cleared-dev/bankflow/internal/ui"
)

// project is an opened bankflow project directory.
type project struct {
	root  string
	cfg   *config.Config
	chart *accounts.Service
	ctx   context.Context
	out   *ui.Printer
}

func openProject(cmd *cobra.Command, repoDir string) (*project, error) {
	root, err := filepath.Abs(repoDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.LoadDir(root)
	if err != nil {
		return nil, fmt.Errorf("not a bankflow project (run bankflow init): %w", err)
	}
	chart, err := accounts.LoadOrDefault(root)
	if err != nil {
		return nil, err
	}

	level, format := cfg.Log.Level, cfg.Log.Format
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		level = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		format = v
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithContext(ctx, logger.New(level, format))

	return &project{
		root:  root,
		cfg:   cfg,
		chart: chart,
		ctx:   ctx,
		out:   ui.New(cmd.OutOrStdout()),
	}, nil
}

// ruleRepository opens the configured rule store. The close func is never nil.
func (p *project) ruleRepository() (*rules.Repository, func() error, error) {
	path := p.cfg.RulePath(p.root)
	if p.cfg.Rules.Store == store.KindSQLite && filepath.Ext(path) == "" {
		path = filepath.Join(path, "rules.db")
	}
	s, closeFn, err := store.Open(p.cfg.Rules.Store, path)
	if err != nil {
		return nil, closeFn, fmt.Errorf("opening rule store: %w", err)
	}
	return rules.NewRepository(s), closeFn, nil
}

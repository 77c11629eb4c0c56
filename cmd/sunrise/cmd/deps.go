package cmd

import (
	"fmt"

	"github.com/sunrise-cli/sunrise/internal/config"
	"github.com/sunrise-cli/sunrise/internal/core/agent"
	"github.com/sunrise-cli/sunrise/internal/core/template"
)

// deps holds shared dependencies for CLI commands.
type deps struct {
	config   *config.Manager
	cfg      *config.Config
	registry *agent.Registry
	resolver *template.Resolver
}

// newDeps loads the user config and builds the registry and resolver from
// it. Called lazily by commands that need them.
func newDeps() (*deps, error) {
	manager, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("initializing config: %w", err)
	}
	cfg, err := manager.Load()
	if err != nil {
		return nil, err
	}

	registry, err := agent.Builtin(cfg.Agents...)
	if err != nil {
		return nil, err
	}

	fetcher := &template.GitFetcher{CloneURLOverrides: cfg.CloneURLOverrides}
	return &deps{
		config:   manager,
		cfg:      cfg,
		registry: registry,
		resolver: template.NewResolver(fetcher, cfg.Timeout()),
	}, nil
}

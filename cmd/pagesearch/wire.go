package main

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pagesearch/internal/adapters/driven/config"
	"github.com/custodia-labs/pagesearch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pagesearch/internal/adapters/driven/content/filesystem"
	"github.com/custodia-labs/pagesearch/internal/adapters/driven/index/bleve"
	"github.com/custodia-labs/pagesearch/internal/adapters/driven/index/sqlite"
	"github.com/custodia-labs/pagesearch/internal/adapters/driven/render"
	"github.com/custodia-labs/pagesearch/internal/adapters/driving/cli"
	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/core/services"
	"github.com/custodia-labs/pagesearch/internal/logger"
)

// newServices loads the configuration at path and wires the services.
func newServices(_ context.Context, path string) (*cli.Services, error) {
	var (
		store *file.ConfigStore
		err   error
	)
	if path == "" {
		store, err = file.NewConfigStore("")
	} else {
		store, err = file.Open(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load configuration: %w", domain.ErrConfiguration, err)
	}

	settings, err := config.LoadSettings(store)
	if err != nil {
		return nil, err
	}
	logger.Debug("Configuration: %s", store.Path())

	engine, err := newEngine(settings)
	if err != nil {
		return nil, err
	}

	repo := filesystem.New(settings.ContentDir, settings.Languages)
	env := services.NewEnvironment(repo, settings)
	renderer := render.New(settings.TemplatesDir)

	hooks := services.NewHooks()
	hooks.OnQuery(services.CollectHits)

	return &cli.Services{
		Search:   services.NewSearchService(env, engine, hooks),
		Index:    services.NewIndexService(env, engine, renderer, hooks),
		Config:   store,
		Settings: settings,
		Content:  repo,
	}, nil
}

// newEngine selects the index engine for the configured driver.
func newEngine(settings domain.Settings) (driven.IndexEngine, error) {
	switch settings.Driver {
	case domain.DriverSQLite:
		return sqlite.NewEngine(settings.DataDir)
	case domain.DriverBleve:
		return bleve.NewEngine(settings.DataDir)
	default:
		return nil, fmt.Errorf("%w: driver %q", domain.ErrUnsupportedType, settings.Driver)
	}
}

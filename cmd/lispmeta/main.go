// Command lispmeta extracts and searches metadata in Lisp source headers.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/lispmeta/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lispmeta/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/lispmeta/internal/adapters/driving/cli"
	"github.com/custodia-labs/lispmeta/internal/core/services"
	"github.com/custodia-labs/lispmeta/internal/importer"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(wire)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// wire builds the services over the TOML config and the SQLite index.
func wire(opts cli.Options) (*cli.Services, func() error, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening config: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("reading settings: %w", err)
	}

	store, err := sqlite.NewStore(opts.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening index: %w", err)
	}

	registry := services.NewImporterRegistry(importer.New(importer.FromSettings(settings.Import)...))
	importService := services.NewImportService(registry, store)

	return &cli.Services{
		Import:   importService,
		Index:    services.NewIndexService(importService, store, settings.Index),
		Watch:    services.NewWatcher(importService, store),
		Search:   services.NewSearchService(store),
		Settings: settingsService,
	}, store.Close, nil
}

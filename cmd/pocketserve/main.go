// Command pocketserve shares a folder over the local network while its
// screen is open.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/custodia-labs/pocketserve/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pocketserve/internal/adapters/driven/metrics"
	"github.com/custodia-labs/pocketserve/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pocketserve/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pocketserve/internal/adapters/driving/cli"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driven"
	"github.com/custodia-labs/pocketserve/internal/core/services"
	"github.com/custodia-labs/pocketserve/internal/logger"
)

// version is overridden with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	dataDir, err := file.DefaultDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	configStore, err := file.NewConfigStore(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	settingsService := services.NewSettingsService(configStore)

	// Invalid settings are reported by the command that needs them, so
	// history falls back to the in-memory store here.
	var store driven.SessionStore = memory.NewSessionStore()
	retain := 0
	if settings, err := settingsService.Get(); err == nil && settings.History.Enabled {
		db, err := sqlite.NewStore(filepath.Join(dataDir, "data"))
		if err != nil {
			logger.Warn("history: %v, keeping this session in memory", err)
		} else {
			defer db.Close()
			store = db.SessionStore()
			retain = settings.History.Retain
		}
	}

	history := services.NewHistoryService(store)
	if err := history.Prune(context.Background(), retain); err != nil {
		logger.Warn("history: prune failed: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	cli.SetVersion(version)
	cli.SetRuntime(&cli.Runtime{
		DataDir:  dataDir,
		Settings: settingsService,
		History:  history,
		Watcher:  file.NewWatcher(configStore),
		Store:    store,
		Metrics:  metrics.NewRecorder(reg),
		Gatherer: reg,
		NewID:    uuid.NewString,
	})

	return cli.Execute()
}

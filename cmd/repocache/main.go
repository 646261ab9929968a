// Command repocache keeps a live cache of repository sources.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/repocache/internal/adapters/driven/config/file"
	"github.com/custodia-labs/repocache/internal/adapters/driven/fetch/httpfetch"
	"github.com/custodia-labs/repocache/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/repocache/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/repocache/internal/adapters/driving/cli"
	"github.com/custodia-labs/repocache/internal/core/ports/driven"
	"github.com/custodia-labs/repocache/internal/core/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// stores are the persistence adapters the services run against.
type stores struct {
	config  driven.ConfigStore
	sources driven.SourceStore
	refresh driven.RefreshStore
	watcher cli.ConfigWatcher
	close   func() error
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		st  *stores
		err error
	)
	// REPOCACHE_EPHEMERAL keeps everything in memory, nothing touches disk.
	if os.Getenv("REPOCACHE_EPHEMERAL") != "" {
		st = openMemory()
	} else {
		st, err = openDisk(os.Getenv("REPOCACHE_HOME"))
		if err != nil {
			return err
		}
	}
	defer st.close()

	fetcher := httpfetch.New(httpfetch.Config{
		UserAgent: "repocache/" + version,
	})

	settingsService := services.NewSettingsService(st.config)
	sourceService := services.NewSourceService(st.sources)
	orchestrator := services.NewRefreshOrchestrator(fetcher, services.NewSourceCache())
	scheduler := services.NewRefreshScheduler(
		st.sources,
		st.refresh,
		settingsService,
		orchestrator,
	)

	cli.SetVersion(version)
	cli.Configure(cli.Services{
		Sources:      sourceService,
		Settings:     settingsService,
		Orchestrator: orchestrator,
		Scheduler:    scheduler,
		Watcher:      st.watcher,
	})

	return cli.Execute()
}

// openDisk opens the TOML config and SQLite database. A non-empty home
// relocates both config.toml and the database.
func openDisk(home string) (*stores, error) {
	dataDir := ""
	if home != "" {
		dataDir = filepath.Join(home, "data")
	}

	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	db, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &stores{
		config:  configStore,
		sources: db.SourceStore(),
		refresh: db.RefreshStore(),
		watcher: configStore,
		close:   db.Close,
	}, nil
}

func openMemory() *stores {
	return &stores{
		config:  memory.NewConfigStore(),
		sources: memory.NewSourceStore(),
		refresh: memory.NewRefreshStore(),
		close:   func() error { return nil },
	}
}

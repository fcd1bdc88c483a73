// ABOUTME: Root Cobra command for ringd.
// ABOUTME: Loads config and opens the store via PersistentPre/PostRunE.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harperreed/ringd/internal/config"
	"github.com/harperreed/ringd/internal/ingest"
	"github.com/harperreed/ringd/internal/models"
	"github.com/harperreed/ringd/internal/query"
	"github.com/harperreed/ringd/internal/storage"
	"github.com/harperreed/ringd/internal/store"
)

const version = "1.0.0"

var (
	verbose bool

	cfg     *config.Config
	backend storage.Backend
	records *store.Store
	gateway *ingest.Gateway
	engine  *query.Engine
	logger  *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ringd",
	Short: "Smart ring biometric ingestion server",
	Long: `Ringd ingests biometric uploads from a smart ring companion app,
deduplicates them, and serves time-windowed queries over HTTP.

WHAT IT STORES:

  Samples      heartrate, hrv, stress, blood_oxygen
  Summaries    activity (daily), sleep, exercise, sport_plus
  Events       sedentary alerts, manual measurements
  Profiles     user_info, target_info (latest document wins)

QUICK START:

  $ ringd serve                    # Start the HTTP API on :5002
  $ ringd stats                    # Show record counts per type
  $ ringd export json              # Dump the full store as JSON
  $ ringd migrate sqlite           # Move data to another backend

STORAGE BACKENDS:

  snapshot   Single JSON file with atomic rename writes (default)
  sqlite     SQLite database, one row per collection
  badger     Badger KV store, one key per collection

  Select with "backend" in the config file or RINGD_BACKEND.

MCP INTEGRATION:

  Run 'ringd mcp' to start the Model Context Protocol server for use
  with MCP-compatible AI assistants:

  {
    "mcpServers": {
      "ringd": { "command": "ringd", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  State lives under ~/.local/share/ringd by default. Config is read
  from ~/.config/ringd/config.json, with RINGD_* environment variables
  taking precedence.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Commands that manage their own backends skip the shared runtime.
		switch cmd.Name() {
		case "version", "help", "migrate":
			return nil
		}
		return initRuntime(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if backend != nil {
			return backend.Close()
		}
		return nil
	},
}

// initRuntime loads config, opens the configured backend, and restores
// the in-memory store from the persisted snapshot. A corrupt snapshot
// is logged and replaced with an empty store rather than refusing to boot.
func initRuntime(cmd *cobra.Command) error {
	if err := models.CheckRegistry(); err != nil {
		return err
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ringd",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	if cmd.Name() == "mcp" {
		// stdio carries the protocol; keep logging quiet.
		logger.SetLevel(log.ErrorLevel)
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	backend, err = cfg.OpenBackend()
	if err != nil {
		return fmt.Errorf("failed to open %s backend: %w", cfg.GetBackend(), err)
	}

	snap, err := backend.Load()
	if err != nil {
		if !errors.Is(err, storage.ErrCorruptState) {
			return fmt.Errorf("failed to load state: %w", err)
		}
		logger.Warn("state is corrupt, starting empty", "location", backend.Location(), "err", err)
	}

	records = store.New(store.FromSnapshot(snap))
	gateway = ingest.New(records, backend, logger)
	engine = query.New(records)
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

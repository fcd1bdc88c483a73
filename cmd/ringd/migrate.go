// ABOUTME: CLI command for moving data between storage backends.
// ABOUTME: Copies the full snapshot from one backend into another.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/ringd/internal/config"
	"github.com/harperreed/ringd/internal/storage"
)

var migrateFrom string

var migrateCmd = &cobra.Command{
	Use:   "migrate <backend>",
	Short: "Migrate data to another storage backend",
	Long: `Copy all stored data into a different storage backend.

The source defaults to the configured backend; the target is given as
the argument. The target's existing contents are replaced wholesale.
The source is left untouched, so the migration can be re-run safely.

BACKENDS:

  snapshot   Single JSON file with atomic rename writes
  sqlite     SQLite database, one row per collection
  badger     Badger KV store, one key per collection

EXAMPLES:

  ringd migrate sqlite               # Configured backend -> sqlite
  ringd migrate badger --from sqlite # Explicit source

AFTER MIGRATION:

  Set "backend" in ~/.config/ringd/config.json (or RINGD_BACKEND) to
  the new backend name and restart the server.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"snapshot", "sqlite", "badger"},
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		srcName := conf.GetBackend()
		if migrateFrom != "" {
			srcName = migrateFrom
		}
		dstName := args[0]
		if srcName == dstName {
			return fmt.Errorf("source and target are both %s", srcName)
		}

		src, err := config.OpenBackendNamed(srcName, conf.GetDataDir(), conf.Compress)
		if err != nil {
			return fmt.Errorf("failed to open source %s: %w", srcName, err)
		}
		defer src.Close()

		dst, err := config.OpenBackendNamed(dstName, conf.GetDataDir(), conf.Compress)
		if err != nil {
			return fmt.Errorf("failed to open target %s: %w", dstName, err)
		}
		defer dst.Close()

		summary, err := storage.Migrate(src, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated %d records and %d profile documents", summary.Records, summary.Singletons)
		fmt.Printf("  %s -> %s\n", src.Location(), dst.Location())
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "source backend (defaults to configured backend)")
	rootCmd.AddCommand(migrateCmd)
}

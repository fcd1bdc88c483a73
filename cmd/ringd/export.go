// ABOUTME: CLI command for exporting the full store.
// ABOUTME: Supports JSON and YAML output, to stdout or a file.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harperreed/ringd/internal/store"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export all stored data",
	Long: `Export the full store in various formats.

FORMATS:

  json   The persisted snapshot document (suitable for backup/restore;
         a snapshot-backend data file has exactly this layout)
  yaml   The same document as YAML (human-readable)

OPTIONS:

  --output, -o   Write to file instead of stdout

EXAMPLES:

  ringd export json                 # Dump everything as JSON
  ringd export json -o backup.json  # Save to file
  ringd export yaml                 # Dump as YAML`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var snap *store.Snapshot
		if err := records.View(func(st *store.State) error {
			snap = st.Snapshot()
			return nil
		}); err != nil {
			return err
		}

		var data []byte
		var err error
		switch args[0] {
		case "json":
			data, err = json.MarshalIndent(snap, "", "  ")
		case "yaml":
			// Round-trip through JSON so yaml sees the snapshot's JSON
			// field names rather than Go struct names.
			var doc map[string]any
			raw, jerr := json.Marshal(snap)
			if jerr != nil {
				return fmt.Errorf("export failed: %w", jerr)
			}
			if jerr := json.Unmarshal(raw, &doc); jerr != nil {
				return fmt.Errorf("export failed: %w", jerr)
			}
			data, err = yaml.Marshal(doc)
		default:
			return fmt.Errorf("unknown format: %s (use json or yaml)", args[0])
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
			return nil
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

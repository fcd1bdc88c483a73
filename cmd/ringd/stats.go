// ABOUTME: CLI command for showing store statistics.
// ABOUTME: Prints per-type record counts and last-seen timestamps.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/ringd/internal/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show record counts per type",
	Long: `Show how many records each collection holds.

OUTPUT FORMAT:

  Each line shows: TYPE  COUNT  LAST RECORD  LAST UPLOAD

  LAST RECORD is the newest effective timestamp stored; LAST UPLOAD is
  when the server last accepted a batch of that type.

EXAMPLES:

  ringd stats`,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats := engine.Stats()

		bold := color.New(color.Bold)
		dim := color.New(color.Faint)

		bold.Printf("%-22s %8s  %-19s  %-19s\n", "TYPE", "COUNT", "LAST RECORD", "LAST UPLOAD")
		for _, rt := range models.AllRecordTypes {
			ts := stats.Types[string(rt)]
			fmt.Printf("%-22s %8d  %-19s  %-19s\n",
				rt, ts.Count, formatStamp(ts.LastRecord), formatStamp(ts.LastUpdate))
		}

		fmt.Println()
		fmt.Printf("total records: %d\n", stats.Total)
		if stats.HasUserInfo {
			color.Green("user profile: present")
		} else {
			dim.Println("user profile: none")
		}
		if stats.HasTargetInfo {
			color.Green("targets: present")
		} else {
			dim.Println("targets: none")
		}
		dim.Printf("state: %s\n", backend.Location())
		return nil
	},
}

func formatStamp(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

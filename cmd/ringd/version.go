// ABOUTME: CLI command for printing the ringd version.
// ABOUTME: Runs without touching config or storage.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ringd version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ringd %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

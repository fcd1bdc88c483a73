// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/ringd/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant
integration. The server communicates via stdin/stdout and exposes
read-only access to the stored biometric data.

CONFIGURATION:

  {
    "mcpServers": {
      "ringd": {
        "command": "ringd",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  get_stats         Record counts and last-seen timestamps
  query_records     Time-windowed record queries
  get_user_profile  Stored user profile document
  get_targets       Stored goal/target document

Ingestion stays HTTP-only; the MCP surface never writes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(engine, version)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

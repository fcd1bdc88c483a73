// ABOUTME: CLI command for running the HTTP API server.
// ABOUTME: Wires the gateway and query engine into the server package.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/ringd/internal/server"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API that receives uploads and serves dashboard queries.

ENDPOINTS:

  POST /api/upload               Ingest a record batch {type, data}
  GET  /api/heartrate            Heart rate samples (hours window)
  GET  /api/hrv                  HRV samples (hours window)
  GET  /api/stress               Stress samples (hours window)
  GET  /api/blood-oxygen         Blood oxygen samples (hours window)
  GET  /api/daily-activity       Daily activity summaries (days window)
  GET  /api/sleep                Sleep sessions (days window)
  GET  /api/exercise             Exercise sessions (hours window)
  GET  /api/sport-plus           Sport plus sessions (hours window)
  GET  /api/sedentary            Sedentary alerts (hours window)
  GET  /api/manual-measurements  Manual measurements (hours window)
  GET  /api/user-info            Latest user profile document
  GET  /api/target-info          Latest goal/target document
  GET  /api/stats                Record counts per type
  GET  /api/health               Liveness and storage location
  GET  /metrics                  Prometheus metrics

EXAMPLES:

  ringd serve                       # Listen on the configured address
  ringd serve --port 8080           # Override the port
  ringd serve --host 127.0.0.1      # Bind loopback only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		host := cfg.GetHost()
		if serveHost != "" {
			host = serveHost
		}
		port := cfg.GetPort()
		if servePort != 0 {
			port = servePort
		}
		addr := fmt.Sprintf("%s:%d", host, port)

		srv := server.New(gateway, engine, backend, logger, server.Options{
			Version: version,
			Addr:    addr,
			Origins: cfg.GetCORSOrigins(),
		})

		color.Green("ringd %s listening on %s", version, addr)
		color.White("state: %s", backend.Location())
		return srv.ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "bind address (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

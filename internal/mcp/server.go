// ABOUTME: MCP server setup for the biometric record store.
// ABOUTME: Wraps MCP server with read-only access to the query engine.
package mcp

import (
	"context"

	"github.com/harperreed/ringd/internal/query"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with query access.
type Server struct {
	mcpServer *mcp.Server
	engine    *query.Engine
}

// NewServer creates a new MCP server over the given query engine.
// All exposed tools are read-only; ingestion happens over HTTP.
func NewServer(engine *query.Engine, version string) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "ringd",
			Version: version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		engine:    engine,
	}

	s.registerTools()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

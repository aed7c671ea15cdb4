package mcp

import (
	"context"

	"scenario-mcp/internal/config"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Server exposes the scenario analytics as MCP tools.
type Server struct {
	cfg    *config.AppConfig
	server *mcp.Server
}

// NewServer creates the MCP server and registers every tool.
func NewServer(cfg *config.AppConfig, version string) *Server {
	s := &Server{
		cfg: cfg,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "scenario-mcp",
			Version: version,
		}, &mcp.ServerOptions{
			Instructions: "Scenario analytics over baseline and optimized simulation results. " +
				"Scenario files are resolved relative to the server's DATA_PATH.",
		}),
	}
	s.registerTools()
	return s
}

// Serve runs the server over stdio until the client disconnects or ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	log.Info().Str("data_path", s.cfg.DataPath).Msg("Serving MCP over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect binds the server to an arbitrary transport.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

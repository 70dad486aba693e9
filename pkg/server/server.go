// Package server provides the MCP server exposing the tattoo shop finder tools.
package server

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/NERVsystems/inkmap/pkg/config"
	"github.com/NERVsystems/inkmap/pkg/mapbox"
	"github.com/NERVsystems/inkmap/pkg/tools"
	"github.com/NERVsystems/inkmap/pkg/version"
)

// ServerName is the name of the MCP server
const ServerName = "inkmap"

// Server encapsulates the MCP server and its tool registry.
type Server struct {
	srv      *server.MCPServer
	registry *tools.Registry
	logger   *slog.Logger
}

// NewServer creates an MCP server with all tools registered. The Mapbox
// client is built from configuration; an empty access token is allowed
// and every provider call will report it.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("initializing server",
		"name", ServerName,
		"version", version.BuildVersion)

	var opts []mapbox.Option
	if cfg.Mapbox.BaseURL != "" {
		opts = append(opts, mapbox.WithBaseURL(cfg.Mapbox.BaseURL))
	}
	if cfg.Mapbox.UserAgent != "" {
		opts = append(opts, mapbox.WithUserAgent(cfg.Mapbox.UserAgent))
	}
	opts = append(opts, mapbox.WithLogger(logger))
	client := mapbox.NewClient(cfg.Mapbox.AccessToken, opts...)

	srv := server.NewMCPServer(
		ServerName,
		version.BuildVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	registry := tools.NewRegistry(client, logger)
	registry.RegisterTools(srv)

	return &Server{srv: srv, registry: registry, logger: logger}, nil
}

// Registry returns the tool registry backing this server.
func (s *Server) Registry() *tools.Registry {
	return s.registry
}

// Run starts the MCP server using stdin/stdout for communication.
func (s *Server) Run() error {
	return server.ServeStdio(s.srv)
}

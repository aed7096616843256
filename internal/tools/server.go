package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with its logger.
type Server struct {
	mcp    *mcp.Server
	logger *slog.Logger
}

// NewServer creates an MCP server with logging middleware and every tool registered.
func NewServer(version string, deps *Dependencies) *Server {
	impl := &mcp.Implementation{
		Name:    "etymon",
		Version: version,
	}

	s := &Server{
		mcp:    mcp.NewServer(impl, nil),
		logger: deps.logger(),
	}
	s.mcp.AddReceivingMiddleware(LoggingMiddleware(s.logger))
	RegisterAll(s.mcp, deps)
	return s
}

// Run serves on stdio and blocks until disconnect or context cancellation.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, &mcp.StdioTransport{})
}

// Serve runs the server on t until the client disconnects or ctx ends.
func (s *Server) Serve(ctx context.Context, t mcp.Transport) error {
	s.logger.Info("starting MCP server", "transport", fmt.Sprintf("%T", t))
	return s.mcp.Run(ctx, t)
}

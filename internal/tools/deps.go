// Package tools exposes etymology lookup to MCP clients.
package tools

import (
	"log/slog"

	"github.com/raphaelgruber/etymon/internal/service"
)

// Dependencies holds shared services for tool handlers.
type Dependencies struct {
	Fetcher         service.Fetcher
	DefaultLanguage string
	Logger          *slog.Logger
}

func (d *Dependencies) logger() *slog.Logger {
	if d == nil || d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}

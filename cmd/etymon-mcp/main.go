// Package main provides the entry point for the etymon MCP server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/raphaelgruber/etymon/internal/client"
	"github.com/raphaelgruber/etymon/internal/config"
	"github.com/raphaelgruber/etymon/internal/llm"
	"github.com/raphaelgruber/etymon/internal/service"
	"github.com/raphaelgruber/etymon/internal/tools"
)

const version = "0.1.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Stdout carries the protocol, so logs go to stderr + file
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel, true)
	defer func() { _ = cleanup() }()

	logger.Info("etymon-mcp starting",
		"version", version,
		"provider", cfg.Provider,
		"model", cfg.Model,
		"server_url", cfg.ServerURL,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Remote server when configured, otherwise call the model in-process
	var fetcher service.Fetcher
	if cfg.ServerURL != "" {
		if err := cfg.ValidateClient(); err != nil {
			logger.Error("invalid configuration", "error", err)
			os.Exit(1)
		}
		fetcher = client.New(cfg.ServerURL)
	} else {
		if err := cfg.Validate(); err != nil {
			logger.Error("invalid configuration", "error", err)
			os.Exit(1)
		}
		gen, err := llm.NewGenerator(ctx, cfg, logger)
		if err != nil {
			logger.Error("failed to create model backend", "error", err)
			os.Exit(1)
		}
		fetcher = service.NewEtymologyService(gen, nil, service.Options{
			ReasoningEffort: cfg.ReasoningEffort,
			MaxOutputTokens: cfg.MaxOutputTokens,
			Logger:          logger,
		})
	}

	srv := tools.NewServer(version, &tools.Dependencies{
		Fetcher:         fetcher,
		DefaultLanguage: cfg.DefaultLanguage,
		Logger:          logger,
	})
	logger.Info("server ready, awaiting connections")

	// Run server (blocks until disconnect or context cancelled)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

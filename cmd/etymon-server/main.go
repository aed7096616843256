// Package main provides the HTTP API server for etymon.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/raphaelgruber/etymon/internal/config"
	"github.com/raphaelgruber/etymon/internal/llm"
	"github.com/raphaelgruber/etymon/internal/metrics"
	"github.com/raphaelgruber/etymon/internal/server"
	"github.com/raphaelgruber/etymon/internal/service"
)

const version = "0.1.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger (dual output: stderr text + file JSON)
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel, true)
	defer func() { _ = cleanup() }()

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("etymon-server starting",
		"version", version,
		"port", cfg.ServerPort,
		"provider", cfg.Provider,
		"model", cfg.Model,
	)

	// Create the model backend
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	gen, err := llm.NewGenerator(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("failed to create model backend", "error", err)
		os.Exit(1)
	}

	// Service with in-memory stats exported to Prometheus
	stats := metrics.NewCollector()
	svc := service.NewEtymologyService(gen, nil, service.Options{
		ReasoningEffort: cfg.ReasoningEffort,
		MaxOutputTokens: cfg.MaxOutputTokens,
		Logger:          logger,
		Metrics:         stats,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.NewExporter("etymon", stats),
	)

	var origins []string
	if o := os.Getenv("ETYMON_ALLOWED_ORIGINS"); o != "" {
		origins = strings.Split(o, ",")
	}

	srv := server.New(svc, server.Options{
		Logger:          logger,
		DefaultLanguage: cfg.DefaultLanguage,
		AllowedOrigins:  origins,
		Registry:        registry,
		Stats:           stats,
	})

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      srv.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 3 * time.Minute, // Long for model responses
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("API available", "url", fmt.Sprintf("http://localhost:%s/api/etymology?word=etymon", cfg.ServerPort))
		logger.Info("metrics available", "url", fmt.Sprintf("http://localhost:%s/metrics", cfg.ServerPort))

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down server", "signal", sig.String())

	// Graceful shutdown with timeout
	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

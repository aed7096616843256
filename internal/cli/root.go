// Package cli provides the command-line interface for etymon.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raphaelgruber/etymon/internal/client"
	"github.com/raphaelgruber/etymon/internal/config"
	"github.com/raphaelgruber/etymon/internal/llm"
	"github.com/raphaelgruber/etymon/internal/service"
	"github.com/raphaelgruber/etymon/internal/tui"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose   bool
	language  string
	serverURL string

	// Global config
	cfg config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "etymon [word]",
	Short: "Explore where words come from",
	Long: `Etymon asks a language model for the history of a word and shows it as a
timeline of its lineage next to a graph of ancestors, cognates and derivatives.

Without a word the explorer opens on the configured default query.

Examples:
  etymon
  etymon Wort --language German
  etymon lookup etymon --output yaml
  etymon --server http://localhost:8484 ἔτυμον -l "Ancient Greek"`,
	Version: Version,
	Args:    cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}
		if serverURL != "" {
			cfg.ServerURL = serverURL
		}
		return nil
	},
	RunE: runExplore,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&language, "language", "l", "", "language of the word (default from ETYMON_DEFAULT_LANGUAGE)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "fetch from an etymon server instead of calling the model directly")

	// Add subcommands
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(statsCmd)
}

func runExplore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// The explorer owns the terminal, so logs only go to the file.
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel, false)
	defer func() { _ = cleanup() }()

	fetcher, err := newFetcher(ctx, logger)
	if err != nil {
		return err
	}

	word := cfg.DefaultWord
	if len(args) == 1 {
		word = args[0]
	}

	return tui.Run(ctx, tui.Options{
		Fetcher:  fetcher,
		Word:     word,
		Language: queryLanguage(),
		Logger:   logger,
	})
}

// newFetcher returns a remote client when a server URL is configured,
// otherwise an in-process service calling the model directly.
func newFetcher(ctx context.Context, logger *slog.Logger) (service.Fetcher, error) {
	if cfg.ServerURL != "" {
		if err := cfg.ValidateClient(); err != nil {
			return nil, err
		}
		logger.Debug("using remote server", "url", cfg.ServerURL)
		return client.New(cfg.ServerURL), nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	gen, err := llm.NewGenerator(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init model: %w", err)
	}
	return service.NewEtymologyService(gen, nil, service.Options{
		ReasoningEffort: cfg.ReasoningEffort,
		MaxOutputTokens: cfg.MaxOutputTokens,
		Logger:          logger,
	}), nil
}

func queryLanguage() string {
	if language != "" {
		return language
	}
	return cfg.DefaultLanguage
}

package cli

import (
	"context"
	"fmt"

	"github.com/raphaelgruber/etymon/internal/config"
	"github.com/raphaelgruber/etymon/internal/models"
	"github.com/spf13/cobra"
)

var lookupOutput string

var lookupCmd = &cobra.Command{
	Use:   "lookup <word>",
	Short: "Print the etymology of a word without the explorer",
	Long: `Fetch the etymology of a word once and print it.

Output defaults to text on a terminal and JSON when piped.

Examples:
  etymon lookup etymon
  etymon lookup Wort --language German
  etymon lookup ἔτυμον -l "Ancient Greek" --output yaml
  etymon lookup etymon | jq '.timeline[].word'`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().StringVarP(&lookupOutput, "output", "o", formatAuto, "output format: auto, text, json, yaml")
}

func runLookup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	format, err := resolveFormat(lookupOutput, out)
	if err != nil {
		return err
	}

	q := models.NewQuery(args[0], queryLanguage())
	if q.Empty() {
		return fmt.Errorf("word must not be empty")
	}

	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel, verbose)
	defer func() { _ = cleanup() }()

	fetcher, err := newFetcher(ctx, logger)
	if err != nil {
		return err
	}

	data, err := fetcher.Fetch(ctx, q.Word, q.Language)
	if err != nil {
		return fmt.Errorf("lookup %q: %w", q.Word, err)
	}
	return writeEtymology(out, format, data)
}

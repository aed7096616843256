package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/raphaelgruber/etymon/internal/client"
	"github.com/raphaelgruber/etymon/internal/metrics"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show server usage statistics",
	Long: `Show runtime statistics of a running etymon server: fetches, cache hits,
model calls and token usage since the server started.

Examples:
  etymon stats
  etymon stats --server http://etymon.internal:8484`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	stats, err := client.New(cfg.ServerURL).Stats(ctx)
	if err != nil {
		return err
	}
	printServerStats(cmd.OutOrStdout(), stats)
	return nil
}

// printServerStats displays server runtime statistics.
func printServerStats(w io.Writer, stats *metrics.Snapshot) {
	fmt.Fprintf(w, "Server Statistics (in-memory, since restart)\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════\n")
	fmt.Fprintf(w, "Uptime: %.1f seconds\n", stats.UptimeSeconds)
	fmt.Fprintf(w, "Cached etymologies: %d\n", stats.CacheEntries)

	if stats.Fetch != nil {
		fmt.Fprintf(w, "\nFetches:\n")
		printOpStats(w, stats.Fetch)
	}

	if stats.CacheHit != nil {
		fmt.Fprintf(w, "\nCache Hits:\n")
		printOpStats(w, stats.CacheHit)
	}

	if stats.LLMGenerate != nil {
		fmt.Fprintf(w, "\nLLM Generate:\n")
		printOpStats(w, stats.LLMGenerate)
		printTokenStats(w, stats.LLMGenerate)
	}
}

// printOpStats displays timing statistics for an operation.
func printOpStats(w io.Writer, op *metrics.OperationSnapshot) {
	fmt.Fprintf(w, "  Calls: %d, Failures: %d, Total: %dms\n", op.Count, op.Failures, op.TotalTimeMs)
	fmt.Fprintf(w, "  Time: avg %.1fms, min %dms, max %dms\n",
		op.AvgTimeMs, op.MinTimeMs, op.MaxTimeMs)
}

// printTokenStats displays token statistics if available.
func printTokenStats(w io.Writer, op *metrics.OperationSnapshot) {
	if op.TotalInputTokens == nil || op.TotalOutputTokens == nil {
		return
	}
	fmt.Fprintf(w, "  Tokens In:  %d total\n", *op.TotalInputTokens)
	fmt.Fprintf(w, "  Tokens Out: %d total\n", *op.TotalOutputTokens)
}

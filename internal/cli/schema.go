package cli

import (
	"context"
	"fmt"

	"github.com/raphaelgruber/etymon/internal/client"
	"github.com/raphaelgruber/etymon/internal/models"
	"github.com/raphaelgruber/etymon/internal/schema"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema the model must answer with",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), string(schema.JSON()))
		return err
	},
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the languages offered in the explorer",
	Long: `List the languages offered in the explorer's language selector.

With --server the list is read from the server.`,
	Args: cobra.NoArgs,
	RunE: runLanguages,
}

func runLanguages(cmd *cobra.Command, args []string) error {
	langs := models.Languages
	if cfg.ServerURL != "" {
		if err := cfg.ValidateClient(); err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		var err error
		langs, err = client.New(cfg.ServerURL).Languages(ctx)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	for _, l := range langs {
		fmt.Fprintln(out, l)
	}
	return nil
}

// internal/cli/root.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/law-makers/pricefeed/internal/app"
	"github.com/law-makers/pricefeed/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pricefeed",
	Short: "Stock and price extraction for a tracked storefront catalogue",
	Long: `Pricefeed fetches product pages through a pool of rotating proxies and
reads stock availability and price from each page, producing a result set
for the periodic price feed.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command. Cancelling ctx stops the current batch; the
// unfinished targets are reported as cancelled.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Initialize the application lazily so -h/--version need no proxies
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetApp(cmd) != nil {
			return nil
		}

		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}

		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}

		SetApp(cmd, a)
		return nil
	}

	config.RegisterFlags(rootCmd)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// closeApp releases the application attached to cmd. Cobra skips
// PersistentPostRunE when RunE fails, so commands defer this instead.
func closeApp(cmd *cobra.Command) error {
	a := GetApp(cmd)
	if a == nil {
		return nil
	}
	SetApp(cmd, nil)
	return a.Close(context.Background())
}

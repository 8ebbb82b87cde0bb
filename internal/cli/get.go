// internal/cli/get.go
package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/pricefeed/internal/ui"
	urlutil "github.com/law-makers/pricefeed/internal/utils/url"
	"github.com/law-makers/pricefeed/pkg/models"
)

var (
	sku    string
	format string
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <url>",
	Short: "Fetch one product page and print its stock and price",
	Long: `Runs the same fetch, retry and extraction path as a batch run for a
single URL. Useful for checking a new listing or a layout change.`,
	Example: `  # Check one listing
  pricefeed get https://www.example.com/wire-cage/460GSC2460KM.html -p http://10.0.0.1:8080

  # JSON output
  pricefeed get https://www.example.com/wire-cage/460GSC2460KM.html --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVar(&sku, "sku", "", "SKU to attach to the result")
	getCmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or json")
}

func runGet(cmd *cobra.Command, args []string) (err error) {
	defer func() { err = errors.Join(err, closeApp(cmd)) }()

	a := GetApp(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	link, err := urlutil.ValidateURL(args[0])
	if err != nil {
		return err
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format: %s (must be text or json)", format)
	}

	log.Info().Str("url", link).Msg("Fetching URL")
	result := a.Runner().Process(cmd.Context(), models.Target{SKU: sku, URL: link})

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	ui.PrintResult(out, result)
	return nil
}

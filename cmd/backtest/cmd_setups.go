package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mohamedkhairy/signal-backtest/internal/backtest"
	"github.com/mohamedkhairy/signal-backtest/internal/config"
	"github.com/mohamedkhairy/signal-backtest/internal/data"
	"github.com/mohamedkhairy/signal-backtest/internal/models"
	"github.com/mohamedkhairy/signal-backtest/internal/report"
	"github.com/mohamedkhairy/signal-backtest/internal/signal"
	"github.com/mohamedkhairy/signal-backtest/pkg/logger"
)

// setupsCmd detects named chart setups across the universe and ranks them
// by realized forward accuracy
var setupsCmd = &cobra.Command{
	Use:   "setups",
	Short: "Rank named setups by how often their direction call paid off",
	Long: `Run the rule-based setup detector over each ticker's history, grade every
triggered setup against the realized forward moves, and print the setups
ranked by accuracy.

Examples:
  backtest setups --mode day
  backtest setups --mode swing --tickers NVDA,AMD --lookback 180`,
	RunE: runSetups,
}

var (
	setupsMode     string
	setupsTickers  []string
	setupsLookback int
)

func init() {
	rootCmd.AddCommand(setupsCmd)

	setupsCmd.Flags().StringVar(&setupsMode, "mode", "day", "Backtest mode (scalp|day|swing)")
	setupsCmd.Flags().StringSliceVar(&setupsTickers, "tickers", nil, "Tickers to test (default built-in universe)")
	setupsCmd.Flags().IntVar(&setupsLookback, "lookback", 0, "History window in days (default per mode)")
}

func runSetups(cmd *cobra.Command, args []string) error {
	params, err := parseMode(setupsMode)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("lookback") {
		params.LookbackDays = setupsLookback
	}

	tickers := setupsTickers
	if len(tickers) == 0 {
		tickers = config.DefaultTickers()
	}

	logger.Info("Starting setup backtest",
		logger.String("mode", string(params.Mode)),
		logger.Int("tickers", len(tickers)),
		logger.Int("lookback_days", params.LookbackDays),
	)

	source := data.NewPolygonSource(cfg.Polygon, cfg.Paths.CacheDir)
	validator := backtest.NewValidator(signal.DefaultWeights(), signal.DefaultBlend(), params)
	runner := backtest.NewRunner(source, validator)

	runs := runner.RunSetups(cmd.Context(), tickers)

	var preds []models.Prediction
	for _, run := range runs {
		if run.Err != "" {
			fmt.Printf("%s skipped: %s\n", run.Ticker, run.Err)
			continue
		}
		preds = append(preds, run.Predictions...)
	}

	stats := report.CompileSetups(preds, params)
	if len(stats) == 0 {
		fmt.Println("\nNo setups triggered across the universe.")
		return nil
	}
	printSetupTable(stats, params)
	return nil
}

func printSetupTable(stats []models.SetupStats, params config.ModeParams) {
	fmt.Printf("\n%d setups triggered, best first\n", len(stats))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	header := "SETUP\tCOUNT\tLONG\tSHORT"
	for _, label := range params.Labels {
		header += "\t" + strings.ToUpper(label)
	}
	header += "\tMFE\tMAE"
	fmt.Fprintln(w, header)

	for _, s := range stats {
		row := fmt.Sprintf("%s\t%d\t%d\t%d", s.Setup, s.Count, s.Long, s.Short)
		for _, label := range params.Labels {
			row += fmt.Sprintf("\t%.1f%%", s.Accuracy[label])
		}
		row += fmt.Sprintf("\t%.2f\t%.2f", s.AvgMFE, s.AvgMAE)
		fmt.Fprintln(w, row)
	}
	w.Flush()
}

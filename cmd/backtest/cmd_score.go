package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
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

// scoreCmd replays historical bars through the scoring engine and measures
// prediction accuracy at each forward horizon
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Backtest confidence-threshold predictions over a ticker universe",
	Long: `Score every bar of each ticker's history, keep the bars whose blended
confidence clears the threshold, and grade those calls against the realized
forward moves.

Examples:
  backtest score --mode swing
  backtest score --mode day --tickers AAPL,TSLA --lookback 30
  backtest score --mode swing --version v3_balanced --save
  backtest score --mode day --compare v1_baseline,v2_tuned`,
	RunE: runScore,
}

var (
	scoreMode      string
	scoreTickers   []string
	scoreLookback  int
	scoreThreshold float64
	scoreVersion   string
	scoreCompare   []string
	scoreSave      bool
)

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&scoreMode, "mode", "day", "Backtest mode (scalp|day|swing)")
	scoreCmd.Flags().StringSliceVar(&scoreTickers, "tickers", nil, "Tickers to test (default built-in universe)")
	scoreCmd.Flags().IntVar(&scoreLookback, "lookback", 0, "History window in days (default per mode)")
	scoreCmd.Flags().Float64Var(&scoreThreshold, "threshold", 0, "Minimum confidence to count a prediction (default per mode)")
	scoreCmd.Flags().StringVar(&scoreVersion, "version", "", "Signal weight version name (default active version)")
	scoreCmd.Flags().StringSliceVar(&scoreCompare, "compare", nil, "Two version names to score side by side")
	scoreCmd.Flags().BoolVar(&scoreSave, "save", false, "Write the full report JSON to the results directory")
}

func runScore(cmd *cobra.Command, args []string) error {
	params, err := parseMode(scoreMode)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("lookback") {
		params.LookbackDays = scoreLookback
	}
	if cmd.Flags().Changed("threshold") {
		params.ConfidenceThreshold = scoreThreshold
	}

	tickers := scoreTickers
	if len(tickers) == 0 {
		tickers = config.DefaultTickers()
	}

	if len(scoreCompare) > 0 {
		if len(scoreCompare) != 2 {
			return fmt.Errorf("--compare takes exactly two version names, got %d", len(scoreCompare))
		}
		return runComparison(cmd, params, tickers, scoreCompare[0], scoreCompare[1])
	}

	weights, versionName, err := resolveWeights(scoreVersion, params.Mode)
	if err != nil {
		return err
	}

	logger.Info("Starting score backtest",
		logger.String("mode", string(params.Mode)),
		logger.String("version", versionName),
		logger.Int("tickers", len(tickers)),
		logger.Int("lookback_days", params.LookbackDays),
		logger.Float64("threshold", params.ConfidenceThreshold),
	)

	source := data.NewPolygonSource(cfg.Polygon, cfg.Paths.CacheDir)
	validator := backtest.NewValidator(weights, signal.DefaultBlend(), params)
	runner := backtest.NewRunner(source, validator)

	reports := runner.RunScores(cmd.Context(), tickers)
	printTickerTable(reports, params)

	agg, err := report.Aggregate(reports, params)
	if errors.Is(err, models.ErrNoPredictions) {
		fmt.Println("\nNo predictions cleared the confidence threshold.")
		return nil
	}
	if err != nil {
		return err
	}
	printAggregate(agg, params)

	if scoreSave {
		path, err := report.NewWriter(cfg.Paths.ResultsDir).Save(string(params.Mode), agg, reports)
		if err != nil {
			return fmt.Errorf("save report: %w", err)
		}
		fmt.Printf("\nSaved report to %s\n", path)
	}
	return nil
}

// parseMode rejects unknown mode strings instead of silently falling back
func parseMode(mode string) (config.ModeParams, error) {
	m := config.Mode(strings.ToLower(mode))
	switch m {
	case config.ModeScalp, config.ModeDay, config.ModeSwing:
		return config.ParamsFor(m), nil
	default:
		return config.ModeParams{}, fmt.Errorf("unknown mode %q (want scalp, day or swing)", mode)
	}
}

// resolveWeights loads the version file when present. A missing file is not
// an error unless a specific version was requested.
func resolveWeights(version string, mode config.Mode) (signal.Weights, string, error) {
	vf, err := config.LoadVersions(cfg.Paths.VersionsFile)
	if err != nil {
		if version == "" && errors.Is(err, os.ErrNotExist) {
			logger.Warn("Versions file missing, using default weights",
				logger.String("path", cfg.Paths.VersionsFile),
			)
			return signal.DefaultWeights(), "default", nil
		}
		return nil, "", err
	}
	return vf.WeightsFor(version, mode)
}

// runComparison scores the same universe under two weight versions and prints
// them side by side. The bar cache makes the second pass cheap.
func runComparison(cmd *cobra.Command, params config.ModeParams, tickers []string, v1, v2 string) error {
	source := data.NewPolygonSource(cfg.Polygon, cfg.Paths.CacheDir)

	run := func(version string) ([]models.TickerReport, error) {
		weights, name, err := resolveWeights(version, params.Mode)
		if err != nil {
			return nil, err
		}
		logger.Info("Scoring version for comparison",
			logger.String("version", name),
			logger.String("mode", string(params.Mode)),
		)
		validator := backtest.NewValidator(weights, signal.DefaultBlend(), params)
		return backtest.NewRunner(source, validator).RunScores(cmd.Context(), tickers), nil
	}

	reportsA, err := run(v1)
	if err != nil {
		return err
	}
	reportsB, err := run(v2)
	if err != nil {
		return err
	}

	rows, label := buildComparison(reportsA, reportsB, params)
	if len(rows) == 0 {
		fmt.Println("\nNo common tickers with predictions.")
		return nil
	}

	fmt.Printf("\nComparing %s vs %s at the %s horizon\n", v1, v2, label)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "TICKER\t%s ACC\t%s ACC\tDELTA\t%s MFE\t%s MFE\n",
		strings.ToUpper(v1), strings.ToUpper(v2), strings.ToUpper(v1), strings.ToUpper(v2))
	winsA, winsB := 0, 0
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%.1f%%\t%.1f%%\t%+.1f\t%.2f\t%.2f\n",
			row.Ticker, row.AccuracyA, row.AccuracyB, row.AccuracyB-row.AccuracyA, row.MFEA, row.MFEB)
		switch {
		case row.AccuracyB > row.AccuracyA:
			winsB++
		case row.AccuracyA > row.AccuracyB:
			winsA++
		}
	}
	w.Flush()
	fmt.Printf("\n%s wins %d, %s wins %d over %d common tickers\n", v1, winsA, v2, winsB, len(rows))
	return nil
}

// compareRow is one ticker's accuracy under two weight versions
type compareRow struct {
	Ticker     string
	AccuracyA  float64
	AccuracyB  float64
	MFEA, MFEB float64
}

// buildComparison pairs tickers that produced predictions under both versions,
// compared at the mid horizon when there are more than two, else the furthest
func buildComparison(a, b []models.TickerReport, params config.ModeParams) ([]compareRow, string) {
	label := params.Labels[len(params.Labels)-1]
	if len(params.Labels) > 2 {
		label = params.Labels[2]
	}

	byTicker := func(reports []models.TickerReport) map[string]models.TickerReport {
		m := make(map[string]models.TickerReport, len(reports))
		for _, r := range reports {
			if !r.Skipped() {
				m[r.Ticker] = r
			}
		}
		return m
	}
	va, vb := byTicker(a), byTicker(b)

	var rows []compareRow
	for ticker, ra := range va {
		rb, ok := vb[ticker]
		if !ok {
			continue
		}
		rows = append(rows, compareRow{
			Ticker:    ticker,
			AccuracyA: ra.Horizons[label].Accuracy,
			AccuracyB: rb.Horizons[label].Accuracy,
			MFEA:      ra.AvgMFE,
			MFEB:      rb.AvgMFE,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Ticker < rows[j].Ticker })
	return rows, label
}

func printTickerTable(reports []models.TickerReport, params config.ModeParams) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	header := "TICKER\tPREDS\tBULL\tBEAR\tCONF"
	for _, label := range params.Labels {
		header += "\t" + strings.ToUpper(label)
	}
	header += "\tMFE\tMAE\tRATIO"
	fmt.Fprintln(w, header)

	for _, r := range reports {
		if r.Skipped() {
			fmt.Fprintf(w, "%s\tskipped: %s\n", r.Ticker, r.Err)
			continue
		}
		row := fmt.Sprintf("%s\t%d\t%d\t%d\t%.1f", r.Ticker, r.Predictions, r.BullPredictions, r.BearPredictions, r.AvgConfidence)
		for _, label := range params.Labels {
			row += fmt.Sprintf("\t%.1f%%", r.Horizons[label].Accuracy)
		}
		row += fmt.Sprintf("\t%.2f\t%.2f\t%.2f", r.AvgMFE, r.AvgMAE, r.MFEMAERatio)
		fmt.Fprintln(w, row)
	}
	w.Flush()
}

func printAggregate(agg *models.UniverseReport, params config.ModeParams) {
	fmt.Printf("\nAggregate over %d tickers, %d predictions (%d bull / %d bear)\n",
		agg.TickersTested, agg.TotalPredictions, agg.TotalBull, agg.TotalBear)
	fmt.Printf("Avg confidence %.1f, MFE %.2f%%, MAE %.2f%%\n", agg.AvgConfidence, agg.AvgMFE, agg.AvgMAE)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "HORIZON\tACCURACY\tAVG MOVE\tAVG DIR MOVE\tBULL\tBEAR")
	for _, label := range params.Labels {
		h, ok := agg.Horizons[label]
		if !ok {
			continue
		}
		row := fmt.Sprintf("%s\t%.1f%%\t%.2f%%\t%.2f%%", label, h.Accuracy, h.AvgMove, h.AvgDirectionalMove)
		row += "\t" + formatSplit(h.BullAccuracy) + "\t" + formatSplit(h.BearAccuracy)
		fmt.Fprintln(w, row)
	}
	w.Flush()
}

func formatSplit(acc *float64) string {
	if acc == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *acc)
}

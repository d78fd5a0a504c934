package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mohamedkhairy/signal-backtest/internal/config"
	"github.com/mohamedkhairy/signal-backtest/pkg/logger"
)

var cfg *config.Config

// rootCmd is the base command for the backtest CLI
var rootCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Signal-scoring and setup-detection backtester",
	Long: `Backtest replays historical OHLCV bars through the signal engine and
measures how often the resulting calls were right over fixed forward horizons.

Use 'backtest score' to validate confidence-threshold predictions and
'backtest setups' to rank named candlestick/indicator setups by accuracy.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func main() {
	defer logger.Sync()

	// Ctrl-C cancels the context so a long universe run stops between tickers
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

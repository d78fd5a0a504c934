package backtest

import (
	"context"

	"github.com/mohamedkhairy/signal-backtest/internal/data"
	"github.com/mohamedkhairy/signal-backtest/internal/models"
	"github.com/mohamedkhairy/signal-backtest/internal/setups"
	"github.com/mohamedkhairy/signal-backtest/pkg/logger"
)

// SetupRun holds one ticker's measured setup outcomes
type SetupRun struct {
	Ticker      string
	Predictions []models.Prediction
	Err         string
}

// Runner validates a whole ticker universe. One bad ticker never aborts the
// run, it is recorded as a skip and the loop moves on.
type Runner struct {
	source    data.BarSource
	validator *Validator
}

// NewRunner creates a universe runner over the given bar source
func NewRunner(source data.BarSource, validator *Validator) *Runner {
	return &Runner{source: source, validator: validator}
}

func (r *Runner) fetch(ctx context.Context, ticker string) (models.BarSeries, error) {
	params := r.validator.Params()
	if params.Intraday() {
		return r.source.Intraday(ctx, ticker, params.BarMinutes, params.LookbackDays)
	}
	return r.source.Daily(ctx, ticker, params.LookbackDays)
}

// RunScores validates every ticker and returns one report per ticker,
// skip reports included, in input order.
func (r *Runner) RunScores(ctx context.Context, tickers []string) []models.TickerReport {
	mode := string(r.validator.Params().Mode)
	reports := make([]models.TickerReport, 0, len(tickers))

	for i, ticker := range tickers {
		if ctx.Err() != nil {
			logger.Warn("universe run cancelled",
				logger.Int("completed", i),
				logger.Int("total", len(tickers)))
			break
		}

		logger.Info("validating ticker",
			logger.String("ticker", ticker),
			logger.String("mode", mode),
			logger.Int("position", i+1),
			logger.Int("total", len(tickers)))

		bars, err := r.fetch(ctx, ticker)
		if err != nil {
			logger.Error("fetch failed",
				logger.String("ticker", ticker),
				logger.ErrorField(err))
			logger.TickersSkipped.WithLabelValues(mode, "fetch_error").Inc()
			reports = append(reports, models.TickerReport{Ticker: ticker, Err: err.Error()})
			continue
		}

		rep, err := r.validator.Run(ticker, bars)
		if err != nil {
			logger.Error("validation failed",
				logger.String("ticker", ticker),
				logger.ErrorField(err))
			logger.TickersSkipped.WithLabelValues(mode, "validation_error").Inc()
			reports = append(reports, models.TickerReport{Ticker: ticker, Err: err.Error()})
			continue
		}

		logger.TickersProcessed.WithLabelValues(mode).Inc()
		if rep.Skipped() {
			logger.TickersSkipped.WithLabelValues(mode, "no_predictions").Inc()
			logger.Info("ticker skipped",
				logger.String("ticker", ticker),
				logger.String("reason", rep.Err))
		} else {
			logger.PredictionsRecorded.WithLabelValues(mode).Add(float64(rep.Predictions))
			logger.Info("ticker validated",
				logger.String("ticker", ticker),
				logger.Int("predictions", rep.Predictions),
				logger.Float64("avg_confidence", rep.AvgConfidence))
		}
		reports = append(reports, *rep)
	}
	return reports
}

// RunSetups detects and measures conjunctive setups for every ticker
func (r *Runner) RunSetups(ctx context.Context, tickers []string) []SetupRun {
	mode := string(r.validator.Params().Mode)
	detector := setups.NewDetector()
	runs := make([]SetupRun, 0, len(tickers))

	for i, ticker := range tickers {
		if ctx.Err() != nil {
			logger.Warn("setup run cancelled",
				logger.Int("completed", i),
				logger.Int("total", len(tickers)))
			break
		}

		bars, err := r.fetch(ctx, ticker)
		if err != nil {
			logger.Error("fetch failed",
				logger.String("ticker", ticker),
				logger.ErrorField(err))
			logger.TickersSkipped.WithLabelValues(mode, "fetch_error").Inc()
			runs = append(runs, SetupRun{Ticker: ticker, Err: err.Error()})
			continue
		}

		preds, err := r.validator.RunSetups(ticker, bars, detector)
		if err != nil {
			logger.Warn("setup detection skipped",
				logger.String("ticker", ticker),
				logger.ErrorField(err))
			logger.TickersSkipped.WithLabelValues(mode, "setup_error").Inc()
			runs = append(runs, SetupRun{Ticker: ticker, Err: err.Error()})
			continue
		}

		for _, p := range preds {
			logger.SetupsDetected.WithLabelValues(p.Setup).Inc()
		}
		logger.Info("setups measured",
			logger.String("ticker", ticker),
			logger.Int("setups", len(preds)))
		runs = append(runs, SetupRun{Ticker: ticker, Predictions: preds})
	}
	return runs
}

package data

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/mohamedkhairy/signal-backtest/internal/config"
	"github.com/mohamedkhairy/signal-backtest/internal/models"
	"github.com/mohamedkhairy/signal-backtest/pkg/logger"
)

const (
	dailyCacheTTL    = 12 * time.Hour
	intradayCacheTTL = 6 * time.Hour
	aggsLimit        = 50000
)

// PolygonSource fetches OHLCV aggregates from the Polygon.io REST API with a
// local file cache. Requests are spaced to stay under the plan's rate limit.
type PolygonSource struct {
	cfg    config.PolygonConfig
	client *http.Client
	cache  *Cache
	loc    *time.Location
	now    func() time.Time

	mu          sync.Mutex
	lastRequest time.Time
}

// NewPolygonSource creates a Polygon-backed bar source caching under cacheDir
func NewPolygonSource(cfg config.PolygonConfig, cacheDir string) *PolygonSource {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// No tzdata available. EST is close enough for bar bucketing.
		loc = time.FixedZone("EST", -5*3600)
	}
	return &PolygonSource{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		cache:  NewCache(cacheDir),
		loc:    loc,
		now:    time.Now,
	}
}

// aggRow is one bar in a Polygon aggregates response
type aggRow struct {
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    float64 `json:"v"`
	VWAP      float64 `json:"vw"`
	Timestamp int64   `json:"t"` // ms since epoch
	Trades    int64   `json:"n"`
}

type aggsResponse struct {
	Status       string   `json:"status"`
	ResultsCount int      `json:"resultsCount"`
	Results      []aggRow `json:"results"`
}

// Daily fetches daily bars, serving from cache when younger than 12 hours
func (s *PolygonSource) Daily(ctx context.Context, ticker string, lookbackDays int) (models.BarSeries, error) {
	key := fmt.Sprintf("%s_daily", ticker)
	if bars, ok := s.cache.Load(key, dailyCacheTTL); ok {
		logger.CacheHits.WithLabelValues("daily").Inc()
		return bars, nil
	}
	logger.CacheMisses.WithLabelValues("daily").Inc()

	to := s.now()
	from := to.AddDate(0, 0, -lookbackDays)
	rows, err := s.fetchAggs(ctx, ticker, 1, "day", from, to)
	if err != nil {
		return nil, err
	}
	bars := s.toBars(rows)
	if len(bars) == 0 {
		logger.Warn("no daily data", logger.String("ticker", ticker))
		return nil, nil
	}
	if err := s.cache.Save(key, bars); err != nil {
		logger.Warn("failed to cache daily bars",
			logger.String("ticker", ticker),
			logger.ErrorField(err))
	}
	return bars, nil
}

// Intraday fetches minute aggregates in date chunks, serving from cache when
// younger than 6 hours. Fine-grained intervals use short chunks so a single
// request stays under the row limit.
func (s *PolygonSource) Intraday(ctx context.Context, ticker string, intervalMin, lookbackDays int) (models.BarSeries, error) {
	key := fmt.Sprintf("%s_%dm", ticker, intervalMin)
	if bars, ok := s.cache.Load(key, intradayCacheTTL); ok {
		logger.CacheHits.WithLabelValues("intraday").Inc()
		return bars, nil
	}
	logger.CacheMisses.WithLabelValues("intraday").Inc()

	chunkDays := s.cfg.IntradayChunkDays
	if intervalMin > 5 {
		chunkDays = 30
	}

	end := s.now()
	chunkStart := end.AddDate(0, 0, -lookbackDays)

	var rows []aggRow
	for chunkStart.Before(end) {
		chunkEnd := chunkStart.AddDate(0, 0, chunkDays)
		if chunkEnd.After(end) {
			chunkEnd = end
		}
		chunk, err := s.fetchAggs(ctx, ticker, intervalMin, "minute", chunkStart, chunkEnd)
		if err != nil {
			return nil, err
		}
		rows = append(rows, chunk...)
		chunkStart = chunkEnd
	}

	bars := s.toBars(rows)
	if len(bars) == 0 {
		logger.Warn("no intraday data",
			logger.String("ticker", ticker),
			logger.Int("interval_min", intervalMin))
		return nil, nil
	}
	if err := s.cache.Save(key, bars); err != nil {
		logger.Warn("failed to cache intraday bars",
			logger.String("ticker", ticker),
			logger.ErrorField(err))
	}
	return bars, nil
}

func (s *PolygonSource) fetchAggs(ctx context.Context, ticker string, multiplier int, timespan string, from, to time.Time) ([]aggRow, error) {
	if s.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := s.throttle(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/%d/%s/%s/%s",
		s.cfg.BaseURL, ticker, multiplier, timespan,
		from.Format("2006-01-02"), to.Format("2006-01-02"))

	params := url.Values{}
	params.Set("apiKey", s.cfg.APIKey)
	params.Set("adjusted", fmt.Sprintf("%t", s.cfg.Adjusted))
	params.Set("sort", "asc")
	params.Set("limit", fmt.Sprintf("%d", aggsLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		logger.DataRequests.WithLabelValues(timespan, "error").Inc()
		return nil, fmt.Errorf("fetch %s %s aggregates: %w", ticker, timespan, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.DataRequests.WithLabelValues(timespan, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %s %s status %d: %s",
			ErrRequestFailed, ticker, timespan, resp.StatusCode, string(body))
	}

	var parsed aggsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		logger.DataRequests.WithLabelValues(timespan, "error").Inc()
		return nil, fmt.Errorf("decode %s aggregates: %w", ticker, err)
	}
	logger.DataRequests.WithLabelValues(timespan, "ok").Inc()
	return parsed.Results, nil
}

// throttle enforces the minimum spacing between requests
func (s *PolygonSource) throttle(ctx context.Context) error {
	s.mu.Lock()
	minInterval := time.Second / time.Duration(s.cfg.RequestsPerSecond)
	wait := minInterval - s.now().Sub(s.lastRequest)
	if wait > 0 {
		s.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		s.mu.Lock()
	}
	s.lastRequest = s.now()
	s.mu.Unlock()
	return nil
}

// toBars maps response rows to a normalized ascending series.
// Chunked fetches can overlap at the edges, Normalize keeps the latest row
// per timestamp.
func (s *PolygonSource) toBars(rows []aggRow) models.BarSeries {
	bars := make(models.BarSeries, 0, len(rows))
	for _, r := range rows {
		bars = append(bars, models.Bar{
			Timestamp: time.UnixMilli(r.Timestamp).In(s.loc),
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.Volume,
			VWAP:      r.VWAP,
		})
	}
	return bars.Normalize()
}

package data

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedkhairy/signal-backtest/internal/config"
	"github.com/mohamedkhairy/signal-backtest/internal/models"
)

func testConfig(baseURL string) config.PolygonConfig {
	return config.PolygonConfig{
		APIKey:            "test-key",
		BaseURL:           baseURL,
		RequestsPerSecond: 1000, // keep tests fast
		Adjusted:          true,
		IntradayChunkDays: 7,
	}
}

func aggsHandler(t *testing.T, body string, hits *atomic.Int64) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		assert.Equal(t, "asc", r.URL.Query().Get("sort"))
		assert.Equal(t, "true", r.URL.Query().Get("adjusted"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func TestDaily_MapsResponseRows(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(aggsHandler(t, `{
		"status": "OK",
		"resultsCount": 2,
		"results": [
			{"o": 100, "h": 102, "l": 99, "c": 101, "v": 5000, "vw": 100.5, "t": 1704205800000, "n": 120},
			{"o": 101, "h": 104, "l": 100, "c": 103, "v": 6000, "vw": 102.1, "t": 1704292200000, "n": 150}
		]
	}`, &hits))
	defer srv.Close()

	src := NewPolygonSource(testConfig(srv.URL), t.TempDir())
	bars, err := src.Daily(context.Background(), "AAPL", 30)
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, 100.0, bars[0].Open)
	assert.Equal(t, 101.0, bars[0].Close)
	assert.Equal(t, 100.5, bars[0].VWAP)
	assert.Equal(t, int64(1704205800000), bars[0].Timestamp.UnixMilli())
	assert.True(t, bars[0].Timestamp.Before(bars[1].Timestamp))
	assert.NoError(t, bars.Validate())
}

func TestDaily_SecondCallServedFromCache(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(aggsHandler(t, `{
		"status": "OK",
		"resultsCount": 1,
		"results": [{"o": 1, "h": 2, "l": 1, "c": 2, "v": 100, "vw": 1.5, "t": 1704205800000, "n": 3}]
	}`, &hits))
	defer srv.Close()

	src := NewPolygonSource(testConfig(srv.URL), t.TempDir())
	ctx := context.Background()

	first, err := src.Daily(ctx, "MSFT", 30)
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Equal(t, int64(1), hits.Load())

	second, err := src.Daily(ctx, "MSFT", 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), hits.Load(), "cache hit should not reach the API")
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Close, second[0].Close)
	assert.True(t, first[0].Timestamp.Equal(second[0].Timestamp))
}

func TestIntraday_FetchesInChunks(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(aggsHandler(t, `{
		"status": "OK",
		"resultsCount": 1,
		"results": [{"o": 1, "h": 2, "l": 1, "c": 2, "v": 100, "vw": 1.5, "t": 1704205800000, "n": 3}]
	}`, &hits))
	defer srv.Close()

	src := NewPolygonSource(testConfig(srv.URL), t.TempDir())
	bars, err := src.Intraday(context.Background(), "TSLA", 5, 14)
	require.NoError(t, err)
	// 14 days at 7 days per chunk
	assert.Equal(t, int64(2), hits.Load())
	// same row in both chunks collapses to one bar
	assert.Len(t, bars, 1)
}

func TestIntraday_DedupesKeepLatest(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(aggsHandler(t, `{
		"status": "OK",
		"resultsCount": 2,
		"results": [
			{"o": 1, "h": 2, "l": 1, "c": 2, "v": 100, "vw": 1.5, "t": 1704205800000, "n": 3},
			{"o": 1, "h": 3, "l": 1, "c": 2.5, "v": 150, "vw": 1.7, "t": 1704205800000, "n": 5}
		]
	}`, &hits))
	defer srv.Close()

	src := NewPolygonSource(testConfig(srv.URL), t.TempDir())
	bars, err := src.Intraday(context.Background(), "AMD", 5, 5)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 2.5, bars[0].Close, "later row wins on duplicate timestamps")
}

func TestDaily_UpstreamErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":"ERROR"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	src := NewPolygonSource(testConfig(srv.URL), t.TempDir())
	_, err := src.Daily(context.Background(), "AAPL", 30)
	require.ErrorIs(t, err, ErrRequestFailed)
}

func TestDaily_MissingAPIKey(t *testing.T) {
	cfg := testConfig("http://localhost:1")
	cfg.APIKey = ""
	src := NewPolygonSource(cfg, t.TempDir())
	_, err := src.Daily(context.Background(), "AAPL", 30)
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestDaily_EmptyResponse(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(aggsHandler(t, `{"status": "OK", "resultsCount": 0, "results": []}`, &hits))
	defer srv.Close()

	src := NewPolygonSource(testConfig(srv.URL), t.TempDir())
	bars, err := src.Daily(context.Background(), "ZZZZ", 30)
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestCache_StaleFileIsAMiss(t *testing.T) {
	dir := t.TempDir()
	cache := NewCache(dir)

	bars := models.BarSeries{{
		Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Open:      1, High: 2, Low: 1, Close: 2, Volume: 100,
	}}
	require.NoError(t, cache.Save("AAPL_daily", bars))

	loaded, ok := cache.Load("AAPL_daily", dailyCacheTTL)
	require.True(t, ok)
	require.Len(t, loaded, 1)

	// age the file past the freshness window
	old := time.Now().Add(-13 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "AAPL_daily.json"), old, old))

	_, ok = cache.Load("AAPL_daily", dailyCacheTTL)
	assert.False(t, ok)
}

func TestCache_CorruptFileIsAMiss(t *testing.T) {
	dir := t.TempDir()
	cache := NewCache(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AAPL_daily.json"), []byte("{nope"), 0o644))

	_, ok := cache.Load("AAPL_daily", dailyCacheTTL)
	assert.False(t, ok)
}

func TestCache_ClearByTicker(t *testing.T) {
	dir := t.TempDir()
	cache := NewCache(dir)
	bars := models.BarSeries{{
		Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Open:      1, High: 2, Low: 1, Close: 2, Volume: 100,
	}}
	require.NoError(t, cache.Save("AAPL_daily", bars))
	require.NoError(t, cache.Save("AAPL_5m", bars))
	require.NoError(t, cache.Save("MSFT_daily", bars))

	require.NoError(t, cache.Clear("AAPL"))

	_, ok := cache.Load("AAPL_daily", dailyCacheTTL)
	assert.False(t, ok)
	_, ok = cache.Load("MSFT_daily", dailyCacheTTL)
	assert.True(t, ok)
}

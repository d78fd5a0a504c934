package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mohamedkhairy/signal-backtest/internal/models"
	"github.com/mohamedkhairy/signal-backtest/pkg/logger"
)

// Cache is a JSON file cache for bar series, keyed by ticker and granularity.
// Freshness is judged from file modification time, so a cache survives
// restarts and is shared between runs.
type Cache struct {
	dir string
	now func() time.Time
}

// NewCache creates a bar cache rooted at dir
func NewCache(dir string) *Cache {
	return &Cache{dir: dir, now: time.Now}
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Load returns the cached series for key if it exists and is younger than
// maxAge. A corrupt or stale file reads as a miss.
func (c *Cache) Load(key string, maxAge time.Duration) (models.BarSeries, bool) {
	path := c.path(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	age := c.now().Sub(info.ModTime())
	if age > maxAge {
		return nil, false
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var bars models.BarSeries
	if err := json.Unmarshal(raw, &bars); err != nil {
		logger.Warn("dropping corrupt bar cache file",
			logger.String("path", path),
			logger.ErrorField(err))
		return nil, false
	}

	logger.Debug("bar cache hit",
		logger.String("key", key),
		logger.Int("bars", len(bars)),
		logger.Duration("age", age))
	return bars, true
}

// Save writes the series for key, replacing any previous file
func (c *Cache) Save(key string, bars models.BarSeries) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	raw, err := json.Marshal(bars)
	if err != nil {
		return fmt.Errorf("encode bars: %w", err)
	}

	// Write through a temp file so a crash never leaves a torn cache entry
	tmp, err := os.CreateTemp(c.dir, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}

// Clear removes cached entries. With a ticker prefix only that ticker's
// files go, otherwise the whole cache dir is emptied.
func (c *Cache) Clear(tickerPrefix string) error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if tickerPrefix != "" && !hasTickerPrefix(e.Name(), tickerPrefix) {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func hasTickerPrefix(name, ticker string) bool {
	return len(name) > len(ticker) && name[:len(ticker)] == ticker && name[len(ticker)] == '_'
}

package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mohamedkhairy/signal-backtest/internal/models"
)

// Output is the persisted shape of a finished run
type Output struct {
	Mode        string                 `json:"mode"`
	GeneratedAt time.Time              `json:"generated_at"`
	Aggregate   *models.UniverseReport `json:"aggregate"`
	PerTicker   []models.TickerReport  `json:"per_ticker"`
}

// Writer saves run results as JSON under a results directory
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter creates a writer rooted at dir
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

// Save writes the aggregate and per-ticker reports and returns the file path.
// Raw predictions are stripped, the saved file carries statistics only.
func (w *Writer) Save(mode string, agg *models.UniverseReport, reports []models.TickerReport) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}

	slim := make([]models.TickerReport, len(reports))
	for i, r := range reports {
		r.Raw = nil
		slim[i] = r
	}

	out := Output{
		Mode:        mode,
		GeneratedAt: w.now(),
		Aggregate:   agg,
		PerTicker:   slim,
	}
	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode results: %w", err)
	}

	name := fmt.Sprintf("%s_backtest_%s.json", mode, w.now().Format("20060102_150405"))
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write results: %w", err)
	}
	return path, nil
}

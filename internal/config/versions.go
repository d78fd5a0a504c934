package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mohamedkhairy/signal-backtest/internal/models"
	"github.com/mohamedkhairy/signal-backtest/internal/signal"
)

// VersionFile mirrors the signal-versions.json layout shared with the
// live scoring service.
type VersionFile struct {
	ActiveVersion string             `json:"activeVersion"`
	Versions      map[string]Version `json:"versions"`
}

// Version is one named weight revision, optionally with per-mode profiles
type Version struct {
	Label           string                    `json:"label"`
	Date            string                    `json:"date"`
	Weights         map[string]int            `json:"weights"`
	WeightsScalp    map[string]int            `json:"weights_scalp,omitempty"`
	WeightsDay      map[string]int            `json:"weights_day,omitempty"`
	WeightsSwing    map[string]int            `json:"weights_swing,omitempty"`
	TickerOverrides map[string]map[string]int `json:"ticker_overrides,omitempty"`
}

// LoadVersions reads and parses a signal-versions.json file
func LoadVersions(path string) (*VersionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read versions file: %w", err)
	}
	var vf VersionFile
	if err := json.Unmarshal(data, &vf); err != nil {
		return nil, fmt.Errorf("parse versions file: %w", err)
	}
	return &vf, nil
}

// WeightsFor resolves the weight map for a version name and mode.
// An empty name selects the active version. Mode-specific profiles win over
// the version's base weights. Every signal name is validated, so a stale or
// hand-edited file fails loudly instead of silently scoring with typos.
func (f *VersionFile) WeightsFor(name string, mode Mode) (signal.Weights, string, error) {
	if name == "" {
		name = f.ActiveVersion
	}
	v, ok := f.Versions[name]
	if !ok {
		return nil, "", fmt.Errorf("version %q: %w", name, models.ErrUnknownVersion)
	}

	raw := v.Weights
	switch mode {
	case ModeScalp:
		if len(v.WeightsScalp) > 0 {
			raw = v.WeightsScalp
		}
	case ModeDay:
		if len(v.WeightsDay) > 0 {
			raw = v.WeightsDay
		}
	case ModeSwing:
		if len(v.WeightsSwing) > 0 {
			raw = v.WeightsSwing
		}
	}
	if len(raw) == 0 {
		return signal.DefaultWeights(), name, nil
	}

	weights := make(signal.Weights, len(raw))
	for k, w := range raw {
		weights[signal.Name(k)] = w
	}
	if err := weights.Validate(); err != nil {
		return nil, "", fmt.Errorf("version %q: %w", name, err)
	}
	return weights, name, nil
}

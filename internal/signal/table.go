package signal

import (
	"fmt"

	"github.com/mohamedkhairy/signal-backtest/internal/models"
)

// Table holds one bounded per-bar series per signal, index-aligned to the bar
// sequence it was computed from
type Table struct {
	length  int
	columns map[Name][]float64
}

// NewTable creates an empty table for a bar sequence of the given length
func NewTable(length int) *Table {
	return &Table{length: length, columns: make(map[Name][]float64, len(all))}
}

// Len returns the number of bars the table is aligned to
func (t *Table) Len() int {
	return t.length
}

// Set stores a signal column; the name must belong to the closed set and the
// column must be aligned to the table
func (t *Table) Set(name Name, values []float64) error {
	if !name.Valid() {
		return fmt.Errorf("%w: %q", models.ErrUnknownSignal, name)
	}
	if len(values) != t.length {
		return fmt.Errorf("signal %q has length %d, table expects %d", name, len(values), t.length)
	}
	t.columns[name] = values
	return nil
}

// Get returns a signal column, or an error for names outside the closed set
func (t *Table) Get(name Name) ([]float64, error) {
	if !name.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownSignal, name)
	}
	col, ok := t.columns[name]
	if !ok {
		return nil, fmt.Errorf("signal %q not computed", name)
	}
	return col, nil
}

// mustSet is used by the engine for columns it just built to the right length
func (t *Table) mustSet(name Name, values []float64) {
	if err := t.Set(name, values); err != nil {
		panic(err)
	}
}

package sheets

import (
	"context"
	"fmt"
	"sync"
)

// MemoryTable is an in-memory Table used by tests and local development. Only
// the worksheets passed to NewMemoryTable exist; everything else behaves like
// a missing sheet.
type MemoryTable struct {
	mu     sync.Mutex
	sheets map[string][][]any
}

// NewMemoryTable creates a MemoryTable containing the named empty worksheets.
func NewMemoryTable(names ...string) *MemoryTable {
	sheets := make(map[string][][]any, len(names))
	for _, n := range names {
		sheets[n] = [][]any{}
	}
	return &MemoryTable{sheets: sheets}
}

func (t *MemoryTable) Rows(_ context.Context, sheet string) ([][]any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, ok := t.sheets[sheet]
	if !ok {
		return nil, ErrSheetMissing
	}

	out := make([][]any, len(rows))
	for i, row := range rows {
		out[i] = append([]any(nil), row...)
	}
	return out, nil
}

func (t *MemoryTable) Append(_ context.Context, sheet string, row []any) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, ok := t.sheets[sheet]
	if !ok {
		return ErrSheetMissing
	}
	t.sheets[sheet] = append(rows, append([]any(nil), row...))
	return nil
}

func (t *MemoryTable) Update(_ context.Context, sheet string, index int, row []any) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, ok := t.sheets[sheet]
	if !ok {
		return ErrSheetMissing
	}
	if index < 0 || index >= len(rows) {
		return fmt.Errorf("row index %d out of range", index)
	}
	rows[index] = append([]any(nil), row...)
	return nil
}

func (t *MemoryTable) Delete(_ context.Context, sheet string, index int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, ok := t.sheets[sheet]
	if !ok {
		return ErrSheetMissing
	}
	if index < 0 || index >= len(rows) {
		return fmt.Errorf("row index %d out of range", index)
	}
	t.sheets[sheet] = append(rows[:index], rows[index+1:]...)
	return nil
}

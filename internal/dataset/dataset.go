// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dataset

import (
	"context"
	"errors"
)

// ErrLoad is wrapped by every failure to fetch a snapshot from a Source.
var ErrLoad = errors.New("dataset load failed")

// Dataset is an in-memory, read-only snapshot of rows by named columns.
// Every cell is already rendered as text.
type Dataset struct {
	Table   string     `json:"table,omitempty"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// New creates a dataset, padding short rows with empty cells. Rows longer
// than the column list are kept whole.
func New(columns []string, rows [][]string) *Dataset {
	ds := &Dataset{Columns: columns, Rows: make([][]string, 0, len(rows))}
	for _, row := range rows {
		ds.Rows = append(ds.Rows, normalizeRow(row, len(columns)))
	}
	return ds
}

// Len returns the number of rows. A nil dataset has zero rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// IsEmpty reports whether the dataset has no rows.
func (d *Dataset) IsEmpty() bool {
	return d.Len() == 0
}

// Column returns every value of the named column.
func (d *Dataset) Column(name string) ([]string, error) {
	idx, err := d.columnIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		out[i] = cellAt(row, idx)
	}
	return out, nil
}

// cellAt returns row[i], or "" when the row is short.
func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// Width returns the number of columns a formatted row needs: the named
// columns, or more when a row carries extra cells.
func (d *Dataset) Width() int {
	if d == nil {
		return 0
	}
	width := len(d.Columns)
	for _, row := range d.Rows {
		width = max(width, len(row))
	}
	return width
}

func normalizeRow(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

// =============================================================================
// SOURCE
// =============================================================================

// Source loads a full tabular snapshot by table name.
type Source interface {
	Load(ctx context.Context, table string) (*Dataset, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, table string) (*Dataset, error)

// Load calls f.
func (f SourceFunc) Load(ctx context.Context, table string) (*Dataset, error) {
	return f(ctx, table)
}

// Static is a Source that always returns the same snapshot.
type Static struct {
	Data *Dataset
}

// Load returns the stored snapshot.
func (s Static) Load(_ context.Context, _ string) (*Dataset, error) {
	return s.Data, nil
}

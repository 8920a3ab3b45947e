// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// DefaultMeanColumn is the review score averaged by the sentiment summaries.
const DefaultMeanColumn = "SENTIMENT_SCORE"

// NaNText is how a group without any numeric value is shown.
const NaNText = "NaN"

// columnIndex returns the position of name in the column list.
func (d *Dataset) columnIndex(name string) (int, error) {
	if d == nil {
		return -1, fmt.Errorf("column %q: dataset is nil", name)
	}
	for i, col := range d.Columns {
		if col == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("column %q not found", name)
}

// Filter returns the rows whose column value is one of values. An empty
// values list keeps every row. The result shares no row slices with d.
func (d *Dataset) Filter(column string, values []string) (*Dataset, error) {
	idx, err := d.columnIndex(column)
	if err != nil {
		return nil, err
	}

	keep := make(map[string]bool, len(values))
	for _, v := range values {
		keep[v] = true
	}

	out := &Dataset{Table: d.Table, Columns: append([]string(nil), d.Columns...)}
	out.Rows = make([][]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		if len(values) > 0 && !keep[cellAt(row, idx)] {
			continue
		}
		out.Rows = append(out.Rows, append([]string(nil), row...))
	}
	return out, nil
}

// group accumulates the numeric values of one group.
type group struct {
	key   string
	sum   float64
	count int
	rows  int
}

func (g group) mean() float64 {
	if g.count == 0 {
		return math.NaN()
	}
	return g.sum / float64(g.count)
}

// MeanBy averages the value column per distinct group column value. Blank
// and NULL cells are skipped; any other non-numeric cell is an error. The
// result has the columns [by, value, ROWS] and is sorted by ascending mean,
// with groups that had no numeric value last.
func (d *Dataset) MeanBy(value, by string) (*Dataset, error) {
	vi, err := d.columnIndex(value)
	if err != nil {
		return nil, err
	}
	bi, err := d.columnIndex(by)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*group)
	for i, row := range d.Rows {
		key := cellAt(row, bi)
		g, ok := groups[key]
		if !ok {
			g = &group{key: key}
			groups[key] = g
		}
		g.rows++

		raw := cellAt(row, vi)
		cell := strings.TrimSpace(raw)
		if cell == "" || cell == "NULL" {
			continue
		}
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %s value %q is not numeric", i+1, value, raw)
		}
		g.sum += f
		g.count++
	}

	sorted := make([]group, 0, len(groups))
	for _, g := range groups {
		sorted = append(sorted, *g)
	}
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if (a.count == 0) != (b.count == 0) {
			return b.count == 0
		}
		if a.count > 0 && a.mean() != b.mean() {
			return a.mean() < b.mean()
		}
		return a.key < b.key
	})

	out := &Dataset{Table: d.Table, Columns: []string{by, value, "ROWS"}}
	out.Rows = make([][]string, 0, len(sorted))
	for _, g := range sorted {
		mean := NaNText
		if g.count > 0 {
			mean = strconv.FormatFloat(g.mean(), 'f', 6, 64)
		}
		out.Rows = append(out.Rows, []string{g.key, mean, strconv.Itoa(g.rows)})
	}
	return out, nil
}

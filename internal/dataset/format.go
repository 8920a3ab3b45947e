// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dataset

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// NoContext is returned by Format when there is nothing to serialize.
const NoContext = "No DataFrame context provided."

// columnGap separates adjacent columns.
const columnGap = "  "

// Format renders the dataset as a plain-text table: one header line followed
// by one line per row, every column right-aligned to its widest cell.
// Newlines, carriage returns and tabs are escaped as \n, \r and \t so each
// row stays on one line. Cells beyond the named columns get a blank header.
func Format(d *Dataset) string {
	if d.IsEmpty() || len(d.Columns) == 0 {
		return NoContext
	}

	width := d.Width()
	header := make([]string, width)
	for i, col := range d.Columns {
		header[i] = escapeCell(col)
	}
	rows := make([][]string, len(d.Rows))
	for i, row := range d.Rows {
		cells := make([]string, width)
		for j, cell := range row {
			cells[j] = escapeCell(cell)
		}
		rows[i] = cells
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeLine(&b, header, widths)
	for _, row := range rows {
		b.WriteByte('\n')
		writeLine(&b, row, widths)
	}
	return b.String()
}

func writeLine(b *strings.Builder, cells []string, widths []int) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteString(columnGap)
		}
		b.WriteString(runewidth.FillLeft(cell, widths[i]))
	}
}

var cellEscaper = strings.NewReplacer("\r\n", `\n`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

func escapeCell(s string) string {
	return cellEscaper.Replace(s)
}

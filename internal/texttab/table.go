// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out plain-text tables with aligned columns.
package texttab

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table does layout of text-based tables.
//
// Row and Cell return the Table so callers can chain them.
type Table struct {
	rows [][]string
}

// Row starts a new row in table t.
func (t *Table) Row() *Table {
	t.rows = append(t.rows, nil)
	return t
}

// Cell adds a left-aligned cell at the end of the current row.
func (t *Table) Cell(value string) *Table {
	if len(t.rows) == 0 {
		t.Row()
	}
	last := len(t.rows) - 1
	t.rows[last] = append(t.rows[last], value)
	return t
}

// Format lays out table t and writes it to w. Columns are separated by
// two spaces and rows carry no trailing whitespace.
func (t *Table) Format(w io.Writer) error {
	var ws []int
	for _, row := range t.rows {
		for col, c := range row {
			if col == len(ws) {
				ws = append(ws, 0)
			}
			ws[col] = max(ws[col], utf8.RuneCountInString(c))
		}
	}

	var b strings.Builder
	for _, row := range t.rows {
		b.Reset()
		for col, c := range row {
			if col > 0 {
				b.WriteString("  ")
			}
			b.WriteString(c)
			b.WriteString(strings.Repeat(" ", ws[col]-utf8.RuneCountInString(c)))
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(b.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}

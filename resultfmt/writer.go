// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// A ReportWriter appends Aggregate rows to a CSV report.
//
// A report has a single header row, then sections of rows. Each
// section starts with a line holding only the section's family label;
// sections after the first are preceded by a blank line. Rows are
// never rewritten.
type ReportWriter struct {
	w      *csv.Writer
	closer io.Closer

	header     []string
	hasContent bool
	dropped    []string
}

// NewReportWriter returns a ReportWriter that appends to w.
// hasContent reports whether w already holds report content, in which
// case no header is written.
func NewReportWriter(w io.Writer, hasContent bool) *ReportWriter {
	return &ReportWriter{w: csv.NewWriter(w), hasContent: hasContent}
}

// OpenReport opens the report at path for appending, creating it if
// necessary.
func OpenReport(path string) (*ReportWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o666)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.WithStack(err)
	}
	rw := NewReportWriter(f, st.Size() > 0)
	rw.closer = f
	return rw, nil
}

// Header returns the report columns in write order. It is nil until
// the first Write.
func (w *ReportWriter) Header() []string {
	return w.header
}

// Write appends agg to the report. If family is non-empty, agg starts
// a new sweep family and a family label line is written first.
//
// The first Write fixes the report columns: MapKey, the keys of
// agg.Values in order, then RatioKey. Later rows are written in that
// column order; their keys missing from the header are dropped and
// can be retrieved with Dropped.
func (w *ReportWriter) Write(agg *Aggregate, family string) error {
	hadContent := w.hasContent
	if w.header == nil {
		w.header = make([]string, 0, len(agg.Values)+2)
		w.header = append(w.header, MapKey)
		for _, v := range agg.Values {
			if v.Key != MapKey && v.Key != RatioKey {
				w.header = append(w.header, v.Key)
			}
		}
		w.header = append(w.header, RatioKey)
		if !hadContent {
			w.w.Write(w.header)
		}
	}

	if family != "" {
		if hadContent {
			w.w.Write([]string{})
		}
		w.w.Write([]string{family})
	}

	w.dropped = w.dropped[:0]
	inHeader := make(map[string]bool, len(w.header))
	row := make([]string, len(w.header))
	for i, key := range w.header {
		inHeader[key] = true
		switch key {
		case MapKey:
			row[i] = agg.Map
		case RatioKey:
			row[i] = agg.MapsIncludedRatio()
		default:
			if v, ok := agg.Values.Get(key); ok {
				row[i] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
	}
	for _, v := range agg.Values {
		if !inHeader[v.Key] {
			w.dropped = append(w.dropped, v.Key)
		}
	}
	w.w.Write(row)

	// Writes to the csv.Writer are buffered; any error surfaces
	// on Flush.
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return errors.WithStack(err)
	}
	w.hasContent = true
	return nil
}

// Dropped returns the value keys the last Write could not place in
// the report header.
func (w *ReportWriter) Dropped() []string {
	return w.dropped
}

// Close flushes w and closes the underlying file, if w was created by
// OpenReport.
func (w *ReportWriter) Close() error {
	w.w.Flush()
	err := w.w.Error()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	return errors.WithStack(err)
}

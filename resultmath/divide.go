// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resultmath normalizes and averages benchmark result rows.
//
// Normalization divides a treatment row by the baseline row of the
// same map, column by column, to express measurements relative to a
// reference configuration. Identifier and count columns are never
// divided, and a zero baseline leaves the treatment value as is.
package resultmath

import (
	"github.com/martinmaxk/ESPP-Master-Thesis/resultfmt"
)

const (
	// PointLocationKey is normalized by the treatment row's own
	// TotalKey rather than by the baseline.
	PointLocationKey = "PointLocationTime"
	TotalKey         = "TotalTime"
)

// exempt lists columns that are identifiers or counts, not
// measurements.
var exempt = map[string]bool{
	resultfmt.MapKey: true,
	"NumVertices":    true,
	"M-CdtRegions":   true,
}

// Exempt reports whether column key is passed through unchanged by
// Divide.
func Exempt(key string) bool {
	return exempt[key]
}

// Divide divides each treatment row by the baseline row at the same
// position. Rows are paired positionally; surplus rows of the longer
// list are ignored.
func Divide(treatment, baseline []*resultfmt.Row) ([]resultfmt.Values, error) {
	n := len(treatment)
	if len(baseline) < n {
		n = len(baseline)
	}
	out := make([]resultfmt.Values, 0, n)
	for i := 0; i < n; i++ {
		vals, err := DivideRow(treatment[i], baseline[i])
		if err != nil {
			return nil, err
		}
		out = append(out, vals)
	}
	return out, nil
}

// DivideRow divides every field of a by the matching field of b.
//
// PointLocationKey is divided by a's own TotalKey. Other fields are
// divided by b's value when b has the field, the field is not Exempt
// and b's value is nonzero; otherwise a's value is kept.
func DivideRow(a, b *resultfmt.Row) (resultfmt.Values, error) {
	vals := make(resultfmt.Values, 0, len(a.Fields))
	for _, f := range a.Fields {
		x, err := a.Float(f.Key)
		if err != nil {
			return nil, err
		}
		var div float64
		switch {
		case f.Key == PointLocationKey:
			if div, err = a.Float(TotalKey); err != nil {
				return nil, err
			}
		case Exempt(f.Key):
		default:
			if _, ok := b.Get(f.Key); ok {
				if div, err = b.Float(f.Key); err != nil {
					return nil, err
				}
			}
		}
		if div != 0 {
			x /= div
		}
		vals = append(vals, resultfmt.Value{Key: f.Key, Value: x})
	}
	return vals, nil
}

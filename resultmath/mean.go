// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultmath

import (
	"github.com/aclements/go-moremath/stats"
	"github.com/pkg/errors"

	"github.com/martinmaxk/ESPP-Master-Thesis/resultfmt"
)

// ErrNoRows is returned by Mean when there is nothing to average.
var ErrNoRows = errors.New("no rows to average")

// Mean returns the column-wise arithmetic mean of rows. Columns are
// ordered by first appearance. A row that lacks a column counts as
// zero for that column, so every column is averaged over len(rows).
func Mean(rows []resultfmt.Values) (resultfmt.Values, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	var (
		keys []string
		cols = make(map[string][]float64)
	)
	for i, row := range rows {
		for _, v := range row {
			col, ok := cols[v.Key]
			if !ok {
				col = make([]float64, len(rows))
				cols[v.Key] = col
				keys = append(keys, v.Key)
			}
			col[i] += v.Value
		}
	}
	mean := make(resultfmt.Values, len(keys))
	for i, key := range keys {
		mean[i] = resultfmt.Value{Key: key, Value: stats.Mean(cols[key])}
	}
	return mean, nil
}

// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweep

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/martinmaxk/ESPP-Master-Thesis/resultfmt"
	"github.com/martinmaxk/ESPP-Master-Thesis/resultmath"
)

// An Aggregator averages matched result files.
type Aggregator struct {
	// Counts gives the expected map count of each result file.
	Counts Counts

	// Log receives collision and missing-baseline warnings. If nil,
	// they are discarded.
	Log logrus.FieldLogger
}

// Aggregate computes the mean row of t's treatment file over the maps
// also present in t's subset file. If normalize is set, each treatment
// row is first divided by the baseline row of the same map.
//
// A missing subset file excludes every map, which makes the aggregate
// fail with ErrConfiguration.
func (a *Aggregator) Aggregate(t Triple, normalize bool) (*resultfmt.Aggregate, error) {
	log := orDiscard(a.Log)

	treatment, err := a.load(log, t.Treatment)
	if err != nil {
		return nil, err
	}
	baseline, err := a.load(log, t.Baseline)
	if err != nil {
		return nil, err
	}
	subset, err := a.load(log, t.Subset)
	if errors.Is(err, os.ErrNotExist) {
		log.WithField("file", t.Subset).Debug("no subset file; excluding all maps")
		subset, err = new(resultfmt.Store), nil
	}
	if err != nil {
		return nil, err
	}

	var (
		rows     []resultfmt.Values
		included int
	)
	for _, m := range treatment.Maps() {
		if !subset.Has(m) {
			continue
		}
		var mapRows []resultfmt.Values
		if normalize {
			if !baseline.Has(m) {
				log.WithFields(logrus.Fields{"file": t.Baseline, "map": m}).Warn("map missing from baseline; it is not included")
			}
			if mapRows, err = resultmath.Divide(treatment.Rows(m), baseline.Rows(m)); err != nil {
				return nil, err
			}
		} else {
			for _, row := range treatment.Rows(m) {
				vals, err := row.Numeric()
				if err != nil {
					return nil, err
				}
				mapRows = append(mapRows, vals)
			}
		}
		// Only maps that add a row count towards the ratio.
		if len(mapRows) > 0 {
			included++
			rows = append(rows, mapRows...)
		}
	}

	mean, err := resultmath.Mean(rows)
	if errors.Is(err, resultmath.ErrNoRows) {
		return nil, errors.Wrapf(ErrConfiguration, "%s: no map in both treatment and subset %s", t.Treatment, t.Subset)
	} else if err != nil {
		return nil, err
	}

	name := resultfmt.Name(t.Treatment)
	expected, err := a.Counts.Expected(name)
	if err != nil {
		return nil, err
	}
	return &resultfmt.Aggregate{
		Map:      name,
		Values:   mean,
		Included: included,
		Expected: expected,
	}, nil
}

func (a *Aggregator) load(log logrus.FieldLogger, path string) (*resultfmt.Store, error) {
	s, collisions, err := resultfmt.Load(path)
	logCollisions(log, collisions)
	return s, err
}

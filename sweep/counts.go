// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweep

import (
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/martinmaxk/ESPP-Master-Thesis/resultfmt"
)

// Counts maps a result file name to the number of maps the canonical
// grid results hold for it. It is the denominator of every
// completeness ratio and is read-only once built.
type Counts map[string]int

// CountMaps builds Counts from the result files in dir. A file that
// cannot be read is logged and left out, so aggregates of that name
// fail later with ErrConfiguration.
func CountMaps(dir string, log logrus.FieldLogger) (Counts, error) {
	log = orDiscard(log)
	names, err := listResults(dir)
	if err != nil {
		return nil, errors.Wrap(err, "counting expected maps")
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	c := make(Counts, len(names))
	for _, name := range sorted {
		s, collisions, err := resultfmt.Load(filepath.Join(dir, name))
		logCollisions(log, collisions)
		if err != nil {
			log.WithField("file", name).WithError(err).Warn("skipping unreadable grid result")
			continue
		}
		c[name] = s.Len()
	}
	return c, nil
}

// Expected returns the expected map count for result file name.
func (c Counts) Expected(name string) (int, error) {
	n, ok := c[name]
	if !ok {
		return 0, errors.Wrapf(ErrConfiguration, "%s: no expected map count in grid results", name)
	}
	return n, nil
}

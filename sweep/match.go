// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sweep aggregates benchmark results across configuration
// sweeps.
//
// A sweep varies one parameter (mesh lambda, compression level, grid
// resolution) and writes one result folder per parameter value. For
// every result file shared by a treatment folder and a baseline
// folder, an Aggregator averages the treatment rows, optionally
// normalized by the baseline, over the maps that are also present in
// a subset folder. A Runner drives a Plan of such comparisons and
// appends the aggregates to CSV reports, one labelled section per
// treatment folder.
package sweep

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/martinmaxk/ESPP-Master-Thesis/resultfmt"
)

// A Triple names the same result file in a treatment, a baseline and
// a subset folder.
type Triple struct {
	// Name is the logical file name shared by all three paths.
	Name string

	Treatment, Baseline, Subset string
}

// Match returns a Triple for every result file present in both the
// treatment and baseline folders, sorted by name. The subset path is
// not checked for existence.
func Match(treatment, baseline, subset string) ([]Triple, error) {
	a, err := listResults(treatment)
	if err != nil {
		return nil, err
	}
	b, err := listResults(baseline)
	if err != nil {
		return nil, err
	}
	var names []string
	for name := range a {
		if b[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	triples := make([]Triple, len(names))
	for i, name := range names {
		triples[i] = Triple{
			Name:      name,
			Treatment: filepath.Join(treatment, name),
			Baseline:  filepath.Join(baseline, name),
			Subset:    filepath.Join(subset, name),
		}
	}
	return triples, nil
}

// listResults returns the set of logical result file names in dir.
// Compressed files are listed under their uncompressed name; see
// resultfmt.Load for how such paths are opened.
func listResults(dir string) (map[string]bool, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	names := make(map[string]bool, len(ents))
	for _, ent := range ents {
		if ent.IsDir() {
			continue
		}
		names[resultfmt.Name(ent.Name())] = true
	}
	return names, nil
}

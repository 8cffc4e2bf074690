// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweep

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/martinmaxk/ESPP-Master-Thesis/resultfmt"
)

// A Mode selects whether aggregates are normalized by the baseline.
type Mode int

const (
	Normalized Mode = iota
	Raw
)

// Modes lists every Mode in the order a full run uses them.
var Modes = []Mode{Normalized, Raw}

func (m Mode) String() string {
	if m == Normalized {
		return "norm"
	}
	return "raw"
}

// Report returns the file name of report name in mode m.
func (m Mode) Report(name string) string {
	if m == Normalized {
		name += "_norm"
	}
	return name + ".csv"
}

// A Sink receives every aggregate a Runner writes to a report.
type Sink interface {
	Record(report string, mode Mode, family string, agg *resultfmt.Aggregate) error
}

// A Runner executes Plans.
type Runner struct {
	// Dir is the folder the plan's folder names are relative to.
	Dir string

	// Out is the folder reports are written to.
	Out string

	// Truncate empties each report the first time the run opens it,
	// instead of appending to a previous run's output.
	Truncate bool

	// Sink, if non-nil, also receives every written aggregate.
	Sink Sink

	// Log receives progress and warnings. If nil, they are discarded.
	Log logrus.FieldLogger
}

// Run executes plan once per mode, in order. It fails only if the
// expected map counts cannot be built; failures of individual result
// files are logged, collected in the Summary and do not stop the run.
func (r *Runner) Run(plan *Plan, modes ...Mode) (*Summary, error) {
	log := orDiscard(r.Log)
	counts, err := CountMaps(r.path(plan.Grid), log)
	if err != nil {
		return nil, err
	}
	log.WithField("files", len(counts)).Debug("built expected map counts")

	st := &runState{
		Runner: r,
		log:    log,
		agg:    &Aggregator{Counts: counts, Log: log},
		sum:    new(Summary),
		opened: make(map[string]bool),
	}
	for _, mode := range modes {
		for _, pass := range plan.Passes {
			if err := st.pass(pass, mode); err != nil {
				return st.sum, err
			}
		}
	}
	return st.sum, nil
}

func (r *Runner) path(folder string) string {
	if filepath.IsAbs(folder) || r.Dir == "" {
		return folder
	}
	return filepath.Join(r.Dir, folder)
}

type runState struct {
	*Runner
	log    logrus.FieldLogger
	agg    *Aggregator
	sum    *Summary
	opened map[string]bool
}

// pass runs one pass in one mode. It returns an error only if the
// report itself cannot be written.
func (st *runState) pass(pass Pass, mode Mode) error {
	name := mode.Report(pass.Report)
	path := filepath.Join(st.Out, name)
	if st.Truncate && !st.opened[path] {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return errors.WithStack(err)
		}
	}
	st.opened[path] = true
	w, err := resultfmt.OpenReport(path)
	if err != nil {
		return err
	}

	for _, pt := range pass.Points {
		family := filepath.Base(pt.Treatment)
		fail := func(file string, err error) {
			f := &Failure{Report: pass.Report, Mode: mode, Family: family, File: file, Err: err}
			st.log.WithFields(f.fields()).WithError(err).Error("aggregation failed")
			st.sum.Failures = append(st.sum.Failures, f)
		}

		triples, err := Match(st.path(pt.Treatment), st.path(pt.Baseline), st.path(pt.subset()))
		if err != nil {
			fail("", err)
			continue
		}
		labelled := false
		for _, t := range triples {
			agg, err := st.agg.Aggregate(t, mode == Normalized)
			if err != nil {
				fail(t.Name, err)
				continue
			}
			label := ""
			if !labelled {
				label = family
			}
			if err := w.Write(agg, label); err != nil {
				w.Close()
				return err
			}
			labelled = true
			st.sum.Written++
			if dropped := w.Dropped(); len(dropped) > 0 {
				st.log.WithFields(logrus.Fields{"report": name, "file": t.Name, "columns": dropped}).Warn("columns not in report header were dropped")
			}
			st.log.WithFields(logrus.Fields{"report": name, "file": t.Name, "ratio": agg.MapsIncludedRatio()}).Debug("wrote aggregate")

			if st.Sink != nil {
				if err := st.Sink.Record(pass.Report, mode, family, agg); err != nil {
					fail(t.Name, err)
				}
			}
		}
	}
	return w.Close()
}

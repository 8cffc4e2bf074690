// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Benchagg aggregates the per-map result files of a pathfinding
// benchmark sweep into summary reports.
//
// Usage:
//
//	benchagg [-dir d] [-out d] [-plan plan.toml] [-mode both|norm|raw] [-db file.sqlite] [-truncate] [-v]
//
// Each sweep point names a treatment folder, a baseline folder and an
// optional subset folder under -dir. For every result file the three
// folders share, benchagg averages the per-map metrics of the maps the
// treatment and subset have in common, normalizing each metric by the
// baseline's value for the same map unless -mode is raw. The averages
// are appended to <out>/<report>_norm.csv and <out>/<report>.csv along
// with the ratio of included maps to the maps in the grid folder.
//
// Without -plan, benchagg runs the built-in plan over the grid{N} and
// meshLambda{N}Comp{M} folders. A plan file is TOML:
//
//	grid = "grid1"
//
//	[[pass]]
//	report = "lambda_agg"
//
//	[[pass.point]]
//	treatment = "meshLambda1Comp0"
//	baseline = "grid1"
//	subset = "meshLambda-1Comp0"  # defaults to treatment
//
// A result file that cannot be aggregated is logged and skipped. The
// skipped files are listed at the end and the exit status is 1.
//
// With -db, every written aggregate is also stored in a SQLite database.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/martinmaxk/ESPP-Master-Thesis/internal/texttab"
	"github.com/martinmaxk/ESPP-Master-Thesis/resultdb"
	"github.com/martinmaxk/ESPP-Master-Thesis/sweep"
)

var exit = os.Exit // replaced during testing

// errUsage is returned after a usage message has been printed.
var errUsage = errors.New("usage error")

func main() {
	if err := benchagg(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			exit(2)
			return
		}
		fmt.Fprintf(os.Stderr, "benchagg: %v\n", err)
		exit(1)
	}
}

var modeNames = map[string][]sweep.Mode{
	"both": sweep.Modes,
	"norm": {sweep.Normalized},
	"raw":  {sweep.Raw},
}

func benchagg(stdout, stderr io.Writer, args []string) error {
	flags := flag.NewFlagSet("benchagg", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: benchagg [options]\noptions:\n")
		flags.PrintDefaults()
	}
	var (
		flagDir      = flags.String("dir", ".", "read sweep folders from `dir`")
		flagOut      = flags.String("out", "", "write reports to `dir` (default -dir)")
		flagPlan     = flags.String("plan", "", "read the sweep plan from TOML `file` instead of the built-in plan")
		flagMode     = flags.String("mode", "both", "aggregate `mode`: both, norm, or raw")
		flagDB       = flags.String("db", "", "also store aggregates in SQLite `file`")
		flagTruncate = flags.Bool("truncate", false, "replace existing reports instead of appending to them")
		flagVerbose  = flags.Bool("v", false, "log every written aggregate")
	)
	if err := flags.Parse(args); err != nil {
		return errors.Wrap(errUsage, err.Error())
	}
	modes, ok := modeNames[*flagMode]
	if !ok || flags.NArg() != 0 {
		if !ok {
			fmt.Fprintf(stderr, "unknown -mode %q\n", *flagMode)
		}
		flags.Usage()
		return errUsage
	}

	log := logrus.New()
	log.Out = stderr
	log.Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	if *flagVerbose {
		log.Level = logrus.DebugLevel
	}

	plan := sweep.DefaultPlan()
	if *flagPlan != "" {
		var err error
		if plan, err = sweep.LoadPlan(*flagPlan); err != nil {
			return err
		}
	}

	out := *flagOut
	if out == "" {
		out = *flagDir
	}
	if err := os.MkdirAll(out, 0o777); err != nil {
		return errors.WithStack(err)
	}
	r := &sweep.Runner{Dir: *flagDir, Out: out, Truncate: *flagTruncate, Log: log}

	if *flagDB != "" {
		db, err := resultdb.Open(*flagDB)
		if err != nil {
			return errors.Wrapf(err, "opening %s", *flagDB)
		}
		defer db.Close()
		r.Sink = db
	}

	sum, err := r.Run(plan, modes...)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"written": sum.Written, "failures": len(sum.Failures)}).Info("sweep finished")
	if len(sum.Failures) > 0 {
		if err := formatFailures(stdout, sum.Failures); err != nil {
			return err
		}
	}
	return sum.Err()
}

func formatFailures(w io.Writer, failures []*sweep.Failure) error {
	var tab texttab.Table
	tab.Row().Cell("report").Cell("family").Cell("file").Cell("kind")
	for _, f := range failures {
		file := f.File
		if file == "" {
			file = "-"
		}
		tab.Row().Cell(f.Mode.Report(f.Report)).Cell(f.Family).Cell(file).Cell(f.Kind())
	}
	return tab.Format(w)
}

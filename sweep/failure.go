// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweep

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/martinmaxk/ESPP-Master-Thesis/resultfmt"
)

// ErrConfiguration is wrapped by errors caused by the sweep layout
// rather than by file contents: a result file with no expected map
// count, or an aggregate with no contributing maps.
var ErrConfiguration = errors.New("configuration error")

// Failure kinds.
const (
	KindParse  = "parse"
	KindConfig = "config"
	KindIO     = "io"
)

// A Failure records one result file, or one whole sweep point, that
// could not be aggregated.
type Failure struct {
	Report string
	Mode   Mode
	Family string
	File   string // empty if the point's folders could not be matched
	Err    error
}

// Kind classifies f.Err as KindParse, KindConfig or KindIO.
func (f *Failure) Kind() string {
	var perr *resultfmt.ParseError
	switch {
	case errors.As(f.Err, &perr):
		return KindParse
	case errors.Is(f.Err, ErrConfiguration):
		return KindConfig
	}
	return KindIO
}

func (f *Failure) Error() string {
	where := f.Family
	if f.File != "" {
		where += "/" + f.File
	}
	return fmt.Sprintf("%s (%s): %s: %v", f.Mode.Report(f.Report), f.Kind(), where, f.Err)
}

func (f *Failure) fields() logrus.Fields {
	return logrus.Fields{
		"report": f.Mode.Report(f.Report),
		"family": f.Family,
		"file":   f.File,
		"kind":   f.Kind(),
	}
}

// A Summary describes a finished run.
type Summary struct {
	// Written is the number of aggregate rows written to reports.
	Written int

	// Failures lists every file or point that was skipped, in
	// processing order.
	Failures []*Failure
}

// Err returns nil if the run had no failures, and otherwise an error
// counting them.
func (s *Summary) Err() error {
	if len(s.Failures) == 0 {
		return nil
	}
	return fmt.Errorf("%d failures, %d aggregates written", len(s.Failures), s.Written)
}

func orDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log != nil {
		return log
	}
	l := logrus.New()
	l.Out = io.Discard
	return l
}

func logCollisions(log logrus.FieldLogger, collisions []*resultfmt.Collision) {
	for _, c := range collisions {
		log.WithFields(logrus.Fields{
			"file": c.FileName,
			"line": c.Line,
			"map":  c.Map,
		}).Warn("duplicate map in result file; keeping first row")
	}
}

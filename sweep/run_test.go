// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweep

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/martinmaxk/ESPP-Master-Thesis/resultfmt"
)

var testPlan = &Plan{
	Grid: "grid1",
	Passes: []Pass{{
		Report: "lambda_agg",
		Points: []Point{
			{Treatment: "meshLambda1Comp0", Baseline: "grid1"},
			{Treatment: "meshLambda2Comp0", Baseline: "grid1"},
			{Treatment: "grid1", Baseline: "grid1"},
		},
	}},
}

const (
	wantNorm = `Map,TotalTime,PointLocationTime,ViaLabelsCheckedAvg,ViaLabelsPrunedAvg,ViaLabelsWithPrunedAvg,MapsIncludedRatio
meshLambda1Comp0
a.csv,1.875,0.375,1.5,1,1.25,2/4

grid1
a.csv,1,0.25,1,1,1,4/4
b.csv,1,0.25,0,1,1,1/1
`
	wantRaw = `Map,TotalTime,PointLocationTime,ViaLabelsCheckedAvg,ViaLabelsPrunedAvg,ViaLabelsWithPrunedAvg,MapsIncludedRatio
meshLambda1Comp0
a.csv,20,7.5,2.5,1.5,4,2/4

grid1
a.csv,14,3.5,1.75,1.75,3.5,4/4
b.csv,4,1,0,1,1,1/1
`
)

type recordingSink struct {
	records []string
}

func (s *recordingSink) Record(report string, mode Mode, family string, agg *resultfmt.Aggregate) error {
	s.records = append(s.records, strings.Join([]string{mode.Report(report), family, agg.Map, agg.MapsIncludedRatio()}, " "))
	return nil
}

func readReport(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, testTree)
	out := t.TempDir()

	var logBuf bytes.Buffer
	log := logrus.New()
	log.Out = &logBuf
	log.Formatter = &logrus.TextFormatter{DisableTimestamp: true, DisableColors: true}
	sink := new(recordingSink)

	r := &Runner{Dir: dir, Out: out, Sink: sink, Log: log}
	sum, err := r.Run(testPlan, Modes...)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(wantNorm, readReport(t, filepath.Join(out, "lambda_agg_norm.csv"))); diff != "" {
		t.Errorf("normalized report mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantRaw, readReport(t, filepath.Join(out, "lambda_agg.csv"))); diff != "" {
		t.Errorf("raw report mismatch (-want +got):\n%s", diff)
	}

	if sum.Written != 6 {
		t.Errorf("Written = %d, want 6", sum.Written)
	}
	// Per mode: b.csv of meshLambda1Comp0 does not parse, and
	// meshLambda2Comp0 does not exist. Neither stops the run.
	var failures []string
	for _, f := range sum.Failures {
		failures = append(failures, strings.Join([]string{f.Mode.String(), f.Family, f.File, f.Kind()}, " "))
	}
	wantFailures := []string{
		"norm meshLambda1Comp0 b.csv parse",
		"norm meshLambda2Comp0  io",
		"raw meshLambda1Comp0 b.csv parse",
		"raw meshLambda2Comp0  io",
	}
	if diff := cmp.Diff(wantFailures, failures); diff != "" {
		t.Errorf("failures mismatch (-want +got):\n%s", diff)
	}
	if err := sum.Err(); err == nil || err.Error() != "4 failures, 6 aggregates written" {
		t.Errorf("Summary.Err() = %v", err)
	}
	if !strings.Contains(logBuf.String(), "kind=parse") {
		t.Errorf("failure log lacks kind field:\n%s", logBuf.String())
	}

	wantRecords := []string{
		"lambda_agg_norm.csv meshLambda1Comp0 a.csv 2/4",
		"lambda_agg_norm.csv grid1 a.csv 4/4",
		"lambda_agg_norm.csv grid1 b.csv 1/1",
		"lambda_agg.csv meshLambda1Comp0 a.csv 2/4",
		"lambda_agg.csv grid1 a.csv 4/4",
		"lambda_agg.csv grid1 b.csv 1/1",
	}
	if diff := cmp.Diff(wantRecords, sink.records); diff != "" {
		t.Errorf("sink records mismatch (-want +got):\n%s", diff)
	}
}

func TestRunAppendsAndTruncates(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, testTree)
	out := t.TempDir()
	report := filepath.Join(out, "lambda_agg.csv")

	r := &Runner{Dir: dir, Out: out}
	for i := 0; i < 2; i++ {
		if _, err := r.Run(testPlan, Raw); err != nil {
			t.Fatal(err)
		}
	}
	// The second run appends a new section rather than a second
	// header.
	body := strings.TrimPrefix(wantRaw, strings.SplitAfter(wantRaw, "\n")[0])
	if diff := cmp.Diff(wantRaw+"\n"+body, readReport(t, report)); diff != "" {
		t.Errorf("appended report mismatch (-want +got):\n%s", diff)
	}

	r.Truncate = true
	if _, err := r.Run(testPlan, Raw); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(wantRaw, readReport(t, report)); diff != "" {
		t.Errorf("truncated report mismatch (-want +got):\n%s", diff)
	}
}

func TestRunMissingGrid(t *testing.T) {
	r := &Runner{Dir: t.TempDir(), Out: t.TempDir()}
	if _, err := r.Run(testPlan, Raw); err == nil {
		t.Errorf("Run without grid folder succeeded")
	}
}

// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweep

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// A Point is one sweep parameter value: the folders to compare.
type Point struct {
	// Treatment holds the results being measured. Its base name
	// labels the point's section in the report.
	Treatment string `toml:"treatment"`

	// Baseline holds the reference results for normalization.
	Baseline string `toml:"baseline"`

	// Subset restricts which maps contribute. It defaults to
	// Treatment.
	Subset string `toml:"subset"`
}

// A Pass is a sequence of points written to one report.
type Pass struct {
	// Report is the report name without mode suffix or extension.
	Report string  `toml:"report"`
	Points []Point `toml:"point"`
}

// A Plan lists every pass of a run.
type Plan struct {
	// Grid is the canonical grid folder whose files give the
	// expected map count of every result file name.
	Grid string `toml:"grid"`

	Passes []Pass `toml:"pass"`
}

func meshFolder(lambda, compr int) string {
	return fmt.Sprintf("meshLambda%dComp%d", lambda, compr)
}

func gridFolder(res int) string {
	return fmt.Sprintf("grid%d", res)
}

// DefaultPlan returns the standard sweep over mesh lambda, mesh
// compression and grid resolution, with and without restricting maps
// to the visibility subset of meshLambda-1Comp0.
func DefaultPlan() *Plan {
	const (
		grid   = "grid1"
		vissub = "meshLambda-1Comp0"
	)
	p := &Plan{Grid: grid}
	add := func(report string, points ...Point) {
		p.Passes = append(p.Passes, Pass{Report: report, Points: points})
	}
	var pts []Point

	for _, lam := range []int{1, 5, 9, -1} {
		pts = append(pts, Point{Treatment: meshFolder(lam, 0), Baseline: grid})
	}
	add("lambda_agg", pts...)

	pts = nil
	for _, lam := range []int{9, -1} {
		for _, compr := range []int{1, 3, 5, 6, 10} {
			pts = append(pts, Point{Treatment: meshFolder(lam, compr), Baseline: meshFolder(lam, 0)})
		}
	}
	add("compr_agg", pts...)

	pts = nil
	for _, res := range []int{1, 4, 16, 64} {
		pts = append(pts, Point{Treatment: gridFolder(res), Baseline: grid})
	}
	add("grid_agg", pts...)

	pts = nil
	for _, lam := range []int{1, 5, 9} {
		pts = append(pts, Point{Treatment: meshFolder(lam, 0), Baseline: grid, Subset: vissub})
	}
	add("lambda_agg_vissub", pts...)

	pts = nil
	for _, res := range []int{1, 4, 16, 64} {
		pts = append(pts, Point{Treatment: gridFolder(res), Baseline: grid, Subset: vissub})
	}
	add("grid_agg_vissub", pts...)

	return p
}

// LoadPlan reads a Plan from a TOML file. Unknown keys are an error.
func LoadPlan(path string) (*Plan, error) {
	p := new(Plan)
	md, err := toml.DecodeFile(path, p)
	if err != nil {
		return nil, errors.Wrapf(err, "loading plan %s", path)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return nil, errors.Errorf("plan %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := p.Validate(); err != nil {
		return nil, errors.Wrapf(err, "plan %s", path)
	}
	return p, nil
}

// Validate checks that p is complete.
func (p *Plan) Validate() error {
	if p.Grid == "" {
		return errors.New("no grid folder")
	}
	if len(p.Passes) == 0 {
		return errors.New("no passes")
	}
	for i, pass := range p.Passes {
		if pass.Report == "" {
			return errors.Errorf("pass %d: no report name", i+1)
		}
		if len(pass.Points) == 0 {
			return errors.Errorf("pass %s: no points", pass.Report)
		}
		for j, pt := range pass.Points {
			if pt.Treatment == "" || pt.Baseline == "" {
				return errors.Errorf("pass %s: point %d needs treatment and baseline", pass.Report, j+1)
			}
		}
	}
	return nil
}

// subset returns the subset folder of pt.
func (pt Point) subset() string {
	if pt.Subset == "" {
		return pt.Treatment
	}
	return pt.Subset
}

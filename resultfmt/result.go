// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resultfmt reads and writes the CSV result files produced by
// the path-planning query benchmarks.
//
// A result file has a header row followed by one row per map instance.
// The "Map" column identifies the map instance; every other column is
// a measurement stored as text and parsed to float64 on demand.
//
// This package is designed to be used with resultmath, which divides
// and averages rows, and sweep, which drives whole report runs.
package resultfmt

import (
	"fmt"
	"strconv"
	"strings"
)

// Well-known column names.
const (
	// MapKey is the column holding the map identity. It is never a
	// measurement.
	MapKey = "Map"

	// RatioKey is the report column holding the completeness ratio
	// of an Aggregate.
	RatioKey = "MapsIncludedRatio"

	CheckedKey    = "ViaLabelsCheckedAvg"
	PrunedKey     = "ViaLabelsPrunedAvg"
	WithPrunedKey = "ViaLabelsWithPrunedAvg"
)

// A Field is one named text cell of a Row.
type Field struct {
	Key, Value string
}

// A Row is a single data row of a result file.
type Row struct {
	// Map is the map identity of this row.
	Map string

	// Fields are the remaining columns of the row in file order.
	// Fields never contains MapKey.
	Fields []Field

	fileName string
	line     int
}

// Pos returns the file name and line number this row was read from.
func (r *Row) Pos() (fileName string, line int) {
	return r.fileName, r.line
}

// Get returns the text value of field key.
func (r *Row) Get(key string) (string, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Set sets field key to value, appending the field if it is not
// already present.
func (r *Row) Set(key, value string) {
	for i := range r.Fields {
		if r.Fields[i].Key == key {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, Field{key, value})
}

// Float parses field key as a float64. It returns a *ParseError if
// the field is missing or is not a number.
func (r *Row) Float(key string) (float64, error) {
	s, ok := r.Get(key)
	if !ok {
		return 0, r.parseError(key, fmt.Sprintf("map %s: missing field %s", r.Map, key))
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, r.parseError(key, fmt.Sprintf("map %s: field %s: %q is not a number", r.Map, key, s))
	}
	return v, nil
}

// Numeric parses every field of r.
func (r *Row) Numeric() (Values, error) {
	vals := make(Values, 0, len(r.Fields))
	for _, f := range r.Fields {
		v, err := r.Float(f.Key)
		if err != nil {
			return nil, err
		}
		vals = append(vals, Value{f.Key, v})
	}
	return vals, nil
}

func (r *Row) parseError(key, msg string) *ParseError {
	return &ParseError{FileName: r.fileName, Line: r.line, Key: key, Msg: msg}
}

// A ParseError reports a field that was expected to be numeric but is
// missing or malformed, or a row that does not fit its file's header.
type ParseError struct {
	FileName string
	Line     int
	Key      string // offending column, if any
	Msg      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// A Value is a single named measurement.
type Value struct {
	Key   string
	Value float64
}

// Values is an ordered set of measurements. Keys are unique.
type Values []Value

// Get returns the value of key.
func (vs Values) Get(key string) (float64, bool) {
	for _, v := range vs {
		if v.Key == key {
			return v.Value, true
		}
	}
	return 0, false
}

// Set sets key to x, appending it if key is new.
func (vs *Values) Set(key string, x float64) {
	for i := range *vs {
		if (*vs)[i].Key == key {
			(*vs)[i].Value = x
			return
		}
	}
	*vs = append(*vs, Value{key, x})
}

// Keys returns the keys of vs in order.
func (vs Values) Keys() []string {
	keys := make([]string, len(vs))
	for i, v := range vs {
		keys[i] = v.Key
	}
	return keys
}

// An Aggregate is the column-wise mean of one result file, labelled
// with the file's name.
type Aggregate struct {
	// Map labels the report row. It is the result file's name, not
	// a map identity.
	Map string

	// Values are the column means.
	Values Values

	// Included is the number of map identities that contributed
	// to Values, and Expected the number of maps the canonical
	// grid results contain for this file name.
	Included, Expected int
}

// MapsIncludedRatio returns the completeness ratio as "included/expected".
func (a *Aggregate) MapsIncludedRatio() string {
	return fmt.Sprintf("%d/%d", a.Included, a.Expected)
}

// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// A Reader reads rows from a header-bearing CSV result file.
//
// Its API is modeled on bufio.Scanner. Unlike benchmark readers that
// reuse their output, every Row returned by a Reader is freshly
// allocated and may be retained by the caller.
type Reader struct {
	csv      *csv.Reader
	fileName string

	header []string
	mapCol int

	row *Row
	err error
}

// NewReader returns a Reader that reads CSV rows from r. fileName is
// used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	if fileName == "" {
		fileName = "<unknown>"
	}
	c := csv.NewReader(r)
	// Row lengths are checked against the header below so the
	// error can name the file and line.
	c.FieldsPerRecord = -1
	return &Reader{csv: c, fileName: fileName, mapCol: -1}
}

// Header returns the column names of the file, including MapKey.
// It is nil until the first call to Scan.
func (r *Reader) Header() []string {
	return r.header
}

// Scan advances the reader to the next data row and reports whether
// a row was read. The caller should use the Row method to get the
// row. If Scan reaches EOF or an error occurs, it returns false, in
// which case the caller should use the Err method to check for
// errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	if r.header == nil && !r.readHeader() {
		return false
	}

	rec, err := r.csv.Read()
	if err == io.EOF {
		return false
	} else if err != nil {
		r.err = r.csvError(err)
		return false
	}
	line, _ := r.csv.FieldPos(0)
	if len(rec) != len(r.header) {
		r.err = &ParseError{FileName: r.fileName, Line: line, Msg: fmt.Sprintf("row has %d fields, header has %d", len(rec), len(r.header))}
		return false
	}

	row := &Row{
		Map:      rec[r.mapCol],
		Fields:   make([]Field, 0, len(rec)),
		fileName: r.fileName,
		line:     line,
	}
	for i, v := range rec {
		if i == r.mapCol {
			continue
		}
		row.Fields = append(row.Fields, Field{r.header[i], v})
	}
	r.row = row
	return true
}

func (r *Reader) readHeader() bool {
	rec, err := r.csv.Read()
	if err == io.EOF {
		// An empty file has no rows.
		r.err = io.EOF
		return false
	} else if err != nil {
		r.err = r.csvError(err)
		return false
	}
	r.header = rec
	for i, key := range rec {
		if key == MapKey {
			r.mapCol = i
			break
		}
	}
	if r.mapCol < 0 {
		r.err = &ParseError{FileName: r.fileName, Line: 1, Key: MapKey, Msg: "header has no " + MapKey + " column"}
		return false
	}
	return true
}

func (r *Reader) csvError(err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return &ParseError{FileName: r.fileName, Line: perr.Line, Msg: perr.Err.Error()}
	}
	return errors.Wrapf(err, "reading %s", r.fileName)
}

// Row returns the row that was just read by Scan.
func (r *Reader) Row() *Row {
	return r.row
}

// Err returns the first non-EOF error that was encountered by the
// Reader.
func (r *Reader) Err() error {
	if r.err == io.EOF {
		return nil
	}
	return r.err
}

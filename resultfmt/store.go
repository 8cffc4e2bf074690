// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// A Store holds the rows of one result file keyed by map identity.
//
// The zero Store is empty and ready to use as a filter that excludes
// every map.
type Store struct {
	rows  map[string][]*Row
	order []string
}

// Maps returns the map identities of s in the order they were first
// read.
func (s *Store) Maps() []string {
	return s.order
}

// Rows returns the rows read for map identity m, in file order.
func (s *Store) Rows(m string) []*Row {
	return s.rows[m]
}

// Has reports whether s contains map identity m.
func (s *Store) Has(m string) bool {
	_, ok := s.rows[m]
	return ok
}

// Len returns the number of distinct map identities in s.
func (s *Store) Len() int {
	return len(s.order)
}

func (s *Store) add(row *Row) {
	if s.rows == nil {
		s.rows = make(map[string][]*Row)
	}
	if _, ok := s.rows[row.Map]; !ok {
		s.order = append(s.order, row.Map)
	}
	s.rows[row.Map] = append(s.rows[row.Map], row)
}

// A Collision reports a map identity that appears more than once in
// a single result file. The later row is not loaded.
type Collision struct {
	FileName string
	Line     int
	Map      string
}

func (c *Collision) Error() string {
	return fmt.Sprintf("%s:%d: duplicate map %s", c.FileName, c.Line, c.Map)
}

// Read reads a result file from r into a new Store.
//
// Every row gets the derived field WithPrunedKey, the sum of
// CheckedKey and PrunedKey. A row whose map identity was already read
// is reported as a Collision and otherwise ignored; collisions do not
// stop the read.
func Read(r io.Reader, fileName string) (*Store, []*Collision, error) {
	var (
		s          = new(Store)
		collisions []*Collision
	)
	rd := NewReader(r, fileName)
	for rd.Scan() {
		row := rd.Row()
		if err := addWithPruned(row); err != nil {
			return nil, collisions, err
		}
		if s.Has(row.Map) {
			collisions = append(collisions, &Collision{fileName, row.line, row.Map})
			continue
		}
		s.add(row)
	}
	if err := rd.Err(); err != nil {
		return nil, collisions, err
	}
	return s, collisions, nil
}

func addWithPruned(row *Row) error {
	checked, err := row.Float(CheckedKey)
	if err != nil {
		return err
	}
	pruned, err := row.Float(PrunedKey)
	if err != nil {
		return err
	}
	row.Set(WithPrunedKey, strconv.FormatFloat(checked+pruned, 'g', -1, 64))
	return nil
}

// Load reads the result file at path. See Read.
//
// If path does not exist but path+".zst" does, the compressed file is
// read instead. If neither exists, the returned error satisfies
// errors.Is(err, os.ErrNotExist).
func Load(path string) (*Store, []*Collision, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()
	return Read(rc, path)
}

// Open opens the result file at path, transparently decompressing
// zstd files. See Load for how path is resolved.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) && !IsCompressed(path) {
		var zerr error
		f, zerr = os.Open(path + zstExt)
		if zerr == nil {
			path, err = path+zstExt, nil
		}
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !IsCompressed(path) {
		return f, nil
	}
	d, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	return &zstdFile{d, f}, nil
}

type zstdFile struct {
	*zstd.Decoder
	f *os.File
}

func (z *zstdFile) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}

const zstExt = ".zst"

// IsCompressed reports whether path names a zstd-compressed result
// file.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, zstExt)
}

// Name returns the logical name of the result file at path: its base
// name without any compression extension. Files with the same logical
// name in different sweep folders describe the same experiment.
func Name(path string) string {
	return strings.TrimSuffix(filepath.Base(path), zstExt)
}

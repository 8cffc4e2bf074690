// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultdb

import (
	"strings"

	"github.com/pkg/errors"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens a SQLite database file, creating it if needed.
//
// The file name becomes part of a SQLite URI, so it may not contain
// '?' or '#'.
func Open(path string) (*DB, error) {
	if strings.ContainsAny(path, "?#") {
		return nil, errors.Errorf("sqlite database path %q contains '?' or '#'", path)
	}
	return OpenSQL("sqlite3", "file:"+path+"?_foreign_keys=1")
}

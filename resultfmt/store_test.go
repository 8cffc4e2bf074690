// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zstd"
)

const storeData = `Map,TotalTime,ViaLabelsCheckedAvg,ViaLabelsPrunedAvg
m1,10,1.5,2
m2,20,1,1
m1,30,0,0
`

func TestRead(t *testing.T) {
	s, collisions, err := Read(strings.NewReader(storeData), "a.csv")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := s.Maps(), []string{"m1", "m2"}; !cmp.Equal(got, want) {
		t.Errorf("Maps() = %v, want %v", got, want)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}

	// The repeated m1 row is reported, not merged.
	wantCollisions := []*Collision{{FileName: "a.csv", Line: 4, Map: "m1"}}
	if diff := cmp.Diff(wantCollisions, collisions); diff != "" {
		t.Errorf("collisions mismatch (-want +got):\n%s", diff)
	}
	if got := collisions[0].Error(); got != "a.csv:4: duplicate map m1" {
		t.Errorf("collision error = %q", got)
	}

	rows := s.Rows("m1")
	if len(rows) != 1 {
		t.Fatalf("Rows(m1) has %d rows, want 1", len(rows))
	}
	if v, err := rows[0].Float("TotalTime"); err != nil || v != 10 {
		t.Errorf("m1 TotalTime = %v, %v, want first occurrence 10", v, err)
	}
	if v, err := rows[0].Float(WithPrunedKey); err != nil || v != 3.5 {
		t.Errorf("m1 %s = %v, %v, want 3.5", WithPrunedKey, v, err)
	}
	if _, ok := rows[0].Get(MapKey); ok {
		t.Errorf("row still has a %s field", MapKey)
	}
	if s.Has("m3") || s.Rows("m3") != nil {
		t.Errorf("store has unexpected map m3")
	}
}

func TestReadMissingPruned(t *testing.T) {
	_, _, err := Read(strings.NewReader("Map,ViaLabelsCheckedAvg\nm1,1\n"), "a.csv")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("got error %v, want *ParseError", err)
	}
	if perr.Key != PrunedKey || perr.Line != 2 {
		t.Errorf("got %+v, want key %s on line 2", perr, PrunedKey)
	}
}

func TestZeroStore(t *testing.T) {
	var s Store
	if s.Has("m1") || s.Len() != 0 || len(s.Maps()) != 0 {
		t.Errorf("zero Store is not empty")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.csv")
	if err := os.WriteFile(plain, []byte(storeData), 0o666); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	enc.Write([]byte(storeData))
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "packed.csv.zst"), buf.Bytes(), 0o666); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"plain.csv", "packed.csv.zst", "packed.csv"} {
		s, collisions, err := Load(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if s.Len() != 2 || len(collisions) != 1 {
			t.Errorf("%s: got %d maps and %d collisions, want 2 and 1", name, s.Len(), len(collisions))
		}
	}

	_, _, err = Load(filepath.Join(dir, "missing.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v, want os.ErrNotExist", err)
	}
}

func TestName(t *testing.T) {
	for path, want := range map[string]string{
		"grid1/dao.csv":     "dao.csv",
		"grid1/dao.csv.zst": "dao.csv",
		"dao.csv":           "dao.csv",
	} {
		if got := Name(path); got != want {
			t.Errorf("Name(%q) = %q, want %q", path, got, want)
		}
	}
}

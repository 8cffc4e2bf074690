// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweep

import (
	"os"
	"path/filepath"
	"testing"
)

const header = "Map,TotalTime,PointLocationTime,ViaLabelsCheckedAvg,ViaLabelsPrunedAvg\n"

// testTree is a small sweep: a four-map grid baseline and one mesh
// configuration covering half of the maps.
var testTree = map[string]string{
	"grid1/a.csv": header +
		"m1,8,2,1,1\n" +
		"m2,16,4,2,2\n" +
		"m3,24,6,3,3\n" +
		"m4,8,2,1,1\n",
	"grid1/b.csv": header +
		"m1,4,1,0,1\n",
	"meshLambda1Comp0/a.csv": header +
		"m1,20,5,1,1\n" +
		"m2,20,10,4,2\n",
	"meshLambda1Comp0/b.csv": header +
		"m1,abc,1,1,1\n",
	// Not in grid1, so never matched.
	"meshLambda1Comp0/c.csv": header +
		"m1,1,1,1,1\n",
}

// writeTree creates files under dir. Keys are slash-separated paths.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, data := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o777); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(data), 0o666); err != nil {
			t.Fatal(err)
		}
	}
}

// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package doc_test

import (
	"fmt"
	"testing"

	"github.com/creachadair/jdoc/doc"
	"github.com/creachadair/jdoc/internal/testutil"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// TestGetOracle checks Get against an independent implementation of dotted
// path lookup, on documents built from random keys. Keys contain no digits,
// so "arr9" cannot collide with them.
func TestGetOracle(t *testing.T) {
	rng := testutil.NewRand(7)
	for round := range 20 {
		keys := testutil.RandomKeys(rng, 60)
		groups, leaves := keys[:5], keys[5:]

		src := `{"arr9":[]}`
		var paths []string
		for i, leaf := range leaves {
			path := leaf
			if i%3 != 0 {
				path = groups[i%len(groups)] + "." + leaf
			}
			var err error
			if i%2 == 0 {
				src, err = sjson.Set(src, path, i)
			} else {
				src, err = sjson.Set(src, path, fmt.Sprintf("v%d", i))
			}
			if err != nil {
				t.Fatalf("Set %q: %v", path, err)
			}
			paths = append(paths, path)
			if i%7 == 0 {
				if src, err = sjson.Set(src, "arr9.-1", i); err != nil {
					t.Fatalf("Append: %v", err)
				}
			}
		}
		for i := range 12 {
			paths = append(paths, fmt.Sprintf("arr9.%d", i))
		}
		paths = append(paths, groups...)
		paths = append(paths, "nonesuch", groups[0]+".nonesuch", leaves[0]+".x")

		v := testutil.MustParse(t, src)
		for _, path := range paths {
			want := gjson.Get(src, path)
			got := doc.Get(v, path)
			if !want.Exists() {
				if !got.IsNull() {
					t.Errorf("Round %d: Get %q: got %s, want missing", round, path, got.JSON())
				}
				continue
			}
			switch want.Type {
			case gjson.Number:
				if got.Kind() != doc.Number || got.Float32() != float32(want.Num) {
					t.Errorf("Round %d: Get %q: got %s, want %v", round, path, got.JSON(), want.Num)
				}
			case gjson.String:
				if got.Kind() != doc.String || !got.Str().EqualString(want.Str) {
					t.Errorf("Round %d: Get %q: got %s, want %q", round, path, got.JSON(), want.Str)
				}
			case gjson.JSON:
				var n int
				want.ForEach(func(_, _ gjson.Result) bool { n++; return true })
				if !got.IsContainer() || got.Len() != n {
					t.Errorf("Round %d: Get %q: got %s, want %s", round, path, got.JSON(), want.Raw)
				}
			}
		}
	}
}

// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package testutil defines support code for unit tests.
package testutil

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/creachadair/jdoc/doc"
	"github.com/creachadair/mds/mapset"
)

// MustParse parses src as a single JSON value, or fails t.
func MustParse(t testing.TB, src string) doc.Value {
	t.Helper()
	v, err := doc.ParseBytes([]byte(src), doc.NewArena(), nil)
	if err != nil {
		t.Fatalf("Parse %q: %v", src, err)
	}
	return v
}

const keyRunes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_"

// RandomKeys returns n distinct random keys generated from rng. Keys contain
// only ASCII letters and underscores, so they are safe to use in dotted paths.
func RandomKeys(rng *rand.Rand, n int) []string {
	seen := mapset.New[string]()
	keys := make([]string, 0, n)
	for len(keys) < n {
		buf := make([]byte, 1+rng.IntN(12))
		for i := range buf {
			buf[i] = keyRunes[rng.IntN(len(keyRunes))]
		}
		if key := string(buf); !seen.Has(key) {
			seen.Add(key)
			keys = append(keys, key)
		}
	}
	return keys
}

// NewRand returns a deterministic random source for the given seed.
func NewRand(seed uint64) *rand.Rand { return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }

// SampleJSON returns a JSON array of n objects resembling the layers of a
// tile map, with contents generated from rng. The result is valid JSON.
func SampleJSON(rng *rand.Rand, n int) []byte {
	var sb strings.Builder
	sb.WriteString("[\n")
	for i := range n {
		if i > 0 {
			sb.WriteString(",\n")
		}
		fmt.Fprintf(&sb, `{"id": %d, "name": "layer \"%d\"", "opacity": %.3f, "visible": %v, "offset": null`,
			i+1, i, rng.Float64(), rng.IntN(2) == 0)
		sb.WriteString(`, "data": [`)
		for j := range 32 {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprint(&sb, rng.IntN(1000))
		}
		sb.WriteString(`], "properties": {`)
		for j, key := range RandomKeys(rng, 4) {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, `"%s": %g`, key, rng.NormFloat64()*1e3)
		}
		sb.WriteString("}}")
	}
	sb.WriteString("\n]\n")
	return []byte(sb.String())
}

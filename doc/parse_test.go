// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package doc_test

import (
	"errors"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/creachadair/jdoc"
	"github.com/creachadair/jdoc/doc"
	"github.com/creachadair/jdoc/internal/testutil"
	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"

	gojson "github.com/goccy/go-json"
)

func TestParseScalars(t *testing.T) {
	tests := []struct {
		input string
		kind  doc.Kind
		text  string
		debug string
	}{
		{"null", doc.Null, "null", "null"},
		{"true", doc.Boolean, "true", "true"},
		{"false", doc.Boolean, "false", "false"},
		{"3.5", doc.Number, "3.5", "3.500000"},
		{"-12", doc.Number, "-12", "-12.000000"},
		{"1e3", doc.Number, "1e3", "1000.000000"},
		{`"hi"`, doc.String, "hi", "hi"},
		{`"a\tbA"`, doc.String, "a\tbA", "a\tbA"},
		{`""`, doc.String, "", ""},
		{`{}`, doc.Object, "{", "{/*object*/}"},
		{`[]`, doc.Array, "[", "[/*array*/]"},
	}
	for _, tc := range tests {
		v := testutil.MustParse(t, tc.input)
		if v.Kind() != tc.kind {
			t.Errorf("Parse %#q: got kind %v, want %v", tc.input, v.Kind(), tc.kind)
		}
		if got := v.Text().String(); got != tc.text {
			t.Errorf("Parse %#q: got text %q, want %q", tc.input, got, tc.text)
		}
		if got := v.String(); got != tc.debug {
			t.Errorf("Parse %#q: got debug %q, want %q", tc.input, got, tc.debug)
		}
	}

	if v := testutil.MustParse(t, "true"); !v.Bool() {
		t.Error("Parse true: got false")
	}
	if v := testutil.MustParse(t, "false"); v.Bool() {
		t.Error("Parse false: got true")
	}
	if v := testutil.MustParse(t, "3.5"); math.Abs(float64(v.Float32())-3.5) > 1e-6 {
		t.Errorf("Parse 3.5: got %v", v.Float32())
	}
	if v := testutil.MustParse(t, `"hi"`); !v.Str().EqualString("hi") {
		t.Errorf("Parse string: got %q, want hi", v.Str())
	}
}

func TestAccessorPanics(t *testing.T) {
	num := testutil.MustParse(t, "1")
	mtest.MustPanic(t, func() { num.Bool() })
	mtest.MustPanic(t, func() { num.Str() })
	mtest.MustPanic(t, func() { num.Map() })
	mtest.MustPanic(t, func() { testutil.MustParse(t, "true").Float32() })

	var zero doc.Value
	if !zero.IsNull() || zero.Len() != 0 {
		t.Errorf("Zero value: got %v, want null", zero)
	}
}

func TestInt64(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"0", 0}, {"25", 25}, {"-9007199254740993", -9007199254740993}, {"2.75", 2}, {"-1.5e1", -15},
	}
	for _, tc := range tests {
		if got := testutil.MustParse(t, tc.input).Int64(); got != tc.want {
			t.Errorf("Int64(%s): got %d, want %d", tc.input, got, tc.want)
		}
	}
}

const testJSON = `{
  "width": 30,
  "height": 20,
  "infinite": false,
  "layers": [
    {"name": "ground", "width": 30, "data": [1, 2, 3]},
    {"name": "sky", "width": 31, "visible": true}
  ],
  "props": {"a": 1, "b": {"c": 2}},
  "tilesets": [{"source": "base.tsx"}],
  "note": null
}`

func TestGet(t *testing.T) {
	v := testutil.MustParse(t, testJSON)

	tests := []struct {
		path string
		want string // JSON, or "" for a missing value
	}{
		{"width", "30"},
		{"props.b.c", "2"},
		{"props.b", `{"c":2}`},
		{"props.b.x", ""},
		{"props.a.x", ""},
		{"layers.0.name", `"ground"`},
		{"layers.1.width", "31"},
		{"layers.0.data.2", "3"},
		{"layers.2.name", ""},
		{"layers.-1", ""},
		{"tilesets.0.source", `"base.tsx"`},
		{"note", "null"},
		{"nonesuch", ""},
		{"", ""},
		{"width.", ""},
	}
	for _, tc := range tests {
		got := doc.Get(v, tc.path)
		if tc.want == "" {
			if !got.IsNull() || doc.Has(v, tc.path) {
				t.Errorf("Get %q: got %s, want missing", tc.path, got.JSON())
			}
			continue
		}
		if js := got.JSON(); js != tc.want {
			t.Errorf("Get %q: got %s, want %s", tc.path, js, tc.want)
		}
		if !doc.Has(v, tc.path) {
			t.Errorf("Has %q: got false, want true", tc.path)
		}
	}

	// Only an object root has members. Arrays are indexed below the root.
	for _, root := range []string{`5`, `"a"`, `[10, {"w": 3}]`, `[]`} {
		r := testutil.MustParse(t, root)
		for _, path := range []string{"a", "0", "1.w"} {
			if got := doc.Get(r, path); !got.IsNull() {
				t.Errorf("Get(%s, %q): got %v, want null", root, path, got)
			}
			if doc.Has(r, path) {
				t.Errorf("Has(%s, %q): got true, want false", root, path)
			}
		}
	}
	if got := doc.Get(testutil.MustParse(t, `{"a": [10, {"w": 3}]}`), "a.1.w"); got.Float32() != 3 {
		t.Errorf("Get nested array: got %v, want 3", got)
	}
}

func TestParseObject(t *testing.T) {
	v := testutil.MustParse(t, `{"a": 1, "b": {"c": 2}}`)
	if v.Kind() != doc.Object || v.Len() != 2 {
		t.Fatalf("Parse: got %v with %d members", v.Kind(), v.Len())
	}
	if got := doc.Get(v, "b.c").Float32(); got != 2 {
		t.Errorf(`Get "b.c": got %v, want 2`, got)
	}
	if got := doc.Get(v, "b.x"); !got.IsNull() {
		t.Errorf(`Get "b.x": got %v, want null`, got)
	}
	if got := doc.Get(v, "a.x"); !got.IsNull() {
		t.Errorf(`Get "a.x": got %v, want null`, got)
	}
}

func TestParseArray(t *testing.T) {
	v := testutil.MustParse(t, `[10, 20, 30]`)
	if v.Kind() != doc.Array {
		t.Fatalf("Parse: got %v, want array", v.Kind())
	}
	var keys []string
	var vals []float32
	for k, elt := range v.Map().All() {
		keys = append(keys, k.String())
		vals = append(vals, elt.Float32())
	}
	if diff := cmp.Diff([]string{"0", "1", "2"}, keys); diff != "" {
		t.Errorf("Keys (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float32{10, 20, 30}, vals); diff != "" {
		t.Errorf("Values (-want, +got):\n%s", diff)
	}
}

func TestParseDuplicateKeys(t *testing.T) {
	v := testutil.MustParse(t, `{"k": 1, "j": 2, "k": 3}`)
	if got, want := v.JSON(), `{"k":3,"j":2}`; got != want {
		t.Errorf("Parse: got %s, want %s", got, want)
	}
	if v.Len() != 2 {
		t.Errorf("Len: got %d, want 2", v.Len())
	}
}

func TestParseTruncated(t *testing.T) {
	tests := []struct {
		input string
		want  string // JSON of the partial result
	}{
		{`{"a": 1, "b": 2`, `{"a":1,"b":2}`},
		{`{"a": 1, "b": `, `{"a":1}`},
		{`{"a": 1, "b"`, `{"a":1}`},
		{`{"a": 1, "b": [1, 2`, `{"a":1,"b":[1,2]}`},
		{`{"a": 1 "b": 2}`, `{"a":1}`},
		{`[1, 2, }`, `[1,2]`},
		{`[true, false, nope]`, `[true,false]`},
		{`{"x": {"y": "z"}, 5: 6}`, `{"x":{"y":"z"}}`},
		{`[1, "unterminated`, `[1]`},
		{`{`, `{}`},
		{``, `null`},
		{`}`, `null`},
	}
	for _, tc := range tests {
		v, err := doc.ParseBytes([]byte(tc.input), nil, nil)
		if err == nil {
			t.Errorf("Parse %#q: got nil error, want error", tc.input)
		} else {
			t.Logf("Parse %#q: got expected error: %v", tc.input, err)
		}
		if got := v.JSON(); got != tc.want {
			t.Errorf("Parse %#q: got %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestParseTrailing(t *testing.T) {
	v, err := doc.ParseBytes([]byte(`{"ok": true} 25`), nil, nil)
	var serr *jdoc.SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("Parse: got error %v, want *jdoc.SyntaxError", err)
	}
	if got := doc.Get(v, "ok"); got.Kind() != doc.Boolean || !got.Bool() {
		t.Errorf("Parse: lost the complete value, got %s", v.JSON())
	}
}

func TestParseTokenSource(t *testing.T) {
	lx := jdoc.NewLexer(strings.NewReader(`{"a": [1, {"b": null}]} true`))
	lx.AllowMultiple(true)
	a := doc.NewArena()

	first := doc.Parse(lx, a)
	second := doc.Parse(lx, a)
	third := doc.Parse(lx, a)
	if err := lx.Err(); err != nil {
		t.Fatalf("Lexer: unexpected error: %v", err)
	}
	if got, want := first.JSON(), `{"a":[1,{"b":null}]}`; got != want {
		t.Errorf("First: got %s, want %s", got, want)
	}
	if got := second.JSON(); got != "true" {
		t.Errorf("Second: got %s, want true", got)
	}
	if !third.IsNull() || !lx.Done() {
		t.Errorf("Third: got %s, done=%v; want null at end of input", third.JSON(), lx.Done())
	}
	if st := a.Stats(); st.Entries != 4 {
		t.Errorf("Arena: got %d entries, want 4", st.Entries)
	}
}

func TestParseAll(t *testing.T) {
	vs, err := doc.ParseAll([]byte(`1 "two" [3] {"four": 4}`), nil, nil)
	if err != nil {
		t.Fatalf("ParseAll: unexpected error: %v", err)
	}
	var got []string
	for _, v := range vs {
		got = append(got, v.JSON())
	}
	if diff := cmp.Diff([]string{`1`, `"two"`, `[3]`, `{"four":4}`}, got); diff != "" {
		t.Errorf("ParseAll (-want, +got):\n%s", diff)
	}

	vs, err = doc.ParseAll([]byte(`1 [2,`), nil, nil)
	if err == nil {
		t.Error("ParseAll: got nil error for truncated input")
	}
	if len(vs) != 2 || vs[1].JSON() != "[2]" {
		t.Errorf("ParseAll: got %d values, want [1, [2]]", len(vs))
	}
}

func TestParseJWCC(t *testing.T) {
	const input = `{
  // The width of the map.
  "width": 30,
  "layers": [
    "ground", /* base */
    "sky",
  ],
}`
	if _, err := doc.ParseBytes([]byte(input), nil, nil); err == nil {
		t.Error("Parse JWCC without option: got nil error")
	}
	v, err := doc.ParseBytes([]byte(input), nil, &doc.Options{JWCC: true})
	if err != nil {
		t.Fatalf("Parse JWCC: unexpected error: %v", err)
	}
	if got, want := v.JSON(), `{"width":30,"layers":["ground","sky"]}`; got != want {
		t.Errorf("Parse JWCC: got %s, want %s", got, want)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	inputs := []string{
		testJSON,
		`"quote \" and \\ slash \/ and é and 😀"`,
		`[[], {}, [[{}]], {"": ""}]`,
		`{"nested": {"deeper": {"deepest": [1.5e10, -0.25, 0]}}}`,
	}
	if data, err := os.ReadFile("../testdata/map.tmj"); err == nil {
		inputs = append(inputs, string(data))
	}
	for _, input := range inputs {
		v := testutil.MustParse(t, input)
		out := v.JSON()

		var want, got any
		if err := gojson.Unmarshal([]byte(input), &want); err != nil {
			t.Fatalf("Unmarshal input: %v", err)
		}
		if err := gojson.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("Unmarshal output %q: %v", out, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Round trip (-want, +got):\n%s", diff)
		}

		var sb strings.Builder
		if _, err := v.WriteJSON(&sb); err != nil {
			t.Errorf("WriteJSON: unexpected error: %v", err)
		} else if sb.String() != out {
			t.Errorf("WriteJSON: got %q, want %q", sb.String(), out)
		}
	}
}

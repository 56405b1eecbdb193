// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdoc_test

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/creachadair/jdoc"
	"github.com/google/go-cmp/cmp"
)

// dump renders the tokens of lx one per line, followed by "." if the lexer
// consumed all its input without error.
func dump(lx *jdoc.Lexer) string {
	var sb strings.Builder
	for tok := lx.Next(); tok != jdoc.Invalid; tok = lx.Next() {
		fmt.Fprintf(&sb, "%v <%s>\n", tok, lx.Text())
	}
	if lx.Done() {
		sb.WriteString(".\n")
	}
	return sb.String()
}

func diffStrings(want, got string) string {
	return cmp.Diff(strings.Split(strings.TrimSpace(want), "\n"),
		strings.Split(strings.TrimSpace(got), "\n"))
}

func TestLexer(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "."},
		{"   ", "."},

		{"true", "true <true>\n."},
		{`-6.32`, "number <-6.32>\n."},
		{`"a\tb c"`, "string <a\tb c>\n."},

		{`{}`, "\"{\" <{>\n\"}\" <}>\n."},

		{`{"a":15}`, `
"{" <{>
string <a>
integer <15>
"}" <}>
.`},

		{`{"x":null, "y":[true]}`, `
"{" <{>
string <x>
null <null>
string <y>
"[" <[>
true <true>
"]" <]>
"}" <}>
.`},

		{`[]`, "\"[\" <[>\n\"]\" <]>\n."},

		{`[[1, {}], "q"]`, `
"[" <[>
"[" <[>
integer <1>
"{" <{>
"}" <}>
"]" <]>
string <q>
"]" <]>
.`},
	}

	for _, test := range tests {
		lx := jdoc.NewLexer(strings.NewReader(test.input))
		got := dump(lx)
		if err := lx.Err(); err != nil {
			t.Errorf("Input %#q: unexpected error: %v", test.input, err)
		}
		if diff := diffStrings(test.want, got); diff != "" {
			t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
		estr  string
	}{
		// Various kinds of unbalanced object bits.
		{`{`, `"{" <{>`, `at 1:1: unexpected end of input in object`},
		{`}`, ``, `at 1:0: unexpected "}"`},
		{`{false:1}`, `"{" <{>`, `at 1:1: expected "}" or string, got false`},
		{`{"true":}`, `
"{" <{>
string <true>`,
			`at 1:8: unexpected "}"`},
		{`{"true":1,`, `
"{" <{>
string <true>
integer <1>`,
			`at 1:10: unexpected end of input in object`},
		{`{"a" 1}`, "\"{\" <{>\nstring <a>", `at 1:5: expected ":", got integer`},
		{`{"a":1,}`, "\"{\" <{>\nstring <a>\ninteger <1>", `at 1:7: expected string, got "}"`},
		{`{"a":`, "\"{\" <{>\nstring <a>", `at 1:5: unexpected end of input in object`},

		// Unbalanced array bits.
		{`[`, `"[" <[>`, `at 1:1: unexpected end of input in array`},
		{`]`, ``, `at 1:0: unexpected "]"`},
		{`[15,]`, "\"[\" <[>\ninteger <15>", `at 1:4: unexpected "]"`},
		{`[1 2]`, "\"[\" <[>\ninteger <1>", `at 1:3: expected "]" or ",", got integer`},
		{`[,]`, `"[" <[>`, `at 1:1: expected "]" or value, got ","`},

		// Content after the first value.
		{`1 2.0 forthright`, "integer <1>", `at 1:2: unexpected number after top-level value`},
		{`{} []`, "\"{\" <{>\n\"}\" <}>", `at 1:3: unexpected "[" after top-level value`},
	}

	for _, test := range tests {
		lx := jdoc.NewLexer(strings.NewReader(test.input))
		got := dump(lx)
		err := lx.Err()
		if err == nil {
			t.Errorf("Input %#q: did not report an error", test.input)
			continue
		}
		if diff := diffStrings(test.want, got); diff != "" {
			t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", test.input, diff)
		}
		if diff := diffStrings(test.estr, err.Error()); diff != "" {
			t.Errorf("Input: %#q\nError: (-want, +got)\n%s", test.input, diff)
		}
		var serr *jdoc.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Input %#q: error %T is not a *SyntaxError", test.input, err)
		}
		if tok := lx.Next(); tok != jdoc.Invalid {
			t.Errorf("Input %#q: Next after error: got %v, want invalid", test.input, tok)
		}
	}
}

func TestLexerScanErrors(t *testing.T) {
	t.Run("Unterminated", func(t *testing.T) {
		lx := jdoc.NewLexer(strings.NewReader(`["what did you`))
		dump(lx)
		if err := lx.Err(); !errors.Is(err, io.EOF) {
			t.Errorf("Err: got %v, want %v", err, io.EOF)
		}
	})
	t.Run("BadConstant", func(t *testing.T) {
		lx := jdoc.NewLexer(strings.NewReader(`[true, forthright]`))
		got := dump(lx)
		if diff := diffStrings("\"[\" <[>\ntrue <true>", got); diff != "" {
			t.Errorf("Output: (-want, +got)\n%s", diff)
		}
		if err := lx.Err(); err == nil || !strings.Contains(err.Error(), `unknown constant "forthright"`) {
			t.Errorf("Err: got %v, want unknown constant", err)
		}
	})
}

func TestLexerMultiple(t *testing.T) {
	const input = `{ "love": true } [] "ok" 5`
	const want = `
"{" <{>
string <love>
true <true>
"}" <}>
"[" <[>
"]" <]>
string <ok>
integer <5>
.`
	lx := jdoc.NewLexer(strings.NewReader(input))
	lx.AllowMultiple(true)
	if diff := diffStrings(want, dump(lx)); diff != "" {
		t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", input, diff)
	}
	if err := lx.Err(); err != nil {
		t.Errorf("Err: unexpected error: %v", err)
	}
}

func TestLexerPeek(t *testing.T) {
	lx := jdoc.NewLexer(strings.NewReader(`{"a": [1]}`))
	steps := []struct {
		tok   jdoc.Token
		depth int
		loc   string
	}{
		{jdoc.LBrace, 1, "1:0-1"},
		{jdoc.String, 1, "1:1-4"},
		{jdoc.LSquare, 2, "1:6-7"},
		{jdoc.Integer, 2, "1:7-8"},
		{jdoc.RSquare, 1, "1:8-9"},
		{jdoc.RBrace, 0, "1:9-10"},
		{jdoc.Invalid, 0, "1:10-10"},
	}
	for _, st := range steps {
		if got := lx.Peek(); got != st.tok {
			t.Errorf("Peek: got %v, want %v", got, st.tok)
		}
		if got := lx.Peek(); got != st.tok {
			t.Errorf("Peek again: got %v, want %v", got, st.tok)
		}
		if got := lx.Next(); got != st.tok {
			t.Errorf("Next: got %v, want %v", got, st.tok)
		}
		if got := lx.Depth(); got != st.depth {
			t.Errorf("Depth after %v: got %d, want %d", st.tok, got, st.depth)
		}
		if got := lx.Location().String(); got != st.loc {
			t.Errorf("Location of %v: got %s, want %s", st.tok, got, st.loc)
		}
	}
	if !lx.Done() {
		t.Errorf("Done: got false, want true (err=%v)", lx.Err())
	}
}

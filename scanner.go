// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdoc

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/creachadair/jdoc/internal/escape"
	"github.com/valyala/fastjson/fastfloat"

	"go4.org/mem"
)

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token, or end of input
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Integer              // number: integer with no fraction or exponent
	Number               // number with fraction and/or exponent
	String               // quoted string
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	Integer: "integer",
	Number:  "number",
	String:  "string",
	True:    "true",
	False:   "false",
	Null:    "null",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// IsValue reports whether t begins a JSON value.
func (t Token) IsValue() bool {
	switch t {
	case LBrace, LSquare, Integer, Number, String, True, False, Null:
		return true
	}
	return false
}

// A Scanner reads lexical tokens from an input stream.  Each call to Next
// advances the scanner to the next token, or reports an error.
//
// The Scanner checks the spelling of each token, but not the grammar of the
// token sequence; see Lexer.
type Scanner struct {
	r   *bufio.Reader
	buf bytes.Buffer // current token
	dec []byte       // decoded string, see Unescape
	tok Token
	err error

	pos, end int // start and end offsets of current token
	last     int // size in bytes of last-read input rune

	// Apparent line and column offsets (0-based)
	pline, pcol int
	eline, ecol int
}

// NewScanner constructs a new lexical scanner that consumes input from r.
func NewScanner(r io.Reader) *Scanner {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Scanner{r: br}
}

// Next advances s to the next token of the input and reports whether a token
// is available. At the end of input, or if an error occurs, Next returns
// false; use Err to distinguish the cases.
func (s *Scanner) Next() bool {
	if s.err != nil {
		return false
	}
	s.buf.Reset()
	s.tok = Invalid

	for {
		s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol
		ch, err := s.rune()
		if err == io.EOF {
			return false
		} else if err != nil {
			return s.fail(err)
		}

		switch {
		case ch == '\n':
			s.eline++
			s.ecol = 0
		case isSpace(ch):
		case ch == '"':
			return s.scanString()
		case isNumStart(ch):
			return s.scanNumber(ch)
		default:
			if t, ok := selfDelim(ch); ok {
				s.buf.WriteRune(ch)
				s.tok = t
				return true
			}
			if c, ok := constants[ch]; ok {
				return s.scanConstant(ch, c.tok, c.word)
			}
			return s.failf("unexpected %q", ch)
		}
	}
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the error that terminated the scan, or nil if the scanner has
// not failed. Reaching the end of input is not an error.
func (s *Scanner) Err() error { return s.err }

// Text returns the undecoded text of the current token.  The return value is
// only valid until the next call of Next. The caller must copy the contents of
// the returned slice if it is needed beyond that.
func (s *Scanner) Text() []byte { return s.buf.Bytes() }

// Unescape returns the decoded contents of the current String token, with
// quotation marks removed and escapes replaced. For other tokens it returns
// the same text as Text. The result is only valid until the next call of Next
// or Unescape.
func (s *Scanner) Unescape() ([]byte, error) {
	text := s.buf.Bytes()
	if s.tok != String {
		return text, nil
	}
	dec, err := escape.AppendUnquote(s.dec[:0], mem.B(text[1:len(text)-1]))
	if err != nil {
		return nil, err
	}
	s.dec = dec
	return dec, nil
}

// Int64 returns the value of the current Integer token. It reports an error
// if the token is not an Integer or its value is out of range.
func (s *Scanner) Int64() (int64, error) {
	if s.tok != Integer {
		return 0, fmt.Errorf("token is %v, not integer", s.tok)
	}
	return fastfloat.ParseInt64(s.buf.String())
}

// Float64 returns the value of the current Integer or Number token.
func (s *Scanner) Float64() (float64, error) {
	if s.tok != Integer && s.tok != Number {
		return 0, fmt.Errorf("token is %v, not a number", s.tok)
	}
	return fastfloat.Parse(s.buf.String())
}

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineCol{Line: s.pline + 1, Column: s.pcol},
		Last:  LineCol{Line: s.eline + 1, Column: s.ecol},
	}
}

// scanString scans the remainder of a string after its opening quote.
func (s *Scanner) scanString() bool {
	s.buf.WriteByte('"')
	for {
		ch, err := s.rune()
		if err != nil {
			return s.fail(err)
		}
		switch {
		case ch == '"':
			s.buf.WriteRune(ch)
			s.tok = String
			return true
		case ch == '\\':
			s.buf.WriteRune(ch)
			if !s.scanEscape() {
				return false
			}
		case ch < ' ':
			return s.failf("unescaped control %q", ch)
		default:
			s.buf.WriteRune(ch)
		}
	}
}

// scanEscape scans the body of an escape sequence after its backslash.
func (s *Scanner) scanEscape() bool {
	ch, err := s.rune()
	if err != nil {
		return s.fail(err)
	}
	switch ch {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		s.buf.WriteRune(ch)
	case 'u':
		s.buf.WriteRune(ch)
		if err := s.readHex4(); err != nil {
			return s.failf("invalid Unicode escape: %w", err)
		}
	default:
		return s.failf("invalid %q after escape", ch)
	}
	return true
}

// scanNumber scans a number beginning with first, which is a digit or a minus
// sign. The token is an Integer unless it has a fraction or an exponent.
func (s *Scanner) scanNumber(first rune) bool {
	s.buf.WriteRune(first)
	if first == '-' {
		ch, ok := s.require(isDigit, "digit")
		if !ok {
			return false
		}
		s.buf.WriteRune(ch)
	}

	s.tok = Integer
	_, ch, err := s.readWhile(isDigit)
	if hasExtraLeadingZeroes(s.buf.Bytes()) {
		return s.failf("extra leading zeroes")
	} else if err != nil {
		return s.endNumber(err)
	}

	if ch == '.' {
		s.buf.WriteRune(ch)
		var nr int
		nr, ch, err = s.readWhile(isDigit)
		if err != nil && err != io.EOF {
			return s.fail(err)
		} else if nr == 0 {
			return s.failf("no digits after decimal point")
		}
		s.tok = Number
		if err != nil {
			return true // EOF
		}
	}

	if ch == 'e' || ch == 'E' {
		s.buf.WriteRune(ch)
		lead, ok := s.require(isExpStart, "sign or digit")
		if !ok {
			return false
		}
		s.buf.WriteRune(lead)
		s.tok = Number

		nr, _, err := s.readWhile(isDigit)
		if nr == 0 && !isDigit(lead) {
			return s.failf("missing exponent digits")
		} else if err != nil {
			return s.endNumber(err)
		}
	}

	// The last rune read does not belong to the number.
	s.unrune()
	return true
}

// endNumber finishes a number whose scan stopped at a read error.
func (s *Scanner) endNumber(err error) bool {
	if err == io.EOF {
		return true
	}
	return s.fail(err)
}

// scanConstant scans a keyword beginning with first, which must spell word.
func (s *Scanner) scanConstant(first rune, tok Token, word mem.RO) bool {
	s.buf.WriteRune(first)
	_, _, err := s.readWhile(isNameRune)
	if err == nil {
		s.unrune()
	} else if err != io.EOF {
		return s.fail(err)
	}
	if got := mem.B(s.buf.Bytes()); !got.Equal(word) {
		return s.failf("unknown constant %q", got.StringCopy())
	}
	s.tok = tok
	return true
}

var constants = map[rune]struct {
	tok  Token
	word mem.RO
}{
	't': {True, mem.S("true")},
	'f': {False, mem.S("false")},
	'n': {Null, mem.S("null")},
}

func (s *Scanner) rune() (rune, error) {
	ch, nb, err := s.r.ReadRune()
	s.last = nb
	s.end += nb
	s.ecol += nb
	return ch, err
}

func (s *Scanner) unrune() {
	s.end -= s.last
	s.ecol -= s.last
	s.last = 0
	s.r.UnreadRune()
}

// require reads a single rune matching f from the input, or fails with an
// error mentioning the desired label.
func (s *Scanner) require(f func(rune) bool, label string) (rune, bool) {
	ch, err := s.rune()
	if err != nil {
		return 0, s.failf("want %s, got error: %w", label, err)
	} else if !f(ch) {
		s.unrune()
		return 0, s.failf("got %q, want %s", ch, label)
	}
	return ch, true
}

// readWhile consumes runes matching f from the input until EOF or until a rune
// not matching f is found. The first non-matching rune (if any) is returned,
// and the caller must unread it if it is not wanted.
// The int reports the number of runes consumed.
func (s *Scanner) readWhile(f func(rune) bool) (int, rune, error) {
	var nr int
	for {
		ch, err := s.rune()
		if err != nil {
			return nr, 0, err
		} else if !f(ch) {
			return nr, ch, nil
		}
		s.buf.WriteRune(ch)
		nr++
	}
}

// readHex4 reads exactly 4 hexadecimal digits from the input.
func (s *Scanner) readHex4() error {
	for range 4 {
		ch, err := s.rune()
		if err != nil {
			return err
		} else if !isHexDigit(ch) {
			return fmt.Errorf("not a hex digit: %q", ch)
		}
		s.buf.WriteRune(ch)
	}
	return nil
}

type posError struct {
	pos int
	err error
}

func (p posError) Error() string {
	return fmt.Sprintf("%s (offset %d)", p.err.Error(), p.pos)
}

func (p posError) Unwrap() error { return p.err }

// fail records err as the terminal error of s, and returns false.
func (s *Scanner) fail(err error) bool {
	s.tok = Invalid
	s.err = posError{s.end, err}
	return false
}

func (s *Scanner) failf(msg string, args ...any) bool {
	return s.fail(fmt.Errorf(msg, args...))
}

func isSpace(ch rune) bool    { return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t' }
func isNumStart(ch rune) bool { return ch == '-' || isDigit(ch) }
func isExpStart(ch rune) bool { return ch == '-' || ch == '+' || isDigit(ch) }
func isDigit(ch rune) bool    { return '0' <= ch && ch <= '9' }
func isNameRune(ch rune) bool { return ch >= 'a' && ch <= 'z' }

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// hasExtraLeadingZeroes reports whether the integer part of the number in buf
// has redundant leading zeroes: 0, -0 and 0.5 are fine; 00, -01 and 01.5 are
// not.
func hasExtraLeadingZeroes(buf []byte) bool {
	if buf[0] == '-' {
		buf = buf[1:]
	}
	return len(buf) > 1 && buf[0] == '0'
}

func selfDelim(ch rune) (Token, bool) {
	switch ch {
	case '{':
		return LBrace, true
	case '}':
		return RBrace, true
	case '[':
		return LSquare, true
	case ']':
		return RSquare, true
	case ',':
		return Comma, true
	case ':':
		return Colon, true
	}
	return Invalid, false
}

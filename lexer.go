// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdoc

import (
	"fmt"
	"io"
	"strings"

	"github.com/creachadair/mds/stack"
)

// A Lexer is a source of semantic JSON tokens. It reads lexical tokens from a
// Scanner, checks them against the JSON grammar, and reports only the tokens
// that carry structure or data:
//
//	Token            | Meaning
//	---------------- | -----------------------------------------
//	LBrace, RBrace   | start and end of an object
//	LSquare, RSquare | start and end of an array
//	String           | an object key or a string value
//	Integer, Number  | a number value
//	True, False      | a Boolean value
//	Null             | the null value
//	Invalid          | end of input, or an error (see Err)
//
// Commas and colons are consumed by the lexer and are never reported. Once an
// error occurs it is latched: Err reports it and every later token is Invalid.
type Lexer struct {
	s   *Scanner
	ctx *stack.Stack[*frame] // open containers, innermost on top

	multi bool // allow multiple top-level values
	nvals int  // number of complete top-level values

	peek   Token // lookahead token, if peeked
	peeked bool
	loc    Location // location of the lookahead token

	text []byte   // text of the current token
	cur  Location // location of the current token
	err  error
	done bool
}

// A frame records the grammatical state of an open object or array.
type frame struct {
	open  Token // LBrace or LSquare
	state state
}

type state byte

const (
	wantFirst      state = iota // first key or value, or close
	wantColon                   // colon after an object key
	wantItem                    // key or value after a comma
	wantCommaOrEnd              // comma or close after a member
)

// NewLexer constructs a Lexer that consumes input from r.
func NewLexer(r io.Reader) *Lexer { return NewLexerWithScanner(NewScanner(r)) }

// NewLexerWithScanner constructs a Lexer that consumes tokens from s.
func NewLexerWithScanner(s *Scanner) *Lexer {
	return &Lexer{s: s, ctx: stack.New[*frame]()}
}

// AllowMultiple configures the lexer to accept (true) or reject (false) more
// than one top-level value in its input. By default, any content after the
// first complete value is an error.
func (lx *Lexer) AllowMultiple(ok bool) { lx.multi = ok }

// Peek reports the type of the next token without consuming it.
func (lx *Lexer) Peek() Token {
	if !lx.peeked {
		lx.peek = lx.lookahead()
		lx.loc = lx.s.Location()
		lx.peeked = true
	}
	return lx.peek
}

// Next consumes and returns the next token.
func (lx *Lexer) Next() Token {
	tok := lx.Peek()
	lx.peeked = false
	lx.cur = lx.loc
	lx.text = lx.text[:0]
	if tok == Invalid {
		return tok
	}
	text, err := lx.s.Unescape()
	if err != nil {
		lx.fail(err, "invalid string: %v", err)
		return Invalid
	}
	lx.text = append(lx.text, text...)
	return tok
}

// Text returns the text of the most recent token returned by Next.  For a
// String the quotation marks are removed and escapes are decoded; for other
// tokens it is the source text. The slice is only valid until the next call
// of Next.
func (lx *Lexer) Text() []byte { return lx.text }

// Err returns the error that stopped the lexer, or nil. Reaching the end of
// well-formed input is not an error.
func (lx *Lexer) Err() error { return lx.err }

// Done reports whether the lexer has consumed all its input without error.
func (lx *Lexer) Done() bool { return lx.done && lx.err == nil }

// Location returns the location of the most recent token returned by Next.
func (lx *Lexer) Location() Location { return lx.cur }

// Depth reports the number of containers currently open.
func (lx *Lexer) Depth() int { return lx.ctx.Len() }

func (lx *Lexer) lookahead() Token {
	for lx.err == nil && !lx.done {
		top, ok := lx.ctx.Peek(0)
		if !ok {
			return lx.topLevel()
		}
		tok, eof := lx.scan()
		if eof {
			return lx.failf("unexpected end of input in %s", containerName(top.open))
		}
		end := closerOf(top.open)

		switch top.state {
		case wantFirst:
			if tok == end {
				return lx.pop()
			}
			if top.open == LBrace {
				return lx.key(top, tok, end)
			}
			top.state = wantCommaOrEnd
			return lx.value(tok, end)

		case wantItem:
			if top.open == LBrace {
				return lx.key(top, tok)
			}
			top.state = wantCommaOrEnd
			return lx.value(tok)

		case wantColon:
			if tok != Colon {
				return lx.failf("%v", tokLabel([]Token{Colon}, tok))
			}
			next, eof := lx.scan()
			if eof {
				return lx.failf("unexpected end of input in object")
			}
			top.state = wantCommaOrEnd
			return lx.value(next)

		case wantCommaOrEnd:
			switch tok {
			case end:
				return lx.pop()
			case Comma:
				top.state = wantItem
				continue
			}
			return lx.failf("%v", tokLabel([]Token{end, Comma}, tok))
		}
	}
	return Invalid
}

// topLevel handles a token outside any container.
func (lx *Lexer) topLevel() Token {
	tok, eof := lx.scan()
	if eof {
		lx.done = true
		return Invalid
	} else if lx.nvals > 0 && !lx.multi {
		return lx.failf("unexpected %v after top-level value", tok)
	}
	return lx.value(tok)
}

// key handles a token where an object key is required.
func (lx *Lexer) key(top *frame, tok Token, alt ...Token) Token {
	if tok != String {
		return lx.failf("%v", tokLabel(append(alt, String), tok))
	}
	top.state = wantColon
	return tok
}

// value handles a token where a value is required, opening a new container if
// it begins one.
func (lx *Lexer) value(tok Token, alt ...Token) Token {
	if !tok.IsValue() {
		if len(alt) != 0 {
			return lx.failf("%v", tokLabel(append(alt, Invalid), tok))
		}
		return lx.failf("unexpected %v", tok)
	}
	if tok == LBrace || tok == LSquare {
		lx.ctx.Push(&frame{open: tok, state: wantFirst})
	} else if lx.ctx.IsEmpty() {
		lx.nvals++
	}
	return tok
}

// pop closes the innermost container and returns its closing token.
func (lx *Lexer) pop() Token {
	top, _ := lx.ctx.Pop()
	if lx.ctx.IsEmpty() {
		lx.nvals++
	}
	return closerOf(top.open)
}

// scan reads the next lexical token. It reports eof true if no token is
// available; if that was due to an error, the error is latched.
func (lx *Lexer) scan() (_ Token, eof bool) {
	if lx.s.Next() {
		return lx.s.Token(), false
	}
	if err := lx.s.Err(); err != nil {
		lx.fail(err, "%v", err)
	}
	return Invalid, true
}

func (lx *Lexer) fail(err error, msg string, args ...any) Token {
	if lx.err == nil {
		lx.err = &SyntaxError{
			Location: lx.s.Location().First,
			Message:  fmt.Sprintf(msg, args...),
			err:      err,
		}
	}
	lx.peeked = false
	return Invalid
}

func (lx *Lexer) failf(msg string, args ...any) Token { return lx.fail(nil, msg, args...) }

func closerOf(open Token) Token {
	if open == LBrace {
		return RBrace
	}
	return RSquare
}

func containerName(open Token) string {
	if open == LBrace {
		return "object"
	}
	return "array"
}

// tokLabel makes a human-readable summary string for the given token types.
// An Invalid token in the list is rendered as "value".
func tokLabel(tokens []Token, got any) string {
	name := func(t Token) string {
		if t == Invalid {
			return "value"
		}
		return t.String()
	}
	if len(tokens) == 0 {
		return fmt.Sprint(got)
	}
	var exp string
	if len(tokens) == 1 {
		exp = name(tokens[0])
	} else {
		last := len(tokens) - 1
		ss := make([]string, last)
		for i, tok := range tokens[:last] {
			ss[i] = name(tok)
		}
		exp = strings.Join(ss, ", ") + " or " + name(tokens[last])
	}
	return fmt.Sprintf("expected %s, got %v", exp, got)
}

// SyntaxError is the concrete type of errors reported by the lexer.
type SyntaxError struct {
	Location LineCol
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

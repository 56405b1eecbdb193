// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package doc

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/creachadair/jdoc"
	"github.com/tailscale/hujson"
	"github.com/valyala/fastjson/fastfloat"
)

// A TokenSource delivers semantic JSON tokens to the parser, one at a time.
// The *jdoc.Lexer type implements this interface.
//
// Object and array boundaries are reported as jdoc.LBrace, jdoc.RBrace,
// jdoc.LSquare, and jdoc.RSquare; separators are not reported. Invalid marks
// the end of input or an error.
type TokenSource interface {
	// Peek reports the next token without consuming it.
	Peek() jdoc.Token

	// Next consumes and returns the next token.
	Next() jdoc.Token

	// Text returns the payload of the token most recently returned by Next.
	// For strings this is the decoded contents without quotation marks.
	Text() []byte

	// Err reports whether the source has failed.
	Err() error
}

// Parse consumes a single value from src and returns it, with all strings and
// entries allocated from a.
//
// Parse does not report errors. If src fails while an object or array is
// being parsed, the container is returned with the members read before the
// failure; if src fails before a value begins, Parse returns Null. Callers
// that require well-formed input must check src.Err after Parse returns.
//
// If an object contains duplicate keys, the last value for the key wins, and
// the key keeps the position of its first occurrence.
func Parse(src TokenSource, a Allocator) Value {
	v, _ := parseValue(src, a, src.Next())
	return v
}

// parseValue parses a value beginning with tok. It reports false if tok does
// not begin a value.
func parseValue(src TokenSource, a Allocator, tok jdoc.Token) (Value, bool) {
	var v Value
	switch tok {
	case jdoc.Null:
		v.kind = Null
	case jdoc.True, jdoc.False:
		v.kind = Boolean
		v.b = tok == jdoc.True
	case jdoc.Integer, jdoc.Number:
		v.kind = Number
		v.num = float32(fastfloat.ParseBestEffort(string(src.Text())))
	case jdoc.String:
		v.kind = String
	case jdoc.LBrace:
		v.kind = Object
	case jdoc.LSquare:
		v.kind = Array
	default:
		return Value{}, false
	}
	v.text = Own(a, src.Text())

	switch v.kind {
	case Object:
		for more(src, jdoc.RBrace) {
			if src.Next() != jdoc.String {
				break
			}
			key := Own(a, src.Text())
			elt, ok := parseValue(src, a, src.Next())
			if !ok {
				break
			}
			v.m.Upsert(key, a).value = elt
		}
		src.Next() // consume "}"

	case Array:
		var buf [20]byte
		for i := 0; more(src, jdoc.RSquare); i++ {
			elt, ok := parseValue(src, a, src.Next())
			if !ok {
				break
			}
			key := Own(a, strconv.AppendInt(buf[:0], int64(i), 10))
			v.m.Upsert(key, a).value = elt
		}
		src.Next() // consume "]"
	}
	return v, true
}

// more reports whether src has more content before the given end token.
func more(src TokenSource, end jdoc.Token) bool {
	tok := src.Peek()
	return tok != end && tok != jdoc.Invalid && src.Err() == nil
}

// Options control parsing of JSON text by ParseBytes and ParseAll.
// A nil *Options provides default values.
type Options struct {
	// Accept JSON With Commas and Comments (JWCC): line and block comments are
	// ignored, and objects and arrays may have trailing commas.
	JWCC bool
}

func (o *Options) jwcc() bool { return o != nil && o.JWCC }

func (o *Options) lexer(data []byte) (*jdoc.Lexer, error) {
	if o.jwcc() {
		std, err := hujson.Standardize(bytes.Clone(data))
		if err != nil {
			return nil, fmt.Errorf("invalid JWCC input: %w", err)
		}
		data = std
	}
	return jdoc.NewLexer(bytes.NewReader(data)), nil
}

// ParseBytes parses a single JSON value from data, with memory allocated from
// a. If a == nil, a new Arena is used.
//
// If data is not well-formed, ParseBytes returns whatever part of the value
// was parsed before the error, together with the error. Any content after the
// value, other than whitespace, is an error.
func ParseBytes(data []byte, a Allocator, opts *Options) (Value, error) {
	if a == nil {
		a = NewArena()
	}
	lx, err := opts.lexer(data)
	if err != nil {
		return Value{}, err
	}
	if lx.Peek() == jdoc.Invalid {
		if err := lx.Err(); err != nil {
			return Value{}, err
		}
		return Value{}, errors.New("no value in input")
	}
	v := Parse(lx, a)
	lx.Peek() // check for trailing content
	return v, lx.Err()
}

// ParseAll parses a sequence of JSON values from data, with memory allocated
// from a. If a == nil, a new Arena is used. In case of error, the values
// parsed before the error are returned, including a partial value if the
// error occurred inside it.
func ParseAll(data []byte, a Allocator, opts *Options) ([]Value, error) {
	if a == nil {
		a = NewArena()
	}
	lx, err := opts.lexer(data)
	if err != nil {
		return nil, err
	}
	lx.AllowMultiple(true)

	var vs []Value
	for lx.Peek() != jdoc.Invalid {
		vs = append(vs, Parse(lx, a))
		if lx.Err() != nil {
			break
		}
	}
	return vs, lx.Err()
}

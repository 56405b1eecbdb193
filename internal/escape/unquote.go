// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// Unquote decodes a byte slice containing the JSON encoding of a string. The
// input must have the enclosing double quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents. Invalid
// escapes are replaced by the Unicode replacement rune. Unquote reports an
// error for an incomplete escape sequence.
func Unquote(src mem.RO) ([]byte, error) {
	return AppendUnquote(make([]byte, 0, src.Len()), src)
}

// AppendUnquote behaves as Unquote, but appends the decoded text to dst and
// returns the updated slice. In case of error, dst is returned unmodified.
func AppendUnquote(dst []byte, src mem.RO) ([]byte, error) {
	dec := dst
	for {
		i := mem.IndexByte(src, '\\')
		if i < 0 {
			return mem.Append(dec, src), nil
		}
		dec = mem.Append(dec, src.SliceTo(i))

		var err error
		dec, src, err = appendEscape(dec, src.SliceFrom(i+1))
		if err != nil {
			return dst, err
		}
	}
}

// simple maps single-character escapes to the bytes they denote.
var simple = [256]byte{
	'"': '"', '\\': '\\', '/': '/',
	'b': '\b', 'f': '\f', 'n': '\n', 'r': '\r', 't': '\t',
}

// appendEscape decodes the escape sequence at the front of src, whose leading
// backslash has been removed. It returns the extended dec and the remainder of
// src following the escape.
func appendEscape(dec []byte, src mem.RO) ([]byte, mem.RO, error) {
	if src.Len() == 0 {
		return dec, src, errors.New("incomplete escape sequence")
	}
	r, n := mem.DecodeRune(src)
	src = src.SliceFrom(max(n, 1))
	if r < utf8.RuneSelf && simple[r] != 0 {
		return append(dec, simple[r]), src, nil
	} else if r != 'u' {
		return utf8.AppendRune(dec, utf8.RuneError), src, nil
	}

	if src.Len() < 4 {
		return dec, src, errors.New("incomplete Unicode escape")
	}
	v, err := parseHex(src.SliceTo(4))
	src = src.SliceFrom(4)
	if err != nil {
		return utf8.AppendRune(dec, utf8.RuneError), src, nil
	}

	// A high surrogate followed by an escaped low surrogate is a single code
	// point outside the basic plane.
	if utf16.IsSurrogate(v) && src.Len() >= 6 && mem.HasPrefix(src, mem.S(`\u`)) {
		if w, err := parseHex(src.Slice(2, 6)); err == nil {
			if c := utf16.DecodeRune(v, w); c != utf8.RuneError {
				return utf8.AppendRune(dec, c), src.SliceFrom(6), nil
			}
		}
	}
	return utf8.AppendRune(dec, v), src, nil
}

func parseHex(data mem.RO) (rune, error) {
	var v rune
	for i := range data.Len() {
		b := data.At(i)
		switch {
		case '0' <= b && b <= '9':
			b -= '0'
		case 'a' <= b && b <= 'f':
			b -= 'a' - 10
		case 'A' <= b && b <= 'F':
			b -= 'A' - 10
		default:
			return 0, fmt.Errorf("invalid hex digit %q", b)
		}
		v = v<<4 | rune(b)
	}
	return v, nil
}

// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package doc

import (
	"io"
	"strconv"

	"github.com/creachadair/jdoc/internal/escape"
	"github.com/valyala/bytebufferpool"
)

// JSON renders v as compact JSON text. Numbers are written using the text
// they were parsed from; strings are re-escaped as needed.
func (v Value) JSON() string {
	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	bb.B = v.AppendJSON(bb.B)
	return bb.String()
}

// WriteJSON writes the compact JSON encoding of v to w.
func (v Value) WriteJSON(w io.Writer) (int64, error) {
	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	bb.B = v.AppendJSON(bb.B)
	return bb.WriteTo(w)
}

// AppendJSON appends the compact JSON encoding of v to buf and returns the
// updated slice.
func (v Value) AppendJSON(buf []byte) []byte {
	switch v.kind {
	case Null:
		return append(buf, "null"...)
	case Boolean:
		return strconv.AppendBool(buf, v.b)
	case Number:
		if v.text.Len() == 0 {
			return strconv.AppendFloat(buf, float64(v.num), 'g', -1, 32)
		}
		return v.text.AppendTo(buf)
	case String:
		return appendQuoted(buf, v.text)
	case Object:
		buf = append(buf, '{')
		for e := v.m.head; e != nil; e = e.next {
			if e != v.m.head {
				buf = append(buf, ',')
			}
			buf = appendQuoted(buf, e.key)
			buf = append(buf, ':')
			buf = e.value.AppendJSON(buf)
		}
		return append(buf, '}')
	case Array:
		buf = append(buf, '[')
		for e := v.m.head; e != nil; e = e.next {
			if e != v.m.head {
				buf = append(buf, ',')
			}
			buf = e.value.AppendJSON(buf)
		}
		return append(buf, ']')
	}
	return buf
}

func appendQuoted(buf []byte, s Str) []byte {
	buf = append(buf, '"')
	buf = escape.AppendQuote(buf, s.RO())
	return append(buf, '"')
}

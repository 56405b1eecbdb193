// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package doc implements an in-memory JSON document model.
//
// A Value is a tagged union over the JSON types. Objects and arrays are both
// represented by a Map, a container that keeps its members in insertion
// order and also indexes them by a hash trie keyed on the member name. An
// array is a Map whose keys are the decimal strings "0", "1", "2", ... in
// order.
//
// Documents are built by Parse from a TokenSource, with all memory issued by
// an Allocator. A document is read-only once built, and may be shared by
// concurrent readers.
package doc

import (
	"fmt"

	"github.com/valyala/fastjson/fastfloat"
)

// Kind identifies the JSON type of a Value.
type Kind byte

// Constants defining the valid Kind values.
const (
	Null    Kind = iota // the null value
	Boolean             // true or false
	Number              // a number
	String              // a string
	Object              // an object of key-value members
	Array               // an array of values
)

var kindStr = [...]string{
	Null:    "null",
	Boolean: "boolean",
	Number:  "number",
	String:  "string",
	Object:  "object",
	Array:   "array",
}

func (k Kind) String() string {
	if int(k) < len(kindStr) {
		return kindStr[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// A Value is a JSON value. The zero Value is Null.
//
// Every value retains the text it was parsed from: for a string, the decoded
// contents without quotation marks; for numbers and constants, the source
// text; for objects and arrays, the opening delimiter.
type Value struct {
	kind Kind
	text Str
	b    bool
	num  float32
	m    Map
}

// Kind reports the type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.kind == Null }

// IsContainer reports whether v is an Object or an Array.
func (v Value) IsContainer() bool { return v.kind == Object || v.kind == Array }

// Text returns the text v was parsed from.
func (v Value) Text() Str { return v.text }

// Bool returns the Boolean value of v. It panics if v is not a Boolean.
func (v Value) Bool() bool { v.check(Boolean); return v.b }

// Float32 returns the numeric value of v. It panics if v is not a Number.
func (v Value) Float32() float32 { v.check(Number); return v.num }

// Int64 returns the value of v as an integer. If the text of v is not an
// integer, the numeric value is truncated toward zero. It panics if v is not
// a Number.
func (v Value) Int64() int64 {
	v.check(Number)
	s := v.text.String()
	if z, err := fastfloat.ParseInt64(s); err == nil {
		return z
	}
	return int64(fastfloat.ParseBestEffort(s))
}

// Str returns the contents of a string value. It panics if v is not a String.
func (v Value) Str() Str { v.check(String); return v.text }

// Map returns the members of an object or the elements of an array. It panics
// if v is neither an Object nor an Array.
func (v Value) Map() Map {
	if !v.IsContainer() {
		panic(fmt.Sprintf("doc: value is %v, not object or array", v.kind))
	}
	return v.m
}

// Len reports the number of members of an object or elements of an array.
// It returns 0 for any other value.
func (v Value) Len() int {
	if v.IsContainer() {
		return v.m.size
	}
	return 0
}

func (v Value) check(want Kind) {
	if v.kind != want {
		panic(fmt.Sprintf("doc: value is %v, not %v", v.kind, want))
	}
}

// String renders v for debugging. Numbers are formatted with six decimal
// places, strings are shown without quotation marks, and objects and arrays
// are shown as placeholders without their contents. Use JSON to render the
// complete value.
func (v Value) String() string {
	switch v.kind {
	case Null:
		return "null"
	case Boolean:
		if v.b {
			return "true"
		}
		return "false"
	case Number:
		return fmt.Sprintf("%f", v.num)
	case String:
		return v.text.String()
	case Object:
		return "{/*object*/}"
	case Array:
		return "[/*array*/]"
	}
	return v.kind.String()
}

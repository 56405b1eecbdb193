// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package doc

import "strings"

// Get returns the value at the given dotted path from v, for example
// "layers.0.width". Each segment of the path names a member of an object, or
// the decimal offset of an element of an array.
//
// Get returns Null if v is not an object, if any segment is not found, or if
// the path continues past a value that is neither an object nor an array.
// Arrays are indexed only below the root. Get never allocates or modifies v.
func Get(v Value, path string) Value {
	if v.Kind() != Object {
		return Value{}
	}
	for {
		if !v.IsContainer() {
			return Value{}
		}
		key, rest, more := strings.Cut(path, ".")
		e := v.m.Lookup(Borrow(key))
		if e == nil {
			return Value{}
		} else if !more {
			return e.value
		}
		v, path = e.value, rest
	}
}

// Has reports whether v has a value at the given dotted path. Unlike Get, it
// distinguishes a member whose value is null from a missing member.
func Has(v Value, path string) bool {
	if v.Kind() != Object {
		return false
	}
	for {
		if !v.IsContainer() {
			return false
		}
		key, rest, more := strings.Cut(path, ".")
		e := v.m.Lookup(Borrow(key))
		if e == nil {
			return false
		} else if !more {
			return true
		}
		v, path = e.value, rest
	}
}

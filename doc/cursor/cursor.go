// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements traversal over the structure of a document.
package cursor

import (
	"fmt"

	"github.com/creachadair/jdoc/doc"
)

// Path traverses a sequential path into the structure of v where path elements
// are as documented for the Cursor.Down method.  This is a convenience wrapper
// for creating a cursor, applying path, and retrieving its value.
func Path(v doc.Value, path ...any) (doc.Value, error) {
	c := New(v).Down(path...)
	return c.Value(), c.Err()
}

// PathKind is as Path, but also reports an error if the value reached does not
// have the given kind.
func PathKind(v doc.Value, kind doc.Kind, path ...any) (doc.Value, error) {
	out, err := Path(v, path...)
	if err != nil {
		return out, err
	} else if out.Kind() != kind {
		return out, fmt.Errorf("wrong value type %v, want %v", out.Kind(), kind)
	}
	return out, nil
}

// A Cursor is a pointer that navigates into the structure of a doc.Value.
type Cursor struct {
	org doc.Value
	stk []doc.Value
	err error
}

// New constructs a new Cursor to traverse the structure of origin.
func New(origin doc.Value) *Cursor { return &Cursor{org: origin} }

// Origin returns the origin value of c.
func (c *Cursor) Origin() doc.Value { return c.org }

// AtOrigin reports whether c is at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.stk) == 0 }

// Value reports the current value under the cursor.
func (c *Cursor) Value() doc.Value {
	if c.AtOrigin() {
		return c.org
	}
	return c.stk[len(c.stk)-1]
}

// Path reports the complete sequence of values from the origin to the current
// location in c.
func (c *Cursor) Path() []doc.Value {
	return append([]doc.Value{c.org}, c.stk...)
}

// Err reports the error from the most recent traversal operation, if any.
func (c *Cursor) Err() error { return c.err }

// Up moves the cursor one position upward in the structure, if possible.
// It returns c to permit chaining.
func (c *Cursor) Up() *Cursor {
	if n := len(c.stk); n > 0 {
		c.stk = c.stk[:n-1]
	}
	return c
}

// Reset resets the cursor to its origin and clears its error.
func (c *Cursor) Reset() { c.stk = c.stk[:0]; c.err = nil }

// Down traverses a sequential path into the structure of c starting from the
// current value, where path elements are either strings (denoting object
// keys), integers (denoting offsets into arrays), or functions (see below).
// If the path cannot be completely consumed, traversal stops at the last
// value reached and an error is recorded. Use Err to recover the error.
//
// If a path element is a string, the corresponding value must be an object
// or an array, and the string resolves a member with that key. Array elements
// have the keys "0", "1", and so on.
//
// If a path element is an integer, the corresponding value must be an array
// or object, and the integer resolves to an offset in insertion order.
// Negative offsets count backward from the end (-1 is last, -2 second last).
// An error is reported if the offset is out of bounds.
//
// If a path element is a function, the function is executed and its result
// becomes the next value in the sequence. The function must have a signature
//
//	func(doc.Value) (doc.Value, error)
//
// If the function reports an error, traversal stops and the error is recorded.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil // reset error
	cur := c.Value()
	for _, elt := range path {
		switch t := elt.(type) {
		case string:
			if !cur.IsContainer() {
				return c.setErrorf("cannot traverse %v with %q", cur.Kind(), t)
			}
			e := cur.Map().Find(t)
			if e == nil {
				return c.setErrorf("key %q not found", t)
			}
			cur = c.push(e.Value())

		case int:
			if !cur.IsContainer() {
				return c.setErrorf("cannot traverse %v with %d", cur.Kind(), t)
			}
			e := nth(cur, t)
			if e == nil {
				return c.setErrorf("%v index %d out of bounds (n=%d)", cur.Kind(), t, cur.Len())
			}
			cur = c.push(e.Value())

		case func(doc.Value) (doc.Value, error):
			next, err := t(cur)
			if err != nil {
				c.err = err
				return c
			}
			cur = c.push(next)

		default:
			return c.setErrorf("invalid path element %T", elt)
		}
	}
	return c
}

// nth returns the entry at offset i of v in insertion order.
func nth(v doc.Value, i int) *doc.Entry {
	m := v.Map()
	if v.Kind() == doc.Array {
		return m.Index(i)
	}
	if i < 0 {
		i += m.Len()
	}
	if i < 0 || i >= m.Len() {
		return nil
	}
	e := m.Head()
	for ; i > 0; i-- {
		e = e.Next()
	}
	return e
}

func (c *Cursor) push(v doc.Value) doc.Value { c.stk = append(c.stk, v); return v }

func (c *Cursor) setErrorf(msg string, args ...any) *Cursor {
	c.err = fmt.Errorf(msg, args...)
	return c
}

// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package doc

import (
	"iter"
	"strconv"
)

// A Map is a collection of key-value members, used to represent both objects
// and arrays. A zero Map is empty and ready for use.
//
// Each member is a single Entry that is linked both into a list in insertion
// order and into a trie indexed by the hash of its key. The first member
// inserted is the head of the list and also the root of the trie. Each level
// of the trie consumes the two high-order bits of the remaining hash, so a
// lookup costs time logarithmic in the number of members. Beyond 32 levels
// the hash is exhausted, and keys whose hashes agree in every bit are found
// by a linear scan of the zero branch.
//
// A Map does not support removal of members, and is not safe for concurrent
// use while it is being modified.
type Map struct {
	head *Entry // first entry in insertion order; root of the trie
	tail *Entry // last entry in insertion order
	size int
}

// An Entry is a single key-value member of a Map.
type Entry struct {
	child [4]*Entry // trie links
	key   Str
	value Value
	next  *Entry // next entry in insertion order
}

// Key returns the key of e.
func (e *Entry) Key() Str { return e.key }

// Value returns the value of e.
func (e *Entry) Value() Value { return e.value }

// SetValue replaces the value of e.
func (e *Entry) SetValue(v Value) { e.value = v }

// Next returns the entry following e in insertion order, or nil if e is the
// last entry of its map.
func (e *Entry) Next() *Entry { return e.next }

// Upsert looks up the entry of m whose key is equal to key.
//
// If such an entry exists, Upsert returns it, and the caller may replace its
// value. Otherwise, if a is nil, Upsert returns nil. Otherwise, Upsert
// allocates a new entry from a with the given key and a Null value, appends
// it to m, and returns it. The key is stored as given, so it must outlive m.
func (m *Map) Upsert(key Str, a Allocator) *Entry {
	slot := &m.head
	for h := Hash64(key); ; h <<= 2 {
		cur := *slot
		if cur == nil {
			if a == nil {
				return nil
			}
			e := a.NewEntry()
			e.key = key
			*slot = e
			if m.tail != nil {
				m.tail.next = e
			}
			m.tail = e
			m.size++
			return e
		}
		if cur.key.Equal(key) {
			return cur
		}
		slot = &cur.child[h>>62]
	}
}

// Lookup returns the entry of m whose key is equal to key, or nil.
func (m Map) Lookup(key Str) *Entry { return m.Upsert(key, nil) }

// Find returns the entry of m whose key is equal to key, or nil.
func (m Map) Find(key string) *Entry { return m.Upsert(Borrow(key), nil) }

// Index returns the array element at offset i, or nil if there is none.
// Negative offsets count backward from the end of m (-1 is last).
func (m Map) Index(i int) *Entry {
	if i < 0 {
		i += m.size
	}
	if i < 0 || i >= m.size {
		return nil
	}
	var buf [20]byte
	return m.Upsert(BorrowBytes(strconv.AppendInt(buf[:0], int64(i), 10)), nil)
}

// Len reports the number of entries in m.
func (m Map) Len() int { return m.size }

// Head returns the first entry of m in insertion order, or nil if m is empty.
func (m Map) Head() *Entry { return m.head }

// All returns an iterator over the keys and values of m in insertion order.
func (m Map) All() iter.Seq2[Str, Value] {
	return func(yield func(Str, Value) bool) {
		for e := m.head; e != nil; e = e.next {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// Entries returns an iterator over the entries of m in insertion order.
func (m Map) Entries() iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		for e := m.head; e != nil; e = e.next {
			if !yield(e) {
				return
			}
		}
	}
}

// Keys returns an iterator over the keys of m in insertion order.
func (m Map) Keys() iter.Seq[Str] {
	return func(yield func(Str) bool) {
		for e := m.head; e != nil; e = e.next {
			if !yield(e.key) {
				return
			}
		}
	}
}

// Values returns an iterator over the values of m in insertion order.
func (m Map) Values() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		for e := m.head; e != nil; e = e.next {
			if !yield(e.value) {
				return
			}
		}
	}
}

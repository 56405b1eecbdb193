// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package doc

import (
	"go4.org/mem"
)

// A Str is a read-only view of a string of bytes. The length of the view is
// authoritative; its contents need not be NUL-terminated.
//
// A Str either borrows memory owned by its caller (see Borrow and
// BorrowBytes), or owns a copy issued by an Allocator (see Own). A Str does
// not record which: a borrowed Str is meant for lookups, and must not be
// stored in a document whose lifetime exceeds the memory it borrows.
type Str struct{ ro mem.RO }

// Borrow returns a Str that aliases s. No allocation is performed.
func Borrow(s string) Str { return Str{ro: mem.S(s)} }

// BorrowBytes returns a Str that aliases b. No allocation is performed. The
// caller must not modify b while the Str is in use.
func BorrowBytes(b []byte) Str { return Str{ro: mem.B(b)} }

// Own returns a Str holding a copy of b in memory issued by a. The copy is
// followed by a NUL byte that is not counted in the length of the Str.
func Own(a Allocator, b []byte) Str {
	buf := a.Alloc(len(b) + 1)
	copy(buf, b)
	buf[len(b)] = 0
	return Str{ro: mem.B(buf[:len(b)])}
}

// OwnString is as Own, but copies a string.
func OwnString(a Allocator, s string) Str {
	buf := a.Alloc(len(s) + 1)
	copy(buf, s)
	buf[len(s)] = 0
	return Str{ro: mem.B(buf[:len(s)])}
}

// Len reports the length of s in bytes.
func (s Str) Len() int { return s.ro.Len() }

// At returns the byte at offset i of s.
func (s Str) At(i int) byte { return s.ro.At(i) }

// Equal reports whether s and t have the same length and identical bytes.
func (s Str) Equal(t Str) bool { return s.ro.Equal(t.ro) }

// EqualString reports whether s has the same contents as t.
func (s Str) EqualString(t string) bool { return s.ro.EqualString(t) }

// String returns a copy of the contents of s as a string.
func (s Str) String() string { return s.ro.StringCopy() }

// AppendTo appends the contents of s to dst and returns the updated slice.
func (s Str) AppendTo(dst []byte) []byte { return mem.Append(dst, s.ro) }

// RO returns a read-only view of the contents of s.
func (s Str) RO() mem.RO { return s.ro }

// Hash64 computes the 64-bit structural hash of s used to place object keys.
// It is deterministic and not suitable where keys may be adversarial.
// Each byte is mixed in as an unsigned value in 0..255, so keys with bytes
// at or above 0x80 hash the same on every platform.
func Hash64(s Str) uint64 {
	const seed = 0x100
	const mul = 1111111111111111111

	h := uint64(seed)
	for i := 0; i < s.ro.Len(); i++ {
		h ^= uint64(s.ro.At(i))
		h *= mul
	}
	return h ^ h>>32
}

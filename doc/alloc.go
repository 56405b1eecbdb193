// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package doc

import "github.com/creachadair/jdoc/arena"

// An Allocator issues the memory for a document. It has no way to free an
// individual allocation: memory is reclaimed in bulk, when the allocator (and
// every value built from it) is no longer referenced.
//
// Passing a nil Allocator to Map.Upsert selects lookup-only behavior.
type Allocator interface {
	// Alloc returns a writable buffer of length n, not shared with any other
	// buffer issued by the allocator.
	Alloc(n int) []byte

	// NewEntry returns a pointer to a fresh zero Entry.
	NewEntry() *Entry
}

// An Arena is an Allocator that issues strings and entries from large shared
// blocks. A zero Arena is ready for use. An Arena is not safe for concurrent
// use by multiple goroutines.
type Arena struct {
	bytes   arena.Bytes
	entries arena.Slab[Entry]
}

// NewArena constructs a new empty Arena.
func NewArena() *Arena { return new(Arena) }

// Alloc implements part of the Allocator interface.
func (a *Arena) Alloc(n int) []byte { return a.bytes.Alloc(n) }

// NewEntry implements part of the Allocator interface.
func (a *Arena) NewEntry() *Entry { return a.entries.New() }

// Reset discards the storage held by a, so that it may be reused to parse
// another document. Documents previously built from a remain valid.
func (a *Arena) Reset() { a.bytes.Reset(); a.entries.Reset() }

// ArenaStats records allocation statistics for an Arena.
type ArenaStats struct {
	Bytes   int64 // total bytes issued for strings
	Entries int   // total map entries issued
	Blocks  int   // total entry blocks allocated
}

// Stats reports allocation statistics for a.
func (a *Arena) Stats() ArenaStats {
	return ArenaStats{
		Bytes:   a.bytes.Issued(),
		Entries: a.entries.Issued(),
		Blocks:  a.entries.Blocks(),
	}
}

// heapAllocator is an Allocator that uses the garbage-collected heap for each
// allocation.
type heapAllocator struct{}

func (heapAllocator) Alloc(n int) []byte { return make([]byte, n) }
func (heapAllocator) NewEntry() *Entry   { return new(Entry) }

// Heap is an Allocator that makes an individual heap allocation for every
// request. It is safe for concurrent use.
var Heap Allocator = heapAllocator{}

// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package arena

// DefaultSlabSize is the number of values per block in a zero Slab.
const DefaultSlabSize = 256

// A Slab is a bulk allocator for values of type T. A zero Slab is ready for
// use and allocates DefaultSlabSize values per block.
type Slab[T any] struct {
	perBlock int
	block    []T
	nblocks  int
	issued   int
}

// NewSlab constructs a Slab that allocates perBlock values at a time. If
// perBlock <= 0, DefaultSlabSize is used.
func NewSlab[T any](perBlock int) *Slab[T] { return &Slab[T]{perBlock: perBlock} }

// New returns a pointer to a fresh zero value of type T.
func (s *Slab[T]) New() *T {
	if len(s.block) == cap(s.block) {
		n := s.perBlock
		if n <= 0 {
			n = DefaultSlabSize
		}
		s.block = make([]T, 0, n)
		s.nblocks++
	}
	s.block = s.block[:len(s.block)+1]
	s.issued++
	return &s.block[len(s.block)-1]
}

// Issued reports the number of values issued by s since it was created or
// last reset.
func (s *Slab[T]) Issued() int { return s.issued }

// Blocks reports the number of blocks s has allocated since it was created or
// last reset.
func (s *Slab[T]) Blocks() int { return s.nblocks }

// Reset discards the current block of s. Values previously issued remain
// valid for their holders.
func (s *Slab[T]) Reset() {
	s.block = nil
	s.nblocks = 0
	s.issued = 0
}

// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package arena implements bulk allocators whose memory is released all at
// once rather than piece by piece.
//
// A Bytes allocator issues byte buffers carved from large shared blocks. A
// Slab issues pointers to values of a single type, likewise carved from
// shared blocks. Neither supports freeing an individual allocation: callers
// drop everything at once with Reset, or by dropping the allocator.
package arena

// DefaultBlockBytes is the block size used by a zero Bytes allocator.
const DefaultBlockBytes = 16384

// Bytes is a bulk allocator for byte buffers. A zero Bytes is ready for use
// and allocates in blocks of DefaultBlockBytes.
type Bytes struct {
	blockBytes int
	blocks     [][]byte
	issued     int64
}

// NewBytes constructs a Bytes allocator that carves buffers from blocks of
// the given size. If blockBytes <= 0, DefaultBlockBytes is used.
func NewBytes(blockBytes int) *Bytes {
	return &Bytes{blockBytes: blockBytes}
}

func (b *Bytes) blockSize() int {
	if b.blockBytes <= 0 {
		return DefaultBlockBytes
	}
	return b.blockBytes
}

// Alloc returns a zeroed writable buffer of length and capacity n. The buffer
// shares no storage with any other buffer issued by b.
func (b *Bytes) Alloc(n int) []byte {
	const minBlockSlop = 4
	const smallSizeFraction = 16

	if n <= 0 {
		return nil
	}
	b.issued += int64(n)
	bufBlockBytes := b.blockSize()

	// For requests bigger than smallSizeFraction of the block size, don't
	// bother batching, make an outright allocation.
	if n >= bufBlockBytes/smallSizeFraction {
		return make([]byte, n)
	}

	// Look for a block with space enough to hold n bytes.
	i := 0
	for i < len(b.blocks) {
		if len(b.blocks[i])+n <= cap(b.blocks[i]) {
			// There is room in this block.
			break
		} else if cap(b.blocks[i])-len(b.blocks[i]) < minBlockSlop {
			// There is no room in this block, but it is nearly-enough full.
			// Allocate a fresh block at this location and release the old one.
			// The old block will be retained until all its buffers are released.
			b.blocks[i] = make([]byte, 0, bufBlockBytes)
			break
		}
		i++
	}
	if i == len(b.blocks) {
		// No block had room; add a new empty one to the arena.
		b.blocks = append(b.blocks, make([]byte, 0, bufBlockBytes))
	}
	p := len(b.blocks[i])
	b.blocks[i] = b.blocks[i][:p+n]
	return b.blocks[i][p : p+n : p+n]
}

// Copy returns a copy of text allocated from b.
func (b *Bytes) Copy(text []byte) []byte {
	buf := b.Alloc(len(text))
	copy(buf, text)
	return buf
}

// Issued reports the total number of bytes issued by b since it was created
// or last reset.
func (b *Bytes) Issued() int64 { return b.issued }

// Reset discards all the blocks held by b. Buffers previously issued remain
// valid for their holders, but b no longer refers to them.
func (b *Bytes) Reset() {
	b.blocks = nil
	b.issued = 0
}

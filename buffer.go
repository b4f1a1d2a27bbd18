// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jflat

// A Sink is an append-only destination for the output of a Writer.
type Sink interface {
	// Append appends all of p to the sink, or nothing. If p does not fit in
	// the remaining space, Append reports ErrBufferFull.
	Append(p []byte) error

	// Space reports the number of bytes the sink can still accept.
	Space() int
}

// A Buffer is a Sink of fixed capacity backed by a caller-provided array.
// The zero value is a buffer with no capacity.
type Buffer struct {
	buf []byte
}

// NewBuffer returns a Buffer that writes into the storage of buf. The
// capacity of the buffer is cap(buf); its existing contents are discarded.
func NewBuffer(buf []byte) *Buffer { return &Buffer{buf: buf[:0]} }

// Append satisfies the Sink interface.
func (b *Buffer) Append(p []byte) error {
	if len(p) > b.Space() {
		return ErrBufferFull
	}
	b.buf = append(b.buf, p...)
	return nil
}

// Space satisfies the Sink interface.
func (b *Buffer) Space() int { return cap(b.buf) - len(b.buf) }

// Len reports the number of bytes written to b.
func (b *Buffer) Len() int { return len(b.buf) }

// Cap reports the total capacity of b.
func (b *Buffer) Cap() int { return cap(b.buf) }

// Bytes returns the contents of b. The result aliases the storage of b.
func (b *Buffer) Bytes() []byte { return b.buf }

// String returns a copy of the contents of b as a string.
func (b *Buffer) String() string { return string(b.buf) }

// Reset discards the contents of b, retaining its capacity.
func (b *Buffer) Reset() { b.buf = b.buf[:0] }

// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package memory

import (
	"errors"
	"fmt"
	"iter"
)

// DefaultBufferCapacity is the initial capacity of a Buffer when none is
// configured.
const DefaultBufferCapacity = 64 * 1024

var (
	// ErrBufferFull is reported when an append cannot be satisfied because
	// growth is disallowed and the remaining capacity is exhausted. No
	// partial record is left observable.
	ErrBufferFull = errors.New("buffer full")

	// ErrCorruptItem is reported when bytes presented as an Item violate
	// the header or alignment invariants.
	ErrCorruptItem = errors.New("corrupt item")
)

// Buffer is an owned, growable byte region storing a committed sequence of
// Items. Every byte from offset zero to the committed watermark is a
// sequence of valid, fully-formed, padding-respecting Items with no gaps.
// Bytes between the committed watermark and the write cursor are staged:
// a record under construction that iteration does not yet see.
type Buffer struct {
	data      []byte
	committed int
	written   int
	fixed     bool
}

// BufferOption configures how a Buffer is set up.
type BufferOption func(*bufferOptions)

type bufferOptions struct {
	capacity int
	fixed    bool
}

// WithCapacity sets the initial capacity of the buffer's backing storage.
func WithCapacity(n int) BufferOption {
	return func(o *bufferOptions) {
		o.capacity = n
	}
}

// WithFixedCapacity sets the capacity of the backing storage and disallows
// growth; appends beyond it report ErrBufferFull.
func WithFixedCapacity(n int) BufferOption {
	return func(o *bufferOptions) {
		o.capacity = n
		o.fixed = true
	}
}

// NewBuffer returns an empty Buffer.
func NewBuffer(opts ...BufferOption) *Buffer {
	cfg := bufferOptions{capacity: DefaultBufferCapacity}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Buffer{
		data:  make([]byte, 0, cfg.capacity),
		fixed: cfg.fixed,
	}
}

// Append stages the bytes of one fully-formed, padded Item at the write
// cursor. The slice must span exactly the item's declared size: trailing
// bytes would commit as a gap between records and break iteration.
// The record becomes visible to iteration on the next Commit.
// Growth may relocate the backing storage, invalidating any previously
// obtained byte slice.
func (b *Buffer) Append(item []byte) error {
	parsed, err := NewItem(item)
	if err != nil {
		return err
	}

	if parsed.Size() != len(item) {
		return fmt.Errorf("%w: declared size %d does not match slice length %d",
			ErrCorruptItem, parsed.Size(), len(item))
	}

	dst, err := b.Extend(len(item))
	if err != nil {
		return err
	}

	copy(dst, item)

	return nil
}

// Extend reserves n zeroed writable bytes at the write cursor and returns
// them, advancing the cursor. Callers fill the returned slice in place;
// the slice is invalidated by any subsequent append. n must be a multiple
// of Align; padding is never computed here.
func (b *Buffer) Extend(n int) ([]byte, error) {
	if n%Align != 0 {
		panic(fmt.Sprintf("extend of %d bytes violates %d-byte alignment", n, Align))
	}

	if err := b.grow(n); err != nil {
		return nil, err
	}

	start := b.written
	b.written += n
	b.data = b.data[:b.written]

	dst := b.data[start:b.written]
	clear(dst)

	return dst, nil
}

func (b *Buffer) grow(n int) error {
	need := b.written + n
	if need <= cap(b.data) {
		return nil
	}

	if b.fixed {
		return fmt.Errorf("%w: %d bytes needed, %d available", ErrBufferFull, n, cap(b.data)-b.written)
	}

	capacity := max(cap(b.data), DefaultBufferCapacity/16)
	for capacity < need {
		capacity *= 2
	}

	data := make([]byte, b.written, capacity)
	copy(data, b.data)
	b.data = data

	return nil
}

// Commit finalizes everything staged since the previous commit as
// retrievable Items and returns the byte offset the committed region
// started at.
func (b *Buffer) Commit() int {
	start := b.committed
	b.committed = b.written

	return start
}

// Discard drops all staged bytes, rewinding the write cursor to the
// committed watermark. It is the failure path of an incremental producer:
// no partial record is ever observable.
func (b *Buffer) Discard() {
	b.written = b.committed
	b.data = b.data[:b.written]
}

// Clear resets the buffer to empty, logically destroying all contained
// Items. The backing storage is retained for reuse.
func (b *Buffer) Clear() {
	b.committed = 0
	b.written = 0
	b.data = b.data[:0]
}

// Committed returns the number of committed bytes.
func (b *Buffer) Committed() int {
	return b.committed
}

// Written returns the write cursor: committed plus staged bytes.
func (b *Buffer) Written() int {
	return b.written
}

// Cap returns the capacity of the backing storage.
func (b *Buffer) Cap() int {
	return cap(b.data)
}

// Bytes returns the committed region. The slice is invalidated by any
// subsequent append.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.committed]
}

// Window returns the bytes from off to the write cursor. Builders use it
// to back-patch records under construction; the slice is invalidated by
// any subsequent append.
func (b *Buffer) Window(off int) []byte {
	return b.data[off:b.written]
}

// Iterator returns a CollectionIterator over the committed region.
func (b *Buffer) Iterator() *CollectionIterator {
	return NewCollectionIterator(b.Bytes())
}

// Items returns a range-over-func sequence of the committed Items, in
// append order.
func (b *Buffer) Items() iter.Seq[Item] {
	return Items(b.Bytes())
}

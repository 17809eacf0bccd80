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
	"fmt"
	"iter"
)

// CollectionIterator walks a contiguous region of Items, advancing by each
// item's padded size. The same iterator serves top-level Buffer traversal
// and traversal of an entity's nested sub-item region.
//
// The iterator is forward-only and not restartable in place; restart by
// constructing a new iterator over the original region. A region handed to
// the iterator must consist solely of fully-formed Items: a malformed
// header is a programming error and panics.
type CollectionIterator struct {
	region []byte
	pos    int
}

// NewCollectionIterator returns an iterator over region, positioned at its
// first Item.
func NewCollectionIterator(region []byte) *CollectionIterator {
	return &CollectionIterator{region: region}
}

// Next returns the Item at the current position and advances past it.
// It reports false once the end of the region is reached.
func (it *CollectionIterator) Next() (Item, bool) {
	if it.pos >= len(it.region) {
		return Item{}, false
	}

	item, err := NewItem(it.region[it.pos:])
	if err != nil {
		panic(fmt.Sprintf("corrupt item at offset %d: %v", it.pos, err))
	}

	it.pos += item.Size()

	return item, true
}

// Pos returns the current byte position within the region.
func (it *CollectionIterator) Pos() int {
	return it.pos
}

// Equal reports positional equality with another iterator over the same
// region.
func (it *CollectionIterator) Equal(other *CollectionIterator) bool {
	return it.pos == other.pos
}

// Items returns a range-over-func sequence of the Items in region. Each
// call produces a fresh traversal from the start of the region.
func Items(region []byte) iter.Seq[Item] {
	return func(yield func(Item) bool) {
		it := NewCollectionIterator(region)

		for {
			item, ok := it.Next()
			if !ok {
				return
			}

			if !yield(item) {
				return
			}
		}
	}
}

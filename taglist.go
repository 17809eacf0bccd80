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

package osmbuf

import (
	"encoding/binary"
	"iter"

	"m4o.io/osmbuf/memory"
)

// Tag is one key/value attribute pair.
type Tag struct {
	Key   string
	Value string
}

// TagList is the sub-item holding an entity's attribute tags as an
// ordered sequence of key/value pairs. Insertion order is preserved and
// duplicate keys are not deduplicated. The zero TagList iterates as
// empty.
//
// Entry layout: a uint16 key length, a uint16 value length, the key
// bytes, the value bytes, padded to the alignment boundary.
type TagList struct {
	item memory.Item
	ok   bool
}

// Item returns the underlying record; for the zero TagList the returned
// item has size zero.
func (tl TagList) Item() memory.Item {
	return tl.item
}

// All returns the tags in insertion order.
func (tl TagList) All() iter.Seq[Tag] {
	return func(yield func(Tag) bool) {
		if !tl.ok {
			return
		}

		payload := tl.item.Payload()

		for pos := 0; pos < len(payload); {
			klen := int(binary.LittleEndian.Uint16(payload[pos:]))
			vlen := int(binary.LittleEndian.Uint16(payload[pos+2:]))

			tag := Tag{
				Key:   string(payload[pos+4 : pos+4+klen]),
				Value: string(payload[pos+4+klen : pos+4+klen+vlen]),
			}

			if !yield(tag) {
				return
			}

			pos += memory.PaddedLength(4 + klen + vlen)
		}
	}
}

// Len returns the number of tags.
func (tl TagList) Len() int {
	var n int
	for range tl.All() {
		n++
	}

	return n
}

// Get returns the value of the first tag with the given key.
func (tl TagList) Get(key string) (string, bool) {
	for tag := range tl.All() {
		if tag.Key == key {
			return tag.Value, true
		}
	}

	return "", false
}

// tagEntrySize is the padded size of one tag entry.
func tagEntrySize(key, value string) int {
	return memory.PaddedLength(4 + len(key) + len(value))
}

// putTagEntry encodes one tag entry at dst, which must span at least
// tagEntrySize bytes.
func putTagEntry(dst []byte, key, value string) {
	binary.LittleEndian.PutUint16(dst, uint16(len(key)))
	binary.LittleEndian.PutUint16(dst[2:4], uint16(len(value)))
	copy(dst[4:], key)
	copy(dst[4+len(key):], value)
}

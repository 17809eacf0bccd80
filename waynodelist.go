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

// wayNodeEntrySize is the fixed entry stride: an int64 ref, an encoded
// location, a resolution flag, and padding.
const wayNodeEntrySize = 24

const wayNodeResolved = 1

// WayNode is one node reference within a WayNodeList. The view mutates
// the list in place, which is how an enrichment step attaches resolved
// locations.
type WayNode struct {
	data []byte
}

// Ref returns the referenced node identifier.
func (wn WayNode) Ref() int64 {
	return int64(binary.LittleEndian.Uint64(wn.data))
}

// Location returns the resolved location of the referenced node. It
// reports false when no enrichment step has attached one; a resolved but
// undefined location reports true with Defined() false.
func (wn WayNode) Location() (Location, bool) {
	if wn.data[16] != wayNodeResolved {
		return Location{}, false
	}

	return locationAt(wn.data[8:16]), true
}

// SetLocation attaches a resolved location to the reference.
func (wn WayNode) SetLocation(loc Location) {
	loc.put(wn.data[8:16])
	wn.data[16] = wayNodeResolved
}

// WayNodeList is the sub-item holding a way's ordered node references.
// The zero WayNodeList iterates as empty.
type WayNodeList struct {
	item memory.Item
	ok   bool
}

// Item returns the underlying record; for the zero WayNodeList the
// returned item has size zero.
func (l WayNodeList) Item() memory.Item {
	return l.item
}

// All returns the node references in insertion order.
func (l WayNodeList) All() iter.Seq[WayNode] {
	return func(yield func(WayNode) bool) {
		if !l.ok {
			return
		}

		payload := l.item.Payload()

		for pos := 0; pos+wayNodeEntrySize <= len(payload); pos += wayNodeEntrySize {
			if !yield(WayNode{data: payload[pos : pos+wayNodeEntrySize]}) {
				return
			}
		}
	}
}

// Len returns the number of node references.
func (l WayNodeList) Len() int {
	if !l.ok {
		return 0
	}

	return len(l.item.Payload()) / wayNodeEntrySize
}

// putWayNodeEntry encodes one unresolved node reference at dst, which
// must span at least wayNodeEntrySize bytes.
func putWayNodeEntry(dst []byte, ref int64) {
	binary.LittleEndian.PutUint64(dst, uint64(ref))
	UndefinedLocation().put(dst[8:16])
}

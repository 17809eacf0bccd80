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
	"encoding/binary"
	"fmt"
)

// HeaderSize is the size of the fixed Item header: a uint32 padded total
// size, a uint16 type tag, and two reserved bytes, little endian.
const HeaderSize = 8

// ItemType is the runtime type tag carried by every Item. The set of
// concrete types is closed and fixed by the data model.
type ItemType uint16

// Item type tags. The sub-collection tags deliberately occupy a separate
// range from the entity tags.
const (
	Undefined ItemType = 0x00

	Node     ItemType = 0x01
	Way      ItemType = 0x02
	Relation ItemType = 0x03

	TagList            ItemType = 0x11
	WayNodeList        ItemType = 0x12
	RelationMemberList ItemType = 0x13
)

func (t ItemType) String() string {
	switch t {
	case Undefined:
		return "undefined"
	case Node:
		return "node"
	case Way:
		return "way"
	case Relation:
		return "relation"
	case TagList:
		return "tag_list"
	case WayNodeList:
		return "way_node_list"
	case RelationMemberList:
		return "relation_member_list"
	default:
		return fmt.Sprintf("unknown(0x%02x)", uint16(t))
	}
}

// Entity reports whether the tag denotes a top-level map entity rather
// than a nested sub-collection.
func (t ItemType) Entity() bool {
	return t == Node || t == Way || t == Relation
}

// Item is a bounds-checked view over one padded record. The view spans
// exactly the record's padded size; it never aliases a neighboring record.
type Item struct {
	data []byte
}

// NewItem constructs an Item view over the record starting at data[0].
// The declared size must cover at least the header, be a multiple of
// Align, and fit within data; anything else reports ErrCorruptItem.
func NewItem(data []byte) (Item, error) {
	if len(data) < HeaderSize {
		return Item{}, fmt.Errorf("%w: %d bytes left, need at least %d", ErrCorruptItem, len(data), HeaderSize)
	}

	size := int(binary.LittleEndian.Uint32(data))

	switch {
	case size < HeaderSize:
		return Item{}, fmt.Errorf("%w: declared size %d below header size", ErrCorruptItem, size)
	case size%Align != 0:
		return Item{}, fmt.Errorf("%w: declared size %d not aligned to %d", ErrCorruptItem, size, Align)
	case size > len(data):
		return Item{}, fmt.Errorf("%w: declared size %d exceeds region of %d", ErrCorruptItem, size, len(data))
	}

	return Item{data: data[:size]}, nil
}

// Size returns the item's total padded size in bytes, header included.
// This is the only valid stride for advancing to the next Item.
func (i Item) Size() int {
	return len(i.data)
}

// Type returns the item's runtime type tag.
func (i Item) Type() ItemType {
	return ItemType(binary.LittleEndian.Uint16(i.data[4:6]))
}

// Payload returns the item's bytes after the fixed header.
func (i Item) Payload() []byte {
	return i.data[HeaderSize:]
}

// Bytes returns the full padded record, header included. Appending the
// returned bytes to another Buffer yields an identical Item.
func (i Item) Bytes() []byte {
	return i.data
}

// PutItemHeader writes an Item header for typ with the given total padded
// size at dst[0:HeaderSize].
func PutItemHeader(dst []byte, typ ItemType, size int) {
	binary.LittleEndian.PutUint32(dst, uint32(size))
	binary.LittleEndian.PutUint16(dst[4:6], uint16(typ))
	binary.LittleEndian.PutUint16(dst[6:8], 0)
}

// PutItemSize back-patches the size field of an Item header at dst.
func PutItemSize(dst []byte, size int) {
	binary.LittleEndian.PutUint32(dst, uint32(size))
}

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
	"fmt"
	"iter"

	"m4o.io/osmbuf/memory"
)

// memberHeaderSize is the fixed prefix of a member entry: an int64 ref, a
// uint16 member type, a uint16 flags word, and a uint32 role length. The
// role bytes follow, padded, and when the full-member flag is set a
// complete nested entity record follows the role.
const memberHeaderSize = 16

const memberFull = 1

// RelationMember is one member within a RelationMemberList.
type RelationMember struct {
	data []byte // from the entry start to the end of the list payload
}

// Ref returns the referenced entity identifier.
func (m RelationMember) Ref() int64 {
	return int64(binary.LittleEndian.Uint64(m.data))
}

// MemberType returns the referenced entity's type tag.
func (m RelationMember) MemberType() memory.ItemType {
	return memory.ItemType(binary.LittleEndian.Uint16(m.data[8:10]))
}

func (m RelationMember) flags() uint16 {
	return binary.LittleEndian.Uint16(m.data[10:12])
}

func (m RelationMember) roleLen() int {
	return int(binary.LittleEndian.Uint32(m.data[12:16]))
}

// Role returns the member's role within the relation.
func (m RelationMember) Role() string {
	return string(m.data[memberHeaderSize : memberHeaderSize+m.roleLen()])
}

// FullObject returns the complete member entity when an enrichment step
// has attached one. It reports false otherwise; callers must check
// presence before use.
func (m RelationMember) FullObject() (Object, bool) {
	if m.flags()&memberFull == 0 {
		return Object{}, false
	}

	item, err := memory.NewItem(m.data[m.rolePadded():])
	if err != nil {
		panic(fmt.Sprintf("corrupt full member record: %v", err))
	}

	obj, err := ObjectFromItem(item)
	if err != nil {
		panic(err)
	}

	return obj, true
}

func (m RelationMember) rolePadded() int {
	return memory.PaddedLength(memberHeaderSize + m.roleLen())
}

// size is the entry stride: the padded role block plus, for a full
// member, the nested entity record.
func (m RelationMember) size() int {
	size := m.rolePadded()

	if m.flags()&memberFull != 0 {
		item, err := memory.NewItem(m.data[size:])
		if err != nil {
			panic(fmt.Sprintf("corrupt full member record: %v", err))
		}

		size += item.Size()
	}

	return size
}

// RelationMemberList is the sub-item holding a relation's ordered
// membership. The zero RelationMemberList iterates as empty.
type RelationMemberList struct {
	item memory.Item
	ok   bool
}

// Item returns the underlying record; for the zero RelationMemberList the
// returned item has size zero.
func (l RelationMemberList) Item() memory.Item {
	return l.item
}

// All returns the members in insertion order.
func (l RelationMemberList) All() iter.Seq[RelationMember] {
	return func(yield func(RelationMember) bool) {
		if !l.ok {
			return
		}

		payload := l.item.Payload()

		for pos := 0; pos < len(payload); {
			member := RelationMember{data: payload[pos:]}

			if !yield(member) {
				return
			}

			pos += member.size()
		}
	}
}

// Len returns the number of members.
func (l RelationMemberList) Len() int {
	var n int
	for range l.All() {
		n++
	}

	return n
}

// memberEntrySize is the padded size of one member entry without a full
// member record.
func memberEntrySize(role string) int {
	return memory.PaddedLength(memberHeaderSize + len(role))
}

// putMemberEntry encodes one member entry at dst, which must span at
// least memberEntrySize(role) bytes.
func putMemberEntry(dst []byte, typ memory.ItemType, ref int64, role string, full bool) {
	binary.LittleEndian.PutUint64(dst, uint64(ref))
	binary.LittleEndian.PutUint16(dst[8:10], uint16(typ))

	var flags uint16
	if full {
		flags |= memberFull
	}

	binary.LittleEndian.PutUint16(dst[10:12], flags)
	binary.LittleEndian.PutUint32(dst[12:16], uint32(len(role)))
	copy(dst[memberHeaderSize:], role)
}

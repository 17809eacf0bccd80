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
	"math"
	"time"

	"m4o.io/osmbuf/memory"
)

// entityBuilder incrementally lays an entity record out in a Buffer:
// fixed metadata fields, then the inline user name, then sub-items, in
// that order. The record stays staged until Commit; a failed append
// discards every staged byte so no partial record is ever observable.
//
// The layout makes the ordering physical: the user name cannot change
// once a sub-item has been opened, and misuse panics rather than
// corrupting the record.
type entityBuilder struct {
	buf   *memory.Buffer
	typ   memory.ItemType
	start int // absolute offset of the record's item header
	size  int // current total record size, mirrored into the header

	nameBlock int // padded size of the inline name block
	nameSet   bool

	sub     *listBuilder
	written map[memory.ItemType]bool

	err       error
	committed bool
}

func newEntityBuilder(buf *memory.Buffer, typ memory.ItemType) (*entityBuilder, error) {
	fixed := objectFixedSize
	if typ == memory.Node {
		fixed = nodeFixedSize
	}

	// fixed fields plus an empty name block
	total := memory.HeaderSize + fixed + memory.PaddedLength(4)

	start := buf.Written()

	dst, err := buf.Extend(total)
	if err != nil {
		buf.Discard()

		return nil, fmt.Errorf("cannot begin %s record: %w", typ, err)
	}

	memory.PutItemHeader(dst, typ, total)

	b := &entityBuilder{
		buf:       buf,
		typ:       typ,
		start:     start,
		size:      total,
		nameBlock: memory.PaddedLength(4),
		written:   make(map[memory.ItemType]bool),
	}

	if typ == memory.Node {
		UndefinedLocation().put(dst[memory.HeaderSize+locationOffset:])
	}

	return b, nil
}

// extend grows the staged record by n bytes and keeps the record's size
// header consistent, so the staged bytes always parse as a valid Item.
func (b *entityBuilder) extend(n int) ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}

	dst, err := b.buf.Extend(n)
	if err != nil {
		b.err = err

		b.buf.Discard()

		return nil, err
	}

	b.size += n
	memory.PutItemSize(b.buf.Window(b.start), b.size)

	return dst, nil
}

// object returns a fresh view over the staged record. Views are
// reconstructed per use because growth may relocate the backing storage.
func (b *entityBuilder) object() Object {
	b.mustBeLive()

	item, err := memory.NewItem(b.buf.Window(b.start))
	if err != nil {
		panic(fmt.Sprintf("staged record invalid: %v", err))
	}

	return Object{item: item}
}

func (b *entityBuilder) mustBeLive() {
	if b.committed {
		panic("builder already committed")
	}

	if b.err != nil {
		panic(fmt.Sprintf("builder failed earlier: %v", b.err))
	}
}

// SetID sets the entity identifier.
func (b *entityBuilder) SetID(id int64) { b.object().SetID(id) }

// SetVersion sets the entity version, preserving the deleted flag.
func (b *entityBuilder) SetVersion(version uint32) { b.object().SetVersion(version) }

// SetDeleted marks the entity deleted or not, preserving the version.
func (b *entityBuilder) SetDeleted(deleted bool) { b.object().SetDeleted(deleted) }

// SetVisible is defined as SetDeleted of the negation.
func (b *entityBuilder) SetVisible(visible bool) { b.object().SetVisible(visible) }

// SetTimestamp sets the time the entity last changed.
func (b *entityBuilder) SetTimestamp(t time.Time) { b.object().SetTimestamp(t) }

// SetUID sets the user identifier.
func (b *entityBuilder) SetUID(uid uint32) { b.object().SetUID(uid) }

// SetUIDFromSigned sets the user identifier, clamping negative input to
// zero.
func (b *entityBuilder) SetUIDFromSigned(uid int32) { b.object().SetUIDFromSigned(uid) }

// SetChangeset sets the changeset identifier.
func (b *entityBuilder) SetChangeset(changeset int64) { b.object().SetChangeset(changeset) }

// SetAttribute dispatches a textual attribute to the matching typed
// setter; unrecognized names are silently ignored.
func (b *entityBuilder) SetAttribute(name, value string) error {
	return b.object().SetAttribute(name, value)
}

// SetUser writes the inline user name. It must be called at most once,
// and before any sub-item is opened: the name is part of the record's
// variable-length tail and everything after it would shift.
func (b *entityBuilder) SetUser(name string) error {
	b.mustBeLive()

	if b.nameSet {
		panic("user name already set")
	}

	if b.sub != nil || len(b.written) > 0 {
		panic("user name must be set before sub-items")
	}

	newBlock := memory.PaddedLength(4 + len(name))

	if delta := newBlock - b.nameBlock; delta > 0 {
		if _, err := b.extend(delta); err != nil {
			return err
		}
	}

	obj := b.object()
	payload := obj.item.Payload()
	fixed := obj.fixedSize()

	binary.LittleEndian.PutUint32(payload[fixed:], uint32(len(name)))
	copy(payload[fixed+4:], name)

	b.nameBlock = newBlock
	b.nameSet = true

	return nil
}

// openList starts a nested sub-item of the given type, closing any
// previously open one. Each sub-item type may be written once per entity.
func (b *entityBuilder) openList(typ memory.ItemType) (*listBuilder, error) {
	b.mustBeLive()

	if b.written[typ] {
		panic(fmt.Sprintf("%s already written", typ))
	}

	b.closeSub()

	start := b.buf.Written()

	if _, err := b.extend(memory.HeaderSize); err != nil {
		return nil, err
	}

	memory.PutItemHeader(b.buf.Window(start), typ, memory.HeaderSize)

	lb := &listBuilder{parent: b, start: start, size: memory.HeaderSize}

	b.sub = lb
	b.written[typ] = true

	return lb, nil
}

func (b *entityBuilder) closeSub() {
	if b.sub != nil {
		b.sub.closed = true
		b.sub = nil
	}
}

// commit finalizes the record: any still-missing required sub-items are
// written empty, the record becomes visible to iteration, and the builder
// is dead afterwards. Required lists exist on every committed entity by
// construction, so accessors never face a missing one.
func (b *entityBuilder) commit(required ...memory.ItemType) error {
	b.mustBeLive()

	for _, typ := range required {
		if !b.written[typ] {
			if _, err := b.openList(typ); err != nil {
				return err
			}
		}
	}

	b.closeSub()
	b.buf.Commit()
	b.committed = true

	return nil
}

// committedItem returns the record view after a successful commit.
func (b *entityBuilder) committedItem() memory.Item {
	item, err := memory.NewItem(b.buf.Bytes()[b.start:])
	if err != nil {
		panic(fmt.Sprintf("committed record invalid: %v", err))
	}

	return item
}

// listBuilder appends entries to an open sub-item, back-patching the
// list's size and the enclosing entity's size as it grows.
type listBuilder struct {
	parent *entityBuilder
	start  int
	size   int
	closed bool
}

func (lb *listBuilder) extendEntry(n int) ([]byte, error) {
	if lb.closed {
		panic("sub-item already closed")
	}

	dst, err := lb.parent.extend(n)
	if err != nil {
		return nil, err
	}

	lb.size += n
	memory.PutItemSize(lb.parent.buf.Window(lb.start), lb.size)

	return dst, nil
}

// TagListBuilder appends key/value pairs to an entity's TagList.
type TagListBuilder struct {
	lb *listBuilder
}

// Add appends one tag. Insertion order is preserved; duplicate keys are
// kept. Keys and values are each limited to 64 KiB by the entry's
// uint16 length fields.
func (t *TagListBuilder) Add(key, value string) error {
	if len(key) > math.MaxUint16 || len(value) > math.MaxUint16 {
		return fmt.Errorf("%w: tag key or value exceeds %d bytes", ErrParse, math.MaxUint16)
	}

	dst, err := t.lb.extendEntry(tagEntrySize(key, value))
	if err != nil {
		return err
	}

	putTagEntry(dst, key, value)

	return nil
}

// WayNodeListBuilder appends node references to a way's WayNodeList.
type WayNodeListBuilder struct {
	lb *listBuilder
}

// Add appends one node reference with no resolved location.
func (w *WayNodeListBuilder) Add(ref int64) error {
	dst, err := w.lb.extendEntry(wayNodeEntrySize)
	if err != nil {
		return err
	}

	putWayNodeEntry(dst, ref)

	return nil
}

// AddWithLocation appends one node reference with a resolved location.
func (w *WayNodeListBuilder) AddWithLocation(ref int64, loc Location) error {
	dst, err := w.lb.extendEntry(wayNodeEntrySize)
	if err != nil {
		return err
	}

	putWayNodeEntry(dst, ref)
	WayNode{data: dst}.SetLocation(loc)

	return nil
}

// RelationMemberListBuilder appends members to a relation's
// RelationMemberList.
type RelationMemberListBuilder struct {
	lb *listBuilder
}

// Add appends one member reference.
func (r *RelationMemberListBuilder) Add(typ memory.ItemType, ref int64, role string) error {
	if !typ.Entity() {
		return fmt.Errorf("%w: %s is not a member type", ErrParse, typ)
	}

	dst, err := r.lb.extendEntry(memberEntrySize(role))
	if err != nil {
		return err
	}

	putMemberEntry(dst, typ, ref, role, false)

	return nil
}

// AddFull appends one member carrying the complete member entity, as
// attached by an enrichment step. The entity's record is copied into the
// list; it must already be committed in its own buffer.
func (r *RelationMemberListBuilder) AddFull(ref int64, role string, full Object) error {
	entry := memberEntrySize(role)
	record := full.Item().Bytes()

	dst, err := r.lb.extendEntry(entry + len(record))
	if err != nil {
		return err
	}

	putMemberEntry(dst, full.Type(), ref, role, true)
	copy(dst[entry:], record)

	return nil
}

// NodeBuilder incrementally appends one Node record to a Buffer.
type NodeBuilder struct {
	*entityBuilder
}

// NewNodeBuilder begins a Node record at buf's write cursor.
func NewNodeBuilder(buf *memory.Buffer) (*NodeBuilder, error) {
	b, err := newEntityBuilder(buf, memory.Node)
	if err != nil {
		return nil, err
	}

	return &NodeBuilder{entityBuilder: b}, nil
}

// SetLocation sets the node's geographic location.
func (nb *NodeBuilder) SetLocation(loc Location) {
	Node{nb.object()}.SetLocation(loc)
}

// Tags opens the node's TagList.
func (nb *NodeBuilder) Tags() (*TagListBuilder, error) {
	lb, err := nb.openList(memory.TagList)
	if err != nil {
		return nil, err
	}

	return &TagListBuilder{lb: lb}, nil
}

// Commit finalizes the record and returns the committed Node.
func (nb *NodeBuilder) Commit() (Node, error) {
	if err := nb.commit(memory.TagList); err != nil {
		return Node{}, err
	}

	return NodeFromItem(nb.committedItem())
}

// WayBuilder incrementally appends one Way record to a Buffer.
type WayBuilder struct {
	*entityBuilder
}

// NewWayBuilder begins a Way record at buf's write cursor.
func NewWayBuilder(buf *memory.Buffer) (*WayBuilder, error) {
	b, err := newEntityBuilder(buf, memory.Way)
	if err != nil {
		return nil, err
	}

	return &WayBuilder{entityBuilder: b}, nil
}

// Tags opens the way's TagList.
func (wb *WayBuilder) Tags() (*TagListBuilder, error) {
	lb, err := wb.openList(memory.TagList)
	if err != nil {
		return nil, err
	}

	return &TagListBuilder{lb: lb}, nil
}

// Nodes opens the way's WayNodeList.
func (wb *WayBuilder) Nodes() (*WayNodeListBuilder, error) {
	lb, err := wb.openList(memory.WayNodeList)
	if err != nil {
		return nil, err
	}

	return &WayNodeListBuilder{lb: lb}, nil
}

// Commit finalizes the record and returns the committed Way.
func (wb *WayBuilder) Commit() (Way, error) {
	if err := wb.commit(memory.TagList, memory.WayNodeList); err != nil {
		return Way{}, err
	}

	return WayFromItem(wb.committedItem())
}

// RelationBuilder incrementally appends one Relation record to a Buffer.
type RelationBuilder struct {
	*entityBuilder
}

// NewRelationBuilder begins a Relation record at buf's write cursor.
func NewRelationBuilder(buf *memory.Buffer) (*RelationBuilder, error) {
	b, err := newEntityBuilder(buf, memory.Relation)
	if err != nil {
		return nil, err
	}

	return &RelationBuilder{entityBuilder: b}, nil
}

// Tags opens the relation's TagList.
func (rb *RelationBuilder) Tags() (*TagListBuilder, error) {
	lb, err := rb.openList(memory.TagList)
	if err != nil {
		return nil, err
	}

	return &TagListBuilder{lb: lb}, nil
}

// Members opens the relation's RelationMemberList.
func (rb *RelationBuilder) Members() (*RelationMemberListBuilder, error) {
	lb, err := rb.openList(memory.RelationMemberList)
	if err != nil {
		return nil, err
	}

	return &RelationMemberListBuilder{lb: lb}, nil
}

// Commit finalizes the record and returns the committed Relation.
func (rb *RelationBuilder) Commit() (Relation, error) {
	if err := rb.commit(memory.TagList, memory.RelationMemberList); err != nil {
		return Relation{}, err
	}

	return RelationFromItem(rb.committedItem())
}

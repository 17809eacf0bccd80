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
	"strconv"
	"time"

	"m4o.io/osmbuf/memory"
)

// TimestampFormat is the textual form entity timestamps round-trip
// through. The record itself stores seconds since epoch.
const TimestampFormat = "2006-01-02T15:04:05Z"

// Fixed metadata field offsets within an entity's payload. The fields are
// ordered widest first so every field is naturally aligned.
const (
	idOffset             = 0
	timestampOffset      = 8
	changesetOffset      = 16
	deletedVersionOffset = 24
	uidOffset            = 28
	locationOffset       = 32 // nodes only

	objectFixedSize = 32
	nodeFixedSize   = objectFixedSize + locationSize
)

// Object is the common view over the entity record layout shared by Node,
// Way, and Relation: the fixed metadata fields, the inline user name, and
// the nested sub-item region. An Object never exists outside the Buffer
// holding its bytes.
type Object struct {
	item memory.Item
}

// ObjectFromItem decodes the common entity view from an Item, reporting
// an error when the item's tag is not an entity tag.
func ObjectFromItem(item memory.Item) (Object, error) {
	if !item.Type().Entity() {
		return Object{}, fmt.Errorf("item of type %s is not an entity", item.Type())
	}

	return Object{item: item}, nil
}

// Item returns the underlying record.
func (o Object) Item() memory.Item {
	return o.item
}

// Type returns the entity's runtime type tag.
func (o Object) Type() memory.ItemType {
	return o.item.Type()
}

// fixedSize is the size of the fixed metadata fields, which for nodes
// includes the one embedded location slot.
func (o Object) fixedSize() int {
	if o.item.Type() == memory.Node {
		return nodeFixedSize
	}

	return objectFixedSize
}

// ID returns the entity identifier.
func (o Object) ID() int64 {
	return int64(binary.LittleEndian.Uint64(o.item.Payload()[idOffset:]))
}

// SetID sets the entity identifier.
func (o Object) SetID(id int64) {
	binary.LittleEndian.PutUint64(o.item.Payload()[idOffset:], uint64(id))
}

// SetIDString sets the entity identifier from its textual form.
func (o Object) SetIDString(s string) error {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not an id", ErrParse, s)
	}

	o.SetID(id)

	return nil
}

func (o Object) deletedVersion() DeletedVersion {
	return DeletedVersion(binary.LittleEndian.Uint32(o.item.Payload()[deletedVersionOffset:]))
}

func (o Object) setDeletedVersion(dv DeletedVersion) {
	binary.LittleEndian.PutUint32(o.item.Payload()[deletedVersionOffset:], uint32(dv))
}

// Version returns the entity version. The deleted bit never leaks into
// the result.
func (o Object) Version() uint32 {
	return o.deletedVersion().Version()
}

// SetVersion sets the entity version, preserving the deleted flag.
func (o Object) SetVersion(version uint32) {
	o.setDeletedVersion(o.deletedVersion().WithVersion(version))
}

// SetVersionString sets the entity version from its textual form.
func (o Object) SetVersionString(s string) error {
	version, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return fmt.Errorf("%w: %q is not a version", ErrParse, s)
	}

	o.SetVersion(uint32(version))

	return nil
}

// Deleted reports whether the entity is marked deleted.
func (o Object) Deleted() bool {
	return o.deletedVersion().Deleted()
}

// SetDeleted marks the entity deleted or not, preserving the version.
func (o Object) SetDeleted(deleted bool) {
	o.setDeletedVersion(o.deletedVersion().WithDeleted(deleted))
}

// Visible is the logical negation of Deleted.
func (o Object) Visible() bool {
	return o.deletedVersion().Visible()
}

// SetVisible is defined as SetDeleted of the negation.
func (o Object) SetVisible(visible bool) {
	o.SetDeleted(!visible)
}

// SetVisibleString accepts exactly "true" or "false"; anything else
// reports ErrParse.
func (o Object) SetVisibleString(s string) error {
	switch s {
	case "true":
		o.SetVisible(true)
	case "false":
		o.SetVisible(false)
	default:
		return fmt.Errorf("%w: visible must be \"true\" or \"false\", got %q", ErrParse, s)
	}

	return nil
}

// Timestamp returns the time the entity last changed, at second
// precision, in UTC.
func (o Object) Timestamp() time.Time {
	return time.Unix(int64(binary.LittleEndian.Uint64(o.item.Payload()[timestampOffset:])), 0).UTC()
}

// SetTimestamp sets the time the entity last changed. Only whole seconds
// since epoch are stored.
func (o Object) SetTimestamp(t time.Time) {
	binary.LittleEndian.PutUint64(o.item.Payload()[timestampOffset:], uint64(t.Unix()))
}

// SetTimestampString sets the timestamp from its ISO 8601 textual form.
func (o Object) SetTimestampString(s string) error {
	t, err := time.Parse(TimestampFormat, s)
	if err != nil {
		return fmt.Errorf("%w: %q is not a timestamp", ErrParse, s)
	}

	o.SetTimestamp(t)

	return nil
}

// UID returns the user identifier; zero means anonymous.
func (o Object) UID() uint32 {
	return binary.LittleEndian.Uint32(o.item.Payload()[uidOffset:])
}

// SetUID sets the user identifier.
func (o Object) SetUID(uid uint32) {
	binary.LittleEndian.PutUint32(o.item.Payload()[uidOffset:], uid)
}

// SetUIDFromSigned sets the user identifier from a signed value, clamping
// negative input to zero (anonymous) rather than failing.
func (o Object) SetUIDFromSigned(uid int32) {
	if uid < 0 {
		uid = 0
	}

	o.SetUID(uint32(uid))
}

// SetUIDString sets the user identifier from its textual form.
func (o Object) SetUIDString(s string) error {
	uid, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return fmt.Errorf("%w: %q is not a uid", ErrParse, s)
	}

	o.SetUID(uint32(uid))

	return nil
}

// UserIsAnonymous reports whether the entity was changed anonymously.
func (o Object) UserIsAnonymous() bool {
	return o.UID() == 0
}

// Changeset returns the changeset identifier.
func (o Object) Changeset() int64 {
	return int64(binary.LittleEndian.Uint64(o.item.Payload()[changesetOffset:]))
}

// SetChangeset sets the changeset identifier.
func (o Object) SetChangeset(changeset int64) {
	binary.LittleEndian.PutUint64(o.item.Payload()[changesetOffset:], uint64(changeset))
}

// SetChangesetString sets the changeset identifier from its textual form.
func (o Object) SetChangesetString(s string) error {
	changeset, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not a changeset", ErrParse, s)
	}

	o.SetChangeset(changeset)

	return nil
}

// nameLen returns the byte length of the inline user name.
func (o Object) nameLen() int {
	return int(binary.LittleEndian.Uint32(o.item.Payload()[o.fixedSize():]))
}

// User returns the name of the user who last changed the entity. The
// name is stored inline, after the fixed fields, padded to the alignment
// boundary.
func (o Object) User() string {
	start := o.fixedSize() + 4

	return string(o.item.Payload()[start : start+o.nameLen()])
}

// subItemsOffset is where the nested sub-item region starts within the
// payload.
func (o Object) subItemsOffset() int {
	return o.fixedSize() + memory.PaddedLength(4+o.nameLen())
}

// SubItems returns the entity's nested sub-items in storage order.
func (o Object) SubItems() iter.Seq[memory.Item] {
	return memory.Items(o.item.Payload()[o.subItemsOffset():])
}

// Tags locates the entity's TagList. Every committed entity has exactly
// one by construction; for an entity still being built the zero TagList
// is returned, which iterates as empty.
func (o Object) Tags() TagList {
	for item := range o.SubItems() {
		if item.Type() == memory.TagList {
			return TagList{item: item, ok: true}
		}
	}

	return TagList{}
}

// SetAttribute dispatches value to the typed setter matching name. The
// recognized names are id, version, changeset, timestamp, uid, and
// visible; unrecognized names are silently ignored so a generic attribute
// stream can be fed through without filtering.
func (o Object) SetAttribute(name, value string) error {
	switch name {
	case "id":
		return o.SetIDString(value)
	case "version":
		return o.SetVersionString(value)
	case "changeset":
		return o.SetChangesetString(value)
	case "timestamp":
		return o.SetTimestampString(value)
	case "uid":
		return o.SetUIDString(value)
	case "visible":
		return o.SetVisibleString(value)
	default:
		return nil
	}
}

// Less orders entities by the absolute value of their identifier, and for
// equal identifiers by version ascending. Note that identifiers of equal
// magnitude and opposite sign are mutually not-less; callers sorting mixed
// positive and negative identifiers must not assume a strict total order.
func (o Object) Less(other Object) bool {
	return (o.ID() == other.ID() && o.Version() < other.Version()) ||
		absID(o.ID()) < absID(other.ID())
}

func absID(id int64) int64 {
	if id < 0 {
		return -id
	}

	return id
}

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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmbuf/memory"
)

// testNode commits a bare node into a fresh buffer and returns its view.
func testNode(t *testing.T) Node {
	t.Helper()

	buf := memory.NewBuffer()

	nb, err := NewNodeBuilder(buf)
	require.NoError(t, err)

	node, err := nb.Commit()
	require.NoError(t, err)

	return node
}

func TestObjectVersionAndDeletedShareOneWord(t *testing.T) {
	obj := testNode(t).Object

	obj.SetVersion(7)
	obj.SetDeleted(true)
	assert.Equal(t, uint32(7), obj.Version(), "deleting must not perturb version")
	assert.True(t, obj.Deleted())
	assert.False(t, obj.Visible())

	obj.SetVersion(8)
	assert.True(t, obj.Deleted(), "version must not perturb deleted")

	obj.SetVisible(true)
	assert.False(t, obj.Deleted())
	assert.Equal(t, uint32(8), obj.Version())
}

func TestObjectUIDClamping(t *testing.T) {
	obj := testNode(t).Object

	obj.SetUIDFromSigned(-5)
	assert.Zero(t, obj.UID())
	assert.True(t, obj.UserIsAnonymous())

	obj.SetUIDFromSigned(5)
	assert.Equal(t, uint32(5), obj.UID())
	assert.False(t, obj.UserIsAnonymous())
}

func TestObjectSetAttribute(t *testing.T) {
	obj := testNode(t).Object

	attrs := map[string]string{
		"id":        "-123",
		"version":   "4",
		"changeset": "99",
		"timestamp": "2013-06-14T07:31:00Z",
		"uid":       "17",
		"visible":   "false",
		"k":         "ignored by design",
	}

	for name, value := range attrs {
		require.NoError(t, obj.SetAttribute(name, value))
	}

	assert.Equal(t, int64(-123), obj.ID())
	assert.Equal(t, uint32(4), obj.Version())
	assert.Equal(t, int64(99), obj.Changeset())
	assert.Equal(t, "2013-06-14T07:31:00Z", obj.Timestamp().Format(TimestampFormat))
	assert.Equal(t, uint32(17), obj.UID())
	assert.False(t, obj.Visible())
}

func TestObjectSetAttributeParseErrors(t *testing.T) {
	obj := testNode(t).Object

	tests := []struct {
		name  string
		value string
	}{
		{"id", "seventeen"},
		{"version", "-1"},
		{"changeset", "4.2"},
		{"timestamp", "last tuesday"},
		{"uid", "-1"},
		{"visible", "maybe"},
	}

	for _, tt := range tests {
		assert.ErrorIs(t, obj.SetAttribute(tt.name, tt.value), ErrParse, "attribute %s", tt.name)
	}
}

func TestObjectVisibleString(t *testing.T) {
	obj := testNode(t).Object

	require.NoError(t, obj.SetVisibleString("false"))
	assert.True(t, obj.Deleted())

	require.NoError(t, obj.SetVisibleString("true"))
	assert.False(t, obj.Deleted())

	assert.ErrorIs(t, obj.SetVisibleString("TRUE"), ErrParse)
}

func TestObjectOrdering(t *testing.T) {
	make := func(id int64, version uint32) Object {
		obj := testNode(t).Object
		obj.SetID(id)
		obj.SetVersion(version)

		return obj
	}

	v1 := make(5, 1)
	v2 := make(5, 2)

	assert.True(t, v1.Less(v2), "same id orders version-ascending")
	assert.False(t, v2.Less(v1))

	neg := make(-5, 1)
	pos := make(5, 1)
	six := make(6, 1)

	assert.True(t, neg.Less(six), "ordering uses the id magnitude")
	assert.True(t, pos.Less(six))

	// ids of equal magnitude and opposite sign: neither is less. This is
	// the documented behavior, preserved as-is.
	assert.False(t, pos.Less(neg))
	assert.False(t, neg.Less(pos))
}

func TestObjectFromItemRejectsSubItems(t *testing.T) {
	node := testNode(t)

	for item := range node.SubItems() {
		_, err := ObjectFromItem(item)
		assert.Error(t, err)
	}

	_, err := WayFromItem(node.Item())
	assert.Error(t, err)

	_, err = RelationFromItem(node.Item())
	assert.Error(t, err)

	_, err = NodeFromItem(node.Item())
	assert.NoError(t, err)
}

func TestObjectTagsDefensiveOnZeroValue(t *testing.T) {
	var tags TagList

	assert.Zero(t, tags.Len())

	_, ok := tags.Get("anything")
	assert.False(t, ok)
}

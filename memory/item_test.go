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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rawItem lays out a padded record of the given type whose payload holds
// the supplied bytes.
func rawItem(typ ItemType, payload []byte) []byte {
	size := PaddedLength(HeaderSize + len(payload))
	data := make([]byte, size)
	PutItemHeader(data, typ, size)
	copy(data[HeaderSize:], payload)

	return data
}

func TestNewItem(t *testing.T) {
	data := rawItem(TagList, []byte("abc"))

	item, err := NewItem(data)
	require.NoError(t, err)

	assert.Equal(t, TagList, item.Type())
	assert.Equal(t, 16, item.Size())
	assert.Equal(t, byte('a'), item.Payload()[0])
	assert.Equal(t, data, item.Bytes())
}

func TestNewItemTruncatedHeader(t *testing.T) {
	_, err := NewItem(make([]byte, HeaderSize-1))
	assert.ErrorIs(t, err, ErrCorruptItem)
}

func TestNewItemBadSizes(t *testing.T) {
	undersized := make([]byte, HeaderSize)
	PutItemHeader(undersized, Node, 0)
	_, err := NewItem(undersized)
	assert.ErrorIs(t, err, ErrCorruptItem)

	misaligned := make([]byte, 16)
	PutItemHeader(misaligned, Node, 12)
	_, err = NewItem(misaligned)
	assert.ErrorIs(t, err, ErrCorruptItem)

	overrun := make([]byte, 16)
	PutItemHeader(overrun, Node, 24)
	_, err = NewItem(overrun)
	assert.ErrorIs(t, err, ErrCorruptItem)
}

func TestNewItemSlicesToDeclaredSize(t *testing.T) {
	region := append(rawItem(Node, nil), rawItem(Way, nil)...)

	item, err := NewItem(region)
	require.NoError(t, err)

	assert.Equal(t, Node, item.Type())
	assert.Equal(t, HeaderSize, item.Size(), "view must not alias the next record")
}

func TestItemTypeString(t *testing.T) {
	assert.Equal(t, "node", Node.String())
	assert.Equal(t, "tag_list", TagList.String())
	assert.Equal(t, "unknown(0xff)", ItemType(0xff).String())
}

func TestItemTypeEntity(t *testing.T) {
	assert.True(t, Way.Entity())
	assert.False(t, WayNodeList.Entity())
	assert.False(t, Undefined.Entity())
}

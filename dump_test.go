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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmbuf/memory"
)

func TestDumpNode(t *testing.T) {
	buf := memory.NewBuffer()

	nb, err := NewNodeBuilder(buf)
	require.NoError(t, err)

	nb.SetID(17)
	nb.SetVersion(2)
	nb.SetUID(5)
	nb.SetChangeset(42)
	nb.SetTimestamp(time.Date(2013, 1, 1, 12, 0, 0, 0, time.UTC))
	nb.SetLocation(NewLocation(9.1234567, 48.7654321))
	require.NoError(t, nb.SetUser("fred"))

	tags, err := nb.Tags()
	require.NoError(t, err)
	require.NoError(t, tags.Add("highway", "residential"))

	node, err := nb.Commit()
	require.NoError(t, err)

	var out strings.Builder

	require.NoError(t, NewDump(&out).Apply(node.Item()))

	expected := `NODE:
  id=17
  version=2
  uid=5
  user=|fred|
  changeset=42
  timestamp=2013-01-01T12:00:00Z
  visible=yes
  lon=9.1234567
  lat=48.7654321
  TAGS:
    k=|highway| v=|residential|
`

	assert.Equal(t, expected, out.String())
}

func TestDumpRelationWithFullMember(t *testing.T) {
	nodeBuf := memory.NewBuffer()

	nb, err := NewNodeBuilder(nodeBuf)
	require.NoError(t, err)
	nb.SetID(17)

	node, err := nb.Commit()
	require.NoError(t, err)

	buf := memory.NewBuffer()

	rb, err := NewRelationBuilder(buf)
	require.NoError(t, err)
	rb.SetID(9)

	members, err := rb.Members()
	require.NoError(t, err)
	require.NoError(t, members.AddFull(17, "admin_centre", node.Object))

	relation, err := rb.Commit()
	require.NoError(t, err)

	var out strings.Builder

	require.NoError(t, NewDump(&out).Apply(relation.Item()))

	text := out.String()

	assert.Contains(t, text, "RELATION:\n  id=9\n")
	assert.Contains(t, text, "  MEMBERS:\n    type=node ref=17 role=|admin_centre|\n")
	assert.Contains(t, text, "    | NODE:\n    |   id=17\n", "full members recurse with an indented prefix")
}

func TestDumpWithItemSizes(t *testing.T) {
	node := testNode(t)

	var out strings.Builder

	require.NoError(t, NewDump(&out, WithItemSizes()).Apply(node.Item()))

	assert.Contains(t, out.String(), "NODE: [")
}

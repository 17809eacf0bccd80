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

package osmxml

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmbuf"
	"m4o.io/osmbuf/codec"
	"m4o.io/osmbuf/memory"
)

const document = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test-gen">
  <bounds minlat="48.0" minlon="9.0" maxlat="49.0" maxlon="10.0"/>
  <node id="17" version="2" uid="5" user="fred" changeset="42" timestamp="2013-01-01T12:00:00Z" lat="48.7654321" lon="9.1234567">
    <tag k="highway" v="residential"/>
  </node>
  <node id="18" lat="48.1" lon="9.1"/>
  <way id="100" version="3">
    <nd ref="17"/>
    <nd ref="18"/>
    <tag k="highway" v="primary"/>
  </way>
  <relation id="9">
    <member type="way" ref="100" role="outer"/>
    <tag k="type" v="multipolygon"/>
  </relation>
</osm>
`

func readAll(t *testing.T, r *Reader) []*memory.Buffer {
	t.Helper()

	var bufs []*memory.Buffer

	for {
		buf, err := r.Read()
		if err == io.EOF {
			return bufs
		}

		require.NoError(t, err)
		bufs = append(bufs, buf)
	}
}

func TestReaderMetadata(t *testing.T) {
	r, err := NewReader(strings.NewReader(document))
	require.NoError(t, err)

	md := r.Metadata()
	assert.Equal(t, "test-gen", md.Generator)

	require.NotNil(t, md.Bounds)
	expected := &codec.BoundingBox{Top: 49.0, Left: 9.0, Bottom: 48.0, Right: 10.0}
	assert.True(t, md.Bounds.EqualWithin(expected, osmbuf.E7))
}

func TestReaderEntities(t *testing.T) {
	r, err := NewReader(strings.NewReader(document))
	require.NoError(t, err)

	bufs := readAll(t, r)
	require.Len(t, bufs, 1)

	var (
		nodes     []osmbuf.Node
		ways      []osmbuf.Way
		relations []osmbuf.Relation
	)

	require.NoError(t, osmbuf.ApplyAll(bufs[0].Items(), &osmbuf.Handler{
		Node: func(n osmbuf.Node) error {
			nodes = append(nodes, n)

			return nil
		},
		Way: func(w osmbuf.Way) error {
			ways = append(ways, w)

			return nil
		},
		Relation: func(rel osmbuf.Relation) error {
			relations = append(relations, rel)

			return nil
		},
	}))

	require.Len(t, nodes, 2)
	require.Len(t, ways, 1)
	require.Len(t, relations, 1)

	n := nodes[0]
	assert.Equal(t, int64(17), n.ID())
	assert.Equal(t, uint32(2), n.Version())
	assert.Equal(t, uint32(5), n.UID())
	assert.Equal(t, "fred", n.User())
	assert.Equal(t, int64(42), n.Changeset())
	assert.Equal(t, "2013-01-01T12:00:00Z", n.Timestamp().Format(osmbuf.TimestampFormat))
	assert.True(t, n.Location().Lat().EqualWithin(48.7654321, osmbuf.E7))
	assert.True(t, n.Location().Lon().EqualWithin(9.1234567, osmbuf.E7))

	tag, ok := n.Tags().Get("highway")
	require.True(t, ok)
	assert.Equal(t, "residential", tag)

	assert.True(t, nodes[1].UserIsAnonymous())

	w := ways[0]
	assert.Equal(t, int64(100), w.ID())

	var refs []int64
	for wn := range w.Nodes().All() {
		refs = append(refs, wn.Ref())
	}

	assert.Equal(t, []int64{17, 18}, refs)

	rel := relations[0]
	assert.Equal(t, int64(9), rel.ID())

	for m := range rel.Members().All() {
		assert.Equal(t, memory.Way, m.MemberType())
		assert.Equal(t, int64(100), m.Ref())
		assert.Equal(t, "outer", m.Role())
	}
}

func TestReaderBatching(t *testing.T) {
	r, err := NewReader(strings.NewReader(document), WithBatchSize(2))
	require.NoError(t, err)

	bufs := readAll(t, r)
	require.Len(t, bufs, 2)

	for _, buf := range bufs {
		var count int
		for range buf.Items() {
			count++
		}

		assert.Equal(t, 2, count)
	}
}

func TestReaderMalformedAttribute(t *testing.T) {
	doc := `<osm><node id="seventeen" lat="1.0" lon="2.0"/></osm>`

	r, err := NewReader(strings.NewReader(doc))
	require.NoError(t, err)

	_, err = r.Read()
	assert.ErrorIs(t, err, osmbuf.ErrParse)
}

func TestReaderWrongRoot(t *testing.T) {
	_, err := NewReader(strings.NewReader(`<gpx></gpx>`))
	assert.ErrorIs(t, err, osmbuf.ErrParse)
}

func TestReaderEmptyDocument(t *testing.T) {
	r, err := NewReader(strings.NewReader(`<osm generator="g"></osm>`))
	require.NoError(t, err)

	assert.Equal(t, "g", r.Metadata().Generator)

	_, err = r.Read()
	assert.Equal(t, io.EOF, err)
}

func TestReaderSkipsForeignElements(t *testing.T) {
	doc := `<osm><changeset id="1"><tag k="comment" v="x"/></changeset><node id="4"/></osm>`

	r, err := NewReader(strings.NewReader(doc))
	require.NoError(t, err)

	bufs := readAll(t, r)
	require.Len(t, bufs, 1)

	var count int

	for item := range bufs[0].Items() {
		obj, err := osmbuf.ObjectFromItem(item)
		require.NoError(t, err)
		assert.Equal(t, int64(4), obj.ID())

		count++
	}

	assert.Equal(t, 1, count)
}

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

package codec

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCompression(t *testing.T) {
	tests := []struct {
		path        string
		compression Compression
		rest        string
	}{
		{"map.osm", NoCompression, "map.osm"},
		{"map.osm.gz", Gzip, "map.osm"},
		{"map.osm.zst", Zstd, "map.osm"},
		{"map.osm.xz", Xz, "map.osm"},
		{"map.osm.lz4", Lz4, "map.osm"},
		{"map.osm.bz2", Bzip2, "map.osm"},
		{"dir.gz/map.osm", NoCompression, "dir.gz/map.osm"},
	}

	for _, tt := range tests {
		c, rest := DetectCompression(tt.path)
		assert.Equal(t, tt.compression, c, tt.path)
		assert.Equal(t, tt.rest, rest, tt.path)
	}
}

func TestContainerRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("the quick brown fox "), 64)

	for _, c := range []Compression{NoCompression, Gzip, Zstd, Xz, Lz4} {
		t.Run(c.String(), func(t *testing.T) {
			var frame bytes.Buffer

			w, err := WrapWriter(&frame, c)
			require.NoError(t, err)

			_, err = w.Write(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			r, err := WrapReader(&frame, c)
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())

			assert.Equal(t, payload, got)
		})
	}
}

func TestBzip2IsReadOnly(t *testing.T) {
	var frame bytes.Buffer

	_, err := WrapWriter(&frame, Bzip2)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

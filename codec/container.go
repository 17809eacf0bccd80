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
	"compress/bzip2"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
	"github.com/ulikunitz/xz"
)

// Compression identifies the container framing around a serialized
// stream.
type Compression int

// Supported container framings.
const (
	NoCompression Compression = iota
	Gzip
	Zstd
	Xz
	Lz4
	Bzip2
)

func (c Compression) String() string {
	switch c {
	case NoCompression:
		return "none"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case Xz:
		return "xz"
	case Lz4:
		return "lz4"
	case Bzip2:
		return "bzip2"
	default:
		return fmt.Sprintf("Compression(%d)", int(c))
	}
}

// DetectCompression inspects the final suffix of path. It returns the
// framing it names and the path with that suffix stripped, so the
// remaining suffix can select the serialization format.
func DetectCompression(path string) (Compression, string) {
	ext := filepath.Ext(path)
	rest := strings.TrimSuffix(path, ext)

	switch ext {
	case ".gz":
		return Gzip, rest
	case ".zst":
		return Zstd, rest
	case ".xz":
		return Xz, rest
	case ".lz4":
		return Lz4, rest
	case ".bz2":
		return Bzip2, rest
	default:
		return NoCompression, path
	}
}

// WrapReader layers the decompressor for the given framing over r.
func WrapReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case NoCompression:
		return io.NopCloser(r), nil
	case Gzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("unable to open gzip stream: %w", err)
		}

		return gr, nil
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("unable to open zstd stream: %w", err)
		}

		return zr.IOReadCloser(), nil
	case Xz:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("unable to open xz stream: %w", err)
		}

		return io.NopCloser(xr), nil
	case Lz4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case Bzip2:
		return io.NopCloser(bzip2.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, c)
	}
}

// WrapWriter layers the compressor for the given framing over w. Bzip2
// is read-only.
func WrapWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case NoCompression:
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("unable to open zstd stream: %w", err)
		}

		return zw, nil
	case Xz:
		xw, err := xz.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("unable to open xz stream: %w", err)
		}

		return xw, nil
	case Lz4:
		return lz4.NewWriter(w), nil
	case Bzip2:
		return nil, fmt.Errorf("%w: bzip2 output", ErrUnsupportedFormat)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, c)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

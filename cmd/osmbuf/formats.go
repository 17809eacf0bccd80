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

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"m4o.io/osmbuf/cmd/osmbuf/cli"
	"m4o.io/osmbuf/codec"
	"m4o.io/osmbuf/codec/osmxml"
)

// stdioPath stands in for stdin or stdout and is treated as plain XML.
const stdioPath = "-.osm"

// openReader opens path as an entity stream. The filename suffix selects
// the compression framing and serialization format; an empty path reads
// plain XML from stdin.
func openReader(path string, progress bool) (codec.Reader, func() error, error) {
	var in io.ReadCloser

	suffix := path

	if path == "" {
		in = os.Stdin
		suffix = stdioPath
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}

		in = f

		if progress {
			wrapped, err := cli.WrapInputFile(f)
			if err != nil {
				f.Close()

				return nil, nil, err
			}

			in = wrapped
		}
	}

	compression, rest := codec.DetectCompression(suffix)

	if err := checkFormat(rest); err != nil {
		in.Close()

		return nil, nil, err
	}

	unpacked, err := codec.WrapReader(in, compression)
	if err != nil {
		in.Close()

		return nil, nil, err
	}

	r, err := osmxml.NewReader(unpacked)
	if err != nil {
		unpacked.Close()
		in.Close()

		return nil, nil, err
	}

	closer := func() error {
		if err := unpacked.Close(); err != nil {
			return err
		}

		return in.Close()
	}

	return r, closer, nil
}

// openWriter opens path as an entity sink. An empty path writes plain
// XML to stdout. The returned finalize func flushes the compression
// framing and closes the file.
func openWriter(path string) (codec.Writer, func() error, error) {
	var out io.WriteCloser

	suffix := path

	if path == "" {
		out = nopWriteCloser{os.Stdout}
		suffix = stdioPath
	} else {
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, err
		}

		out = f
	}

	compression, rest := codec.DetectCompression(suffix)

	if err := checkFormat(rest); err != nil {
		out.Close()

		return nil, nil, err
	}

	packed, err := codec.WrapWriter(out, compression)
	if err != nil {
		out.Close()

		return nil, nil, err
	}

	finalize := func() error {
		if err := packed.Close(); err != nil {
			return err
		}

		return out.Close()
	}

	return osmxml.NewWriter(packed), finalize, nil
}

func checkFormat(path string) error {
	switch filepath.Ext(path) {
	case ".osm", ".xml":
		return nil
	default:
		return fmt.Errorf("%w: %q", codec.ErrUnsupportedFormat, filepath.Base(path))
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

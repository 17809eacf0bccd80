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

// Package codec defines the boundary between producers and consumers of
// entity buffers. A Reader turns an external representation into a
// stream of committed buffers; a Writer consumes such a stream. Concrete
// codecs live in subpackages.
package codec

import (
	"errors"

	"m4o.io/osmbuf/memory"
)

// ErrUnsupportedFormat is returned when a file's suffix names a format
// or compression this build cannot handle.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Metadata carries stream-level information that precedes any entity.
type Metadata struct {
	// Generator names the program that produced the stream.
	Generator string

	// Bounds is the declared bounding box of the stream, nil when the
	// source declares none.
	Bounds *BoundingBox
}

// Reader produces committed entity buffers from some external
// representation. Read returns io.EOF once the stream is exhausted.
// Ownership of each returned buffer transfers to the caller; the reader
// never touches a buffer after handing it out.
type Reader interface {
	// Metadata reports the stream-level metadata. It is valid after the
	// reader has been constructed.
	Metadata() Metadata

	// Read returns the next batch of entities. The buffer holds only
	// committed records.
	Read() (*memory.Buffer, error)
}

// Writer consumes a stream of committed entity buffers. WriteMetadata,
// when used, must be called before the first Write. Write must not
// mutate the buffer it is given.
type Writer interface {
	WriteMetadata(md Metadata) error
	Write(buf *memory.Buffer) error

	// Close flushes and finalizes the output.
	Close() error
}

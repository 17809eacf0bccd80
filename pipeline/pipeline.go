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

// Package pipeline streams entity buffers from a reader to a writer
// through an ordered chain of transforms. Each buffer has exactly one
// owner at any time: the reader hands it to the pipeline, each transform
// either passes it along or replaces it, and the writer observes it last.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/destel/rill"

	"m4o.io/osmbuf/codec"
	"m4o.io/osmbuf/memory"
)

const singleCPU = 1

// Stats counts the entities that reached the writer.
type Stats struct {
	Nodes     uint64
	Ways      uint64
	Relations uint64
	Buffers   uint64
}

// Total returns the number of entities across all kinds.
func (s Stats) Total() uint64 {
	return s.Nodes + s.Ways + s.Relations
}

func (s *Stats) add(buf *memory.Buffer) {
	s.Buffers++

	for item := range buf.Items() {
		switch item.Type() {
		case memory.Node:
			s.Nodes++
		case memory.Way:
			s.Ways++
		case memory.Relation:
			s.Relations++
		}
	}
}

// Convert copies the stream from r to w, applying the transforms in
// order. It propagates the reader's metadata, closes the writer on
// success, and reports how much reached the writer. Cancelling ctx
// aborts the stream with ctx's error.
func Convert(ctx context.Context, r codec.Reader, w codec.Writer, transforms ...Transform) (Stats, error) {
	var stats Stats

	if err := w.WriteMetadata(r.Metadata()); err != nil {
		return stats, fmt.Errorf("cannot forward metadata: %w", err)
	}

	ch := produce(ctx, r)

	for _, transform := range transforms {
		ch = rill.OrderedMap(ch, singleCPU, transform)
	}

	err := rill.ForEach(ch, singleCPU, func(buf *memory.Buffer) error {
		stats.add(buf)

		return w.Write(buf)
	})
	if err != nil {
		slog.Error("conversion pipeline failed", "error", err)

		return stats, err
	}

	return stats, w.Close()
}

// produce pumps buffers out of the reader until it is exhausted or the
// context is cancelled.
func produce(ctx context.Context, r codec.Reader) <-chan rill.Try[*memory.Buffer] {
	ch := make(chan rill.Try[*memory.Buffer])

	go func() {
		defer close(ch)

		for {
			buf, err := r.Read()
			if errors.Is(err, io.EOF) {
				return
			}

			if err != nil {
				ch <- rill.Try[*memory.Buffer]{Error: err}

				return
			}

			select {
			case ch <- rill.Try[*memory.Buffer]{Value: buf}:
			case <-ctx.Done():
				ch <- rill.Try[*memory.Buffer]{Error: ctx.Err()}

				return
			}
		}
	}()

	return ch
}

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

package pipeline

import (
	"m4o.io/osmbuf"
	"m4o.io/osmbuf/memory"
)

// Transform rewrites or replaces one buffer. A transform that returns a
// new buffer owns the old one and may recycle it; a transform that
// mutates in place returns its argument.
type Transform = func(buf *memory.Buffer) (*memory.Buffer, error)

// FilterObjects keeps only the entities the predicate accepts, rewriting
// each buffer. Records are copied wholesale, nested sub-items included.
func FilterObjects(pred func(osmbuf.Object) bool) Transform {
	return func(buf *memory.Buffer) (*memory.Buffer, error) {
		out := memory.NewBuffer()

		for item := range buf.Items() {
			obj, err := osmbuf.ObjectFromItem(item)
			if err != nil {
				return nil, err
			}

			if !pred(obj) {
				continue
			}

			if err := out.Append(item.Bytes()); err != nil {
				return nil, err
			}

			out.Commit()
		}

		return out, nil
	}
}

// Tee calls fn with every buffer passing through and forwards the buffer
// unchanged. fn must not mutate the buffer.
func Tee(fn func(buf *memory.Buffer)) Transform {
	return func(buf *memory.Buffer) (*memory.Buffer, error) {
		fn(buf)

		return buf, nil
	}
}

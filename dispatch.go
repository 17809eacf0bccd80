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
	"fmt"
	"iter"

	"m4o.io/osmbuf/memory"
)

// Handler is a set of typed callbacks covering the closed set of concrete
// record types. Apply routes an Item to the callback matching its runtime
// type tag; a nil callback skips records of that type.
//
// Entity callbacks receive only the entity view. A handler that wants the
// entity's tags, way nodes, or members recurses explicitly with
// ApplySubItems, using the same dispatch mechanism at every nesting
// level.
type Handler struct {
	Node               func(Node) error
	Way                func(Way) error
	Relation           func(Relation) error
	TagList            func(TagList) error
	WayNodeList        func(WayNodeList) error
	RelationMemberList func(RelationMemberList) error
}

// Apply invokes the handler callback matching item's runtime type tag. A
// tag outside the closed set of concrete types is a programming error and
// panics.
func Apply(item memory.Item, h *Handler) error {
	switch item.Type() {
	case memory.Node:
		if h.Node == nil {
			return nil
		}

		node, err := NodeFromItem(item)
		if err != nil {
			return err
		}

		return h.Node(node)

	case memory.Way:
		if h.Way == nil {
			return nil
		}

		way, err := WayFromItem(item)
		if err != nil {
			return err
		}

		return h.Way(way)

	case memory.Relation:
		if h.Relation == nil {
			return nil
		}

		relation, err := RelationFromItem(item)
		if err != nil {
			return err
		}

		return h.Relation(relation)

	case memory.TagList:
		if h.TagList == nil {
			return nil
		}

		return h.TagList(TagList{item: item, ok: true})

	case memory.WayNodeList:
		if h.WayNodeList == nil {
			return nil
		}

		return h.WayNodeList(WayNodeList{item: item, ok: true})

	case memory.RelationMemberList:
		if h.RelationMemberList == nil {
			return nil
		}

		return h.RelationMemberList(RelationMemberList{item: item, ok: true})

	default:
		panic(fmt.Sprintf("no dispatch target for item type %s", item.Type()))
	}
}

// ApplyAll applies the handler set to each item in the sequence, stopping
// at the first error.
func ApplyAll(items iter.Seq[memory.Item], h *Handler) error {
	for item := range items {
		if err := Apply(item, h); err != nil {
			return err
		}
	}

	return nil
}

// ApplySubItems applies the handler set to each of an entity's nested
// sub-items, in storage order.
func ApplySubItems(o Object, h *Handler) error {
	return ApplyAll(o.SubItems(), h)
}

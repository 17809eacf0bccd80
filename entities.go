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

	"m4o.io/osmbuf/memory"
)

// Node is a specific point on the earth's surface defined by its
// longitude and latitude. The one location slot every node has lives in
// the fixed header, not in a nested sub-item, so its presence is O(1) to
// test.
type Node struct {
	Object
}

// NodeFromItem decodes a Node view from an Item, reporting an error when
// the item's tag is not the node tag.
func NodeFromItem(item memory.Item) (Node, error) {
	if item.Type() != memory.Node {
		return Node{}, fmt.Errorf("item of type %s is not a node", item.Type())
	}

	return Node{Object{item: item}}, nil
}

// Location returns the node's geographic location, which may be
// undefined.
func (n Node) Location() Location {
	return locationAt(n.item.Payload()[locationOffset:])
}

// SetLocation sets the node's geographic location.
func (n Node) SetLocation(loc Location) {
	loc.put(n.item.Payload()[locationOffset:])
}

// Way is an ordered list of node references that define a polyline.
type Way struct {
	Object
}

// WayFromItem decodes a Way view from an Item, reporting an error when
// the item's tag is not the way tag.
func WayFromItem(item memory.Item) (Way, error) {
	if item.Type() != memory.Way {
		return Way{}, fmt.Errorf("item of type %s is not a way", item.Type())
	}

	return Way{Object{item: item}}, nil
}

// Nodes locates the way's WayNodeList. Every committed way has exactly
// one by construction.
func (w Way) Nodes() WayNodeList {
	for item := range w.SubItems() {
		if item.Type() == memory.WayNodeList {
			return WayNodeList{item: item, ok: true}
		}
	}

	return WayNodeList{}
}

// Relation documents a relationship between two or more entities.
type Relation struct {
	Object
}

// RelationFromItem decodes a Relation view from an Item, reporting an
// error when the item's tag is not the relation tag.
func RelationFromItem(item memory.Item) (Relation, error) {
	if item.Type() != memory.Relation {
		return Relation{}, fmt.Errorf("item of type %s is not a relation", item.Type())
	}

	return Relation{Object{item: item}}, nil
}

// Members locates the relation's RelationMemberList. Every committed
// relation has exactly one by construction.
func (r Relation) Members() RelationMemberList {
	for item := range r.SubItems() {
		if item.Type() == memory.RelationMemberList {
			return RelationMemberList{item: item, ok: true}
		}
	}

	return RelationMemberList{}
}

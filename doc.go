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

// Package osmbuf defines the packed in-memory layout of OpenStreetMap
// entities: Nodes, Ways, and Relations stored as alignment-padded records
// in a memory.Buffer, each carrying its metadata header, an inline user
// name, and nested sub-collections for tags, way nodes, and relation
// members.
//
// Entities are created only by appending them into a Buffer through the
// NodeBuilder, WayBuilder, and RelationBuilder types, and are destroyed
// only when the owning Buffer is cleared. Consumers traverse a Buffer's
// committed records and route each one to type-specific logic with Apply
// and a Handler set.
package osmbuf

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

// Package memory implements the packed record substrate that OSM entities
// are stored in: a growable byte Buffer holding a sequence of
// self-describing, variable-length, alignment-padded Items, and a generic
// CollectionIterator for walking any contiguous region of Items.
//
// Every Item starts with an 8-byte header carrying its total padded size
// and a type tag. The padded size is the only valid stride for advancing
// past an Item; all record content is laid out so that sizes are always a
// multiple of the alignment boundary.
//
// A Buffer has a single owner at any time. A producer appends and commits
// records, then hands the whole Buffer to a consumer; the producer must
// not touch it afterwards. Growth may relocate the backing storage, so
// byte slices obtained from a Buffer are invalidated by any subsequent
// append.
package memory

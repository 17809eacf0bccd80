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

package memory

import (
	"golang.org/x/exp/constraints"
)

// Align is the alignment boundary, in bytes, that every Item length is
// rounded up to.
const Align = 8

// PaddedLength returns the smallest multiple of Align that is >= n.
// It is the single place padding is computed; offset arithmetic anywhere
// else must go through it.
func PaddedLength[T constraints.Integer](n T) T {
	return (n + Align - 1) &^ (Align - 1)
}

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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaddedLength(t *testing.T) {
	tests := []struct {
		n        int
		expected int
	}{
		{0, 0},
		{1, 8},
		{7, 8},
		{8, 8},
		{9, 16},
		{15, 16},
		{16, 16},
		{1023, 1024},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, PaddedLength(tt.n), "n=%d", tt.n)
	}
}

func TestPaddedLengthProperties(t *testing.T) {
	for n := 0; n < 4096; n++ {
		m := PaddedLength(n)

		assert.GreaterOrEqual(t, m, n)
		assert.Zero(t, m%Align)
		assert.Equal(t, m, PaddedLength(m), "must be idempotent")
	}
}

func TestPaddedLengthOtherIntegerTypes(t *testing.T) {
	assert.Equal(t, uint32(16), PaddedLength(uint32(9)))
	assert.Equal(t, int64(8), PaddedLength(int64(1)))
}

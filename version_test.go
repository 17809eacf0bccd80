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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeletedVersionIndependence(t *testing.T) {
	versions := []uint32{0, 1, 2, 42, 1<<31 - 1}

	for _, v := range versions {
		for _, deleted := range []bool{false, true} {
			var dv DeletedVersion

			dv = dv.WithDeleted(deleted)
			dv = dv.WithVersion(v)

			assert.Equal(t, v, dv.Version(), "version must survive any deleted state")
			assert.Equal(t, deleted, dv.Deleted(), "setting version must not perturb deleted")

			dv = dv.WithDeleted(true)
			assert.Equal(t, v, dv.Version(), "setting deleted must not perturb version")
		}
	}
}

func TestDeletedVersionVisibleIsNegation(t *testing.T) {
	var dv DeletedVersion

	assert.Equal(t, dv.WithVisible(true), dv.WithDeleted(false))
	assert.Equal(t, dv.WithVisible(false), dv.WithDeleted(true))

	dv = dv.WithVersion(7).WithDeleted(true)
	assert.False(t, dv.Visible())
	assert.Equal(t, !dv.Deleted(), dv.Visible())
}

func TestDeletedVersionMasksTopBit(t *testing.T) {
	dv := DeletedVersion(0).WithDeleted(true).WithVersion(1<<31 - 1)

	assert.Equal(t, uint32(1<<31-1), dv.Version())
	assert.True(t, dv.Deleted())

	// an oversized version value must never reach the deleted bit
	dv = DeletedVersion(0).WithVersion(1 << 31)
	assert.False(t, dv.Deleted())
	assert.Zero(t, dv.Version())
}

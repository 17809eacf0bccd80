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

package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"m4o.io/osmbuf"
)

func TestBoundingBoxExpandWithLocation(t *testing.T) {
	bbox := InitialBoundingBox()

	bbox.ExpandWithLocation(osmbuf.NewLocation(9.0, 48.0))
	bbox.ExpandWithLocation(osmbuf.NewLocation(10.0, 49.0))
	bbox.ExpandWithLocation(osmbuf.UndefinedLocation())

	expected := &BoundingBox{Top: 49.0, Left: 9.0, Bottom: 48.0, Right: 10.0}
	assert.True(t, bbox.EqualWithin(expected, osmbuf.E7))

	assert.True(t, bbox.Contains(48.5, 9.5))
	assert.False(t, bbox.Contains(48.5, 11.0))
}

func TestBoundingBoxExpandWithBoundingBox(t *testing.T) {
	bbox := &BoundingBox{Top: 49.0, Left: 9.0, Bottom: 48.0, Right: 10.0}
	bbox.ExpandWithBoundingBox(&BoundingBox{Top: 50.0, Left: 8.0, Bottom: 48.5, Right: 9.5})

	expected := &BoundingBox{Top: 50.0, Left: 8.0, Bottom: 48.0, Right: 10.0}
	assert.True(t, bbox.EqualWithin(expected, osmbuf.E7))
}

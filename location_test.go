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

func TestLocationDefined(t *testing.T) {
	assert.False(t, UndefinedLocation().Defined())
	assert.True(t, NewLocation(9.1234567, 48.7654321).Defined())
	assert.True(t, NewLocation(0, 0).Defined(), "the null island is a real place")
}

func TestLocationRoundTrip(t *testing.T) {
	loc := NewLocation(9.1234567, 48.7654321)

	var enc [locationSize]byte

	loc.put(enc[:])

	got := locationAt(enc[:])
	assert.Equal(t, loc, got)
	assert.True(t, got.Lon().EqualWithin(9.1234567, E7))
	assert.True(t, got.Lat().EqualWithin(48.7654321, E7))
}

func TestLocationString(t *testing.T) {
	assert.Equal(t, "(9.1234567, 48.7654321)", NewLocation(9.1234567, 48.7654321).String())
	assert.Equal(t, "(undefined)", UndefinedLocation().String())
}

func TestDegreesParse(t *testing.T) {
	d, err := ParseDegrees("53.123450")
	assert.NoError(t, err)
	assert.True(t, Degrees(53.123450).EqualWithin(d, E5))

	_, err = ParseDegrees("abc")
	assert.ErrorIs(t, err, ErrParse)
}

func TestDegreesE7(t *testing.T) {
	assert.Equal(t, int32(531234568), Degrees(53.123456789).E7())
	assert.Equal(t, int32(-531234568), Degrees(-53.123456789).E7())
}

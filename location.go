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
	"encoding/binary"
	"fmt"
	"math"
)

// undefinedCoordinate is the sentinel E7 value marking a coordinate slot
// with no value.
const undefinedCoordinate = math.MaxInt32

// locationSize is the encoded size of a Location within a record.
const locationSize = 8

// Location is a geographic position stored as a pair of fixed-point E7
// coordinates. The zero of the type is a defined location at (0, 0); an
// undefined location is represented by the sentinel coordinate and is
// testable in O(1) with Defined.
type Location struct {
	x int32 // lon E7
	y int32 // lat E7
}

// UndefinedLocation returns the location with no value.
func UndefinedLocation() Location {
	return Location{x: undefinedCoordinate, y: undefinedCoordinate}
}

// NewLocation creates a Location from decimal-degree coordinates.
func NewLocation(lon, lat Degrees) Location {
	return Location{x: lon.E7(), y: lat.E7()}
}

// Defined reports whether the location holds actual coordinates.
func (l Location) Defined() bool {
	return l.x != undefinedCoordinate && l.y != undefinedCoordinate
}

// Lon returns the longitude in decimal degrees.
func (l Location) Lon() Degrees {
	return Degrees(l.x) / TenMillionths
}

// Lat returns the latitude in decimal degrees.
func (l Location) Lat() Degrees {
	return Degrees(l.y) / TenMillionths
}

func (l Location) String() string {
	if !l.Defined() {
		return "(undefined)"
	}

	return fmt.Sprintf("(%.7f, %.7f)", float64(l.Lon()), float64(l.Lat()))
}

// put encodes the location into dst[0:locationSize].
func (l Location) put(dst []byte) {
	binary.LittleEndian.PutUint32(dst, uint32(l.x))
	binary.LittleEndian.PutUint32(dst[4:8], uint32(l.y))
}

// locationAt decodes a location from src[0:locationSize].
func locationAt(src []byte) Location {
	return Location{
		x: int32(binary.LittleEndian.Uint32(src)),
		y: int32(binary.LittleEndian.Uint32(src[4:8])),
	}
}

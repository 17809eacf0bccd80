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
	"fmt"
	"strconv"

	"m4o.io/osmbuf"
)

// Coordinate extremes.
const (
	MaxLat osmbuf.Degrees = 90.0
	MaxLon osmbuf.Degrees = 180.0
	MinLat osmbuf.Degrees = -90.0
	MinLon osmbuf.Degrees = -180.0
)

// BoundingBox is simply a bounding box.
type BoundingBox struct {
	Top    osmbuf.Degrees
	Left   osmbuf.Degrees
	Bottom osmbuf.Degrees
	Right  osmbuf.Degrees
}

// InitialBoundingBox creates a BoundingBox that is meant to be expanded.
func InitialBoundingBox() *BoundingBox {
	return &BoundingBox{
		Top:    MinLat,
		Left:   MaxLon,
		Bottom: MaxLat,
		Right:  MinLon,
	}
}

// EqualWithin checks if two bounding boxes are within a specific epsilon.
func (b *BoundingBox) EqualWithin(o *BoundingBox, eps osmbuf.Epsilon) bool {
	return b.Left.EqualWithin(o.Left, eps) &&
		b.Right.EqualWithin(o.Right, eps) &&
		b.Top.EqualWithin(o.Top, eps) &&
		b.Bottom.EqualWithin(o.Bottom, eps)
}

// Contains checks if the bounding box contains the lat lng point.
func (b *BoundingBox) Contains(lat, lng osmbuf.Degrees) bool {
	return b.Left <= lng && lng <= b.Right && b.Bottom <= lat && lat <= b.Top
}

// ExpandWithLatLng grows the box to cover the given point.
func (b *BoundingBox) ExpandWithLatLng(lat, lng osmbuf.Degrees) {
	if b.Top < lat {
		b.Top = lat
	}

	if b.Bottom > lat {
		b.Bottom = lat
	}

	if b.Left > lng {
		b.Left = lng
	}

	if b.Right < lng {
		b.Right = lng
	}
}

// ExpandWithLocation grows the box to cover the given location. An
// undefined location leaves the box untouched.
func (b *BoundingBox) ExpandWithLocation(loc osmbuf.Location) {
	if !loc.Defined() {
		return
	}

	b.ExpandWithLatLng(loc.Lat(), loc.Lon())
}

// ExpandWithBoundingBox grows the box to cover the other box.
func (b *BoundingBox) ExpandWithBoundingBox(bbox *BoundingBox) {
	if b.Top < bbox.Top {
		b.Top = bbox.Top
	}

	if b.Bottom > bbox.Bottom {
		b.Bottom = bbox.Bottom
	}

	if b.Left > bbox.Left {
		b.Left = bbox.Left
	}

	if b.Right < bbox.Right {
		b.Right = bbox.Right
	}
}

func (b *BoundingBox) String() string {
	return fmt.Sprintf("[(%s, %s) (%s, %s)]",
		ftoa(float64(b.Top)), ftoa(float64(b.Left)),
		ftoa(float64(b.Bottom)), ftoa(float64(b.Right)))
}

// ftoa formats a float with the minimal number of digits that round-trips.
func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

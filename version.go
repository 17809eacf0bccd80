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

// DeletedVersion packs an entity version and its deleted flag into one
// machine word: the top bit is the deleted flag, all remaining bits are
// the version. Both fields are read through the same mask so they can
// never disagree, and updating one never perturbs the other.
type DeletedVersion uint32

const deletedBitMask DeletedVersion = 1 << 31

// Version returns the version, with the deleted bit masked out.
func (dv DeletedVersion) Version() uint32 {
	return uint32(dv &^ deletedBitMask)
}

// Deleted reports whether the deleted bit is set.
func (dv DeletedVersion) Deleted() bool {
	return dv&deletedBitMask != 0
}

// Visible is the logical negation of Deleted.
func (dv DeletedVersion) Visible() bool {
	return !dv.Deleted()
}

// WithVersion returns dv with the version replaced, preserving the
// deleted bit.
func (dv DeletedVersion) WithVersion(version uint32) DeletedVersion {
	return (dv & deletedBitMask) | (DeletedVersion(version) &^ deletedBitMask)
}

// WithDeleted returns dv with the deleted bit set or cleared, preserving
// the version.
func (dv DeletedVersion) WithDeleted(deleted bool) DeletedVersion {
	if deleted {
		return dv | deletedBitMask
	}

	return dv &^ deletedBitMask
}

// WithVisible is defined as WithDeleted of the negation; the two can
// never be set inconsistently.
func (dv DeletedVersion) WithVisible(visible bool) DeletedVersion {
	return dv.WithDeleted(!visible)
}

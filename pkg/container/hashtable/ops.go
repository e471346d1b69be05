// Copyright 2022 The Primkit Authors
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

package hashtable

import (
	"math"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Ops supplies the per-type capabilities a map needs from a primitive
// type: hashing, equality, ordering, and the two reserved sentinel values
// used by the packed slot layout. One Ops value is shared by every map
// instantiated for that type.
type Ops[T any] struct {
	Hash  func(T) uint64
	Equal func(a, b T) bool
	Less  func(a, b T) bool

	// Normalize collapses equal values to one canonical representation
	// before they are stored, so no legitimate key can alias a sentinel
	// bit pattern (floating NaN payloads in particular).
	Normalize func(T) T

	// HasSentinels reports whether the type's domain has room for the
	// two reserved slot markers. When false the packed layout is
	// unavailable and maps fall back to out-of-band occupancy tracking.
	HasSentinels bool
	EmptyKey     T
	RemovedKey   T

	// SentinelEqual compares values for sentinel detection. For floats
	// this is bitwise so the reserved NaN payloads stay distinct from
	// the canonical NaN that Normalize produces.
	SentinelEqual func(a, b T) bool
}

// IntOps builds the capabilities for any fixed-width integer type. The
// packed layout reserves the two extreme values of the domain; both stay
// insertable through the map's special cells.
func IntOps[T constraints.Integer]() Ops[T] {
	var zero T
	allOnes := ^zero
	width := uint(unsafe.Sizeof(zero) * 8)

	var empty, removed T
	if allOnes < zero {
		// signed: min and min+1
		empty = allOnes << (width - 1)
		removed = empty + 1
	} else {
		// unsigned: max and max-1
		empty = allOnes
		removed = allOnes - 1
	}

	return Ops[T]{
		Hash:          func(v T) uint64 { return wyhash64(uint64(v)) },
		Equal:         func(a, b T) bool { return a == b },
		Less:          func(a, b T) bool { return a < b },
		Normalize:     func(v T) T { return v },
		HasSentinels:  true,
		EmptyKey:      empty,
		RemovedKey:    removed,
		SentinelEqual: func(a, b T) bool { return a == b },
	}
}

func floatHash(f float64) uint64 {
	if f != f {
		// one canonical hash for every NaN bit pattern
		return wyhash64(math.Float64bits(math.NaN()))
	}
	if f == 0 {
		// +0.0 and -0.0 compare equal, so they must hash equal
		f = 0
	}
	return wyhash64(math.Float64bits(f))
}

func floatEqual[T constraints.Float](a, b T) bool {
	return a == b || (a != a && b != b)
}

func floatLess[T constraints.Float](a, b T) bool {
	// NaN sorts after every ordered value
	return a < b || (a == a && b != b)
}

// Float64Ops builds the capabilities for float64 keys and values. The
// sentinels are two non-canonical NaN payloads; Normalize rewrites every
// NaN key to math.NaN() so they can never collide with a stored key.
func Float64Ops() Ops[float64] {
	const emptyBits = 0x7ff4000000000001
	const removedBits = 0x7ff4000000000002
	return Ops[float64]{
		Hash:      func(v float64) uint64 { return floatHash(v) },
		Equal:     floatEqual[float64],
		Less:      floatLess[float64],
		Normalize: func(v float64) float64 {
			if v != v {
				return math.NaN()
			}
			return v
		},
		HasSentinels: true,
		EmptyKey:     math.Float64frombits(emptyBits),
		RemovedKey:   math.Float64frombits(removedBits),
		SentinelEqual: func(a, b float64) bool {
			return math.Float64bits(a) == math.Float64bits(b)
		},
	}
}

// Float32Ops is the float32 sibling of Float64Ops.
func Float32Ops() Ops[float32] {
	const emptyBits = 0x7fa00001
	const removedBits = 0x7fa00002
	canonicalNaN := float32(math.NaN())
	return Ops[float32]{
		Hash:      func(v float32) uint64 { return floatHash(float64(v)) },
		Equal:     floatEqual[float32],
		Less:      floatLess[float32],
		Normalize: func(v float32) float32 {
			if v != v {
				return canonicalNaN
			}
			return v
		},
		HasSentinels: true,
		EmptyKey:     math.Float32frombits(emptyBits),
		RemovedKey:   math.Float32frombits(removedBits),
		SentinelEqual: func(a, b float32) bool {
			return math.Float32bits(a) == math.Float32bits(b)
		},
	}
}

// BoolOps builds the capabilities for bool. The two-value domain has no
// room for sentinels, so bool-keyed maps always use the tagged layout.
func BoolOps() Ops[bool] {
	return Ops[bool]{
		Hash: func(v bool) uint64 {
			if v {
				return wyhash64(1)
			}
			return wyhash64(0)
		},
		Equal:         func(a, b bool) bool { return a == b },
		Less:          func(a, b bool) bool { return !a && b },
		Normalize:     func(v bool) bool { return v },
		HasSentinels:  false,
		SentinelEqual: func(a, b bool) bool { return a == b },
	}
}

// UnitOps is the value-side capability set for keys-only containers.
func UnitOps() Ops[struct{}] {
	return Ops[struct{}]{
		Hash:          func(struct{}) uint64 { return 0 },
		Equal:         func(a, b struct{}) bool { return true },
		Less:          func(a, b struct{}) bool { return false },
		Normalize:     func(v struct{}) struct{} { return v },
		HasSentinels:  false,
		SentinelEqual: func(a, b struct{}) bool { return true },
	}
}

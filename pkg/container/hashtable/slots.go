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
	"github.com/RoaringBitmap/roaring"
)

type slotState uint8

const (
	slotEmpty slotState = iota
	slotRemoved
	slotOccupied
)

// Layout selects the physical slot representation.
type Layout uint8

const (
	// LayoutTagged tracks occupancy out-of-band in two bitmaps. Safe for
	// every key type, including ones whose domain has no spare values.
	LayoutTagged Layout = iota
	// LayoutSentinel marks empty and removed slots with two reserved key
	// values. Requires Ops.HasSentinels; the reserved keys themselves are
	// stored in the map's special cells.
	LayoutSentinel
)

// slotTable is the raw storage: two parallel arrays plus, for the tagged
// layout, the occupancy bitmaps. Capacity is always a power of two.
type slotTable[K, V any] struct {
	layout   Layout
	keys     []K
	values   []V
	occupied *roaring.Bitmap
	removed  *roaring.Bitmap
}

func newSlotTable[K, V any](ops *Ops[K], layout Layout, bucketCnt uint64) *slotTable[K, V] {
	t := &slotTable[K, V]{
		layout: layout,
		keys:   make([]K, bucketCnt),
		values: make([]V, bucketCnt),
	}
	if layout == LayoutTagged {
		t.occupied = roaring.New()
		t.removed = roaring.New()
	} else {
		for i := range t.keys {
			t.keys[i] = ops.EmptyKey
		}
	}
	return t
}

func (t *slotTable[K, V]) bucketCnt() uint64 {
	return uint64(len(t.keys))
}

func (t *slotTable[K, V]) state(ops *Ops[K], idx uint64) slotState {
	if t.layout == LayoutTagged {
		if t.occupied.Contains(uint32(idx)) {
			return slotOccupied
		}
		if t.removed.Contains(uint32(idx)) {
			return slotRemoved
		}
		return slotEmpty
	}
	if ops.SentinelEqual(t.keys[idx], ops.EmptyKey) {
		return slotEmpty
	}
	if ops.SentinelEqual(t.keys[idx], ops.RemovedKey) {
		return slotRemoved
	}
	return slotOccupied
}

func (t *slotTable[K, V]) set(idx uint64, key K, value V) {
	t.keys[idx] = key
	t.values[idx] = value
	if t.layout == LayoutTagged {
		t.occupied.Add(uint32(idx))
		t.removed.Remove(uint32(idx))
	}
}

func (t *slotTable[K, V]) markRemoved(ops *Ops[K], idx uint64) {
	var zeroK K
	var zeroV V
	if t.layout == LayoutTagged {
		t.occupied.Remove(uint32(idx))
		t.removed.Add(uint32(idx))
		t.keys[idx] = zeroK
	} else {
		t.keys[idx] = ops.RemovedKey
	}
	t.values[idx] = zeroV
}

// clear resets every slot to empty, keeping the allocation.
func (t *slotTable[K, V]) clear(ops *Ops[K]) {
	var zeroK K
	var zeroV V
	for i := range t.keys {
		if t.layout == LayoutSentinel {
			t.keys[i] = ops.EmptyKey
		} else {
			t.keys[i] = zeroK
		}
		t.values[i] = zeroV
	}
	if t.layout == LayoutTagged {
		t.occupied.Clear()
		t.removed.Clear()
	}
}

func (t *slotTable[K, V]) clone() *slotTable[K, V] {
	c := &slotTable[K, V]{
		layout: t.layout,
		keys:   append([]K(nil), t.keys...),
		values: append([]V(nil), t.values...),
	}
	if t.layout == LayoutTagged {
		c.occupied = t.occupied.Clone()
		c.removed = t.removed.Clone()
	}
	return c
}

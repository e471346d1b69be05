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
	"github.com/primkit/primkit/pkg/common/moerr"
)

const (
	kInitialBucketCntBits = 4
	kInitialBucketCnt     = 1 << kInitialBucketCntBits

	kLoadFactorNumerator   = 1
	kLoadFactorDenominator = 2
)

// specialCell stores the value bound to one of the two reserved keys of
// the packed layout, which cannot live in the slot array itself.
type specialCell[V any] struct {
	value   V
	present bool
}

// Map is an open-addressing hash map over primitive key and value types.
// Collisions resolve by linear probing; capacity is a power of two and
// grows when occupied plus tombstone slots pass the fill threshold.
// Not safe for concurrent use; see AsSynchronized.
type Map[K, V any] struct {
	keyOps Ops[K]
	valOps Ops[V]
	layout Layout

	bucketCntBits uint8
	bucketCnt     uint64
	elemCnt       uint64 // occupied slots in the table
	fillCnt       uint64 // occupied + tombstone slots
	maxElemCnt    uint64
	modCnt        uint64

	slots          *slotTable[K, V]
	emptyKeyCell   specialCell[V]
	removedKeyCell specialCell[V]
}

type options struct {
	layout      Layout
	capacitySet bool
	capacity    uint64
}

type Option func(*options)

// WithLayout selects the slot representation. LayoutSentinel requires
// the key type to have sentinel room (Ops.HasSentinels).
func WithLayout(l Layout) Option {
	return func(o *options) { o.layout = l }
}

// WithCapacity pre-sizes the table for the expected element count.
func WithCapacity(hint uint64) Option {
	return func(o *options) { o.capacity = hint; o.capacitySet = true }
}

// New creates an empty map. keyOps and valOps supply the primitive
// capabilities for the two types; valOps is consulted only by value-side
// operations (ContainsValue, Equal, FlipUniqueValues).
func New[K, V any](keyOps Ops[K], valOps Ops[V], opts ...Option) *Map[K, V] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.layout == LayoutSentinel && !keyOps.HasSentinels {
		panic(moerr.NewBadConfigNoCtx("sentinel layout requested for a key type without sentinel room"))
	}

	bucketCntBits := uint8(kInitialBucketCntBits)
	bucketCnt := uint64(kInitialBucketCnt)
	for bucketCnt*kLoadFactorNumerator/kLoadFactorDenominator <= o.capacity {
		bucketCntBits++
		bucketCnt <<= 1
	}

	m := &Map[K, V]{
		keyOps:        keyOps,
		valOps:        valOps,
		layout:        o.layout,
		bucketCntBits: bucketCntBits,
		bucketCnt:     bucketCnt,
		maxElemCnt:    bucketCnt * kLoadFactorNumerator / kLoadFactorDenominator,
	}
	m.slots = newSlotTable[K, V](&m.keyOps, o.layout, bucketCnt)
	return m
}

// FromPairs creates a map holding the given pairs; later duplicates of a
// key overwrite earlier ones.
func FromPairs[K, V any](keyOps Ops[K], valOps Ops[V], pairs ...Pair[K, V]) *Map[K, V] {
	m := New(keyOps, valOps, WithCapacity(uint64(len(pairs))))
	for _, p := range pairs {
		m.Put(p.Key, p.Value)
	}
	return m
}

// specialCellFor returns the cell for one of the two reserved keys, or
// nil when the key lives in the slot table.
func (m *Map[K, V]) specialCellFor(key K) *specialCell[V] {
	if m.layout != LayoutSentinel {
		return nil
	}
	if m.keyOps.SentinelEqual(key, m.keyOps.EmptyKey) {
		return &m.emptyKeyCell
	}
	if m.keyOps.SentinelEqual(key, m.keyOps.RemovedKey) {
		return &m.removedKeyCell
	}
	return nil
}

// findBucket probes for key. On a hit it returns the occupied slot and
// found=true. On a miss it returns the insertion slot for the key: the
// first tombstone passed, else the terminating empty slot. The same
// probe path serves put, get and remove, so a key inserted under it is
// always found under it.
func (m *Map[K, V]) findBucket(key K) (idx uint64, found bool) {
	mask := m.bucketCnt - 1
	var insert uint64
	var hasInsert bool
	for i := m.keyOps.Hash(key) & mask; ; i = (i + 1) & mask {
		switch m.slots.state(&m.keyOps, i) {
		case slotEmpty:
			if hasInsert {
				return insert, false
			}
			return i, false
		case slotRemoved:
			if !hasInsert {
				insert, hasInsert = i, true
			}
		case slotOccupied:
			if m.keyOps.Equal(m.slots.keys[i], key) {
				return i, true
			}
		}
	}
}

// Put binds key to value, returning the previous value if the key was
// already present.
func (m *Map[K, V]) Put(key K, value V) (prev V, existed bool) {
	key = m.keyOps.Normalize(key)
	m.modCnt++
	if c := m.specialCellFor(key); c != nil {
		prev, existed = c.value, c.present
		c.value, c.present = value, true
		return prev, existed
	}

	m.resizeOnDemand(1)

	idx, found := m.findBucket(key)
	if found {
		prev = m.slots.values[idx]
		m.slots.values[idx] = value
		return prev, true
	}

	wasEmpty := m.slots.state(&m.keyOps, idx) == slotEmpty
	m.slots.set(idx, key, value)
	m.elemCnt++
	if wasEmpty {
		m.fillCnt++
	}
	return prev, false
}

// Get returns the value bound to key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	key = m.keyOps.Normalize(key)
	if c := m.specialCellFor(key); c != nil {
		return c.value, c.present
	}
	idx, found := m.findBucket(key)
	if !found {
		var zero V
		return zero, false
	}
	return m.slots.values[idx], true
}

// GetIfAbsent returns the value bound to key, or def when absent.
func (m *Map[K, V]) GetIfAbsent(key K, def V) V {
	if v, ok := m.Get(key); ok {
		return v
	}
	return def
}

// GetOrFail returns the value bound to key, or ErrNoSuchElement.
func (m *Map[K, V]) GetOrFail(key K) (V, error) {
	v, ok := m.Get(key)
	if !ok {
		return v, moerr.NewNoSuchElementNoCtx("key not present")
	}
	return v, nil
}

// ContainsKey reports whether key is present.
func (m *Map[K, V]) ContainsKey(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// ContainsValue reports whether any key is bound to value. Linear scan.
func (m *Map[K, V]) ContainsValue(value V) bool {
	found := false
	m.forEach(func(_ K, v V) bool {
		if m.valOps.Equal(v, value) {
			found = true
			return false
		}
		return true
	})
	return found
}

// RemoveKey unbinds key, returning the previous value. The slot becomes
// a tombstone; it is reclaimed by the next full rehash.
func (m *Map[K, V]) RemoveKey(key K) (prev V, existed bool) {
	key = m.keyOps.Normalize(key)
	if c := m.specialCellFor(key); c != nil {
		if !c.present {
			return prev, false
		}
		m.modCnt++
		var zero V
		prev = c.value
		c.value, c.present = zero, false
		return prev, true
	}

	idx, found := m.findBucket(key)
	if !found {
		return prev, false
	}
	m.modCnt++
	prev = m.slots.values[idx]
	m.slots.markRemoved(&m.keyOps, idx)
	m.elemCnt--
	return prev, true
}

// RemoveKeyIfAbsent unbinds key and returns its previous value, or
// returns def when the key is absent.
func (m *Map[K, V]) RemoveKeyIfAbsent(key K, def V) V {
	if prev, existed := m.RemoveKey(key); existed {
		return prev
	}
	return def
}

// GetIfAbsentPut returns the value bound to key, inserting value first
// when the key is absent.
func (m *Map[K, V]) GetIfAbsentPut(key K, value V) V {
	key = m.keyOps.Normalize(key)
	if c := m.specialCellFor(key); c != nil {
		if c.present {
			return c.value
		}
		m.modCnt++
		c.value, c.present = value, true
		return value
	}

	m.resizeOnDemand(1)

	idx, found := m.findBucket(key)
	if found {
		return m.slots.values[idx]
	}
	m.modCnt++
	wasEmpty := m.slots.state(&m.keyOps, idx) == slotEmpty
	m.slots.set(idx, key, value)
	m.elemCnt++
	if wasEmpty {
		m.fillCnt++
	}
	return value
}

// GetIfAbsentPutWith returns the value bound to key, computing and
// inserting one when the key is absent. The supplier must not mutate
// this map; detected reentrant mutation fails with
// ErrConcurrentModification and leaves the map unchanged.
func (m *Map[K, V]) GetIfAbsentPutWith(key K, supplier func() V) (V, error) {
	key = m.keyOps.Normalize(key)
	if c := m.specialCellFor(key); c != nil {
		if c.present {
			return c.value, nil
		}
		before := m.modCnt
		v := supplier()
		if m.modCnt != before {
			var zero V
			return zero, moerr.NewConcurrentModificationNoCtx("map mutated by getIfAbsentPut supplier")
		}
		m.modCnt++
		c.value, c.present = v, true
		return v, nil
	}

	m.resizeOnDemand(1)

	idx, found := m.findBucket(key)
	if found {
		return m.slots.values[idx], nil
	}
	before := m.modCnt
	v := supplier()
	if m.modCnt != before {
		var zero V
		return zero, moerr.NewConcurrentModificationNoCtx("map mutated by getIfAbsentPut supplier")
	}
	m.modCnt++
	wasEmpty := m.slots.state(&m.keyOps, idx) == slotEmpty
	m.slots.set(idx, key, v)
	m.elemCnt++
	if wasEmpty {
		m.fillCnt++
	}
	return v, nil
}

// UpdateValue rebinds key to fn(current), where current is the bound
// value or zeroFn() when absent. One probe pass. The callbacks must not
// mutate this map; detected reentrant mutation fails with
// ErrConcurrentModification and leaves the map unchanged.
func (m *Map[K, V]) UpdateValue(key K, zeroFn func() V, fn func(V) V) (V, error) {
	key = m.keyOps.Normalize(key)
	if c := m.specialCellFor(key); c != nil {
		before := m.modCnt
		cur := c.value
		if !c.present {
			cur = zeroFn()
		}
		next := fn(cur)
		if m.modCnt != before {
			var zero V
			return zero, moerr.NewConcurrentModificationNoCtx("map mutated by updateValue callback")
		}
		m.modCnt++
		c.value, c.present = next, true
		return next, nil
	}

	m.resizeOnDemand(1)

	idx, found := m.findBucket(key)
	before := m.modCnt
	var cur V
	if found {
		cur = m.slots.values[idx]
	} else {
		cur = zeroFn()
	}
	next := fn(cur)
	if m.modCnt != before {
		var zero V
		return zero, moerr.NewConcurrentModificationNoCtx("map mutated by updateValue callback")
	}
	m.modCnt++
	if found {
		m.slots.values[idx] = next
		return next, nil
	}
	wasEmpty := m.slots.state(&m.keyOps, idx) == slotEmpty
	m.slots.set(idx, key, next)
	m.elemCnt++
	if wasEmpty {
		m.fillCnt++
	}
	return next, nil
}

// FlipUniqueValues builds the inverse map. Fails with ErrInvalidState on
// the first duplicate value encountered; the scan runs in slot order,
// which is unspecified across resizes.
func (m *Map[K, V]) FlipUniqueValues() (*Map[V, K], error) {
	layout := LayoutTagged
	if m.layout == LayoutSentinel && m.valOps.HasSentinels {
		layout = LayoutSentinel
	}
	flipped := New(m.valOps, m.keyOps, WithLayout(layout), WithCapacity(uint64(m.Size())))
	var dup bool
	m.forEach(func(k K, v V) bool {
		if flipped.ContainsKey(v) {
			dup = true
			return false
		}
		flipped.Put(v, k)
		return true
	})
	if dup {
		return nil, moerr.NewInvalidStateNoCtx("duplicate value, cannot flip")
	}
	return flipped, nil
}

// Size returns the number of key/value pairs.
func (m *Map[K, V]) Size() int {
	n := int(m.elemCnt)
	if m.emptyKeyCell.present {
		n++
	}
	if m.removedKeyCell.present {
		n++
	}
	return n
}

func (m *Map[K, V]) IsEmpty() bool {
	return m.Size() == 0
}

func (m *Map[K, V]) NotEmpty() bool {
	return m.Size() != 0
}

// Clear unbinds every key, keeping the current capacity.
func (m *Map[K, V]) Clear() {
	m.modCnt++
	m.slots.clear(&m.keyOps)
	m.elemCnt = 0
	m.fillCnt = 0
	m.emptyKeyCell = specialCell[V]{}
	m.removedKeyCell = specialCell[V]{}
}

// Compact rehashes into the smallest power-of-two table that holds the
// current entries under the fill threshold. Shrinking is never automatic.
func (m *Map[K, V]) Compact() {
	newBits := uint8(kInitialBucketCntBits)
	newCnt := uint64(kInitialBucketCnt)
	for newCnt*kLoadFactorNumerator/kLoadFactorDenominator <= m.elemCnt {
		newBits++
		newCnt <<= 1
	}
	m.rehash(newBits)
}

// forEach visits every pair in slot order, special cells first. fn
// returns false to stop early.
func (m *Map[K, V]) forEach(fn func(K, V) bool) {
	if m.layout == LayoutSentinel {
		if m.emptyKeyCell.present && !fn(m.keyOps.EmptyKey, m.emptyKeyCell.value) {
			return
		}
		if m.removedKeyCell.present && !fn(m.keyOps.RemovedKey, m.removedKeyCell.value) {
			return
		}
	}
	for i := uint64(0); i < m.bucketCnt; i++ {
		if m.slots.state(&m.keyOps, i) == slotOccupied {
			if !fn(m.slots.keys[i], m.slots.values[i]) {
				return
			}
		}
	}
}

// ForEach visits every pair. Iteration order is the physical slot order
// and may change after any resize.
func (m *Map[K, V]) ForEach(fn func(K, V)) {
	m.forEach(func(k K, v V) bool {
		fn(k, v)
		return true
	})
}

// ForEachKey visits every key.
func (m *Map[K, V]) ForEachKey(fn func(K)) {
	m.forEach(func(k K, _ V) bool {
		fn(k)
		return true
	})
}

// ForEachValue visits every value.
func (m *Map[K, V]) ForEachValue(fn func(V)) {
	m.forEach(func(_ K, v V) bool {
		fn(v)
		return true
	})
}

// Equal reports whether other holds exactly the same pairs.
func (m *Map[K, V]) Equal(other *Map[K, V]) bool {
	if other == nil || m.Size() != other.Size() {
		return false
	}
	equal := true
	m.forEach(func(k K, v V) bool {
		ov, ok := other.Get(k)
		if !ok || !m.valOps.Equal(v, ov) {
			equal = false
			return false
		}
		return true
	})
	return equal
}

// Clone returns an independent copy with the same layout and contents.
func (m *Map[K, V]) Clone() *Map[K, V] {
	c := &Map[K, V]{
		keyOps:         m.keyOps,
		valOps:         m.valOps,
		layout:         m.layout,
		bucketCntBits:  m.bucketCntBits,
		bucketCnt:      m.bucketCnt,
		elemCnt:        m.elemCnt,
		fillCnt:        m.fillCnt,
		maxElemCnt:     m.maxElemCnt,
		slots:          m.slots.clone(),
		emptyKeyCell:   m.emptyKeyCell,
		removedKeyCell: m.removedKeyCell,
	}
	return c
}

// KeyOps exposes the key capabilities, for callers that sort or re-hash
// the map's keys.
func (m *Map[K, V]) KeyOps() *Ops[K] {
	return &m.keyOps
}

// ValOps exposes the value capabilities.
func (m *Map[K, V]) ValOps() *Ops[V] {
	return &m.valOps
}

func (m *Map[K, V]) resizeOnDemand(n int) {
	targetFill := m.fillCnt + uint64(n)
	if targetFill <= m.maxElemCnt {
		return
	}

	// When live entries alone sit well under the threshold the table is
	// mostly tombstones: rehash in place instead of growing.
	if m.elemCnt+uint64(n) <= m.maxElemCnt/2 {
		m.rehash(m.bucketCntBits)
		return
	}

	newBucketCntBits := m.bucketCntBits + 1
	newBucketCnt := uint64(1) << newBucketCntBits
	newMaxElemCnt := newBucketCnt * kLoadFactorNumerator / kLoadFactorDenominator
	for newMaxElemCnt < m.elemCnt+uint64(n) {
		newBucketCntBits++
		newBucketCnt <<= 1
		newMaxElemCnt = newBucketCnt * kLoadFactorNumerator / kLoadFactorDenominator
	}
	m.rehash(newBucketCntBits)
}

// rehash reinserts every occupied slot into a fresh table in one pass.
// Tombstones are dropped, never carried over.
func (m *Map[K, V]) rehash(newBucketCntBits uint8) {
	oldSlots := m.slots
	oldBucketCnt := m.bucketCnt

	m.bucketCntBits = newBucketCntBits
	m.bucketCnt = uint64(1) << newBucketCntBits
	m.maxElemCnt = m.bucketCnt * kLoadFactorNumerator / kLoadFactorDenominator
	m.slots = newSlotTable[K, V](&m.keyOps, m.layout, m.bucketCnt)
	m.fillCnt = m.elemCnt
	m.modCnt++

	for i := uint64(0); i < oldBucketCnt; i++ {
		if oldSlots.state(&m.keyOps, i) == slotOccupied {
			idx, _ := m.findBucket(oldSlots.keys[i])
			m.slots.set(idx, oldSlots.keys[i], oldSlots.values[i])
		}
	}
}

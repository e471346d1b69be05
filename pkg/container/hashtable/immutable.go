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

// ImmutableMap owns a private frozen slot table built once at
// construction. It is not a wrapper around a live mutable map: the
// With/Without operations copy the table, apply the single change and
// return a new instance; the receiver is never touched.
type ImmutableMap[K, V any] struct {
	m *Map[K, V]
}

// ToImmutable snapshots the map. Later mutation of the receiver does
// not affect the snapshot.
func (m *Map[K, V]) ToImmutable() *ImmutableMap[K, V] {
	return &ImmutableMap[K, V]{m: m.Clone()}
}

// NewImmutable creates an immutable map from pairs.
func NewImmutable[K, V any](keyOps Ops[K], valOps Ops[V], pairs ...Pair[K, V]) *ImmutableMap[K, V] {
	return &ImmutableMap[K, V]{m: FromPairs(keyOps, valOps, pairs...)}
}

// ToImmutable on an immutable map is the identity, no copy.
func (im *ImmutableMap[K, V]) ToImmutable() *ImmutableMap[K, V] {
	return im
}

// ToMap returns an independent mutable copy.
func (im *ImmutableMap[K, V]) ToMap() *Map[K, V] {
	return im.m.Clone()
}

// WithKeyValue returns a new immutable map that additionally binds key
// to value.
func (im *ImmutableMap[K, V]) WithKeyValue(key K, value V) *ImmutableMap[K, V] {
	next := im.m.Clone()
	next.Put(key, value)
	return &ImmutableMap[K, V]{m: next}
}

// WithoutKey returns a new immutable map without key.
func (im *ImmutableMap[K, V]) WithoutKey(key K) *ImmutableMap[K, V] {
	next := im.m.Clone()
	next.RemoveKey(key)
	return &ImmutableMap[K, V]{m: next}
}

// WithoutAllKeys returns a new immutable map without any of keys.
func (im *ImmutableMap[K, V]) WithoutAllKeys(keys []K) *ImmutableMap[K, V] {
	next := im.m.Clone()
	for _, k := range keys {
		next.RemoveKey(k)
	}
	return &ImmutableMap[K, V]{m: next}
}

func (im *ImmutableMap[K, V]) Get(key K) (V, bool) {
	return im.m.Get(key)
}

func (im *ImmutableMap[K, V]) GetIfAbsent(key K, def V) V {
	return im.m.GetIfAbsent(key, def)
}

func (im *ImmutableMap[K, V]) GetOrFail(key K) (V, error) {
	return im.m.GetOrFail(key)
}

func (im *ImmutableMap[K, V]) ContainsKey(key K) bool {
	return im.m.ContainsKey(key)
}

func (im *ImmutableMap[K, V]) ContainsValue(value V) bool {
	return im.m.ContainsValue(value)
}

func (im *ImmutableMap[K, V]) Size() int {
	return im.m.Size()
}

func (im *ImmutableMap[K, V]) IsEmpty() bool {
	return im.m.IsEmpty()
}

func (im *ImmutableMap[K, V]) NotEmpty() bool {
	return im.m.NotEmpty()
}

func (im *ImmutableMap[K, V]) ForEach(fn func(K, V)) {
	im.m.ForEach(fn)
}

func (im *ImmutableMap[K, V]) NewIterator() *Iterator[K, V] {
	return im.m.NewIterator()
}

func (im *ImmutableMap[K, V]) KeysView() KeysView[K, V] {
	return im.m.KeysView()
}

func (im *ImmutableMap[K, V]) ValuesView() ValuesView[K, V] {
	return im.m.ValuesView()
}

func (im *ImmutableMap[K, V]) KeyValuesView() KeyValuesView[K, V] {
	return im.m.KeyValuesView()
}

// Equal reports whether other holds exactly the same pairs.
func (im *ImmutableMap[K, V]) Equal(other *ImmutableMap[K, V]) bool {
	if other == nil {
		return false
	}
	return im.m.Equal(other.m)
}

// FlipUniqueValues builds the inverse immutable map; fails with
// ErrInvalidState when any value repeats.
func (im *ImmutableMap[K, V]) FlipUniqueValues() (*ImmutableMap[V, K], error) {
	flipped, err := im.m.FlipUniqueValues()
	if err != nil {
		return nil, err
	}
	return &ImmutableMap[V, K]{m: flipped}, nil
}

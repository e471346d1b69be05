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

// UnmodifiableMap is a delegating guard over a live mutable map: reads
// pass through (and observe later mutations of the wrapped map), every
// mutator panics with ErrUnsupportedOperation.
type UnmodifiableMap[K, V any] struct {
	m *Map[K, V]
}

// AsUnmodifiable wraps the map in a read-only guard. The wrapped map
// stays mutable through its own reference.
func (m *Map[K, V]) AsUnmodifiable() *UnmodifiableMap[K, V] {
	return &UnmodifiableMap[K, V]{m: m}
}

func unsupported(op string) {
	panic(moerr.NewUnsupportedOperationNoCtx("cannot %s an unmodifiable map", op))
}

func (um *UnmodifiableMap[K, V]) Put(key K, value V) (V, bool) {
	unsupported("put into")
	panic("unreachable")
}

func (um *UnmodifiableMap[K, V]) RemoveKey(key K) (V, bool) {
	unsupported("remove from")
	panic("unreachable")
}

// RemoveKeyIfAbsent returns def when key is absent: no removal happens,
// so the call is effectively a read and is permitted. With the key
// present it is a mutator and panics.
func (um *UnmodifiableMap[K, V]) RemoveKeyIfAbsent(key K, def V) V {
	if um.m.ContainsKey(key) {
		unsupported("remove from")
	}
	return def
}

// GetIfAbsentPut returns the existing value when key is present; with
// the key absent it would insert, so it panics.
func (um *UnmodifiableMap[K, V]) GetIfAbsentPut(key K, value V) V {
	if v, ok := um.m.Get(key); ok {
		return v
	}
	unsupported("put into")
	panic("unreachable")
}

func (um *UnmodifiableMap[K, V]) UpdateValue(key K, zeroFn func() V, fn func(V) V) (V, error) {
	unsupported("update")
	panic("unreachable")
}

func (um *UnmodifiableMap[K, V]) Clear() {
	unsupported("clear")
}

func (um *UnmodifiableMap[K, V]) Compact() {
	unsupported("compact")
}

func (um *UnmodifiableMap[K, V]) Get(key K) (V, bool) {
	return um.m.Get(key)
}

func (um *UnmodifiableMap[K, V]) GetIfAbsent(key K, def V) V {
	return um.m.GetIfAbsent(key, def)
}

func (um *UnmodifiableMap[K, V]) GetOrFail(key K) (V, error) {
	return um.m.GetOrFail(key)
}

func (um *UnmodifiableMap[K, V]) ContainsKey(key K) bool {
	return um.m.ContainsKey(key)
}

func (um *UnmodifiableMap[K, V]) ContainsValue(value V) bool {
	return um.m.ContainsValue(value)
}

func (um *UnmodifiableMap[K, V]) Size() int {
	return um.m.Size()
}

func (um *UnmodifiableMap[K, V]) IsEmpty() bool {
	return um.m.IsEmpty()
}

func (um *UnmodifiableMap[K, V]) NotEmpty() bool {
	return um.m.NotEmpty()
}

func (um *UnmodifiableMap[K, V]) ForEach(fn func(K, V)) {
	um.m.ForEach(fn)
}

func (um *UnmodifiableMap[K, V]) NewIterator() *Iterator[K, V] {
	return um.m.NewIterator()
}

func (um *UnmodifiableMap[K, V]) KeysView() KeysView[K, V] {
	return um.m.KeysView()
}

func (um *UnmodifiableMap[K, V]) ValuesView() ValuesView[K, V] {
	return um.m.ValuesView()
}

func (um *UnmodifiableMap[K, V]) KeyValuesView() KeyValuesView[K, V] {
	return um.m.KeyValuesView()
}

func (um *UnmodifiableMap[K, V]) FlipUniqueValues() (*Map[V, K], error) {
	return um.m.FlipUniqueValues()
}

func (um *UnmodifiableMap[K, V]) ToImmutable() *ImmutableMap[K, V] {
	return um.m.ToImmutable()
}

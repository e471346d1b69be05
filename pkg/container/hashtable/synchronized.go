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
	"sync"
)

// SynchronizedMap serializes every operation on a wrapped mutable map
// under one lock. The lock is not reentrant: callbacks passed to ForEach,
// UpdateValue and friends must not call back into the wrapper (use the
// raw map handed to Atomically instead). Iterators obtained through
// NewIterator are not synchronized per step; run whole iterations inside
// Atomically.
type SynchronizedMap[K, V any] struct {
	mu sync.RWMutex
	m  *Map[K, V]
}

// AsSynchronized wraps the map in a locking guard. The caller must stop
// using the raw map directly.
func (m *Map[K, V]) AsSynchronized() *SynchronizedMap[K, V] {
	return &SynchronizedMap[K, V]{m: m}
}

// Atomically runs fn on the underlying map while holding the exclusive
// lock, for compound operations and full iterations.
func (sm *SynchronizedMap[K, V]) Atomically(fn func(m *Map[K, V])) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	fn(sm.m)
}

func (sm *SynchronizedMap[K, V]) Put(key K, value V) (V, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.m.Put(key, value)
}

func (sm *SynchronizedMap[K, V]) RemoveKey(key K) (V, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.m.RemoveKey(key)
}

func (sm *SynchronizedMap[K, V]) RemoveKeyIfAbsent(key K, def V) V {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.m.RemoveKeyIfAbsent(key, def)
}

func (sm *SynchronizedMap[K, V]) GetIfAbsentPut(key K, value V) V {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.m.GetIfAbsentPut(key, value)
}

func (sm *SynchronizedMap[K, V]) GetIfAbsentPutWith(key K, supplier func() V) (V, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.m.GetIfAbsentPutWith(key, supplier)
}

func (sm *SynchronizedMap[K, V]) UpdateValue(key K, zeroFn func() V, fn func(V) V) (V, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.m.UpdateValue(key, zeroFn, fn)
}

func (sm *SynchronizedMap[K, V]) Clear() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.m.Clear()
}

func (sm *SynchronizedMap[K, V]) Compact() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.m.Compact()
}

func (sm *SynchronizedMap[K, V]) Get(key K) (V, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.m.Get(key)
}

func (sm *SynchronizedMap[K, V]) GetIfAbsent(key K, def V) V {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.m.GetIfAbsent(key, def)
}

func (sm *SynchronizedMap[K, V]) GetOrFail(key K) (V, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.m.GetOrFail(key)
}

func (sm *SynchronizedMap[K, V]) ContainsKey(key K) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.m.ContainsKey(key)
}

func (sm *SynchronizedMap[K, V]) ContainsValue(value V) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.m.ContainsValue(value)
}

func (sm *SynchronizedMap[K, V]) Size() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.m.Size()
}

func (sm *SynchronizedMap[K, V]) IsEmpty() bool {
	return sm.Size() == 0
}

func (sm *SynchronizedMap[K, V]) NotEmpty() bool {
	return sm.Size() != 0
}

func (sm *SynchronizedMap[K, V]) ForEach(fn func(K, V)) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.m.ForEach(fn)
}

func (sm *SynchronizedMap[K, V]) ToImmutable() *ImmutableMap[K, V] {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.m.ToImmutable()
}

func (sm *SynchronizedMap[K, V]) FlipUniqueValues() (*Map[V, K], error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.m.FlipUniqueValues()
}

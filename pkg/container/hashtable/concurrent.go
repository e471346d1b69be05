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
	"github.com/puzpuzpuz/xsync/v3"
)

// ConcurrentMap is the lock-striped variant. Unlike SynchronizedMap it
// does not wrap the open-addressing engine: it delegates to an
// off-the-shelf concurrent hash table. Iteration is unordered, not
// size-hinted, and observes a weakly consistent snapshot.
type ConcurrentMap[K comparable, V any] struct {
	m *xsync.MapOf[K, V]
}

// NewConcurrent creates an empty concurrent map.
func NewConcurrent[K comparable, V any]() *ConcurrentMap[K, V] {
	return &ConcurrentMap[K, V]{m: xsync.NewMapOf[K, V]()}
}

// Put binds key to value, returning the previous value if present.
func (cm *ConcurrentMap[K, V]) Put(key K, value V) (V, bool) {
	return cm.m.LoadAndStore(key, value)
}

func (cm *ConcurrentMap[K, V]) Get(key K) (V, bool) {
	return cm.m.Load(key)
}

func (cm *ConcurrentMap[K, V]) GetIfAbsent(key K, def V) V {
	if v, ok := cm.m.Load(key); ok {
		return v
	}
	return def
}

// GetIfAbsentPut returns the value bound to key, inserting value first
// when absent. The insert is atomic with the lookup.
func (cm *ConcurrentMap[K, V]) GetIfAbsentPut(key K, value V) V {
	v, _ := cm.m.LoadOrStore(key, value)
	return v
}

// GetIfAbsentPutWith is GetIfAbsentPut with a lazily computed value. The
// supplier may run without the insert winning the race; the returned
// value is always the one that won.
func (cm *ConcurrentMap[K, V]) GetIfAbsentPutWith(key K, supplier func() V) V {
	v, _ := cm.m.LoadOrCompute(key, supplier)
	return v
}

func (cm *ConcurrentMap[K, V]) RemoveKey(key K) (V, bool) {
	return cm.m.LoadAndDelete(key)
}

func (cm *ConcurrentMap[K, V]) ContainsKey(key K) bool {
	_, ok := cm.m.Load(key)
	return ok
}

func (cm *ConcurrentMap[K, V]) Size() int {
	return cm.m.Size()
}

func (cm *ConcurrentMap[K, V]) IsEmpty() bool {
	return cm.m.Size() == 0
}

func (cm *ConcurrentMap[K, V]) Clear() {
	cm.m.Clear()
}

// ForEach visits a weakly consistent snapshot of the pairs.
func (cm *ConcurrentMap[K, V]) ForEach(fn func(K, V)) {
	cm.m.Range(func(k K, v V) bool {
		fn(k, v)
		return true
	})
}

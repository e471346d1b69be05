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

// Iterable is the read contract shared by views and lazy adapters. fn
// returns false to stop early; ForEach returns ErrConcurrentModification
// when the backing container changes mid-iteration.
type Iterable[T any] interface {
	ForEach(fn func(T) bool) error
}

// forEachChecked is forEach with the fail-fast modification check
// applied per visited pair.
func (m *Map[K, V]) forEachChecked(fn func(K, V) bool) error {
	expected := m.modCnt
	var err error
	m.forEach(func(k K, v V) bool {
		if m.modCnt != expected {
			err = moerr.NewConcurrentModificationNoCtx("map changed during iteration")
			return false
		}
		return fn(k, v)
	})
	if err == nil && m.modCnt != expected {
		err = moerr.NewConcurrentModificationNoCtx("map changed during iteration")
	}
	return err
}

// KeysView is a lazy, non-owning view of a map's keys. It holds only the
// map reference; iteration reads through in physical slot order.
type KeysView[K, V any] struct {
	m *Map[K, V]
}

func (m *Map[K, V]) KeysView() KeysView[K, V] {
	return KeysView[K, V]{m: m}
}

func (v KeysView[K, V]) Size() int { return v.m.Size() }

func (v KeysView[K, V]) ForEach(fn func(K) bool) error {
	return v.m.forEachChecked(func(k K, _ V) bool {
		return fn(k)
	})
}

// ValuesView is the values sibling of KeysView.
type ValuesView[K, V any] struct {
	m *Map[K, V]
}

func (m *Map[K, V]) ValuesView() ValuesView[K, V] {
	return ValuesView[K, V]{m: m}
}

func (v ValuesView[K, V]) Size() int { return v.m.Size() }

func (v ValuesView[K, V]) ForEach(fn func(V) bool) error {
	return v.m.forEachChecked(func(_ K, val V) bool {
		return fn(val)
	})
}

// KeyValuesView yields the pairs themselves.
type KeyValuesView[K, V any] struct {
	m *Map[K, V]
}

func (m *Map[K, V]) KeyValuesView() KeyValuesView[K, V] {
	return KeyValuesView[K, V]{m: m}
}

func (v KeyValuesView[K, V]) Size() int { return v.m.Size() }

func (v KeyValuesView[K, V]) ForEach(fn func(Pair[K, V]) bool) error {
	return v.m.forEachChecked(func(k K, val V) bool {
		return fn(Pair[K, V]{Key: k, Value: val})
	})
}

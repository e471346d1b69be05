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

// Package treemap provides a sorted map for callers that need a
// deterministic iteration order, which the hash maps deliberately do not
// guarantee.
package treemap

import (
	"github.com/google/btree"

	"github.com/primkit/primkit/pkg/common/moerr"
	"github.com/primkit/primkit/pkg/container/hashtable"
)

const kBTreeDegree = 32

type treeItem[K, V any] struct {
	key   K
	value V
	less  func(a, b K) bool
}

func (it *treeItem[K, V]) Less(than btree.Item) bool {
	return it.less(it.key, than.(*treeItem[K, V]).key)
}

// TreeMap is a b-tree backed map ordered by less.
type TreeMap[K, V any] struct {
	less func(a, b K) bool
	tree *btree.BTree
}

// New creates an empty sorted map ordered by less.
func New[K, V any](less func(a, b K) bool) *TreeMap[K, V] {
	return &TreeMap[K, V]{
		less: less,
		tree: btree.New(kBTreeDegree),
	}
}

// FromHashMap sorts the contents of a hash map into a new TreeMap,
// ordered by the map's key ops.
func FromHashMap[K, V any](m *hashtable.Map[K, V]) *TreeMap[K, V] {
	tm := New[K, V](m.KeyOps().Less)
	m.ForEach(func(k K, v V) {
		tm.Put(k, v)
	})
	return tm
}

// Put binds key to value, returning the previous value if present.
func (tm *TreeMap[K, V]) Put(key K, value V) (prev V, existed bool) {
	old := tm.tree.ReplaceOrInsert(&treeItem[K, V]{key: key, value: value, less: tm.less})
	if old == nil {
		return prev, false
	}
	return old.(*treeItem[K, V]).value, true
}

func (tm *TreeMap[K, V]) Get(key K) (V, bool) {
	item := tm.tree.Get(&treeItem[K, V]{key: key, less: tm.less})
	if item == nil {
		var zero V
		return zero, false
	}
	return item.(*treeItem[K, V]).value, true
}

func (tm *TreeMap[K, V]) ContainsKey(key K) bool {
	_, ok := tm.Get(key)
	return ok
}

// RemoveKey unbinds key, returning the previous value.
func (tm *TreeMap[K, V]) RemoveKey(key K) (prev V, existed bool) {
	old := tm.tree.Delete(&treeItem[K, V]{key: key, less: tm.less})
	if old == nil {
		return prev, false
	}
	return old.(*treeItem[K, V]).value, true
}

func (tm *TreeMap[K, V]) Size() int {
	return tm.tree.Len()
}

func (tm *TreeMap[K, V]) IsEmpty() bool {
	return tm.tree.Len() == 0
}

// ForEach visits the pairs in ascending key order.
func (tm *TreeMap[K, V]) ForEach(fn func(K, V)) {
	tm.tree.Ascend(func(item btree.Item) bool {
		ti := item.(*treeItem[K, V])
		fn(ti.key, ti.value)
		return true
	})
}

// Keys returns the keys in ascending order.
func (tm *TreeMap[K, V]) Keys() []K {
	out := make([]K, 0, tm.Size())
	tm.ForEach(func(k K, _ V) {
		out = append(out, k)
	})
	return out
}

// MinKey returns the smallest key, or ErrNoSuchElement when empty.
func (tm *TreeMap[K, V]) MinKey() (K, error) {
	item := tm.tree.Min()
	if item == nil {
		var zero K
		return zero, moerr.NewNoSuchElementNoCtx("min of empty map")
	}
	return item.(*treeItem[K, V]).key, nil
}

// MaxKey returns the largest key, or ErrNoSuchElement when empty.
func (tm *TreeMap[K, V]) MaxKey() (K, error) {
	item := tm.tree.Max()
	if item == nil {
		var zero K
		return zero, moerr.NewNoSuchElementNoCtx("max of empty map")
	}
	return item.(*treeItem[K, V]).key, nil
}

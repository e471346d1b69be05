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

package treemap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/primkit/primkit/pkg/common/moerr"
	"github.com/primkit/primkit/pkg/container/hashtable"
)

func intLess(a, b int64) bool { return a < b }

func TestTreeMapPutGetRemove(t *testing.T) {
	tm := New[int64, string](intLess)
	require.True(t, tm.IsEmpty())

	_, existed := tm.Put(2, "two")
	require.False(t, existed)
	tm.Put(1, "one")
	tm.Put(3, "three")
	require.Equal(t, 3, tm.Size())

	prev, existed := tm.Put(2, "TWO")
	require.True(t, existed)
	require.Equal(t, "two", prev)
	require.Equal(t, 3, tm.Size())

	v, ok := tm.Get(2)
	require.True(t, ok)
	require.Equal(t, "TWO", v)
	require.True(t, tm.ContainsKey(1))
	require.False(t, tm.ContainsKey(9))

	prev, existed = tm.RemoveKey(2)
	require.True(t, existed)
	require.Equal(t, "TWO", prev)
	_, existed = tm.RemoveKey(2)
	require.False(t, existed)
	require.Equal(t, 2, tm.Size())
}

func TestTreeMapOrderedIteration(t *testing.T) {
	tm := New[int64, int64](intLess)
	for _, k := range []int64{5, 1, 4, 2, 3} {
		tm.Put(k, k*10)
	}

	require.Equal(t, []int64{1, 2, 3, 4, 5}, tm.Keys())

	var keys []int64
	tm.ForEach(func(k, v int64) {
		require.Equal(t, k*10, v)
		keys = append(keys, k)
	})
	require.Equal(t, []int64{1, 2, 3, 4, 5}, keys)
}

func TestTreeMapMinMax(t *testing.T) {
	tm := New[int64, int64](intLess)

	_, err := tm.MinKey()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNoSuchElement))
	_, err = tm.MaxKey()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNoSuchElement))

	tm.Put(7, 0)
	tm.Put(3, 0)
	tm.Put(9, 0)

	minK, err := tm.MinKey()
	require.NoError(t, err)
	require.Equal(t, int64(3), minK)
	maxK, err := tm.MaxKey()
	require.NoError(t, err)
	require.Equal(t, int64(9), maxK)
}

func TestFromHashMap(t *testing.T) {
	hm := hashtable.New(hashtable.IntOps[int64](), hashtable.IntOps[int64]())
	for _, k := range []int64{42, 7, 19} {
		hm.Put(k, k+1)
	}

	tm := FromHashMap(hm)
	require.Equal(t, hm.Size(), tm.Size())
	require.Equal(t, []int64{7, 19, 42}, tm.Keys())
	v, ok := tm.Get(42)
	require.True(t, ok)
	require.Equal(t, int64(43), v)
}

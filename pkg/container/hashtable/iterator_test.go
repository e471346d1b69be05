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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/primkit/primkit/pkg/common/moerr"
)

func TestIteratorVisitsAll(t *testing.T) {
	forAllLayouts(t, func(t *testing.T, layout Layout) {
		m := New(IntOps[int64](), IntOps[int64](), WithLayout(layout))
		for i := int64(0); i < 100; i++ {
			m.Put(i, i*2)
		}

		seen := map[int64]int64{}
		it := m.NewIterator()
		for {
			k, v, err := it.Next()
			if err != nil {
				require.True(t, moerr.IsMoErrCode(err, moerr.ErrNoSuchElement))
				break
			}
			_, dup := seen[k]
			require.False(t, dup)
			seen[k] = v
		}
		require.Len(t, seen, 100)
		for k, v := range seen {
			require.Equal(t, k*2, v)
		}

		// exhaustion is sticky
		_, _, err := it.Next()
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrNoSuchElement))
	})
}

func TestIteratorEmptyMap(t *testing.T) {
	m := New(IntOps[int64](), IntOps[int64]())
	_, _, err := m.NewIterator().Next()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNoSuchElement))
}

func TestIteratorFailFast(t *testing.T) {
	m := intMap(1, 2, 3)
	it := m.NewIterator()
	_, _, err := it.Next()
	require.NoError(t, err)

	m.Put(4, 40)
	_, _, err = it.Next()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrConcurrentModification))
}

func TestIteratorFailFastOnRemove(t *testing.T) {
	m := intMap(1, 2, 3)
	it := m.NewIterator()

	m.RemoveKey(2)
	_, _, err := it.Next()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrConcurrentModification))
}

func TestIteratorYieldsReservedKeysFirst(t *testing.T) {
	m := New(IntOps[int64](), IntOps[int64](), WithLayout(LayoutSentinel))
	m.Put(5, 50)
	m.Put(math.MinInt64, 1)
	m.Put(math.MinInt64+1, 2)

	it := m.NewIterator()
	k, v, err := it.Next()
	require.NoError(t, err)
	require.Equal(t, int64(math.MinInt64), k)
	require.Equal(t, int64(1), v)

	k, v, err = it.Next()
	require.NoError(t, err)
	require.Equal(t, int64(math.MinInt64+1), k)
	require.Equal(t, int64(2), v)

	k, v, err = it.Next()
	require.NoError(t, err)
	require.Equal(t, int64(5), k)
	require.Equal(t, int64(50), v)

	_, _, err = it.Next()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNoSuchElement))
}

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

// identityOps hashes a key to itself, making bucket placement
// predictable in white-box tests.
func identityOps() Ops[int64] {
	ops := IntOps[int64]()
	ops.Hash = func(v int64) uint64 { return uint64(v) }
	return ops
}

var allLayouts = []struct {
	name   string
	layout Layout
}{
	{"tagged", LayoutTagged},
	{"sentinel", LayoutSentinel},
}

func forAllLayouts(t *testing.T, fn func(t *testing.T, layout Layout)) {
	for _, tc := range allLayouts {
		t.Run(tc.name, func(t *testing.T) {
			fn(t, tc.layout)
		})
	}
}

func TestMapPutGet(t *testing.T) {
	forAllLayouts(t, func(t *testing.T, layout Layout) {
		m := New(IntOps[int64](), IntOps[int64](), WithLayout(layout))

		for i := int64(0); i < 100; i++ {
			_, existed := m.Put(i, i*10)
			require.False(t, existed)
		}
		require.Equal(t, 100, m.Size())
		require.True(t, m.NotEmpty())

		for i := int64(0); i < 100; i++ {
			v, ok := m.Get(i)
			require.True(t, ok)
			require.Equal(t, i*10, v)
			require.True(t, m.ContainsKey(i))
		}
		require.False(t, m.ContainsKey(100))
		require.Equal(t, int64(-1), m.GetIfAbsent(100, -1))

		prev, existed := m.Put(7, 700)
		require.True(t, existed)
		require.Equal(t, int64(70), prev)
		v, _ := m.Get(7)
		require.Equal(t, int64(700), v)
		require.Equal(t, 100, m.Size())
	})
}

func TestMapGetOrFail(t *testing.T) {
	m := New(IntOps[int64](), IntOps[int64]())
	m.Put(1, 10)

	v, err := m.GetOrFail(1)
	require.NoError(t, err)
	require.Equal(t, int64(10), v)

	_, err = m.GetOrFail(2)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNoSuchElement))
}

func TestMapRemove(t *testing.T) {
	forAllLayouts(t, func(t *testing.T, layout Layout) {
		m := New(IntOps[int64](), IntOps[int64](), WithLayout(layout))
		for i := int64(0); i < 50; i++ {
			m.Put(i, i)
		}

		prev, existed := m.RemoveKey(10)
		require.True(t, existed)
		require.Equal(t, int64(10), prev)
		require.Equal(t, 49, m.Size())
		require.False(t, m.ContainsKey(10))

		_, existed = m.RemoveKey(10)
		require.False(t, existed)
		require.Equal(t, 49, m.Size())

		// a removed key is insertable again
		m.Put(10, 1000)
		v, ok := m.Get(10)
		require.True(t, ok)
		require.Equal(t, int64(1000), v)
		require.Equal(t, 50, m.Size())
	})
}

func TestMapRemoveKeyIfAbsent(t *testing.T) {
	m := New(IntOps[int64](), IntOps[int64]())
	m.Put(1, 10)

	require.Equal(t, int64(10), m.RemoveKeyIfAbsent(1, -1))
	require.False(t, m.ContainsKey(1))
	require.Equal(t, int64(-1), m.RemoveKeyIfAbsent(1, -1))
}

func TestTombstoneReuse(t *testing.T) {
	forAllLayouts(t, func(t *testing.T, layout Layout) {
		m := New(identityOps(), IntOps[int64](), WithLayout(layout))
		require.Equal(t, uint64(kInitialBucketCnt), m.bucketCnt)

		// 5 and 21 share bucket 5 under the identity hash and mask 15
		m.Put(5, 1)
		m.Put(21, 2)
		idx5, found := m.findBucket(5)
		require.True(t, found)
		require.Equal(t, uint64(5), idx5)
		idx21, found := m.findBucket(21)
		require.True(t, found)
		require.Equal(t, uint64(6), idx21)

		m.RemoveKey(5)
		require.Equal(t, uint64(2), m.fillCnt)
		require.Equal(t, uint64(1), m.elemCnt)

		// 37 also maps to bucket 5: the probe must hand back the
		// tombstone at 5, not the empty slot after 21
		insertIdx, found := m.findBucket(37)
		require.False(t, found)
		require.Equal(t, uint64(5), insertIdx)

		m.Put(37, 3)
		require.Equal(t, uint64(2), m.fillCnt)
		require.Equal(t, uint64(2), m.elemCnt)
		gotIdx, found := m.findBucket(37)
		require.True(t, found)
		require.Equal(t, uint64(5), gotIdx)
	})
}

func TestResizeTransparency(t *testing.T) {
	forAllLayouts(t, func(t *testing.T, layout Layout) {
		m := New(IntOps[int64](), IntOps[int64](), WithLayout(layout))
		initialCnt := m.bucketCnt

		const n = 10_000
		for i := int64(0); i < n; i++ {
			m.Put(i*7, i)
		}
		require.Greater(t, m.bucketCnt, initialCnt)
		require.Equal(t, n, m.Size())

		for i := int64(0); i < n; i++ {
			v, ok := m.Get(i * 7)
			require.True(t, ok)
			require.Equal(t, i, v)
		}
	})
}

func TestRehashInPlacePurgesTombstones(t *testing.T) {
	m := New(identityOps(), IntOps[int64]())
	require.Equal(t, uint64(16), m.bucketCnt)

	// keys 0..5 occupy slots 0..5 under the identity hash
	for i := int64(0); i < 6; i++ {
		m.Put(i, i)
	}
	for i := int64(0); i < 5; i++ {
		m.RemoveKey(i)
	}
	m.Put(6, 6)
	m.Put(7, 7)
	require.Equal(t, uint64(8), m.fillCnt)
	require.Equal(t, uint64(3), m.elemCnt)

	// the next insert crosses the fill threshold with only 4 live
	// entries: the table must purge tombstones, not grow
	m.Put(8, 8)
	require.Equal(t, uint64(16), m.bucketCnt)
	require.Equal(t, uint64(4), m.elemCnt)
	require.Equal(t, m.elemCnt, m.fillCnt)

	for _, k := range []int64{5, 6, 7, 8} {
		require.True(t, m.ContainsKey(k))
	}
	require.Equal(t, 4, m.Size())
}

func TestGrowthDoublesUntilFit(t *testing.T) {
	m := New(IntOps[int64](), IntOps[int64]())
	for i := int64(0); i < 9; i++ {
		m.Put(i, i)
	}
	// 9 live entries do not fit 16*1/2, so the table grew
	require.Equal(t, uint64(32), m.bucketCnt)
	require.Equal(t, uint64(16), m.maxElemCnt)
}

func TestCollisionChainScenario(t *testing.T) {
	m := New(identityOps(), BoolOps(), WithCapacity(32))
	require.Equal(t, uint64(128), m.bucketCnt)

	// 160 and 288 both land on bucket 32 under mask 127
	m.Put(0, true)
	m.Put(1, false)
	m.Put(31, true)
	m.Put(160, false)
	m.Put(288, true)
	require.Equal(t, 5, m.Size())

	idx, found := m.findBucket(160)
	require.True(t, found)
	require.Equal(t, uint64(32), idx)
	idx, found = m.findBucket(288)
	require.True(t, found)
	require.Equal(t, uint64(33), idx)

	sorted, err := ToSortedList[int64](m.KeysView(), m.KeyOps().Less)
	require.NoError(t, err)
	require.Equal(t, []int64{0, 1, 31, 160, 288}, sorted)
}

func TestKeySumWidens(t *testing.T) {
	m := New(IntOps[int8](), BoolOps())
	for _, k := range []int8{30, 31, 32, 0, 1} {
		m.Put(k, true)
	}
	sum, err := Sum[int8](m.KeysView())
	require.NoError(t, err)
	require.Equal(t, int64(94), sum)
}

func TestGetIfAbsentPut(t *testing.T) {
	forAllLayouts(t, func(t *testing.T, layout Layout) {
		m := New(IntOps[int64](), IntOps[int64](), WithLayout(layout))

		require.Equal(t, int64(1), m.GetIfAbsentPut(10, 1))
		require.Equal(t, int64(1), m.GetIfAbsentPut(10, 2))
		require.Equal(t, 1, m.Size())

		calls := 0
		v, err := m.GetIfAbsentPutWith(20, func() int64 {
			calls++
			return 5
		})
		require.NoError(t, err)
		require.Equal(t, int64(5), v)
		v, err = m.GetIfAbsentPutWith(20, func() int64 {
			calls++
			return 6
		})
		require.NoError(t, err)
		require.Equal(t, int64(5), v)
		require.Equal(t, 1, calls)
	})
}

func TestGetIfAbsentPutWithReentrantSupplier(t *testing.T) {
	m := New(IntOps[int64](), IntOps[int64]())
	m.Put(1, 1)

	_, err := m.GetIfAbsentPutWith(2, func() int64 {
		m.Put(3, 3)
		return 2
	})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrConcurrentModification))
	// the failed insert must not commit
	require.False(t, m.ContainsKey(2))
}

func TestUpdateValue(t *testing.T) {
	forAllLayouts(t, func(t *testing.T, layout Layout) {
		m := New(IntOps[int64](), IntOps[int64](), WithLayout(layout))
		zero := func() int64 { return 0 }
		incr := func(v int64) int64 { return v + 1 }

		v, err := m.UpdateValue(1, zero, incr)
		require.NoError(t, err)
		require.Equal(t, int64(1), v)
		v, err = m.UpdateValue(1, zero, incr)
		require.NoError(t, err)
		require.Equal(t, int64(2), v)
		require.Equal(t, 1, m.Size())
	})
}

func TestUpdateValueReentrantCallback(t *testing.T) {
	m := New(IntOps[int64](), IntOps[int64]())
	_, err := m.UpdateValue(1, func() int64 { return 0 }, func(v int64) int64 {
		m.Put(9, 9)
		return v + 1
	})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrConcurrentModification))
	require.False(t, m.ContainsKey(1))
}

func TestFlipUniqueValues(t *testing.T) {
	forAllLayouts(t, func(t *testing.T, layout Layout) {
		m := New(IntOps[int64](), IntOps[int64](), WithLayout(layout))
		m.Put(1, 10)
		m.Put(2, 20)
		m.Put(3, 30)

		flipped, err := m.FlipUniqueValues()
		require.NoError(t, err)
		require.Equal(t, 3, flipped.Size())
		v, ok := flipped.Get(10)
		require.True(t, ok)
		require.Equal(t, int64(1), v)

		back, err := flipped.FlipUniqueValues()
		require.NoError(t, err)
		require.True(t, m.Equal(back))
	})
}

func TestFlipUniqueValuesDuplicate(t *testing.T) {
	m := New(IntOps[int64](), IntOps[int64]())
	m.Put(1, 1)
	m.Put(2, 1)

	_, err := m.FlipUniqueValues()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidState))
}

func TestClearKeepsCapacity(t *testing.T) {
	forAllLayouts(t, func(t *testing.T, layout Layout) {
		m := New(IntOps[int64](), IntOps[int64](), WithLayout(layout))
		for i := int64(0); i < 1000; i++ {
			m.Put(i, i)
		}
		grown := m.bucketCnt

		m.Clear()
		require.Equal(t, 0, m.Size())
		require.True(t, m.IsEmpty())
		require.Equal(t, grown, m.bucketCnt)
		require.False(t, m.ContainsKey(1))

		m.Put(1, 1)
		require.Equal(t, 1, m.Size())
	})
}

func TestCompactShrinks(t *testing.T) {
	m := New(IntOps[int64](), IntOps[int64]())
	for i := int64(0); i < 1000; i++ {
		m.Put(i, i)
	}
	for i := int64(10); i < 1000; i++ {
		m.RemoveKey(i)
	}
	grown := m.bucketCnt

	m.Compact()
	require.Less(t, m.bucketCnt, grown)
	require.Equal(t, uint64(32), m.bucketCnt)
	require.Equal(t, 10, m.Size())
	for i := int64(0); i < 10; i++ {
		require.True(t, m.ContainsKey(i))
	}
}

func TestReservedKeysStayInsertable(t *testing.T) {
	// the packed layout reserves MinInt64 and MinInt64+1; both must
	// still work as ordinary keys through the special cells
	m := New(IntOps[int64](), IntOps[int64](), WithLayout(LayoutSentinel))

	m.Put(math.MinInt64, 1)
	m.Put(math.MinInt64+1, 2)
	m.Put(42, 3)
	require.Equal(t, 3, m.Size())

	v, ok := m.Get(math.MinInt64)
	require.True(t, ok)
	require.Equal(t, int64(1), v)
	v, ok = m.Get(math.MinInt64 + 1)
	require.True(t, ok)
	require.Equal(t, int64(2), v)

	seen := map[int64]int64{}
	m.ForEach(func(k, v int64) {
		seen[k] = v
	})
	require.Len(t, seen, 3)
	require.Equal(t, int64(1), seen[math.MinInt64])

	prev, existed := m.RemoveKey(math.MinInt64)
	require.True(t, existed)
	require.Equal(t, int64(1), prev)
	require.Equal(t, 2, m.Size())
	require.False(t, m.ContainsKey(math.MinInt64))
}

func TestSentinelLayoutRequiresSentinelRoom(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		require.True(t, moerr.IsMoErrCode(r.(error), moerr.ErrBadConfig))
	}()
	New(BoolOps(), IntOps[int64](), WithLayout(LayoutSentinel))
}

func TestFromPairsAndEqual(t *testing.T) {
	m := FromPairs(IntOps[int64](), IntOps[int64](),
		P[int64, int64](1, 10), P[int64, int64](2, 20), P[int64, int64](1, 11))
	require.Equal(t, 2, m.Size())
	v, _ := m.Get(1)
	require.Equal(t, int64(11), v)

	other := New(IntOps[int64](), IntOps[int64]())
	other.Put(2, 20)
	other.Put(1, 11)
	require.True(t, m.Equal(other))

	other.Put(3, 30)
	require.False(t, m.Equal(other))
}

func TestCloneIsIndependent(t *testing.T) {
	forAllLayouts(t, func(t *testing.T, layout Layout) {
		m := New(IntOps[int64](), IntOps[int64](), WithLayout(layout))
		m.Put(1, 10)
		c := m.Clone()

		m.Put(2, 20)
		c.Put(3, 30)

		require.True(t, m.ContainsKey(2))
		require.False(t, c.ContainsKey(2))
		require.True(t, c.ContainsKey(3))
		require.False(t, m.ContainsKey(3))
	})
}

func TestContainsValue(t *testing.T) {
	m := New(IntOps[int64](), IntOps[int64]())
	m.Put(1, 10)
	m.Put(2, 20)
	require.True(t, m.ContainsValue(10))
	require.False(t, m.ContainsValue(30))
}

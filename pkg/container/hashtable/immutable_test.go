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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/primkit/primkit/pkg/common/moerr"
)

func TestImmutableSnapshotIsStable(t *testing.T) {
	m := intMap(1, 2)
	im := m.ToImmutable()

	m.Put(3, 30)
	m.RemoveKey(1)

	require.Equal(t, 2, im.Size())
	require.True(t, im.ContainsKey(1))
	require.False(t, im.ContainsKey(3))
	require.Equal(t, 2, m.Size())
}

func TestImmutableWithKeyValue(t *testing.T) {
	im := NewImmutable(IntOps[int64](), IntOps[int64](),
		P[int64, int64](1, 10))

	im2 := im.WithKeyValue(2, 20)
	require.NotSame(t, im, im2)
	require.Equal(t, 1, im.Size())
	require.Equal(t, 2, im2.Size())
	v, ok := im2.Get(2)
	require.True(t, ok)
	require.Equal(t, int64(20), v)
	require.False(t, im.ContainsKey(2))
}

func TestImmutableWithoutKey(t *testing.T) {
	im := NewImmutable(IntOps[int64](), IntOps[int64](),
		P[int64, int64](1, 10), P[int64, int64](2, 20), P[int64, int64](3, 30))

	im2 := im.WithoutKey(2)
	require.Equal(t, 3, im.Size())
	require.Equal(t, 2, im2.Size())
	require.False(t, im2.ContainsKey(2))

	im3 := im.WithoutAllKeys([]int64{1, 3, 99})
	require.Equal(t, 1, im3.Size())
	require.True(t, im3.ContainsKey(2))
}

func TestImmutableToImmutableIdentity(t *testing.T) {
	im := NewImmutable(IntOps[int64](), IntOps[int64](), P[int64, int64](1, 10))
	require.Same(t, im, im.ToImmutable())
}

func TestImmutableToMapIsIndependent(t *testing.T) {
	im := NewImmutable(IntOps[int64](), IntOps[int64](), P[int64, int64](1, 10))
	m := im.ToMap()
	m.Put(2, 20)
	require.Equal(t, 1, im.Size())
	require.Equal(t, 2, m.Size())
}

func TestImmutableEqualAndFlip(t *testing.T) {
	im := NewImmutable(IntOps[int64](), IntOps[int64](),
		P[int64, int64](1, 10), P[int64, int64](2, 20))

	same := NewImmutable(IntOps[int64](), IntOps[int64](),
		P[int64, int64](2, 20), P[int64, int64](1, 10))
	require.True(t, im.Equal(same))
	require.False(t, im.Equal(im.WithoutKey(1)))

	flipped, err := im.FlipUniqueValues()
	require.NoError(t, err)
	v, ok := flipped.Get(10)
	require.True(t, ok)
	require.Equal(t, int64(1), v)

	dup := im.WithKeyValue(3, 10)
	_, err = dup.FlipUniqueValues()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidState))
}

func TestImmutableViews(t *testing.T) {
	im := NewImmutable(IntOps[int64](), IntOps[int64](),
		P[int64, int64](1, 10), P[int64, int64](2, 20))

	sum, err := Sum[int64](im.KeysView())
	require.NoError(t, err)
	require.Equal(t, int64(3), sum)

	sum, err = Sum[int64](im.ValuesView())
	require.NoError(t, err)
	require.Equal(t, int64(30), sum)

	it := im.NewIterator()
	seen := 0
	for {
		_, _, err := it.Next()
		if err != nil {
			break
		}
		seen++
	}
	require.Equal(t, 2, seen)
}

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

// Iterator walks the map in physical slot order, special cells first.
// It is fail-fast: any structural modification after creation makes the
// next call to Next return ErrConcurrentModification. Exhaustion is
// signaled with ErrNoSuchElement.
type Iterator[K, V any] struct {
	m           *Map[K, V]
	pos         uint64
	specialStep uint8
	expectedMod uint64
}

// NewIterator returns an iterator positioned before the first pair.
func (m *Map[K, V]) NewIterator() *Iterator[K, V] {
	return &Iterator[K, V]{m: m, expectedMod: m.modCnt}
}

func (it *Iterator[K, V]) Next() (key K, value V, err error) {
	if it.m.modCnt != it.expectedMod {
		err = moerr.NewConcurrentModificationNoCtx("map changed during iteration")
		return
	}

	if it.m.layout == LayoutSentinel {
		for it.specialStep < 2 {
			step := it.specialStep
			it.specialStep++
			switch {
			case step == 0 && it.m.emptyKeyCell.present:
				return it.m.keyOps.EmptyKey, it.m.emptyKeyCell.value, nil
			case step == 1 && it.m.removedKeyCell.present:
				return it.m.keyOps.RemovedKey, it.m.removedKeyCell.value, nil
			}
		}
	}

	for it.pos < it.m.bucketCnt {
		if it.m.slots.state(&it.m.keyOps, it.pos) == slotOccupied {
			key = it.m.slots.keys[it.pos]
			value = it.m.slots.values[it.pos]
			it.pos++
			return key, value, nil
		}
		it.pos++
	}

	err = moerr.NewNoSuchElementNoCtx("iterator exhausted")
	return
}

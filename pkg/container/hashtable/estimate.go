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
	"encoding/binary"

	"github.com/axiomhq/hyperloglog"
)

// EstimateDistinct returns an approximate count of distinct elements in
// one pass and constant space. Useful on a values view, where the exact
// answer would need a full materialized set.
func EstimateDistinct[T any](it Iterable[T], ops Ops[T]) (uint64, error) {
	sketch := hyperloglog.New14()
	var buf [8]byte
	err := it.ForEach(func(v T) bool {
		binary.LittleEndian.PutUint64(buf[:], ops.Hash(v))
		sketch.Insert(buf[:])
		return true
	})
	if err != nil {
		return 0, err
	}
	return sketch.Estimate(), nil
}

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

// Package parallel batches a map's pairs onto a goroutine pool. The map
// is snapshotted up front, so fn observes the state at the time of the
// call and must not mutate the source map.
package parallel

import (
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/primkit/primkit/pkg/common/moerr"
	"github.com/primkit/primkit/pkg/container/hashtable"
)

const kDefaultBatchSize = 1024

// ForEachKeyValue applies fn to every pair, batchSize pairs per task, on
// a pool of workers goroutines. It returns after every batch completes;
// a panic out of fn fails the whole call with the converted error.
func ForEachKeyValue[K, V any](m *hashtable.Map[K, V], workers, batchSize int, fn func(K, V)) error {
	if workers <= 0 {
		return moerr.NewInvalidArgNoCtx("workers", workers)
	}
	if batchSize <= 0 {
		return moerr.NewInvalidArgNoCtx("batch size", batchSize)
	}

	batches := snapshotBatches(m, batchSize)
	if len(batches) == 0 {
		return nil
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return moerr.ConvertGoError(moerr.Context(), err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i := range batches {
		batch := batches[i]
		wg.Add(1)
		task := func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = moerr.ConvertPanicError(moerr.Context(), r)
					}
					mu.Unlock()
				}
			}()
			for _, p := range batch {
				fn(p.Key, p.Value)
			}
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = moerr.ConvertGoError(moerr.Context(), err)
			}
			mu.Unlock()
			break
		}
	}

	wg.Wait()
	return firstErr
}

// ForEachKey is ForEachKeyValue over the keys alone.
func ForEachKey[K, V any](m *hashtable.Map[K, V], workers, batchSize int, fn func(K)) error {
	return ForEachKeyValue(m, workers, batchSize, func(k K, _ V) {
		fn(k)
	})
}

func snapshotBatches[K, V any](m *hashtable.Map[K, V], batchSize int) [][]hashtable.Pair[K, V] {
	var batches [][]hashtable.Pair[K, V]
	cur := make([]hashtable.Pair[K, V], 0, batchSize)
	m.ForEach(func(k K, v V) {
		cur = append(cur, hashtable.Pair[K, V]{Key: k, Value: v})
		if len(cur) == batchSize {
			batches = append(batches, cur)
			cur = make([]hashtable.Pair[K, V], 0, batchSize)
		}
	})
	if len(cur) > 0 {
		batches = append(batches, cur)
	}
	return batches
}

// DefaultBatchSize returns the batch size used when callers pass zero
// through higher-level configuration.
func DefaultBatchSize() int {
	return kDefaultBatchSize
}

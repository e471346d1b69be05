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
	"sort"

	"github.com/primkit/primkit/pkg/common/moerr"
	"golang.org/x/exp/constraints"
)

// Number is the constraint for aggregate operations.
type Number interface {
	constraints.Integer | constraints.Float
}

// The lazy adapters compose without building intermediate collections:
// Select(Collect(v, f), p) still runs one pass over the backing table
// per terminal operation.

type selectIterable[T any] struct {
	src  Iterable[T]
	pred func(T) bool
}

func (s selectIterable[T]) ForEach(fn func(T) bool) error {
	return s.src.ForEach(func(v T) bool {
		if !s.pred(v) {
			return true
		}
		return fn(v)
	})
}

// Select yields the elements satisfying pred.
func Select[T any](it Iterable[T], pred func(T) bool) Iterable[T] {
	return selectIterable[T]{src: it, pred: pred}
}

// Reject yields the elements not satisfying pred.
func Reject[T any](it Iterable[T], pred func(T) bool) Iterable[T] {
	return selectIterable[T]{src: it, pred: func(v T) bool { return !pred(v) }}
}

type collectIterable[T, R any] struct {
	src Iterable[T]
	fn  func(T) R
}

func (c collectIterable[T, R]) ForEach(fn func(R) bool) error {
	return c.src.ForEach(func(v T) bool {
		return fn(c.fn(v))
	})
}

// Collect yields fn applied to each element.
func Collect[T, R any](it Iterable[T], fn func(T) R) Iterable[R] {
	return collectIterable[T, R]{src: it, fn: fn}
}

// Detect returns the first element satisfying pred.
func Detect[T any](it Iterable[T], pred func(T) bool) (found T, ok bool, err error) {
	err = it.ForEach(func(v T) bool {
		if pred(v) {
			found, ok = v, true
			return false
		}
		return true
	})
	return
}

// AnySatisfy reports whether some element satisfies pred.
func AnySatisfy[T any](it Iterable[T], pred func(T) bool) (bool, error) {
	_, ok, err := Detect(it, pred)
	return ok, err
}

// AllSatisfy reports whether every element satisfies pred.
func AllSatisfy[T any](it Iterable[T], pred func(T) bool) (bool, error) {
	_, ok, err := Detect(it, func(v T) bool { return !pred(v) })
	return !ok, err
}

// NoneSatisfy reports whether no element satisfies pred.
func NoneSatisfy[T any](it Iterable[T], pred func(T) bool) (bool, error) {
	ok, err := AnySatisfy(it, pred)
	return !ok, err
}

// Count returns the number of elements.
func Count[T any](it Iterable[T]) (int, error) {
	n := 0
	err := it.ForEach(func(T) bool {
		n++
		return true
	})
	return n, err
}

// ToList materializes the elements in iteration order.
func ToList[T any](it Iterable[T]) ([]T, error) {
	var out []T
	err := it.ForEach(func(v T) bool {
		out = append(out, v)
		return true
	})
	return out, err
}

// ToSortedList materializes the elements sorted ascending under less.
func ToSortedList[T any](it Iterable[T], less func(a, b T) bool) ([]T, error) {
	out, err := ToList(it)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}

// ToSet materializes the distinct elements into a set.
func ToSet[T any](it Iterable[T], ops Ops[T]) (*Set[T], error) {
	s := NewSet(ops)
	err := it.ForEach(func(v T) bool {
		s.Add(v)
		return true
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Chunk splits the elements into slices of at most size elements, in
// iteration order. Fails with ErrInvalidArg when size is not positive.
func Chunk[T any](it Iterable[T], size int) ([][]T, error) {
	if size <= 0 {
		return nil, moerr.NewInvalidArgNoCtx("chunk size", size)
	}
	var out [][]T
	var cur []T
	err := it.ForEach(func(v T) bool {
		cur = append(cur, v)
		if len(cur) == size {
			out = append(out, cur)
			cur = nil
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out, nil
}

// Sum adds the elements in the widened int64 domain, so sums of narrow
// integer types cannot overflow.
func Sum[T constraints.Integer](it Iterable[T]) (int64, error) {
	var sum int64
	err := it.ForEach(func(v T) bool {
		sum += int64(v)
		return true
	})
	return sum, err
}

// SumFloat adds the elements in float64.
func SumFloat[T constraints.Float](it Iterable[T]) (float64, error) {
	var sum float64
	err := it.ForEach(func(v T) bool {
		sum += float64(v)
		return true
	})
	return sum, err
}

// Max returns the largest element under less. Fails with
// ErrNoSuchElement on an empty iterable.
func Max[T any](it Iterable[T], less func(a, b T) bool) (T, error) {
	var best T
	found := false
	err := it.ForEach(func(v T) bool {
		if !found || less(best, v) {
			best, found = v, true
		}
		return true
	})
	if err != nil {
		return best, err
	}
	if !found {
		return best, moerr.NewNoSuchElementNoCtx("max of empty iterable")
	}
	return best, nil
}

// Min returns the smallest element under less. Fails with
// ErrNoSuchElement on an empty iterable.
func Min[T any](it Iterable[T], less func(a, b T) bool) (T, error) {
	var best T
	found := false
	err := it.ForEach(func(v T) bool {
		if !found || less(v, best) {
			best, found = v, true
		}
		return true
	})
	if err != nil {
		return best, err
	}
	if !found {
		return best, moerr.NewNoSuchElementNoCtx("min of empty iterable")
	}
	return best, nil
}

// Average returns the arithmetic mean. Fails with ErrArithmetic on an
// empty iterable.
func Average[T Number](it Iterable[T]) (float64, error) {
	var sum float64
	n := 0
	err := it.ForEach(func(v T) bool {
		sum += float64(v)
		n++
		return true
	})
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, moerr.NewArithmeticNoCtx("average of empty iterable")
	}
	return sum / float64(n), nil
}

// Median returns the middle element, or the mean of the two middle
// elements for an even count. Fails with ErrArithmetic on an empty
// iterable.
func Median[T Number](it Iterable[T]) (float64, error) {
	vals, err := ToList(it)
	if err != nil {
		return 0, err
	}
	if len(vals) == 0 {
		return 0, moerr.NewArithmeticNoCtx("median of empty iterable")
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i] < vals[j] })
	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		return float64(vals[mid]), nil
	}
	return (float64(vals[mid-1]) + float64(vals[mid])) / 2, nil
}

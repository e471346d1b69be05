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

// Set is a keys-only container over the same open-addressing engine.
type Set[K any] struct {
	m *Map[K, struct{}]
}

// NewSet creates an empty set.
func NewSet[K any](ops Ops[K], opts ...Option) *Set[K] {
	return &Set[K]{m: New[K, struct{}](ops, UnitOps(), opts...)}
}

// FromValues creates a set holding the given values.
func FromValues[K any](ops Ops[K], values ...K) *Set[K] {
	s := NewSet(ops, WithCapacity(uint64(len(values))))
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts value, reporting whether the set changed.
func (s *Set[K]) Add(value K) bool {
	_, existed := s.m.Put(value, struct{}{})
	return !existed
}

// Remove deletes value, reporting whether the set changed.
func (s *Set[K]) Remove(value K) bool {
	_, existed := s.m.RemoveKey(value)
	return existed
}

func (s *Set[K]) Contains(value K) bool {
	return s.m.ContainsKey(value)
}

func (s *Set[K]) Size() int {
	return s.m.Size()
}

func (s *Set[K]) IsEmpty() bool {
	return s.m.IsEmpty()
}

func (s *Set[K]) Clear() {
	s.m.Clear()
}

func (s *Set[K]) ForEach(fn func(K)) {
	s.m.ForEachKey(fn)
}

// View returns the lazy read-through view of the elements.
func (s *Set[K]) View() KeysView[K, struct{}] {
	return s.m.KeysView()
}

// ToList materializes the elements in slot order.
func (s *Set[K]) ToList() []K {
	out := make([]K, 0, s.Size())
	s.ForEach(func(v K) {
		out = append(out, v)
	})
	return out
}

func (s *Set[K]) Clone() *Set[K] {
	return &Set[K]{m: s.m.Clone()}
}

// Union returns a new set holding the elements of either set.
func (s *Set[K]) Union(other *Set[K]) *Set[K] {
	out := s.Clone()
	other.ForEach(func(v K) {
		out.Add(v)
	})
	return out
}

// Intersect returns a new set holding the elements of both sets.
func (s *Set[K]) Intersect(other *Set[K]) *Set[K] {
	out := NewSet(s.m.keyOps)
	s.ForEach(func(v K) {
		if other.Contains(v) {
			out.Add(v)
		}
	})
	return out
}

// Difference returns a new set holding s's elements absent from other.
func (s *Set[K]) Difference(other *Set[K]) *Set[K] {
	out := NewSet(s.m.keyOps)
	s.ForEach(func(v K) {
		if !other.Contains(v) {
			out.Add(v)
		}
	})
	return out
}

// Equal reports whether both sets hold the same elements.
func (s *Set[K]) Equal(other *Set[K]) bool {
	if other == nil {
		return false
	}
	return s.m.Equal(other.m)
}

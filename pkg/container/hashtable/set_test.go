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

	"github.com/smartystreets/goconvey/convey"
)

func TestSet(t *testing.T) {
	convey.Convey("set basics", t, func() {
		s := NewSet(IntOps[int64]())
		convey.So(s.IsEmpty(), convey.ShouldBeTrue)

		convey.So(s.Add(1), convey.ShouldBeTrue)
		convey.So(s.Add(1), convey.ShouldBeFalse)
		convey.So(s.Add(2), convey.ShouldBeTrue)
		convey.So(s.Size(), convey.ShouldEqual, 2)
		convey.So(s.Contains(1), convey.ShouldBeTrue)
		convey.So(s.Contains(3), convey.ShouldBeFalse)

		convey.So(s.Remove(1), convey.ShouldBeTrue)
		convey.So(s.Remove(1), convey.ShouldBeFalse)
		convey.So(s.Size(), convey.ShouldEqual, 1)

		s.Clear()
		convey.So(s.IsEmpty(), convey.ShouldBeTrue)
	})

	convey.Convey("set from values", t, func() {
		s := FromValues(IntOps[int64](), 3, 1, 2, 3, 1)
		convey.So(s.Size(), convey.ShouldEqual, 3)

		sorted, err := ToSortedList[int64](s.View(), IntOps[int64]().Less)
		convey.So(err, convey.ShouldBeNil)
		convey.So(sorted, convey.ShouldResemble, []int64{1, 2, 3})
		convey.So(len(s.ToList()), convey.ShouldEqual, 3)
	})

	convey.Convey("set algebra", t, func() {
		a := FromValues(IntOps[int64](), 1, 2, 3)
		b := FromValues(IntOps[int64](), 2, 3, 4)

		convey.So(a.Union(b).Equal(FromValues(IntOps[int64](), 1, 2, 3, 4)), convey.ShouldBeTrue)
		convey.So(a.Intersect(b).Equal(FromValues(IntOps[int64](), 2, 3)), convey.ShouldBeTrue)
		convey.So(a.Difference(b).Equal(FromValues(IntOps[int64](), 1)), convey.ShouldBeTrue)

		convey.So(a.Size(), convey.ShouldEqual, 3)
		convey.So(b.Size(), convey.ShouldEqual, 3)
	})

	convey.Convey("set clone independence", t, func() {
		a := FromValues(IntOps[int64](), 1, 2)
		c := a.Clone()
		c.Add(3)
		convey.So(a.Contains(3), convey.ShouldBeFalse)
		convey.So(c.Contains(3), convey.ShouldBeTrue)
		convey.So(a.Equal(c), convey.ShouldBeFalse)
	})

	convey.Convey("set equal ignores order", t, func() {
		a := FromValues(IntOps[int64](), 1, 2, 3)
		b := NewSet(IntOps[int64]())
		b.Add(3)
		b.Add(2)
		b.Add(1)
		convey.So(a.Equal(b), convey.ShouldBeTrue)
		convey.So(a.Equal(nil), convey.ShouldBeFalse)
	})
}

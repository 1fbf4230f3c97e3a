// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package argmax

import (
	"testing"

	"go.chromium.org/luci/common/errors"

	. "github.com/smartystreets/goconvey/convey"
	. "go.chromium.org/luci/common/testing/assertions"
)

func TestFirst(t *testing.T) {
	t.Parallel()

	Convey(`First`, t, func() {
		scores := func(vals []float64) ScoreFunc {
			return func(i int) (float64, error) { return vals[i], nil }
		}

		Convey(`Empty`, func() {
			i, _, err := First(0, 1, scores(nil))
			So(err, ShouldBeNil)
			So(i, ShouldEqual, -1)
		})

		Convey(`First maximum wins`, func() {
			i, s, err := First(5, 1, scores([]float64{1, 3, 2, 3, 0}))
			So(err, ShouldBeNil)
			So(i, ShouldEqual, 1)
			So(s, ShouldEqual, 3)
		})

		Convey(`Concurrent scan matches sequential`, func() {
			vals := make([]float64, 1000)
			for i := range vals {
				vals[i] = float64(i % 37)
			}
			// Maxima are at 36, 73, 110, ...
			for _, workers := range []int{1, 2, 3, 8, 64} {
				i, s, err := First(len(vals), workers, scores(vals))
				So(err, ShouldBeNil)
				So(i, ShouldEqual, 36)
				So(s, ShouldEqual, 36)
			}
		})

		Convey(`Maximum in the last chunk`, func() {
			vals := make([]float64, 500)
			vals[499] = 1
			i, _, err := First(len(vals), 4, scores(vals))
			So(err, ShouldBeNil)
			So(i, ShouldEqual, 499)
		})

		Convey(`Error`, func() {
			_, _, err := First(500, 4, func(i int) (float64, error) {
				if i == 300 {
					return 0, errors.New("boom")
				}
				return 0, nil
			})
			So(err, ShouldErrLike, "boom")
		})
	})
}

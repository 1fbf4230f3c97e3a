// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package eval

import (
	"bytes"
	"strings"
	"testing"

	"go.chromium.org/luci/common/data/stringset"

	"testreduce"

	. "github.com/smartystreets/goconvey/convey"
	. "go.chromium.org/luci/common/testing/assertions"
)

func TestReadFaultMatrix(t *testing.T) {
	t.Parallel()

	Convey(`ReadFaultMatrix`, t, func() {
		Convey(`Works`, func() {
			m, err := ReadFaultMatrix(strings.NewReader(`
				# test faults
				1 f1
				2
				3 f1 f3
				1 f2
			`))
			So(err, ShouldBeNil)
			So(m, ShouldHaveLength, 3)
			So(m[1].ToSortedSlice(), ShouldResemble, []string{"f1", "f2"})
			So(m[2].Len(), ShouldEqual, 0)
			So(m.Faults().ToSortedSlice(), ShouldResemble, []string{"f1", "f2", "f3"})
		})

		Convey(`Invalid id`, func() {
			_, err := ReadFaultMatrix(strings.NewReader("1 f1\nx f2\n"))
			So(err, ShouldErrLike, `line 2: invalid test id "x"`)
		})
	})
}

func TestScore(t *testing.T) {
	t.Parallel()

	Convey(`Score`, t, func() {
		m := FaultMatrix{
			1: stringset.NewFromSlice("f1"),
			2: stringset.NewFromSlice("f2"),
			3: stringset.NewFromSlice("f1", "f3"),
		}

		Convey(`Partial detection`, func() {
			s := Score(testreduce.Selection{4, 3, 1}, m, 4)
			So(s.FaultDetectionLoss, ShouldAlmostEqual, 1.0/3)
			So(s.TestSuiteReduction, ShouldAlmostEqual, 0.25)
			So(s.FirstFaultPosition, ShouldEqual, 2)
			// TF: f1=2, f3=2, f2 missed => 4.
			So(s.APFD, ShouldAlmostEqual, 1-8.0/9+1.0/6)
		})

		Convey(`Full detection`, func() {
			s := Score(testreduce.Selection{3, 2}, m, 4)
			So(s.FaultDetectionLoss, ShouldEqual, 0)
			So(s.FirstFaultPosition, ShouldEqual, 1)
			So(s.APFD, ShouldAlmostEqual, 1-4.0/6+1.0/4)
		})

		Convey(`Empty selection`, func() {
			s := Score(nil, m, 4)
			So(s, ShouldResemble, Metrics{
				FaultDetectionLoss: 1,
				TestSuiteReduction: 1,
			})
		})

		Convey(`No faults`, func() {
			s := Score(testreduce.Selection{1}, FaultMatrix{}, 0)
			So(s, ShouldResemble, Metrics{})
		})
	})
}

func TestMetricsPrint(t *testing.T) {
	t.Parallel()

	Convey(`Print`, t, func() {
		m := Metrics{
			FaultDetectionLoss: 0.25,
			TestSuiteReduction: 0.5,
			FirstFaultPosition: 2,
			APFD:               0.75,
		}
		buf := &bytes.Buffer{}
		So(m.Print(buf, 1), ShouldBeNil)
		So(buf.String(), ShouldEqual, `
  Fault detection loss:  25.00%
  Test suite reduction:  50.00%
  First fault position: 2
  APFD:                  75.00%
`[1:])
	})
}

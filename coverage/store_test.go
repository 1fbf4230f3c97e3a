// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package coverage

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.chromium.org/luci/common/data/stringset"

	"testreduce"

	. "github.com/smartystreets/goconvey/convey"
	. "go.chromium.org/luci/common/testing/assertions"
)

func TestStore(t *testing.T) {
	t.Parallel()

	Convey(`Store`, t, func() {
		tc := func(id testreduce.TestID, entities ...string) *TestCase {
			return &TestCase{ID: id, Coverage: stringset.NewFromSlice(entities...)}
		}

		Convey(`Canonical order`, func() {
			s, err := NewStore("line", []*TestCase{
				tc(1, "a"),
				tc(2, "a", "b"),
				tc(3),
				tc(4, "c", "d"),
				tc(5, "e"),
			})
			So(err, ShouldBeNil)
			// Descending by size, ties by input order.
			So(s.IDs(), ShouldResemble, []testreduce.TestID{2, 4, 1, 5, 3})
			So(s.Universe().ToSortedSlice(), ShouldResemble, []string{"a", "b", "c", "d", "e"})
			So(s.Len(), ShouldEqual, 5)

			t, ok := s.Get(4)
			So(ok, ShouldBeTrue)
			So(t.Coverage.Has("d"), ShouldBeTrue)
			_, ok = s.Get(6)
			So(ok, ShouldBeFalse)
		})

		Convey(`Nil coverage`, func() {
			s, err := NewStore("line", []*TestCase{{ID: 1}})
			So(err, ShouldBeNil)
			So(s.Universe().Len(), ShouldEqual, 0)
			So(s.Tests()[0].Coverage, ShouldNotBeNil)
		})

		Convey(`Invalid id`, func() {
			_, err := NewStore("line", []*TestCase{tc(0)})
			So(err, ShouldErrLike, "invalid test id 0")
			So(testreduce.ConfigError.In(err), ShouldBeTrue)
		})

		Convey(`Duplicate id`, func() {
			_, err := NewStore("line", []*TestCase{tc(1), tc(1)})
			So(err, ShouldErrLike, "duplicate test id 1")
		})

		Convey(`SameTests`, func() {
			a, _ := NewStore("line", []*TestCase{tc(1), tc(2)})
			b, _ := NewStore("branch", []*TestCase{tc(2, "x"), tc(1)})
			c, _ := NewStore("branch", []*TestCase{tc(1), tc(3)})
			So(a.SameTests(b), ShouldBeTrue)
			So(a.SameTests(c), ShouldBeFalse)
		})

		Convey(`AdditionalCoverage`, func() {
			covered := stringset.NewFromSlice("a", "b")
			t := tc(1, "a", "c", "d")
			So(AdditionalCoverage(t, covered), ShouldEqual, 2)
			AddCoverage(covered, t)
			So(covered.Len(), ShouldEqual, 4)
			So(AdditionalCoverage(t, covered), ShouldEqual, 0)
		})
	})
}

func TestRead(t *testing.T) {
	t.Parallel()

	Convey(`Read`, t, func() {
		ctx := context.Background()

		Convey(`White-box`, func() {
			s, err := Read(ctx, "line", strings.NewReader("1 2 3\n3 4\n\n5\n"), LoadOptions{})
			So(err, ShouldBeNil)
			So(s.Len(), ShouldEqual, 4)
			So(s.IDs(), ShouldResemble, []testreduce.TestID{1, 2, 4, 3})
			t, _ := s.Get(2)
			So(t.Coverage.ToSortedSlice(), ShouldResemble, []string{"3", "4"})
			So(t.Features, ShouldBeNil)
		})

		Convey(`White-box features`, func() {
			s, err := Read(ctx, "line", strings.NewReader("a b\nb c\n"), LoadOptions{FeatureVectors: true})
			So(err, ShouldBeNil)
			t1, _ := s.Get(1)
			t2, _ := s.Get(2)
			So(t1.Features, ShouldResemble, []float64{1, 1, 0})
			So(t2.Features, ShouldResemble, []float64{0, 1, 1})
			dim, err := s.FeatureDim()
			So(err, ShouldBeNil)
			So(dim, ShouldEqual, 3)
		})

		Convey(`Black-box`, func() {
			s, err := Read(ctx, "shingle", strings.NewReader("aaaab\nabc\n"), LoadOptions{
				Kind:           BlackBox,
				ShingleSize:    2,
				FeatureVectors: true,
			})
			So(err, ShouldBeNil)
			So(s.Universe().ToSortedSlice(), ShouldResemble, []string{"aa", "ab", "bc"})
			t1, _ := s.Get(1)
			So(t1.Features, ShouldResemble, []float64{3, 1, 0})
			t2, _ := s.Get(2)
			So(t2.Features, ShouldResemble, []float64{0, 1, 1})
		})

		Convey(`Unknown kind`, func() {
			_, err := Read(ctx, "x", strings.NewReader("a\n"), LoadOptions{Kind: 42})
			So(err, ShouldErrLike, "unknown coverage kind")
		})

		Convey(`Empty input`, func() {
			s, err := Read(ctx, "line", strings.NewReader(""), LoadOptions{})
			So(err, ShouldBeNil)
			So(s.Len(), ShouldEqual, 0)
		})
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()

	Convey(`Load`, t, func() {
		ctx := context.Background()
		dir := t.TempDir()

		plain := filepath.Join(dir, "line.txt")
		So(os.WriteFile(plain, []byte("a b\nc\n"), 0666), ShouldBeNil)

		buf := &bytes.Buffer{}
		gz := gzip.NewWriter(buf)
		_, err := gz.Write([]byte("x\ny z\n"))
		So(err, ShouldBeNil)
		So(gz.Close(), ShouldBeNil)
		compressed := filepath.Join(dir, "branch.txt.gz")
		So(os.WriteFile(compressed, buf.Bytes(), 0666), ShouldBeNil)

		Convey(`Plain and compressed`, func() {
			stores, err := LoadAll(ctx, []Source{
				{Criterion: "line", Path: plain},
				{Criterion: "branch", Path: compressed},
			})
			So(err, ShouldBeNil)
			So(stores, ShouldHaveLength, 2)
			So(stores[0].Criterion, ShouldEqual, "line")
			So(stores[0].Universe().Len(), ShouldEqual, 3)
			So(stores[1].IDs(), ShouldResemble, []testreduce.TestID{2, 1})
		})

		Convey(`Missing file`, func() {
			_, err := LoadAll(ctx, []Source{{Criterion: "line", Path: filepath.Join(dir, "missing")}})
			So(err, ShouldErrLike, `failed to load "line" coverage`)
		})
	})
}

// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package experiment

import (
	"context"
	"io/ioutil"
	"math/rand"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"go.chromium.org/luci/common/clock/testclock"
	"go.chromium.org/luci/common/data/rand/mathrand"
	"go.chromium.org/luci/common/errors"

	"testreduce"
	"testreduce/eval"
	"testreduce/experiment/history"

	. "github.com/smartystreets/goconvey/convey"
	. "go.chromium.org/luci/common/testing/assertions"
)

func TestRun(t *testing.T) {
	t.Parallel()

	Convey(`Run`, t, func() {
		dir := t.TempDir()
		write := func(name, content string) string {
			path := filepath.Join(dir, name)
			So(ioutil.WriteFile(path, []byte(content), 0644), ShouldBeNil)
			return path
		}

		plan := &Plan{
			Programs: []*Program{{
				Name: "grep",
				Coverage: []*CoverageFile{
					{Criterion: "line", Path: write("line.txt", "a b\nc\na b c d\nd\n")},
					{Criterion: "branch", Path: write("branch.txt", "x\ny\nx y\nz\n")},
				},
				Faults: write("faults.txt", "3 f1\n4 f2\n"),
			}},
			Algorithms:  []string{"GA", "ART-D"},
			Budgets:     []float64{0.5},
			Repetitions: 3,
			Ensemble:    []string{"union"},
		}

		run := func(seed int64, parallelism int) []*history.Record {
			ctx, _ := testclock.UseTime(context.Background(), testclock.TestRecentTimeUTC)
			ctx = mathrand.Set(ctx, rand.New(rand.NewSource(seed)))

			var records []*history.Record
			err := Run(ctx, plan, Options{
				Parallelism: parallelism,
				Output: func(rec *history.Record) error {
					records = append(records, rec)
					return nil
				},
			})
			So(err, ShouldBeNil)
			sort.Slice(records, func(i, j int) bool {
				a, b := records[i], records[j]
				switch {
				case a.Algorithm != b.Algorithm:
					return a.Algorithm < b.Algorithm
				case a.Ensemble != b.Ensemble:
					return a.Ensemble < b.Ensemble
				default:
					return a.Repetition < b.Repetition
				}
			})
			return records
		}

		Convey(`Records`, func() {
			records := run(1, 1)
			// ART-D: 3 repetitions, each alone and ensembled.
			// GA: deterministic, once alone and once ensembled.
			So(records, ShouldHaveLength, 8)

			ids := map[string]bool{}
			for _, rec := range records {
				So(rec.Program, ShouldEqual, "grep")
				So(rec.Budget, ShouldEqual, 2)
				So(rec.SuiteSize, ShouldEqual, 4)
				So(rec.Metrics, ShouldNotBeNil)
				So(rec.Duration, ShouldEqual, time.Duration(0))
				So(ids[rec.RunID], ShouldBeFalse)
				ids[rec.RunID] = true
			}

			ga := records[6]
			So(ga.Algorithm, ShouldEqual, "GA")
			So(ga.Ensemble, ShouldEqual, "")
			So(ga.Selection, ShouldResemble, testreduce.Selection{3, 1})
			So(*ga.Metrics, ShouldResemble, eval.Metrics{
				FaultDetectionLoss: 0.5,
				TestSuiteReduction: 0.5,
				FirstFaultPosition: 1,
				APFD:               0.25,
			})

			union := records[7]
			So(union.Algorithm, ShouldEqual, "GA")
			So(union.Ensemble, ShouldEqual, "union")
			So(union.Selection, ShouldResemble, testreduce.Selection{1, 3, 4})
			So(union.Metrics.FaultDetectionLoss, ShouldEqual, 0)
		})

		Convey(`Reproducible`, func() {
			a := run(42, 1)
			b := run(42, 4)
			So(a, ShouldHaveLength, len(b))
			for i := range a {
				So(b[i].Selection, ShouldResemble, a[i].Selection)
			}
		})

		Convey(`Adequacy ignores budgets`, func() {
			plan.Algorithms = []string{"GA-adequacy"}
			plan.Ensemble = nil
			records := run(1, 1)
			So(records, ShouldHaveLength, 1)
			So(records[0].Budget, ShouldEqual, 0)
			So(records[0].Selection, ShouldResemble, testreduce.Selection{3})
		})

		Convey(`Missing coverage`, func() {
			plan.Programs[0].Coverage[0].Path = filepath.Join(dir, "missing.txt")
			err := Run(context.Background(), plan, Options{})
			So(err, ShouldErrLike, `failed to load program "grep"`)
		})

		Convey(`Output error`, func() {
			err := Run(context.Background(), plan, Options{
				Output: func(*history.Record) error { return errors.New("disk full") },
			})
			So(err, ShouldErrLike, "disk full")
		})
	})
}

// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"io/ioutil"
	"path/filepath"
	"testing"

	"testreduce"
	"testreduce/coverage"

	. "github.com/smartystreets/goconvey/convey"
	. "go.chromium.org/luci/common/testing/assertions"
)

func TestCoverageFlags(t *testing.T) {
	t.Parallel()

	Convey(`coverageFlags`, t, func() {
		f := &coverageFlags{}
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		f.register(fs)

		Convey(`Sources`, func() {
			err := fs.Parse([]string{
				"-black-box", "input=inputs.txt",
				"-coverage", "line=line.txt",
				"-coverage", "branch=a=b.txt",
				"-shingle-size", "3",
			})
			So(err, ShouldBeNil)

			srcs, err := f.sources(true)
			So(err, ShouldBeNil)
			So(srcs, ShouldResemble, []coverage.Source{
				{Criterion: "line", Path: "line.txt", Options: coverage.LoadOptions{Kind: coverage.WhiteBox, ShingleSize: 3, FeatureVectors: true}},
				{Criterion: "branch", Path: "a=b.txt", Options: coverage.LoadOptions{Kind: coverage.WhiteBox, ShingleSize: 3, FeatureVectors: true}},
				{Criterion: "input", Path: "inputs.txt", Options: coverage.LoadOptions{Kind: coverage.BlackBox, ShingleSize: 3, FeatureVectors: true}},
			})
		})

		Convey(`No coverage`, func() {
			So(fs.Parse(nil), ShouldBeNil)
			_, err := f.sources(false)
			So(err, ShouldErrLike, "at least one of -coverage or -black-box is required")
			So(isCLIError.In(err), ShouldBeTrue)
		})

		Convey(`Malformed`, func() {
			So(fs.Parse([]string{"-coverage", "line.txt"}), ShouldBeNil)
			_, err := f.sources(false)
			So(err, ShouldErrLike, `"line.txt" is not in the form <criterion>=<path>`)
		})
	})
}

func TestCommands(t *testing.T) {
	t.Parallel()

	Convey(`Commands`, t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		path := func(name string) string { return filepath.Join(dir, name) }
		write := func(name, content string) {
			So(ioutil.WriteFile(path(name), []byte(content), 0644), ShouldBeNil)
		}
		readSel := func(name string) testreduce.Selection {
			sel, err := readSelectionFile(path(name))
			So(err, ShouldBeNil)
			return sel
		}

		write("line.txt", "a b\nc\na b c d\nd\n")
		write("branch.txt", "x\ny\nx y\nz\n")

		Convey(`select`, func() {
			r := &selectRun{algorithm: "GA", budget: 2, workers: 1, out: path("ga.txt")}
			r.cov.whiteBox = []string{"line=" + path("line.txt")}
			r.cov.shingleSize = 5
			So(r.exec(ctx), ShouldBeNil)
			So(readSel("ga.txt"), ShouldResemble, testreduce.Selection{3, 1})

			Convey(`ensemble`, func() {
				write("other.txt", "4\n3\n")
				e := &ensembleRun{files: []string{path("ga.txt"), path("other.txt")}, method: "intersection", out: path("ens.txt")}
				So(e.exec(ctx), ShouldBeNil)
				So(readSel("ens.txt"), ShouldResemble, testreduce.Selection{3})
			})
		})

		Convey(`select multi`, func() {
			r := &selectRun{algorithm: "GA-multi", budget: 1, workers: 1, out: path("multi.txt")}
			r.cov.whiteBox = []string{"line=" + path("line.txt"), "branch=" + path("branch.txt")}
			r.cov.shingleSize = 5
			So(r.exec(ctx), ShouldBeNil)
			So(readSel("multi.txt"), ShouldResemble, testreduce.Selection{3})
		})

		Convey(`unknown algorithm`, func() {
			r := &selectRun{algorithm: "nope"}
			err := r.exec(ctx)
			So(err, ShouldErrLike, `unknown algorithm "nope"`)
			So(testreduce.ConfigError.In(err), ShouldBeTrue)
			So(handleErr(ctx, err), ShouldEqual, 3)
		})

		Convey(`experiment and report`, func() {
			write("faults.txt", "3 f1\n4 f2\n")
			write("plan.yaml", `
programs:
- name: toy
  coverage:
  - {criterion: line, path: line.txt}
  faults: faults.txt
algorithms: [GA]
budgets: [0.5]
`)
			x := &experimentRun{plan: path("plan.yaml"), history: path("history.rec"), parallelism: 2}
			So(x.exec(ctx), ShouldBeNil)

			rep := &reportRun{history: path("history.rec"), csv: path("runs.csv")}
			So(rep.exec(ctx), ShouldBeNil)
			csv, err := ioutil.ReadFile(path("runs.csv"))
			So(err, ShouldBeNil)
			So(string(csv), ShouldContainSubstring, ",toy,GA,,2,0,4,2,0.5,0.5,1,0.25,")
		})

		Convey(`evaluate requires faults`, func() {
			r := &evaluateRun{selectionFile: path("ga.txt"), suiteSize: 4}
			err := r.exec(ctx)
			So(err, ShouldErrLike, `bad "-faults": required`)
			So(handleErr(ctx, err), ShouldEqual, 2)
		})
	})
}

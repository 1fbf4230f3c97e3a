// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package experiment

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"testreduce"

	. "github.com/smartystreets/goconvey/convey"
	. "go.chromium.org/luci/common/testing/assertions"
)

func TestPlan(t *testing.T) {
	t.Parallel()

	Convey(`Plan`, t, func() {
		Convey(`Valid`, func() {
			p, err := ParsePlan([]byte(`
programs:
- name: grep
  coverage:
  - criterion: line
    path: line.txt
  - criterion: input
    path: inputs.txt
    kind: black-box
    shingleSize: 3
  faults: faults.txt
algorithms: [GA, ART-D]
budgets: [0.1, 0.5]
ensemble: [Majority]
`))
			So(err, ShouldBeNil)
			So(p.Repetitions, ShouldEqual, 1)
			So(p.Programs, ShouldHaveLength, 1)
			So(p.Programs[0].Coverage[1].Kind, ShouldEqual, "black-box")
			So(p.budgets(15), ShouldResemble, []int{2, 8})
			So(p.budgets(1), ShouldResemble, []int{1, 1})
		})

		Convey(`No budgets`, func() {
			p := &Plan{}
			So(p.budgets(10), ShouldResemble, []int{0})
		})

		Convey(`Relative paths`, func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "plan.yaml")
			err := ioutil.WriteFile(path, []byte(`
programs:
- name: grep
  coverage:
  - criterion: line
    path: grep/line.txt
  - criterion: branch
    path: /abs/branch.txt
  faults: grep/faults.txt
algorithms: [GA]
`), 0644)
			So(err, ShouldBeNil)

			p, err := LoadPlan(path)
			So(err, ShouldBeNil)
			So(p.Programs[0].Coverage[0].Path, ShouldEqual, filepath.Join(dir, "grep", "line.txt"))
			So(p.Programs[0].Coverage[1].Path, ShouldEqual, "/abs/branch.txt")
			So(p.Programs[0].Faults, ShouldEqual, filepath.Join(dir, "grep", "faults.txt"))
		})

		invalid := func(yaml, msg string) {
			_, err := ParsePlan([]byte(yaml))
			So(err, ShouldErrLike, msg)
			So(testreduce.ConfigError.In(err), ShouldBeTrue)
		}
		const program = `
programs:
- name: grep
  coverage:
  - {criterion: line, path: line.txt}
`

		Convey(`Unknown field`, func() {
			invalid(program+"algorithms: [GA]\ncolor: blue\n", "failed to parse plan")
		})
		Convey(`No programs`, func() {
			invalid("algorithms: [GA]\n", "no programs")
		})
		Convey(`No algorithms`, func() {
			invalid(program, "no algorithms")
		})
		Convey(`Unknown algorithm`, func() {
			invalid(program+"algorithms: [GA, FAST]\n", `unknown algorithm "FAST"`)
		})
		Convey(`Bad budget`, func() {
			invalid(program+"algorithms: [GA]\nbudgets: [1.5]\n", "budget 1.5 is not in (0, 1]")
		})
		Convey(`Bad ensemble`, func() {
			invalid(program+"algorithms: [GA]\nensemble: [vote]\n", `unknown ensembling method "vote"`)
		})
		Convey(`Bad kind`, func() {
			invalid(`
programs:
- name: grep
  coverage:
  - {criterion: line, path: line.txt, kind: grey-box}
algorithms: [GA]
`, `unknown coverage kind "grey-box"`)
		})
		Convey(`Duplicate program`, func() {
			invalid(`
programs:
- name: grep
  coverage:
  - {criterion: line, path: line.txt}
- name: grep
  coverage:
  - {criterion: line, path: line.txt}
algorithms: [GA]
`, `duplicate program "grep"`)
		})
	})
}

// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"os"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/data/text"

	"testreduce/eval"
)

func cmdEvaluate() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: `evaluate -faults <path> -suite-size <n> <selection-file>`,
		ShortDesc: "evaluate a selection",
		LongDesc: text.Doc(`
			Evaluate effectiveness of a selection produced by "select" or "ensemble".

			Prints fault detection loss, test suite reduction,
			first fault position and APFD.
		`),
		CommandRun: func() subcommands.CommandRun {
			r := &evaluateRun{}
			r.init(r.exec, []*string{&r.selectionFile}, nil)
			r.Flags.StringVar(&r.faults, "faults", "", text.Doc(`
				Path to the fault matrix file. Each line has a test id followed by
				whitespace-separated ids of faults the test detects.
			`))
			r.Flags.IntVar(&r.suiteSize, "suite-size", 0, "Number of tests in the full suite.")
			return r
		},
	}
}

type evaluateRun struct {
	commandBase

	selectionFile string
	faults        string
	suiteSize     int
}

func (r *evaluateRun) exec(ctx context.Context) error {
	switch {
	case r.faults == "":
		return errBadFlag("-faults", "required")
	case r.suiteSize <= 0:
		return errBadFlag("-suite-size", "must be positive")
	}

	sel, err := readSelectionFile(r.selectionFile)
	if err != nil {
		return err
	}
	faults, err := eval.LoadFaultMatrix(r.faults)
	if err != nil {
		return err
	}

	m := eval.Score(sel, faults, r.suiteSize)
	return m.Print(os.Stdout, 0)
}

// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/data/text"
	"go.chromium.org/luci/common/logging"

	"testreduce"
	"testreduce/ensemble"
)

func cmdEnsemble() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: `ensemble -method <majority|union|intersection> <selection-file> [<selection-file>...]`,
		ShortDesc: "combine selections",
		LongDesc: text.Doc(`
			Combine selections produced by "select".

			Prints ids of the combined selection, one per line, sorted.
		`),
		CommandRun: func() subcommands.CommandRun {
			r := &ensembleRun{}
			r.init(r.exec, nil, &r.files)
			r.Flags.StringVar(&r.method, "method", string(ensemble.Majority), "Ensembling method: majority, union or intersection.")
			r.Flags.StringVar(&r.out, "out", "-", `Path to the output file. "-" means stdout.`)
			return r
		},
	}
}

type ensembleRun struct {
	commandBase

	files  []string
	method string
	out    string
}

func (r *ensembleRun) exec(ctx context.Context) error {
	method, err := ensemble.ParseMethod(r.method)
	if err != nil {
		return err
	}

	sels := make([]testreduce.Selection, len(r.files))
	for i, f := range r.files {
		if sels[i], err = readSelectionFile(f); err != nil {
			return err
		}
	}

	sel, err := ensemble.Combine(sels, method)
	if err != nil {
		return err
	}
	logging.Infof(ctx, "%s of %d selections has %d tests", method, len(sels), len(sel))
	return writeSelectionFile(r.out, sel)
}

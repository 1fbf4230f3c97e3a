// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/clock"
	"go.chromium.org/luci/common/data/rand/mathrand"
	"go.chromium.org/luci/common/data/text"
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"

	"testreduce/algorithm"
	"testreduce/art"
	"testreduce/coverage"
	"testreduce/distance"
)

func cmdSelect() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: `select -algorithm <name> -coverage <criterion>=<path> [-budget <n>] [-out <path>]`,
		ShortDesc: "select a reduced test suite",
		LongDesc: text.Doc(`
			Select a reduced test suite.

			Prints ids of selected tests, one per line, in the order of selection.
			Single-criterion algorithms use the first coverage file.
		`),
		CommandRun: func() subcommands.CommandRun {
			r := &selectRun{}
			r.init(r.exec, nil, nil)
			r.cov.register(&r.Flags)
			r.Flags.StringVar(&r.algorithm, "algorithm", "GA", fmt.Sprintf("Selection algorithm, one of %s.", strings.Join(algorithm.Names(), ", ")))
			r.Flags.IntVar(&r.budget, "budget", 0, text.Doc(`
				Maximum number of tests to select. Zero means the whole suite.
				Adequacy algorithms ignore it.
			`))
			r.Flags.IntVar(&r.candidateSize, "candidate-size", art.DefaultCandidateSize, "Candidate set size of ART-F algorithms.")
			r.Flags.IntVar(&r.minHash, "minhash", 0, text.Doc(`
				If positive, the number of MinHash functions used to approximate
				the Jaccard distance in ART-D algorithms.
			`))
			r.Flags.IntVar(&r.workers, "workers", runtime.NumCPU(), "Number of goroutines scoring candidates.")
			r.Flags.StringVar(&r.out, "out", "-", `Path to the output file. "-" means stdout.`)
			return r
		},
	}
}

type selectRun struct {
	commandBase

	cov           coverageFlags
	algorithm     string
	budget        int
	candidateSize int
	minHash       int
	workers       int
	out           string
}

func (r *selectRun) exec(ctx context.Context) error {
	alg, err := algorithm.Get(r.algorithm)
	if err != nil {
		return err
	}
	srcs, err := r.cov.sources(alg.Vectors)
	if err != nil {
		return err
	}
	stores, err := coverage.LoadAll(ctx, srcs)
	if err != nil {
		return err
	}

	in := algorithm.Input{
		Stores:        stores,
		Budget:        r.budget,
		Workers:       r.workers,
		CandidateSize: r.candidateSize,
	}
	if r.minHash > 0 {
		in.SetDistance = distance.NewMinHash(r.minHash, uint64(mathrand.Int63(ctx)))
	}

	start := clock.Now(ctx)
	sel, err := alg.Run(ctx, in)
	if err != nil {
		return errors.Annotate(err, "%s failed", alg.Name).Err()
	}
	logging.Infof(ctx, "%s selected %d of %d tests in %s", alg.Name, len(sel), stores[0].Len(), clock.Since(ctx, start))

	return writeSelectionFile(r.out, sel)
}

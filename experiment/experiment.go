// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package experiment

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"go.chromium.org/luci/common/clock"
	"go.chromium.org/luci/common/data/rand/mathrand"
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"
	"go.chromium.org/luci/common/sync/parallel"

	"testreduce"
	"testreduce/algorithm"
	"testreduce/coverage"
	"testreduce/distance"
	"testreduce/ensemble"
	"testreduce/eval"
	"testreduce/experiment/history"
)

// Options configure Run.
type Options struct {
	// Parallelism is the number of runs executed concurrently.
	// Defaults to 1.
	Parallelism int

	// Output receives run records. It is not called concurrently.
	Output func(*history.Record) error
}

// program is a program with loaded inputs.
type program struct {
	*Program
	stores []*coverage.Store
	faults eval.FaultMatrix
}

func (p *program) suiteSize() int {
	return p.stores[0].Len()
}

// job is one unit of work: one algorithm run on one program, or one run of a
// single-criterion algorithm per criterion followed by ensembling.
type job struct {
	prog    *program
	alg     *algorithm.Algorithm
	budget  int
	rep     int
	methods []ensemble.Method
	seed    int64
}

type experiment struct {
	plan   *Plan
	opt    Options
	setDst distance.SetMetric

	mu sync.Mutex
}

// Run runs the experiment described by the plan.
//
// Randomness is taken from ctx (see mathrand): the results are reproducible
// if ctx has a deterministically seeded source.
func Run(ctx context.Context, p *Plan, opt Options) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if opt.Parallelism <= 0 {
		opt.Parallelism = 1
	}
	e := &experiment{plan: p, opt: opt}
	if p.MinHash > 0 {
		e.setDst = distance.NewMinHash(p.MinHash, uint64(mathrand.Int63(ctx)))
	}

	programs := make([]*program, len(p.Programs))
	for i, prog := range p.Programs {
		var err error
		if programs[i], err = e.load(ctx, prog); err != nil {
			return errors.Annotate(err, "failed to load program %q", prog.Name).Err()
		}
	}

	jobs, err := e.jobs(ctx, programs)
	if err != nil {
		return err
	}
	logging.Infof(ctx, "running %s selections", humanize.Comma(int64(len(jobs))))

	return parallel.WorkPool(opt.Parallelism, func(work chan<- func() error) {
		for _, j := range jobs {
			j := j
			work <- func() error {
				return e.run(ctx, j)
			}
		}
	})
}

func (e *experiment) load(ctx context.Context, prog *Program) (*program, error) {
	vectors := false
	for _, name := range e.plan.Algorithms {
		a, _ := algorithm.Get(name)
		vectors = vectors || a.Vectors
	}

	srcs := make([]coverage.Source, len(prog.Coverage))
	for i, c := range prog.Coverage {
		srcs[i] = c.source(vectors)
	}
	stores, err := coverage.LoadAll(ctx, srcs)
	if err != nil {
		return nil, err
	}

	ret := &program{Program: prog, stores: stores}
	if prog.Faults != "" {
		if ret.faults, err = eval.LoadFaultMatrix(prog.Faults); err != nil {
			return nil, err
		}
	}
	logging.Infof(ctx, "loaded %q: %s tests, %d criteria", prog.Name, humanize.Comma(int64(ret.suiteSize())), len(stores))
	return ret, nil
}

// jobs returns all jobs of the experiment.
func (e *experiment) jobs(ctx context.Context, programs []*program) ([]*job, error) {
	methods := make([]ensemble.Method, len(e.plan.Ensemble))
	for i, m := range e.plan.Ensemble {
		var err error
		if methods[i], err = ensemble.ParseMethod(m); err != nil {
			return nil, err
		}
	}

	var ret []*job
	for _, prog := range programs {
		for _, name := range e.plan.Algorithms {
			alg, err := algorithm.Get(name)
			if err != nil {
				return nil, err
			}

			budgets := e.plan.budgets(prog.suiteSize())
			if alg.Adequacy {
				budgets = []int{0}
			}
			reps := 1
			if alg.Randomized {
				reps = e.plan.Repetitions
			}

			for _, budget := range budgets {
				for rep := 0; rep < reps; rep++ {
					ret = append(ret, &job{prog: prog, alg: alg, budget: budget, rep: rep, seed: mathrand.Int63(ctx)})
					if len(methods) > 0 && !alg.MultiCriteria && len(prog.stores) > 1 {
						ret = append(ret, &job{prog: prog, alg: alg, budget: budget, rep: rep, methods: methods, seed: mathrand.Int63(ctx)})
					}
				}
			}
		}
	}
	return ret, nil
}

// run runs a job. Each job has a private random source.
func (e *experiment) run(ctx context.Context, j *job) error {
	ctx = mathrand.Set(ctx, rand.New(rand.NewSource(j.seed)))
	in := algorithm.Input{
		Stores:        j.prog.stores,
		Budget:        j.budget,
		Workers:       e.plan.Workers,
		CandidateSize: e.plan.CandidateSize,
		SetDistance:   e.setDst,
	}

	if len(j.methods) == 0 {
		start := clock.Now(ctx)
		sel, err := j.alg.Run(ctx, in)
		if err != nil {
			return errors.Annotate(err, "%s on %q", j.alg.Name, j.prog.Name).Err()
		}
		return e.emit(j, "", sel, clock.Since(ctx, start))
	}

	start := clock.Now(ctx)
	sels := make([]testreduce.Selection, len(j.prog.stores))
	for i := range j.prog.stores {
		in.Stores = j.prog.stores[i : i+1]
		var err error
		if sels[i], err = j.alg.Run(ctx, in); err != nil {
			return errors.Annotate(err, "%s on %q, criterion %q", j.alg.Name, j.prog.Name, j.prog.stores[i].Criterion).Err()
		}
	}
	duration := clock.Since(ctx, start)

	for _, m := range j.methods {
		sel, err := ensemble.Combine(sels, m)
		if err != nil {
			return err
		}
		if err := e.emit(j, string(m), sel, duration); err != nil {
			return err
		}
	}
	return nil
}

func (e *experiment) emit(j *job, method string, sel testreduce.Selection, duration time.Duration) error {
	rec := &history.Record{
		RunID:      uuid.New().String(),
		Program:    j.prog.Name,
		Algorithm:  j.alg.Name,
		Ensemble:   method,
		Budget:     j.budget,
		Repetition: j.rep,
		SuiteSize:  j.prog.suiteSize(),
		Selection:  sel,
		Duration:   duration,
	}
	if j.prog.faults != nil {
		m := eval.Score(sel, j.prog.faults, rec.SuiteSize)
		rec.Metrics = &m
	}

	if e.opt.Output == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opt.Output(rec)
}

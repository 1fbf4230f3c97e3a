// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package art

import (
	"context"

	"go.chromium.org/luci/common/data/stringset"
	"go.chromium.org/luci/common/logging"

	"testreduce"
	"testreduce/coverage"
	"testreduce/distance"
)

// DynamicOptions configure SelectDynamic.
type DynamicOptions struct {
	// Budget is the maximum number of tests to select.
	// Zero or negative means the whole suite.
	Budget int

	// Distance compares coverage sets.
	// Defaults to the exact Jaccard distance.
	Distance distance.SetMetric

	// Workers is the number of goroutines scoring candidates in one step.
	Workers int
}

// SelectDynamic selects up to opt.Budget tests using a dynamic candidate set.
//
// A candidate set is a random sample of the remaining tests where every
// member covers something the previous members do not. Sampling stops at the
// first redundant draw. Candidates stay eligible until they are selected;
// a new candidate set is drawn when the current one is exhausted.
func SelectDynamic(ctx context.Context, s *coverage.Store, opt DynamicOptions) (testreduce.Selection, error) {
	return selectDynamic(ctx, s, opt, false)
}

// SelectDynamicAdequate is like SelectDynamic, but ignores opt.Budget and
// stops when the selected tests cover the whole universe of s.
func SelectDynamicAdequate(ctx context.Context, s *coverage.Store, opt DynamicOptions) (testreduce.Selection, error) {
	opt.Budget = 0
	return selectDynamic(ctx, s, opt, true)
}

func selectDynamic(ctx context.Context, s *coverage.Store, opt DynamicOptions, adequacy bool) (testreduce.Selection, error) {
	metric := opt.Distance
	if metric == nil {
		metric = distance.Jaccard{}
	}
	dist := func(a, b *coverage.TestCase) (float64, error) {
		return metric.SetDistance(a.Coverage, b.Coverage), nil
	}

	r := newRun(s, dist, opt.Budget, opt.Workers, adequacy)
	var cands []*candidate
	generations := 0
	for !r.done() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if len(cands) == 0 {
			var err error
			if cands, err = r.generateDynamic(ctx); err != nil {
				return nil, err
			}
			generations++
		}

		best, err := r.pick(cands)
		if err != nil {
			return nil, err
		}
		r.accept(cands[best].test)
		cands = append(cands[:best], cands[best+1:]...)
	}

	logging.Debugf(ctx, "art: selected %d of %d tests of %q using %d candidate sets", len(r.selected), s.Len(), s.Criterion, generations)
	return r.selection(), nil
}

// generateDynamic draws random remaining tests while each draw adds coverage
// not covered by the previous draws.
//
// The first draw is always accepted and the set never outgrows the pool,
// so generation terminates even if all remaining tests are redundant.
func (r *run) generateDynamic(ctx context.Context) ([]*candidate, error) {
	var cands []*candidate
	covered := stringset.New(0)
	drawn := map[testreduce.TestID]bool{}
	for len(cands) < r.pool.len() {
		t := r.pool.random(ctx)
		if len(cands) > 0 && (drawn[t.ID] || coverage.AdditionalCoverage(t, covered) == 0) {
			break
		}
		c, err := r.newCandidate(t)
		if err != nil {
			return nil, err
		}
		cands = append(cands, c)
		drawn[t.ID] = true
		coverage.AddCoverage(covered, t)
	}
	return cands, nil
}

// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package greedy

import (
	"context"

	"gonum.org/v1/gonum/stat"

	"go.chromium.org/luci/common/data/stringset"
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"

	"testreduce"
	"testreduce/coverage"
	"testreduce/internal/argmax"
)

// criterion is the per-criterion state of a multi-criterion run.
type criterion struct {
	store    *coverage.Store
	universe int
	covered  stringset.Set

	// mean and std describe the distribution of coverage set sizes.
	// A zero std means the criterion does not discriminate between tests.
	mean, std float64
}

func newCriterion(s *coverage.Store) *criterion {
	sizes := make([]float64, 0, s.Len())
	for _, t := range s.Tests() {
		sizes = append(sizes, float64(t.Coverage.Len()))
	}
	c := &criterion{
		store:    s,
		universe: s.Universe().Len(),
		covered:  stringset.New(s.Universe().Len()),
	}
	c.mean, c.std = stat.PopMeanStdDev(sizes, nil)
	return c
}

// score returns the z-score of the additional coverage of test id.
func (c *criterion) score(id testreduce.TestID) float64 {
	if c.std == 0 {
		return 0
	}
	t, _ := c.store.Get(id)
	return (float64(coverage.AdditionalCoverage(t, c.covered)) - c.mean) / c.std
}

// SelectMulti selects up to opt.Budget tests using several coverage criteria
// of the same test suite at once.
//
// Each criterion contributes the z-score of a candidate's additional coverage,
// normalized by the mean and population standard deviation of the coverage
// set sizes of that criterion. The candidate with the highest sum wins; ties
// are broken by the canonical order of the first store. A criterion where all
// tests have the same coverage set size contributes nothing.
// Each criterion's accumulated coverage is reset independently when it
// saturates.
//
// All stores must contain the same test ids.
func SelectMulti(ctx context.Context, stores []*coverage.Store, opt Options) (testreduce.Selection, error) {
	if len(stores) == 0 {
		return nil, errors.Reason("no coverage criteria").Tag(testreduce.ConfigError).Err()
	}
	for _, s := range stores[1:] {
		if !stores[0].SameTests(s) {
			return nil, errors.Reason("criteria %q and %q cover different test ids", stores[0].Criterion, s.Criterion).Tag(testreduce.ConfigError).Err()
		}
	}

	pool := stores[0].IDs()
	budget := opt.budget(len(pool))
	sel := make(testreduce.Selection, 0, budget)
	if len(pool) == 0 {
		return sel, nil
	}

	crits := make([]*criterion, len(stores))
	for i, s := range stores {
		crits[i] = newCriterion(s)
		if crits[i].std == 0 {
			logging.Warningf(ctx, "greedy: criterion %q has zero variance; ignoring it", s.Criterion)
		}
	}

	for len(sel) < budget && len(pool) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, c := range crits {
			if c.universe > 0 && c.covered.Len() == c.universe {
				logging.Debugf(ctx, "greedy: %q saturated after %d tests", c.store.Criterion, len(sel))
				c.covered = stringset.New(c.universe)
			}
		}

		best, _, err := argmax.First(len(pool), opt.Workers, func(i int) (float64, error) {
			sum := 0.0
			for _, c := range crits {
				sum += c.score(pool[i])
			}
			return sum, nil
		})
		if err != nil {
			return nil, err
		}

		id := pool[best]
		sel = append(sel, id)
		for _, c := range crits {
			t, _ := c.store.Get(id)
			coverage.AddCoverage(c.covered, t)
		}
		pool = append(pool[:best], pool[best+1:]...)
	}
	return sel, nil
}

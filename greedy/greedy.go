// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package greedy implements coverage-maximizing test selection.
//
// At every step the selector picks the test that covers the most entities
// not yet covered by the tests selected in the current coverage cycle.
// When the selected tests cover the whole universe, the cycle ends and the
// accumulated coverage is reset, so the selection can keep growing past full
// coverage.
package greedy

import (
	"context"

	"go.chromium.org/luci/common/data/stringset"
	"go.chromium.org/luci/common/logging"

	"testreduce"
	"testreduce/coverage"
	"testreduce/internal/argmax"
)

// Options configure a greedy selection run.
type Options struct {
	// Budget is the maximum number of tests to select.
	// Zero or negative means the whole suite.
	Budget int

	// Workers is the number of goroutines scoring candidates in one step.
	// Values <= 1 mean sequential scoring.
	Workers int
}

func (o *Options) budget(poolSize int) int {
	if o.Budget <= 0 || o.Budget > poolSize {
		return poolSize
	}
	return o.Budget
}

// Select selects up to opt.Budget tests.
// The result is deterministic: ties are broken by the store's canonical order.
func Select(ctx context.Context, s *coverage.Store, opt Options) (testreduce.Selection, error) {
	return run(ctx, s, opt.budget(s.Len()), opt.Workers, false)
}

// SelectAdequate selects tests until they cover the whole universe of s,
// ignoring opt.Budget.
// If the universe is empty, there is nothing to cover and the returned
// selection is empty.
func SelectAdequate(ctx context.Context, s *coverage.Store, opt Options) (testreduce.Selection, error) {
	return run(ctx, s, s.Len(), opt.Workers, true)
}

func run(ctx context.Context, s *coverage.Store, budget, workers int, adequacy bool) (testreduce.Selection, error) {
	pool := s.Tests()
	universe := s.Universe().Len()
	covered := stringset.New(universe)
	sel := make(testreduce.Selection, 0, budget)
	cycles := 1

	for len(sel) < budget && len(pool) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if covered.Len() == universe {
			if adequacy {
				break
			}
			if universe > 0 {
				cycles++
				logging.Debugf(ctx, "greedy: %q saturated after %d tests; starting coverage cycle %d", s.Criterion, len(sel), cycles)
				covered = stringset.New(universe)
			}
		}

		best, _, err := argmax.First(len(pool), workers, func(i int) (float64, error) {
			return float64(coverage.AdditionalCoverage(pool[i], covered)), nil
		})
		if err != nil {
			return nil, err
		}

		t := pool[best]
		sel = append(sel, t.ID)
		coverage.AddCoverage(covered, t)
		pool = append(pool[:best], pool[best+1:]...)
	}

	logging.Debugf(ctx, "greedy: selected %d of %d tests of %q in %d coverage cycle(s)", len(sel), s.Len(), s.Criterion, cycles)
	return sel, nil
}

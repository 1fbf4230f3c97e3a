// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package art

import (
	"context"

	"go.chromium.org/luci/common/logging"

	"testreduce"
	"testreduce/coverage"
	"testreduce/distance"
)

// DefaultCandidateSize is the default size of a fixed candidate set.
const DefaultCandidateSize = 10

// FixedOptions configure SelectFixed.
type FixedOptions struct {
	// Budget is the maximum number of tests to select.
	// Zero or negative means the whole suite.
	Budget int

	// CandidateSize is the number of random candidates in a candidate set.
	// Defaults to DefaultCandidateSize.
	CandidateSize int

	// Distance compares feature vectors.
	// Defaults to the Manhattan distance.
	Distance distance.VectorMetric

	// Workers is the number of goroutines scoring candidates in one step.
	Workers int
}

// SelectFixed selects up to opt.Budget tests using fixed-size candidate
// sets: a candidate set is opt.CandidateSize random remaining tests (or all of
// them, if fewer remain). Each step selects one candidate; the rest stay
// eligible, and a new set is drawn when the current one is exhausted.
//
// All tests in s must have feature vectors of the same length; otherwise
// a configuration error is returned before anything is selected.
func SelectFixed(ctx context.Context, s *coverage.Store, opt FixedOptions) (testreduce.Selection, error) {
	return selectFixed(ctx, s, opt, false)
}

// SelectFixedAdequate is like SelectFixed, but ignores opt.Budget and stops
// when the selected tests cover the whole universe of s.
func SelectFixedAdequate(ctx context.Context, s *coverage.Store, opt FixedOptions) (testreduce.Selection, error) {
	opt.Budget = 0
	return selectFixed(ctx, s, opt, true)
}

func selectFixed(ctx context.Context, s *coverage.Store, opt FixedOptions, adequacy bool) (testreduce.Selection, error) {
	dim, err := s.FeatureDim()
	if err != nil {
		return nil, err
	}
	size := opt.CandidateSize
	if size <= 0 {
		size = DefaultCandidateSize
	}
	metric := opt.Distance
	if metric == nil {
		metric = distance.Manhattan{}
	}
	dist := func(a, b *coverage.TestCase) (float64, error) {
		return metric.VectorDistance(a.Features, b.Features)
	}

	r := newRun(s, dist, opt.Budget, opt.Workers, adequacy)
	r.seed.Features = make([]float64, dim)
	var cands []*candidate
	generations := 0
	for !r.done() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if len(cands) == 0 {
			sample := r.pool.sample(ctx, size)
			cands = make([]*candidate, len(sample))
			for i, t := range sample {
				if cands[i], err = r.newCandidate(t); err != nil {
					return nil, err
				}
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

// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package art implements adaptive random test selection.
//
// Both selectors repeatedly draw random candidates from the tests not selected
// yet and pick the candidate farthest from its nearest already selected test
// (the max-min rule), which spreads the selection over the suite.
//
// Randomness comes from the context, see
// go.chromium.org/luci/common/data/rand/mathrand.
package art

import (
	"context"
	"math"

	"go.chromium.org/luci/common/data/rand/mathrand"
	"go.chromium.org/luci/common/data/stringset"

	"testreduce"
	"testreduce/coverage"
	"testreduce/internal/argmax"
)

// testDistance returns the dissimilarity of two tests.
type testDistance func(a, b *coverage.TestCase) (float64, error)

// candidate is a test eligible for selection in the current step.
type candidate struct {
	test *coverage.TestCase

	// minDist is the distance to the nearest of the seed and the first
	// `upTo` selected tests.
	minDist float64
	upTo    int
}

// run is the state of one selection run.
// It is owned by a single goroutine, except for candidate scoring.
type run struct {
	dist     testDistance
	workers  int
	budget   int
	pool     *pool
	seed     *coverage.TestCase
	selected []*coverage.TestCase

	// adequacy state.
	adequacy bool
	universe int
	covered  stringset.Set
}

func newRun(s *coverage.Store, dist testDistance, budget, workers int, adequacy bool) *run {
	if budget <= 0 || budget > s.Len() {
		budget = s.Len()
	}
	return &run{
		dist:     dist,
		workers:  workers,
		budget:   budget,
		pool:     newPool(s.Tests()),
		seed:     &coverage.TestCase{Coverage: stringset.New(0)},
		adequacy: adequacy,
		universe: s.Universe().Len(),
		covered:  stringset.New(s.Universe().Len()),
	}
}

// done returns true if the run must stop.
func (r *run) done() bool {
	switch {
	case len(r.selected) >= r.budget || r.pool.len() == 0:
		return true
	case r.adequacy:
		// With an empty universe there is nothing to cover.
		return r.covered.Len() == r.universe
	default:
		return false
	}
}

// newCandidate measures t against the seed.
func (r *run) newCandidate(t *coverage.TestCase) (*candidate, error) {
	d, err := r.dist(t, r.seed)
	if err != nil {
		return nil, err
	}
	return &candidate{test: t, minDist: d}, nil
}

// pick returns the index of the candidate farthest from its nearest selected
// test. Ties resolve to the lowest index.
func (r *run) pick(cands []*candidate) (int, error) {
	best, _, err := argmax.First(len(cands), r.workers, func(i int) (float64, error) {
		c := cands[i]
		for ; c.upTo < len(r.selected); c.upTo++ {
			d, err := r.dist(c.test, r.selected[c.upTo])
			if err != nil {
				return 0, err
			}
			c.minDist = math.Min(c.minDist, d)
		}
		return c.minDist, nil
	})
	return best, err
}

// accept moves t from the pool to the selection.
func (r *run) accept(t *coverage.TestCase) {
	r.selected = append(r.selected, t)
	r.pool.remove(t.ID)
	if r.adequacy {
		coverage.AddCoverage(r.covered, t)
	}
}

func (r *run) selection() testreduce.Selection {
	ret := make(testreduce.Selection, len(r.selected))
	for i, t := range r.selected {
		ret[i] = t.ID
	}
	return ret
}

// pool is the set of tests not selected yet.
// Order of tests is irrelevant; removal swaps with the last element.
type pool struct {
	tests []*coverage.TestCase
	index map[testreduce.TestID]int
}

func newPool(tests []*coverage.TestCase) *pool {
	p := &pool{
		tests: tests,
		index: make(map[testreduce.TestID]int, len(tests)),
	}
	for i, t := range tests {
		p.index[t.ID] = i
	}
	return p
}

func (p *pool) len() int {
	return len(p.tests)
}

func (p *pool) remove(id testreduce.TestID) {
	i, ok := p.index[id]
	if !ok {
		return
	}
	last := len(p.tests) - 1
	p.swap(i, last)
	p.tests = p.tests[:last]
	delete(p.index, id)
}

func (p *pool) swap(i, j int) {
	p.tests[i], p.tests[j] = p.tests[j], p.tests[i]
	p.index[p.tests[i].ID] = i
	p.index[p.tests[j].ID] = j
}

// random returns a uniformly random test. The pool must not be empty.
func (p *pool) random(ctx context.Context) *coverage.TestCase {
	return p.tests[mathrand.Intn(ctx, len(p.tests))]
}

// sample returns min(k, p.len()) distinct uniformly random tests.
func (p *pool) sample(ctx context.Context, k int) []*coverage.TestCase {
	if k > len(p.tests) {
		k = len(p.tests)
	}
	// A partial Fisher-Yates shuffle of the prefix.
	for i := 0; i < k; i++ {
		p.swap(i, i+mathrand.Intn(ctx, len(p.tests)-i))
	}
	ret := make([]*coverage.TestCase, k)
	copy(ret, p.tests[:k])
	return ret
}

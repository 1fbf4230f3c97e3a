// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package coverage

import (
	"sort"

	"go.chromium.org/luci/common/data/stringset"
	"go.chromium.org/luci/common/errors"

	"testreduce"
)

// TestCase is the coverage of one test case.
type TestCase struct {
	ID testreduce.TestID

	// Coverage is the set of entities exercised by the test.
	Coverage stringset.Set

	// Features is an optional numeric representation of the test, consumed by
	// vector distance metrics.
	Features []float64
}

// Store maps test ids to their coverage.
//
// Tests are kept in the canonical scan order: descending by coverage set
// size, ties broken by input order. Selection algorithms break score ties in
// favor of the test that comes first in this order.
type Store struct {
	// Criterion is a human-readable name of the coverage criterion,
	// e.g. "line".
	Criterion string

	tests    []*TestCase
	byID     map[testreduce.TestID]*TestCase
	universe stringset.Set
}

// NewStore creates a Store.
// Test ids must be positive and unique.
// The store takes ownership of tests; the caller must not modify them.
func NewStore(criterion string, tests []*TestCase) (*Store, error) {
	s := &Store{
		Criterion: criterion,
		tests:     make([]*TestCase, len(tests)),
		byID:      make(map[testreduce.TestID]*TestCase, len(tests)),
		universe:  stringset.New(0),
	}
	copy(s.tests, tests)

	for _, t := range s.tests {
		switch _, dup := s.byID[t.ID]; {
		case t.ID <= 0:
			return nil, errors.Reason("criterion %q: invalid test id %d", criterion, t.ID).Tag(testreduce.ConfigError).Err()
		case dup:
			return nil, errors.Reason("criterion %q: duplicate test id %d", criterion, t.ID).Tag(testreduce.ConfigError).Err()
		}
		if t.Coverage == nil {
			t.Coverage = stringset.New(0)
		}
		s.byID[t.ID] = t
		for e := range t.Coverage {
			s.universe.Add(e)
		}
	}

	sort.SliceStable(s.tests, func(i, j int) bool {
		return s.tests[i].Coverage.Len() > s.tests[j].Coverage.Len()
	})
	return s, nil
}

// Len returns the number of tests in the store.
func (s *Store) Len() int {
	return len(s.tests)
}

// Tests returns tests in the canonical scan order.
// The returned slice is a copy, but the test cases are shared and must not be
// modified.
func (s *Store) Tests() []*TestCase {
	ret := make([]*TestCase, len(s.tests))
	copy(ret, s.tests)
	return ret
}

// IDs returns test ids in the canonical scan order.
func (s *Store) IDs() []testreduce.TestID {
	ret := make([]testreduce.TestID, len(s.tests))
	for i, t := range s.tests {
		ret[i] = t.ID
	}
	return ret
}

// Get returns the test with the given id.
func (s *Store) Get(id testreduce.TestID) (*TestCase, bool) {
	t, ok := s.byID[id]
	return t, ok
}

// Universe returns the union of all coverage sets.
// The returned set must not be modified.
func (s *Store) Universe() stringset.Set {
	return s.universe
}

// SameTests returns true if s and other contain exactly the same test ids.
func (s *Store) SameTests(other *Store) bool {
	if len(s.byID) != len(other.byID) {
		return false
	}
	for id := range s.byID {
		if _, ok := other.byID[id]; !ok {
			return false
		}
	}
	return true
}

// FeatureDim returns the length shared by all feature vectors.
// Returns a configuration error if a test has no feature vector or if the
// lengths differ.
func (s *Store) FeatureDim() (int, error) {
	dim := -1
	for _, t := range s.tests {
		switch {
		case len(t.Features) == 0:
			return 0, errors.Reason("criterion %q: test %d has no feature vector", s.Criterion, t.ID).Tag(testreduce.ConfigError).Err()
		case dim == -1:
			dim = len(t.Features)
		case len(t.Features) != dim:
			return 0, errors.Reason("criterion %q: test %d has a feature vector of length %d, want %d", s.Criterion, t.ID, len(t.Features), dim).Tag(testreduce.ConfigError).Err()
		}
	}
	if dim == -1 {
		dim = 0
	}
	return dim, nil
}

// AdditionalCoverage returns the number of entities in t not present in
// covered.
func AdditionalCoverage(t *TestCase, covered stringset.Set) int {
	n := 0
	for e := range t.Coverage {
		if !covered.Has(e) {
			n++
		}
	}
	return n
}

// AddCoverage adds all entities of t to covered.
func AddCoverage(covered stringset.Set, t *TestCase) {
	for e := range t.Coverage {
		covered.Add(e)
	}
}

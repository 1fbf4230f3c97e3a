// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package testutil contains helpers for tests of selection algorithms.
package testutil

import (
	"fmt"
	"math/rand"

	"go.chromium.org/luci/common/data/stringset"

	"testreduce"
	"testreduce/coverage"
)

// Store creates a store where the i-th coverage set belongs to test i+1.
// Panics on error.
func Store(criterion string, covs ...[]string) *coverage.Store {
	tests := make([]*coverage.TestCase, len(covs))
	for i, c := range covs {
		tests[i] = &coverage.TestCase{
			ID:       testreduce.TestID(i + 1),
			Coverage: stringset.NewFromSlice(c...),
		}
	}
	return mustStore(criterion, tests)
}

// VectorStore creates a store where the i-th feature vector belongs to test
// i+1. The coverage set of a test is the set of indexes of its non-zero
// features. Panics on error.
func VectorStore(criterion string, vecs ...[]float64) *coverage.Store {
	tests := make([]*coverage.TestCase, len(vecs))
	for i, v := range vecs {
		cov := stringset.New(len(v))
		for j, x := range v {
			if x != 0 {
				cov.Add(fmt.Sprint(j))
			}
		}
		tests[i] = &coverage.TestCase{
			ID:       testreduce.TestID(i + 1),
			Coverage: cov,
			Features: v,
		}
	}
	return mustStore(criterion, tests)
}

// RandomStore creates a store with n tests, each covering a random subset of
// universe entities, with indicator feature vectors. The result depends only
// on seed.
func RandomStore(criterion string, n, universe int, seed int64) *coverage.Store {
	r := rand.New(rand.NewSource(seed))
	vecs := make([][]float64, n)
	for i := range vecs {
		vecs[i] = make([]float64, universe)
		for j := range vecs[i] {
			if r.Intn(4) == 0 {
				vecs[i][j] = 1
			}
		}
	}
	return VectorStore(criterion, vecs...)
}

func mustStore(criterion string, tests []*coverage.TestCase) *coverage.Store {
	s, err := coverage.NewStore(criterion, tests)
	if err != nil {
		panic(err)
	}
	return s
}

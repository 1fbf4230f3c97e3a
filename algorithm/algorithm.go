// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package algorithm runs selection algorithms by name.
package algorithm

import (
	"context"
	"sort"

	"go.chromium.org/luci/common/errors"

	"testreduce"
	"testreduce/art"
	"testreduce/coverage"
	"testreduce/distance"
	"testreduce/greedy"
)

// Input is the input of an algorithm.
type Input struct {
	// Stores is the coverage of the suite, one store per criterion.
	// Single-criterion algorithms use only the first store.
	Stores []*coverage.Store

	// Budget is the maximum number of tests to select.
	// Zero or negative means the whole suite. Adequacy algorithms ignore it.
	Budget int

	// Workers is the number of goroutines scoring candidates in one step.
	Workers int

	// CandidateSize is the candidate set size of fixed-candidate-set
	// algorithms. Zero means the default.
	CandidateSize int

	// SetDistance compares coverage sets. Nil means exact Jaccard distance.
	SetDistance distance.SetMetric

	// VectorDistance compares feature vectors. Nil means Manhattan distance.
	VectorDistance distance.VectorMetric
}

// Func is a selection algorithm.
type Func func(ctx context.Context, in Input) (testreduce.Selection, error)

// Algorithm describes a selection algorithm.
type Algorithm struct {
	Name string
	Run  Func

	// Randomized is true if results vary between runs.
	Randomized bool

	// MultiCriteria is true if the algorithm uses all stores of the input.
	MultiCriteria bool

	// Adequacy is true if the algorithm ignores the budget and stops at full
	// coverage.
	Adequacy bool

	// Vectors is true if the algorithm compares feature vectors, so the tests
	// must have them.
	Vectors bool
}

var registry = map[string]*Algorithm{}

func register(a *Algorithm) {
	if _, ok := registry[a.Name]; ok {
		panic("duplicate algorithm " + a.Name)
	}
	registry[a.Name] = a
}

func init() {
	register(&Algorithm{
		Name: "GA",
		Run: func(ctx context.Context, in Input) (testreduce.Selection, error) {
			return greedy.Select(ctx, in.Stores[0], greedyOptions(in))
		},
	})
	register(&Algorithm{
		Name:     "GA-adequacy",
		Adequacy: true,
		Run: func(ctx context.Context, in Input) (testreduce.Selection, error) {
			return greedy.SelectAdequate(ctx, in.Stores[0], greedyOptions(in))
		},
	})
	register(&Algorithm{
		Name:          "GA-multi",
		MultiCriteria: true,
		Run: func(ctx context.Context, in Input) (testreduce.Selection, error) {
			return greedy.SelectMulti(ctx, in.Stores, greedyOptions(in))
		},
	})
	register(&Algorithm{
		Name:       "ART-D",
		Randomized: true,
		Run: func(ctx context.Context, in Input) (testreduce.Selection, error) {
			return art.SelectDynamic(ctx, in.Stores[0], dynamicOptions(in))
		},
	})
	register(&Algorithm{
		Name:       "ART-D-adequacy",
		Randomized: true,
		Adequacy:   true,
		Run: func(ctx context.Context, in Input) (testreduce.Selection, error) {
			return art.SelectDynamicAdequate(ctx, in.Stores[0], dynamicOptions(in))
		},
	})
	register(&Algorithm{
		Name:       "ART-F",
		Randomized: true,
		Vectors:    true,
		Run: func(ctx context.Context, in Input) (testreduce.Selection, error) {
			return art.SelectFixed(ctx, in.Stores[0], fixedOptions(in))
		},
	})
	register(&Algorithm{
		Name:       "ART-F-adequacy",
		Randomized: true,
		Vectors:    true,
		Adequacy:   true,
		Run: func(ctx context.Context, in Input) (testreduce.Selection, error) {
			return art.SelectFixedAdequate(ctx, in.Stores[0], fixedOptions(in))
		},
	})
}

func greedyOptions(in Input) greedy.Options {
	return greedy.Options{Budget: in.Budget, Workers: in.Workers}
}

func dynamicOptions(in Input) art.DynamicOptions {
	return art.DynamicOptions{Budget: in.Budget, Workers: in.Workers, Distance: in.SetDistance}
}

func fixedOptions(in Input) art.FixedOptions {
	return art.FixedOptions{
		Budget:        in.Budget,
		Workers:       in.Workers,
		CandidateSize: in.CandidateSize,
		Distance:      in.VectorDistance,
	}
}

// Get returns the algorithm with the given name.
func Get(name string) (*Algorithm, error) {
	a, ok := registry[name]
	if !ok {
		return nil, errors.Reason("unknown algorithm %q", name).Tag(testreduce.ConfigError).Err()
	}
	return a, nil
}

// Names returns names of all algorithms, sorted.
func Names() []string {
	ret := make([]string, 0, len(registry))
	for name := range registry {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// Run runs the algorithm with the given name.
func Run(ctx context.Context, name string, in Input) (testreduce.Selection, error) {
	a, err := Get(name)
	if err != nil {
		return nil, err
	}
	if len(in.Stores) == 0 {
		return nil, errors.Reason("algorithm %q: no coverage", name).Tag(testreduce.ConfigError).Err()
	}
	return a.Run(ctx, in)
}

// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package experiment

import (
	"io/ioutil"
	"math"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"go.chromium.org/luci/common/errors"

	"testreduce"
	"testreduce/algorithm"
	"testreduce/coverage"
	"testreduce/ensemble"
)

// Plan describes an experiment.
//
// Example:
//
//	programs:
//	- name: grep
//	  coverage:
//	  - criterion: line
//	    path: grep/line.txt
//	  - criterion: input
//	    path: grep/inputs.txt.gz
//	    kind: black-box
//	  faults: grep/faults.txt
//	algorithms: [GA, GA-multi, ART-D]
//	budgets: [0.1, 0.25]
//	repetitions: 10
//	ensemble: [majority, union]
type Plan struct {
	Programs []*Program `yaml:"programs"`

	// Algorithms are names of algorithms to run. See algorithm.Names().
	Algorithms []string `yaml:"algorithms"`

	// Budgets are fractions of the suite size, in (0, 1].
	// Adequacy algorithms ignore them.
	Budgets []float64 `yaml:"budgets"`

	// Repetitions is the number of times to run each randomized algorithm.
	// Defaults to 1.
	Repetitions int `yaml:"repetitions"`

	// Ensemble are ensembling methods. For each method and each
	// single-criterion algorithm, the algorithm runs on every criterion of a
	// program and the selections are combined.
	Ensemble []string `yaml:"ensemble"`

	// CandidateSize is the fixed candidate set size of ART-F algorithms.
	CandidateSize int `yaml:"candidateSize"`

	// MinHash, if positive, is the number of MinHash functions used to
	// approximate the Jaccard distance. Otherwise the distance is exact.
	MinHash int `yaml:"minHash"`

	// Workers is the number of goroutines scoring candidates in one step.
	Workers int `yaml:"workers"`
}

// Program is a program under test.
type Program struct {
	Name     string          `yaml:"name"`
	Coverage []*CoverageFile `yaml:"coverage"`

	// Faults is the path to a fault matrix file. Optional.
	Faults string `yaml:"faults"`
}

// CoverageFile is a coverage file of one criterion.
type CoverageFile struct {
	Criterion string `yaml:"criterion"`
	Path      string `yaml:"path"`

	// Kind is "white-box" (default) or "black-box".
	Kind string `yaml:"kind"`

	// ShingleSize is the shingle size of black-box coverage.
	ShingleSize int `yaml:"shingleSize"`
}

// LoadPlan reads a YAML plan file.
// Relative paths in the plan are resolved against the directory of the file.
func LoadPlan(path string) (*Plan, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := ParsePlan(data)
	if err != nil {
		return nil, errors.Annotate(err, "failed to load %q", path).Err()
	}

	dir := filepath.Dir(path)
	abs := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	for _, prog := range p.Programs {
		abs(&prog.Faults)
		for _, c := range prog.Coverage {
			abs(&c.Path)
		}
	}
	return p, nil
}

// ParsePlan parses and validates a YAML plan.
func ParsePlan(data []byte) (*Plan, error) {
	p := &Plan{}
	if err := yaml.UnmarshalStrict(data, p); err != nil {
		return nil, errors.Annotate(err, "failed to parse plan").Tag(testreduce.ConfigError).Err()
	}
	if p.Repetitions == 0 {
		p.Repetitions = 1
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate returns a non-nil error if the plan is invalid.
// All errors are tagged with testreduce.ConfigError.
func (p *Plan) Validate() error {
	if err := p.validate(); err != nil {
		return errors.Annotate(err, "invalid plan").Tag(testreduce.ConfigError).Err()
	}
	return nil
}

func (p *Plan) validate() error {
	switch {
	case len(p.Programs) == 0:
		return errors.Reason("no programs").Err()
	case len(p.Algorithms) == 0:
		return errors.Reason("no algorithms").Err()
	case p.Repetitions < 1:
		return errors.Reason("repetitions must be positive").Err()
	case p.CandidateSize < 0:
		return errors.Reason("candidateSize must be non-negative").Err()
	}

	for _, name := range p.Algorithms {
		if _, err := algorithm.Get(name); err != nil {
			return err
		}
	}
	for _, b := range p.Budgets {
		if b <= 0 || b > 1 {
			return errors.Reason("budget %g is not in (0, 1]", b).Err()
		}
	}
	for _, m := range p.Ensemble {
		if _, err := ensemble.ParseMethod(m); err != nil {
			return err
		}
	}

	names := map[string]bool{}
	for _, prog := range p.Programs {
		switch {
		case prog.Name == "":
			return errors.Reason("program name is required").Err()
		case names[prog.Name]:
			return errors.Reason("duplicate program %q", prog.Name).Err()
		case len(prog.Coverage) == 0:
			return errors.Reason("program %q: no coverage", prog.Name).Err()
		}
		names[prog.Name] = true

		for _, c := range prog.Coverage {
			if c.Criterion == "" || c.Path == "" {
				return errors.Reason("program %q: coverage criterion and path are required", prog.Name).Err()
			}
			if _, err := c.kind(); err != nil {
				return errors.Annotate(err, "program %q", prog.Name).Err()
			}
		}
	}
	return nil
}

func (c *CoverageFile) kind() (coverage.Kind, error) {
	switch c.Kind {
	case "", "white-box":
		return coverage.WhiteBox, nil
	case "black-box":
		return coverage.BlackBox, nil
	default:
		return 0, errors.Reason("unknown coverage kind %q", c.Kind).Err()
	}
}

// source returns the coverage source of c.
func (c *CoverageFile) source(featureVectors bool) coverage.Source {
	kind, _ := c.kind()
	return coverage.Source{
		Criterion: c.Criterion,
		Path:      c.Path,
		Options: coverage.LoadOptions{
			Kind:           kind,
			ShingleSize:    c.ShingleSize,
			FeatureVectors: featureVectors,
		},
	}
}

// budgets returns test budgets for a suite of n tests: each fraction rounded
// up, at least 1. Returns {0} if the plan has no budgets.
func (p *Plan) budgets(n int) []int {
	if len(p.Budgets) == 0 {
		return []int{0}
	}
	ret := make([]int, len(p.Budgets))
	for i, b := range p.Budgets {
		ret[i] = int(math.Ceil(b * float64(n)))
		if ret[i] < 1 {
			ret[i] = 1
		}
	}
	return ret
}

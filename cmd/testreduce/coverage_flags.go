// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"strings"

	"go.chromium.org/luci/common/data/text"
	luciflag "go.chromium.org/luci/common/flag"

	"testreduce/coverage"
	"testreduce/distance"
)

// coverageFlags are flags specifying coverage files of a suite.
type coverageFlags struct {
	whiteBox    []string
	blackBox    []string
	shingleSize int
}

func (f *coverageFlags) register(fs *flag.FlagSet) {
	fs.Var(luciflag.StringSlice(&f.whiteBox), "coverage", text.Doc(`
		White-box coverage of the suite, in the form of "<criterion>=<path>",
		e.g. "line=line_coverage.txt". Line i of the file lists whitespace-separated
		entities covered by the test with id i. Files ending with ".gz" are
		decompressed.
		May be specified multiple times, once per criterion.
	`))
	fs.Var(luciflag.StringSlice(&f.blackBox), "black-box", text.Doc(`
		Black-box coverage of the suite, in the form of "<criterion>=<path>".
		Line i of the file is the content of the test with id i. The content is
		split into shingles of -shingle-size characters.
		May be specified multiple times.
	`))
	fs.IntVar(&f.shingleSize, "shingle-size", distance.DefaultShingleSize, "Size of black-box shingles.")
}

// sources returns coverage sources: white-box first, in flag order.
func (f *coverageFlags) sources(featureVectors bool) ([]coverage.Source, error) {
	if len(f.whiteBox)+len(f.blackBox) == 0 {
		return nil, errBadFlag("-coverage", "at least one of -coverage or -black-box is required")
	}
	if f.shingleSize <= 0 {
		return nil, errBadFlag("-shingle-size", "must be positive")
	}

	var ret []coverage.Source
	add := func(flagName string, values []string, kind coverage.Kind) error {
		for _, v := range values {
			parts := strings.SplitN(v, "=", 2)
			if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
				return errBadFlag(flagName, fmt.Sprintf("%q is not in the form <criterion>=<path>", v))
			}
			ret = append(ret, coverage.Source{
				Criterion: parts[0],
				Path:      parts[1],
				Options: coverage.LoadOptions{
					Kind:           kind,
					ShingleSize:    f.shingleSize,
					FeatureVectors: featureVectors,
				},
			})
		}
		return nil
	}
	if err := add("-coverage", f.whiteBox, coverage.WhiteBox); err != nil {
		return nil, err
	}
	if err := add("-black-box", f.blackBox, coverage.BlackBox); err != nil {
		return nil, err
	}
	return ret, nil
}

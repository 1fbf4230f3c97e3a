// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package ensemble combines independently produced selections into one.
package ensemble

import (
	"strings"

	"go.chromium.org/luci/common/errors"

	"testreduce"
)

// Method is a way to combine selections.
type Method string

const (
	// Majority keeps tests present in more than half of the selections.
	Majority Method = "majority"
	// Union keeps tests present in any selection.
	Union Method = "union"
	// Intersection keeps tests present in every selection.
	Intersection Method = "intersection"
)

// Methods lists all supported methods.
var Methods = []Method{Majority, Union, Intersection}

// ParseMethod parses a method name, case-insensitively.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(s))
	for _, known := range Methods {
		if m == known {
			return m, nil
		}
	}
	return "", errors.Reason("unknown ensembling method %q", s).Tag(testreduce.ConfigError).Err()
}

// Combine combines selections using the given method.
//
// The result has no duplicates and is sorted by test id; the order carries no
// meaning. Duplicates within one input selection count once.
// Intersection requires at least one selection.
func Combine(selections []testreduce.Selection, method Method) (testreduce.Selection, error) {
	// votes[id] is the number of selections containing id.
	votes := map[testreduce.TestID]int{}
	for _, sel := range selections {
		seen := make(map[testreduce.TestID]struct{}, len(sel))
		for _, id := range sel {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				votes[id]++
			}
		}
	}

	var minVotes int
	switch method {
	case Majority:
		minVotes = len(selections)/2 + 1
	case Union:
		minVotes = 1
	case Intersection:
		if len(selections) == 0 {
			return nil, errors.Reason("intersection of zero selections").Tag(testreduce.ConfigError).Err()
		}
		minVotes = len(selections)
	default:
		return nil, errors.Reason("unknown ensembling method %q", method).Tag(testreduce.ConfigError).Err()
	}

	ret := make(testreduce.Selection, 0, len(votes))
	for id, n := range votes {
		if n >= minVotes {
			ret = append(ret, id)
		}
	}
	return ret.Sorted(), nil
}

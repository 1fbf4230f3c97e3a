// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package distance

import (
	"go.chromium.org/luci/common/data/stringset"
)

// DefaultShingleSize is the k in k-gram shingling of black-box test content.
const DefaultShingleSize = 5

// ShingleCounts splits text into overlapping k-grams of runes and counts their
// occurrences.
// A non-empty text shorter than k is a single shingle.
// If k <= 0, DefaultShingleSize is used.
func ShingleCounts(text string, k int) map[string]int {
	if k <= 0 {
		k = DefaultShingleSize
	}
	runes := []rune(text)
	ret := map[string]int{}
	switch {
	case len(runes) == 0:
		return ret
	case len(runes) < k:
		ret[text]++
		return ret
	}
	for i := 0; i+k <= len(runes); i++ {
		ret[string(runes[i:i+k])]++
	}
	return ret
}

// Shingles returns the set of k-grams of text.
// See also ShingleCounts.
func Shingles(text string, k int) stringset.Set {
	counts := ShingleCounts(text, k)
	ret := stringset.New(len(counts))
	for s := range counts {
		ret.Add(s)
	}
	return ret
}

// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package distance

import (
	"go.chromium.org/luci/common/data/stringset"
)

// Jaccard is the exact Jaccard distance: 1 - |a∩b| / |a∪b|.
// The distance between two empty sets is 0.
type Jaccard struct{}

// SetDistance implements SetMetric.
func (Jaccard) SetDistance(a, b stringset.Set) float64 {
	if a.Len() > b.Len() {
		a, b = b, a
	}
	common := 0
	for e := range a {
		if b.Has(e) {
			common++
		}
	}
	union := a.Len() + b.Len() - common
	if union == 0 {
		return 0
	}
	return 1 - float64(common)/float64(union)
}

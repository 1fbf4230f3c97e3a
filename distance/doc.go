// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package distance implements dissimilarity measures between test cases.
//
// Set metrics compare coverage sets, e.g. exact Jaccard distance or its
// MinHash estimate. Vector metrics compare numeric feature vectors, e.g.
// Manhattan distance.
package distance

import (
	"go.chromium.org/luci/common/data/stringset"
)

// SetMetric measures the dissimilarity of two coverage sets.
// Implementations must be safe for concurrent use.
type SetMetric interface {
	SetDistance(a, b stringset.Set) float64
}

// VectorMetric measures the dissimilarity of two feature vectors.
// Implementations must be safe for concurrent use.
type VectorMetric interface {
	VectorDistance(u, v []float64) (float64, error)
}

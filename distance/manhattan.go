// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package distance

import (
	"gonum.org/v1/gonum/floats"

	"go.chromium.org/luci/common/errors"

	"testreduce"
)

// Manhattan is the L1 distance: the sum of absolute componentwise
// differences.
type Manhattan struct{}

// VectorDistance implements VectorMetric.
// Vectors of different lengths are a configuration error.
func (Manhattan) VectorDistance(u, v []float64) (float64, error) {
	if len(u) != len(v) {
		return 0, errors.Reason("manhattan distance: vector length mismatch: %d vs %d", len(u), len(v)).Tag(testreduce.ConfigError).Err()
	}
	if len(u) == 0 {
		return 0, nil
	}
	return floats.Distance(u, v, 1), nil
}

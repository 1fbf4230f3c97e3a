// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package argmax finds the first maximal element of a scored sequence,
// optionally scoring elements concurrently.
package argmax

import (
	"math"

	"go.chromium.org/luci/common/sync/parallel"
)

// minChunk is the smallest number of elements scored by one worker.
// Smaller scans are not worth the goroutine overhead.
const minChunk = 64

// ScoreFunc returns the score of the i-th element.
type ScoreFunc func(i int) (float64, error)

// First returns the index of the first element with the maximum score among
// n elements, and the score itself. Returns -1 if n is 0.
//
// If workers > 1, elements are scored concurrently, but the result is the
// same as the sequential scan: ties resolve to the lowest index.
// score must be safe for concurrent use if workers > 1.
func First(n, workers int, score ScoreFunc) (int, float64, error) {
	if workers <= 1 || n < 2*minChunk {
		return scan(0, n, score)
	}

	chunk := (n + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}
	type best struct {
		index int
		score float64
	}
	results := make([]best, (n+chunk-1)/chunk)
	err := parallel.WorkPool(workers, func(work chan<- func() error) {
		for c := range results {
			c := c
			work <- func() error {
				begin := c * chunk
				end := begin + chunk
				if end > n {
					end = n
				}
				i, s, err := scan(begin, end, score)
				results[c] = best{index: i, score: s}
				return err
			}
		}
	})
	if err != nil {
		return -1, 0, err
	}

	// Chunks are ordered, so a strict comparison keeps the first maximum.
	ret := best{index: -1, score: math.Inf(-1)}
	for _, r := range results {
		if r.index != -1 && (ret.index == -1 || r.score > ret.score) {
			ret = r
		}
	}
	return ret.index, ret.score, nil
}

func scan(begin, end int, score ScoreFunc) (int, float64, error) {
	bestIndex := -1
	bestScore := math.Inf(-1)
	for i := begin; i < end; i++ {
		s, err := score(i)
		if err != nil {
			return -1, 0, err
		}
		if bestIndex == -1 || s > bestScore {
			bestIndex = i
			bestScore = s
		}
	}
	return bestIndex, bestScore, nil
}

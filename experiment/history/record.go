// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package history persists experiment run records.
//
// A history file is a zstd stream of recordio frames, one JSON-encoded
// Record per frame.
package history

import (
	"time"

	"testreduce"
	"testreduce/eval"
)

// Record is the outcome of one selection run.
type Record struct {
	// RunID uniquely identifies the run.
	RunID string `json:"runId"`

	Program   string `json:"program"`
	Algorithm string `json:"algorithm"`

	// Ensemble is the ensembling method, if the run combined per-criterion
	// selections.
	Ensemble string `json:"ensemble,omitempty"`

	// Budget is the maximum number of tests, or 0 if unlimited.
	Budget int `json:"budget"`

	// Repetition is the 0-based repetition number of a randomized algorithm.
	Repetition int `json:"repetition"`

	// SuiteSize is the number of tests in the full suite.
	SuiteSize int `json:"suiteSize"`

	Selection testreduce.Selection `json:"selection"`

	// Metrics is nil if the program has no fault matrix.
	Metrics *eval.Metrics `json:"metrics,omitempty"`

	// Duration is the time spent selecting.
	Duration time.Duration `json:"duration"`
}

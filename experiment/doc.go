// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package experiment runs selection algorithms in bulk and reports their
// effectiveness.
//
// An experiment runs every algorithm of a Plan on every program, for every
// budget. Randomized algorithms are repeated. Each run produces a
// history.Record, which can be persisted with the history package, exported
// with WriteCSV or aggregated with Summary.
package experiment

// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package coverage holds in-memory test suite coverage for one criterion,
// e.g. lines, branches, functions or black-box shingles.
//
// A Store is built once and is read-only afterwards, so a single Store may be
// shared by concurrent selection runs.
package coverage

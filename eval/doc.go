// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package eval measures how well a selection preserves the fault detection
// capability of the full test suite.
package eval

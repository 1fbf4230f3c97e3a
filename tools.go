// Copyright 2021 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// +build tools

package main

import (
	// Browser UI for the convey-based tests.
	_ "github.com/smartystreets/goconvey"
)

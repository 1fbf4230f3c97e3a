// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package testreduce

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"go.chromium.org/luci/common/errors"
)

// TestID identifies a test case within one coverage store.
// Valid ids are positive.
type TestID int

// Selection is an ordered sequence of chosen test cases.
// Selection algorithms never put more ids into a Selection than their budget
// allows, and never put the same id twice.
type Selection []TestID

// Sorted returns a sorted copy of s.
func (s Selection) Sorted() Selection {
	ret := make(Selection, len(s))
	copy(ret, s)
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })
	return ret
}

// Contains returns true if id is in s.
func (s Selection) Contains(id TestID) bool {
	for _, x := range s {
		if x == id {
			return true
		}
	}
	return false
}

// ConfigError is attached to errors caused by invalid configuration or input,
// e.g. an unknown algorithm name or mismatched feature vector lengths.
// Such errors are reported before a run starts and are never transient.
var ConfigError = errors.BoolTag{Key: errors.NewTagKey("configuration error")}

// ReadSelection reads a selection written by WriteSelection: one test id per
// line. Empty lines and lines starting with "#" are ignored.
func ReadSelection(r io.Reader) (Selection, error) {
	var ret Selection
	scan := bufio.NewScanner(r)
	for lineNum := 1; scan.Scan(); lineNum++ {
		line := strings.TrimSpace(scan.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, err := strconv.Atoi(line)
		if err != nil || id <= 0 {
			return nil, errors.Reason("line %d: invalid test id %q", lineNum, line).Tag(ConfigError).Err()
		}
		ret = append(ret, TestID(id))
	}
	return ret, scan.Err()
}

// WriteSelection writes test ids of s, one per line, in order.
func WriteSelection(w io.Writer, s Selection) error {
	bw := bufio.NewWriter(w)
	for _, id := range s {
		if _, err := fmt.Fprintln(bw, id); err != nil {
			return err
		}
	}
	return bw.Flush()
}

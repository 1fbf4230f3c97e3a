// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package eval

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"go.chromium.org/luci/common/data/stringset"
	"go.chromium.org/luci/common/errors"

	"testreduce"
)

// FaultMatrix maps a test to the faults it detects.
// Tests that detect nothing may be absent.
type FaultMatrix map[testreduce.TestID]stringset.Set

// LoadFaultMatrix reads a fault matrix file. See ReadFaultMatrix.
func LoadFaultMatrix(path string) (FaultMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := ReadFaultMatrix(f)
	return m, errors.Annotate(err, "failed to read fault matrix %q", path).Err()
}

// ReadFaultMatrix reads a fault matrix, one test per line:
// a test id followed by whitespace-separated ids of faults it detects.
// Empty lines and lines starting with "#" are ignored.
func ReadFaultMatrix(r io.Reader) (FaultMatrix, error) {
	m := FaultMatrix{}
	scan := bufio.NewScanner(r)
	scan.Buffer(nil, 1e8) // 100 MB.
	for lineNo := 1; scan.Scan(); lineNo++ {
		fields := strings.Fields(scan.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil || id <= 0 {
			return nil, errors.Reason("line %d: invalid test id %q", lineNo, fields[0]).Err()
		}
		faults, ok := m[testreduce.TestID(id)]
		if !ok {
			faults = stringset.New(len(fields) - 1)
			m[testreduce.TestID(id)] = faults
		}
		for _, f := range fields[1:] {
			faults.Add(f)
		}
	}
	return m, scan.Err()
}

// Faults returns all faults detected by any test.
func (m FaultMatrix) Faults() stringset.Set {
	ret := stringset.New(0)
	for _, faults := range m {
		for f := range faults {
			ret.Add(f)
		}
	}
	return ret
}

// Detected returns faults detected by the selected tests.
func (m FaultMatrix) Detected(sel testreduce.Selection) stringset.Set {
	ret := stringset.New(0)
	for _, id := range sel {
		for f := range m[id] {
			ret.Add(f)
		}
	}
	return ret
}

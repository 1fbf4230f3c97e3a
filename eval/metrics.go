// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package eval

import (
	"io"

	"go.chromium.org/luci/common/data/stringset"

	"testreduce"
)

// Metrics describe the effectiveness of a selection.
type Metrics struct {
	// FaultDetectionLoss is the fraction of faults detectable by the full suite
	// that the selection misses.
	FaultDetectionLoss float64

	// TestSuiteReduction is the fraction of the full suite not selected.
	TestSuiteReduction float64

	// FirstFaultPosition is the 1-based position of the first selected test
	// that detects a fault, or 0 if no selected test does.
	FirstFaultPosition int

	// APFD is the average percentage of faults detected by the selection,
	// taken in order. Faults the selection misses count as detected one step
	// after the last selected test.
	APFD float64
}

// Score computes effectiveness metrics of a selection taken from a suite of
// totalSuiteSize tests.
func Score(sel testreduce.Selection, m FaultMatrix, totalSuiteSize int) Metrics {
	var ret Metrics
	faults := m.Faults()
	detected := m.Detected(sel)

	if faults.Len() > 0 {
		ret.FaultDetectionLoss = 1 - float64(detected.Len())/float64(faults.Len())
	}
	if totalSuiteSize > 0 {
		ret.TestSuiteReduction = 1 - float64(len(sel))/float64(totalSuiteSize)
	}
	for i, id := range sel {
		if m[id].Len() > 0 {
			ret.FirstFaultPosition = i + 1
			break
		}
	}
	ret.APFD = apfd(sel, m, faults)
	return ret
}

// apfd computes 1 - ΣTF/(n*m) + 1/(2n), where TF is the position of the first
// test detecting a fault.
func apfd(sel testreduce.Selection, matrix FaultMatrix, faults stringset.Set) float64 {
	n := len(sel)
	m := faults.Len()
	if n == 0 || m == 0 {
		return 0
	}

	firstPos := make(map[string]int, m)
	for i, id := range sel {
		for f := range matrix[id] {
			if _, ok := firstPos[f]; !ok {
				firstPos[f] = i + 1
			}
		}
	}

	sum := 0
	for f := range faults {
		if pos, ok := firstPos[f]; ok {
			sum += pos
		} else {
			sum += n + 1
		}
	}
	return 1 - float64(sum)/float64(n*m) + 1/float64(2*n)
}

// Print prints the metrics in a human-readable form.
func (m *Metrics) Print(w io.Writer, indent int) error {
	p := newPrinter(w)
	p.Level = indent
	p.printf("Fault detection loss: %6.2f%%\n", m.FaultDetectionLoss*100)
	p.printf("Test suite reduction: %6.2f%%\n", m.TestSuiteReduction*100)
	if m.FirstFaultPosition == 0 {
		p.printf("First fault position: none\n")
	} else {
		p.printf("First fault position: %d\n", m.FirstFaultPosition)
	}
	p.printf("APFD:                 %6.2f%%\n", m.APFD*100)
	return p.err
}

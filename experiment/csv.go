// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package experiment

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"testreduce/experiment/history"
)

var csvHeader = []string{
	"run_id",
	"program",
	"algorithm",
	"ensemble",
	"budget",
	"repetition",
	"suite_size",
	"selection_size",
	"fdl",
	"tsr",
	"ffp",
	"apfd",
	"duration_us",
	"selection",
}

// WriteCSV writes run records as CSV, with a header.
// Metric columns are empty for records without metrics.
// The selection column contains space-separated test ids, in selection order.
func WriteCSV(w io.Writer, records []*history.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	ftoa := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	for _, rec := range records {
		ids := make([]string, len(rec.Selection))
		for i, id := range rec.Selection {
			ids[i] = strconv.Itoa(int(id))
		}

		row := []string{
			rec.RunID,
			rec.Program,
			rec.Algorithm,
			rec.Ensemble,
			strconv.Itoa(rec.Budget),
			strconv.Itoa(rec.Repetition),
			strconv.Itoa(rec.SuiteSize),
			strconv.Itoa(len(rec.Selection)),
			"", "", "", "",
			strconv.FormatInt(rec.Duration.Microseconds(), 10),
			strings.Join(ids, " "),
		}
		if m := rec.Metrics; m != nil {
			row[8] = ftoa(m.FaultDetectionLoss)
			row[9] = ftoa(m.TestSuiteReduction)
			row[10] = strconv.Itoa(m.FirstFaultPosition)
			row[11] = ftoa(m.APFD)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

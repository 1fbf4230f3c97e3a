// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"os"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/data/text"

	"testreduce/experiment"
	"testreduce/experiment/history"
)

func cmdReport() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: `report [-csv <path>] <history-file>`,
		ShortDesc: "summarize recorded experiment runs",
		LongDesc: text.Doc(`
			Summarize run records written by "experiment -history".

			Prints a summary table. Optionally exports the records as CSV.
		`),
		CommandRun: func() subcommands.CommandRun {
			r := &reportRun{}
			r.init(r.exec, []*string{&r.history}, nil)
			r.Flags.StringVar(&r.csv, "csv", "", "Path to a CSV file where to write run records.")
			return r
		},
	}
}

type reportRun struct {
	commandBase

	history string
	csv     string
}

func (r *reportRun) exec(ctx context.Context) error {
	hr, err := history.OpenFile(r.history)
	if err != nil {
		return err
	}
	defer hr.Close()

	records, err := hr.ReadAll()
	if err != nil {
		return err
	}

	if r.csv != "" {
		if err := writeCSVFile(r.csv, records); err != nil {
			return err
		}
	}

	summary := &experiment.Summary{}
	for _, rec := range records {
		summary.Add(rec)
	}
	return summary.Print(os.Stdout)
}

// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"os"
	"runtime"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/data/text"
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"

	"testreduce/experiment"
	"testreduce/experiment/history"
)

func cmdExperiment() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: `experiment -plan <path> [-history <path>] [-csv <path>]`,
		ShortDesc: "run selection algorithms in bulk",
		LongDesc: text.Doc(`
			Run selection algorithms in bulk, as described by a YAML plan file.

			Prints a summary table. See the experiment package for the plan format.
		`),
		CommandRun: func() subcommands.CommandRun {
			r := &experimentRun{}
			r.init(r.exec, nil, nil)
			r.Flags.StringVar(&r.plan, "plan", "", "Path to the experiment plan.")
			r.Flags.StringVar(&r.history, "history", "", text.Doc(`
				Path to a file where to write run records.
				The file can be read by the "report" subcommand.
			`))
			r.Flags.StringVar(&r.csv, "csv", "", "Path to a CSV file where to write run records.")
			r.Flags.IntVar(&r.parallelism, "parallelism", runtime.NumCPU(), "Number of concurrent runs.")
			return r
		},
	}
}

type experimentRun struct {
	commandBase

	plan        string
	history     string
	csv         string
	parallelism int
}

func (r *experimentRun) exec(ctx context.Context) (err error) {
	if r.plan == "" {
		return errBadFlag("-plan", "required")
	}
	plan, err := experiment.LoadPlan(r.plan)
	if err != nil {
		return err
	}

	var hist *history.Writer
	if r.history != "" {
		if hist, err = history.CreateFile(r.history); err != nil {
			return errors.Annotate(err, "failed to create the history file").Err()
		}
		defer func() {
			if closeErr := hist.Close(); err == nil {
				err = closeErr
			}
		}()
	}

	var records []*history.Record
	summary := &experiment.Summary{}
	err = experiment.Run(ctx, plan, experiment.Options{
		Parallelism: r.parallelism,
		Output: func(rec *history.Record) error {
			records = append(records, rec)
			summary.Add(rec)
			if hist != nil {
				return hist.Write(rec)
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	logging.Infof(ctx, "completed %d runs", len(records))

	if r.csv != "" {
		if err := writeCSVFile(r.csv, records); err != nil {
			return err
		}
	}
	return summary.Print(os.Stdout)
}

func writeCSVFile(path string, records []*history.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := experiment.WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

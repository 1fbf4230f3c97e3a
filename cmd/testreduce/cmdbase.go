// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"
	"go.chromium.org/luci/common/system/signals"

	"testreduce"
)

// execCb a signature of a function that executes a subcommand.
type execCb func(ctx context.Context) error

// commandBase defines flags common to all subcommands.
type commandBase struct {
	subcommands.CommandRunBase

	exec    execCb    // called to actually execute the command
	posArgs []*string // will be filled in by positional arguments
	varArgs *[]string // if not nil, receives one or more positional arguments

	logConfig logging.Config // -log-* flags
}

// init register base flags. Must be called.
func (c *commandBase) init(exec execCb, posArgs []*string, varArgs *[]string) {
	c.exec = exec
	c.posArgs = posArgs
	c.varArgs = varArgs

	c.logConfig.Level = logging.Info // default logging level
	c.logConfig.AddFlags(&c.Flags)
}

// ModifyContext implements cli.ContextModificator.
//
// Used by cli.Application.
func (c *commandBase) ModifyContext(ctx context.Context) context.Context {
	return c.logConfig.Set(ctx)
}

// Run implements the subcommands.CommandRun interface.
func (c *commandBase) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)

	switch {
	case c.varArgs != nil:
		if len(args) == 0 {
			return handleErr(ctx, errors.Reason("expected at least one positional argument").Tag(isCLIError).Err())
		}
		*c.varArgs = args
	case len(args) != len(c.posArgs):
		if len(c.posArgs) == 0 {
			return handleErr(ctx, errors.Reason("unexpected positional arguments %q", args).Tag(isCLIError).Err())
		}
		return handleErr(ctx, errors.Reason(
			"expected %d positional argument(s), got %d",
			len(c.posArgs), len(args)).Tag(isCLIError).Err())
	default:
		for i, arg := range args {
			*c.posArgs[i] = arg
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	signals.HandleInterrupt(cancel)

	return handleErr(ctx, c.exec(ctx))
}

// isCLIError is tagged into errors caused by bad CLI flags.
var isCLIError = errors.BoolTag{Key: errors.NewTagKey("bad CLI invocation")}

// errBadFlag produces an error related to malformed or absent CLI flag
func errBadFlag(flag, msg string) error {
	return errors.Reason("bad %q: %s", flag, msg).Tag(isCLIError).Err()
}

// handleErr prints the error and returns the process exit code.
func handleErr(ctx context.Context, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Contains(err, context.Canceled): // happens on Ctrl+C
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 4
	case isCLIError.In(err):
		fmt.Fprintf(os.Stderr, "%s: %s\n", os.Args[0], err)
		return 2
	case testreduce.ConfigError.In(err):
		fmt.Fprintf(os.Stderr, "%s: %s\n", os.Args[0], err)
		return 3
	default:
		logging.Errorf(ctx, "%s", err)
		logging.Errorf(ctx, "Full context:")
		errors.Log(ctx, err)
		return 1
	}
}

// createOutput opens a file for writing, or returns stdout if path is "-"
// or empty.
func createOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// readSelectionFile reads a selection file written by "select".
func readSelectionFile(path string) (testreduce.Selection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sel, err := testreduce.ReadSelection(f)
	if err != nil {
		return nil, errors.Annotate(err, "failed to read %q", path).Err()
	}
	return sel, nil
}

// writeSelectionFile writes a selection to path, see createOutput.
func writeSelectionFile(path string, sel testreduce.Selection) error {
	out, err := createOutput(path)
	if err != nil {
		return err
	}
	if err := testreduce.WriteSelection(out, sel); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

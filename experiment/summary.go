// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package experiment

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"testreduce/experiment/history"
)

// Group identifies runs of the same configuration.
type Group struct {
	Program   string
	Algorithm string
	Ensemble  string
	Budget    int
}

func (g Group) less(other Group) bool {
	switch {
	case g.Program != other.Program:
		return g.Program < other.Program
	case g.Algorithm != other.Algorithm:
		return g.Algorithm < other.Algorithm
	case g.Ensemble != other.Ensemble:
		return g.Ensemble < other.Ensemble
	default:
		return g.Budget < other.Budget
	}
}

// Stats are averages over runs of a group.
type Stats struct {
	Runs          int
	SelectionSize float64
	Duration      time.Duration

	// Scored is the number of runs with metrics.
	// The metrics below are averaged over them.
	Scored             int
	FaultDetectionLoss float64
	TestSuiteReduction float64
	FirstFaultPosition float64
	APFD               float64
}

// Summary aggregates run records by Group.
// The zero value is ready to use.
type Summary struct {
	groups map[Group]*Stats
}

// Add adds a run record.
func (s *Summary) Add(rec *history.Record) {
	if s.groups == nil {
		s.groups = map[Group]*Stats{}
	}
	g := Group{Program: rec.Program, Algorithm: rec.Algorithm, Ensemble: rec.Ensemble, Budget: rec.Budget}
	st := s.groups[g]
	if st == nil {
		st = &Stats{}
		s.groups[g] = st
	}

	// Sums; divided in Stats().
	st.Runs++
	st.SelectionSize += float64(len(rec.Selection))
	st.Duration += rec.Duration
	if m := rec.Metrics; m != nil {
		st.Scored++
		st.FaultDetectionLoss += m.FaultDetectionLoss
		st.TestSuiteReduction += m.TestSuiteReduction
		st.FirstFaultPosition += float64(m.FirstFaultPosition)
		st.APFD += m.APFD
	}
}

// Groups returns all groups, sorted.
func (s *Summary) Groups() []Group {
	ret := make([]Group, 0, len(s.groups))
	for g := range s.groups {
		ret = append(ret, g)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].less(ret[j]) })
	return ret
}

// Stats returns averages of the group.
func (s *Summary) Stats(g Group) Stats {
	sum := s.groups[g]
	if sum == nil || sum.Runs == 0 {
		return Stats{}
	}
	ret := *sum
	ret.SelectionSize /= float64(sum.Runs)
	ret.Duration /= time.Duration(sum.Runs)
	if sum.Scored > 0 {
		n := float64(sum.Scored)
		ret.FaultDetectionLoss /= n
		ret.TestSuiteReduction /= n
		ret.FirstFaultPosition /= n
		ret.APFD /= n
	}
	return ret
}

// Print prints the summary as a table.
func (s *Summary) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROGRAM\tALGORITHM\tENSEMBLE\tBUDGET\tRUNS\tSIZE\tFDL\tTSR\tFFP\tAPFD\tTIME")
	for _, g := range s.Groups() {
		st := s.Stats(g)

		ens := g.Ensemble
		if ens == "" {
			ens = "-"
		}
		budget := "all"
		if g.Budget > 0 {
			budget = fmt.Sprint(g.Budget)
		}
		metrics := "-\t-\t-\t-"
		if st.Scored > 0 {
			metrics = fmt.Sprintf("%.3f\t%.3f\t%.1f\t%.3f", st.FaultDetectionLoss, st.TestSuiteReduction, st.FirstFaultPosition, st.APFD)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.1f\t%s\t%s\n",
			g.Program, g.Algorithm, ens, budget, st.Runs, st.SelectionSize, metrics, st.Duration.Round(time.Microsecond))
	}
	return tw.Flush()
}

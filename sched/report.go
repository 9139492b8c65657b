// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sched

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/aclements/go-moremath/stats"
)

// A Report describes how a Run distributed work.
type Report struct {
	Mode    Mode
	Workers []*WorkerStats

	// Funcs gives the timing of every analyzed function, in
	// module order.
	Funcs []FuncTiming

	// Elapsed is the wall-clock time of the whole run.
	Elapsed time.Duration
}

// FuncTiming is the cost of analyzing one function.
type FuncTiming struct {
	Index  int
	Name   string
	Blocks int
	Time   time.Duration
	Worker int
}

// WorkerStats summarizes the tasks one worker processed.
type WorkerStats struct {
	ID int

	// Tasks lists the module indexes of the functions this
	// worker analyzed, in the order it claimed them.
	Tasks []int

	// Sizes and Times give the block count and analysis time of
	// each task in Tasks.
	Sizes []int
	Times []time.Duration

	// Busy is the total time spent analyzing.
	Busy time.Duration

	// Elapsed is the time from the worker starting to it
	// running out of work.
	Elapsed time.Duration

	// MaxTime is the longest single task and MaxSize is its
	// block count.
	MaxTime time.Duration
	MaxSize int

	start time.Time
}

func (s *WorkerStats) record(t Task, d time.Duration) {
	s.Tasks = append(s.Tasks, t.Index)
	s.Sizes = append(s.Sizes, t.Cost)
	s.Times = append(s.Times, d)
	s.Busy += d
	if d > s.MaxTime || len(s.Tasks) == 1 {
		s.MaxTime, s.MaxSize = d, t.Cost
	}
}

// A Summary gives the distribution of task sizes (in blocks) and
// times (in microseconds) for one worker. Variances are population
// variances over the worker's tasks.
type Summary struct {
	N                             int
	SizeMean, SizeVar, SizeStdDev float64
	TimeMean, TimeVar, TimeStdDev float64
}

// Summary computes the distribution of s's tasks.
func (s *WorkerStats) Summary() Summary {
	sum := Summary{N: len(s.Tasks)}
	if sum.N == 0 {
		return sum
	}
	sizes := make([]float64, len(s.Sizes))
	for i, sz := range s.Sizes {
		sizes[i] = float64(sz)
	}
	times := make([]float64, len(s.Times))
	for i, t := range s.Times {
		times[i] = micros(t)
	}
	sum.SizeMean, sum.SizeVar, sum.SizeStdDev = moments(sizes)
	sum.TimeMean, sum.TimeVar, sum.TimeStdDev = moments(times)
	return sum
}

func moments(xs []float64) (mean, variance, stddev float64) {
	mean = stats.Mean(xs)
	dev := make([]float64, len(xs))
	for i, x := range xs {
		dev[i] = (x - mean) * (x - mean)
	}
	variance = stats.Mean(dev)
	return mean, variance, math.Sqrt(variance)
}

func micros(d time.Duration) float64 {
	return float64(d) / float64(time.Microsecond)
}

func newReport(mode Mode, workers []*WorkerStats, timings []FuncTiming, elapsed time.Duration) *Report {
	r := &Report{Mode: mode, Workers: workers, Elapsed: elapsed}
	claimed := make([]bool, len(timings))
	for _, w := range workers {
		for _, i := range w.Tasks {
			claimed[i] = true
		}
	}
	for i, ok := range claimed {
		if ok {
			r.Funcs = append(r.Funcs, timings[i])
		}
	}
	return r
}

// Fprint writes a per-worker table of r to w.
func (r *Report) Fprint(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "worker\ttasks\tbusy\telapsed\tmax time\tmax size\tsize mean\tsize stddev\ttime mean (us)\ttime stddev (us)\t\n")
	for _, ws := range r.Workers {
		s := ws.Summary()
		fmt.Fprintf(tw, "%d\t%d\t%v\t%v\t%v\t%d\t%.1f\t%.1f\t%.1f\t%.1f\t\n",
			ws.ID, s.N, ws.Busy, ws.Elapsed, ws.MaxTime, ws.MaxSize,
			s.SizeMean, s.SizeStdDev, s.TimeMean, s.TimeStdDev)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s: %d functions in %v\n", r.Mode, len(r.Funcs), r.Elapsed)
	return err
}

// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sched runs liveness analysis over every function of a
// module, optionally in parallel.
//
// Each function is analyzed independently by exactly one worker, and
// the results don't depend on the mode or the number of workers. The
// module's IR must not be modified while Run is in progress.
package sched

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/aclements/ssalive/ir"
	"github.com/aclements/ssalive/live"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Mode selects how functions are distributed to workers.
type Mode int

const (
	// Sequential analyzes functions one at a time in module
	// order.
	Sequential Mode = iota

	// Static gives worker t every function whose module index is
	// t mod the number of workers.
	Static

	// Dynamic has workers repeatedly claim the largest remaining
	// function from a shared queue, so expensive functions start
	// first.
	Dynamic
)

var modeNames = []string{
	Sequential: "sequential",
	Static:     "static",
	Dynamic:    "dynamic",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode returns the Mode called name.
func ParseMode(name string) (Mode, error) {
	for m, n := range modeNames {
		if n == name {
			return Mode(m), nil
		}
	}
	return 0, fmt.Errorf("unknown scheduling mode %q", name)
}

// Config controls Run.
type Config struct {
	Mode Mode

	// Workers is the number of workers for the Static and
	// Dynamic modes. If it's <= 0, Run uses runtime.GOMAXPROCS.
	Workers int

	// Live configures the analysis of each function.
	Live live.Config

	// Stats enables collection of a Report.
	Stats bool

	// Runs is the number of times to analyze each function in
	// Sequential mode. Reported times are the mean over the
	// runs. Values below 1 mean 1.
	Runs int
}

// A Task is one function to analyze.
type Task struct {
	// Index is the function's position in the module.
	Index int
	Func  ir.Function

	// Cost estimates the work to analyze Func. It's the number
	// of blocks.
	Cost int
}

// Tasks returns a Task for every function in mod that isn't a
// declaration, in module order.
func Tasks(mod ir.Module) []Task {
	var tasks []Task
	for i, fn := range mod {
		if fn.IsDeclaration() {
			continue
		}
		tasks = append(tasks, Task{i, fn, len(fn.Blocks())})
	}
	return tasks
}

// Results holds the outcome of Run.
type Results struct {
	// Funcs holds the liveness of each function in the module,
	// indexed by module position. Declarations have a nil entry.
	Funcs []*live.Result

	// Report describes how the work was distributed. It's nil
	// unless Config.Stats was set.
	Report *Report
}

// Run analyzes every function of mod.
//
// If any function fails, Run stops handing out new work and returns
// the first error; results of functions that were already analyzed
// are discarded.
func Run(mod ir.Module, cfg Config) (*Results, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Mode == Sequential {
		workers = 1
	}

	r := &runner{
		cfg:   cfg,
		res:   &Results{Funcs: make([]*live.Result, len(mod))},
		tasks: Tasks(mod),
	}
	if cfg.Stats {
		r.timings = make([]FuncTiming, len(mod))
		r.workers = make([]*WorkerStats, workers)
		for i := range r.workers {
			r.workers[i] = &WorkerStats{ID: i}
		}
	}

	start := time.Now()
	var err error
	switch cfg.Mode {
	case Sequential:
		err = r.sequential()
	case Static:
		err = r.static(workers)
	case Dynamic:
		err = r.dynamic(workers)
	default:
		err = fmt.Errorf("unknown scheduling mode %v", cfg.Mode)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Stats {
		r.res.Report = newReport(cfg.Mode, r.workers, r.timings, time.Since(start))
	}
	return r.res, nil
}

type runner struct {
	cfg   Config
	res   *Results
	tasks []Task

	// timings and workers are nil unless stats are enabled.
	// timings[i] is written only by the worker that claims
	// function i, and workers[w] only by worker w.
	timings []FuncTiming
	workers []*WorkerStats
}

// analyze runs one task on worker w.
func (r *runner) analyze(w int, t Task) error {
	runs := 1
	if r.cfg.Mode == Sequential && r.cfg.Runs > 1 {
		runs = r.cfg.Runs
	}

	start := time.Now()
	var res *live.Result
	for i := 0; i < runs; i++ {
		var err error
		res, err = live.AnalyzeFunc(t.Func, r.cfg.Live)
		if err != nil {
			return errors.Wrapf(err, "analyzing %s", t.Func.Name())
		}
	}
	r.res.Funcs[t.Index] = res

	if r.workers != nil {
		d := time.Since(start) / time.Duration(runs)
		r.timings[t.Index] = FuncTiming{Index: t.Index, Name: t.Func.Name(), Blocks: t.Cost, Time: d, Worker: w}
		r.workers[w].record(t, d)
	}
	return nil
}

func (r *runner) sequential() error {
	r.begin(0)
	defer r.end(0)
	for _, t := range r.tasks {
		if err := r.analyze(0, t); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) static(workers int) error {
	g, ctx := errgroup.WithContext(context.Background())
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			r.begin(w)
			defer r.end(w)
			for _, t := range r.tasks {
				if t.Index%workers != w {
					continue
				}
				if ctx.Err() != nil {
					return nil
				}
				if err := r.analyze(w, t); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (r *runner) dynamic(workers int) error {
	q := newTaskQueue(r.tasks)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(context.Background())
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			r.begin(w)
			defer r.end(w)
			for ctx.Err() == nil {
				mu.Lock()
				t, ok := q.pop()
				mu.Unlock()
				if !ok {
					break
				}
				if err := r.analyze(w, t); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (r *runner) begin(w int) {
	if r.workers != nil {
		r.workers[w].start = time.Now()
	}
}

func (r *runner) end(w int) {
	if r.workers != nil {
		r.workers[w].Elapsed = time.Since(r.workers[w].start)
	}
}

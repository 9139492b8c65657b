// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command ssalive computes the live-in and live-out sets of every
// basic block of every function in a Go program in SSA form.
//
// Usage:
//
//	ssalive [flags] packages...
//
// The arguments are package patterns as understood by "go list", or
// .go files. ssalive prints the liveness of each function to stdout.
// Functions are analyzed in parallel, either by statically
// partitioning them across workers (--mode=static) or by having
// workers claim the largest remaining function (--mode=dynamic).
//
// Flags may also be set in a TOML file given by --config. Flags on the
// command line override the file. For example:
//
//	mode = "dynamic"
//	workers = 8
//	stats = true
//	csv = "times.csv"
package main

import (
	"fmt"
	"os"

	"github.com/aclements/ssalive/gossa"
	"github.com/aclements/ssalive/live"
	"github.com/aclements/ssalive/sched"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
)

var flags config

func init() {
	registerFlags(flag.CommandLine, &flags)
}

func registerFlags(fs *flag.FlagSet, f *config) {
	fs.StringVar(&f.Mode, "mode", defaultConfig.Mode, "scheduling `mode`: sequential, static or dynamic")
	fs.IntVarP(&f.Workers, "workers", "j", defaultConfig.Workers, "number of workers (default GOMAXPROCS)")
	fs.StringVar(&f.Order, "order", defaultConfig.Order, "worklist seeding `order`: backward, forward or program")
	fs.BoolVar(&f.RejectIrreducible, "reject-irreducible", false, "fail on functions with irreducible control flow")
	fs.BoolVar(&f.Stats, "stats", false, "print per-worker statistics to stderr")
	fs.IntVar(&f.Runs, "runs", defaultConfig.Runs, "analyze each function `n` times in sequential mode and report the mean time")
	fs.StringVar(&f.CSV, "csv", "", "write per-function timings to `file` as CSV")
	fs.StringVar(&f.Dot, "dot", "", "write a Graphviz graph of each function to `dir`")
	fs.StringVar(&f.Plot, "plot", "", "write an SVG plot of time versus function size to `file`")
	fs.BoolVarP(&f.Quiet, "quiet", "q", false, "don't print live sets")
	fs.BoolVar(&f.Debug, "debug", false, "enable debug logging")
}

func main() {
	var confPath string
	flag.StringVar(&confPath, "config", "", "read flag defaults from TOML `file`")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] packages...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	conf := defaultConfig
	if confPath != "" {
		var err error
		conf, err = loadConfig(confPath)
		if err != nil {
			log.Fatal(err)
		}
	}
	conf.override(flag.CommandLine, &flags)

	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	if conf.Debug {
		log.SetLevel(log.DebugLevel)
	}

	if err := run(conf, flag.Args()); err != nil {
		log.Fatal(err)
	}
}

func run(conf config, patterns []string) error {
	sc, err := conf.sched()
	if err != nil {
		return err
	}

	mod, err := gossa.Load(patterns...)
	if err != nil {
		return err
	}
	log.WithField("funcs", len(mod)).Debug("loaded")

	res, err := sched.Run(mod, sc)
	if err != nil {
		return err
	}

	for _, r := range res.Funcs {
		if r == nil {
			continue
		}
		if n := r.Locals.ParallelEdges; n > 0 {
			log.WithFields(log.Fields{"func": r.CFG.Name, "edges": n}).Warn("parallel control flow edges; φ operands on them are all live out of the predecessor")
		}
		if !conf.Quiet {
			if err := r.Fprint(os.Stdout); err != nil {
				return err
			}
		}
	}

	if conf.Dot != "" {
		if err := writeDots(conf.Dot, res.Funcs); err != nil {
			return errors.Wrap(err, "writing dot graphs")
		}
	}

	rep := res.Report
	if rep == nil {
		return nil
	}
	for _, ft := range rep.Funcs {
		log.WithFields(log.Fields{"func": ft.Name, "blocks": ft.Blocks, "time": ft.Time, "worker": ft.Worker}).Debug("analyzed")
	}
	log.WithFields(log.Fields{"mode": rep.Mode, "workers": len(rep.Workers), "funcs": len(rep.Funcs), "elapsed": rep.Elapsed}).Info("done")
	if conf.Stats {
		if err := rep.Fprint(os.Stderr); err != nil {
			return err
		}
	}
	if conf.CSV != "" {
		if err := writeCSVFile(conf.CSV, rep.Funcs); err != nil {
			return errors.Wrap(err, "writing CSV")
		}
	}
	if conf.Plot != "" {
		if err := writePlot(conf.Plot, rep); err != nil {
			return errors.Wrap(err, "writing plot")
		}
	}
	return nil
}

// sched returns the scheduler configuration for c.
func (c config) sched() (sched.Config, error) {
	mode, err := sched.ParseMode(c.Mode)
	if err != nil {
		return sched.Config{}, err
	}
	order, err := live.ParseOrder(c.Order)
	if err != nil {
		return sched.Config{}, err
	}
	return sched.Config{
		Mode:    mode,
		Workers: c.Workers,
		Live: live.Config{
			Order:             order,
			RejectIrreducible: c.RejectIrreducible,
		},
		Stats: c.Stats || c.CSV != "" || c.Plot != "",
		Runs:  c.Runs,
	}, nil
}

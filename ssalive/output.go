// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/ssalive/internal/graph"
	"github.com/aclements/ssalive/live"
	"github.com/aclements/ssalive/sched"
)

// writeCSV writes one "name,size,time(us)" record per function.
func writeCSV(w io.Writer, funcs []sched.FuncTiming) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"name", "size", "time(us)"})
	for _, ft := range funcs {
		cw.Write([]string{ft.Name, strconv.Itoa(ft.Blocks), strconv.FormatInt(ft.Time.Microseconds(), 10)})
	}
	cw.Flush()
	return cw.Error()
}

func writeCSVFile(path string, funcs []sched.FuncTiming) error {
	return createFile(path, func(w io.Writer) error {
		return writeCSV(w, funcs)
	})
}

// writeDots writes the control flow graph of each function to dir,
// with every block labeled by its live sets.
func writeDots(dir string, funcs []*live.Result) error {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return err
	}
	for i, r := range funcs {
		if r == nil {
			continue
		}
		path := filepath.Join(dir, dotFileName(i, r.CFG.Name))
		err := createFile(path, func(w io.Writer) error {
			return writeDot(w, r)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeDot(w io.Writer, r *live.Result) error {
	dot := graph.Dot{
		Name:  r.CFG.Name,
		Shape: "box",
		Label: func(b int) string {
			return fmt.Sprintf("%s\nin: %v\nout: %v\n", r.CFG.Blocks[b], r.Values(r.In[b]), r.Values(r.Out[b]))
		},
	}
	return dot.Fprint(r.CFG, w)
}

// dotFileName returns a file name for function i called name.
func dotFileName(i int, name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9', r == '.', r == '-':
			return r
		}
		return '_'
	}, name)
	return fmt.Sprintf("%d-%s.dot", i, clean)
}

// plotTimes plots the analysis time of each function against its
// number of blocks, colored by worker.
func plotTimes(rep *sched.Report) *gg.Plot {
	n := len(rep.Funcs)
	blocks, times, workers := make([]int, n), make([]float64, n), make([]string, n)
	for i, ft := range rep.Funcs {
		blocks[i] = ft.Blocks
		times[i] = float64(ft.Time.Nanoseconds()) / 1e3
		workers[i] = fmt.Sprintf("worker %d", ft.Worker)
	}
	tab := new(table.Builder).Add("blocks", blocks).Add("time (us)", times).Add("worker", workers).Done()

	p := gg.NewPlot(tab)
	p.Add(gg.LayerPoints{X: "blocks", Y: "time (us)", Color: "worker"})
	p.Add(gg.Title(fmt.Sprintf("%s scheduling, %d workers", rep.Mode, len(rep.Workers))))
	return p
}

func writePlot(path string, rep *sched.Report) error {
	return createFile(path, func(w io.Writer) error {
		return plotTimes(rep).WriteSVG(w, 640, 480)
	})
}

// createFile creates path, calls write on it, and closes it.
func createFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

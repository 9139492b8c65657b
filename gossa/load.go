// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gossa

import (
	"sort"
	"strings"

	"github.com/aclements/ssalive/ir"
	"github.com/pkg/errors"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// Load loads, type-checks and builds the packages matching patterns
// and returns every function defined in them, including methods and
// closures, ordered by source position. Synthetic wrappers that don't
// belong to a package are omitted.
//
// Patterns are interpreted as by "go list". A pattern naming a .go
// file loads that file as its own package.
func Load(patterns ...string) (ir.Module, error) {
	return LoadDir("", patterns...)
}

// LoadDir is like Load, but interprets patterns relative to dir.
func LoadDir(dir string, patterns ...string) (ir.Module, error) {
	cfg := &packages.Config{
		Mode: packages.LoadAllSyntax,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "loading packages")
	}
	if len(pkgs) == 0 {
		return nil, errors.Errorf("no packages match %s", strings.Join(patterns, " "))
	}
	if err := loadErrors(pkgs); err != nil {
		return nil, err
	}

	prog, ssaPkgs := ssautil.Packages(pkgs, 0)
	prog.Build()

	want := make(map[*ssa.Package]bool)
	for _, p := range ssaPkgs {
		if p != nil {
			want[p] = true
		}
	}
	var fns []*ssa.Function
	for fn := range ssautil.AllFunctions(prog) {
		if want[fn.Package()] {
			fns = append(fns, fn)
		}
	}
	sort.Slice(fns, func(i, j int) bool {
		if fns[i].Pos() != fns[j].Pos() {
			return fns[i].Pos() < fns[j].Pos()
		}
		return fns[i].String() < fns[j].String()
	})

	mod := make(ir.Module, len(fns))
	for i, fn := range fns {
		mod[i] = Func(fn)
	}
	return mod, nil
}

// loadErrors collects the errors of pkgs and their dependencies.
func loadErrors(pkgs []*packages.Package) error {
	var msgs []string
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, err := range p.Errors {
			msgs = append(msgs, err.Error())
		}
	})
	switch len(msgs) {
	case 0:
		return nil
	case 1:
		return errors.New(msgs[0])
	}
	return errors.Errorf("%d errors loading packages:\n\t%s", len(msgs), strings.Join(msgs, "\n\t"))
}

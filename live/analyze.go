// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package live computes which SSA values are live on entry to and
// exit from each basic block of a function.
//
// A value is live at a point if it may be read along some path from
// that point. φ operands are treated as reads at the end of the
// corresponding predecessor, and φ results as definitions at the
// very start of their block, so:
//
//	Out(B) = PhiUse(B) ∪ ⋃_{S ∈ succ(B)} (In(S) \ PhiDef(S))
//	In(B)  = PhiDef(B) ∪ Use(B) ∪ (Out(B) \ Def(B))
//
// Analysis proceeds in three steps: Index assigns dense handles to
// blocks and values, Collect computes the block-local sets, and
// Solve iterates a worklist to the least fixpoint. Analyze and
// AnalyzeFunc do all three.
//
// Everything in this package is safe to run concurrently on
// different functions, provided nothing mutates the IR.
package live

import (
	"github.com/aclements/ssalive/internal/graph"
	"github.com/aclements/ssalive/ir"
	"github.com/pkg/errors"
)

// Config controls analysis.
type Config struct {
	// Order is the initial worklist order.
	Order Order

	// RejectIrreducible causes Analyze to fail with
	// ErrIrreducible on functions whose control flow is not
	// reducible.
	RejectIrreducible bool
}

// Analyze computes the liveness of cfg.
func Analyze(cfg *CFG, conf Config) (*Result, error) {
	ls, err := Collect(cfg)
	if err != nil {
		return nil, err
	}
	if conf.RejectIrreducible && len(cfg.Blocks) > 0 && !graph.Reducible(cfg, 0) {
		return nil, errors.Wrap(ErrIrreducible, cfg.Name)
	}
	return Solve(cfg, ls, conf.Order), nil
}

// AnalyzeFunc indexes fn and computes its liveness. It returns nil,
// nil if fn is a declaration.
func AnalyzeFunc(fn ir.Function, conf Config) (*Result, error) {
	if fn.IsDeclaration() {
		return nil, nil
	}
	cfg, err := Index(fn)
	if err != nil {
		return nil, err
	}
	return Analyze(cfg, conf)
}

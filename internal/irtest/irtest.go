// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package irtest generates random functions for property tests.
package irtest

import (
	"fmt"

	"github.com/aclements/ssalive/ir"
	"pgregory.net/rapid"
)

// Shape bounds the functions generated by Func.
type Shape struct {
	MaxBlocks int
	MaxArgs   int
	MaxInsts  int // per block

	// Acyclic restricts edges to point to later blocks.
	Acyclic bool
}

// DefaultShape is a small but interesting Shape.
var DefaultShape = Shape{MaxBlocks: 8, MaxArgs: 3, MaxInsts: 4}

// Func draws a random well-formed function called name. Blocks have
// up to two successors (possibly the same block twice). φs may take
// any value in the function as an operand, while ordinary
// instructions read only values created before them. The result is
// not necessarily in strict SSA form (definitions need not dominate
// uses), which liveness doesn't depend on.
func Func(t *rapid.T, name string, shape Shape) *ir.Func {
	nargs := rapid.IntRange(0, shape.MaxArgs).Draw(t, name+"/args")
	params := make([]string, nargs)
	for i := range params {
		params[i] = fmt.Sprintf("a%d", i)
	}
	f := ir.NewFunc(name, params...)

	nblocks := rapid.IntRange(1, shape.MaxBlocks).Draw(t, name+"/blocks")
	blocks := make([]*ir.BasicBlock, nblocks)
	for i := range blocks {
		blocks[i] = f.NewBlock(fmt.Sprintf("b%d", i))
	}
	for i, b := range blocks {
		lo := 0
		if shape.Acyclic {
			lo = i + 1
		}
		if lo >= nblocks {
			continue
		}
		nsucc := rapid.IntRange(0, 2).Draw(t, fmt.Sprintf("%s/b%d/succs", name, i))
		for s := 0; s < nsucc; s++ {
			b.Jump(blocks[rapid.IntRange(lo, nblocks-1).Draw(t, fmt.Sprintf("%s/b%d/succ%d", name, i, s))])
		}
	}

	var pool []ir.Value
	for i := 0; i < nargs; i++ {
		pool = append(pool, f.Param(i))
	}
	pool = append(pool, ir.NewConst("0"))
	pick := func(vals []ir.Value, label string) ir.Value {
		return vals[rapid.IntRange(0, len(vals)-1).Draw(t, label)]
	}

	// φ operands are filled in once every value exists, so they
	// can flow around back edges.
	type pendingPhi struct {
		phi   *ir.Inst
		preds []ir.Block
		label string
	}
	var phis []pendingPhi

	nv := 0
	for i, b := range blocks {
		label := fmt.Sprintf("%s/b%d", name, i)
		preds := b.Preds()
		if len(preds) > 0 {
			nphi := rapid.IntRange(0, 2).Draw(t, label+"/phis")
			for p := 0; p < nphi; p++ {
				phi := b.Phi(fmt.Sprintf("v%d", nv))
				phis = append(phis, pendingPhi{phi, preds, fmt.Sprintf("%s/phi%d", label, p)})
				pool = append(pool, phi)
				nv++
			}
		}
		ninsts := rapid.IntRange(0, shape.MaxInsts).Draw(t, label+"/insts")
		for k := 0; k < ninsts; k++ {
			nops := rapid.IntRange(0, 2).Draw(t, fmt.Sprintf("%s/i%d/ops", label, k))
			ops := make([]ir.Value, nops)
			for o := range ops {
				ops[o] = pick(pool, fmt.Sprintf("%s/i%d/op%d", label, k, o))
			}
			if rapid.Bool().Draw(t, fmt.Sprintf("%s/i%d/void", label, k)) {
				b.Void(fmt.Sprintf("s%d", nv), ops...)
			} else {
				pool = append(pool, b.Op(fmt.Sprintf("v%d", nv), ops...))
			}
			nv++
		}
	}
	for _, p := range phis {
		for k, pred := range p.preds {
			p.phi.AddIncoming(pred.(*ir.BasicBlock), pick(pool, fmt.Sprintf("%s/in%d", p.label, k)))
		}
	}
	return f
}

// Module draws a module of up to maxFuncs functions, some of which may
// be declarations.
func Module(t *rapid.T, maxFuncs int, shape Shape) ir.Module {
	n := rapid.IntRange(0, maxFuncs).Draw(t, "funcs")
	mod := make(ir.Module, n)
	for i := range mod {
		name := fmt.Sprintf("f%d", i)
		if rapid.IntRange(0, 4).Draw(t, name+"/decl") == 0 {
			mod[i] = ir.Declare(name)
		} else {
			mod[i] = Func(t, name, shape)
		}
	}
	return mod
}

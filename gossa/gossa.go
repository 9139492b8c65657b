// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gossa presents Go programs in SSA form, as built by
// golang.org/x/tools/go/ssa, as an ir.Module.
package gossa

import (
	"fmt"
	"go/types"

	"github.com/aclements/ssalive/ir"
	"golang.org/x/tools/go/ssa"
)

// Func wraps fn as an ir.Function.
//
// Parameters and free variables are arguments. Values computed by
// instructions are instruction results. Everything else (constants,
// globals, functions and builtins) is untracked. An instruction whose
// result is an empty tuple, such as a call to a function with no
// results, has no result.
func Func(fn *ssa.Function) ir.Function {
	f := &function{fn: fn}
	f.blocks = make([]*block, len(fn.Blocks))
	for i, b := range fn.Blocks {
		f.blocks[i] = &block{b: b, fn: f}
	}
	return f
}

type function struct {
	fn     *ssa.Function
	blocks []*block
}

func (f *function) Name() string        { return f.fn.String() }
func (f *function) IsDeclaration() bool { return len(f.fn.Blocks) == 0 }

func (f *function) Blocks() []ir.Block {
	out := make([]ir.Block, len(f.blocks))
	for i, b := range f.blocks {
		out[i] = b
	}
	return out
}

type block struct {
	b  *ssa.BasicBlock
	fn *function
}

func (b *block) String() string {
	return fmt.Sprintf("%d.%s", b.b.Index, b.b.Comment)
}

func (b *block) Instrs() []ir.Instr {
	out := make([]ir.Instr, len(b.b.Instrs))
	for i, in := range b.b.Instrs {
		out[i] = &instr{in: in, fn: b.fn}
	}
	return out
}

func (b *block) Preds() []ir.Block { return b.fn.wrap(b.b.Preds) }
func (b *block) Succs() []ir.Block { return b.fn.wrap(b.b.Succs) }

// wrap maps SSA blocks to their wrappers. A block that isn't part of
// f gets a fresh wrapper, which indexing will reject.
func (f *function) wrap(bbs []*ssa.BasicBlock) []ir.Block {
	out := make([]ir.Block, len(bbs))
	for i, bb := range bbs {
		out[i] = f.lookup(bb)
	}
	return out
}

func (f *function) lookup(bb *ssa.BasicBlock) *block {
	if bb.Index >= 0 && bb.Index < len(f.blocks) && f.blocks[bb.Index].b == bb {
		return f.blocks[bb.Index]
	}
	return &block{b: bb, fn: f}
}

type instr struct {
	in ssa.Instruction
	fn *function
}

func (i *instr) IsPhi() bool {
	_, ok := i.in.(*ssa.Phi)
	return ok
}

func (i *instr) Incoming() []ir.Incoming {
	phi, ok := i.in.(*ssa.Phi)
	if !ok {
		return nil
	}
	// Edges[k] flows in from the k'th predecessor.
	preds := phi.Block().Preds
	out := make([]ir.Incoming, len(phi.Edges))
	for k, v := range phi.Edges {
		var from ir.Block
		if k < len(preds) {
			from = i.fn.lookup(preds[k])
		}
		out[k] = ir.Incoming{Block: from, Value: wrapValue(v)}
	}
	return out
}

func (i *instr) Operands() []ir.Value {
	if i.IsPhi() {
		return nil
	}
	rands := i.in.Operands(nil)
	out := make([]ir.Value, len(rands))
	for k, rand := range rands {
		if rand != nil {
			out[k] = wrapValue(*rand)
		}
	}
	return out
}

func (i *instr) Result() ir.Value {
	v, ok := i.in.(ssa.Value)
	if !ok {
		return nil
	}
	if t, ok := v.Type().(*types.Tuple); ok && t.Len() == 0 {
		return nil
	}
	return value{v}
}

func (i *instr) String() string { return i.in.String() }

// value wraps an ssa.Value. Two wrappers of the same SSA value are
// equal.
type value struct {
	v ssa.Value
}

func wrapValue(v ssa.Value) ir.Value {
	if v == nil {
		return nil
	}
	return value{v}
}

func (v value) Kind() ir.Kind {
	switch v.v.(type) {
	case *ssa.Parameter, *ssa.FreeVar:
		return ir.KindArg
	case ssa.Instruction:
		return ir.KindInst
	}
	return ir.KindOther
}

func (v value) String() string { return v.v.Name() }

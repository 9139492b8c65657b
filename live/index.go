// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package live

import "github.com/aclements/ssalive/ir"

// A CFG is a Function with every block and every tracked value
// replaced by a small, dense integer handle. Handles are only
// meaningful within one CFG.
//
// CFG satisfies graph.BiGraph, with block handles as nodes.
type CFG struct {
	Name string

	// Blocks maps block handles to blocks. Blocks[0] is the
	// entry block.
	Blocks []ir.Block

	// Values maps value handles to tracked values.
	Values []ir.Value

	// Insts is the instruction sequence of each block.
	Insts [][]Inst

	// Untracked is the number of operands that were excluded
	// from tracking because they are not instruction results or
	// arguments.
	Untracked int

	succs, preds [][]int
	blockIDs     map[ir.Block]int
}

// Inst is an indexed instruction.
type Inst struct {
	Phi bool

	// Result is the handle of the value this instruction
	// defines, or -1.
	Result int

	// Args are the handles of the values this instruction reads.
	// Untracked operands are -1.
	Args []int

	// From gives, for a φ, the block handle each of Args arrives
	// from.
	From []int
}

// Index assigns handles to the blocks and tracked values of fn and
// returns the resulting CFG. fn must not be a declaration.
func Index(fn ir.Function) (*CFG, error) {
	blocks := fn.Blocks()
	cfg := &CFG{
		Name:     fn.Name(),
		Blocks:   blocks,
		Insts:    make([][]Inst, len(blocks)),
		succs:    make([][]int, len(blocks)),
		preds:    make([][]int, len(blocks)),
		blockIDs: make(map[ir.Block]int, len(blocks)),
	}
	for i, b := range blocks {
		cfg.blockIDs[b] = i
	}

	valueIDs := make(map[ir.Value]int)
	value := func(v ir.Value) int {
		if !v.Kind().Tracked() {
			cfg.Untracked++
			return -1
		}
		id, ok := valueIDs[v]
		if !ok {
			id = len(cfg.Values)
			valueIDs[v] = id
			cfg.Values = append(cfg.Values, v)
		}
		return id
	}
	block := func(from int, b ir.Block, what string) (int, error) {
		id, ok := cfg.blockIDs[b]
		if !ok {
			name := "<nil>"
			if b != nil {
				name = b.String()
			}
			return 0, &StructuralError{cfg.Name, blocks[from].String(), -1, what + " " + name + " is not in this function"}
		}
		return id, nil
	}

	for bi, b := range blocks {
		for _, s := range b.Succs() {
			id, err := block(bi, s, "successor")
			if err != nil {
				return nil, err
			}
			cfg.succs[bi] = append(cfg.succs[bi], id)
		}
		for _, p := range b.Preds() {
			id, err := block(bi, p, "predecessor")
			if err != nil {
				return nil, err
			}
			cfg.preds[bi] = append(cfg.preds[bi], id)
		}

		instrs := b.Instrs()
		insts := make([]Inst, len(instrs))
		for ii, instr := range instrs {
			inst := &insts[ii]
			inst.Result = -1
			if instr.IsPhi() {
				inst.Phi = true
				for _, in := range instr.Incoming() {
					from, err := block(bi, in.Block, "φ incoming block")
					if err != nil {
						return nil, err
					}
					arg := -1
					if in.Value != nil {
						arg = value(in.Value)
					}
					inst.Args = append(inst.Args, arg)
					inst.From = append(inst.From, from)
				}
			} else {
				for _, v := range instr.Operands() {
					if v != nil {
						inst.Args = append(inst.Args, value(v))
					}
				}
			}
			if r := instr.Result(); r != nil && r.Kind().Tracked() {
				inst.Result = value(r)
			}
		}
		cfg.Insts[bi] = insts
	}
	return cfg, nil
}

// BlockID returns the handle of b.
func (c *CFG) BlockID(b ir.Block) (int, bool) {
	id, ok := c.blockIDs[b]
	return id, ok
}

func (c *CFG) NumNodes() int   { return len(c.Blocks) }
func (c *CFG) Out(b int) []int { return c.succs[b] }
func (c *CFG) In(b int) []int  { return c.preds[b] }

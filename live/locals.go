// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package live

import "github.com/bits-and-blooms/bitset"

// Locals holds the block-local sets that drive liveness. Each slice
// is indexed by block handle and each set by value handle.
type Locals struct {
	// Def is the set of values defined by non-φ instructions in
	// each block.
	Def []*bitset.BitSet

	// Use is the set of upward-exposed uses of each block: values
	// read by a non-φ instruction before any definition in the
	// block.
	Use []*bitset.BitSet

	// PhiDef is the set of values defined by the φs at the entry
	// of each block.
	PhiDef []*bitset.BitSet

	// PhiUse is the set of values read by φs in a successor of
	// each block, along the edge from that block.
	PhiUse []*bitset.BitSet

	// ParallelEdges is the number of (predecessor, successor)
	// block pairs joined by more than one edge. A φ's operand for
	// such a pair is live out of the predecessor regardless of
	// which edge is taken.
	ParallelEdges int
}

func newSets(n int, size uint) []*bitset.BitSet {
	sets := make([]*bitset.BitSet, n)
	for i := range sets {
		sets[i] = bitset.New(size)
	}
	return sets
}

// Collect computes the local sets of every block in cfg.
//
// It returns a *StructuralError if a φ follows a non-φ instruction
// or names an incoming block that is not a predecessor.
func Collect(cfg *CFG) (*Locals, error) {
	n, size := len(cfg.Blocks), uint(len(cfg.Values))
	ls := &Locals{
		Def:    newSets(n, size),
		Use:    newSets(n, size),
		PhiDef: newSets(n, size),
		PhiUse: newSets(n, size),
	}

	for b, insts := range cfg.Insts {
		def, use := ls.Def[b], ls.Use[b]

		i := 0
		for ; i < len(insts) && insts[i].Phi; i++ {
			phi := &insts[i]
			if phi.Result >= 0 {
				ls.PhiDef[b].Set(uint(phi.Result))
			}
			for k, v := range phi.Args {
				from := phi.From[k]
				if !isPred(cfg, from, b) {
					return nil, &StructuralError{cfg.Name, cfg.Blocks[b].String(), i, "φ incoming block " + cfg.Blocks[from].String() + " is not a predecessor"}
				}
				if v >= 0 {
					// The value flows along the edge,
					// so it's live out of the
					// predecessor, not live in here.
					ls.PhiUse[from].Set(uint(v))
				}
			}
		}

		for ; i < len(insts); i++ {
			inst := &insts[i]
			if inst.Phi {
				return nil, &StructuralError{cfg.Name, cfg.Blocks[b].String(), i, "phi after non-phi instruction"}
			}
			for _, v := range inst.Args {
				if v >= 0 && !def.Test(uint(v)) {
					use.Set(uint(v))
				}
			}
			if inst.Result >= 0 {
				def.Set(uint(inst.Result))
			}
		}

		ls.ParallelEdges += parallelEdges(cfg.succs[b])
	}
	return ls, nil
}

func isPred(cfg *CFG, p, b int) bool {
	for _, q := range cfg.preds[b] {
		if q == p {
			return true
		}
	}
	return false
}

// parallelEdges returns the number of distinct targets that appear
// more than once in succs.
func parallelEdges(succs []int) int {
	n := 0
	for i, s := range succs {
		first, count := true, 0
		for j, t := range succs {
			if t == s {
				if j < i {
					first = false
				}
				count++
			}
		}
		if first && count > 1 {
			n++
		}
	}
	return n
}

// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package live

import "github.com/bits-and-blooms/bitset"

// Stats describes the work done by one solve.
type Stats struct {
	// Visits is the total number of blocks taken off the
	// worklist.
	Visits int

	// BlockVisits is the number of visits of each block.
	BlockVisits []int
}

// Solve computes the live-in and live-out sets of every block of cfg
// from its local sets ls, starting with every set empty. This is the
// least solution of
//
//	Out(B) = PhiUse(B) ∪ ⋃_{S ∈ succ(B)} (In(S) \ PhiDef(S))
//	In(B)  = PhiDef(B) ∪ Use(B) ∪ (Out(B) \ Def(B))
func Solve(cfg *CFG, ls *Locals, order Order) *Result {
	size := uint(len(cfg.Values))
	res := newResult(cfg, ls)
	res.In = newSets(len(cfg.Blocks), size)
	res.Out = newSets(len(cfg.Blocks), size)
	solve(res, order)
	return res
}

// SolveFrom is like Solve, but starts from copies of the given
// live-in and live-out sets rather than empty sets. If in and out are
// below the least solution, the result is the same as Solve's.
func SolveFrom(cfg *CFG, ls *Locals, order Order, in, out []*bitset.BitSet) *Result {
	res := newResult(cfg, ls)
	res.In = make([]*bitset.BitSet, len(in))
	res.Out = make([]*bitset.BitSet, len(out))
	for i := range in {
		res.In[i], res.Out[i] = in[i].Clone(), out[i].Clone()
	}
	solve(res, order)
	return res
}

func newResult(cfg *CFG, ls *Locals) *Result {
	return &Result{
		CFG:    cfg,
		Locals: ls,
		Stats:  Stats{BlockVisits: make([]int, len(cfg.Blocks))},
	}
}

func solve(res *Result, order Order) {
	cfg, ls := res.CFG, res.Locals
	size := uint(len(cfg.Values))

	wl := newWorklist(len(cfg.Blocks))
	for _, b := range order.Blocks(cfg) {
		wl.push(b)
	}

	// New sets are built in scratch space and swapped in only if
	// they differ from the current ones.
	out, in, tmp := bitset.New(size), bitset.New(size), bitset.New(size)
	for !wl.empty() {
		b := wl.pop()
		res.Stats.Visits++
		res.Stats.BlockVisits[b]++

		out.ClearAll()
		out.InPlaceUnion(ls.PhiUse[b])
		for _, s := range cfg.succs[b] {
			tmp.ClearAll()
			tmp.InPlaceUnion(res.In[s])
			tmp.InPlaceDifference(ls.PhiDef[s])
			out.InPlaceUnion(tmp)
		}
		changed := false
		if !out.Equal(res.Out[b]) {
			res.Out[b], out = out, res.Out[b]
			changed = true
		}

		in.ClearAll()
		in.InPlaceUnion(res.Out[b])
		in.InPlaceDifference(ls.Def[b])
		in.InPlaceUnion(ls.Use[b])
		in.InPlaceUnion(ls.PhiDef[b])
		if !in.Equal(res.In[b]) {
			res.In[b], in = in, res.In[b]
			changed = true
		}

		if changed {
			for _, p := range cfg.preds[b] {
				wl.push(p)
			}
		}
	}
}

// worklist is a FIFO queue of block handles in which each block
// appears at most once.
type worklist struct {
	queue   []int
	head    int
	pending *bitset.BitSet
}

func newWorklist(n int) *worklist {
	return &worklist{queue: make([]int, 0, n), pending: bitset.New(uint(n))}
}

func (w *worklist) empty() bool {
	return w.head == len(w.queue)
}

func (w *worklist) push(b int) {
	if w.pending.Test(uint(b)) {
		return
	}
	w.pending.Set(uint(b))
	if w.head == len(w.queue) {
		w.queue, w.head = w.queue[:0], 0
	}
	w.queue = append(w.queue, b)
}

func (w *worklist) pop() int {
	b := w.queue[w.head]
	w.head++
	w.pending.Clear(uint(b))
	return b
}

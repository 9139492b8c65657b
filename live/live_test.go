// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package live

import (
	"testing"

	"github.com/aclements/ssalive/ir"
	"github.com/bits-and-blooms/bitset"
	"gotest.tools/v3/assert"
)

// names returns the string forms of vals.
func names(vals []ir.Value) []string {
	out := []string{}
	for _, v := range vals {
		out = append(out, v.String())
	}
	return out
}

// setNames returns the string forms of the values in s.
func setNames(cfg *CFG, s *bitset.BitSet) []string {
	out := []string{}
	for i, ok := s.NextSet(0); ok; i, ok = s.NextSet(i + 1) {
		out = append(out, cfg.Values[i].String())
	}
	return out
}

func analyze(t *testing.T, f *ir.Func, order Order) *Result {
	t.Helper()
	res, err := AnalyzeFunc(f, Config{Order: order})
	assert.NilError(t, err)
	assert.NilError(t, res.Verify())
	return res
}

// singleBlock is
//
//	entry: d1 = use x; d2 = d1 + 1; ret d2
func singleBlock() (*ir.Func, *ir.BasicBlock) {
	f := ir.NewFunc("single", "x")
	entry := f.NewBlock("entry")
	d1 := entry.Op("d1", f.Param(0))
	d2 := entry.Op("d2", d1, ir.NewConst("1"))
	entry.Void("ret", d2)
	return f, entry
}

// merge is a diamond whose join selects between values defined on
// each arm.
func merge() (f *ir.Func, entry, a, b, m *ir.BasicBlock) {
	f = ir.NewFunc("merge", "x")
	x := f.Param(0)
	entry, a, b, m = f.NewBlock("entry"), f.NewBlock("a"), f.NewBlock("b"), f.NewBlock("m")
	entry.Jump(a, b)
	a.Jump(m)
	b.Jump(m)

	entry.Void("br", x)
	va := a.Op("va", x)
	vb := b.Op("vb", x)
	p := m.Phi("p", ir.From(a, va), ir.From(b, vb))
	m.Void("ret", p)
	return
}

// loop is
//
//	pre:   v0 = op x
//	h:     p = φ[(pre, v0), (latch, v1)]; c = op p, 10; br c
//	latch: v1 = op p, x
//	exit:  ret p
func loop() (f *ir.Func, pre, h, latch, exit *ir.BasicBlock) {
	f = ir.NewFunc("loop", "x")
	x := f.Param(0)
	pre, h, latch, exit = f.NewBlock("pre"), f.NewBlock("h"), f.NewBlock("latch"), f.NewBlock("exit")
	pre.Jump(h)
	h.Jump(latch, exit)
	latch.Jump(h)

	v0 := pre.Op("v0", x)
	p := h.Phi("p", ir.From(pre, v0))
	c := h.Op("c", p, ir.NewConst("10"))
	h.Void("br", c)
	v1 := latch.Op("v1", p, x)
	p.AddIncoming(latch, v1)
	exit.Void("ret", p)
	return
}

func TestSingleBlock(t *testing.T) {
	f, entry := singleBlock()
	res := analyze(t, f, OrderBackward)
	assert.DeepEqual(t, names(res.LiveIn(entry)), []string{"%x"})
	assert.DeepEqual(t, names(res.LiveOut(entry)), []string{})
	assert.Equal(t, res.CFG.Untracked, 1)
	assert.Equal(t, res.Stats.Visits, 1)
}

func TestMerge(t *testing.T) {
	f, entry, a, b, m := merge()
	res := analyze(t, f, OrderBackward)
	cfg, ls := res.CFG, res.Locals

	id := func(blk *ir.BasicBlock) int {
		i, ok := cfg.BlockID(blk)
		assert.Assert(t, ok)
		return i
	}
	assert.DeepEqual(t, setNames(cfg, ls.PhiUse[id(a)]), []string{"%va"})
	assert.DeepEqual(t, setNames(cfg, ls.PhiUse[id(b)]), []string{"%vb"})
	assert.DeepEqual(t, setNames(cfg, ls.PhiUse[id(m)]), []string{})
	assert.DeepEqual(t, setNames(cfg, ls.PhiDef[id(m)]), []string{"%p"})

	for _, test := range []struct {
		blk     *ir.BasicBlock
		in, out []string
	}{
		{entry, []string{"%x"}, []string{"%x"}},
		{a, []string{"%x"}, []string{"%va"}},
		{b, []string{"%x"}, []string{"%vb"}},
		{m, []string{"%p"}, []string{}},
	} {
		assert.DeepEqual(t, names(res.LiveIn(test.blk)), test.in)
		assert.DeepEqual(t, names(res.LiveOut(test.blk)), test.out)
	}

	// The diamond is acyclic, so no block is revisited.
	assert.DeepEqual(t, res.Stats.BlockVisits, []int{1, 1, 1, 1})
}

func TestLoop(t *testing.T) {
	f, pre, h, latch, exit := loop()
	for _, order := range []Order{OrderBackward, OrderForward, OrderProgram} {
		res := analyze(t, f, order)
		for _, test := range []struct {
			blk     *ir.BasicBlock
			in, out []string
		}{
			{pre, []string{"%x"}, []string{"%x", "%v0"}},
			{h, []string{"%x", "%p"}, []string{"%x", "%p"}},
			{latch, []string{"%x", "%p"}, []string{"%x", "%v1"}},
			{exit, []string{"%p"}, []string{}},
		} {
			assert.DeepEqual(t, names(res.LiveIn(test.blk)), test.in)
			assert.DeepEqual(t, names(res.LiveOut(test.blk)), test.out)
		}

		hID, _ := res.CFG.BlockID(h)
		latchID, _ := res.CFG.BlockID(latch)
		assert.Assert(t, res.Stats.BlockVisits[hID] >= 2, "order %v: header visited %d times", order, res.Stats.BlockVisits[hID])
		assert.Assert(t, res.Stats.BlockVisits[latchID] >= 2, "order %v: latch visited %d times", order, res.Stats.BlockVisits[latchID])
		if order == OrderBackward {
			assert.DeepEqual(t, res.Stats.BlockVisits, []int{1, 2, 2, 1})
			assert.Equal(t, res.Stats.Visits, 6)
		}
	}
}

func TestUnreachable(t *testing.T) {
	f := ir.NewFunc("dead", "x")
	entry, dead := f.NewBlock("entry"), f.NewBlock("dead")
	entry.Void("ret")
	dead.Void("use", f.Param(0))
	for _, order := range []Order{OrderBackward, OrderForward, OrderProgram} {
		res := analyze(t, f, order)
		assert.DeepEqual(t, names(res.LiveIn(dead)), []string{"%x"})
		assert.DeepEqual(t, names(res.LiveIn(entry)), []string{})
	}
}

func TestParallelEdges(t *testing.T) {
	f := ir.NewFunc("parallel")
	entry, b := f.NewBlock("entry"), f.NewBlock("b")
	u := entry.Op("u")
	w := entry.Op("w")
	entry.Void("br", u)
	entry.Jump(b, b)
	p := b.Phi("p", ir.From(entry, u), ir.From(entry, w))
	b.Void("ret", p)

	res := analyze(t, f, OrderBackward)
	assert.Equal(t, res.Locals.ParallelEdges, 1)
	assert.DeepEqual(t, names(res.LiveOut(entry)), []string{"%u", "%w"})
	assert.DeepEqual(t, names(res.LiveIn(b)), []string{"%p"})
}

func TestDeclaration(t *testing.T) {
	res, err := AnalyzeFunc(ir.Declare("ext"), Config{})
	assert.NilError(t, err)
	assert.Assert(t, res == nil)
}

func TestEmptyFunc(t *testing.T) {
	res, err := AnalyzeFunc(ir.NewFunc("empty"), Config{RejectIrreducible: true})
	assert.NilError(t, err)
	assert.Equal(t, len(res.In), 0)
	assert.NilError(t, res.Verify())
}

func TestParseOrder(t *testing.T) {
	for _, o := range []Order{OrderBackward, OrderForward, OrderProgram} {
		got, err := ParseOrder(o.String())
		assert.NilError(t, err)
		assert.Equal(t, got, o)
	}
	_, err := ParseOrder("sideways")
	assert.ErrorContains(t, err, "sideways")
}

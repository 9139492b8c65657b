// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package live

import (
	"testing"

	"github.com/aclements/ssalive/ir"
	"github.com/pkg/errors"
	"gotest.tools/v3/assert"
)

func TestCollect(t *testing.T) {
	// x is read before t's definition and again after, while t
	// is only read after its definition.
	f := ir.NewFunc("collect", "x", "y")
	x, y := f.Param(0), f.Param(1)
	b := f.NewBlock("entry")
	t1 := b.Op("t", x, ir.NewConst("4"))
	u := b.Op("u", t1, x)
	b.Void("store", u, y)

	cfg, err := Index(f)
	assert.NilError(t, err)
	ls, err := Collect(cfg)
	assert.NilError(t, err)

	assert.DeepEqual(t, setNames(cfg, ls.Use[0]), []string{"%x", "%y"})
	assert.DeepEqual(t, setNames(cfg, ls.Def[0]), []string{"%t", "%u"})
	assert.DeepEqual(t, setNames(cfg, ls.PhiDef[0]), []string{})
	assert.DeepEqual(t, setNames(cfg, ls.PhiUse[0]), []string{})
	assert.Equal(t, cfg.Untracked, 1)
}

func TestCollectPhiOperands(t *testing.T) {
	// Constant φ operands are not tracked, and arguments are.
	f := ir.NewFunc("phis", "x")
	entry, other, join := f.NewBlock("entry"), f.NewBlock("other"), f.NewBlock("join")
	entry.Jump(other, join)
	other.Jump(join)
	entry.Void("br", f.Param(0))
	p := join.Phi("p", ir.From(entry, ir.NewConst("0")), ir.From(other, f.Param(0)))
	join.Void("ret", p)

	cfg, err := Index(f)
	assert.NilError(t, err)
	ls, err := Collect(cfg)
	assert.NilError(t, err)
	assert.DeepEqual(t, setNames(cfg, ls.PhiUse[0]), []string{})
	assert.DeepEqual(t, setNames(cfg, ls.PhiUse[1]), []string{"%x"})
	assert.DeepEqual(t, setNames(cfg, ls.PhiDef[2]), []string{"%p"})
	assert.DeepEqual(t, setNames(cfg, ls.Use[2]), []string{"%p"})
	assert.Equal(t, ls.ParallelEdges, 0)
}

func TestStructuralErrors(t *testing.T) {
	lateFn := func() *ir.Func {
		f := ir.NewFunc("late", "x")
		entry, b := f.NewBlock("entry"), f.NewBlock("b")
		entry.Jump(b)
		v := entry.Op("v", f.Param(0))
		b.Op("w", v)
		b.Phi("p", ir.From(entry, v))
		return f
	}
	strangerFn := func() *ir.Func {
		f := ir.NewFunc("stranger", "x")
		entry, a, b := f.NewBlock("entry"), f.NewBlock("a"), f.NewBlock("b")
		entry.Jump(a)
		a.Jump(b)
		b.Phi("p", ir.From(entry, f.Param(0)))
		return f
	}
	foreignFn := func() *ir.Func {
		other := ir.NewFunc("other").NewBlock("elsewhere")
		f := ir.NewFunc("foreign")
		f.NewBlock("entry").Jump(other)
		return f
	}

	for _, test := range []struct {
		f      *ir.Func
		block  string
		inst   int
		reason string
	}{
		{lateFn(), "b", 1, "phi after non-phi instruction"},
		{strangerFn(), "b", 0, "φ incoming block entry is not a predecessor"},
		{foreignFn(), "entry", -1, "successor elsewhere is not in this function"},
	} {
		_, err := AnalyzeFunc(test.f, Config{})
		var se *StructuralError
		assert.Assert(t, errors.As(err, &se), "%s: got %v", test.f.Name(), err)
		assert.Equal(t, se.Func, test.f.Name())
		assert.Equal(t, se.Block, test.block)
		assert.Equal(t, se.Inst, test.inst)
		assert.Equal(t, se.Reason, test.reason)
	}
}

func TestRejectIrreducible(t *testing.T) {
	f := ir.NewFunc("irreducible", "x")
	entry, a, b, exit := f.NewBlock("entry"), f.NewBlock("a"), f.NewBlock("b"), f.NewBlock("exit")
	entry.Jump(a, b)
	a.Jump(b)
	b.Jump(a, exit)
	entry.Void("br", f.Param(0))
	exit.Void("ret", f.Param(0))

	_, err := AnalyzeFunc(f, Config{RejectIrreducible: true})
	assert.Assert(t, errors.Is(err, ErrIrreducible), "got %v", err)
	assert.ErrorContains(t, err, "irreducible: irreducible control flow")

	res, err := AnalyzeFunc(f, Config{})
	assert.NilError(t, err)
	assert.NilError(t, res.Verify())
	assert.DeepEqual(t, names(res.LiveIn(a)), []string{"%x"})
}

// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package live

import (
	"testing"

	"github.com/aclements/ssalive/internal/irtest"
	"pgregory.net/rapid"
)

func drawCFG(t *rapid.T, shape irtest.Shape) *CFG {
	cfg, err := Index(irtest.Func(t, "f", shape))
	if err != nil {
		t.Fatalf("indexing random function: %v", err)
	}
	return cfg
}

func TestFixpointProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := drawCFG(t, irtest.DefaultShape)
		ls, err := Collect(cfg)
		if err != nil {
			t.Fatal(err)
		}

		var base *Result
		for _, order := range []Order{OrderBackward, OrderForward, OrderProgram} {
			res := Solve(cfg, ls, order)
			if err := res.Verify(); err != nil {
				t.Fatalf("order %v: %v", order, err)
			}
			for b := range cfg.Blocks {
				if !res.In[b].IsSuperSet(ls.Use[b]) {
					t.Fatalf("order %v: block %d: in set is missing upward-exposed uses", order, b)
				}
				if !res.In[b].IsSuperSet(ls.PhiDef[b]) {
					t.Fatalf("order %v: block %d: in set is missing φ definitions", order, b)
				}
				if !res.Out[b].IsSuperSet(ls.PhiUse[b]) {
					t.Fatalf("order %v: block %d: out set is missing φ uses", order, b)
				}
			}

			if base == nil {
				base = res
				continue
			}
			// The least fixpoint doesn't depend on the order.
			for b := range cfg.Blocks {
				if !res.In[b].Equal(base.In[b]) || !res.Out[b].Equal(base.Out[b]) {
					t.Fatalf("block %d: order %v disagrees with order %v", b, order, OrderBackward)
				}
			}
		}
	})
}

func TestIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := drawCFG(t, irtest.DefaultShape)
		ls, err := Collect(cfg)
		if err != nil {
			t.Fatal(err)
		}
		res := Solve(cfg, ls, OrderBackward)
		again := SolveFrom(cfg, ls, OrderBackward, res.In, res.Out)

		// Restarting from the fixpoint visits each block once
		// and changes nothing.
		if again.Stats.Visits != len(cfg.Blocks) {
			t.Fatalf("re-solve visited %d blocks, want %d", again.Stats.Visits, len(cfg.Blocks))
		}
		for b := range cfg.Blocks {
			if !again.In[b].Equal(res.In[b]) || !again.Out[b].Equal(res.Out[b]) {
				t.Fatalf("block %d changed when re-solved", b)
			}
		}
	})
}

func TestAcyclicSingleVisit(t *testing.T) {
	shape := irtest.DefaultShape
	shape.Acyclic = true
	rapid.Check(t, func(t *rapid.T) {
		cfg := drawCFG(t, shape)
		ls, err := Collect(cfg)
		if err != nil {
			t.Fatal(err)
		}
		res := Solve(cfg, ls, OrderBackward)
		for b, n := range res.Stats.BlockVisits {
			if n != 1 {
				t.Fatalf("block %d visited %d times", b, n)
			}
		}
	})
}

// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package live

import (
	"fmt"
	"io"
	"strings"

	"github.com/aclements/ssalive/ir"
	"github.com/bits-and-blooms/bitset"
)

// A Result holds the liveness of one function.
type Result struct {
	CFG    *CFG
	Locals *Locals

	// In and Out are the live-in and live-out sets of each block,
	// indexed by block handle. Each set is indexed by value
	// handle.
	In, Out []*bitset.BitSet

	Stats Stats
}

// LiveIn returns the values live on entry to b, ordered by handle.
func (r *Result) LiveIn(b ir.Block) []ir.Value {
	id, ok := r.CFG.BlockID(b)
	if !ok {
		return nil
	}
	return r.Values(r.In[id])
}

// LiveOut returns the values live on exit from b, ordered by handle.
func (r *Result) LiveOut(b ir.Block) []ir.Value {
	id, ok := r.CFG.BlockID(b)
	if !ok {
		return nil
	}
	return r.Values(r.Out[id])
}

// Values returns the values in set s, ordered by handle.
func (r *Result) Values(s *bitset.BitSet) []ir.Value {
	vals := make([]ir.Value, 0, s.Count())
	for i, ok := s.NextSet(0); ok; i, ok = s.NextSet(i + 1) {
		vals = append(vals, r.CFG.Values[i])
	}
	return vals
}

// Verify checks that r is a fixpoint of the liveness equations. It
// returns an error describing the first block that isn't.
func (r *Result) Verify() error {
	cfg, ls := r.CFG, r.Locals
	for b := range cfg.Blocks {
		out := ls.PhiUse[b].Clone()
		for _, s := range cfg.succs[b] {
			out.InPlaceUnion(r.In[s].Difference(ls.PhiDef[s]))
		}
		in := r.Out[b].Difference(ls.Def[b])
		in.InPlaceUnion(ls.Use[b])
		in.InPlaceUnion(ls.PhiDef[b])

		if !sameSet(out, r.Out[b]) {
			return fmt.Errorf("%s: block %s: out set %s, want %s", cfg.Name, cfg.Blocks[b], r.format(r.Out[b]), r.format(out))
		}
		if !sameSet(in, r.In[b]) {
			return fmt.Errorf("%s: block %s: in set %s, want %s", cfg.Name, cfg.Blocks[b], r.format(r.In[b]), r.format(in))
		}
	}
	return nil
}

func sameSet(a, b *bitset.BitSet) bool {
	return a.SymmetricDifference(b).Count() == 0
}

func (r *Result) format(s *bitset.BitSet) string {
	var names []string
	for _, v := range r.Values(s) {
		names = append(names, v.String())
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// Fprint writes the live-in and live-out sets of every block of r to
// w.
func (r *Result) Fprint(w io.Writer) error {
	cfg := r.CFG
	if _, err := fmt.Fprintf(w, "func %s\n", cfg.Name); err != nil {
		return err
	}
	for b, blk := range cfg.Blocks {
		var preds []string
		for _, p := range cfg.preds[b] {
			preds = append(preds, cfg.Blocks[p].String())
		}
		_, err := fmt.Fprintf(w, "%s <- %s\n\tin:  %s\n\tout: %s\n", blk, strings.Join(preds, " "), r.format(r.In[b]), r.format(r.Out[b]))
		if err != nil {
			return err
		}
	}
	return nil
}

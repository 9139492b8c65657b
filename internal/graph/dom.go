// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

// IDom returns the immediate dominator of each node of g. Nodes that
// don't have an immediate dominator (including root and nodes that
// are unreachable from root) are assigned -1.
func IDom(g BiGraph, root int) []int {
	// This implements the "engineered algorithm" of Cooper,
	// Harvey, and Kennedy, "A Simple, Fast Dominance Algorithm",
	// 2001.
	//
	// Unlike in Cooper, we mostly use the original node naming,
	// but "intersect" maps into the post-order node naming as
	// needed.

	po := PostOrder(g, root)

	// Compute the post-order node naming for the "intersect"
	// routine. poNum maps from node to post-order name.
	poNum := make([]int, g.NumNodes())
	for i, n := range po {
		poNum[n] = i
	}

	rpo, po := Reverse(po), nil

	idom := make([]int, g.NumNodes())
	for i := range idom {
		idom[i] = -1
	}
	idom[root] = root

	// Iterate to convergence.
	changed := true
	for changed {
		changed = false
		for _, b := range rpo {
			if b == root {
				continue
			}

			newIdom := -1
			for _, p := range g.In(b) {
				if idom[p] == -1 {
					continue
				}
				if newIdom == -1 {
					newIdom = p
					continue
				}
				newIdom = intersect(idom, poNum, p, newIdom)
			}

			if idom[b] != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}

	// Clear root's dominator, which is currently a self-loop.
	idom[root] = -1

	return idom
}

func intersect(idom, poNum []int, b1, b2 int) int {
	for b1 != b2 {
		for poNum[b1] < poNum[b2] {
			b1 = idom[b1]
		}
		for poNum[b2] < poNum[b1] {
			b2 = idom[b2]
		}
	}
	return b1
}

// Dominates reports whether a dominates b according to idom, as
// computed by IDom. Every node dominates itself.
func Dominates(idom []int, a, b int) bool {
	for ; b != -1; b = idom[b] {
		if b == a {
			return true
		}
	}
	return false
}

// Reducible reports whether the part of g reachable from root is
// reducible: removing every edge whose target dominates its source
// (the back edges) must leave an acyclic graph.
func Reducible(g BiGraph, root int) bool {
	idom := IDom(g, root)
	reach := PostOrder(g, root)

	// Count forward in-edges and peel off nodes that have none
	// left. Anything remaining sits on a cycle that isn't closed
	// by a back edge.
	indeg := make([]int, g.NumNodes())
	for _, u := range reach {
		for _, v := range g.Out(u) {
			if !Dominates(idom, v, u) {
				indeg[v]++
			}
		}
	}
	ready := []int{root}
	if indeg[root] != 0 {
		return false
	}
	done := 0
	for len(ready) > 0 {
		u := ready[len(ready)-1]
		ready = ready[:len(ready)-1]
		done++
		for _, v := range g.Out(u) {
			if Dominates(idom, v, u) {
				continue
			}
			indeg[v]--
			if indeg[v] == 0 {
				ready = append(ready, v)
			}
		}
	}
	return done == len(reach)
}

// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import "github.com/bits-and-blooms/bitset"

// walk performs a depth-first walk of g from root, calling post once
// all of a node's successors have been walked. Successors are visited
// in Out order and nodes already in visited are skipped. The walk uses
// an explicit stack so very large functions don't grow the goroutine
// stack.
func walk(g Graph, root int, visited *bitset.BitSet, post func(n int)) {
	type frame struct {
		node, next int
	}
	visited.Set(uint(root))
	stack := []frame{{root, 0}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		out := g.Out(top.node)
		if top.next < len(out) {
			succ := out[top.next]
			top.next++
			if !visited.Test(uint(succ)) {
				visited.Set(uint(succ))
				stack = append(stack, frame{succ, 0})
			}
			continue
		}
		post(top.node)
		stack = stack[:len(stack)-1]
	}
}

// PostOrder returns the nodes of g reachable from root in post-order.
func PostOrder(g Graph, root int) []int {
	out := []int{}
	walk(g, root, bitset.New(uint(g.NumNodes())), func(n int) { out = append(out, n) })
	return out
}

// PostOrderAll returns every node of g in post-order of a depth-first
// forest: first the nodes reachable from root, then those reachable
// from the lowest-numbered node not yet visited, and so on. For an
// acyclic graph, every node appears after all of its successors.
func PostOrderAll(g Graph, root int) []int {
	out := []int{}
	visited := bitset.New(uint(g.NumNodes()))
	post := func(n int) { out = append(out, n) }
	walk(g, root, visited, post)
	for n := 0; n < g.NumNodes(); n++ {
		if !visited.Test(uint(n)) {
			walk(g, n, visited, post)
		}
	}
	return out
}

// ReversePostOrder returns the nodes of g reachable from root in
// reverse post-order. For an acyclic graph, every node appears
// after all of its predecessors.
func ReversePostOrder(g Graph, root int) []int {
	return Reverse(PostOrder(g, root))
}

// Reverse reverses xs in place and returns the slice.
func Reverse(xs []int) []int {
	for i, j := 0, len(xs)-1; i < j; i, j = i+1, j-1 {
		xs[i], xs[j] = xs[j], xs[i]
	}
	return xs
}

// Complete appends to order every node of g that does not already
// appear in it, in increasing node order. It's used to extend a
// traversal from a root with the nodes that root can't reach.
func Complete(g Graph, order []int) []int {
	seen := bitset.New(uint(g.NumNodes()))
	for _, n := range order {
		seen.Set(uint(n))
	}
	for n := 0; n < g.NumNodes(); n++ {
		if !seen.Test(uint(n)) {
			order = append(order, n)
		}
	}
	return order
}

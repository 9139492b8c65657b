// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package live

import (
	"fmt"

	"github.com/aclements/ssalive/internal/graph"
)

// Order is the order in which the solver initially visits blocks.
// Any order reaches the same fixpoint; they differ in how many
// times blocks are revisited.
type Order int

const (
	// OrderBackward visits blocks in post-order of the CFG, so
	// successors come before predecessors. This is reverse
	// post-order of the reversed CFG, the natural order for a
	// backward problem: on an acyclic CFG every block is visited
	// exactly once.
	OrderBackward Order = iota

	// OrderForward visits blocks in reverse post-order of the
	// CFG, predecessors first. Unreachable blocks follow in
	// program order.
	OrderForward

	// OrderProgram visits blocks in program order.
	OrderProgram
)

var orderNames = []string{
	OrderBackward: "backward",
	OrderForward:  "forward",
	OrderProgram:  "program",
}

func (o Order) String() string {
	if o < 0 || int(o) >= len(orderNames) {
		return fmt.Sprintf("Order(%d)", int(o))
	}
	return orderNames[o]
}

// ParseOrder returns the Order called name.
func ParseOrder(name string) (Order, error) {
	for o, n := range orderNames {
		if n == name {
			return Order(o), nil
		}
	}
	return 0, fmt.Errorf("unknown block order %q", name)
}

// Blocks returns every block handle of cfg in order o. Blocks that
// can't be reached from the entry follow the reachable ones.
func (o Order) Blocks(cfg *CFG) []int {
	if len(cfg.Blocks) == 0 {
		return nil
	}
	switch o {
	case OrderBackward:
		// Unreachable blocks may still flow into each other,
		// so they get a post-order too.
		return graph.PostOrderAll(cfg, 0)
	case OrderForward:
		return graph.Complete(cfg, graph.ReversePostOrder(cfg, 0))
	}
	return graph.Complete(cfg, nil)
}

// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ir defines the view of a program in static single
// assignment form that liveness analysis consumes, along with a
// simple in-memory implementation of it.
//
// Any representation can be analyzed by implementing Function,
// Block, Instr, and Value. Blocks and Values are compared by
// identity (==), so their dynamic types must be comparable, and a
// given entity must always be represented by an equal interface
// value.
package ir

// Kind classifies a Value for liveness tracking.
type Kind uint8

const (
	// KindOther is a value that liveness does not track, such as
	// a constant, a global, or a function.
	KindOther Kind = iota

	// KindInst is the result of an instruction.
	KindInst

	// KindArg is a function argument or other value that's
	// available on entry to the function.
	KindArg
)

// Tracked reports whether values of kind k participate in liveness.
func (k Kind) Tracked() bool {
	return k == KindInst || k == KindArg
}

func (k Kind) String() string {
	switch k {
	case KindInst:
		return "inst"
	case KindArg:
		return "arg"
	}
	return "other"
}

// A Value is an SSA value: the result of an instruction, an argument,
// or an untracked operand such as a constant.
type Value interface {
	Kind() Kind
	String() string
}

// An Instr is an instruction in a Block.
type Instr interface {
	// IsPhi reports whether this is a φ-instruction. φs must
	// form a contiguous prefix of their block.
	IsPhi() bool

	// Incoming returns the (predecessor, value) pairs of a φ.
	// It's only called if IsPhi returns true.
	Incoming() []Incoming

	// Operands returns the values read by a non-φ instruction.
	// Nil entries are ignored.
	Operands() []Value

	// Result returns the value defined by this instruction, or
	// nil if it doesn't define one.
	Result() Value
}

// Incoming is one operand of a φ: the value selected when control
// arrives from Block.
type Incoming struct {
	Block Block
	Value Value
}

// A Block is a basic block.
type Block interface {
	// Instrs returns the instructions of the block in program
	// order.
	Instrs() []Instr

	Preds() []Block
	Succs() []Block

	String() string
}

// A Function is either a control-flow graph of Blocks or a
// declaration without a body.
type Function interface {
	Name() string

	// IsDeclaration reports whether this function has no body.
	// Declarations are not analyzed.
	IsDeclaration() bool

	// Blocks returns the function's blocks in program order. The
	// first block is the entry block.
	Blocks() []Block
}

// A Module is an ordered list of functions.
type Module []Function

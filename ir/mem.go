// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import "fmt"

// Func is an in-memory Function. Use NewFunc or Declare to create
// one and NewBlock to add blocks to it.
type Func struct {
	name   string
	params []*Param
	blocks []*BasicBlock
	decl   bool
}

// NewFunc returns a new function with the given name and parameter
// names.
func NewFunc(name string, params ...string) *Func {
	f := &Func{name: name}
	for _, p := range params {
		f.params = append(f.params, &Param{p})
	}
	return f
}

// Declare returns a function declaration, which has no body.
func Declare(name string) *Func {
	return &Func{name: name, decl: true}
}

// Param returns f's i'th parameter.
func (f *Func) Param(i int) *Param {
	return f.params[i]
}

func (f *Func) Name() string        { return f.name }
func (f *Func) IsDeclaration() bool { return f.decl }

func (f *Func) Blocks() []Block {
	bs := make([]Block, len(f.blocks))
	for i, b := range f.blocks {
		bs[i] = b
	}
	return bs
}

// NewBlock appends a new, empty basic block to f. The first block
// added is the entry block.
func (f *Func) NewBlock(name string) *BasicBlock {
	if f.decl {
		panic(fmt.Sprintf("adding block to declaration %s", f.name))
	}
	b := &BasicBlock{name: name}
	f.blocks = append(f.blocks, b)
	return b
}

// BasicBlock is an in-memory Block. Instructions are kept exactly in
// the order they are added.
type BasicBlock struct {
	name         string
	insts        []*Inst
	preds, succs []*BasicBlock
}

func (b *BasicBlock) String() string { return b.name }

func (b *BasicBlock) Instrs() []Instr {
	is := make([]Instr, len(b.insts))
	for i, inst := range b.insts {
		is[i] = inst
	}
	return is
}

func (b *BasicBlock) Preds() []Block { return blocks(b.preds) }
func (b *BasicBlock) Succs() []Block { return blocks(b.succs) }

func blocks(bbs []*BasicBlock) []Block {
	bs := make([]Block, len(bbs))
	for i, b := range bbs {
		bs[i] = b
	}
	return bs
}

// Jump adds control-flow edges from b to each of succs.
func (b *BasicBlock) Jump(succs ...*BasicBlock) {
	for _, s := range succs {
		b.succs = append(b.succs, s)
		s.preds = append(s.preds, b)
	}
}

// Op appends an instruction that reads args and defines a value
// called name.
func (b *BasicBlock) Op(name string, args ...Value) *Inst {
	inst := &Inst{name: name, args: args}
	b.insts = append(b.insts, inst)
	return inst
}

// Void appends an instruction that reads args and defines no value,
// such as a store or a return.
func (b *BasicBlock) Void(name string, args ...Value) *Inst {
	inst := &Inst{name: name, args: args, void: true}
	b.insts = append(b.insts, inst)
	return inst
}

// Phi appends a φ-instruction called name. Phis are appended like any
// other instruction, so a caller can construct a malformed block by
// adding a phi after a non-phi.
func (b *BasicBlock) Phi(name string, in ...Incoming) *Inst {
	inst := &Inst{name: name, phi: true, in: in}
	b.insts = append(b.insts, inst)
	return inst
}

// AddIncoming adds the φ operand v arriving from block b. This lets
// callers build a φ before the values flowing around a back edge
// exist.
func (i *Inst) AddIncoming(b *BasicBlock, v Value) {
	if !i.phi {
		panic("AddIncoming on non-φ " + i.String())
	}
	i.in = append(i.in, Incoming{b, v})
}

// From is shorthand for the φ operand Incoming{b, v}.
func From(b *BasicBlock, v Value) Incoming {
	return Incoming{b, v}
}

// Inst is an in-memory instruction. Unless it is void, an Inst is
// also the Value it defines.
type Inst struct {
	name string
	phi  bool
	void bool
	args []Value
	in   []Incoming
}

func (i *Inst) Kind() Kind     { return KindInst }
func (i *Inst) String() string { return "%" + i.name }
func (i *Inst) IsPhi() bool    { return i.phi }
func (i *Inst) Operands() []Value {
	return append([]Value(nil), i.args...)
}

func (i *Inst) Incoming() []Incoming {
	return append([]Incoming(nil), i.in...)
}

func (i *Inst) Result() Value {
	if i.void {
		return nil
	}
	return i
}

// Param is a function argument.
type Param struct {
	name string
}

func (p *Param) Kind() Kind     { return KindArg }
func (p *Param) String() string { return "%" + p.name }

// Const is an untracked operand such as a literal.
type Const struct {
	text string
}

// NewConst returns a constant operand printed as text.
func NewConst(text string) *Const {
	return &Const{text}
}

func (c *Const) Kind() Kind     { return KindOther }
func (c *Const) String() string { return c.text }

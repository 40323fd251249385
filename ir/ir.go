// Package ir implements the CFG primitives and three-address IR from
// spec.md §3/§4.C, grounded in the teacher's ir package (Symbol/Var
// shape from ir/symbols.go, per-function label/temp counters from
// ir/labels.go and ir/scopemgr.go) but reshaped from the teacher's
// linear statement list into the block-and-jump-edge CFG spec.md
// mandates.
package ir

import (
	"github.com/rnshah9/mayhem-lacc/symtab"
	"github.com/rnshah9/mayhem-lacc/types"
)

// VarKind tags a Var per spec.md §3.
type VarKind int

const (
	Direct VarKind = iota
	Deref
	Immediate
)

// ImmKind distinguishes the two constant payloads an Immediate Var can
// carry.
type ImmKind int

const (
	ImmInt ImmKind = iota
	ImmStringLabel
)

// Var is the IR value handle from spec.md §3. Direct denotes the
// storage of Sym at Offset; Deref denotes memory pointed to by Sym at
// Offset; Immediate denotes a compile-time constant.
type Var struct {
	Kind     VarKind
	Type     *types.Type
	Sym      *symtab.Symbol
	ImmKind  ImmKind
	IntValue int64
	StrLabel string
	Offset   int
	Lvalue   bool
}

func DirectVar(sym *symtab.Symbol) *Var {
	return &Var{Kind: Direct, Type: sym.Type, Sym: sym, Lvalue: true}
}

func DerefVar(sym *symtab.Symbol, t *types.Type) *Var {
	return &Var{Kind: Deref, Type: t, Sym: sym, Lvalue: true}
}

func ImmIntVar(v int64, t *types.Type) *Var {
	return &Var{Kind: Immediate, Type: t, ImmKind: ImmInt, IntValue: v}
}

func ImmStringVar(label string, t *types.Type) *Var {
	return &Var{Kind: Immediate, Type: t, ImmKind: ImmStringLabel, StrLabel: label}
}

// AtOffset returns a copy of v moved to a nested field/element at the
// given additional byte offset and type, preserving lvalue-ness (member
// access preserves lvalue-ness of the containing object, spec.md §4.D).
func (v *Var) AtOffset(off int, t *types.Type) *Var {
	clone := *v
	clone.Offset += off
	clone.Type = t
	return &clone
}

// BinOperator enumerates the binary IR opcodes from spec.md §3.
type BinOperator int

const (
	ADD BinOperator = iota
	SUB
	MUL
	DIV
	MOD
	EQ
	GE
	GT
	LOGICAL_AND
	LOGICAL_OR
	BITWISE_AND
	BITWISE_OR
	BITWISE_XOR
	SHL
	SHR
)

// Op is the tagged variant of IR operations from spec.md §3.
type Op interface{ isOp() }

type AssignOp struct{ Dst, Src *Var }
type BinOpLine struct {
	Op   BinOperator
	Dst  *Var
	A, B *Var
}
type AddrOp struct{ Dst, Src *Var }
type DerefOp struct{ Dst, Src *Var }
type CastOp struct {
	Dst, Src *Var
	To       *types.Type
}
type ParamOp struct{ Src *Var }
type CallOp struct{ Dst, Fn *Var }
type ReturnOp struct{ Src *Var }

func (AssignOp) isOp()  {}
func (BinOpLine) isOp() {}
func (AddrOp) isOp()    {}
func (DerefOp) isOp()   {}
func (CastOp) isOp()    {}
func (ParamOp) isOp()   {}
func (CallOp) isOp()    {}
func (ReturnOp) isOp()  {}

// Block is a basic block from spec.md §3. If only Jump[0] is set the
// block ends in an unconditional branch; if both are set, it ends in a
// conditional branch on Expr (false → Jump[0], true → Jump[1]); if
// neither is set the block is terminal.
type Block struct {
	Label string
	Ops   []Op
	Expr  *Var
	Jump  [2]*Block
}

func (b *Block) Emit(op Op) {
	b.Ops = append(b.Ops, op)
}

// Conditional reports whether this block ends in a two-way branch.
func (b *Block) Conditional() bool {
	return b.Jump[0] != nil && b.Jump[1] != nil
}

// Terminal reports whether this block has no successor (it must then
// end in a Return, unless it is an unreachable orphan).
func (b *Block) Terminal() bool {
	return b.Jump[0] == nil && b.Jump[1] == nil
}

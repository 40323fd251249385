package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rnshah9/mayhem-lacc/ir"
	"github.com/rnshah9/mayhem-lacc/symtab"
	"github.com/rnshah9/mayhem-lacc/types"
)

func newBuilder() (*ir.Builder, *symtab.Namespace) {
	ns := symtab.NewIdentNamespace()
	conf := types.DefaultConfig()
	return ir.NewBuilder(ns, conf), ns
}

func TestAssignRejectsNonLvalueDestination(t *testing.T) {
	bd, _ := newBuilder()
	blk := &ir.Block{}
	intT := types.NewInteger(4, false)
	rvalue := ir.ImmIntVar(1, intT)
	_, err := bd.Assign(blk, rvalue, rvalue)
	assert.Error(t, err)
}

func TestAssignConvertsSourceToDestinationType(t *testing.T) {
	bd, ns := newBuilder()
	blk := &ir.Block{}
	longT := types.NewInteger(8, false)
	intT := types.NewInteger(4, false)
	dst := ir.DirectVar(ns.Temp(longT))
	src := ir.DirectVar(ns.Temp(intT))

	result, err := bd.Assign(blk, dst, src)
	require.NoError(t, err)
	assert.False(t, result.Lvalue)
	require.Len(t, blk.Ops, 2) // cast then assign
	_, isCast := blk.Ops[0].(ir.CastOp)
	assert.True(t, isCast)
	assignOp, isAssign := blk.Ops[1].(ir.AssignOp)
	require.True(t, isAssign)
	assert.Same(t, dst, assignOp.Dst)
}

func TestPointerArithmeticScalesIntegerOperand(t *testing.T) {
	bd, ns := newBuilder()
	blk := &ir.Block{}
	elem := types.NewObject("big")
	elem.AddMember("a", types.NewInteger(4, false))
	elem.AddMember("b", types.NewInteger(8, false))
	types.AlignStructMembers(elem)
	ptrT := types.NewPointer(elem, 8)

	p := ir.DirectVar(ns.Temp(ptrT))
	idx := ir.ImmIntVar(2, types.NewInteger(4, false))

	result, err := bd.Expr(blk, ir.ADD, p, idx)
	require.NoError(t, err)
	assert.Equal(t, types.Pointer, result.Type.Kind)

	var sawScale bool
	for _, op := range blk.Ops {
		if bin, ok := op.(ir.BinOpLine); ok && bin.Op == ir.MUL {
			sawScale = true
			imm := bin.B
			assert.Equal(t, int64(elem.Size), imm.IntValue)
		}
	}
	assert.True(t, sawScale)
}

func TestPointerDifferenceYieldsLongNotPointer(t *testing.T) {
	bd, ns := newBuilder()
	blk := &ir.Block{}
	conf := types.DefaultConfig()
	ptrT := types.NewPointer(types.NewInteger(4, false), conf.PointerSize)
	a := ir.DirectVar(ns.Temp(ptrT))
	b := ir.DirectVar(ns.Temp(ptrT))

	result, err := bd.Expr(blk, ir.SUB, a, b)
	require.NoError(t, err)
	assert.Equal(t, types.Integer, result.Type.Kind)
	assert.Equal(t, conf.LongSize, result.Type.Size)
}

// Expr must fold a binary op on two Immediate operands at parse time
// rather than emitting a BinOpLine: array dimensions, enumerator values,
// and file-scope initializers all require the result to already be an
// Immediate.
func TestExprFoldsConstantOperandsWithoutEmittingAnOp(t *testing.T) {
	bd, _ := newBuilder()
	blk := &ir.Block{}
	intT := types.NewInteger(4, false)
	a := ir.ImmIntVar(2, intT)
	b := ir.ImmIntVar(3, intT)

	result, err := bd.Expr(blk, ir.MUL, a, b)
	require.NoError(t, err)
	assert.Equal(t, ir.Immediate, result.Kind)
	assert.Equal(t, int64(6), result.IntValue)
	assert.Empty(t, blk.Ops)
}

// Division by a zero constant must not fold: it falls back to a real
// BinOpLine so the back end can diagnose it as a runtime fault instead
// of the evaluator panicking at parse time.
func TestExprSkipsFoldingOnDivisionByZeroConstant(t *testing.T) {
	bd, _ := newBuilder()
	blk := &ir.Block{}
	intT := types.NewInteger(4, false)
	a := ir.ImmIntVar(4, intT)
	b := ir.ImmIntVar(0, intT)

	result, err := bd.Expr(blk, ir.DIV, a, b)
	require.NoError(t, err)
	assert.NotEqual(t, ir.Immediate, result.Kind)
	require.Len(t, blk.Ops, 1)
	_, isBinOp := blk.Ops[0].(ir.BinOpLine)
	assert.True(t, isBinOp)
}

// Casting an Immediate integer to a wider integer type must stay
// Immediate rather than spill to a temp, so a mixed-width constant
// expression (e.g. a char constant against an int constant) still folds
// all the way through Expr's common-type conversion.
func TestCastPreservesImmediateAcrossIntegerWidening(t *testing.T) {
	bd, _ := newBuilder()
	blk := &ir.Block{}
	charT := types.NewInteger(1, false)
	longT := types.NewInteger(8, false)
	v := ir.ImmIntVar(5, charT)

	result, err := bd.Cast(blk, v, longT)
	require.NoError(t, err)
	assert.Equal(t, ir.Immediate, result.Kind)
	assert.Equal(t, int64(5), result.IntValue)
	assert.Empty(t, blk.Ops)
}

func TestAddrOfNonLvalueIsRejected(t *testing.T) {
	bd, _ := newBuilder()
	blk := &ir.Block{}
	intT := types.NewInteger(4, false)
	_, err := bd.Addr(blk, ir.ImmIntVar(1, intT))
	assert.Error(t, err)
}

func TestAddrThenDerefRoundTrips(t *testing.T) {
	bd, ns := newBuilder()
	blk := &ir.Block{}
	intT := types.NewInteger(4, false)
	v := ir.DirectVar(ns.Temp(intT))

	addr, err := bd.Addr(blk, v)
	require.NoError(t, err)
	require.Equal(t, types.Pointer, addr.Type.Kind)
	assert.Equal(t, types.DefaultConfig().PointerSize, addr.Type.Size)

	deref, err := bd.Deref(blk, addr)
	require.NoError(t, err)
	assert.True(t, deref.Lvalue)
	assert.Equal(t, types.Integer, deref.Type.Kind)
}

func TestCallRequiresFunctionType(t *testing.T) {
	bd, ns := newBuilder()
	blk := &ir.Block{}
	intT := types.NewInteger(4, false)
	notAFunc := ir.DirectVar(ns.Temp(intT))
	_, err := bd.Call(blk, notAFunc)
	assert.Error(t, err)
}

func TestBlockConditionalAndTerminal(t *testing.T) {
	a := &ir.Block{}
	assert.True(t, a.Terminal())

	b := &ir.Block{}
	a.Jump[0] = b
	assert.False(t, a.Conditional())

	c := &ir.Block{}
	a.Jump[1] = c
	assert.True(t, a.Conditional())
}

func TestDeclBlockInitTracksAllBlocks(t *testing.T) {
	d := ir.CFGCreate()
	require.Len(t, d.Blocks(), 1)
	b1 := d.BlockInit()
	b2 := d.BlockInit()
	assert.Len(t, d.Blocks(), 3)
	assert.NotEqual(t, b1.Label, b2.Label)
	assert.False(t, d.Finalized())
	d.Finalize()
	assert.True(t, d.Finalized())
}

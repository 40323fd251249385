package ir

import (
	"fmt"

	"github.com/rnshah9/mayhem-lacc/symtab"
	"github.com/rnshah9/mayhem-lacc/types"
)

// Temps is the capability the evaluator needs to manufacture
// compiler-generated temporaries; *symtab.Namespace satisfies it.
type Temps interface {
	Temp(t *types.Type) *symtab.Symbol
}

// Builder is the small library of expression-lowering operations from
// spec.md §4.D: a cursor-free set of methods that take the current
// Block explicitly, plus whatever is needed to manufacture temporaries
// and apply target-specific arithmetic conversions. This is the
// "CfgBuilder value carrying the current block" spec.md §9 recommends
// in place of the teacher's (parent)→(tail) threading convention.
type Builder struct {
	Temps Temps
	Conf  *types.Config
}

func NewBuilder(temps Temps, conf *types.Config) *Builder {
	return &Builder{Temps: temps, Conf: conf}
}

func (bd *Builder) temp(t *types.Type) *Var {
	sym := bd.Temps.Temp(t)
	return DirectVar(sym)
}

// intPromote widens any integer type smaller than the target's native
// int to int, the first step of the usual arithmetic conversions.
func (bd *Builder) intPromote(t *types.Type) *types.Type {
	if t.Kind == types.Integer && t.Size < bd.Conf.IntSize {
		return types.NewInteger(bd.Conf.IntSize, false)
	}
	return t
}

// commonType implements the usual arithmetic conversions (spec.md
// §4.D): both operands are integer-promoted, then the wider/unsigned
// type wins, matching the teacher's getGreaterOrEqualType
// (typesystem/rules.go) simplified to this front end's two kinds.
func (bd *Builder) commonType(a, b *types.Type) *types.Type {
	a, b = bd.intPromote(a), bd.intPromote(b)
	if types.Equal(a, b) {
		return a
	}
	if a.Kind == types.Real || b.Kind == types.Real {
		if a.Kind == types.Real && (b.Kind != types.Real || a.Size >= b.Size) {
			return a
		}
		return b
	}
	if a.Size != b.Size {
		if a.Size > b.Size {
			return a
		}
		return b
	}
	if a.IsUnsigned {
		return a
	}
	return b
}

// Assign requires dst to be an lvalue (spec.md §4.D, enforcing the
// "Lvalue discipline" testable property at the one actual enforcement
// point named by the Open Question in spec.md §9), converts src to
// dst's type, emits Assign, and returns an rvalue equal to dst after
// the store.
func (bd *Builder) Assign(blk *Block, dst, src *Var) (*Var, error) {
	if !dst.Lvalue {
		return nil, fmt.Errorf("assignment to non-lvalue")
	}
	casted, err := bd.Cast(blk, src, dst.Type)
	if err != nil {
		return nil, err
	}
	blk.Emit(AssignOp{Dst: dst, Src: casted})
	result := *dst
	result.Lvalue = false
	blk.Expr = &result
	return &result, nil
}

// scalePointerOperand multiplies an integer operand of pointer
// arithmetic by the pointee size, per spec.md §4.D and the "pointer
// arithmetic" boundary case in spec.md §8.
func (bd *Builder) scalePointerOperand(blk *Block, v *Var, pointee *types.Type) *Var {
	if pointee.Size <= 1 {
		return v
	}
	constT := types.NewInteger(bd.Conf.LongSize, false)
	scale := ImmIntVar(int64(pointee.Size), constT)
	dst := bd.temp(v.Type)
	blk.Emit(BinOpLine{Op: MUL, Dst: dst, A: v, B: scale})
	return dst
}

// Expr applies the usual arithmetic conversions / pointer-decay rules
// to a and b, emits the appropriate BinOp into blk, and returns the
// result Var (spec.md §4.D). For ADD/SUB with one pointer operand, the
// integer operand is scaled by the pointee size first. EQ/GE/GT
// produce an int 0/1 result. LOGICAL_AND/LOGICAL_OR here are used only
// by the short-circuit lowering in the statement/expression parser to
// combine already-materialized boolean results. When both operands are
// already Immediate integers, the operation is folded at parse time
// instead of emitted (spec.md §1/§2-D name constant folding as core
// evaluator responsibility; without it, `enum { A = -1 }`, a file-scope
// `int x = 1+1;`, and an array dimension like `int a[2*3];` would all be
// fatally rejected as "not a compile-time constant").
func (bd *Builder) Expr(blk *Block, op BinOperator, a, b *Var) (*Var, error) {
	if (op == ADD || op == SUB) && (a.Type.Kind == types.Pointer || b.Type.Kind == types.Pointer) {
		return bd.pointerArith(blk, op, a, b)
	}
	common := bd.commonType(a.Type, b.Type)
	var err error
	if !types.Equal(a.Type, common) {
		if a, err = bd.Cast(blk, a, common); err != nil {
			return nil, err
		}
	}
	if !types.Equal(b.Type, common) {
		if b, err = bd.Cast(blk, b, common); err != nil {
			return nil, err
		}
	}
	resType := common
	switch op {
	case EQ, GE, GT, LOGICAL_AND, LOGICAL_OR:
		resType = types.NewInteger(bd.Conf.IntSize, false)
	}
	if folded, ok := foldImmediate(op, a, b, resType); ok {
		return folded, nil
	}
	dst := bd.temp(resType)
	blk.Emit(BinOpLine{Op: op, Dst: dst, A: a, B: b})
	blk.Expr = dst
	return dst, nil
}

// foldImmediate computes op(a, b) at parse time when both operands are
// already Immediate integers, returning ok=false (nothing folded) for
// non-integer immediates, an unsupported opcode, or a division/modulo
// by a zero constant, which is left to emit a real op so the back end
// can diagnose it as a runtime fault rather than a folding-time panic.
func foldImmediate(op BinOperator, a, b *Var, resType *types.Type) (*Var, bool) {
	if a.Kind != Immediate || b.Kind != Immediate || a.ImmKind != ImmInt || b.ImmKind != ImmInt {
		return nil, false
	}
	var result int64
	switch op {
	case ADD:
		result = a.IntValue + b.IntValue
	case SUB:
		result = a.IntValue - b.IntValue
	case MUL:
		result = a.IntValue * b.IntValue
	case DIV:
		if b.IntValue == 0 {
			return nil, false
		}
		result = a.IntValue / b.IntValue
	case MOD:
		if b.IntValue == 0 {
			return nil, false
		}
		result = a.IntValue % b.IntValue
	case BITWISE_AND:
		result = a.IntValue & b.IntValue
	case BITWISE_OR:
		result = a.IntValue | b.IntValue
	case BITWISE_XOR:
		result = a.IntValue ^ b.IntValue
	case SHL:
		result = a.IntValue << uint(b.IntValue)
	case SHR:
		result = a.IntValue >> uint(b.IntValue)
	case EQ:
		result = boolToInt(a.IntValue == b.IntValue)
	case GE:
		result = boolToInt(a.IntValue >= b.IntValue)
	case GT:
		result = boolToInt(a.IntValue > b.IntValue)
	default:
		return nil, false
	}
	return ImmIntVar(result, resType), true
}

func boolToInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

func (bd *Builder) pointerArith(blk *Block, op BinOperator, a, b *Var) (*Var, error) {
	switch {
	case a.Type.Kind == types.Pointer && b.Type.Kind != types.Pointer:
		b = bd.scalePointerOperand(blk, b, a.Type.Next)
		dst := bd.temp(a.Type)
		blk.Emit(BinOpLine{Op: op, Dst: dst, A: a, B: b})
		blk.Expr = dst
		return dst, nil
	case op == ADD && b.Type.Kind == types.Pointer && a.Type.Kind != types.Pointer:
		a = bd.scalePointerOperand(blk, a, b.Type.Next)
		dst := bd.temp(b.Type)
		blk.Emit(BinOpLine{Op: op, Dst: dst, A: a, B: b})
		blk.Expr = dst
		return dst, nil
	case op == SUB && a.Type.Kind == types.Pointer && b.Type.Kind == types.Pointer:
		resType := types.NewInteger(bd.Conf.LongSize, false)
		dst := bd.temp(resType)
		blk.Emit(BinOpLine{Op: op, Dst: dst, A: a, B: b})
		blk.Expr = dst
		return dst, nil
	}
	return nil, fmt.Errorf("invalid pointer arithmetic operands")
}

// Addr requires v to be an lvalue and returns a pointer-typed rvalue to
// its storage (spec.md §4.D).
func (bd *Builder) Addr(blk *Block, v *Var) (*Var, error) {
	if !v.Lvalue {
		return nil, fmt.Errorf("cannot take address of a non-lvalue")
	}
	dst := bd.temp(types.NewPointer(v.Type, bd.Conf.PointerSize))
	blk.Emit(AddrOp{Dst: dst, Src: v})
	dst.Lvalue = false
	blk.Expr = dst
	return dst, nil
}

// Deref requires v's type to be a pointer and returns an lvalue of the
// pointee type (spec.md §4.D).
func (bd *Builder) Deref(blk *Block, v *Var) (*Var, error) {
	if v.Type.Kind != types.Pointer {
		return nil, fmt.Errorf("cannot dereference a non-pointer")
	}
	dst := bd.temp(v.Type.Next)
	blk.Emit(DerefOp{Dst: dst, Src: v})
	dst.Lvalue = true
	blk.Expr = dst
	return dst, nil
}

// Cast converts v to t (spec.md §4.D); integer widening/narrowing
// follows C rules (the target type wins, truncation/extension is left
// to the back end). Integer↔pointer conversions are not rejected here,
// and Assign applies Cast to every source it stores, so such
// conversions also happen implicitly on assignment. An Immediate integer being
// converted to another integer type stays Immediate rather than
// spilling to a temp, so a constant expression mixing operand widths
// (e.g. a `char` constant against an `int` constant) still folds all
// the way through Expr.
func (bd *Builder) Cast(blk *Block, v *Var, t *types.Type) (*Var, error) {
	if types.Equal(v.Type, t) {
		return v, nil
	}
	if v.Kind == Immediate && v.ImmKind == ImmInt && t.Kind == types.Integer {
		return ImmIntVar(v.IntValue, t), nil
	}
	dst := bd.temp(t)
	blk.Emit(CastOp{Dst: dst, Src: v, To: t})
	dst.Lvalue = false
	blk.Expr = dst
	return dst, nil
}

// Copy materializes an rvalue snapshot of v, used by postfix ++/-- to
// preserve the pre-increment value (spec.md §4.D).
func (bd *Builder) Copy(blk *Block, v *Var) *Var {
	dst := bd.temp(v.Type)
	blk.Emit(AssignOp{Dst: dst, Src: v})
	result := *dst
	result.Lvalue = false
	blk.Expr = &result
	return &result
}

// Param records v as the next argument for the following Call (spec.md
// §4.D).
func (bd *Builder) Param(blk *Block, v *Var) {
	blk.Emit(ParamOp{Src: v})
}

// Call requires fn to be of function type, uses the parameters
// previously emitted by Param, and returns a fresh temporary of the
// return type (spec.md §4.D). A void-returning call's result Var is
// never itself consumed (spec.md §8's type-completeness exception).
func (bd *Builder) Call(blk *Block, fn *Var) (*Var, error) {
	if fn.Type.Kind != types.Function {
		return nil, fmt.Errorf("calling a non-function")
	}
	dst := bd.temp(fn.Type.Next)
	blk.Emit(CallOp{Dst: dst, Fn: fn})
	dst.Lvalue = false
	blk.Expr = dst
	return dst, nil
}

// Return terminates blk with a Return of v (v may be nil for a void
// return).
func (bd *Builder) Return(blk *Block, v *Var) {
	blk.Emit(ReturnOp{Src: v})
}

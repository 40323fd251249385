package parser

import (
	"github.com/rnshah9/mayhem-lacc/ir"
	"github.com/rnshah9/mayhem-lacc/symtab"
	"github.com/rnshah9/mayhem-lacc/token"
	"github.com/rnshah9/mayhem-lacc/types"
)

// mustExpr is a thin wrapper over Builder.Expr that turns an
// evaluator error into a fatal parse error — every call site here has
// already established its operands come from the grammar, so an error
// means an honest type mismatch the grammar itself doesn't reject
// (e.g. `1 + mystruct`).
func (p *Parser) mustExpr(op ir.BinOperator, a, b *ir.Var) *ir.Var {
	v, err := p.builder.Expr(p.cur, op, a, b)
	if err != nil {
		p.fatalf("%s", err)
	}
	return v
}

// expression parses the comma operator: a sequence of
// assignment-expressions, evaluating each for its side effects and
// yielding the last.
func (p *Parser) expression() *ir.Var {
	v := p.assignmentExpression()
	for p.lex.Peek().Kind == token.Comma {
		p.lex.Next()
		v = p.assignmentExpression()
	}
	return v
}

// assignmentExpression implements spec.md §9's Open Question: there is
// no separate assignment-expression grammar production distinguishing
// lvalue targets ahead of time; instead a conditional-expression is
// parsed first and, if '=' follows, reinterpreted as the assignment
// target (lvalue-ness itself is enforced once, inside Builder.Assign).
// Compound assignment operators (+=, -=, ...) are not part of this
// grammar (spec.md §9) and are rejected outright rather than silently
// accepted.
func (p *Parser) assignmentExpression() *ir.Var {
	left := p.conditionalExpression()
	if p.lex.Peek().Kind == token.Assign {
		p.lex.Next()
		right := p.assignmentExpression()
		result, err := p.builder.Assign(p.cur, left, right)
		if err != nil {
			p.fatalf("%s", err)
		}
		return result
	}
	switch p.lex.Peek().Kind {
	case token.PlusEq, token.MinusEq, token.StarEq, token.SlashEq, token.PercentEq,
		token.AmpEq, token.PipeEq, token.CaretEq:
		p.fatalf("compound assignment operators are not supported")
	}
	return left
}

// constantExpression requires the parsed value to already be an IR
// Immediate, used for array dimensions, enumerator values, and case
// labels.
func (p *Parser) constantExpression() *ir.Var {
	v := p.conditionalExpression()
	if v.Kind != ir.Immediate {
		p.fatalf("expression is not constant")
	}
	return v
}

// conditionalExpression: spec.md §9's Open Question resolves in favor
// of dropping the ternary `?:` production entirely, so this is just
// logical-or-expression.
func (p *Parser) conditionalExpression() *ir.Var {
	return p.logicalOrExpression()
}

func (p *Parser) logicalOrExpression() *ir.Var {
	left := p.logicalAndExpression()
	for p.lex.Peek().Kind == token.PipePipe {
		p.lex.Next()
		left = p.shortCircuit(left, ir.LOGICAL_OR, p.logicalAndExpression)
	}
	return left
}

func (p *Parser) logicalAndExpression() *ir.Var {
	left := p.inclusiveOrExpression()
	for p.lex.Peek().Kind == token.AmpAmp {
		p.lex.Next()
		left = p.shortCircuit(left, ir.LOGICAL_AND, p.inclusiveOrExpression)
	}
	return left
}

// shortCircuit lowers && and || into the boolean-temp-plus-merge-block
// shape spec.md §4.D and §8's boundary case describe: left is assigned
// into a fresh temp before branching (so on the short-circuiting path
// the temp already holds left's own, necessarily zero-or-nonzero,
// value), the branch either falls straight through to merge or detours
// through a block that evaluates the right operand into the same temp,
// and merge is where parsing continues with the temp as the result.
func (p *Parser) shortCircuit(left *ir.Var, op ir.BinOperator, parseRight func() *ir.Var) *ir.Var {
	boolT := types.NewInteger(p.conf.IntSize, false)
	res := ir.DirectVar(p.idents.Temp(boolT))
	if _, err := p.builder.Assign(p.cur, res, left); err != nil {
		p.fatalf("%s", err)
	}

	merge := p.decl.BlockInit()
	next := p.decl.BlockInit()
	if op == ir.LOGICAL_AND {
		p.cur.Jump[0] = merge
		p.cur.Jump[1] = next
	} else {
		p.cur.Jump[0] = next
		p.cur.Jump[1] = merge
	}

	p.cur = next
	right := parseRight()
	if _, err := p.builder.Assign(p.cur, res, right); err != nil {
		p.fatalf("%s", err)
	}
	p.cur.Jump[0] = merge

	p.cur = merge
	return res
}

func (p *Parser) inclusiveOrExpression() *ir.Var {
	left := p.exclusiveOrExpression()
	for p.lex.Peek().Kind == token.Pipe {
		p.lex.Next()
		left = p.mustExpr(ir.BITWISE_OR, left, p.exclusiveOrExpression())
	}
	return left
}

func (p *Parser) exclusiveOrExpression() *ir.Var {
	left := p.andExpression()
	for p.lex.Peek().Kind == token.Caret {
		p.lex.Next()
		left = p.mustExpr(ir.BITWISE_XOR, left, p.andExpression())
	}
	return left
}

func (p *Parser) andExpression() *ir.Var {
	left := p.equalityExpression()
	for p.lex.Peek().Kind == token.Amp {
		p.lex.Next()
		left = p.mustExpr(ir.BITWISE_AND, left, p.equalityExpression())
	}
	return left
}

// equalityExpression lowers `!=` as `(a == b) ^ 1`, the supplement
// spec.md §9's BinOperator enum calls for since it carries no NE
// opcode, grounded in original_source/src/parse.c's relational folding
// of the complement operators onto their positive counterparts.
func (p *Parser) equalityExpression() *ir.Var {
	left := p.relationalExpression()
	for {
		switch p.lex.Peek().Kind {
		case token.EqEq:
			p.lex.Next()
			left = p.mustExpr(ir.EQ, left, p.relationalExpression())
		case token.Ne:
			p.lex.Next()
			right := p.relationalExpression()
			eq := p.mustExpr(ir.EQ, left, right)
			one := ir.ImmIntVar(1, types.NewInteger(p.conf.IntSize, false))
			left = p.mustExpr(ir.BITWISE_XOR, eq, one)
		default:
			return left
		}
	}
}

// relationalExpression lowers `<` and `<=` by swapping operands
// through GT/GE, since the IR has no LT/LE opcode (spec.md §9).
func (p *Parser) relationalExpression() *ir.Var {
	left := p.shiftExpression()
	for {
		switch p.lex.Peek().Kind {
		case token.Gt:
			p.lex.Next()
			left = p.mustExpr(ir.GT, left, p.shiftExpression())
		case token.Ge:
			p.lex.Next()
			left = p.mustExpr(ir.GE, left, p.shiftExpression())
		case token.Lt:
			p.lex.Next()
			right := p.shiftExpression()
			left = p.mustExpr(ir.GT, right, left)
		case token.Le:
			p.lex.Next()
			right := p.shiftExpression()
			left = p.mustExpr(ir.GE, right, left)
		default:
			return left
		}
	}
}

// shiftExpression is parsed but not lowered: spec.md §9's Open
// Question resolves in favor of accepting << and >> syntactically (so
// well-formed C parses) without emitting SHL/SHR IR, since no caller in
// this front end's scope needs shifted values. The right operand is
// still fully parsed for its side effects.
func (p *Parser) shiftExpression() *ir.Var {
	left := p.additiveExpression()
	for p.lex.Peek().Kind == token.Shl || p.lex.Peek().Kind == token.Shr {
		p.lex.Next()
		p.additiveExpression()
	}
	return left
}

func (p *Parser) additiveExpression() *ir.Var {
	left := p.multiplicativeExpression()
	for {
		switch p.lex.Peek().Kind {
		case token.Plus:
			p.lex.Next()
			left = p.mustExpr(ir.ADD, left, p.multiplicativeExpression())
		case token.Minus:
			p.lex.Next()
			left = p.mustExpr(ir.SUB, left, p.multiplicativeExpression())
		default:
			return left
		}
	}
}

func (p *Parser) multiplicativeExpression() *ir.Var {
	left := p.castExpression()
	for {
		switch p.lex.Peek().Kind {
		case token.Star:
			p.lex.Next()
			left = p.mustExpr(ir.MUL, left, p.castExpression())
		case token.Slash:
			p.lex.Next()
			left = p.mustExpr(ir.DIV, left, p.castExpression())
		case token.Percent:
			p.lex.Next()
			left = p.mustExpr(ir.MOD, left, p.castExpression())
		default:
			return left
		}
	}
}

// castExpression resolves the classic `( type-name ) unary-expression`
// vs. `( expression )` ambiguity with exactly the two-token lookahead
// spec.md §4.E calls for: peek past the '(' to decide.
func (p *Parser) castExpression() *ir.Var {
	if p.lex.Peek().Kind == token.LParen && p.looksLikeTypeName(p.lex.PeekN(2)) {
		p.lex.Next()
		t := p.typeName()
		p.lex.Consume(token.RParen)
		v := p.castExpression()
		casted, err := p.builder.Cast(p.cur, v, t)
		if err != nil {
			p.fatalf("%s", err)
		}
		return casted
	}
	return p.unaryExpression()
}

func (p *Parser) unaryExpression() *ir.Var {
	switch p.lex.Peek().Kind {
	case token.PlusPlus:
		p.lex.Next()
		return p.incDec(p.unaryExpression(), true, true)
	case token.MinusMinus:
		p.lex.Next()
		return p.incDec(p.unaryExpression(), false, true)
	case token.Amp:
		p.lex.Next()
		v, err := p.builder.Addr(p.cur, p.castExpression())
		if err != nil {
			p.fatalf("%s", err)
		}
		return v
	case token.Star:
		p.lex.Next()
		v, err := p.builder.Deref(p.cur, p.decay(p.castExpression()))
		if err != nil {
			p.fatalf("%s", err)
		}
		return v
	case token.Plus:
		p.lex.Next()
		v := p.castExpression()
		rv := *v
		rv.Lvalue = false
		return &rv
	case token.Minus:
		p.lex.Next()
		v := p.castExpression()
		zero := ir.ImmIntVar(0, v.Type)
		return p.mustExpr(ir.SUB, zero, v)
	case token.Bang:
		p.lex.Next()
		v := p.castExpression()
		zero := ir.ImmIntVar(0, v.Type)
		return p.mustExpr(ir.EQ, v, zero)
	case token.Tilde:
		p.lex.Next()
		v := p.castExpression()
		allOnes := ir.ImmIntVar(-1, v.Type)
		return p.mustExpr(ir.BITWISE_XOR, v, allOnes)
	case token.KwSizeof:
		return p.sizeofExpression()
	default:
		return p.postfixExpression()
	}
}

// sizeofExpression implements sizeof as a first-class production
// (spec.md's expanded §4.E), resolving the `sizeof(type-name)` vs.
// `sizeof unary-expression` ambiguity with the same two-token lookahead
// as castExpression.
func (p *Parser) sizeofExpression() *ir.Var {
	p.lex.Next()
	var t *types.Type
	if p.lex.Peek().Kind == token.LParen && p.looksLikeTypeName(p.lex.PeekN(2)) {
		p.lex.Next()
		t = p.typeName()
		p.lex.Consume(token.RParen)
	} else {
		t = p.unaryExpression().Type
	}
	if t.Kind == types.Function {
		p.fatalf("invalid application of 'sizeof' to a function type")
	}
	if types.IsIncomplete(t) {
		p.fatalf("invalid application of 'sizeof' to an incomplete type")
	}
	return ir.ImmIntVar(int64(t.Size), types.NewInteger(p.conf.LongSize, true))
}

// incDec lowers both prefix and postfix ++/-- in terms of Expr/Assign:
// prefix stores and returns the new value, postfix snapshots and
// returns the old one.
func (p *Parser) incDec(target *ir.Var, isInc, prefix bool) *ir.Var {
	op := ir.ADD
	if !isInc {
		op = ir.SUB
	}
	one := ir.ImmIntVar(1, types.NewInteger(p.conf.IntSize, false))
	if prefix {
		newVal := p.mustExpr(op, target, one)
		result, err := p.builder.Assign(p.cur, target, newVal)
		if err != nil {
			p.fatalf("%s", err)
		}
		return result
	}
	old := p.builder.Copy(p.cur, target)
	newVal := p.mustExpr(op, target, one)
	if _, err := p.builder.Assign(p.cur, target, newVal); err != nil {
		p.fatalf("%s", err)
	}
	return old
}

func (p *Parser) postfixExpression() *ir.Var {
	v := p.primaryExpression()
	for {
		switch p.lex.Peek().Kind {
		case token.LBracket:
			p.lex.Next()
			idx := p.expression()
			p.lex.Consume(token.RBracket)
			v = p.indexInto(v, idx)
		case token.Dot:
			p.lex.Next()
			name := p.lex.Consume(token.Ident).Lexeme
			v = p.fieldAccess(v, name, false)
		case token.Arrow:
			p.lex.Next()
			name := p.lex.Consume(token.Ident).Lexeme
			v = p.fieldAccess(v, name, true)
		case token.LParen:
			p.lex.Next()
			v = p.callExpression(v)
		case token.PlusPlus:
			p.lex.Next()
			v = p.incDec(v, true, false)
		case token.MinusMinus:
			p.lex.Next()
			v = p.incDec(v, false, false)
		default:
			return v
		}
	}
}

// decay implements array-to-pointer decay: an array lvalue used where
// a pointer is expected addresses its own storage (bit-identical to
// the address of its first element), which is what AddrOp on an
// array-typed Var already computes, so decay reuses it directly
// instead of introducing a second op for the same address.
func (p *Parser) decay(v *ir.Var) *ir.Var {
	if v.Type.Kind != types.Array {
		return v
	}
	dst, err := p.builder.Addr(p.cur, v)
	if err != nil {
		p.fatalf("%s", err)
	}
	dst.Type = types.NewPointer(v.Type.Next, p.conf.PointerSize)
	return dst
}

func (p *Parser) indexInto(base, idx *ir.Var) *ir.Var {
	decayed := p.decay(base)
	sum := p.mustExpr(ir.ADD, decayed, idx)
	v, err := p.builder.Deref(p.cur, sum)
	if err != nil {
		p.fatalf("%s", err)
	}
	return v
}

func (p *Parser) fieldAccess(base *ir.Var, name string, isArrow bool) *ir.Var {
	obj := base
	if isArrow {
		d, err := p.builder.Deref(p.cur, base)
		if err != nil {
			p.fatalf("%s", err)
		}
		obj = d
	}
	if obj.Type.Kind != types.Object {
		p.fatalf("member reference on a non-struct/union type")
	}
	m, ok := obj.Type.MaybeField(name)
	if !ok {
		p.fatalf("no member named '%s'", name)
	}
	result := obj.AtOffset(m.Offset, m.Type)
	result.Lvalue = obj.Lvalue
	return result
}

func (p *Parser) callExpression(fn *ir.Var) *ir.Var {
	var args []*ir.Var
	if p.lex.Peek().Kind != token.RParen {
		for {
			args = append(args, p.assignmentExpression())
			if p.lex.Peek().Kind == token.Comma {
				p.lex.Next()
				continue
			}
			break
		}
	}
	p.lex.Consume(token.RParen)
	for _, a := range args {
		p.builder.Param(p.cur, a)
	}
	v, err := p.builder.Call(p.cur, fn)
	if err != nil {
		p.fatalf("%s", err)
	}
	return v
}

func (p *Parser) primaryExpression() *ir.Var {
	tok := p.lex.Peek()
	switch tok.Kind {
	case token.IntConst:
		p.lex.Next()
		return ir.ImmIntVar(tok.IntValue, types.NewInteger(p.conf.IntSize, false))
	case token.StringConst:
		p.lex.Next()
		label := p.intern.StringLabel(tok.StrValue)
		t := types.NewArray(types.NewInteger(p.conf.CharSize, false), len(tok.StrValue)+1)
		v := ir.ImmStringVar(label, t)
		v.Lvalue = true
		return v
	case token.Ident:
		p.lex.Next()
		if tok.Lexeme == "__func__" {
			return p.funcNameVar()
		}
		sym, ok := p.idents.Lookup(tok.Lexeme)
		if !ok {
			p.fatalf("use of undeclared identifier '%s'", tok.Lexeme)
		}
		if sym.SymType == symtab.Enum {
			return ir.ImmIntVar(sym.EnumValue, sym.Type)
		}
		return ir.DirectVar(sym)
	case token.LParen:
		p.lex.Next()
		v := p.expression()
		p.lex.Consume(token.RParen)
		return v
	default:
		p.fatalf("unexpected token '%s' in expression", tok.Kind)
		return nil
	}
}

package parser

import (
	"github.com/rnshah9/mayhem-lacc/ir"
	"github.com/rnshah9/mayhem-lacc/token"
	"github.com/rnshah9/mayhem-lacc/types"
)

// parseInitializer parses one initializer into target, emitting IR
// into blk. isConstContext requires every scalar value to already be
// an IR Immediate (file-scope and static-local initializers, spec.md
// §4.E); local non-static initializers may reference runtime values.
func (p *Parser) parseInitializer(blk *ir.Block, target *ir.Var, isConstContext bool) {
	if p.lex.Peek().Kind == token.LBrace {
		p.parseBracedInitializer(blk, target, isConstContext)
		return
	}

	// A char array initialized directly by a string literal is a
	// special case (spec.md's expanded §4.E): the string's bytes
	// (plus the implicit NUL) become the array's elements, and an
	// incomplete array dimension is completed from the string's
	// length rather than from a brace-enclosed element count.
	if target.Type.Kind == types.Array && target.Type.Next != nil &&
		target.Type.Next.Kind == types.Integer && target.Type.Next.Size == p.conf.CharSize &&
		p.lex.Peek().Kind == token.StringConst {
		tok := p.lex.Next()
		label := p.intern.StringLabel(tok.StrValue)
		strLen := len(tok.StrValue) + 1
		if types.IsIncomplete(target.Type) {
			types.Complete(target.Type, strLen)
		} else if strLen > target.Type.ArrayLength() {
			p.fatalf("initializer-string for char array is too long")
		}
		src := ir.ImmStringVar(label, types.NewArray(target.Type.Next, strLen))
		if _, err := p.builder.Assign(blk, target, src); err != nil {
			p.fatalf("%s", err)
		}
		return
	}

	saved := p.cur
	p.cur = blk
	v := p.assignmentExpression()
	p.cur = saved
	if isConstContext && v.Kind != ir.Immediate {
		p.fatalf("initializer element is not a compile-time constant")
	}
	if _, err := p.builder.Assign(blk, target, v); err != nil {
		p.fatalf("%s", err)
	}
}

// parseBracedInitializer parses a brace-enclosed initializer list for
// an array or struct/union target, recursing member-by-member /
// element-by-element into parseInitializer. A scalar wrapped in an
// extra pair of braces (`int x = {5};`) is also accepted, matching
// lacc's own tolerance of the single-brace-around-a-scalar idiom.
func (p *Parser) parseBracedInitializer(blk *ir.Block, target *ir.Var, isConstContext bool) {
	p.lex.Consume(token.LBrace)
	switch target.Type.Kind {
	case types.Array:
		elemType := target.Type.Next
		count := 0
		for p.lex.Peek().Kind != token.RBrace {
			elemTarget := target.AtOffset(count*elemType.Size, elemType)
			p.parseInitializer(blk, elemTarget, isConstContext)
			count++
			if p.lex.Peek().Kind == token.Comma {
				p.lex.Next()
				if p.lex.Peek().Kind == token.RBrace {
					break
				}
				continue
			}
			break
		}
		p.lex.Consume(token.RBrace)
		if types.IsIncomplete(target.Type) {
			types.Complete(target.Type, count)
		} else if count < target.Type.ArrayLength() {
			p.diag.Warnf("missing initializer for remaining elements of array (zero-fill not yet implemented)")
		} else if count > target.Type.ArrayLength() {
			p.fatalf("too many initializers for array")
		}
	case types.Object:
		idx := 0
		for p.lex.Peek().Kind != token.RBrace {
			if idx >= len(target.Type.Members) {
				p.fatalf("too many initializers for struct/union")
			}
			m := target.Type.Members[idx]
			memberTarget := target.AtOffset(m.Offset, m.Type)
			p.parseInitializer(blk, memberTarget, isConstContext)
			idx++
			if p.lex.Peek().Kind == token.Comma {
				p.lex.Next()
				if p.lex.Peek().Kind == token.RBrace {
					break
				}
				continue
			}
			break
		}
		p.lex.Consume(token.RBrace)
		if idx < len(target.Type.Members) {
			p.diag.Warnf("missing initializer for remaining members (zero-fill not yet implemented)")
		}
	default:
		p.parseInitializer(blk, target, isConstContext)
		if p.lex.Peek().Kind == token.Comma {
			p.lex.Next()
		}
		p.lex.Consume(token.RBrace)
	}
}

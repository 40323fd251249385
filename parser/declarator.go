package parser

import (
	"github.com/rnshah9/mayhem-lacc/symtab"
	"github.com/rnshah9/mayhem-lacc/token"
	"github.com/rnshah9/mayhem-lacc/types"
)

// paramEntry is one resolved parameter of a function declarator.
type paramEntry struct {
	name string
	typ  *types.Type
}

// parseDeclarator parses a (possibly pointer-prefixed) declarator over
// base, returning the composed type and the declared name ("" for an
// abstract declarator, as used by type-name and sizeof(type)).
func (p *Parser) parseDeclarator(base *types.Type) (*types.Type, string) {
	for p.lex.Peek().Kind == token.Star {
		p.lex.Next()
		ptr := types.NewPointer(base, p.conf.PointerSize)
		for {
			switch p.lex.Peek().Kind {
			case token.KwConst:
				ptr.IsConst = true
				p.lex.Next()
			case token.KwVolatile:
				ptr.IsVolatile = true
				p.lex.Next()
			default:
				goto done
			}
		}
	done:
		base = ptr
	}
	return p.directDeclarator(base)
}

// directDeclarator implements the grammar's direct-declarator
// production, including the parenthesized-declarator case via the
// classic "placeholder, then splice" technique: a parenthesized
// declarator like the *f in `int (*f)(char)` is parsed against an
// empty shell type standing in for "whatever comes after the closing
// paren", and once the trailing suffixes (here, the function's
// parameter list) are known, the shell is overwritten in place so that
// every type-tree node that already captured a pointer to it observes
// the final composed type.
func (p *Parser) directDeclarator(base *types.Type) (*types.Type, string) {
	if p.lex.Peek().Kind == token.LParen {
		p.lex.Next()
		placeholder := &types.Type{}
		innerType, name := p.parseDeclarator(placeholder)
		p.lex.Consume(token.RParen)
		finalBase := p.typeSuffix(base, true)
		*placeholder = *finalBase
		return innerType, name
	}
	if p.lex.Peek().Kind == token.Ident {
		name := p.lex.Next().Lexeme
		return p.typeSuffix(base, true), name
	}
	return p.typeSuffix(base, true), ""
}

// typeSuffix parses the zero or more trailing '[' ... ']' / '(' ... ')'
// suffixes of a direct-declarator and composes them onto base. outer is
// true only for the first (leftmost, textually outermost) array
// dimension, the only one the grammar permits to be left unspecified
// (e.g. `int a[][4]` is valid, `int a[4][]` is not).
func (p *Parser) typeSuffix(base *types.Type, outer bool) *types.Type {
	switch p.lex.Peek().Kind {
	case token.LBracket:
		p.lex.Next()
		length := 0
		if p.lex.Peek().Kind != token.RBracket {
			v := p.constantExpression()
			length = int(v.IntValue)
			if length <= 0 {
				p.fatalf("array dimension must be a positive constant")
			}
		} else if !outer {
			p.fatalf("array dimension missing (only the outermost dimension may be unspecified)")
		}
		p.lex.Consume(token.RBracket)
		elem := p.typeSuffix(base, false)
		if types.IsIncomplete(elem) {
			p.fatalf("array has incomplete element type")
		}
		return types.NewArray(elem, length)
	case token.LParen:
		p.lex.Next()
		params, vararg := p.parameterList()
		p.lex.Consume(token.RParen)
		fn := types.NewFunction(base)
		fn.IsVararg = vararg
		for _, prm := range params {
			fn.AddParam(prm.name, prm.typ)
		}
		return fn
	default:
		return base
	}
}

// parameterList parses a function declarator's parameter-type-list,
// including the `(void)` no-parameters spelling and a trailing `...`
// for varargs. Array and function parameters decay to pointers, the
// usual C rule original_source/src/parse.c applies in its own
// parameter pass.
func (p *Parser) parameterList() ([]paramEntry, bool) {
	var params []paramEntry
	if p.lex.Peek().Kind == token.RParen {
		return params, false
	}
	if p.lex.Peek().Kind == token.KwVoid && p.lex.PeekN(2).Kind == token.RParen {
		p.lex.Next()
		return params, false
	}
	for {
		if p.lex.Peek().Kind == token.Ellipsis {
			p.lex.Next()
			return params, true
		}
		ds := p.declarationSpecifiers()
		if !ds.any {
			p.fatalf("expected parameter type")
		}
		t, name := p.parseDeclarator(ds.Type)
		switch t.Kind {
		case types.Array:
			t = types.NewPointer(t.Next, p.conf.PointerSize)
		case types.Function:
			t = types.NewPointer(t, p.conf.PointerSize)
		}
		params = append(params, paramEntry{name: name, typ: t})
		if p.lex.Peek().Kind == token.Comma {
			p.lex.Next()
			continue
		}
		break
	}
	return params, false
}

// typeName parses a type-name (declaration-specifiers plus an optional
// abstract declarator), used by cast-expression and sizeof.
func (p *Parser) typeName() *types.Type {
	ds := p.declarationSpecifiers()
	if !ds.any {
		p.fatalf("expected type name")
	}
	t, _ := p.parseDeclarator(ds.Type)
	return t
}

// looksLikeTypeName reports whether tok could begin a type-name,
// resolving the cast-expression vs. parenthesized-expression ambiguity
// with the two-token lookahead spec.md §4.E calls for.
func (p *Parser) looksLikeTypeName(tok token.Token) bool {
	switch tok.Kind {
	case token.KwVoid, token.KwChar, token.KwShort, token.KwInt, token.KwLong,
		token.KwSigned, token.KwUnsigned, token.KwFloat, token.KwDouble,
		token.KwStruct, token.KwUnion, token.KwEnum, token.KwConst, token.KwVolatile:
		return true
	case token.Ident:
		if sym, ok := p.idents.Lookup(tok.Lexeme); ok {
			return sym.SymType == symtab.Typedef
		}
	}
	return false
}

func (p *Parser) isTypedefName(name string) bool {
	sym, ok := p.idents.Lookup(name)
	return ok && sym.SymType == symtab.Typedef
}

// startsDeclaration reports whether the next token can begin a
// declaration-specifiers list, the disambiguation spec.md §4.F calls
// for at the head of a block-item or external-declaration.
func (p *Parser) startsDeclaration() bool {
	switch p.lex.Peek().Kind {
	case token.KwAuto, token.KwRegister, token.KwStatic, token.KwExtern, token.KwTypedef,
		token.KwVoid, token.KwChar, token.KwShort, token.KwInt, token.KwLong,
		token.KwSigned, token.KwUnsigned, token.KwFloat, token.KwDouble,
		token.KwStruct, token.KwUnion, token.KwEnum, token.KwConst, token.KwVolatile:
		return true
	case token.Ident:
		return p.isTypedefName(p.lex.Peek().Lexeme)
	}
	return false
}

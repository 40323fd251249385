package parser

import (
	"github.com/rnshah9/mayhem-lacc/ir"
	"github.com/rnshah9/mayhem-lacc/symtab"
	"github.com/rnshah9/mayhem-lacc/token"
)

// declaration parses a block-scope (or for-loop-init) declaration:
// declaration-specifiers followed by a comma-separated
// init-declarator-list. Block-scope declarations never define
// functions; the function-definition branch external declarations need
// lives only in externalDeclaration.
func (p *Parser) declaration() {
	ds := p.declarationSpecifiers()
	if !ds.any {
		p.fatalf("expected declaration")
	}
	if p.lex.Peek().Kind == token.Semi {
		p.lex.Next()
		return
	}
	for {
		t, name := p.parseDeclarator(ds.Type)
		if name == "" {
			p.fatalf("declarator has no name")
		}
		switch ds.Storage {
		case token.KwTypedef:
			if _, err := p.idents.Add(&symtab.Symbol{Name: name, Type: t, SymType: symtab.Typedef}); err != nil {
				p.fatalf("%s", err)
			}
		case token.KwStatic:
			sym, err := p.idents.Add(&symtab.Symbol{Name: name, Type: t, SymType: symtab.Tentative, Linkage: symtab.LinkageInternal})
			if err != nil {
				p.fatalf("%s", err)
			}
			if p.lex.Peek().Kind == token.Assign {
				p.lex.Next()
				target := ir.DirectVar(sym)
				p.parseInitializer(p.decl.Head, target, true)
				sym.SymType = symtab.Definition
			}
		default:
			sym, err := p.idents.Add(&symtab.Symbol{Name: name, Type: t, SymType: symtab.Definition, Linkage: symtab.LinkageNone})
			if err != nil {
				p.fatalf("%s", err)
			}
			p.decl.AddLocal(sym)
			if p.lex.Peek().Kind == token.Assign {
				if ds.Storage == token.KwExtern {
					p.fatalf("'%s' has both 'extern' and an initializer", name)
				}
				p.lex.Next()
				target := ir.DirectVar(sym)
				p.parseInitializer(p.cur, target, false)
			}
		}
		if p.lex.Peek().Kind == token.Comma {
			p.lex.Next()
			continue
		}
		break
	}
	p.lex.Consume(token.Semi)
}

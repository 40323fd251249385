package parser

import (
	"fmt"

	"github.com/rnshah9/mayhem-lacc/ir"
	"github.com/rnshah9/mayhem-lacc/symtab"
	"github.com/rnshah9/mayhem-lacc/token"
	"github.com/rnshah9/mayhem-lacc/types"
)

// ParseNext drives the top-level loop from spec.md §4.G: each call
// consumes external declarations until one of them produces a fragment
// (declarations that produce none are passed over) and returns that
// fragment, or, once the token stream is
// exhausted, performs the tentative-definition finalization sweep
// exactly once and returns FragmentEndOfInput on every call after
// that. A grammar error unwinds here via panic(*FatalError) and is
// returned as err rather than propagated further — see Parser.fatalf.
func (p *Parser) ParseNext() (frag *ir.Decl, kind FragmentKind, err error) {
	defer func() {
		if r := recover(); r != nil {
			frag = nil
			kind = FragmentEndOfInput
			p.done = true
			if fe, ok := r.(*FatalError); ok {
				err = fe
				return
			}
			// A token-stream mismatch (Lexer.Consume's panic-on-mismatch
			// contract, spec.md §6) surfaces as a syntax error the same
			// way an explicit fatalf would, rather than crashing the
			// process the library is embedded in.
			msg := fmt.Sprintf("syntax error: %v", r)
			p.diag.Errorf("%s", msg)
			err = &FatalError{Msg: msg}
		}
	}()

	if p.done {
		return nil, FragmentEndOfInput, nil
	}
	for {
		if p.lex.Peek().Kind == token.EOF {
			p.done = true
			return p.finalizeTentatives(), FragmentTentativeFinalization, nil
		}
		f, k, produced := p.externalDeclaration()
		if produced {
			return f, k, nil
		}
	}
}

// externalDeclaration parses one top-level construct: a lone tag
// declaration (`struct S;`), a function definition, or one or more
// object/typedef declarators. produced is false for constructs (a
// forward tag declaration, a pure prototype with no body) that updated
// symbol-table state but manufactured no fragment worth handing to the
// back end.
func (p *Parser) externalDeclaration() (*ir.Decl, FragmentKind, bool) {
	ds := p.declarationSpecifiers()
	if !ds.any {
		p.fatalf("expected a declaration")
	}
	if p.lex.Peek().Kind == token.Semi {
		p.lex.Next()
		return nil, 0, false
	}

	t, name := p.parseDeclarator(ds.Type)
	if name == "" {
		p.fatalf("declarator has no name")
	}

	if t.Kind == types.Function && p.lex.Peek().Kind == token.LBrace {
		frag := p.functionDefinition(ds, t, name)
		return frag, FragmentFunction, true
	}

	frag := ir.CFGCreate()
	p.decl = frag
	p.cur = frag.Head
	produced := p.finishFileScopeDeclarators(ds, t, name)
	p.decl = nil
	p.cur = nil
	if !produced {
		return nil, 0, false
	}
	frag.Finalize()
	return frag, FragmentGlobalInit, true
}

// finishFileScopeDeclarators parses the remainder of an
// init-declarator-list given the first declarator's (t, name), already
// consumed by the caller.
func (p *Parser) finishFileScopeDeclarators(ds *declSpec, t *types.Type, name string) bool {
	produced := false
	for {
		sym := p.defineFileScopeSymbol(ds, t, name)
		if p.lex.Peek().Kind == token.Assign {
			if ds.Storage == token.KwExtern {
				p.fatalf("'%s' has both 'extern' and an initializer", name)
			}
			p.lex.Next()
			target := ir.DirectVar(sym)
			p.parseInitializer(p.cur, target, true)
			sym.SymType = symtab.Definition
			produced = true
		}
		if p.lex.Peek().Kind == token.Comma {
			p.lex.Next()
			t, name = p.parseDeclarator(ds.Type)
			continue
		}
		break
	}
	p.lex.Consume(token.Semi)
	return produced
}

// defineFileScopeSymbol applies spec.md §4.B's file-scope redeclaration
// rules: a plain declarator is Tentative (or Declaration under a
// function type, or under `extern`), `static` gives it internal
// linkage, and `typedef` binds a type name instead of an object.
func (p *Parser) defineFileScopeSymbol(ds *declSpec, t *types.Type, name string) *symtab.Symbol {
	if ds.Storage == token.KwTypedef {
		sym, err := p.idents.Add(&symtab.Symbol{Name: name, Type: t, SymType: symtab.Typedef})
		if err != nil {
			p.fatalf("%s", err)
		}
		return sym
	}

	symType := symtab.Tentative
	linkage := symtab.LinkageExternal
	switch ds.Storage {
	case token.KwStatic:
		linkage = symtab.LinkageInternal
	case token.KwExtern:
		symType = symtab.Declaration
	}
	if t.Kind == types.Function {
		symType = symtab.Declaration
	}
	sym, err := p.idents.Add(&symtab.Symbol{Name: name, Type: t, SymType: symType, Linkage: linkage})
	if err != nil {
		p.fatalf("%s", err)
	}
	return sym
}

// functionDefinition parses a function body given its already-parsed
// declarator, populating the fragment's Params/Locals and threading
// p.cur through the compound-statement parser.
func (p *Parser) functionDefinition(ds *declSpec, t *types.Type, name string) *ir.Decl {
	linkage := symtab.LinkageExternal
	if ds.Storage == token.KwStatic {
		linkage = symtab.LinkageInternal
	}
	funSym, err := p.idents.Add(&symtab.Symbol{Name: name, Type: t, SymType: symtab.Definition, Linkage: linkage})
	if err != nil {
		p.fatalf("%s", err)
	}

	frag := ir.CFGCreate()
	frag.Fun = funSym
	p.decl = frag
	p.labels = symtab.NewLabelNamespace()
	p.funcNameSym = nil
	p.curFuncName = name

	p.idents.PushScope()
	body := frag.BlockInit()
	frag.Body = body
	p.cur = body

	for _, m := range t.Members {
		if m.Name == "" {
			p.fatalf("parameter name omitted in function definition")
		}
		paramSym, err := p.idents.Add(&symtab.Symbol{Name: m.Name, Type: m.Type, SymType: symtab.Definition, Linkage: symtab.LinkageNone})
		if err != nil {
			p.fatalf("%s", err)
		}
		frag.AddParam(paramSym)
	}

	p.compoundStatement()

	p.idents.PopScope()
	p.decl = nil
	p.cur = nil
	frag.Finalize()
	return frag
}

// finalizeTentatives implements spec.md §4.G's end-of-input sweep:
// every file-scope, internal-linkage symbol still Tentative gets a
// synthesized zero-initializer and becomes Definition. External-linkage
// tentative definitions are left alone — resolving those as common
// symbols across translation units is a linker concern, outside this
// front end's scope (spec.md §4.G).
func (p *Parser) finalizeTentatives() *ir.Decl {
	frag := ir.CFGCreate()
	bd := ir.NewBuilder(p.idents, p.conf)
	for _, sym := range p.idents.All() {
		if sym.Depth == 0 && sym.Linkage == symtab.LinkageInternal && sym.SymType == symtab.Tentative {
			target := ir.DirectVar(sym)
			zero := ir.ImmIntVar(0, sym.Type)
			if _, err := bd.Assign(frag.Head, target, zero); err != nil {
				p.diag.Warnf("could not synthesize zero-initializer for '%s': %s", sym.Name, err)
				continue
			}
			sym.SymType = symtab.Definition
		}
	}
	frag.Finalize()
	return frag
}

// funcNameVar synthesizes the __func__ identifier (spec.md's expanded
// §4.E/§4.D) the first time it's referenced inside the current
// function: a file-local string constant named `__func__` holding the
// enclosing function's name, recorded once in the fragment's head block and cached for
// any later reference in the same body.
func (p *Parser) funcNameVar() *ir.Var {
	if p.funcNameSym == nil {
		bytes := append([]byte(p.curFuncName), 0)
		label := p.intern.StringLabel(bytes)
		arrT := types.NewArray(types.NewInteger(p.conf.CharSize, false), len(bytes))
		sym := &symtab.Symbol{Name: "__func__", Type: arrT, SymType: symtab.Definition, Linkage: symtab.LinkageInternal}
		target := ir.DirectVar(sym)
		src := ir.ImmStringVar(label, arrT)
		if _, err := p.builder.Assign(p.decl.Head, target, src); err != nil {
			p.fatalf("%s", err)
		}
		p.funcNameSym = sym
	}
	return ir.DirectVar(p.funcNameSym)
}

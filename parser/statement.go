package parser

import (
	"github.com/rnshah9/mayhem-lacc/ir"
	"github.com/rnshah9/mayhem-lacc/symtab"
	"github.com/rnshah9/mayhem-lacc/token"
)

// returnStatement parses `return [expression] ;`, emits a Return
// terminator into the current block, and opens a fresh orphan block
// for whatever (unreachable, but possibly label-targeted) statements
// follow, per spec.md §4.C's retained-orphan-block policy.
func (p *Parser) returnStatement() {
	p.lex.Next()
	var v *ir.Var
	if p.lex.Peek().Kind != token.Semi {
		v = p.expression()
	}
	p.lex.Consume(token.Semi)
	p.builder.Return(p.cur, v)
	p.cur = p.decl.BlockInit()
}

// statement parses one statement, threading control flow through
// p.cur exactly as spec.md §9 recommends in place of an explicit
// (parent)→(tail) pair on every call. goto, labels, case, default, and
// switch are accepted syntactically (their bodies are still fully
// parsed, so declarations and side effects inside them are not lost)
// but lowered as no-ops: spec.md §9's Open Question resolves against
// building a dispatch table or label-patching pass for a front end that
// hands a CFG, not flattened code, to its back end.
func (p *Parser) statement() {
	switch p.lex.Peek().Kind {
	case token.LBrace:
		p.compoundStatement()
	case token.KwIf:
		p.ifStatement()
	case token.KwWhile:
		p.whileStatement()
	case token.KwDo:
		p.doWhileStatement()
	case token.KwFor:
		p.forStatement()
	case token.KwBreak:
		p.lex.Next()
		p.lex.Consume(token.Semi)
		if p.breakTargets.Empty() {
			p.fatalf("break statement not within a loop")
		}
		p.cur.Jump[0] = p.breakTargets.Peek()
		p.cur = p.decl.BlockInit()
	case token.KwContinue:
		p.lex.Next()
		p.lex.Consume(token.Semi)
		if p.continueTargets.Empty() {
			p.fatalf("continue statement not within a loop")
		}
		p.cur.Jump[0] = p.continueTargets.Peek()
		p.cur = p.decl.BlockInit()
	case token.KwReturn:
		p.returnStatement()
	case token.KwGoto:
		p.lex.Next()
		name := p.lex.Consume(token.Ident).Lexeme
		p.lex.Consume(token.Semi)
		if _, ok := p.labels.Lookup(name); !ok {
			p.labels.Add(&symtab.Symbol{Name: name, SymType: symtab.Declaration})
		}
	case token.KwCase:
		p.lex.Next()
		p.constantExpression()
		p.lex.Consume(token.Colon)
		p.statement()
	case token.KwDefault:
		p.lex.Next()
		p.lex.Consume(token.Colon)
		p.statement()
	case token.KwSwitch:
		p.lex.Next()
		p.lex.Consume(token.LParen)
		p.expression()
		p.lex.Consume(token.RParen)
		p.statement()
	case token.Semi:
		p.lex.Next()
	case token.Ident:
		if p.lex.PeekN(2).Kind == token.Colon {
			name := p.lex.Next().Lexeme
			p.lex.Next()
			if _, ok := p.labels.Lookup(name); !ok {
				p.labels.Add(&symtab.Symbol{Name: name, SymType: symtab.Declaration})
			}
			p.statement()
			return
		}
		p.expressionStatement()
	default:
		p.expressionStatement()
	}
}

func (p *Parser) expressionStatement() {
	p.expression()
	p.lex.Consume(token.Semi)
}

// blockItem disambiguates a declaration from a statement at the head
// of a compound-statement item (spec.md §4.F): a type-specifier
// keyword or a typedef-bound identifier starts a declaration,
// everything else is a statement.
func (p *Parser) blockItem() {
	if p.startsDeclaration() {
		p.declaration()
	} else {
		p.statement()
	}
}

func (p *Parser) compoundStatement() {
	p.lex.Consume(token.LBrace)
	p.idents.PushScope()
	p.tags.PushScope()
	for p.lex.Peek().Kind != token.RBrace {
		p.blockItem()
	}
	p.lex.Consume(token.RBrace)
	p.tags.PopScope()
	p.idents.PopScope()
}

// ifStatement lowers to the diamond shape spec.md §4.F/§8 describe:
// parent branches on cond to thenBlock (true) / elseBlock (false), both
// arms jump unconditionally into merge, and parsing continues in
// merge. elseBlock is always allocated, even with no `else` clause, so
// the false edge always has somewhere to land. parent is captured after
// evaluating cond, not before: a short-circuiting `&&`/`||` condition
// (parser/expr.go's shortCircuit) advances p.cur to its own merge block
// while evaluating, and branching from the pre-evaluation block instead
// would clobber shortCircuit's own Jump edges and orphan the block that
// evaluates the right-hand operand.
func (p *Parser) ifStatement() {
	p.lex.Next()
	p.lex.Consume(token.LParen)
	cond := p.expression()
	p.lex.Consume(token.RParen)

	parent := p.cur
	thenBlock := p.decl.BlockInit()
	elseBlock := p.decl.BlockInit()
	merge := p.decl.BlockInit()
	parent.Expr = cond
	parent.Jump[1] = thenBlock
	parent.Jump[0] = elseBlock

	p.cur = thenBlock
	p.statement()
	p.cur.Jump[0] = merge

	p.cur = elseBlock
	if p.lex.Peek().Kind == token.KwElse {
		p.lex.Next()
		p.statement()
	}
	p.cur.Jump[0] = merge

	p.cur = merge
}

// whileStatement lowers to: parent jumps unconditionally to top (the
// condition's entry block, so `continue` re-runs the whole condition
// including any short-circuit evaluation), the block where evaluating
// cond ends (condExit — top itself unless `&&`/`||` moved p.cur to a
// shortCircuit merge block) branches to body/exit, body's tail jumps
// back to top, and break targets exit.
func (p *Parser) whileStatement() {
	p.lex.Next()
	p.lex.Consume(token.LParen)

	top := p.decl.BlockInit()
	p.cur.Jump[0] = top
	p.cur = top
	cond := p.expression()
	p.lex.Consume(token.RParen)

	condExit := p.cur
	body := p.decl.BlockInit()
	exit := p.decl.BlockInit()
	condExit.Expr = cond
	condExit.Jump[1] = body
	condExit.Jump[0] = exit

	p.breakTargets.Push(exit)
	p.continueTargets.Push(top)
	p.cur = body
	p.statement()
	p.cur.Jump[0] = top
	p.breakTargets.Pop()
	p.continueTargets.Pop()

	p.cur = exit
}

// doWhileStatement lowers to: parent jumps to top (the body), body's
// tail jumps unconditionally to a dedicated condition block (rather
// than inlining the condition test into whatever block the body
// happens to end in), and the block where evaluating the condition ends
// (condExit — condBlock itself unless `&&`/`||` moved p.cur to a
// shortCircuit merge block) branches back to top/exit. continue targets
// condBlock directly, matching real do/while semantics (continue
// re-checks the condition, it does not restart the body from its first
// statement).
func (p *Parser) doWhileStatement() {
	p.lex.Next()

	top := p.decl.BlockInit()
	condBlock := p.decl.BlockInit()
	exit := p.decl.BlockInit()
	p.cur.Jump[0] = top

	p.breakTargets.Push(exit)
	p.continueTargets.Push(condBlock)
	p.cur = top
	p.statement()
	p.cur.Jump[0] = condBlock
	p.breakTargets.Pop()
	p.continueTargets.Pop()

	p.lex.Consume(token.KwWhile)
	p.lex.Consume(token.LParen)
	p.cur = condBlock
	cond := p.expression()
	p.lex.Consume(token.RParen)
	p.lex.Consume(token.Semi)
	condExit := p.cur
	condExit.Expr = cond
	condExit.Jump[1] = top
	condExit.Jump[0] = exit

	p.cur = exit
}

// forStatement lowers to: init runs in the parent block (in its own
// pushed scope, so a C99 declaration in the init-clause is visible
// only to the loop), parent jumps to top (the condition's entry block,
// so `continue` re-runs the whole condition including any short-circuit
// evaluation), the block where evaluating the condition ends (condExit
// — top itself unless `&&`/`||` moved p.cur to a shortCircuit merge
// block) branches to body/exit (or unconditionally to body when the
// condition clause is empty), body's tail jumps to a dedicated
// increment block, and the increment block jumps back to top. continue
// targets the increment block, matching spec.md §8's for-loop boundary
// case.
func (p *Parser) forStatement() {
	p.lex.Next()
	p.lex.Consume(token.LParen)
	p.idents.PushScope()
	p.tags.PushScope()

	switch {
	case p.startsDeclaration():
		p.declaration()
	case p.lex.Peek().Kind != token.Semi:
		p.expression()
		p.lex.Consume(token.Semi)
	default:
		p.lex.Consume(token.Semi)
	}

	top := p.decl.BlockInit()
	p.cur.Jump[0] = top
	p.cur = top
	var condVar *ir.Var
	if p.lex.Peek().Kind != token.Semi {
		condVar = p.expression()
	}
	p.lex.Consume(token.Semi)
	condExit := p.cur

	incBlock := p.decl.BlockInit()
	bodyBlock := p.decl.BlockInit()
	exit := p.decl.BlockInit()
	if condVar != nil {
		condExit.Expr = condVar
		condExit.Jump[1] = bodyBlock
		condExit.Jump[0] = exit
	} else {
		condExit.Jump[0] = bodyBlock
	}

	p.cur = incBlock
	if p.lex.Peek().Kind != token.RParen {
		p.expression()
	}
	p.lex.Consume(token.RParen)
	incBlock.Jump[0] = top

	p.breakTargets.Push(exit)
	p.continueTargets.Push(incBlock)
	p.cur = bodyBlock
	p.statement()
	p.cur.Jump[0] = incBlock
	p.breakTargets.Pop()
	p.continueTargets.Pop()

	p.tags.PopScope()
	p.idents.PopScope()
	p.cur = exit
}

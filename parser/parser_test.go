package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rnshah9/mayhem-lacc/ir"
	"github.com/rnshah9/mayhem-lacc/parser"
	"github.com/rnshah9/mayhem-lacc/token"
	"github.com/rnshah9/mayhem-lacc/types"
)

func tk(k token.Kind, lexeme string) token.Token { return token.Token{Kind: k, Lexeme: lexeme} }
func ident(name string) token.Token               { return tk(token.Ident, name) }
func intConst(v int64) token.Token {
	return token.Token{Kind: token.IntConst, IntValue: v}
}

func newParser(toks []token.Token) *parser.Parser {
	lex := token.NewListLexer(toks)
	diag := parser.NewCollectingDiagnostics()
	intern := token.NewStringTable()
	return parser.New(lex, diag, intern, types.DefaultConfig())
}

// `int add(int a, int b) { return a + b; }` should parse as one
// function fragment with a single non-trivial block.
func TestFunctionDefinitionProducesOneFragment(t *testing.T) {
	p := newParser([]token.Token{
		tk(token.KwInt, "int"), ident("add"), tk(token.LParen, "("),
		tk(token.KwInt, "int"), ident("a"), tk(token.Comma, ","),
		tk(token.KwInt, "int"), ident("b"), tk(token.RParen, ")"),
		tk(token.LBrace, "{"), tk(token.KwReturn, "return"),
		ident("a"), tk(token.Plus, "+"), ident("b"), tk(token.Semi, ";"),
		tk(token.RBrace, "}"),
	})

	frag, kind, err := p.ParseNext()
	require.NoError(t, err)
	assert.Equal(t, parser.FragmentFunction, kind)
	require.NotNil(t, frag)
	assert.Len(t, frag.Params, 2)

	_, kind, err = p.ParseNext()
	require.NoError(t, err)
	assert.Equal(t, parser.FragmentTentativeFinalization, kind)

	_, kind, err = p.ParseNext()
	require.NoError(t, err)
	assert.Equal(t, parser.FragmentEndOfInput, kind)
}

// `int g;` followed directly by end of input should finalize as a
// zero-initialized internal definition only when static, so a plain
// external-linkage tentative definition is left untouched by the sweep.
func TestTentativeFileScopeDefinitionLeftForLinker(t *testing.T) {
	p := newParser([]token.Token{
		tk(token.KwInt, "int"), ident("g"), tk(token.Semi, ";"),
	})

	frag, kind, err := p.ParseNext()
	require.NoError(t, err)
	assert.Equal(t, parser.FragmentTentativeFinalization, kind)
	require.NotNil(t, frag)
	assert.Empty(t, frag.Head.Ops)

	_, kind, err = p.ParseNext()
	require.NoError(t, err)
	assert.Equal(t, parser.FragmentEndOfInput, kind)
}

// `static int g;` at file scope, with no subsequent initializer, must be
// finalized by the end-of-input sweep with a synthesized zero store.
func TestStaticTentativeDefinitionIsFinalizedWithZeroInitializer(t *testing.T) {
	p := newParser([]token.Token{
		tk(token.KwStatic, "static"), tk(token.KwInt, "int"), ident("g"), tk(token.Semi, ";"),
	})

	frag, kind, err := p.ParseNext()
	require.NoError(t, err)
	assert.Equal(t, parser.FragmentTentativeFinalization, kind)
	require.NotNil(t, frag)

	foundZeroInit := false
	for _, op := range frag.Head.Ops {
		if a, ok := op.(ir.AssignOp); ok && a.Src.Kind == ir.Immediate && a.Src.IntValue == 0 {
			foundZeroInit = true
		}
	}
	assert.True(t, foundZeroInit)
}

// A malformed declaration (missing semicolon) must surface as an error
// from ParseNext, not a panic escaping the library boundary.
func TestMalformedInputReturnsErrorInsteadOfPanicking(t *testing.T) {
	p := newParser([]token.Token{
		tk(token.KwInt, "int"), ident("x"), tk(token.RBrace, "}"),
	})

	assert.NotPanics(t, func() {
		_, _, err := p.ParseNext()
		assert.Error(t, err)
	})
}

// `enum { A = -1 };` requires the unary-minus-on-a-literal in the
// enumerator's constant-expression to fold to an Immediate; before
// constant folding existed this fatally rejected as "not a compile-time
// constant" even though the value is trivially computable at parse time.
func TestNegativeEnumeratorConstantFolds(t *testing.T) {
	p := newParser([]token.Token{
		tk(token.KwEnum, "enum"), tk(token.LBrace, "{"),
		ident("A"), tk(token.Assign, "="), tk(token.Minus, "-"), intConst(1),
		tk(token.RBrace, "}"), tk(token.Semi, ";"),
	})

	assert.NotPanics(t, func() {
		_, kind, err := p.ParseNext()
		require.NoError(t, err)
		assert.Equal(t, parser.FragmentTentativeFinalization, kind)
	})
}

// `int a[2*3];` requires the array-dimension constant-expression to fold
// a multiplication of two literals to an Immediate; the resulting array
// type's length must reflect the folded value (6), not fail as
// non-constant.
func TestArrayDimensionConstantFoldsToCorrectLength(t *testing.T) {
	p := newParser([]token.Token{
		tk(token.KwInt, "int"), ident("f"), tk(token.LParen, "("), tk(token.KwVoid, "void"), tk(token.RParen, ")"),
		tk(token.LBrace, "{"),
		tk(token.KwInt, "int"), ident("a"), tk(token.LBracket, "["),
		intConst(2), tk(token.Star, "*"), intConst(3),
		tk(token.RBracket, "]"), tk(token.Semi, ";"),
		tk(token.KwReturn, "return"), intConst(0), tk(token.Semi, ";"),
		tk(token.RBrace, "}"),
	})

	frag, kind, err := p.ParseNext()
	require.NoError(t, err)
	assert.Equal(t, parser.FragmentFunction, kind)
	require.Len(t, frag.Locals, 1)
	assert.Equal(t, types.Array, frag.Locals[0].Type.Kind)
	assert.Equal(t, 6, frag.Locals[0].Type.ArrayLength())
}

// `while (a && b) { a = 0; }` must reach the block that evaluates b: the
// short-circuit lowering moves p.cur to its own merge block while
// evaluating the condition, so the loop's branch edges must originate
// from that merge block, not the pre-evaluation block, or the block
// evaluating b is orphaned from the CFG. Only blocks reachable from the
// function's entry block are searched.
func TestWhileWithShortCircuitConditionReachesBothOperands(t *testing.T) {
	p := newParser([]token.Token{
		tk(token.KwInt, "int"), ident("f"), tk(token.LParen, "("), tk(token.KwVoid, "void"), tk(token.RParen, ")"),
		tk(token.LBrace, "{"),
		tk(token.KwInt, "int"), ident("a"), tk(token.Semi, ";"),
		tk(token.KwInt, "int"), ident("b"), tk(token.Semi, ";"),
		tk(token.KwWhile, "while"), tk(token.LParen, "("),
		ident("a"), tk(token.AmpAmp, "&&"), ident("b"),
		tk(token.RParen, ")"),
		tk(token.LBrace, "{"),
		ident("a"), tk(token.Assign, "="), intConst(0), tk(token.Semi, ";"),
		tk(token.RBrace, "}"),
		tk(token.KwReturn, "return"), intConst(0), tk(token.Semi, ";"),
		tk(token.RBrace, "}"),
	})

	frag, kind, err := p.ParseNext()
	require.NoError(t, err)
	assert.Equal(t, parser.FragmentFunction, kind)

	reachable := map[*ir.Block]bool{}
	work := []*ir.Block{frag.Body}
	for len(work) > 0 {
		blk := work[len(work)-1]
		work = work[:len(work)-1]
		if blk == nil || reachable[blk] {
			continue
		}
		reachable[blk] = true
		work = append(work, blk.Jump[0], blk.Jump[1])
	}

	foundAssignToA := false
	foundRightOperand := false
	for blk := range reachable {
		for _, op := range blk.Ops {
			if a, ok := op.(ir.AssignOp); ok && a.Src.Kind == ir.Immediate && a.Src.IntValue == 0 {
				foundAssignToA = true
			}
			if a, ok := op.(ir.AssignOp); ok && a.Src.Sym != nil && a.Src.Sym.Name == "b" {
				foundRightOperand = true
			}
		}
	}
	assert.True(t, foundAssignToA, "assignment inside loop body must be reachable from a block still in the CFG")
	assert.True(t, foundRightOperand, "block evaluating b must be reachable from a block still in the CFG")
}

// `struct point { int x; int y; };` followed by `struct point p;`
// exercises tag declaration plus struct member layout end to end.
func TestStructTagDeclarationThenUse(t *testing.T) {
	p := newParser([]token.Token{
		tk(token.KwStruct, "struct"), ident("point"), tk(token.LBrace, "{"),
		tk(token.KwInt, "int"), ident("x"), tk(token.Semi, ";"),
		tk(token.KwInt, "int"), ident("y"), tk(token.Semi, ";"),
		tk(token.RBrace, "}"), tk(token.Semi, ";"),

		tk(token.KwStruct, "struct"), ident("point"), ident("p"), tk(token.Semi, ";"),
	})

	_, kind, err := p.ParseNext()
	require.NoError(t, err)
	assert.Equal(t, parser.FragmentTentativeFinalization, kind)
}

package token

// ListLexer serves a fixed slice of tokens, used by the front end's own
// test suites in place of the real preprocessor/lexer collaborator.
// The last token served, repeatedly, is always EOF — callers never need
// to special-case running off the end of the slice.
type ListLexer struct {
	toks []Token
	pos  int
}

func NewListLexer(toks []Token) *ListLexer {
	if len(toks) == 0 || toks[len(toks)-1].Kind != EOF {
		toks = append(append([]Token{}, toks...), Token{Kind: EOF})
	}
	return &ListLexer{toks: toks}
}

func (l *ListLexer) at(idx int) Token {
	if idx >= len(l.toks) {
		return l.toks[len(l.toks)-1]
	}
	return l.toks[idx]
}

func (l *ListLexer) Peek() Token {
	return l.at(l.pos)
}

func (l *ListLexer) PeekN(k int) Token {
	return l.at(l.pos + k - 1)
}

func (l *ListLexer) Next() Token {
	t := l.at(l.pos)
	if l.pos < len(l.toks)-1 {
		l.pos++
	}
	return t
}

func (l *ListLexer) Consume(expected Kind) Token {
	t := l.Next()
	if t.Kind != expected {
		panic("expected " + string(expected) + " but got " + string(t.Kind))
	}
	return t
}

package lox

// errorAt records a syntax error at tok and returns it so rule functions can
// unwind to the enclosing declaration.
func (p *parser) errorAt(tok Token, message string) error {
	diag := newDiagnostic(SyntaxError, tok.Pos, "%s", message)
	p.errors = append(p.errors, diag)
	return diag
}

// synchronize discards tokens until the start of the next statement.
func (p *parser) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		if p.previous().Type == tokenSemicolon {
			return
		}

		switch p.peek().Type {
		case tokenClass, tokenFun, tokenVar, tokenFor, tokenIf, tokenWhile, tokenPrint, tokenReturn:
			return
		}

		p.advance()
	}
}

// tokenLabel names a token type the way diagnostics and tooling display it.
func tokenLabel(tt TokenType) string {
	switch tt {
	case tokenEOF:
		return "end of input"
	case tokenIdent:
		return "identifier"
	case tokenNumber:
		return "number"
	case tokenString:
		return "string"
	default:
		if len(tt) <= 2 {
			return "'" + string(tt) + "'"
		}
		return "keyword"
	}
}

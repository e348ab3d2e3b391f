package lox

type parser struct {
	tokens  []Token
	current int

	errors Diagnostics
}

// Parse builds one statement per top-level declaration. After a syntax
// error the parser skips to the next statement boundary and keeps going, so
// every error in the program is reported; the statements it skipped are not
// returned, and callers must not evaluate a program that produced an error.
func Parse(tokens []Token) ([]Statement, error) {
	p := newParser(tokens)
	statements := p.parseProgram()
	if len(p.errors) > 0 {
		return statements, p.errors
	}
	return statements, nil
}

// ParseExpression parses tokens holding exactly one expression.
func ParseExpression(tokens []Token) (Expression, error) {
	p := newParser(tokens)
	expr, err := p.expression()
	if err == nil && !p.isAtEnd() {
		p.errorAt(p.peek(), "Expect end of expression, got "+tokenLabel(p.peek().Type)+".")
	}
	if len(p.errors) > 0 {
		return nil, p.errors
	}
	return expr, nil
}

func newParser(tokens []Token) *parser {
	if n := len(tokens); n == 0 || tokens[n-1].Type != tokenEOF {
		eofPos := Position{Line: 1}
		if n > 0 {
			eofPos = tokens[n-1].Pos
		}
		tokens = append(tokens[:n:n], Token{Type: tokenEOF, Pos: eofPos})
	}
	return &parser{tokens: tokens}
}

func (p *parser) parseProgram() []Statement {
	var statements []Statement
	for !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			p.synchronize()
			continue
		}
		statements = append(statements, stmt)
	}
	return statements
}

func (p *parser) declaration() (Statement, error) {
	if p.match(tokenVar) {
		return p.varDeclaration()
	}
	return p.statement()
}

func (p *parser) varDeclaration() (Statement, error) {
	pos := p.previous().Pos
	name, err := p.consume(tokenIdent, "Expect variable name.")
	if err != nil {
		return nil, err
	}

	var initializer Expression
	if p.match(tokenAssign) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(tokenSemicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &VarStmt{Name: name, Initializer: initializer, position: pos}, nil
}

func (p *parser) statement() (Statement, error) {
	if p.match(tokenPrint) {
		return p.printStatement()
	}
	return p.expressionStatement()
}

func (p *parser) printStatement() (Statement, error) {
	pos := p.previous().Pos
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(tokenSemicolon, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return &PrintStmt{Expr: value, position: pos}, nil
}

func (p *parser) expressionStatement() (Statement, error) {
	pos := p.peek().Pos
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(tokenSemicolon, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: expr, position: pos}, nil
}

func (p *parser) expression() (Expression, error) {
	return p.assignment()
}

// assignment is right-associative. The target is parsed as an ordinary
// expression first and only a bare variable is accepted.
func (p *parser) assignment() (Expression, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}

	if p.match(tokenAssign) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		if variable, ok := expr.(*VariableExpr); ok {
			return &AssignExpr{Name: variable.Name, Value: value}, nil
		}
		p.errorAt(equals, "Invalid assignment target.")
	}

	return expr, nil
}

func (p *parser) equality() (Expression, error) {
	return p.binaryLevel(p.comparison, tokenNotEQ, tokenEQ)
}

func (p *parser) comparison() (Expression, error) {
	return p.binaryLevel(p.term, tokenGT, tokenGTE, tokenLT, tokenLTE)
}

func (p *parser) term() (Expression, error) {
	return p.binaryLevel(p.factor, tokenMinus, tokenPlus)
}

func (p *parser) factor() (Expression, error) {
	return p.binaryLevel(p.unary, tokenSlash, tokenAsterisk)
}

// binaryLevel folds `next (op next)*` into left-associative BinaryExpr nodes.
func (p *parser) binaryLevel(next func() (Expression, error), operators ...TokenType) (Expression, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(operators...) {
		operator := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *parser) unary() (Expression, error) {
	if p.match(tokenBang, tokenMinus) {
		operator := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Operator: operator, Right: right}, nil
	}
	return p.primary()
}

func (p *parser) primary() (Expression, error) {
	switch {
	case p.match(tokenFalse):
		return &LiteralExpr{Value: NewBool(false), position: p.previous().Pos}, nil
	case p.match(tokenTrue):
		return &LiteralExpr{Value: NewBool(true), position: p.previous().Pos}, nil
	case p.match(tokenNil):
		return &LiteralExpr{Value: NewNil(), position: p.previous().Pos}, nil
	case p.match(tokenNumber, tokenString):
		tok := p.previous()
		return &LiteralExpr{Value: tok.Literal, position: tok.Pos}, nil
	case p.match(tokenIdent):
		return &VariableExpr{Name: p.previous()}, nil
	case p.match(tokenLParen):
		pos := p.previous().Pos
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(tokenRParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return &GroupingExpr{Inner: inner, position: pos}, nil
	}
	return nil, p.errorAt(p.peek(), "Expect expression.")
}

func (p *parser) consume(tt TokenType, message string) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return Token{}, p.errorAt(p.peek(), message)
}

func (p *parser) match(types ...TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) check(tt TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == tt
}

func (p *parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) isAtEnd() bool {
	return p.peek().Type == tokenEOF
}

func (p *parser) peek() Token {
	return p.tokens[p.current]
}

func (p *parser) previous() Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

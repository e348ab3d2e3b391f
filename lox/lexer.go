package lox

import (
	"strconv"
	"unicode/utf8"
)

const eof rune = -1

type lexer struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch rune

	errors Diagnostics
}

// Scan converts source text into tokens. Lexical problems are collected and
// scanning continues past them, so the returned slice always ends with an EOF
// token even when the error is non-nil.
func Scan(source string) ([]Token, error) {
	l := newLexer(source)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == tokenEOF {
			break
		}
	}
	if len(l.errors) > 0 {
		return tokens, l.errors
	}
	return tokens, nil
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1, column: 0}
	l.readRune()
	return l
}

func (l *lexer) readRune() {
	if l.offset >= len(l.input) {
		l.width = 0
		l.ch = eof
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w

	if r == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}

	l.ch = r
}

func (l *lexer) peekRune() rune {
	if l.offset >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

func (l *lexer) peekRuneN(n int) rune {
	idx := l.offset
	for i := 0; ; i++ {
		if idx >= len(l.input) {
			return eof
		}
		r, w := utf8.DecodeRuneInString(l.input[idx:])
		if i == n {
			return r
		}
		idx += w
	}
}

// NextToken returns the next valid token, recording and skipping anything
// that cannot start one.
func (l *lexer) NextToken() Token {
	tok := l.scanToken()
	tok.Offset = l.currentOffset() - len(tok.Lexeme)
	return tok
}

func (l *lexer) scanToken() Token {
	for {
		l.skipWhitespaceAndComments()

		pos := l.pos()

		switch l.ch {
		case eof:
			return Token{Type: tokenEOF, Pos: pos}
		case '(':
			return l.single(tokenLParen, pos)
		case ')':
			return l.single(tokenRParen, pos)
		case '{':
			return l.single(tokenLBrace, pos)
		case '}':
			return l.single(tokenRBrace, pos)
		case ',':
			return l.single(tokenComma, pos)
		case '.':
			return l.single(tokenDot, pos)
		case '-':
			return l.single(tokenMinus, pos)
		case '+':
			return l.single(tokenPlus, pos)
		case ';':
			return l.single(tokenSemicolon, pos)
		case '*':
			return l.single(tokenAsterisk, pos)
		case '/':
			return l.single(tokenSlash, pos)
		case '!':
			return l.oneOrTwo('=', tokenNotEQ, tokenBang, pos)
		case '=':
			return l.oneOrTwo('=', tokenEQ, tokenAssign, pos)
		case '<':
			return l.oneOrTwo('=', tokenLTE, tokenLT, pos)
		case '>':
			return l.oneOrTwo('=', tokenGTE, tokenGT, pos)
		case '"':
			if tok, ok := l.readString(pos); ok {
				return tok
			}
		default:
			switch {
			case isAlpha(l.ch):
				return l.readIdentifier(pos)
			case isDigit(l.ch):
				return l.readNumber(pos)
			default:
				l.errors = append(l.errors, newDiagnostic(LexicalError, pos, "Unexpected character."))
				l.readRune()
			}
		}
	}
}

func (l *lexer) pos() Position {
	return Position{Line: l.line, Column: l.column}
}

func (l *lexer) currentOffset() int {
	return l.offset - l.width
}

func (l *lexer) single(tt TokenType, pos Position) Token {
	tok := Token{Type: tt, Lexeme: string(l.ch), Pos: pos}
	l.readRune()
	return tok
}

func (l *lexer) oneOrTwo(next rune, two, one TokenType, pos Position) Token {
	if l.peekRune() != next {
		return l.single(one, pos)
	}
	start := l.currentOffset()
	l.readRune()
	tok := Token{Type: two, Lexeme: l.input[start:l.offset], Pos: pos}
	l.readRune()
	return tok
}

func (l *lexer) skipWhitespaceAndComments() {
	for {
		switch l.ch {
		case ' ', '\t', '\r', '\n':
			l.readRune()
		case '/':
			if l.peekRune() != '/' {
				return
			}
			l.skipComment()
		default:
			return
		}
	}
}

func (l *lexer) skipComment() {
	for l.ch != eof && l.ch != '\n' {
		l.readRune()
	}
}

func (l *lexer) readIdentifier(pos Position) Token {
	start := l.currentOffset()
	for isAlpha(l.peekRune()) {
		l.readRune()
	}
	literal := l.input[start:l.offset]
	l.readRune()
	return Token{Type: lookupIdent(literal), Lexeme: literal, Pos: pos}
}

// readNumber consumes digits with an optional fraction. A dot that is not
// followed by a digit is left for the next token.
func (l *lexer) readNumber(pos Position) Token {
	start := l.currentOffset()
	for isDigit(l.peekRune()) {
		l.readRune()
	}
	if l.peekRune() == '.' && isDigit(l.peekRuneN(1)) {
		l.readRune()
		for isDigit(l.peekRune()) {
			l.readRune()
		}
	}
	lexeme := l.input[start:l.offset]
	l.readRune()

	// Only a range error is possible here, and it still yields +Inf.
	value, _ := strconv.ParseFloat(lexeme, 64)
	return Token{Type: tokenNumber, Lexeme: lexeme, Literal: NewNumber(value), Pos: pos}
}

func (l *lexer) readString(pos Position) (Token, bool) {
	start := l.currentOffset()
	for {
		l.readRune()
		switch l.ch {
		case eof:
			l.errors = append(l.errors, newDiagnostic(LexicalError, l.pos(), "Unterminated string."))
			return Token{}, false
		case '"':
			value := l.input[start+1 : l.currentOffset()]
			lexeme := l.input[start:l.offset]
			l.readRune()
			return Token{Type: tokenString, Lexeme: lexeme, Literal: NewString(value), Pos: pos}, true
		}
	}
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

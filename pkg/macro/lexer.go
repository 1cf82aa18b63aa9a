package macro

import (
	"fmt"
	"strings"

	"github.com/yaklabco/litpp/pkg/diag"
)

// TokenType identifies a lexical token of a call region.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenString
	TokenNumber
	TokenCallOpen // "@("
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenComma
	TokenAssign
	TokenDot
	TokenConcat // ".."
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of call"
	case TokenIdent:
		return "identifier"
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenCallOpen:
		return "'@('"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenLBrace:
		return "'{'"
	case TokenRBrace:
		return "'}'"
	case TokenComma:
		return "','"
	case TokenAssign:
		return "'='"
	case TokenDot:
		return "'.'"
	case TokenConcat:
		return "'..'"
	default:
		return fmt.Sprintf("TokenType(%d)", int(t))
	}
}

// Token is a lexical unit with its absolute offset in the scanned text.
type Token struct {
	Type TokenType

	// Value is the identifier, the decoded string or the number literal.
	Value string

	Position int
	End      int
}

// Lexer tokenizes the content of one call region.
type Lexer struct {
	input    string
	base     int
	position int
	tokens   []Token
}

// NewLexer creates a lexer over input, whose first byte sits at offset base
// of the enclosing text.
func NewLexer(input string, base int) *Lexer {
	return &Lexer{input: input, base: base}
}

// Tokenize splits the input into tokens, ending with TokenEOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	for {
		l.skipSpace()
		if l.position >= len(l.input) {
			l.emit(TokenEOF, "", l.position, l.position)
			return l.tokens, nil
		}
		if err := l.next(); err != nil {
			return nil, err
		}
	}
}

func (l *Lexer) next() error {
	start := l.position
	c := l.input[start]

	switch {
	case c == '@' && l.peekAt(1) == '(':
		l.position += 2
		l.emit(TokenCallOpen, "@(", start, l.position)
	case c == '(':
		l.single(TokenLParen)
	case c == ')':
		l.single(TokenRParen)
	case c == '{':
		l.single(TokenLBrace)
	case c == '}':
		l.single(TokenRBrace)
	case c == ',':
		l.single(TokenComma)
	case c == '=':
		l.single(TokenAssign)
	case c == '.' && l.peekAt(1) == '.':
		l.position += 2
		l.emit(TokenConcat, "..", start, l.position)
	case c == '.':
		l.single(TokenDot)
	case c == '"' || c == '\'':
		return l.lexString()
	case isDigit(c) || (c == '-' && isDigit(l.peekAt(1))):
		l.lexNumber()
	case isIdentStart(c):
		for l.position < len(l.input) && isIdentChar(l.input[l.position]) {
			l.position++
		}
		l.emit(TokenIdent, l.input[start:l.position], start, l.position)
	default:
		return diag.Newf(diag.KindMalformedCall, l.base+start, "unexpected character %q", c)
	}

	return nil
}

func (l *Lexer) single(t TokenType) {
	start := l.position
	l.position++
	l.emit(t, l.input[start:l.position], start, l.position)
}

func (l *Lexer) emit(t TokenType, value string, start, end int) {
	l.tokens = append(l.tokens, Token{Type: t, Value: value, Position: l.base + start, End: l.base + end})
}

func (l *Lexer) peekAt(n int) byte {
	if l.position+n < len(l.input) {
		return l.input[l.position+n]
	}
	return 0
}

func (l *Lexer) skipSpace() {
	for l.position < len(l.input) && isSpace(l.input[l.position]) {
		l.position++
	}
}

func (l *Lexer) lexString() error {
	start := l.position
	quote := l.input[start]
	l.position++

	var b strings.Builder
	for l.position < len(l.input) {
		c := l.input[l.position]
		switch {
		case c == quote:
			l.position++
			l.emit(TokenString, b.String(), start, l.position)
			return nil
		case c == '\\':
			if l.position+1 >= len(l.input) {
				return diag.Newf(diag.KindMalformedCall, l.base+start, "unterminated string")
			}
			b.WriteByte(unescape(l.input[l.position+1]))
			l.position += 2
		default:
			b.WriteByte(c)
			l.position++
		}
	}

	return diag.Newf(diag.KindMalformedCall, l.base+start, "unterminated string")
}

func (l *Lexer) lexNumber() {
	start := l.position
	if l.input[l.position] == '-' {
		l.position++
	}
	for l.position < len(l.input) && isDigit(l.input[l.position]) {
		l.position++
	}
	// A fraction needs a digit after the dot so that "1..x" stays a
	// concatenation.
	if l.peekAt(0) == '.' && isDigit(l.peekAt(1)) {
		l.position++
		for l.position < len(l.input) && isDigit(l.input[l.position]) {
			l.position++
		}
	}
	l.emit(TokenNumber, l.input[start:l.position], start, l.position)
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return c
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

package lexer

import (
	"unicode"
	"unicode/utf8"

	"mathlang/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current byte position in input (points to start of current rune)
	readPosition int  // next byte position in input (start of next rune)
	ch           rune // current rune under examination; 0 means EOF
}

func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()

	startPosition := l.position

	switch l.ch {
	case '=':
		tok = l.handleCompoundToken(token.ASSIGN, '=', token.EQ)
	case '+':
		tok = newToken(token.PLUS, l.ch, startPosition)
	case '-':
		tok = l.handleCompoundToken(token.MINUS, '>', token.ARROW)
	case '*':
		tok = newToken(token.ASTERISK, l.ch, startPosition)
	case '/':
		tok = newToken(token.SLASH, l.ch, startPosition)
	case '%':
		tok = newToken(token.PERCENT, l.ch, startPosition)
	case '^':
		tok = newToken(token.CARET, l.ch, startPosition)
	case '!':
		tok = l.handleCompoundToken(token.BANG, '=', token.NOT_EQ)
	case '<':
		tok = l.handleCompoundToken(token.LT, '=', token.LT_EQ)
	case '>':
		tok = l.handleCompoundToken(token.GT, '=', token.GT_EQ)
	case '&':
		tok = l.handleCompoundToken(token.ILLEGAL, '&', token.LOGICAL_AND)
	case '|':
		tok = l.handleCompoundToken(token.ILLEGAL, '|', token.LOGICAL_OR)
	case '\n':
		tok = token.Token{Type: token.NEWLINE, Literal: "\n", Position: startPosition}
	case ',':
		tok = newToken(token.COMMA, l.ch, startPosition)
	case ';':
		tok = newToken(token.SEMICOLON, l.ch, startPosition)
	case '(':
		tok = newToken(token.LPAREN, l.ch, startPosition)
	case ')':
		tok = newToken(token.RPAREN, l.ch, startPosition)
	case '[':
		if l.peekChar() == '[' {
			return l.readConstant(startPosition)
		}
		tok = newToken(token.LBRACKET, l.ch, startPosition)
	case ']':
		tok = newToken(token.RBRACKET, l.ch, startPosition)
	case '"':
		literal, terminated := l.readString()
		tok.Type = token.STRING
		if !terminated {
			tok.Type = token.ILLEGAL
		}
		tok.Literal = literal
		tok.Position = startPosition
	case 0:
		tok.Literal = ""
		tok.Type = token.EOF
		tok.Position = startPosition
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			tok.Position = startPosition
			// an identifier glued to '(' is a call target, not a
			// variable reference
			if tok.Type == token.IDENT && l.ch == '(' {
				tok.Type = token.CALLABLE
			}
			return tok
		}
		if isDigit(l.ch) {
			return l.readNumberToken(startPosition)
		}
		tok = newToken(token.ILLEGAL, l.ch, startPosition)
	}

	l.readChar()
	return tok
}

// readConstant scans a [[NAME]] reference. The whole form becomes one
// CONSTANT token whose literal is the bare name.
func (l *Lexer) readConstant(startPosition int) token.Token {
	l.readChar() // consume first '['
	l.readChar() // consume second '['
	nameStart := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	name := l.input[nameStart:l.position]
	if name == "" || l.ch != ']' || l.peekChar() != ']' {
		return token.Token{Type: token.ILLEGAL, Literal: l.input[startPosition:l.position], Position: startPosition}
	}
	l.readChar() // consume first ']'
	l.readChar() // consume second ']'
	return token.Token{Type: token.CONSTANT, Literal: name, Position: startPosition}
}

// readNumberToken scans an integer, float, hex, or complex literal. A
// trailing 'i' or 'j' with no intervening whitespace marks the number as
// complex; the suffix is consumed but kept out of the literal.
func (l *Lexer) readNumberToken(startPosition int) token.Token {
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		literal := l.readHexLiteral()
		return token.Token{Type: token.NUMBER, Literal: literal, Position: startPosition}
	}
	literal := l.readNumber()
	if (l.ch == 'i' || l.ch == 'j') && !isLetter(l.peekChar()) && !isDigit(l.peekChar()) {
		l.readChar()
		return token.Token{Type: token.COMPLEX, Literal: literal, Position: startPosition}
	}
	return token.Token{Type: token.NUMBER, Literal: literal, Position: startPosition}
}

func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if (l.ch == 'e' || l.ch == 'E') && (isDigit(l.peekChar()) || l.peekChar() == '+' || l.peekChar() == '-') {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.position]
}

func (l *Lexer) readHexLiteral() string {
	start := l.position
	l.readChar() // consume '0'
	l.readChar() // consume 'x'
	for isHexDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readString scans a quoted literal. The second return is false when the
// input ends before the closing quote.
func (l *Lexer) readString() (string, bool) {
	var out []rune
	for {
		l.readChar()
		if l.ch == '"' {
			return string(out), true
		}
		if l.ch == 0 {
			return string(out), false
		}
		if l.ch == '\\' {
			switch l.peekChar() {
			case 'n':
				out = append(out, '\n')
				l.readChar()
				continue
			case 't':
				out = append(out, '\t')
				l.readChar()
				continue
			case '"':
				out = append(out, '"')
				l.readChar()
				continue
			case '\\':
				out = append(out, '\\')
				l.readChar()
				continue
			}
		}
		out = append(out, l.ch)
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) handleCompoundToken(
	t token.TokenType,
	ch1 rune,
	t1 token.TokenType,
) token.Token {
	startPosition := l.position
	if l.peekChar() == ch1 {
		first := l.ch
		l.readChar()
		literal := string(first) + string(l.ch)
		return token.Token{Type: t1, Literal: literal, Position: startPosition}
	}
	return newToken(t, l.ch, startPosition)
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.ch {
		case ' ', '\t', '\r':
			l.readChar()
		case '#':
			l.skipToLineEnd()
		default:
			return
		}
	}
}

func (l *Lexer) skipToLineEnd() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// readChar advances by one UTF-8 rune, updating byte positions
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
}

// peekChar returns the next rune without advancing; returns 0 at EOF
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func newToken(tokenType token.TokenType, ch rune, position int) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch), Position: position}
}

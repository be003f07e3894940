package lexer

import (
	"github.com/xirelogy/go-lox/internal/token"
)

// Lexer converts source text into a stream of tokens on demand.
type Lexer struct {
	input   string
	start   int // first byte of the token being scanned
	current int // next byte to consume
	line    int
}

// New creates a lexer for the provided source text.
func New(input string) *Lexer {
	return &Lexer{
		input: input,
		line:  1,
	}
}

// Source returns the buffer tokens index into.
func (l *Lexer) Source() string {
	return l.input
}

// NextToken returns the next token from the input. Once the input is
// exhausted every call returns an EOF token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()
	l.start = l.current

	if l.atEnd() {
		return l.makeToken(token.EOF)
	}

	ch := l.advance()
	if isLetter(ch) {
		return l.readIdentifier()
	}
	if isDigit(ch) {
		return l.readNumber()
	}

	switch ch {
	case '(':
		return l.makeToken(token.LeftParen)
	case ')':
		return l.makeToken(token.RightParen)
	case '{':
		return l.makeToken(token.LeftBrace)
	case '}':
		return l.makeToken(token.RightBrace)
	case ';':
		return l.makeToken(token.Semicolon)
	case ',':
		return l.makeToken(token.Comma)
	case '.':
		return l.makeToken(token.Dot)
	case '-':
		return l.makeToken(token.Minus)
	case '+':
		return l.makeToken(token.Plus)
	case '/':
		return l.makeToken(token.Slash)
	case '*':
		return l.makeToken(token.Star)
	case '!':
		return l.makeToken(l.pick('=', token.BangEqual, token.Bang))
	case '=':
		return l.makeToken(l.pick('=', token.EqualEqual, token.Equal))
	case '<':
		return l.makeToken(l.pick('=', token.LessEqual, token.Less))
	case '>':
		return l.makeToken(l.pick('=', token.GreaterEqual, token.Greater))
	case '"':
		return l.readString()
	}

	return l.errorToken("Unexpected character.")
}

// Tokens drains a fresh lexer over input, including the trailing EOF.
func Tokens(input string) []token.Token {
	l := New(input)
	var out []token.Token
	for {
		tok := l.NextToken()
		out = append(out, tok)
		if tok.Type == token.EOF {
			return out
		}
	}
}

func (l *Lexer) makeToken(t token.Type) token.Token {
	return token.Token{
		Type:   t,
		Start:  l.start,
		Length: l.current - l.start,
		Line:   l.line,
	}
}

func (l *Lexer) errorToken(msg string) token.Token {
	tok := l.makeToken(token.Error)
	tok.Message = msg
	return tok
}

// pick consumes next when it follows and returns matched, else single.
func (l *Lexer) pick(next byte, matched, single token.Type) token.Type {
	if l.atEnd() || l.input[l.current] != next {
		return single
	}
	l.current++
	return matched
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.peekChar() {
		case ' ', '\t', '\r':
			l.advance()
		case '\n':
			l.line++
			l.advance()
		case '/':
			if l.peekNext() != '/' {
				return
			}
			for !l.atEnd() && l.peekChar() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier() token.Token {
	for isLetter(l.peekChar()) || isDigit(l.peekChar()) {
		l.advance()
	}
	return l.makeToken(l.identifierType())
}

// identifierType dispatches on the first byte, then matches the
// remaining suffix exactly.
func (l *Lexer) identifierType() token.Type {
	word := l.input[l.start:l.current]
	switch word[0] {
	case 'a':
		return checkKeyword(word, 1, "nd", token.And)
	case 'c':
		return checkKeyword(word, 1, "lass", token.Class)
	case 'e':
		return checkKeyword(word, 1, "lse", token.Else)
	case 'f':
		if len(word) > 1 {
			switch word[1] {
			case 'a':
				return checkKeyword(word, 2, "lse", token.False)
			case 'o':
				return checkKeyword(word, 2, "r", token.For)
			case 'u':
				return checkKeyword(word, 2, "n", token.Fun)
			}
		}
	case 'i':
		return checkKeyword(word, 1, "f", token.If)
	case 'n':
		return checkKeyword(word, 1, "il", token.Nil)
	case 'o':
		return checkKeyword(word, 1, "r", token.Or)
	case 'p':
		return checkKeyword(word, 1, "rint", token.Print)
	case 'r':
		return checkKeyword(word, 1, "eturn", token.Return)
	case 's':
		return checkKeyword(word, 1, "uper", token.Super)
	case 't':
		if len(word) > 1 {
			switch word[1] {
			case 'h':
				return checkKeyword(word, 2, "is", token.This)
			case 'r':
				return checkKeyword(word, 2, "ue", token.True)
			}
		}
	case 'v':
		return checkKeyword(word, 1, "ar", token.Var)
	case 'w':
		return checkKeyword(word, 1, "hile", token.While)
	}
	return token.Identifier
}

func checkKeyword(word string, offset int, rest string, t token.Type) token.Type {
	if len(word) == offset+len(rest) && word[offset:] == rest {
		return t
	}
	return token.Identifier
}

func (l *Lexer) readNumber() token.Token {
	for isDigit(l.peekChar()) {
		l.advance()
	}
	// a trailing '.' without a digit after it is not part of the number
	if l.peekChar() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peekChar()) {
			l.advance()
		}
	}
	return l.makeToken(token.Number)
}

func (l *Lexer) readString() token.Token {
	for !l.atEnd() && l.peekChar() != '"' {
		if l.peekChar() == '\n' {
			l.line++
		}
		l.advance()
	}
	if l.atEnd() {
		return l.errorToken("Unterminated string.")
	}
	l.advance() // closing quote
	return l.makeToken(token.String)
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func (l *Lexer) atEnd() bool {
	return l.current >= len(l.input)
}

func (l *Lexer) advance() byte {
	ch := l.input[l.current]
	l.current++
	return ch
}

func (l *Lexer) peekChar() byte {
	if l.atEnd() {
		return 0
	}
	return l.input[l.current]
}

func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.input) {
		return 0
	}
	return l.input[l.current+1]
}

package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"sauravcode/internal/token"
)

// Lexer scans source text into tokens, synthesizing NEWLINE, INDENT and
// DEDENT from the physical line structure. Multi-character operators are
// matched before their single-character prefixes, and keywords before
// identifiers; both orderings are load-bearing.
type Lexer struct {
	input        string
	position     int  // current byte position (start of current rune)
	readPosition int  // next byte position (start of next rune)
	ch           rune // current rune under examination; 0 means EOF

	line int // 1-based line of the current rune
	col  int // 1-based column of the current rune

	indents []int         // open indentation widths, always starts [0]
	pending []token.Token // queued layout tokens (INDENT/DEDENT bursts)
}

func New(input string) *Lexer {
	l := &Lexer{
		input:   input,
		line:    1,
		indents: []int{0},
	}
	l.readChar()
	return l
}

// Tokenize scans the whole source. It fails on the first unrecognized
// character, reporting the character and its 1-based line.
func Tokenize(input string) ([]token.Token, error) {
	l := New(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		switch tok.Type {
		case token.ILLEGAL:
			return nil, fmt.Errorf("Unexpected character '%s' on line %d", tok.Literal, tok.Line)
		case token.EOF:
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) NextToken() token.Token {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok
	}

	l.skipWhitespace()

	var tok token.Token

	switch l.ch {
	case 0:
		l.closeIndents()
		if len(l.pending) > 0 {
			return l.NextToken()
		}
		return token.Token{Type: token.EOF, Line: l.line, Column: l.col}
	case '\n':
		tok = l.newToken(token.NEWLINE, "\n")
		l.measureIndent()
		l.readChar()
		return tok
	case '=':
		tok = l.compoundToken(token.ASSIGN, '=', token.EQ)
	case '!':
		if l.peekChar() == '=' {
			tok = l.newToken(token.NEQ, "!=")
			l.readChar()
		} else {
			tok = l.newToken(token.ILLEGAL, string(l.ch))
		}
	case '<':
		tok = l.compoundToken(token.LT, '=', token.LTE)
	case '>':
		tok = l.compoundToken(token.GT, '=', token.GTE)
	case '+', '-', '*', '/', '%':
		tok = l.newToken(token.OP, string(l.ch))
	case '(':
		tok = l.newToken(token.LPAREN, "(")
	case ')':
		tok = l.newToken(token.RPAREN, ")")
	case '[':
		tok = l.newToken(token.LBRACKET, "[")
	case ']':
		tok = l.newToken(token.RBRACKET, "]")
	case '{':
		tok = l.newToken(token.LBRACE, "{")
	case '}':
		tok = l.newToken(token.RBRACE, "}")
	case ',':
		tok = l.newToken(token.COMMA, ",")
	case ':':
		tok = l.newToken(token.COLON, ":")
	case '.':
		tok = l.newToken(token.DOT, ".")
	case '"':
		return l.readString()
	default:
		if l.ch == 'f' && l.peekChar() == '"' {
			return l.readFString()
		}
		if isLetter(l.ch) {
			return l.readWord()
		}
		if isDigit(l.ch) {
			return l.readNumber()
		}
		tok = l.newToken(token.ILLEGAL, string(l.ch))
	}

	l.readChar()
	return tok
}

// measureIndent inspects the line after the current '\n' and queues the
// INDENT/DEDENT tokens it implies. Blank and comment-only lines leave the
// indent stack untouched so that they never split an open block.
func (l *Lexer) measureIndent() {
	width := 0
	pos := l.readPosition
	for pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[pos:])
		if r == ' ' {
			width++
		} else if r == '\t' {
			width += tabWidth
		} else {
			break
		}
		pos += size
	}

	if pos >= len(l.input) {
		return // EOF closes indents separately
	}
	next, _ := utf8.DecodeRuneInString(l.input[pos:])
	if next == '\n' || next == '\r' || next == '#' {
		return
	}

	top := l.indents[len(l.indents)-1]
	if width > top {
		l.indents = append(l.indents, width)
		l.pending = append(l.pending, token.Token{Type: token.INDENT, Line: l.line + 1, Column: 1})
	} else if width < top {
		for len(l.indents) > 1 && width < l.indents[len(l.indents)-1] {
			l.indents = l.indents[:len(l.indents)-1]
			l.pending = append(l.pending, token.Token{Type: token.DEDENT, Line: l.line + 1, Column: 1})
		}
	}
}

// closeIndents queues a DEDENT for every indentation level still open at
// end of input.
func (l *Lexer) closeIndents() {
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.pending = append(l.pending, token.Token{Type: token.DEDENT, Line: l.line, Column: l.col})
	}
}

// readWord scans an identifier or keyword. "else" followed by exactly one
// space and a word-boundary "if" lexes as the single keyword "else if".
func (l *Lexer) readWord() token.Token {
	line, col := l.line, l.col
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	word := l.input[start:l.position]

	if word == "else" && l.ch == ' ' && l.followedByIf() {
		l.readChar() // the space
		l.readChar() // 'i'
		l.readChar() // 'f'
		return token.Token{Type: token.KEYWORD, Literal: "else if", Line: line, Column: col}
	}

	return token.Token{Type: token.LookupIdent(word), Literal: word, Line: line, Column: col}
}

// followedByIf reports whether the text at the read position is "if" ending
// at a word boundary. Called with l.ch on the single space after "else".
func (l *Lexer) followedByIf() bool {
	rest := l.input[l.readPosition:]
	if len(rest) < 2 || rest[0] != 'i' || rest[1] != 'f' {
		return false
	}
	if len(rest) == 2 {
		return true
	}
	r, _ := utf8.DecodeRuneInString(rest[2:])
	return !isLetter(r) && !isDigit(r)
}

// readNumber scans digits with an optional fractional part. A trailing dot
// with no digits after it stays part of the number, matching the language's
// original number pattern.
func (l *Lexer) readNumber() token.Token {
	line, col := l.line, l.col
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return token.Token{Type: token.NUMBER, Literal: l.input[start:l.position], Line: line, Column: col}
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

// readChar advances by one UTF-8 rune, updating byte positions and the
// line/column bookkeeping.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.col++
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
	l.col++
}

// peekChar returns the next rune without advancing; returns 0 at EOF
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) compoundToken(t token.TokenType, next rune, t2 token.TokenType) token.Token {
	if l.peekChar() == next {
		first := l.ch
		tok := l.newToken(t2, string(first)+string(next))
		l.readChar()
		return tok
	}
	return l.newToken(t, string(l.ch))
}

func (l *Lexer) newToken(tokenType token.TokenType, literal string) token.Token {
	return token.Token{Type: tokenType, Literal: literal, Line: l.line, Column: l.col}
}

const tabWidth = 4

// Unicode-aware helpers
func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

package lexer

import (
	"strings"

	"sauravcode/internal/token"
)

// readString scans a double-quoted string literal. The opening quote is the
// current rune. Escape sequences are decoded here, so the token literal is
// the final string value. An unterminated string reports the opening quote
// as the illegal character.
func (l *Lexer) readString() token.Token {
	line, col := l.line, l.col
	raw, ok := l.scanQuoted()
	if !ok {
		return token.Token{Type: token.ILLEGAL, Literal: `"`, Line: line, Column: col}
	}
	return token.Token{Type: token.STRING, Literal: DecodeEscapes(raw), Line: line, Column: col}
}

// readFString scans an f-prefixed string literal into a single FSTRING
// token. The literal keeps the raw inner text: brace splitting and escape
// decoding happen in the parser, which needs the braces intact.
func (l *Lexer) readFString() token.Token {
	line, col := l.line, l.col
	l.readChar() // the 'f'
	raw, ok := l.scanQuoted()
	if !ok {
		return token.Token{Type: token.ILLEGAL, Literal: `"`, Line: line, Column: col}
	}
	return token.Token{Type: token.FSTRING, Literal: raw, Line: line, Column: col}
}

// scanQuoted consumes from the opening quote through the closing quote and
// returns the raw text between them. Backslash escapes are kept but shield
// the following rune, so an escaped quote does not terminate the scan.
// Reports false when a newline or end of input arrives first.
func (l *Lexer) scanQuoted() (string, bool) {
	var raw strings.Builder
	l.readChar() // the opening '"'
	for {
		switch l.ch {
		case 0, '\n':
			return "", false
		case '"':
			l.readChar()
			return raw.String(), true
		case '\\':
			raw.WriteRune(l.ch)
			l.readChar()
			if l.ch == 0 || l.ch == '\n' {
				return "", false
			}
			raw.WriteRune(l.ch)
			l.readChar()
		default:
			raw.WriteRune(l.ch)
			l.readChar()
		}
	}
}

// DecodeEscapes rewrites backslash escapes to the characters they name.
// Unknown escapes keep the backslash, so "\d" stays "\d".
func DecodeEscapes(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var out strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '\\' || i+1 == len(runes) {
			out.WriteRune(runes[i])
			continue
		}
		i++
		switch runes[i] {
		case 'n':
			out.WriteRune('\n')
		case 't':
			out.WriteRune('\t')
		case '\\':
			out.WriteRune('\\')
		case '"':
			out.WriteRune('"')
		default:
			out.WriteRune('\\')
			out.WriteRune(runes[i])
		}
	}
	return out.String()
}

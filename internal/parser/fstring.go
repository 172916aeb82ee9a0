package parser

import (
	"fmt"
	"strings"

	"sauravcode/internal/ast"
	"sauravcode/internal/lexer"
	"sauravcode/internal/token"
	"sauravcode/internal/util"
)

// parseFString splits raw f-string text into alternating literal and
// expression parts. {{ and }} are literal braces; a single { opens an
// embedded expression closed by its matching } (brace depth counted), whose
// contents are tokenized and parsed as a full expression.
func (p *Parser) parseFString(tok token.Token) (ast.Expression, error) {
	var parts []ast.Expression
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			parts = append(parts, &ast.StringLiteral{Token: tok, Value: lexer.DecodeEscapes(text.String())})
			text.Reset()
		}
	}

	runes := []rune(tok.Literal)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '{':
			if i+1 < len(runes) && runes[i+1] == '{' {
				text.WriteRune('{')
				i++
				continue
			}
			end, err := matchingBrace(runes, i, tok)
			if err != nil {
				return nil, err
			}
			expr, err := parseEmbedded(string(runes[i+1:end]), tok)
			if err != nil {
				return nil, err
			}
			flush()
			parts = append(parts, expr)
			i = end
		case '}':
			if i+1 < len(runes) && runes[i+1] == '}' {
				text.WriteRune('}')
				i++
				continue
			}
			return nil, fstringError(tok, "Unmatched '}' in f-string")
		default:
			text.WriteRune(runes[i])
		}
	}
	flush()

	return &ast.FStringLiteral{Token: tok, Parts: parts}, nil
}

// matchingBrace returns the index of the } closing the { at open, counting
// nested braces.
func matchingBrace(runes []rune, open int, tok token.Token) (int, error) {
	depth := 0
	for i := open; i < len(runes); i++ {
		switch runes[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fstringError(tok, "Unmatched '{' in f-string")
}

// parseEmbedded runs the embedded text through the regular lexer and
// expression grammar. The text must form exactly one full expression.
func parseEmbedded(src string, tok token.Token) (ast.Expression, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fstringError(tok, "Empty expression in f-string")
	}
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, fstringError(tok, fmt.Sprintf("invalid expression in f-string: %v", err))
	}
	sub := New(tokens)
	expr, err := sub.parseExpression()
	if err != nil {
		return nil, err
	}
	if !sub.atEnd() {
		c := sub.cur()
		return nil, fstringError(tok, fmt.Sprintf("unexpected token %s (%q) in f-string expression", c.Type, c.Literal))
	}
	return expr, nil
}

func fstringError(tok token.Token, msg string) error {
	return &util.PosError{Line: tok.Line, Column: tok.Column, Msg: msg}
}

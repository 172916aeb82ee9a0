package parser

import (
	"fmt"
	"strconv"

	"sauravcode/internal/ast"
	"sauravcode/internal/token"
	"sauravcode/internal/util"
)

// Parser turns the token stream into the statement list. The grammar is
// layered recursive descent; parsing stops at the first error. Expression
// precedence, low to high: or, and, comparison (non-associative), additive,
// multiplicative, unary, postfix indexing, atom.
type Parser struct {
	tokens []token.Token
	pos    int
}

func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse is the one-shot entry point used by the CLI and the REPL.
func Parse(tokens []token.Token) ([]ast.Statement, error) {
	return New(tokens).ParseProgram()
}

func (p *Parser) ParseProgram() ([]ast.Statement, error) {
	var statements []ast.Statement
	for !p.atEnd() {
		p.skipNewlines()
		if p.atEnd() {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements, nil
}

func (p *Parser) atEnd() bool { return p.pos >= len(p.tokens) }

// cur returns the current token, or a synthetic EOF once the stream is
// exhausted so that lookahead never panics.
func (p *Parser) cur() token.Token {
	if p.atEnd() {
		if n := len(p.tokens); n > 0 {
			last := p.tokens[n-1]
			return token.Token{Type: token.EOF, Line: last.Line, Column: last.Column}
		}
		return token.Token{Type: token.EOF, Line: 1, Column: 1}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() token.Token {
	tok := p.cur()
	if !p.atEnd() {
		p.pos++
	}
	return tok
}

func (p *Parser) curIs(t token.TokenType) bool { return p.cur().Type == t }

func (p *Parser) curKeyword(word string) bool {
	c := p.cur()
	return c.Type == token.KEYWORD && c.Literal == word
}

func (p *Parser) skipNewlines() {
	for p.curIs(token.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) expect(t token.TokenType) (token.Token, error) {
	if p.curIs(t) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorf("expected next token to be %s, got %s instead", t, p.cur().Type)
}

func (p *Parser) expectKeyword(word string) (token.Token, error) {
	if p.curKeyword(word) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorf("expected keyword %q, got %s (%q) instead", word, p.cur().Type, p.cur().Literal)
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	c := p.cur()
	return &util.PosError{Line: c.Line, Column: c.Column, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	tok := p.cur()
	switch tok.Type {
	case token.KEYWORD:
		switch tok.Literal {
		case "function":
			return p.parseFunctionStatement()
		case "return":
			return p.parseReturnStatement()
		case "print":
			return p.parsePrintStatement()
		case "if":
			return p.parseIfStatement()
		case "while":
			return p.parseWhileStatement()
		case "for":
			return p.parseForStatement()
		case "try":
			return p.parseTryStatement()
		case "throw":
			return p.parseThrowStatement()
		case "append":
			return p.parseAppendStatement()
		default:
			if token.IsTypeName(tok.Literal) {
				// bare type annotations are accepted and discarded
				p.advance()
				return nil, nil
			}
			return nil, p.errorf("unexpected keyword %q at start of statement", tok.Literal)
		}
	case token.IDENT:
		return p.parseIdentStatement()
	case token.NEWLINE, token.INDENT, token.DEDENT:
		p.advance()
		return nil, nil
	default:
		return nil, p.errorf("unexpected token %s (%q) at start of statement", tok.Type, tok.Literal)
	}
}

func (p *Parser) parseFunctionStatement() (ast.Statement, error) {
	tok := p.advance()
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	var params []string
	for p.curIs(token.IDENT) {
		params = append(params, p.advance().Literal)
	}
	body, err := p.parseIndentedBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionStatement{Token: tok, Name: name.Literal, Parameters: params, Body: body}, nil
}

func (p *Parser) parseReturnStatement() (ast.Statement, error) {
	tok := p.advance()
	if p.curIs(token.NEWLINE) || p.curIs(token.DEDENT) || p.atEnd() {
		return &ast.ReturnStatement{Token: tok}, nil
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStatement{Token: tok, Value: value}, nil
}

func (p *Parser) parsePrintStatement() (ast.Statement, error) {
	tok := p.advance()
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.PrintStatement{Token: tok, Value: value}, nil
}

func (p *Parser) parseThrowStatement() (ast.Statement, error) {
	tok := p.advance()
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.ThrowStatement{Token: tok, Value: value}, nil
}

func (p *Parser) parseAppendStatement() (ast.Statement, error) {
	tok := p.advance()
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.AppendStatement{Token: tok, Name: name.Literal, Value: value}, nil
}

func (p *Parser) parseIfStatement() (ast.Statement, error) {
	tok := p.advance()
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	consequence, err := p.parseIndentedBlock()
	if err != nil {
		return nil, err
	}

	var elseIfs []*ast.ElseIfClause
	for p.curKeyword("else if") {
		eiTok := p.advance()
		eiCond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		eiBody, err := p.parseIndentedBlock()
		if err != nil {
			return nil, err
		}
		elseIfs = append(elseIfs, &ast.ElseIfClause{Token: eiTok, Condition: eiCond, Body: eiBody})
	}

	var alternative []ast.Statement
	if p.curKeyword("else") {
		p.advance()
		alternative, err = p.parseIndentedBlock()
		if err != nil {
			return nil, err
		}
	}

	return &ast.IfStatement{
		Token:       tok,
		Condition:   condition,
		Consequence: consequence,
		ElseIfs:     elseIfs,
		Alternative: alternative,
	}, nil
}

func (p *Parser) parseWhileStatement() (ast.Statement, error) {
	tok := p.advance()
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseIndentedBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Token: tok, Condition: condition, Body: body}, nil
}

// parseForStatement parses `for <var> <start> <end>`. The bounds are atoms,
// so `for i 0 len words` reads the way it looks.
func (p *Parser) parseForStatement() (ast.Statement, error) {
	tok := p.advance()
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	start, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	end, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	body, err := p.parseIndentedBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ForStatement{Token: tok, Var: name.Literal, Start: start, End: end, Body: body}, nil
}

func (p *Parser) parseTryStatement() (ast.Statement, error) {
	tok := p.advance()
	body, err := p.parseIndentedBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("catch"); err != nil {
		return nil, err
	}
	catchVar, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	handler, err := p.parseIndentedBlock()
	if err != nil {
		return nil, err
	}
	return &ast.TryStatement{Token: tok, Body: body, CatchVar: catchVar.Literal, Handler: handler}, nil
}

// parseIdentStatement handles every statement that begins with an
// identifier: assignment, indexed assignment, a bare call, or a plain
// identifier reference.
func (p *Parser) parseIdentStatement() (ast.Statement, error) {
	name := p.advance()

	switch {
	case p.curIs(token.ASSIGN):
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.AssignStatement{Token: name, Name: name.Literal, Value: value}, nil

	case p.curIs(token.LBRACKET):
		bracket := p.advance()
		index, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
		if p.curIs(token.ASSIGN) {
			p.advance()
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			return &ast.IndexAssignStatement{Token: name, Name: name.Literal, Index: index, Value: value}, nil
		}
		// a read access; fold any further index chains
		var node ast.Expression = &ast.IndexExpression{
			Token: bracket,
			Left:  &ast.Identifier{Token: name, Value: name.Literal},
			Index: index,
		}
		for p.curIs(token.LBRACKET) {
			b := p.advance()
			idx, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			node = &ast.IndexExpression{Token: b, Left: node, Index: idx}
		}
		return &ast.ExpressionStatement{Token: name, Expression: node}, nil

	default:
		if p.curStartsArgument() {
			args, err := p.parseCallArguments()
			if err != nil {
				return nil, err
			}
			call := &ast.CallExpression{Token: name, Name: name.Literal, Arguments: args}
			return &ast.ExpressionStatement{Token: name, Expression: call}, nil
		}
		ident := &ast.Identifier{Token: name, Value: name.Literal}
		return &ast.ExpressionStatement{Token: name, Expression: ident}, nil
	}
}

// parseIndentedBlock consumes NEWLINE INDENT statement* DEDENT.
func (p *Parser) parseIndentedBlock() ([]ast.Statement, error) {
	if _, err := p.expect(token.NEWLINE); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.INDENT); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DEDENT); err != nil {
		return nil, err
	}
	return body, nil
}

func (p *Parser) parseBlock() ([]ast.Statement, error) {
	var statements []ast.Statement
	for !p.atEnd() && !p.curIs(token.DEDENT) {
		if p.curIs(token.NEWLINE) {
			p.advance()
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements, nil
}

// Expression layers.

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseLogicalOr()
}

func (p *Parser) parseLogicalOr() (ast.Expression, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.curKeyword("or") {
		tok := p.advance()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpression{Token: tok, Left: left, Operator: "or", Right: right}
	}
	return left, nil
}

func (p *Parser) parseLogicalAnd() (ast.Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.curKeyword("and") {
		tok := p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpression{Token: tok, Left: left, Operator: "and", Right: right}
	}
	return left, nil
}

// parseComparison admits at most one comparison operator, so chains like
// a < b < c do not parse.
func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	switch p.cur().Type {
	case token.EQ, token.NEQ, token.LT, token.GT, token.LTE, token.GTE:
		tok := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &ast.CompareExpression{Token: tok, Left: left, Operator: tok.Literal, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.curIs(token.OP) && (p.cur().Literal == "+" || p.cur().Literal == "-") {
		tok := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Token: tok, Left: left, Operator: tok.Literal, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.curIs(token.OP) && (p.cur().Literal == "*" || p.cur().Literal == "/" || p.cur().Literal == "%") {
		tok := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Token: tok, Left: left, Operator: tok.Literal, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.curKeyword("not") {
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.PrefixExpression{Token: tok, Operator: "not", Right: operand}, nil
	}
	if p.curIs(token.OP) && p.cur().Literal == "-" {
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.PrefixExpression{Token: tok, Operator: "-", Right: operand}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expression, error) {
	node, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.curIs(token.LBRACKET) {
		tok := p.advance()
		index, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
		node = &ast.IndexExpression{Token: tok, Left: node, Index: index}
	}
	return node, nil
}

func (p *Parser) parseAtom() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Type {
	case token.NUMBER:
		p.advance()
		value, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, p.errorf("could not parse %q as number", tok.Literal)
		}
		return &ast.NumberLiteral{Token: tok, Value: value}, nil

	case token.STRING:
		p.advance()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}, nil

	case token.FSTRING:
		p.advance()
		return p.parseFString(tok)

	case token.KEYWORD:
		switch tok.Literal {
		case "true", "false":
			p.advance()
			return &ast.BooleanLiteral{Token: tok, Value: tok.Literal == "true"}, nil
		case "len":
			p.advance()
			arg, err := p.parseAtom()
			if err != nil {
				return nil, err
			}
			return &ast.LenExpression{Token: tok, Value: arg}, nil
		case "not":
			p.advance()
			operand, err := p.parseAtom()
			if err != nil {
				return nil, err
			}
			return &ast.PrefixExpression{Token: tok, Operator: "not", Right: operand}, nil
		}
		return nil, p.errorf("unexpected keyword %q in expression", tok.Literal)

	case token.LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil

	case token.LBRACKET:
		return p.parseListLiteral()

	case token.LBRACE:
		return p.parseMapLiteral()

	case token.IDENT:
		p.advance()
		// An identifier directly followed by a value-starting token is a
		// call; `name[` stays an identifier so postfix indexing applies.
		if p.curStartsCall() {
			args, err := p.parseCallArguments()
			if err != nil {
				return nil, err
			}
			return &ast.CallExpression{Token: tok, Name: tok.Literal, Arguments: args}, nil
		}
		return &ast.Identifier{Token: tok, Value: tok.Literal}, nil
	}

	return nil, p.errorf("unexpected token %s (%q) in expression", tok.Type, tok.Literal)
}

// curStartsCall reports whether the current token turns a preceding bare
// identifier into a call.
func (p *Parser) curStartsCall() bool {
	switch c := p.cur(); c.Type {
	case token.NUMBER, token.STRING, token.FSTRING, token.IDENT, token.LPAREN:
		return true
	case token.KEYWORD:
		switch c.Literal {
		case "true", "false", "not", "len":
			return true
		}
	}
	return false
}

// curStartsArgument matches the argument-loop condition: everything in
// curStartsCall plus a list literal, which can be an argument but does not
// by itself turn an identifier into a call.
func (p *Parser) curStartsArgument() bool {
	return p.curStartsCall() || p.curIs(token.LBRACKET) || p.curIs(token.LBRACE)
}

// parseCallArguments collects space-separated atoms. An identifier argument
// may itself open a nested call, which then consumes the remaining atoms;
// parenthesize arguments to keep them apart.
func (p *Parser) parseCallArguments() ([]ast.Expression, error) {
	var args []ast.Expression
	for p.curStartsArgument() {
		arg, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

func (p *Parser) parseListLiteral() (ast.Expression, error) {
	tok, err := p.expect(token.LBRACKET)
	if err != nil {
		return nil, err
	}
	var elements []ast.Expression
	if !p.curIs(token.RBRACKET) {
		for {
			elem, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elements = append(elements, elem)
			if !p.curIs(token.COMMA) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.ListLiteral{Token: tok, Elements: elements}, nil
}

func (p *Parser) parseMapLiteral() (ast.Expression, error) {
	tok, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	var keys, values []ast.Expression
	if !p.curIs(token.RBRACE) {
		for {
			key, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.COLON); err != nil {
				return nil, err
			}
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
			values = append(values, value)
			if !p.curIs(token.COMMA) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.MapLiteral{Token: tok, Keys: keys, Values: values}, nil
}

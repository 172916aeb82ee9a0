package ast

import (
	"bytes"
	"strings"

	"sauravcode/internal/token"
)

// Node is implemented by every AST element. The node set is closed: the
// evaluator dispatches on concrete type and treats anything else as a bug.
type Node interface {
	TokenLiteral() string
	String() string
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

// Program is the root: the ordered top-level statement list of a source unit.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

func writeBlock(out *bytes.Buffer, body []Statement) {
	for _, s := range body {
		out.WriteString("    ")
		out.WriteString(s.String())
		out.WriteString("\n")
	}
}

// AssignStatement binds the result of Value to Name in the variable table.
type AssignStatement struct {
	Token token.Token // the IDENT token
	Name  string
	Value Expression
}

func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Literal }
func (as *AssignStatement) String() string {
	return as.Name + " = " + as.Value.String()
}

// IndexAssignStatement writes through a single index on a named list or map.
type IndexAssignStatement struct {
	Token token.Token // the IDENT token
	Name  string
	Index Expression
	Value Expression
}

func (ia *IndexAssignStatement) statementNode()       {}
func (ia *IndexAssignStatement) TokenLiteral() string { return ia.Token.Literal }
func (ia *IndexAssignStatement) String() string {
	return ia.Name + "[" + ia.Index.String() + "] = " + ia.Value.String()
}

// FunctionStatement stores a definition in the function table. Later
// definitions of the same name overwrite earlier ones.
type FunctionStatement struct {
	Token      token.Token // the 'function' keyword
	Name       string
	Parameters []string
	Body       []Statement
}

func (fs *FunctionStatement) statementNode()       {}
func (fs *FunctionStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *FunctionStatement) String() string {
	var out bytes.Buffer
	out.WriteString("function ")
	out.WriteString(fs.Name)
	for _, p := range fs.Parameters {
		out.WriteString(" ")
		out.WriteString(p)
	}
	out.WriteString("\n")
	writeBlock(&out, fs.Body)
	return out.String()
}

type ReturnStatement struct {
	Token token.Token
	Value Expression // nil for a bare return
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) String() string {
	if rs.Value == nil {
		return "return"
	}
	return "return " + rs.Value.String()
}

type PrintStatement struct {
	Token token.Token
	Value Expression
}

func (ps *PrintStatement) statementNode()       {}
func (ps *PrintStatement) TokenLiteral() string { return ps.Token.Literal }
func (ps *PrintStatement) String() string {
	return "print " + ps.Value.String()
}

// ElseIfClause is one arm of an "else if" chain.
type ElseIfClause struct {
	Token     token.Token
	Condition Expression
	Body      []Statement
}

func (ec *ElseIfClause) String() string {
	var out bytes.Buffer
	out.WriteString("else if ")
	out.WriteString(ec.Condition.String())
	out.WriteString("\n")
	writeBlock(&out, ec.Body)
	return out.String()
}

type IfStatement struct {
	Token       token.Token
	Condition   Expression
	Consequence []Statement
	ElseIfs     []*ElseIfClause
	Alternative []Statement // nil when there is no else
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if ")
	out.WriteString(is.Condition.String())
	out.WriteString("\n")
	writeBlock(&out, is.Consequence)
	for _, ei := range is.ElseIfs {
		out.WriteString(ei.String())
	}
	if is.Alternative != nil {
		out.WriteString("else\n")
		writeBlock(&out, is.Alternative)
	}
	return out.String()
}

type WhileStatement struct {
	Token     token.Token
	Condition Expression
	Body      []Statement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) String() string {
	var out bytes.Buffer
	out.WriteString("while ")
	out.WriteString(ws.Condition.String())
	out.WriteString("\n")
	writeBlock(&out, ws.Body)
	return out.String()
}

// ForStatement iterates Var over the integer range [Start, End).
type ForStatement struct {
	Token token.Token
	Var   string
	Start Expression
	End   Expression
	Body  []Statement
}

func (fs *ForStatement) statementNode()       {}
func (fs *ForStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *ForStatement) String() string {
	var out bytes.Buffer
	out.WriteString("for ")
	out.WriteString(fs.Var)
	out.WriteString(" ")
	out.WriteString(fs.Start.String())
	out.WriteString(" ")
	out.WriteString(fs.End.String())
	out.WriteString("\n")
	writeBlock(&out, fs.Body)
	return out.String()
}

// TryStatement runs Body; a runtime or thrown error binds its message to
// CatchVar and runs Handler instead of propagating.
type TryStatement struct {
	Token    token.Token
	Body     []Statement
	CatchVar string
	Handler  []Statement
}

func (ts *TryStatement) statementNode()       {}
func (ts *TryStatement) TokenLiteral() string { return ts.Token.Literal }
func (ts *TryStatement) String() string {
	var out bytes.Buffer
	out.WriteString("try\n")
	writeBlock(&out, ts.Body)
	out.WriteString("catch ")
	out.WriteString(ts.CatchVar)
	out.WriteString("\n")
	writeBlock(&out, ts.Handler)
	return out.String()
}

type ThrowStatement struct {
	Token token.Token
	Value Expression
}

func (ts *ThrowStatement) statementNode()       {}
func (ts *ThrowStatement) TokenLiteral() string { return ts.Token.Literal }
func (ts *ThrowStatement) String() string {
	return "throw " + ts.Value.String()
}

// AppendStatement mutates the named list in place.
type AppendStatement struct {
	Token token.Token
	Name  string
	Value Expression
}

func (as *AppendStatement) statementNode()       {}
func (as *AppendStatement) TokenLiteral() string { return as.Token.Literal }
func (as *AppendStatement) String() string {
	return "append " + as.Name + " " + as.Value.String()
}

type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String()
	}
	return ""
}

type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (nl *NumberLiteral) expressionNode()      {}
func (nl *NumberLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NumberLiteral) String() string       { return nl.Token.Literal }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return "\"" + sl.Value + "\"" }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *BooleanLiteral) String() string       { return bl.Token.Literal }

type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// BinaryExpression covers the arithmetic operators + - * / %.
type BinaryExpression struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (be *BinaryExpression) expressionNode()      {}
func (be *BinaryExpression) TokenLiteral() string { return be.Token.Literal }
func (be *BinaryExpression) String() string {
	return "(" + be.Left.String() + " " + be.Operator + " " + be.Right.String() + ")"
}

// CompareExpression is non-associative: the grammar admits at most one
// comparison per expression level, so neither side is itself a comparison.
type CompareExpression struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (ce *CompareExpression) expressionNode()      {}
func (ce *CompareExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CompareExpression) String() string {
	return "(" + ce.Left.String() + " " + ce.Operator + " " + ce.Right.String() + ")"
}

// LogicalExpression covers 'and' / 'or'; evaluation short-circuits.
type LogicalExpression struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (le *LogicalExpression) expressionNode()      {}
func (le *LogicalExpression) TokenLiteral() string { return le.Token.Literal }
func (le *LogicalExpression) String() string {
	return "(" + le.Left.String() + " " + le.Operator + " " + le.Right.String() + ")"
}

// PrefixExpression covers unary 'not' and numeric negation.
type PrefixExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) String() string {
	if pe.Operator == "not" {
		return "(not " + pe.Right.String() + ")"
	}
	return "(" + pe.Operator + pe.Right.String() + ")"
}

type ListLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (ll *ListLiteral) expressionNode()      {}
func (ll *ListLiteral) TokenLiteral() string { return ll.Token.Literal }
func (ll *ListLiteral) String() string {
	elems := make([]string, 0, len(ll.Elements))
	for _, e := range ll.Elements {
		elems = append(elems, e.String())
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

// MapLiteral keeps keys and values as parallel slices so that literal
// evaluation preserves source order, which map rendering depends on.
type MapLiteral struct {
	Token  token.Token
	Keys   []Expression
	Values []Expression
}

func (ml *MapLiteral) expressionNode()      {}
func (ml *MapLiteral) TokenLiteral() string { return ml.Token.Literal }
func (ml *MapLiteral) String() string {
	pairs := make([]string, 0, len(ml.Keys))
	for i, k := range ml.Keys {
		pairs = append(pairs, k.String()+": "+ml.Values[i].String())
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

type IndexExpression struct {
	Token token.Token // the '[' token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IndexExpression) String() string {
	return "(" + ie.Left.String() + "[" + ie.Index.String() + "])"
}

// LenExpression is the 'len' keyword applied to a single atom.
type LenExpression struct {
	Token token.Token
	Value Expression
}

func (le *LenExpression) expressionNode()      {}
func (le *LenExpression) TokenLiteral() string { return le.Token.Literal }
func (le *LenExpression) String() string       { return "(len " + le.Value.String() + ")" }

// CallExpression is a bare call: an identifier followed by space-separated
// atom arguments. Calls are always by name; functions are not values.
type CallExpression struct {
	Token     token.Token // the IDENT token of the callee
	Name      string
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) String() string {
	var out bytes.Buffer
	out.WriteString(ce.Name)
	for _, a := range ce.Arguments {
		out.WriteString(" ")
		out.WriteString(a.String())
	}
	return out.String()
}

// FStringLiteral alternates literal text (StringLiteral) and embedded
// expression nodes in source order.
type FStringLiteral struct {
	Token token.Token
	Parts []Expression
}

func (fl *FStringLiteral) expressionNode()      {}
func (fl *FStringLiteral) TokenLiteral() string { return fl.Token.Literal }
func (fl *FStringLiteral) String() string       { return fl.Token.Literal }

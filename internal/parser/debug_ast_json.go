package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"sauravcode/internal/ast"
)

// WalkAST serializes a node into a map structure for tool consumption. The
// shape is stable: every node carries a "type" tag plus its fields.
func WalkAST(node ast.Node) interface{} {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return nil
	}

	switch n := node.(type) {
	case *ast.Program:
		return map[string]interface{}{
			"type":       "Program",
			"statements": walkStatements(n.Statements),
		}

	case *ast.AssignStatement:
		return map[string]interface{}{
			"type":  "AssignStatement",
			"name":  n.Name,
			"value": WalkAST(n.Value),
		}

	case *ast.IndexAssignStatement:
		return map[string]interface{}{
			"type":  "IndexAssignStatement",
			"name":  n.Name,
			"index": WalkAST(n.Index),
			"value": WalkAST(n.Value),
		}

	case *ast.FunctionStatement:
		return map[string]interface{}{
			"type":       "FunctionStatement",
			"name":       n.Name,
			"parameters": n.Parameters,
			"body":       walkStatements(n.Body),
		}

	case *ast.ReturnStatement:
		return map[string]interface{}{
			"type":  "ReturnStatement",
			"value": WalkAST(n.Value),
		}

	case *ast.PrintStatement:
		return map[string]interface{}{
			"type":  "PrintStatement",
			"value": WalkAST(n.Value),
		}

	case *ast.IfStatement:
		elseIfs := make([]interface{}, len(n.ElseIfs))
		for i, ei := range n.ElseIfs {
			elseIfs[i] = map[string]interface{}{
				"condition": WalkAST(ei.Condition),
				"body":      walkStatements(ei.Body),
			}
		}
		return map[string]interface{}{
			"type":        "IfStatement",
			"condition":   WalkAST(n.Condition),
			"consequence": walkStatements(n.Consequence),
			"elseIfs":     elseIfs,
			"alternative": walkStatements(n.Alternative),
		}

	case *ast.WhileStatement:
		return map[string]interface{}{
			"type":      "WhileStatement",
			"condition": WalkAST(n.Condition),
			"body":      walkStatements(n.Body),
		}

	case *ast.ForStatement:
		return map[string]interface{}{
			"type":  "ForStatement",
			"var":   n.Var,
			"start": WalkAST(n.Start),
			"end":   WalkAST(n.End),
			"body":  walkStatements(n.Body),
		}

	case *ast.TryStatement:
		return map[string]interface{}{
			"type":     "TryStatement",
			"body":     walkStatements(n.Body),
			"catchVar": n.CatchVar,
			"handler":  walkStatements(n.Handler),
		}

	case *ast.ThrowStatement:
		return map[string]interface{}{
			"type":  "ThrowStatement",
			"value": WalkAST(n.Value),
		}

	case *ast.AppendStatement:
		return map[string]interface{}{
			"type":  "AppendStatement",
			"name":  n.Name,
			"value": WalkAST(n.Value),
		}

	case *ast.ExpressionStatement:
		return map[string]interface{}{
			"type":       "ExpressionStatement",
			"expression": WalkAST(n.Expression),
		}

	case *ast.NumberLiteral:
		return map[string]interface{}{
			"type":  "NumberLiteral",
			"value": n.Value,
		}

	case *ast.StringLiteral:
		return map[string]interface{}{
			"type":  "StringLiteral",
			"value": n.Value,
		}

	case *ast.BooleanLiteral:
		return map[string]interface{}{
			"type":  "BooleanLiteral",
			"value": n.Value,
		}

	case *ast.Identifier:
		return map[string]interface{}{
			"type":  "Identifier",
			"value": n.Value,
		}

	case *ast.BinaryExpression:
		return map[string]interface{}{
			"type":     "BinaryExpression",
			"left":     WalkAST(n.Left),
			"operator": n.Operator,
			"right":    WalkAST(n.Right),
		}

	case *ast.CompareExpression:
		return map[string]interface{}{
			"type":     "CompareExpression",
			"left":     WalkAST(n.Left),
			"operator": n.Operator,
			"right":    WalkAST(n.Right),
		}

	case *ast.LogicalExpression:
		return map[string]interface{}{
			"type":     "LogicalExpression",
			"left":     WalkAST(n.Left),
			"operator": n.Operator,
			"right":    WalkAST(n.Right),
		}

	case *ast.PrefixExpression:
		return map[string]interface{}{
			"type":     "PrefixExpression",
			"operator": n.Operator,
			"right":    WalkAST(n.Right),
		}

	case *ast.ListLiteral:
		elements := make([]interface{}, len(n.Elements))
		for i, el := range n.Elements {
			elements[i] = WalkAST(el)
		}
		return map[string]interface{}{
			"type":     "ListLiteral",
			"elements": elements,
		}

	case *ast.MapLiteral:
		pairs := make([]interface{}, len(n.Keys))
		for i := range n.Keys {
			pairs[i] = map[string]interface{}{
				"key":   WalkAST(n.Keys[i]),
				"value": WalkAST(n.Values[i]),
			}
		}
		return map[string]interface{}{
			"type":  "MapLiteral",
			"pairs": pairs,
		}

	case *ast.IndexExpression:
		return map[string]interface{}{
			"type":  "IndexExpression",
			"left":  WalkAST(n.Left),
			"index": WalkAST(n.Index),
		}

	case *ast.LenExpression:
		return map[string]interface{}{
			"type":  "LenExpression",
			"value": WalkAST(n.Value),
		}

	case *ast.CallExpression:
		args := make([]interface{}, len(n.Arguments))
		for i, arg := range n.Arguments {
			args[i] = WalkAST(arg)
		}
		return map[string]interface{}{
			"type":      "CallExpression",
			"name":      n.Name,
			"arguments": args,
		}

	case *ast.FStringLiteral:
		parts := make([]interface{}, len(n.Parts))
		for i, part := range n.Parts {
			parts[i] = WalkAST(part)
		}
		return map[string]interface{}{
			"type":  "FStringLiteral",
			"parts": parts,
		}

	default:
		return map[string]interface{}{
			"type": "Unknown",
			"node": fmt.Sprintf("%T", n),
		}
	}
}

func walkStatements(statements []ast.Statement) []interface{} {
	out := make([]interface{}, len(statements))
	for i, s := range statements {
		out[i] = WalkAST(s)
	}
	return out
}

// RenderASTAsJSON renders a parsed program for the -debug-ast flag. The
// root of the document is a Program node wrapping the statement list.
func RenderASTAsJSON(statements []ast.Statement) (string, error) {
	buf := new(bytes.Buffer)
	encoder := json.NewEncoder(buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	program := &ast.Program{Statements: statements}
	if err := encoder.Encode(WalkAST(program)); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %v", err)
	}
	return buf.String(), nil
}

package parser

import (
	"errors"
	"strings"
	"testing"

	"sauravcode/internal/ast"
	"sauravcode/internal/lexer"
	"sauravcode/internal/util"
)

func parseSource(t *testing.T, input string) []ast.Statement {
	t.Helper()
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}
	program, err := Parse(tokens)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return program
}

func parseError(t *testing.T, input string) error {
	t.Helper()
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}
	_, err = Parse(tokens)
	if err == nil {
		t.Fatalf("expected parse error for %q", input)
	}
	return err
}

func singleStatement(t *testing.T, input string) ast.Statement {
	t.Helper()
	program := parseSource(t, input)
	if len(program) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program))
	}
	return program[0]
}

func TestAssignStatement(t *testing.T) {
	stmt := singleStatement(t, "x = 5 + 3")
	assign, ok := stmt.(*ast.AssignStatement)
	if !ok {
		t.Fatalf("expected *ast.AssignStatement, got %T", stmt)
	}
	if assign.Name != "x" {
		t.Errorf("expected name %q, got %q", "x", assign.Name)
	}
	if assign.Value.String() != "(5 + 3)" {
		t.Errorf("expected value %q, got %q", "(5 + 3)", assign.Value.String())
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x = 1 + 2 * 3", "(1 + (2 * 3))"},
		{"x = (1 + 2) * 3", "((1 + 2) * 3)"},
		{"x = 1 + 2 - 3", "((1 + 2) - 3)"},
		{"x = 10 / 2 % 3", "((10 / 2) % 3)"},
		{"x = -1 + 2", "((-1) + 2)"},
		{"x = 1 < 2 and 3 < 4", "((1 < 2) and (3 < 4))"},
		{"x = a and b or c", "((a and b) or c)"},
		{"x = not a and b", "((not a) and b)"},
		{"x = len y + 1", "((len y) + 1)"},
		{"x = items[0] + 1", "((items[0]) + 1)"},
		{"x = grid[1][0]", "((grid[1])[0])"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			stmt := singleStatement(t, tt.input)
			assign := stmt.(*ast.AssignStatement)
			if got := assign.Value.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestComparisonIsNonAssociative(t *testing.T) {
	err := parseError(t, "x = 1 < 2 < 3")
	if !strings.Contains(err.Error(), "unexpected") {
		t.Errorf("expected an unexpected-token error, got %v", err)
	}
}

func TestFunctionStatement(t *testing.T) {
	input := `function add a b
    return a + b`
	stmt := singleStatement(t, input)
	fn, ok := stmt.(*ast.FunctionStatement)
	if !ok {
		t.Fatalf("expected *ast.FunctionStatement, got %T", stmt)
	}
	if fn.Name != "add" {
		t.Errorf("expected name %q, got %q", "add", fn.Name)
	}
	if len(fn.Parameters) != 2 || fn.Parameters[0] != "a" || fn.Parameters[1] != "b" {
		t.Errorf("unexpected parameters: %v", fn.Parameters)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body))
	}
	ret, ok := fn.Body[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("expected *ast.ReturnStatement, got %T", fn.Body[0])
	}
	if ret.Value.String() != "(a + b)" {
		t.Errorf("expected return value %q, got %q", "(a + b)", ret.Value.String())
	}
}

func TestBareReturn(t *testing.T) {
	input := `function f a
    return`
	stmt := singleStatement(t, input)
	fn := stmt.(*ast.FunctionStatement)
	ret := fn.Body[0].(*ast.ReturnStatement)
	if ret.Value != nil {
		t.Errorf("expected nil return value, got %s", ret.Value.String())
	}
}

func TestBareCallStatement(t *testing.T) {
	stmt := singleStatement(t, `greet "bob" 42`)
	es, ok := stmt.(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected *ast.ExpressionStatement, got %T", stmt)
	}
	call, ok := es.Expression.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected *ast.CallExpression, got %T", es.Expression)
	}
	if call.Name != "greet" {
		t.Errorf("expected callee %q, got %q", "greet", call.Name)
	}
	if len(call.Arguments) != 2 {
		t.Fatalf("expected 2 arguments, got %d", len(call.Arguments))
	}
	if call.String() != `greet "bob" 42` {
		t.Errorf("unexpected call rendering %q", call.String())
	}
}

func TestIdentifierArgumentOpensNestedCall(t *testing.T) {
	// `has_key ages "alice"` is has_key(ages("alice")): an identifier in
	// argument position swallows the atoms after it.
	stmt := singleStatement(t, `has_key ages "alice"`)
	es := stmt.(*ast.ExpressionStatement)
	outer, ok := es.Expression.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected *ast.CallExpression, got %T", es.Expression)
	}
	if len(outer.Arguments) != 1 {
		t.Fatalf("expected 1 argument, got %d", len(outer.Arguments))
	}
	inner, ok := outer.Arguments[0].(*ast.CallExpression)
	if !ok || inner.Name != "ages" {
		t.Fatalf("expected nested call on 'ages', got %T", outer.Arguments[0])
	}

	// Parenthesizing the identifier keeps the arguments apart.
	stmt = singleStatement(t, `has_key (ages) "alice"`)
	outer = stmt.(*ast.ExpressionStatement).Expression.(*ast.CallExpression)
	if len(outer.Arguments) != 2 {
		t.Fatalf("expected 2 arguments, got %d", len(outer.Arguments))
	}
}

func TestIdentifierFollowedByBracketIsIndexing(t *testing.T) {
	stmt := singleStatement(t, "x = items [0]")
	assign := stmt.(*ast.AssignStatement)
	if _, ok := assign.Value.(*ast.IndexExpression); !ok {
		t.Fatalf("expected *ast.IndexExpression, got %T", assign.Value)
	}
}

func TestCallInsideExpression(t *testing.T) {
	stmt := singleStatement(t, "x = double 4 + 1")
	assign := stmt.(*ast.AssignStatement)
	// the call binds tighter than +, and consumes only atoms
	if got := assign.Value.String(); got != "(double 4 + 1)" {
		t.Errorf("unexpected rendering %q", got)
	}
	binary, ok := assign.Value.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("expected *ast.BinaryExpression, got %T", assign.Value)
	}
	if _, ok := binary.Left.(*ast.CallExpression); !ok {
		t.Fatalf("expected call on the left of +, got %T", binary.Left)
	}
}

func TestIfElseIfElse(t *testing.T) {
	input := `if x < 0
    print "neg"
else if x == 0
    print "zero"
else if x == 1
    print "one"
else
    print "pos"`
	stmt := singleStatement(t, input)
	ifs, ok := stmt.(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected *ast.IfStatement, got %T", stmt)
	}
	if len(ifs.ElseIfs) != 2 {
		t.Errorf("expected 2 else-if clauses, got %d", len(ifs.ElseIfs))
	}
	if ifs.Alternative == nil {
		t.Errorf("expected an else block")
	}
}

func TestForStatementBoundsAreAtoms(t *testing.T) {
	input := `for i 0 len words
    print i`
	stmt := singleStatement(t, input)
	fs, ok := stmt.(*ast.ForStatement)
	if !ok {
		t.Fatalf("expected *ast.ForStatement, got %T", stmt)
	}
	if fs.Var != "i" {
		t.Errorf("expected loop var %q, got %q", "i", fs.Var)
	}
	if fs.Start.String() != "0" {
		t.Errorf("expected start %q, got %q", "0", fs.Start.String())
	}
	if fs.End.String() != "(len words)" {
		t.Errorf("expected end %q, got %q", "(len words)", fs.End.String())
	}
}

func TestTryCatch(t *testing.T) {
	input := `try
    x = risky 1
catch err
    print err`
	stmt := singleStatement(t, input)
	ts, ok := stmt.(*ast.TryStatement)
	if !ok {
		t.Fatalf("expected *ast.TryStatement, got %T", stmt)
	}
	if ts.CatchVar != "err" {
		t.Errorf("expected catch var %q, got %q", "err", ts.CatchVar)
	}
	if len(ts.Body) != 1 || len(ts.Handler) != 1 {
		t.Errorf("unexpected body/handler sizes: %d/%d", len(ts.Body), len(ts.Handler))
	}
}

func TestIndexAssignStatement(t *testing.T) {
	stmt := singleStatement(t, `ages["bob"] = 25`)
	ia, ok := stmt.(*ast.IndexAssignStatement)
	if !ok {
		t.Fatalf("expected *ast.IndexAssignStatement, got %T", stmt)
	}
	if ia.Name != "ages" {
		t.Errorf("expected name %q, got %q", "ages", ia.Name)
	}
	if ia.Index.String() != `"bob"` {
		t.Errorf("expected index %q, got %q", `"bob"`, ia.Index.String())
	}
}

func TestAppendStatement(t *testing.T) {
	stmt := singleStatement(t, "append nums x * 2")
	as, ok := stmt.(*ast.AppendStatement)
	if !ok {
		t.Fatalf("expected *ast.AppendStatement, got %T", stmt)
	}
	if as.Name != "nums" {
		t.Errorf("expected name %q, got %q", "nums", as.Name)
	}
	if as.Value.String() != "(x * 2)" {
		t.Errorf("expected value %q, got %q", "(x * 2)", as.Value.String())
	}
}

func TestListAndMapLiterals(t *testing.T) {
	stmt := singleStatement(t, `x = [1, "two", [3]]`)
	assign := stmt.(*ast.AssignStatement)
	list, ok := assign.Value.(*ast.ListLiteral)
	if !ok {
		t.Fatalf("expected *ast.ListLiteral, got %T", assign.Value)
	}
	if len(list.Elements) != 3 {
		t.Errorf("expected 3 elements, got %d", len(list.Elements))
	}

	stmt = singleStatement(t, `x = {"a": 1, 2: "b"}`)
	assign = stmt.(*ast.AssignStatement)
	m, ok := assign.Value.(*ast.MapLiteral)
	if !ok {
		t.Fatalf("expected *ast.MapLiteral, got %T", assign.Value)
	}
	if len(m.Keys) != 2 || len(m.Values) != 2 {
		t.Errorf("expected 2 pairs, got %d/%d", len(m.Keys), len(m.Values))
	}
}

func TestTypeAnnotationsAreDiscarded(t *testing.T) {
	input := `int
x = 5`
	program := parseSource(t, input)
	if len(program) != 1 {
		t.Fatalf("expected the annotation to be discarded, got %d statements", len(program))
	}
	if _, ok := program[0].(*ast.AssignStatement); !ok {
		t.Errorf("expected *ast.AssignStatement, got %T", program[0])
	}
}

func TestReservedWordsRejectAsStatements(t *testing.T) {
	// only int/float/bool/string are discarded as bare annotations; the
	// other reserved words have no statement form
	inputs := []string{
		"list",
		"map",
		"set = 5",
		"class Foo",
		"stack",
		"queue",
		"pop x",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			parseError(t, input)
		})
	}
}

func TestFStringParsing(t *testing.T) {
	stmt := singleStatement(t, `x = f"Hello {name}, you are {age + 1}"`)
	assign := stmt.(*ast.AssignStatement)
	fl, ok := assign.Value.(*ast.FStringLiteral)
	if !ok {
		t.Fatalf("expected *ast.FStringLiteral, got %T", assign.Value)
	}
	// literal, expr, literal, expr
	if len(fl.Parts) != 4 {
		t.Fatalf("expected 4 parts, got %d", len(fl.Parts))
	}
	if lit, ok := fl.Parts[0].(*ast.StringLiteral); !ok || lit.Value != "Hello " {
		t.Errorf("unexpected first part: %#v", fl.Parts[0])
	}
	if _, ok := fl.Parts[1].(*ast.Identifier); !ok {
		t.Errorf("expected identifier part, got %T", fl.Parts[1])
	}
	if _, ok := fl.Parts[3].(*ast.BinaryExpression); !ok {
		t.Errorf("expected binary expression part, got %T", fl.Parts[3])
	}
}

func TestFStringEscapedBraces(t *testing.T) {
	stmt := singleStatement(t, `x = f"{{not an expr}}"`)
	assign := stmt.(*ast.AssignStatement)
	fl := assign.Value.(*ast.FStringLiteral)
	if len(fl.Parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(fl.Parts))
	}
	lit := fl.Parts[0].(*ast.StringLiteral)
	if lit.Value != "{not an expr}" {
		t.Errorf("expected %q, got %q", "{not an expr}", lit.Value)
	}
}

func TestFStringErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`x = f"{}"`, "Empty expression in f-string"},
		{`x = f"{   }"`, "Empty expression in f-string"},
		{`x = f"{a"`, "Unmatched '{' in f-string"},
		{`x = f"a}b"`, "Unmatched '}' in f-string"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := parseError(t, tt.input)
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestParseErrorsCarryPosition(t *testing.T) {
	err := parseError(t, "x = ")
	var pe *util.PosError
	if !errors.As(err, &pe) {
		t.Fatalf("expected a *util.PosError, got %T: %v", err, err)
	}
	if pe.Line != 1 {
		t.Errorf("expected line 1, got %d", pe.Line)
	}
}

func TestMissingIndentIsAnError(t *testing.T) {
	input := `if x
print "no indent"`
	err := parseError(t, input)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestStatementErrors(t *testing.T) {
	inputs := []string{
		"x = ",
		"x = 1 +",
		"= 5",
		"function",
		"for i 0",
		`append 5 x`,
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			parseError(t, input)
		})
	}
}

func TestRenderASTAsJSON(t *testing.T) {
	program := parseSource(t, `x = [1, 2]
print x`)
	rendered, err := RenderASTAsJSON(program)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	for _, want := range []string{"Program", "AssignStatement", "ListLiteral", "PrintStatement"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("expected rendering to mention %q", want)
		}
	}
}

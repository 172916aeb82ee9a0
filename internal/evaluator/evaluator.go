package evaluator

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"sauravcode/internal/ast"
	"sauravcode/internal/object"
)

var (
	NIL   = object.NIL
	TRUE  = object.TRUE
	FALSE = object.FALSE
)

// Safety limits applied when Options leaves them zero.
const (
	DefaultMaxCallDepth      = 1000
	DefaultMaxLoopIterations = 1_000_000
)

// Interpreter executes parsed statements against a function table and a flat
// variable table. Execution is single-threaded and depth-first; return and
// error conditions travel as signal objects up the recursion, never as
// panics, so call frames and try/catch boundaries check for them explicitly.
type Interpreter struct {
	functions  map[string]*ast.FunctionStatement
	env        *object.Env
	extensions map[string]*object.Builtin

	out io.Writer
	in  *bufio.Reader

	callDepth    int
	maxCallDepth int
	maxLoopIter  int
}

// Options configures an Interpreter. Zero values fall back to stdout, stdin
// and the default safety limits.
type Options struct {
	Out               io.Writer
	In                io.Reader
	MaxCallDepth      int
	MaxLoopIterations int
}

func New() *Interpreter {
	return NewWithOptions(Options{})
}

func NewWithOptions(opts Options) *Interpreter {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = DefaultMaxCallDepth
	}
	if opts.MaxLoopIterations <= 0 {
		opts.MaxLoopIterations = DefaultMaxLoopIterations
	}
	return &Interpreter{
		functions:    make(map[string]*ast.FunctionStatement),
		env:          object.NewEnv(),
		extensions:   make(map[string]*object.Builtin),
		out:          opts.Out,
		in:           bufio.NewReader(opts.In),
		maxCallDepth: opts.MaxCallDepth,
		maxLoopIter:  opts.MaxLoopIterations,
	}
}

// RegisterExtensions adds host functions resolved after the core builtin
// table. User-defined functions shadow these too.
func (i *Interpreter) RegisterExtensions(fns map[string]*object.Builtin) {
	for name, fn := range fns {
		i.extensions[name] = fn
	}
}

// Env exposes the variable table for interactive inspection.
func (i *Interpreter) Env() *object.Env { return i.env }

// Functions returns the names of the currently defined user functions.
func (i *Interpreter) Functions() []string {
	names := make([]string, 0, len(i.functions))
	for name := range i.functions {
		names = append(names, name)
	}
	return names
}

// Run interprets a statement list in order and stops at the first
// uncaught error. A return signal escaping the top level is an error: it
// only has meaning inside a function body.
func (i *Interpreter) Run(statements []ast.Statement) object.Object {
	result := object.Object(NIL)
	for _, stmt := range statements {
		result = i.Interpret(stmt)
		switch result.(type) {
		case *object.Error, *object.ThrownError:
			return result
		case *object.ReturnValue:
			return i.NewError("'return' outside of a function")
		}
	}
	return result
}

// Interpret executes one statement. The result is NIL for ordinary
// statements, the value for expression statements, or a signal object
// (return, runtime error, thrown error) that the caller must propagate.
func (i *Interpreter) Interpret(stmt ast.Statement) object.Object {
	switch node := stmt.(type) {
	case *ast.FunctionStatement:
		i.functions[node.Name] = node
		return NIL

	case *ast.AssignStatement:
		val := i.Evaluate(node.Value)
		if isError(val) {
			return val
		}
		i.env.Set(node.Name, val)
		return NIL

	case *ast.IndexAssignStatement:
		return i.execIndexAssign(node)

	case *ast.ReturnStatement:
		if node.Value == nil {
			return &object.ReturnValue{Value: NIL}
		}
		val := i.Evaluate(node.Value)
		if isError(val) {
			return val
		}
		return &object.ReturnValue{Value: val}

	case *ast.PrintStatement:
		val := i.Evaluate(node.Value)
		if isError(val) {
			return val
		}
		fmt.Fprintln(i.out, val.Inspect())
		return NIL

	case *ast.IfStatement:
		return i.execIf(node)

	case *ast.WhileStatement:
		return i.execWhile(node)

	case *ast.ForStatement:
		return i.execFor(node)

	case *ast.TryStatement:
		return i.execTry(node)

	case *ast.ThrowStatement:
		val := i.Evaluate(node.Value)
		if isError(val) {
			return val
		}
		return &object.ThrownError{Value: val}

	case *ast.AppendStatement:
		return i.execAppend(node)

	case *ast.ExpressionStatement:
		return i.Evaluate(node.Expression)
	}

	return i.NewError("unknown statement type %T", stmt)
}

// execBody runs a statement list, stopping at the first signal.
func (i *Interpreter) execBody(body []ast.Statement) object.Object {
	for _, stmt := range body {
		result := i.Interpret(stmt)
		if isSignal(result) {
			return result
		}
	}
	return NIL
}

func (i *Interpreter) execIf(node *ast.IfStatement) object.Object {
	cond := i.Evaluate(node.Condition)
	if isError(cond) {
		return cond
	}
	if object.IsTruthy(cond) {
		return i.execBody(node.Consequence)
	}
	for _, ei := range node.ElseIfs {
		cond := i.Evaluate(ei.Condition)
		if isError(cond) {
			return cond
		}
		if object.IsTruthy(cond) {
			return i.execBody(ei.Body)
		}
	}
	if node.Alternative != nil {
		return i.execBody(node.Alternative)
	}
	return NIL
}

func (i *Interpreter) execWhile(node *ast.WhileStatement) object.Object {
	iterations := 0
	for {
		cond := i.Evaluate(node.Condition)
		if isError(cond) {
			return cond
		}
		if !object.IsTruthy(cond) {
			return NIL
		}
		iterations++
		if iterations > i.maxLoopIter {
			return i.NewError("While loop exceeded maximum of %d iterations", i.maxLoopIter)
		}
		result := i.execBody(node.Body)
		if isSignal(result) {
			return result
		}
	}
}

// execFor evaluates both bounds once, truncates them to integers and walks
// the half-open range. An oversized range fails before the first iteration.
func (i *Interpreter) execFor(node *ast.ForStatement) object.Object {
	startObj := i.Evaluate(node.Start)
	if isError(startObj) {
		return startObj
	}
	endObj := i.Evaluate(node.End)
	if isError(endObj) {
		return endObj
	}
	startNum, ok := startObj.(*object.Number)
	if !ok {
		return i.NewError("For loop start must be a number, got %s", typeName(startObj))
	}
	endNum, ok := endObj.(*object.Number)
	if !ok {
		return i.NewError("For loop end must be a number, got %s", typeName(endObj))
	}

	start := int(startNum.Value)
	end := int(endNum.Value)
	if span := abs(end - start); span > i.maxLoopIter {
		return i.NewError("For loop range of %d exceeds maximum of %d iterations", span, i.maxLoopIter)
	}

	for v := start; v < end; v++ {
		i.env.Set(node.Var, &object.Number{Value: float64(v)})
		result := i.execBody(node.Body)
		if isSignal(result) {
			return result
		}
	}
	return NIL
}

// execTry runs the body and routes runtime and thrown errors into the
// handler with the stringified message bound to the catch variable. Return
// signals pass through untouched.
func (i *Interpreter) execTry(node *ast.TryStatement) object.Object {
	result := i.execBody(node.Body)
	switch err := result.(type) {
	case *object.Error:
		i.env.Set(node.CatchVar, &object.String{Value: err.Message})
		return i.execBody(node.Handler)
	case *object.ThrownError:
		i.env.Set(node.CatchVar, &object.String{Value: err.Message()})
		return i.execBody(node.Handler)
	}
	return result
}

func (i *Interpreter) execAppend(node *ast.AppendStatement) object.Object {
	obj, ok := i.env.Get(node.Name)
	if !ok {
		return i.NewError("'%s' is not a list", node.Name)
	}
	list, ok := obj.(*object.List)
	if !ok {
		return i.NewError("'%s' is not a list", node.Name)
	}
	val := i.Evaluate(node.Value)
	if isError(val) {
		return val
	}
	list.Elements = append(list.Elements, val)
	return NIL
}

func (i *Interpreter) execIndexAssign(node *ast.IndexAssignStatement) object.Object {
	obj, ok := i.env.Get(node.Name)
	if !ok {
		return i.NewError("Name '%s' is not defined.", node.Name)
	}
	index := i.Evaluate(node.Index)
	if isError(index) {
		return index
	}
	val := i.Evaluate(node.Value)
	if isError(val) {
		return val
	}

	switch target := obj.(type) {
	case *object.List:
		num, ok := index.(*object.Number)
		if !ok {
			return i.NewError("List index must be a number, got %s", typeName(index))
		}
		idx := int(num.Value)
		if idx < 0 || idx >= len(target.Elements) {
			return i.NewError("Index %d out of bounds (size %d)", idx, len(target.Elements))
		}
		target.Elements[idx] = val
		return NIL
	case *object.Map:
		if !target.Put(index, val) {
			return i.NewError("Cannot use %s as map key", typeName(index))
		}
		return NIL
	default:
		return i.NewError("'%s' is not a list or map", node.Name)
	}
}

// Evaluate computes one expression. Runtime failures come back as *Error or
// *ThrownError signal objects; everything else is an ordinary value.
func (i *Interpreter) Evaluate(expr ast.Expression) object.Object {
	switch node := expr.(type) {
	case *ast.NumberLiteral:
		return &object.Number{Value: node.Value}

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}

	case *ast.BooleanLiteral:
		return object.NativeBoolToBoolean(node.Value)

	case *ast.Identifier:
		if val, ok := i.env.Get(node.Value); ok {
			return val
		}
		return i.NewError("Name '%s' is not defined.", node.Value)

	case *ast.BinaryExpression:
		left := i.Evaluate(node.Left)
		if isError(left) {
			return left
		}
		right := i.Evaluate(node.Right)
		if isError(right) {
			return right
		}
		return i.evalBinary(node.Operator, left, right)

	case *ast.CompareExpression:
		left := i.Evaluate(node.Left)
		if isError(left) {
			return left
		}
		right := i.Evaluate(node.Right)
		if isError(right) {
			return right
		}
		return i.evalCompare(node.Operator, left, right)

	case *ast.LogicalExpression:
		return i.evalLogical(node)

	case *ast.PrefixExpression:
		operand := i.Evaluate(node.Right)
		if isError(operand) {
			return operand
		}
		return i.evalPrefix(node.Operator, operand)

	case *ast.ListLiteral:
		elements := make([]object.Object, 0, len(node.Elements))
		for _, el := range node.Elements {
			val := i.Evaluate(el)
			if isError(val) {
				return val
			}
			elements = append(elements, val)
		}
		return &object.List{Elements: elements}

	case *ast.MapLiteral:
		m := object.NewMap()
		for idx := range node.Keys {
			key := i.Evaluate(node.Keys[idx])
			if isError(key) {
				return key
			}
			val := i.Evaluate(node.Values[idx])
			if isError(val) {
				return val
			}
			if !m.Put(key, val) {
				return i.NewError("Cannot use %s as map key", typeName(key))
			}
		}
		return m

	case *ast.IndexExpression:
		left := i.Evaluate(node.Left)
		if isError(left) {
			return left
		}
		index := i.Evaluate(node.Index)
		if isError(index) {
			return index
		}
		return i.evalIndex(left, index)

	case *ast.LenExpression:
		val := i.Evaluate(node.Value)
		if isError(val) {
			return val
		}
		return i.evalLen(val)

	case *ast.FStringLiteral:
		return i.evalFString(node)

	case *ast.CallExpression:
		return i.evalCall(node)
	}

	return i.NewError("unknown expression type %T", expr)
}

func (i *Interpreter) evalBinary(op string, left, right object.Object) object.Object {
	if l, ok := left.(*object.Number); ok {
		if r, ok := right.(*object.Number); ok {
			return i.evalNumberBinary(op, l.Value, r.Value)
		}
	}
	if op == "+" {
		if l, ok := left.(*object.String); ok {
			if r, ok := right.(*object.String); ok {
				return &object.String{Value: l.Value + r.Value}
			}
		}
		if l, ok := left.(*object.List); ok {
			if r, ok := right.(*object.List); ok {
				elements := make([]object.Object, 0, len(l.Elements)+len(r.Elements))
				elements = append(elements, l.Elements...)
				elements = append(elements, r.Elements...)
				return &object.List{Elements: elements}
			}
		}
	}
	return i.NewError("Cannot apply operator '%s' to %s and %s", op, typeName(left), typeName(right))
}

func (i *Interpreter) evalNumberBinary(op string, left, right float64) object.Object {
	switch op {
	case "+":
		return &object.Number{Value: left + right}
	case "-":
		return &object.Number{Value: left - right}
	case "*":
		return &object.Number{Value: left * right}
	case "/":
		if right == 0 {
			return i.NewError("Division by zero")
		}
		return &object.Number{Value: left / right}
	case "%":
		if right == 0 {
			return i.NewError("Modulo by zero")
		}
		// floored modulo: the result takes the sign of the divisor
		mod := math.Mod(left, right)
		if mod != 0 && (mod < 0) != (right < 0) {
			mod += right
		}
		return &object.Number{Value: mod}
	}
	return i.NewError("unknown operator '%s'", op)
}

func (i *Interpreter) evalCompare(op string, left, right object.Object) object.Object {
	switch op {
	case "==":
		return object.NativeBoolToBoolean(object.Equals(left, right))
	case "!=":
		return object.NativeBoolToBoolean(!object.Equals(left, right))
	}

	// Each operator is computed directly: NaN operands must make every
	// ordering false, so <= is not the negation of >.
	if l, ok := left.(*object.Number); ok {
		if r, ok := right.(*object.Number); ok {
			return i.orderResult(op, l.Value < r.Value, l.Value > r.Value,
				l.Value <= r.Value, l.Value >= r.Value, left, right)
		}
	}
	if l, ok := left.(*object.String); ok {
		if r, ok := right.(*object.String); ok {
			return i.orderResult(op, l.Value < r.Value, l.Value > r.Value,
				l.Value <= r.Value, l.Value >= r.Value, left, right)
		}
	}
	return i.NewError("Cannot compare %s and %s with '%s'", typeName(left), typeName(right), op)
}

func (i *Interpreter) orderResult(op string, lt, gt, lte, gte bool, left, right object.Object) object.Object {
	switch op {
	case "<":
		return object.NativeBoolToBoolean(lt)
	case ">":
		return object.NativeBoolToBoolean(gt)
	case "<=":
		return object.NativeBoolToBoolean(lte)
	case ">=":
		return object.NativeBoolToBoolean(gte)
	}
	return i.NewError("Cannot compare %s and %s with '%s'", typeName(left), typeName(right), op)
}

// evalLogical short-circuits: the right operand is only evaluated when the
// left side does not decide the result. Both operators return a Boolean.
func (i *Interpreter) evalLogical(node *ast.LogicalExpression) object.Object {
	left := i.Evaluate(node.Left)
	if isError(left) {
		return left
	}
	switch node.Operator {
	case "and":
		if !object.IsTruthy(left) {
			return FALSE
		}
	case "or":
		if object.IsTruthy(left) {
			return TRUE
		}
	}
	right := i.Evaluate(node.Right)
	if isError(right) {
		return right
	}
	return object.NativeBoolToBoolean(object.IsTruthy(right))
}

func (i *Interpreter) evalPrefix(op string, operand object.Object) object.Object {
	switch op {
	case "not":
		return object.NativeBoolToBoolean(!object.IsTruthy(operand))
	case "-":
		num, ok := operand.(*object.Number)
		if !ok {
			return i.NewError("Cannot negate %s", typeName(operand))
		}
		return &object.Number{Value: -num.Value}
	}
	return i.NewError("unknown prefix operator '%s'", op)
}

func (i *Interpreter) evalIndex(left, index object.Object) object.Object {
	switch obj := left.(type) {
	case *object.List:
		num, ok := index.(*object.Number)
		if !ok {
			return i.NewError("List index must be a number, got %s", typeName(index))
		}
		idx := int(num.Value)
		if idx < 0 || idx >= len(obj.Elements) {
			return i.NewError("Index %d out of bounds (size %d)", idx, len(obj.Elements))
		}
		return obj.Elements[idx]
	case *object.Map:
		if _, hashable := index.(object.Hashable); !hashable {
			return i.NewError("Cannot use %s as map key", typeName(index))
		}
		val, found := obj.Get(index)
		if !found {
			return i.NewError("Key %s not found", object.Render(index))
		}
		return val
	default:
		return i.NewError("Cannot index into %s", typeName(left))
	}
}

func (i *Interpreter) evalLen(val object.Object) object.Object {
	switch obj := val.(type) {
	case *object.String:
		return &object.Number{Value: float64(utf8.RuneCountInString(obj.Value))}
	case *object.List:
		return &object.Number{Value: float64(len(obj.Elements))}
	case *object.Map:
		return &object.Number{Value: float64(obj.Len())}
	default:
		return i.NewError("Cannot get length of %s", typeName(val))
	}
}

// evalFString renders each part in source order: literal text stays as is,
// embedded expressions format the way print formats them.
func (i *Interpreter) evalFString(node *ast.FStringLiteral) object.Object {
	var out strings.Builder
	for _, part := range node.Parts {
		val := i.Evaluate(part)
		if isError(val) {
			return val
		}
		out.WriteString(val.Inspect())
	}
	return &object.String{Value: out.String()}
}

// evalCall resolves the callee name against user functions first, then the
// builtin table, then registered host extensions.
func (i *Interpreter) evalCall(node *ast.CallExpression) object.Object {
	if fn, ok := i.functions[node.Name]; ok {
		return i.callFunction(fn, node.Arguments)
	}
	if builtin, ok := builtins[node.Name]; ok {
		return i.callBuiltin(builtin, node.Arguments)
	}
	if ext, ok := i.extensions[node.Name]; ok {
		return i.callBuiltin(ext, node.Arguments)
	}
	return i.NewError("Function %s is not defined.", node.Name)
}

// callFunction runs a user-defined function. The depth guard fires before
// any other work; the variable-table snapshot is restored on every exit
// path, including unwinding errors, via the deferred restore.
func (i *Interpreter) callFunction(fn *ast.FunctionStatement, args []ast.Expression) object.Object {
	i.callDepth++
	if i.callDepth > i.maxCallDepth {
		i.callDepth--
		return i.NewError("Maximum recursion depth of %d exceeded in function %s", i.maxCallDepth, fn.Name)
	}
	slog.Debug("call", slog.String("function", fn.Name), slog.Int("depth", i.callDepth))

	snapshot := i.env.Snapshot()
	defer func() {
		i.env.Restore(snapshot)
		i.callDepth--
	}()

	// parameters bind positionally; a short argument list leaves the
	// trailing parameters unbound and their arguments unevaluated
	for idx, param := range fn.Parameters {
		if idx >= len(args) {
			break
		}
		val := i.Evaluate(args[idx])
		if isError(val) {
			return val
		}
		i.env.Set(param, val)
	}

	result := i.execBody(fn.Body)
	if ret, ok := result.(*object.ReturnValue); ok {
		return ret.Value
	}
	if isError(result) {
		return result
	}
	return NIL
}

// callBuiltin evaluates all arguments eagerly, left to right; the builtin
// validates its own arity and types.
func (i *Interpreter) callBuiltin(builtin *object.Builtin, args []ast.Expression) object.Object {
	evaluated := make([]object.Object, 0, len(args))
	for _, arg := range args {
		val := i.Evaluate(arg)
		if isError(val) {
			return val
		}
		evaluated = append(evaluated, val)
	}
	return builtin.Fn(i, evaluated...)
}

// NewError builds a runtime-error signal. It is also the error constructor
// handed to builtins through the BuiltinContext interface.
func (i *Interpreter) NewError(format string, a ...interface{}) *object.Error {
	return &object.Error{Message: fmt.Sprintf(format, a...)}
}

// ReadLine blocks on the interpreter's input stream; the prompt, when not
// empty, is written without a newline. Reports false at end of input.
func (i *Interpreter) ReadLine(prompt string) (string, bool) {
	if prompt != "" {
		fmt.Fprint(i.out, prompt)
	}
	line, err := i.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	line = strings.TrimRight(line, "\r\n")
	return line, true
}

// MaxLoopIterations is the loop cap, shared with builtins that materialize
// sequences.
func (i *Interpreter) MaxLoopIterations() int { return i.maxLoopIter }

// isError reports runtime-error and thrown-error signals.
func isError(obj object.Object) bool {
	switch obj.(type) {
	case *object.Error, *object.ThrownError:
		return true
	}
	return false
}

// isSignal additionally covers the return signal.
func isSignal(obj object.Object) bool {
	switch obj.(type) {
	case *object.ReturnValue, *object.Error, *object.ThrownError:
		return true
	}
	return false
}

// typeName is the language-level name of a value's type, as reported in
// error messages and by type_of.
func typeName(obj object.Object) string {
	switch obj.(type) {
	case *object.Number:
		return "number"
	case *object.String:
		return "string"
	case *object.Boolean:
		return "bool"
	case *object.List:
		return "list"
	case *object.Map:
		return "map"
	case *object.Nil:
		return "nil"
	default:
		return "unknown"
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

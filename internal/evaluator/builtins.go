package evaluator

import (
	"math"
	"sort"
	"strconv"

	"sauravcode/internal/object"
)

// builtins is the fixed core library table, queried only when no user
// function of the same name exists.
var builtins = map[string]*object.Builtin{
	// string functions
	"upper":       funcUpper(),
	"lower":       funcLower(),
	"trim":        funcTrim(),
	"replace":     funcReplace(),
	"split":       funcSplit(),
	"join":        funcJoin(),
	"contains":    funcContains(),
	"starts_with": funcStartsWith(),
	"ends_with":   funcEndsWith(),
	"substring":   funcSubstring(),
	"index_of":    funcIndexOf(),
	"char_at":     funcCharAt(),

	// math functions
	"abs":   funcAbs(),
	"round": funcRound(),
	"floor": funcFloor(),
	"ceil":  funcCeil(),
	"sqrt":  funcSqrt(),
	"power": funcPower(),

	// utility functions
	"type_of":   funcTypeOf(),
	"to_string": funcToString(),
	"to_number": funcToNumber(),
	"input":     funcInput(),
	"range":     funcRange(),
	"reverse":   funcReverse(),
	"sort":      funcSort(),

	// map functions
	"keys":    funcKeys(),
	"values":  funcValues(),
	"has_key": funcHasKey(),
}

func funcTypeOf() *object.Builtin {
	return &object.Builtin{
		Name: "type_of",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 1 {
				return ctx.NewError("type_of expects 1 argument, got %d", len(args))
			}
			name := typeName(args[0])
			if name == "nil" {
				name = "unknown"
			}
			return &object.String{Value: name}
		},
	}
}

func funcToString() *object.Builtin {
	return &object.Builtin{
		Name: "to_string",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 1 {
				return ctx.NewError("to_string expects 1 argument, got %d", len(args))
			}
			return &object.String{Value: args[0].Inspect()}
		},
	}
}

func funcToNumber() *object.Builtin {
	return &object.Builtin{
		Name: "to_number",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 1 {
				return ctx.NewError("to_number expects 1 argument, got %d", len(args))
			}
			switch arg := args[0].(type) {
			case *object.Number:
				return arg
			case *object.String:
				val, err := strconv.ParseFloat(arg.Value, 64)
				if err != nil {
					return ctx.NewError("Cannot convert '%s' to number", arg.Value)
				}
				return &object.Number{Value: val}
			default:
				return ctx.NewError("Cannot convert %s to number", typeName(args[0]))
			}
		},
	}
}

func funcInput() *object.Builtin {
	return &object.Builtin{
		Name: "input",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) > 1 {
				return ctx.NewError("input expects 0 or 1 arguments, got %d", len(args))
			}
			prompt := ""
			if len(args) == 1 {
				str, ok := args[0].(*object.String)
				if !ok {
					return ctx.NewError("input prompt must be a string, got %s", typeName(args[0]))
				}
				prompt = str.Value
			}
			line, ok := ctx.ReadLine(prompt)
			if !ok {
				return ctx.NewError("input: unexpected end of input")
			}
			return &object.String{Value: line}
		},
	}
}

// funcRange generates successive numbers with Python range semantics. The
// materialized size shares the loop-iteration cap.
func funcRange() *object.Builtin {
	return &object.Builtin{
		Name: "range",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) < 1 || len(args) > 3 {
				return ctx.NewError("range expects 1 to 3 arguments, got %d", len(args))
			}
			nums := make([]float64, len(args))
			for idx, arg := range args {
				n, ok := arg.(*object.Number)
				if !ok {
					return ctx.NewError("range expects number arguments, got %s", typeName(arg))
				}
				nums[idx] = n.Value
			}

			start, stop, step := 0.0, nums[0], 1.0
			if len(args) >= 2 {
				start, stop = nums[0], nums[1]
			}
			if len(args) == 3 {
				step = nums[2]
			}
			if step == 0 {
				return ctx.NewError("range step cannot be zero")
			}

			size := int(math.Ceil((stop - start) / step))
			if size < 0 {
				size = 0
			}
			if size > ctx.MaxLoopIterations() {
				return ctx.NewError("Range of %d exceeds maximum of %d elements", size, ctx.MaxLoopIterations())
			}

			elements := make([]object.Object, 0, size)
			for v, n := start, 0; n < size; v, n = v+step, n+1 {
				elements = append(elements, &object.Number{Value: v})
			}
			return &object.List{Elements: elements}
		},
	}
}

// funcReverse returns a reversed copy; the argument is never mutated.
func funcReverse() *object.Builtin {
	return &object.Builtin{
		Name: "reverse",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 1 {
				return ctx.NewError("reverse expects 1 argument, got %d", len(args))
			}
			switch arg := args[0].(type) {
			case *object.List:
				elements := make([]object.Object, len(arg.Elements))
				for idx, el := range arg.Elements {
					elements[len(elements)-1-idx] = el
				}
				return &object.List{Elements: elements}
			case *object.String:
				runes := []rune(arg.Value)
				for a, b := 0, len(runes)-1; a < b; a, b = a+1, b-1 {
					runes[a], runes[b] = runes[b], runes[a]
				}
				return &object.String{Value: string(runes)}
			default:
				return ctx.NewError("reverse expects a list or string, got %s", typeName(args[0]))
			}
		},
	}
}

// funcSort sorts a copy of a list whose elements are all numbers or all
// strings.
func funcSort() *object.Builtin {
	return &object.Builtin{
		Name: "sort",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 1 {
				return ctx.NewError("sort expects 1 argument, got %d", len(args))
			}
			list, ok := args[0].(*object.List)
			if !ok {
				return ctx.NewError("sort expects a list, got %s", typeName(args[0]))
			}
			if len(list.Elements) == 0 {
				return &object.List{Elements: []object.Object{}}
			}

			elements := make([]object.Object, len(list.Elements))
			copy(elements, list.Elements)

			switch elements[0].(type) {
			case *object.Number:
				for _, el := range elements {
					if _, ok := el.(*object.Number); !ok {
						return ctx.NewError("sort expects a list of all numbers or all strings")
					}
				}
				sort.Slice(elements, func(a, b int) bool {
					return elements[a].(*object.Number).Value < elements[b].(*object.Number).Value
				})
			case *object.String:
				for _, el := range elements {
					if _, ok := el.(*object.String); !ok {
						return ctx.NewError("sort expects a list of all numbers or all strings")
					}
				}
				sort.Slice(elements, func(a, b int) bool {
					return elements[a].(*object.String).Value < elements[b].(*object.String).Value
				})
			default:
				return ctx.NewError("sort expects a list of all numbers or all strings")
			}
			return &object.List{Elements: elements}
		},
	}
}

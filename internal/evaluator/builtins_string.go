package evaluator

import (
	"strings"
	"unicode/utf8"

	"sauravcode/internal/object"
)

// stringArg unwraps a string argument, reporting the builtin's name on a
// type mismatch.
func stringArg(ctx object.BuiltinContext, name string, arg object.Object) (string, *object.Error) {
	str, ok := arg.(*object.String)
	if !ok {
		return "", ctx.NewError("%s expects a string, got %s", name, typeName(arg))
	}
	return str.Value, nil
}

func funcUpper() *object.Builtin {
	return &object.Builtin{
		Name: "upper",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 1 {
				return ctx.NewError("upper expects 1 argument, got %d", len(args))
			}
			s, err := stringArg(ctx, "upper", args[0])
			if err != nil {
				return err
			}
			return &object.String{Value: strings.ToUpper(s)}
		},
	}
}

func funcLower() *object.Builtin {
	return &object.Builtin{
		Name: "lower",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 1 {
				return ctx.NewError("lower expects 1 argument, got %d", len(args))
			}
			s, err := stringArg(ctx, "lower", args[0])
			if err != nil {
				return err
			}
			return &object.String{Value: strings.ToLower(s)}
		},
	}
}

func funcTrim() *object.Builtin {
	return &object.Builtin{
		Name: "trim",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 1 {
				return ctx.NewError("trim expects 1 argument, got %d", len(args))
			}
			s, err := stringArg(ctx, "trim", args[0])
			if err != nil {
				return err
			}
			return &object.String{Value: strings.TrimSpace(s)}
		},
	}
}

func funcReplace() *object.Builtin {
	return &object.Builtin{
		Name: "replace",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 3 {
				return ctx.NewError("replace expects 3 arguments, got %d", len(args))
			}
			s, err := stringArg(ctx, "replace", args[0])
			if err != nil {
				return err
			}
			old, err := stringArg(ctx, "replace", args[1])
			if err != nil {
				return err
			}
			new, err := stringArg(ctx, "replace", args[2])
			if err != nil {
				return err
			}
			return &object.String{Value: strings.ReplaceAll(s, old, new)}
		},
	}
}

func funcSplit() *object.Builtin {
	return &object.Builtin{
		Name: "split",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 2 {
				return ctx.NewError("split expects 2 arguments, got %d", len(args))
			}
			s, err := stringArg(ctx, "split", args[0])
			if err != nil {
				return err
			}
			sep, err := stringArg(ctx, "split", args[1])
			if err != nil {
				return err
			}
			if sep == "" {
				return ctx.NewError("split expects a non-empty separator")
			}
			parts := strings.Split(s, sep)
			elements := make([]object.Object, len(parts))
			for idx, part := range parts {
				elements[idx] = &object.String{Value: part}
			}
			return &object.List{Elements: elements}
		},
	}
}

// funcJoin takes the separator first, then a list of strings.
func funcJoin() *object.Builtin {
	return &object.Builtin{
		Name: "join",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 2 {
				return ctx.NewError("join expects 2 arguments, got %d", len(args))
			}
			sep, err := stringArg(ctx, "join", args[0])
			if err != nil {
				return err
			}
			list, ok := args[1].(*object.List)
			if !ok {
				return ctx.NewError("join expects a list, got %s", typeName(args[1]))
			}
			parts := make([]string, len(list.Elements))
			for idx, el := range list.Elements {
				str, ok := el.(*object.String)
				if !ok {
					return ctx.NewError("join expects a list of strings, got %s at index %d", typeName(el), idx)
				}
				parts[idx] = str.Value
			}
			return &object.String{Value: strings.Join(parts, sep)}
		},
	}
}

// funcContains works on strings (substring test) and maps (key test).
func funcContains() *object.Builtin {
	return &object.Builtin{
		Name: "contains",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 2 {
				return ctx.NewError("contains expects 2 arguments, got %d", len(args))
			}
			switch arg := args[0].(type) {
			case *object.String:
				sub, err := stringArg(ctx, "contains", args[1])
				if err != nil {
					return err
				}
				return object.NativeBoolToBoolean(strings.Contains(arg.Value, sub))
			case *object.Map:
				if _, hashable := args[1].(object.Hashable); !hashable {
					return ctx.NewError("Cannot use %s as map key", typeName(args[1]))
				}
				return object.NativeBoolToBoolean(arg.Has(args[1]))
			default:
				return ctx.NewError("contains expects a string or map, got %s", typeName(args[0]))
			}
		},
	}
}

func funcStartsWith() *object.Builtin {
	return &object.Builtin{
		Name: "starts_with",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 2 {
				return ctx.NewError("starts_with expects 2 arguments, got %d", len(args))
			}
			s, err := stringArg(ctx, "starts_with", args[0])
			if err != nil {
				return err
			}
			prefix, err := stringArg(ctx, "starts_with", args[1])
			if err != nil {
				return err
			}
			return object.NativeBoolToBoolean(strings.HasPrefix(s, prefix))
		},
	}
}

func funcEndsWith() *object.Builtin {
	return &object.Builtin{
		Name: "ends_with",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 2 {
				return ctx.NewError("ends_with expects 2 arguments, got %d", len(args))
			}
			s, err := stringArg(ctx, "ends_with", args[0])
			if err != nil {
				return err
			}
			suffix, err := stringArg(ctx, "ends_with", args[1])
			if err != nil {
				return err
			}
			return object.NativeBoolToBoolean(strings.HasSuffix(s, suffix))
		},
	}
}

// funcSubstring slices by rune positions with Python clamping: negative
// positions count from the end, out-of-range positions clamp, and an empty
// result is not an error.
func funcSubstring() *object.Builtin {
	return &object.Builtin{
		Name: "substring",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 3 {
				return ctx.NewError("substring expects 3 arguments, got %d", len(args))
			}
			s, err := stringArg(ctx, "substring", args[0])
			if err != nil {
				return err
			}
			startNum, ok := args[1].(*object.Number)
			if !ok {
				return ctx.NewError("substring expects number positions, got %s", typeName(args[1]))
			}
			endNum, ok := args[2].(*object.Number)
			if !ok {
				return ctx.NewError("substring expects number positions, got %s", typeName(args[2]))
			}

			runes := []rune(s)
			start := clampIndex(int(startNum.Value), len(runes))
			end := clampIndex(int(endNum.Value), len(runes))
			if start >= end {
				return &object.String{Value: ""}
			}
			return &object.String{Value: string(runes[start:end])}
		},
	}
}

func clampIndex(idx, length int) int {
	if idx < 0 {
		idx += length
	}
	if idx < 0 {
		return 0
	}
	if idx > length {
		return length
	}
	return idx
}

// funcIndexOf returns the rune position of the first occurrence, or -1.
func funcIndexOf() *object.Builtin {
	return &object.Builtin{
		Name: "index_of",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 2 {
				return ctx.NewError("index_of expects 2 arguments, got %d", len(args))
			}
			s, err := stringArg(ctx, "index_of", args[0])
			if err != nil {
				return err
			}
			sub, err := stringArg(ctx, "index_of", args[1])
			if err != nil {
				return err
			}
			byteIdx := strings.Index(s, sub)
			if byteIdx < 0 {
				return &object.Number{Value: -1}
			}
			return &object.Number{Value: float64(utf8.RuneCountInString(s[:byteIdx]))}
		},
	}
}

func funcCharAt() *object.Builtin {
	return &object.Builtin{
		Name: "char_at",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 2 {
				return ctx.NewError("char_at expects 2 arguments, got %d", len(args))
			}
			s, err := stringArg(ctx, "char_at", args[0])
			if err != nil {
				return err
			}
			num, ok := args[1].(*object.Number)
			if !ok {
				return ctx.NewError("char_at expects a number position, got %s", typeName(args[1]))
			}
			runes := []rune(s)
			idx := int(num.Value)
			if idx < 0 || idx >= len(runes) {
				return ctx.NewError("Index %d out of bounds (size %d)", idx, len(runes))
			}
			return &object.String{Value: string(runes[idx])}
		},
	}
}

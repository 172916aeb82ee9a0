package evaluator

import (
	"sauravcode/internal/object"
)

func funcKeys() *object.Builtin {
	return &object.Builtin{
		Name: "keys",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 1 {
				return ctx.NewError("keys expects 1 argument, got %d", len(args))
			}
			m, ok := args[0].(*object.Map)
			if !ok {
				return ctx.NewError("keys expects a map, got %s", typeName(args[0]))
			}
			pairs := m.OrderedPairs()
			elements := make([]object.Object, len(pairs))
			for idx, pair := range pairs {
				elements[idx] = pair.Key
			}
			return &object.List{Elements: elements}
		},
	}
}

func funcValues() *object.Builtin {
	return &object.Builtin{
		Name: "values",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 1 {
				return ctx.NewError("values expects 1 argument, got %d", len(args))
			}
			m, ok := args[0].(*object.Map)
			if !ok {
				return ctx.NewError("values expects a map, got %s", typeName(args[0]))
			}
			pairs := m.OrderedPairs()
			elements := make([]object.Object, len(pairs))
			for idx, pair := range pairs {
				elements[idx] = pair.Value
			}
			return &object.List{Elements: elements}
		},
	}
}

func funcHasKey() *object.Builtin {
	return &object.Builtin{
		Name: "has_key",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 2 {
				return ctx.NewError("has_key expects 2 arguments, got %d", len(args))
			}
			m, ok := args[0].(*object.Map)
			if !ok {
				return ctx.NewError("has_key expects a map, got %s", typeName(args[0]))
			}
			if _, hashable := args[1].(object.Hashable); !hashable {
				return ctx.NewError("Cannot use %s as map key", typeName(args[1]))
			}
			return object.NativeBoolToBoolean(m.Has(args[1]))
		},
	}
}

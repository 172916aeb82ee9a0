package evaluator

import (
	"math"

	"sauravcode/internal/object"
)

func numberArg(ctx object.BuiltinContext, name string, arg object.Object) (float64, *object.Error) {
	num, ok := arg.(*object.Number)
	if !ok {
		return 0, ctx.NewError("%s expects a number, got %s", name, typeName(arg))
	}
	return num.Value, nil
}

func funcAbs() *object.Builtin {
	return &object.Builtin{
		Name: "abs",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 1 {
				return ctx.NewError("abs expects 1 argument, got %d", len(args))
			}
			v, err := numberArg(ctx, "abs", args[0])
			if err != nil {
				return err
			}
			return &object.Number{Value: math.Abs(v)}
		},
	}
}

// funcRound rounds half to even, optionally to a number of decimal places.
func funcRound() *object.Builtin {
	return &object.Builtin{
		Name: "round",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) < 1 || len(args) > 2 {
				return ctx.NewError("round expects 1 or 2 arguments, got %d", len(args))
			}
			v, err := numberArg(ctx, "round", args[0])
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return &object.Number{Value: math.RoundToEven(v)}
			}
			places, err := numberArg(ctx, "round", args[1])
			if err != nil {
				return err
			}
			shift := math.Pow(10, math.Trunc(places))
			return &object.Number{Value: math.RoundToEven(v*shift) / shift}
		},
	}
}

func funcFloor() *object.Builtin {
	return &object.Builtin{
		Name: "floor",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 1 {
				return ctx.NewError("floor expects 1 argument, got %d", len(args))
			}
			v, err := numberArg(ctx, "floor", args[0])
			if err != nil {
				return err
			}
			return &object.Number{Value: math.Floor(v)}
		},
	}
}

func funcCeil() *object.Builtin {
	return &object.Builtin{
		Name: "ceil",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 1 {
				return ctx.NewError("ceil expects 1 argument, got %d", len(args))
			}
			v, err := numberArg(ctx, "ceil", args[0])
			if err != nil {
				return err
			}
			return &object.Number{Value: math.Ceil(v)}
		},
	}
}

func funcSqrt() *object.Builtin {
	return &object.Builtin{
		Name: "sqrt",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 1 {
				return ctx.NewError("sqrt expects 1 argument, got %d", len(args))
			}
			v, err := numberArg(ctx, "sqrt", args[0])
			if err != nil {
				return err
			}
			if v < 0 {
				return ctx.NewError("sqrt of a negative number")
			}
			return &object.Number{Value: math.Sqrt(v)}
		},
	}
}

func funcPower() *object.Builtin {
	return &object.Builtin{
		Name: "power",
		Fn: func(ctx object.BuiltinContext, args ...object.Object) object.Object {
			if len(args) != 2 {
				return ctx.NewError("power expects 2 arguments, got %d", len(args))
			}
			base, err := numberArg(ctx, "power", args[0])
			if err != nil {
				return err
			}
			exp, err := numberArg(ctx, "power", args[1])
			if err != nil {
				return err
			}
			return &object.Number{Value: math.Pow(base, exp)}
		},
	}
}

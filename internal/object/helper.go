package object

// IsTruthy implements the language's truthiness rule: false, 0, the empty
// string, and nil are falsy; collections are truthy even when empty.
func IsTruthy(obj Object) bool {
	switch o := obj.(type) {
	case *Boolean:
		return o.Value
	case *Number:
		return o.Value != 0
	case *String:
		return o.Value != ""
	case *Nil:
		return false
	default:
		return true
	}
}

func NativeBoolToBoolean(v bool) *Boolean {
	if v {
		return TRUE
	}
	return FALSE
}

// Equals is deep value equality. Values of different kinds are unequal,
// never an error; lists compare element-wise, maps by key set and values
// (order does not matter).
func Equals(a, b Object) bool {
	switch av := a.(type) {
	case *Number:
		bv, ok := b.(*Number)
		return ok && av.Value == bv.Value
	case *String:
		bv, ok := b.(*String)
		return ok && av.Value == bv.Value
	case *Boolean:
		bv, ok := b.(*Boolean)
		return ok && av.Value == bv.Value
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i, el := range av.Elements {
			if !Equals(el, bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Map:
		bv, ok := b.(*Map)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, pair := range av.OrderedPairs() {
			other, found := bv.Get(pair.Key)
			if !found || !Equals(pair.Value, other) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

package object

import (
	"bytes"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
)

type ObjectType string

const (
	NIL_OBJ     = "NIL"
	BOOLEAN_OBJ = "BOOLEAN"
	NUMBER_OBJ  = "NUMBER"
	STRING_OBJ  = "STRING"

	LIST_OBJ = "LIST"
	MAP_OBJ  = "MAP"

	BUILTIN_OBJ = "BUILTIN"

	RETURN_VALUE_OBJ = "RETURN_VALUE"
	ERROR_OBJ        = "ERROR"
	THROWN_OBJ       = "THROWN"
)

// Shared singletons; booleans and nil are compared by identity.
var (
	NIL   = &Nil{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

type Object interface {
	Type() ObjectType
	Inspect() string
}

// BuiltinContext is the slice of evaluator state a builtin is allowed to
// touch: error construction, the input stream, and the loop cap that also
// bounds range materialization.
type BuiltinContext interface {
	NewError(format string, a ...interface{}) *Error
	ReadLine(prompt string) (string, bool)
	MaxLoopIterations() int
}

type BuiltinFunction func(ctx BuiltinContext, args ...Object) Object

// Hashable objects may serve as map keys.
type Hashable interface {
	MapKey() MapKey
}

type MapKey struct {
	Type  ObjectType
	Value uint64
}

// Number is an IEEE-754 double. Integer-valued numbers render without a
// trailing ".0"; everything else renders in plain decimal notation.
type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string {
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}
func (n *Number) MapKey() MapKey {
	v := n.Value
	if v == 0 {
		v = 0 // collapse -0 and +0 onto one key
	}
	return MapKey{Type: n.Type(), Value: math.Float64bits(v)}
}

// String renders raw at top level; collection rendering quotes it.
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }
func (s *String) MapKey() MapKey {
	h := fnv.New64a()
	h.Write([]byte(s.Value))
	return MapKey{Type: s.Type(), Value: h.Sum64()}
}

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }
func (b *Boolean) MapKey() MapKey {
	var value uint64
	if b.Value {
		value = 1
	}
	return MapKey{Type: b.Type(), Value: value}
}

// Nil is the Unit value: the result of statements and of calls that never
// hit a return. The language has no literal for it.
type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "nil" }

type List struct {
	Elements []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string {
	var out bytes.Buffer
	elements := make([]string, 0, len(l.Elements))
	for _, e := range l.Elements {
		elements = append(elements, Render(e))
	}
	out.WriteString("[")
	out.WriteString(strings.Join(elements, ", "))
	out.WriteString("]")
	return out.String()
}

type MapPair struct {
	Key   Object
	Value Object
}

// Map preserves insertion order: Pairs gives O(1) lookup, order remembers
// first-insertion sequence for rendering and the keys/values builtins.
type Map struct {
	Pairs map[MapKey]MapPair
	order []MapKey
}

func (m *Map) Type() ObjectType { return MAP_OBJ }

func NewMap() *Map {
	return &Map{Pairs: make(map[MapKey]MapPair)}
}

// Put inserts or overwrites; it reports false when the key is not hashable.
// Overwrites keep the key's original insertion position.
func (m *Map) Put(key Object, value Object) bool {
	hashable, ok := key.(Hashable)
	if !ok {
		return false
	}
	mk := hashable.MapKey()
	if _, exists := m.Pairs[mk]; !exists {
		m.order = append(m.order, mk)
	}
	m.Pairs[mk] = MapPair{Key: key, Value: value}
	return true
}

func (m *Map) Get(key Object) (Object, bool) {
	hashable, ok := key.(Hashable)
	if !ok {
		return nil, false
	}
	pair, ok := m.Pairs[hashable.MapKey()]
	if !ok {
		return nil, false
	}
	return pair.Value, true
}

func (m *Map) Has(key Object) bool {
	_, ok := m.Get(key)
	return ok
}

func (m *Map) Len() int { return len(m.Pairs) }

// OrderedPairs returns the entries in insertion order.
func (m *Map) OrderedPairs() []MapPair {
	pairs := make([]MapPair, 0, len(m.order))
	for _, mk := range m.order {
		pairs = append(pairs, m.Pairs[mk])
	}
	return pairs
}

func (m *Map) Inspect() string {
	var out bytes.Buffer
	pairs := make([]string, 0, len(m.order))
	for _, pair := range m.OrderedPairs() {
		pairs = append(pairs, Render(pair.Key)+": "+Render(pair.Value))
	}
	out.WriteString("{")
	out.WriteString(strings.Join(pairs, ", "))
	out.WriteString("}")
	return out.String()
}

// Render is the collection-element rendering rule, also used when echoing
// results interactively: strings gain quotes, everything else renders as at
// top level.
func Render(o Object) string {
	if s, ok := o.(*String); ok {
		return "\"" + s.Value + "\""
	}
	return o.Inspect()
}

// ReturnValue wraps a function result on its way out of the body; the call
// frame unwraps it, so it never escapes to a caller.
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

// Error is a runtime failure: type mismatch, undefined name, bad index,
// exceeded limit. It propagates until a try/catch handles it or the run ends.
type Error struct {
	Message string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return "ERROR: " + e.Message }

// ThrownError carries a user `throw` payload. Catch handlers receive the
// stringified payload, same as for an Error message.
type ThrownError struct {
	Value Object
}

func (t *ThrownError) Type() ObjectType { return THROWN_OBJ }
func (t *ThrownError) Inspect() string  { return "ERROR: " + t.Message() }
func (t *ThrownError) Message() string  { return t.Value.Inspect() }

type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "builtin function " + b.Name }

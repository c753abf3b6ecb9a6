// Package lisp implements the small symbolic language WebLisp scripts are
// written in: values, environments, the reader, the macro expansion pass,
// the evaluator and the canonical printer.
//
// Values are plain Go values. nil is null, bool is a boolean, float64 is a
// number, string is text, Symbol is a symbol and []Value is a list. Callables
// are *Procedure (user lambdas) and *Builtin (host functions). Anything else
// is an opaque host handle that scripts can pass around but not inspect.
package lisp

import (
	"fmt"
	"math"
)

// Value is any WebLisp value.
type Value = any

// Symbol is an identifier. Symbols are distinct from text values.
type Symbol string

// Well-known symbols of the special forms.
const (
	symQuote           Symbol = "quote"
	symIf              Symbol = "if"
	symSet             Symbol = "set!"
	symDefine          Symbol = "define"
	symLambda          Symbol = "lambda"
	symBegin           Symbol = "begin"
	symDefineMacro     Symbol = "define-macro"
	symQuasiquote      Symbol = "quasiquote"
	symUnquote         Symbol = "unquote"
	symUnquoteSplicing Symbol = "unquote-splicing"
)

// Bindings is a batch of names merged into an environment in one step.
type Bindings map[string]Value

// Procedure is a closure created by lambda.
type Procedure struct {
	// Params are bound positionally. Rest, when set, receives the remaining
	// arguments as a list.
	Params []Symbol
	Rest   Symbol
	Body   Value
	Env    *Env
}

// Macro rewrites a call site before reduction. The transformer receives the
// unevaluated argument expressions and returns the replacement expression.
type Macro struct {
	Name        string
	Transformer Value
}

// ArityKind classifies how many arguments a builtin accepts.
type ArityKind int

const (
	Nullary ArityKind = iota
	FixedN
	VariadicN
)

// Arity declares the accepted argument count of a builtin.
// For FixedN, Min == Max. For VariadicN, Max < 0 means unbounded.
type Arity struct {
	Kind ArityKind
	Min  int
	Max  int
}

// None accepts no arguments.
func None() Arity { return Arity{Kind: Nullary} }

// Fixed accepts exactly n arguments.
func Fixed(n int) Arity {
	if n == 0 {
		return None()
	}
	return Arity{Kind: FixedN, Min: n, Max: n}
}

// Variadic accepts min or more arguments.
func Variadic(min int) Arity { return Arity{Kind: VariadicN, Min: min, Max: -1} }

// Range accepts between min and max arguments inclusive.
func Range(min, max int) Arity { return Arity{Kind: VariadicN, Min: min, Max: max} }

// Accepts reports whether n arguments satisfy the arity.
func (a Arity) Accepts(n int) bool {
	switch a.Kind {
	case Nullary:
		return n == 0
	case FixedN:
		return n == a.Min
	default:
		return n >= a.Min && (a.Max < 0 || n <= a.Max)
	}
}

func (a Arity) String() string {
	switch a.Kind {
	case Nullary:
		return "0"
	case FixedN:
		return fmt.Sprintf("%d", a.Min)
	default:
		if a.Max < 0 {
			return fmt.Sprintf("%d or more", a.Min)
		}
		return fmt.Sprintf("%d to %d", a.Min, a.Max)
	}
}

// Builtin is a host function exposed to scripts.
type Builtin struct {
	Name  string
	Arity Arity
	Fn    func(args []Value) (Value, error)
}

// NewBuiltin is a shorthand for constructing a Builtin.
func NewBuiltin(name string, arity Arity, fn func(args []Value) (Value, error)) *Builtin {
	return &Builtin{Name: name, Arity: arity, Fn: fn}
}

// Call checks the arity and invokes the function.
func (b *Builtin) Call(args []Value) (Value, error) {
	if !b.Arity.Accepts(len(args)) {
		return nil, Errorf(EvaluationError, "%s: expected %s arguments, got %d", b.displayName(), b.Arity, len(args))
	}
	return b.Fn(args)
}

func (b *Builtin) displayName() string {
	if b.Name == "" {
		return "anonymous builtin"
	}
	return b.Name
}

// Dict is an insertion-ordered mapping with hashable keys.
type Dict struct {
	keys   []Value
	values map[Value]Value
}

// NewDict returns an empty Dict.
func NewDict() *Dict {
	return &Dict{values: make(map[Value]Value)}
}

// Hashable reports whether v can be used as a Dict key. NaN is not equal to
// itself, so it is rejected along with lists and host handles.
func Hashable(v Value) bool {
	switch x := v.(type) {
	case float64:
		return !math.IsNaN(x)
	case nil, bool, string, Symbol:
		return true
	}
	return false
}

// Put stores value under key. Later puts of the same key overwrite.
func (d *Dict) Put(key, value Value) error {
	if !Hashable(key) {
		return Errorf(EvaluationError, "unhashable key: %s", String(key))
	}
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
	return nil
}

// Get returns the value stored under key. Unhashable keys are never present.
func (d *Dict) Get(key Value) (Value, bool) {
	if !Hashable(key) {
		return nil, false
	}
	v, ok := d.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []Value {
	return append([]Value(nil), d.keys...)
}

// Len returns the number of entries.
func (d *Dict) Len() int { return len(d.keys) }

// Truthy reports whether v counts as true in a conditional.
// nil, #f, 0, "" and the empty list are false.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	case []Value:
		return len(x) > 0
	}
	return true
}

// Callable reports whether v can be applied.
func Callable(v Value) bool {
	switch v.(type) {
	case *Procedure, *Builtin:
		return true
	}
	return false
}

package lisp

import (
	"fmt"
	"io"
	"math"
	"reflect"
	"strings"
	"unicode/utf8"
)

var consBuiltin = NewBuiltin("cons", Fixed(2), func(args []Value) (Value, error) {
	tail, err := listArg("cons", args, 1)
	if err != nil {
		return nil, err
	}
	return append([]Value{args[0]}, tail...), nil
})

var appendBuiltin = NewBuiltin("append", Variadic(0), func(args []Value) (Value, error) {
	out := []Value{}
	for i := range args {
		l, err := listArg("append", args, i)
		if err != nil {
			return nil, err
		}
		out = append(out, l...)
	}
	return out, nil
})

// Globals returns the base vocabulary. eval evaluates in env; display and
// newline write to out.
func Globals(env *Env, out io.Writer) Bindings {
	b := Bindings{
		"nil":    nil,
		"cons":   consBuiltin,
		"append": appendBuiltin,
	}
	add := func(name string, arity Arity, fn func(args []Value) (Value, error)) {
		b[name] = NewBuiltin(name, arity, fn)
	}

	add("+", Variadic(0), arith("+", 0, func(a, b float64) float64 { return a + b }))
	add("*", Variadic(0), arith("*", 1, func(a, b float64) float64 { return a * b }))
	add("-", Variadic(1), func(args []Value) (Value, error) {
		nums, err := numArgs("-", args)
		if err != nil {
			return nil, err
		}
		if len(nums) == 1 {
			return -nums[0], nil
		}
		acc := nums[0]
		for _, n := range nums[1:] {
			acc -= n
		}
		return acc, nil
	})
	add("/", Variadic(1), func(args []Value) (Value, error) {
		nums, err := numArgs("/", args)
		if err != nil {
			return nil, err
		}
		if len(nums) == 1 {
			nums = append([]float64{1}, nums...)
		}
		acc := nums[0]
		for _, n := range nums[1:] {
			if n == 0 {
				return nil, Errorf(EvaluationError, "/: division by zero")
			}
			acc /= n
		}
		return acc, nil
	})

	add("=", Variadic(1), func(args []Value) (Value, error) {
		for i := 1; i < len(args); i++ {
			if !Equal(args[i-1], args[i]) {
				return false, nil
			}
		}
		return true, nil
	})
	add("<", Variadic(1), compare("<", func(a, b float64) bool { return a < b }))
	add(">", Variadic(1), compare(">", func(a, b float64) bool { return a > b }))
	add("<=", Variadic(1), compare("<=", func(a, b float64) bool { return a <= b }))
	add(">=", Variadic(1), compare(">=", func(a, b float64) bool { return a >= b }))

	add("not", Fixed(1), func(args []Value) (Value, error) { return !Truthy(args[0]), nil })
	add("eq?", Fixed(2), func(args []Value) (Value, error) { return identical(args[0], args[1]), nil })
	add("equal?", Fixed(2), func(args []Value) (Value, error) { return Equal(args[0], args[1]), nil })

	add("car", Fixed(1), func(args []Value) (Value, error) {
		l, err := listArg("car", args, 0)
		if err != nil {
			return nil, err
		}
		if len(l) == 0 {
			return nil, Errorf(EvaluationError, "car: empty list")
		}
		return l[0], nil
	})
	add("cdr", Fixed(1), func(args []Value) (Value, error) {
		l, err := listArg("cdr", args, 0)
		if err != nil {
			return nil, err
		}
		if len(l) == 0 {
			return nil, Errorf(EvaluationError, "cdr: empty list")
		}
		return l[1:], nil
	})
	add("cadr", Fixed(1), func(args []Value) (Value, error) {
		l, err := listArg("cadr", args, 0)
		if err != nil {
			return nil, err
		}
		if len(l) < 2 {
			return nil, Errorf(EvaluationError, "cadr: list too short")
		}
		return l[1], nil
	})
	add("list", Variadic(0), func(args []Value) (Value, error) {
		return append([]Value{}, args...), nil
	})
	add("length", Fixed(1), func(args []Value) (Value, error) {
		switch x := args[0].(type) {
		case []Value:
			return float64(len(x)), nil
		case string:
			return float64(utf8.RuneCountInString(x)), nil
		case *Dict:
			return float64(x.Len()), nil
		}
		return nil, typeErr("length", "list", args[0])
	})

	add("list?", Fixed(1), is(func(v Value) bool {
		_, ok := v.([]Value)
		return ok
	}))
	add("null?", Fixed(1), is(func(v Value) bool {
		l, ok := v.([]Value)
		return ok && len(l) == 0
	}))
	add("symbol?", Fixed(1), is(func(v Value) bool {
		_, ok := v.(Symbol)
		return ok
	}))
	add("boolean?", Fixed(1), is(func(v Value) bool {
		_, ok := v.(bool)
		return ok
	}))
	add("number?", Fixed(1), is(func(v Value) bool {
		_, ok := v.(float64)
		return ok
	}))
	add("string?", Fixed(1), is(func(v Value) bool {
		_, ok := v.(string)
		return ok
	}))
	add("procedure?", Fixed(1), is(Callable))

	add("apply", Variadic(2), func(args []Value) (Value, error) {
		last, err := listArg("apply", args, len(args)-1)
		if err != nil {
			return nil, err
		}
		callArgs := append(append([]Value{}, args[1:len(args)-1]...), last...)
		return Apply(args[0], callArgs)
	})
	add("map", Variadic(2), func(args []Value) (Value, error) {
		lists := make([][]Value, len(args)-1)
		n := -1
		for i := range lists {
			l, err := listArg("map", args, i+1)
			if err != nil {
				return nil, err
			}
			lists[i] = l
			if n < 0 || len(l) < n {
				n = len(l)
			}
		}
		out := make([]Value, n)
		for j := 0; j < n; j++ {
			callArgs := make([]Value, len(lists))
			for i, l := range lists {
				callArgs[i] = l[j]
			}
			v, err := Apply(args[0], callArgs)
			if err != nil {
				return nil, err
			}
			out[j] = v
		}
		return out, nil
	})

	add("abs", Fixed(1), math1("abs", math.Abs))
	add("sqrt", Fixed(1), math1("sqrt", math.Sqrt))
	add("round", Fixed(1), math1("round", math.Round))
	add("expt", Fixed(2), func(args []Value) (Value, error) {
		nums, err := numArgs("expt", args)
		if err != nil {
			return nil, err
		}
		return math.Pow(nums[0], nums[1]), nil
	})
	add("min", Variadic(1), extremum("min", func(a, b float64) bool { return a < b }))
	add("max", Variadic(1), extremum("max", func(a, b float64) bool { return a > b }))

	add("string-append", Variadic(0), func(args []Value) (Value, error) {
		var sb strings.Builder
		for _, a := range args {
			s, ok := a.(string)
			if !ok {
				return nil, typeErr("string-append", "string", a)
			}
			sb.WriteString(s)
		}
		return sb.String(), nil
	})

	add("display", Fixed(1), func(args []Value) (Value, error) {
		if s, ok := args[0].(string); ok {
			fmt.Fprint(out, s)
		} else {
			fmt.Fprint(out, String(args[0]))
		}
		return nil, nil
	})
	add("newline", None(), func(args []Value) (Value, error) {
		fmt.Fprintln(out)
		return nil, nil
	})
	add("eval", Fixed(1), func(args []Value) (Value, error) {
		return Evaluate(args[0], env)
	})

	return b
}

// Equal reports structural equality.
func Equal(a, b Value) bool {
	la, aok := a.([]Value)
	lb, bok := b.([]Value)
	if aok || bok {
		if !aok || !bok || len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !Equal(la[i], lb[i]) {
				return false
			}
		}
		return true
	}
	return identical(a, b)
}

func identical(a, b Value) bool {
	la, aok := a.([]Value)
	lb, bok := b.([]Value)
	if aok || bok {
		if !aok || !bok || len(la) != len(lb) {
			return false
		}
		return len(la) == 0 || &la[0] == &lb[0]
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || (ta != nil && !ta.Comparable()) {
		return false
	}
	return a == b
}

func typeErr(name, want string, got Value) error {
	return Errorf(EvaluationError, "%s: expected %s, got %s", name, want, String(got))
}

func listArg(name string, args []Value, i int) ([]Value, error) {
	l, ok := args[i].([]Value)
	if !ok {
		return nil, typeErr(name, "list", args[i])
	}
	return l, nil
}

func numArgs(name string, args []Value) ([]float64, error) {
	nums := make([]float64, len(args))
	for i, a := range args {
		n, ok := a.(float64)
		if !ok {
			return nil, typeErr(name, "number", a)
		}
		nums[i] = n
	}
	return nums, nil
}

func arith(name string, unit float64, op func(a, b float64) float64) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		nums, err := numArgs(name, args)
		if err != nil {
			return nil, err
		}
		acc := unit
		for _, n := range nums {
			acc = op(acc, n)
		}
		return acc, nil
	}
}

func compare(name string, ok func(a, b float64) bool) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		nums, err := numArgs(name, args)
		if err != nil {
			return nil, err
		}
		for i := 1; i < len(nums); i++ {
			if !ok(nums[i-1], nums[i]) {
				return false, nil
			}
		}
		return true, nil
	}
}

func extremum(name string, better func(a, b float64) bool) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		nums, err := numArgs(name, args)
		if err != nil {
			return nil, err
		}
		best := nums[0]
		for _, n := range nums[1:] {
			if better(n, best) {
				best = n
			}
		}
		return best, nil
	}
}

func math1(name string, f func(float64) float64) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		nums, err := numArgs(name, args)
		if err != nil {
			return nil, err
		}
		return f(nums[0]), nil
	}
}

func is(pred func(Value) bool) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) { return pred(args[0]), nil }
}

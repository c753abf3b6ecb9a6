package lisp

import (
	"errors"
	"fmt"
)

// Evaluate expands x against env and reduces the result. It is the entry
// point for expressions that come straight from the reader.
func Evaluate(x Value, env *Env) (Value, error) {
	expanded, err := Expand(x, env)
	if err != nil {
		return nil, err
	}
	return Eval(expanded, env)
}

// Eval reduces an already expanded expression in env.
func Eval(x Value, env *Env) (Value, error) {
	return eval(x, env, builtinDepth)
}

// builtinDepth is the evaluation depth of the innermost builtin call in
// progress. Apply and Eval continue from it, so recursion that passes
// through builtins such as apply, map and eval stays bounded by maxDepth.
// Evaluation is single-threaded.
var builtinDepth int

func callBuiltin(f *Builtin, args []Value, depth int) (Value, error) {
	prev := builtinDepth
	builtinDepth = depth
	defer func() { builtinDepth = prev }()
	return f.Call(args)
}

func eval(x Value, env *Env, depth int) (Value, error) {
	if depth > maxDepth {
		return nil, Errorf(EvaluationError, "maximum recursion depth exceeded")
	}
	for {
		var list []Value
		switch v := x.(type) {
		case Symbol:
			val, ok := env.Lookup(string(v))
			if !ok {
				return nil, Errorf(EvaluationError, "unbound symbol: %s", v)
			}
			return val, nil
		case []Value:
			list = v
		default:
			return x, nil
		}
		if len(list) == 0 {
			return nil, Errorf(EvaluationError, "cannot evaluate empty combination")
		}

		switch list[0] {
		case symQuote:
			return list[1], nil

		case symIf:
			test, err := eval(list[1], env, depth+1)
			if err != nil {
				return nil, err
			}
			if Truthy(test) {
				x = list[2]
			} else {
				x = list[3]
			}
			continue

		case symSet:
			val, err := eval(list[2], env, depth+1)
			if err != nil {
				return nil, err
			}
			if err := env.Set(string(list[1].(Symbol)), val); err != nil {
				return nil, err
			}
			return nil, nil

		case symDefine:
			val, err := eval(list[2], env, depth+1)
			if err != nil {
				return nil, err
			}
			env.Define(string(list[1].(Symbol)), val)
			return nil, nil

		case symLambda:
			fixed, rest, err := lambdaParams(list[1])
			if err != nil {
				return nil, Wrap(EvaluationError, "lambda", err)
			}
			return &Procedure{Params: fixed, Rest: rest, Body: list[2], Env: env}, nil

		case symBegin:
			for _, exp := range list[1 : len(list)-1] {
				if _, err := eval(exp, env, depth+1); err != nil {
					return nil, err
				}
			}
			x = list[len(list)-1]
			continue
		}

		fn, err := eval(list[0], env, depth+1)
		if err != nil {
			return nil, err
		}
		args := make([]Value, len(list)-1)
		for i, exp := range list[1:] {
			if args[i], err = eval(exp, env, depth+1); err != nil {
				return nil, err
			}
		}

		switch f := fn.(type) {
		case *Procedure:
			if env, err = f.bind(args); err != nil {
				return nil, err
			}
			x = f.Body
		case *Builtin:
			return callBuiltin(f, args, depth+1)
		default:
			return nil, notCallable(fn)
		}
	}
}

// Apply calls a procedure or builtin with already evaluated arguments.
func Apply(fn Value, args []Value) (Value, error) {
	switch f := fn.(type) {
	case *Procedure:
		env, err := f.bind(args)
		if err != nil {
			return nil, err
		}
		return eval(f.Body, env, builtinDepth+1)
	case *Builtin:
		if builtinDepth >= maxDepth {
			return nil, Errorf(EvaluationError, "maximum recursion depth exceeded")
		}
		return callBuiltin(f, args, builtinDepth+1)
	}
	return nil, notCallable(fn)
}

func notCallable(fn Value) error {
	if m, ok := fn.(*Macro); ok {
		return Errorf(EvaluationError, "macro %s cannot be used as a value", m.Name)
	}
	return Errorf(EvaluationError, "not a procedure: %s", String(fn))
}

func (p *Procedure) bind(args []Value) (*Env, error) {
	if len(args) < len(p.Params) || (p.Rest == "" && len(args) > len(p.Params)) {
		want := fmt.Sprintf("%d", len(p.Params))
		if p.Rest != "" {
			want += " or more"
		}
		return nil, Errorf(EvaluationError, "lambda: expected %s arguments, got %d", want, len(args))
	}
	env := NewEnclosedEnv(p.Env)
	for i, name := range p.Params {
		env.Define(string(name), args[i])
	}
	if p.Rest != "" {
		env.Define(string(p.Rest), append([]Value{}, args[len(p.Params):]...))
	}
	return env, nil
}

// lambdaParams accepts a single symbol (all arguments as one list), a list of
// symbols, or a list of symbols whose last two items are "." and a rest name.
func lambdaParams(v Value) (fixed []Symbol, rest Symbol, err error) {
	if s, ok := v.(Symbol); ok {
		return nil, s, nil
	}
	list, ok := v.([]Value)
	if !ok {
		return nil, "", errors.New("parameters must be a symbol or a list of symbols")
	}
	for i, item := range list {
		s, ok := item.(Symbol)
		if !ok {
			return nil, "", fmt.Errorf("illegal parameter %s", String(item))
		}
		if s == "." {
			if i != len(list)-2 {
				return nil, "", errors.New("misplaced . in parameter list")
			}
			r, ok := list[i+1].(Symbol)
			if !ok || r == "." {
				return nil, "", fmt.Errorf("illegal rest parameter %s", String(list[i+1]))
			}
			return fixed, r, nil
		}
		fixed = append(fixed, s)
	}
	return fixed, "", nil
}

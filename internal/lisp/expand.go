package lisp

// maxDepth bounds nested evaluation and macro expansion so runaway
// recursion surfaces as an error instead of exhausting the Go stack.
const maxDepth = 10000

// Expand checks the syntax of x and rewrites it into the core forms the
// evaluator understands: quasiquote becomes cons/append calls, procedure
// definitions become lambda definitions, top-level define-macro forms are
// evaluated into Macro bindings of env, and every call whose head symbol is
// bound to a Macro is replaced by the macro's expansion.
func Expand(x Value, env *Env) (Value, error) {
	e := &expander{env: env}
	return e.expand(x, true)
}

type expander struct {
	env   *Env
	depth int
}

func syntaxErr(x Value, msg string) error {
	return Errorf(ParseError, "%s: %s", String(x), msg)
}

func (e *expander) expand(x Value, toplevel bool) (Value, error) {
	list, ok := x.([]Value)
	if !ok {
		return x, nil
	}
	if len(list) == 0 {
		return nil, syntaxErr(x, "empty combination")
	}

	e.depth++
	defer func() { e.depth-- }()
	if e.depth > maxDepth {
		return nil, Errorf(EvaluationError, "maximum expansion depth exceeded")
	}

	switch list[0] {
	case symQuote:
		if len(list) != 2 {
			return nil, syntaxErr(x, "wrong length")
		}
		return list, nil

	case symIf:
		if len(list) == 3 {
			list = append(list[:3:3], nil)
		}
		if len(list) != 4 {
			return nil, syntaxErr(x, "wrong length")
		}
		return e.expandAll(list, false)

	case symSet:
		if len(list) != 3 {
			return nil, syntaxErr(x, "wrong length")
		}
		if _, ok := list[1].(Symbol); !ok {
			return nil, syntaxErr(x, "can set! only a symbol")
		}
		val, err := e.expand(list[2], false)
		if err != nil {
			return nil, err
		}
		return []Value{symSet, list[1], val}, nil

	case symDefine, symDefineMacro:
		return e.expandDefine(list, toplevel)

	case symBegin:
		if len(list) == 1 {
			return nil, nil
		}
		return e.expandAll(list, toplevel)

	case symLambda:
		if len(list) < 3 {
			return nil, syntaxErr(x, "wrong length")
		}
		if _, _, err := lambdaParams(list[1]); err != nil {
			return nil, syntaxErr(x, err.Error())
		}
		var body Value
		if len(list) == 3 {
			body = list[2]
		} else {
			body = append([]Value{symBegin}, list[2:]...)
		}
		body, err := e.expand(body, false)
		if err != nil {
			return nil, err
		}
		return []Value{symLambda, list[1], body}, nil

	case symQuasiquote:
		if len(list) != 2 {
			return nil, syntaxErr(x, "wrong length")
		}
		qq, err := quasiquote(list[1])
		if err != nil {
			return nil, err
		}
		return e.expand(qq, toplevel)
	}

	if name, ok := list[0].(Symbol); ok {
		if v, found := e.env.Lookup(string(name)); found {
			if m, ok := v.(*Macro); ok {
				rewritten, err := Apply(m.Transformer, list[1:])
				if err != nil {
					return nil, err
				}
				return e.expand(rewritten, toplevel)
			}
		}
	}
	return e.expandAll(list, false)
}

func (e *expander) expandAll(list []Value, toplevel bool) (Value, error) {
	out := make([]Value, len(list))
	for i, item := range list {
		v, err := e.expand(item, toplevel)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *expander) expandDefine(list []Value, toplevel bool) (Value, error) {
	if len(list) < 3 {
		return nil, syntaxErr(list, "wrong length")
	}
	form := list[0]

	// (define (f args...) body...) => (define f (lambda (args...) body...))
	if sig, ok := list[1].([]Value); ok && len(sig) > 0 {
		lambda := append([]Value{symLambda, sig[1:]}, list[2:]...)
		return e.expand([]Value{form, sig[0], lambda}, toplevel)
	}

	name, ok := list[1].(Symbol)
	if !ok {
		return nil, syntaxErr(list, "can define only a symbol")
	}
	if len(list) != 3 {
		return nil, syntaxErr(list, "wrong length")
	}
	val, err := e.expand(list[2], false)
	if err != nil {
		return nil, err
	}
	if form != symDefineMacro {
		return []Value{symDefine, name, val}, nil
	}

	if !toplevel {
		return nil, syntaxErr(list, "define-macro only allowed at top level")
	}
	transformer, err := Eval(val, e.env)
	if err != nil {
		return nil, err
	}
	if !Callable(transformer) {
		return nil, syntaxErr(list, "macro must be a procedure")
	}
	e.env.Define(string(name), &Macro{Name: string(name), Transformer: transformer})
	return nil, nil
}

// quasiquote turns `x into calls that build the same structure at run time.
// The cons and append builtins are spliced in as values so user rebinding of
// those names cannot change what a quasiquote builds.
func quasiquote(x Value) (Value, error) {
	list, ok := x.([]Value)
	if !ok || len(list) == 0 {
		return []Value{symQuote, x}, nil
	}
	if list[0] == symUnquoteSplicing {
		return nil, syntaxErr(x, "can't splice here")
	}
	if list[0] == symUnquote {
		if len(list) != 2 {
			return nil, syntaxErr(x, "wrong length")
		}
		return list[1], nil
	}
	rest, err := quasiquote(list[1:])
	if err != nil {
		return nil, err
	}
	if inner, ok := list[0].([]Value); ok && len(inner) > 0 && inner[0] == symUnquoteSplicing {
		if len(inner) != 2 {
			return nil, syntaxErr(inner, "wrong length")
		}
		return []Value{appendBuiltin, inner[1], rest}, nil
	}
	first, err := quasiquote(list[0])
	if err != nil {
		return nil, err
	}
	return []Value{consBuiltin, first, rest}, nil
}

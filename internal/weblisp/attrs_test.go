package weblisp

import (
	"testing"

	"github.com/itsmostafa/weblisp/internal/driver/drivertest"
	"github.com/itsmostafa/weblisp/internal/lisp"
)

func TestBind_AbsentName(t *testing.T) {
	rt := newRuntime(t, drivertest.New())

	if rt.Bind("no-such-name", "alias") {
		t.Error("Bind() of an unbound name = true, want false")
	}
	if got := rt.Attrs(); len(got) != 0 {
		t.Errorf("Attrs() = %v, want empty", got)
	}
	if _, ok := rt.Attr("alias"); ok {
		t.Error("Attr() found an alias that was never bound")
	}
}

func TestBind_Snapshot(t *testing.T) {
	rt := newRuntime(t, drivertest.New())
	eval(t, rt, `(define greeting "hello")`)

	if !rt.Bind("greeting", "hi") {
		t.Fatal("Bind() = false, want true")
	}
	eval(t, rt, `(define greeting "bye")`)

	if got, _ := rt.Attr("hi"); got != "hello" {
		t.Errorf("Attr(hi) = %v, want the value at bind time", got)
	}
	if got := eval(t, rt, "greeting"); got != "bye" {
		t.Errorf("greeting = %v, want bye", got)
	}
	if _, ok := rt.Env().Lookup("hi"); ok {
		t.Error("Bind() defined the alias in the environment")
	}
}

func TestBind_DefaultAlias(t *testing.T) {
	rt := newRuntime(t, drivertest.New())
	eval(t, rt, "(define answer 42)")

	rt.Bind("answer", "")
	if got, ok := rt.Attr("answer"); !ok || got != float64(42) {
		t.Errorf("Attr(answer) = %v, %v; want 42, true", got, ok)
	}
}

func TestCall(t *testing.T) {
	rt := newRuntime(t, drivertest.New())
	eval(t, rt, "(define (double x) (* 2 x))")
	eval(t, rt, "(define limit 3)")
	rt.Bind("double", "twice")
	rt.Bind("limit", "")

	got, err := rt.Call("twice", float64(21))
	if err != nil || got != float64(42) {
		t.Errorf("Call(twice, 21) = %v, %v; want 42", got, err)
	}
	got, err = rt.Call("limit")
	if err != nil || got != float64(3) {
		t.Errorf("Call(limit) = %v, %v; want 3", got, err)
	}

	tests := []struct {
		name  string
		alias string
		args  []lisp.Value
	}{
		{name: "unbound alias", alias: "missing"},
		{name: "arguments to a value", alias: "limit", args: []lisp.Value{float64(1)}},
		{name: "wrong arity", alias: "twice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rt.Call(tt.alias, tt.args...)
			if lisp.KindOf(err) != string(lisp.EvaluationError) {
				t.Errorf("Call(%s) error = %v, want an EvaluationError", tt.alias, err)
			}
		})
	}
}

func TestBindAttr_FromScripts(t *testing.T) {
	rt := newRuntime(t, drivertest.New())
	eval(t, rt, "(define (greet name) (string-append \"hello \" name))")

	if got := eval(t, rt, `(bind-attr "greet" "hello")`); got != true {
		t.Fatalf("(bind-attr) = %v, want #t", got)
	}
	if got := eval(t, rt, `(bind-attr "absent")`); got != false {
		t.Errorf("(bind-attr absent) = %v, want #f", got)
	}
	if got := eval(t, rt, `(attr "hello" "world")`); got != "hello world" {
		t.Errorf("(attr hello) = %v, want hello world", got)
	}
	if want := []string{"hello"}; len(rt.Attrs()) != 1 || rt.Attrs()[0] != want[0] {
		t.Errorf("Attrs() = %v, want %v", rt.Attrs(), want)
	}
}

package weblisp

import (
	"errors"
	"strings"
	"testing"

	"github.com/itsmostafa/weblisp/internal/driver/drivertest"
	"github.com/itsmostafa/weblisp/internal/lisp"
	"github.com/itsmostafa/weblisp/internal/session"
)

func newRuntime(t *testing.T, p *drivertest.Provider, prelude ...Script) *Runtime {
	t.Helper()
	rt, err := New(Config{Factory: p.Factory(), Prelude: prelude})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	return rt
}

// eval parses and evaluates src, failing the test on error.
func eval(t *testing.T, rt *Runtime, src string) lisp.Value {
	t.Helper()
	v, err := tryEval(rt, src)
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", src, err)
	}
	return v
}

func tryEval(rt *Runtime, src string) (lisp.Value, error) {
	x, err := lisp.Parse(src)
	if err != nil {
		return nil, err
	}
	return rt.Evaluate(x)
}

func TestNew_RequiresFactory(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("New() without a factory expected error, got nil")
	}
}

func TestRegister_LaterBatchWins(t *testing.T) {
	rt := newRuntime(t, drivertest.New())

	for i, v := range []float64{1, 2, 3, 4} {
		rt.Register(lisp.Bindings{"x": v})
		if got := eval(t, rt, "x"); got != v {
			t.Fatalf("after batch %d x = %v, want %v", i+1, got, v)
		}
	}
}

func TestBatches_RegistrationOrder(t *testing.T) {
	rt := newRuntime(t, drivertest.New())
	batches := rt.batches(nil)

	if len(batches) != 4 {
		t.Fatalf("got %d batches, want 4", len(batches))
	}
	owners := []string{"car", "by-xpath", "click", "start-driver"}
	for i, name := range owners {
		if _, ok := batches[i][name]; !ok {
			t.Errorf("batch %d does not define %s", i, name)
		}
	}

	// Give every batch its own x and merge them the way New does.
	env := lisp.NewEnv()
	for i, b := range batches {
		b["x"] = float64(i)
		env.Merge(b)
	}
	if got, _ := env.Lookup("x"); got != float64(3) {
		t.Errorf("x = %v, want the post-load value 3", got)
	}
}

func TestNew_PreludeRunsAfterBootstrap(t *testing.T) {
	rt := newRuntime(t, drivertest.New(), Script{
		Name:   "prelude",
		Source: "(define click 5)\n(define both (and 1 2))",
	})

	if got := eval(t, rt, "click"); got != float64(5) {
		t.Errorf("click = %v, want the prelude value 5", got)
	}
	if got := eval(t, rt, "both"); got != float64(2) {
		t.Errorf("both = %v, want 2", got)
	}
}

func TestNew_PreludeFailureIsFatal(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		wantKind lisp.Kind
	}{
		{name: "evaluation error", source: "(car)", wantKind: lisp.EvaluationError},
		{name: "unbound symbol", source: "(define x 1)\n(undefined-fn x)", wantKind: lisp.EvaluationError},
		{name: "parse error", source: "(define x", wantKind: lisp.ParseError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := drivertest.New()
			rt, err := New(Config{Factory: p.Factory(), Prelude: []Script{{Name: "broken", Source: tt.source}}})
			if err == nil {
				t.Fatal("New() expected error, got nil")
			}
			if rt != nil {
				t.Error("New() returned a runtime alongside an error")
			}
			if got := lisp.KindOf(err); got != string(tt.wantKind) {
				t.Errorf("KindOf() = %q, want %q", got, tt.wantKind)
			}
			if !strings.HasPrefix(err.Error(), "broken: ") {
				t.Errorf("error %q does not name the script", err)
			}
		})
	}
}

func TestBootstrapMacros(t *testing.T) {
	rt := newRuntime(t, drivertest.New())

	tests := []struct {
		expr string
		want string
	}{
		{"(and)", "#t"},
		{"(and 7)", "7"},
		{"(and 1 2 3)", "3"},
		{"(and 1 #f 3)", "#f"},
		{"(and #f (undefined-fn))", "#f"},
		{"(or)", "#f"},
		{"(or #f 2)", "2"},
		{"(or #f #f)", "#f"},
		{"(or 1 (undefined-fn))", "1"},
		{"(when (> 2 1) 1 2)", "2"},
		{"(when #f 1)", "nil"},
		{"(unless #f 5)", "5"},
		{"(unless #t 5)", "nil"},
		{"(let ((a 1) (b 2)) (+ a b))", "3"},
		{"(let () 4)", "4"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := lisp.String(eval(t, rt, tt.expr)); got != tt.want {
				t.Errorf("%s = %s, want %s", tt.expr, got, tt.want)
			}
		})
	}
}

func TestLifecycle_EndToEnd(t *testing.T) {
	p := drivertest.New()
	rt := newRuntime(t, p)

	if got := eval(t, rt, "(start-driver)"); got != true {
		t.Fatalf("(start-driver) = %v, want #t", got)
	}
	if rt.Session().State() != session.Started || p.Opened != 1 {
		t.Fatalf("after start: state %v, factory calls %d", rt.Session().State(), p.Opened)
	}

	if got := eval(t, rt, `(open "http://example.com")`); got != nil {
		t.Errorf("(open) = %v, want nil", got)
	}
	if len(p.Calls) != 1 || p.Calls[0] != "navigate http://example.com" {
		t.Errorf("calls = %q, want one navigation", p.Calls)
	}

	if got := eval(t, rt, "(stop-driver)"); got != true {
		t.Errorf("(stop-driver) = %v, want #t", got)
	}
	if rt.Session().State() != session.Stopped {
		t.Errorf("after stop: state %v, want STOPPED", rt.Session().State())
	}
	if got := eval(t, rt, "(stop-driver)"); got != false {
		t.Errorf("second (stop-driver) = %v, want #f", got)
	}
}

func TestLifecycle_StartFailureIsReported(t *testing.T) {
	p := drivertest.New()
	p.OpenErr = errors.New("no browser")
	rt := newRuntime(t, p)

	_, err := tryEval(rt, "(start-driver)")
	if got := lisp.KindOf(err); got != string(lisp.LifecycleError) {
		t.Errorf("KindOf() = %q, want LifecycleError (err %v)", got, err)
	}
	if got := eval(t, rt, "(session-started?)"); got != false {
		t.Errorf("(session-started?) = %v, want #f", got)
	}
}

func TestClose(t *testing.T) {
	p := drivertest.New()
	rt := newRuntime(t, p)

	if err := rt.Close(); err != nil {
		t.Errorf("Close() on a stopped runtime: %v", err)
	}
	eval(t, rt, "(start-driver)")
	if err := rt.Close(); err != nil {
		t.Errorf("Close() unexpected error: %v", err)
	}
	if !p.Sessions()[0].Closed {
		t.Error("Close() did not quit the session")
	}
}

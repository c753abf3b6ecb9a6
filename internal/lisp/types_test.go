package lisp

import (
	"math"
	"testing"
)

func TestArity_Accepts(t *testing.T) {
	tests := []struct {
		name  string
		arity Arity
		n     int
		want  bool
	}{
		{name: "nullary with none", arity: None(), n: 0, want: true},
		{name: "nullary with one", arity: None(), n: 1, want: false},
		{name: "fixed zero is nullary", arity: Fixed(0), n: 0, want: true},
		{name: "fixed exact", arity: Fixed(2), n: 2, want: true},
		{name: "fixed short", arity: Fixed(2), n: 1, want: false},
		{name: "variadic at minimum", arity: Variadic(1), n: 1, want: true},
		{name: "variadic many", arity: Variadic(1), n: 10, want: true},
		{name: "variadic below minimum", arity: Variadic(1), n: 0, want: false},
		{name: "range upper bound", arity: Range(0, 1), n: 1, want: true},
		{name: "range above", arity: Range(0, 1), n: 2, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.arity.Accepts(tt.n); got != tt.want {
				t.Errorf("Accepts(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	falsy := []Value{nil, false, 0.0, "", []Value{}}
	for _, v := range falsy {
		if Truthy(v) {
			t.Errorf("Truthy(%s) = true, want false", String(v))
		}
	}
	truthy := []Value{true, 1.0, "x", []Value{nil}, Symbol("a"), NewDict()}
	for _, v := range truthy {
		if !Truthy(v) {
			t.Errorf("Truthy(%s) = false, want true", String(v))
		}
	}
}

func TestDict(t *testing.T) {
	d := NewDict()
	if err := d.Put("a", 1.0); err != nil {
		t.Fatalf("Put() unexpected error: %v", err)
	}
	if err := d.Put("b", nil); err != nil {
		t.Fatalf("Put() unexpected error: %v", err)
	}
	if err := d.Put("a", 2.0); err != nil {
		t.Fatalf("Put() unexpected error: %v", err)
	}
	if err := d.Put([]Value{}, 1.0); err == nil {
		t.Error("Put() with a list key expected error")
	}
	if err := d.Put(math.NaN(), 1.0); KindOf(err) != string(EvaluationError) {
		t.Errorf("Put(NaN) error = %v, want an EvaluationError", err)
	}
	if err := d.Put(math.NaN(), 2.0); err == nil {
		t.Error("second Put(NaN) expected error")
	}

	if got := String(d); got != `{"a" 2, "b" nil}` {
		t.Errorf("String() = %s", got)
	}
	if v, ok := d.Get("b"); !ok || v != nil {
		t.Errorf("Get(b) = %v, %v; want nil, true", v, ok)
	}
	if _, ok := d.Get([]Value{}); ok {
		t.Error("Get() with a list key should miss")
	}
	if _, ok := d.Get(math.NaN()); ok {
		t.Error("Get(NaN) should miss")
	}
	if d.Len() != 2 {
		t.Errorf("Len() = %d, want 2", d.Len())
	}
}

func TestEnv(t *testing.T) {
	global := NewEnv()
	global.Merge(Bindings{"x": 1.0})
	global.Merge(Bindings{"x": 2.0, "y": 3.0})

	inner := NewEnclosedEnv(global)
	inner.Define("z", 4.0)
	if err := inner.Set("x", 5.0); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}

	if v, _ := global.Lookup("x"); v != 5.0 {
		t.Errorf("x = %v, want 5 (set through inner frame)", v)
	}
	if _, ok := global.Lookup("z"); ok {
		t.Error("z leaked into the global frame")
	}
	if got := global.Names(); len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Errorf("Names() = %v, want [x y]", got)
	}
}

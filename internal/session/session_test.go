package session

import (
	"errors"
	"testing"
	"time"

	"github.com/itsmostafa/weblisp/internal/driver"
	"github.com/itsmostafa/weblisp/internal/driver/drivertest"
	"github.com/itsmostafa/weblisp/internal/lisp"
)

func TestManager_StartIsIdempotent(t *testing.T) {
	p := drivertest.New()
	m := NewManager(p.Factory(), driver.DefaultOptions(), nil)

	if m.State() != Stopped || m.Session() != nil {
		t.Fatalf("new manager state = %v, session = %v", m.State(), m.Session())
	}

	first, err := m.Start()
	if err != nil || !first {
		t.Fatalf("first Start() = %v, %v; want true, nil", first, err)
	}
	second, err := m.Start()
	if err != nil || second {
		t.Fatalf("second Start() = %v, %v; want false, nil", second, err)
	}

	if m.State() != Started {
		t.Errorf("State() = %v, want STARTED", m.State())
	}
	if p.Opened != 1 {
		t.Errorf("factory invoked %d times, want 1", p.Opened)
	}
	if m.ID() == "" {
		t.Error("started session has no ID")
	}
}

func TestManager_StopIsIdempotent(t *testing.T) {
	p := drivertest.New()
	m := NewManager(p.Factory(), driver.DefaultOptions(), nil)
	if _, err := m.Start(); err != nil {
		t.Fatal(err)
	}

	first, err := m.Stop()
	if err != nil || !first {
		t.Fatalf("first Stop() = %v, %v; want true, nil", first, err)
	}
	second, err := m.Stop()
	if err != nil || second {
		t.Fatalf("second Stop() = %v, %v; want false, nil", second, err)
	}

	if m.State() != Stopped || m.Session() != nil || m.ID() != "" {
		t.Errorf("after Stop(): state %v, session %v, id %q", m.State(), m.Session(), m.ID())
	}
	if s := p.Sessions()[0]; !s.Closed {
		t.Error("session was not quit")
	}
}

func TestManager_StartPassesOptions(t *testing.T) {
	p := drivertest.New()
	opts := driver.Options{ImplicitWait: 3 * time.Second, ScriptTimeout: 7 * time.Second}
	m := NewManager(p.Factory(), opts, nil)

	if _, err := m.Start(); err != nil {
		t.Fatal(err)
	}
	if len(p.Options) != 1 || p.Options[0] != opts {
		t.Errorf("factory options = %v, want %v", p.Options, opts)
	}
}

func TestManager_StartFailure(t *testing.T) {
	p := drivertest.New()
	p.OpenErr = errors.New("no browser")
	m := NewManager(p.Factory(), driver.DefaultOptions(), nil)

	ok, err := m.Start()
	if ok || err == nil {
		t.Fatalf("Start() = %v, %v; want false and an error", ok, err)
	}
	if lisp.KindOf(err) != string(lisp.LifecycleError) {
		t.Errorf("KindOf() = %q, want LifecycleError", lisp.KindOf(err))
	}
	if !errors.Is(err, p.OpenErr) {
		t.Errorf("error %v does not wrap the factory error", err)
	}
	if m.State() != Stopped {
		t.Errorf("State() = %v, want STOPPED", m.State())
	}

	// A later attempt can still succeed.
	p.OpenErr = nil
	if ok, err := m.Start(); !ok || err != nil {
		t.Errorf("retry Start() = %v, %v; want true, nil", ok, err)
	}
}

func TestManager_StopReleasesHandleWhenQuitFails(t *testing.T) {
	p := drivertest.New()
	p.QuitErr = errors.New("browser crashed")
	m := NewManager(p.Factory(), driver.DefaultOptions(), nil)
	if _, err := m.Start(); err != nil {
		t.Fatal(err)
	}

	ok, err := m.Stop()
	if !ok {
		t.Error("Stop() = false, want true")
	}
	if lisp.KindOf(err) != string(lisp.LifecycleError) {
		t.Errorf("Stop() error = %v, want a LifecycleError", err)
	}
	if m.State() != Stopped {
		t.Errorf("State() = %v, want STOPPED", m.State())
	}
}

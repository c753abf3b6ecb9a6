package driver_test

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/itsmostafa/weblisp/internal/driver"
	"github.com/itsmostafa/weblisp/internal/driver/drivertest"
)

func openSession(t *testing.T, p *drivertest.Provider) driver.Session {
	t.Helper()
	s, err := p.Open(driver.DefaultOptions())
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	return s
}

func TestActionChain_InertUntilPerform(t *testing.T) {
	p := drivertest.New()
	button := p.Add(driver.ByID, "go", drivertest.NewElement("go", "button"))
	s := openSession(t, p)

	chain := driver.NewActionChain(s).
		KeyDown(driver.ShiftKey, nil).
		Click(button).
		KeyUp(driver.ShiftKey, nil)

	if len(p.Calls) != 0 {
		t.Fatalf("building a chain made host calls: %v", p.Calls)
	}
	if got := chain.Steps(); !reflect.DeepEqual(got, []string{"key-down", "click", "key-up"}) {
		t.Errorf("Steps() = %v", got)
	}

	if err := chain.Perform(); err != nil {
		t.Fatalf("Perform() unexpected error: %v", err)
	}
	want := []string{
		fmt.Sprintf("key-down %q", driver.ShiftKey),
		"move-to go 0 0",
		"mouse-click 0",
		fmt.Sprintf("key-up %q", driver.ShiftKey),
	}
	if !reflect.DeepEqual(p.Calls, want) {
		t.Errorf("calls = %v, want %v", p.Calls, want)
	}
}

func TestActionChain_BuildersDoNotMutate(t *testing.T) {
	base := driver.NewActionChain(nil).DoubleClick(nil)
	longer := base.ContextClick(nil)

	if len(base.Steps()) != 1 {
		t.Errorf("base chain grew to %v", base.Steps())
	}
	if len(longer.Steps()) != 2 {
		t.Errorf("derived chain = %v, want 2 steps", longer.Steps())
	}
	if got := longer.String(); got != "#<action-chain double-click context-click>" {
		t.Errorf("String() = %q", got)
	}
}

func TestActionChain_MoveByOffset(t *testing.T) {
	tests := []struct {
		name      string
		build     func(c *driver.ActionChain, el driver.Element) *driver.ActionChain
		wantCalls []string
		wantErr   string
	}{
		{
			name: "relative to previous element move",
			build: func(c *driver.ActionChain, el driver.Element) *driver.ActionChain {
				return c.MoveToElementWithOffset(el, 5, 5).MoveByOffset(10, -2)
			},
			wantCalls: []string{"move-to box 5 5", "move-to box 15 3"},
		},
		{
			name: "drag and drop by offset",
			build: func(c *driver.ActionChain, el driver.Element) *driver.ActionChain {
				return c.DragAndDropByOffset(el, 30, 0)
			},
			wantCalls: []string{"move-to box 0 0", "button-down", "move-to box 30 0", "button-up"},
		},
		{
			name: "without anchor",
			build: func(c *driver.ActionChain, el driver.Element) *driver.ActionChain {
				return c.MoveByOffset(1, 1)
			},
			wantErr: "needs an earlier move",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := drivertest.New()
			box := p.Add(driver.ByID, "box", drivertest.NewElement("box", "div"))
			s := openSession(t, p)

			err := tt.build(driver.NewActionChain(s), box).Perform()

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Perform() error = %v, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Perform() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(p.Calls, tt.wantCalls) {
				t.Errorf("calls = %v, want %v", p.Calls, tt.wantCalls)
			}
		})
	}
}

func TestActionChain_SendKeys(t *testing.T) {
	p := drivertest.New()
	input := p.Add(driver.ByName, "q", drivertest.NewElement("q", "input"))
	p.Focused = input
	s := openSession(t, p)

	err := driver.NewActionChain(s).
		SendKeys("hello", " ", "world").
		SendKeysToElement(input, driver.EnterKey).
		Perform()
	if err != nil {
		t.Fatalf("Perform() unexpected error: %v", err)
	}
	if input.Typed != "hello world"+driver.EnterKey {
		t.Errorf("typed = %q", input.Typed)
	}
}

func TestActionChain_PerformWithoutSession(t *testing.T) {
	err := driver.NewActionChain(nil).Click(nil).Perform()
	if err == nil {
		t.Fatal("Perform() without a session expected error")
	}
	if errors.Is(err, driver.ErrNoSuchElement) {
		t.Errorf("unexpected error class: %v", err)
	}
}

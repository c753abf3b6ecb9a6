package driver

import (
	"errors"
	"fmt"
	"strings"
)

// ActionChain is an ordered list of input operations bound to a session.
// Building a chain has no effect on the page; every builder method returns a
// new chain one step longer and leaves the receiver untouched. Perform runs
// the steps.
type ActionChain struct {
	session Session
	steps   []step
}

type step struct {
	name string
	run  func(s Session, p *pointer) error
}

// pointer tracks where the last MoveTo left the mouse so relative moves
// can be expressed through element offsets.
type pointer struct {
	anchor Element
	x, y   int
}

// NewActionChain starts an empty chain for s.
func NewActionChain(s Session) *ActionChain {
	return &ActionChain{session: s}
}

func (c *ActionChain) with(name string, run func(s Session, p *pointer) error) *ActionChain {
	steps := make([]step, len(c.steps), len(c.steps)+1)
	copy(steps, c.steps)
	return &ActionChain{session: c.session, steps: append(steps, step{name: name, run: run})}
}

// Steps returns the step names in execution order.
func (c *ActionChain) Steps() []string {
	names := make([]string, len(c.steps))
	for i, s := range c.steps {
		names[i] = s.name
	}
	return names
}

func (c *ActionChain) String() string {
	if len(c.steps) == 0 {
		return "#<action-chain>"
	}
	return "#<action-chain " + strings.Join(c.Steps(), " ") + ">"
}

// Perform executes the steps in order and stops at the first failure.
func (c *ActionChain) Perform() error {
	if c.session == nil {
		return errors.New("action chain has no session")
	}
	p := &pointer{}
	for i, s := range c.steps {
		if err := s.run(c.session, p); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, s.name, err)
		}
	}
	return nil
}

func moveTo(p *pointer, el Element, x, y int) error {
	if err := el.MoveTo(x, y); err != nil {
		return err
	}
	p.anchor, p.x, p.y = el, x, y
	return nil
}

// moveIfGiven moves to el when it is not nil.
func moveIfGiven(p *pointer, el Element) error {
	if el == nil {
		return nil
	}
	return moveTo(p, el, 0, 0)
}

// Click clicks on the element, or at the current position when on is nil.
func (c *ActionChain) Click(on Element) *ActionChain {
	return c.with("click", func(s Session, p *pointer) error {
		if err := moveIfGiven(p, on); err != nil {
			return err
		}
		return s.Click(LeftButton)
	})
}

// ClickAndHold presses the left button without releasing it.
func (c *ActionChain) ClickAndHold(on Element) *ActionChain {
	return c.with("click-and-hold", func(s Session, p *pointer) error {
		if err := moveIfGiven(p, on); err != nil {
			return err
		}
		return s.ButtonDown()
	})
}

// Release releases a held left button.
func (c *ActionChain) Release(on Element) *ActionChain {
	return c.with("release", func(s Session, p *pointer) error {
		if err := moveIfGiven(p, on); err != nil {
			return err
		}
		return s.ButtonUp()
	})
}

// ContextClick right-clicks.
func (c *ActionChain) ContextClick(on Element) *ActionChain {
	return c.with("context-click", func(s Session, p *pointer) error {
		if err := moveIfGiven(p, on); err != nil {
			return err
		}
		return s.Click(RightButton)
	})
}

// DoubleClick double-clicks.
func (c *ActionChain) DoubleClick(on Element) *ActionChain {
	return c.with("double-click", func(s Session, p *pointer) error {
		if err := moveIfGiven(p, on); err != nil {
			return err
		}
		return s.DoubleClick()
	})
}

// KeyDown presses a modifier key, clicking on first when given.
func (c *ActionChain) KeyDown(key string, on Element) *ActionChain {
	return c.with("key-down", func(s Session, p *pointer) error {
		if on != nil {
			if err := on.Click(); err != nil {
				return err
			}
		}
		return s.KeyDown(key)
	})
}

// KeyUp releases a modifier key, clicking on first when given.
func (c *ActionChain) KeyUp(key string, on Element) *ActionChain {
	return c.with("key-up", func(s Session, p *pointer) error {
		if on != nil {
			if err := on.Click(); err != nil {
				return err
			}
		}
		return s.KeyUp(key)
	})
}

// MoveToElement moves the pointer onto el.
func (c *ActionChain) MoveToElement(el Element) *ActionChain {
	return c.with("move-to-elem", func(s Session, p *pointer) error {
		return moveTo(p, el, 0, 0)
	})
}

// MoveToElementWithOffset moves the pointer to an offset from el's top-left
// corner.
func (c *ActionChain) MoveToElementWithOffset(el Element, x, y int) *ActionChain {
	return c.with("move-to-elem-with-offset", func(s Session, p *pointer) error {
		return moveTo(p, el, x, y)
	})
}

// MoveByOffset moves the pointer relative to its current position. The
// position is only known after a move to an element earlier in the chain.
func (c *ActionChain) MoveByOffset(dx, dy int) *ActionChain {
	return c.with("move-by-offset", func(s Session, p *pointer) error {
		if p.anchor == nil {
			return errors.New("move-by-offset needs an earlier move to an element")
		}
		return moveTo(p, p.anchor, p.x+dx, p.y+dy)
	})
}

// SendKeys types into the focused element.
func (c *ActionChain) SendKeys(keys ...string) *ActionChain {
	return c.with("send-keys", func(s Session, p *pointer) error {
		el, err := s.ActiveElement()
		if err != nil {
			return err
		}
		return el.SendKeys(strings.Join(keys, ""))
	})
}

// SendKeysToElement clicks el and types into it.
func (c *ActionChain) SendKeysToElement(el Element, keys ...string) *ActionChain {
	return c.with("send-keys-to-elem", func(s Session, p *pointer) error {
		if err := el.Click(); err != nil {
			return err
		}
		return el.SendKeys(strings.Join(keys, ""))
	})
}

// DragAndDrop holds the button on source, moves to target and releases.
func (c *ActionChain) DragAndDrop(source, target Element) *ActionChain {
	return c.ClickAndHold(source).Release(target)
}

// DragAndDropByOffset holds the button on source, moves by an offset and
// releases.
func (c *ActionChain) DragAndDropByOffset(source Element, dx, dy int) *ActionChain {
	return c.ClickAndHold(source).MoveByOffset(dx, dy).Release(nil)
}

package driver

import (
	"fmt"
	"strings"
)

// Select wraps a <select> element.
type Select struct {
	el Element
}

// NewSelect wraps el after checking that it is a select control.
func NewSelect(el Element) (*Select, error) {
	tag, err := el.TagName()
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(tag, "select") {
		return nil, fmt.Errorf("select only works on <select> elements, not on <%s>", tag)
	}
	return &Select{el: el}, nil
}

func (s *Select) String() string { return "#<select>" }

// Element returns the wrapped element.
func (s *Select) Element() Element { return s.el }

// Options returns the option elements in document order.
func (s *Select) Options() ([]Element, error) {
	return s.el.FindElements(ByTagName, "option")
}

// SelectByIndex selects the option at the zero-based position i.
func (s *Select) SelectByIndex(i int) error {
	opts, err := s.Options()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(opts) {
		return fmt.Errorf("%w: option index %d out of range (%d options)", ErrNoSuchElement, i, len(opts))
	}
	return choose(opts[i])
}

// SelectByValue selects every option whose value attribute equals value.
func (s *Select) SelectByValue(value string) error {
	return s.selectWhere("value "+value, func(o Element) (bool, error) {
		v, err := o.GetAttribute("value")
		return v == value, err
	})
}

// SelectByVisibleText selects every option whose text equals text.
func (s *Select) SelectByVisibleText(text string) error {
	return s.selectWhere("text "+text, func(o Element) (bool, error) {
		t, err := o.Text()
		return strings.TrimSpace(t) == text, err
	})
}

func (s *Select) selectWhere(desc string, match func(Element) (bool, error)) error {
	opts, err := s.Options()
	if err != nil {
		return err
	}
	found := false
	for _, o := range opts {
		ok, err := match(o)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		found = true
		if err := choose(o); err != nil {
			return err
		}
	}
	if !found {
		return fmt.Errorf("%w: no option with %s", ErrNoSuchElement, desc)
	}
	return nil
}

func choose(o Element) error {
	selected, err := o.IsSelected()
	if err != nil {
		return err
	}
	if selected {
		return nil
	}
	return o.Click()
}

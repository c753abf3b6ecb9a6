// Package drivertest provides an in-memory automation provider that records
// every call made to it.
package drivertest

import (
	"fmt"
	"strings"

	"github.com/itsmostafa/weblisp/internal/driver"
)

// Provider hands out recording sessions. Register elements with Add before
// scripts look them up.
type Provider struct {
	// Calls lists every host call across all sessions, in order.
	Calls []string
	// Opened counts successful and failed factory invocations.
	Opened int
	// Options holds the options of each factory invocation.
	Options []driver.Options
	// OpenErr, when set, makes the factory fail.
	OpenErr error
	// QuitErr, when set, makes Session.Quit fail after recording the call.
	QuitErr error
	// ScriptResult is returned by ExecuteScript.
	ScriptResult any
	// ScriptArgs holds the arguments of the last ExecuteScript call.
	ScriptArgs []any
	// Focused is returned by ActiveElement.
	Focused *Element

	elements map[string][]*Element
	sessions []*Session
}

// New returns an empty provider.
func New() *Provider {
	return &Provider{elements: make(map[string][]*Element)}
}

// Factory returns the provider's session factory.
func (p *Provider) Factory() driver.Factory {
	return p.Open
}

// Open implements driver.Factory.
func (p *Provider) Open(opts driver.Options) (driver.Session, error) {
	p.Opened++
	p.Options = append(p.Options, opts)
	if p.OpenErr != nil {
		return nil, p.OpenErr
	}
	s := &Session{p: p, ID: len(p.sessions) + 1}
	p.sessions = append(p.sessions, s)
	return s, nil
}

// Sessions returns every session opened so far.
func (p *Provider) Sessions() []*Session {
	return p.sessions
}

// Add registers el as a match for (by, value).
func (p *Provider) Add(by driver.Strategy, value string, el *Element) *Element {
	el.attach(p)
	key := lookupKey(by, value)
	p.elements[key] = append(p.elements[key], el)
	return el
}

// Reset forgets recorded calls.
func (p *Provider) Reset() {
	p.Calls = nil
}

func (p *Provider) record(format string, args ...any) {
	p.Calls = append(p.Calls, fmt.Sprintf(format, args...))
}

func lookupKey(by driver.Strategy, value string) string {
	return by + "=" + value
}

// Session is a recording driver.Session.
type Session struct {
	p      *Provider
	ID     int
	URL    string
	Closed bool
}

var _ driver.Session = (*Session)(nil)

func (s *Session) String() string { return fmt.Sprintf("#<session %d>", s.ID) }

func (s *Session) Navigate(url string) error {
	s.p.record("navigate %s", url)
	s.URL = url
	return nil
}

func (s *Session) FindElement(by driver.Strategy, value string) (driver.Element, error) {
	s.p.record("find %s %s", by, value)
	els := s.p.elements[lookupKey(by, value)]
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s=%s", driver.ErrNoSuchElement, by, value)
	}
	return els[0], nil
}

func (s *Session) FindElements(by driver.Strategy, value string) ([]driver.Element, error) {
	s.p.record("find-all %s %s", by, value)
	return toElements(s.p.elements[lookupKey(by, value)]), nil
}

func (s *Session) ActiveElement() (driver.Element, error) {
	s.p.record("active-element")
	if s.p.Focused == nil {
		return nil, fmt.Errorf("%w: nothing focused", driver.ErrNoSuchElement)
	}
	return s.p.Focused, nil
}

func (s *Session) Title() (string, error) {
	s.p.record("title")
	return "Title of " + s.URL, nil
}

func (s *Session) CurrentURL() (string, error) {
	s.p.record("current-url")
	return s.URL, nil
}

func (s *Session) ExecuteScript(script string, args []any) (any, error) {
	s.p.record("script %s %d", script, len(args))
	s.p.ScriptArgs = args
	return s.p.ScriptResult, nil
}

func (s *Session) KeyDown(keys string) error {
	s.p.record("key-down %q", keys)
	return nil
}

func (s *Session) KeyUp(keys string) error {
	s.p.record("key-up %q", keys)
	return nil
}

func (s *Session) ButtonDown() error {
	s.p.record("button-down")
	return nil
}

func (s *Session) ButtonUp() error {
	s.p.record("button-up")
	return nil
}

func (s *Session) Click(button driver.Button) error {
	s.p.record("mouse-click %d", button)
	return nil
}

func (s *Session) DoubleClick() error {
	s.p.record("double-click")
	return nil
}

func (s *Session) Quit() error {
	s.p.record("quit")
	s.Closed = true
	return s.p.QuitErr
}

// Element is a recording driver.Element.
type Element struct {
	Name     string
	Tag      string
	Content  string
	Attrs    map[string]string
	Selected bool
	Typed    string
	Children []*Element

	p *Provider
}

var _ driver.Element = (*Element)(nil)

// NewElement returns an element with the given name and tag.
func NewElement(name, tag string) *Element {
	return &Element{Name: name, Tag: tag, Attrs: map[string]string{}}
}

// Option returns an <option> element with a value and visible text.
func Option(value, text string) *Element {
	o := NewElement("option:"+value, "option")
	o.Attrs["value"] = value
	o.Content = text
	return o
}

func (e *Element) attach(p *Provider) {
	e.p = p
	for _, c := range e.Children {
		c.attach(p)
	}
}

func (e *Element) String() string { return "#<element " + e.Name + ">" }

func (e *Element) Click() error {
	e.p.record("click %s", e.Name)
	if e.Tag == "option" {
		e.Selected = true
	}
	return nil
}

func (e *Element) SendKeys(keys string) error {
	e.p.record("send-keys %s %q", e.Name, keys)
	e.Typed += keys
	return nil
}

func (e *Element) Clear() error {
	e.p.record("clear %s", e.Name)
	e.Typed = ""
	return nil
}

func (e *Element) Text() (string, error) {
	e.p.record("text %s", e.Name)
	return e.Content, nil
}

func (e *Element) TagName() (string, error) {
	return e.Tag, nil
}

func (e *Element) GetAttribute(name string) (string, error) {
	e.p.record("attribute %s %s", e.Name, name)
	return e.Attrs[name], nil
}

func (e *Element) IsSelected() (bool, error) {
	return e.Selected, nil
}

func (e *Element) MoveTo(xOffset, yOffset int) error {
	e.p.record("move-to %s %d %d", e.Name, xOffset, yOffset)
	return nil
}

func (e *Element) FindElements(by driver.Strategy, value string) ([]driver.Element, error) {
	var out []*Element
	for _, c := range e.Children {
		if by == driver.ByTagName && strings.EqualFold(c.Tag, value) {
			out = append(out, c)
		}
	}
	return toElements(out), nil
}

func toElements(els []*Element) []driver.Element {
	out := make([]driver.Element, len(els))
	for i, e := range els {
		out[i] = e
	}
	return out
}

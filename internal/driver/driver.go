// Package driver defines the contract WebLisp needs from a browser
// automation provider, plus the provider-neutral helpers built on it
// (action chains and select controls).
package driver

import (
	"errors"
	"time"
)

// Default waits applied to every new session.
const (
	DefaultImplicitWait  = 10 * time.Second
	DefaultScriptTimeout = 20 * time.Second
)

// ErrNoSuchElement is returned when a lookup matches nothing.
var ErrNoSuchElement = errors.New("no such element")

// Strategy names a way of locating elements.
type Strategy = string

// Locator strategies, using the WebDriver wire names.
const (
	ByID              Strategy = "id"
	ByXPath           Strategy = "xpath"
	ByLinkText        Strategy = "link text"
	ByPartialLinkText Strategy = "partial link text"
	ByName            Strategy = "name"
	ByTagName         Strategy = "tag name"
	ByClassName       Strategy = "class name"
	ByCSSSelector     Strategy = "css selector"
)

// Special keys, encoded as the WebDriver private-use code points.
const (
	BackspaceKey  = "\ue003"
	TabKey        = "\ue004"
	EnterKey      = "\ue007"
	ShiftKey      = "\ue008"
	ControlKey    = "\ue009"
	AltKey        = "\ue00a"
	EscapeKey     = "\ue00c"
	SpaceKey      = "\ue00d"
	PageUpKey     = "\ue00e"
	PageDownKey   = "\ue00f"
	EndKey        = "\ue010"
	HomeKey       = "\ue011"
	LeftArrowKey  = "\ue012"
	UpArrowKey    = "\ue013"
	RightArrowKey = "\ue014"
	DownArrowKey  = "\ue015"
	DeleteKey     = "\ue017"
)

// Button is a mouse button.
type Button int

const (
	LeftButton Button = iota
	MiddleButton
	RightButton
)

// Options configure a new session.
type Options struct {
	// ImplicitWait bounds how long element lookups wait for a match.
	ImplicitWait time.Duration
	// ScriptTimeout bounds asynchronous script execution.
	ScriptTimeout time.Duration
}

// DefaultOptions returns the waits used when none are configured.
func DefaultOptions() Options {
	return Options{
		ImplicitWait:  DefaultImplicitWait,
		ScriptTimeout: DefaultScriptTimeout,
	}
}

// Factory opens a new automation session.
type Factory func(opts Options) (Session, error)

// Session is one live automation connection.
type Session interface {
	Navigate(url string) error
	FindElement(by Strategy, value string) (Element, error)
	FindElements(by Strategy, value string) ([]Element, error)
	ActiveElement() (Element, error)
	Title() (string, error)
	CurrentURL() (string, error)
	ExecuteScript(script string, args []any) (any, error)

	// Low-level input used by action chains. Pointer operations act at the
	// position of the last MoveTo.
	KeyDown(keys string) error
	KeyUp(keys string) error
	ButtonDown() error
	ButtonUp() error
	Click(button Button) error
	DoubleClick() error

	// Quit terminates the session and releases its resources.
	Quit() error
}

// Element is a handle to a page element.
type Element interface {
	Click() error
	SendKeys(keys string) error
	Clear() error
	Text() (string, error)
	TagName() (string, error)
	GetAttribute(name string) (string, error)
	IsSelected() (bool, error)
	// MoveTo moves the pointer to the given offset from the element's
	// top-left corner.
	MoveTo(xOffset, yOffset int) error
	FindElements(by Strategy, value string) ([]Element, error)
}

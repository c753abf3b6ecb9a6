package weblisp

import (
	"github.com/itsmostafa/weblisp/internal/driver"
	"github.com/itsmostafa/weblisp/internal/lisp"
)

// variables returns the locator strategies and key codes.
func variables() lisp.Bindings {
	return lisp.Bindings{
		"by-id":                driver.ByID,
		"by-xpath":             driver.ByXPath,
		"by-link-text":         driver.ByLinkText,
		"by-partial-link-text": driver.ByPartialLinkText,
		"by-name":              driver.ByName,
		"by-tag-name":          driver.ByTagName,
		"by-class-name":        driver.ByClassName,
		"by-css-selector":      driver.ByCSSSelector,

		"arrow-up-key":    driver.UpArrowKey,
		"arrow-down-key":  driver.DownArrowKey,
		"arrow-left-key":  driver.LeftArrowKey,
		"arrow-right-key": driver.RightArrowKey,
		"enter-key":       driver.EnterKey,
		"tab-key":         driver.TabKey,
		"escape-key":      driver.EscapeKey,
		"backspace-key":   driver.BackspaceKey,
		"delete-key":      driver.DeleteKey,
		"space-key":       driver.SpaceKey,
		"shift-key":       driver.ShiftKey,
		"control-key":     driver.ControlKey,
		"alt-key":         driver.AltKey,
		"home-key":        driver.HomeKey,
		"end-key":         driver.EndKey,
		"page-up-key":     driver.PageUpKey,
		"page-down-key":   driver.PageDownKey,
	}
}

package weblisp

import (
	"github.com/dop251/goja"

	"github.com/itsmostafa/weblisp/internal/lisp"
)

// checkScript compiles a page script without running it, so a syntax error
// is reported before anything is sent to the browser. WebDriver runs the
// script as a function body, hence the wrapper.
func checkScript(src string) error {
	if _, err := goja.Compile("execute-script", "(function(){"+src+"\n})", false); err != nil {
		return lisp.Errorf(lisp.ParseError, "execute-script: %v", err)
	}
	return nil
}

package weblisp

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/itsmostafa/weblisp/internal/driver"
	"github.com/itsmostafa/weblisp/internal/lisp"
)

// gating says whether a capability needs a live session.
//
// Every capability that reaches the session handle, navigation included, is
// session-gated: while no session is live it returns null and makes no host
// call. Scripts can therefore touch pages before start-driver without
// failing, at the price of silently ignoring real misuse. Capabilities that
// only build values (action transformers, dicts, attributes) are
// unconditional.
type gating int

const (
	unconditional gating = iota
	sessionGated
)

// capability is one named host function. fn receives the handle that is
// live at call time; closures never keep it.
type capability struct {
	name  string
	arity lisp.Arity
	gate  gating
	fn    func(h driver.Session, args []lisp.Value) (lisp.Value, error)
}

func (r *Runtime) bind(c capability) *lisp.Builtin {
	return lisp.NewBuiltin(c.name, c.arity, func(args []lisp.Value) (lisp.Value, error) {
		h := r.session.Session()
		if c.gate == sessionGated && h == nil {
			r.logger.Debug("no session, capability skipped", slog.String("capability", c.name))
			return nil, nil
		}
		return c.fn(h, args)
	})
}

func (r *Runtime) capabilities() lisp.Bindings {
	b := lisp.Bindings{}
	for _, c := range r.capabilityTable() {
		b[c.name] = r.bind(c)
	}
	return b
}

func (r *Runtime) capabilityTable() []capability {
	caps := []capability{
		{name: "open", arity: lisp.Fixed(1), gate: sessionGated, fn: navigate},
		{name: "title", arity: lisp.None(), gate: sessionGated, fn: title},
		{name: "current-url", arity: lisp.None(), gate: sessionGated, fn: currentURL},
		{name: "execute-script", arity: lisp.Variadic(1), gate: sessionGated, fn: executeScript},
		{name: "find-elem", arity: lisp.Range(2, 3), gate: sessionGated, fn: findElem},
		{name: "find-elems", arity: lisp.Range(2, 3), gate: sessionGated, fn: findElems},
		{name: "click", arity: lisp.Fixed(1), gate: sessionGated, fn: click},
		{name: "send-keys", arity: lisp.Variadic(2), gate: sessionGated, fn: sendKeys},
		{name: "clear", arity: lisp.Fixed(1), gate: sessionGated, fn: clear},
		{name: "text", arity: lisp.Fixed(1), gate: sessionGated, fn: text},
		{name: "attribute", arity: lisp.Fixed(2), gate: sessionGated, fn: attribute},
		{name: "select", arity: lisp.Fixed(1), gate: sessionGated, fn: selectControl},
		{name: "select-by-index", arity: lisp.Fixed(2), gate: sessionGated, fn: selectByIndex},
		{name: "select-by-value", arity: lisp.Fixed(2), gate: sessionGated, fn: selectByValue},
		{name: "select-by-visible-text", arity: lisp.Fixed(2), gate: sessionGated, fn: selectByVisibleText},
		{name: "action-chain", arity: lisp.Variadic(0), gate: sessionGated, fn: actionChain},
		{name: "action-perform", arity: lisp.Fixed(1), gate: sessionGated, fn: actionPerform},
		{name: "session-id", arity: lisp.None(), gate: sessionGated, fn: func(driver.Session, []lisp.Value) (lisp.Value, error) {
			return r.session.ID(), nil
		}},

		{name: "session-started?", arity: lisp.None(), gate: unconditional, fn: func(driver.Session, []lisp.Value) (lisp.Value, error) {
			return r.session.Started(), nil
		}},
		{name: "dict-build", arity: lisp.Variadic(0), gate: unconditional, fn: dictBuild},
		{name: "dict-lookup", arity: lisp.Fixed(2), gate: unconditional, fn: dictLookup},
		{name: "bind-attr", arity: lisp.Range(1, 2), gate: unconditional, fn: r.bindAttr},
		{name: "attr", arity: lisp.Variadic(1), gate: unconditional, fn: r.attr},
	}
	return append(caps, actionBuilders()...)
}

func hostErr(name string, err error) error {
	return lisp.Wrap(lisp.HostActionError, name, err)
}

func argErr(name string, i int, want string, got lisp.Value) error {
	return lisp.Errorf(lisp.EvaluationError, "%s: argument %d must be %s, got %s", name, i+1, want, lisp.String(got))
}

func elementArg(name string, args []lisp.Value, i int) (driver.Element, error) {
	el, ok := args[i].(driver.Element)
	if !ok {
		return nil, argErr(name, i, "an element", args[i])
	}
	return el, nil
}

// optElementArg returns nil when the optional element at i is absent.
func optElementArg(name string, args []lisp.Value, i int) (driver.Element, error) {
	if i >= len(args) || args[i] == nil {
		return nil, nil
	}
	return elementArg(name, args, i)
}

func stringArg(name string, args []lisp.Value, i int) (string, error) {
	switch s := args[i].(type) {
	case string:
		return s, nil
	case lisp.Symbol:
		return string(s), nil
	}
	return "", argErr(name, i, "text", args[i])
}

func intArg(name string, args []lisp.Value, i int) (int, error) {
	n, ok := args[i].(float64)
	if !ok || n != math.Trunc(n) {
		return 0, argErr(name, i, "an integer", args[i])
	}
	return int(n), nil
}

func keysArg(name string, args []lisp.Value) (string, error) {
	var sb strings.Builder
	for i := range args {
		if n, ok := args[i].(float64); ok {
			sb.WriteString(lisp.String(n))
			continue
		}
		s, err := stringArg(name, args, i)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

func navigate(h driver.Session, args []lisp.Value) (lisp.Value, error) {
	url, err := stringArg("open", args, 0)
	if err != nil {
		return nil, err
	}
	if err := h.Navigate(url); err != nil {
		return nil, hostErr("open", err)
	}
	return nil, nil
}

func title(h driver.Session, _ []lisp.Value) (lisp.Value, error) {
	t, err := h.Title()
	if err != nil {
		return nil, hostErr("title", err)
	}
	return t, nil
}

func currentURL(h driver.Session, _ []lisp.Value) (lisp.Value, error) {
	u, err := h.CurrentURL()
	if err != nil {
		return nil, hostErr("current-url", err)
	}
	return u, nil
}

func executeScript(h driver.Session, args []lisp.Value) (lisp.Value, error) {
	script, err := stringArg("execute-script", args, 0)
	if err != nil {
		return nil, err
	}
	if err := checkScript(script); err != nil {
		return nil, err
	}
	scriptArgs := make([]any, len(args)-1)
	for i, a := range args[1:] {
		v, err := toHost(a)
		if err != nil {
			return nil, lisp.Wrap(lisp.EvaluationError, "execute-script", err)
		}
		scriptArgs[i] = v
	}
	res, err := h.ExecuteScript(script, scriptArgs)
	if err != nil {
		return nil, hostErr("execute-script", err)
	}
	return fromHost(res), nil
}

// findScope reads the locator and the parent element given as the optional
// third argument.
func findScope(name string, args []lisp.Value) (by, value string, parent driver.Element, err error) {
	if by, err = stringArg(name, args, 0); err != nil {
		return
	}
	if value, err = stringArg(name, args, 1); err != nil {
		return
	}
	parent, err = optElementArg(name, args, 2)
	return
}

func findElem(h driver.Session, args []lisp.Value) (lisp.Value, error) {
	by, value, parent, err := findScope("find-elem", args)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		el, err := h.FindElement(by, value)
		if err != nil {
			return nil, hostErr("find-elem", err)
		}
		return el, nil
	}
	els, err := parent.FindElements(by, value)
	if err != nil {
		return nil, hostErr("find-elem", err)
	}
	if len(els) == 0 {
		return nil, hostErr("find-elem", fmt.Errorf("%w: %s=%s", driver.ErrNoSuchElement, by, value))
	}
	return els[0], nil
}

func findElems(h driver.Session, args []lisp.Value) (lisp.Value, error) {
	by, value, parent, err := findScope("find-elems", args)
	if err != nil {
		return nil, err
	}
	var els []driver.Element
	if parent == nil {
		els, err = h.FindElements(by, value)
	} else {
		els, err = parent.FindElements(by, value)
	}
	if err != nil {
		return nil, hostErr("find-elems", err)
	}
	out := make([]lisp.Value, len(els))
	for i, el := range els {
		out[i] = el
	}
	return out, nil
}

func click(_ driver.Session, args []lisp.Value) (lisp.Value, error) {
	el, err := elementArg("click", args, 0)
	if err != nil {
		return nil, err
	}
	if err := el.Click(); err != nil {
		return nil, hostErr("click", err)
	}
	return nil, nil
}

func sendKeys(_ driver.Session, args []lisp.Value) (lisp.Value, error) {
	el, err := elementArg("send-keys", args, 0)
	if err != nil {
		return nil, err
	}
	keys, err := keysArg("send-keys", args[1:])
	if err != nil {
		return nil, err
	}
	if err := el.SendKeys(keys); err != nil {
		return nil, hostErr("send-keys", err)
	}
	return nil, nil
}

func clear(_ driver.Session, args []lisp.Value) (lisp.Value, error) {
	el, err := elementArg("clear", args, 0)
	if err != nil {
		return nil, err
	}
	if err := el.Clear(); err != nil {
		return nil, hostErr("clear", err)
	}
	return nil, nil
}

func text(_ driver.Session, args []lisp.Value) (lisp.Value, error) {
	el, err := elementArg("text", args, 0)
	if err != nil {
		return nil, err
	}
	t, err := el.Text()
	if err != nil {
		return nil, hostErr("text", err)
	}
	return t, nil
}

func attribute(_ driver.Session, args []lisp.Value) (lisp.Value, error) {
	el, err := elementArg("attribute", args, 0)
	if err != nil {
		return nil, err
	}
	name, err := stringArg("attribute", args, 1)
	if err != nil {
		return nil, err
	}
	v, err := el.GetAttribute(name)
	if err != nil {
		return nil, hostErr("attribute", err)
	}
	return v, nil
}

func selectArg(name string, args []lisp.Value) (*driver.Select, error) {
	if s, ok := args[0].(*driver.Select); ok {
		return s, nil
	}
	el, err := elementArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	s, err := driver.NewSelect(el)
	if err != nil {
		return nil, hostErr(name, err)
	}
	return s, nil
}

func selectControl(_ driver.Session, args []lisp.Value) (lisp.Value, error) {
	return selectArg("select", args)
}

func selectByIndex(_ driver.Session, args []lisp.Value) (lisp.Value, error) {
	s, err := selectArg("select-by-index", args)
	if err != nil {
		return nil, err
	}
	i, err := intArg("select-by-index", args, 1)
	if err != nil {
		return nil, err
	}
	if err := s.SelectByIndex(i); err != nil {
		return nil, hostErr("select-by-index", err)
	}
	return nil, nil
}

func selectByValue(_ driver.Session, args []lisp.Value) (lisp.Value, error) {
	s, err := selectArg("select-by-value", args)
	if err != nil {
		return nil, err
	}
	v, err := stringArg("select-by-value", args, 1)
	if err != nil {
		return nil, err
	}
	if err := s.SelectByValue(v); err != nil {
		return nil, hostErr("select-by-value", err)
	}
	return nil, nil
}

func selectByVisibleText(_ driver.Session, args []lisp.Value) (lisp.Value, error) {
	s, err := selectArg("select-by-visible-text", args)
	if err != nil {
		return nil, err
	}
	t, err := stringArg("select-by-visible-text", args, 1)
	if err != nil {
		return nil, err
	}
	if err := s.SelectByVisibleText(t); err != nil {
		return nil, hostErr("select-by-visible-text", err)
	}
	return nil, nil
}

// toHost converts a script value into something the automation provider
// can serialize. Elements pass through for the provider to encode.
func toHost(v lisp.Value) (any, error) {
	switch x := v.(type) {
	case nil, bool, float64, string:
		return x, nil
	case lisp.Symbol:
		return string(x), nil
	case driver.Element:
		return x, nil
	case []lisp.Value:
		out := make([]any, len(x))
		for i, item := range x {
			hv, err := toHost(item)
			if err != nil {
				return nil, err
			}
			out[i] = hv
		}
		return out, nil
	case *lisp.Dict:
		out := make(map[string]any, x.Len())
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			hv, err := toHost(val)
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(k)] = hv
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot pass %s to a page script", lisp.String(v))
}

// fromHost converts a page script result into a script value. Object keys
// are added in sorted order so dicts print the same way every run.
func fromHost(v any) lisp.Value {
	switch x := v.(type) {
	case nil, bool, float64, string:
		return x
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case []any:
		out := make([]lisp.Value, len(x))
		for i, item := range x {
			out[i] = fromHost(item)
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		d := lisp.NewDict()
		for _, k := range keys {
			_ = d.Put(k, fromHost(x[k]))
		}
		return d
	}
	return v
}

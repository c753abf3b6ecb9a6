package weblisp

import (
	"log/slog"
	"sort"

	"github.com/itsmostafa/weblisp/internal/driver"
	"github.com/itsmostafa/weblisp/internal/lisp"
)

// Bind copies the current value of name into the attribute table under
// alias, or under name when alias is empty. It reports false and changes
// nothing when name is unbound. The copy is a snapshot: redefining name
// later does not affect the attribute.
func (r *Runtime) Bind(name, alias string) bool {
	v, ok := r.env.Lookup(name)
	if !ok {
		return false
	}
	if alias == "" {
		alias = name
	}
	r.attrs[alias] = v
	r.logger.Debug("attribute bound", slog.String("name", name), slog.String("alias", alias))
	return true
}

// Attr returns the value bound under alias.
func (r *Runtime) Attr(alias string) (lisp.Value, bool) {
	v, ok := r.attrs[alias]
	return v, ok
}

// Call dispatches through the attribute table. A callable attribute is
// applied to args; any other attribute is returned as is and takes no
// arguments.
func (r *Runtime) Call(alias string, args ...lisp.Value) (lisp.Value, error) {
	v, ok := r.attrs[alias]
	if !ok {
		return nil, lisp.Errorf(lisp.EvaluationError, "no attribute bound as %s", alias)
	}
	if lisp.Callable(v) {
		return lisp.Apply(v, args)
	}
	if len(args) > 0 {
		return nil, lisp.Errorf(lisp.EvaluationError, "attribute %s is not callable", alias)
	}
	return v, nil
}

// Attrs returns the bound aliases, sorted.
func (r *Runtime) Attrs() []string {
	names := make([]string, 0, len(r.attrs))
	for k := range r.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (r *Runtime) bindAttr(_ driver.Session, args []lisp.Value) (lisp.Value, error) {
	name, err := stringArg("bind-attr", args, 0)
	if err != nil {
		return nil, err
	}
	var alias string
	if len(args) == 2 {
		if alias, err = stringArg("bind-attr", args, 1); err != nil {
			return nil, err
		}
	}
	return r.Bind(name, alias), nil
}

func (r *Runtime) attr(_ driver.Session, args []lisp.Value) (lisp.Value, error) {
	alias, err := stringArg("attr", args, 0)
	if err != nil {
		return nil, err
	}
	return r.Call(alias, args[1:]...)
}

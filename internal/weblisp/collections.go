package weblisp

import (
	"github.com/itsmostafa/weblisp/internal/driver"
	"github.com/itsmostafa/weblisp/internal/lisp"
)

// dictBuild takes pairs of (key value). A pair without a value maps its key
// to null; a later duplicate key overwrites an earlier one.
func dictBuild(_ driver.Session, args []lisp.Value) (lisp.Value, error) {
	d := lisp.NewDict()
	for i, a := range args {
		pair, ok := a.([]lisp.Value)
		if !ok || len(pair) == 0 || len(pair) > 2 {
			return nil, argErr("dict-build", i, "a (key value) pair", a)
		}
		var v lisp.Value
		if len(pair) == 2 {
			v = pair[1]
		}
		if err := d.Put(pair[0], v); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// dictLookup never fails: a container that is not a dict, an unhashable
// key and a missing key all yield null.
func dictLookup(_ driver.Session, args []lisp.Value) (lisp.Value, error) {
	d, ok := args[1].(*lisp.Dict)
	if !ok {
		return nil, nil
	}
	v, _ := d.Get(args[0])
	return v, nil
}

package weblisp

import (
	"github.com/itsmostafa/weblisp/internal/driver"
	"github.com/itsmostafa/weblisp/internal/lisp"
)

// A transformer takes a chain and returns a longer one. Builders return
// transformers; action-chain folds them over a fresh chain.
func transformer(name string, build func(c *driver.ActionChain) *driver.ActionChain) *lisp.Builtin {
	return lisp.NewBuiltin(name, lisp.Fixed(1), func(args []lisp.Value) (lisp.Value, error) {
		c, ok := args[0].(*driver.ActionChain)
		if !ok {
			return nil, argErr(name, 0, "an action chain", args[0])
		}
		return build(c), nil
	})
}

// pointerBuilder covers the click family, which act on an optional element.
func pointerBuilder(name string, op func(c *driver.ActionChain, on driver.Element) *driver.ActionChain) capability {
	return capability{name: name, arity: lisp.Range(0, 1), gate: unconditional,
		fn: func(_ driver.Session, args []lisp.Value) (lisp.Value, error) {
			on, err := optElementArg(name, args, 0)
			if err != nil {
				return nil, err
			}
			return transformer(name, func(c *driver.ActionChain) *driver.ActionChain {
				return op(c, on)
			}), nil
		}}
}

func keyBuilder(name string, op func(c *driver.ActionChain, key string, on driver.Element) *driver.ActionChain) capability {
	return capability{name: name, arity: lisp.Range(1, 2), gate: unconditional,
		fn: func(_ driver.Session, args []lisp.Value) (lisp.Value, error) {
			key, err := stringArg(name, args, 0)
			if err != nil {
				return nil, err
			}
			on, err := optElementArg(name, args, 1)
			if err != nil {
				return nil, err
			}
			return transformer(name, func(c *driver.ActionChain) *driver.ActionChain {
				return op(c, key, on)
			}), nil
		}}
}

func actionBuilders() []capability {
	return []capability{
		pointerBuilder("action-click", (*driver.ActionChain).Click),
		pointerBuilder("action-click-and-hold", (*driver.ActionChain).ClickAndHold),
		pointerBuilder("action-release", (*driver.ActionChain).Release),
		pointerBuilder("action-context-click", (*driver.ActionChain).ContextClick),
		pointerBuilder("action-double-click", (*driver.ActionChain).DoubleClick),
		keyBuilder("action-key-down", (*driver.ActionChain).KeyDown),
		keyBuilder("action-key-up", (*driver.ActionChain).KeyUp),
		{name: "action-move-to-elem", arity: lisp.Fixed(1), gate: unconditional, fn: moveToElem},
		{name: "action-move-to-elem-with-offset", arity: lisp.Fixed(3), gate: unconditional, fn: moveToElemWithOffset},
		{name: "action-move-by-offset", arity: lisp.Fixed(2), gate: unconditional, fn: moveByOffset},
		{name: "action-send-keys", arity: lisp.Variadic(1), gate: unconditional, fn: actionSendKeys},
		{name: "action-send-keys-to-elem", arity: lisp.Variadic(2), gate: unconditional, fn: actionSendKeysToElem},
		{name: "action-drag-and-drop", arity: lisp.Fixed(2), gate: unconditional, fn: dragAndDrop},
		{name: "action-drag-and-drop-by-offset", arity: lisp.Fixed(3), gate: unconditional, fn: dragAndDropByOffset},
		{name: "perform", arity: lisp.None(), gate: sessionGated, fn: perform},
	}
}

func moveToElem(_ driver.Session, args []lisp.Value) (lisp.Value, error) {
	el, err := elementArg("action-move-to-elem", args, 0)
	if err != nil {
		return nil, err
	}
	return transformer("action-move-to-elem", func(c *driver.ActionChain) *driver.ActionChain {
		return c.MoveToElement(el)
	}), nil
}

func moveToElemWithOffset(_ driver.Session, args []lisp.Value) (lisp.Value, error) {
	const name = "action-move-to-elem-with-offset"
	el, err := elementArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	x, err := intArg(name, args, 1)
	if err != nil {
		return nil, err
	}
	y, err := intArg(name, args, 2)
	if err != nil {
		return nil, err
	}
	return transformer(name, func(c *driver.ActionChain) *driver.ActionChain {
		return c.MoveToElementWithOffset(el, x, y)
	}), nil
}

func moveByOffset(_ driver.Session, args []lisp.Value) (lisp.Value, error) {
	const name = "action-move-by-offset"
	dx, err := intArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	dy, err := intArg(name, args, 1)
	if err != nil {
		return nil, err
	}
	return transformer(name, func(c *driver.ActionChain) *driver.ActionChain {
		return c.MoveByOffset(dx, dy)
	}), nil
}

func actionSendKeys(_ driver.Session, args []lisp.Value) (lisp.Value, error) {
	keys, err := keysArg("action-send-keys", args)
	if err != nil {
		return nil, err
	}
	return transformer("action-send-keys", func(c *driver.ActionChain) *driver.ActionChain {
		return c.SendKeys(keys)
	}), nil
}

func actionSendKeysToElem(_ driver.Session, args []lisp.Value) (lisp.Value, error) {
	const name = "action-send-keys-to-elem"
	el, err := elementArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	keys, err := keysArg(name, args[1:])
	if err != nil {
		return nil, err
	}
	return transformer(name, func(c *driver.ActionChain) *driver.ActionChain {
		return c.SendKeysToElement(el, keys)
	}), nil
}

func dragAndDrop(_ driver.Session, args []lisp.Value) (lisp.Value, error) {
	const name = "action-drag-and-drop"
	source, err := elementArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	target, err := elementArg(name, args, 1)
	if err != nil {
		return nil, err
	}
	return transformer(name, func(c *driver.ActionChain) *driver.ActionChain {
		return c.DragAndDrop(source, target)
	}), nil
}

func dragAndDropByOffset(_ driver.Session, args []lisp.Value) (lisp.Value, error) {
	const name = "action-drag-and-drop-by-offset"
	source, err := elementArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	dx, err := intArg(name, args, 1)
	if err != nil {
		return nil, err
	}
	dy, err := intArg(name, args, 2)
	if err != nil {
		return nil, err
	}
	return transformer(name, func(c *driver.ActionChain) *driver.ActionChain {
		return c.DragAndDropByOffset(source, dx, dy)
	}), nil
}

// perform returns the terminal transformer: it runs the chain it receives
// and yields null.
func perform(_ driver.Session, _ []lisp.Value) (lisp.Value, error) {
	return lisp.NewBuiltin("perform", lisp.Fixed(1), func(args []lisp.Value) (lisp.Value, error) {
		return actionPerform(nil, args)
	}), nil
}

// actionChain folds its transformers over a fresh chain bound to the live
// session. Only the last transformer may return something other than a
// chain, which is how a trailing (perform) ends the fold.
func actionChain(h driver.Session, args []lisp.Value) (lisp.Value, error) {
	var acc lisp.Value = driver.NewActionChain(h)
	for i, fn := range args {
		if _, ok := acc.(*driver.ActionChain); !ok {
			return nil, lisp.Errorf(lisp.EvaluationError, "action-chain: step %d returned %s, not an action chain", i, lisp.String(acc))
		}
		next, err := lisp.Apply(fn, []lisp.Value{acc})
		if err != nil {
			return nil, err
		}
		acc = next
	}
	return acc, nil
}

func actionPerform(_ driver.Session, args []lisp.Value) (lisp.Value, error) {
	c, ok := args[0].(*driver.ActionChain)
	if !ok {
		return nil, argErr("action-perform", 0, "an action chain", args[0])
	}
	if err := c.Perform(); err != nil {
		return nil, hostErr("action-perform", err)
	}
	return nil, nil
}

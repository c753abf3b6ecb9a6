package weblisp

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/itsmostafa/weblisp/internal/lisp"
)

// bootstrap holds the macros every session relies on. `and` yields #t with
// no arguments, its argument with one, and otherwise stops at the first
// false argument.
var bootstrap = Script{
	Name: "bootstrap macros",
	Source: "(define-macro and (lambda args\n" +
		"   (if (null? args) #t\n" +
		"       (if (= (length args) 1) (car args)\n" +
		"           `(if ,(car args) (and ,@(cdr args)) #f)))))\n" +
		"\n" +
		"(define-macro or (lambda args\n" +
		"   (if (null? args) #f\n" +
		"       (if (= (length args) 1) (car args)\n" +
		"           `((lambda (v thunk) (if v v (thunk)))\n" +
		"             ,(car args) (lambda () (or ,@(cdr args))))))))\n" +
		"\n" +
		"(define-macro when (lambda (test . body)\n" +
		"   `(if ,test (begin ,@body) nil)))\n" +
		"\n" +
		"(define-macro unless (lambda (test . body)\n" +
		"   `(if ,test nil (begin ,@body))))\n" +
		"\n" +
		"(define-macro let (lambda (bindings . body)\n" +
		"   `((lambda ,(map car bindings) ,@body) ,@(map cadr bindings))))\n",
}

// preload evaluates every expression of s in order. Any failure is returned
// wrapped with the script name.
func (r *Runtime) preload(s Script) error {
	in := lisp.NewInPort(strings.NewReader(s.Source))
	n := 0
	for {
		x, err := in.Read()
		if err != nil {
			return fmt.Errorf("%s: %w", s.Name, err)
		}
		if x == lisp.EOF {
			break
		}
		if _, err := r.Evaluate(x); err != nil {
			return fmt.Errorf("%s: %w", s.Name, err)
		}
		n++
	}
	r.logger.Debug("script loaded", slog.String("script", s.Name), slog.Int("expressions", n))
	return nil
}

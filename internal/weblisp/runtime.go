// Package weblisp assembles the WebLisp runtime: the process-wide
// environment, the browser capabilities bound into it, the bootstrap macros
// and the attribute side table.
package weblisp

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/itsmostafa/weblisp/internal/driver"
	"github.com/itsmostafa/weblisp/internal/lisp"
	"github.com/itsmostafa/weblisp/internal/session"
)

// Config holds the runtime configuration.
type Config struct {
	// Factory opens automation sessions for start-driver.
	Factory driver.Factory
	// Options are passed to Factory on every start.
	Options driver.Options
	// Out receives display/newline output. Defaults to io.Discard.
	Out io.Writer
	// Prelude scripts are evaluated after the bootstrap macros, in order.
	Prelude []Script
	// Logger defaults to a discarding logger.
	Logger *slog.Logger
}

// Script is named source evaluated at startup.
type Script struct {
	Name   string
	Source string
}

// Runtime is the single evaluation context of a WebLisp process.
type Runtime struct {
	env     *lisp.Env
	session *session.Manager
	attrs   map[string]lisp.Value
	logger  *slog.Logger
}

// New builds the environment in its fixed order: base vocabulary,
// variables, capabilities, post-load functions, then the bootstrap macros
// and any prelude scripts. A later batch wins on a name collision. Failure
// to evaluate the bootstrap or a prelude is returned; the runtime is not
// usable in that case.
func New(cfg Config) (*Runtime, error) {
	if cfg.Factory == nil {
		return nil, fmt.Errorf("weblisp: no session factory configured")
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Options == (driver.Options{}) {
		cfg.Options = driver.DefaultOptions()
	}

	r := &Runtime{
		env:     lisp.NewEnv(),
		session: session.NewManager(cfg.Factory, cfg.Options, cfg.Logger),
		attrs:   make(map[string]lisp.Value),
		logger:  cfg.Logger,
	}

	for _, b := range r.batches(cfg.Out) {
		r.Register(b)
	}

	if err := r.preload(bootstrap); err != nil {
		return nil, err
	}
	for _, s := range cfg.Prelude {
		if err := r.preload(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// batches returns the binding batches in registration order.
func (r *Runtime) batches(out io.Writer) []lisp.Bindings {
	return []lisp.Bindings{
		lisp.Globals(r.env, out),
		variables(),
		r.capabilities(),
		r.postLoad(),
	}
}

// Register merges a batch of bindings into the environment. On a name
// collision the batch wins.
func (r *Runtime) Register(b lisp.Bindings) {
	r.env.Merge(b)
	r.logger.Debug("registered bindings", slog.Int("count", len(b)))
}

// Env returns the process-wide environment.
func (r *Runtime) Env() *lisp.Env { return r.env }

// Session returns the lifecycle manager.
func (r *Runtime) Session() *session.Manager { return r.session }

// Evaluate expands and evaluates x in the process-wide environment.
func (r *Runtime) Evaluate(x lisp.Value) (lisp.Value, error) {
	return lisp.Evaluate(x, r.env)
}

// Close stops a live session. It is safe to call when none is running.
func (r *Runtime) Close() error {
	_, err := r.session.Stop()
	return err
}

// postLoad returns the functions that drive the lifecycle manager. They are
// registered after the capabilities so they take precedence.
func (r *Runtime) postLoad() lisp.Bindings {
	return lisp.Bindings{
		"start-driver": lisp.NewBuiltin("start-driver", lisp.None(), func([]lisp.Value) (lisp.Value, error) {
			return r.session.Start()
		}),
		"stop-driver": lisp.NewBuiltin("stop-driver", lisp.None(), func([]lisp.Value) (lisp.Value, error) {
			return r.session.Stop()
		}),
	}
}

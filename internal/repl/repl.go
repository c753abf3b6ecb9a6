// Package repl runs the interactive read-eval-print loop.
package repl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/itsmostafa/weblisp/internal/lisp"
)

// Evaluator evaluates one parsed expression.
type Evaluator interface {
	Evaluate(x lisp.Value) (lisp.Value, error)
}

// Config configures the loop.
type Config struct {
	// In supplies the expressions.
	In io.Reader
	// Out receives result renderings and error lines.
	Out io.Writer
	// Diag receives the banner and prompts. Defaults to io.Discard.
	Diag io.Writer
	// Prompt is written to Diag before every read. Empty disables it.
	Prompt string
	// Banner, when set, is written to Diag once before the first prompt,
	// with BannerDetail on a second line.
	Banner       string
	BannerDetail string
	// Logger defaults to a discarding logger.
	Logger *slog.Logger
}

// Run reads expressions from cfg.In until end of input, evaluating each
// with ev. A non-null result is printed to cfg.Out in its canonical form.
// A failure of a single expression, including a panic while evaluating it,
// is printed as "<Kind>: <message>" and the loop continues. Run returns nil
// at end of input, or the error of the input stream itself.
func Run(ev Evaluator, cfg Config) error {
	if cfg.Diag == nil {
		cfg.Diag = io.Discard
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	st := newStyles(cfg.Diag)
	if cfg.Banner != "" {
		st.writeBanner(cfg.Diag, cfg.Banner, cfg.BannerDetail)
	}

	in := lisp.NewInPort(cfg.In)
	for {
		if cfg.Prompt != "" {
			st.writePrompt(cfg.Diag, cfg.Prompt)
		}
		x, err := in.Read()
		if err != nil {
			var le *lisp.Error
			if !errors.As(err, &le) {
				return fmt.Errorf("reading input: %w", err)
			}
			report(cfg, err)
			continue
		}
		if x == lisp.EOF {
			if cfg.Prompt != "" {
				fmt.Fprintln(cfg.Diag)
			}
			return nil
		}

		v, err := evaluate(ev, x)
		if err != nil {
			report(cfg, err)
			continue
		}
		if v != nil {
			fmt.Fprintln(cfg.Out, lisp.String(v))
		}
	}
}

// evaluate runs one expression, turning a panic into an EvaluationError.
func evaluate(ev Evaluator, x lisp.Value) (v lisp.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, lisp.Errorf(lisp.EvaluationError, "internal error: %v", r)
		}
	}()
	return ev.Evaluate(x)
}

func report(cfg Config, err error) {
	kind := lisp.KindOf(err)
	cfg.Logger.Debug("expression failed", slog.String("kind", kind), slog.Any("error", err))
	fmt.Fprintf(cfg.Out, "%s: %v\n", kind, err)
}

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/itsmostafa/weblisp/internal/driver"
	"github.com/itsmostafa/weblisp/internal/driver/webdriver"
	"github.com/itsmostafa/weblisp/internal/repl"
	"github.com/itsmostafa/weblisp/internal/version"
	"github.com/itsmostafa/weblisp/internal/weblisp"
	"github.com/spf13/cobra"
)

// interact builds the runtime from the flags and runs the loop over in.
// Startup failures (a broken prelude, a session that will not start) are
// returned; failures of single expressions are reported by the loop.
func interact(cmd *cobra.Command, in io.Reader, prompt string, banner bool) error {
	logger, err := newLogger(cmd.ErrOrStderr(), logLevel)
	if err != nil {
		return err
	}

	rt, err := newRuntime(cmd, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.Warn("closing session", slog.Any("error", err))
		}
	}()

	if startSession {
		if _, err := rt.Session().Start(); err != nil {
			return fmt.Errorf("starting session: %w", err)
		}
	}

	cfg := repl.Config{
		In:     in,
		Out:    cmd.OutOrStdout(),
		Diag:   cmd.ErrOrStderr(),
		Prompt: prompt,
		Logger: logger,
	}
	if banner && prompt != "" {
		cfg.Banner = "WebLisp"
		cfg.BannerDetail = version.String()
	}
	return repl.Run(rt, cfg)
}

func newRuntime(cmd *cobra.Command, logger *slog.Logger) (*weblisp.Runtime, error) {
	prelude, err := loadPrelude(preludeFiles)
	if err != nil {
		return nil, err
	}

	factory := webdriver.NewFactory(webdriver.Config{
		RemoteURL:        remoteURL,
		Browser:          browser,
		Headless:         headless,
		ChromeDriverPath: chromeDriver,
		ChromeDriverPort: chromeDriverPort,
		Logger:           logger,
	})

	return weblisp.New(weblisp.Config{
		Factory: factory,
		Options: driver.Options{ImplicitWait: implicitWait, ScriptTimeout: scriptTimeout},
		Out:     cmd.OutOrStdout(),
		Prelude: prelude,
		Logger:  logger,
	})
}

func loadPrelude(paths []string) ([]weblisp.Script, error) {
	scripts := make([]weblisp.Script, 0, len(paths))
	for _, p := range paths {
		src, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading prelude: %w", err)
		}
		scripts = append(scripts, weblisp.Script{Name: p, Source: string(src)})
	}
	return scripts, nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

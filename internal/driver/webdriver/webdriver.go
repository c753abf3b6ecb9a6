// Package webdriver connects WebLisp to a browser through a W3C/Selenium
// WebDriver server.
package webdriver

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"

	"github.com/itsmostafa/weblisp/internal/driver"
)

// DefaultRemoteURL is where a standalone Selenium server listens by default.
const DefaultRemoteURL = "http://localhost:4444/wd/hub"

// Config selects the WebDriver endpoint and browser.
type Config struct {
	// RemoteURL of the WebDriver server. Ignored when ChromeDriverPath is set.
	RemoteURL string
	// Browser name sent in the capabilities ("chrome", "firefox", ...).
	Browser string
	// Headless asks chrome or firefox to run without a window.
	Headless bool
	// ChromeDriverPath, when set, starts a local chromedriver for every
	// session and stops it again on Quit.
	ChromeDriverPath string
	// ChromeDriverPort is the port for the local chromedriver.
	ChromeDriverPort int
	// Logger receives connection diagnostics. Nil discards them.
	Logger *slog.Logger
}

// NewFactory returns a driver.Factory that opens sessions per cfg.
func NewFactory(cfg Config) driver.Factory {
	if cfg.Browser == "" {
		cfg.Browser = "chrome"
	}
	if cfg.RemoteURL == "" {
		cfg.RemoteURL = DefaultRemoteURL
	}
	if cfg.ChromeDriverPort == 0 {
		cfg.ChromeDriverPort = 9515
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return func(opts driver.Options) (driver.Session, error) {
		return open(cfg, opts)
	}
}

func capabilities(cfg Config) selenium.Capabilities {
	caps := selenium.Capabilities{"browserName": cfg.Browser}
	switch strings.ToLower(cfg.Browser) {
	case "chrome":
		c := chrome.Capabilities{}
		if cfg.Headless {
			c.Args = append(c.Args, "--headless=new")
		}
		caps.AddChrome(c)
	case "firefox":
		f := firefox.Capabilities{}
		if cfg.Headless {
			f.Args = append(f.Args, "-headless")
		}
		caps.AddFirefox(f)
	}
	return caps
}

func open(cfg Config, opts driver.Options) (driver.Session, error) {
	url := cfg.RemoteURL
	var service *selenium.Service
	if cfg.ChromeDriverPath != "" {
		svc, err := selenium.NewChromeDriverService(cfg.ChromeDriverPath, cfg.ChromeDriverPort)
		if err != nil {
			return nil, fmt.Errorf("failed to start chromedriver: %w", err)
		}
		service = svc
		url = fmt.Sprintf("http://localhost:%d", cfg.ChromeDriverPort)
	}

	cfg.Logger.Debug("opening webdriver session",
		slog.String("url", url),
		slog.String("browser", cfg.Browser),
		slog.Bool("headless", cfg.Headless))

	wd, err := selenium.NewRemote(capabilities(cfg), url)
	if err != nil {
		stopService(cfg.Logger, service)
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	s := &session{wd: wd, service: service, logger: cfg.Logger}
	if err := wd.SetImplicitWaitTimeout(opts.ImplicitWait); err != nil {
		s.Quit()
		return nil, fmt.Errorf("failed to set implicit wait: %w", err)
	}
	if err := wd.SetAsyncScriptTimeout(opts.ScriptTimeout); err != nil {
		s.Quit()
		return nil, fmt.Errorf("failed to set script timeout: %w", err)
	}
	return s, nil
}

func stopService(logger *slog.Logger, service *selenium.Service) {
	if service == nil {
		return
	}
	if err := service.Stop(); err != nil {
		logger.Warn("failed to stop chromedriver", slog.Any("error", err))
	}
}

type session struct {
	wd      selenium.WebDriver
	service *selenium.Service
	logger  *slog.Logger
}

func (s *session) String() string { return "#<webdriver-session>" }

func (s *session) Navigate(url string) error { return s.wd.Get(url) }

func (s *session) FindElement(by driver.Strategy, value string) (driver.Element, error) {
	el, err := s.wd.FindElement(by, value)
	if err != nil {
		return nil, err
	}
	return element{el}, nil
}

func (s *session) FindElements(by driver.Strategy, value string) ([]driver.Element, error) {
	els, err := s.wd.FindElements(by, value)
	if err != nil {
		return nil, err
	}
	return wrapAll(els), nil
}

func (s *session) ActiveElement() (driver.Element, error) {
	el, err := s.wd.ActiveElement()
	if err != nil {
		return nil, err
	}
	return element{el}, nil
}

func (s *session) Title() (string, error) { return s.wd.Title() }

func (s *session) CurrentURL() (string, error) { return s.wd.CurrentURL() }

func (s *session) ExecuteScript(script string, args []any) (any, error) {
	hostArgs := make([]any, len(args))
	for i, a := range args {
		hostArgs[i] = unwrapArg(a)
	}
	return s.wd.ExecuteScript(script, hostArgs)
}

// unwrapArg swaps element handles for the selenium elements they wrap, which
// the client encodes as element references.
func unwrapArg(v any) any {
	switch x := v.(type) {
	case element:
		return x.el
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = unwrapArg(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = unwrapArg(item)
		}
		return out
	}
	return v
}

func (s *session) KeyDown(keys string) error { return s.wd.KeyDown(keys) }

func (s *session) KeyUp(keys string) error { return s.wd.KeyUp(keys) }

func (s *session) ButtonDown() error { return s.wd.ButtonDown() }

func (s *session) ButtonUp() error { return s.wd.ButtonUp() }

func (s *session) Click(button driver.Button) error {
	switch button {
	case driver.RightButton:
		return s.wd.Click(selenium.RightButton)
	case driver.MiddleButton:
		return s.wd.Click(selenium.MiddleButton)
	}
	return s.wd.Click(selenium.LeftButton)
}

func (s *session) DoubleClick() error { return s.wd.DoubleClick() }

func (s *session) Quit() error {
	err := s.wd.Quit()
	stopService(s.logger, s.service)
	return err
}

type element struct {
	el selenium.WebElement
}

func (e element) String() string { return "#<element>" }

func (e element) Click() error { return e.el.Click() }

func (e element) SendKeys(keys string) error { return e.el.SendKeys(keys) }

func (e element) Clear() error { return e.el.Clear() }

func (e element) Text() (string, error) { return e.el.Text() }

func (e element) TagName() (string, error) { return e.el.TagName() }

func (e element) GetAttribute(name string) (string, error) { return e.el.GetAttribute(name) }

func (e element) IsSelected() (bool, error) { return e.el.IsSelected() }

func (e element) MoveTo(xOffset, yOffset int) error { return e.el.MoveTo(xOffset, yOffset) }

func (e element) FindElements(by driver.Strategy, value string) ([]driver.Element, error) {
	els, err := e.el.FindElements(by, value)
	if err != nil {
		return nil, err
	}
	return wrapAll(els), nil
}

func wrapAll(els []selenium.WebElement) []driver.Element {
	out := make([]driver.Element, len(els))
	for i, el := range els {
		out[i] = element{el}
	}
	return out
}

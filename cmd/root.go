package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/itsmostafa/weblisp/internal/driver"
	"github.com/itsmostafa/weblisp/internal/driver/webdriver"
	"github.com/itsmostafa/weblisp/internal/version"
	"github.com/spf13/cobra"
)

var remoteURL string
var browser string
var headless bool
var chromeDriver string
var chromeDriverPort int
var implicitWait time.Duration
var scriptTimeout time.Duration
var startSession bool
var preludeFiles []string
var logLevel string

var rootCmd = &cobra.Command{
	Use:   "weblisp",
	Short: "A small Lisp for driving a web browser",
	Long: `WebLisp is an interactive Lisp whose environment is extended with browser
automation capabilities. Start a session with (start-driver), drive it with
(open ...), (find-elem ...), (click ...) and friends, and stop it with
(stop-driver).

Results are printed to stdout; prompts and diagnostics go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return interact(cmd, cmd.InOrStdin(), promptText(), true)
	},
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("weblisp %s\n", version.String()))
	rootCmd.SilenceUsage = true

	flags := rootCmd.PersistentFlags()

	// WebDriver endpoint with env var fallback
	defaultRemote := webdriver.DefaultRemoteURL
	if env := os.Getenv("WEBLISP_REMOTE_URL"); env != "" {
		defaultRemote = env
	}
	flags.StringVar(&remoteURL, "remote-url", defaultRemote, "WebDriver server URL")
	flags.StringVar(&browser, "browser", "chrome", "Browser to automate (chrome, firefox)")
	flags.BoolVar(&headless, "headless", false, "Run the browser without a window")
	flags.StringVar(&chromeDriver, "chromedriver", "", "Path to a chromedriver binary to start locally instead of using --remote-url")
	flags.IntVar(&chromeDriverPort, "chromedriver-port", 9515, "Port for the local chromedriver")

	flags.DurationVar(&implicitWait, "implicit-wait", driver.DefaultImplicitWait, "How long element lookups wait for a match")
	flags.DurationVar(&scriptTimeout, "script-timeout", driver.DefaultScriptTimeout, "Timeout for execute-script")
	flags.BoolVar(&startSession, "start", false, "Start the browser session before reading input")
	flags.StringSliceVar(&preludeFiles, "prelude", nil, "Script files to evaluate at startup, in order")

	// Log level with env var fallback
	defaultLevel := "warn"
	if env := os.Getenv("WEBLISP_LOG_LEVEL"); env != "" {
		defaultLevel = env
	}
	flags.StringVar(&logLevel, "log-level", defaultLevel, "Log level (debug, info, warn, error)")

	addPromptFlags(rootCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package cmd

import (
	"github.com/spf13/cobra"
)

var prompt string
var noPrompt bool

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Read and evaluate expressions from stdin",
	Long:  `Read and evaluate expressions from stdin. This is what weblisp does without a subcommand.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return interact(cmd, cmd.InOrStdin(), promptText(), true)
	},
}

// addPromptFlags binds the prompt flags on c to the shared prompt settings.
func addPromptFlags(c *cobra.Command) {
	c.Flags().StringVar(&prompt, "prompt", "WebLisp> ", "Prompt written to stderr before each read")
	c.Flags().BoolVar(&noPrompt, "no-prompt", false, "Do not write a prompt")
}

func promptText() string {
	if noPrompt {
		return ""
	}
	return prompt
}

func init() {
	addPromptFlags(replCmd)
	rootCmd.AddCommand(replCmd)
}

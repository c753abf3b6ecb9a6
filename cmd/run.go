package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Evaluate a script file",
	Long: `Evaluate every expression of a script file in order, printing results the
same way the interactive loop does. A failing expression is reported and the
rest of the file still runs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()

		return interact(cmd, f, "", false)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

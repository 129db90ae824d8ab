package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// playgroundCmd runs the shell over the local OS
var playgroundCmd = &cobra.Command{
	Use:   "playground",
	Short: "Run an interactive shell that can call every tool.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		appLogger.Info("Starting playground, type exit to quit")
		err := runTool(cmd, "sh", nil)

		var status exitStatusError
		switch {
		case errors.As(err, &status):
			fmt.Fprintf(cmd.ErrOrStderr(), "Exit code: %d\n", int(status))
		case err != nil:
			return err
		default:
			fmt.Fprintln(cmd.ErrOrStderr(), "Exit code: 0")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(playgroundCmd)
}

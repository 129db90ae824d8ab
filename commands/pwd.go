package commands

import (
	"fmt"

	"github.com/josephlewis42/unox/core/vos"
)

// Pwd implements the UNIX pwd command.
func Pwd(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "pwd",
		Short: "Print the name of the current working directory.",
	}

	return cmd.RunE(virtOS, func() error {
		if args := cmd.Flags().Args(); len(args) > 0 {
			return fmt.Errorf("extra operand %q", args[0])
		}

		_, err := fmt.Fprintln(virtOS.Stdout(), virtOS.Getwd())
		return err
	})
}

var _ vos.ProcessFunc = Pwd

func init() {
	mustAddCmd("pwd", Pwd)
}

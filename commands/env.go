package commands

import (
	"fmt"
	"sort"

	"github.com/josephlewis42/unox/core/vos"
)

// Env implements the printing half of the POSIX env command.
//
// https://pubs.opengroup.org/onlinepubs/9699919799.2018edition/utilities/env.html
func Env(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "env [NAME]...",
		Short: "Print the environment, or the values of the NAMEd variables.",
	}

	return cmd.Run(virtOS, func() int {
		names := cmd.Flags().Args()
		if len(names) == 0 {
			env := virtOS.Environ()
			sort.Strings(env)
			for _, envDef := range env {
				fmt.Fprintln(virtOS.Stdout(), envDef)
			}
			return 0
		}

		// Like printenv, a missing variable only changes the exit status.
		status := 0
		for _, name := range names {
			value, ok := virtOS.LookupEnv(name)
			if !ok {
				status = 1
				continue
			}
			fmt.Fprintln(virtOS.Stdout(), value)
		}
		return status
	})
}

var _ vos.ProcessFunc = Env

func init() {
	mustAddCmd("env", Env)
}

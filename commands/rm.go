package commands

import (
	"errors"
	"io/fs"

	"github.com/josephlewis42/unox/core/vos"
)

// Rm implements a POSIX rm command.
func Rm(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "rm [OPTION...] FILE...",
		Short: "Remove files or directories.",
	}

	recursive := cmd.Flags().BoolLong("recursive", 'r', "remove directories and their contents recursively")
	force := cmd.Flags().BoolLong("force", 'f', "ignore missing files and arguments")

	return cmd.Run(virtOS, func() int {
		files := cmd.Flags().Args()
		if len(files) == 0 && !*force {
			cmd.LogProgramError(virtOS, errMissingOperand)
			return 1
		}

		status := 0
		for _, file := range files {
			stat, err := virtOS.Stat(file)
			switch {
			case errors.Is(err, fs.ErrNotExist) && *force:
				continue
			case err != nil:
			case !stat.IsDir():
				err = virtOS.Remove(file)
			case *recursive:
				err = virtOS.RemoveAll(file)
			default:
				err = errIsDirectory
			}

			if err != nil {
				cmd.LogFileError(virtOS, file, err)
				status = 1
			}
		}
		return status
	})
}

var _ vos.ProcessFunc = Rm

func init() {
	mustAddCmd("rm", Rm)
}

package commands

import (
	"errors"
	"io/fs"
	"time"

	"github.com/josephlewis42/unox/core/vos"
)

// Touch implements a POSIX touch command.
func Touch(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "touch [OPTION...] FILE...",
		Short: "Update the modification times of files to now, creating them if needed.",
	}

	noCreate := cmd.Flags().BoolLong("no-create", 'c', "don't create files")

	return cmd.Run(virtOS, func() int {
		paths := cmd.Flags().Args()
		if len(paths) == 0 {
			cmd.LogProgramError(virtOS, errMissingOperand)
			return 1
		}

		now := time.Now()
		status := 0
		for _, path := range paths {
			err := virtOS.Chtimes(path, now, now)
			switch {
			case errors.Is(err, fs.ErrNotExist) && !*noCreate:
				fd, err := virtOS.Create(path)
				if err != nil {
					cmd.LogFileError(virtOS, path, err)
					status = 1
					continue
				}
				fd.Close()
			case errors.Is(err, fs.ErrNotExist):
				// -c skips missing files silently.
			case err != nil:
				cmd.LogFileError(virtOS, path, err)
				status = 1
			}
		}
		return status
	})
}

var _ vos.ProcessFunc = Touch

func init() {
	mustAddCmd("touch", Touch)
}

package commands

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/josephlewis42/unox/core/vos"
)

// Mkdir implements a POSIX mkdir command.
//
// https://pubs.opengroup.org/onlinepubs/9699919799.2018edition/utilities/mkdir.html
func Mkdir(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "mkdir [OPTION...] DIRECTORY...",
		Short: "Create directories if they don't exist.",
	}

	makeParents := cmd.Flags().BoolLong("parents", 'p', "make parents if needed, no error if existing")
	verbose := cmd.Flags().BoolLong("verbose", 'v', "print a line for every created directory")

	return cmd.Run(virtOS, func() int {
		directories := cmd.Flags().Args()
		if len(directories) == 0 {
			cmd.LogProgramError(virtOS, errMissingOperand)
			return 1
		}

		op := virtOS.Mkdir
		if *makeParents {
			op = virtOS.MkdirAll
		}

		status := 0
		for _, dir := range directories {
			if err := op(dir, 0777); err != nil {
				cmd.LogFileError(virtOS, dir, fmt.Errorf("cannot create directory: %w", unwrapPathError(err)))
				status = 1
				continue
			}

			if *verbose {
				fmt.Fprintf(virtOS.Stdout(), "mkdir: created directory %q\n", dir)
			}
		}
		return status
	})
}

var _ vos.ProcessFunc = Mkdir

// unwrapPathError strips the *fs.PathError wrapper so the path isn't printed
// twice.
func unwrapPathError(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}

func init() {
	mustAddCmd("mkdir", Mkdir)
}

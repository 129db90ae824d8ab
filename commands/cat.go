package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/josephlewis42/unox/core/vos"
)

var errNumberFlags = errors.New("--number and --number-nonblank are mutually exclusive")

type catOptions struct {
	number         bool
	numberNonblank bool
	squeezeBlank   bool
}

func (o catOptions) transforms() bool {
	return o.number || o.numberNonblank || o.squeezeBlank
}

// catLines copies r to w line by line applying numbering and squeezing.
// Line numbers restart for every input.
func catLines(r io.Reader, w io.Writer, opts catOptions) error {
	var lineNum int
	prevBlank := false
	return eachLine(r, func(line []byte) error {
		blank := len(line) == 0
		if opts.squeezeBlank && blank && prevBlank {
			return nil
		}
		prevBlank = blank

		var err error
		if opts.number || (opts.numberNonblank && !blank) {
			lineNum++
			_, err = fmt.Fprintf(w, "%6d\t%s\n", lineNum, line)
		} else {
			_, err = fmt.Fprintf(w, "%s\n", line)
		}
		return err
	})
}

// Cat implements the UNIX cat command.
func Cat(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "cat [OPTION]... [FILE]...",
		Short: "Concatenate FILE(s) to standard output.",
	}

	flags := cmd.Flags()
	var opts catOptions
	flags.FlagLong(&opts.number, "number", 'n', "number all output lines")
	flags.FlagLong(&opts.numberNonblank, "number-nonblank", 'b', "number nonempty output lines")
	flags.FlagLong(&opts.squeezeBlank, "squeeze-blank", 's', "suppress repeated empty output lines")

	return cmd.RunE(virtOS, func() error {
		if opts.number && opts.numberNonblank {
			return errNumberFlags
		}

		w := bufio.NewWriter(virtOS.Stdout())
		defer w.Flush()

		cmd.RunEachFile(virtOS, filesOrStdin(flags.Args()), func(name string, fd io.Reader) error {
			defer w.Flush()

			if !opts.transforms() {
				_, err := io.Copy(w, fd)
				return err
			}
			return catLines(fd, w, opts)
		})
		return nil
	})
}

var _ vos.ProcessFunc = Cat

func init() {
	mustAddCmd("cat", Cat)
}

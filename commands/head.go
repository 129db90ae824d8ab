package commands

import (
	"bufio"
	"errors"
	"io"
	"strconv"

	"github.com/josephlewis42/unox/core/vos"
)

// headLines copies the first n lines of r to w.
func headLines(r io.Reader, w io.Writer, n uint64) error {
	br := bufio.NewReader(r)
	for i := uint64(0); i < n; i++ {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			if _, werr := w.Write(decodeLossy(line)); werr != nil {
				return werr
			}
		}

		switch {
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}
	}
	return nil
}

// headBytes copies the first n bytes of r to w.
func headBytes(r io.Reader, w io.Writer, n uint64) error {
	limit := int64(n)
	if limit < 0 {
		limit = 1<<63 - 1
	}
	_, err := io.Copy(w, lossyReader(io.LimitReader(r, limit)))
	return err
}

func parseHeadCount(unit, value string) (uint64, error) {
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, &InvalidCountError{Unit: unit, Value: value}
	}
	return n, nil
}

// Head implements a POSIX head command.
func Head(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "head [OPTION]... [FILE]...",
		Short: "Print the first 10 lines of each FILE to standard output.",
	}

	opts := cmd.Flags()
	var lines, bytes string
	linesOpt := opts.FlagLong(&lines, "lines", 'n', "print the first NUM lines instead of the first 10", "NUM")
	bytesOpt := opts.FlagLong(&bytes, "bytes", 'c', "print the first NUM bytes of each file", "NUM")
	quiet := opts.BoolLong("quiet", 'q', "never print headers giving file names")
	silent := opts.BoolLong("silent", 0, "same as --quiet")
	verbose := opts.BoolLong("verbose", 'v', "always print headers giving file names")

	return cmd.RunE(virtOS, func() error {
		var (
			n    uint64 = 10
			emit        = headLines
			err  error
		)
		switch {
		case linesOpt.Seen() && bytesOpt.Seen():
			return errLinesAndBytes
		case bytesOpt.Seen():
			emit = headBytes
			n, err = parseHeadCount("bytes", bytes)
		case linesOpt.Seen():
			n, err = parseHeadCount("lines", lines)
		}
		if err != nil {
			return err
		}

		files := filesOrStdin(opts.Args())
		showHeaders := *verbose || (len(files) > 1 && !*quiet && !*silent)
		w := virtOS.Stdout()

		for i, name := range files {
			err := func() error {
				fd, err := OpenInput(virtOS, name)
				if err != nil {
					return err
				}
				defer fd.Close()

				if showHeaders {
					printFileHeader(w, name, i == 0)
				}
				return emit(fd, w, n)
			}()

			if err != nil {
				cmd.LogFileError(virtOS, name, err)
			}
		}
		return nil
	})
}

var _ vos.ProcessFunc = Head

func init() {
	mustAddCmd("head", Head)
}

package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/josephlewis42/unox/core/vos"
)

// uniqOptions selects which runs are printed and how.
type uniqOptions struct {
	count      bool
	unique     bool
	repeated   bool
	ignoreCase bool
	countWidth int
}

// uniqRun folds consecutive equal lines into runs, printing each run once
// it ends.
type uniqRun struct {
	opts uniqOptions
	w    io.Writer

	line   []byte
	key    string
	length uint64
}

func newUniqRun(w io.Writer, opts uniqOptions) *uniqRun {
	return &uniqRun{w: w, opts: opts}
}

func (u *uniqRun) compareKey(line []byte) string {
	key := strings.TrimRightFunc(string(line), unicode.IsSpace)
	if u.opts.ignoreCase {
		key = upperFold(key)
	}
	return key
}

// Add feeds the next line, including its terminator. An empty run takes
// the first line as its representative even when that line is blank, so
// leading blank lines are counted and printed like any other.
func (u *uniqRun) Add(line []byte) error {
	key := u.compareKey(line)
	if u.length == 0 || key != u.key {
		if err := u.Flush(); err != nil {
			return err
		}
		u.line = append(u.line[:0], line...)
		u.key = key
	}
	u.length++
	return nil
}

// Flush prints the current run if it should be shown and starts a new one.
func (u *uniqRun) Flush() error {
	n := u.length
	u.length = 0

	show := (u.opts.unique && n == 1) ||
		(u.opts.repeated && n > 1) ||
		(!u.opts.unique && !u.opts.repeated)
	if n == 0 || !show {
		return nil
	}

	if u.opts.count {
		if _, err := fmt.Fprintf(u.w, "%*d ", u.opts.countWidth, n); err != nil {
			return err
		}
	}
	_, err := u.w.Write(u.line)
	return err
}

// Uniq implements a POSIX uniq command.
func Uniq(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "uniq [OPTION]... [INPUT [OUTPUT]]",
		Short: "Filter adjacent matching lines from INPUT (or standard input), writing to OUTPUT (or standard output).",
	}

	opts := cmd.Flags()
	count := opts.BoolLong("count", 'c', "prefix lines by the number of occurrences")
	unique := opts.BoolLong("unique", 'u', "only print unique lines")
	repeated := opts.BoolLong("repeated", 'd', "only print duplicate lines, one for each group")
	ignoreCase := opts.BoolLong("ignore-case", 'i', "ignore differences in case when comparing")

	return cmd.RunE(virtOS, func() error {
		args := opts.Args()
		if len(args) > 2 {
			return fmt.Errorf("extra operand %q", args[2])
		}

		inFile := StdinName
		if len(args) > 0 {
			inFile = args[0]
		}

		in, err := OpenInput(virtOS, inFile)
		if err != nil {
			cmd.LogFileError(virtOS, inFile, err)
			return nil
		}
		defer in.Close()

		var out io.Writer = virtOS.Stdout()
		if len(args) > 1 {
			fd, err := virtOS.Create(args[1])
			if err != nil {
				return err
			}
			defer fd.Close()
			out = fd
		}

		bw := bufio.NewWriter(out)
		run := newUniqRun(bw, uniqOptions{
			count:      *count,
			unique:     *unique,
			repeated:   *repeated,
			ignoreCase: *ignoreCase,
			countWidth: virtOS.Config().UniqCountWidth,
		})

		finish := func() error {
			if err := run.Flush(); err != nil {
				return err
			}
			return bw.Flush()
		}

		br := bufio.NewReader(in)
		for {
			line, err := br.ReadBytes('\n')
			if len(line) > 0 {
				if err := run.Add(line); err != nil {
					return err
				}
			}

			switch {
			case errors.Is(err, io.EOF):
				return finish()
			case err != nil:
				cmd.LogFileError(virtOS, inFile, err)
				return finish()
			}
		}
	})
}

var _ vos.ProcessFunc = Uniq

func init() {
	mustAddCmd("uniq", Uniq)
}

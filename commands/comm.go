package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/josephlewis42/unox/core/vos"
)

var errBothStdin = errors.New(`input files cannot be both STDIN ("-")`)

// commLines yields the lines of a sorted input without terminators.
type commLines struct {
	br         *bufio.Reader
	ignoreCase bool

	line string
	ok   bool
	err  error
}

func newCommLines(r io.Reader, ignoreCase bool) *commLines {
	l := &commLines{br: bufio.NewReader(r), ignoreCase: ignoreCase}
	l.next()
	return l
}

// next advances to the following line. Reading stops at the first error.
func (l *commLines) next() {
	line, err := l.br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		l.err = err
	}
	if len(line) == 0 || l.err != nil {
		l.ok = false
		return
	}

	line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
	line = string(decodeLossy([]byte(line)))
	if l.ignoreCase {
		line = lowerFold(line)
	}
	l.line, l.ok = line, true
}

// commWriter prints lines in their column, leaving empty cells for the
// visible columns to their left.
type commWriter struct {
	w         io.Writer
	show      [3]bool
	delimiter string
}

func (c *commWriter) write(column int, line string) error {
	if !c.show[column] {
		return nil
	}

	var cells []string
	for i := 0; i < column; i++ {
		if c.show[i] {
			cells = append(cells, "")
		}
	}
	cells = append(cells, line)
	_, err := io.WriteString(c.w, strings.Join(cells, c.delimiter)+"\n")
	return err
}

// commMerge walks both sorted inputs in lockstep. Column 0 holds lines only
// in a, column 1 lines only in b and column 2 lines in both.
func commMerge(a, b *commLines, out *commWriter) error {
	for a.ok || b.ok {
		var err error
		switch {
		case a.ok && b.ok && a.line == b.line:
			err = out.write(2, a.line)
			a.next()
			b.next()
		case a.ok && (!b.ok || a.line < b.line):
			err = out.write(0, a.line)
			a.next()
		default:
			err = out.write(1, b.line)
			b.next()
		}
		if err != nil {
			return err
		}
	}

	if a.err != nil {
		return a.err
	}
	return b.err
}

// Comm implements the POSIX comm command.
//
// https://pubs.opengroup.org/onlinepubs/9699919799/utilities/comm.html
func Comm(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "comm [OPTION]... FILE1 FILE2",
		Short: "Compare sorted files FILE1 and FILE2 line by line.",
	}

	opts := cmd.Flags()
	hide1 := opts.Bool('1', "suppress column 1 (lines unique to FILE1)")
	hide2 := opts.Bool('2', "suppress column 2 (lines unique to FILE2)")
	hide3 := opts.Bool('3', "suppress column 3 (lines that appear in both files)")
	ignoreCase := opts.BoolLong("ignore-case", 'i', "case insensitive comparison of lines")
	delimiter := opts.StringLong("output-delimiter", 'd', "\t", "separate columns with STR", "STR")

	return cmd.RunE(virtOS, func() error {
		args := opts.Args()
		switch {
		case len(args) < 2:
			return errMissingOperand
		case len(args) > 2:
			return fmt.Errorf("extra operand %q", args[2])
		case args[0] == StdinName && args[1] == StdinName:
			return errBothStdin
		}

		var inputs [2]*commLines
		for i, name := range args {
			fd, err := OpenInput(virtOS, name)
			if err != nil {
				return &FileError{Name: name, Err: err}
			}
			defer fd.Close()
			inputs[i] = newCommLines(fd, *ignoreCase)
		}

		w := bufio.NewWriter(virtOS.Stdout())
		defer w.Flush()

		return commMerge(inputs[0], inputs[1], &commWriter{
			w:         w,
			show:      [3]bool{!*hide1, !*hide2, !*hide3},
			delimiter: *delimiter,
		})
	})
}

var _ vos.ProcessFunc = Comm

func init() {
	mustAddCmd("comm", Comm)
}

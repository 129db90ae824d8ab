package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/josephlewis42/unox/core/vos"
)

// streamCounter is an io.Writer that tallies what is written to it.
type streamCounter struct {
	bytes    int64
	newlines int64
	chars    int64
	words    int64

	last    byte
	inSpace bool
}

func isASCIISpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	default:
		return false
	}
}

func (w *streamCounter) Write(data []byte) (int, error) {
	for _, c := range data {
		isFirstByte := w.bytes == 0
		w.bytes++
		w.last = c

		// Assume UTF-8 characters. Bytes following the leading byte always
		// have MSB of 0b10 indicating they're part of a previous character.
		if c < 0b10000000 || c > 0b10111111 {
			w.chars++
		}

		if c == '\n' {
			w.newlines++
		}

		if isASCIISpace(c) {
			w.inSpace = true
		} else {
			if w.inSpace || isFirstByte {
				w.words++
			}
			w.inSpace = false
		}
	}

	return len(data), nil
}

// Lines counts newline terminated lines plus a trailing partial line.
func (w *streamCounter) Lines() int64 {
	if w.bytes > 0 && w.last != '\n' {
		return w.newlines + 1
	}
	return w.newlines
}

type wcCount struct {
	lines int64
	words int64
	bytes int64
	chars int64
}

func newWcCount(fd io.Reader) (*wcCount, error) {
	var counter streamCounter
	if _, err := io.Copy(&counter, fd); err != nil {
		return nil, err
	}

	return &wcCount{
		lines: counter.Lines(),
		words: counter.words,
		bytes: counter.bytes,
		chars: counter.chars,
	}, nil
}

func (w *wcCount) Increment(other *wcCount) {
	w.lines += other.lines
	w.words += other.words
	w.bytes += other.bytes
	w.chars += other.chars
}

// Wc implements the POSIX command by the same name.
// https://pubs.opengroup.org/onlinepubs/009695399/utilities/wc.html
func Wc(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "wc [-c|-m] [-lw] [FILE...]",
		Short: "Write the number of newlines, words, and bytes contained in each input file to the standard output.",
	}

	opts := cmd.Flags()
	writeLines := opts.BoolLong("lines", 'l', "write the number of lines in each file")
	writeWords := opts.BoolLong("words", 'w', "write the number of words in each file")
	writeBytes := opts.BoolLong("bytes", 'c', "write the number of bytes in each file")
	writeChars := opts.BoolLong("chars", 'm', "write the number of characters in each file")

	return cmd.RunE(virtOS, func() error {
		files := filesOrStdin(opts.Args())

		if !*writeLines && !*writeWords && !*writeBytes && !*writeChars {
			*writeLines, *writeWords, *writeBytes = true, true, true
		}

		var cols []func(*wcCount) int64
		if *writeLines {
			cols = append(cols, func(w *wcCount) int64 { return w.lines })
		}
		if *writeWords {
			cols = append(cols, func(w *wcCount) int64 { return w.words })
		}
		if *writeBytes {
			cols = append(cols, func(w *wcCount) int64 { return w.bytes })
		}
		if *writeChars {
			cols = append(cols, func(w *wcCount) int64 { return w.chars })
		}

		displayCount := func(count *wcCount, label string) {
			var sb strings.Builder
			for _, col := range cols {
				fmt.Fprintf(&sb, "%8d", col(count))
			}
			if label != "" {
				sb.WriteString(" ")
				sb.WriteString(label)
			}
			fmt.Fprintln(virtOS.Stdout(), sb.String())
		}

		total := &wcCount{}
		cmd.RunEachFile(virtOS, files, func(name string, fd io.Reader) error {
			count, err := newWcCount(fd)
			if err != nil {
				return err
			}

			total.Increment(count)
			if name == StdinName {
				name = ""
			}
			displayCount(count, name)
			return nil
		})

		if len(files) > 1 {
			displayCount(total, "total")
		}

		return nil
	})
}

var _ vos.ProcessFunc = Wc

func init() {
	mustAddCmd("wc", Wc)
}

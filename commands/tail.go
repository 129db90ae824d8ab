package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/josephlewis42/unox/core/vos"
)

var (
	errMissingOperand = errors.New("missing file operand")
	errLinesAndBytes  = errors.New("cannot combine --lines and --bytes")
)

// FileStats holds the totals from one forward scan of a file.
type FileStats struct {
	Lines int64
	Bytes int64
}

// ScanStats counts the lines and bytes in r. A final line without a
// terminator is counted.
func ScanStats(r io.Reader) (FileStats, error) {
	counter := &streamCounter{}
	if _, err := io.Copy(counter, r); err != nil {
		return FileStats{}, err
	}
	return FileStats{Lines: counter.Lines(), Bytes: counter.bytes}, nil
}

// printFileHeader writes the "==> name <==" banner used by head and tail.
func printFileHeader(w io.Writer, name string, first bool) {
	if !first {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "==> %s <==\n", name)
}

// tailWindow prints the part of a seekable stream selected by take.
type tailWindow struct {
	take    TakeValue
	inBytes bool
}

func (tw *tailWindow) emit(f io.ReadSeeker, w io.Writer) error {
	stats, err := ScanStats(f)
	if err != nil {
		return err
	}

	total := stats.Lines
	if tw.inBytes {
		total = stats.Bytes
	}

	start, ok := tw.take.StartIndex(total)
	if !ok {
		return nil
	}

	if tw.inBytes {
		if _, err := f.Seek(start, io.SeekStart); err != nil {
			return err
		}
		_, err := io.Copy(w, lossyReader(f))
		return err
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}

	var idx int64
	br := bufio.NewReader(f)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			if idx >= start {
				if _, err := w.Write(decodeLossy(line)); err != nil {
					return err
				}
			}
			idx++
		}

		switch {
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}
	}
}

// followFile prints data appended to f from its current offset until ctx is
// done. Whenever no new line is available it seeks to the end and waits
// interval before retrying.
func followFile(ctx context.Context, f io.ReadSeeker, w io.Writer, interval time.Duration) error {
	br := bufio.NewReader(f)
	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			if _, werr := w.Write(decodeLossy(line)); werr != nil {
				return werr
			}
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		if _, err := f.Seek(0, io.SeekEnd); err != nil {
			return err
		}
		br.Reset(f)

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// Tail implements a POSIX tail command.
func Tail(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "tail [OPTION]... FILE...",
		Short: "Print the last 10 lines of each FILE to standard output.",
	}

	opts := cmd.Flags()
	var lines, bytes string
	linesOpt := opts.FlagLong(&lines, "lines", 'n', "output the last NUM lines, or use +NUM to start at line NUM", "NUM")
	bytesOpt := opts.FlagLong(&bytes, "bytes", 'c', "output the last NUM bytes, or use +NUM to start at byte NUM", "NUM")
	quiet := opts.BoolLong("quiet", 'q', "never print headers giving file names")
	silent := opts.BoolLong("silent", 0, "same as --quiet")
	verbose := opts.BoolLong("verbose", 'v', "always print headers giving file names")
	follow := opts.BoolLong("follow", 'f', "output appended data as the file grows")

	return cmd.RunE(virtOS, func() error {
		files := opts.Args()
		if len(files) == 0 {
			return errMissingOperand
		}

		window := &tailWindow{}
		unit, spec := "lines", "10"
		switch {
		case linesOpt.Seen() && bytesOpt.Seen():
			return errLinesAndBytes
		case bytesOpt.Seen():
			unit, spec = "bytes", bytes
			window.inBytes = true
		case linesOpt.Seen():
			spec = lines
		}

		take, err := ParseTakeValue(spec)
		if err != nil {
			return &InvalidCountError{Unit: unit, Value: spec}
		}
		window.take = take

		showHeaders := *verbose || (len(files) > 1 && !*quiet && !*silent)
		w := virtOS.Stdout()

		var followName string
		for i, name := range files {
			err := func() error {
				fd, err := OpenSeekable(virtOS, name)
				if err != nil {
					return err
				}
				defer fd.Close()

				if showHeaders {
					printFileHeader(w, name, i == 0)
				}
				if name != StdinName {
					followName = name
				}
				return window.emit(fd, w)
			}()

			if err != nil {
				cmd.LogFileError(virtOS, name, err)
			}
		}

		if !*follow || followName == "" {
			return nil
		}

		fd, err := virtOS.Open(followName)
		if err != nil {
			cmd.LogFileError(virtOS, followName, err)
			return nil
		}
		defer fd.Close()

		if _, err := fd.Seek(0, io.SeekEnd); err != nil {
			cmd.LogFileError(virtOS, followName, err)
			return nil
		}

		virtOS.Logger().Debug("following", "file", followName)
		if err := followFile(virtOS.Context(), fd, w, virtOS.Config().FollowInterval()); err != nil {
			cmd.LogFileError(virtOS, followName, err)
		}
		return nil
	})
}

var _ vos.ProcessFunc = Tail

func init() {
	mustAddCmd("tail", Tail)
}

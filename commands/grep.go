package commands

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"regexp"

	"github.com/josephlewis42/unox/core/vos"
	"github.com/spf13/afero"
)

var errMissingPattern = errors.New("missing argument PATTERN")

// grepInputs expands the named paths into the files to search. Directories
// are walked when recursive is set, otherwise they're reported and skipped.
func grepInputs(virtOS vos.VOS, cmd *SimpleCommand, paths []string, recursive bool) []string {
	var out []string
	for _, path := range paths {
		if path == StdinName {
			out = append(out, path)
			continue
		}

		info, err := virtOS.Stat(path)
		switch {
		case err != nil:
			cmd.LogFileError(virtOS, path, err)
		case info.Mode().IsRegular():
			out = append(out, path)
		case info.IsDir() && !recursive:
			cmd.LogFileError(virtOS, path, errIsDirectory)
		case info.IsDir():
			afero.Walk(virtOS, path, func(walked string, info fs.FileInfo, err error) error {
				if err != nil {
					cmd.LogFileError(virtOS, walked, err)
					return nil
				}
				if info.Mode().IsRegular() {
					out = append(out, walked)
				}
				return nil
			})
		}
	}
	return out
}

// Grep implements the POSIX grep command.
//
// https://pubs.opengroup.org/onlinepubs/9699919799.2018edition/
func Grep(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "grep [-icrnv] PATTERN [FILE]...",
		Short: "Search files for text matching a pattern.",
	}

	invert := cmd.Flags().BoolLong("invert-match", 'v', "Select lines not matching any of the specified patterns.")
	ignoreCase := cmd.Flags().BoolLong("ignore-case", 'i', "Perform pattern matching in searches without regard to case.")
	recursive := cmd.Flags().BoolLong("recursive", 'r', "Search directories recursively.")
	countOnly := cmd.Flags().BoolLong("count", 'c', "Print only a count of matching lines per file.")
	showLineNumbers := cmd.Flags().BoolLong("line-number", 'n', "Show line numbers.")

	return cmd.RunE(virtOS, func() error {
		args := cmd.Flags().Args()
		if len(args) == 0 {
			return errMissingPattern
		}

		pattern := args[0]
		expr := pattern
		if *ignoreCase {
			expr = "(?i)" + expr
		}
		regex, err := regexp.Compile(expr)
		if err != nil {
			virtOS.LogInvalidInvocation(err)
			return fmt.Errorf("invalid pattern `%s`", pattern)
		}

		files := grepInputs(virtOS, cmd, filesOrStdin(args[1:]), *recursive)
		showFileName := len(files) > 1
		w := virtOS.Stdout()

		cmd.RunEachFile(virtOS, files, func(name string, fd io.Reader) error {
			prefix := func() {
				if showFileName {
					fmt.Fprintf(w, "%s:", name)
				}
			}

			matches := 0
			lineNo := 0
			br := bufio.NewReader(fd)
			for {
				line, err := br.ReadBytes('\n')
				if len(line) > 0 {
					lineNo++
					text := bytes.TrimSuffix(bytes.TrimSuffix(line, []byte("\n")), []byte("\r"))
					if regex.Match(text) != *invert {
						matches++
						if !*countOnly {
							prefix()
							if *showLineNumbers {
								fmt.Fprintf(w, "%d:", lineNo)
							}
							w.Write(line)
						}
					}
				}

				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return err
				}
			}

			if *countOnly {
				prefix()
				fmt.Fprintf(w, "%d\n", matches)
			}
			return nil
		})
		return nil
	})
}

var _ vos.ProcessFunc = Grep

func init() {
	mustAddCmd("grep", Grep)
}

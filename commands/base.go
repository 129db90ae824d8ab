package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	getopt "github.com/pborman/getopt/v2"
	"github.com/josephlewis42/unox/core/vos"
)

// allCommands holds every registered tool keyed by name.
var allCommands = make(map[string]vos.ProcessFunc)

// mustAddCmd registers a tool, it panics on duplicate names.
func mustAddCmd(name string, cmd vos.ProcessFunc) {
	if _, ok := allCommands[name]; ok {
		panic(fmt.Sprintf("duplicate command %q", name))
	}
	allCommands[name] = cmd
}

// BuiltinCommand is a registered tool.
type BuiltinCommand struct {
	Names []string
	Proc  vos.ProcessFunc
}

// ListBuiltinCommands returns the registered tools sorted by name.
func ListBuiltinCommands() []BuiltinCommand {
	var out []BuiltinCommand
	for name, proc := range allCommands {
		out = append(out, BuiltinCommand{Names: []string{name}, Proc: proc})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Names[0] < out[j].Names[0]
	})
	return out
}

// IsBuiltin reports whether a tool is registered under name.
func IsBuiltin(name string) bool {
	_, ok := allCommands[name]
	return ok
}

// BuiltinProcessResolver resolves registered tools by base name.
func BuiltinProcessResolver(name string) vos.ProcessFunc {
	return allCommands[path.Base(name)]
}

var _ vos.ProcessResolver = BuiltinProcessResolver

func BytesToHuman(bytes int64) string {
	for _, e := range []struct {
		unit  string
		power int64
	}{
		{"P", 1e15},
		{"T", 1e12},
		{"G", 1e9},
		{"M", 1e6},
		{"K", 1e3},
	} {
		quotient := bytes / e.power
		switch {
		case quotient == 0:
			continue
		case quotient > 10:
			return fmt.Sprintf("%d%s", quotient, e.unit)
		default:
			return fmt.Sprintf("%0.1f%s", float64(bytes)/float64(e.power), e.unit)
		}
	}

	return fmt.Sprintf("%d", bytes)
}

type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a sone line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help flag isn't
	// added.
	ShowHelp *bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// Name is the tool name, the first word of Use.
func (s *SimpleCommand) Name() string {
	return strings.SplitN(s.Use, " ", 2)[0]
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run the command, if flag parsing was succcessful call the callback.
func (s *SimpleCommand) Run(virtOS vos.VOS, callback func() int) int {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	opts.SetProgram(s.Name())
	if err := opts.Getopt(virtOS.Args(), nil); err != nil {
		virtOS.LogInvalidInvocation(err)
		fmt.Fprintf(virtOS.Stderr(), "error: %s\n\n", err)

		s.PrintHelp(virtOS.Stderr())
		return 1
	}

	if *s.ShowHelp {
		s.PrintHelp(virtOS.Stdout())
		return 0
	}

	return callback()
}

// RunE is like Run, but a non-nil error from the callback is reported
// and turned into exit status 1.
func (s *SimpleCommand) RunE(virtOS vos.VOS, callback func() error) int {
	return s.Run(virtOS, func() int {
		if err := callback(); err != nil {
			s.LogProgramError(virtOS, err)
			return 1
		}
		return 0
	})
}

// LogProgramError writes "<tool>: <message>" to stderr.
func (s *SimpleCommand) LogProgramError(virtOS vos.VOS, err error) {
	virtOS.Logger().Debug("program error", "err", err)
	fmt.Fprintf(virtOS.Stderr(), "%s: %s\n", s.Name(), err)
}

// FileError is a failure tied to a named input.
type FileError struct {
	Name string
	Err  error
}

// Error returns "<file>: <message>". Path errors are unwrapped so the file
// name isn't repeated.
func (e *FileError) Error() string {
	err := e.Err
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		err = pathErr.Err
	}
	return fmt.Sprintf("%s: %s", e.Name, err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// LogFileError writes "<tool>: <file>: <message>" to stderr.
func (s *SimpleCommand) LogFileError(virtOS vos.VOS, name string, err error) {
	virtOS.Logger().Debug("file error", "file", name, "err", err)
	fmt.Fprintf(virtOS.Stderr(), "%s: %s\n", s.Name(), &FileError{Name: name, Err: err})
}

// RunEachFile opens each named input in turn and passes it to callback.
// Failures are reported for the file and processing continues with the next.
// Each input is closed before the next is opened.
func (s *SimpleCommand) RunEachFile(virtOS vos.VOS, files []string, callback func(name string, fd io.Reader) error) {
	for _, name := range files {
		err := func() error {
			fd, err := OpenInput(virtOS, name)
			if err != nil {
				return err
			}
			defer fd.Close()

			return callback(name, fd)
		}()

		if err != nil {
			s.LogFileError(virtOS, name, err)
		}
	}
}

// filesOrStdin returns args, or "-" if there are none.
func filesOrStdin(args []string) []string {
	if len(args) == 0 {
		return []string{StdinName}
	}
	return args
}

package commands

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/josephlewis42/unox/core/vos"
	getopt "github.com/pborman/getopt/v2"
)

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]ShellBuiltin)

// ShellBuiltin is a command the shell runs itself rather than as a process.
type ShellBuiltin interface {
	Main(s *Shell, stdio vos.VIO, args []string) int
}

type ShellBuiltinFunc func(s *Shell, stdio vos.VIO, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, stdio vos.VIO, args []string) int {
	return f(s, stdio, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// Cd is the cd shell builtin
func Cd(s *Shell, stdio vos.VIO, args []string) int {
	switch len(args) {
	case 1:
		home := s.VirtualOS.Getenv(EnvHome)
		if home == "" {
			home = "/"
		}
		args = append(args, home)
		fallthrough
	case 2:
		if err := s.VirtualOS.Chdir(args[1]); err != nil {
			fmt.Fprintf(stdio.Stderr(), "%s: %v\n", args[0], err)
			return 1
		}
		s.VirtualOS.Setenv(EnvPWD, s.VirtualOS.Getwd())
	default:
		fmt.Fprintf(stdio.Stderr(), "%s: too many arguments\n", args[0])
		return 1
	}
	return 0
}

// Exit quits the shell with the given status, or the last one.
func Exit(s *Shell, stdio vos.VIO, args []string) int {
	s.Quit = true

	switch len(args) {
	case 1:
		return s.lastRet
	case 2:
		code, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(stdio.Stderr(), "%s: %s: numeric argument required\n", args[0], args[1])
			return exitSyntaxError
		}
		return int(uint8(code))
	default:
		s.Quit = false
		fmt.Fprintf(stdio.Stderr(), "%s: too many arguments\n", args[0])
		return 1
	}
}

func History(s *Shell, stdio vos.VIO, args []string) int {
	opts := getopt.New()
	clear := opts.Bool('c', "clear the history by deleting all entries")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := stdio.Stderr()
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "Display or manipulate the history list")
		fmt.Fprintln(w, "Display the history list with line numbers.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		return 1
	}

	if *clear {
		if s.Readline != nil {
			s.Readline.Operation.ResetHistory()
		}
		s.history = nil
		return 0
	}

	for i, line := range s.history {
		fmt.Fprintf(stdio.Stdout(), "% 5d  %s\n", i, line)
	}
	return 0
}

func Help(s *Shell, stdio vos.VIO, args []string) int {
	w := stdio.Stdout()
	fmt.Fprintln(w, "These shell commands are defined internally.  Type `help' to see this list.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Builtins:")

	var builtins []string
	for k := range AllBuiltins {
		builtins = append(builtins, k)
	}
	sort.Strings(builtins)
	for _, name := range builtins {
		fmt.Fprintf(w, "  %s\n", name)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tools:")
	for _, tool := range ListBuiltinCommands() {
		fmt.Fprintf(w, "  %s\n", tool.Names[0])
	}

	return 0
}

func init() {
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["history"] = ShellBuiltinFunc(History)
	AllBuiltins["help"] = ShellBuiltinFunc(Help)
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
}

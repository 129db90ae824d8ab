package commands

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/unox/core/vos"
	"mvdan.cc/sh/v3/syntax"
)

const (
	EnvHome = "HOME"
	EnvPWD  = "PWD"
)

// Exit statuses set by the shell itself.
const (
	exitSyntaxError = 2
	exitNotFound    = 127
)

// Shell is a small command interpreter that runs the registered tools.
type Shell struct {
	VirtualOS vos.VOS
	// Readline is only set for interactive sessions on a terminal.
	Readline *readline.Instance

	lastRet int
	history []string

	// Set to true to quit the shell
	Quit bool
}

// RunShell implements the sh command.
func RunShell(virtualOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "sh [-c COMMAND]",
		Short: "Command interpreter that runs the tools with pipes, redirects and sequencing.",
	}
	commandFlag := cmd.Flags().String('c', "", "read commands from COMMAND rather than standard input", "COMMAND")

	return cmd.Run(virtualOS, func() int {
		s := NewShell(virtualOS)
		if *commandFlag != "" {
			s.runCommand(*commandFlag)
			return s.lastRet
		}

		if isTerminal(virtualOS.Stdin()) {
			return s.runInteractive()
		}
		return s.runScript(virtualOS.Stdin())
	})
}

// NewShell creates a shell bound to the given process.
func NewShell(virtualOS vos.VOS) *Shell {
	if virtualOS.Getenv(EnvPWD) == "" {
		virtualOS.Setenv(EnvPWD, virtualOS.Getwd())
	}
	return &Shell{VirtualOS: virtualOS}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && readline.IsTerminal(int(f.Fd()))
}

func (s *Shell) prompt() string {
	prompt := s.VirtualOS.Config().Shell.Prompt

	pwd := s.VirtualOS.Getwd()
	if home := s.VirtualOS.Getenv(EnvHome); home != "" && strings.HasPrefix(pwd, home) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}
	prompt = strings.ReplaceAll(prompt, `\w`, pwd)

	return unescape(prompt)
}

func (s *Shell) syntaxError(node syntax.Node) error {
	err := fmt.Errorf("syntax error near: %d", node.Pos().Col())
	s.VirtualOS.LogInvalidInvocation(err)
	return err
}

func (s *Shell) executeFile(file *syntax.File) error {
	for _, stmt := range file.Stmts {
		if s.Quit {
			return nil
		}

		ec := execContext{
			stdin:  s.VirtualOS.Stdin(),
			stdout: s.VirtualOS.Stdout(),
			stderr: s.VirtualOS.Stderr(),
			env:    s.cmdEnv().Environ(),
		}
		if err := s.executeStatement(ec, stmt); err != nil {
			return err
		}
	}
	return nil
}

type execContext struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// env contains the shell environment variables in the execution context,
	// these contain pseudo-environment variables that aren't suitable to write
	// back to the system env like $?
	env []string

	// assignments contains command environment variable assignments.
	assignments []string

	// args contains the CLI arguments for the command
	args []string
}

// applyRedirect points the stdin, stdout or stderr of ec at the target of
// rd. A file opened for the redirect is returned for the caller to close.
func (s *Shell) applyRedirect(ec *execContext, rd *syntax.Redirect) (io.Closer, error) {
	to, err := s.evalWord(*ec, rd.Word)
	if err != nil {
		return nil, err
	}
	if to == "" {
		return nil, s.syntaxError(rd)
	}

	var target *io.Writer
	switch {
	case rd.Op == syntax.RdrIn:
		fd, err := OpenInput(s.VirtualOS, to)
		if err != nil {
			return nil, &FileError{Name: to, Err: err}
		}
		ec.stdin = fd
		return fd, nil
	case rd.Op != syntax.RdrOut && rd.Op != syntax.AppOut && rd.Op != syntax.DplOut:
		return nil, s.syntaxError(rd)
	case rd.N == nil || rd.N.Value == "1":
		target = &ec.stdout
	case rd.N.Value == "2":
		target = &ec.stderr
	default:
		return nil, s.syntaxError(rd)
	}

	if rd.Op == syntax.DplOut {
		switch to {
		case "1":
			*target = ec.stdout
		case "2":
			*target = ec.stderr
		default:
			return nil, s.syntaxError(rd)
		}
		return nil, nil
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if rd.Op == syntax.AppOut {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	fd, err := s.VirtualOS.OpenFile(to, flags, 0644)
	if err != nil {
		return nil, &FileError{Name: to, Err: err}
	}
	*target = fd
	return fd, nil
}

func (s *Shell) executeStatement(ec execContext, stmt *syntax.Stmt) error {
	for _, rd := range stmt.Redirs {
		fd, err := s.applyRedirect(&ec, rd)
		if err != nil {
			return err
		}
		if fd != nil {
			defer fd.Close()
		}
	}

	// run command
	switch cmd := stmt.Cmd.(type) {
	case *syntax.CallExpr:
		var err error
		ec.assignments, err = s.evalAssign(ec, cmd.Assigns)
		if err != nil {
			return err
		}

		for _, word := range cmd.Args {
			argStr, err := s.evalWord(ec, word)
			if err != nil {
				return err
			}
			ec.args = append(ec.args, argStr)
		}
		s.executeProgramOrBuiltin(ec)
	case *syntax.BinaryCmd:
		switch cmd.Op {
		case syntax.AndStmt:
			if err := s.executeStatement(ec, cmd.X); err != nil {
				return err
			}
			if s.lastRet == 0 && !s.Quit {
				return s.executeStatement(ec, cmd.Y)
			}
		case syntax.OrStmt:
			if err := s.executeStatement(ec, cmd.X); err != nil {
				return err
			}
			if s.lastRet != 0 && !s.Quit {
				return s.executeStatement(ec, cmd.Y)
			}
		case syntax.Pipe:
			buf := &bytes.Buffer{}
			xEc := ec
			xEc.stdout = buf
			if err := s.executeStatement(xEc, cmd.X); err != nil {
				return err
			}

			yEc := ec
			yEc.stdin = buf
			if err := s.executeStatement(yEc, cmd.Y); err != nil {
				return err
			}
		default:
			return s.syntaxError(stmt)
		}
	default:
		// Compound commands, functions and the like aren't supported.
		return s.syntaxError(stmt)
	}

	if stmt.Negated {
		if s.lastRet == 0 {
			s.lastRet = 1
		} else {
			s.lastRet = 0
		}
	}

	return nil
}

func (s *Shell) evalAssign(ec execContext, assignments []*syntax.Assign) ([]string, error) {
	out := vos.NewMapEnv()
	tmpEnv := vos.NewMapEnvFromEnvList(ec.env)

	for _, assmt := range assignments {
		if assmt.Name == nil {
			continue
		}
		key := assmt.Name.Value

		value, err := s.evalWord(execContext{env: tmpEnv.Environ()}, assmt.Value)
		if err != nil {
			return nil, err
		}

		tmpEnv.Setenv(key, value)
		out.Setenv(key, value)
	}

	return out.Environ(), nil
}

func (s *Shell) evalWord(ec execContext, word *syntax.Word) (string, error) {
	if word == nil {
		return "", nil
	}
	var out []string

	for _, part := range word.Parts {
		subEval, err := s.evalWordPart(ec, part)
		if err != nil {
			return "", err
		}
		out = append(out, subEval)
	}
	return strings.Join(out, ""), nil
}

func (s *Shell) evalWordPart(ec execContext, part syntax.WordPart) (string, error) {
	switch part := part.(type) {
	case *syntax.Lit:
		return part.Value, nil

	case *syntax.SglQuoted:
		return part.Value, nil

	case *syntax.DblQuoted:
		var out []string
		for _, subPart := range part.Parts {
			subEval, err := s.evalWordPart(ec, subPart)
			if err != nil {
				return "", err
			}
			out = append(out, subEval)
		}
		return strings.Join(out, ""), nil

	case *syntax.ParamExp:
		return vos.NewMapEnvFromEnvList(ec.env).Getenv(part.Param.Value), nil

	default:
		return "", s.syntaxError(part)
	}
}

// runInteractive reads commands from a terminal with line editing.
func (s *Shell) runInteractive() int {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      s.prompt(),
		HistoryFile: s.VirtualOS.Config().Shell.HistoryFile,
		Stdin:       readline.NewCancelableStdin(s.VirtualOS.Stdin()),
		Stdout:      s.VirtualOS.Stdout(),
		Stderr:      s.VirtualOS.Stderr(),
	})
	if err != nil {
		fmt.Fprintf(s.VirtualOS.Stderr(), "sh: %s\n", err)
		return 1
	}
	defer rl.Close()
	s.Readline = rl

	for !s.Quit {
		s.Readline.SetPrompt(s.prompt())
		line, err := s.Readline.Readline()

		switch {
		case errors.Is(err, io.EOF):
			return s.lastRet // Input closed, quit.

		case errors.Is(err, readline.ErrInterrupt):
			// Interrupt clears line.
			continue
		case err != nil:
			s.VirtualOS.Logger().Error("readline", "err", err)
			continue

		case len(strings.TrimSpace(line)) == 0:
			continue // empty line

		default:
			s.history = append(s.history, line)
			s.runCommand(line)
		}
	}
	return s.lastRet
}

// runScript runs commands read line by line from a non-terminal input.
func (s *Shell) runScript(r io.Reader) int {
	br := bufio.NewReader(r)
	for !s.Quit {
		line, err := br.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			s.history = append(s.history, strings.TrimSuffix(line, "\n"))
			s.runCommand(line)
		}

		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(s.VirtualOS.Stderr(), "sh: %s\n", err)
				return 1
			}
			break
		}
	}
	return s.lastRet
}

func (s *Shell) runCommand(line string) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(line), "")
	if err != nil {
		fmt.Fprintf(s.VirtualOS.Stderr(), "sh: syntax error: %v\n", err)
		s.lastRet = exitSyntaxError
		return
	}
	if err := s.executeFile(prog); err != nil {
		fmt.Fprintf(s.VirtualOS.Stderr(), "sh: %v\n", err)
		s.lastRet = 1
	}
}

// cmdEnv returns a new copy of the VOS environment with special variables set
// for shell expansion.
func (s *Shell) cmdEnv() vos.VEnv {
	mapEnv := vos.NewMapEnvFromEnvList(s.VirtualOS.Environ())

	// Shell only arguments
	mapEnv.Setenv("?", fmt.Sprintf("%d", uint8(s.lastRet)))

	return mapEnv
}

func (s *Shell) executeProgramOrBuiltin(ec execContext) {
	if len(ec.args) == 0 {
		// If the full command was environment variables, set them. Otherwise they
		// should only be populated for the upcoming command.
		vos.CopyEnv(s.VirtualOS, ec.assignments)
		return
	}

	// Execute builtins
	if builtin, ok := AllBuiltins[ec.args[0]]; ok {
		s.lastRet = builtin.Main(s, vos.NewVIOAdapter(ec.stdin, ec.stdout, ec.stderr), ec.args)
		return
	}

	// Execute program
	proc, err := s.VirtualOS.StartProcess(ec.args[0], ec.args, &vos.ProcAttr{
		Env:   append(s.VirtualOS.Environ(), ec.assignments...),
		Files: vos.NewVIOAdapter(ec.stdin, ec.stdout, ec.stderr),
	})
	switch {
	case vos.IsNotFound(err):
		fmt.Fprintf(ec.stderr, "sh: %s: command not found\n", ec.args[0])
		s.lastRet = exitNotFound
		return
	case err != nil:
		fmt.Fprintf(ec.stderr, "sh: %s\n", err)
		s.lastRet = 1
		return
	}

	s.lastRet = proc.Run()
}

func init() {
	mustAddCmd("sh", RunShell)
}

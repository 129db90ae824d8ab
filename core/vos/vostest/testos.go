// Package vostest runs processes against a deterministic in-memory OS.
package vostest

import (
	"bytes"
	"context"
	"io"

	"github.com/josephlewis42/unox/core/config"
	"github.com/josephlewis42/unox/core/vos"
	"github.com/spf13/afero"
)

// SingleProcessResolver resolves every name to process.
func SingleProcessResolver(process vos.ProcessFunc) vos.ProcessResolver {
	return func(name string) vos.ProcessFunc {
		return process
	}
}

// Cmd is similar to exec.Cmd.
type Cmd struct {
	// Process function
	Process vos.ProcessFunc
	// Process arguments, the first argument should be the process name.
	Argv []string
	// If Dir is non-empty, the child changes into the directory before
	// creating the process.
	Dir string
	// If Env is non-empty, it gives the environment variables for the
	// new process in the form returned by Environ.
	Env []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	ExitStatus int

	// VOS is the in-memory filesystem the process sees, seed it before Run.
	VOS afero.Fs
	// Config is given to the process, the defaults are used if nil.
	Config *config.Configuration
	// Context is given to the process, context.Background() if nil.
	Context context.Context
	// Resolver finds processes started by this one, by default every name
	// resolves to Process.
	Resolver vos.ProcessResolver
}

// Command creates a command to run process with an empty in-memory filesystem.
func Command(process vos.ProcessFunc, name string, arg ...string) *Cmd {
	return &Cmd{
		Process: process,
		Argv:    append([]string{name}, arg...),
		VOS:     afero.NewMemMapFs(),
	}
}

func (c *Cmd) CombinedOutput() ([]byte, error) {
	// stdout, stderr
	buf := &bytes.Buffer{}
	c.Stdout = buf
	c.Stderr = buf

	err := c.Run()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Output runs the command and returns its standard output.
func (c *Cmd) Output() ([]byte, error) {
	buf := &bytes.Buffer{}
	c.Stdout = buf

	if err := c.Run(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Run starts the comand and waits for it to complete.
func (c *Cmd) Run() error {
	resolver := c.Resolver
	if resolver == nil {
		resolver = SingleProcessResolver(c.Process)
	}

	cfg := c.Config
	if cfg == nil {
		cfg = config.Default()
	}

	sharedOS := vos.NewSharedOS(c.Context, c.VOS, resolver, cfg, nil)
	initProc := sharedOS.InitProc("/", nil, nil)

	runner, err := initProc.StartProcess(c.Argv[0], c.Argv, &vos.ProcAttr{
		Dir:   c.Dir,
		Env:   c.Env,
		Files: vos.NewVIOAdapter(c.Stdin, writeCloser{c.Stdout}, writeCloser{c.Stderr}),
	})
	if err != nil {
		return err
	}

	// Resolve the entry process directly so a Resolver can't replace it.
	if p, ok := runner.(*vos.ProcOS); ok {
		p.Program = c.Process
	}

	c.ExitStatus = runner.Run()
	return nil
}

type writeCloser struct{ io.Writer }

func (w writeCloser) Write(b []byte) (int, error) {
	if w.Writer == nil {
		return len(b), nil
	}
	return w.Writer.Write(b)
}

func (writeCloser) Close() error {
	return nil
}

package vos

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/josephlewis42/unox/core/config"
	"github.com/spf13/afero"
)

// ProcOS is the view of the OS a single process gets.
type ProcOS struct {
	shared *SharedOS

	VEnv

	VFS

	VIO

	// Program is run by Run.
	Program ProcessFunc
	// Args holds command line arguments, including the command as Args[0].
	ProcArgs []string
	// Dir specifies the working directory of the command.
	Dir string
}

var _ VOS = (*ProcOS)(nil)
var _ afero.Lstater = (*ProcOS)(nil)

// Args implements VOS.Args.
func (ea *ProcOS) Args() []string {
	return ea.ProcArgs
}

// Getwd implements VOS.Getwd.
func (ea *ProcOS) Getwd() string {
	return ea.Dir
}

// Chdir implements VOS.Chdir.
func (ea *ProcOS) Chdir(dir string) (err error) {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(ea.Dir, dir)
	}
	dir = filepath.Clean(dir)

	stat, err := ea.Stat(dir)
	switch {
	case err != nil:
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			err = pathErr.Err
		}
		return fmt.Errorf("%s: %v", dir, err)
	case !stat.IsDir():
		return fmt.Errorf("%s: Not a directory", dir)
	default:
		ea.Dir = dir
		return nil
	}
}

// Context implements VOS.Context.
func (ea *ProcOS) Context() context.Context {
	return ea.shared.ctx
}

// Config implements VOS.Config.
func (ea *ProcOS) Config() *config.Configuration {
	return ea.shared.config
}

// Logger implements VOS.Logger.
func (ea *ProcOS) Logger() *log.Logger {
	return ea.shared.logger.With("proc", path.Base(ea.ProcArgs[0]))
}

// LogInvalidInvocation implements VOS.LogInvalidInvocation.
func (ea *ProcOS) LogInvalidInvocation(err error) {
	ea.Logger().Debug("invalid invocation", "args", ea.ProcArgs, "err", err)
}

// LstatIfPossible implements afero.Lstater so walks can see symlinks.
func (ea *ProcOS) LstatIfPossible(name string) (os.FileInfo, bool, error) {
	if lstater, ok := ea.VFS.(afero.Lstater); ok {
		return lstater.LstatIfPossible(name)
	}
	fi, err := ea.VFS.Stat(name)
	return fi, false, err
}

// Run implements VOS.Run.
func (ea *ProcOS) Run() int {
	return ea.Program(ea)
}

// ProcAttr holds the attributes that will be applied to a new process
// started by StartProcess.
type ProcAttr struct {
	// If Dir is non-empty, the child changes into the directory before
	// creating the process.
	Dir string
	// If Env is non-nil, it gives the environment variables for the
	// new process in the form returned by Environ.
	// If it is nil, the result of Environ will be used.
	Env []string

	// Files specifies the open files inherited by the new process.
	Files VIO
}

// StartProcess starts a new process with the program, arguments and attributes
// specified by name, argv and attr. The argv slice will become os.Args in the
// new process, so it normally starts with the program name.
//
// Default arguments configured for the program are inserted after argv[0].
func (ea *ProcOS) StartProcess(name string, argv []string, attr *ProcAttr) (VOS, error) {
	if attr == nil {
		attr = &ProcAttr{}
	}

	if len(argv) == 0 {
		argv = []string{name}
	}

	program, err := ea.shared.Resolve(path.Base(name))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	defaults, err := ea.shared.config.DefaultArgs(path.Base(name))
	if err != nil {
		return nil, fmt.Errorf("%s: default arguments: %v", name, err)
	}
	if len(defaults) > 0 {
		withDefaults := append([]string{argv[0]}, defaults...)
		argv = append(withDefaults, argv[1:]...)
	}

	var env VEnv
	if attr.Env == nil {
		env = NewMapEnvFromEnvList(ea.Environ())
	} else {
		env = NewMapEnvFromEnvList(attr.Env)
	}

	out := &ProcOS{
		shared:   ea.shared,
		VEnv:     env,
		Program:  program,
		ProcArgs: argv,
		Dir:      ea.Dir,
	}

	out.VFS = NewRelativeFs(ea.shared.fs, out.Getwd, ea.shared.logger)

	if attr.Files == nil {
		out.VIO = NewNullIO()
	} else {
		out.VIO = attr.Files
	}

	if attr.Dir != "" {
		if err := out.Chdir(attr.Dir); err != nil {
			return nil, err
		}
	}

	ea.shared.logger.Debug("start process", "name", name, "args", argv, "dir", out.Dir)
	return out, nil
}

package vos

import (
	"context"
	"errors"
	"io"
	"os/exec"

	"github.com/charmbracelet/log"
	"github.com/josephlewis42/unox/core/config"
)

// ErrNotFound is returned when no process is registered for a name.
var ErrNotFound = exec.ErrNotFound

// ProcessFunc is a "process" that can be run.
type ProcessFunc func(VOS) int

// ProcessResolver looks up a process by name, it returns nil if
// no process was found.
type ProcessResolver func(name string) ProcessFunc

// SharedOS holds the state every process started from it has in common.
type SharedOS struct {
	// fs holds the filesystem that is shared between ALL processes.
	fs VFS
	// The resolver for processes.
	processResolver ProcessResolver
	// The user supplied configuration
	config *config.Configuration
	// Diagnostic logger.
	logger *log.Logger
	// Cancelled when every process should stop.
	ctx context.Context
}

// NewSharedOS creates the base OS. A nil configuration uses the defaults and
// a nil logger discards diagnostics.
func NewSharedOS(ctx context.Context, baseFS VFS, procResolver ProcessResolver, cfg *config.Configuration, logger *log.Logger) *SharedOS {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.New(io.Discard)
		logger.SetLevel(log.FatalLevel)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	return &SharedOS{
		fs:              baseFS,
		processResolver: procResolver,
		config:          cfg,
		logger:          logger,
		ctx:             ctx,
	}
}

// Resolve looks up the process registered for name.
func (s *SharedOS) Resolve(name string) (ProcessFunc, error) {
	if s.processResolver == nil {
		return nil, ErrNotFound
	}
	proc := s.processResolver(name)
	if proc == nil {
		return nil, ErrNotFound
	}
	return proc, nil
}

// InitProc creates the first process, it has no program of its own and is
// used to start the others.
func (s *SharedOS) InitProc(dir string, environ []string, files VIO) *ProcOS {
	if files == nil {
		files = NewNullIO()
	}
	if dir == "" {
		dir = "/"
	}

	out := &ProcOS{
		shared:   s,
		VEnv:     NewMapEnvFromEnvList(environ),
		VIO:      files,
		ProcArgs: []string{"init"},
		Dir:      dir,
		Program: func(VOS) int {
			return 0
		},
	}
	out.VFS = NewRelativeFs(s.fs, out.Getwd, s.logger)
	return out
}

// IsNotFound reports whether err means the program doesn't exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

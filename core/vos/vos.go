// Package vos is the virtual OS each tool runs against.
//
// Tools never touch the host directly, they read arguments, standard streams,
// the environment and files through a VOS so the same code runs over the host
// filesystem or an in-memory one.
package vos

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/josephlewis42/unox/core/config"
)

// VIO holds the standard streams of a process.
type VIO interface {
	Stdin() io.ReadCloser
	Stdout() io.WriteCloser
	Stderr() io.WriteCloser
}

// VProc holds the per-process state.
type VProc interface {
	// Args holds command line arguments, including the command as Args[0].
	Args() []string
	// Getwd returns the absolute working directory of the process.
	Getwd() string
	// Chdir changes the working directory, relative paths are resolved against
	// the current one.
	Chdir(dir string) error
	// Context is cancelled when the process should stop.
	Context() context.Context
	// Config is the loaded user configuration.
	Config() *config.Configuration
	// Logger is the diagnostic logger for the process.
	Logger() *log.Logger
	// LogInvalidInvocation records that the process was called incorrectly.
	LogInvalidInvocation(err error)
}

// VOS provides a virtual OS interface.
type VOS interface {
	VEnv
	VIO
	VProc
	VFS

	// StartProcess creates a child process, Run must be called to execute it.
	StartProcess(name string, argv []string, attr *ProcAttr) (VOS, error)
	// Run executes the process and returns its exit status.
	Run() int
}

// Package logger builds the diagnostic logger shared by the tools.
//
// Diagnostics never go to a tool's standard output; user facing errors are
// written by the tools themselves and mirrored here at debug level.
package logger

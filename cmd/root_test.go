package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestBuiltinsCmd(t *testing.T) {
	out, _, err := execute(t, "", "--config", t.TempDir(), "builtins")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines, "cut")
	assert.Contains(t, lines, "uniq")
	assert.Contains(t, lines, "shell:cd")
	assert.Contains(t, lines, "shell:exit")
	assert.IsNonDecreasing(t, lines)
}

func TestToolCmd(t *testing.T) {
	dir := t.TempDir()

	t.Run("stdout", func(t *testing.T) {
		out, _, err := execute(t, "", "--config", dir, "echo", "-n", "hello")
		require.NoError(t, err)
		assert.Equal(t, "hello", out)
	})

	t.Run("stdin", func(t *testing.T) {
		out, _, err := execute(t, "a\na\nb\n", "--config", dir, "uniq", "-c")
		require.NoError(t, err)
		assert.Equal(t, "   2 a\n   1 b\n", out)
	})

	t.Run("exit status", func(t *testing.T) {
		_, stderr, err := execute(t, "", "--config", dir, "head", "--no-such-flag")

		var status exitStatusError
		require.True(t, errors.As(err, &status))
		assert.Equal(t, 1, int(status))
		assert.Contains(t, stderr, "error:")
	})
}

func TestToolCmd_toolArgs(t *testing.T) {
	dir := t.TempDir()
	config := "tool_args:\n  echo: -n\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(config), 0600))

	out, _, err := execute(t, "", "--config", dir, "echo", "x")
	require.NoError(t, err)
	assert.Equal(t, "x", out)
}

func TestRootCmd_unknownToolArgs(t *testing.T) {
	dir := t.TempDir()
	config := "tool_args:\n  nope: -x\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(config), 0600))

	_, _, err := execute(t, "", "--config", dir, "builtins")
	assert.EqualError(t, err, "tool_args: unknown tools: nope")
}

func TestInitCmd(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")

	_, _, err := execute(t, "", "--config", dir, "init", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "config.yaml"))

	// Running again leaves the file in place.
	_, _, err = execute(t, "", "--config", dir, "init", dir)
	require.NoError(t, err)
}

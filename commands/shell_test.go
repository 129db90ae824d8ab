package commands

import (
	"fmt"
	"strings"
	"testing"

	"github.com/josephlewis42/unox/core/config"
	"github.com/josephlewis42/unox/core/vos"
	"github.com/josephlewis42/unox/core/vos/vostest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunShell(t *testing.T) {
	files := map[string]string{
		"/f":         "a\na\nb\n",
		"/dir/x.txt": "inside\n",
	}

	cases := goldenTestSuite{
		"echo":     {Args: []string{"sh", "-c", `echo "hello"`}},
		"echo-cat": {Args: []string{"sh", "-c", `/bin/echo "hello" > foo; /bin/cat foo`}},

		// Ensure environment expansion works as expected:
		"no-expand-args":   {Args: []string{"sh", "-c", `A=B AA=$A$A echo $AA`}},
		"expand-after-set": {Args: []string{"sh", "-c", `A=B AA=$A$A; echo $AA`}},
		"single-quotes":    {Args: []string{"sh", "-c", `A=B; echo '$A' "$A"`}},
		"exit-status":      {Args: []string{"sh", "-c", `tail; echo $?`}},

		// Redirects
		"redir-stdout-stderr": {Args: []string{"sh", "-c", `echo "hello" 1>&2`}},
		"redir-stderr-stdout": {Args: []string{"sh", "-c", `cat nope 2>&1`}},
		"redir-append":        {Args: []string{"sh", "-c", `echo a > out; echo b >> out; cat out`}},
		"redir-truncate":      {Args: []string{"sh", "-c", `echo long line > out; echo short > out; cat out`}},
		"redir-stdin":         {Args: []string{"sh", "-c", `wc -l < f`}, Files: files},
		"redir-out-err-file":  {Args: []string{"sh", "-c", `tail 2>err; cat err`}},
		"redir-missing-input": {Args: []string{"sh", "-c", `wc < nope`}, Status: 1},

		// Pipes and sequencing
		"pipe":        {Args: []string{"sh", "-c", `cat f | uniq -c`}, Files: files},
		"pipe-chain":  {Args: []string{"sh", "-c", `cat f | uniq | wc -l`}, Files: files},
		"and-or":      {Args: []string{"sh", "-c", `tail && echo yes || echo no`}},
		"or-skipped":  {Args: []string{"sh", "-c", `echo a || echo b`}},
		"negated":     {Args: []string{"sh", "-c", `! tail 2>/null; echo $?`}},
		"exit":        {Args: []string{"sh", "-c", `echo a; exit 3; echo b`}, Status: 3},
		"cd":          {Args: []string{"sh", "-c", `cd dir && cat x.txt`}, Files: files},
		"cd-missing":  {Args: []string{"sh", "-c", `cd nope`}, Status: 1},
		"not-found":   {Args: []string{"sh", "-c", `nosuch arg`}, Status: exitNotFound},
		"script":      {Args: []string{"sh"}, Stdin: "echo one\necho two\n"},
		"history":     {Args: []string{"sh"}, Stdin: "echo a\n\nhistory\n"},
		"script-exit": {Args: []string{"sh"}, Stdin: "echo one\nexit\necho two\n"},

		// Filesystem tools
		"fs-tools": {Args: []string{"sh", "-c", `mkdir -p d/e && touch d/e/f && ls d/e && pwd && rm -r d; ls d`}},

		// Syntax errors
		"err-bad-from":   {Args: []string{"sh", "-c", `echo a 3>&1`}, Status: 1},
		"err-blank-dest": {Args: []string{"sh", "-c", `echo a >''`}, Status: 1},
		"err-dup-target": {Args: []string{"sh", "-c", `echo a >&3`}, Status: 1},
		"err-redir-op":   {Args: []string{"sh", "-c", `echo a &>f`}, Status: 1},
		"err-subst":      {Args: []string{"sh", "-c", `echo $(x)`}, Status: 1},
		"err-pipe-all":   {Args: []string{"sh", "-c", `echo a |& cat`}, Status: 1},
		"err-compound":   {Args: []string{"sh", "-c", `if true; then echo a; fi`}, Status: 1},
	}

	cases.Run(t, RunShell)
}

func TestRunShell_exitStatus(t *testing.T) {
	cases := map[string]struct {
		script string
		want   int
	}{
		"success":      {script: "echo a", want: 0},
		"failure":      {script: "tail", want: 1},
		"exit":         {script: "exit 3", want: 3},
		"exit-last":    {script: "tail; exit", want: 1},
		"not-found":    {script: "nosuch", want: exitNotFound},
		"syntax-error": {script: `echo "unterminated`, want: exitSyntaxError},
		"negated":      {script: "! echo a", want: 1},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			_, _, status := runTool(t, RunShell, nil, "", "sh", "-c", tc.script)
			assert.Equal(t, tc.want, status)
		})
	}
}

func TestRunShell_pipeMatchesTools(t *testing.T) {
	files := map[string]string{"/f": "b\nb\na\nB\nb\n"}

	catOut, _, _ := runTool(t, Cat, files, "", "cat", "f")
	direct, _, _ := runTool(t, Uniq, nil, catOut, "uniq", "-c")

	piped, stderr, status := runTool(t, RunShell, files, "", "sh", "-c", "cat f | uniq -c")
	assert.Equal(t, 0, status)
	assert.Empty(t, stderr)
	assert.Equal(t, direct, piped)
}

func TestRunShell_syntaxError(t *testing.T) {
	_, stderr, _ := runTool(t, RunShell, nil, "", "sh", "-c", `echo "unterminated`)
	assert.True(t, strings.HasPrefix(stderr, "sh: syntax error: "), "got %q", stderr)
}

func TestRunShell_help(t *testing.T) {
	stdout, _, status := runTool(t, RunShell, nil, "", "sh", "-c", "help")
	assert.Equal(t, 0, status)
	for _, name := range []string{"cd", "exit", "history", "cut", "tail", "uniq"} {
		assert.Contains(t, stdout, "  "+name+"\n")
	}
}

func TestShell_prompt(t *testing.T) {
	cfg := config.Default()
	cfg.Shell.Prompt = `[\w]\t`

	cmd := vostest.Command(func(virtOS vos.VOS) int {
		virtOS.Setenv(EnvHome, "/home/user")
		if err := virtOS.MkdirAll("/home/user/src", 0755); err != nil {
			return 1
		}
		if err := virtOS.Chdir("/home/user/src"); err != nil {
			return 1
		}

		s := NewShell(virtOS)
		fmt.Fprint(virtOS.Stdout(), s.prompt())
		return 0
	}, "prompt")
	cmd.Config = cfg

	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Equal(t, "[~/src]\t", string(out))
}

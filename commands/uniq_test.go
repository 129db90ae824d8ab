package commands

import (
	"bufio"
	"bytes"
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/josephlewis42/unox/core/config"
	"github.com/josephlewis42/unox/core/vos/vostest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniq(t *testing.T) {
	files := map[string]string{
		"/in.txt": "x\nx\ny\n",
	}

	cases := goldenTestSuite{
		"default":        {Args: []string{"uniq"}, Stdin: "a\na\nb\n"},
		"count":          {Args: []string{"uniq", "-c"}, Stdin: "a\na\nb\n"},
		"unique":         {Args: []string{"uniq", "-u"}, Stdin: "a\na\nb\nc\nc\nd\n"},
		"repeated":       {Args: []string{"uniq", "-d"}, Stdin: "a\na\nb\nc\nc\nd\n"},
		"repeated-count": {Args: []string{"uniq", "-d", "-c"}, Stdin: "a\na\nb\nc\nc\nd\n"},
		"ignore-case":    {Args: []string{"uniq", "-i"}, Stdin: "Hello\nHELLO\nhello\nbye\n"},
		"trailing-space": {Args: []string{"uniq"}, Stdin: "a \na\nb\n"},
		"leading-blanks": {Args: []string{"uniq", "-c"}, Stdin: "\n\na\n"},
		"no-newline":     {Args: []string{"uniq", "-c"}, Stdin: "a\na"},
		"input-file":     {Args: []string{"uniq", "in.txt"}, Files: files},
		"missing-input":  {Args: []string{"uniq", "missing.txt"}},
		"extra-operand":  {Args: []string{"uniq", "a", "b", "c"}, Status: 1},
	}

	cases.Run(t, Uniq)
}

func TestUniq_outputFile(t *testing.T) {
	cmd := vostest.Command(Uniq, "uniq", "/in.txt", "/out.txt")
	require.NoError(t, afero.WriteFile(cmd.VOS, "/in.txt", []byte("x\nx\ny\n"), 0644))

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Empty(t, string(out))

	written, err := afero.ReadFile(cmd.VOS, "/out.txt")
	require.NoError(t, err)
	assert.Equal(t, "x\ny\n", string(written))
}

type errWriter struct{ err error }

func (w errWriter) Write([]byte) (int, error) { return 0, w.err }

func TestUniq_writeError(t *testing.T) {
	cmd := vostest.Command(Uniq, "uniq")
	cmd.Stdin = strings.NewReader("a\na\nb\n")
	cmd.Stdout = errWriter{err: errors.New("no space left on device")}
	stderr := &strings.Builder{}
	cmd.Stderr = stderr

	require.NoError(t, cmd.Run())
	assert.Equal(t, 1, cmd.ExitStatus)
	assert.Equal(t, "uniq: no space left on device\n", stderr.String())
}

func TestUniq_countWidth(t *testing.T) {
	cfg := config.Default()
	cfg.UniqCountWidth = 1

	cmd := vostest.Command(Uniq, "uniq", "-c")
	cmd.Config = cfg
	cmd.Stdin = strings.NewReader("a\na\nb\n")

	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, "2 a\n1 b\n", string(out))
}

func runUniq(t *testing.T, input string, opts uniqOptions) string {
	t.Helper()

	var out bytes.Buffer
	run := newUniqRun(&out, opts)
	require.NoError(t, eachLineWithTerminator(strings.NewReader(input), run.Add))
	require.NoError(t, run.Flush())
	return out.String()
}

// eachLineWithTerminator is like eachLine but keeps the line terminator.
func eachLineWithTerminator(r *strings.Reader, fn func([]byte) error) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			if err := fn(line); err != nil {
				return err
			}
		}
		if err != nil {
			return nil
		}
	}
}

func randomLines(rng *rand.Rand) string {
	var sb strings.Builder
	for i := rng.Intn(40); i > 0; i-- {
		sb.WriteString([]string{"a", "A", "b", "b ", "", "c"}[rng.Intn(6)])
		sb.WriteString("\n")
	}
	return sb.String()
}

func TestUniqRun_idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		input := randomLines(rng)
		opts := uniqOptions{ignoreCase: i%2 == 0, countWidth: 4}

		once := runUniq(t, input, opts)
		twice := runUniq(t, once, opts)
		assert.Equal(t, once, twice, "input %q", input)
	}
}

func TestUniqRun_countsSumToLines(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		input := randomLines(rng)
		out := runUniq(t, input, uniqOptions{count: true, countWidth: 4})

		var sum int
		for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
			if line == "" {
				continue
			}
			n, err := strconv.Atoi(strings.TrimSpace(line[:4]))
			require.NoError(t, err, "line %q", line)
			sum += n
		}
		assert.Equal(t, strings.Count(input, "\n"), sum, "input %q", input)
	}
}

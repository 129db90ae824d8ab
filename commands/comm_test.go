package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComm(t *testing.T) {
	files := map[string]string{
		"/a.txt":     "apple\nbanana\ncherry\n",
		"/b.txt":     "banana\ncherry\ndate\n",
		"/upper.txt": "Apple\n",
		"/lower.txt": "apple\n",
		"/crlf.txt":  "apple\r\n",
	}

	cases := goldenTestSuite{
		"default":          {Args: []string{"comm", "a.txt", "b.txt"}, Files: files},
		"hide-1":           {Args: []string{"comm", "-1", "a.txt", "b.txt"}, Files: files},
		"hide-12":          {Args: []string{"comm", "-12", "a.txt", "b.txt"}, Files: files},
		"hide-3":           {Args: []string{"comm", "-3", "a.txt", "b.txt"}, Files: files},
		"delimiter":        {Args: []string{"comm", "-d", "|", "a.txt", "b.txt"}, Files: files},
		"case-sensitive":   {Args: []string{"comm", "upper.txt", "lower.txt"}, Files: files},
		"ignore-case":      {Args: []string{"comm", "-i", "upper.txt", "lower.txt"}, Files: files},
		"crlf":             {Args: []string{"comm", "crlf.txt", "lower.txt"}, Files: files},
		"stdin":            {Args: []string{"comm", "-", "b.txt"}, Stdin: "banana\n", Files: files},
		"both-stdin":       {Args: []string{"comm", "-", "-"}, Status: 1},
		"missing":          {Args: []string{"comm", "a.txt", "nope"}, Files: files, Status: 1},
		"missing-operand":  {Args: []string{"comm", "a.txt"}, Files: files, Status: 1},
		"extra-operand":    {Args: []string{"comm", "a.txt", "b.txt", "c.txt"}, Files: files, Status: 1},
		"empty-and-unique": {Args: []string{"comm", "a.txt", "-"}, Files: files},
	}

	cases.Run(t, Comm)
}

func TestComm_exitStatus(t *testing.T) {
	_, stderr, status := runTool(t, Comm, nil, "", "comm", "a.txt", "b.txt")
	assert.Equal(t, 1, status)
	assert.Equal(t, "comm: a.txt: file does not exist\n", stderr)

	_, _, status = runTool(t, Comm, map[string]string{"/a": "x\n", "/b": "y\n"}, "", "comm", "a", "b")
	assert.Equal(t, 0, status)
}

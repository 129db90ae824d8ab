package commands

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/josephlewis42/unox/core/vos"
	getopt "github.com/pborman/getopt/v2"
	"github.com/spf13/afero"
)

// repeatedValue collects every occurrence of a flag.
type repeatedValue []string

var _ getopt.Value = (*repeatedValue)(nil)

func (r *repeatedValue) Set(value string, _ getopt.Option) error {
	*r = append(*r, value)
	return nil
}

func (r *repeatedValue) String() string {
	return strings.Join(*r, ",")
}

// entryTypeMatcher reports whether a walked entry is of a requested type.
type entryTypeMatcher func(mode fs.FileMode) bool

var entryTypes = map[string]entryTypeMatcher{
	"f": fs.FileMode.IsRegular,
	"d": fs.FileMode.IsDir,
	"l": func(mode fs.FileMode) bool { return mode&fs.ModeSymlink != 0 },
}

// findFilter selects the entries find prints. Empty lists accept everything.
type findFilter struct {
	names    []*regexp.Regexp
	types    []entryTypeMatcher
	minDepth int
	maxDepth int // negative is unlimited
}

func (f *findFilter) matches(info fs.FileInfo, depth int) bool {
	if depth < f.minDepth {
		return false
	}

	if len(f.types) > 0 {
		ok := false
		for _, matcher := range f.types {
			ok = ok || matcher(info.Mode())
		}
		if !ok {
			return false
		}
	}

	if len(f.names) > 0 {
		for _, re := range f.names {
			if re.MatchString(info.Name()) {
				return true
			}
		}
		return false
	}
	return true
}

// walkDepth is the number of path elements between root and name.
func walkDepth(root, name string) int {
	rel, err := filepath.Rel(root, name)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(filepath.ToSlash(rel), "/") + 1
}

// Find implements a subset of the find command.
func Find(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "find [OPTION]... [PATH]...",
		Short: "Search for files in a directory hierarchy.",
	}

	opts := cmd.Flags()
	var names, types repeatedValue
	opts.FlagLong(&names, "name", 'n', "print entries whose base name matches REGEX, may be repeated", "REGEX")
	opts.FlagLong(&types, "type", 't', "print entries of TYPE: f (file), d (directory) or l (symlink), may be repeated", "TYPE")
	minDepth := opts.IntLong("min-depth", 0, 0, "don't print entries less than N levels below PATH", "N")
	maxDepth := opts.IntLong("max-depth", 0, -1, "descend at most N levels below PATH", "N")

	return cmd.RunE(virtOS, func() error {
		filter := &findFilter{minDepth: *minDepth, maxDepth: *maxDepth}
		if *minDepth < 0 {
			return fmt.Errorf("invalid minimum depth `%d`", *minDepth)
		}

		for _, name := range names {
			re, err := regexp.Compile(name)
			if err != nil {
				virtOS.LogInvalidInvocation(err)
				return fmt.Errorf("invalid pattern `%s`", name)
			}
			filter.names = append(filter.names, re)
		}

		for _, t := range types {
			matcher, ok := entryTypes[t]
			if !ok {
				return fmt.Errorf("invalid entry type `%s`", t)
			}
			filter.types = append(filter.types, matcher)
		}

		roots := opts.Args()
		if len(roots) == 0 {
			roots = []string{"."}
		}

		w := virtOS.Stdout()
		for _, root := range roots {
			afero.Walk(virtOS, root, func(name string, info fs.FileInfo, err error) error {
				if err != nil {
					cmd.LogFileError(virtOS, name, err)
					return nil
				}

				depth := walkDepth(root, name)
				if filter.matches(info, depth) {
					fmt.Fprintln(w, name)
				}

				if info.IsDir() && filter.maxDepth >= 0 && depth >= filter.maxDepth {
					return filepath.SkipDir
				}
				return nil
			})
		}
		return nil
	})
}

var _ vos.ProcessFunc = Find

func init() {
	mustAddCmd("find", Find)
}

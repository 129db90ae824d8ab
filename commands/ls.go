package commands

import (
	"fmt"
	"io"
	"io/fs"
	"strings"
	"text/tabwriter"

	"github.com/josephlewis42/unox/core/vos"
	"github.com/spf13/afero"
)

// lsTimeFormat is used for modification times in long listings.
const lsTimeFormat = "Jan 02 06 15:04"

// lsEntry is a single listed path.
type lsEntry struct {
	path string
	info fs.FileInfo
}

// lsCollect expands name into the entries to print. Directories are
// expanded to their children, which afero returns sorted by name.
func lsCollect(virtOS vos.VOS, name string, all bool) ([]lsEntry, error) {
	info, err := virtOS.Stat(name)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []lsEntry{{path: name, info: info}}, nil
	}

	children, err := afero.ReadDir(virtOS, name)
	if err != nil {
		return nil, err
	}

	prefix := strings.TrimSuffix(name, "/") + "/"
	var out []lsEntry
	for _, child := range children {
		if !all && strings.HasPrefix(child.Name(), ".") {
			continue
		}
		out = append(out, lsEntry{path: prefix + child.Name(), info: child})
	}
	return out, nil
}

// lsLong writes a tabular listing of entries.
func lsLong(w io.Writer, entries []lsEntry, sizeFmt func(int64) string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			e.info.Mode().String(),
			sizeFmt(e.info.Size()),
			e.info.ModTime().Format(lsTimeFormat),
			e.path)
	}
	return tw.Flush()
}

// Ls implements the UNIX ls command.
func Ls(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "ls [OPTION]... [FILE]...",
		Short: "List information about the FILEs (the current directory by default).",
	}

	opts := cmd.Flags()
	longListing := opts.BoolLong("long", 'l', "use a long listing format")
	listAll := opts.BoolLong("all", 'a', "don't ignore entries starting with .")
	humanSize := opts.BoolLong("human-readable", 'h', "with -l, print sizes like 1.5K and 23G")

	// -h is taken by --human-readable.
	showHelp := opts.BoolLong("help", 0, "show this help and exit")
	cmd.ShowHelp = showHelp

	return cmd.RunE(virtOS, func() error {
		paths := opts.Args()
		if len(paths) == 0 {
			paths = []string{"."}
		}

		sizeFmt := func(bytes int64) string {
			return fmt.Sprintf("%d", bytes)
		}
		if *humanSize {
			sizeFmt = BytesToHuman
		}

		w := virtOS.Stdout()
		for _, name := range paths {
			entries, err := lsCollect(virtOS, name, *listAll)
			if err != nil {
				cmd.LogFileError(virtOS, name, err)
				continue
			}

			if *longListing {
				if err := lsLong(w, entries, sizeFmt); err != nil {
					return err
				}
				continue
			}

			for _, e := range entries {
				fmt.Fprintln(w, e.path)
			}
		}
		return nil
	})
}

var _ vos.ProcessFunc = Ls

func init() {
	mustAddCmd("ls", Ls)
}

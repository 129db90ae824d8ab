package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/josephlewis42/unox/core/vos"
	"github.com/spf13/afero"
)

const permBits fs.FileMode = 0777

var (
	errNoModeAction = errors.New("no action provided")

	// modeWho maps the "who" letters of a symbolic mode to permission bits.
	modeWho = map[rune]fs.FileMode{
		'u': 0700,
		'g': 0070,
		'o': 0007,
		'a': permBits,
	}

	// modePerm maps permission letters to bits for every class.
	modePerm = map[rune]fs.FileMode{
		'r': 0444,
		'w': 0222,
		'x': 0111,
	}
)

// withPerm replaces the permission bits of orig, keeping its type bits.
func withPerm(orig, perm fs.FileMode) fs.FileMode {
	return (orig &^ permBits) | (perm & permBits)
}

// applyModeExpr applies a chmod mode, either octal or comma separated
// symbolic clauses like "u+x,go-w", to orig.
func applyModeExpr(expr string, orig fs.FileMode) (fs.FileMode, error) {
	if octal, err := strconv.ParseUint(expr, 8, 32); err == nil {
		return withPerm(orig, fs.FileMode(octal)), nil
	}

	mode := orig
	for _, clause := range strings.Split(expr, ",") {
		var err error
		if mode, err = applyModeClause(clause, mode); err != nil {
			return orig, err
		}
	}
	return mode, nil
}

// applyModeClause applies one [ugoa]*[+-=][rwxXst]* clause.
func applyModeClause(clause string, orig fs.FileMode) (fs.FileMode, error) {
	var who, perm fs.FileMode
	var op rune

	for _, c := range clause {
		switch {
		case op == 0 && modeWho[c] != 0:
			who |= modeWho[c]
		case op == 0 && strings.ContainsRune("+-=", c):
			op = c
		case op != 0 && modePerm[c] != 0:
			perm |= modePerm[c]
		case op != 0 && c == 'X':
			if orig.IsDir() || orig&0111 != 0 {
				perm |= 0111
			}
		case op != 0 && (c == 's' || c == 't'):
			// setuid, setgid and sticky bits aren't tracked.
		default:
			return orig, fmt.Errorf("unknown symbol %q", c)
		}
	}

	if op == 0 {
		return orig, errNoModeAction
	}
	if who == 0 {
		who = permBits
	}
	perm &= who

	switch op {
	case '+':
		return withPerm(orig, orig|perm), nil
	case '-':
		return withPerm(orig, orig&^perm), nil
	default:
		return withPerm(orig, (orig&^who)|perm), nil
	}
}

// Chmod implements a POSIX chmod command.
//
// Symbolic modes that start with '-' must come after "--".
func Chmod(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "chmod [OPTION...] MODE FILE...",
		Short: "Change the mode of each FILE to MODE.",
	}

	recursive := cmd.Flags().BoolLong("recursive", 'R', "change files and directories recursively")
	verbose := cmd.Flags().BoolLong("verbose", 'v', "print a line for every changed file")

	return cmd.Run(virtOS, func() int {
		args := cmd.Flags().Args()
		if len(args) < 2 {
			cmd.LogProgramError(virtOS, errMissingOperand)
			return 1
		}

		modeExpr, paths := args[0], args[1:]
		if _, err := applyModeExpr(modeExpr, 0); err != nil {
			cmd.LogProgramError(virtOS, fmt.Errorf("invalid mode %q: %w", modeExpr, err))
			return 1
		}

		change := func(path string, info fs.FileInfo) error {
			// Already validated above.
			newMode, _ := applyModeExpr(modeExpr, info.Mode())
			if err := virtOS.Chmod(path, newMode); err != nil {
				return err
			}
			if *verbose {
				fmt.Fprintf(virtOS.Stdout(), "mode of %q changed from %s to %s\n", path, info.Mode().Perm(), newMode.Perm())
			}
			return nil
		}

		status := 0
		for _, root := range paths {
			var err error
			if *recursive {
				err = afero.Walk(virtOS, root, func(path string, info fs.FileInfo, err error) error {
					if err != nil {
						return err
					}
					return change(path, info)
				})
			} else {
				var info fs.FileInfo
				if info, err = virtOS.Stat(root); err == nil {
					err = change(root, info)
				}
			}

			if err != nil {
				cmd.LogFileError(virtOS, root, err)
				status = 1
			}
		}
		return status
	})
}

var _ vos.ProcessFunc = Chmod

func init() {
	mustAddCmd("chmod", Chmod)
}

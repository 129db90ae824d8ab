package commands

import (
	"io"

	"github.com/josephlewis42/unox/core/vos"
)

// Cut implements a POSIX cut command.
func Cut(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "cut OPTION... [FILE]...",
		Short: "Print selected parts of lines from each FILE to standard output.",
	}

	opts := cmd.Flags()
	var fieldList, byteList, charList string
	fieldsOpt := opts.FlagLong(&fieldList, "fields", 'f', "select only these fields", "LIST")
	bytesOpt := opts.FlagLong(&byteList, "bytes", 'b', "select only these bytes", "LIST")
	charsOpt := opts.FlagLong(&charList, "characters", 'c', "select only these characters", "LIST")
	delimiter := opts.StringLong("delimiter", 'd', "\t", "use DELIM instead of TAB for field delimiter", "DELIM")
	outputDelimiter := opts.StringLong("output-delimiter", 0, "", "use STRING as the output delimiter, the default is the input delimiter", "STRING")

	return cmd.RunE(virtOS, func() error {
		given := func(seen bool, value *string) *string {
			if seen {
				return value
			}
			return nil
		}

		extraction, err := NewExtraction(
			given(fieldsOpt.Seen(), &fieldList),
			given(bytesOpt.Seen(), &byteList),
			given(charsOpt.Seen(), &charList),
		)
		if err != nil {
			return err
		}

		inDelim, err := ParseDelimiter(*delimiter)
		if err != nil {
			return err
		}
		outDelim := inDelim
		if *outputDelimiter != "" {
			if outDelim, err = ParseDelimiter(*outputDelimiter); err != nil {
				return err
			}
		}

		w := virtOS.Stdout()
		cmd.RunEachFile(virtOS, filesOrStdin(opts.Args()), func(name string, fd io.Reader) error {
			return extraction.Extract(fd, w, inDelim, outDelim)
		})
		return nil
	})
}

var _ vos.ProcessFunc = Cut

func init() {
	mustAddCmd("cut", Cut)
}

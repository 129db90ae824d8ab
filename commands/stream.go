package commands

import (
	"errors"
	"io"

	"github.com/josephlewis42/unox/core/vos"
	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
)

// StdinName is the file name that reads standard input.
const StdinName = "-"

var errIsDirectory = errors.New("Is a directory")

// OpenInput opens a named input for reading, "-" is standard input.
func OpenInput(virtOS vos.VOS, name string) (io.ReadCloser, error) {
	if name == StdinName {
		return io.NopCloser(virtOS.Stdin()), nil
	}

	fd, err := virtOS.Open(name)
	if err != nil {
		return nil, err
	}

	if info, err := fd.Stat(); err == nil && info.IsDir() {
		fd.Close()
		return nil, errIsDirectory
	}

	return fd, nil
}

// OpenSeekable opens a named input that can be re-read. Standard input is
// buffered in memory.
func OpenSeekable(virtOS vos.VOS, name string) (io.ReadSeekCloser, error) {
	if name == StdinName {
		return vos.Buffered(virtOS.Stdin())
	}

	fd, err := OpenInput(virtOS, name)
	if err != nil {
		return nil, err
	}
	return fd.(io.ReadSeekCloser), nil
}

// decodeLossy converts b to valid UTF-8, invalid sequences become U+FFFD.
func decodeLossy(b []byte) []byte {
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return b
	}
	return out
}

// lossyReader decodes r as UTF-8 while it is read.
func lossyReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.UTF8.NewDecoder())
}

// upperFold and lowerFold apply full Unicode case mapping.
func upperFold(s string) string {
	return cases.Upper(language.Und).String(s)
}

func lowerFold(s string) string {
	return cases.Lower(language.Und).String(s)
}

package commands

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ExtractMode is the unit cut selects.
type ExtractMode int

const (
	ExtractFields ExtractMode = iota + 1
	ExtractBytes
	ExtractChars
)

func (m ExtractMode) String() string {
	switch m {
	case ExtractFields:
		return "fields"
	case ExtractBytes:
		return "bytes"
	case ExtractChars:
		return "characters"
	default:
		return fmt.Sprintf("ExtractMode(%d)", int(m))
	}
}

var (
	// ErrNoExtraction is returned when none of fields, bytes or characters
	// is requested.
	ErrNoExtraction = errors.New("you must specify a list of bytes, characters, or fields")
	// ErrMultipleExtractions is returned when more than one is requested.
	ErrMultipleExtractions = errors.New("only one type of list may be specified")
	// ErrInvalidDelimiter is returned for delimiters that aren't one ASCII
	// byte, or that the field reader can't split on.
	ErrInvalidDelimiter = errors.New("delimiter must be a single ASCII character other than a quote or line break")
)

// Extraction is what to select from each line and in which unit.
type Extraction struct {
	Mode      ExtractMode
	Positions PositionList
}

// NewExtraction builds an Extraction from the position lists given on the
// command line, nil means the list wasn't given. Exactly one is required.
func NewExtraction(fieldList, byteList, charList *string) (Extraction, error) {
	var (
		mode ExtractMode
		spec string
		seen int
	)
	for _, given := range []struct {
		mode ExtractMode
		spec *string
	}{
		{ExtractFields, fieldList},
		{ExtractBytes, byteList},
		{ExtractChars, charList},
	} {
		if given.spec == nil {
			continue
		}
		seen++
		mode, spec = given.mode, *given.spec
	}

	switch {
	case seen == 0:
		return Extraction{}, ErrNoExtraction
	case seen > 1:
		return Extraction{}, ErrMultipleExtractions
	}

	positions, err := ParsePositions(spec)
	if err != nil {
		return Extraction{}, err
	}
	return Extraction{Mode: mode, Positions: positions}, nil
}

// ParseDelimiter checks that a delimiter is exactly one ASCII byte usable as
// a field separator.
func ParseDelimiter(delim string) (byte, error) {
	if len(delim) != 1 {
		return 0, ErrInvalidDelimiter
	}
	switch b := delim[0]; {
	case b == 0, b >= utf8.RuneSelf, b == '"', b == '\r', b == '\n':
		return 0, ErrInvalidDelimiter
	default:
		return b, nil
	}
}

// Extract writes the selected part of every line in r to w. Fields are split
// on inDelim and joined with outDelim; bytes and characters are printed one
// line per input line.
func (e Extraction) Extract(r io.Reader, w io.Writer, inDelim, outDelim byte) error {
	switch e.Mode {
	case ExtractFields:
		return e.extractFields(r, w, inDelim, outDelim)
	case ExtractBytes:
		return eachLine(r, func(line []byte) error {
			_, err := fmt.Fprintf(w, "%s\n", decodeLossy(selectPositions(line, e.Positions)))
			return err
		})
	case ExtractChars:
		return eachLine(r, func(line []byte) error {
			chars := []rune(string(decodeLossy(line)))
			_, err := fmt.Fprintf(w, "%s\n", string(selectPositions(chars, e.Positions)))
			return err
		})
	default:
		return fmt.Errorf("unknown extraction mode %v", e.Mode)
	}
}

func (e Extraction) extractFields(r io.Reader, w io.Writer, inDelim, outDelim byte) error {
	reader := csv.NewReader(r)
	reader.Comma = rune(inDelim)
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	bw := bufio.NewWriter(w)
	for {
		record, err := reader.Read()
		switch {
		case errors.Is(err, io.EOF):
			return bw.Flush()
		case err != nil:
			if flushErr := bw.Flush(); flushErr != nil {
				return flushErr
			}
			return err
		}

		writeRecord(bw, selectPositions(record, e.Positions), outDelim)
	}
}

// writeRecord writes fields joined by delim. A field is quoted, with inner
// quotes doubled, only if it holds delim, a quote or a line break.
func writeRecord(w *bufio.Writer, fields []string, delim byte) {
	for i, field := range fields {
		if i > 0 {
			w.WriteByte(delim)
		}
		if !strings.ContainsAny(field, string([]byte{delim, '"', '\r', '\n'})) {
			w.WriteString(field)
			continue
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(field, `"`, `""`))
		w.WriteByte('"')
	}
	w.WriteByte('\n')
}

// eachLine calls fn with every line of r, without its "\n" or "\r\n"
// terminator. A final line with no terminator is included.
func eachLine(r io.Reader, fn func(line []byte) error) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			line = bytes.TrimSuffix(line, []byte("\n"))
			line = bytes.TrimSuffix(line, []byte("\r"))
			if fnErr := fn(line); fnErr != nil {
				return fnErr
			}
		}

		switch {
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}
	}
}

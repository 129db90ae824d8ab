package commands

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// TakeKind says which end of a stream a TakeValue counts from.
type TakeKind int

const (
	// TakeFromEnd keeps the last N units, written "N" or "-N".
	TakeFromEnd TakeKind = iota
	// TakeFromStart starts at the Nth unit, written "+N" with N >= 1.
	TakeFromStart
	// TakeAll keeps everything, written "+0".
	TakeAll
)

var (
	takeValuePattern = regexp.MustCompile(`^([+-])?(\d+)$`)

	errInvalidTakeValue = errors.New("invalid count")
)

// TakeValue is a parsed tail offset.
type TakeValue struct {
	Kind TakeKind
	N    int64
}

// InvalidCountError is returned for a malformed --lines or --bytes value.
type InvalidCountError struct {
	// Unit is "lines" or "bytes".
	Unit  string
	Value string
}

func (e *InvalidCountError) Error() string {
	return fmt.Sprintf("invalid number of %s: `%s`", e.Unit, e.Value)
}

// ParseTakeValue parses "+N", "-N" or "N". A missing sign counts from the end.
func ParseTakeValue(text string) (TakeValue, error) {
	m := takeValuePattern.FindStringSubmatch(text)
	if m == nil {
		return TakeValue{}, errInvalidTakeValue
	}

	n, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return TakeValue{}, errInvalidTakeValue
	}

	switch {
	case m[1] == "+" && n == 0:
		return TakeValue{Kind: TakeAll}, nil
	case m[1] == "+":
		return TakeValue{Kind: TakeFromStart, N: n}, nil
	default:
		return TakeValue{Kind: TakeFromEnd, N: n}, nil
	}
}

// StartIndex resolves the value against the number of units in a stream.
// It returns the zero-based index of the first unit to print, or false if
// nothing should be printed.
func (t TakeValue) StartIndex(total int64) (int64, bool) {
	if total <= 0 {
		return 0, false
	}

	switch t.Kind {
	case TakeAll:
		return 0, true
	case TakeFromStart:
		if t.N > total {
			return 0, false
		}
		return t.N - 1, true
	default:
		if t.N == 0 {
			return 0, false
		}
		if t.N >= total {
			return 0, true
		}
		return total - t.N, true
	}
}

package commands

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrDecreasingRange is returned for ranges like "5-2".
	ErrDecreasingRange = errors.New("invalid decreasing range")
	// ErrEmptyPositions is returned when no positions are listed.
	ErrEmptyPositions = errors.New("empty position list")

	positionRangePattern = regexp.MustCompile(`^(\d+)-(\d+)$`)
	positionIndexPattern = regexp.MustCompile(`^\d+$`)
)

// InvalidExtractValueError is returned for a position that isn't a positive
// integer or a range of them.
type InvalidExtractValueError struct {
	Value string
}

func (e *InvalidExtractValueError) Error() string {
	return fmt.Sprintf("invalid extract value: `%s`", e.Value)
}

// Range is a half-open, zero-based span of positions.
type Range struct {
	Start int
	End   int
}

// PositionList holds ranges in the order they were written. Overlapping and
// repeated ranges are kept as is.
type PositionList []Range

// ParsePositions parses a comma separated list of one-based positions, each
// either an index "N" or an inclusive range "N-M".
//
//	"1,3-5" => [{0 1} {2 5}]
func ParsePositions(spec string) (PositionList, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, ErrEmptyPositions
	}

	var out PositionList
	for _, token := range strings.Split(spec, ",") {
		r, err := parsePositionToken(token)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func parsePositionToken(token string) (Range, error) {
	if m := positionRangePattern.FindStringSubmatch(token); m != nil {
		first, err := parsePositionIndex(m[1])
		if err != nil {
			return Range{}, err
		}
		last, err := parsePositionIndex(m[2])
		if err != nil {
			return Range{}, err
		}
		if first > last {
			return Range{}, ErrDecreasingRange
		}
		return Range{Start: first, End: last + 1}, nil
	}

	idx, err := parsePositionIndex(token)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: idx, End: idx + 1}, nil
}

// parsePositionIndex converts a one-based position to a zero-based index.
func parsePositionIndex(value string) (int, error) {
	if !positionIndexPattern.MatchString(value) {
		return 0, &InvalidExtractValueError{Value: value}
	}

	n, err := strconv.Atoi(value)
	if err != nil || n == 0 {
		return 0, &InvalidExtractValueError{Value: value}
	}
	return n - 1, nil
}

// selectPositions concatenates the items covered by each range in order.
// Indexes past the end of items are skipped.
func selectPositions[T any](items []T, positions PositionList) []T {
	var out []T
	for _, r := range positions {
		for i := r.Start; i < r.End && i < len(items); i++ {
			out = append(out, items[i])
		}
	}
	return out
}

package dice

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrInvalidNotation indicates dice notation that does not match
	// <count>d<sides>[+|-<modifier>].
	ErrInvalidNotation = errors.New("invalid dice notation")

	// ErrInvalidSpec indicates a parsed spec with a non-positive count or sides.
	ErrInvalidSpec = errors.New("invalid dice spec")
)

// notationPattern matches <count>d<sides> with an optional signed modifier.
// The separator is case-insensitive.
var notationPattern = regexp.MustCompile(`^(\d+)[dD](\d+)([+-]\d+)?$`)

// Spec is a parsed dice notation.
type Spec struct {
	Count    int
	Sides    int
	Modifier int
}

// Parse parses dice notation of the form <count>d<sides>[+|-<modifier>],
// e.g. "2d6", "1d20+5", "3D8-2". The separator accepts either case.
func Parse(notation string) (Spec, error) {
	match := notationPattern.FindStringSubmatch(strings.TrimSpace(notation))
	if match == nil {
		return Spec{}, fmt.Errorf("%w: %q", ErrInvalidNotation, notation)
	}

	count, err := strconv.Atoi(match[1])
	if err != nil {
		return Spec{}, fmt.Errorf("%w: %q", ErrInvalidNotation, notation)
	}
	sides, err := strconv.Atoi(match[2])
	if err != nil {
		return Spec{}, fmt.Errorf("%w: %q", ErrInvalidNotation, notation)
	}

	modifier := 0
	if match[3] != "" {
		modifier, err = strconv.Atoi(match[3])
		if err != nil {
			return Spec{}, fmt.Errorf("%w: %q", ErrInvalidNotation, notation)
		}
	}

	if count <= 0 || sides <= 0 {
		return Spec{}, fmt.Errorf("%w: %q", ErrInvalidSpec, notation)
	}

	return Spec{Count: count, Sides: sides, Modifier: modifier}, nil
}

// String renders the spec in canonical lowercase notation.
func (s Spec) String() string {
	switch {
	case s.Modifier > 0:
		return fmt.Sprintf("%dd%d+%d", s.Count, s.Sides, s.Modifier)
	case s.Modifier < 0:
		return fmt.Sprintf("%dd%d%d", s.Count, s.Sides, s.Modifier)
	default:
		return fmt.Sprintf("%dd%d", s.Count, s.Sides)
	}
}

// Min returns the lowest total the spec can produce.
func (s Spec) Min() int {
	return s.Count + s.Modifier
}

// Max returns the highest total the spec can produce.
func (s Spec) Max() int {
	return s.Count*s.Sides + s.Modifier
}

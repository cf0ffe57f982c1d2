// Package parser extracts measurement values from raw device lines.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/manuel-koch/go-serial-hud/internal/config"
)

// numberPattern matches the first unsigned "digits.digits" number
var numberPattern = regexp.MustCompile(`\d+\.\d+`)

// Predicate decides whether a parsed value is accepted as a sample
type Predicate func(value float64) bool

// Positive accepts values greater than zero
func Positive(value float64) bool { return value > 0 }

// NonNegative accepts zero and positive values
func NonNegative(value float64) bool { return value >= 0 }

// Any accepts every parsed value
func Any(float64) bool { return true }

// PredicateByName returns the predicate for an accept policy name
func PredicateByName(name string) (Predicate, error) {
	switch name {
	case config.AcceptPositive, "":
		return Positive, nil
	case config.AcceptNonNegative:
		return NonNegative, nil
	case config.AcceptAny:
		return Any, nil
	default:
		return nil, fmt.Errorf("unknown accept policy %q", name)
	}
}

// Parser turns raw lines into sample values
type Parser struct {
	accept Predicate
}

// New creates a parser; a nil predicate means Positive
func New(accept Predicate) *Parser {
	if accept == nil {
		accept = Positive
	}
	return &Parser{accept: accept}
}

// Parse returns the first number found in line and whether it is a valid
// sample. Invalid UTF-8 is dropped; malformed lines never cause an error.
func (p *Parser) Parse(line []byte) (float64, bool) {
	text := strings.ToValidUTF8(string(line), "")

	loc := numberPattern.FindStringIndex(text)
	if loc == nil {
		return 0, false
	}

	value, err := strconv.ParseFloat(text[loc[0]:loc[1]], 64)
	if err != nil {
		return 0, false
	}

	if negated(text, loc[0]) {
		value = -value
	}

	if !p.accept(value) {
		return 0, false
	}
	return value, true
}

// negated reports whether the number starting at start carries a minus sign.
// A '-' glued to a word, as in "A0-3.14" or "10-20.5", separates fields.
func negated(text string, start int) bool {
	if start == 0 || text[start-1] != '-' {
		return false
	}
	if start == 1 {
		return true
	}
	prev := text[start-2]
	return !isWordByte(prev) && prev != '.'
}

func isWordByte(b byte) bool {
	return b == '_' ||
		('0' <= b && b <= '9') ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z')
}

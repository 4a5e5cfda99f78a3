package table

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Kind is the comparison used for a column, inferred from cell content.
type Kind int

const (
	Lexicographic Kind = iota
	Numeric
)

func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "lexicographic"
}

// InferColumnKind reports Numeric only when every value parses entirely as
// a number. One non-numeric value makes the whole column lexicographic, as
// does an empty column.
func InferColumnKind(values []string) Kind {
	if len(values) == 0 {
		return Lexicographic
	}
	for _, v := range values {
		if _, ok := parseNumber(v); !ok {
			return Lexicographic
		}
	}
	return Numeric
}

// parseNumber accepts surrounding whitespace but no trailing garbage. Only
// plain decimal notation counts: blank cells, "inf", "nan" and hex floats
// are text.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !isDecimal(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out-of-range values saturate to ±Inf and still order correctly.
		if !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// isDecimal reports whether s uses only the characters of a decimal literal
// with an optional sign and exponent. ParseFloat still validates the shape.
func isDecimal(s string) bool {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
		case c == '.', c == '+', c == '-', c == 'e', c == 'E':
		default:
			return false
		}
	}
	return true
}

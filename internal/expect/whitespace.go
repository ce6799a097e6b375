package expect

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// WhitespaceMode governs how two text blocks are compared for equivalence.
type WhitespaceMode uint8

const (
	// WhitespaceExact compares byte-for-byte (after trimming and NFC
	// normalization, which all modes share).
	WhitespaceExact WhitespaceMode = iota
	// WhitespaceNormalized collapses every run of whitespace to one space.
	WhitespaceNormalized
	// WhitespaceLax ignores whitespace entirely.
	WhitespaceLax
)

func (m WhitespaceMode) String() string {
	switch m {
	case WhitespaceNormalized:
		return "normalized"
	case WhitespaceLax:
		return "lax"
	}
	return "exact"
}

// ParseWhitespaceMode maps a configuration string to a mode.
func ParseWhitespaceMode(s string) (WhitespaceMode, error) {
	switch s {
	case "", "exact":
		return WhitespaceExact, nil
	case "normalized":
		return WhitespaceNormalized, nil
	case "lax":
		return WhitespaceLax, nil
	}
	return WhitespaceExact, fmt.Errorf("unknown whitespace mode %q (want exact, normalized or lax)", s)
}

// Equal reports whether two text blocks are equivalent under the mode.
// Both sides are trimmed and NFC-normalized first.
func Equal(a, b string, mode WhitespaceMode) bool {
	return canonical(a, mode) == canonical(b, mode)
}

func canonical(s string, mode WhitespaceMode) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	switch mode {
	case WhitespaceNormalized:
		return strings.Join(strings.Fields(s), " ")
	case WhitespaceLax:
		var b strings.Builder
		b.Grow(len(s))
		for _, r := range s {
			if !unicode.IsSpace(r) {
				b.WriteRune(r)
			}
		}
		return b.String()
	default:
		return s
	}
}

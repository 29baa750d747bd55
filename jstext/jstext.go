// Package jstext reproduces the handful of ECMAScript string semantics the
// text tools are defined against: the \s whitespace class, String.prototype.trim
// and UTF-16 code unit lengths.
package jstext

import (
	"strings"
	"unicode"
)

// SpaceClass is the ECMAScript \s class written for Go's regexp syntax.
const SpaceClass = `[\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]`

// IsSpace reports whether r is matched by the ECMAScript \s class.
func IsSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		0x00a0, 0x1680, 0x2028, 0x2029, 0x202f, 0x205f, 0x3000, 0xfeff:
		return true
	}
	return r >= 0x2000 && r <= 0x200a
}

// Trim strips leading and trailing whitespace the way String.prototype.trim does.
func Trim(s string) string {
	return strings.TrimFunc(s, IsSpace)
}

// IsBlank reports whether s is empty after Trim.
func IsBlank(s string) bool {
	return Trim(s) == ""
}

// UnitLen returns the number of UTF-16 code units needed to represent r.
func UnitLen(r rune) int {
	if r >= 0x10000 && r <= unicode.MaxRune {
		return 2
	}
	return 1
}

// Len returns the length of s in UTF-16 code units.
func Len(s string) int {
	n := 0
	for _, r := range s {
		n += UnitLen(r)
	}
	return n
}

// Fields counts maximal runs of non-whitespace characters.
func Fields(s string) int {
	n := 0
	inWord := false
	for _, r := range s {
		if IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			n++
			inWord = true
		}
	}
	return n
}

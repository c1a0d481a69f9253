package cipher

import (
	"strconv"
	"strings"
)

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func lower(c byte) byte {
	if isUpper(c) {
		return c + ('a' - 'A')
	}
	return c
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// isPunct reports whether c is printable ASCII punctuation.
func isPunct(c byte) bool {
	return (c >= '!' && c <= '/') || (c >= ':' && c <= '@') ||
		(c >= '[' && c <= '`') || (c >= '{' && c <= '~')
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// PatternsMatch reports whether a and b have the same letter repetition
// structure: wherever one of them repeats a character at positions i and j,
// the other repeats a character at exactly i and j too. Letters are
// compared without regard to case.
func PatternsMatch(a, b string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := 0; i < len(a); i++ {
		ac, bc := lower(a[i]), lower(b[i])
		for j := i + 1; j < len(a); j++ {
			if (lower(a[j]) == ac) != (lower(b[j]) == bc) {
				return false
			}
		}
	}
	return true
}

// Pattern returns the repetition signature of w. Every distinct character
// is numbered in order of first appearance:
//
//	Q U E E N
//	1 2 3 3 4 => "1.2.3.3.4"
//
// Two strings have the same signature exactly when PatternsMatch holds for
// them.
func Pattern(w string) string {
	var seen [256]int
	var sb strings.Builder

	n := 0
	for i := 0; i < len(w); i++ {
		c := lower(w[i])
		if seen[c] == 0 {
			n++
			seen[c] = n
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.Itoa(seen[c]))
	}
	return sb.String()
}

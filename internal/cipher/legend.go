package cipher

import (
	"fmt"
	"strings"
)

// Unassigned is returned for letters the legend has no mapping for.
const Unassigned = '_'

// Legend is a partial substitution key read as "cipher letter => plain
// letter". A zero slot is unassigned. Legend is a value type: assigning or
// passing it copies the key, which is how a search branch gets its own.
type Legend struct {
	key [26]byte
}

// NewLegend returns a legend with no assignments.
func NewLegend() Legend {
	return Legend{}
}

// LegendOf returns a legend holding the single pair c => p.
func LegendOf(c, p byte) Legend {
	l := Legend{}
	if isLetter(c) && isLetter(p) {
		l.key[lower(c)-'a'] = lower(p)
	}
	return l
}

// Clone returns an independent copy of l.
func (l Legend) Clone() Legend {
	return l
}

func (l Legend) Equal(o Legend) bool {
	return l.key == o.key
}

// Assigned reports whether cipher letter c has a plain letter.
func (l Legend) Assigned(c byte) bool {
	return isLetter(c) && l.key[lower(c)-'a'] != 0
}

// Lookup returns the lower case plain letter for cipher letter c, or 0 if
// there is none.
func (l Legend) Lookup(c byte) byte {
	if !isLetter(c) {
		return 0
	}
	return l.key[lower(c)-'a']
}

// Set overwrites the slot for cipher letter c with no consistency checks.
// A p of 0 clears the slot. Searches that enforce the key invariants
// themselves use it; everything else should use Assign or Incorporate.
func (l *Legend) Set(c, p byte) {
	if !isLetter(c) {
		return
	}
	if p != 0 {
		p = lower(p)
	}
	l.key[lower(c)-'a'] = p
}

// Len returns the number of assigned cipher letters.
func (l Legend) Len() int {
	n := 0
	for _, p := range l.key {
		if p != 0 {
			n++
		}
	}
	return n
}

// Assign adds c => p, refusing anything that would break the key: a cipher
// letter already holding a different plain letter, or a plain letter
// already claimed by another cipher letter.
func (l *Legend) Assign(c, p byte) error {
	if !isLetter(c) || !isLetter(p) {
		return fmt.Errorf("%c=%c: %w", c, p, ErrBadHint)
	}
	c, p = lower(c), lower(p)

	if cur := l.key[c-'a']; cur != 0 {
		if cur != p {
			return fmt.Errorf("%c=%c, already %c=%c: %w", c, p, c, cur, ErrConflictingHint)
		}
		return nil
	}
	if other := l.reverse(p); other != 0 {
		return fmt.Errorf("%c=%c, already %c=%c: %w", c, p, other, p, ErrConflictingHint)
	}

	l.key[c-'a'] = p
	return nil
}

// reverse returns the first cipher letter mapped to plain letter p, or 0.
func (l Legend) reverse(p byte) byte {
	p = lower(p)
	for i, v := range l.key {
		if v == p {
			return byte('a' + i)
		}
	}
	return 0
}

// CipherToPlainChar decodes a single character. The case of c is kept;
// unmapped letters come back as Unassigned and anything that isn't a
// letter passes through.
func (l Legend) CipherToPlainChar(c byte) byte {
	if !isLetter(c) {
		return c
	}

	p := l.key[lower(c)-'a']
	if p == 0 {
		return Unassigned
	}
	if isUpper(c) {
		return upper(p)
	}
	return p
}

// PlainToCipherChar encodes a single character using a reverse lookup.
func (l Legend) PlainToCipherChar(p byte) byte {
	if !isLetter(p) {
		return p
	}

	c := l.reverse(p)
	if c == 0 {
		return Unassigned
	}
	if isUpper(p) {
		return upper(c)
	}
	return c
}

func (l Legend) CipherToPlainString(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		b[i] = l.CipherToPlainChar(s[i])
	}
	return string(b)
}

func (l Legend) PlainToCipherString(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		b[i] = l.PlainToCipherChar(s[i])
	}
	return string(b)
}

// CanMapText reports whether l is able to turn cipherText into plainText.
// Letters the legend maps must decode to the matching plain letter and
// other characters must be identical. When mustBeComplete is false an
// unmapped letter is a hole that matches anything.
func (l Legend) CanMapText(cipherText, plainText string, mustBeComplete bool) bool {
	if len(cipherText) != len(plainText) {
		return false
	}

	for i := 0; i < len(cipherText); i++ {
		cc := cipherText[i]
		if !isLetter(cc) {
			if lower(cc) != lower(plainText[i]) {
				return false
			}
			continue
		}

		p := l.key[lower(cc)-'a']
		if p == 0 {
			if mustBeComplete {
				return false
			}
			continue
		}
		if p != lower(plainText[i]) {
			return false
		}
	}
	return true
}

// Incorporate extends l with every cipher => plain pair the two words
// imply. It fails on the first pair that disagrees with the key or would
// give a plain letter a second cipher letter, and in that case l is left
// partially updated: callers work on a copy and throw it away.
func (l *Legend) Incorporate(cipherText, plainText string) bool {
	if len(cipherText) != len(plainText) {
		return false
	}

	for i := 0; i < len(cipherText); i++ {
		cc, pc := lower(cipherText[i]), lower(plainText[i])

		if isLetter(cc) != isLetter(pc) {
			return false
		}
		if !isLetter(cc) {
			continue
		}

		if cur := l.key[cc-'a']; cur != 0 {
			if cur != pc {
				return false
			}
			continue
		}
		if l.reverse(pc) != 0 {
			return false
		}
		l.key[cc-'a'] = pc
	}
	return true
}

// Pairs returns the assigned pairs in cipher letter order, e.g. "a=q b=x".
func (l Legend) Pairs() string {
	var pairs []string
	for i, p := range l.key {
		if p != 0 {
			pairs = append(pairs, fmt.Sprintf("%c=%c", 'a'+i, p))
		}
	}
	return strings.Join(pairs, " ")
}

func (l Legend) String() string {
	var sb strings.Builder
	sb.WriteString("cipher: abcdefghijklmnopqrstuvwxyz\n")
	sb.WriteString("plain:  ")
	for _, p := range l.key {
		if p == 0 {
			sb.WriteByte(Unassigned)
		} else {
			sb.WriteByte(p)
		}
	}
	return sb.String()
}

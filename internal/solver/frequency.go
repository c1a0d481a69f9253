package solver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jmccarv/quip/internal/cipher"
)

func letterIndex(c byte) int {
	switch {
	case c >= 'a' && c <= 'z':
		return int(c - 'a')
	case c >= 'A' && c <= 'Z':
		return int(c - 'A')
	}
	return -1
}

// FrequencyData counts how often letters appear across all the candidate
// words still alive. Cross[c][p] is the number of times cipher letter c
// lines up with plain letter p.
type FrequencyData struct {
	Cipher [26]int
	Plain  [26]int
	Cross  [26][26]int
}

// agrees reports whether candidate fits every position l has decided.
func agrees(l *cipher.Legend, text, candidate string) bool {
	if len(text) != len(candidate) {
		return false
	}
	for j := 0; j < len(text); j++ {
		if letterIndex(text[j]) < 0 {
			if text[j] != candidate[j] {
				return false
			}
			continue
		}
		if p := l.Lookup(text[j]); p != 0 && letterIndex(p) != letterIndex(candidate[j]) {
			return false
		}
	}
	return true
}

// Analyze tallies letter frequencies over the candidates of words. If l is
// not nil only candidates that agree with it are counted.
func Analyze(words []*cipher.Cipherword, l *cipher.Legend) FrequencyData {
	var fd FrequencyData

	for _, w := range words {
		for _, cand := range w.Candidates {
			if l != nil && !agrees(l, w.Text, cand) {
				continue
			}

			for j := 0; j < len(w.Text) && j < len(cand); j++ {
				c, p := letterIndex(w.Text[j]), letterIndex(cand[j])
				if c < 0 || p < 0 {
					continue
				}
				fd.Cipher[c]++
				fd.Plain[p]++
				fd.Cross[c][p]++
			}
		}
	}

	return fd
}

// Rank lists, for each cipher letter, the plain letters it has been seen
// with, most frequent first. Equal counts stay in alphabetical order.
func (fd *FrequencyData) Rank() [26][]byte {
	var ranks [26][]byte

	for c := range fd.Cross {
		row := fd.Cross[c]
		for p, n := range row {
			if n > 0 {
				ranks[c] = append(ranks[c], byte('a'+p))
			}
		}
		sort.SliceStable(ranks[c], func(i, j int) bool {
			return row[ranks[c][i]-'a'] > row[ranks[c][j]-'a']
		})
	}

	return ranks
}

// String draws the cross-match table, plain letters across the top and
// cipher letters down the side.
func (fd *FrequencyData) String() string {
	var sb strings.Builder

	sb.WriteString("  ")
	for p := 0; p < 26; p++ {
		fmt.Fprintf(&sb, " %2c", 'a'+p)
	}
	sb.WriteByte('\n')

	for c := 0; c < 26; c++ {
		fmt.Fprintf(&sb, "%c ", 'a'+c)
		for p := 0; p < 26; p++ {
			fmt.Fprintf(&sb, " %2d", fd.Cross[c][p])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

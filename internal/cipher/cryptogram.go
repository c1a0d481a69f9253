package cipher

import "fmt"

// wordLetter marks the characters that make up a cipherword.
var wordLetter [256]bool

func init() {
	wordLetter['\''] = true
	for x := 'a'; x <= 'z'; x++ {
		wordLetter[x] = true
		wordLetter[x-'a'+'A'] = true
	}
}

// Validate checks that text is something we can work on: not blank and
// made of letters, whitespace and punctuation only.
func Validate(text string) error {
	if len(text) == 0 {
		return ErrEmptyCiphertext
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		if !isSpace(c) && !isLetter(c) && !isPunct(c) {
			return fmt.Errorf("%q at offset %d: %w", c, i, ErrIllegalCharacter)
		}
	}
	return nil
}

// nextWord returns the word starting at the beginning of line, i.e. the
// run of word letters, or "" if line doesn't start with one.
func nextWord(line string) string {
	for i := 0; i < len(line); i++ {
		if !wordLetter[line[i]] {
			return line[:i]
		}
	}
	return line
}

// Parse splits ciphertext into its cipherwords in order of appearance.
// Whitespace and punctuation separate words, except for apostrophes
// inside a word ("don't"). Repeated words are kept at every position.
func Parse(text string) ([]*Cipherword, error) {
	if err := Validate(text); err != nil {
		return nil, err
	}

	var words []*Cipherword
	i := 0
	for i < len(text) {
		// Skip separators, including a leading apostrophe
		for i < len(text) && (isSpace(text[i]) || isPunct(text[i])) {
			i++
		}

		w := nextWord(text[i:])
		if len(w) > 0 {
			words = append(words, NewCipherword(w))
			i += len(w)
		}
	}

	if len(words) == 0 {
		return nil, ErrNoCipherwords
	}
	return words, nil
}

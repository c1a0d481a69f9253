package cipher

import "fmt"

const initialCandidates = 50

// Cipherword is one token of the ciphertext together with the dictionary
// words whose letter pattern fits it. Candidates keep dictionary order and
// are only ever appended to.
type Cipherword struct {
	Text       string
	Candidates []string
}

func NewCipherword(text string) *Cipherword {
	return &Cipherword{
		Text:       text,
		Candidates: make([]string, 0, initialCandidates),
	}
}

func (w *Cipherword) Len() int {
	return len(w.Text)
}

// Offer adds word as a candidate if its pattern matches. It returns true
// when the word was kept.
func (w *Cipherword) Offer(word string) bool {
	if !PatternsMatch(w.Text, word) {
		return false
	}
	w.Candidates = append(w.Candidates, word)
	return true
}

// Match returns the first candidate l can decode w into.
func (w *Cipherword) Match(l Legend, mustBeComplete bool) (string, bool) {
	for _, c := range w.Candidates {
		if l.CanMapText(w.Text, c, mustBeComplete) {
			return c, true
		}
	}
	return "", false
}

// DecodedBy reports whether l fully decodes w into one of its candidates.
func (w *Cipherword) DecodedBy(l Legend) bool {
	_, ok := w.Match(l, true)
	return ok
}

func (w Cipherword) String() string {
	return fmt.Sprintf("%s (%d candidates)", w.Text, len(w.Candidates))
}

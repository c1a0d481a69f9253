package dictionary

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jmccarv/quip/internal/cipher"
)

const DefaultCacheSize = 4096

// Index remembers which dictionary words fit each letter pattern so a
// pattern is scanned for only once. It is safe for concurrent use.
type Index struct {
	dict  *Dictionary
	cache *lru.Cache[string, []string]
}

func NewIndex(d *Dictionary, size int) (*Index, error) {
	if size < 1 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, []string](size)
	if err != nil {
		return nil, fmt.Errorf("creating candidate cache: %w", err)
	}
	return &Index{dict: d, cache: cache}, nil
}

func (x *Index) Dictionary() *Dictionary {
	return x.dict
}

// Candidates returns the dictionary words whose pattern matches text, in
// dictionary order. The returned slice is shared and must not be changed.
func (x *Index) Candidates(text string) []string {
	// The pattern also fixes the length, so it is a complete key.
	key := cipher.Pattern(text)
	if words, ok := x.cache.Get(key); ok {
		return words
	}

	var words []string
	for w := range x.dict.Words() {
		if cipher.PatternsMatch(text, w) {
			words = append(words, w)
		}
	}
	x.cache.Add(key, words)
	return words
}

func (x *Index) Populate(words []*cipher.Cipherword) {
	for _, cw := range words {
		cw.Candidates = append(cw.Candidates, x.Candidates(cw.Text)...)
	}
}

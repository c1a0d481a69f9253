// Package dictionary loads the reference word list and matches its words
// against cipherwords.
package dictionary

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/jmccarv/quip/internal/cipher"
)

var ErrEmptyDictionary = errors.New("dictionary has no words")

const maxLine = 1 << 20

// Dictionary is the reference word list in file order.
type Dictionary struct {
	words []string
}

// Populator fills in the candidate lists of cipherwords.
type Populator interface {
	Populate(words []*cipher.Cipherword)
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// token pulls the word out of a dictionary line: anything before the
// first letter is skipped and the word runs over letters, apostrophes and
// hyphens. Whatever follows (a frequency count, say) is ignored.
func token(line []byte) string {
	i := 0
	for i < len(line) && !isAlpha(line[i]) {
		i++
	}
	j := i
	for j < len(line) && (isAlpha(line[j]) || line[j] == '\'' || line[j] == '-') {
		j++
	}
	return string(line[i:j])
}

// New builds a dictionary from a list of entries, one word each.
func New(entries []string) (*Dictionary, error) {
	d := &Dictionary{}
	for _, e := range entries {
		if w := token([]byte(e)); w != "" {
			d.words = append(d.words, w)
		}
	}
	if len(d.words) == 0 {
		return nil, ErrEmptyDictionary
	}
	return d, nil
}

// Read loads a dictionary with one word per line.
func Read(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{}

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLine)
	for s.Scan() {
		if w := token(s.Bytes()); w != "" {
			d.words = append(d.words, w)
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}

	if len(d.words) == 0 {
		return nil, ErrEmptyDictionary
	}
	return d, nil
}

// Open maps the word file at path into memory and reads it.
func Open(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyDictionary)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mapping %s: %w", path, err)
	}
	defer m.Unmap()

	d, err := Read(bytes.NewReader(m))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func (d *Dictionary) Len() int {
	return len(d.words)
}

// Words yields every word in file order.
func (d *Dictionary) Words() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, w := range d.words {
			if !yield(w) {
				return
			}
		}
	}
}

// Populate offers every dictionary word to each cipherword.
func (d *Dictionary) Populate(words []*cipher.Cipherword) {
	for _, cw := range words {
		for w := range d.Words() {
			cw.Offer(w)
		}
	}
}

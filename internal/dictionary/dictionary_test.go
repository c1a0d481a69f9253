package dictionary

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jmccarv/quip/internal/cipher"
)

const wordFile = `the 5000
dad
  cat
'tis
Bob
mother-in-law
dad
12345
don't stop
`

func TestRead(t *testing.T) {
	d, err := Read(strings.NewReader(wordFile))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	want := []string{"the", "dad", "cat", "tis", "Bob", "mother-in-law", "dad", "don't"}
	if diff := cmp.Diff(want, slices.Collect(d.Words())); diff != "" {
		t.Errorf("Words (-want +got): %s", diff)
	}
	if d.Len() != len(want) {
		t.Errorf("Len() = %d, want %d", d.Len(), len(want))
	}
}

func TestEmptyDictionary(t *testing.T) {
	if _, err := Read(strings.NewReader("\n 123 \n\n")); !errors.Is(err, ErrEmptyDictionary) {
		t.Errorf("Read = %v, want ErrEmptyDictionary", err)
	}
	if _, err := New(nil); !errors.Is(err, ErrEmptyDictionary) {
		t.Errorf("New(nil) = %v, want ErrEmptyDictionary", err)
	}

	path := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); !errors.Is(err, ErrEmptyDictionary) {
		t.Errorf("Open(empty) = %v, want ErrEmptyDictionary", err)
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words")
	if err := os.WriteFile(path, []byte(wordFile), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if d.Len() != 8 {
		t.Errorf("Len() = %d, want 8", d.Len())
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Open(missing) succeeded")
	}
}

func TestPopulate(t *testing.T) {
	d, err := New([]string{"dad", "cat", "mom", "aab", "abc", "kaab", "kaak", "dad"})
	if err != nil {
		t.Fatal(err)
	}

	words := []*cipher.Cipherword{
		cipher.NewCipherword("xyx"),
		cipher.NewCipherword("bbc"),
		cipher.NewCipherword("xyyx"),
		cipher.NewCipherword("qqqq"),
	}
	d.Populate(words)

	want := [][]string{
		{"dad", "mom", "dad"},
		{"aab"},
		{"kaak"},
		{},
	}
	for i, w := range words {
		if diff := cmp.Diff(want[i], w.Candidates); diff != "" {
			t.Errorf("%s candidates (-want +got): %s", w.Text, diff)
		}
	}
}

func TestIndexMatchesScan(t *testing.T) {
	d, err := New(strings.Fields("the and you that was for are with his they dad mom eye see bee tree free seen keen"))
	if err != nil {
		t.Fatal(err)
	}
	x, err := NewIndex(d, 2)
	if err != nil {
		t.Fatal(err)
	}

	texts := []string{"xyz", "xyx", "abcc", "qrss", "xyz", "mnoo", "ab", "xyx"}
	for _, text := range texts {
		scanned := []*cipher.Cipherword{cipher.NewCipherword(text)}
		indexed := []*cipher.Cipherword{cipher.NewCipherword(text)}
		d.Populate(scanned)
		x.Populate(indexed)

		if diff := cmp.Diff(scanned[0].Candidates, indexed[0].Candidates); diff != "" {
			t.Errorf("%s: index differs from scan (-scan +index): %s", text, diff)
		}
	}
}

func TestIndexPopulateDoesNotShareSlices(t *testing.T) {
	d, err := New([]string{"dad", "mom"})
	if err != nil {
		t.Fatal(err)
	}
	x, err := NewIndex(d, 0)
	if err != nil {
		t.Fatal(err)
	}

	a := cipher.NewCipherword("xyx")
	b := cipher.NewCipherword("qrq")
	x.Populate([]*cipher.Cipherword{a, b})
	a.Candidates[0] = "changed"

	if diff := cmp.Diff([]string{"dad", "mom"}, b.Candidates); diff != "" {
		t.Errorf("candidates (-want +got): %s", diff)
	}
	if diff := cmp.Diff([]string{"dad", "mom"}, x.Candidates("xyx")); diff != "" {
		t.Errorf("cached candidates (-want +got): %s", diff)
	}
}

package solver

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jmccarv/quip/internal/cipher"
)

func cipherword(text string, candidates ...string) *cipher.Cipherword {
	w := cipher.NewCipherword(text)
	for _, c := range candidates {
		w.Offer(c)
	}
	return w
}

func idx(c byte) int { return int(c - 'a') }

func TestAnalyze(t *testing.T) {
	words := []*cipher.Cipherword{
		cipherword("xyx", "dad", "mom", "dad"),
		cipherword("x'z", "i'm", "d's"),
	}

	fd := Analyze(words, nil)

	if got := fd.Cross[idx('x')][idx('d')]; got != 5 {
		t.Errorf("Cross[x][d] = %d, want 5", got)
	}
	if got := fd.Cross[idx('x')][idx('m')]; got != 2 {
		t.Errorf("Cross[x][m] = %d, want 2", got)
	}
	if got := fd.Cross[idx('z')][idx('s')]; got != 1 {
		t.Errorf("Cross[z][s] = %d, want 1", got)
	}
	if got := fd.Cipher[idx('x')]; got != 8 {
		t.Errorf("Cipher[x] = %d, want 8", got)
	}
	if got := fd.Plain[idx('d')]; got != 5 {
		t.Errorf("Plain[d] = %d, want 5", got)
	}

	l := cipher.LegendOf('x', 'd')
	fd = Analyze(words, &l)
	if got := fd.Cross[idx('x')][idx('m')]; got != 0 {
		t.Errorf("with x=d, Cross[x][m] = %d, want 0", got)
	}
	if got := fd.Cross[idx('x')][idx('i')]; got != 0 {
		t.Errorf("with x=d, Cross[x][i] = %d, want 0", got)
	}
	if got := fd.Cross[idx('y')][idx('a')]; got != 2 {
		t.Errorf("with x=d, Cross[y][a] = %d, want 2", got)
	}
	if got := fd.Cross[idx('z')][idx('s')]; got != 1 {
		t.Errorf("with x=d, Cross[z][s] = %d, want 1", got)
	}
}

func TestRank(t *testing.T) {
	words := []*cipher.Cipherword{
		cipherword("xy", "an", "in", "on", "at", "it"),
	}
	fd := Analyze(words, nil)
	ranks := fd.Rank()

	want := map[byte]string{
		'x': "aio",
		'y': "nt",
	}
	for c, r := range ranks {
		if diff := cmp.Diff(want[byte('a'+c)], string(r)); diff != "" {
			t.Errorf("rank for %c (-want +got): %s", 'a'+c, diff)
		}
	}
}

func TestRankOrdersByCount(t *testing.T) {
	words := []*cipher.Cipherword{
		cipherword("q", "b", "c", "c", "a", "c", "b"),
	}
	fd := Analyze(words, nil)
	if diff := cmp.Diff("cba", string(fd.Rank()[idx('q')])); diff != "" {
		t.Errorf("rank for q (-want +got): %s", diff)
	}
}

func TestFrequencyDataString(t *testing.T) {
	fd := Analyze([]*cipher.Cipherword{cipherword("x", "e")}, nil)
	lines := strings.Split(strings.TrimRight(fd.String(), "\n"), "\n")
	if len(lines) != 27 {
		t.Fatalf("got %d lines, want 27", len(lines))
	}
	if !strings.HasPrefix(lines[1+idx('x')], "x   0  0  0  0  1") {
		t.Errorf("row x = %q", lines[1+idx('x')])
	}
}

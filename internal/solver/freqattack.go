package solver

import (
	"context"
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"go.uber.org/zap"

	"github.com/jmccarv/quip/internal/cipher"
)

// AcceptPolicy decides which complete legends the frequency attack keeps.
type AcceptPolicy string

const (
	// AcceptComplete keeps a legend only if it decodes every cipherword.
	AcceptComplete AcceptPolicy = "complete"
	// AcceptAnyHit keeps a legend that decodes at least one cipherword.
	AcceptAnyHit AcceptPolicy = "any-hit"
)

func ParseAcceptPolicy(s string) (AcceptPolicy, error) {
	switch p := AcceptPolicy(strings.ToLower(s)); p {
	case AcceptComplete, AcceptAnyHit:
		return p, nil
	case "":
		return AcceptComplete, nil
	}
	return "", fmt.Errorf("unknown accept policy %q", s)
}

type freqAttack struct {
	s     *Session
	ctx   context.Context
	ranks [26][]byte
	used  *bitset.BitSet // plain letters taken by cipher letters before the current one
}

// FrequencyAttack counts which plain letters each cipher letter lines up
// with across all candidates that agree with the hints, then walks the
// cipher alphabet trying those plain letters most frequent first. Every
// complete legend is tested against all cipherwords.
//
// A plain letter is skipped if an earlier cipher letter already holds it;
// later letters are not yet decided and don't count. Cipher letters with
// no candidates keep whatever the hints say.
func (s *Session) FrequencyAttack(ctx context.Context, timeLimit int) (err error) {
	ctx, end, err := s.begin(ctx, "FrequencyAttack", timeLimit)
	if err != nil {
		return err
	}
	defer end(&err)

	hints := s.hints
	fd := Analyze(s.words, &hints)

	fa := &freqAttack{
		s:     s,
		ctx:   ctx,
		ranks: fd.Rank(),
		used:  bitset.New(26),
	}

	if s.log.Core().Enabled(zap.DebugLevel) {
		s.log.Debug("frequency table", zap.String("cross", fd.String()))
		for c, r := range fa.ranks {
			if len(r) > 0 {
				s.log.Debug("frequency ranking", zap.String("cipher", string(rune('a'+c))), zap.ByteString("plain", r))
			}
		}
	}

	l := s.hints
	return fa.build(0, &l)
}

func (fa *freqAttack) build(k int, l *cipher.Legend) error {
	if err := expired(fa.ctx); err != nil {
		return err
	}
	if k == 26 {
		fa.test(*l)
		return nil
	}

	c := byte('a' + k)
	ranked := fa.ranks[k]

	if len(ranked) == 0 {
		p := l.Lookup(c)
		if p == 0 || fa.used.Test(uint(p-'a')) {
			return fa.build(k+1, l)
		}
		fa.used.Set(uint(p - 'a'))
		err := fa.build(k+1, l)
		fa.used.Clear(uint(p - 'a'))
		return err
	}

	orig := l.Lookup(c)
	defer l.Set(c, orig)

	for _, p := range ranked {
		if fa.used.Test(uint(p - 'a')) {
			continue
		}

		l.Set(c, p)
		fa.used.Set(uint(p - 'a'))
		err := fa.build(k+1, l)
		fa.used.Clear(uint(p - 'a'))
		if err != nil {
			return err
		}
	}
	return nil
}

// test checks a complete legend against every cipherword.
func (fa *freqAttack) test(l cipher.Legend) {
	s := fa.s
	s.stats.LegendsTested++

	hits, missed := 0, false
	for _, w := range s.words {
		if w.DecodedBy(l) {
			hits++
			continue
		}
		missed = true
		if s.policy != AcceptAnyHit {
			break
		}
	}

	accept := !missed
	if s.policy == AcceptAnyHit {
		accept = hits > 0 || !missed
	}
	if accept {
		s.record(l, "frequency")
	}
}

package solver

import (
	"context"

	"github.com/jmccarv/quip/internal/cipher"
)

// WordBlockAttack builds the key one cipherword at a time. Starting from
// the hints it tries each candidate of the first word that fits, adds the
// letters that word implies, and moves on to the next word with the larger
// key. A candidate that would contradict the key ends its branch. Every
// key that gets through the last word decodes a solution.
//
// The search stops with ErrTimeout once timeLimit seconds have passed.
func (s *Session) WordBlockAttack(ctx context.Context, timeLimit int) (err error) {
	ctx, end, err := s.begin(ctx, "WordBlockAttack", timeLimit)
	if err != nil {
		return err
	}
	defer end(&err)

	return s.wordBlock(ctx, 0, s.hints)
}

// wordBlock tries every candidate of cipherword d against l. l belongs to
// the caller and is never changed; each extension works on its own copy.
func (s *Session) wordBlock(ctx context.Context, d int, l cipher.Legend) error {
	w := s.words[d]
	last := d == len(s.words)-1

	for _, cand := range w.Candidates {
		s.stats.CandidateTests++

		if l.CanMapText(w.Text, cand, false) {
			next := l.Clone()

			if last {
				if next.Incorporate(w.Text, cand) {
					s.record(next, "word block")
				}
			} else {
				if err := expired(ctx); err != nil {
					return err
				}
				if next.Incorporate(w.Text, cand) {
					if err := s.wordBlock(ctx, d+1, next); err != nil {
						return err
					}
				}
			}
		}

		if err := expired(ctx); err != nil {
			return err
		}
	}

	return nil
}

// Package solver searches for the substitution keys that turn a
// ciphertext into dictionary words.
//
// A Session owns everything one puzzle needs: the cipherwords with their
// candidate lists, the user's hints and the solutions found. Two attacks
// work on it. FrequencyAttack ranks plain letters for every cipher letter
// and enumerates complete keys in that order; WordBlockAttack builds the
// key a word at a time, backtracking on conflicts. Both run single
// threaded and stop when their time limit runs out, keeping whatever they
// found up to then.
package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/jmccarv/quip/internal/cipher"
	"github.com/jmccarv/quip/internal/dictionary"
)

const (
	DefaultTimeLimit = 20
	MaxTimeLimit     = 300
)

// Spans go to whatever provider is installed globally when an attack
// starts.
const tracerName = "github.com/jmccarv/quip/internal/solver"

// ClampTimeLimit caps a time limit in seconds at MaxTimeLimit. Anything
// not positive comes back as -1, which no attack will run with.
func ClampTimeLimit(sec int) int {
	switch {
	case sec <= 0:
		return -1
	case sec > MaxTimeLimit:
		return MaxTimeLimit
	}
	return sec
}

// Stats counts the work an attack did.
type Stats struct {
	CandidateTests int // candidate words checked against a legend
	LegendsTested  int // complete legends tested by the frequency attack
}

type Session struct {
	id      string
	text    string
	words   []*cipher.Cipherword
	hints   cipher.Legend
	results *Results
	policy  AcceptPolicy
	stats   Stats
	log     *zap.Logger
}

type Option func(*Session)

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

func WithAcceptPolicy(p AcceptPolicy) Option {
	return func(s *Session) {
		s.policy = p
	}
}

// NewSession splits ciphertext into cipherwords and has dict fill in
// their candidates.
func NewSession(ciphertext string, dict dictionary.Populator, hints cipher.Legend, opts ...Option) (*Session, error) {
	words, err := cipher.Parse(ciphertext)
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:      uuid.New().String(),
		text:    ciphertext,
		words:   words,
		hints:   hints,
		results: NewResults(),
		policy:  AcceptComplete,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("session", s.id))

	dict.Populate(words)

	if s.log.Core().Enabled(zap.DebugLevel) {
		for _, w := range words {
			s.log.Debug("cipherword", zap.String("text", w.Text), zap.Int("candidates", len(w.Candidates)))
		}
	}
	return s, nil
}

func (s *Session) ID() string                       { return s.id }
func (s *Session) Cipherwords() []*cipher.Cipherword { return s.words }
func (s *Session) Results() *Results                { return s.results }
func (s *Session) Stats() Stats                     { return s.stats }

// record decodes the whole ciphertext with l and keeps it if it is new.
func (s *Session) record(l cipher.Legend, attack string) {
	text := l.CipherToPlainString(s.text)
	if s.results.Add(text) {
		s.log.Info("solution",
			zap.String("attack", attack),
			zap.String("plaintext", text),
			zap.String("legend", l.Pairs()))
	}
}

// begin validates the time limit and sets up the deadline and span shared
// by both attacks.
func (s *Session) begin(ctx context.Context, name string, timeLimit int) (context.Context, func(*error), error) {
	if timeLimit <= 0 {
		return ctx, func(*error) {}, fmt.Errorf("%s: %d seconds: %w", name, timeLimit, ErrInvalidBudget)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "solver."+name, trace.WithAttributes(
		attribute.String("session", s.id),
		attribute.Int("cipherwords", len(s.words)),
		attribute.Int("time_limit", timeLimit),
	))
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeLimit)*time.Second)

	start := time.Now()
	found := s.results.Len()
	s.log.Debug("attack started", zap.String("attack", name), zap.Int("time_limit", timeLimit))

	end := func(errp *error) {
		cancel()
		n := s.results.Len() - found
		span.SetAttributes(attribute.Int("solutions", n))
		if *errp != nil {
			span.RecordError(*errp)
			span.SetStatus(codes.Error, "attack stopped")
		}
		span.End()
		s.log.Debug("attack finished",
			zap.String("attack", name),
			zap.Int("solutions", n),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(*errp))
	}
	return ctx, end, nil
}

// Attacks selects which searches Solve runs and for how long each may go.
type Attacks struct {
	Frequency bool
	WordBlock bool
	TimeLimit int // seconds, per attack
}

// Solve runs the selected attacks, the frequency attack first. Each gets
// the full time limit. Solutions found before an error are kept in
// Results.
func (s *Session) Solve(ctx context.Context, a Attacks) error {
	if !a.Frequency && !a.WordBlock {
		return ErrNoAttack
	}

	var err error
	if a.Frequency {
		err = multierr.Append(err, s.FrequencyAttack(ctx, a.TimeLimit))
	}
	if a.WordBlock {
		err = multierr.Append(err, s.WordBlockAttack(ctx, a.TimeLimit))
	}
	return err
}

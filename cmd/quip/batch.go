package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/jmccarv/quip/internal/cipher"
	"github.com/jmccarv/quip/internal/config"
	"github.com/jmccarv/quip/internal/dictionary"
	"github.com/jmccarv/quip/internal/solver"
)

// readPuzzles returns the cryptograms to solve: the arguments if there are
// any, otherwise each line of r. Blank lines and lines starting with '#'
// are skipped.
func readPuzzles(args []string, r io.Reader, prompt io.Writer) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintln(prompt, "Enter cryptograms, one per line. End with Ctrl-D.")
	}

	var puzzles []string
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		puzzles = append(puzzles, line)
	}
	return puzzles, s.Err()
}

type batch struct {
	cfg   config.Config
	index *dictionary.Index
	hints cipher.Legend
	log   *zap.Logger
	user  string
}

type outcome struct {
	text    string
	found   []string
	elapsed time.Duration
	err     error
}

// solveAll solves each cryptogram in its own session, cfg.Parallel at a
// time. Outcomes come back in input order.
func (b *batch) solveAll(ctx context.Context, puzzles []string) []outcome {
	out := make([]outcome, len(puzzles))

	var g errgroup.Group
	g.SetLimit(b.cfg.Parallel)
	for i, text := range puzzles {
		g.Go(func() error {
			out[i] = b.solve(ctx, text)
			return nil
		})
	}
	g.Wait()

	return out
}

func (b *batch) solve(ctx context.Context, text string) outcome {
	o := outcome{text: text}

	b.log.Info("starting",
		zap.String("quip", text),
		zap.Int("time", b.cfg.TimeLimit),
		zap.String("user", b.user))

	s, err := solver.NewSession(text, b.index, b.hints,
		solver.WithLogger(b.log),
		solver.WithAcceptPolicy(b.cfg.Policy()))
	if err != nil {
		o.err = err
		return o
	}

	start := time.Now()
	o.err = s.Solve(ctx, solver.Attacks{
		Frequency: b.cfg.Attacks.Frequency,
		WordBlock: b.cfg.Attacks.WordBlock,
		TimeLimit: b.cfg.TimeLimit,
	})
	o.elapsed = time.Since(start)
	o.found = s.Results().List()

	st := s.Stats()
	b.log.Info("terminating",
		zap.String("quip", text),
		zap.String("session", s.ID()),
		zap.Int("solutions", len(o.found)),
		zap.Int("candidate_tests", st.CandidateTests),
		zap.Int("legends_tested", st.LegendsTested),
		zap.Duration("elapsed", o.elapsed))
	return o
}

// split separates searches that merely stopped early from real failures.
func split(err error) (stopped bool, failed error) {
	for _, e := range multierr.Errors(err) {
		if errors.Is(e, solver.ErrTimeout) || errors.Is(e, context.Canceled) {
			stopped = true
			continue
		}
		failed = multierr.Append(failed, e)
	}
	return stopped, failed
}

type printer struct {
	out    io.Writer
	errOut io.Writer
	html   bool
	red    *color.Color
	yellow *color.Color
}

func newPrinter(out, errOut io.Writer, html bool) *printer {
	return &printer{
		out:    out,
		errOut: errOut,
		html:   html,
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
	}
}

func (p *printer) fail(err error) {
	if p.html {
		fmt.Fprintf(p.out, "*** Error ***<BR>\n    %v<BR>\n", err)
		return
	}
	p.red.Fprintf(p.errOut, "*** Error ***\n    %v\n", err)
}

func (p *printer) warn(format string, args ...any) {
	p.yellow.Fprintf(p.errOut, format+"\n", args...)
}

// report prints one outcome and returns false if solving it failed.
func (p *printer) report(o outcome, header bool, timeLimit int) bool {
	if header {
		if p.html {
			fmt.Fprintf(p.out, "<P>%s<BR>\n", o.text)
		} else {
			fmt.Fprintf(p.out, "\n%s\n", o.text)
		}
	}

	stopped, failed := split(o.err)
	if failed != nil {
		p.fail(failed)
		return false
	}
	if stopped {
		p.warn("search stopped before finishing (limit %ds), solutions may be missing", timeLimit)
	}

	if len(o.found) == 0 {
		if p.html {
			fmt.Fprintln(p.out, "*** No solutions to this could be found! ***<BR>")
		} else {
			fmt.Fprintln(p.out, "*** No solutions to this could be found! ***")
		}
		return true
	}

	for _, text := range o.found {
		if p.html {
			fmt.Fprintf(p.out, "%s<BR>\n", text)
		} else {
			fmt.Fprintf(p.out, "[%d us] Solution: %s\n", o.elapsed.Microseconds(), text)
		}
	}
	return true
}

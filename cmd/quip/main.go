package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"os/user"
	"runtime"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/jmccarv/quip/internal/cipher"
	"github.com/jmccarv/quip/internal/config"
	"github.com/jmccarv/quip/internal/dictionary"
	"github.com/jmccarv/quip/internal/solver"
)

const usageHeader = `Usage:
  quip -e [-c] [-l] PLAINTEXT        encrypt a quip
  quip [OPTIONS] [CIPHERTEXT ...]    solve quips, one per argument or
                                     one per line of stdin

`

type options struct {
	configFile string
	words      string
	timeLimit  int
	hints      []string
	html       bool
	frequency  bool
	wordBlock  bool
	policy     string
	parallel   int
	log        bool
	verbose    bool

	encrypt    bool
	cmdline    bool
	showLegend bool

	cpuprofile string
	memprofile string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var o options

	fs := pflag.NewFlagSet("quip", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configFile, "config", "", "read settings from this YAML file")
	fs.StringVarP(&o.words, "words", "f", config.DefaultWordsFile, "word list to solve with")
	fs.IntVarP(&o.timeLimit, "time", "T", solver.DefaultTimeLimit, "seconds each attack may run, at most 300")
	fs.StringArrayVarP(&o.hints, "key", "k", nil, "known substitution cipher=plain, may be repeated")
	fs.BoolVarP(&o.html, "html", "H", false, "format the output as HTML")
	fs.BoolVarP(&o.frequency, "frequency", "F", false, "run the frequency attack")
	fs.BoolVarP(&o.wordBlock, "word-block", "W", true, "run the word block attack")
	fs.StringVar(&o.policy, "accept", string(solver.AcceptComplete), "legends the frequency attack keeps: complete or any-hit")
	fs.IntVarP(&o.parallel, "parallel", "p", runtime.NumCPU(), "cryptograms to solve at once")
	fs.BoolVar(&o.log, "log", false, "log each run to the log file")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log search progress to stderr")
	fs.BoolVarP(&o.encrypt, "encrypt", "e", false, "encrypt the plaintext instead of solving")
	fs.BoolVarP(&o.cmdline, "cmdline", "c", false, "encrypt and print a quip command line to solve it")
	fs.BoolVarP(&o.showLegend, "legend", "l", false, "encrypt and show the generated legend")
	fs.StringVar(&o.cpuprofile, "cpuprofile", "", "write a CPU profile into this directory")
	fs.StringVar(&o.memprofile, "memprofile", "", "write a memory profile into this directory")
	fs.Usage = func() {
		fmt.Fprint(stderr, usageHeader)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return 2
	}

	switch {
	case o.cpuprofile != "":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(o.cpuprofile), profile.Quiet, profile.NoShutdownHook).Stop()
	case o.memprofile != "":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(o.memprofile), profile.Quiet, profile.NoShutdownHook).Stop()
	}

	p := newPrinter(stdout, stderr, o.html)

	if o.encrypt || o.cmdline || o.showLegend {
		text := strings.Join(fs.Args(), " ")
		if text == "" {
			fs.Usage()
			return 2
		}
		rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		if err := encrypt(stdout, text, o.cmdline, o.showLegend, rng); err != nil {
			p.fail(err)
			return 1
		}
		return 0
	}

	cfg := config.Default()
	if o.configFile != "" {
		var err error
		if cfg, err = config.Load(o.configFile); err != nil {
			p.fail(err)
			return 1
		}
	}
	o.apply(fs, &cfg)
	if err := cfg.Validate(); err != nil {
		p.fail(err)
		return 1
	}
	if cfg.TimeLimit <= 0 {
		p.fail(solver.ErrInvalidBudget)
		return 1
	}
	p.html = cfg.Output == "html"

	hints, err := cipher.ParseHints(o.hints...)
	if err != nil {
		p.fail(err)
		return 1
	}

	puzzles, err := readPuzzles(fs.Args(), stdin, stderr)
	if err != nil {
		p.fail(err)
		return 1
	}
	if len(puzzles) == 0 {
		fs.Usage()
		return 2
	}

	log, err := newLogger(cfg, o.verbose)
	if err != nil {
		p.fail(err)
		return 1
	}
	defer log.Sync()

	dict, err := dictionary.Open(cfg.Words)
	if err != nil {
		p.fail(err)
		return 1
	}
	index, err := dictionary.NewIndex(dict, cfg.CacheSize)
	if err != nil {
		p.fail(err)
		return 1
	}
	log.Debug("dictionary loaded", zap.String("path", cfg.Words), zap.Int("words", dict.Len()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	b := &batch{
		cfg:   cfg,
		index: index,
		hints: hints,
		log:   log,
		user:  username(),
	}

	status := 0
	for _, out := range b.solveAll(ctx, puzzles) {
		if !p.report(out, len(puzzles) > 1, cfg.TimeLimit) {
			status = 1
		}
	}
	return status
}

// apply copies the flags given on the command line over c.
func (o *options) apply(fs *pflag.FlagSet, c *config.Config) {
	if fs.Changed("words") {
		c.Words = o.words
	}
	if fs.Changed("time") {
		c.TimeLimit = o.timeLimit
	}
	if fs.Changed("frequency") {
		c.Attacks.Frequency = o.frequency
	}
	if fs.Changed("word-block") {
		c.Attacks.WordBlock = o.wordBlock
	}
	if fs.Changed("accept") {
		c.AcceptPolicy = o.policy
	}
	if fs.Changed("parallel") {
		c.Parallel = o.parallel
	}
	if fs.Changed("log") {
		c.Log = o.log
	}
	if o.html {
		c.Output = "html"
	}
}

func newLogger(cfg config.Config, verbose bool) (*zap.Logger, error) {
	switch {
	case verbose:
		return zap.NewDevelopment()
	case cfg.Log:
		zc := zap.NewProductionConfig()
		zc.OutputPaths = []string{cfg.LogFile}
		return zc.Build()
	}
	return zap.NewNop(), nil
}

func username() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}
	return u.Username
}

func encrypt(w io.Writer, plaintext string, cmdline, showLegend bool, rng *rand.Rand) error {
	text, dec, hint, err := cipher.Encrypt(plaintext, rng)
	if err != nil {
		return err
	}

	if showLegend {
		fmt.Fprintln(w, "Generated encryption legend:")
		for c := byte('a'); c <= 'z'; c++ {
			fmt.Fprintf(w, "   %c = %c\n", c, dec.Lookup(c))
		}
		fmt.Fprintln(w)
	}

	if cmdline {
		fmt.Fprintf(w, "quip '%s' -k%s\n", text, hint)
	} else {
		fmt.Fprintf(w, "%s\n %s\n", text, hint)
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/jmccarv/quip/internal/config"
	"github.com/jmccarv/quip/internal/dictionary"
	"github.com/jmccarv/quip/internal/server"
	"github.com/jmccarv/quip/internal/solver"
)

type options struct {
	configFile string
	listen     string
	words      string
	verbose    bool
	trace      bool
}

// loadConfig parses the command line and returns the settings to serve
// with: defaults, then the config file, then flags.
func loadConfig(args []string, stderr io.Writer) (config.Config, options, error) {
	var o options

	fs := pflag.NewFlagSet("quipd", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configFile, "config", "", "read settings from this YAML file")
	fs.StringVarP(&o.listen, "listen", "L", "", "address to serve on (default from config, :8080)")
	fs.StringVarP(&o.words, "words", "f", "", "word list to solve with (default from config, words)")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log at debug level")
	fs.BoolVar(&o.trace, "trace", false, "write solver trace spans to stderr")

	cfg := config.Default()
	if err := fs.Parse(args); err != nil {
		return cfg, o, err
	}

	if o.configFile != "" {
		var err error
		if cfg, err = config.Load(o.configFile); err != nil {
			return cfg, o, err
		}
	}
	if o.listen != "" {
		cfg.Listen = o.listen
	}
	if o.words != "" {
		cfg.Words = o.words
	}
	if err := cfg.Validate(); err != nil {
		return cfg, o, err
	}
	if cfg.TimeLimit <= 0 {
		return cfg, o, fmt.Errorf("time_limit: %w", solver.ErrInvalidBudget)
	}
	return cfg, o, nil
}

// newTracerProvider exports finished spans to w as JSON.
func newTracerProvider(w io.Writer) (*sdktrace.TracerProvider, error) {
	exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp)), nil
}

func main() {
	cfg, o, err := loadConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	zc := zap.NewProductionConfig()
	if o.verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	log, err := zc.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if o.trace {
		tp, err := newTracerProvider(os.Stderr)
		if err != nil {
			log.Fatal("tracing", zap.Error(err))
		}
		otel.SetTracerProvider(tp)
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Error("flushing traces", zap.Error(err))
			}
		}()
	}

	dict, err := dictionary.Open(cfg.Words)
	if err != nil {
		log.Fatal("loading dictionary", zap.String("path", cfg.Words), zap.Error(err))
	}
	index, err := dictionary.NewIndex(dict, cfg.CacheSize)
	if err != nil {
		log.Fatal("building index", zap.Error(err))
	}

	srv := server.New(index, cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}()

	if err := srv.Listen(cfg.Listen); err != nil {
		log.Error("serving", zap.Error(err))
	}
}

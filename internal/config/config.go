// Package config holds the settings shared by the quip commands. Values
// come from Default, then an optional YAML file, then command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/jmccarv/quip/internal/dictionary"
	"github.com/jmccarv/quip/internal/solver"
)

const (
	DefaultWordsFile = "words"
	DefaultLogFile   = "/tmp/quip.log"
)

type Attacks struct {
	Frequency bool `yaml:"frequency"`
	WordBlock bool `yaml:"word_block"`
}

type Config struct {
	Words        string  `yaml:"words"`
	TimeLimit    int     `yaml:"time_limit"`
	Attacks      Attacks `yaml:"attacks"`
	AcceptPolicy string  `yaml:"accept_policy"`
	Output       string  `yaml:"output"`
	Log          bool    `yaml:"log"`
	LogFile      string  `yaml:"log_file"`
	CacheSize    int     `yaml:"cache_size"`
	Parallel     int     `yaml:"parallel"`
	Listen       string  `yaml:"listen"`
}

func Default() Config {
	return Config{
		Words:        DefaultWordsFile,
		TimeLimit:    solver.DefaultTimeLimit,
		Attacks:      Attacks{WordBlock: true},
		AcceptPolicy: string(solver.AcceptComplete),
		Output:       "plain",
		LogFile:      DefaultLogFile,
		CacheSize:    dictionary.DefaultCacheSize,
		Parallel:     runtime.NumCPU(),
		Listen:       ":8080",
	}
}

// Load reads a YAML file on top of the defaults. Keys missing from the
// file keep their default value.
func Load(path string) (Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks c and brings the time limit into range. A time limit
// that isn't positive is kept as -1 so the attacks refuse to run.
func (c *Config) Validate() error {
	var err error

	c.TimeLimit = solver.ClampTimeLimit(c.TimeLimit)

	if _, perr := solver.ParseAcceptPolicy(c.AcceptPolicy); perr != nil {
		err = multierr.Append(err, perr)
	}
	switch c.Output {
	case "plain", "html":
	default:
		err = multierr.Append(err, fmt.Errorf("unknown output format %q", c.Output))
	}
	if c.Words == "" {
		err = multierr.Append(err, errors.New("no word file given"))
	}
	if !c.Attacks.Frequency && !c.Attacks.WordBlock {
		err = multierr.Append(err, solver.ErrNoAttack)
	}
	if c.Parallel < 1 {
		c.Parallel = 1
	}

	return err
}

// Policy returns the accept policy. Only valid after Validate.
func (c *Config) Policy() solver.AcceptPolicy {
	p, _ := solver.ParseAcceptPolicy(c.AcceptPolicy)
	return p
}

// Package config loads and validates run configuration.
//
// Two file formats are accepted. YAML files (.yaml, .yml) map directly onto
// Config. Any other file is read as a legacy instruction file: whitespace
// separated integers
//
//	weight num_pairs workers wait random_jumps max_list_capacity
//
// followed, for every pair, by the term count and terms of Base1 and then of
// Base2.
//
// The core packages assume a validated Config; Load always validates.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"rm-polyfinder/pkg/encoding"
	"rm-polyfinder/pkg/enumerate"
	"rm-polyfinder/pkg/gf2"
	"rm-polyfinder/pkg/poly"
	"rm-polyfinder/pkg/reduce"
)

// Environment overrides applied by Load.
const (
	EnvWorkers = "POLYFINDER_WORKERS"
	EnvSeed    = "POLYFINDER_SEED"
)

var (
	// ErrNoBasePairs is returned by Validate when there is nothing to enumerate.
	ErrNoBasePairs = errors.New("config: no base pairs")

	// ErrLegacyFormat is returned for a malformed legacy instruction file.
	ErrLegacyFormat = errors.New("config: malformed instruction file")
)

var validate = validator.New()

// Term is a monomial over the working variables. In YAML it is written
// either as its integer code or as a product such as "x1*x3".
type Term uint8

// UnmarshalYAML accepts an integer code or a product string.
func (t *Term) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: term must be a scalar", n.Line)
	}
	if code, err := strconv.ParseUint(n.Value, 0, 8); err == nil {
		*t = Term(code)
		return nil
	}
	m, err := encoding.ParseMonomial(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*t = Term(m)
	return nil
}

// BasePair holds the two base polynomials of one enumeration.
type BasePair struct {
	Base1 []Term `yaml:"base1" validate:"dive,max=63"`
	Base2 []Term `yaml:"base2" validate:"dive,max=63"`
}

// Pair converts p into the enumerator's form. Repeated terms cancel.
func (p BasePair) Pair() enumerate.Pair {
	conv := func(ts []Term) poly.Poly {
		out := make(poly.Poly, 0, len(ts))
		for _, t := range ts {
			out.Add(gf2.Monomial(t))
		}
		return out
	}
	return enumerate.Pair{Base1: conv(p.Base1), Base2: conv(p.Base2)}
}

// ScheduleConfig overrides the reduction schedules.
type ScheduleConfig struct {
	Worker reduce.Schedule `yaml:"worker" validate:"dive"`
	Final  reduce.Schedule `yaml:"final" validate:"dive"`
}

// Config is the complete description of a run.
type Config struct {
	TargetWeight    int             `yaml:"target_weight" validate:"min=0,max=256"`
	Workers         int             `yaml:"workers" validate:"min=1"`
	Wait            int             `yaml:"wait" validate:"min=0"`
	RandomJumps     int             `yaml:"random_jumps" validate:"min=0"`
	MaxListCapacity int             `yaml:"max_list_capacity" validate:"min=1"`
	Seed            uint64          `yaml:"seed"`
	BasePairs       []BasePair      `yaml:"base_pairs" validate:"dive"`
	Schedule        *ScheduleConfig `yaml:"schedule,omitempty" validate:"omitempty"`
}

// Default returns the configuration used when a file leaves a field unset.
func Default() Config {
	return Config{
		TargetWeight:    36,
		Workers:         8,
		Wait:            1,
		RandomJumps:     0,
		MaxListCapacity: 10000,
		Seed:            1,
	}
}

// Validate checks field ranges and that at least one pair is present.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if len(c.BasePairs) == 0 {
		return ErrNoBasePairs
	}
	return nil
}

// Pairs returns the base pairs in the enumerator's form, in file order.
func (c *Config) Pairs() []enumerate.Pair {
	out := make([]enumerate.Pair, len(c.BasePairs))
	for i, p := range c.BasePairs {
		out[i] = p.Pair()
	}
	return out
}

// WorkerSchedule returns the per-worker schedule in effect.
func (c *Config) WorkerSchedule() reduce.Schedule {
	if c.Schedule != nil && len(c.Schedule.Worker) > 0 {
		return c.Schedule.Worker
	}
	return reduce.WorkerSchedule
}

// FinalSchedule returns the schedule run on the merged list.
func (c *Config) FinalSchedule() reduce.Schedule {
	if c.Schedule != nil && len(c.Schedule.Final) > 0 {
		return c.Schedule.Final
	}
	return reduce.FullSchedule
}

// Load reads path, applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = ParseYAML(data)
	default:
		cfg, err = ParseLegacy(data)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := loadConfigFromEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseYAML decodes a YAML document over Default.
func ParseYAML(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseLegacy decodes a legacy instruction file. The seed is left at its
// default since the format has no field for it.
func ParseLegacy(data []byte) (Config, error) {
	fields := strings.Fields(string(data))
	pos := 0
	next := func(what string) (int, error) {
		if pos >= len(fields) {
			return 0, fmt.Errorf("%w: missing %s", ErrLegacyFormat, what)
		}
		v, err := strconv.Atoi(fields[pos])
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %q is not an integer", ErrLegacyFormat, what, fields[pos])
		}
		pos++
		return v, nil
	}

	cfg := Default()
	header := []struct {
		name string
		dst  *int
	}{
		{"weight", &cfg.TargetWeight},
		{"number of pairs", nil},
		{"worker count", &cfg.Workers},
		{"wait", &cfg.Wait},
		{"random jumps", &cfg.RandomJumps},
		{"list capacity", &cfg.MaxListCapacity},
	}
	numPairs := 0
	for _, h := range header {
		v, err := next(h.name)
		if err != nil {
			return Config{}, err
		}
		if h.dst == nil {
			numPairs = v
			continue
		}
		*h.dst = v
	}
	if numPairs < 0 {
		return Config{}, fmt.Errorf("%w: negative number of pairs", ErrLegacyFormat)
	}

	readBase := func(i int, name string) ([]Term, error) {
		n, err := next(fmt.Sprintf("pair %d %s size", i, name))
		if err != nil {
			return nil, err
		}
		if n < 0 || n > gf2.TableSize {
			return nil, fmt.Errorf("%w: pair %d %s size %d", ErrLegacyFormat, i, name, n)
		}
		ts := make([]Term, n)
		for j := range ts {
			v, err := next(fmt.Sprintf("pair %d %s term", i, name))
			if err != nil {
				return nil, err
			}
			if v < 0 || v > 0xFF {
				return nil, fmt.Errorf("%w: pair %d %s term %d", ErrLegacyFormat, i, name, v)
			}
			ts[j] = Term(v)
		}
		return ts, nil
	}

	cfg.BasePairs = make([]BasePair, numPairs)
	for i := range cfg.BasePairs {
		b1, err := readBase(i, "base1")
		if err != nil {
			return Config{}, err
		}
		b2, err := readBase(i, "base2")
		if err != nil {
			return Config{}, err
		}
		cfg.BasePairs[i] = BasePair{Base1: b1, Base2: b2}
	}
	return cfg, nil
}

func loadConfigFromEnv(cfg *Config) error {
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		cfg.Workers = n
	}
	if v := os.Getenv(EnvSeed); v != "" {
		n, err := strconv.ParseUint(v, 0, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		cfg.Seed = n
	}
	return nil
}

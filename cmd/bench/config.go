package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config describes one benchmark run. It can be loaded from YAML and then
// overridden by command-line flags.
type Config struct {
	ConfigPath string `yaml:"-"`

	// Cache
	MaxCost    int64 `yaml:"max_cost"`
	Buckets    int   `yaml:"buckets"`
	IgnoreCase bool  `yaml:"ignore_case"`

	// Workload
	Workers     int           `yaml:"workers"`
	Duration    time.Duration `yaml:"duration"`
	ReadPct     int           `yaml:"read_pct"`
	Keys        int           `yaml:"keys"`
	ZipfS       float64       `yaml:"zipf_s"`
	ZipfV       float64       `yaml:"zipf_v"`
	Seed        int64         `yaml:"seed"`
	Preload     int           `yaml:"preload"`
	MaxItemCost int64         `yaml:"max_item_cost"`
	Priorities  int           `yaml:"priorities"`

	// Observability
	MetricsAddr string `yaml:"metrics_addr"`
	PprofAddr   string `yaml:"pprof_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Default returns the configuration used when neither a file nor flags set
// a field.
func Default() Config {
	return Config{
		MaxCost:     100_000,
		Workers:     runtime.GOMAXPROCS(0),
		Duration:    10 * time.Second,
		ReadPct:     80,
		Keys:        1_000_000,
		ZipfS:       1.1,
		ZipfV:       1.0,
		Seed:        time.Now().UnixNano(),
		MaxItemCost: 4,
		Priorities:  1,
		MetricsAddr: ":8080",
		LogLevel:    "info",
	}
}

// Load reads a YAML file on top of Default. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg.ConfigPath = path
	return cfg, nil
}

// flagSet binds every field of cfg to a flag, using the current values as
// defaults.
func flagSet(cfg *Config) *flag.FlagSet {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	fs.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "YAML config file; flags override its values")

	fs.Int64Var(&cfg.MaxCost, "max-cost", cfg.MaxCost, "cache cost limit per worker")
	fs.IntVar(&cfg.Buckets, "buckets", cfg.Buckets, "initial hash buckets (0 = default)")
	fs.BoolVar(&cfg.IgnoreCase, "ignore-case", cfg.IgnoreCase, "case-insensitive keys")

	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of worker goroutines, one cache each")
	fs.DurationVar(&cfg.Duration, "duration", cfg.Duration, "benchmark duration")
	fs.IntVar(&cfg.ReadPct, "reads", cfg.ReadPct, "read percentage [0..100]")
	fs.IntVar(&cfg.Keys, "keys", cfg.Keys, "keyspace size")
	fs.Float64Var(&cfg.ZipfS, "zipf-s", cfg.ZipfS, "Zipf s > 1 (skew)")
	fs.Float64Var(&cfg.ZipfV, "zipf-v", cfg.ZipfV, "Zipf v >= 1")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	fs.IntVar(&cfg.Preload, "preload", cfg.Preload, "entries inserted before the run (0 = none)")
	fs.Int64Var(&cfg.MaxItemCost, "max-item-cost", cfg.MaxItemCost, "item costs are drawn from [1, max-item-cost]")
	fs.IntVar(&cfg.Priorities, "priorities", cfg.Priorities, "item priorities are drawn from [0, priorities)")

	fs.StringVar(&cfg.MetricsAddr, "http", cfg.MetricsAddr, "serve Prometheus metrics at addr; empty = disabled")
	fs.StringVar(&cfg.PprofAddr, "pprof", cfg.PprofAddr, "serve pprof at addr (e.g. :6060); empty = disabled")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	return fs
}

// parseArgs resolves the configuration: defaults, then the -config file,
// then explicit flags.
func parseArgs(args []string) (Config, error) {
	scratch := Default()
	if err := flagSet(&scratch).Parse(args); err != nil {
		return scratch, err
	}

	cfg := Default()
	if scratch.ConfigPath != "" {
		var err error
		if cfg, err = Load(scratch.ConfigPath); err != nil {
			return cfg, err
		}
	}
	if err := flagSet(&cfg).Parse(args); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if c.MaxCost < 0 {
		errs = append(errs, "max cost cannot be negative")
	}
	if c.Buckets < 0 {
		errs = append(errs, "buckets cannot be negative")
	}
	if c.Workers <= 0 {
		errs = append(errs, "workers must be positive")
	}
	if c.Duration <= 0 {
		errs = append(errs, "duration must be positive")
	}
	if c.ReadPct < 0 || c.ReadPct > 100 {
		errs = append(errs, fmt.Sprintf("read percentage %d out of range [0..100]", c.ReadPct))
	}
	if c.Keys <= 0 {
		errs = append(errs, "keyspace must be positive")
	}
	if c.ZipfS <= 1 {
		errs = append(errs, fmt.Sprintf("zipf s must be > 1, got %g", c.ZipfS))
	}
	if c.ZipfV < 1 {
		errs = append(errs, fmt.Sprintf("zipf v must be >= 1, got %g", c.ZipfV))
	}
	if c.Preload < 0 {
		errs = append(errs, "preload cannot be negative")
	}
	if c.MaxItemCost < 1 {
		errs = append(errs, "max item cost must be at least 1")
	}
	if c.Priorities < 1 || c.Priorities > 1<<15 {
		errs = append(errs, fmt.Sprintf("priorities %d out of range [1..32768]", c.Priorities))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("invalid log level %q (must be debug, info, warn, or error)", c.LogLevel))
	}
	for _, a := range [...]struct{ name, addr string }{{"metrics", c.MetricsAddr}, {"pprof", c.PprofAddr}} {
		if a.addr != "" && !strings.Contains(a.addr, ":") {
			errs = append(errs, fmt.Sprintf("invalid %s address format %q (expected :port or host:port)", a.name, a.addr))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

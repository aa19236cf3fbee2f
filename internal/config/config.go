// SPDX-License-Identifier: MIT

// Package config loads the rankreduce binary configuration from YAML with
// environment overrides and turns it into decomposer options.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/rankreduce/eigen"
	"github.com/katalvlaran/rankreduce/optimizer"
	"github.com/katalvlaran/rankreduce/rankreduce"
)

// ErrInvalidConfig marks a configuration value outside its domain.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Solver and minimizer names accepted in the config file.
const (
	SolverGonum  = "gonum"
	SolverJacobi = "jacobi"

	MinimizerNelderMead = "nelder-mead"
	MinimizerBFGS       = "bfgs"
)

// Config is the full binary configuration.
type Config struct {
	Algorithm string          `yaml:"algorithm"`
	Rank      int             `yaml:"rank"`
	Solver    string          `yaml:"solver"`
	Minimizer string          `yaml:"minimizer"`
	EZI       EZISection      `yaml:"ezi"`
	Optimizer OptimizerConfig `yaml:"optimizer"`
	Batch     BatchSection    `yaml:"batch"`
	Server    ServerSection   `yaml:"server"`
	Log       LogSection      `yaml:"log"`
}

// EZISection holds the iterative decomposer knobs.
type EZISection struct {
	Tolerance       float64 `yaml:"tolerance"`
	MaxIterations   int     `yaml:"max_iterations"`
	EigenvalueFloor float64 `yaml:"eigenvalue_floor"`
}

// OptimizerConfig holds SAP optimizer budgets; zero means the minimizer default.
type OptimizerConfig struct {
	MaxIterations  int     `yaml:"max_iterations"`
	MaxEvaluations int     `yaml:"max_evaluations"`
	Tolerance      float64 `yaml:"tolerance"`
}

// BatchSection controls CreateBatch fan-out.
type BatchSection struct {
	Parallelism int `yaml:"parallelism"`
}

// ServerSection configures the HTTP API.
type ServerSection struct {
	Addr           string        `yaml:"addr"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RatePerSecond  float64       `yaml:"rate_per_second"`
	Burst          int           `yaml:"burst"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
	MaxDimension   int           `yaml:"max_dimension"`
}

// LogSection configures zerolog.
type LogSection struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Algorithm: rankreduce.KindEZI.String(),
		Rank:      2,
		Solver:    SolverGonum,
		Minimizer: MinimizerNelderMead,
		EZI: EZISection{
			Tolerance:       rankreduce.DefaultTolerance,
			MaxIterations:   rankreduce.DefaultMaxIterations,
			EigenvalueFloor: rankreduce.DefaultEigenvalueFloor,
		},
		Server: ServerSection{
			Addr:           "127.0.0.1:8080",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   30 * time.Second,
			RequestTimeout: 20 * time.Second,
			RatePerSecond:  20,
			Burst:          40,
			MaxBodyBytes:   8 << 20,
			MaxDimension:   500,
		},
		Log: LogSection{Level: zerolog.InfoLevel.String()},
	}
}

// Load reads path over Default, applies RANKREDUCE_* environment overrides
// and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// applyEnvOverrides overlays the few settings operators change per deployment.
// Unparseable values are ignored.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RANKREDUCE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("RANKREDUCE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("RANKREDUCE_RATE_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Server.RatePerSecond = f
		}
	}
	if v := os.Getenv("RANKREDUCE_PARALLELISM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Batch.Parallelism = n
		}
	}
}

// Validate checks every field against the ranges the options accept, so that
// building options afterwards never panics.
func (c Config) Validate() error {
	if _, err := rankreduce.ParseKind(c.Algorithm); err != nil {
		return fmt.Errorf("algorithm %q: %w", c.Algorithm, ErrInvalidConfig)
	}
	if c.Rank < 1 {
		return fmt.Errorf("rank %d < 1: %w", c.Rank, ErrInvalidConfig)
	}
	switch strings.ToLower(c.Solver) {
	case SolverGonum, SolverJacobi:
	default:
		return fmt.Errorf("solver %q: %w", c.Solver, ErrInvalidConfig)
	}
	switch strings.ToLower(c.Minimizer) {
	case MinimizerNelderMead, MinimizerBFGS:
	default:
		return fmt.Errorf("minimizer %q: %w", c.Minimizer, ErrInvalidConfig)
	}
	if !(c.EZI.Tolerance > 0) || math.IsInf(c.EZI.Tolerance, 1) {
		return fmt.Errorf("ezi.tolerance %v: %w", c.EZI.Tolerance, ErrInvalidConfig)
	}
	if c.EZI.MaxIterations < 1 {
		return fmt.Errorf("ezi.max_iterations %d: %w", c.EZI.MaxIterations, ErrInvalidConfig)
	}
	if !(c.EZI.EigenvalueFloor >= 0 && c.EZI.EigenvalueFloor < 1) {
		return fmt.Errorf("ezi.eigenvalue_floor %v: %w", c.EZI.EigenvalueFloor, ErrInvalidConfig)
	}
	if c.Optimizer.MaxIterations < 0 || c.Optimizer.MaxEvaluations < 0 {
		return fmt.Errorf("optimizer budgets must be >= 0: %w", ErrInvalidConfig)
	}
	if !(c.Optimizer.Tolerance >= 0) || math.IsInf(c.Optimizer.Tolerance, 1) {
		return fmt.Errorf("optimizer.tolerance %v: %w", c.Optimizer.Tolerance, ErrInvalidConfig)
	}
	if !(c.Server.RatePerSecond >= 0) || math.IsInf(c.Server.RatePerSecond, 1) {
		return fmt.Errorf("server.rate_per_second %v: %w", c.Server.RatePerSecond, ErrInvalidConfig)
	}
	if c.Server.Burst < 0 || c.Server.MaxBodyBytes < 0 || c.Server.MaxDimension < 0 {
		return fmt.Errorf("server limits must be >= 0: %w", ErrInvalidConfig)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level %q: %w", c.Log.Level, ErrInvalidConfig)
	}

	return nil
}

// Kind returns the configured algorithm. Call after Validate.
func (c Config) Kind() rankreduce.Kind {
	k, _ := rankreduce.ParseKind(c.Algorithm)

	return k
}

// LogLevel returns the configured zerolog level, Info when unparseable.
func (c Config) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}

	return lvl
}

// Options translates the config into decomposer options.
func (c Config) Options(logger zerolog.Logger) []rankreduce.Option {
	var solver eigen.Solver = eigen.Gonum{}
	if strings.EqualFold(c.Solver, SolverJacobi) {
		solver = eigen.Jacobi{}
	}
	var minimizer optimizer.Minimizer = optimizer.NelderMead{
		MaxIterations:  c.Optimizer.MaxIterations,
		MaxEvaluations: c.Optimizer.MaxEvaluations,
		Tolerance:      c.Optimizer.Tolerance,
	}
	if strings.EqualFold(c.Minimizer, MinimizerBFGS) {
		minimizer = optimizer.BFGS{
			MaxIterations:  c.Optimizer.MaxIterations,
			MaxEvaluations: c.Optimizer.MaxEvaluations,
			Tolerance:      c.Optimizer.Tolerance,
		}
	}

	return []rankreduce.Option{
		rankreduce.WithEigenSolver(solver),
		rankreduce.WithMinimizer(minimizer),
		rankreduce.WithTolerance(c.EZI.Tolerance),
		rankreduce.WithMaxIterations(c.EZI.MaxIterations),
		rankreduce.WithEigenvalueFloor(c.EZI.EigenvalueFloor),
		rankreduce.WithLogger(logger),
	}
}

// Decomposer builds the decomposer for kind with the configured options.
func (c Config) Decomposer(kind rankreduce.Kind, logger zerolog.Logger) (rankreduce.Decomposer, error) {
	return rankreduce.New(kind, c.Options(logger)...)
}

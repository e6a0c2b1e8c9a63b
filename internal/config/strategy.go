package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Strategy describes one cross-sectional factor strategy to backtest.
type Strategy struct {
	Name    string   `yaml:"name"`
	Symbols []string `yaml:"symbols"`
	Periods int      `yaml:"periods"` // most recent periods to load (0 = all)

	Transform struct {
		Kind   string `yaml:"kind"`   // pct, mean, median, min, max, ema, rsi
		Period int    `yaml:"period"` // look-back window
	} `yaml:"transform"`

	// Hold freezes the factor between rebalances: > 1 rebalances only every
	// Hold periods.
	Hold int `yaml:"hold"`

	Selection struct {
		Rule string  `yaml:"rule"` // quantiles, top, bottom, thresholds
		MinQ float64 `yaml:"min_q"`
		MaxQ float64 `yaml:"max_q"`
		K    int     `yaml:"k"`
		MinT float64 `yaml:"min_t"`
		MaxT float64 `yaml:"max_t"`
	} `yaml:"selection"`

	Leverage struct {
		Min float64 `yaml:"min"`
		Max float64 `yaml:"max"`
	} `yaml:"leverage"`

	PeriodsPerYear int     `yaml:"periods_per_year"`
	RiskFreeRate   float64 `yaml:"risk_free_rate"`
}

// LoadStrategy reads and parses a YAML strategy file.
func LoadStrategy(path string) (*Strategy, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read strategy: %w", err)
	}

	var s Strategy
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse strategy: %w", err)
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("validate strategy: %w", err)
	}
	return &s, nil
}

func (s *Strategy) applyDefaults() {
	if s.Name == "" {
		s.Name = "unnamed"
	}
	if s.PeriodsPerYear == 0 {
		s.PeriodsPerYear = 252
	}
	if s.Leverage.Min == 0 && s.Leverage.Max == 0 {
		s.Leverage.Min, s.Leverage.Max = 1, 1
	}
}

// Validate checks if the strategy is valid.
func (s *Strategy) Validate() error {
	if len(s.Symbols) == 0 {
		return fmt.Errorf("symbols cannot be empty")
	}
	switch s.Transform.Kind {
	case "pct", "mean", "median", "min", "max", "ema", "rsi":
		if s.Transform.Period < 1 {
			return fmt.Errorf("transform.period must be >= 1, got %d", s.Transform.Period)
		}
	case "":
		// raw prices as the factor
	default:
		return fmt.Errorf("unknown transform.kind '%s'", s.Transform.Kind)
	}
	switch s.Selection.Rule {
	case "quantiles":
		if s.Selection.MinQ < 0 || s.Selection.MaxQ > 1 || s.Selection.MinQ > s.Selection.MaxQ {
			return fmt.Errorf("selection quantiles must satisfy 0 <= min_q <= max_q <= 1")
		}
	case "top", "bottom":
		if s.Selection.K < 1 {
			return fmt.Errorf("selection.k must be >= 1, got %d", s.Selection.K)
		}
	case "thresholds":
		if s.Selection.MinT > s.Selection.MaxT {
			return fmt.Errorf("selection thresholds must satisfy min_t <= max_t")
		}
	default:
		return fmt.Errorf("unknown selection.rule '%s'", s.Selection.Rule)
	}
	if s.Leverage.Min > s.Leverage.Max {
		return fmt.Errorf("leverage.min must not exceed leverage.max")
	}
	if s.Hold < 0 {
		return fmt.Errorf("hold must be >= 0, got %d", s.Hold)
	}
	return nil
}

package agent

import (
	"errors"
	"fmt"
	"os"

	"github.com/ledeepchef/twrl/util"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid agent config")

// Config holds the agent hyperparameters. It is read from the YAML file
// given with --config_file, unset keys keep their defaults.
type Config struct {
	UpdateFrequency int     `yaml:"update_frequency"`
	Gamma           float64 `yaml:"gamma"`
	Lambda          float64 `yaml:"gae_lambda"`

	PolicyLearningRate float64 `yaml:"policy_learning_rate"`
	CriticLearningRate float64 `yaml:"critic_learning_rate"`
	CriticHidden       []int   `yaml:"critic_hidden"`
	CriticEpochs       int     `yaml:"critic_epochs"`
	BatchSize          int     `yaml:"batch_size"`

	Temperature   float64 `yaml:"temperature"`
	FeatureSize   int     `yaml:"feature_size"`
	MaxCandidates int     `yaml:"max_candidates"`

	// Seed for action sampling, 0 picks one from the clock
	Seed uint64 `yaml:"seed"`
	// Device is recorded only, everything runs on the CPU
	Device string `yaml:"device"`
}

func DefaultConfig() *Config {
	return &Config{
		UpdateFrequency:    10,
		Gamma:              0.99,
		Lambda:             0.95,
		PolicyLearningRate: 0.05,
		CriticLearningRate: 0.01,
		CriticHidden:       []int{32},
		CriticEpochs:       4,
		BatchSize:          5,
		Temperature:        1.0,
		FeatureSize:        512,
		MaxCandidates:      64,
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading agent config: %w", err)
	}
	c := DefaultConfig()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing agent config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	switch {
	case c.UpdateFrequency <= 0:
		return fmt.Errorf("%w: update_frequency must be positive", ErrInvalidConfig)
	case c.Gamma <= 0 || c.Gamma > 1:
		return fmt.Errorf("%w: gamma must be in (0, 1]", ErrInvalidConfig)
	case c.Lambda < 0 || c.Lambda > 1:
		return fmt.Errorf("%w: gae_lambda must be in [0, 1]", ErrInvalidConfig)
	case c.PolicyLearningRate <= 0 || c.CriticLearningRate <= 0:
		return fmt.Errorf("%w: learning rates must be positive", ErrInvalidConfig)
	case c.CriticEpochs <= 0:
		return fmt.Errorf("%w: critic_epochs must be positive", ErrInvalidConfig)
	case c.BatchSize <= 0:
		return fmt.Errorf("%w: batch_size must be positive", ErrInvalidConfig)
	case c.Temperature <= 0:
		return fmt.Errorf("%w: temperature must be positive", ErrInvalidConfig)
	case c.FeatureSize <= 0:
		return fmt.Errorf("%w: feature_size must be positive", ErrInvalidConfig)
	case c.MaxCandidates <= 0:
		return fmt.Errorf("%w: max_candidates must be positive", ErrInvalidConfig)
	}
	for _, h := range c.CriticHidden {
		if h <= 0 {
			return fmt.Errorf("%w: critic_hidden sizes must be positive", ErrInvalidConfig)
		}
	}
	return nil
}

// Copy returns a deep copy of the config.
func (c *Config) Copy() *Config {
	out := *c
	out.CriticHidden = util.CopyIntSlice(c.CriticHidden)
	return &out
}

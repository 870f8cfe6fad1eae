// Package config loads eink-activate settings from the environment and from the optional file
// of additional verified examples.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/openeink/eink-activate/pkg/activation"
)

// EnvPrefix is prepended to every environment variable, e.g. EINK_ALGORITHM.
const EnvPrefix = "EINK"

var ErrKnownFile = errors.New("invalid known examples file")

type Config struct {
	Verbose     bool          `envconfig:"VERBOSE" default:"false"`
	Algorithm   string        `envconfig:"ALGORITHM" default:"ternary"`
	KnownFile   string        `envconfig:"KNOWN_FILE"`
	ScanTimeout time.Duration `envconfig:"SCAN_TIMEOUT" default:"10s"`
	NamePrefix  string        `envconfig:"NAME_PREFIX"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	return &cfg, nil
}

// ParsedAlgorithm returns the configured algorithm.
func (c *Config) ParsedAlgorithm() (activation.Algorithm, error) {
	return activation.ParseAlgorithm(c.Algorithm)
}

// KnownExample is one verified suffix/code pair.
type KnownExample struct {
	Suffix string `yaml:"suffix"`
	Code   string `yaml:"code"`
	Note   string `yaml:"note,omitempty"`
}

type knownFile struct {
	Examples []KnownExample `yaml:"examples"`
}

// LoadKnownExamples reads verified examples from a YAML file of the form
//
//	examples:
//	  - suffix: "68:2B:FE"
//	    code: "2322231"
func LoadKnownExamples(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read known examples: %w", err)
	}
	var f knownFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w %s: %s", ErrKnownFile, path, err)
	}
	examples := make(map[string]string, len(f.Examples))
	for i, ex := range f.Examples {
		if ex.Suffix == "" || ex.Code == "" {
			return nil, fmt.Errorf("%w %s: entry %d needs suffix and code", ErrKnownFile, path, i+1)
		}
		if prev, ok := examples[ex.Suffix]; ok && prev != ex.Code {
			return nil, fmt.Errorf("%w %s: %s listed twice with different codes", ErrKnownFile, path, ex.Suffix)
		}
		examples[ex.Suffix] = ex.Code
	}
	return examples, nil
}

// NewDeriver builds a Deriver that also knows the examples in c.KnownFile, if set.
func (c *Config) NewDeriver() (*activation.Deriver, error) {
	if c.KnownFile == "" {
		return activation.NewDeriver(nil)
	}
	extra, err := LoadKnownExamples(c.KnownFile)
	if err != nil {
		return nil, err
	}
	return activation.NewDeriver(extra)
}

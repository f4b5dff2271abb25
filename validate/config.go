package validate

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the tool configuration, read from .smtmv.yaml when present.
type Config struct {
	Name        string        `yaml:"name"`
	Isabelle    string        `yaml:"isabelle"`     // prover binary
	Logic       string        `yaml:"logic"`        // session image
	TheoryName  string        `yaml:"theory_name"`  // generated theory name
	Imports     []string      `yaml:"imports"`      // theory imports
	Timeout     time.Duration `yaml:"timeout"`      // prover timeout
	SpecFile    string        `yaml:"spec_file"`    // operator table inside the theory root
	SplitLemmas bool          `yaml:"split_lemmas"` // one lemma per assertion
}

// UnmarshalYAML decodes the configuration, accepting the usual "5m"
// spelling for the timeout, which yaml cannot put into a time.Duration
// directly. Keys absent from the document keep their current values.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	raw := struct {
		Name        string   `yaml:"name"`
		Isabelle    string   `yaml:"isabelle"`
		Logic       string   `yaml:"logic"`
		TheoryName  string   `yaml:"theory_name"`
		Imports     []string `yaml:"imports"`
		Timeout     string   `yaml:"timeout"`
		SpecFile    string   `yaml:"spec_file"`
		SplitLemmas bool     `yaml:"split_lemmas"`
	}{
		Name:        c.Name,
		Isabelle:    c.Isabelle,
		Logic:       c.Logic,
		TheoryName:  c.TheoryName,
		Imports:     c.Imports,
		Timeout:     c.Timeout.String(),
		SpecFile:    c.SpecFile,
		SplitLemmas: c.SplitLemmas,
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	timeout, err := time.ParseDuration(raw.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout %q: %w", raw.Timeout, err)
	}
	c.Name = raw.Name
	c.Isabelle = raw.Isabelle
	c.Logic = raw.Logic
	c.TheoryName = raw.TheoryName
	c.Imports = raw.Imports
	c.Timeout = timeout
	c.SpecFile = raw.SpecFile
	c.SplitLemmas = raw.SplitLemmas
	return nil
}

// MarshalYAML writes the timeout in its duration spelling so a written
// configuration reads back unchanged.
func (c Config) MarshalYAML() (any, error) {
	return struct {
		Name        string   `yaml:"name"`
		Isabelle    string   `yaml:"isabelle"`
		Logic       string   `yaml:"logic"`
		TheoryName  string   `yaml:"theory_name"`
		Imports     []string `yaml:"imports"`
		Timeout     string   `yaml:"timeout"`
		SpecFile    string   `yaml:"spec_file"`
		SplitLemmas bool     `yaml:"split_lemmas"`
	}{
		Name:        c.Name,
		Isabelle:    c.Isabelle,
		Logic:       c.Logic,
		TheoryName:  c.TheoryName,
		Imports:     c.Imports,
		Timeout:     c.Timeout.String(),
		SpecFile:    c.SpecFile,
		SplitLemmas: c.SplitLemmas,
	}, nil
}

// DefaultConfig matches the conventional theory-root layout.
func DefaultConfig() Config {
	return Config{
		Name:       "smtmv",
		Isabelle:   "isabelle",
		Logic:      "smt",
		TheoryName: "Validation",
		Imports:    []string{"smt.Core", "smt.Strings"},
		Timeout:    5 * time.Minute,
		SpecFile:   "spec.json",
	}
}

// ParseConfigFile reads a YAML configuration, filling unset fields with
// defaults. An empty path yields the defaults unchanged.
func ParseConfigFile(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&config); err != nil {
		return config, err
	}
	if config.Isabelle == "" {
		config.Isabelle = "isabelle"
	}
	if config.TheoryName == "" {
		config.TheoryName = "Validation"
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Minute
	}
	return config, nil
}

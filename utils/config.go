package utils

import (
	"errors"
	"fmt"

	"code.cloudfoundry.org/bytefmt"
	"gopkg.in/yaml.v2"

	"github.com/statesink/statesink/utils/log"
)

// Version identification, set at build time.
var (
	Tag        string
	GitHash    string
	BuildStamp string
)

// Config is the statesink YAML configuration.
type Config struct {
	// RootDirectory is the existing directory checkpoint state is
	// written into.
	RootDirectory string
	// InlineThreshold is the largest state size, in bytes, kept inline
	// in the handle instead of a file.
	InlineThreshold int
	LogLevel        log.Level
}

// Parse fills the config from YAML data. The inline threshold is given
// as a human readable size ("64K", "1M"); bounds are enforced by the
// stream factory, not here.
func (c *Config) Parse(data []byte) error {
	var aux struct {
		RootDirectory   string `yaml:"root_directory"`
		InlineThreshold string `yaml:"inline_threshold"`
		LogLevel        string `yaml:"log_level"`
	}

	if err := yaml.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.RootDirectory == "" {
		return errors.New("invalid root directory")
	}
	c.RootDirectory = aux.RootDirectory

	if aux.InlineThreshold != "" {
		n, err := bytefmt.ToBytes(aux.InlineThreshold)
		if err != nil {
			return fmt.Errorf("invalid inline_threshold %q: %w", aux.InlineThreshold, err)
		}
		c.InlineThreshold = int(n)
	}

	c.LogLevel = log.ParseLevel(aux.LogLevel)
	return nil
}

// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.14
//

package coordinates

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Settings read from a YAML file
type Config struct {
	Cache CacheConfig `yaml:"cache"`
	Debug int         `yaml:"debug"` // DBG_ level
}

type CacheConfig struct {
	MaxNavFiles  int `yaml:"max_nav_files"` // >= 1
	MaxPositions int `yaml:"max_positions"` // 0: unbounded
}

// Read configuration file
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(raw)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return cfg, nil
}

// Read configuration from YAML text; empty text gives the defaults
func ParseConfig(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := NewSolverOpt()
	if c.Cache.MaxNavFiles == 0 {
		c.Cache.MaxNavFiles = def.MaxNavFiles
	}
}

func (c *Config) validate() error {
	if c.Cache.MaxNavFiles < 1 {
		return errors.Errorf("cache.max_nav_files must be >= 1: %d", c.Cache.MaxNavFiles)
	}
	if c.Cache.MaxPositions < 0 {
		return errors.Errorf("cache.max_positions must be >= 0: %d", c.Cache.MaxPositions)
	}
	if c.Debug < 0 {
		return errors.Errorf("debug must be >= 0: %d", c.Debug)
	}
	return nil
}

// Return solver options of the configuration
func (c *Config) SolverOpt() *SolverOpt {
	opt := NewSolverOpt()
	opt.MaxNavFiles = c.Cache.MaxNavFiles
	opt.MaxPositions = c.Cache.MaxPositions
	return opt
}

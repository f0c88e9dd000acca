// Package config loads the optional visca2uvc defaults file. Everything in
// it can also be given as a flag; flags win.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds per-host defaults: which transport to use and which device to
// pick when several cameras are plugged in. Zero values mean "no preference".
type Config struct {
	Backend   string `yaml:"backend"`    // "gousb" or "native"
	VendorID  uint16 `yaml:"vendor_id"`  // 0 matches any
	ProductID uint16 `yaml:"product_id"` // 0 matches any
	Serial    string `yaml:"serial"`
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	switch cfg.Backend {
	case "", "gousb", "native":
	default:
		return nil, fmt.Errorf("unknown backend %q (want gousb or native)", cfg.Backend)
	}
	return &cfg, nil
}

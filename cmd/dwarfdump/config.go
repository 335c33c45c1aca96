package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/dwarfread/reader"
)

// Config holds decoding defaults. It can be loaded from a YAML file and is
// then overridden by command-line flags.
type Config struct {
	Endian      string `yaml:"endian"`
	Format      string `yaml:"format"`
	Prefix      string `yaml:"prefix"`
	OffsetWidth int    `yaml:"offset_width"`
	AddressSize uint8  `yaml:"address_size"`
}

func defaultConfig() Config {
	return Config{
		Format:      "dwarf32",
		Prefix:      ".debug_",
		OffsetWidth: 64,
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.OffsetWidth != 32 && c.OffsetWidth != 64 {
		return fmt.Errorf("offset_width must be 32 or 64, got %d", c.OffsetWidth)
	}
	if _, err := c.format(); err != nil {
		return err
	}
	if c.Endian != "" {
		if _, ok := reader.ParseEndian(c.Endian); !ok {
			return fmt.Errorf("unknown endian %q", c.Endian)
		}
	}
	return nil
}

func (c Config) format() (reader.Format, error) {
	switch c.Format {
	case "dwarf32", "32", "":
		return reader.Dwarf32, nil
	case "dwarf64", "64":
		return reader.Dwarf64, nil
	}
	return 0, fmt.Errorf("unknown format %q", c.Format)
}

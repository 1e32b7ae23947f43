package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the optional defaults read from the configuration file.
// Command-line flags and arguments take precedence over it.
type Config struct {
	Interfaces []string `koanf:"interfaces"`
	Family     string   `koanf:"family"`
	Output     string   `koanf:"output"`
}

func parseConfig(path string) (Config, error) {
	config := Config{Family: "all", Output: "text"}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		// The configuration file is optional.
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return config, fmt.Errorf("error loading config: %w", err)
	}

	if err := k.Unmarshal("", &config); err != nil {
		return config, fmt.Errorf("error unmarshaling config: %w", err)
	}

	switch config.Family {
	case "all", "ipv4", "ipv6":
	default:
		return config, fmt.Errorf("unknown address family: %s", config.Family)
	}

	switch config.Output {
	case "text", "json":
	default:
		return config, fmt.Errorf("unknown output format: %s", config.Output)
	}

	return config, nil
}

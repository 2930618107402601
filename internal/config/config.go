// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config loads the "jsonmap serve" daemon's configuration: a YAML
// file, overridden by CLI flags, via koanf's layered-provider model.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config is the serve daemon's configuration.
type Config struct {
	Addr            string `koanf:"addr"`
	LogFormat       string `koanf:"log_format"`
	LogLevel        string `koanf:"log_level"`
	MaxProgramBytes int    `koanf:"max_program_bytes"`
	RequestTimeout  int    `koanf:"request_timeout_seconds"`
}

// Defaults returns the configuration used when no file or flags override it.
func Defaults() Config {
	return Config{
		Addr:            ":8080",
		LogFormat:       "json",
		LogLevel:        "info",
		MaxProgramBytes: 1 << 20, // 1 MiB
		RequestTimeout:  10,
	}
}

// Load builds a Config by layering, in increasing priority: built-in
// defaults, an optional YAML file, and CLI flags.
func Load(configFile string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	defaults := Defaults()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"addr":                    defaults.Addr,
		"log_format":              defaults.LogFormat,
		"log_level":               defaults.LogLevel,
		"max_program_bytes":       defaults.MaxProgramBytes,
		"request_timeout_seconds": defaults.RequestTimeout,
	}, "."), nil); err != nil {
		return Config{}, fmt.Errorf("config: load defaults: %w", err)
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config: load file %s: %w", configFile, err)
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return Config{}, fmt.Errorf("config: load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering, lowest precedence first:
//  1. defaults (Default())
//  2. YAML file named by FRAGILITY_CONFIG, if set
//  3. environment variables with the FRAGILITY_ prefix
//
// Env keys map FRAGILITY_LOG_LEVEL -> log_level and so on.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("FRAGILITY_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("FRAGILITY_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "fragility_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	cfg := *Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

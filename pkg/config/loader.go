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

// Load builds a Config by layering sources, lowest precedence first:
//
//  1. defaults (New)
//  2. YAML file, from path or the MCSCALE_CONFIG variable when path is empty
//  3. environment variables with the MCSCALE_ prefix, e.g. MCSCALE_OUT_DIR
//
// The result is validated before it is returned.
func Load(path string) (*Config, error) {
	cfg := *New()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv("MCSCALE_CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoad, err)
		}
	}

	// MCSCALE_MAX_THREADS -> max_threads; underscores are kept so env keys
	// line up with the koanf tags on Config.
	envProvider := env.Provider("MCSCALE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "mcscale_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

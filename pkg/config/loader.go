package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Validator is implemented by configs that check their own invariants once
// the environment has been parsed.
type Validator interface {
	Validate() error
}

// Load fills cfg from the process environment using its `env` and
// `envDefault` tags, then runs Validate when cfg implements Validator.
func Load(cfg any) error {
	return parse(cfg, env.Options{})
}

// LoadFrom is Load over an explicit variable set. Unset keys fall back to
// their envDefault.
func LoadFrom(cfg any, environ map[string]string) error {
	return parse(cfg, env.Options{Environment: environ})
}

func parse(cfg any, opts env.Options) error {
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if v, ok := cfg.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}
	return nil
}

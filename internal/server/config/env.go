package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays Config fields from environment variables declared in the
// struct tags. Variables that are not set leave the current values untouched,
// so the env layer composes with defaults and the JSON file. Malformed values
// (e.g. an unparseable TOKEN_TTL) panic, same as the other layers.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}

package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment variable name read by parseEnv.
const EnvPrefix = "GOPHTODO_"

// parseEnv loads an optional .env file from the working directory and then
// overlays GOPHTODO_* environment variables onto config. Variables that are
// not set leave the current value untouched. Real environment variables win
// over the .env file.
func parseEnv(config *Config) {
	_ = godotenv.Load(".env")

	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		panic(err)
	}
}

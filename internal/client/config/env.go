package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/myshelf/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays Config with MYSHELF_* environment variables. A dotenv
// file given with -env is loaded first; without it a .env in the working
// directory is used when present. Variables that are not set leave the
// field untouched. Panics on malformed values.
func parseEnv(cfg *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}

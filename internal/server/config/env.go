package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/userapp/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays variables from the environment. A .env file in the
// working directory, or the one named by -e/-env-file, is loaded first and
// never overrides variables that are already set. Unset variables leave
// the current values alone.
func parseEnv(config *Config) error {
	if err := loadDotEnv(flagx.EnvFileFlags()); err != nil {
		return err
	}
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func loadDotEnv(path string) error {
	if path == "" {
		// optional
		_ = godotenv.Load()
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("env file %s: %w", path, err)
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

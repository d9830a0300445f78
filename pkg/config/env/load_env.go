package env

import (
	"errors"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from .env files. ENV_PATH, when set,
// replaces the default paths. Files that do not exist are skipped; an error is
// only returned in local mode when none of them could be loaded.
func LoadDotEnv(env string, defaultPaths ...string) error {
	paths := defaultPaths
	if envPath := os.Getenv("ENV_PATH"); envPath != "" {
		paths = []string{envPath}
	} else {
		slog.Debug("ENV_PATH is not set, using default paths", "paths", defaultPaths)
	}

	var loaded int
	var errs []error
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			errs = append(errs, err)
			continue
		}
		loaded++
	}

	if loaded == 0 && len(paths) > 0 {
		err := errors.Join(errs...)
		if env == "local" || env == "" {
			return err
		}
		slog.Debug("Skipping .env ...", "error", err)
	}

	return nil
}

package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Env holds the variables secrets are resolved from. It is built once at
// startup and passed to whatever needs a secret.
type Env struct {
	vars map[string]string
}

// NewEnv wraps an existing set of variables
func NewEnv(vars map[string]string) Env {
	copied := make(map[string]string, len(vars))
	for k, v := range vars {
		copied[k] = v
	}
	return Env{vars: copied}
}

// LoadEnv reads the given dotenv files in order and overlays the process
// environment on top. Missing files are skipped. The process environment is
// never modified.
func LoadEnv(paths ...string) (Env, error) {
	vars := make(map[string]string)

	for _, path := range paths {
		fileVars, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Debug().Str("path", path).Msg("No env file, skipping")
				continue
			}
			return Env{}, fmt.Errorf("failed to read env file %s: %w", path, err)
		}
		for k, v := range fileVars {
			vars[k] = v
		}
		log.Debug().Str("path", path).Int("vars", len(fileVars)).Msg("Loaded env file")
	}

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		vars[k] = v
	}

	return Env{vars: vars}, nil
}

// Secret returns the value of ref, failing when it is unset or blank
func (e Env) Secret(ref string) (string, error) {
	v, ok := e.vars[ref]
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%w: %s is not set", ErrMissingSecret, ref)
	}
	return strings.TrimSpace(v), nil
}

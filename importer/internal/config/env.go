package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Env is a read-only snapshot of environment entries. Core packages receive
// it explicitly instead of reading the process environment.
type Env map[string]string

// Get returns the value of key, or "" when it is unset.
func (e Env) Get(key string) string {
	return e[key]
}

// EnvFromOS snapshots the current process environment.
func EnvFromOS() Env {
	env := make(Env)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		env[k] = v
	}
	return env
}

// LoadEnv snapshots the process environment and merges the given dotenv
// files beneath it: an entry already set in the process is never replaced.
// Earlier files win over later ones. Missing files are skipped.
func LoadEnv(paths ...string) (Env, error) {
	env := EnvFromOS()
	for _, p := range paths {
		vals, err := godotenv.Read(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("config: read env file %q: %w", p, err)
		}
		for k, v := range vals {
			if _, set := env[k]; !set {
				env[k] = v
			}
		}
	}
	return env, nil
}

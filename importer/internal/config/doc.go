// Package config loads the importer configuration file (config.yaml) and the
// environment snapshot the importer runs against.
//
// Top-level types:
//   - Config{Importer} — full config tree parsed from YAML
//   - ImporterConfig — query, start, end, step, metric_labels, metric_name,
//     default_labels, auth, tls, timeout, retries
//   - AuthConfig — mode (bearer|basic|apikey|mtls|none), cert/key/ca files,
//     header and the names of the environment entries holding secrets
//   - Env — read-only map of environment entries, built once by the caller
//
// Load(path) reads the YAML file, applies defaults (30s timeout, 0 retries)
// and checks structural constraints. ImporterConfig.Validate checks the
// required-field schema of an import and returns the parsed Range.
//
// LoadEnv merges dotenv files beneath the process environment using
// godotenv. Watch(ctx, path, logger, onChange) reloads the file via fsnotify,
// watching its directory so rename-saves are seen.
package config

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultTimeout = 30 * time.Second
	DefaultRetries = 0
)

// Config is the top-level configuration file layout.
type Config struct {
	Importer ImporterConfig `yaml:"importer"`
}

// ImporterConfig describes one range-query import.
type ImporterConfig struct {
	// Query is the PromQL expression. It is passed through opaquely.
	Query string `yaml:"query"`

	// Start and End bound the range: epoch seconds or RFC3339.
	Start string `yaml:"start"`
	End   string `yaml:"end"`

	// Step is the resolution: a Prometheus duration (30s, 5m) or float seconds.
	Step string `yaml:"step"`

	// MetricLabels selects which series labels are copied onto observations.
	MetricLabels []string `yaml:"metric_labels"`

	// MetricName is attached verbatim to every observation.
	MetricName string `yaml:"metric_name"`

	// DefaultLabels is the base label set of every observation.
	DefaultLabels map[string]any `yaml:"default_labels"`

	// Auth configures how the importer authenticates to the query API.
	Auth AuthConfig `yaml:"auth"`

	// TLS holds optional TLS dial options.
	TLS TLSConfig `yaml:"tls"`

	// Timeout bounds each HTTP attempt.
	Timeout time.Duration `yaml:"timeout"`

	// Retries is the number of extra attempts after a retryable failure.
	// Zero keeps the single-attempt behaviour.
	Retries int `yaml:"retries"`
}

// AuthConfig specifies the authentication mode for the query API.
// Secret values are never stored in the file; only the names of the
// environment entries that hold them.
type AuthConfig struct {
	// Mode is one of: bearer | basic | apikey | mtls | none.
	// Empty falls back to the AUTH_TYPE environment entry.
	Mode string `yaml:"mode"`

	// mTLS fields — used when Mode == "mtls".
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
	CAFile   string `yaml:"ca_file"`

	// API key fields — used when Mode == "apikey".
	Header string `yaml:"header"`
	KeyEnv string `yaml:"key_env"`

	// TokenEnv names the entry holding the bearer token. Default BEARER_TOKEN.
	TokenEnv string `yaml:"token_env"`

	// Basic auth fields. Username is a literal; UsernameEnv (default USERNAME)
	// is consulted when it is empty.
	Username    string `yaml:"username"`
	UsernameEnv string `yaml:"username_env"`
	PasswordEnv string `yaml:"password_env"`
}

// Environment entry names used when the auth config leaves them unset.
const (
	EnvHost        = "HOST"
	EnvAuthType    = "AUTH_TYPE"
	EnvBearerToken = "BEARER_TOKEN"
	EnvUsername    = "USERNAME"
	EnvPassword    = "PASSWORD"
	EnvAPIKey      = "API_KEY"
)

// ResolvedMode returns the normalized Mode, or the normalized AUTH_TYPE entry
// of env when Mode is empty. fromEnv reports which source was used.
func (a AuthConfig) ResolvedMode(env Env) (mode string, fromEnv bool) {
	if m := NormalizeMode(a.Mode); m != "" {
		return m, false
	}
	return NormalizeMode(env.Get(EnvAuthType)), true
}

// NormalizeMode lowercases and trims an auth mode so "Bearer " and "bearer"
// name the same scheme wherever modes are compared.
func NormalizeMode(mode string) string {
	return strings.ToLower(strings.TrimSpace(mode))
}

// Token returns the bearer token resolved from env.
func (a AuthConfig) Token(env Env) string {
	return env.Get(orDefault(a.TokenEnv, EnvBearerToken))
}

// User returns the basic-auth username.
func (a AuthConfig) User(env Env) string {
	if a.Username != "" {
		return a.Username
	}
	return env.Get(orDefault(a.UsernameEnv, EnvUsername))
}

// Password returns the basic-auth password resolved from env.
func (a AuthConfig) Password(env Env) string {
	return env.Get(orDefault(a.PasswordEnv, EnvPassword))
}

// Key returns the API key resolved from env.
func (a AuthConfig) Key(env Env) string {
	return env.Get(orDefault(a.KeyEnv, EnvAPIKey))
}

// TLSConfig holds TLS dial options for the query API.
type TLSConfig struct {
	// InsecureSkipVerify disables TLS certificate verification.
	// Only use this for internal CAs in development environments.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with defaults. The required-field schema
// is checked separately by ImporterConfig.Validate so that the caller decides
// how a schema violation is reported.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data, applying defaults and structural checks.
func Parse(data []byte) (*Config, error) {
	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	cfg.Importer.Auth.Mode = NormalizeMode(cfg.Importer.Auth.Mode)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Importer: ImporterConfig{
			Timeout: DefaultTimeout,
			Retries: DefaultRetries,
		},
	}
}

// validate checks structural constraints that do not belong to the
// required-field schema.
func validate(cfg *Config) error {
	imp := cfg.Importer
	if imp.Timeout <= 0 {
		return fmt.Errorf("importer.timeout must be positive")
	}
	if imp.Retries < 0 {
		return fmt.Errorf("importer.retries must not be negative")
	}
	switch NormalizeMode(imp.Auth.Mode) {
	case "bearer", "basic", "apikey", "none", "":
	case "mtls":
		if imp.Auth.CertFile == "" || imp.Auth.KeyFile == "" {
			return fmt.Errorf("importer.auth: mtls requires cert_file and key_file")
		}
	default:
		return fmt.Errorf("importer.auth: unknown auth mode %q", imp.Auth.Mode)
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

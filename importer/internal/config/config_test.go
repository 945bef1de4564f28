package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Valid(t *testing.T) {
	yaml := `
importer:
  query: 'sum by (instance) (rate(node_cpu_seconds_total[5m]))'
  start: "2024-01-01T00:00:00Z"
  end: "2024-01-01T01:00:00Z"
  step: 1m
  metric_labels: [instance, mode]
  metric_name: cpu/utilization
  default_labels:
    env: prod
    replicas: 3
  auth:
    mode: bearer
    token_env: PROM_TOKEN
  timeout: 10s
  retries: 2
`
	cfg := loadFromString(t, yaml)
	imp := cfg.Importer

	if imp.Query != "sum by (instance) (rate(node_cpu_seconds_total[5m]))" {
		t.Errorf("query: got %q", imp.Query)
	}
	if imp.Step != "1m" {
		t.Errorf("step: got %q", imp.Step)
	}
	if len(imp.MetricLabels) != 2 || imp.MetricLabels[0] != "instance" || imp.MetricLabels[1] != "mode" {
		t.Errorf("metric_labels: got %v", imp.MetricLabels)
	}
	if imp.DefaultLabels["env"] != "prod" {
		t.Errorf("default_labels.env: got %v", imp.DefaultLabels["env"])
	}
	if imp.DefaultLabels["replicas"] != 3 {
		t.Errorf("default_labels.replicas: got %v (%T)", imp.DefaultLabels["replicas"], imp.DefaultLabels["replicas"])
	}
	if imp.Auth.Mode != "bearer" || imp.Auth.TokenEnv != "PROM_TOKEN" {
		t.Errorf("auth: got %+v", imp.Auth)
	}
	if imp.Timeout != 10*time.Second {
		t.Errorf("timeout: got %v", imp.Timeout)
	}
	if imp.Retries != 2 {
		t.Errorf("retries: got %d", imp.Retries)
	}
	rng, err := imp.Validate()
	if err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
	if rng.Step != time.Minute || !rng.Start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) ||
		!rng.End.Equal(time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)) {
		t.Errorf("Validate() range = %+v", rng)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadFromString(t, `
importer:
  query: up
`)
	if cfg.Importer.Timeout != DefaultTimeout {
		t.Errorf("default timeout: got %v, want %v", cfg.Importer.Timeout, DefaultTimeout)
	}
	if cfg.Importer.Retries != DefaultRetries {
		t.Errorf("default retries: got %d, want %d", cfg.Importer.Retries, DefaultRetries)
	}
}

func TestLoad_UnknownAuthMode(t *testing.T) {
	_, err := loadStringErr(t, `
importer:
  auth:
    mode: magictoken
`)
	if err == nil {
		t.Fatal("expected error for unknown auth mode, got nil")
	}
}

func TestLoad_AuthModeCaseInsensitive(t *testing.T) {
	cfg := loadFromString(t, `
importer:
  auth:
    mode: Bearer
`)
	if cfg.Importer.Auth.Mode != "bearer" {
		t.Errorf("auth mode: got %q, want normalized bearer", cfg.Importer.Auth.Mode)
	}
}

func TestLoad_MTLSRequiresCert(t *testing.T) {
	_, err := loadStringErr(t, `
importer:
  auth:
    mode: mtls
`)
	if err == nil {
		t.Fatal("expected error for mtls without cert_file/key_file, got nil")
	}
}

func TestLoad_NegativeRetries(t *testing.T) {
	_, err := loadStringErr(t, `
importer:
  retries: -1
`)
	if err == nil {
		t.Fatal("expected error for negative retries, got nil")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	_, err := ImporterConfig{}.Validate()
	if err == nil {
		t.Fatal("Validate() on empty config = nil, want error")
	}
	for _, field := range []string{"query", "start", "end", "step", "metric_name", "metric_labels", "default_labels"} {
		if !strings.Contains(err.Error(), field+":") {
			t.Errorf("error %q does not mention %s", err, field)
		}
	}
}

func TestValidate_EmptyListsArePresent(t *testing.T) {
	cfg := loadFromString(t, `
importer:
  query: up
  start: "1700000000"
  end: "1700000600"
  step: "60"
  metric_labels: []
  metric_name: up
  default_labels: {}
`)
	if _, err := cfg.Importer.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil for empty but present lists", err)
	}
}

func TestValidate_BadTimestampAndStep(t *testing.T) {
	cfg := ImporterConfig{
		Query: "up", Start: "yesterday", End: "1700000600", Step: "often",
		MetricLabels: []string{}, MetricName: "up", DefaultLabels: map[string]any{},
	}
	_, err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	if !strings.Contains(err.Error(), "start:") || !strings.Contains(err.Error(), "step:") {
		t.Errorf("error %q should name start and step", err)
	}
	if strings.Contains(err.Error(), "end:") {
		t.Errorf("error %q should not name end", err)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"1700000000", time.Unix(1700000000, 0).UTC()},
		{"1700000000.5", time.Unix(1700000000, 500_000_000).UTC()},
		{"2024-01-01T00:00:00Z", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-01-01T02:00:00+02:00", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseTimestamp(tc.in)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) error = %v", tc.in, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseTimestamp_Rejects(t *testing.T) {
	for _, in := range []string{"1e300", "-1e300", "NaN", "+Inf", "tomorrow"} {
		if got, err := ParseTimestamp(in); err == nil {
			t.Errorf("ParseTimestamp(%q) = %v, want error", in, got)
		}
	}
}

func TestValidate_OutOfRangeEpoch(t *testing.T) {
	cfg := ImporterConfig{
		Query: "up", Start: "1e300", End: "1700000600", Step: "60",
		MetricLabels: []string{}, MetricName: "up", DefaultLabels: map[string]any{},
	}
	if _, err := cfg.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for out-of-range start")
	}
}

func TestParseStep(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"30s", 30 * time.Second, false},
		{"1h30m", 90 * time.Minute, false},
		{"60", time.Minute, false},
		{"0.5", 500 * time.Millisecond, false},
		{"0s", 0, true},
		{"-5", 0, true},
		{"soon", 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseStep(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseStep(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("ParseStep(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestAuthConfig_ResolvesFromEnv(t *testing.T) {
	env := Env{
		EnvAuthType:    "basic",
		EnvBearerToken: "default-token",
		"PROM_TOKEN":   "custom-token",
		EnvUsername:    "env-user",
		EnvPassword:    "hunter2",
	}

	if got, fromEnv := (AuthConfig{}).ResolvedMode(env); got != "basic" || !fromEnv {
		t.Errorf("ResolvedMode() fallback: got %q (fromEnv=%v), want basic from env", got, fromEnv)
	}
	if got, fromEnv := (AuthConfig{Mode: " Bearer"}).ResolvedMode(env); got != "bearer" || fromEnv {
		t.Errorf("ResolvedMode() explicit: got %q (fromEnv=%v), want bearer from config", got, fromEnv)
	}
	if got := (AuthConfig{}).Token(env); got != "default-token" {
		t.Errorf("Token() default: got %q", got)
	}
	if got := (AuthConfig{TokenEnv: "PROM_TOKEN"}).Token(env); got != "custom-token" {
		t.Errorf("Token() custom: got %q", got)
	}
	if got := (AuthConfig{}).User(env); got != "env-user" {
		t.Errorf("User() from env: got %q", got)
	}
	if got := (AuthConfig{Username: "literal"}).User(env); got != "literal" {
		t.Errorf("User() literal: got %q", got)
	}
	if got := (AuthConfig{}).Password(env); got != "hunter2" {
		t.Errorf("Password(): got %q", got)
	}
	if got := (AuthConfig{}).Key(env); got != "" {
		t.Errorf("Key() unset: got %q, want empty", got)
	}
}

// loadFromString parses yaml through Load, failing on error.
func loadFromString(t *testing.T, content string) *Config {
	t.Helper()
	cfg, err := loadStringErr(t, content)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	return cfg
}

// loadStringErr writes yaml to a temp file and calls Load, returning any error.
func loadStringErr(t *testing.T, content string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return Load(path)
}

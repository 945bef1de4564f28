package auth

import (
	"testing"

	"github.com/obsidianstack/promimporter/importer/internal/config"
	"github.com/obsidianstack/promimporter/importer/internal/importerr"
)

func TestHeaders(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		want  map[string]string
	}{
		{"nil", nil, map[string]string{}},
		{"none", None{}, map[string]string{}},
		{"bearer", Bearer{Token: "abc"}, map[string]string{"Authorization": "Bearer abc"}},
		{"bearer empty token", Bearer{}, map[string]string{}},
		// base64("admin:secret")
		{"basic", Basic{Username: "admin", Password: "secret"}, map[string]string{"Authorization": "Basic YWRtaW46c2VjcmV0"}},
		{"basic empty", Basic{}, map[string]string{}},
		{"apikey custom header", APIKey{Header: "X-Scope-OrgID", Key: "tenant-1"}, map[string]string{"X-Scope-OrgID": "tenant-1"}},
		{"apikey default header", APIKey{Key: "k"}, map[string]string{DefaultAPIKeyHeader: "k"}},
		{"apikey empty key", APIKey{Header: "X-Key"}, map[string]string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Headers(tc.creds)
			if got == nil {
				t.Fatal("Headers() returned nil map")
			}
			if len(got) != len(tc.want) {
				t.Fatalf("Headers() = %v, want %v", got, tc.want)
			}
			for k, v := range tc.want {
				if got[k] != v {
					t.Errorf("Headers()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestResolve(t *testing.T) {
	env := config.Env{
		config.EnvBearerToken: "tok",
		config.EnvUsername:    "u",
		config.EnvPassword:    "p",
		"TENANT_KEY":          "key-1",
	}
	tests := []struct {
		name string
		cfg  config.AuthConfig
		env  config.Env
		want Credentials
	}{
		{"empty mode", config.AuthConfig{}, env, None{}},
		{"none", config.AuthConfig{Mode: "none"}, env, None{}},
		{"mtls", config.AuthConfig{Mode: "mtls"}, env, None{}},
		{"bearer", config.AuthConfig{Mode: "bearer"}, env, Bearer{Token: "tok"}},
		{"basic", config.AuthConfig{Mode: "basic"}, env, Basic{Username: "u", Password: "p"}},
		{"apikey", config.AuthConfig{Mode: "apikey", Header: "X-Scope-OrgID", KeyEnv: "TENANT_KEY"}, env, APIKey{Header: "X-Scope-OrgID", Key: "key-1"}},
		{"AUTH_TYPE fallback", config.AuthConfig{}, config.Env{config.EnvAuthType: "Bearer", config.EnvBearerToken: "t2"}, Bearer{Token: "t2"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Resolve(tc.cfg, tc.env, nil)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("Resolve() = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestResolve_UnknownEnvAuthType(t *testing.T) {
	got, err := Resolve(config.AuthConfig{}, config.Env{config.EnvAuthType: "kerberos"}, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v, want none", err)
	}
	if got != (None{}) {
		t.Errorf("Resolve() = %#v, want None", got)
	}
	if h := Headers(got); len(h) != 0 {
		t.Errorf("Headers() = %v, want empty", h)
	}
}

func TestResolve_UnknownConfigMode(t *testing.T) {
	_, err := Resolve(config.AuthConfig{Mode: "kerberos"}, config.Env{}, nil)
	if err == nil {
		t.Fatal("Resolve() = nil error, want ConfigError")
	}
	if !importerr.Is(err, importerr.KindConfig) {
		t.Errorf("Resolve() error kind: got %v, want config", err)
	}
}

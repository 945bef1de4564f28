package auth

import (
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/obsidianstack/promimporter/importer/internal/config"
	"github.com/obsidianstack/promimporter/importer/internal/importerr"
)

// DefaultAPIKeyHeader is used when an apikey config names no header.
const DefaultAPIKeyHeader = "X-API-Key"

// Credentials is the credential material for one auth scheme.
type Credentials interface {
	headers(h map[string]string)
}

// None sends no authentication headers.
type None struct{}

// Bearer sends "Authorization: Bearer <Token>".
type Bearer struct {
	Token string
}

// Basic sends HTTP basic authentication.
type Basic struct {
	Username string
	Password string
}

// APIKey sends Key in the named Header.
type APIKey struct {
	Header string
	Key    string
}

func (None) headers(map[string]string) {}

func (b Bearer) headers(h map[string]string) {
	if b.Token == "" {
		return
	}
	h["Authorization"] = "Bearer " + b.Token
}

func (b Basic) headers(h map[string]string) {
	if b.Username == "" && b.Password == "" {
		return
	}
	cred := base64.StdEncoding.EncodeToString([]byte(b.Username + ":" + b.Password))
	h["Authorization"] = "Basic " + cred
}

func (k APIKey) headers(h map[string]string) {
	if k.Key == "" {
		return
	}
	name := k.Header
	if name == "" {
		name = DefaultAPIKeyHeader
	}
	h[name] = k.Key
}

// Headers returns the HTTP headers for c. A nil c yields an empty map.
func Headers(c Credentials) map[string]string {
	h := make(map[string]string)
	if c != nil {
		c.headers(h)
	}
	return h
}

// Resolve builds Credentials from the auth config and environment snapshot.
// mtls resolves to None because the client certificate is presented at the
// TLS layer.
//
// An unknown mode named in the config is a KindConfig error. An unknown
// AUTH_TYPE entry only logs a warning and resolves to None: without usable
// credentials the request goes out unauthenticated and the backend decides.
func Resolve(cfg config.AuthConfig, env config.Env, logger *slog.Logger) (Credentials, error) {
	if logger == nil {
		logger = slog.Default()
	}
	mode, fromEnv := cfg.ResolvedMode(env)
	switch mode {
	case "", "none", "mtls":
		return None{}, nil
	case "bearer":
		return Bearer{Token: cfg.Token(env)}, nil
	case "basic":
		return Basic{Username: cfg.User(env), Password: cfg.Password(env)}, nil
	case "apikey":
		return APIKey{Header: cfg.Header, Key: cfg.Key(env)}, nil
	}
	if fromEnv {
		logger.Warn("auth: unrecognized auth type, sending no credentials",
			"env", config.EnvAuthType, "auth_type", mode)
		return None{}, nil
	}
	return nil, importerr.Config(fmt.Sprintf("unsupported auth mode %q", mode), nil)
}

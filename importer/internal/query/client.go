package query

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"

	"github.com/obsidianstack/promimporter/importer/internal/config"
)

// authRoundTripper sets fixed headers on every outgoing request. It runs after
// the request's own headers are set, so its values take precedence.
type authRoundTripper struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if len(t.headers) > 0 {
		req = req.Clone(req.Context())
		for k, v := range t.headers {
			req.Header.Set(k, v)
		}
	}
	return t.base.RoundTrip(req)
}

// buildTransport constructs the base transport for the auth and TLS settings.
func buildTransport(authCfg config.AuthConfig, tlsOpts config.TLSConfig) (http.RoundTripper, error) {
	tlsCfg := &tls.Config{
		InsecureSkipVerify: tlsOpts.InsecureSkipVerify, //nolint:gosec // user-configured
	}

	if config.NormalizeMode(authCfg.Mode) == "mtls" {
		cert, err := tls.LoadX509KeyPair(authCfg.CertFile, authCfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load client cert: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}

	if authCfg.CAFile != "" {
		caPEM, err := os.ReadFile(authCfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("read ca file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caPEM) {
			return nil, fmt.Errorf("no valid certs found in ca file %q", authCfg.CAFile)
		}
		tlsCfg.RootCAs = pool
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.TLSClientConfig = tlsCfg
	return base, nil
}

// withAuth returns a copy of client whose transport adds headers.
func withAuth(client *http.Client, headers map[string]string) *http.Client {
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c := *client
	c.Transport = &authRoundTripper{base: base, headers: headers}
	return &c
}

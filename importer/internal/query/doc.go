// Package query executes Prometheus range queries (POST /api/v1/query_range)
// and validates the response envelope.
//
// New(Options) builds the HTTP client once: TLS settings, optional mTLS client
// certificate, per-attempt timeout, and the shared authRoundTripper that adds
// the auth.Headers of the resolved credentials to every request after the
// content headers, so auth headers win on collision.
//
// Executor.GetMetricsFor succeeds only when the backend answers HTTP 200 AND
// the JSON envelope reports status "success". Every other outcome is a
// KindAPIRequest error naming the endpoint. The data payload is returned
// undecoded; package enrich validates its shape.
//
// Retries are opt-in (Options.Retries, default 0). Transport errors, 429 and
// 5xx responses are retried with truncated exponential backoff (1s→30s, ±25%
// jitter); an application-level "error" status never is.
package query

// Package auth derives HTTP authentication headers for the query API.
//
// Credentials is a closed set of variants: None, Bearer, Basic and APIKey.
// Resolve picks the variant from config.AuthConfig (falling back to the
// AUTH_TYPE environment entry) and reads the secrets from a config.Env
// snapshot. Headers is pure: unknown or empty credentials produce no headers
// rather than an error, leaving rejection to the backend.
package auth

package query

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/obsidianstack/promimporter/importer/internal/auth"
	"github.com/obsidianstack/promimporter/importer/internal/config"
	"github.com/obsidianstack/promimporter/importer/internal/importerr"
)

// RangeQueryPath is appended to the backend host.
const RangeQueryPath = "/api/v1/query_range"

const (
	formContentType = "application/x-www-form-urlencoded"

	// maxErrorBody caps how much of a non-200 body is read for diagnostics.
	maxErrorBody = 64 << 10
)

// Options configures an Executor.
type Options struct {
	// Host is the backend base URL, e.g. http://prometheus:9090.
	Host string

	Credentials auth.Credentials

	// Auth and TLS drive the client certificate and CA pool.
	Auth config.AuthConfig
	TLS  config.TLSConfig

	// Timeout bounds each attempt. Zero means config.DefaultTimeout.
	Timeout time.Duration

	// Retries is the number of extra attempts after a retryable failure.
	Retries int

	// Client replaces the built client. Auth headers are still applied.
	Client *http.Client

	Logger *slog.Logger
}

// Executor issues range queries against one backend.
type Executor struct {
	endpoint string
	client   *http.Client
	retries  int
	logger   *slog.Logger

	backoffInitial time.Duration // injectable for tests
}

// New builds an Executor. The HTTP client is constructed once and reused.
func New(opts Options) (*Executor, error) {
	client := opts.Client
	if client == nil {
		transport, err := buildTransport(opts.Auth, opts.TLS)
		if err != nil {
			return nil, importerr.Config("build http client", err)
		}
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = config.DefaultTimeout
		}
		client = &http.Client{Transport: transport, Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{
		endpoint:       strings.TrimRight(opts.Host, "/") + RangeQueryPath,
		client:         withAuth(client, auth.Headers(opts.Credentials)),
		retries:        opts.Retries,
		logger:         logger,
		backoffInitial: backoffInitial,
	}, nil
}

// Endpoint returns the full query_range URL.
func (e *Executor) Endpoint() string {
	return e.endpoint
}

// GetMetricsFor executes q and returns the validated envelope.
func (e *Executor) GetMetricsFor(ctx context.Context, q Query) (*Response, error) {
	e.logger.Debug("query: executing range query",
		"endpoint", e.endpoint,
		"query", q.Query,
		"start", q.Start,
		"end", q.End,
		"step", q.Step,
	)

	bo := newBackoff(e.backoffInitial, backoffMax)
	for attempt := 0; ; attempt++ {
		resp, retryable, err := e.do(ctx, q)
		if err == nil {
			e.logger.Debug("query: range query succeeded", "endpoint", e.endpoint, "attempt", attempt+1)
			return resp, nil
		}
		if !retryable || attempt >= e.retries || ctx.Err() != nil {
			return nil, err
		}

		wait := bo.next()
		e.logger.Warn("query: attempt failed, will retry",
			"endpoint", e.endpoint,
			"attempt", attempt+1,
			"err", err,
			"retry_in", wait)
		select {
		case <-ctx.Done():
			return nil, e.fail("request cancelled", ctx.Err())
		case <-time.After(wait):
		}
	}
}

// do performs one attempt. retryable reports whether a failure is transient.
func (e *Executor) do(ctx context.Context, q Query) (resp *Response, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, strings.NewReader(q.Form().Encode()))
	if err != nil {
		return nil, false, e.fail("build request", err)
	}
	req.Header.Set("Content-Type", formContentType)
	req.Header.Set("Accept", "application/json")

	httpResp, err := e.client.Do(req)
	if err != nil {
		return nil, true, e.fail("request failed", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		cause := fmt.Errorf("unexpected status %d", httpResp.StatusCode)
		// Prometheus reports query errors in the body of 4xx/5xx responses.
		var env Response
		if json.NewDecoder(io.LimitReader(httpResp.Body, maxErrorBody)).Decode(&env) == nil && env.Error != "" {
			cause = fmt.Errorf("unexpected status %d: %s: %s", httpResp.StatusCode, env.ErrorType, env.Error)
		}
		retryable = httpResp.StatusCode == http.StatusTooManyRequests || httpResp.StatusCode >= 500
		return nil, retryable, e.fail("response not ok", cause)
	}

	var env Response
	if err := json.NewDecoder(httpResp.Body).Decode(&env); err != nil {
		return nil, false, e.fail("decode response body", err)
	}
	if env.Status != StatusSuccess {
		var cause error
		if env.Error != "" {
			cause = fmt.Errorf("%s: %s", env.ErrorType, env.Error)
		}
		return nil, false, e.fail("status not success", cause)
	}
	for _, w := range env.Warnings {
		e.logger.Warn("query: backend warning", "endpoint", e.endpoint, "warning", w)
	}
	return &env, false, nil
}

func (e *Executor) fail(reason string, cause error) error {
	return importerr.APIRequest(
		fmt.Sprintf("error while fetching metrics from url %s: %s", e.endpoint, reason), cause)
}

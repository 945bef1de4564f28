package pipeline

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/obsidianstack/promimporter/importer/internal/auth"
	"github.com/obsidianstack/promimporter/importer/internal/config"
	"github.com/obsidianstack/promimporter/importer/internal/enrich"
	"github.com/obsidianstack/promimporter/importer/internal/importerr"
	"github.com/obsidianstack/promimporter/importer/internal/query"
	"github.com/obsidianstack/promimporter/pkg/types"
)

// Pipeline imports observations for one ImporterConfig.
type Pipeline struct {
	cfg    config.ImporterConfig
	env    config.Env
	logger *slog.Logger
	client *http.Client
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used by the pipeline and its executor.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithHTTPClient replaces the HTTP client built from the TLS/auth config.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Pipeline) { p.client = c }
}

// New returns a Pipeline for cfg. env is the environment snapshot consulted
// for HOST and credentials; the process environment is never read directly.
func New(cfg config.ImporterConfig, env config.Env, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: cfg, env: env}
	for _, o := range opts {
		o(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Execute returns inputs unchanged when non-empty, otherwise runs Import.
func (p *Pipeline) Execute(ctx context.Context, inputs []types.Observation) ([]types.Observation, error) {
	if len(inputs) > 0 {
		return p.Passthrough(inputs), nil
	}
	return p.Import(ctx)
}

// Passthrough returns inputs as given.
func (p *Pipeline) Passthrough(inputs []types.Observation) []types.Observation {
	p.logger.Debug("pipeline: inputs present, passing through", "observations", len(inputs))
	return inputs
}

// Import queries the backend and returns the enriched observations.
func (p *Pipeline) Import(ctx context.Context) ([]types.Observation, error) {
	rng, err := p.cfg.Validate()
	if err != nil {
		return nil, importerr.InputValidation(err.Error(), nil)
	}

	host := p.env.Get(config.EnvHost)
	if host == "" {
		return nil, importerr.Config("environment variable HOST is not defined", nil)
	}

	creds, err := auth.Resolve(p.cfg.Auth, p.env, p.logger)
	if err != nil {
		return nil, err
	}

	exec, err := query.New(query.Options{
		Host:        host,
		Credentials: creds,
		Auth:        p.cfg.Auth,
		TLS:         p.cfg.TLS,
		Timeout:     p.cfg.Timeout,
		Retries:     p.cfg.Retries,
		Client:      p.client,
		Logger:      p.logger,
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("pipeline: importing",
		"endpoint", exec.Endpoint(),
		"metric_name", p.cfg.MetricName,
		"start", p.cfg.Start,
		"end", p.cfg.End,
		"step", p.cfg.Step,
	)

	resp, err := exec.GetMetricsFor(ctx, query.Query{
		Query: p.cfg.Query,
		Start: p.cfg.Start,
		End:   p.cfg.End,
		Step:  p.cfg.Step,
	})
	if err != nil {
		return nil, err
	}

	obs, err := enrich.ParseMetrics(resp, enrich.Options{
		MetricLabels:  p.cfg.MetricLabels,
		MetricName:    p.cfg.MetricName,
		DefaultLabels: p.cfg.DefaultLabels,
		Step:          rng.Step,
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("pipeline: import complete", "metric_name", p.cfg.MetricName, "observations", len(obs))
	return obs, nil
}

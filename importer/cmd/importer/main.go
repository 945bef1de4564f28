package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/obsidianstack/promimporter/importer/internal/config"
	"github.com/obsidianstack/promimporter/importer/internal/export"
	"github.com/obsidianstack/promimporter/importer/internal/pipeline"
)

type options struct {
	configPath string
	envFile    string
	format     string
	outPath    string
	watch      bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "config.yaml", "path to config file")
	flag.StringVar(&opts.envFile, "env-file", ".env", "dotenv file merged beneath the process environment")
	flag.StringVar(&opts.format, "format", export.FormatJSON, "output format: json | yaml | prom")
	flag.StringVar(&opts.outPath, "out", "", "write observations to this file instead of stdout")
	flag.BoolVar(&opts.watch, "watch", false, "re-run the import whenever the config file changes")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	// Stdout carries observations, so logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts, os.Stdout, logger); err != nil {
		logger.Error("prometheus-importer failed", "err", err)
		os.Exit(1)
	}
}

// run performs one import, then keeps re-importing on config changes when
// opts.watch is set.
func run(ctx context.Context, opts options, stdout io.Writer, logger *slog.Logger) error {
	logger.Info("prometheus-importer starting", "config", opts.configPath, "format", opts.format)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	env, err := config.LoadEnv(opts.envFile)
	if err != nil {
		return err
	}

	if err := importOnce(ctx, cfg, env, opts, stdout, logger); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	err = config.Watch(ctx, opts.configPath, logger, func(updated *config.Config) {
		if err := importOnce(ctx, updated, env, opts, stdout, logger); err != nil {
			logger.Error("re-import failed, waiting for next change", "err", err)
		}
	})
	logger.Info("prometheus-importer shutting down")
	return err
}

func importOnce(ctx context.Context, cfg *config.Config, env config.Env, opts options, stdout io.Writer, logger *slog.Logger) error {
	p := pipeline.New(cfg.Importer, env, pipeline.WithLogger(logger))
	obs, err := p.Execute(ctx, nil)
	if err != nil {
		return err
	}

	if opts.outPath == "" {
		return export.Write(stdout, opts.format, obs)
	}

	f, err := os.Create(opts.outPath)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	if err := export.Write(f, opts.format, obs); err != nil {
		f.Close()
		return err
	}
	logger.Info("observations written", "path", opts.outPath, "observations", len(obs))
	return f.Close()
}

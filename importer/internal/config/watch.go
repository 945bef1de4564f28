package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config at path whenever it changes and hands each good
// reload to onChange. It blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file, so editors that save
// by writing a temp file and renaming it over path are picked up too. Reloads
// that fail to parse are logged and skipped.
func Watch(ctx context.Context, path string, logger *slog.Logger, onChange func(*Config)) error {
	if logger == nil {
		logger = slog.Default()
	}

	path = filepath.Clean(path)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch config dir %s: %w", dir, err)
	}
	logger.Info("config: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			// A rename onto path arrives as Create for path.
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			reload(path, logger, onChange)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("config: watcher error", "err", err)
		}
	}
}

func reload(path string, logger *slog.Logger, onChange func(*Config)) {
	cfg, err := Load(path)
	if err != nil {
		logger.Error("config: reload failed, keeping previous config", "path", path, "err", err)
		return
	}
	logger.Info("config: reloaded", "path", path, "query", cfg.Importer.Query)
	onChange(cfg)
}

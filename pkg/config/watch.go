package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/blendwall/blendwall/pkg/logger"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watch reloads the config file at path on every change and passes
// valid results to onChange. It blocks until ctx is done.
//
// The parent directory is watched, not the file itself, so editors that
// save through a rename keep working.
func Watch(ctx context.Context, path string, onChange func(Config), log *logger.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err = watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	var debounce <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce = time.After(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("config watch")
		case <-debounce:
			debounce = nil
			conf, err := Load(abs)
			if err != nil {
				log.Error().Err(err).Msg("config reload failed, keeping the old one")
				continue
			}
			log.Info().Str("path", abs).Msg("config reloaded")
			onChange(conf)
		case <-ctx.Done():
			return nil
		}
	}
}

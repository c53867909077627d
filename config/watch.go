package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/inertpad/inertpad/utils"
)

const reloadDebounce = 100 * time.Millisecond

// Watch reloads path after it changes and passes valid settings to apply.
// The parent directory is watched so editors that replace the file are
// handled. Invalid files are logged and skipped. Watching stops with ctx.
func Watch(ctx context.Context, path string, apply func(Settings)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	go func() {
		defer watcher.Close()

		var reload <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					reload = time.After(reloadDebounce)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				utils.Warn("config watcher: %v", err)
			case <-reload:
				reload = nil
				reloadFile(target, apply)
			}
		}
	}()

	return nil
}

func reloadFile(path string, apply func(Settings)) {
	s, err := Load(path)
	if err != nil {
		utils.Warn("ignoring config change: %v", err)
		return
	}
	if err := s.Validate(); err != nil {
		utils.Warn("ignoring config change: %v", err)
		return
	}

	utils.Info("reloaded config %s", path)
	apply(s)
}

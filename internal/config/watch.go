package config

import (
	"context"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	zlog "github.com/rs/zerolog/log"
)

// Watcher reloads the settings file when it changes on disk.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// NewWatcher starts watching the directory holding path. Editors often
// replace files instead of writing them in place, so the directory is
// watched rather than the file.
func NewWatcher(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create settings watcher")
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, errors.Wrap(err, "failed to watch config directory")
	}
	return &Watcher{path: filepath.Clean(path), watcher: w}, nil
}

// Run calls fn with the reloaded settings after each change until ctx is
// done. Files that fail to load are logged and skipped.
func (w *Watcher) Run(ctx context.Context, fn func(Settings)) {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			s, err := LoadSettings(w.path)
			if err != nil {
				zlog.Warn().Err(err).Msg("ignoring settings change")
				continue
			}
			zlog.Debug().Int("visualizer_offset", s.VisualizerOffsetMs).Str("base_url", s.BaseURL).Msg("settings reloaded")
			fn(s)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			zlog.Warn().Err(err).Msg("settings watcher error")
		}
	}
}

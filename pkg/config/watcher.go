package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ReloadFunc is called with the freshly rebuilt facility after a watched
// definition file changes. A returned error is logged, not fatal.
type ReloadFunc func(*Facility) error

// Watcher reloads facility definitions when their files change on disk.
type Watcher struct {
	loader  *Loader
	logger  zerolog.Logger
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher that rebuilds facilities through the given loader.
func NewWatcher(loader *Loader, logger zerolog.Logger) *Watcher {
	return &Watcher{
		loader: loader,
		logger: logger.With().Str("component", "config-watcher").Logger(),
	}
}

// Watch starts watching paths for definition changes and triggers reload on change.
// Paths may be YAML files or directories containing them.
func (w *Watcher) Watch(ctx context.Context, paths []string, reloadFn ReloadFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	w.watcher = watcher

	// Add paths to watcher
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			w.logger.Warn().Err(err).Str("path", path).Msg("Failed to stat path for watching")
			continue
		}

		if info.IsDir() {
			if err := w.watchDirectory(path); err != nil {
				w.logger.Warn().Err(err).Str("path", path).Msg("Failed to watch directory")
			}
		} else {
			// Watch the parent directory so editor rename-and-replace saves
			// are still observed.
			if err := watcher.Add(filepath.Dir(path)); err != nil {
				w.logger.Warn().Err(err).Str("path", path).Msg("Failed to watch file")
			}
		}
	}

	// Start watching in background
	go w.processEvents(ctx, reloadFn)

	w.logger.Info().
		Int("paths", len(paths)).
		Msg("Started watching facility definitions")

	return nil
}

// watchDirectory adds a directory tree to the watcher.
func (w *Watcher) watchDirectory(dirPath string) error {
	return filepath.WalkDir(dirPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return w.watcher.Add(path)
		}

		return nil
	})
}

// isDefinitionFile reports whether a path looks like a facility definition.
func isDefinitionFile(path string) bool {
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}

// processEvents processes file system events and triggers reloads.
func (w *Watcher) processEvents(ctx context.Context, reloadFn ReloadFunc) {
	// Debounce reload events
	var reloadTimer *time.Timer
	reloadDelay := 500 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			if w.watcher != nil {
				_ = w.watcher.Close()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !isDefinitionFile(event.Name) {
				continue
			}

			w.logger.Debug().
				Str("file", event.Name).
				Str("op", event.Op.String()).
				Msg("Facility definition changed")

			changed := event.Name
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			reloadTimer = time.AfterFunc(reloadDelay, func() {
				w.reload(changed, reloadFn)
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("Watcher error")
		}
	}
}

// reload rebuilds the facility from a changed file and hands it to the callback.
func (w *Watcher) reload(path string, reloadFn ReloadFunc) {
	cfg, err := w.loader.Load(path)
	if err != nil {
		w.logger.Error().Err(err).Str("path", path).Msg("Reload failed: definition invalid")
		return
	}

	facility, err := w.loader.Build(cfg)
	if err != nil {
		w.logger.Error().Err(err).Str("path", path).Msg("Reload failed: build error")
		return
	}

	if err := reloadFn(facility); err != nil {
		w.logger.Error().Err(err).Str("path", path).Msg("Reload callback failed")
		return
	}

	w.logger.Info().
		Str("path", path).
		Str("facility", facility.Name).
		Msg("Facility definitions reloaded")
}

// Close stops the underlying file system watcher.
func (w *Watcher) Close() error {
	if w.watcher == nil {
		return nil
	}
	return w.watcher.Close()
}

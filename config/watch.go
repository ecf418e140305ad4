// FILE: tek/config/watch.go
package config

import (
	"context"
	"path/filepath"
	"reflect"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tekutils/tek/errors"
)

// WatchOptions configures file watching behavior
type WatchOptions struct {
	// Debounce coalesces bursts of file events into one reload
	Debounce time.Duration
}

// DefaultWatchOptions returns the standard watch options.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{Debounce: DefaultDebounce}
}

// Watch re-reads the files registered under alias whenever they change and
// sends "section.key" for every effective value that changed. The channel is
// closed once ctx is done.
func (r *Registry) Watch(ctx context.Context, alias string) (<-chan string, error) {
	return r.WatchWithOptions(ctx, alias, DefaultWatchOptions())
}

// WatchWithOptions is Watch with custom options.
func (r *Registry) WatchWithOptions(ctx context.Context, alias string, opts WatchOptions) (<-chan string, error) {
	if opts.Debounce < MinDebounce {
		opts.Debounce = MinDebounce
	}

	r.mu.RLock()
	fs, ok := r.fileSets[alias]
	r.mu.RUnlock()
	if !ok || len(fs.files) == 0 {
		return nil, errors.Newf(errors.ErrInvalidInput, "no config files registered under '%s'", alias)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to create file watcher")
	}

	// Directories are watched so that editors replacing files by rename are seen.
	targets := make(map[string]bool, len(fs.files))
	watched := 0
	dirs := make(map[string]bool)
	for _, f := range fs.files {
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		targets[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := w.Add(dir); err != nil {
			r.logger().Debug().Err(err).Str("dir", dir).Msg("Cannot watch config directory")
			continue
		}
		watched++
	}
	if watched == 0 {
		w.Close()
		return nil, errors.Newf(errors.ErrInvalidInput, "no watchable config directory for '%s'", alias)
	}

	ch := make(chan string, watchBuffer)
	go r.watchLoop(ctx, w, alias, targets, opts, ch)
	return ch, nil
}

func (r *Registry) watchLoop(ctx context.Context, w *fsnotify.Watcher, alias string, targets map[string]bool, opts WatchOptions, ch chan<- string) {
	defer close(ch)
	defer w.Close()

	logger := r.logger().With().Str("alias", alias).Logger()
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !targets[filepath.Clean(ev.Name)] {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(opts.Debounce)
			} else {
				timer.Reset(opts.Debounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn().Err(err).Msg("File watcher error")

		case <-fire:
			fire = nil
			for _, path := range r.Reload(alias) {
				select {
				case ch <- path:
				default:
					logger.Debug().Str("path", path).Msg("Watch channel full, dropping notification")
				}
			}
		}
	}
}

// Reload re-reads the files of alias, refreshes the file layer of the sections
// registered from it and returns the "section.key" paths whose value changed.
func (r *Registry) Reload(alias string) []string {
	r.mu.Lock()
	fs, ok := r.fileSets[alias]
	if !ok {
		r.mu.Unlock()
		return nil
	}
	if r.opts.AllowFiles {
		fs.load(*r.logger())
	}
	fileValues := make(map[*Configuration]map[string]any)
	for section, owner := range r.owners {
		if owner == alias {
			fileValues[r.sections[section]] = fs.section(section)
		}
	}
	r.mu.Unlock()

	var changed []string
	for cfg, values := range fileValues {
		before := cfg.Values()
		if r.opts.AllowFiles {
			cfg.SetFileValues(values)
		}
		after := cfg.Values()
		for k, v := range after {
			if old, existed := before[k]; !existed || !reflect.DeepEqual(old, v) {
				changed = append(changed, cfg.Name()+"."+k)
			}
		}
		for k := range before {
			if _, exists := after[k]; !exists {
				changed = append(changed, cfg.Name()+"."+k)
			}
		}
	}
	slices.Sort(changed)
	return changed
}

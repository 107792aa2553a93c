// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package watch re-runs aggregation when source documentation changes.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/walteh/docmerge/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// DefaultDebounce is how long the watcher waits for a burst of events to settle
const DefaultDebounce = 300 * time.Millisecond

// Callback receives the sorted, de-duplicated paths changed since the last call
type Callback func(ctx context.Context, changed []string) error

// 👀 Watcher watches directory trees and invokes a callback after changes settle
type Watcher struct {
	roots    []string
	debounce time.Duration
	onChange Callback
	ready    chan struct{}
}

// 🏭 New creates a watcher over roots. Roots that do not exist are skipped.
func New(roots []string, debounce time.Duration, onChange Callback) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		roots:    roots,
		debounce: debounce,
		onChange: onChange,
		ready:    make(chan struct{}),
	}
}

// Roots returns the directories worth watching for cfg: every source and the templates
func Roots(cfg *config.Config) []string {
	roots := make([]string, 0, len(cfg.Sources)+1)
	for _, s := range cfg.Sources {
		roots = append(roots, cfg.SourcePath(s))
	}
	return append(roots, cfg.TemplatesPath())
}

// Ready is closed once every root is being watched
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// 🏃 Run watches until ctx is cancelled. Callback errors are logged and
// watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	watched := 0
	for _, root := range w.roots {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			logger.Debug().Str("root", root).Msg("not watching missing directory")
			continue
		}
		addDirsRecursive(ctx, fw, root)
		watched++
	}
	logger.Info().Int("roots", watched).Dur("debounce", w.debounce).Msg("watching for changes")
	close(w.ready)

	d := newDebouncer(w.debounce)
	defer d.stop()
	pending := map[string]struct{}{}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if shouldIgnoreEvent(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					addDirsRecursive(ctx, fw, ev.Name)
				}
			}
			logger.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("change detected")
			pending[ev.Name] = struct{}{}
			d.trigger()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watcher error")
		case <-d.C():
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			pending = map[string]struct{}{}

			if err := w.onChange(ctx, changed); err != nil {
				logger.Error().Err(err).Int("changed", len(changed)).Msg("change handler failed")
			}
		}
	}
}

func addDirsRecursive(ctx context.Context, fw *fsnotify.Watcher, root string) {
	logger := zerolog.Ctx(ctx)
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && shouldIgnoreEvent(path) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			logger.Warn().Err(err).Str("dir", path).Msg("watch add failed")
		}
		return nil
	})
}

// shouldIgnoreEvent reports editor and OS artifacts that never affect the docs
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}

	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}

	return base == "Thumbs.db" || base == "__pycache__"
}

// ⏱️ debouncer coalesces triggers into a single signal after a quiet period
type debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fire  chan struct{}
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, fire: make(chan struct{}, 1)}
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		select {
		case d.fire <- struct{}{}:
		default:
		}
	})
}

func (d *debouncer) C() <-chan struct{} {
	return d.fire
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

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

package fsys

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gitlab.com/tozd/go/errors"
)

type memEntry struct {
	data    []byte
	mode    os.FileMode
	modTime time.Time
	dir     bool
}

// 🧠 Memory is an in-memory FS used to exercise aggregation without touching disk
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*memEntry
	now     func() time.Time
}

var _ FS = (*Memory)(nil)

// NewMemory returns an empty Memory FS containing only the root directory
func NewMemory() *Memory {
	return &Memory{
		entries: map[string]*memEntry{},
		now:     time.Now,
	}
}

// Seed writes files (path -> content), creating parent directories
func (m *Memory) Seed(files map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for path, content := range files {
		path = filepath.Clean(path)
		m.mkdirAllLocked(filepath.Dir(path), 0o755)
		m.entries[path] = &memEntry{data: []byte(content), mode: 0o644, modTime: m.now()}
	}
}

// Paths lists every file and directory below root in sorted order
func (m *Memory) Paths(root string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	root = filepath.Clean(root)
	var out []string
	for path := range m.entries {
		if within(root, path) {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

func within(root, path string) bool {
	if root == path {
		return true
	}
	if root == string(filepath.Separator) {
		return strings.HasPrefix(path, root)
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}

func isRoot(path string) bool {
	return path == string(filepath.Separator) || path == "."
}

func (m *Memory) lookup(path string) (*memEntry, bool) {
	path = filepath.Clean(path)
	if isRoot(path) {
		return &memEntry{dir: true, mode: fs.ModeDir | 0o755}, true
	}
	e, ok := m.entries[path]
	return e, ok
}

func (m *Memory) mkdirAllLocked(path string, perm os.FileMode) {
	path = filepath.Clean(path)
	for !isRoot(path) {
		if e, ok := m.entries[path]; ok && e.dir {
			return
		}
		m.entries[path] = &memEntry{dir: true, mode: fs.ModeDir | perm, modTime: m.now()}
		path = filepath.Dir(path)
	}
}

func (m *Memory) Exists(ctx context.Context, path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.lookup(path)
	return ok, nil
}

func (m *Memory) IsDir(ctx context.Context, path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.lookup(path)
	return ok && e.dir, nil
}

func (m *Memory) MkdirAll(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for p := filepath.Clean(path); !isRoot(p); p = filepath.Dir(p) {
		if e, ok := m.entries[p]; ok && !e.dir {
			return errors.Errorf("creating directory: %s is a file", p)
		}
	}
	m.mkdirAllLocked(path, 0o755)
	return nil
}

func (m *Memory) RemoveAll(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	for p := range m.entries {
		if within(path, p) {
			delete(m.entries, p)
		}
	}
	return nil
}

func (m *Memory) CopyFile(ctx context.Context, src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyFileLocked(src, dst)
}

func (m *Memory) copyFileLocked(src, dst string) error {
	e, ok := m.lookup(src)
	if !ok {
		return errors.Errorf("stat source: %s: %w", src, fs.ErrNotExist)
	}
	if e.dir {
		return errors.Errorf("source %s is a directory", src)
	}
	if err := m.parentIsDirLocked(dst); err != nil {
		return errors.Errorf("creating destination: %w", err)
	}
	data := make([]byte, len(e.data))
	copy(data, e.data)
	m.entries[filepath.Clean(dst)] = &memEntry{data: data, mode: e.mode, modTime: e.modTime}
	return nil
}

func (m *Memory) parentIsDirLocked(path string) error {
	parent, ok := m.lookup(filepath.Dir(filepath.Clean(path)))
	if !ok || !parent.dir {
		return errors.Errorf("%s: %w", filepath.Dir(path), fs.ErrNotExist)
	}
	return nil
}

func (m *Memory) CopyTree(ctx context.Context, src, dst string, exclude []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	src, dst = filepath.Clean(src), filepath.Clean(dst)
	root, ok := m.lookup(src)
	if !ok {
		return errors.Errorf("stat source: %s: %w", src, fs.ErrNotExist)
	}
	if !root.dir {
		return errors.Errorf("source %s is not a directory", src)
	}

	var paths []string
	for p := range m.entries {
		if within(src, p) && p != src {
			paths = append(paths, p)
		}
	}
	// parents sort before their children
	sort.Strings(paths)

	m.mkdirAllLocked(dst, 0o755)
	var skipped []string
	for _, p := range paths {
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return errors.Errorf("relative path: %w", err)
		}
		if underAny(skipped, p) {
			continue
		}
		e := m.entries[p]
		if excluded(ctx, exclude, rel) {
			if e.dir {
				skipped = append(skipped, p)
			}
			continue
		}
		target := filepath.Join(dst, rel)
		if e.dir {
			m.mkdirAllLocked(target, e.mode.Perm())
			continue
		}
		if err := m.copyFileLocked(p, target); err != nil {
			return err
		}
	}
	return nil
}

func underAny(roots []string, path string) bool {
	for _, r := range roots {
		if within(r, path) {
			return true
		}
	}
	return false
}

func (m *Memory) ReadFile(ctx context.Context, path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.lookup(path)
	if !ok {
		return nil, errors.Errorf("reading file: %s: %w", path, fs.ErrNotExist)
	}
	if e.dir {
		return nil, errors.Errorf("reading file: %s is a directory", path)
	}
	data := make([]byte, len(e.data))
	copy(data, e.data)
	return data, nil
}

func (m *Memory) WriteFile(ctx context.Context, path string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.parentIsDirLocked(path); err != nil {
		return errors.Errorf("writing file: %w", err)
	}
	path = filepath.Clean(path)
	buf := make([]byte, len(data))
	copy(buf, data)
	if e, ok := m.entries[path]; ok && !e.dir {
		// existing files keep their mode, matching os.WriteFile
		perm = e.mode
	}
	m.entries[path] = &memEntry{data: buf, mode: perm, modTime: m.now()}
	return nil
}

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
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// 🖥️ OS implements FS on the local disk
type OS struct{}

// NewOS returns the disk backed FS
func NewOS() *OS {
	return &OS{}
}

var _ FS = (*OS)(nil)

func (o *OS) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, errors.Errorf("stat %s: %w", path, err)
}

func (o *OS) IsDir(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, errors.Errorf("stat %s: %w", path, err)
	}
	return info.IsDir(), nil
}

func (o *OS) MkdirAll(ctx context.Context, path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return errors.Errorf("creating directory: %w", err)
	}
	return nil
}

func (o *OS) RemoveAll(ctx context.Context, path string) error {
	if err := os.RemoveAll(path); err != nil {
		return errors.Errorf("removing %s: %w", path, err)
	}
	return nil
}

// 📄 CopyFile copies src to dst, following symlinks like a plain read would
func (o *OS) CopyFile(ctx context.Context, src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return errors.Errorf("source %s is a directory", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Errorf("copying %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return errors.Errorf("closing destination: %w", err)
	}

	// umask may have narrowed the mode on create
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return errors.Errorf("setting mode: %w", err)
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return errors.Errorf("setting times: %w", err)
	}
	return nil
}

// 🌳 CopyTree mirrors src into dst, merging into any existing directories
func (o *OS) CopyTree(ctx context.Context, src, dst string, exclude []string) error {
	root, err := os.Stat(src)
	if err != nil {
		return errors.Errorf("stat source: %w", err)
	}
	if !root.IsDir() {
		return errors.Errorf("source %s is not a directory", src)
	}

	return o.copyTree(ctx, src, dst, exclude, "")
}

// copyTree walks src; prefix is src's path below the top-level tree so
// exclude patterns keep matching inside linked directories
func (o *OS) copyTree(ctx context.Context, src, dst string, exclude []string, prefix string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return errors.Errorf("relative path: %w", err)
		}
		target := filepath.Join(dst, rel)

		if rel != "." && excluded(ctx, exclude, filepath.Join(prefix, rel)) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := os.Stat(path)
		if err != nil {
			return errors.Errorf("stat %s: %w", path, err)
		}

		switch {
		case info.IsDir() && d.Type()&fs.ModeSymlink != 0:
			// WalkDir does not descend into linked directories
			return o.copyTree(ctx, path, target, exclude, filepath.Join(prefix, rel))
		case info.IsDir():
			if err := os.MkdirAll(target, info.Mode().Perm()|0o700); err != nil {
				return errors.Errorf("creating directory: %w", err)
			}
			return nil
		default:
			return o.CopyFile(ctx, path, target)
		}
	})
}

func (o *OS) ReadFile(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return data, nil
}

func (o *OS) WriteFile(ctx context.Context, path string, data []byte, perm os.FileMode) error {
	if err := os.WriteFile(path, data, perm); err != nil {
		return errors.Errorf("writing file: %w", err)
	}
	return nil
}

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

// Package fsys isolates the file system side effects of aggregation behind a
// narrow interface so the copy policy can run against disk or memory.
package fsys

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
)

// 💾 FS is the set of file system operations aggregation needs
type FS interface {
	// Exists reports whether anything exists at path
	Exists(ctx context.Context, path string) (bool, error)
	// IsDir reports whether path exists and is a directory
	IsDir(ctx context.Context, path string) (bool, error)

	MkdirAll(ctx context.Context, path string) error
	RemoveAll(ctx context.Context, path string) error

	// CopyFile copies a single file, preserving its mode and modification time
	CopyFile(ctx context.Context, src, dst string) error
	// CopyTree copies a directory recursively, overwriting conflicting files.
	// Paths matching an exclude pattern (relative to src, slash separated) are skipped.
	CopyTree(ctx context.Context, src, dst string, exclude []string) error

	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte, perm os.FileMode) error
}

// 🔍 excluded reports whether rel matches any of the doublestar patterns
func excluded(ctx context.Context, patterns []string, rel string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("path", rel).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			zerolog.Ctx(ctx).Debug().Str("path", rel).Str("pattern", pattern).Msg("path excluded by pattern")
			return true
		}
	}
	return false
}

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

// Package revision reads the checked out commit of source submodules.
package revision

import (
	"context"

	"github.com/go-git/go-git/v5"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrNotRepository is returned when a directory is not a git checkout
var ErrNotRepository = errors.Base("not a git repository")

// ShortLength is the number of hash characters shown to users
const ShortLength = 7

// 🔍 Head returns the full HEAD commit hash of the checkout at dir.
// Submodule checkouts whose .git is a file pointing at the gitdir are supported.
// Parent directories are not searched.
func Head(ctx context.Context, dir string) (string, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", errors.Errorf("%w: %s", ErrNotRepository, dir)
		}
		return "", errors.Errorf("opening repository: %w", err)
	}

	ref, err := repo.Head()
	if err != nil {
		return "", errors.Errorf("reading HEAD: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("dir", dir).Str("head", ref.Hash().String()).Msg("resolved revision")
	return ref.Hash().String(), nil
}

// Short returns the abbreviated HEAD commit hash of the checkout at dir
func Short(ctx context.Context, dir string) (string, error) {
	hash, err := Head(ctx, dir)
	if err != nil {
		return "", err
	}
	return Abbrev(hash), nil
}

// Abbrev shortens a commit hash for display
func Abbrev(hash string) string {
	if len(hash) > ShortLength {
		return hash[:ShortLength]
	}
	return hash
}

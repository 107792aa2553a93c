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

package status

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/docmerge/pkg/config"
	"github.com/walteh/docmerge/pkg/fsys"
	"gitlab.com/tozd/go/errors"
)

// 📊 State is the availability of a source checkout
type State int

const (
	StateUnknown    State = iota
	StatePresent          // Source directory and every declared item exist
	StateIncomplete       // Source directory exists but declared items are absent
	StateMissing          // Source directory does not exist
)

// String returns a string representation of State
func (s State) String() string {
	switch s {
	case StatePresent:
		return "present"
	case StateIncomplete:
		return "incomplete"
	case StateMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// 📄 SourceStatus describes one configured source
type SourceStatus struct {
	Name         string
	Source       string   // Source directory, relative to the root
	Destination  string   // Destination directory, relative to the root
	State        State    // Checkout availability
	MissingItems []string // Declared items absent from the source
	Aggregated   bool     // Whether the destination directory exists
	Revision     string   // Short HEAD of the submodule, empty when unknown
}

// RevisionFunc resolves the short revision of a submodule checkout
type RevisionFunc func(ctx context.Context, dir string) (string, error)

// 🔍 Collect inspects every configured source. rev may be nil.
func Collect(ctx context.Context, cfg *config.Config, fs fsys.FS, rev RevisionFunc) ([]SourceStatus, error) {
	logger := zerolog.Ctx(ctx)
	out := make([]SourceStatus, 0, len(cfg.Sources))

	for _, s := range cfg.Sources {
		src := cfg.SourcePath(s)
		dest := cfg.DestPath(s)
		st := SourceStatus{
			Name:        s.Name,
			Source:      cfg.Rel(src),
			Destination: cfg.Rel(dest),
		}

		present, err := fs.IsDir(ctx, src)
		if err != nil {
			return nil, errors.Errorf("checking %s: %w", s.Name, err)
		}

		if !present {
			st.State = StateMissing
		} else {
			st.State = StatePresent
			for _, item := range s.Files {
				ok, err := fs.Exists(ctx, filepath.Join(src, item))
				if err != nil {
					return nil, errors.Errorf("checking %s/%s: %w", s.Name, item, err)
				}
				if !ok {
					st.MissingItems = append(st.MissingItems, item)
				}
			}
			if len(st.MissingItems) > 0 {
				st.State = StateIncomplete
			}

			if rev != nil {
				if r, err := rev(ctx, cfg.RepoPath(s)); err == nil {
					st.Revision = r
				} else {
					logger.Debug().Err(err).Str("source", s.Name).Msg("revision unavailable")
				}
			}
		}

		if st.Aggregated, err = fs.IsDir(ctx, dest); err != nil {
			return nil, errors.Errorf("checking destination of %s: %w", s.Name, err)
		}

		out = append(out, st)
	}

	return out, nil
}

// Count returns how many sources are in state
func Count(statuses []SourceStatus, state State) int {
	n := 0
	for _, s := range statuses {
		if s.State == state {
			n++
		}
	}
	return n
}

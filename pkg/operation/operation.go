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

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/docmerge/pkg/config"
	"github.com/walteh/docmerge/pkg/fsys"
	"github.com/walteh/docmerge/pkg/log"
	"github.com/walteh/docmerge/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is a single step of a docmerge run
type Operation interface {
	// Name identifies the operation in logs and errors
	Name() string
	// Execute runs the operation
	Execute(ctx context.Context) error
}

// RevisionFunc resolves the checked out revision of a submodule directory
type RevisionFunc func(ctx context.Context, dir string) (string, error)

// 🔧 Options contains configuration shared by operations
type Options struct {
	// Config is the resolved docmerge configuration
	Config *config.Config
	// FS performs every filesystem side effect, defaults to the local disk
	FS fsys.FS
	// Stripper filters index documents, defaults to the configured titles
	Stripper *text.Stripper
	// Logger receives console output, defaults to the one in the context
	Logger *log.Logger
	// Revision is optional and only decorates the console output
	Revision RevisionFunc
}

// 🧱 BaseOperation holds the resolved options
type BaseOperation struct {
	Options
}

// 🏭 NewBaseOperation fills unset options
func NewBaseOperation(opts Options) BaseOperation {
	if opts.FS == nil {
		opts.FS = fsys.NewOS()
	}
	if opts.Stripper == nil && opts.Config != nil {
		opts.Stripper = text.NewStripper(opts.Config.Strip.Titles...)
	}
	return BaseOperation{Options: opts}
}

func (b *BaseOperation) validate() error {
	if b.Config == nil {
		return errors.Errorf("config is required")
	}
	return nil
}

func (b *BaseOperation) console(ctx context.Context) *log.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return log.FromContext(ctx)
}

func (b *BaseOperation) revision(ctx context.Context, s config.Source) string {
	if b.Revision == nil {
		return ""
	}
	rev, err := b.Revision(ctx, b.Config.RepoPath(s))
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("source", s.Name).Msg("revision unavailable")
		return ""
	}
	return rev
}

// 🪄 funcOperation adapts a function to Operation
type funcOperation struct {
	name string
	fn   func(ctx context.Context) error
}

// Func wraps fn as a named operation
func Func(name string, fn func(ctx context.Context) error) Operation {
	return &funcOperation{name: name, fn: fn}
}

func (f *funcOperation) Name() string                      { return f.name }
func (f *funcOperation) Execute(ctx context.Context) error { return f.fn(ctx) }

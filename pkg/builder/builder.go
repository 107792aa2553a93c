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

// Package builder runs the external documentation builder over the aggregated tree.
package builder

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/docmerge/pkg/config"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrBuilderNotFound is returned when the builder executable is not on PATH
	ErrBuilderNotFound = errors.Base("documentation builder not found")
	// ErrBuildFailed is wrapped by every BuildError
	ErrBuildFailed = errors.Base("documentation build failed")
)

// ❌ BuildError reports a builder that exited unsuccessfully
type BuildError struct {
	Command  string
	ExitCode int
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
}

func (e *BuildError) Unwrap() error {
	return ErrBuildFailed
}

// 🔨 Builder invokes <command> -b <format> [args...] <source> <output>
type Builder struct {
	Command string
	Format  string
	Args    []string
	Dir     string    // Working directory, the repository root
	Stdout  io.Writer // Receives the builder's stdout, discarded when nil
	Stderr  io.Writer // Receives the builder's stderr, discarded when nil
}

// 🏭 New creates a builder from the configuration
func New(cfg *config.Config, stdout, stderr io.Writer) *Builder {
	return &Builder{
		Command: cfg.Builder.Command,
		Format:  cfg.Builder.Format,
		Args:    cfg.Builder.Args,
		Dir:     cfg.Root,
		Stdout:  stdout,
		Stderr:  stderr,
	}
}

// Argv returns the full command line for a build
func (b *Builder) Argv(sourceDir, outDir string) []string {
	argv := []string{b.Command, "-b", b.Format}
	argv = append(argv, b.Args...)
	return append(argv, sourceDir, outDir)
}

// 🏃 Build renders sourceDir into outDir, streaming the builder's output
func (b *Builder) Build(ctx context.Context, sourceDir, outDir string) error {
	logger := zerolog.Ctx(ctx)

	path, err := exec.LookPath(b.Command)
	if err != nil {
		return errors.Errorf("%w: %s (%s)", ErrBuilderNotFound, b.Command, err.Error())
	}

	if info, err := os.Stat(sourceDir); err != nil {
		return errors.Errorf("checking source directory: %w", err)
	} else if !info.IsDir() {
		return errors.Errorf("source %s is not a directory", sourceDir)
	}

	argv := b.Argv(sourceDir, outDir)
	cmd := exec.CommandContext(ctx, path, argv[1:]...)
	cmd.Dir = b.Dir
	cmd.Stdout = orDiscard(b.Stdout)
	cmd.Stderr = orDiscard(b.Stderr)

	logger.Debug().Str("dir", b.Dir).Str("command", strings.Join(argv, " ")).Msg("running documentation builder")
	start := time.Now()

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return errors.Errorf("build cancelled: %w", ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return errors.WithStack(&BuildError{Command: b.Command, ExitCode: exitErr.ExitCode()})
		}
		return errors.Errorf("running %s: %w", b.Command, err)
	}

	logger.Info().Str("output", outDir).Dur("duration", time.Since(start)).Msg("documentation built")
	return nil
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

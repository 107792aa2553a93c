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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/walteh/docmerge/pkg/builder"
	"github.com/walteh/docmerge/pkg/config"
	"github.com/walteh/docmerge/pkg/serve"
	"gitlab.com/tozd/go/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, describeError(err))
		return 1
	}
	return 0
}

// describeError renders a failure with a message specific to its category
func describeError(err error) string {
	switch {
	case errors.Is(err, builder.ErrBuilderNotFound):
		return fmt.Sprintf("❌ documentation builder not found, install Sphinx or set %s\n   %v", config.EnvBuilder, err)
	case errors.Is(err, builder.ErrBuildFailed):
		return fmt.Sprintf("❌ documentation build failed\n   %v", err)
	case errors.Is(err, serve.ErrPortInUse):
		return fmt.Sprintf("❌ port already in use, pick another with --port\n   %v", err)
	case errors.Is(err, serve.ErrNotBuilt):
		return fmt.Sprintf("❌ documentation has not been built, %s\n   %v", serve.BuildHint, err)
	default:
		return fmt.Sprintf("❌ %v", err)
	}
}

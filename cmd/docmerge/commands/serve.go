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

package commands

import (
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/docmerge/cmd/docmerge/opts"
	"github.com/walteh/docmerge/pkg/serve"
	"gitlab.com/tozd/go/errors"
)

// NewServeCommand creates the serve command
func NewServeCommand(o *opts.RootOpts) *cobra.Command {
	var (
		port      int
		host      string
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the built documentation locally",
		Long: `Serve previews the build directory over HTTP and opens it in a browser.
Press Ctrl+C to stop the server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "serve").Logger().WithContext(ctx)

			cfg := o.Config
			if cmd.Flags().Changed("port") {
				cfg.Serve.Port = port
			}
			if cmd.Flags().Changed("host") {
				cfg.Serve.Host = host
			}
			if noBrowser {
				cfg.Serve.NoBrowser = true
			}
			if err := cfg.Validate(); err != nil {
				return errors.Errorf("invalid serve options: %w", err)
			}

			srv := serve.New(cfg)
			srv.Console = o.Console
			ln, err := srv.Listen(ctx)
			if err != nil {
				return errors.Errorf("starting server: %w", err)
			}

			o.Console.Raw(pterm.DefaultHeader.Sprint("Serving documentation") + "\n")
			o.Console.Successf("serving %s at %s", cfg.Rel(srv.Dir), serve.URL(ln))
			o.Console.Info("press Ctrl+C to stop")

			if err := srv.Serve(ctx, ln); err != nil {
				return errors.Errorf("serving documentation: %w", err)
			}
			o.Console.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8000, "port to listen on")
	cmd.Flags().StringVar(&host, "host", "", "host to bind, all interfaces when empty")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "do not open a browser")

	return cmd
}

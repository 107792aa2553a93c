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

// Package serve previews the built documentation over HTTP.
package serve

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/walteh/docmerge/pkg/config"
	"github.com/walteh/docmerge/pkg/log"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotBuilt is returned when the build output directory does not exist
	ErrNotBuilt = errors.Base("documentation has not been built")
	// ErrPortInUse is returned when the listen address is already bound
	ErrPortInUse = errors.Base("port already in use")
)

// BuildHint tells the user how to produce the output directory
const BuildHint = "run: docmerge build"

// Opener opens url in a browser
type Opener func(url string) error

// 🌐 Server serves a static directory until its context is cancelled
type Server struct {
	Dir             string
	Host            string
	Port            int
	OpenBrowser     bool
	Opener          Opener
	ShutdownTimeout time.Duration

	// Console receives one line per request when set
	Console *log.Logger
}

// 🏭 New creates a server for the configured build directory
func New(cfg *config.Config) *Server {
	return &Server{
		Dir:             cfg.BuildPath(),
		Host:            cfg.Serve.Host,
		Port:            cfg.Serve.Port,
		OpenBrowser:     !cfg.Serve.NoBrowser,
		Opener:          browser.OpenURL,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Addr is the listen address
func (s *Server) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// URL is the address a browser should open for listener ln
func URL(ln net.Listener) string {
	host, port, err := net.SplitHostPort(ln.Addr().String())
	if err != nil {
		return "http://" + ln.Addr().String() + "/"
	}
	if ip := net.ParseIP(host); ip == nil || ip.IsUnspecified() {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}

// 🔍 Listen checks the output directory and binds the listen address
func (s *Server) Listen(ctx context.Context) (net.Listener, error) {
	info, err := os.Stat(s.Dir)
	if err != nil || !info.IsDir() {
		return nil, errors.Errorf("%w: %s not found, %s", ErrNotBuilt, s.Dir, BuildHint)
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.Addr())
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return nil, errors.Errorf("%w: %s", ErrPortInUse, s.Addr())
		}
		return nil, errors.Errorf("listening on %s: %w", s.Addr(), err)
	}
	return ln, nil
}

// Handler serves Dir and logs every request
func (s *Server) Handler(ctx context.Context) http.Handler {
	logger := zerolog.Ctx(ctx)
	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
		if s.Console != nil {
			s.Console.Raw(fmt.Sprintf("%s %s %s %d %s\n",
				time.Now().Format(time.TimeOnly), r.Method, r.URL.RequestURI(), status, duration.Round(time.Millisecond)))
		}
	})
	return hlog.NewHandler(*logger)(access(http.FileServer(http.Dir(s.Dir))))
}

// 🏃 Serve serves on ln until ctx is cancelled, then shuts down gracefully.
// A cancelled context is a clean exit.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logger := zerolog.Ctx(ctx)
	srv := &http.Server{
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	url := URL(ln)
	logger.Info().Str("url", url).Str("dir", s.Dir).Msg("serving documentation")

	if s.OpenBrowser && s.Opener != nil {
		if err := s.Opener(url); err != nil {
			logger.Warn().Err(err).Str("url", url).Msg("could not open browser")
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Errorf("serving: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		timeout := s.ShutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Errorf("shutting down: %w", err)
		}
		logger.Info().Msg("server stopped")
		return nil
	})
	return g.Wait()
}

// ListenAndServe binds the address and serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := s.Listen(ctx)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

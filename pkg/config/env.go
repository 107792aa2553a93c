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

package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gitlab.com/tozd/go/errors"
)

// Environment variables that override the loaded configuration
const (
	EnvBuilder     = "DOCMERGE_BUILDER"
	EnvBuildFormat = "DOCMERGE_BUILD_FORMAT"
	EnvHost        = "DOCMERGE_HOST"
	EnvPort        = "DOCMERGE_PORT"
	EnvNoBrowser   = "DOCMERGE_NO_BROWSER"
)

// LookupFunc resolves an environment variable
type LookupFunc func(key string) (string, bool)

// 🌱 ReadDotEnv reads root/.env without touching the process environment.
// A missing file yields an empty map.
func ReadDotEnv(root string) (map[string]string, error) {
	path := filepath.Join(root, ".env")
	env, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, errors.Errorf("reading %s: %w", path, err)
	}
	return env, nil
}

// Lookup prefers the process environment and falls back to dotenv values
func Lookup(dotenv map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

// 🔄 ApplyEnv overrides builder and server settings from the environment
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	if v, ok := lookup(EnvBuilder); ok && v != "" {
		cfg.Builder.Command = v
	}
	if v, ok := lookup(EnvBuildFormat); ok && v != "" {
		cfg.Builder.Format = v
	}
	if v, ok := lookup(EnvHost); ok {
		cfg.Serve.Host = v
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Errorf("%s: %w", EnvPort, err)
		}
		cfg.Serve.Port = port
	}
	if v, ok := lookup(EnvNoBrowser); ok && v != "" {
		noBrowser, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Errorf("%s: %w", EnvNoBrowser, err)
		}
		cfg.Serve.NoBrowser = noBrowser
	}
	return nil
}

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
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, filename string, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// Candidates are the config file names looked up in the repository root
var Candidates = []string{"docmerge.yaml", "docmerge.yml", "docmerge.hcl", "docmerge.json"}

// 🎯 Load loads, defaults and validates the configuration in path.
// The root defaults to the directory containing the file.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, path, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	if cfg.Root == "" {
		abs, err := filepath.Abs(filepath.Dir(path))
		if err != nil {
			return nil, errors.Errorf("resolving config directory: %w", err)
		}
		cfg.Root = abs
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔎 Discover resolves the configuration for a repository root: an explicit
// path wins, then the first candidate file found in root, then the built-in
// table. Environment overrides are applied last.
func Discover(ctx context.Context, root, explicit string) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving root: %w", err)
	}

	var cfg *Config
	if explicit != "" {
		if !filepath.IsAbs(explicit) {
			explicit = filepath.Join(absRoot, explicit)
		}
		if cfg, err = Load(ctx, explicit); err != nil {
			return nil, err
		}
	} else {
		for _, name := range Candidates {
			path := filepath.Join(absRoot, name)
			if _, statErr := os.Stat(path); statErr != nil {
				if errors.Is(statErr, fs.ErrNotExist) {
					continue
				}
				return nil, errors.Errorf("checking %s: %w", name, statErr)
			}
			if cfg, err = Load(ctx, path); err != nil {
				return nil, err
			}
			break
		}
	}

	if cfg == nil {
		logger.Debug().Str("root", absRoot).Msg("no config file found, using built-in sources")
		cfg = Default(absRoot)
	}
	// the repository root is where the command runs, not where the file lives
	cfg.Root = absRoot

	env, err := ReadDotEnv(absRoot)
	if err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg, Lookup(env)); err != nil {
		return nil, errors.Errorf("applying environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("config", cfg.String()).Str("hash", cfg.Hash()).Msg("configuration resolved")
	return cfg, nil
}

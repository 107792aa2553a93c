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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 📦 Source is one documentation source aggregated into the unified tree
type Source struct {
	Name          string   `json:"name" yaml:"name"`                                         // Source name, default destination name
	Path          string   `json:"path" yaml:"path"`                                         // Directory relative to the submodules directory
	Dest          string   `json:"dest,omitempty" yaml:"dest,omitempty"`                     // Directory relative to the docs source root
	Files         []string `json:"files" yaml:"files"`                                       // Files and directories to copy, in order
	IndexTemplate string   `json:"index_template,omitempty" yaml:"index_template,omitempty"` // Template used when the source has no index
	Exclude       []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`               // Globs skipped while copying directories
}

// Repo returns the submodule checkout the source lives in
func (s Source) Repo() string {
	clean := filepath.ToSlash(filepath.Clean(s.Path))
	if i := strings.Index(clean, "/"); i >= 0 {
		return clean[:i]
	}
	return clean
}

// DestDir returns the destination directory relative to the docs source root
func (s Source) DestDir() string {
	if s.Dest != "" {
		return s.Dest
	}
	return s.Name
}

// 🔨 BuilderConfig describes the external documentation builder
type BuilderConfig struct {
	Command string   `json:"command,omitempty" yaml:"command,omitempty"`
	Format  string   `json:"format,omitempty" yaml:"format,omitempty"`
	Args    []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// 🌐 ServeConfig describes the local preview server
type ServeConfig struct {
	Host      string `json:"host,omitempty" yaml:"host,omitempty"`
	Port      int    `json:"port,omitempty" yaml:"port,omitempty"`
	NoBrowser bool   `json:"no_browser,omitempty" yaml:"no_browser,omitempty"`
}

// ✂️ StripConfig lists the index sections removed from copied index documents
type StripConfig struct {
	Titles []string `json:"titles,omitempty" yaml:"titles,omitempty"`
}

// 📚 Config is the complete docmerge configuration.
// Relative directories are resolved against Root.
type Config struct {
	Root              string        `json:"-" yaml:"-"`
	SubmodulesDir     string        `json:"submodules_dir,omitempty" yaml:"submodules_dir,omitempty"`
	SourceDir         string        `json:"source_dir,omitempty" yaml:"source_dir,omitempty"`
	IndexTemplatesDir string        `json:"index_templates_dir,omitempty" yaml:"index_templates_dir,omitempty"`
	BuildDir          string        `json:"build_dir,omitempty" yaml:"build_dir,omitempty"`
	IndexDocument     string        `json:"index_document,omitempty" yaml:"index_document,omitempty"`
	StaticDir         string        `json:"static_dir,omitempty" yaml:"static_dir,omitempty"`
	Builder           BuilderConfig `json:"builder,omitempty" yaml:"builder,omitempty"`
	Serve             ServeConfig   `json:"serve,omitempty" yaml:"serve,omitempty"`
	Strip             StripConfig   `json:"strip,omitempty" yaml:"strip,omitempty"`
	Sources           []Source      `json:"sources,omitempty" yaml:"sources,omitempty"`

	location string
}

// Location returns the file the config was loaded from, empty for built-in defaults
func (cfg *Config) Location() string {
	return cfg.location
}

// 🔧 SetDefaults fills every unset field
func (cfg *Config) SetDefaults() {
	if cfg.SubmodulesDir == "" {
		cfg.SubmodulesDir = "submodules"
	}
	if cfg.SourceDir == "" {
		cfg.SourceDir = filepath.Join("docs", "source")
	}
	if cfg.IndexTemplatesDir == "" {
		cfg.IndexTemplatesDir = filepath.Join("docs", "submodule-indexes")
	}
	if cfg.BuildDir == "" {
		cfg.BuildDir = filepath.Join("docs", "_build", "html")
	}
	if cfg.IndexDocument == "" {
		cfg.IndexDocument = "index.rst"
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = "_static"
	}
	if cfg.Builder.Command == "" {
		cfg.Builder.Command = "sphinx-build"
	}
	if cfg.Builder.Format == "" {
		cfg.Builder.Format = "html"
	}
	if cfg.Serve.Port == 0 {
		cfg.Serve.Port = 8000
	}
	if len(cfg.Strip.Titles) == 0 {
		cfg.Strip.Titles = []string{"Indices and tables", "Index"}
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = DefaultSources()
	}
}

// 🔍 Validate checks that the configuration is usable
func (cfg *Config) Validate() error {
	if cfg.Builder.Command == "" {
		return errors.Errorf("builder.command is required")
	}
	if cfg.Serve.Port < 1 || cfg.Serve.Port > 65535 {
		return errors.Errorf("serve.port %d is out of range", cfg.Serve.Port)
	}
	if filepath.Base(cfg.IndexDocument) != cfg.IndexDocument {
		return errors.Errorf("index_document must be a file name, got %q", cfg.IndexDocument)
	}

	seen := map[string]bool{}
	var claimed []Source
	for i, s := range cfg.Sources {
		if s.Name == "" {
			return errors.Errorf("sources[%d]: name is required", i)
		}
		if seen[s.Name] {
			return errors.Errorf("sources[%d]: duplicate name %q", i, s.Name)
		}
		seen[s.Name] = true

		if s.Path == "" {
			return errors.Errorf("source %s: path is required", s.Name)
		}
		if !filepath.IsLocal(s.Path) {
			return errors.Errorf("source %s: path %q must stay inside the submodules directory", s.Name, s.Path)
		}
		if !filepath.IsLocal(s.DestDir()) {
			return errors.Errorf("source %s: dest %q must stay inside the source directory", s.Name, s.DestDir())
		}
		if filepath.Clean(s.DestDir()) == "." {
			return errors.Errorf("source %s: dest %q must be a subdirectory of the source directory", s.Name, s.DestDir())
		}
		for _, other := range claimed {
			a, b := filepath.Clean(other.DestDir()), filepath.Clean(s.DestDir())
			if a == b {
				return errors.Errorf("source %s: dest %q is already used by %s", s.Name, s.DestDir(), other.Name)
			}
			if nested(a, b) || nested(b, a) {
				return errors.Errorf("source %s: dest %q overlaps dest %q of %s", s.Name, s.DestDir(), other.DestDir(), other.Name)
			}
		}
		claimed = append(claimed, s)

		if len(s.Files) == 0 {
			return errors.Errorf("source %s: at least one file is required", s.Name)
		}
		for _, f := range s.Files {
			if !filepath.IsLocal(f) {
				return errors.Errorf("source %s: file %q must be relative to the source", s.Name, f)
			}
		}
		if s.IndexTemplate != "" && !filepath.IsLocal(s.IndexTemplate) {
			return errors.Errorf("source %s: index_template %q must be relative to the templates directory", s.Name, s.IndexTemplate)
		}
	}
	return nil
}

// nested reports whether child lies below parent, compared by path segment
func nested(parent, child string) bool {
	return strings.HasPrefix(child, parent+string(filepath.Separator))
}

// resolve joins rel onto the root unless it is already absolute
func (cfg *Config) resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(cfg.Root, rel)
}

// SubmodulesPath is the directory holding one checkout per source repository
func (cfg *Config) SubmodulesPath() string { return cfg.resolve(cfg.SubmodulesDir) }

// SourceRoot is the documentation builder's input directory
func (cfg *Config) SourceRoot() string { return cfg.resolve(cfg.SourceDir) }

// TemplatesPath is the directory holding index templates
func (cfg *Config) TemplatesPath() string { return cfg.resolve(cfg.IndexTemplatesDir) }

// BuildPath is the documentation builder's output directory
func (cfg *Config) BuildPath() string { return cfg.resolve(cfg.BuildDir) }

// SourcePath is where a source's documentation is read from
func (cfg *Config) SourcePath(s Source) string {
	return filepath.Join(cfg.SubmodulesPath(), s.Path)
}

// RepoPath is the submodule checkout containing a source
func (cfg *Config) RepoPath(s Source) string {
	return filepath.Join(cfg.SubmodulesPath(), s.Repo())
}

// DestPath is the directory a source is aggregated into
func (cfg *Config) DestPath(s Source) string {
	return filepath.Join(cfg.SourceRoot(), s.DestDir())
}

// TemplatePath is the index template for a source, empty when none is declared
func (cfg *Config) TemplatePath(s Source) string {
	if s.IndexTemplate == "" {
		return ""
	}
	return filepath.Join(cfg.TemplatesPath(), s.IndexTemplate)
}

// Rel renders path relative to the root for display
func (cfg *Config) Rel(path string) string {
	rel, err := filepath.Rel(cfg.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// 🔑 Hash returns a stable digest of the source table
func (cfg *Config) Hash() string {
	h := sha256.New()
	for _, s := range cfg.Sources {
		fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\x00%s\x00%s\n",
			s.Name, s.Path, s.DestDir(),
			strings.Join(s.Files, "\x01"), s.IndexTemplate, strings.Join(s.Exclude, "\x01"))
	}
	fmt.Fprintf(h, "%s\x00%s\x00%s\n", cfg.IndexDocument, cfg.StaticDir, strings.Join(cfg.Strip.Titles, "\x01"))
	return hex.EncodeToString(h.Sum(nil))
}

// 📝 String returns a short description of the config
func (cfg *Config) String() string {
	from := cfg.location
	if from == "" {
		from = "built-in"
	}
	return fmt.Sprintf("%d sources (%s): %s -> %s", len(cfg.Sources), from, cfg.SubmodulesDir, cfg.SourceDir)
}

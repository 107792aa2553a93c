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

// DefaultSources is the built-in source table for the HED documentation site
func DefaultSources() []Source {
	return []Source{
		{
			Name:  "hed-python",
			Path:  "hed-python/docs",
			Files: []string{"index.rst", "overview.md", "user_guide.md", "api/"},
		},
		{
			Name: "table-remodeler",
			Path: "table-remodeler/docs",
			Files: []string{
				"index.rst",
				"introduction.md",
				"quickstart.md",
				"user_guide.md",
				"custom_operations.md",
				"operations/",
				"api/",
			},
		},
		{
			Name:  "hed-vis",
			Path:  "hed-vis/docs",
			Files: []string{"index.rst", "overview.md", "user_guide.md", "api/"},
		},
		{
			Name:          "hed-mcp",
			Path:          "hed-mcp",
			Files:         []string{"README.md", "EXAMPLES.md", "API.md"},
			IndexTemplate: "hed-mcp-index.rst",
		},
		{
			Name:          "hed-javascript",
			Path:          "hed-javascript",
			Files:         []string{"README.md"},
			IndexTemplate: "hed-javascript-index.rst",
		},
		{
			Name: "hed-matlab",
			Path: "hed-matlab/docs",
			Files: []string{
				"index.rst",
				"overview.md",
				"user_guide.md",
				"development.md",
				"api2.rst",
			},
		},
		{
			Name: "ndx-hed",
			Path: "ndx-hed/docs/source",
			Files: []string{
				"index.rst",
				"description.rst",
				"format.rst",
				"release_notes.rst",
				"credits.rst",
				"api.rst",
			},
		},
		{
			Name: "hed-schemas",
			Path: "hed-schemas/docs/source",
			Files: []string{
				"index.rst",
				"introduction.md",
				"user_guide.md",
				"developer_guide.md",
				"contributing.md",
				"schemas_reference.md",
				"api2.rst",
			},
		},
		{
			Name: "hed-web",
			Path: "hed-web/docs",
			Files: []string{
				"index.rst",
				"introduction.md",
				"installation.md",
				"user_guide.md",
				"api/",
			},
		},
		{
			Name: "CTagger",
			Path: "CTagger/docs",
			Files: []string{
				"index.rst",
				"introduction.md",
				"user_guide.md",
				"ctagger_in_eeglab.md",
			},
		},
	}
}

// Default returns the built-in configuration rooted at root
func Default(root string) *Config {
	cfg := &Config{Root: root}
	cfg.SetDefaults()
	return cfg
}

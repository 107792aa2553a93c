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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

// 📝 Parse parses the config from HCL.
// Sources are labeled blocks: source "name" { path = "..." files = [...] }
func (p *HCLParser) Parse(ctx context.Context, filename string, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// Define HCL schema
	type hclConfig struct {
		SubmodulesDir     string `hcl:"submodules_dir,optional"`
		SourceDir         string `hcl:"source_dir,optional"`
		IndexTemplatesDir string `hcl:"index_templates_dir,optional"`
		BuildDir          string `hcl:"build_dir,optional"`
		IndexDocument     string `hcl:"index_document,optional"`
		StaticDir         string `hcl:"static_dir,optional"`
		Builder           *struct {
			Command string   `hcl:"command,optional"`
			Format  string   `hcl:"format,optional"`
			Args    []string `hcl:"args,optional"`
		} `hcl:"builder,block"`
		Serve *struct {
			Host      string `hcl:"host,optional"`
			Port      int    `hcl:"port,optional"`
			NoBrowser bool   `hcl:"no_browser,optional"`
		} `hcl:"serve,block"`
		Strip *struct {
			Titles []string `hcl:"titles,optional"`
		} `hcl:"strip,block"`
		Sources []struct {
			Name          string   `hcl:"name,label"`
			Path          string   `hcl:"path"`
			Dest          string   `hcl:"dest,optional"`
			Files         []string `hcl:"files"`
			IndexTemplate string   `hcl:"index_template,optional"`
			Exclude       []string `hcl:"exclude,optional"`
		} `hcl:"source,block"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		SubmodulesDir:     hclCfg.SubmodulesDir,
		SourceDir:         hclCfg.SourceDir,
		IndexTemplatesDir: hclCfg.IndexTemplatesDir,
		BuildDir:          hclCfg.BuildDir,
		IndexDocument:     hclCfg.IndexDocument,
		StaticDir:         hclCfg.StaticDir,
	}
	if hclCfg.Builder != nil {
		cfg.Builder = BuilderConfig{
			Command: hclCfg.Builder.Command,
			Format:  hclCfg.Builder.Format,
			Args:    hclCfg.Builder.Args,
		}
	}
	if hclCfg.Serve != nil {
		cfg.Serve = ServeConfig{
			Host:      hclCfg.Serve.Host,
			Port:      hclCfg.Serve.Port,
			NoBrowser: hclCfg.Serve.NoBrowser,
		}
	}
	if hclCfg.Strip != nil {
		cfg.Strip.Titles = hclCfg.Strip.Titles
	}
	for _, s := range hclCfg.Sources {
		cfg.Sources = append(cfg.Sources, Source{
			Name:          s.Name,
			Path:          s.Path,
			Dest:          s.Dest,
			Files:         s.Files,
			IndexTemplate: s.IndexTemplate,
			Exclude:       s.Exclude,
		})
	}

	return cfg, nil
}

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
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/docmerge/pkg/config"
	"github.com/walteh/docmerge/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// SubmoduleHint is printed when a source checkout is absent
const SubmoduleHint = "run: git submodule update --init --recursive"

// 📋 SourceReport describes what happened to one source
type SourceReport struct {
	Name          string
	Source        string
	Destination   string
	Revision      string
	Skipped       bool     // Source directory was missing, nothing was written
	Copied        []string // Declared items copied, in order
	Missing       []string // Declared items absent from the source
	StrippedLines int      // Lines removed from the index document
	StrippedIndex bool
	StaticCopied  bool
	TemplateUsed  bool
	// TemplateMissing is set when a declared template could not be found
	TemplateMissing bool
}

// 📊 Report is the result of an aggregation run
type Report struct {
	Sources []SourceReport
}

// Skipped returns the names of sources that were not aggregated
func (r *Report) Skipped() []string {
	var names []string
	for _, s := range r.Sources {
		if s.Skipped {
			names = append(names, s.Name)
		}
	}
	return names
}

// MissingItems counts declared items absent across all sources
func (r *Report) MissingItems() int {
	n := 0
	for _, s := range r.Sources {
		n += len(s.Missing)
	}
	return n
}

// Aggregated counts sources that were written
func (r *Report) Aggregated() int {
	return len(r.Sources) - len(r.Skipped())
}

// 📦 AggregateOperation copies every configured source into the docs tree
type AggregateOperation struct {
	BaseOperation
	report *Report
}

// 🏭 NewAggregateOperation creates a new aggregate operation
func NewAggregateOperation(opts Options) *AggregateOperation {
	return &AggregateOperation{BaseOperation: NewBaseOperation(opts)}
}

func (op *AggregateOperation) Name() string { return "aggregate" }

// Report returns the result of the last Execute, nil before the first run
func (op *AggregateOperation) Report() *Report { return op.report }

// 🏃 Execute runs the aggregation
func (op *AggregateOperation) Execute(ctx context.Context) error {
	report, err := op.Aggregate(ctx)
	op.report = report
	return err
}

// Aggregate processes the sources in configuration order. Missing sources and
// items are reported and skipped; any other failure stops the run. Work done
// before a failure is left in place.
func (op *AggregateOperation) Aggregate(ctx context.Context) (*Report, error) {
	if err := op.validate(); err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx)
	console := op.console(ctx)
	report := &Report{}

	console.Header(fmt.Sprintf("aggregating %d sources into %s", len(op.Config.Sources), op.Config.Rel(op.Config.SourceRoot())))

	for _, s := range op.Config.Sources {
		if err := ctx.Err(); err != nil {
			return report, errors.Errorf("aggregation cancelled: %w", err)
		}

		sr, err := op.aggregateSource(ctx, console, s)
		report.Sources = append(report.Sources, sr)
		if err != nil {
			return report, errors.Errorf("aggregating %s: %w", s.Name, err)
		}
	}

	console.Newline()
	if skipped := report.Skipped(); len(skipped) > 0 {
		console.Warningf("%d of %d sources skipped: %v", len(skipped), len(report.Sources), skipped)
	}
	console.Successf("aggregated %d sources into %s", report.Aggregated(), op.Config.Rel(op.Config.SourceRoot()))

	logger.Info().
		Int("sources", len(report.Sources)).
		Int("skipped", len(report.Skipped())).
		Int("missing_items", report.MissingItems()).
		Msg("aggregation complete")

	return report, nil
}

func (op *AggregateOperation) aggregateSource(ctx context.Context, console *log.Logger, s config.Source) (SourceReport, error) {
	cfg := op.Config
	src := cfg.SourcePath(s)
	dest := cfg.DestPath(s)

	sr := SourceReport{
		Name:        s.Name,
		Source:      cfg.Rel(src),
		Destination: cfg.Rel(dest),
	}

	present, err := op.FS.IsDir(ctx, src)
	if err != nil {
		return sr, errors.Errorf("checking source directory: %w", err)
	}
	if !present {
		sr.Skipped = true
		console.Warningf("source directory not found for %s: %s", s.Name, sr.Source)
		console.Hint(SubmoduleHint)
		return sr, nil
	}

	sr.Revision = op.revision(ctx, s)

	console.StartSource(ctx, log.SourceOperation{
		Name:        s.Name,
		From:        sr.Source,
		Destination: sr.Destination,
		Revision:    sr.Revision,
	})
	defer console.EndSource(ctx)

	if err := op.FS.RemoveAll(ctx, dest); err != nil {
		return sr, errors.Errorf("clearing destination: %w", err)
	}
	if err := op.FS.MkdirAll(ctx, dest); err != nil {
		return sr, errors.Errorf("creating destination: %w", err)
	}

	for _, item := range s.Files {
		if err := op.copyItem(ctx, console, s, item, &sr); err != nil {
			return sr, errors.Errorf("copying %s: %w", item, err)
		}
	}

	if err := op.copyStatic(ctx, console, s, &sr); err != nil {
		return sr, err
	}

	if err := op.applyTemplate(ctx, console, s, &sr); err != nil {
		return sr, err
	}

	return sr, nil
}

// 📄 copyItem copies one declared file or directory
func (op *AggregateOperation) copyItem(ctx context.Context, console *log.Logger, s config.Source, item string, sr *SourceReport) error {
	from := filepath.Join(op.Config.SourcePath(s), item)
	to := filepath.Join(op.Config.DestPath(s), item)

	exists, err := op.FS.Exists(ctx, from)
	if err != nil {
		return err
	}
	if !exists {
		sr.Missing = append(sr.Missing, item)
		console.Item(ctx, log.ItemOperation{Path: item, Kind: log.KindFile, Status: "missing", IsMissing: true})
		return nil
	}

	isDir, err := op.FS.IsDir(ctx, from)
	if err != nil {
		return err
	}
	if isDir {
		if err := op.FS.CopyTree(ctx, from, to, s.Exclude); err != nil {
			return err
		}
		sr.Copied = append(sr.Copied, item)
		console.Item(ctx, log.ItemOperation{Path: item, Kind: log.KindDirectory, Status: "copied"})
		return nil
	}

	if err := op.FS.MkdirAll(ctx, filepath.Dir(to)); err != nil {
		return err
	}
	if err := op.FS.CopyFile(ctx, from, to); err != nil {
		return err
	}
	sr.Copied = append(sr.Copied, item)

	if filepath.Clean(item) != op.Config.IndexDocument {
		console.Item(ctx, log.ItemOperation{Path: item, Kind: log.KindFile, Status: "copied"})
		return nil
	}

	result, err := op.Stripper.StripFile(ctx, op.FS, to)
	if err != nil {
		return errors.Errorf("stripping index sections: %w", err)
	}
	sr.StrippedIndex = result.WasModified
	sr.StrippedLines = result.RemovedLines

	status := "copied"
	if result.RemovedLines > 0 {
		status = fmt.Sprintf("stripped %d", result.RemovedLines)
	}
	console.Item(ctx, log.ItemOperation{Path: item, Kind: log.KindFile, Status: status, Stripped: result.RemovedLines})
	return nil
}

// 🎨 copyStatic copies the source's static assets, when present
func (op *AggregateOperation) copyStatic(ctx context.Context, console *log.Logger, s config.Source, sr *SourceReport) error {
	from := filepath.Join(op.Config.SourcePath(s), op.Config.StaticDir)
	isDir, err := op.FS.IsDir(ctx, from)
	if err != nil {
		return errors.Errorf("checking static directory: %w", err)
	}
	if !isDir {
		return nil
	}

	to := filepath.Join(op.Config.DestPath(s), op.Config.StaticDir)
	if err := op.FS.CopyTree(ctx, from, to, s.Exclude); err != nil {
		return errors.Errorf("copying static directory: %w", err)
	}
	sr.StaticCopied = true
	console.Item(ctx, log.ItemOperation{Path: op.Config.StaticDir + "/", Kind: log.KindStatic, Status: "copied"})
	return nil
}

// 📑 applyTemplate installs the declared index template for sources without an index document
func (op *AggregateOperation) applyTemplate(ctx context.Context, console *log.Logger, s config.Source, sr *SourceReport) error {
	tpl := op.Config.TemplatePath(s)
	if tpl == "" {
		return nil
	}

	native, err := op.FS.Exists(ctx, filepath.Join(op.Config.SourcePath(s), op.Config.IndexDocument))
	if err != nil {
		return errors.Errorf("checking native index: %w", err)
	}
	if native {
		zerolog.Ctx(ctx).Debug().Str("source", s.Name).Msg("source has its own index document, template not used")
		return nil
	}

	found, err := op.FS.Exists(ctx, tpl)
	if err != nil {
		return errors.Errorf("checking index template: %w", err)
	}
	if !found {
		sr.TemplateMissing = true
		console.Item(ctx, log.ItemOperation{Path: s.IndexTemplate, Kind: log.KindTemplate, Status: "missing", IsMissing: true})
		console.Warningf("index template not found for %s: %s", s.Name, op.Config.Rel(tpl))
		return nil
	}

	if err := op.FS.CopyFile(ctx, tpl, filepath.Join(op.Config.DestPath(s), op.Config.IndexDocument)); err != nil {
		return errors.Errorf("copying index template: %w", err)
	}
	sr.TemplateUsed = true
	console.Item(ctx, log.ItemOperation{Path: s.IndexTemplate, Kind: log.KindTemplate, Status: "-> " + op.Config.IndexDocument})
	return nil
}

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

// Package text post-processes copied outline markup documents.
package text

import (
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/docmerge/pkg/fsys"
	"gitlab.com/tozd/go/errors"
)

// DefaultTitles are the section titles removed from aggregated index documents
var DefaultTitles = []string{"Indices and tables", "Index"}

const (
	// HeadingUnderlines are the adornment characters accepted under a target title
	HeadingUnderlines = "=-"
	// SectionUnderline marks a top level section; it ends a skipped section
	SectionUnderline = '='
)

// ListPrefixes mark the list item and cross reference lines of a skipped section
var ListPrefixes = []string{"*", ":ref:"}

// 🔀 state is a state of the stripping automaton
type state int

const (
	stateNormal state = iota
	stateSkipping
)

func (s state) String() string {
	switch s {
	case stateNormal:
		return "normal"
	case stateSkipping:
		return "skipping"
	default:
		return "unknown"
	}
}

// ✂️ Stripper removes a named trailing section (title, underline and its
// list body) from an outline markup document
type Stripper struct {
	titles map[string]struct{}
}

// 📊 StripResult is the outcome of stripping one document
type StripResult struct {
	OriginalContent []byte
	ModifiedContent []byte
	WasModified     bool
	RemovedLines    int
}

// 🏭 NewStripper creates a Stripper for the given titles, or DefaultTitles when none are given
func NewStripper(titles ...string) *Stripper {
	if len(titles) == 0 {
		titles = DefaultTitles
	}
	s := &Stripper{titles: make(map[string]struct{}, len(titles))}
	for _, t := range titles {
		s.titles[strings.TrimSpace(t)] = struct{}{}
	}
	return s
}

// IsUnderline reports whether line is a non-empty run of a single character
// drawn from chars. Surrounding whitespace is ignored and length is irrelevant.
func IsUnderline(line, chars string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(line)
	if !strings.ContainsRune(chars, first) {
		return false
	}
	for _, r := range line {
		if r != first {
			return false
		}
	}
	return true
}

// IsListItem reports whether line is a bullet or cross reference line
func IsListItem(line string) bool {
	line = strings.TrimSpace(line)
	for _, p := range ListPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// IsHeading reports whether lines[i] is one of the target titles underlined by lines[i+1]
func (s *Stripper) IsHeading(lines []string, i int) bool {
	if _, ok := s.titles[strings.TrimSpace(lines[i])]; !ok {
		return false
	}
	return i+1 < len(lines) && IsUnderline(lines[i+1], HeadingUnderlines)
}

// IsSectionStart reports whether lines[i] is followed by a top level section underline
func IsSectionStart(lines []string, i int) bool {
	return i+1 < len(lines) && IsUnderline(lines[i+1], string(SectionUnderline))
}

// 🔁 step advances the automaton over lines[i], returning the next state and
// whether the line is kept
func (s *Stripper) step(st state, lines []string, i int) (state, bool) {
	if s.IsHeading(lines, i) {
		return stateSkipping, false
	}

	if st == stateNormal {
		return stateNormal, true
	}

	line := lines[i]
	switch {
	case strings.TrimSpace(line) == "":
		return stateSkipping, false
	case IsListItem(line):
		return stateSkipping, false
	case IsSectionStart(lines, i):
		return stateNormal, true
	default:
		return stateSkipping, false
	}
}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// StripLines runs the automaton over lines, trims trailing blank lines and
// returns the kept lines with the number of lines removed by the automaton
func (s *Stripper) StripLines(lines []string) ([]string, int) {
	out := make([]string, 0, len(lines))
	removed := 0
	st := stateNormal
	for i := range lines {
		var keep bool
		st, keep = s.step(st, lines, i)
		if keep {
			out = append(out, lines[i])
		} else {
			removed++
		}
	}

	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	return out, removed
}

// StripString strips content and guarantees exactly one trailing newline.
// CRLF and lone CR line endings are rewritten as LF.
func (s *Stripper) StripString(content string) (string, int) {
	content = lineEndings.Replace(content)
	lines, removed := s.StripLines(strings.Split(content, "\n"))
	return strings.Join(lines, "\n") + "\n", removed
}

// 📥 Strip reads a document from r and returns the stripped result
func (s *Stripper) Strip(ctx context.Context, r io.Reader) (*StripResult, error) {
	original, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	modified, removed := s.StripString(string(original))

	return &StripResult{
		OriginalContent: original,
		ModifiedContent: []byte(modified),
		WasModified:     modified != string(original),
		RemovedLines:    removed,
	}, nil
}

// 📝 StripFile strips the document at path in place
func (s *Stripper) StripFile(ctx context.Context, fs fsys.FS, path string) (*StripResult, error) {
	data, err := fs.ReadFile(ctx, path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}

	result, err := s.Strip(ctx, strings.NewReader(string(data)))
	if err != nil {
		return nil, err
	}

	if err := fs.WriteFile(ctx, path, result.ModifiedContent, 0o644); err != nil {
		return nil, errors.Errorf("writing %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int("removed_lines", result.RemovedLines).
		Bool("modified", result.WasModified).
		Msg("stripped index section")

	return result, nil
}

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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	itemIndent  = 4  // spaces to indent item entries
	nameWidth   = 35 // Base width for item name
	kindWidth   = 10 // Width for item kind
	statusWidth = 15 // Width for status text
)

// ItemKind is what an aggregated item is
type ItemKind string

const (
	KindFile      ItemKind = "file"
	KindDirectory ItemKind = "dir"
	KindStatic    ItemKind = "static"
	KindTemplate  ItemKind = "template"
)

// 🎯 ItemOperation is one file or directory copied for a source
type ItemOperation struct {
	Path      string   // Item path relative to the source
	Kind      ItemKind // File, directory, static or template
	Status    string   // Operation status
	IsMissing bool     // Whether the item was absent from the source
	Stripped  int      // Lines removed from an index document
}

// 📦 SourceOperation is the aggregation of a single source
type SourceOperation struct {
	Name        string // Source name
	From        string // Source directory, relative to the root
	Destination string // Destination directory, relative to the root
	Revision    string // Submodule HEAD, if known
}

// 🎯 Logger writes the console view of an operation and mirrors it to zerolog
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	mu        sync.Mutex
	currentOp *SourceOperation
	items     []ItemOperation
}

// 🏭 New creates a new logger. Console lines are also sent to zlog.
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a silent one when absent
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return New(io.Discard, *zerolog.Ctx(ctx))
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatItem formats an item operation for display
func (l *Logger) formatItem(op ItemOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.IsMissing:
		symbol = '✗'
		symbolColor = color.FgYellow
	case op.Stripped > 0:
		symbol = '✂'
		symbolColor = color.FgBlue
	default:
		symbol = '✓'
		symbolColor = color.FgGreen
	}

	var kindColor color.Attribute
	switch op.Kind {
	case KindDirectory:
		kindColor = color.FgCyan
	case KindStatic, KindTemplate:
		kindColor = color.FgMagenta
	default:
		kindColor = color.FgBlue
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", itemIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(kindColor).Sprint(fmt.Sprintf("%-*s", kindWidth, op.Kind)),
		fmt.Sprintf("%-*s", statusWidth, op.Status))
}

// 📝 Item logs an item operation
func (l *Logger) Item(ctx context.Context, op ItemOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = append(l.items, op)

	fmt.Fprintln(l.console, l.formatItem(op))

	ev := l.zlog.Info()
	if op.IsMissing {
		ev = l.zlog.Warn()
	}
	if l.currentOp != nil {
		ev = ev.Str("source", l.currentOp.Name)
	}
	ev.Str("item", op.Path).
		Str("kind", string(op.Kind)).
		Str("status", op.Status).
		Bool("missing", op.IsMissing).
		Int("stripped_lines", op.Stripped).
		Msg("item")
}

// 📝 StartSource starts logging a source
func (l *Logger) StartSource(ctx context.Context, op SourceOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.items = nil

	fmt.Fprintf(l.console, "[aggregating %s]\n",
		color.New(color.FgCyan).Sprint(op.Destination))

	line := fmt.Sprintf("%s %s %s %s",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Name),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(op.From))
	if op.Revision != "" {
		line += " " + color.New(color.Faint).Sprint("@"+op.Revision)
	}
	fmt.Fprintln(l.console, line)

	l.zlog.Info().
		Str("source", op.Name).
		Str("from", op.From).
		Str("destination", op.Destination).
		Str("revision", op.Revision).
		Msg("starting source")
}

// 📝 EndSource ends the current source
func (l *Logger) EndSource(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	missing := 0
	for _, it := range l.items {
		if it.IsMissing {
			missing++
		}
	}

	l.zlog.Info().
		Str("source", l.currentOp.Name).
		Int("items", len(l.items)).
		Int("missing", missing).
		Msg("source complete")

	l.currentOp = nil
	l.items = nil
}

// 📝 Newline logs a newline
func (l *Logger) Newline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("docmerge")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Hint logs an indented suggestion following a warning
func (l *Logger) Hint(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "%*s%s\n", itemIndent, "", color.New(color.Faint).Sprint(msg))
	l.zlog.Info().Str("hint", msg).Msg("hint")
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// Raw writes pre-rendered text, such as a table, to the console only
func (l *Logger) Raw(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.console, text)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

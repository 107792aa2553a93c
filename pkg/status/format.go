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

package status

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"
)

// 🎨 Formatter renders source statuses for the terminal
type Formatter interface {
	// FormatState formats a state with its symbol
	FormatState(state State) string
	// FormatTable renders one row per source
	FormatTable(statuses []SourceStatus) (string, error)
	// FormatSummary renders a one line summary
	FormatSummary(statuses []SourceStatus) string
}

// DefaultFormatter provides a default implementation of Formatter
type DefaultFormatter struct{}

// NewDefaultFormatter creates a new DefaultFormatter
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{}
}

// FormatState formats a state with a colored symbol
func (f *DefaultFormatter) FormatState(state State) string {
	switch state {
	case StatePresent:
		return color.GreenString("✓ present")
	case StateIncomplete:
		return color.YellowString("⚠ incomplete")
	case StateMissing:
		return color.RedString("✗ missing")
	default:
		return color.HiBlackString("? unknown")
	}
}

// FormatTable renders the statuses as a table
func (f *DefaultFormatter) FormatTable(statuses []SourceStatus) (string, error) {
	data := pterm.TableData{{"SOURCE", "STATE", "REVISION", "AGGREGATED", "MISSING ITEMS"}}
	for _, s := range statuses {
		rev := s.Revision
		if rev == "" {
			rev = "-"
		}
		aggregated := color.HiBlackString("no")
		if s.Aggregated {
			aggregated = "yes"
		}
		missing := "-"
		if len(s.MissingItems) > 0 {
			missing = strings.Join(s.MissingItems, ", ")
		}
		data = append(data, []string{s.Name, f.FormatState(s.State), rev, aggregated, missing})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", errors.Errorf("rendering table: %w", err)
	}
	return out + "\n", nil
}

// FormatSummary renders counts per state
func (f *DefaultFormatter) FormatSummary(statuses []SourceStatus) string {
	return fmt.Sprintf("%d sources: %d present, %d incomplete, %d missing",
		len(statuses),
		Count(statuses, StatePresent),
		Count(statuses, StateIncomplete),
		Count(statuses, StateMissing))
}

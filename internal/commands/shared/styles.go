// Copyright 2025 Tom Barlow
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

package shared

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// CLI style colors using lipgloss
var (
	// StatusOK styles success indicators
	StatusOK = lipgloss.NewStyle().Foreground(lipgloss.Color("42")) // green

	// StatusError styles error indicators
	StatusError = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // red

	// Muted styles secondary/less important text
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("245")) // gray

	// Header styles section headers
	Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")) // blue bold
)

// Symbols for status indicators
const (
	SymbolOK    = "✓"
	SymbolError = "✗"
	SymbolArrow = "→"
)

// IsTerminal reports whether w is a terminal that accepts styling.
// NO_COLOR disables styling regardless of the writer.
func IsTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Styler renders text for one writer, styled only when it is a terminal.
type Styler struct {
	styled bool
}

// NewStyler creates a Styler for w.
func NewStyler(w io.Writer) Styler {
	return Styler{styled: IsTerminal(w)}
}

func (s Styler) render(style lipgloss.Style, text string) string {
	if !s.styled {
		return text
	}
	return style.Render(text)
}

// Header renders a section header.
func (s Styler) Header(text string) string {
	return s.render(Header, text)
}

// Muted renders secondary text.
func (s Styler) Muted(text string) string {
	return s.render(Muted, text)
}

// OK renders a success message with green checkmark
func (s Styler) OK(msg string) string {
	return s.render(StatusOK, SymbolOK) + " " + msg
}

// Error renders an error message with red X
func (s Styler) Error(msg string) string {
	return s.render(StatusError, SymbolError) + " " + msg
}

// RenderErrorPrefix returns the "Error:" prefix for w, red on terminals.
func RenderErrorPrefix(w io.Writer) string {
	return NewStyler(w).render(StatusError, "Error:")
}

/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package highlight renders token streams as coloured terminal text.
//
// Rendering never changes the characters of the input: with colour off the
// output is the concatenated token text, and with colour on only escape
// sequences are added around non-blank runs.
package highlight

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"sqlsplit/internal/config"
	"sqlsplit/internal/sql"
)

// Palette used for token kinds.
var (
	ColorKeyword = lipgloss.Color("#20B9B4")
	ColorDML     = lipgloss.Color("#2CD7C7")
	ColorDDL     = lipgloss.Color("#F4D03F")
	ColorBuiltin = lipgloss.Color("#5DADE2")
	ColorString  = lipgloss.Color("#A9DC76")
	ColorNumber  = lipgloss.Color("#AB9DF2")
	ColorComment = lipgloss.Color("#6C7A80")
	ColorHint    = lipgloss.Color("#E59866")
	ColorOp      = lipgloss.Color("#E74C3C")
	ColorCommand = lipgloss.Color("#F78FB3")
)

// Theme maps token kinds to styles. Kinds without an entry are written
// unstyled.
type Theme map[sql.TokenKind]lipgloss.Style

// DefaultTheme returns the built-in theme bound to renderer r.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return Theme{
		sql.Keyword:            base.Foreground(ColorKeyword),
		sql.KeywordDML:         base.Foreground(ColorDML).Bold(true),
		sql.KeywordDDL:         base.Foreground(ColorDDL).Bold(true),
		sql.KeywordCTE:         base.Foreground(ColorDML).Bold(true),
		sql.KeywordOrder:       base.Foreground(ColorKeyword),
		sql.KeywordTZCast:      base.Foreground(ColorKeyword).Italic(true),
		sql.NameBuiltin:        base.Foreground(ColorBuiltin),
		sql.NamePlaceholder:    base.Foreground(ColorHint),
		sql.StringSingle:       base.Foreground(ColorString),
		sql.StringSymbol:       base.Foreground(ColorBuiltin).Italic(true),
		sql.Literal:            base.Foreground(ColorString),
		sql.NumberInteger:      base.Foreground(ColorNumber),
		sql.NumberFloat:        base.Foreground(ColorNumber),
		sql.NumberHexadecimal:  base.Foreground(ColorNumber),
		sql.Comment:            base.Foreground(ColorComment).Italic(true),
		sql.CommentMultiline:   base.Foreground(ColorComment).Italic(true),
		sql.CommentHint:        base.Foreground(ColorHint).Italic(true),
		sql.Comparison:         base.Foreground(ColorOp),
		sql.OperatorComparison: base.Foreground(ColorOp),
		sql.Operator:           base.Foreground(ColorOp),
		sql.Assignment:         base.Foreground(ColorOp),
		sql.Wildcard:           base.Foreground(ColorOp),
		sql.Command:            base.Foreground(ColorCommand).Bold(true),
	}
}

// Highlighter renders tokens with a Theme.
type Highlighter struct {
	theme Theme
	color bool
}

// New creates a Highlighter writing true-colour escapes when color is set.
func New(color bool) *Highlighter {
	r := lipgloss.NewRenderer(io.Discard)
	if color {
		r.SetColorProfile(termenv.TrueColor)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Highlighter{theme: DefaultTheme(r), color: color}
}

// Color reports whether escapes are written.
func (h *Highlighter) Color() bool {
	return h.color
}

// Render returns the highlighted text of tokens.
func (h *Highlighter) Render(tokens []sql.Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		style, ok := h.theme[tok.Kind]
		if !h.color || !ok {
			b.WriteString(tok.Text)
			continue
		}
		renderRuns(&b, style, tok.Text)
	}
	return b.String()
}

// RenderStatements renders each statement in order.
func (h *Highlighter) RenderStatements(stmts []sql.Statement) string {
	var b strings.Builder
	for _, st := range stmts {
		b.WriteString(h.Render(st.Tokens))
	}
	return b.String()
}

// renderRuns styles each run between line breaks separately. A multi-line
// lipgloss render would pad lines to a common width.
func renderRuns(b *strings.Builder, style lipgloss.Style, text string) {
	for text != "" {
		i := strings.IndexAny(text, "\r\n")
		if i < 0 {
			b.WriteString(style.Render(text))
			return
		}
		if i > 0 {
			b.WriteString(style.Render(text[:i]))
		}
		j := i
		for j < len(text) && (text[j] == '\r' || text[j] == '\n') {
			j++
		}
		b.WriteString(text[i:j])
		text = text[j:]
	}
}

// UseColor resolves a color mode against the output file. Auto enables
// colour only when f is a terminal and NO_COLOR is unset.
func UseColor(mode string, f *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return f != nil && term.IsTerminal(int(f.Fd()))
}

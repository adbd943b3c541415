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

/*
Package banner prints the sqlsplit banner and version information.

The ASCII logo is embedded from banner.txt at compile time. The shell shows
it on start together with a compact summary of the active configuration;
the version command prints the one-line form.

ANSI Color Codes:
=================

Format: \033[<code>m

  - 31: Red foreground
  - 32: Green foreground
  - 33: Yellow foreground
  - 36: Cyan foreground
  - 0:  Reset all attributes
  - 1:  Bold text
  - 2:  Dim text

Colors are only written when the caller asks for them, typically when
stdout is a terminal.
*/
package banner

import (
	_ "embed" // Required for the //go:embed directive
	"fmt"
	"io"
	"runtime"
	"strings"

	"sqlsplit/internal/config"
)

//go:embed banner.txt
var banner string

// ANSI escape codes for terminal text formatting.
const (
	AnsiRed    = "\033[31m"
	AnsiGreen  = "\033[32m"
	AnsiYellow = "\033[33m"
	AnsiCyan   = "\033[36m"
	AnsiReset  = "\033[0m"
	AnsiBold   = "\033[1m"
	AnsiDim    = "\033[2m"
)

// Version information for sqlsplit.
const (
	Version   = "01.26.14"
	Copyright = "(c)2026 Firefly Software Solutions Inc"
	License   = "Licensed under Apache 2.0"
)

// palette reports whether ANSI codes are written.
type palette bool

// c returns code when color is enabled and "" otherwise.
func (p palette) c(code string) string {
	if p {
		return code
	}
	return ""
}

// VersionString returns the one-line version description.
func VersionString() string {
	return fmt.Sprintf("sqlsplit v%s (%s, %s/%s)", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Print writes the logo, version and copyright lines.
func Print(w io.Writer, color bool) {
	p := palette(color)
	fmt.Fprintln(w, p.c(AnsiRed)+strings.TrimRight(banner, "\n")+p.c(AnsiReset))
	fmt.Fprintln(w, p.c(AnsiRed+AnsiBold)+":: sqlsplit ::                 (v"+Version+")"+p.c(AnsiReset))
	fmt.Fprintln(w, p.c(AnsiGreen+AnsiBold)+Copyright+p.c(AnsiReset))
	fmt.Fprintln(w, p.c(AnsiGreen+AnsiBold)+License+p.c(AnsiReset))
	fmt.Fprintln(w)
}

// PrintShell writes the shell start screen: banner, configuration source
// and a compact configuration summary.
func PrintShell(w io.Writer, cfg *config.Config, color bool) {
	p := palette(color)
	Print(w, color)

	fmt.Fprint(w, "  "+p.c(AnsiDim)+"Config: "+p.c(AnsiReset))
	if cfg.ConfigFile != "" {
		fmt.Fprintln(w, p.c(AnsiYellow)+cfg.ConfigFile+p.c(AnsiReset))
	} else {
		fmt.Fprintln(w, p.c(AnsiDim)+"defaults + environment"+p.c(AnsiReset))
	}
	fmt.Fprintln(w)

	const lineWidth = 78

	printSectionHeader(w, p, "Splitting", lineWidth)
	printRow3(w,
		fmtKV(p, "Dialect", p.c(AnsiGreen)+cfg.Dialect+p.c(AnsiReset)),
		fmtKV(p, "Encoding", cfg.Encoding),
		fmtKV(p, "Skip empty", fmt.Sprintf("%v", cfg.SkipEmpty)))
	fmt.Fprintln(w)

	printSectionHeader(w, p, "Runtime", lineWidth)
	metrics := p.c(AnsiDim) + "off" + p.c(AnsiReset)
	if cfg.MetricsAddr != "" {
		metrics = p.c(AnsiGreen) + cfg.MetricsAddr + p.c(AnsiReset)
	}
	printRow3(w,
		fmtKV(p, "Metrics", metrics),
		fmtKV(p, "Cache", fmt.Sprintf("%d", cfg.CacheSize)),
		fmtKV(p, "Log", cfg.LogLevel))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  "+p.c(AnsiDim)+`Type \h for help, \q to quit. Statements end with ";".`+p.c(AnsiReset))
	fmt.Fprintln(w)
}

func printSectionHeader(w io.Writer, p palette, title string, width int) {
	titleLen := len(title) + 4 // "[ title ]"
	leftPad := 2
	rightPad := width - leftPad - titleLen
	if rightPad < 0 {
		rightPad = 0
	}
	fmt.Fprintf(w, "  %s[ %s%s%s ]%s%s\n",
		p.c(AnsiDim)+strings.Repeat("-", leftPad),
		p.c(AnsiReset+AnsiCyan+AnsiBold), title, p.c(AnsiReset+AnsiDim),
		strings.Repeat("-", rightPad),
		p.c(AnsiReset))
}

func fmtKV(p palette, key, value string) string {
	return fmt.Sprintf("%s%s:%s %s", p.c(AnsiDim), key, p.c(AnsiReset), value)
}

func printRow3(w io.Writer, col1, col2, col3 string) {
	fmt.Fprintf(w, "  %-32s %-26s %s\n", col1, col2, col3)
}

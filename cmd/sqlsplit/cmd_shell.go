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

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sqlsplit/internal/banner"
	"sqlsplit/internal/config"
	ferrors "sqlsplit/internal/errors"
	"sqlsplit/internal/highlight"
	"sqlsplit/internal/metrics"
	"sqlsplit/internal/sql"
)

const (
	shellPrompt         = "sqlsplit> "
	shellContinuePrompt = "       -> "
)

// shell accumulates input lines until the splitter reports at least one
// complete statement, then prints what was completed. It does no I/O of
// its own beyond writing to out, so it can be driven by readline or by a
// plain scanner.
type shell struct {
	out        io.Writer
	dialect    *sql.Dialect
	splitter   *sql.Splitter
	hl         *highlight.Highlighter
	recorder   *metrics.Recorder
	showTokens bool
	count      int
	buf        strings.Builder
}

func newShell(out io.Writer, dialect *sql.Dialect, color bool, rec *metrics.Recorder) *shell {
	return &shell{
		out:      out,
		dialect:  dialect,
		splitter: sql.NewSplitter(dialect),
		hl:       highlight.New(color),
		recorder: rec,
	}
}

// prompt returns the prompt for the next line.
func (s *shell) prompt() string {
	if s.pending() {
		return shellContinuePrompt
	}
	return shellPrompt
}

func (s *shell) pending() bool {
	return strings.TrimSpace(s.buf.String()) != ""
}

// reset discards a partially entered statement.
func (s *shell) reset() {
	s.buf.Reset()
}

// handleLine processes one input line and reports whether the shell
// should exit.
func (s *shell) handleLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !s.pending() && strings.HasPrefix(trimmed, `\`) {
		return s.command(trimmed)
	}

	s.buf.WriteString(line)
	s.buf.WriteString("\n")

	start := time.Now()
	stmts := s.splitter.Split(s.buf.String())
	if len(stmts) == 0 {
		s.buf.Reset()
		return false
	}

	// A trailing statement without ";" stays in the buffer for the next
	// line; everything before it is complete.
	last := stmts[len(stmts)-1]
	var rest string
	if last.NeedsTerminator && !last.IsEmpty() {
		rest = last.Text()
		stmts = stmts[:len(stmts)-1]
	}
	s.buf.Reset()
	s.buf.WriteString(rest)

	if len(stmts) > 0 {
		s.recorder.ObserveSplit(s.dialect.Name(), stmts, time.Since(start))
	}
	for _, st := range stmts {
		if !st.IsEmpty() {
			s.print(st)
		}
	}
	return false
}

// print writes the summary and highlighted text of one statement.
func (s *shell) print(st sql.Statement) {
	s.count++
	significant, maxDepth := 0, 0
	for _, tok := range st.Tokens {
		if !tok.Kind.IsTrivia() {
			significant++
		}
		if tok.Depth > maxDepth {
			maxDepth = tok.Depth
		}
	}
	fmt.Fprintf(s.out, "[%d] %s  (%d tokens, max depth %d)\n", s.count, st.Kind(), significant, maxDepth)
	fmt.Fprintln(s.out, s.hl.Render(sql.NewLexer(s.dialect).Tokenize(st.SQL())))
	if s.showTokens {
		writeTokenLines(s.out, st.Tokens)
	}
}

// command runs a backslash command and reports whether the shell should
// exit.
func (s *shell) command(input string) bool {
	fields := strings.Fields(input)
	switch fields[0] {
	case `\q`, `\quit`:
		return true
	case `\h`, `\help`, `\?`:
		s.help()
	case `\t`:
		s.showTokens = !s.showTokens
		state := "off"
		if s.showTokens {
			state = "on"
		}
		fmt.Fprintf(s.out, "Token view is %s.\n", state)
	case `\d`:
		if len(fields) == 1 {
			fmt.Fprintf(s.out, "Dialect: %s (available: %s)\n", s.dialect.Name(), strings.Join(sql.Dialects(), ", "))
			return false
		}
		d, err := sql.LookupDialect(fields[1])
		if err != nil {
			fmt.Fprintln(s.out, ferrors.FormatError(err))
			return false
		}
		s.dialect = d
		s.splitter = sql.NewSplitter(d)
		fmt.Fprintf(s.out, "Dialect set to %s.\n", d.Name())
	default:
		fmt.Fprintf(s.out, "Unknown command %s. Type \\h for help.\n", fields[0])
	}
	return false
}

func (s *shell) help() {
	fmt.Fprintln(s.out, `Enter SQL; each statement is printed once its terminating ";" is read.
Routine bodies (BEGIN ... END) may span many lines and contain ";".

  \q            quit
  \h            show this help
  \d [dialect]  show or change the keyword dialect
  \t            toggle the token view`)
}

// ============================================================================
// shell command
// ============================================================================

func newShellCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive statement splitter",
		Long: `Read SQL line by line and print each statement as soon as it is
complete. History is kept in history_file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShell(cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address (host:port)")
	return cmd
}

func (a *app) runShell(out io.Writer) error {
	rec := metrics.NewRecorder()
	stopMetrics, err := a.startMetrics(rec, nil)
	if err != nil {
		return err
	}
	defer stopMetrics()

	color := a.useColor(out)
	sh := newShell(out, a.dialect, color, rec)

	f, isFile := a.stdin.(*os.File)
	if !isFile || !term.IsTerminal(int(f.Fd())) {
		return runSimpleShell(sh, a.stdin)
	}

	banner.PrintShell(out, a.cfg, color)
	rl, err := readline.NewEx(&readline.Config{
		Prompt:              shellPrompt,
		HistoryFile:         config.ExpandPath(a.cfg.HistoryFile),
		AutoComplete:        shellCompleter(a.dialect),
		InterruptPrompt:     "^C",
		EOFPrompt:           `\q`,
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
		Stdout:              out,
	})
	if err != nil {
		a.logger.Warn("Line editing unavailable", "error", err)
		return runSimpleShell(sh, a.stdin)
	}
	defer rl.Close()

	for {
		rl.SetPrompt(sh.prompt())
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if sh.pending() {
				sh.reset()
				continue
			}
			fmt.Fprintln(out, `(Use \q to quit or Ctrl+D to exit)`)
			continue
		}
		if err != nil {
			return nil
		}
		if sh.handleLine(line) {
			return nil
		}
	}
}

// runSimpleShell reads lines without editing or prompts, for piped input.
func runSimpleShell(sh *shell, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if sh.handleLine(scanner.Text()) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return ferrors.ReadFailed("<stdin>", err)
	}
	// A final statement without ";" is still printed.
	if sh.pending() {
		for _, st := range sh.splitter.Split(sh.buf.String()) {
			if !st.IsEmpty() {
				sh.print(st)
			}
		}
	}
	return nil
}

// shellCompleter completes backslash commands and the dialect's keywords.
func shellCompleter(d *sql.Dialect) *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem(`\q`),
		readline.PcItem(`\h`),
		readline.PcItem(`\t`),
	}
	dialects := make([]readline.PrefixCompleterInterface, 0, len(sql.Dialects()))
	for _, name := range sql.Dialects() {
		dialects = append(dialects, readline.PcItem(name))
	}
	items = append(items, readline.PcItem(`\d`, dialects...))

	for _, kind := range []sql.TokenKind{sql.KeywordDML, sql.KeywordDDL, sql.KeywordCTE, sql.Keyword} {
		for _, w := range d.Keywords(kind) {
			items = append(items, readline.PcItem(w))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

// filterInput filters input runes for readline.
func filterInput(r rune) (rune, bool) {
	switch r {
	case readline.CharCtrlZ:
		return r, false // Disable Ctrl+Z
	}
	return r, true
}

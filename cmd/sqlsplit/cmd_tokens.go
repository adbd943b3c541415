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
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"sqlsplit/internal/config"
	ferrors "sqlsplit/internal/errors"
	"sqlsplit/internal/highlight"
	"sqlsplit/internal/source"
	"sqlsplit/internal/sql"
)

// loadStatements reads one input and splits it with the active dialect.
func (a *app) loadStatements(args []string) ([]sql.Statement, error) {
	name := source.Stdin
	if len(args) > 0 {
		name = args[0]
	}
	in, err := a.loader.Load(name)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	stmts := sql.NewSplitter(a.dialect).Split(in.Text)
	a.logger.Debug("Input split",
		"input", in.Name,
		"bytes", in.Size,
		"compression", string(in.Compression),
		"statements", len(stmts),
		"duration", time.Since(start))
	return stmts, nil
}

// ============================================================================
// tokens
// ============================================================================

func newTokensCmd(a *app) *cobra.Command {
	var skipTrivia bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a SQL script",
		Long: `Print one token per line: byte offset, nesting depth, kind and the
quoted token text. Depths are those assigned while splitting.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stmts, err := a.loadStatements(args)
			if err != nil {
				return err
			}
			tokens := statementTokens(stmts)
			if skipTrivia {
				kept := tokens[:0]
				for _, tok := range tokens {
					if !tok.Kind.IsTrivia() {
						kept = append(kept, tok)
					}
				}
				tokens = kept
			}

			if a.cfg.Format != config.FormatText {
				if tokens == nil {
					tokens = []sql.Token{}
				}
				return encode(cmd.OutOrStdout(), a.cfg.Format, tokens)
			}
			writeTokenLines(cmd.OutOrStdout(), tokens)
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipTrivia, "skip-trivia", false, "omit whitespace and comment tokens")
	return cmd
}

// ============================================================================
// highlight
// ============================================================================

func newHighlightCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "highlight [file]",
		Short: "Print a SQL script coloured by token kind",
		Long: `Print the script with each token coloured by its kind. Colour is used
when stdout is a terminal, or always with --color=always.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stmts, err := a.loadStatements(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			h := highlight.New(a.useColor(out))
			if _, err := fmt.Fprint(out, h.RenderStatements(stmts)); err != nil {
				return ferrors.WriteFailed(err)
			}
			return nil
		},
	}
}

// ============================================================================
// keywords
// ============================================================================

// keywordKinds are the kinds listed when --kind is not given.
var keywordKinds = []sql.TokenKind{
	sql.KeywordDML,
	sql.KeywordDDL,
	sql.KeywordCTE,
	sql.KeywordOrder,
	sql.Keyword,
	sql.NameBuiltin,
}

func newKeywordsCmd(a *app) *cobra.Command {
	var kindName string

	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "List the keyword tables of a dialect",
		Long: `List the words classified as keywords or built-in names by the selected
dialect, after the common and general tables are applied. Words are sorted
by English collation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := keywordKinds
			if kindName != "" {
				kind, ok := sql.ParseTokenKind(strings.ToLower(kindName))
				if !ok || (!kind.IsKeyword() && kind != sql.NameBuiltin) {
					names := make([]string, 0, len(keywordKinds))
					for _, k := range keywordKinds {
						names = append(names, k.String())
					}
					sort.Strings(names)
					return ferrors.InvalidConfig([]string{
						fmt.Sprintf("invalid kind: %s (must be one of %s)", kindName, strings.Join(names, ", ")),
					})
				}
				kinds = []sql.TokenKind{kind}
			}

			col := collate.New(language.English, collate.IgnoreCase)
			tables := make(map[string][]string, len(kinds))
			for _, kind := range kinds {
				words := a.dialect.Keywords(kind)
				col.SortStrings(words)
				if words == nil {
					words = []string{}
				}
				tables[kind.String()] = words
			}

			out := cmd.OutOrStdout()
			if a.cfg.Format != config.FormatText {
				return encode(out, a.cfg.Format, tables)
			}
			for i, kind := range kinds {
				if len(kinds) > 1 {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "# %s (%s)\n", kind, a.dialect.Name())
				}
				for _, w := range tables[kind.String()] {
					fmt.Fprintln(out, w)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&kindName, "kind", "k", "", "only list one kind (keyword, keyword_dml, keyword_ddl, keyword_cte, keyword_order, name_builtin)")
	return cmd
}

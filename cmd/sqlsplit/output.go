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
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"sqlsplit/internal/batch"
	"sqlsplit/internal/config"
	ferrors "sqlsplit/internal/errors"
	"sqlsplit/internal/sql"
)

// statementView is the serialized form of a statement.
type statementView struct {
	Index           int         `json:"index" yaml:"index"`
	Kind            string      `json:"kind" yaml:"kind"`
	SQL             string      `json:"sql" yaml:"sql"`
	NeedsTerminator bool        `json:"needs_terminator" yaml:"needs_terminator"`
	Tokens          []sql.Token `json:"tokens,omitempty" yaml:"tokens,omitempty"`
}

// inputView groups statements by input when several inputs are split.
type inputView struct {
	Input      string          `json:"input" yaml:"input"`
	Statements []statementView `json:"statements" yaml:"statements"`
}

func viewStatements(stmts []sql.Statement, withTokens bool) []statementView {
	views := make([]statementView, len(stmts))
	for i, st := range stmts {
		views[i] = statementView{
			Index:           i,
			Kind:            st.Kind(),
			SQL:             st.SQL(),
			NeedsTerminator: st.NeedsTerminator,
		}
		if withTokens {
			views[i].Tokens = st.Tokens
		}
	}
	return views
}

// encode writes v as JSON or YAML.
func encode(w io.Writer, format string, v interface{}) error {
	switch format {
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return ferrors.WriteFailed(err)
		}
		if err := enc.Close(); err != nil {
			return ferrors.WriteFailed(err)
		}
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return ferrors.WriteFailed(err)
		}
	}
	return nil
}

// writeResults prints split results. A single input prints a flat list of
// statements; several inputs are grouped under their names.
func writeResults(w io.Writer, format string, results []batch.Result, withTokens bool) error {
	if format != config.FormatText {
		if len(results) == 1 {
			return encode(w, format, viewStatements(results[0].Statements, withTokens))
		}
		views := make([]inputView, len(results))
		for i, res := range results {
			views[i] = inputView{Input: res.Name, Statements: viewStatements(res.Statements, withTokens)}
		}
		return encode(w, format, views)
	}

	var b strings.Builder
	for i, res := range results {
		if len(results) > 1 {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "-- %s\n", res.Name)
		}
		first := true
		for _, st := range res.Statements {
			text := st.SQL()
			if text == "" {
				continue
			}
			if !first {
				b.WriteString("\n")
			}
			first = false
			b.WriteString(text)
			b.WriteString("\n")
			if withTokens {
				writeTokenLines(&b, st.Tokens)
			}
		}
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return ferrors.WriteFailed(err)
	}
	return nil
}

// writeTokenLines prints one token per line: offset, depth, kind and the
// quoted text.
func writeTokenLines(w io.Writer, tokens []sql.Token) {
	for _, tok := range tokens {
		fmt.Fprintf(w, "%6d %3d  %-20s %s\n", tok.Offset, tok.Depth, tok.Kind, strconv.Quote(tok.Text))
	}
}

// statementTokens flattens statements back into one token stream.
func statementTokens(stmts []sql.Statement) []sql.Token {
	var tokens []sql.Token
	for _, st := range stmts {
		tokens = append(tokens, st.Tokens...)
	}
	return tokens
}

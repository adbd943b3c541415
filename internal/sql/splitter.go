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

package sql

import (
	"strings"
)

// Splitter groups the token stream of a script into statements.
//
// A ";" ends a statement only at nesting level zero. The level rises with
// "(" and, inside CREATE of a routine, with BEGIN and the IF, FOR, WHILE
// and CASE blocks of its body; it falls with ")" and the matching END.
// A bare transaction BEGIN outside CREATE does not nest, so
// "BEGIN; SELECT 1; COMMIT;" is three statements.
//
// The semicolons that close a routine's leading DECLARE section (before its
// first BEGIN) do not end the CREATE either.
type Splitter struct {
	lexer *Lexer
}

// NewSplitter creates a Splitter that tokenizes with the given dialect.
// A nil dialect selects DefaultDialect.
func NewSplitter(d *Dialect) *Splitter {
	return &Splitter{lexer: NewLexer(d)}
}

// Split tokenizes input with the default dialect and groups the tokens
// into statements.
func Split(input string) []Statement {
	return NewSplitter(nil).Split(input)
}

// SplitStrings returns the SQL text of every non-empty statement, with a
// terminator appended to a trailing statement that lacks one.
func SplitStrings(input string) []string {
	var out []string
	for _, st := range Split(input) {
		if st.IsEmpty() {
			continue
		}
		out = append(out, st.SQL())
	}
	return out
}

// splitState is the per-statement nesting state. It is reset after each
// completed statement.
type splitState struct {
	level      int
	inCreate   bool
	inDeclare  bool
	beginDepth int
}

// Split groups the tokens of input into statements. Each token's Depth is
// set to the nesting level after the token's own change is applied.
func (s *Splitter) Split(input string) []Statement {
	tokens := s.lexer.Tokenize(input)
	if len(tokens) == 0 {
		return nil
	}

	var (
		statements []Statement
		state      splitState
		current    []Token
	)

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		state.level += state.delta(tok)
		tok.Depth = state.level
		current = append(current, tok)

		if state.level > 0 || !tok.IsTerminator() {
			continue
		}

		if state.inDeclare {
			// End of the DECLARE section, the routine body follows.
			state.inDeclare = false
			continue
		}

		// Trailing layout belongs to the statement it follows.
		for i+1 < len(tokens) && (tokens[i+1].Kind == Whitespace || tokens[i+1].Kind == Newline) {
			i++
			current = append(current, tokens[i])
		}

		statements = append(statements, Statement{Tokens: current})
		current = nil
		state = splitState{}
	}

	if len(current) > 0 {
		statements = append(statements, Statement{Tokens: current, NeedsTerminator: true})
	}

	return statements
}

// delta returns how tok changes the nesting level and updates the routine
// flags it affects.
func (st *splitState) delta(tok Token) int {
	if tok.IsOpenParenthesis() {
		return 1
	}
	if tok.IsCloseParenthesis() {
		return -1
	}
	if !tok.Kind.IsKeyword() {
		return 0
	}

	word := normalizeKeyword(tok.Text)

	// CREATE FUNCTION, CREATE OR REPLACE PROCEDURE, ...
	if tok.Kind == KeywordDDL && strings.HasPrefix(word, "CREATE") {
		st.inCreate = true
		return 0
	}

	switch word {
	case "DECLARE":
		// Only the section before the first BEGIN; a DECLARE nested in
		// the body ends with its own BEGIN ... END.
		if st.inCreate && st.beginDepth == 0 {
			st.inDeclare = true
		}
		return 0
	case "BEGIN":
		st.beginDepth++
		if st.inCreate {
			return 1
		}
		return 0
	case "END":
		if st.beginDepth > 0 {
			st.beginDepth--
		}
		return -1
	case "IF", "FOR", "WHILE", "CASE":
		if st.inCreate && st.beginDepth > 0 {
			return 1
		}
		return 0
	case "END IF", "END FOR", "END WHILE":
		return -1
	}
	return 0
}

// normalizeKeyword upper-cases a keyword token and collapses the layout
// inside compound keywords, so "end\n\tif" reads as "END IF".
func normalizeKeyword(text string) string {
	upper := strings.ToUpper(text)
	if !strings.ContainsAny(upper, " \t\r\n\f\v") {
		return upper
	}
	return strings.Join(strings.Fields(upper), " ")
}

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

// Statement is one executable unit of a script: the tokens between two
// top-level terminators, the terminator and its trailing layout included.
type Statement struct {
	Tokens []Token `json:"tokens,omitempty" yaml:"tokens,omitempty"`

	// NeedsTerminator is set on a trailing statement that reached the end
	// of input without a top-level ";". Callers may append one before
	// executing it.
	NeedsTerminator bool `json:"needs_terminator" yaml:"needs_terminator"`
}

// Text returns the statement's source text exactly as it appeared.
func (s Statement) Text() string {
	var sb strings.Builder
	for _, t := range s.Tokens {
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// SQL returns the statement without surrounding layout. When
// NeedsTerminator is set and the statement is not empty, a ";" is placed
// right after the last significant token, so a trailing comment stays a
// comment.
func (s Statement) SQL() string {
	if !s.NeedsTerminator || s.IsEmpty() {
		return strings.TrimSpace(s.Text())
	}
	last := len(s.Tokens) - 1
	for last >= 0 && s.Tokens[last].Kind.IsTrivia() {
		last--
	}
	var sb strings.Builder
	for i, t := range s.Tokens {
		sb.WriteString(t.Text)
		if i == last {
			sb.WriteString(";")
		}
	}
	return strings.TrimSpace(sb.String())
}

// IsEmpty reports whether the statement holds nothing but layout,
// comments and terminators.
func (s Statement) IsEmpty() bool {
	for _, t := range s.Tokens {
		if !t.Kind.IsTrivia() && !t.IsTerminator() {
			return false
		}
	}
	return true
}

// Kind returns the upper-cased text of the statement's first significant
// token, such as "SELECT" or "CREATE OR REPLACE", or "" for an empty
// statement.
func (s Statement) Kind() string {
	for _, t := range s.Tokens {
		if t.Kind.IsTrivia() || t.IsTerminator() {
			continue
		}
		return normalizeKeyword(t.Text)
	}
	return ""
}

// First returns the first significant token of the statement.
func (s Statement) First() (Token, bool) {
	for _, t := range s.Tokens {
		if !t.Kind.IsTrivia() {
			return t, true
		}
	}
	return Token{}, false
}

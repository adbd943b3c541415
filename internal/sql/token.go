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

import "fmt"

// TokenKind represents the category of a lexical token.
// The set is closed: every token produced by the Lexer carries one of
// the kinds declared below.
type TokenKind int

// Token kind constants.
const (
	Whitespace         TokenKind = iota // Run of spaces and tabs
	Newline                             // \r\n, \r or \n
	Comment                             // -- or "# " line comment
	CommentHint                         // --+ or "# +" optimizer hint
	CommentMultiline                    // /* ... */
	Punctuation                         // ; : ( ) [ ] , . and ::
	Wildcard                            // *
	Assignment                          // :=
	Command                             // \command
	Comparison                          // IN, NOT IN
	OperatorComparison                  // < > = ~ ! runs, LIKE family
	Operator                            // + - / @ # % ^ & | runs
	Keyword                             // Reserved word
	KeywordDML                          // SELECT, INSERT, COMMIT ...
	KeywordDDL                          // CREATE, ALTER, DROP
	KeywordCTE                          // WITH
	KeywordOrder                        // ASC, DESC
	KeywordTZCast                       // AT TIME ZONE 'UTC'
	Name                                // Identifier
	NameBuiltin                         // Built-in type name
	NamePlaceholder                     // ?
	NumberInteger                       // 42
	NumberFloat                         // 4.2, 1E10
	NumberHexadecimal                   // 0x2A
	StringSingle                        // 'text'
	StringSymbol                        // "quoted identifier"
	Literal                             // $tag$ ... $tag$
)

var tokenKindNames = [...]string{
	Whitespace:         "whitespace",
	Newline:            "newline",
	Comment:            "comment",
	CommentHint:        "comment_hint",
	CommentMultiline:   "comment_multiline",
	Punctuation:        "punctuation",
	Wildcard:           "wildcard",
	Assignment:         "assignment",
	Command:            "command",
	Comparison:         "comparison",
	OperatorComparison: "operator_comparison",
	Operator:           "operator",
	Keyword:            "keyword",
	KeywordDML:         "keyword_dml",
	KeywordDDL:         "keyword_ddl",
	KeywordCTE:         "keyword_cte",
	KeywordOrder:       "keyword_order",
	KeywordTZCast:      "keyword_tzcast",
	Name:               "name",
	NameBuiltin:        "name_builtin",
	NamePlaceholder:    "name_placeholder",
	NumberInteger:      "number_integer",
	NumberFloat:        "number_float",
	NumberHexadecimal:  "number_hexadecimal",
	StringSingle:       "string_single",
	StringSymbol:       "string_symbol",
	Literal:            "literal",
}

// String returns the stable lower-case name of the kind.
func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// MarshalText lets kinds appear by name in JSON and YAML output.
func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseTokenKind returns the kind with the given String name.
func ParseTokenKind(name string) (TokenKind, bool) {
	for i, n := range tokenKindNames {
		if n == name {
			return TokenKind(i), true
		}
	}
	return 0, false
}

// TokenKinds returns every kind in declaration order.
func TokenKinds() []TokenKind {
	kinds := make([]TokenKind, len(tokenKindNames))
	for i := range kinds {
		kinds[i] = TokenKind(i)
	}
	return kinds
}

// IsKeyword reports whether the kind belongs to the keyword family.
func (k TokenKind) IsKeyword() bool {
	switch k {
	case Keyword, KeywordDML, KeywordDDL, KeywordCTE, KeywordOrder, KeywordTZCast:
		return true
	}
	return false
}

// IsTrivia reports whether tokens of this kind carry no executable meaning.
func (k TokenKind) IsTrivia() bool {
	switch k {
	case Whitespace, Newline, Comment, CommentHint, CommentMultiline:
		return true
	}
	return false
}

// Token is a single lexical unit. Text is the exact substring matched in
// the input, case preserved.
type Token struct {
	Kind   TokenKind `json:"kind" yaml:"kind"`
	Text   string    `json:"text" yaml:"text"`
	Depth  int       `json:"depth" yaml:"depth"`   // set by the Splitter
	Offset int       `json:"offset" yaml:"offset"` // byte offset in the input
	Prev   int       `json:"-" yaml:"-"`           // index of the previous token in the stream, -1 for the first
}

// IsOpenParenthesis reports whether the token is "(".
func (t Token) IsOpenParenthesis() bool {
	return t.Kind == Punctuation && t.Text == "("
}

// IsCloseParenthesis reports whether the token is ")".
func (t Token) IsCloseParenthesis() bool {
	return t.Kind == Punctuation && t.Text == ")"
}

// IsTerminator reports whether the token is the ";" statement terminator.
func (t Token) IsTerminator() bool {
	return t.Kind == Punctuation && t.Text == ";"
}

// Previous returns the token preceding tokens[i], if any. tokens must be
// the full stream returned by Tokenize, since Prev indexes into it.
func Previous(tokens []Token, i int) (Token, bool) {
	if i < 0 || i >= len(tokens) || tokens[i].Prev < 0 {
		return Token{}, false
	}
	return tokens[tokens[i].Prev], true
}

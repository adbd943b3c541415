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
Package sql contains the SQL Lexer and the statement Splitter.

Lexer Overview:
===============

The Lexer turns a raw SQL string into a flat, lossless token stream. It
does not skip anything: whitespace, newlines and comments are tokens too,
so concatenating the Text of every token gives back the input exactly.

	Input: "SELECT * FROM t -- all\n"

	Output Tokens:
	  1. {KeywordDML, "SELECT"}
	  2. {Whitespace, " "}
	  3. {Wildcard, "*"}
	  4. {Whitespace, " "}
	  5. {Keyword, "FROM"}
	  6. {Whitespace, " "}
	  7. {Name, "t"}
	  8. {Whitespace, " "}
	  9. {Comment, "-- all"}
	 10. {Newline, "\n"}

Recognition Order:
==================

At each offset the Lexer tries an ordered table of anchored rules and
keeps the first one that matches (see rules.go). Priority, not match
length, decides between rules. When no rule matches, an identifier-shaped
run is read and classified through the keyword layers:

 1. common keywords (SELECT, FROM, WHERE, ...)
 2. general keywords and built-in types (shared by every dialect)
 3. the dialect layer (PostgreSQL by default)

A word found in none of them is a Name. Keyword matching is
case-insensitive; token text keeps the original casing.

If even the identifier run cannot start at the current character, the
Lexer emits that single character as a Name and moves on, so scanning
always terminates.

Usage Example:
==============

	for _, tok := range sql.Tokenize("SELECT 1") {
	    fmt.Printf("%v: %q\n", tok.Kind, tok.Text)
	}

	scanner := sql.NewLexer(sql.Oracle).Scan(input)
	for {
	    tok, ok := scanner.Next()
	    if !ok {
	        break
	    }
	    ...
	}
*/
package sql

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Lexer tokenizes SQL text for one keyword dialect. A Lexer holds no
// per-input state and may be shared between goroutines.
type Lexer struct {
	dialect *Dialect
}

// NewLexer creates a Lexer that classifies words with the given dialect.
// A nil dialect selects DefaultDialect.
func NewLexer(d *Dialect) *Lexer {
	if d == nil {
		d = DefaultDialect
	}
	return &Lexer{dialect: d}
}

// Dialect returns the dialect the Lexer classifies words with.
func (l *Lexer) Dialect() *Dialect {
	return l.dialect
}

// Tokenize returns every token of input in order. Empty input yields an
// empty slice.
func (l *Lexer) Tokenize(input string) []Token {
	if input == "" {
		return nil
	}
	s := l.Scan(input)
	tokens := make([]Token, 0, len(input)/3+1)
	for {
		tok, ok := s.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// Tokenize tokenizes input with the default dialect.
func Tokenize(input string) []Token {
	return NewLexer(nil).Tokenize(input)
}

// Scanner produces the tokens of a single input one at a time.
// The scanner is stateful - each call to Next advances the position.
type Scanner struct {
	lexer  *Lexer
	input  string
	runes  []rune
	starts []int // byte offset of each rune, plus len(input)
	pos    int   // current rune position
	count  int   // tokens produced so far

	// exhausted[i] is set once delimited rule i found no closing
	// delimiter; it is not tried again for this input.
	exhausted []bool
	// tags maps each folded "$tag$" to the rune offsets it occurs at.
	// Built on the first dollar-quote opener.
	tags map[string][]int
}

// Scan creates a Scanner over input.
//
// Rules work on runes; token text is cut from the original string through
// the rune start offsets, so input that is not valid UTF-8 still
// round-trips byte for byte.
func (l *Lexer) Scan(input string) *Scanner {
	n := utf8.RuneCountInString(input)
	runes := make([]rune, 0, n)
	starts := make([]int, 0, n+1)
	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])
		runes = append(runes, r)
		starts = append(starts, i)
		i += size
	}
	starts = append(starts, len(input))
	return &Scanner{
		lexer:     l,
		input:     input,
		runes:     runes,
		starts:    starts,
		exhausted: make([]bool, len(rules)),
	}
}

// Next returns the next token, or false once the input is exhausted.
func (s *Scanner) Next() (Token, bool) {
	if s.pos >= len(s.runes) {
		return Token{}, false
	}

	kind, length := s.recognize()

	start, end := s.starts[s.pos], s.starts[s.pos+length]
	tok := Token{
		Kind:   kind,
		Text:   s.input[start:end],
		Offset: start,
		Prev:   s.count - 1,
	}
	s.pos += length
	s.count++
	return tok, true
}

// recognize classifies the token starting at the current position and
// returns its length in runes. The length is always at least one.
func (s *Scanner) recognize() (TokenKind, int) {
	input, pos := s.runes, s.pos
	for i, r := range rules {
		if s.exhausted[i] {
			continue
		}
		n := match(r.re, input, pos)
		if n > 0 && r.dollar {
			n = s.closeDollar(pos, n)
		}
		if n > 0 {
			return r.kind, n
		}
		if r.opener != nil && hasPrefix(input[pos:], r.opener) {
			s.exhausted[i] = true
		}
	}

	if n := match(wordPattern, input, pos); n > 0 {
		kind, _ := s.lexer.dialect.Classify(string(input[pos : pos+n]))
		return kind, n
	}

	// Nothing recognizes this character: emit it alone.
	return Name, 1
}

// closeDollar returns the length of the dollar-quoted literal whose
// opening tag covers n runes at pos, or 0 when the tag does not recur.
// Tags compare case-insensitively.
func (s *Scanner) closeDollar(pos, n int) int {
	if s.tags == nil {
		s.tags = indexDollarTags(s.runes)
	}
	at := s.tags[strings.ToLower(string(s.runes[pos:pos+n]))]
	i := sort.SearchInts(at, pos+n)
	if i == len(at) {
		return 0
	}
	return at[i] + n - pos
}

// indexDollarTags records every run from one '$' to the next, inclusive.
// A tag never contains '$', so each occurrence of "$tag$" is one of
// these runs.
func indexDollarTags(input []rune) map[string][]int {
	tags := make(map[string][]int)
	prev := -1
	for i, r := range input {
		if r != '$' {
			continue
		}
		if prev >= 0 {
			key := strings.ToLower(string(input[prev : i+1]))
			tags[key] = append(tags[key], prev)
		}
		prev = i
	}
	return tags
}

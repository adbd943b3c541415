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
	"github.com/dlclark/regexp2"
)

// rule pairs an anchored pattern with the kind of token it produces.
// Every pattern starts with \G so it can only match at the scan offset.
type rule struct {
	re   *regexp2.Regexp
	kind TokenKind

	// opener is set for delimited forms that fail only when no closing
	// delimiter follows. Once such a rule fails after its opener, it fails
	// at every later offset of the same input too.
	opener []rune

	// dollar marks the dollar-quote opener. The closing tag is found
	// through the Scanner's tag index.
	dollar bool
}

func newRule(pattern string, kind TokenKind) rule {
	return rule{
		re:   regexp2.MustCompile(pattern, regexp2.IgnoreCase),
		kind: kind,
	}
}

// newDelimitedRule creates a rule for a form that starts with opener and
// runs to a closing delimiter.
func newDelimitedRule(opener, pattern string, kind TokenKind) rule {
	r := newRule(pattern, kind)
	r.opener = []rune(opener)
	return r
}

func newDollarRule(pattern string) rule {
	r := newRule(pattern, Literal)
	r.dollar = true
	return r
}

func hasPrefix(input []rune, prefix []rune) bool {
	if len(input) < len(prefix) {
		return false
	}
	for i, r := range prefix {
		if input[i] != r {
			return false
		}
	}
	return true
}

// match returns the number of runes the pattern matches at pos, or 0.
func match(re *regexp2.Regexp, input []rune, pos int) int {
	m, err := re.FindRunesMatchStartingAt(input, pos)
	if err != nil || m == nil || m.Index != pos {
		return 0
	}
	return m.Length
}

// letter is the first character of a bare name.
const letter = `[A-ZÀ-Ü]`

// notLetter guards the end of a number so that "12abc" is not split
// into a number and a name.
const notLetter = `(?![_A-ZÀ-Ü])`

// rules is evaluated top to bottom and the first match wins. The order is
// part of the lexer's behaviour: longer phrases sit before the words they
// start with, and quoted forms sit before the operators that share their
// first character. Do not sort it.
var rules = []rule{
	// Comments and layout
	newRule(`\G(?:--|# )\+[^\r\n]*`, CommentHint),
	newRule(`\G(?:--|# )[^\r\n]*`, Comment),
	newDelimitedRule("/*", `\G/\*[\s\S]*?\*/`, CommentMultiline),
	newRule(`\G(?:\r\n|\r|\n)`, Newline),
	newRule(`\G[ \t]+`, Whitespace),

	newRule(`\G:=`, Assignment),
	newRule(`\G::`, Punctuation),
	newRule(`\G\*`, Wildcard),

	// Quoted identifiers and dollar-quoted bodies
	newDelimitedRule("`", "\\G`(?:``|[^`])*`", Name),
	newDelimitedRule("´", `\G´(?:´´|[^´])*´`, Name),
	newDollarRule(`\G(?<!\S)\$(?:` + letter + `\w*)?\$`),

	newRule(`\G\?`, NamePlaceholder),
	newRule(`\G\\\w+`, Command),
	newRule(`\G(?:NOT\s+)?IN\b`, Comparison),
	newRule(`\G(?:CASE|IN|VALUES|USING|FROM|AS)\b`, Keyword),

	// Names decided by their surroundings
	newRule(`\G(?:@|##|#)`+letter+`\w+`, Name),
	newRule(`\G`+letter+`\w*(?=\s*\.)`, Name),
	newRule(`\G(?<=\.)`+letter+`\w*`, Name),
	newRule(`\G`+letter+`\w*(?=\()`, Name),

	// Numbers
	newRule(`\G-?0x(?>[0-9A-F]+)`+notLetter, NumberHexadecimal),
	newRule(`\G-?(?>\d+(?:\.\d*)?|\.\d+)E[-+]?(?>\d+)`+notLetter, NumberFloat),
	newRule(`\G-?(?>\d+\.\d*|\.\d+)`+notLetter, NumberFloat),
	newRule(`\G-?(?>\d+)`+notLetter, NumberInteger),

	// Strings: backslash-escaping form first, then the standard form in
	// which a backslash is an ordinary character ('C:\').
	newDelimitedRule("'", `\G'(?:[^'\\]|''|\\[\s\S])*'`, StringSingle),
	newDelimitedRule("'", `\G'(?:[^']|'')*'`, StringSingle),
	newDelimitedRule(`"`, `\G"(?:[^"\\]|""|\\[\s\S])*"`, StringSymbol),
	newDelimitedRule(`"`, `\G"(?:[^"]|"")*"`, StringSymbol),
	newRule(`\G(?<![\w\])])\[[^\]\[]+\]`, Name),

	// Multi-word keywords
	newRule(`\G(?:(?:LEFT\s+|RIGHT\s+|FULL\s+)?(?:INNER\s+|OUTER\s+|STRAIGHT\s+)?|(?:CROSS\s+|NATURAL\s+)?)JOIN\b`, Keyword),
	newRule(`\GEND(?:\s+(?:IF|LOOP|WHILE|FOR))?\b`, Keyword),
	newRule(`\GNOT\s+NULL\b`, Keyword),
	newRule(`\GNULLS\s+(?:FIRST|LAST)\b`, Keyword),
	newRule(`\GUNION\s+ALL\b`, Keyword),
	newRule(`\GCREATE(?:\s+OR\s+REPLACE)?\b`, KeywordDDL),
	newRule(`\GDOUBLE\s+PRECISION\b`, NameBuiltin),
	newRule(`\GGROUP\s+BY\b`, Keyword),
	newRule(`\GORDER\s+BY\b`, Keyword),
	newRule(`\GHANDLER\s+FOR\b`, Keyword),
	newRule(`\GLATERAL\s+VIEW\b`, Keyword),
	newRule(`\G(?:EXPLODE|INLINE|PARSE_URL_TUPLE|POSEXPLODE|STACK)\b`, Keyword),
	newRule(`\G(?:AT|WITH)\s+TIME\s+ZONE\s+'[^']+'`, KeywordTZCast),
	newRule(`\G(?:NOT\s+)?(?:LIKE|ILIKE|RLIKE)\b`, OperatorComparison),

	// Operators
	newRule(`\G[;:()\[\],.]`, Punctuation),
	newRule(`\G[<>=~!]+`, OperatorComparison),
	newRule("\\G[+/@#%^&|`?-]+", Operator),
}

// wordPattern matches any identifier-shaped run. Runs that are not found
// in the keyword tables become plain names.
var wordPattern = regexp2.MustCompile(`\G[0-9_A-ZÀ-Ü][_$#\w]*`, regexp2.IgnoreCase)

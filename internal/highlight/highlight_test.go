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


package highlight

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlsplit/internal/config"
	"sqlsplit/internal/sql"
)

var ansi = regexp.MustCompile("\x1b\\[[0-9;]*m")

const sample = "-- load\nSELECT\ta, 'x''y', 0x1F /* two\n  lines */\r\nFROM t WHERE n >= 4.5;\n"

func TestRenderPlain(t *testing.T) {
	h := New(false)
	assert.False(t, h.Color())
	assert.Equal(t, sample, h.Render(sql.Tokenize(sample)))
}

func TestRenderColorKeepsText(t *testing.T) {
	h := New(true)
	out := h.Render(sql.Tokenize(sample))

	require.Contains(t, out, "\x1b[")
	assert.Equal(t, sample, ansi.ReplaceAllString(out, ""))
}

func TestRenderLineBreaksUnstyled(t *testing.T) {
	out := New(true).Render(sql.Tokenize("/* a\nbb\r\nccc */"))

	lines := strings.Split(ansi.ReplaceAllString(out, ""), "\n")
	assert.Equal(t, []string{"/* a", "bb\r", "ccc */"}, lines)
	for _, line := range strings.Split(out, "\n") {
		assert.NotContains(t, ansi.ReplaceAllString(line, ""), "  ", "no width padding expected")
	}
}

func TestRenderStatements(t *testing.T) {
	input := "SELECT 1; SELECT 2"
	stmts := sql.Split(input)
	assert.Equal(t, input, ansi.ReplaceAllString(New(true).RenderStatements(stmts), ""))
}

func TestUseColor(t *testing.T) {
	assert.True(t, UseColor(config.ColorAlways, nil))
	assert.False(t, UseColor(config.ColorNever, nil))
	assert.False(t, UseColor(config.ColorAuto, nil))
}

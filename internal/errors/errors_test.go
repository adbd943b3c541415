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


package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "without detail",
			err:      InputNotFound("a.sql"),
			expected: "ERROR 1001 (INPUT): input not found: a.sql",
		},
		{
			name:     "with detail",
			err:      DecompressFailed("a.sql.gz", "gzip", io.ErrUnexpectedEOF),
			expected: "ERROR 2001 (IO): failed to decompress a.sql.gz - gzip",
		},
		{
			name:     "config problems joined",
			err:      InvalidConfig([]string{"bad dialect", "bad format"}),
			expected: "ERROR 5001 (CONFIG): configuration validation failed - bad dialect; bad format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	msg := UnknownDialect("db2", []string{"mysql", "postgresql"}).UserMessage()
	if !strings.HasPrefix(msg, "ERROR: unknown dialect: db2") {
		t.Errorf("unexpected message %q", msg)
	}
	if !strings.Contains(msg, "\nHINT: Supported dialects: [mysql postgresql]") {
		t.Errorf("expected hint in %q", msg)
	}
}

func TestUnwrapAndIs(t *testing.T) {
	err := ReadFailed("a.sql", io.ErrUnexpectedEOF)
	wrapped := fmt.Errorf("loading: %w", err)

	if !stderrors.Is(wrapped, io.ErrUnexpectedEOF) {
		t.Error("expected cause to be reachable")
	}
	if !stderrors.Is(wrapped, &Error{Code: ErrCodeReadFailed}) {
		t.Error("expected match by code")
	}
	if stderrors.Is(wrapped, &Error{Code: ErrCodeInputNotFound}) {
		t.Error("expected no match for a different code")
	}

	var e *Error
	if !stderrors.As(wrapped, &e) || e.Category != CategoryInput {
		t.Errorf("expected *Error with INPUT category, got %v", e)
	}
}

func TestBuilders(t *testing.T) {
	cause := io.EOF
	err := WriteFailed(nil).WithDetail("stdout").WithHint("check the pipe").WithCause(cause)
	if err.Detail != "stdout" || err.Hint != "check the pipe" || err.Unwrap() != cause {
		t.Errorf("builders not applied: %+v", err)
	}
}

func TestHelpers(t *testing.T) {
	wrapped := fmt.Errorf("ctx: %w", UnknownEncoding("ebcdic", nil))

	if !HasCategory(wrapped, CategoryEncoding) {
		t.Error("expected ENCODING category")
	}
	if HasCategory(io.EOF, CategoryEncoding) {
		t.Error("plain errors carry no category")
	}
	if GetCode(wrapped) != ErrCodeUnknownEncoding {
		t.Errorf("expected %d, got %d", ErrCodeUnknownEncoding, GetCode(wrapped))
	}
	if GetCode(io.EOF) != 0 {
		t.Error("expected code 0 for plain errors")
	}

	if got := FormatError(io.EOF); got != "ERROR: EOF" {
		t.Errorf("unexpected plain format %q", got)
	}
	if got := FormatError(wrapped); !strings.HasPrefix(got, "ERROR: unknown encoding: ebcdic") {
		t.Errorf("unexpected structured format %q", got)
	}
}

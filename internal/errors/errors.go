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
Package errors provides structured errors for SQLSplit.

The lexer and splitter never fail: any text produces some token and
statement sequence. Errors only arise around them, while reading inputs,
choosing a dialect or decoding, and loading configuration. Those layers
report failures through the Error type defined here so that the CLI can
print a consistent message and hint.

Error Categories:
  - INPUT: missing or unreadable inputs
  - IO: decompression and stream failures
  - ENCODING: unsupported character encodings
  - DIALECT: unknown keyword dialects
  - CONFIG: invalid configuration values or files
*/
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a unique error identifier.
type ErrorCode int

const (
	// Input errors (1000-1999)
	ErrCodeInput         ErrorCode = 1000
	ErrCodeInputNotFound ErrorCode = 1001
	ErrCodeReadFailed    ErrorCode = 1002

	// IO errors (2000-2999)
	ErrCodeIO               ErrorCode = 2000
	ErrCodeDecompressFailed ErrorCode = 2001
	ErrCodeWriteFailed      ErrorCode = 2002
	ErrCodeWatchFailed      ErrorCode = 2003
	ErrCodeListenFailed     ErrorCode = 2004

	// Encoding errors (3000-3999)
	ErrCodeEncoding        ErrorCode = 3000
	ErrCodeUnknownEncoding ErrorCode = 3001

	// Dialect errors (4000-4999)
	ErrCodeDialect        ErrorCode = 4000
	ErrCodeUnknownDialect ErrorCode = 4001

	// Config errors (5000-5999)
	ErrCodeConfig        ErrorCode = 5000
	ErrCodeInvalidConfig ErrorCode = 5001
	ErrCodeConfigFile    ErrorCode = 5002
)

// Category represents the error category.
type Category string

const (
	CategoryInput    Category = "INPUT"
	CategoryIO       Category = "IO"
	CategoryEncoding Category = "ENCODING"
	CategoryDialect  Category = "DIALECT"
	CategoryConfig   Category = "CONFIG"
)

// Error represents a structured error in SQLSplit.
type Error struct {
	Code     ErrorCode
	Category Category
	Message  string
	Detail   string
	Hint     string
	Cause    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("ERROR %d (%s): %s - %s", e.Code, e.Category, e.Message, e.Detail)
	}
	return fmt.Sprintf("ERROR %d (%s): %s", e.Code, e.Category, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by code, so sentinel comparisons work with
// errors.Is regardless of message or detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// UserMessage returns a user-friendly error message.
func (e *Error) UserMessage() string {
	msg := fmt.Sprintf("ERROR: %s", e.Message)
	if e.Detail != "" {
		msg += fmt.Sprintf(" (%s)", e.Detail)
	}
	if e.Hint != "" {
		msg += fmt.Sprintf("\nHINT: %s", e.Hint)
	}
	return msg
}

// WithDetail adds detail to the error.
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

// WithHint adds a hint to the error.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// ============================================================================
// Input Error Constructors
// ============================================================================

// InputNotFound creates an error for an input path that does not exist.
func InputNotFound(path string) *Error {
	return &Error{
		Code:     ErrCodeInputNotFound,
		Category: CategoryInput,
		Message:  fmt.Sprintf("input not found: %s", path),
		Hint:     "Pass an existing file, or '-' to read from stdin",
	}
}

// ReadFailed creates an error for an input that could not be read.
func ReadFailed(path string, cause error) *Error {
	return &Error{
		Code:     ErrCodeReadFailed,
		Category: CategoryInput,
		Message:  fmt.Sprintf("failed to read %s", path),
		Cause:    cause,
	}
}

// ============================================================================
// IO Error Constructors
// ============================================================================

// DecompressFailed creates an error for a corrupt or truncated compressed input.
func DecompressFailed(path, format string, cause error) *Error {
	return &Error{
		Code:     ErrCodeDecompressFailed,
		Category: CategoryIO,
		Message:  fmt.Sprintf("failed to decompress %s", path),
		Detail:   format,
		Cause:    cause,
	}
}

// WriteFailed creates an error for output that could not be written.
func WriteFailed(cause error) *Error {
	return &Error{
		Code:     ErrCodeWriteFailed,
		Category: CategoryIO,
		Message:  "failed to write output",
		Cause:    cause,
	}
}

// WatchFailed creates an error for a file watcher that could not be set up.
func WatchFailed(path string, cause error) *Error {
	return &Error{
		Code:     ErrCodeWatchFailed,
		Category: CategoryIO,
		Message:  fmt.Sprintf("cannot watch %s", path),
		Cause:    cause,
	}
}

// ListenFailed creates an error for a listener that could not be bound.
func ListenFailed(addr string, cause error) *Error {
	return &Error{
		Code:     ErrCodeListenFailed,
		Category: CategoryIO,
		Message:  fmt.Sprintf("cannot listen on %s", addr),
		Hint:     "Choose a free host:port for metrics_addr",
		Cause:    cause,
	}
}

// ============================================================================
// Encoding and Dialect Error Constructors
// ============================================================================

// UnknownEncoding creates an error for an unsupported input encoding.
func UnknownEncoding(name string, supported []string) *Error {
	return &Error{
		Code:     ErrCodeUnknownEncoding,
		Category: CategoryEncoding,
		Message:  fmt.Sprintf("unknown encoding: %s", name),
		Hint:     fmt.Sprintf("Supported encodings: %v", supported),
	}
}

// UnknownDialect creates an error for an unregistered keyword dialect.
func UnknownDialect(name string, supported []string) *Error {
	return &Error{
		Code:     ErrCodeUnknownDialect,
		Category: CategoryDialect,
		Message:  fmt.Sprintf("unknown dialect: %s", name),
		Hint:     fmt.Sprintf("Supported dialects: %v", supported),
	}
}

// ============================================================================
// Config Error Constructors
// ============================================================================

// InvalidConfig creates an error listing every invalid configuration value.
func InvalidConfig(problems []string) *Error {
	detail := ""
	for i, p := range problems {
		if i > 0 {
			detail += "; "
		}
		detail += p
	}
	return &Error{
		Code:     ErrCodeInvalidConfig,
		Category: CategoryConfig,
		Message:  "configuration validation failed",
		Detail:   detail,
	}
}

// ConfigFile creates an error for a configuration file that cannot be
// read or parsed.
func ConfigFile(path string, cause error) *Error {
	return &Error{
		Code:     ErrCodeConfigFile,
		Category: CategoryConfig,
		Message:  fmt.Sprintf("cannot load config file %s", path),
		Cause:    cause,
	}
}

// ============================================================================
// Helper Functions
// ============================================================================

// HasCategory reports whether err wraps an *Error of the given category.
func HasCategory(err error, c Category) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Category == c
	}
	return false
}

// GetCode returns the error code if err wraps an *Error, or 0 otherwise.
func GetCode(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return 0
}

// FormatError formats an error for user display.
func FormatError(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.UserMessage()
	}
	return fmt.Sprintf("ERROR: %v", err)
}

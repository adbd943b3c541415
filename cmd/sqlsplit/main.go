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
Command sqlsplit splits SQL scripts into executable statements.

Usage:

	sqlsplit split [files...]       Print statements as text, JSON or YAML
	sqlsplit tokens [file]          Print the token stream
	sqlsplit highlight [file]       Print coloured SQL
	sqlsplit keywords               List keyword tables
	sqlsplit watch files...         Re-split files when they change
	sqlsplit shell                  Interactive statement splitter
	sqlsplit config show|save       Inspect or write configuration
	sqlsplit version                Print version information

Configuration is read from defaults, then a YAML file, then SQLSPLIT_*
environment variables, then command-line flags. Later sources win.

Exit status is 0 on success, 1 when an input, dialect, encoding or
configuration error occurs, and 2 for usage errors.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	ferrors "sqlsplit/internal/errors"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, ferrors.FormatError(err))
		var e *ferrors.Error
		if errors.As(err, &e) || errors.Is(err, context.Canceled) {
			return 1
		}
		return 2
	}
	return 0
}

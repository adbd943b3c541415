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
	"github.com/spf13/cobra"

	"sqlsplit/internal/batch"
	"sqlsplit/internal/source"
)

// ============================================================================
// split
// ============================================================================

func newSplitCmd(a *app) *cobra.Command {
	var withTokens bool

	cmd := &cobra.Command{
		Use:   "split [files...]",
		Short: "Print the statements of SQL scripts",
		Long: `Split each input into statements and print them. With no files, or
with "-", the script is read from stdin. Files ending in .gz or .zst, or
starting with the gzip or zstd magic bytes, are decompressed.`,
		Example: `  sqlsplit split schema.sql
  sqlsplit split --format json --tokens migrations/*.sql
  pg_dump db | sqlsplit split --skip-empty -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				names = []string{source.Stdin}
			}

			runner := batch.New(a.loader, a.dialect, batch.Options{
				Jobs:      a.cfg.Jobs,
				SkipEmpty: a.cfg.SkipEmpty,
			})
			results, err := runner.Run(cmd.Context(), names)
			if err != nil {
				return err
			}
			return writeResults(cmd.OutOrStdout(), a.cfg.Format, results, withTokens)
		},
	}

	cmd.Flags().Bool("skip-empty", false, "drop statements holding only comments and whitespace")
	cmd.Flags().IntP("jobs", "j", 0, "inputs processed in parallel (0 = one per CPU)")
	cmd.Flags().BoolVar(&withTokens, "tokens", false, "include the token stream of each statement")
	return cmd
}

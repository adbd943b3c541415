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
	"fmt"

	"github.com/spf13/cobra"

	"sqlsplit/internal/banner"
	ferrors "sqlsplit/internal/errors"
)

// ============================================================================
// config
// ============================================================================

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or write the effective configuration",
	}

	var summary bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if summary {
				fmt.Fprint(cmd.OutOrStdout(), a.cfg.String())
				return nil
			}
			data, err := a.cfg.ToYAML()
			if err != nil {
				return ferrors.WriteFailed(err)
			}
			out := cmd.OutOrStdout()
			if a.cfg.ConfigFile != "" {
				fmt.Fprintf(out, "# loaded from %s\n", a.cfg.ConfigFile)
			}
			if _, err := out.Write(data); err != nil {
				return ferrors.WriteFailed(err)
			}
			return nil
		},
	}

	show.Flags().BoolVar(&summary, "summary", false, "print a short human-readable summary instead of YAML")

	save := &cobra.Command{
		Use:   "save path",
		Short: "Write the effective configuration to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.SaveToFile(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(show, save)
	return cmd
}

// ============================================================================
// version
// ============================================================================

func newVersionCmd(a *app) *cobra.Command {
	var showBanner bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if showBanner {
				banner.Print(out, a.useColor(out))
				return nil
			}
			fmt.Fprintln(out, banner.VersionString())
			return nil
		},
	}
	cmd.Flags().BoolVar(&showBanner, "banner", false, "print the full banner")
	return cmd
}

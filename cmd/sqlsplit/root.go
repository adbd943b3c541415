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
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sqlsplit/internal/config"
	"sqlsplit/internal/highlight"
	"sqlsplit/internal/logging"
	"sqlsplit/internal/source"
	"sqlsplit/internal/sql"
)

// app carries the state shared by every subcommand once the configuration
// has been resolved.
type app struct {
	stdin   io.Reader
	manager *config.Manager
	cfg     *config.Config
	dialect *sql.Dialect
	loader  *source.Loader
	logger  *logging.Logger

	// Persistent flag values, applied over file and environment.
	dialectName string
	encoding    string
	format      string
	configFile  string
	logLevel    string
	logJSON     bool
	color       string
}

// ============================================================================
// Root Command
// ============================================================================

func newRootCmd(stdin io.Reader) *cobra.Command {
	a := &app{stdin: stdin, logger: logging.NewLogger("cli")}

	root := &cobra.Command{
		Use:   "sqlsplit",
		Short: "Split SQL scripts into executable statements",
		Long: `sqlsplit tokenizes SQL text and groups the tokens into statements.
Semicolons inside routine bodies, dollar-quoted literals, strings and
comments do not end a statement.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.dialectName, "dialect", "d", "", "keyword dialect ("+strings.Join(sql.Dialects(), ", ")+")")
	pf.StringVar(&a.encoding, "encoding", "", "input encoding ("+strings.Join(source.Encodings(), ", ")+")")
	pf.StringVarP(&a.format, "format", "f", "", "output format (text, json, yaml)")
	pf.StringVarP(&a.configFile, "config", "c", "", "path to a YAML configuration file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&a.logJSON, "log-json", false, "write logs as JSON lines")
	pf.StringVar(&a.color, "color", "", "colour output (auto, always, never)")

	root.AddCommand(
		newSplitCmd(a),
		newTokensCmd(a),
		newHighlightCmd(a),
		newKeywordsCmd(a),
		newWatchCmd(a),
		newShellCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup resolves configuration in precedence order: defaults, file,
// environment, flags. It then configures logging and builds the dialect
// and input loader.
func (a *app) setup(cmd *cobra.Command) error {
	a.manager = config.NewManager()
	if a.configFile != "" {
		if err := a.manager.LoadFromFile(a.configFile); err != nil {
			return err
		}
		if err := a.manager.LoadFromEnv(); err != nil {
			return err
		}
	} else if err := a.manager.Load(); err != nil {
		return err
	}

	cfg := a.manager.Get()
	flags := cmd.Flags()
	if flags.Changed("dialect") {
		cfg.Dialect = a.dialectName
	}
	if flags.Changed("encoding") {
		cfg.Encoding = a.encoding
	}
	if flags.Changed("format") {
		cfg.Format = a.format
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-json") {
		cfg.LogJSON = a.logJSON
	}
	if flags.Changed("color") {
		cfg.Color = a.color
	}
	if err := a.applyLocal(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.manager.Set(cfg)
	a.cfg = cfg

	a.configureLogging(cmd.ErrOrStderr())

	dialect, err := sql.LookupDialect(cfg.Dialect)
	if err != nil {
		return err
	}
	a.dialect = dialect

	loader, err := source.NewLoader(cfg.Encoding)
	if err != nil {
		return err
	}
	a.loader = loader.WithStdin(a.stdin)

	a.logger.Debug("Configuration resolved",
		"dialect", dialect.Name(),
		"encoding", cfg.Encoding,
		"format", cfg.Format,
		"config_file", cfg.ConfigFile)
	return nil
}

// applyLocal copies subcommand flags that override configuration values.
func (a *app) applyLocal(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error
	if flags.Lookup("skip-empty") != nil && flags.Changed("skip-empty") {
		if cfg.SkipEmpty, err = flags.GetBool("skip-empty"); err != nil {
			return err
		}
	}
	if flags.Lookup("jobs") != nil && flags.Changed("jobs") {
		if cfg.Jobs, err = flags.GetInt("jobs"); err != nil {
			return err
		}
	}
	if flags.Lookup("metrics-addr") != nil && flags.Changed("metrics-addr") {
		if cfg.MetricsAddr, err = flags.GetString("metrics-addr"); err != nil {
			return err
		}
	}
	if flags.Lookup("cache-size") != nil && flags.Changed("cache-size") {
		if cfg.CacheSize, err = flags.GetInt("cache-size"); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) configureLogging(w io.Writer) {
	level, _ := logging.ParseLevel(a.cfg.LogLevel)
	logging.Configure(logging.Config{
		Level:    level,
		Output:   w,
		JSONMode: a.cfg.LogJSON,
		Color:    a.useColor(w),
	})
}

// useColor resolves the configured colour mode for w.
func (a *app) useColor(w io.Writer) bool {
	f, _ := w.(*os.File)
	return highlight.UseColor(a.cfg.Color, f)
}

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
Package config manages sqlsplit settings.

Settings come from several sources with clear precedence:
 1. Command-line flags (highest priority, applied by the caller)
 2. Environment variables
 3. Configuration file
 4. Default values (lowest priority)

Configuration File Format:
The configuration file is YAML.

Example configuration file:

	# sqlsplit configuration
	dialect: mysql
	encoding: utf-8
	format: json
	skip_empty: true
	jobs: 4
	color: auto
	log_level: info
	log_json: false
	metrics_addr: ":9464"
	history_file: ~/.sqlsplit_history
	cache_size: 256

Environment Variables:
  - SQLSPLIT_DIALECT: keyword dialect (postgresql, mysql, oracle, ...)
  - SQLSPLIT_ENCODING: input character encoding
  - SQLSPLIT_FORMAT: output format (text, json, yaml)
  - SQLSPLIT_SKIP_EMPTY: drop comment-only statements (true/false)
  - SQLSPLIT_JOBS: parallel inputs, 0 = number of CPUs
  - SQLSPLIT_COLOR: auto, always or never
  - SQLSPLIT_LOG_LEVEL: debug, info, warn, error
  - SQLSPLIT_LOG_JSON: JSON logs (true/false)
  - SQLSPLIT_METRICS_ADDR: listen address for /metrics, empty disables
  - SQLSPLIT_HISTORY_FILE: shell history file
  - SQLSPLIT_CACHE_SIZE: split results kept by watch and shell
  - SQLSPLIT_CONFIG: path to the configuration file
*/
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	ferrors "sqlsplit/internal/errors"
	"sqlsplit/internal/logging"
	"sqlsplit/internal/source"
	"sqlsplit/internal/sql"
)

// Environment variable names for configuration.
const (
	EnvDialect     = "SQLSPLIT_DIALECT"
	EnvEncoding    = "SQLSPLIT_ENCODING"
	EnvFormat      = "SQLSPLIT_FORMAT"
	EnvSkipEmpty   = "SQLSPLIT_SKIP_EMPTY"
	EnvJobs        = "SQLSPLIT_JOBS"
	EnvColor       = "SQLSPLIT_COLOR"
	EnvLogLevel    = "SQLSPLIT_LOG_LEVEL"
	EnvLogJSON     = "SQLSPLIT_LOG_JSON"
	EnvMetricsAddr = "SQLSPLIT_METRICS_ADDR"
	EnvHistoryFile = "SQLSPLIT_HISTORY_FILE"
	EnvCacheSize   = "SQLSPLIT_CACHE_SIZE"
	EnvConfigFile  = "SQLSPLIT_CONFIG"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// DefaultConfigPaths are searched in order after $SQLSPLIT_CONFIG.
var DefaultConfigPaths = []string{
	"$HOME/.config/sqlsplit/config.yaml",
	"./sqlsplit.yaml",
}

// Config holds all configuration values for sqlsplit.
type Config struct {
	// Splitting
	Dialect   string `yaml:"dialect" json:"dialect"`
	Encoding  string `yaml:"encoding" json:"encoding"`
	SkipEmpty bool   `yaml:"skip_empty" json:"skip_empty"`
	Jobs      int    `yaml:"jobs" json:"jobs"` // 0 = runtime.NumCPU()

	// Output
	Format string `yaml:"format" json:"format"`
	Color  string `yaml:"color" json:"color"`

	// Logging
	LogLevel string `yaml:"log_level" json:"log_level"`
	LogJSON  bool   `yaml:"log_json" json:"log_json"`

	// Long-running modes (watch, shell)
	MetricsAddr string `yaml:"metrics_addr" json:"metrics_addr"`
	HistoryFile string `yaml:"history_file" json:"history_file"`
	CacheSize   int    `yaml:"cache_size" json:"cache_size"`

	// Metadata
	ConfigFile string `yaml:"-" json:"-"` // Path to loaded config file
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Dialect:     sql.DefaultDialect.Name(),
		Encoding:    source.DefaultEncoding,
		SkipEmpty:   false,
		Jobs:        0,
		Format:      FormatText,
		Color:       ColorAuto,
		LogLevel:    "warn",
		LogJSON:     false,
		MetricsAddr: "",
		HistoryFile: defaultHistoryFile(),
		CacheSize:   128,
	}
}

func defaultHistoryFile() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".sqlsplit_history")
	}
	return ""
}

// Manager handles configuration loading, validation, and access.
type Manager struct {
	config *Config
	mu     sync.RWMutex

	onReload []func(*Config)
}

// NewManager creates a new configuration manager with default values.
func NewManager() *Manager {
	return &Manager{config: DefaultConfig()}
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg := *m.config
	return &cfg
}

// Set replaces the configuration.
func (m *Manager) Set(cfg *Config) {
	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()
}

// OnReload registers a callback run after every successful Reload.
func (m *Manager) OnReload(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReload = append(m.onReload, fn)
}

func (m *Manager) notifyReload() {
	m.mu.RLock()
	callbacks := make([]func(*Config), len(m.onReload))
	copy(callbacks, m.onReload)
	m.mu.RUnlock()

	cfg := m.Get()
	for _, fn := range callbacks {
		fn(cfg)
	}
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var problems []string

	if _, err := sql.LookupDialect(c.Dialect); err != nil {
		problems = append(problems, fmt.Sprintf("invalid dialect: %s (must be one of %s)",
			c.Dialect, strings.Join(sql.Dialects(), ", ")))
	}

	if _, err := source.LookupEncoding(c.Encoding); err != nil {
		problems = append(problems, fmt.Sprintf("invalid encoding: %s (must be one of %s)",
			c.Encoding, strings.Join(source.Encodings(), ", ")))
	}

	switch c.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		problems = append(problems, fmt.Sprintf("invalid format: %s (must be text, json, or yaml)", c.Format))
	}

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		problems = append(problems, fmt.Sprintf("invalid color: %s (must be auto, always, or never)", c.Color))
	}

	if c.Jobs < 0 {
		problems = append(problems, fmt.Sprintf("invalid jobs: %d (must be >= 0)", c.Jobs))
	}
	if c.CacheSize < 0 {
		problems = append(problems, fmt.Sprintf("invalid cache_size: %d (must be >= 0)", c.CacheSize))
	}

	if _, ok := logging.ParseLevel(c.LogLevel); !ok {
		problems = append(problems, fmt.Sprintf("invalid log_level: %s (must be debug, info, warn, or error)", c.LogLevel))
	}

	if c.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(c.MetricsAddr); err != nil {
			problems = append(problems, fmt.Sprintf("invalid metrics_addr: %s (%v)", c.MetricsAddr, err))
		}
	}

	if len(problems) > 0 {
		return ferrors.InvalidConfig(problems)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func (m *Manager) LoadFromFile(path string) error {
	path = ExpandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return ferrors.ConfigFile(path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return ferrors.ConfigFile(path, err)
	}

	cfg.ConfigFile = path
	m.Set(cfg)
	return nil
}

// LoadFromEnv applies environment variables over the current
// configuration. Malformed numbers and booleans are reported together.
func (m *Manager) LoadFromEnv() error {
	cfg := m.Get()
	var problems []string

	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				problems = append(problems, fmt.Sprintf("%s: not a number: %q", name, v))
				return
			}
			*dst = n
		}
	}
	flag := func(name string, dst *bool) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				problems = append(problems, fmt.Sprintf("%s: not a boolean: %q", name, v))
				return
			}
			*dst = b
		}
	}

	str(EnvDialect, &cfg.Dialect)
	str(EnvEncoding, &cfg.Encoding)
	str(EnvFormat, &cfg.Format)
	flag(EnvSkipEmpty, &cfg.SkipEmpty)
	num(EnvJobs, &cfg.Jobs)
	str(EnvColor, &cfg.Color)
	str(EnvLogLevel, &cfg.LogLevel)
	flag(EnvLogJSON, &cfg.LogJSON)
	str(EnvMetricsAddr, &cfg.MetricsAddr)
	str(EnvHistoryFile, &cfg.HistoryFile)
	num(EnvCacheSize, &cfg.CacheSize)

	if len(problems) > 0 {
		return ferrors.InvalidConfig(problems)
	}
	m.Set(cfg)
	return nil
}

// FindConfigFile returns the first configuration file that exists, or "".
func FindConfigFile() string {
	if envPath := os.Getenv(EnvConfigFile); envPath != "" {
		if p := ExpandPath(envPath); fileExists(p) {
			return p
		}
	}
	for _, path := range DefaultConfigPaths {
		if p := ExpandPath(path); fileExists(p) {
			return p
		}
	}
	return ""
}

// Load applies defaults, then the config file if one is found, then the
// environment. Flags are applied by the caller afterwards.
func (m *Manager) Load() error {
	if path := FindConfigFile(); path != "" {
		if err := m.LoadFromFile(path); err != nil {
			return err
		}
	}
	return m.LoadFromEnv()
}

// Reload re-reads the file and environment from scratch and notifies
// OnReload callbacks. On error the previous configuration is kept.
func (m *Manager) Reload() error {
	prev := m.Get()
	path := prev.ConfigFile
	if path == "" {
		path = FindConfigFile()
	}

	m.Set(DefaultConfig())
	if path != "" {
		if err := m.LoadFromFile(path); err != nil {
			m.Set(prev)
			return err
		}
	}
	if err := m.LoadFromEnv(); err != nil {
		m.Set(prev)
		return err
	}

	m.notifyReload()
	return nil
}

// String returns a human-readable summary of the configuration.
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("sqlsplit configuration:\n")
	fmt.Fprintf(&sb, "  Dialect:      %s\n", c.Dialect)
	fmt.Fprintf(&sb, "  Encoding:     %s\n", c.Encoding)
	fmt.Fprintf(&sb, "  Format:       %s\n", c.Format)
	fmt.Fprintf(&sb, "  Skip Empty:   %v\n", c.SkipEmpty)
	fmt.Fprintf(&sb, "  Jobs:         %d\n", c.Jobs)
	fmt.Fprintf(&sb, "  Color:        %s\n", c.Color)
	fmt.Fprintf(&sb, "  Log Level:    %s\n", c.LogLevel)
	fmt.Fprintf(&sb, "  Log JSON:     %v\n", c.LogJSON)
	if c.MetricsAddr != "" {
		fmt.Fprintf(&sb, "  Metrics:      %s\n", c.MetricsAddr)
	}
	fmt.Fprintf(&sb, "  Cache Size:   %d\n", c.CacheSize)
	if c.ConfigFile != "" {
		fmt.Fprintf(&sb, "  Config File:  %s\n", c.ConfigFile)
	}
	return sb.String()
}

// ToYAML returns the configuration as a YAML document.
func (c *Config) ToYAML() ([]byte, error) {
	body, err := yaml.Marshal(c)
	if err != nil {
		return nil, err
	}
	return append([]byte("# sqlsplit configuration\n"), body...), nil
}

// SaveToFile writes the configuration as YAML, creating parent
// directories as needed.
func (c *Config) SaveToFile(path string) error {
	path = ExpandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return ferrors.ConfigFile(path, err)
	}
	data, err := c.ToYAML()
	if err != nil {
		return ferrors.ConfigFile(path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return ferrors.ConfigFile(path, err)
	}
	return nil
}

// ExpandPath expands environment variables and a leading "~/".
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return path
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	ferrors "sqlsplit/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dialect != "postgresql" {
		t.Errorf("Expected default dialect 'postgresql', got '%s'", cfg.Dialect)
	}
	if cfg.Encoding != "utf-8" {
		t.Errorf("Expected default encoding 'utf-8', got '%s'", cfg.Encoding)
	}
	if cfg.Format != FormatText {
		t.Errorf("Expected default format 'text', got '%s'", cfg.Format)
	}
	if cfg.Color != ColorAuto {
		t.Errorf("Expected default color 'auto', got '%s'", cfg.Color)
	}
	if cfg.CacheSize != 128 {
		t.Errorf("Expected default cache_size 128, got %d", cfg.CacheSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to be valid, got %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"dialect alias", func(c *Config) { c.Dialect = "MariaDB" }, false},
		{"unknown dialect", func(c *Config) { c.Dialect = "db2" }, true},
		{"latin1 encoding", func(c *Config) { c.Encoding = "latin1" }, false},
		{"unknown encoding", func(c *Config) { c.Encoding = "utf-16" }, true},
		{"json format", func(c *Config) { c.Format = FormatJSON }, false},
		{"unknown format", func(c *Config) { c.Format = "xml" }, true},
		{"unknown color", func(c *Config) { c.Color = "sometimes" }, true},
		{"negative jobs", func(c *Config) { c.Jobs = -1 }, true},
		{"negative cache", func(c *Config) { c.CacheSize = -5 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "chatty" }, true},
		{"metrics port only", func(c *Config) { c.MetricsAddr = ":9464" }, false},
		{"metrics without port", func(c *Config) { c.MetricsAddr = "localhost" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dialect = "db2"
	cfg.Format = "xml"
	cfg.Jobs = -2

	err := cfg.Validate()
	if ferrors.GetCode(err) != ferrors.ErrCodeInvalidConfig {
		t.Fatalf("Expected invalid config error, got %v", err)
	}
	for _, want := range []string{"dialect", "format", "jobs"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected error to mention %s, got %v", want, err)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sqlsplit.yaml")
	content := `# test config
dialect: mysql
format: json
skip_empty: true
jobs: 3
cache_size: 16
unknown_key: ignored
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	m := NewManager()
	if err := m.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	cfg := m.Get()
	if cfg.Dialect != "mysql" {
		t.Errorf("Expected dialect 'mysql', got '%s'", cfg.Dialect)
	}
	if cfg.Format != FormatJSON {
		t.Errorf("Expected format 'json', got '%s'", cfg.Format)
	}
	if !cfg.SkipEmpty {
		t.Error("Expected skip_empty true")
	}
	if cfg.Jobs != 3 {
		t.Errorf("Expected jobs 3, got %d", cfg.Jobs)
	}
	if cfg.CacheSize != 16 {
		t.Errorf("Expected cache_size 16, got %d", cfg.CacheSize)
	}
	// Unset keys keep their defaults.
	if cfg.Encoding != "utf-8" {
		t.Errorf("Expected default encoding, got '%s'", cfg.Encoding)
	}
	if cfg.ConfigFile != path {
		t.Errorf("Expected ConfigFile %s, got %s", path, cfg.ConfigFile)
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	m := NewManager()

	err := m.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if ferrors.GetCode(err) != ferrors.ErrCodeConfigFile {
		t.Errorf("Expected config file error for missing file, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("jobs: [1, 2\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	err = m.LoadFromFile(path)
	if ferrors.GetCode(err) != ferrors.ErrCodeConfigFile {
		t.Errorf("Expected config file error for bad YAML, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(EnvDialect, "oracle")
	t.Setenv(EnvJobs, "8")
	t.Setenv(EnvLogJSON, "true")
	t.Setenv(EnvMetricsAddr, "127.0.0.1:9464")

	m := NewManager()
	if err := m.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	cfg := m.Get()
	if cfg.Dialect != "oracle" {
		t.Errorf("Expected dialect 'oracle', got '%s'", cfg.Dialect)
	}
	if cfg.Jobs != 8 {
		t.Errorf("Expected jobs 8, got %d", cfg.Jobs)
	}
	if !cfg.LogJSON {
		t.Error("Expected log_json true")
	}
	if cfg.MetricsAddr != "127.0.0.1:9464" {
		t.Errorf("Expected metrics_addr, got '%s'", cfg.MetricsAddr)
	}
}

func TestLoadFromEnvMalformed(t *testing.T) {
	t.Setenv(EnvJobs, "many")
	t.Setenv(EnvSkipEmpty, "perhaps")

	m := NewManager()
	err := m.LoadFromEnv()
	if err == nil {
		t.Fatal("Expected error for malformed environment")
	}
	if !strings.Contains(err.Error(), EnvJobs) || !strings.Contains(err.Error(), EnvSkipEmpty) {
		t.Errorf("Expected both variables reported, got %v", err)
	}
	if m.Get().Jobs != 0 {
		t.Error("Expected configuration unchanged after failed load")
	}
}

func TestPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("dialect: mysql\nformat: yaml\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv(EnvConfigFile, path)
	t.Setenv(EnvDialect, "sqlite")

	m := NewManager()
	if err := m.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg := m.Get()
	if cfg.Dialect != "sqlite" {
		t.Errorf("Expected env to override file, got dialect '%s'", cfg.Dialect)
	}
	if cfg.Format != FormatYAML {
		t.Errorf("Expected file to override default, got format '%s'", cfg.Format)
	}
	if cfg.Color != ColorAuto {
		t.Errorf("Expected default color, got '%s'", cfg.Color)
	}
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("dialect: mysql\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	m := NewManager()
	if err := m.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	var seen []string
	m.OnReload(func(c *Config) { seen = append(seen, c.Dialect) })

	if err := os.WriteFile(path, []byte("dialect: oracle\n"), 0644); err != nil {
		t.Fatalf("Failed to rewrite config: %v", err)
	}
	if err := m.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if len(seen) != 1 || seen[0] != "oracle" {
		t.Errorf("Expected one reload with 'oracle', got %v", seen)
	}

	if err := os.WriteFile(path, []byte("dialect: [\n"), 0644); err != nil {
		t.Fatalf("Failed to rewrite config: %v", err)
	}
	if err := m.Reload(); err == nil {
		t.Error("Expected reload of broken file to fail")
	}
	if m.Get().Dialect != "oracle" {
		t.Errorf("Expected previous config kept, got '%s'", m.Get().Dialect)
	}
	if len(seen) != 1 {
		t.Errorf("Expected no callback for failed reload, got %v", seen)
	}
}

func TestSaveToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Dialect = "sqlserver"
	cfg.Jobs = 2
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	m := NewManager()
	if err := m.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	got := m.Get()
	if got.Dialect != "sqlserver" || got.Jobs != 2 {
		t.Errorf("Expected saved values, got dialect=%s jobs=%d", got.Dialect, got.Jobs)
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv(EnvConfigFile, "")

	if got := FindConfigFile(); got != "" && !strings.HasSuffix(got, "sqlsplit.yaml") {
		t.Errorf("Expected no config file, got %s", got)
	}

	path := filepath.Join(dir, ".config", "sqlsplit", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("jobs: 1\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if got := FindConfigFile(); got != path {
		t.Errorf("Expected %s, got %s", path, got)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/x.sql"); got != filepath.Join(home, "x.sql") {
		t.Errorf("Expected path under home, got %s", got)
	}
}

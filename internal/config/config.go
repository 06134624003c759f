// Package config provides configuration loading and structs for the
// findword server and CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Model   ModelConfig   `yaml:"model"`
	Search  SearchConfig  `yaml:"search"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Watch   WatchConfig   `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the store backend and index paths.
type StorageConfig struct {
	Backend      string `yaml:"backend"`
	DatabasePath string `yaml:"database_path"`
	IndexPath    string `yaml:"index_path"`
}

// ModelConfig holds the pretrained word vector model location.
type ModelConfig struct {
	Path string `yaml:"path"`
}

// SearchConfig holds similarity search defaults. The hard limit range is
// fixed by query validation; only the default is configurable.
type SearchConfig struct {
	DefaultLimit int `yaml:"default_limit"`
}

// IngestConfig holds paths and sizes for the classify/embed/load
// pipeline.
type IngestConfig struct {
	RawWordsDir   string `yaml:"raw_words_dir"`
	ClassifiedCSV string `yaml:"classified_csv"`
	WordsCSV      string `yaml:"words_csv"`
	ChunkSize     int    `yaml:"chunk_size"`
	ErrorLog      string `yaml:"error_log"`
}

// WatchConfig controls reloading the store when the words CSV changes
// while the server is running.
type WatchConfig struct {
	Enabled *bool `yaml:"enabled"`
}

// EnabledOrDefault returns whether the watcher runs; defaults to true
// when unset.
func (w *WatchConfig) EnabledOrDefault() bool {
	if w.Enabled != nil {
		return *w.Enabled
	}
	return true
}

// Load reads and parses the config file at path, applies defaults, and
// expands paths. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.IndexPath = expandPath(cfg.Storage.IndexPath, configDir)
	cfg.Model.Path = expandPath(cfg.Model.Path, configDir)
	cfg.Ingest.RawWordsDir = expandPath(cfg.Ingest.RawWordsDir, configDir)
	cfg.Ingest.ClassifiedCSV = expandPath(cfg.Ingest.ClassifiedCSV, configDir)
	cfg.Ingest.WordsCSV = expandPath(cfg.Ingest.WordsCSV, configDir)
	cfg.Ingest.ErrorLog = expandPath(cfg.Ingest.ErrorLog, configDir)

	return &cfg, nil
}

// Save writes the config to path. Used by "findword init" to write a
// starter config.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}

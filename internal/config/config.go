// Package config provides configuration loading and structs for bibfind.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug  bool         `yaml:"debug"`
	Bib    BibConfig    `yaml:"bib"`
	Index  IndexConfig  `yaml:"index"`
	Search SearchConfig `yaml:"search"`
	Render RenderConfig `yaml:"render"`
	Server ServerConfig `yaml:"server"`
}

// BibConfig holds bibliography source settings.
type BibConfig struct {
	// Path is the main bibliography file.
	Path string `yaml:"path"`
	// AbbrevName is the abbreviations file expected next to Path. It defines
	// the @string macros the main file uses, so it is parsed first.
	AbbrevName string `yaml:"abbrev_name"`
	// PreprintPrefixes lists entry key prefixes treated as preprints when
	// merging preprint notes into published entries.
	PreprintPrefixes []string `yaml:"preprint_prefixes"`
}

// Sources returns the bibliography files to parse, in parse order. The
// abbreviations file comes first when it exists next to the main file.
func (b *BibConfig) Sources() []string {
	if b.AbbrevName == "" {
		return []string{b.Path}
	}
	abbrev := filepath.Join(filepath.Dir(b.Path), b.AbbrevName)
	if _, err := os.Stat(abbrev); err != nil {
		return []string{b.Path}
	}
	return []string{abbrev, b.Path}
}

// IndexConfig holds the on-disk index location.
type IndexConfig struct {
	Dir string `yaml:"dir"`
}

// SearchConfig holds search settings.
type SearchConfig struct {
	Limit int `yaml:"limit"`
}

// RenderConfig holds terminal output settings.
type RenderConfig struct {
	Width  int    `yaml:"width"`
	Indent int    `yaml:"indent"`
	Pager  string `yaml:"pager"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Load reads and parses the config file at path, applies defaults and
// environment overrides, and expands paths. Returns an error if the file
// cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	finalize(&cfg, filepath.Dir(path))
	return &cfg, nil
}

// LoadOrDefault loads the config file at path, falling back to the defaults
// when the file does not exist. Parse errors still fail.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	finalize(cfg, "")
	return cfg
}

func finalize(cfg *Config, configDir string) {
	ApplyDefaults(cfg)
	applyEnv(cfg)
	cfg.Bib.Path = expandPath(cfg.Bib.Path, configDir)
	cfg.Index.Dir = expandPath(cfg.Index.Dir, configDir)
}

// applyEnv overrides path settings from the environment. A .env file loaded
// at startup feeds these as well.
func applyEnv(cfg *Config) {
	if v := os.Getenv("BIBFIND_BIB"); v != "" {
		cfg.Bib.Path = v
	}
	if v := os.Getenv("BIBFIND_INDEX_DIR"); v != "" {
		cfg.Index.Dir = v
	}
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

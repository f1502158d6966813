// Package config handles project and global configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents project configuration stored in .bibstyle/config.yml.
type Config struct {
	Style           string   `yaml:"style,omitempty"`            // Registered style name
	Backend         string   `yaml:"backend,omitempty"`          // Output backend: text, markdown, html, latex
	BibFiles        []string `yaml:"bib_files,omitempty"`        // Paths relative to the project root
	AbbreviateNames bool     `yaml:"abbreviate_names,omitempty"` // Reduce given names to initials
}

const (
	ProjectDir = ".bibstyle"
	ConfigFile = "config.yml"
	CacheDir   = "cache"
	DBFile     = "records.db"

	// SnapshotFile holds the parsed records as JSONL; the database is rebuilt from it.
	SnapshotFile = "records.jsonl"

	DefaultStyle   = "adsarxiv"
	DefaultBackend = "text"

	// Environment overrides, also read from .env.
	EnvStyle   = "BIBSTYLE_STYLE"
	EnvBackend = "BIBSTYLE_BACKEND"
)

// ErrNoProject is returned by FindProject when no .bibstyle directory exists
// in the start directory or any parent.
var ErrNoProject = errors.New("not in a bibstyle project (no .bibstyle directory found)")

// ProjectPath returns the path to the .bibstyle directory from a root path.
func ProjectPath(root string) string {
	return filepath.Join(root, ProjectDir)
}

// ConfigPath returns the path to config.yml from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, ProjectDir, ConfigFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, ProjectDir, CacheDir)
}

// DBPath returns the path to records.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, ProjectDir, CacheDir, DBFile)
}

// SnapshotPath returns the path to records.jsonl from a root path.
func SnapshotPath(root string) string {
	return filepath.Join(root, ProjectDir, CacheDir, SnapshotFile)
}

// IsProject checks if the given path contains a bibstyle project.
func IsProject(root string) bool {
	info, err := os.Stat(ProjectPath(root))
	return err == nil && info.IsDir()
}

// FindProject walks up from the given path to find a bibstyle project.
func FindProject(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsProject(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNoProject
		}
		abs = parent
	}
}

// Init creates the project directory layout and a config file listing
// bibFiles. An existing config is left untouched.
func Init(root string, bibFiles []string) (*Config, error) {
	if err := os.MkdirAll(CachePath(root), 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", ProjectDir, err)
	}

	if _, err := os.Stat(ConfigPath(root)); err == nil {
		return Load(root)
	}

	cfg := &Config{
		Style:    DefaultStyle,
		Backend:  DefaultBackend,
		BibFiles: bibFiles,
	}
	if err := cfg.Save(root); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads configuration from the project at the given root. A missing
// config file yields an empty config.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes configuration to the project at the given root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(ProjectPath(root), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", ProjectDir, err)
	}
	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Resolve returns the effective configuration: environment variables take
// priority, then the project config, then the global config, then the
// built-in defaults.
func (c *Config) Resolve(global *GlobalConfig) Config {
	eff := *c
	if global == nil {
		global = &GlobalConfig{}
	}

	if eff.Style == "" {
		eff.Style = global.Style
	}
	if eff.Backend == "" {
		eff.Backend = global.Backend
	}
	if !eff.AbbreviateNames {
		eff.AbbreviateNames = global.AbbreviateNames
	}

	eff.Style = GetConfigValue(EnvStyle, eff.Style)
	eff.Backend = GetConfigValue(EnvBackend, eff.Backend)

	if eff.Style == "" {
		eff.Style = DefaultStyle
	}
	if eff.Backend == "" {
		eff.Backend = DefaultBackend
	}
	return eff
}

// BibPaths returns the configured .bib files as absolute paths.
func (c *Config) BibPaths(root string) []string {
	paths := make([]string, 0, len(c.BibFiles))
	for _, p := range c.BibFiles {
		p = ExpandPath(p)
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		paths = append(paths, p)
	}
	return paths
}

// ValidateBibFiles checks that every configured .bib file exists.
func (c *Config) ValidateBibFiles(root string) error {
	for _, p := range c.BibPaths(root) {
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("bib file does not exist: %s", p)
		}
		if info.IsDir() {
			return fmt.Errorf("bib file is a directory: %s", p)
		}
	}
	return nil
}

// GetConfigValue returns the environment variable if set, else configValue.
func GetConfigValue(envKey, configValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return configValue
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}

package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Built-in archive defaults, shared with the CLI flag definitions.
const (
	DefaultArchiveQuality   = 80
	DefaultArchiveMaxHeight = 1024
	DefaultArchiveBackup    = true
)

// Config represents the main configuration for tidy.
type Config struct {
	LogDir     string           `toml:"log_dir"`
	Trim       TrimConfig       `toml:"trim"`
	Archive    ArchiveConfig    `toml:"archive"`
	Filesystem FilesystemConfig `toml:"filesystem"`
}

// TrimConfig holds defaults for the filename trimmer.
type TrimConfig struct {
	// Chars is the default number of leading characters to remove when
	// the --chars flag is omitted. 0 means "ask interactively".
	Chars int `toml:"chars"`
}

// ArchiveConfig holds defaults for the comic archive optimizer.
type ArchiveConfig struct {
	Quality   int  `toml:"quality"`    // JPEG quality, 1-100
	MaxHeight int  `toml:"max_height"` // pixels; 0 disables downscaling
	Backup    bool `toml:"backup"`     // keep <name>_original.cbz copies
}

// FilesystemConfig holds filesystem-related settings.
type FilesystemConfig struct {
	Ignore []string `toml:"ignore"`
}

// NewConfig creates a Config with built-in defaults rooted at baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		LogDir: filepath.Join(baseDir, "log"),
		Archive: ArchiveConfig{
			Quality:   DefaultArchiveQuality,
			MaxHeight: DefaultArchiveMaxHeight,
			Backup:    DefaultArchiveBackup,
		},
	}
}

// ExpandHome replaces a leading "~" in path with the user's home directory.
// Paths without the prefix are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader, overlaying it on defaults.
// Keys absent from the document keep their default values, so a partial
// config file never zeroes out the archive settings.
func (m *Manager) Read(r io.Reader, defaults *Config) (*Config, error) {
	cfg := *defaults
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path, overlaying it
// on defaults.
func ReadFromFile(path string, defaults *Config) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f, defaults)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}

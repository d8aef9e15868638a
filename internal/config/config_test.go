package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		LogDir: "/home/user/.local/share/tidy/log",
		Trim:   TrimConfig{Chars: 4},
		Archive: ArchiveConfig{
			Quality:   65,
			MaxHeight: 1600,
			Backup:    true,
		},
		Filesystem: FilesystemConfig{
			Ignore: []string{"*.log", ".git"},
		},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf, NewConfig("/data/tidy"))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.LogDir != original.LogDir {
		t.Errorf("LogDir = %q, want %q", got.LogDir, original.LogDir)
	}
	if got.Trim.Chars != 4 {
		t.Errorf("Trim.Chars = %d, want 4", got.Trim.Chars)
	}
	if got.Archive.Quality != 65 {
		t.Errorf("Archive.Quality = %d, want 65", got.Archive.Quality)
	}
	if got.Archive.MaxHeight != 1600 {
		t.Errorf("Archive.MaxHeight = %d, want 1600", got.Archive.MaxHeight)
	}
	if !got.Archive.Backup {
		t.Error("Archive.Backup = false, want true")
	}
	if len(got.Filesystem.Ignore) != 2 {
		t.Fatalf("len(Filesystem.Ignore) = %d, want 2", len(got.Filesystem.Ignore))
	}
}

func TestManager_Read_PartialConfigKeepsDefaults(t *testing.T) {
	t.Run("missing archive section", func(t *testing.T) {
		doc := "log_dir = \"/var/log/tidy\"\n"

		m := &Manager{}
		got, err := m.Read(strings.NewReader(doc), NewConfig("/data/tidy"))
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}

		if got.LogDir != "/var/log/tidy" {
			t.Errorf("LogDir = %q, want %q", got.LogDir, "/var/log/tidy")
		}
		if got.Archive.Quality != DefaultArchiveQuality {
			t.Errorf("Archive.Quality = %d, want %d", got.Archive.Quality, DefaultArchiveQuality)
		}
		if got.Archive.MaxHeight != DefaultArchiveMaxHeight {
			t.Errorf("Archive.MaxHeight = %d, want %d", got.Archive.MaxHeight, DefaultArchiveMaxHeight)
		}
		if !got.Archive.Backup {
			t.Error("Archive.Backup = false, want true")
		}
	})

	t.Run("partial archive section keeps backup default", func(t *testing.T) {
		doc := "[archive]\nquality = 60\nmax_height = 2048\n"

		m := &Manager{}
		got, err := m.Read(strings.NewReader(doc), NewConfig("/data/tidy"))
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}

		if got.Archive.Quality != 60 {
			t.Errorf("Archive.Quality = %d, want 60", got.Archive.Quality)
		}
		if got.Archive.MaxHeight != 2048 {
			t.Errorf("Archive.MaxHeight = %d, want 2048", got.Archive.MaxHeight)
		}
		if !got.Archive.Backup {
			t.Error("Archive.Backup = false, want true")
		}
	})
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/tidy")

	if cfg.LogDir != "/data/tidy/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/tidy/log")
	}
	if cfg.Trim.Chars != 0 {
		t.Errorf("Trim.Chars = %d, want 0", cfg.Trim.Chars)
	}
	if cfg.Archive.Quality != DefaultArchiveQuality {
		t.Errorf("Archive.Quality = %d, want %d", cfg.Archive.Quality, DefaultArchiveQuality)
	}
	if cfg.Archive.MaxHeight != DefaultArchiveMaxHeight {
		t.Errorf("Archive.MaxHeight = %d, want %d", cfg.Archive.MaxHeight, DefaultArchiveMaxHeight)
	}
	if !cfg.Archive.Backup {
		t.Error("Archive.Backup = false, want true")
	}
}

func TestExpandHome(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "home prefix", path: "~/.local/share/tidy/log", want: filepath.Join(homeDir, ".local", "share", "tidy", "log")},
		{name: "bare tilde", path: "~", want: homeDir},
		{name: "absolute path unchanged", path: "/var/log/tidy", want: "/var/log/tidy"},
		{name: "tilde inside path unchanged", path: "/data/~backup", want: "/data/~backup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandHome(tt.path)
			if err != nil {
				t.Fatalf("ExpandHome(%q) error = %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("ExpandHome(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "tidy.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "tidy.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "tidy.toml")
		cfg := NewConfig(dir)
		cfg.Trim.Chars = 7

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path, NewConfig(dir))
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.Trim.Chars != 7 {
			t.Errorf("Trim.Chars = %d, want 7", got.Trim.Chars)
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/tidy.toml", NewConfig("/data/tidy"))
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}

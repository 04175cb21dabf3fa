package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadByExtension(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "cfg.yaml", "server_url: http://localhost:9999\npoll_interval_seconds: 3\n"},
		{"yml", "cfg.yml", "server_url: http://localhost:9999\npoll_interval_seconds: 3\n"},
		{"json", "cfg.json", `{"server_url":"http://localhost:9999","poll_interval_seconds":3}`},
		{"toml", "cfg.toml", "server_url = \"http://localhost:9999\"\npoll_interval_seconds = 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeTemp(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if cfg.ServerURL != "http://localhost:9999" {
				t.Errorf("ServerURL = %q", cfg.ServerURL)
			}
			if cfg.PollInterval != 3 {
				t.Errorf("PollInterval = %d, want 3", cfg.PollInterval)
			}
		})
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	if _, err := Load(writeTemp(t, "cfg.ini", "server_url=x")); err == nil {
		t.Error("expected an error for unsupported extension")
	}
}

func TestLoadEmptyPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Error("expected an error for empty path")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for missing file")
	}
}

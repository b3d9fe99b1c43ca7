package tududir

import (
	"path/filepath"
	"testing"
)

func TestStorePath(t *testing.T) {
	tests := []struct {
		workDir string
		backend string
		want    string
	}{
		{"", "file", filepath.Join(".tudu", "store")},
		{".", "sqlite", filepath.Join(".tudu", "tudu.db")},
		{"/work", "file", filepath.Join("/work", ".tudu", "store")},
		{"/work", "sqlite", filepath.Join("/work", ".tudu", "tudu.db")},
		{"/work", "memory", ""},
	}
	for _, tt := range tests {
		if got := StorePath(tt.workDir, tt.backend); got != tt.want {
			t.Errorf("StorePath(%q, %q): got %q, want %q", tt.workDir, tt.backend, got, tt.want)
		}
	}
}

func TestConfigPath(t *testing.T) {
	if got, want := ConfigPath("/work"), filepath.Join("/work", ".tudu", "tudu.toml"); got != want {
		t.Errorf("ConfigPath: got %q, want %q", got, want)
	}
	if got := DirPath(""); got != ".tudu" {
		t.Errorf("DirPath: got %q", got)
	}
}

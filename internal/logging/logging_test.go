// Package logging provides tests for loggers and session logs.
package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewLogger(t *testing.T) {
	t.Run("text format respects level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, Options{Level: "warn", Format: "text"})
		logger.Info("hidden")
		logger.Warn("shown", "key", "todos")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("info message should be filtered at warn level: %q", out)
		}
		if !strings.Contains(out, "shown") || !strings.Contains(out, "key=todos") {
			t.Errorf("expected warn message with field, got %q", out)
		}
		if !strings.Contains(out, "tudu") {
			t.Errorf("expected default prefix, got %q", out)
		}
	})

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, Options{Level: "debug", Format: "json", Prefix: "test"})
		logger.Debug("event", "count", 2)

		var entry map[string]any
		if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
			t.Fatalf("expected JSON line, got %q: %v", buf.String(), err)
		}
		if entry["msg"] != "event" {
			t.Errorf("msg: got %v", entry["msg"])
		}
		if entry["prefix"] != "test" {
			t.Errorf("prefix: got %v", entry["prefix"])
		}
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, Options{Level: "loud"})
		logger.Debug("debug")
		logger.Info("info")
		if strings.Contains(buf.String(), "debug") || !strings.Contains(buf.String(), "info") {
			t.Errorf("unexpected output %q", buf.String())
		}
	})
}

func TestNewSessionLog(t *testing.T) {
	t.Run("creates nested log file", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "logs", "nested")
		session, err := NewSessionLog(base, t.TempDir())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer session.Close()

		if session.RunID == "" {
			t.Error("expected RunID to be set")
		}
		if !strings.HasPrefix(session.LogPath, base) || !strings.HasSuffix(session.LogPath, ".log") {
			t.Errorf("unexpected LogPath %q", session.LogPath)
		}
		if _, err := os.Stat(session.LogPath); err != nil {
			t.Errorf("log file not created: %v", err)
		}

		logger := NewLogger(session.Writer(), Options{})
		logger.Info("written to file")
		data, _ := os.ReadFile(session.LogPath)
		if !strings.Contains(string(data), "written to file") {
			t.Errorf("log file content: %q", data)
		}
	})

	t.Run("empty base dir returns error", func(t *testing.T) {
		if _, err := NewSessionLog("", t.TempDir()); err == nil || !strings.Contains(err.Error(), "empty") {
			t.Fatalf("expected empty dir error, got %v", err)
		}
	})

	t.Run("close is safe on nil", func(t *testing.T) {
		var s *SessionLog
		if err := s.Close(); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"my-project":   "my-project",
		"My Project!!": "My_Project",
		"   ":          "project",
		"@@@":          "project",
		"a.b_c":        "a.b_c",
	}
	for in, want := range tests {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestHashPath(t *testing.T) {
	a := hashPath("/work/a")
	if len(a) != 8 {
		t.Errorf("expected 8 hex chars, got %q", a)
	}
	if a != hashPath("/work/a") {
		t.Error("hash must be stable")
	}
	if a == hashPath("/work/b") {
		t.Error("different paths should hash differently")
	}
}

func TestFindLogDirIsStable(t *testing.T) {
	base := t.TempDir()
	work := t.TempDir()
	first, err := FindLogDir(base, work)
	if err != nil {
		t.Fatal(err)
	}
	second, _ := FindLogDir(base, work)
	if first != second {
		t.Errorf("FindLogDir not stable: %q vs %q", first, second)
	}
	if filepath.Dir(first) != base {
		t.Errorf("expected dir under %q, got %q", base, first)
	}
}

func TestFindLatestLog(t *testing.T) {
	dir := t.TempDir()
	if got, err := FindLatestLog(filepath.Join(dir, "missing")); err != nil || got != "" {
		t.Fatalf("missing dir: got %q, %v", got, err)
	}

	older := filepath.Join(dir, "a.log")
	newer := filepath.Join(dir, "b.log")
	ignored := filepath.Join(dir, "c.txt")
	for _, p := range []string{older, newer, ignored} {
		if err := os.WriteFile(p, []byte("x\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}

	got, err := FindLatestLog(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != newer {
		t.Errorf("got %q, want %q", got, newer)
	}
}

func TestTailLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.log")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		n    int
		want string
	}{
		{0, "one\ntwo\nthree\n"},
		{2, "two\nthree\n"},
		{10, "one\ntwo\nthree\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := TailLog(&buf, path, tt.n); err != nil {
			t.Fatal(err)
		}
		if buf.String() != tt.want {
			t.Errorf("TailLog n=%d: got %q, want %q", tt.n, buf.String(), tt.want)
		}
	}
	if err := TailLog(&bytes.Buffer{}, filepath.Join(t.TempDir(), "none.log"), 1); err == nil {
		t.Error("expected error for missing file")
	}
}

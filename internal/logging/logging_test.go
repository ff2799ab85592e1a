// Package logging provides tests for run logs and logger setup.
package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.InfoLevel},
		{"chatty", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("json output honours level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, Options{Level: "warn", Format: "json"})
		logger.Info("hidden")
		logger.Warn("shown", "id", "42")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("info line should be filtered: %q", out)
		}
		if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"id":"42"`) {
			t.Errorf("unexpected json output: %q", out)
		}
	})

	t.Run("logfmt output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, Options{Level: "debug", Format: "logfmt"})
		logger.Debug("toggled", "completed", true)
		if !strings.Contains(buf.String(), "completed=true") {
			t.Errorf("unexpected logfmt output: %q", buf.String())
		}
	})
}

func TestNewRunLogger(t *testing.T) {
	t.Run("creates file under backend slug", func(t *testing.T) {
		base := t.TempDir()
		rl, err := NewRunLogger(base, "https://localhost:3333", Options{Level: "info", Format: "logfmt"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer rl.Close()

		if !strings.HasPrefix(filepath.Base(rl.Dir), "localhost_3333-") {
			t.Errorf("Dir: got %q", rl.Dir)
		}
		if rl.RunID == "" || !strings.HasSuffix(rl.LogPath, rl.RunID+".log") {
			t.Errorf("RunID/LogPath mismatch: %q %q", rl.RunID, rl.LogPath)
		}

		rl.Logger.Info("hello", "card", "7")
		data, err := os.ReadFile(rl.LogPath)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "card=7") {
			t.Errorf("log file content: %q", data)
		}
	})

	t.Run("empty base dir", func(t *testing.T) {
		if _, err := NewRunLogger("", "https://localhost:3333", Options{}); err == nil {
			t.Fatal("expected error for empty base dir")
		}
	})

	t.Run("different ports get different dirs", func(t *testing.T) {
		a, _ := FindLogDir("/logs", "http://host:1")
		b, _ := FindLogDir("/logs", "http://host:2")
		if a == b {
			t.Errorf("expected distinct dirs, both %q", a)
		}
	})

	t.Run("close is nil safe", func(t *testing.T) {
		var rl *RunLogger
		if err := rl.Close(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"localhost:3333", "localhost_3333"},
		{"api.example.com", "api.example.com"},
		{"::1", "1"},
		{"", "backend"},
		{"///", "backend"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFindLatestLog(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		got, err := FindLatestLog(filepath.Join(t.TempDir(), "nope"))
		if err != nil || got != "" {
			t.Errorf("got %q, %v", got, err)
		}
	})

	t.Run("picks newest log", func(t *testing.T) {
		dir := t.TempDir()
		older := filepath.Join(dir, "a.log")
		newer := filepath.Join(dir, "b.log")
		other := filepath.Join(dir, "c.txt")
		for _, p := range []string{older, newer, other} {
			if err := os.WriteFile(p, []byte("x\n"), 0644); err != nil {
				t.Fatal(err)
			}
		}
		now := time.Now()
		os.Chtimes(older, now.Add(-time.Hour), now.Add(-time.Hour))
		os.Chtimes(newer, now, now)
		os.Chtimes(other, now.Add(time.Hour), now.Add(time.Hour))

		got, err := FindLatestLog(dir)
		if err != nil {
			t.Fatal(err)
		}
		if got != newer {
			t.Errorf("got %q, want %q", got, newer)
		}
	})
}

func TestTailLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\nfour\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		n    int
		want string
	}{
		{2, "three\nfour\n"},
		{0, "one\ntwo\nthree\nfour\n"},
		{10, "one\ntwo\nthree\nfour\n"},
		{1, "four\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := TailLog(&buf, path, tt.n); err != nil {
			t.Fatalf("TailLog(%d): %v", tt.n, err)
		}
		if buf.String() != tt.want {
			t.Errorf("TailLog(%d): got %q, want %q", tt.n, buf.String(), tt.want)
		}
	}

	t.Run("missing file", func(t *testing.T) {
		if err := TailLog(&bytes.Buffer{}, filepath.Join(t.TempDir(), "nope.log"), 1); err == nil {
			t.Error("expected error")
		}
	})
}

package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARNING", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"loud", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestConsoleLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Level = "WARNING"
	cfg.Console = &buf
	if err := Initialize(cfg); err != nil {
		t.Fatal(err)
	}
	defer Initialize(DefaultConfig())

	Info("hidden")
	Warningf("kept %d", 7)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("INFO record written at WARNING level: %q", out)
	}
	if !strings.Contains(out, "kept 7") {
		t.Errorf("warning missing: %q", out)
	}
	if Enabled(slog.LevelInfo) {
		t.Error("Enabled(INFO) at WARNING level")
	}
}

func TestJSONConsoleWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.ConsoleFormat = "json"
	cfg.Console = &buf
	if err := Initialize(cfg); err != nil {
		t.Fatal(err)
	}
	defer Initialize(DefaultConfig())

	With("style", "modern").Info("built", "triangles", 1200)
	out := buf.String()
	for _, want := range []string{`"msg":"built"`, `"style":"modern"`, `"triangles":1200`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q lacks %s", out, want)
		}
	}
}

func TestFileAndConsole(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "hotelgen.log")
	cfg := DefaultConfig()
	cfg.Console = &buf
	cfg.FileEnabled = true
	cfg.FilePath = path
	if err := Initialize(cfg); err != nil {
		t.Fatal(err)
	}
	Errorf("plate %s failed", "A")
	if err := Close(); err != nil {
		t.Fatal(err)
	}
	defer Initialize(DefaultConfig())

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "plate A failed") {
		t.Errorf("log file = %q", data)
	}
	if !strings.Contains(buf.String(), "plate A failed") {
		t.Errorf("console = %q", buf.String())
	}
}

func TestFileWithoutPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FileEnabled = true
	cfg.FilePath = ""
	if err := Initialize(cfg); err == nil {
		t.Fatal("expected an error for file logging without a path")
	}
}

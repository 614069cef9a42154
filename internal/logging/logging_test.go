package logging

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
)

func TestDefaultLogPath(t *testing.T) {
	path := DefaultLogPath()

	if filepath.Base(path) != "strbench.log" {
		t.Errorf("DefaultLogPath should end with strbench.log, got: %s", path)
	}
	if !strings.Contains(path, filepath.Join(".strbench", "logs")) {
		t.Errorf("DefaultLogPath should live under .strbench/logs, got: %s", path)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got: %s", cfg.Level)
	}
	if cfg.MaxSizeMB != 10 || cfg.MaxFiles != 5 {
		t.Errorf("expected 10MB x 5 files, got: %dMB x %d", cfg.MaxSizeMB, cfg.MaxFiles)
	}
	if cfg.Stderr != nil {
		t.Error("expected no stderr mirroring by default")
	}
	if DebugConfig().Level != "debug" {
		t.Errorf("expected debug level, got: %s", DebugConfig().Level)
	}
}

func TestSetup_WritesJSONRecords(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "test.log")
	var mirror bytes.Buffer

	logger, cleanup, err := Setup(Config{Level: "debug", FilePath: logPath, MaxSizeMB: 1, MaxFiles: 3, Stderr: &mirror})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	logger.Debug("text_benchmarked", slog.String("label", "article_1"))
	cleanup()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), `"msg":"text_benchmarked"`) || !strings.Contains(string(content), `"label":"article_1"`) {
		t.Errorf("log file missing record: %s", content)
	}
	if mirror.String() != string(content) {
		t.Errorf("stderr mirror differs from file: %q vs %q", mirror.String(), content)
	}
}

func TestSetup_RejectsUnknownLevel(t *testing.T) {
	_, _, err := Setup(Config{Level: "loud", FilePath: filepath.Join(t.TempDir(), "x.log")})
	if err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewConsole_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsole(&buf, slog.LevelWarn)

	logger.Info("comparison_started")
	logger.Warn("missing_pattern_found", slog.String("label", "t"))

	out := buf.String()
	if strings.Contains(out, "comparison_started") {
		t.Errorf("info record should be filtered: %s", out)
	}
	if !strings.Contains(out, "missing_pattern_found") || !strings.Contains(out, "label=t") {
		t.Errorf("warn record missing: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"debug", "DEBUG", false},
		{"DEBUG", "DEBUG", false},
		{"", "INFO", false},
		{"info", "INFO", false},
		{"warn", "WARN", false},
		{"warning", "WARN", false},
		{"error", "ERROR", false},
		{"unknown", "INFO", true},
	}

	for _, tc := range tests {
		level, err := ParseLevel(tc.input)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
		}
		if level.String() != tc.expected {
			t.Errorf("ParseLevel(%q) = %s, want %s", tc.input, level, tc.expected)
		}
		if LevelFromString(tc.input).String() != tc.expected {
			t.Errorf("LevelFromString(%q) = %s, want %s", tc.input, LevelFromString(tc.input), tc.expected)
		}
	}
}

func TestFindLogFile(t *testing.T) {
	if _, err := FindLogFile("/nonexistent/path/to/log.log"); err == nil {
		t.Error("expected error for nonexistent file")
	}

	logPath := filepath.Join(t.TempDir(), "test.log")
	if err := os.WriteFile(logPath, []byte("test"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	found, err := FindLogFile(logPath)
	if err != nil || found != logPath {
		t.Errorf("FindLogFile(%s) = %s, %v", logPath, found, err)
	}
}

// ============================================================================
// RotatingWriter
// ============================================================================

func TestRotatingWriter_VisibleWithoutClose(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	w, err := NewRotatingWriter(logPath, 1, 3)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	defer w.Close()

	data := []byte(`{"level":"INFO","msg":"test"}` + "\n")
	if n, err := w.Write(data); err != nil || n != len(data) {
		t.Fatalf("write = %d, %v", n, err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("expected %q, got %q", data, content)
	}
}

func TestRotatingWriter_SyncEachDisabled(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	w, err := NewRotatingWriter(logPath, 1, 3)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	defer w.Close()
	w.SetSyncEach(false)

	if _, err := w.Write([]byte("buffered\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := w.Sync(); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	content, _ := os.ReadFile(logPath)
	if string(content) != "buffered\n" {
		t.Errorf("unexpected content %q", content)
	}
}

func TestRotatingWriter_DefaultsForNonPositiveLimits(t *testing.T) {
	w, err := NewRotatingWriter(filepath.Join(t.TempDir(), "d.log"), 0, -1)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	defer w.Close()

	if w.maxSize != 10<<20 || w.maxFiles != 5 {
		t.Errorf("expected 10MB x 5, got %d x %d", w.maxSize, w.maxFiles)
	}
}

func TestRotatingWriter_Rotation(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rotate.log")
	w, err := NewRotatingWriter(logPath, 1, 3)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	defer w.Close()
	w.maxSize = 1024

	chunk := bytes.Repeat([]byte("x"), 800)
	for i := 0; i < 2; i++ {
		if _, err := w.Write(chunk); err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
	}

	if _, err := os.Stat(logPath + ".1"); err != nil {
		t.Errorf("rotated file .1 should exist: %v", err)
	}
	content, _ := os.ReadFile(logPath)
	if len(content) != len(chunk) {
		t.Errorf("current log should hold one chunk, has %d bytes", len(content))
	}
}

func TestRotatingWriter_MaxFilesLimit(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "maxfiles.log")
	w, err := NewRotatingWriter(logPath, 1, 2)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	defer w.Close()
	w.maxSize = 100

	chunk := bytes.Repeat([]byte("y"), 80)
	for i := 0; i < 6; i++ {
		if _, err := w.Write(chunk); err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
	}

	for _, suffix := range []string{".1", ".2"} {
		if _, err := os.Stat(logPath + suffix); err != nil {
			t.Errorf("rotated file %s should exist: %v", suffix, err)
		}
	}
	if _, err := os.Stat(logPath + ".3"); !os.IsNotExist(err) {
		t.Error("rotated file .3 should not exist (beyond maxFiles)")
	}
}

func TestRotatingWriter_CloseTwice(t *testing.T) {
	w, err := NewRotatingWriter(filepath.Join(t.TempDir(), "close.log"), 1, 3)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Errorf("close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second close failed: %v", err)
	}
	if err := w.Sync(); err != nil {
		t.Errorf("sync after close failed: %v", err)
	}
}

func TestRotatingWriter_ConcurrentWrites(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "concurrent.log")
	w, err := NewRotatingWriter(logPath, 10, 3)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	defer w.Close()
	w.SetSyncEach(false)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = fmt.Fprintf(w, `{"id":%d,"iter":%d,"msg":"test"}`+"\n", id, j)
			}
		}(i)
	}
	wg.Wait()
	_ = w.Sync()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file should exist: %v", err)
	}
	if lines := strings.Count(string(content), "\n"); lines != 1000 {
		t.Errorf("expected 1000 lines, got %d", lines)
	}
}

// ============================================================================
// Viewer
// ============================================================================

const sampleLog = `{"time":"2026-01-02T10:00:00.5Z","level":"INFO","msg":"comparison_started","texts":2}
{"time":"2026-01-02T10:00:01Z","level":"DEBUG","msg":"text_benchmarked","label":"article_1"}
not json at all
{"time":"2026-01-02T10:00:02Z","level":"WARN","msg":"missing_pattern_found","label":"article_2"}
{"time":"2026-01-02T10:00:03Z","level":"INFO","msg":"comparison_complete","winner":"KMP"}
`

func writeSampleLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strbench.log")
	if err := os.WriteFile(path, []byte(sampleLog), 0o644); err != nil {
		t.Fatalf("failed to write log: %v", err)
	}
	return path
}

func TestViewer_Tail(t *testing.T) {
	v := NewViewer(ViewerConfig{NoColor: true}, nil)

	entries, err := v.Tail(writeSampleLog(t), 2)
	if err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Msg != "missing_pattern_found" || entries[1].Msg != "comparison_complete" {
		t.Errorf("unexpected entries: %+v", entries)
	}

	all, err := v.Tail(writeSampleLog(t), 0)
	if err != nil || len(all) != 5 {
		t.Errorf("Tail(0) = %d entries, %v", len(all), err)
	}
}

func TestViewer_Tail_Filters(t *testing.T) {
	path := writeSampleLog(t)

	warn, err := NewViewer(ViewerConfig{Level: "warn"}, nil).Tail(path, 0)
	if err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
	if len(warn) != 1 || warn[0].Msg != "missing_pattern_found" {
		t.Errorf("level filter: %+v", warn)
	}

	grep, err := NewViewer(ViewerConfig{Pattern: regexp.MustCompile(`article_\d`)}, nil).Tail(path, 0)
	if err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
	if len(grep) != 2 {
		t.Errorf("pattern filter: expected 2, got %d", len(grep))
	}
}

func TestViewer_Tail_NonexistentFile(t *testing.T) {
	if _, err := NewViewer(ViewerConfig{}, nil).Tail("/nonexistent/file.log", 10); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestViewer_FormatEntry(t *testing.T) {
	v := NewViewer(ViewerConfig{NoColor: true}, nil)

	entry := v.parseLine(`{"time":"2026-01-02T10:00:00.5Z","level":"INFO","msg":"done","winner":"KMP","elapsed":"3ms"}`)
	if got, want := v.FormatEntry(entry), "10:00:00.500 INFO  done elapsed=3ms winner=KMP"; got != want {
		t.Errorf("FormatEntry = %q, want %q", got, want)
	}

	raw := v.parseLine("plain text")
	if raw.IsValid || v.FormatEntry(raw) != "plain text" {
		t.Errorf("invalid line should be passed through: %+v", raw)
	}
}

func TestViewer_FormatLevel_Colors(t *testing.T) {
	v := NewViewer(ViewerConfig{}, nil)

	for level, code := range map[string]string{"debug": "90", "info": "32", "warn": "33", "error": "31"} {
		if got := v.formatLevel(level); !strings.Contains(got, "\033["+code+"m") {
			t.Errorf("formatLevel(%q) = %q, want color %s", level, got, code)
		}
	}
	if got := v.formatLevel("custom"); got != "CUSTO" {
		t.Errorf("formatLevel(custom) = %q", got)
	}
}

func TestViewer_Print(t *testing.T) {
	var buf bytes.Buffer
	v := NewViewer(ViewerConfig{NoColor: true}, &buf)

	entries, err := v.Tail(writeSampleLog(t), 1)
	if err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
	v.Print(entries)

	if !strings.Contains(buf.String(), "comparison_complete winner=KMP") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

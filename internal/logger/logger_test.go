package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "warn", Console: &buf})
	if err != nil {
		t.Fatal(err)
	}
	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info should be filtered at warn: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "WARN") {
		t.Errorf("warn missing: %q", out)
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNew_FileIsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monarch.log")
	log, err := New(Options{Level: "info", File: path, Console: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	log.Info("to file")
	_ = log.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(raw), &entry); err != nil {
		t.Fatalf("file line is not JSON: %q", raw)
	}
	if entry["msg"] != "to file" {
		t.Errorf("msg = %v", entry["msg"])
	}
}

package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, err %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("json"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(json) = %v, %v", f, err)
	}
	if f, err := ParseFormat(""); err != nil || f != FormatText {
		t.Errorf("ParseFormat(\"\") = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) expected error")
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelWarn, FormatJSON, &buf)

	logger.Info("hidden")
	logger.Warn("math render failed", "source", `\fail`)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry["msg"] != "math render failed" || entry["source"] != `\fail` {
		t.Errorf("entry = %v", entry)
	}
	ts, _ := entry["time"].(string)
	if !strings.Contains(ts, "T") || strings.Contains(ts, ".") {
		t.Errorf("time = %q, want RFC3339 without fraction", ts)
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	New(LevelDebug, FormatText, &buf).Debug("scan complete", "decorations", 3)
	if out := buf.String(); !strings.Contains(out, "msg=\"scan complete\"") || !strings.Contains(out, "decorations=3") {
		t.Errorf("text output = %q", out)
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing")
}

package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger(LogOptions{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	l.With("instance", "abc").Info("dispatch", "entry", "flip", "mutated", true)

	var rec map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal %q: %v", buf.String(), err)
	}
	if rec["level"] != "info" || rec["message"] != "dispatch" {
		t.Fatalf("unexpected record: %v", rec)
	}
	if rec["instance"] != "abc" || rec["entry"] != "flip" || rec["mutated"] != true {
		t.Fatalf("missing fields: %v", rec)
	}
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger(LogOptions{Level: "warn", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	l.Debug("hidden")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}
	l.Error(errors.New("boom"), "visible")
	if !strings.Contains(buf.String(), `"error":"boom"`) {
		t.Fatalf("expected error field, got %q", buf.String())
	}
}

func TestNewLogger_Invalid(t *testing.T) {
	if _, err := NewLogger(LogOptions{Level: "loud"}); err == nil {
		t.Fatalf("expected invalid level error")
	}
	if _, err := NewLogger(LogOptions{Format: "xml"}); err == nil {
		t.Fatalf("expected invalid format error")
	}
}

func TestNop(t *testing.T) {
	Nop().With("k", "v").Info("ignored")
}

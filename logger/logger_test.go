package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	return m
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "debug", Format: "json"}, &buf, "recq")
	l.Info("plan executed", Fields(FieldPlan, "daily", FieldRecordsOut, 3))

	m := decodeLine(t, &buf)
	if m["message"] != "plan executed" {
		t.Errorf("unexpected message %v", m["message"])
	}
	if m["service"] != "recq" || m["plan"] != "daily" || m["records_out"] != 3.0 {
		t.Errorf("unexpected fields %v", m)
	}
	if m["level"] != "info" {
		t.Errorf("expected level info, got %v", m["level"])
	}
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "warn", Format: "json"}, &buf, "recq")
	l.Debug("hidden")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected nothing below warn, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn line, got %q", buf.String())
	}
}

func TestNewWithWriter_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "loud", Format: "json"}, &buf, "recq")
	l.Debug("hidden")
	l.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected info level, got %q", buf.String())
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, &buf, "recq")
	l.Error("failed", Fields(FieldStep, 2))
	out := buf.String()
	if !strings.Contains(out, "[ERR]") || !strings.Contains(out, "step:") {
		t.Errorf("unexpected console output %q", out)
	}
}

func TestWithComponentAndError(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(&Config{Level: "info", Format: "json"}, &buf, "recq")
	base.WithComponent("server").WithError(errors.New("boom")).Warn("request failed")

	m := decodeLine(t, &buf)
	if m["component"] != "server" || m["error"] != "boom" {
		t.Errorf("unexpected fields %v", m)
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, &buf, "recq").
		WithFields(map[string]any{FieldRunID: "r-1"})
	l.Info("x")
	if m := decodeLine(t, &buf); m["run_id"] != "r-1" {
		t.Errorf("expected run_id, got %v", m)
	}
}

func TestInitSetsGlobalLogger(t *testing.T) {
	prev := GetGlobalLogger()
	t.Cleanup(func() { SetGlobalLogger(prev) })

	var buf bytes.Buffer
	l := Init(Config{Format: "json", Level: "warn"}, &buf, "recq")
	if GetGlobalLogger() != l {
		t.Fatal("Init did not install the global logger")
	}
	GetGlobalLogger().Info("dropped")
	GetGlobalLogger().Warn("kept")
	m := decodeLine(t, &buf)
	if m["message"] != "kept" || m[FieldService] != "recq" {
		t.Errorf("line = %v", m)
	}
	if _, ok := m["time"]; !ok {
		t.Error("defaults should enable timestamps")
	}
}

func TestNop(t *testing.T) {
	Nop().Error("discarded")
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, 2, "dropped", "b")
	if len(m) != 1 || m["a"] != 1 {
		t.Errorf("unexpected fields %v", m)
	}
}

func TestErrorFieldsAndDuration(t *testing.T) {
	f := ErrorFields("rollup", errors.New("arity"))
	if f[FieldOperation] != "rollup" || f[FieldError] != "arity" {
		t.Errorf("unexpected %v", f)
	}
	d := MergeWithDuration(nil, 1500*time.Millisecond)
	if d[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500, got %v", d[FieldDuration])
	}
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != "console" || cfg.Output != "stderr" || !cfg.Timestamp {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	bad := Config{Level: "chatty", Format: "json"}
	if err := bad.Validate(); err == nil || !strings.Contains(err.Error(), "logging.level") {
		t.Errorf("expected level error, got %v", err)
	}
	bad = Config{Level: "info", Format: "xml"}
	if err := bad.Validate(); err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Errorf("expected format error, got %v", err)
	}
}

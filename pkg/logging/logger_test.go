package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewLogger_DefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelInfo {
		t.Errorf("expected default level to be info, got %s", cfg.Level)
	}
	if cfg.Component != "guestpulse" {
		t.Errorf("expected default component to be 'guestpulse', got %s", cfg.Component)
	}
	if cfg.JSONFormat {
		t.Error("expected default JSONFormat to be false")
	}
}

func TestNewLogger_NilConfig(t *testing.T) {
	log := NewLogger(nil)
	if log == nil {
		t.Error("expected non-nil logger with nil config")
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	cfg := &Config{
		Level:      LevelDebug,
		Component:  "weekly",
		JSONFormat: true,
		Output:     buf,
	}

	log := NewLogger(cfg)
	log.Info("test message", F("key", "value"))

	var output map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}

	if output["message"] != "test message" {
		t.Errorf("expected message 'test message', got %v", output["message"])
	}
	if output["component"] != "weekly" {
		t.Errorf("expected component 'weekly', got %v", output["component"])
	}
	if output["key"] != "value" {
		t.Errorf("expected key 'value', got %v", output["key"])
	}
	if _, ok := output["time"]; !ok {
		t.Error("expected timestamp field 'time' in output")
	}
	if output["level"] != "info" {
		t.Errorf("expected level 'info', got %v", output["level"])
	}
}

func TestLogger_AllLevels(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func(Logger)
		expected string
	}{
		{
			name:     "debug",
			logFunc:  func(l Logger) { l.Debug("debug message") },
			expected: "debug",
		},
		{
			name:     "info",
			logFunc:  func(l Logger) { l.Info("info message") },
			expected: "info",
		},
		{
			name:     "warn",
			logFunc:  func(l Logger) { l.Warn("warn message") },
			expected: "warn",
		},
		{
			name:     "error",
			logFunc:  func(l Logger) { l.Error("error message") },
			expected: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			log := NewLogger(&Config{
				Level:      LevelDebug,
				Component:  "test",
				JSONFormat: true,
				Output:     buf,
			})

			tt.logFunc(log)

			var output map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
				t.Fatalf("failed to parse JSON: %v", err)
			}

			if output["level"] != tt.expected {
				t.Errorf("expected level %s, got %v", tt.expected, output["level"])
			}
		})
	}
}

func TestLogger_FieldTypes(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(&Config{Level: LevelDebug, Component: "test", JSONFormat: true, Output: buf})

	log.Info("typed fields",
		F("str", "s"),
		F("int", 42),
		F("int64", int64(43)),
		F("float", 1.5),
		F("bool", true),
		F("dur", 2*time.Second),
		Err(errors.New("boom")),
	)

	var output map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}
	if output["str"] != "s" || output["int"] != float64(42) || output["bool"] != true {
		t.Errorf("unexpected field values: %v", output)
	}
	if output["error"] != "boom" {
		t.Errorf("expected error 'boom', got %v", output["error"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(&Config{Level: LevelWarn, Component: "test", JSONFormat: true, Output: buf})

	log.Debug("suppressed")
	log.Info("suppressed")
	log.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Errorf("low-severity messages leaked through: %s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn message missing from output: %s", out)
	}
}

func TestLogger_With(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(&Config{Level: LevelDebug, Component: "test", JSONFormat: true, Output: buf})

	child := log.With(F("source", "yandex"))
	child.Info("scoped")

	var output map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}
	if output["source"] != "yandex" {
		t.Errorf("expected attached field, got %v", output)
	}
}

func TestLogger_WithContext(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(&Config{Level: LevelDebug, Component: "test", JSONFormat: true, Output: buf})

	ctx := context.WithValue(context.Background(), RunIDKey, "run-123")
	log.WithContext(ctx).Info("with run")

	var output map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}
	if output["run_id"] != "run-123" {
		t.Errorf("expected run_id from context, got %v", output)
	}
}

func TestLogger_WithContextNoRunID(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(&Config{Level: LevelDebug, Component: "test", JSONFormat: true, Output: buf})

	log.WithContext(context.Background()).Info("plain")

	var output map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}
	if _, ok := output["run_id"]; ok {
		t.Error("run_id should be absent without a context value")
	}
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	log.Info("dropped", F("k", "v"))
	log.With(F("k", "v")).Error("also dropped")
	if log.WithContext(context.Background()) == nil {
		t.Error("nop logger should chain")
	}
}

func TestMustGlobal(t *testing.T) {
	SetGlobal(nil)
	if MustGlobal() == nil {
		t.Error("MustGlobal should initialize a default logger")
	}
	custom := NewNopLogger()
	SetGlobal(custom)
	if MustGlobal() != custom {
		t.Error("MustGlobal should return the logger set with SetGlobal")
	}
}

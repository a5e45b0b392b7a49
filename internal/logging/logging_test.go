package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("Level.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"off", LevelNone},
		{"invalid", LevelWarn},
		{"", LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Format: FormatText, Output: &buf})

	logger.Info("test message", Fields{"b": 2, "a": "value"})

	output := buf.String()
	if !strings.Contains(output, "INFO: test message") {
		t.Errorf("output = %q, want level and message", output)
	}
	if !strings.Contains(output, "a=value b=2") {
		t.Errorf("output = %q, want sorted fields", output)
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Format: FormatJSON, Output: &buf})

	logger.Error("request failed", errors.New("boom"), Fields{"status": 500})

	var e entry
	if err := json.Unmarshal(buf.Bytes(), &e); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if e.Level != "ERROR" || e.Message != "request failed" || e.Error != "boom" {
		t.Errorf("entry = %+v", e)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelWarn, Output: &buf})

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("output = %q, debug/info should be filtered", output)
	}
	if !strings.Contains(output, "shown") {
		t.Errorf("output = %q, want warn entry", output)
	}
}

func TestLogger_NoneLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelNone, Output: &buf})

	logger.Error("nothing", errors.New("x"))

	if buf.Len() != 0 {
		t.Errorf("LevelNone should drop everything, got %q", buf.String())
	}
	if logger.Enabled(LevelError) {
		t.Error("Enabled() should be false for LevelNone")
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Output: &buf})

	child := logger.With(Fields{"session": "abc"})
	child.Debug("turn", Fields{"n": 1})
	logger.Debug("parent")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "n=1 session=abc") {
		t.Errorf("child line = %q, want inherited fields", lines[0])
	}
	if strings.Contains(lines[1], "session") {
		t.Errorf("parent line = %q, should not carry child fields", lines[1])
	}
}

func TestNewCLI(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogFormat, "")
	if NewCLI(false, io.Discard).Enabled(LevelDebug) {
		t.Error("non-verbose logger should not log debug")
	}
	if !NewCLI(true, io.Discard).Enabled(LevelDebug) {
		t.Error("verbose logger should log debug")
	}
}

func TestRedact(t *testing.T) {
	input := map[string]interface{}{
		"api_key":    "sk-secret",
		"max_tokens": float64(1024),
		"nested": map[string]interface{}{
			"password": "hunter2",
			"model":    "m",
		},
	}

	got := redact(input).(map[string]interface{})
	if got["api_key"] != "[REDACTED]" {
		t.Errorf("api_key = %v, want redacted", got["api_key"])
	}
	if got["max_tokens"] != float64(1024) {
		t.Errorf("max_tokens = %v, should not be redacted", got["max_tokens"])
	}
	nested := got["nested"].(map[string]interface{})
	if nested["password"] != "[REDACTED]" || nested["model"] != "m" {
		t.Errorf("nested = %v", nested)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate([]byte("short"), 10); got != "short" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate([]byte("0123456789abc"), 10); got != "0123456789...[truncated]" {
		t.Errorf("truncate() = %q", got)
	}
}

func TestTransport_RedactsAuthorization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"model":"m"}` {
			t.Errorf("server got body %q, want original body", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Output: &buf})
	client := &http.Client{Transport: NewTransport(nil, logger)}

	req, _ := http.NewRequest(http.MethodPost, server.URL, strings.NewReader(`{"model":"m"}`))
	req.Header.Set("Authorization", "Bearer sk-secret")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if string(body) != `{"ok":true}` {
		t.Errorf("response body = %q, should be readable after logging", body)
	}
	output := buf.String()
	if strings.Contains(output, "sk-secret") {
		t.Errorf("log output leaked the API key: %q", output)
	}
	if !strings.Contains(output, "HTTP request") || !strings.Contains(output, "HTTP response") {
		t.Errorf("log output = %q, want request and response entries", output)
	}
}

func TestNewCLI_EnvLevelAndFormat(t *testing.T) {
	t.Setenv(EnvLogLevel, "info")
	t.Setenv(EnvLogFormat, "JSON")

	var buf bytes.Buffer
	logger := NewCLI(false, &buf)
	logger.Debug("hidden")
	logger.Info("shown", Fields{"command": "ask"})

	line := strings.TrimSpace(buf.String())
	var e map[string]interface{}
	if err := json.Unmarshal([]byte(line), &e); err != nil {
		t.Fatalf("output %q is not one JSON entry: %v", line, err)
	}
	if e["level"] != "INFO" || e["message"] != "shown" {
		t.Errorf("entry = %v", e)
	}
}

func TestNewCLI_VerboseOverridesEnvLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "")

	if !NewCLI(true, io.Discard).Enabled(LevelDebug) {
		t.Error("--verbose should force debug")
	}
	if NewCLI(false, io.Discard).Enabled(LevelWarn) {
		t.Error("NIMBUSCODE_LOG_LEVEL=error should hide warnings")
	}
}

func TestTransport_PassThroughWhenDebugDisabled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelWarn, Output: &buf})
	client := &http.Client{Transport: NewTransport(nil, logger)}

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if string(body) != `{"ok":true}` {
		t.Errorf("response body = %q", body)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be logged below debug, got %q", buf.String())
	}
}

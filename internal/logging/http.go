package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxLoggedBody = 4096

var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"api-key":       true,
	"x-api-key":     true,
	"cookie":        true,
	"set-cookie":    true,
}

var sensitiveKeys = []string{"api_key", "apikey", "password", "secret", "access_token", "authorization"}

// Transport wraps an http.RoundTripper and logs each exchange at debug level
type Transport struct {
	wrapped http.RoundTripper
	logger  *Logger
}

// NewTransport creates a logging round tripper. A nil wrapped transport
// falls back to http.DefaultTransport.
func NewTransport(wrapped http.RoundTripper, logger *Logger) *Transport {
	if wrapped == nil {
		wrapped = http.DefaultTransport
	}
	return &Transport{wrapped: wrapped, logger: logger}
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !t.logger.Enabled(LevelDebug) {
		return t.wrapped.RoundTrip(req)
	}
	start := time.Now()

	reqFields := Fields{
		"method":  req.Method,
		"url":     req.URL.String(),
		"headers": redactHeaders(req.Header),
	}
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, err
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
		if len(body) > 0 {
			reqFields["body"] = describeBody(body)
			reqFields["body_size"] = len(body)
		}
	}
	t.logger.Debug("HTTP request", reqFields)

	resp, err := t.wrapped.RoundTrip(req)
	if err != nil {
		t.logger.Error("HTTP request failed", err, Fields{
			"url":         req.URL.String(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil, err
	}

	respFields := Fields{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if resp.Body != nil {
		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(body))
		if err == nil && len(body) > 0 {
			respFields["body"] = describeBody(body)
			respFields["body_size"] = len(body)
		}
	}
	t.logger.Debug("HTTP response", respFields)

	return resp, nil
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		switch {
		case sensitiveHeaders[strings.ToLower(k)]:
			out[k] = "[REDACTED]"
		case len(v) > 0:
			out[k] = v[0]
		}
	}
	return out
}

// describeBody returns redacted JSON when possible, else truncated text
func describeBody(body []byte) interface{} {
	if json.Valid(body) {
		var parsed interface{}
		if err := json.Unmarshal(body, &parsed); err == nil {
			return redact(parsed)
		}
	}
	return truncate(body, maxLoggedBody)
}

func truncate(body []byte, max int) string {
	if len(body) <= max {
		return string(body)
	}
	return string(body[:max]) + "...[truncated]"
}

func redact(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			if isSensitiveKey(k) {
				out[k] = "[REDACTED]"
			} else {
				out[k] = redact(val)
			}
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = redact(item)
		}
		return out
	default:
		return data
	}
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

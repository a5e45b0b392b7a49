package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/quocvuong92/nimbuscode/internal/config"
	"github.com/quocvuong92/nimbuscode/internal/constants"
	clierrors "github.com/quocvuong92/nimbuscode/internal/errors"
	"github.com/quocvuong92/nimbuscode/internal/history"
	"github.com/quocvuong92/nimbuscode/internal/logging"
)

func newTestConfig(baseURL string) *config.Config {
	cfg := config.NewConfig()
	cfg.APIKey = "sk-or-test"
	cfg.BaseURL = baseURL
	cfg.Model = "test/model:free"
	cfg.MaxTokens = 256
	cfg.SetTemperature(0.5)
	return cfg
}

// newTestServer counts requests and delegates to handler
func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func testMessages() []history.Message {
	return []history.Message{
		history.SystemMessage("You are helpful."),
		history.UserMessage("Say hi"),
	}
}

func TestComplete_Success(t *testing.T) {
	var got ChatRequest
	server, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != constants.ChatPath {
			t.Errorf("path = %s, want %s", r.URL.Path, constants.ChatPath)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-or-test" {
			t.Errorf("Authorization = %q", auth)
		}
		if r.Header.Get("HTTP-Referer") != constants.RefererURL {
			t.Errorf("HTTP-Referer = %q", r.Header.Get("HTTP-Referer"))
		}
		if r.Header.Get("X-Title") != constants.AppTitle {
			t.Errorf("X-Title = %q", r.Header.Get("X-Title"))
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"gen-1","choices":[{"index":0,"message":{"role":"assistant","content":"  Hi there!\n"}}]}`))
	})

	client := NewOpenRouterClient(newTestConfig(server.URL), nil)
	reply, err := client.Complete(context.Background(), testMessages(), "")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if reply != "Hi there!" {
		t.Errorf("reply = %q, want %q", reply, "Hi there!")
	}
	if atomic.LoadInt32(calls) != 1 {
		t.Errorf("calls = %d, want 1", *calls)
	}
	if got.Model != "test/model:free" {
		t.Errorf("model = %q, want configured model", got.Model)
	}
	if got.MaxTokens != 256 || got.Temperature != 0.5 {
		t.Errorf("max_tokens/temperature = %d/%v", got.MaxTokens, got.Temperature)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != history.RoleSystem || got.Messages[1].Content != "Say hi" {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestComplete_ModelOverride(t *testing.T) {
	var model string
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		model = req.Model
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	})

	client := NewOpenRouterClient(newTestConfig(server.URL), nil)
	if _, err := client.Complete(context.Background(), testMessages(), "other/model"); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if model != "other/model" {
		t.Errorf("model = %q, want other/model", model)
	}
}

func TestComplete_AuthErrors(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"error":{"message":"No auth credentials found","code":401}}`))
			})

			client := NewOpenRouterClient(newTestConfig(server.URL), nil)
			_, err := client.Complete(context.Background(), testMessages(), "")
			if !isAuthError(err) {
				t.Fatalf("Complete() error = %v, want AuthError", err)
			}
			var authErr *clierrors.AuthError
			if errors.As(err, &authErr) && authErr.Message != "No auth credentials found" {
				t.Errorf("Message = %q", authErr.Message)
			}
			if atomic.LoadInt32(calls) != 1 {
				t.Errorf("calls = %d, want exactly 1 (no retries)", *calls)
			}
		})
	}
}

func TestComplete_EmptyKeyIsAuthError(t *testing.T) {
	server, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	cfg := newTestConfig(server.URL)
	cfg.APIKey = ""

	_, err := NewOpenRouterClient(cfg, nil).Complete(context.Background(), testMessages(), "")
	if !isAuthError(err) {
		t.Errorf("Complete() error = %v, want AuthError", err)
	}
	if atomic.LoadInt32(calls) != 0 {
		t.Errorf("calls = %d, want 0", *calls)
	}
}

func TestComplete_ServerErrorNotRetried(t *testing.T) {
	server, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded"}}`))
	})

	_, err := NewOpenRouterClient(newTestConfig(server.URL), nil).Complete(context.Background(), testMessages(), "")
	var apiErr *clierrors.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Complete() error = %v, want APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d", apiErr.StatusCode)
	}
	if apiErr.Message != "upstream exploded" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if atomic.LoadInt32(calls) != 1 {
		t.Errorf("calls = %d, want 1", *calls)
	}
}

func TestComplete_RateLimitIsAPIError(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	})

	_, err := NewOpenRouterClient(newTestConfig(server.URL), nil).Complete(context.Background(), testMessages(), "")
	var apiErr *clierrors.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Complete() error = %v, want APIError", err)
	}
	if apiErr.Message != "status code 429: slow down" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestComplete_ErrorBodyWithOKStatus(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"message":"model not found"}}`))
	})

	_, err := NewOpenRouterClient(newTestConfig(server.URL), nil).Complete(context.Background(), testMessages(), "")
	var apiErr *clierrors.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "model not found" {
		t.Errorf("Complete() error = %v, want APIError with provider message", err)
	}
}

func TestComplete_NoChoices(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"gen-2","choices":[]}`))
	})

	_, err := NewOpenRouterClient(newTestConfig(server.URL), nil).Complete(context.Background(), testMessages(), "")
	var apiErr *clierrors.APIError
	if !errors.As(err, &apiErr) {
		t.Errorf("Complete() error = %v, want APIError", err)
	}
}

func TestComplete_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewOpenRouterClient(newTestConfig(url), nil).Complete(context.Background(), testMessages(), "")
	if !isNetworkError(err) {
		t.Errorf("Complete() error = %v, want NetworkError", err)
	}
}

func TestComplete_Timeout(t *testing.T) {
	release := make(chan struct{})
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	client := NewOpenRouterClient(newTestConfig(server.URL), &http.Client{Timeout: 50 * time.Millisecond})
	_, err := client.Complete(context.Background(), testMessages(), "")
	if !isNetworkError(err) {
		t.Errorf("Complete() error = %v, want NetworkError", err)
	}
}

func TestComplete_CancelledContext(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewOpenRouterClient(newTestConfig(server.URL), nil).Complete(ctx, testMessages(), "")
	if !isNetworkError(err) {
		t.Errorf("Complete() error = %v, want NetworkError", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error should wrap context.Canceled")
	}
}

func TestNewClient_RequiresKey(t *testing.T) {
	cfg := newTestConfig("http://localhost")
	cfg.APIKey = ""
	var cfgErr *clierrors.ConfigError
	if _, err := NewClient(cfg, logging.Discard()); !errors.As(err, &cfgErr) {
		t.Errorf("NewClient() error = %v, want ConfigError", err)
	}
}

func TestNewClient_VerboseLogsRequests(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	})
	cfg := newTestConfig(server.URL)
	cfg.Verbose = true

	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: logging.LevelDebug, Output: &buf})
	client, err := NewClient(cfg, logger)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if _, err := client.Complete(context.Background(), testMessages(), ""); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	out := buf.String()
	if out == "" {
		t.Fatal("expected request to be logged")
	}
	if strings.Contains(out, "sk-or-test") {
		t.Errorf("log output leaked the API key: %s", out)
	}
}

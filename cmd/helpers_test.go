package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quocvuong92/nimbuscode/internal/api"
	"github.com/quocvuong92/nimbuscode/internal/config"
	"github.com/quocvuong92/nimbuscode/internal/history"
	"github.com/quocvuong92/nimbuscode/internal/logging"
)

// MockAIClient implements api.AIClient for testing
type MockAIClient struct {
	responses     []string
	responseIndex int
	errOnCall     map[int]error // keyed by 1-based call number
	shouldError   error

	models    []api.ModelDescriptor
	modelsErr error

	calls           int
	modelCalls      int
	received        [][]history.Message
	requestedModels []string
	cfg             *config.Config
}

func NewMockAIClient(responses ...string) *MockAIClient {
	return &MockAIClient{responses: responses, errOnCall: map[int]error{}}
}

func (m *MockAIClient) SetError(err error) {
	m.shouldError = err
}

// SetErrorOnCall makes the n-th Complete call fail
func (m *MockAIClient) SetErrorOnCall(n int, err error) {
	m.errOnCall[n] = err
}

func (m *MockAIClient) Complete(ctx context.Context, messages []history.Message, model string) (string, error) {
	m.calls++
	m.received = append(m.received, messages)
	m.requestedModels = append(m.requestedModels, model)

	if m.shouldError != nil {
		return "", m.shouldError
	}
	if err, ok := m.errOnCall[m.calls]; ok {
		return "", err
	}
	if m.responseIndex >= len(m.responses) {
		return "", nil
	}
	resp := m.responses[m.responseIndex]
	m.responseIndex++
	return resp, nil
}

func (m *MockAIClient) ListModels(ctx context.Context) ([]api.ModelDescriptor, error) {
	m.modelCalls++
	return m.models, m.modelsErr
}

func (m *MockAIClient) lastMessages() []history.Message {
	if len(m.received) == 0 {
		return nil
	}
	return m.received[len(m.received)-1]
}

func (m *MockAIClient) lastModel() string {
	if len(m.requestedModels) == 0 {
		return ""
	}
	return m.requestedModels[len(m.requestedModels)-1]
}

// Ensure MockAIClient implements api.AIClient
var _ api.AIClient = (*MockAIClient)(nil)

// Helper to set environment variable for test and restore after
func setEnvForTest(t *testing.T, key, value string) {
	t.Helper()
	old, existed := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if existed {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

// clearAllEnvVars clears all config-related environment variables for clean tests
func clearAllEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{config.EnvAPIKey, config.EnvBaseURL, config.EnvConfigPath, logging.EnvLogLevel, logging.EnvLogFormat} {
		old, existed := os.LookupEnv(key)
		os.Unsetenv(key)
		t.Cleanup(func() {
			if existed {
				os.Setenv(key, old)
			}
		})
	}
}

type testApp struct {
	*App
	client *MockAIClient
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// newTestApp returns an App wired to buffers, a temp config file and client
func newTestApp(t *testing.T, client *MockAIClient) *testApp {
	t.Helper()
	clearAllEnvVars(t)

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	app := NewApp()
	app.stdin = strings.NewReader("")
	app.stdout = stdout
	app.stderr = stderr
	app.logger = logging.Discard()
	app.store = config.NewStore(filepath.Join(t.TempDir(), "nimbuscode", config.ConfigFileName))
	app.store.SetLogger(logging.Discard())
	app.newClient = func(cfg *config.Config, _ *logging.Logger) (api.AIClient, error) {
		client.cfg = cfg
		return client, nil
	}
	return &testApp{App: app, client: client, stdout: stdout, stderr: stderr}
}

func (ta *testApp) run(args ...string) int {
	return ta.Run(context.Background(), args)
}

func createTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

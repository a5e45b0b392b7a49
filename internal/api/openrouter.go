package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/quocvuong92/nimbuscode/internal/config"
	"github.com/quocvuong92/nimbuscode/internal/constants"
	clierrors "github.com/quocvuong92/nimbuscode/internal/errors"
	"github.com/quocvuong92/nimbuscode/internal/history"
)

// ChatRequest represents the chat completions request body
type ChatRequest struct {
	Model       string            `json:"model"`
	Messages    []history.Message `json:"messages"`
	MaxTokens   int               `json:"max_tokens,omitempty"`
	Temperature float64           `json:"temperature"`
}

// Usage represents token usage statistics
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Choice represents a response choice
type Choice struct {
	Index        int             `json:"index"`
	Message      history.Message `json:"message"`
	FinishReason string          `json:"finish_reason,omitempty"`
}

// ChatResponse represents the chat completions response body
type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// GetContent extracts the content of the first choice
func (r *ChatResponse) GetContent() string {
	if len(r.Choices) > 0 {
		return r.Choices[0].Message.Content
	}
	return ""
}

// OpenRouterClient is the OpenRouter API client
type OpenRouterClient struct {
	httpClient *http.Client
	config     *config.Config
}

// NewOpenRouterClient creates a client that sends requests through httpClient
func NewOpenRouterClient(cfg *config.Config, httpClient *http.Client) *OpenRouterClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.DefaultAPITimeout}
	}
	return &OpenRouterClient{httpClient: httpClient, config: cfg}
}

// Complete sends messages to the chat completions endpoint. An empty model
// falls back to the configured one.
func (c *OpenRouterClient) Complete(ctx context.Context, messages []history.Message, model string) (string, error) {
	if model == "" {
		model = c.config.Model
	}
	reqBody := ChatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := c.config.ChatURL()
	body, err := c.do(ctx, http.MethodPost, endpoint, jsonData)
	if err != nil {
		return "", err
	}

	if msg := errorMessage(body); msg != "" {
		return "", clierrors.NewAPIError(0, endpoint, msg)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", clierrors.NewAPIError(0, endpoint, fmt.Sprintf("failed to parse response: %v", err))
	}
	if len(chatResp.Choices) == 0 {
		return "", clierrors.NewAPIError(0, endpoint, clierrors.ErrNoChoices.Error())
	}

	return strings.TrimSpace(chatResp.GetContent()), nil
}

// ListModels fetches the models catalog and keeps only free-tier entries
func (c *OpenRouterClient) ListModels(ctx context.Context) ([]ModelDescriptor, error) {
	endpoint := c.config.ModelsURL()
	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return parseFreeModels(endpoint, body)
}

// do performs a single HTTP exchange and classifies any failure
func (c *OpenRouterClient) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	if c.config.APIKey == "" {
		return nil, clierrors.NewAuthError(0, "")
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("HTTP-Referer", constants.RefererURL)
	req.Header.Set("X-Title", constants.AppTitle)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, clierrors.NewNetworkError(endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, clierrors.NewNetworkError(endpoint, fmt.Errorf("failed to read response: %w", err))
	}

	if err := checkStatus(resp.StatusCode, endpoint, body); err != nil {
		return nil, err
	}
	return body, nil
}

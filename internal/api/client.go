package api

import (
	"context"
	"net/http"

	"github.com/quocvuong92/nimbuscode/internal/config"
	"github.com/quocvuong92/nimbuscode/internal/constants"
	clierrors "github.com/quocvuong92/nimbuscode/internal/errors"
	"github.com/quocvuong92/nimbuscode/internal/history"
	"github.com/quocvuong92/nimbuscode/internal/logging"
)

// AIClient defines the interface for chat completion providers.
// Commands and the interactive session depend only on this interface,
// so tests substitute a mock.
type AIClient interface {
	// Complete sends the full message list and returns the assistant's reply
	Complete(ctx context.Context, messages []history.Message, model string) (string, error)

	// ListModels returns the provider's free-tier models in catalog order
	ListModels(ctx context.Context) ([]ModelDescriptor, error)
}

// Ensure OpenRouterClient implements AIClient
var _ AIClient = (*OpenRouterClient)(nil)

// NewClient creates an OpenRouter client from a validated config.
// When cfg.Verbose is set, every exchange is logged through logger
// with credentials redacted.
func NewClient(cfg *config.Config, logger *logging.Logger) (AIClient, error) {
	if cfg.APIKey == "" {
		return nil, clierrors.NewConfigError("", clierrors.ErrMissingAPIKey)
	}
	if logger == nil {
		logger = logging.DefaultLogger
	}

	transport := http.DefaultTransport
	if cfg.Verbose {
		transport = logging.NewTransport(http.DefaultTransport, logger)
	}

	return NewOpenRouterClient(cfg, &http.Client{
		Timeout:   constants.DefaultAPITimeout,
		Transport: transport,
	}), nil
}

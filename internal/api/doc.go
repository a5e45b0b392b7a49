// Package api talks to the OpenRouter chat completions service.
//
// # Architecture
//
//   - client.go: AIClient interface and factory function (NewClient)
//   - openrouter.go: OpenRouterClient, request/response types for chat completions
//   - models.go: ModelDescriptor and free-tier filtering of the models catalog
//   - status.go: mapping of HTTP failures onto the internal/errors taxonomy
//
// # Usage
//
//	cfg := config.NewConfig()
//	cfg.APIKey = key
//	if err := cfg.Validate(); err != nil {
//	    // handle error
//	}
//	client, err := api.NewClient(cfg, logger)
//	if err != nil {
//	    // handle error
//	}
//	reply, err := client.Complete(ctx, messages, cfg.Model)
//
// # Error Handling
//
// Every call makes exactly one HTTP attempt. Failures are returned as
// *errors.AuthError (missing key, 401, 403), *errors.NetworkError
// (transport failure, timeout, cancellation) or *errors.APIError
// (any other non-success status, an error body, or a reply without choices).
package api

// Package constants provides shared constants used across the application
// to avoid circular dependencies between packages.
package constants

import "time"

// AppName is used for the config directory and the X-Title header
const AppName = "nimbuscode"

// OpenRouter endpoints and attribution headers
const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	ChatPath       = "/chat/completions"
	ModelsPath     = "/models"
	RefererURL     = "https://github.com/quocvuong92/nimbuscode"
	AppTitle       = "NimbusCode"
)

// Timeout constants used across the application
const (
	// DefaultAPITimeout bounds a single chat-completion or catalog request
	DefaultAPITimeout = 120 * time.Second
)

// Application defaults
const (
	DefaultModel       = "mistralai/mistral-7b-instruct:free"
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.7
	DefaultLanguage    = "python"
	DefaultProvider    = "aws"
	DefaultPlatform    = "cross"
)

// ExitKeywords end an interactive session when typed on their own
var ExitKeywords = []string{"exit", "quit", "q"}

package config

import (
	"os"
	"strings"

	"github.com/quocvuong92/nimbuscode/internal/constants"
	clierrors "github.com/quocvuong92/nimbuscode/internal/errors"
)

// Environment variable names
const (
	EnvAPIKey     = "OPENROUTER_API_KEY"
	EnvBaseURL    = "OPENROUTER_BASE_URL"
	EnvConfigPath = "NIMBUSCODE_CONFIG"
)

// Defaults - re-exported from constants for convenience
const (
	DefaultModel       = constants.DefaultModel
	DefaultMaxTokens   = constants.DefaultMaxTokens
	DefaultTemperature = constants.DefaultTemperature
	DefaultBaseURL     = constants.DefaultBaseURL
)

// Config holds the resolved settings for one invocation
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	BaseURL     string

	// tempSet distinguishes an explicit 0 temperature from unset
	tempSet bool

	// Flags
	Verbose bool
	Render  bool
	Copy    bool
}

// NewConfig creates a new Config with defaults
func NewConfig() *Config {
	return &Config{}
}

// SetTemperature sets an explicit temperature, including zero
func (c *Config) SetTemperature(t float64) {
	c.Temperature = t
	c.tempSet = true
}

// ResolveAPIKey returns the API key in priority order:
// explicit flag, then OPENROUTER_API_KEY, then the persisted config.
func ResolveAPIKey(flagValue string, fc *FileConfig) string {
	if key := strings.TrimSpace(flagValue); key != "" {
		return key
	}
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		return key
	}
	if fc != nil {
		return strings.TrimSpace(fc.APIKey)
	}
	return ""
}

// ApplyFileConfig applies file configuration to the main Config
// File config has lower priority than environment variables and CLI flags
func (c *Config) ApplyFileConfig(fc *FileConfig) {
	if fc == nil {
		return
	}

	if c.APIKey == "" && fc.APIKey != "" {
		c.APIKey = fc.APIKey
	}
	if c.Model == "" && fc.DefaultModel != "" {
		c.Model = fc.DefaultModel
	}
	if c.MaxTokens == 0 && fc.MaxTokens > 0 {
		c.MaxTokens = fc.MaxTokens
	}
	if !c.tempSet && fc.Temperature != nil {
		c.SetTemperature(*fc.Temperature)
	}
}

// Validate fills defaults from the environment and requires an API key
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = os.Getenv(EnvBaseURL)
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")

	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if !c.tempSet {
		c.SetTemperature(DefaultTemperature)
	}

	if c.APIKey == "" {
		return clierrors.NewConfigError("", clierrors.ErrMissingAPIKey)
	}
	return nil
}

// ChatURL returns the chat completions endpoint
func (c *Config) ChatURL() string {
	return c.BaseURL + constants.ChatPath
}

// ModelsURL returns the models catalog endpoint
func (c *Config) ModelsURL() string {
	return c.BaseURL + constants.ModelsPath
}

// MaskKey hides all but the last four characters of an API key
func MaskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

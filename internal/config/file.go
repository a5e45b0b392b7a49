package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/quocvuong92/nimbuscode/internal/constants"
	clierrors "github.com/quocvuong92/nimbuscode/internal/errors"
	"github.com/quocvuong92/nimbuscode/internal/logging"
)

// ConfigFileName is the name of the config file
const ConfigFileName = "config.yaml"

// FileConfig represents the configuration file structure
type FileConfig struct {
	APIKey       string   `yaml:"api_key,omitempty"`
	DefaultModel string   `yaml:"default_model,omitempty"`
	MaxTokens    int      `yaml:"max_tokens,omitempty"`
	Temperature  *float64 `yaml:"temperature,omitempty"`
}

// Store reads and writes the config file at a single path
type Store struct {
	path   string
	logger *logging.Logger
}

// NewStore creates a store for the given path
func NewStore(path string) *Store {
	return &Store{path: path, logger: logging.DefaultLogger}
}

// NewDefaultStore creates a store at the platform config location
func NewDefaultStore() (*Store, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return NewStore(path), nil
}

// SetLogger replaces the logger used for load warnings
func (s *Store) SetLogger(logger *logging.Logger) {
	s.logger = logger
}

// Path returns the config file path
func (s *Store) Path() string {
	return s.path
}

// DefaultConfigPath returns NIMBUSCODE_CONFIG if set, else
// <user config dir>/nimbuscode/config.yaml
func DefaultConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, herr := os.UserHomeDir()
		if herr != nil {
			return "", clierrors.NewConfigError("could not determine config directory", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, constants.AppName, ConfigFileName), nil
}

// Load reads the config file. A missing or unreadable file yields an empty config.
func (s *Store) Load() *FileConfig {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Could not read config file", logging.Fields{"path": s.path, "error": err.Error()})
		}
		return &FileConfig{}
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		s.logger.Warn("Ignoring malformed config file", logging.Fields{"path": s.path, "error": err.Error()})
		return &FileConfig{}
	}
	return &cfg
}

// Save writes the config file, creating parent directories as needed
func (s *Store) Save(cfg *FileConfig) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return clierrors.NewFilesystemError(filepath.Dir(s.path), err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return clierrors.NewFilesystemError(s.path, err)
	}
	return nil
}

// Merge copies every set field of other into fc
func (fc *FileConfig) Merge(other *FileConfig) {
	if other == nil {
		return
	}
	if other.APIKey != "" {
		fc.APIKey = other.APIKey
	}
	if other.DefaultModel != "" {
		fc.DefaultModel = other.DefaultModel
	}
	if other.MaxTokens > 0 {
		fc.MaxTokens = other.MaxTokens
	}
	if other.Temperature != nil {
		t := *other.Temperature
		fc.Temperature = &t
	}
}

// IsEmpty reports whether no field is set
func (fc *FileConfig) IsEmpty() bool {
	return fc.APIKey == "" && fc.DefaultModel == "" && fc.MaxTokens == 0 && fc.Temperature == nil
}

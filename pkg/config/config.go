// Package config loads, validates and saves the phihelper JSON configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"phihelper/pkg/apperr"

	"go.uber.org/zap"
)

// Supported API types.
const (
	APITypeOpenAI = "openai"
	APITypeAzure  = "azure"
)

// EnvPath overrides the default config location when set.
const EnvPath = "PHIHELPER_CONFIG"

// Config is the on-disk configuration. It is loaded fresh for every command run.
type Config struct {
	APIType        string  `json:"api_type"`
	APIKey         string  `json:"api_key"`
	AzureEndpoint  string  `json:"azure_endpoint"`
	Model          string  `json:"model"`
	Temperature    float64 `json:"temperature"`
	MaxTokens      int     `json:"max_tokens"`
	RepositoryPath string  `json:"repository_path"`
}

// Default returns the configuration written on first run.
func Default() Config {
	return Config{
		APIType:     APITypeOpenAI,
		Model:       "phi-3",
		Temperature: 0.3,
		MaxTokens:   4000,
	}
}

// DefaultPath returns the config location: $PHIHELPER_CONFIG, else
// <user config dir>/phihelper/config.json.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", apperr.Config("cannot determine user config directory", err)
	}
	return filepath.Join(dir, "phihelper", "config.json"), nil
}

// Validate checks the fields every remote call depends on.
func (c Config) Validate() error {
	switch c.APIType {
	case APITypeOpenAI, APITypeAzure:
	default:
		return fmt.Errorf("unsupported api_type %q (want %q or %q)", c.APIType, APITypeOpenAI, APITypeAzure)
	}
	if c.APIKey == "" {
		return errors.New("api_key is not set")
	}
	if c.APIType == APITypeAzure && c.AzureEndpoint == "" {
		return errors.New("azure_endpoint is required when api_type is azure")
	}
	return nil
}

// MaskedKey returns the first four characters of the API key followed by "...".
func (c Config) MaskedKey() string {
	if c.APIKey == "" {
		return ""
	}
	runes := []rune(c.APIKey)
	if len(runes) <= 4 {
		return c.APIKey + "..."
	}
	return string(runes[:4]) + "..."
}

// Read parses the file at path without validating it.
func Read(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, apperr.Config(fmt.Sprintf("failed to read config file %s", path), err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, apperr.Config(fmt.Sprintf("failed to parse config file %s", path), err)
	}
	return cfg, nil
}

// Load reads and validates the file at path.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, apperr.Config(fmt.Sprintf("invalid config in %s", path), err)
	}
	return cfg, nil
}

// Save writes cfg to path as indented JSON, creating parent directories. Existing content is replaced.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Ensure loads the config at path. On first run it writes the defaults and
// returns a config error asking the user to fill in the API key.
func Ensure(path string, logger *zap.Logger) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Save(path, Default()); err != nil {
			return Config{}, apperr.Config("failed to create default config", err)
		}
		logger.Info("Created default config", zap.String("path", path))
		return Config{}, apperr.Config(fmt.Sprintf("created default config at %s; please edit it and add your API key", path), nil)
	}

	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	logger.Debug("Loaded config",
		zap.String("path", path),
		zap.String("apiType", cfg.APIType),
		zap.String("model", cfg.Model))
	return cfg, nil
}

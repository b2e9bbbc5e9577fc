package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	AnthropicAPIKey  string
	OpenAIAPIKey     string
	GoogleAPIKey     string
	OpenRouterAPIKey string
	Routing          *RoutingConfig
	Ledger           LedgerConfig
	ConfigDir        string
}

// FileConfig represents the structure of ~/.council/config.yaml.
type FileConfig struct {
	APIKeys APIKeysConfig `yaml:"api_keys"`
	Ledger  LedgerConfig  `yaml:"ledger,omitempty"`
}

// APIKeysConfig holds API key configuration from file.
type APIKeysConfig struct {
	Anthropic  string `yaml:"anthropic"`
	OpenAI     string `yaml:"openai"`
	Google     string `yaml:"google"`
	OpenRouter string `yaml:"openrouter"`
}

// LedgerConfig selects and tunes the performance-record store.
type LedgerConfig struct {
	Driver    string `yaml:"driver,omitempty"` // "sqlite" or "jsonl"
	Path      string `yaml:"path,omitempty"`
	QueueSize int    `yaml:"queue_size,omitempty"`
}

// Load reads configuration from config files and environment variables.
// Environment variables take precedence over file configuration.
func Load() (*Config, error) {
	return loadWith("")
}

// LoadWithRoutingFile loads config with a specific routing file.
func LoadWithRoutingFile(routingPath string) (*Config, error) {
	if routingPath == "" {
		return nil, fmt.Errorf("routing config path is required")
	}
	return loadWith(routingPath)
}

func loadWith(routingPath string) (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	fileConfig := loadFileConfig(filepath.Join(configDir, "config.yaml"))

	cfg := &Config{
		AnthropicAPIKey:  getEnvOrDefault("ANTHROPIC_API_KEY", fileConfig.APIKeys.Anthropic),
		OpenAIAPIKey:     getEnvOrDefault("OPENAI_API_KEY", fileConfig.APIKeys.OpenAI),
		GoogleAPIKey:     getEnvOrDefault("GOOGLE_API_KEY", fileConfig.APIKeys.Google),
		OpenRouterAPIKey: getEnvOrDefault("OPENROUTER_API_KEY", fileConfig.APIKeys.OpenRouter),
		Ledger:           fileConfig.Ledger,
		ConfigDir:        configDir,
	}
	applyLedgerDefaults(&cfg.Ledger, configDir)

	if routingPath == "" {
		routingPath = filepath.Join(configDir, "routing.yaml")
		if _, err := os.Stat(routingPath); err != nil {
			cfg.Routing = DefaultRoutingConfig()
			resolveAliases(cfg.Routing)
			return cfg, nil
		}
	}

	routing, err := LoadRoutingConfig(routingPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load routing config from %s: %w", routingPath, err)
	}
	cfg.Routing = routing
	resolveAliases(cfg.Routing)

	return cfg, nil
}

// HasAdapter returns true if the API key for the given adapter is configured.
func (c *Config) HasAdapter(name string) bool {
	switch name {
	case "anthropic":
		return c.AnthropicAPIKey != ""
	case "openai":
		return c.OpenAIAPIKey != ""
	case "google":
		return c.GoogleAPIKey != ""
	case "openrouter":
		return c.OpenRouterAPIKey != ""
	default:
		return false
	}
}

func resolveAliases(cfg *RoutingConfig) {
	if cfg == nil {
		return
	}
	NewModelAliases(cfg.Aliases).ResolveAll(cfg)
}

func applyLedgerDefaults(cfg *LedgerConfig, configDir string) {
	if cfg.Driver == "" {
		cfg.Driver = "sqlite"
	}
	if cfg.Path == "" {
		switch cfg.Driver {
		case "jsonl":
			cfg.Path = filepath.Join(configDir, "ledger.jsonl")
		default:
			cfg.Path = filepath.Join(configDir, "ledger.db")
		}
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
}

// loadFileConfig reads the config file, returning empty config if not found.
func loadFileConfig(path string) *FileConfig {
	cfg := &FileConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg // Return empty config if file doesn't exist
	}

	_ = yaml.Unmarshal(data, cfg) // Ignore parse errors, use defaults
	return cfg
}

// getEnvOrDefault returns the environment variable value if set,
// otherwise returns the default value.
func getEnvOrDefault(envVar, defaultValue string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultValue
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".council")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return configDir, nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/guestlane/guestchat/internal/domain"
	"github.com/guestlane/guestchat/internal/domain/resolution"
)

// Config holds the guestchat API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Tenant     TenantConfig     `yaml:"tenant"`
	Session    SessionConfig    `yaml:"session"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds admin API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings. One matryoshka model
// serves all resolutions; the dimensions parameter selects the slice.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// ClassifierConfig holds intent classifier LLM settings.
type ClassifierConfig struct {
	APIKey          string  `yaml:"api_key"`
	BaseURL         string  `yaml:"base_url"`
	Model           string  `yaml:"model"`
	Temperature     float64 `yaml:"temperature"`
	TimeoutSec      int     `yaml:"timeout_sec"`
	AvoidConfidence float64 `yaml:"avoid_confidence"` // min confidence before avoid-entity hints apply
}

// RetrievalConfig holds orchestrator settings.
type RetrievalConfig struct {
	IndexName         string  `yaml:"index_name"`
	MinSimilarity     float64 `yaml:"min_similarity"`
	SearchTimeoutSec  int     `yaml:"search_timeout_sec"`
	ChatResolution    string  `yaml:"chat_resolution"`  // fast, balanced, full
	AdminResolution   string  `yaml:"admin_resolution"` // fast, balanced, full
	SharedCorpusLabel string  `yaml:"shared_corpus_label"`
}

// TenantConfig holds tenant resolver settings.
type TenantConfig struct {
	CacheTTLSec  int    `yaml:"cache_ttl_sec"`
	CacheBackend string `yaml:"cache_backend"` // memory, redis (default: memory)
}

// SessionConfig holds guest session verification settings.
type SessionConfig struct {
	Secret string `yaml:"secret"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 10
	}
	if c.Classifier.TimeoutSec <= 0 {
		c.Classifier.TimeoutSec = 5
	}
	if c.Classifier.Temperature <= 0 {
		c.Classifier.Temperature = 0.1
	}
	if c.Classifier.AvoidConfidence <= 0 {
		c.Classifier.AvoidConfidence = 0.85
	}
	if c.Retrieval.IndexName == "" {
		c.Retrieval.IndexName = domain.KeyPrefix + "chunks:idx"
	}
	if c.Retrieval.MinSimilarity <= 0 {
		c.Retrieval.MinSimilarity = 0.2
	}
	if c.Retrieval.SearchTimeoutSec <= 0 {
		c.Retrieval.SearchTimeoutSec = 5
	}
	if c.Retrieval.ChatResolution == "" {
		c.Retrieval.ChatResolution = string(resolution.Fast)
	}
	if c.Retrieval.AdminResolution == "" {
		c.Retrieval.AdminResolution = string(resolution.Full)
	}
	if c.Tenant.CacheTTLSec <= 0 {
		c.Tenant.CacheTTLSec = 300
	}
	if c.Tenant.CacheBackend == "" {
		c.Tenant.CacheBackend = "memory"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if _, err := resolution.Parse(c.Retrieval.ChatResolution); err != nil {
		return fmt.Errorf("retrieval.chat_resolution: %w", err)
	}
	if _, err := resolution.Parse(c.Retrieval.AdminResolution); err != nil {
		return fmt.Errorf("retrieval.admin_resolution: %w", err)
	}
	switch c.Tenant.CacheBackend {
	case "memory", "redis":
		// ok
	default:
		return fmt.Errorf("tenant.cache_backend must be \"memory\" or \"redis\", got %q",
			c.Tenant.CacheBackend)
	}
	if c.Classifier.AvoidConfidence < 0 || c.Classifier.AvoidConfidence > 1 {
		return fmt.Errorf("classifier.avoid_confidence must be within [0,1], got %v",
			c.Classifier.AvoidConfidence)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

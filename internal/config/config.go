// Package config loads application configuration from a YAML file with
// environment variable overrides. All values are resolved once at startup
// and passed by value into each component's constructor; nothing is
// mutated afterwards.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// EmbeddingConfig configures the Ollama embedding endpoint.
type EmbeddingConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// GenerationConfig configures the Groq chat-completions endpoint. The API
// key itself is never stored in the file; APIKeyEnv names the environment
// variable that holds it.
type GenerationConfig struct {
	APIURL      string  `yaml:"api_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// IngestConfig configures chunking and embedding during ingestion.
type IngestConfig struct {
	ChunkSize    int    `yaml:"chunk_size"`
	EmbedWorkers int    `yaml:"embed_workers"`
	WatchDir     string `yaml:"watch_dir"`
}

// StorageConfig configures the persistent store.
type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
}

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Storage    StorageConfig    `yaml:"storage"`
	LogLevel   string           `yaml:"log_level"`
}

// Load reads the config from path. A missing file yields defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// APIKey resolves the generation service key from the configured
// environment variable.
func (g GenerationConfig) APIKey() string {
	return os.Getenv(g.APIKeyEnv)
}

func defaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = "http://localhost:11434"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "nomic-embed-text"
	}
	if cfg.Generation.APIURL == "" {
		cfg.Generation.APIURL = "https://api.groq.com/openai/v1/chat/completions"
	}
	if cfg.Generation.APIKeyEnv == "" {
		cfg.Generation.APIKeyEnv = "GROQ_API_KEY"
	}
	if cfg.Generation.Model == "" {
		cfg.Generation.Model = "llama-3.1-8b-instant"
	}
	if cfg.Generation.Temperature == 0 {
		cfg.Generation.Temperature = 0.3
	}
	if cfg.Generation.MaxTokens == 0 {
		cfg.Generation.MaxTokens = 500
	}
	if cfg.Ingest.ChunkSize == 0 {
		cfg.Ingest.ChunkSize = 250
	}
	if cfg.Ingest.EmbedWorkers == 0 {
		cfg.Ingest.EmbedWorkers = 4
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "./data"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DOCCHAT_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		cfg.Embedding.BaseURL = v
	}
	if v := os.Getenv("DOCCHAT_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("DOCCHAT_WATCH_DIR"); v != "" {
		cfg.Ingest.WatchDir = v
	}
}

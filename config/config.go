package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the medrag service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Data      DataConfig      `yaml:"data"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DataConfig points at the corpus files. Paths may be doublestar globs; the
// first match in lexical order wins. Missing files fall back to the built-in
// sample corpora.
type DataConfig struct {
	MedicalPath string `yaml:"medical_path"`
	TrialsPath  string `yaml:"trials_path"`
}

// ChunkingConfig holds the window geometry for the medical corpus. Overlap
// must stay below size.
type ChunkingConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// RetrievalConfig holds search fan-out settings.
type RetrievalConfig struct {
	MedicalTopK int `yaml:"medical_top_k"`
	MaxTrials   int `yaml:"max_trials"`
}

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"` // "openai", "mock"
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"` // Environment variable for API key
	BaseURL   string `yaml:"base_url"`
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
	Cache     bool   `yaml:"cache"` // cache embeddings on disk
}

// LLMConfig holds the answer-generation provider configuration.
type LLMConfig struct {
	Model       string  `yaml:"model"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Data: DataConfig{
			MedicalPath: "data/medical_knowledge.json",
			TrialsPath:  "data/clinical_trials.json",
		},
		Chunking: ChunkingConfig{
			Size:    200,
			Overlap: 50,
		},
		Retrieval: RetrievalConfig{
			MedicalTopK: 4,
			MaxTrials:   3,
		},
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-ada-002",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 1536,
			BatchSize: 100,
			Cache:     true,
		},
		LLM: LLMConfig{
			Model:       "gpt-4.1-2025-04-14",
			APIKeyEnv:   "OPENAI_API_KEY",
			Temperature: 0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for medrag.yaml).
func LoadFromDir(dir string) (*Config, error) {
	// Try medrag.yaml in the directory
	path := filepath.Join(dir, "medrag.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Try .medrag/config.yaml
	path = filepath.Join(dir, ".medrag", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Return defaults
	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EmbedCachePath returns the path to the embedding cache database.
func EmbedCachePath(dir string) string {
	return filepath.Join(dir, ".medrag", "embeddings.db")
}

// EnsureStateDir ensures the .medrag directory exists.
func EnsureStateDir(dir string) error {
	stateDir := filepath.Join(dir, ".medrag")
	return os.MkdirAll(stateDir, 0755)
}

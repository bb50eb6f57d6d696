package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"docqa/internal/domain"
)

// DefaultPath is looked up in the working directory when no --config is given.
const DefaultPath = "docqa.yaml"

// SourceConfig describes where the document comes from.
type SourceConfig struct {
	URL         string `yaml:"url" toml:"url"`
	TimeoutSecs int    `yaml:"timeout_secs" toml:"timeout_secs"`
}

// ChunkerConfig configures the recursive character splitter.
type ChunkerConfig struct {
	ChunkSize    int      `yaml:"chunk_size" toml:"chunk_size"`
	ChunkOverlap int      `yaml:"chunk_overlap" toml:"chunk_overlap"`
	Separators   []string `yaml:"separators,omitempty" toml:"separators,omitempty"`
}

// OllamaConfig holds connection details for an Ollama server.
type OllamaConfig struct {
	BaseURL string `yaml:"base_url" toml:"base_url"`
	Model   string `yaml:"model" toml:"model"`
	// TokenEnv names the environment variable holding an optional bearer token.
	TokenEnv    string `yaml:"token_env" toml:"token_env"`
	TimeoutSecs int    `yaml:"timeout_secs" toml:"timeout_secs"`
}

// OpenAIConfig holds configuration for an OpenAI-compatible API.
type OpenAIConfig struct {
	BaseURL     string `yaml:"base_url" toml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env" toml:"api_key_env"`
	Model       string `yaml:"model" toml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs" toml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type              string        `yaml:"type" toml:"type"`
	RequestsPerSecond float64       `yaml:"requests_per_second" toml:"requests_per_second"`
	Burst             int           `yaml:"burst" toml:"burst"`
	Ollama            *OllamaConfig `yaml:"ollama,omitempty" toml:"ollama,omitempty"`
	OpenAI            *OpenAIConfig `yaml:"openai,omitempty" toml:"openai,omitempty"`
}

// ChatConfig selects and configures the chat model.
type ChatConfig struct {
	Type        string        `yaml:"type" toml:"type"`
	Temperature *float64      `yaml:"temperature,omitempty" toml:"temperature,omitempty"`
	Ollama      *OllamaConfig `yaml:"ollama,omitempty" toml:"ollama,omitempty"`
	OpenAI      *OpenAIConfig `yaml:"openai,omitempty" toml:"openai,omitempty"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type" toml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty" toml:"qdrant,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url" toml:"url"`
	APIKey      string `yaml:"api_key" toml:"api_key"`
	Collection  string `yaml:"collection" toml:"collection"`
	Distance    string `yaml:"distance" toml:"distance"`
	TimeoutSecs int    `yaml:"timeout_secs" toml:"timeout_secs"`
}

// RetrievalConfig controls how context is selected for a question.
type RetrievalConfig struct {
	TopK            int   `yaml:"top_k" toml:"top_k"`
	LexicalFallback *bool `yaml:"lexical_fallback,omitempty" toml:"lexical_fallback,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Source      SourceConfig      `yaml:"source" toml:"source"`
	Chunker     ChunkerConfig     `yaml:"chunker" toml:"chunker"`
	Embedder    EmbedderConfig    `yaml:"embedder" toml:"embedder"`
	Chat        ChatConfig        `yaml:"chat" toml:"chat"`
	VectorStore VectorStoreConfig `yaml:"vector_store" toml:"vector_store"`
	Retrieval   RetrievalConfig   `yaml:"retrieval" toml:"retrieval"`
}

// Load reads a config from path. Files ending in .toml are parsed as TOML,
// everything else as YAML.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg AppConfig
	if isTOML(path) {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault reads ./docqa.yaml when it exists and returns defaults
// otherwise. The returned path is empty when defaults are used.
func LoadDefault() (*AppConfig, string, error) {
	if _, err := os.Stat(DefaultPath); err == nil {
		cfg, err := Load(DefaultPath)
		return cfg, DefaultPath, err
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, "", err
	}
	return Default(), "", nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the built-in configuration: Ollama for embeddings and chat,
// an in-memory index, 1000/200 character chunks and five context chunks.
func Default() *AppConfig {
	cfg := &AppConfig{
		Embedder:    EmbedderConfig{Type: "ollama"},
		Chat:        ChatConfig{Type: "ollama"},
		VectorStore: VectorStoreConfig{Type: "memory"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

// Validate reports settings that cannot produce a working session.
func (c *AppConfig) Validate() error {
	switch c.Embedder.Type {
	case "ollama", "openai", "tfidf":
	default:
		return fmt.Errorf("%w: unknown embedder type %q", domain.ErrInvalidConfiguration, c.Embedder.Type)
	}
	switch c.Chat.Type {
	case "ollama", "openai":
	default:
		return fmt.Errorf("%w: unknown chat type %q", domain.ErrInvalidConfiguration, c.Chat.Type)
	}
	switch c.VectorStore.Type {
	case "memory":
	case "qdrant":
		if c.VectorStore.Qdrant == nil || c.VectorStore.Qdrant.URL == "" {
			return fmt.Errorf("%w: vector_store.qdrant.url is required", domain.ErrInvalidConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown vector store type %q", domain.ErrInvalidConfiguration, c.VectorStore.Type)
	}
	if c.Retrieval.TopK < 0 {
		return fmt.Errorf("%w: retrieval.top_k must not be negative", domain.ErrInvalidConfiguration)
	}
	return nil
}

// ChatTemperature returns the configured sampling temperature.
func (c *AppConfig) ChatTemperature() float64 {
	if c.Chat.Temperature == nil {
		return DefaultTemperature
	}
	return *c.Chat.Temperature
}

// LexicalFallbackEnabled reports whether keyword search backs up vector search.
func (c *AppConfig) LexicalFallbackEnabled() bool {
	return c.Retrieval.LexicalFallback == nil || *c.Retrieval.LexicalFallback
}

// Seconds converts a timeout_secs value. Zero or negative means no timeout.
func Seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

package cli

import (
	"fmt"
	"os"

	chatollama "docqa/internal/chat/ollama"
	chatopenai "docqa/internal/chat/openai"
	"docqa/internal/config"
	"docqa/internal/domain"
	embedollama "docqa/internal/embedding/ollama"
	embedopenai "docqa/internal/embedding/openai"
	"docqa/internal/embedding/tfidf"
	"docqa/internal/vectorstore/memory"
	"docqa/internal/vectorstore/qdrant"
)

func newEmbedder(cfg *config.AppConfig) (domain.Embedder, error) {
	switch cfg.Embedder.Type {
	case "ollama":
		o := cfg.Embedder.Ollama
		return embedollama.NewEmbedder(embedollama.Config{
			BaseURL: o.BaseURL,
			Model:   o.Model,
			Token:   os.Getenv(o.TokenEnv),
			Timeout: config.Seconds(o.TimeoutSecs),
		}), nil
	case "openai":
		o := cfg.Embedder.OpenAI
		client, err := embedopenai.NewClient(embedopenai.Config{
			BaseURL:   o.BaseURL,
			APIKeyEnv: o.APIKeyEnv,
			Model:     o.Model,
			Timeout:   config.Seconds(o.TimeoutSecs),
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder: %w", err)
		}
		return client, nil
	case "tfidf":
		return tfidf.NewEmbedder(), nil
	default:
		return nil, fmt.Errorf("%w: unknown embedder %q", domain.ErrInvalidConfiguration, cfg.Embedder.Type)
	}
}

func newChatModel(cfg *config.AppConfig) (domain.ChatModel, error) {
	switch cfg.Chat.Type {
	case "ollama":
		o := cfg.Chat.Ollama
		return chatollama.NewChatModel(chatollama.Config{
			BaseURL:     o.BaseURL,
			Model:       o.Model,
			Temperature: cfg.ChatTemperature(),
			Token:       os.Getenv(o.TokenEnv),
			Timeout:     config.Seconds(o.TimeoutSecs),
		}), nil
	case "openai":
		o := cfg.Chat.OpenAI
		client, err := chatopenai.NewClient(chatopenai.Config{
			BaseURL:     o.BaseURL,
			APIKeyEnv:   o.APIKeyEnv,
			Model:       o.Model,
			Temperature: cfg.ChatTemperature(),
			Timeout:     config.Seconds(o.TimeoutSecs),
		})
		if err != nil {
			return nil, fmt.Errorf("openai chat: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("%w: unknown chat model %q", domain.ErrInvalidConfiguration, cfg.Chat.Type)
	}
}

func newVectorStore(cfg *config.AppConfig) (domain.VectorStore, error) {
	switch cfg.VectorStore.Type {
	case "memory":
		return memory.NewStorage(), nil
	case "qdrant":
		q := cfg.VectorStore.Qdrant
		return qdrant.NewStorage(qdrant.Config{
			URL:        q.URL,
			APIKey:     q.APIKey,
			Collection: q.Collection,
			Distance:   q.Distance,
			Timeout:    config.Seconds(q.TimeoutSecs),
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown vector store %q", domain.ErrInvalidConfiguration, cfg.VectorStore.Type)
	}
}

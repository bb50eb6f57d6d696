package config

// Built-in defaults.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultTopK         = 5
	DefaultTemperature  = 0.1

	DefaultOllamaURL    = "http://localhost:11434"
	DefaultOllamaModel  = "granite3.3:2b"
	DefaultOllamaKeyEnv = "OLLAMA_API_KEY"

	DefaultOpenAIURL        = "https://api.openai.com/v1"
	DefaultOpenAIKeyEnv     = "OPENAI_API_KEY"
	DefaultOpenAIEmbedModel = "text-embedding-3-small"
	DefaultOpenAIChatModel  = "gpt-4o-mini"

	DefaultQdrantURL        = "http://localhost:6333"
	DefaultQdrantCollection = "docqa"
	DefaultQdrantDistance   = "Cosine"
)

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = DefaultChunkSize
	}
	if cfg.Chunker.ChunkOverlap == 0 && cfg.Chunker.ChunkSize > DefaultChunkOverlap {
		cfg.Chunker.ChunkOverlap = DefaultChunkOverlap
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = DefaultTopK
	}
	if cfg.Retrieval.LexicalFallback == nil {
		on := true
		cfg.Retrieval.LexicalFallback = &on
	}

	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "ollama"
	}
	switch cfg.Embedder.Type {
	case "ollama":
		if cfg.Embedder.Ollama == nil {
			cfg.Embedder.Ollama = &OllamaConfig{}
		}
		ollamaDefaults(cfg.Embedder.Ollama)
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIConfig{}
		}
		openAIDefaults(cfg.Embedder.OpenAI, DefaultOpenAIEmbedModel)
	}

	if cfg.Chat.Type == "" {
		cfg.Chat.Type = "ollama"
	}
	if cfg.Chat.Temperature == nil {
		t := DefaultTemperature
		cfg.Chat.Temperature = &t
	}
	switch cfg.Chat.Type {
	case "ollama":
		if cfg.Chat.Ollama == nil {
			cfg.Chat.Ollama = &OllamaConfig{}
		}
		ollamaDefaults(cfg.Chat.Ollama)
	case "openai":
		if cfg.Chat.OpenAI == nil {
			cfg.Chat.OpenAI = &OpenAIConfig{}
		}
		openAIDefaults(cfg.Chat.OpenAI, DefaultOpenAIChatModel)
	}

	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "memory"
	}
	if cfg.VectorStore.Type == "qdrant" {
		if cfg.VectorStore.Qdrant == nil {
			cfg.VectorStore.Qdrant = &QdrantConfig{}
		}
		q := cfg.VectorStore.Qdrant
		if q.URL == "" {
			q.URL = DefaultQdrantURL
		}
		if q.Collection == "" {
			q.Collection = DefaultQdrantCollection
		}
		if q.Distance == "" {
			q.Distance = DefaultQdrantDistance
		}
	}
}

func ollamaDefaults(c *OllamaConfig) {
	if c.BaseURL == "" {
		c.BaseURL = DefaultOllamaURL
	}
	if c.Model == "" {
		c.Model = DefaultOllamaModel
	}
	if c.TokenEnv == "" {
		c.TokenEnv = DefaultOllamaKeyEnv
	}
}

func openAIDefaults(c *OpenAIConfig, model string) {
	if c.BaseURL == "" {
		c.BaseURL = DefaultOpenAIURL
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = DefaultOpenAIKeyEnv
	}
	if c.Model == "" {
		c.Model = model
	}
}

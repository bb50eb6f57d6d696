package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1000, cfg.Chunker.ChunkSize)
	assert.Equal(t, 200, cfg.Chunker.ChunkOverlap)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.True(t, cfg.LexicalFallbackEnabled())
	assert.Equal(t, "ollama", cfg.Embedder.Type)
	assert.Equal(t, "granite3.3:2b", cfg.Embedder.Ollama.Model)
	assert.Equal(t, "granite3.3:2b", cfg.Chat.Ollama.Model)
	assert.Equal(t, "OLLAMA_API_KEY", cfg.Chat.Ollama.TokenEnv)
	assert.InDelta(t, 0.1, cfg.ChatTemperature(), 1e-9)
	assert.Equal(t, "memory", cfg.VectorStore.Type)
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docqa.yaml")
	data := `
source:
  url: https://example.com/README.md
chunker:
  chunk_size: 500
  chunk_overlap: 50
embedder:
  type: openai
  requests_per_second: 5
chat:
  type: ollama
  temperature: 0
vector_store:
  type: qdrant
  qdrant:
    collection: docs
retrieval:
  top_k: 3
  lexical_fallback: false
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/README.md", cfg.Source.URL)
	assert.Equal(t, 500, cfg.Chunker.ChunkSize)
	assert.Equal(t, 50, cfg.Chunker.ChunkOverlap)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedder.OpenAI.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.OpenAI.APIKeyEnv)
	assert.InDelta(t, 5.0, cfg.Embedder.RequestsPerSecond, 1e-9)
	assert.Zero(t, cfg.ChatTemperature())
	assert.Equal(t, "http://localhost:6333", cfg.VectorStore.Qdrant.URL)
	assert.Equal(t, "docs", cfg.VectorStore.Qdrant.Collection)
	assert.Equal(t, "Cosine", cfg.VectorStore.Qdrant.Distance)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.False(t, cfg.LexicalFallbackEnabled())
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docqa.toml")
	data := `
[chunker]
chunk_size = 300
chunk_overlap = 30
separators = ["\n\n", " ", ""]

[embedder]
type = "tfidf"

[chat]
type = "openai"
temperature = 0.4

[chat.openai]
model = "gpt-4o"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"\n\n", " ", ""}, cfg.Chunker.Separators)
	assert.Equal(t, "tfidf", cfg.Embedder.Type)
	assert.Equal(t, "gpt-4o", cfg.Chat.OpenAI.Model)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Chat.OpenAI.BaseURL)
	assert.InDelta(t, 0.4, cfg.ChatTemperature(), 1e-9)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("chunker: [unclosed"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "parse")

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("embedder:\n  type: word2vec\n"), 0o644))
	_, err = Load(unknown)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"out/docqa.yaml", "out/docqa.toml"} {
		t.Run(filepath.Ext(name), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := Default()
			want.Source.URL = "https://example.com/doc.md"

			require.NoError(t, Save(path, want))
			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoadDefault(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, path, err := LoadDefault()
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), cfg)
	assert.NoFileExists(t, filepath.Join(dir, DefaultPath))

	require.NoError(t, os.WriteFile(DefaultPath, []byte("retrieval:\n  top_k: 9\n"), 0o644))
	cfg, path, err = LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, DefaultPath, path)
	assert.Equal(t, 9, cfg.Retrieval.TopK)
}

func TestSeconds(t *testing.T) {
	assert.Zero(t, Seconds(0))
	assert.Zero(t, Seconds(-3))
	assert.Equal(t, "30s", Seconds(30).String())
}

package domain

import "context"

// Document is a downloaded source document. It is never modified after download.
type Document struct {
	ID      string
	Source  string
	Content string
}

// Chunk is a contiguous slice of a document prepared for embedding.
// Overlap is the number of leading characters carried over from the previous chunk.
type Chunk struct {
	ID         string
	DocumentID string
	Source     string
	Text       string
	Index      int
	Overlap    int
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Message roles understood by chat providers.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat turn.
type Message struct {
	Role    string
	Content string
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(ctx context.Context, corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}

// ChatModel turns an ordered list of messages into a single text answer.
type ChatModel interface {
	Name() string
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// VectorStore holds chunk vectors and supports similarity search.
type VectorStore interface {
	Init(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, chunks []Chunk, vectors [][]float64) error
	Search(ctx context.Context, vector []float64, topK int) ([]SearchResult, error)
	Clear(ctx context.Context) error
}

// LexicalIndex is a keyword index used when vectors carry no signal.
type LexicalIndex interface {
	Add(chunks []Chunk) error
	Search(query string, topK int) ([]SearchResult, error)
}

// QAService defines the operations exposed by the application core.
type QAService interface {
	Ingest(ctx context.Context, document Document) (chunks int, err error)
	Retrieve(ctx context.Context, query string, topK int) ([]SearchResult, error)
	Ask(ctx context.Context, question string) (string, error)
	AskWithSources(ctx context.Context, question string) (string, []SearchResult, error)
}

package service

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"docqa/internal/domain"
	"docqa/internal/logger"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 5

var _ domain.QAService = (*RAGService)(nil)

// RAGService is the session built at startup: it owns the index and answers
// questions against it. The index is written by Ingest and only read after.
type RAGService struct {
	chunker  domain.Chunker
	embedder domain.Embedder
	store    domain.VectorStore
	chat     domain.ChatModel
	lexical  domain.LexicalIndex
	limiter  *rate.Limiter
	topK     int
	chunks   []domain.Chunk

	summarizer domain.Summarizer
	sentences  int
	overview   string
}

// Option configures a RAGService.
type Option func(*RAGService)

// WithTopK sets how many chunks Ask retrieves. Non-positive values are ignored.
func WithTopK(k int) Option {
	return func(s *RAGService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithLexicalIndex enables keyword search when the query vector is empty or
// matches nothing.
func WithLexicalIndex(idx domain.LexicalIndex) Option {
	return func(s *RAGService) { s.lexical = idx }
}

// WithEmbedRateLimit caps embedding requests during Ingest. A non-positive
// rate disables the limit.
func WithEmbedRateLimit(perSecond float64, burst int) Option {
	return func(s *RAGService) {
		if perSecond <= 0 {
			s.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithSummarizer makes Ingest compute a document overview of up to
// sentences sentences.
func WithSummarizer(sum domain.Summarizer, sentences int) Option {
	return func(s *RAGService) {
		s.summarizer = sum
		s.sentences = sentences
	}
}

// NewRAGService wires the session components.
func NewRAGService(chunker domain.Chunker, embedder domain.Embedder, store domain.VectorStore, chat domain.ChatModel, opts ...Option) *RAGService {
	s := &RAGService{chunker: chunker, embedder: embedder, store: store, chat: chat, topK: DefaultTopK}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Chunks returns the chunks produced by the last Ingest.
func (s *RAGService) Chunks() []domain.Chunk { return s.chunks }

// Overview returns the summary computed by the last Ingest, if any.
func (s *RAGService) Overview() string { return s.overview }

// Ingest chunks the document, embeds every chunk and fills the index.
// It returns the number of indexed chunks.
func (s *RAGService) Ingest(ctx context.Context, document domain.Document) (int, error) {
	chunks, err := s.chunker.Chunk(document)
	if err != nil {
		return 0, fmt.Errorf("chunk document: %w", err)
	}
	if len(chunks) == 0 {
		return 0, fmt.Errorf("no content to index in %s", document.Source)
	}
	logger.Debug("split %s into %d chunks", document.Source, len(chunks))

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	if err := s.embedder.Prepare(ctx, texts); err != nil {
		return 0, fmt.Errorf("prepare embedder: %w", err)
	}

	done := logger.Timed("embedding")
	vectors := make([][]float64, len(chunks))
	for i, text := range texts {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return 0, err
			}
		}
		vec, err := s.embedder.Embed(ctx, text)
		if err != nil {
			return 0, fmt.Errorf("embed chunk %d: %w", i, err)
		}
		vectors[i] = vec
	}
	done()

	if err := s.store.Init(ctx, len(vectors[0])); err != nil {
		return 0, fmt.Errorf("init vector store: %w", err)
	}
	if err := s.store.Clear(ctx); err != nil {
		return 0, fmt.Errorf("clear vector store: %w", err)
	}
	if err := s.store.Upsert(ctx, chunks, vectors); err != nil {
		return 0, fmt.Errorf("upsert vectors: %w", err)
	}
	if s.lexical != nil {
		if err := s.lexical.Add(chunks); err != nil {
			return 0, err
		}
	}
	s.chunks = chunks
	if s.summarizer != nil {
		overview, err := s.summarizer.Summarize(document.Content, s.sentences)
		if err != nil {
			logger.Warn("summarize %s: %v", document.Source, err)
		}
		s.overview = overview
	}
	logger.Info("indexed %d chunks with %s (dimension %d)", len(chunks), s.embedder.Name(), len(vectors[0]))
	return len(chunks), nil
}

// Retrieve returns the topK chunks most similar to query, best first.
func (s *RAGService) Retrieve(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = s.topK
	}
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrRetrieval, err)
	}
	if isZero(vec) && s.lexical != nil {
		logger.Debug("query vector is empty, using lexical search")
		return s.lexicalSearch(query, topK)
	}
	res, err := s.store.Search(ctx, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrieval, err)
	}
	if s.lexical != nil && allZero(res) {
		logger.Debug("no vector match, using lexical search")
		lex, err := s.lexicalSearch(query, topK)
		if err != nil {
			return nil, err
		}
		if len(lex) > 0 {
			return lex, nil
		}
	}
	return res, nil
}

// Ask answers question from the retrieved context.
func (s *RAGService) Ask(ctx context.Context, question string) (string, error) {
	answer, _, err := s.AskWithSources(ctx, question)
	return answer, err
}

// AskWithSources is Ask that also returns the chunks the answer was based on.
func (s *RAGService) AskWithSources(ctx context.Context, question string) (string, []domain.SearchResult, error) {
	results, err := s.Retrieve(ctx, question, s.topK)
	if err != nil {
		return "", nil, err
	}
	for _, r := range results {
		logger.Debug("hit %s score=%.4f", r.Chunk.ID, r.Score)
	}
	answer, err := s.chat.Complete(ctx, BuildMessages(JoinContext(results), question))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", domain.ErrChatInvocation, err)
	}
	return answer, results, nil
}

func (s *RAGService) lexicalSearch(query string, topK int) ([]domain.SearchResult, error) {
	res, err := s.lexical.Search(query, topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrieval, err)
	}
	return res, nil
}

func isZero(vec []float64) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}

func allZero(res []domain.SearchResult) bool {
	for _, r := range res {
		if r.Score > 1e-9 {
			return false
		}
	}
	return true
}

// Package lexical keeps a keyword index of the chunks, used when a query
// embedding carries no signal.
package lexical

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"

	"docqa/internal/domain"
)

var _ domain.LexicalIndex = (*Index)(nil)

type entry struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Index is an in-memory bleve index over chunk text.
type Index struct {
	idx    bleve.Index
	chunks map[string]domain.Chunk
}

// New creates an empty memory-only index.
func New() (*Index, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create lexical index: %w", err)
	}
	return &Index{idx: idx, chunks: make(map[string]domain.Chunk)}, nil
}

// Add indexes chunks in a single batch.
func (x *Index) Add(chunks []domain.Chunk) error {
	batch := x.idx.NewBatch()
	for _, ch := range chunks {
		if err := batch.Index(ch.ID, entry{Text: ch.Text, Source: ch.Source}); err != nil {
			return fmt.Errorf("index chunk %s: %w", ch.ID, err)
		}
		x.chunks[ch.ID] = ch
	}
	if err := x.idx.Batch(batch); err != nil {
		return fmt.Errorf("index batch: %w", err)
	}
	return nil
}

// Search runs a match query over chunk text and returns at most topK hits.
func (x *Index) Search(query string, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}
	q := bleve.NewMatchQuery(query)
	q.SetField("text")
	res, err := x.idx.Search(bleve.NewSearchRequestOptions(q, topK, 0, false))
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}
	out := make([]domain.SearchResult, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ch, ok := x.chunks[hit.ID]
		if !ok {
			continue
		}
		out = append(out, domain.SearchResult{Chunk: ch, Score: hit.Score})
	}
	return out, nil
}

// Close releases the underlying index.
func (x *Index) Close() error { return x.idx.Close() }

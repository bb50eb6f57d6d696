package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"docqa/internal/domain"
)

var _ domain.VectorStore = (*Storage)(nil)

// chunkNamespace scopes the UUIDv5 point ids derived from chunk ids.
var chunkNamespace = uuid.MustParse("6f1d7c3e-5b0a-4c8e-9a51-2d8f4be0c7a1")

// Storage is a minimal REST client to Qdrant. The collection is recreated on
// Init and Clear, so every run starts from an empty index.
type Storage struct {
	url        string
	apiKey     string
	collection string
	distance   string
	dimension  int
	client     *http.Client
}

// Config contains connection details for a Qdrant collection.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	// Distance is the Qdrant distance name (default: Cosine).
	Distance string
	Timeout  time.Duration
}

// NewStorage creates a Qdrant-backed store.
func NewStorage(cfg Config) *Storage {
	if cfg.Distance == "" {
		cfg.Distance = "Cosine"
	}
	return &Storage{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		distance:   cfg.Distance,
		client:     &http.Client{Timeout: cfg.Timeout},
	}
}

// PointID maps a chunk id onto the UUID Qdrant requires for point ids.
func PointID(chunkID string) string {
	return uuid.NewSHA1(chunkNamespace, []byte(chunkID)).String()
}

// Init records the dimension and recreates the collection.
func (s *Storage) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.dimension = dimension
	return s.recreate(ctx)
}

// Upsert writes the chunks as points and waits for them to be indexed.
func (s *Storage) Upsert(ctx context.Context, chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	points := make([]map[string]any, len(chunks))
	for i, ch := range chunks {
		points[i] = map[string]any{
			"id":     PointID(ch.ID),
			"vector": vectors[i],
			"payload": map[string]any{
				"chunk_id":    ch.ID,
				"document_id": ch.DocumentID,
				"source":      ch.Source,
				"index":       ch.Index,
				"overlap":     ch.Overlap,
				"text":        ch.Text,
			},
		}
	}
	return s.do(ctx, http.MethodPut, s.collectionURL()+"/points?wait=true", map[string]any{"points": points}, nil)
}

// Search returns the topK nearest points with their payloads.
func (s *Storage) Search(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64 `json:"score"`
			Payload struct {
				ChunkID    string `json:"chunk_id"`
				DocumentID string `json:"document_id"`
				Source     string `json:"source"`
				Index      int    `json:"index"`
				Overlap    int    `json:"overlap"`
				Text       string `json:"text"`
			} `json:"payload"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodPost, s.collectionURL()+"/points/search", req, &resp); err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		p := r.Payload
		results = append(results, domain.SearchResult{
			Chunk: domain.Chunk{
				ID:         p.ChunkID,
				DocumentID: p.DocumentID,
				Source:     p.Source,
				Index:      p.Index,
				Overlap:    p.Overlap,
				Text:       p.Text,
			},
			Score: r.Score,
		})
	}
	return results, nil
}

// Clear drops every point by recreating the collection.
func (s *Storage) Clear(ctx context.Context) error {
	if s.dimension == 0 {
		return nil
	}
	return s.recreate(ctx)
}

func (s *Storage) recreate(ctx context.Context) error {
	err := s.do(ctx, http.MethodDelete, s.collectionURL(), nil, nil)
	var se *statusError
	if err != nil && !(errors.As(err, &se) && se.code == http.StatusNotFound) {
		return err
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     s.dimension,
			"distance": s.distance,
		},
	}
	return s.do(ctx, http.MethodPut, s.collectionURL(), body, nil)
}

func (s *Storage) collectionURL() string {
	return fmt.Sprintf("%s/collections/%s", s.url, s.collection)
}

type statusError struct {
	method, url string
	code        int
	status      string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant %s %s failed: %s", e.method, e.url, e.status)
}

func (s *Storage) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return &statusError{method: method, url: url, code: resp.StatusCode, status: resp.Status}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Package download fetches the source document over HTTP.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"docqa/internal/domain"
	"docqa/internal/logger"
)

// Config configures the download client. A zero Timeout means no timeout.
type Config struct {
	Timeout time.Duration
}

// Client downloads documents with plain HTTP GET requests.
type Client struct {
	client *http.Client
}

// NewClient creates a download client.
func NewClient(cfg Config) *Client {
	return &Client{client: &http.Client{Timeout: cfg.Timeout}}
}

// DocumentID derives a stable document id from its source URL.
func DocumentID(source string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(source)).String()
}

// Fetch downloads url and returns its body as a Document. Any status outside
// 2xx yields a *domain.DownloadError.
func (c *Client) Fetch(ctx context.Context, url string) (domain.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: create request: %w", domain.ErrDownload, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: %w", domain.ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Document{}, &domain.DownloadError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: read body: %w", domain.ErrDownload, err)
	}
	logger.Debug("downloaded %d bytes from %s", len(body), url)

	return domain.Document{
		ID:      DocumentID(url),
		Source:  url,
		Content: string(body),
	}, nil
}

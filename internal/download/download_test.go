package download

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "text/markdown")
		_, _ = w.Write([]byte("# Title\n\nBody"))
	}))
	defer server.Close()

	doc, err := NewClient(Config{}).Fetch(context.Background(), server.URL+"/README.md")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nBody", doc.Content)
	assert.Equal(t, server.URL+"/README.md", doc.Source)
	assert.Equal(t, DocumentID(server.URL+"/README.md"), doc.ID)
}

func TestFetch_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := NewClient(Config{}).Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDownload)

	var de *domain.DownloadError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, http.StatusNotFound, de.StatusCode)
	assert.Contains(t, err.Error(), "Not Found")
}

func TestFetch_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(Config{}).Fetch(context.Background(), url)
	assert.ErrorIs(t, err, domain.ErrDownload)
}

func TestDocumentID_IsStable(t *testing.T) {
	a := DocumentID("https://example.com/a.md")
	assert.Equal(t, a, DocumentID("https://example.com/a.md"))
	assert.NotEqual(t, a, DocumentID("https://example.com/b.md"))
}

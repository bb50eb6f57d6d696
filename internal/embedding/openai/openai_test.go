package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_RequiresKey(t *testing.T) {
	t.Setenv("DOCQA_TEST_EMPTY_KEY", "")
	_, err := NewClient(Config{APIKeyEnv: "DOCQA_TEST_EMPTY_KEY"})
	assert.ErrorContains(t, err, "DOCQA_TEST_EMPTY_KEY")
}

func TestNewClient_Defaults(t *testing.T) {
	t.Setenv(DefaultAPIKeyEnv, "sk-test")
	c, err := NewClient(Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, DefaultModel, c.model)
	assert.Equal(t, "openai", c.Name())
}

func TestEmbed(t *testing.T) {
	t.Setenv("DOCQA_TEST_KEY", "sk-test")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[{"embedding":[1,0,0.5]}]}`))
	}))
	defer server.Close()

	c, err := NewClient(Config{BaseURL: server.URL + "/v1", APIKeyEnv: "DOCQA_TEST_KEY"})
	require.NoError(t, err)

	vec, err := c.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0.5}, vec)
	assert.Equal(t, 3, c.Dimension())
}

func TestEmbed_NoRetryOnFailure(t *testing.T) {
	t.Setenv("DOCQA_TEST_KEY", "sk-test")
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c, err := NewClient(Config{BaseURL: server.URL, APIKeyEnv: "DOCQA_TEST_KEY"})
	require.NoError(t, err)

	_, err = c.Embed(context.Background(), "hello")
	assert.ErrorContains(t, err, "503")
	assert.Equal(t, int32(1), calls.Load())
}

func TestDecodeEmbedding(t *testing.T) {
	v, err := decodeEmbedding([]byte(`{"embedding":[0.25,0.75]}`))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.75}, v)

	_, err = decodeEmbedding([]byte(`{"data":[]}`))
	assert.ErrorContains(t, err, "no embedding returned")

	_, err = decodeEmbedding([]byte(`not json`))
	assert.ErrorContains(t, err, "decode response")
}

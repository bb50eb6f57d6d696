package tfidf

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func TestEmbed_RequiresPrepare(t *testing.T) {
	_, err := NewEmbedder().Embed(context.Background(), "anything")
	assert.ErrorContains(t, err, "not prepared")
}

func TestPrepare_Errors(t *testing.T) {
	e := NewEmbedder()
	assert.Error(t, e.Prepare(context.Background(), nil))
	assert.Error(t, e.Prepare(context.Background(), []string{"the and of"}))
}

func TestEmbed_NormalizedAndRanked(t *testing.T) {
	ctx := context.Background()
	corpus := []string{
		"Install the CLI with go install.",
		"Configure the embedder in config.yaml.",
		"The qdrant vector store needs a collection.",
	}
	e := NewEmbedder()
	require.NoError(t, e.Prepare(ctx, corpus))
	assert.Positive(t, e.Dimension())

	q, err := e.Embed(ctx, "how do I configure the embedder")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, math.Sqrt(dot(q, q)), 1e-9)

	best, bestScore := -1, -1.0
	for i, text := range corpus {
		v, err := e.Embed(ctx, text)
		require.NoError(t, err)
		if s := dot(q, v); s > bestScore {
			best, bestScore = i, s
		}
	}
	assert.Equal(t, 1, best)
}

func TestEmbed_UnknownWordsGiveZeroVector(t *testing.T) {
	ctx := context.Background()
	e := NewEmbedder()
	require.NoError(t, e.Prepare(ctx, []string{"alpha beta"}))

	v, err := e.Embed(ctx, "gamma delta")
	require.NoError(t, err)
	assert.Len(t, v, e.Dimension())
	for _, x := range v {
		assert.Zero(t, x)
	}
}

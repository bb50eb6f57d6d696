package summarizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const readme = "# docqa\n\n" +
	"Docqa answers questions about a markdown document. " +
	"It downloads the document and splits it into chunks. " +
	"The weather was nice.\n\n" +
	"```sh\ngo install example.com/docqa@latest. Ignore me.\n```\n\n" +
	"See the [markdown guide](https://example.com/guide) for markdown document syntax."

func TestSummarize_PicksFrequentTermsInOrder(t *testing.T) {
	s := NewFrequencySummarizer()

	got, err := s.Summarize(readme, 2)
	require.NoError(t, err)
	assert.Equal(t, "Docqa answers questions about a markdown document. See the markdown guide for markdown document syntax.", got)
}

func TestSummarize_IgnoresCode(t *testing.T) {
	got, err := NewFrequencySummarizer().Summarize(readme, 10)
	require.NoError(t, err)
	assert.NotContains(t, got, "Ignore me")
	assert.NotContains(t, got, "https://")
	assert.Contains(t, got, "The weather was nice.")
}

func TestSummarize_NoSentences(t *testing.T) {
	got, err := NewFrequencySummarizer().Summarize("## Title\n\n- item one\n- item two", 0)
	require.NoError(t, err)
	assert.Equal(t, "Title item one item two", got)
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "Heading\nUse go run here.", Plain("## Heading\nUse `go run` [here](http://x)."))
}

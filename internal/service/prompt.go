package service

import (
	"strings"

	"docqa/internal/domain"
)

const systemPrompt = `You are an expert documentation assistant. Use the following context to answer questions about the documentation accurately and helpfully.
Context: {context}
Guidelines:
- Provide accurate information based only on the provided context
- Include relevant code examples when available
- Mention the source document when possible
- If information is not in the context, clearly state that`

// JoinContext concatenates the chunk texts in ranked order, separated by a blank line.
func JoinContext(results []domain.SearchResult) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = r.Chunk.Text
	}
	return strings.Join(parts, "\n\n")
}

// BuildMessages assembles the system instruction carrying the context and the
// user's question.
func BuildMessages(context, question string) []domain.Message {
	return []domain.Message{
		{Role: domain.RoleSystem, Content: strings.Replace(systemPrompt, "{context}", context, 1)},
		{Role: domain.RoleUser, Content: question},
	}
}
